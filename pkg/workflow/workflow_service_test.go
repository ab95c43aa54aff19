package workflow

import (
	"Receipt-Radar-Backend/entities"
	"Receipt-Radar-Backend/pkg/extraction"
	"context"
	"errors"
	"mime/multipart"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memoryStore struct {
	receipt       *entities.Receipt
	items         []*entities.ReceiptItem
	completeCalls int
	failCalls     int
}

func (s *memoryStore) GetReceiptByID(_ context.Context, id string) (*entities.Receipt, error) {
	if s.receipt == nil || s.receipt.ID.String() != id {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s.receipt
	return &copied, nil
}

func (s *memoryStore) CompleteReceipt(ctx context.Context, receipt *entities.Receipt, items []*entities.ReceiptItem) (bool, error) {
	s.completeCalls++
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if s.receipt.Status != entities.ReceiptStatusPending {
		return false, nil
	}
	*s.receipt = *receipt
	s.receipt.Status = entities.ReceiptStatusProcessed
	s.items = items
	return true, nil
}

func (s *memoryStore) FailReceipt(_ context.Context, id string, cause string) (bool, error) {
	s.failCalls++
	if s.receipt.Status != entities.ReceiptStatusPending {
		return false, nil
	}
	s.receipt.Status = entities.ReceiptStatusError
	s.receipt.ProcessingError = cause
	return true, nil
}

type failingCompleteStore struct {
	*memoryStore
	completeErr error
}

func (s *failingCompleteStore) CompleteReceipt(_ context.Context, _ *entities.Receipt, _ []*entities.ReceiptItem) (bool, error) {
	s.completeCalls++
	return false, s.completeErr
}

type presignOnlyStorage struct {
	presignErr error
}

func (s *presignOnlyStorage) UploadFile(string, *multipart.FileHeader, string, ...string) (string, error) {
	return "", errors.New("not implemented")
}

func (s *presignOnlyStorage) DeleteFile(string) error { return nil }

func (s *presignOnlyStorage) PresignLink(objectKey string, _ time.Duration) (string, error) {
	if s.presignErr != nil {
		return "", s.presignErr
	}
	return "https://signed.example.com/" + objectKey, nil
}

type stubAgent struct {
	result   *extraction.ReceiptExtraction
	err      error
	lastURL  string
	runCount int
}

func (a *stubAgent) ExtractReceipt(_ context.Context, fileURL string) (*extraction.ReceiptExtraction, error) {
	a.runCount++
	a.lastURL = fileURL
	return a.result, a.err
}

func (a *stubAgent) Close() error { return nil }

type recordingNotifier struct {
	emails []string
}

func (n *recordingNotifier) ReceiptProcessed(toEmail string, _ *entities.Receipt) error {
	n.emails = append(n.emails, toEmail)
	return nil
}

func pendingReceiptStore() *memoryStore {
	return &memoryStore{
		receipt: &entities.Receipt{
			ID:         uuid.New(),
			UserID:     "user-1",
			FileKey:    "receipts/receipt-x.pdf",
			FileName:   "groceries.pdf",
			UploadedAt: time.Now(),
			Status:     entities.ReceiptStatusPending,
		},
	}
}

func coffeeExtraction() *extraction.ReceiptExtraction {
	return &extraction.ReceiptExtraction{
		Merchant: extraction.Merchant{Name: "Corner Deli", Address: "12 Elm St", Contact: "+15550100"},
		Transaction: extraction.Transaction{
			Date:          "2026-03-14",
			ReceiptNumber: "R-4471",
			PaymentMethod: "Credit Card",
		},
		Items: []extraction.Item{
			{Name: "Coffee", Quantity: 2, Price: 3.5, Total: 7.0},
		},
		Total:   extraction.Total{Subtotal: 7.0, Tax: 0, Total: 7.0, Currency: "USD"},
		Summary: "Coffee run.",
	}
}

func TestProcessReceiptSuccess(t *testing.T) {
	store := pendingReceiptStore()
	agent := &stubAgent{result: coffeeExtraction()}
	notifier := &recordingNotifier{}
	service := NewWorkflowService(store, &presignOnlyStorage{}, agent, notifier)

	service.ProcessReceipt(context.Background(), store.receipt.ID.String(), "user@example.com")

	assert.Equal(t, "https://signed.example.com/receipts/receipt-x.pdf", agent.lastURL)

	got := store.receipt
	assert.Equal(t, entities.ReceiptStatusProcessed, got.Status)
	assert.Equal(t, "Corner Deli", got.MerchantName)
	assert.Equal(t, "2026-03-14", got.TransactionDate)
	assert.Equal(t, "Credit Card", got.PaymentMethod)
	assert.Equal(t, 7.0, got.TransactionAmount)
	assert.Equal(t, "USD", got.Currency)
	assert.Equal(t, "Coffee run.", got.ReceiptSummary)

	require.Len(t, store.items, 1)
	item := store.items[0]
	assert.Equal(t, "Coffee", item.Name)
	assert.Equal(t, 2.0, item.Quantity)
	assert.Equal(t, 3.5, item.UnitPrice)
	assert.Equal(t, 7.0, item.TotalPrice)
	assert.Equal(t, 0, item.Position)
	assert.Equal(t, store.receipt.ID, item.ReceiptID)

	assert.Equal(t, []string{"user@example.com"}, notifier.emails)
}

func TestProcessReceiptAgentFailure(t *testing.T) {
	store := pendingReceiptStore()
	agent := &stubAgent{err: errors.New("model unavailable")}
	notifier := &recordingNotifier{}
	service := NewWorkflowService(store, &presignOnlyStorage{}, agent, notifier)

	service.ProcessReceipt(context.Background(), store.receipt.ID.String(), "user@example.com")

	assert.Equal(t, entities.ReceiptStatusError, store.receipt.Status)
	assert.Equal(t, "model unavailable", store.receipt.ProcessingError)
	assert.Empty(t, notifier.emails, "failed extractions never notify")
}

func TestProcessReceiptPresignFailure(t *testing.T) {
	store := pendingReceiptStore()
	agent := &stubAgent{result: coffeeExtraction()}
	service := NewWorkflowService(store, &presignOnlyStorage{presignErr: errors.New("bucket gone")}, agent, nil)

	service.ProcessReceipt(context.Background(), store.receipt.ID.String(), "")

	assert.Equal(t, entities.ReceiptStatusError, store.receipt.Status)
	assert.Zero(t, agent.runCount, "agent must not run without a file URL")
}

func TestProcessReceiptFinalizesPastExtractionDeadline(t *testing.T) {
	store := pendingReceiptStore()
	agent := &stubAgent{result: coffeeExtraction()}
	notifier := &recordingNotifier{}
	service := NewWorkflowService(store, &presignOnlyStorage{}, agent, notifier)

	// Extraction finishing right at the deadline must still settle the
	// receipt, so the finalize write cannot ride the expired context.
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Millisecond))
	defer cancel()

	service.ProcessReceipt(ctx, store.receipt.ID.String(), "user@example.com")

	assert.Equal(t, entities.ReceiptStatusProcessed, store.receipt.Status)
	assert.Equal(t, []string{"user@example.com"}, notifier.emails)
}

func TestProcessReceiptCompleteFailureStillReachesTerminalState(t *testing.T) {
	store := &failingCompleteStore{
		memoryStore: pendingReceiptStore(),
		completeErr: errors.New("connection reset"),
	}
	agent := &stubAgent{result: coffeeExtraction()}
	notifier := &recordingNotifier{}
	service := NewWorkflowService(store, &presignOnlyStorage{}, agent, notifier)

	service.ProcessReceipt(context.Background(), store.receipt.ID.String(), "user@example.com")

	assert.Equal(t, entities.ReceiptStatusError, store.receipt.Status)
	assert.Contains(t, store.receipt.ProcessingError, "connection reset")
	assert.Equal(t, 1, store.failCalls)
	assert.Empty(t, notifier.emails, "unfinalized receipts never notify")
}

func TestProcessReceiptAtLeastOnceDelivery(t *testing.T) {
	store := pendingReceiptStore()
	agent := &stubAgent{result: coffeeExtraction()}
	notifier := &recordingNotifier{}
	service := NewWorkflowService(store, &presignOnlyStorage{}, agent, notifier)

	service.ProcessReceipt(context.Background(), store.receipt.ID.String(), "user@example.com")
	service.ProcessReceipt(context.Background(), store.receipt.ID.String(), "user@example.com")

	assert.Equal(t, entities.ReceiptStatusProcessed, store.receipt.Status)
	assert.Equal(t, 1, agent.runCount, "duplicate delivery must not call the model again")
	assert.Equal(t, 1, store.completeCalls)
	assert.Len(t, store.items, 1, "items must not be duplicated")
	assert.Equal(t, []string{"user@example.com"}, notifier.emails, "only one notification may go out")
}

func TestProcessReceiptTerminalErrorIsSticky(t *testing.T) {
	store := pendingReceiptStore()
	store.receipt.Status = entities.ReceiptStatusError
	agent := &stubAgent{result: coffeeExtraction()}
	service := NewWorkflowService(store, &presignOnlyStorage{}, agent, nil)

	service.ProcessReceipt(context.Background(), store.receipt.ID.String(), "")

	assert.Equal(t, entities.ReceiptStatusError, store.receipt.Status)
	assert.Zero(t, agent.runCount, "failed receipts are not retried automatically")
}

func TestProcessReceiptUnknownID(t *testing.T) {
	store := pendingReceiptStore()
	agent := &stubAgent{result: coffeeExtraction()}
	service := NewWorkflowService(store, &presignOnlyStorage{}, agent, nil)

	service.ProcessReceipt(context.Background(), uuid.NewString(), "")

	assert.Equal(t, entities.ReceiptStatusPending, store.receipt.Status)
	assert.Zero(t, agent.runCount)
}
