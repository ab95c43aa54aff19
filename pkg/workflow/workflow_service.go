package workflow

import (
	"Receipt-Radar-Backend/entities"
	"Receipt-Radar-Backend/internal/utils/storage"
	"Receipt-Radar-Backend/pkg/extraction"
	"context"
	"log"
	"time"

	"github.com/google/uuid"
)

const (
	extractionTimeout = 90 * time.Second

	// Finalize writes run on their own clock so a receipt cannot stick in
	// pending because the extraction deadline lapsed mid-write.
	finalizeTimeout = 10 * time.Second
)

type (
	// WorkflowService runs one extraction per uploaded receipt and writes the
	// terminal status back. Delivery is assumed at-least-once, so every write
	// is idempotent.
	WorkflowService interface {
		ProcessReceipt(ctx context.Context, receiptID string, notifyEmail string)
	}

	ReceiptStore interface {
		GetReceiptByID(ctx context.Context, id string) (*entities.Receipt, error)
		CompleteReceipt(ctx context.Context, receipt *entities.Receipt, items []*entities.ReceiptItem) (bool, error)
		FailReceipt(ctx context.Context, id string, cause string) (bool, error)
	}

	Notifier interface {
		ReceiptProcessed(toEmail string, receipt *entities.Receipt) error
	}

	workflowService struct {
		store    ReceiptStore
		s3       storage.AwsS3
		agent    extraction.ExtractionAgent
		notifier Notifier
	}
)

func NewWorkflowService(store ReceiptStore, s3 storage.AwsS3, agent extraction.ExtractionAgent, notifier Notifier) WorkflowService {
	return &workflowService{
		store:    store,
		s3:       s3,
		agent:    agent,
		notifier: notifier,
	}
}

func (s *workflowService) ProcessReceipt(ctx context.Context, receiptID string, notifyEmail string) {
	receipt, err := s.store.GetReceiptByID(ctx, receiptID)
	if err != nil {
		log.Printf("workflow: loading receipt %s: %v", receiptID, err)
		return
	}

	if receipt.Status != entities.ReceiptStatusPending {
		// Duplicate delivery for an already finalized receipt.
		return
	}

	ctx, cancel := context.WithTimeout(ctx, extractionTimeout)
	defer cancel()

	fileURL, err := s.s3.PresignLink(receipt.FileKey, extractionTimeout)
	if err != nil {
		s.fail(ctx, receiptID, "could not resolve receipt file: "+err.Error())
		return
	}

	result, err := s.agent.ExtractReceipt(ctx, fileURL)
	if err != nil {
		s.fail(context.Background(), receiptID, err.Error())
		return
	}

	items := buildItems(receipt.ID, result.Items)
	applyExtraction(receipt, result)

	writeCtx, cancelWrite := context.WithTimeout(context.Background(), finalizeTimeout)
	defer cancelWrite()

	applied, err := s.store.CompleteReceipt(writeCtx, receipt, items)
	if err != nil {
		log.Printf("workflow: completing receipt %s: %v", receiptID, err)
		s.fail(context.Background(), receiptID, "persisting extraction: "+err.Error())
		return
	}
	if !applied {
		log.Printf("workflow: receipt %s already finalized, skipping", receiptID)
		return
	}

	if notifyEmail != "" && s.notifier != nil {
		if err := s.notifier.ReceiptProcessed(notifyEmail, receipt); err != nil {
			log.Printf("workflow: notifying %s about receipt %s: %v", notifyEmail, receiptID, err)
		}
	}
}

func (s *workflowService) fail(ctx context.Context, receiptID string, cause string) {
	if _, err := s.store.FailReceipt(ctx, receiptID, cause); err != nil {
		log.Printf("workflow: failing receipt %s: %v", receiptID, err)
	}
}

func applyExtraction(receipt *entities.Receipt, result *extraction.ReceiptExtraction) {
	receipt.Status = entities.ReceiptStatusProcessed
	receipt.MerchantName = result.Merchant.Name
	receipt.MerchantAddress = result.Merchant.Address
	receipt.MerchantContact = result.Merchant.Contact
	receipt.TransactionDate = result.Transaction.Date
	receipt.ReceiptNumber = result.Transaction.ReceiptNumber
	receipt.PaymentMethod = result.Transaction.PaymentMethod
	receipt.TransactionAmount = result.Total.Total
	receipt.Subtotal = result.Total.Subtotal
	receipt.Tax = result.Total.Tax
	receipt.Currency = result.Total.Currency
	receipt.ReceiptSummary = result.Summary
}

func buildItems(receiptID uuid.UUID, items []extraction.Item) []*entities.ReceiptItem {
	built := make([]*entities.ReceiptItem, 0, len(items))
	for i, item := range items {
		built = append(built, &entities.ReceiptItem{
			ID:         uuid.New(),
			ReceiptID:  receiptID,
			Position:   i,
			Name:       item.Name,
			Quantity:   item.Quantity,
			UnitPrice:  item.Price,
			TotalPrice: item.Total,
		})
	}
	return built
}
