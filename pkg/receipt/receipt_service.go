package receipt

import (
	"Receipt-Radar-Backend/domain"
	"Receipt-Radar-Backend/entities"
	"Receipt-Radar-Backend/internal/utils/storage"
	"Receipt-Radar-Backend/pkg/workflow"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const downloadLinkTTL = 15 * time.Minute

type (
	ReceiptService interface {
		UploadReceipt(ctx context.Context, req domain.UploadReceiptRequest, userID string, userEmail string) (domain.UploadReceiptResponse, error)
		GetReceipts(ctx context.Context, userID string, page, limit int) ([]domain.ReceiptResponse, int64, error)
		GetReceiptByID(ctx context.Context, id string, userID string) (domain.ReceiptDetailResponse, error)
		GetReceiptDownloadURL(ctx context.Context, id string, userID string) (domain.DownloadReceiptResponse, error)
		UpdateReceipt(ctx context.Context, id string, req domain.UpdateReceiptRequest, userID string) error
		DeleteReceipt(ctx context.Context, id string, userID string) error
	}

	receiptService struct {
		receiptRepository ReceiptRepository
		s3                storage.AwsS3
		workflow          workflow.WorkflowService
	}
)

func NewReceiptService(receiptRepository ReceiptRepository, s3 storage.AwsS3, workflowService workflow.WorkflowService) ReceiptService {
	return &receiptService{
		receiptRepository: receiptRepository,
		s3:                s3,
		workflow:          workflowService,
	}
}

func (s *receiptService) UploadReceipt(ctx context.Context, req domain.UploadReceiptRequest, userID string, userEmail string) (domain.UploadReceiptResponse, error) {
	if err := validateReceiptFile(req.File.Header.Get("Content-Type"), req.File.Filename, req.File.Size); err != nil {
		return domain.UploadReceiptResponse{}, err
	}

	if req.File.Header.Get("Content-Type") == "" {
		req.File.Header.Set("Content-Type", "application/pdf")
	}

	receiptID := uuid.New()
	fileName := fmt.Sprintf("receipt-%s", receiptID.String())

	objectKey, err := s.s3.UploadFile(fileName, req.File, "receipts", storage.AllowPDF...)
	if err != nil {
		return domain.UploadReceiptResponse{}, err
	}

	receipt := &entities.Receipt{
		ID:              receiptID,
		UserID:          userID,
		FileKey:         objectKey,
		FileName:        req.File.Filename,
		FileDisplayName: req.DisplayName,
		Size:            req.File.Size,
		MimeType:        "application/pdf",
		UploadedAt:      time.Now(),
		Status:          entities.ReceiptStatusPending,
	}

	if err := s.receiptRepository.CreateReceipt(ctx, receipt); err != nil {
		_ = s.s3.DeleteFile(objectKey)
		return domain.UploadReceiptResponse{}, err
	}

	go s.workflow.ProcessReceipt(context.Background(), receipt.ID.String(), userEmail)

	return domain.UploadReceiptResponse{
		ReceiptID:  receipt.ID.String(),
		FileName:   receipt.FileName,
		Status:     receipt.Status,
		UploadedAt: receipt.UploadedAt,
	}, nil
}

func (s *receiptService) GetReceipts(ctx context.Context, userID string, page, limit int) ([]domain.ReceiptResponse, int64, error) {
	receipts, count, err := s.receiptRepository.GetReceiptsByUser(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	var response []domain.ReceiptResponse
	for _, receipt := range receipts {
		row := domain.ReceiptResponse{
			ID:              receipt.ID.String(),
			FileName:        receipt.FileName,
			FileDisplayName: receipt.FileDisplayName,
			Size:            receipt.Size,
			MimeType:        receipt.MimeType,
			UploadedAt:      receipt.UploadedAt,
			Status:          receipt.Status,
		}
		if receipt.Status == entities.ReceiptStatusProcessed {
			row.TransactionAmount = receipt.TransactionAmount
			row.Currency = receipt.Currency
		}
		response = append(response, row)
	}

	return response, count, nil
}

func (s *receiptService) GetReceiptByID(ctx context.Context, id string, userID string) (domain.ReceiptDetailResponse, error) {
	receipt, err := s.getOwnedReceipt(ctx, id, userID)
	if err != nil {
		return domain.ReceiptDetailResponse{}, err
	}

	response := domain.ReceiptDetailResponse{
		ID:                receipt.ID.String(),
		FileName:          receipt.FileName,
		FileDisplayName:   receipt.FileDisplayName,
		Size:              receipt.Size,
		MimeType:          receipt.MimeType,
		UploadedAt:        receipt.UploadedAt,
		Status:            receipt.Status,
		MerchantName:      receipt.MerchantName,
		MerchantAddress:   receipt.MerchantAddress,
		MerchantContact:   receipt.MerchantContact,
		TransactionDate:   receipt.TransactionDate,
		ReceiptNumber:     receipt.ReceiptNumber,
		PaymentMethod:     receipt.PaymentMethod,
		TransactionAmount: receipt.TransactionAmount,
		Subtotal:          receipt.Subtotal,
		Tax:               receipt.Tax,
		Currency:          receipt.Currency,
		ReceiptSummary:    receipt.ReceiptSummary,
	}

	for _, item := range receipt.Items {
		response.Items = append(response.Items, domain.ReceiptItemResponse{
			Name:       item.Name,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
		})
	}

	return response, nil
}

func (s *receiptService) GetReceiptDownloadURL(ctx context.Context, id string, userID string) (domain.DownloadReceiptResponse, error) {
	receipt, err := s.getOwnedReceipt(ctx, id, userID)
	if err != nil {
		return domain.DownloadReceiptResponse{}, err
	}

	downloadURL, err := s.s3.PresignLink(receipt.FileKey, downloadLinkTTL)
	if err != nil {
		return domain.DownloadReceiptResponse{}, err
	}

	return domain.DownloadReceiptResponse{
		DownloadURL: downloadURL,
		FileName:    receipt.FileName,
		ExpiresIn:   int(downloadLinkTTL.Seconds()),
	}, nil
}

func (s *receiptService) UpdateReceipt(ctx context.Context, id string, req domain.UpdateReceiptRequest, userID string) error {
	receipt, err := s.getOwnedReceipt(ctx, id, userID)
	if err != nil {
		return err
	}

	return s.receiptRepository.UpdateDisplayName(ctx, receipt.ID.String(), req.FileDisplayName)
}

func (s *receiptService) DeleteReceipt(ctx context.Context, id string, userID string) error {
	receipt, err := s.getOwnedReceipt(ctx, id, userID)
	if err != nil {
		return err
	}

	if err := s.receiptRepository.DeleteReceipt(ctx, receipt.ID.String()); err != nil {
		return err
	}

	if receipt.FileKey != "" {
		_ = s.s3.DeleteFile(receipt.FileKey)
	}

	return nil
}

// getOwnedReceipt answers identically for absent ids and ids owned by someone
// else, so callers cannot probe for foreign receipts.
func (s *receiptService) getOwnedReceipt(ctx context.Context, id string, userID string) (*entities.Receipt, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrReceiptNotFound
	}

	receipt, err := s.receiptRepository.GetReceiptByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrReceiptNotFound
		}
		return nil, err
	}

	if receipt.UserID != userID {
		return nil, domain.ErrReceiptNotFound
	}

	return receipt, nil
}

func validateReceiptFile(contentType string, filename string, size int64) error {
	if size == 0 {
		return domain.ErrEmptyFile
	}
	if size > domain.MaxReceiptFileSize {
		return domain.ErrFileTooLarge
	}

	if contentType == "" {
		if strings.ToLower(filepath.Ext(filename)) == ".pdf" {
			return nil
		}
		return domain.ErrInvalidFileType
	}

	if !strings.EqualFold(contentType, "application/pdf") {
		return domain.ErrInvalidFileType
	}

	return nil
}
