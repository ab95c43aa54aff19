package domain

import (
	"errors"
	"mime/multipart"
	"time"
)

// Uploads above this size are rejected before touching storage.
const MaxReceiptFileSize = 10 << 20

var (
	MessageSuccessUploadReceipt    = "receipt uploaded successfully"
	MessageSuccessGetReceipts      = "receipts retrieved successfully"
	MessageSuccessGetReceiptDetail = "receipt retrieved successfully"
	MessageSuccessUpdateReceipt    = "receipt updated successfully"
	MessageSuccessDeleteReceipt    = "receipt deleted successfully"
	MessageSuccessGetDownloadURL   = "download url generated successfully"

	MessageFailedUploadReceipt    = "failed to upload receipt"
	MessageFailedGetReceipts      = "failed to retrieve receipts"
	MessageFailedGetReceiptDetail = "failed to retrieve receipt"
	MessageFailedUpdateReceipt    = "failed to update receipt"
	MessageFailedDeleteReceipt    = "failed to delete receipt"
	MessageFailedGetDownloadURL   = "failed to generate download url"

	ErrReceiptNotFound = errors.New("receipt not found")
	ErrInvalidFileType = errors.New("only PDF receipts are accepted")
	ErrEmptyFile       = errors.New("uploaded file is empty")
	ErrFileTooLarge    = errors.New("uploaded file exceeds the size limit")
)

type (
	UploadReceiptRequest struct {
		File        *multipart.FileHeader `json:"file" form:"file" validate:"required"`
		DisplayName string                `json:"display_name" form:"display_name" validate:"omitempty,max=120"`
	}

	UploadReceiptResponse struct {
		ReceiptID  string    `json:"receipt_id"`
		FileName   string    `json:"file_name"`
		Status     string    `json:"status"`
		UploadedAt time.Time `json:"uploaded_at"`
	}

	ReceiptResponse struct {
		ID                string    `json:"id"`
		FileName          string    `json:"file_name"`
		FileDisplayName   string    `json:"file_display_name,omitempty"`
		Size              int64     `json:"size"`
		MimeType          string    `json:"mime_type"`
		UploadedAt        time.Time `json:"uploaded_at"`
		Status            string    `json:"status"`
		TransactionAmount float64   `json:"transaction_amount,omitempty"`
		Currency          string    `json:"currency,omitempty"`
	}

	ReceiptItemResponse struct {
		Name       string  `json:"name"`
		Quantity   float64 `json:"quantity"`
		UnitPrice  float64 `json:"unit_price"`
		TotalPrice float64 `json:"total_price"`
	}

	ReceiptDetailResponse struct {
		ID                string                `json:"id"`
		FileName          string                `json:"file_name"`
		FileDisplayName   string                `json:"file_display_name,omitempty"`
		Size              int64                 `json:"size"`
		MimeType          string                `json:"mime_type"`
		UploadedAt        time.Time             `json:"uploaded_at"`
		Status            string                `json:"status"`
		MerchantName      string                `json:"merchant_name,omitempty"`
		MerchantAddress   string                `json:"merchant_address,omitempty"`
		MerchantContact   string                `json:"merchant_contact,omitempty"`
		TransactionDate   string                `json:"transaction_date,omitempty"`
		ReceiptNumber     string                `json:"receipt_number,omitempty"`
		PaymentMethod     string                `json:"payment_method,omitempty"`
		TransactionAmount float64               `json:"transaction_amount,omitempty"`
		Subtotal          float64               `json:"subtotal,omitempty"`
		Tax               float64               `json:"tax,omitempty"`
		Currency          string                `json:"currency,omitempty"`
		ReceiptSummary    string                `json:"receipt_summary,omitempty"`
		Items             []ReceiptItemResponse `json:"items,omitempty"`
	}

	UpdateReceiptRequest struct {
		FileDisplayName string `json:"file_display_name" validate:"required,max=120"`
	}

	DownloadReceiptResponse struct {
		DownloadURL string `json:"download_url"`
		FileName    string `json:"file_name"`
		ExpiresIn   int    `json:"expires_in"`
	}
)
