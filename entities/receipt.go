package entities

import (
	"time"

	"github.com/google/uuid"
)

const (
	ReceiptStatusPending   = "pending"
	ReceiptStatusProcessed = "processed"
	ReceiptStatusError     = "error"
)

type Receipt struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID string    `gorm:"index" json:"user_id"`

	FileKey         string    `json:"file_key"`
	FileName        string    `json:"file_name"`
	FileDisplayName string    `json:"file_display_name,omitempty"`
	Size            int64     `json:"size"`
	MimeType        string    `json:"mime_type"`
	UploadedAt      time.Time `gorm:"type:timestamp" json:"uploaded_at"`

	Status string `json:"status"` // pending, processed, error

	MerchantName      string  `json:"merchant_name,omitempty"`
	MerchantAddress   string  `json:"merchant_address,omitempty"`
	MerchantContact   string  `json:"merchant_contact,omitempty"`
	TransactionDate   string  `json:"transaction_date,omitempty"`
	ReceiptNumber     string  `json:"receipt_number,omitempty"`
	PaymentMethod     string  `json:"payment_method,omitempty"`
	TransactionAmount float64 `json:"transaction_amount,omitempty"`
	Subtotal          float64 `json:"subtotal,omitempty"`
	Tax               float64 `json:"tax,omitempty"`
	Currency          string  `json:"currency,omitempty"`
	ReceiptSummary    string  `gorm:"type:text" json:"receipt_summary,omitempty"`
	ProcessingError   string  `gorm:"type:text" json:"processing_error,omitempty"`

	Items []*ReceiptItem `gorm:"foreignKey:ReceiptID" json:"items,omitempty"`
	Timestamp
}

type ReceiptItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ReceiptID uuid.UUID `gorm:"index" json:"receipt_id"`
	Position  int       `json:"position"`

	Name       string  `json:"name"`
	Quantity   float64 `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	TotalPrice float64 `json:"total_price"`
}
