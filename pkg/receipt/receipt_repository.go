package receipt

import (
	"Receipt-Radar-Backend/entities"
	"context"

	"gorm.io/gorm"
)

type (
	ReceiptRepository interface {
		CreateReceipt(ctx context.Context, receipt *entities.Receipt) error
		GetReceiptByID(ctx context.Context, id string) (*entities.Receipt, error)
		GetReceiptsByUser(ctx context.Context, userID string, page, limit int) ([]*entities.Receipt, int64, error)
		UpdateDisplayName(ctx context.Context, id string, displayName string) error
		DeleteReceipt(ctx context.Context, id string) error

		// Completion writes are guarded on the pending status so an
		// at-least-once orchestrator can replay them safely.
		CompleteReceipt(ctx context.Context, receipt *entities.Receipt, items []*entities.ReceiptItem) (bool, error)
		FailReceipt(ctx context.Context, id string, cause string) (bool, error)
	}

	receiptRepository struct {
		db *gorm.DB
	}
)

func NewReceiptRepository(db *gorm.DB) ReceiptRepository {
	return &receiptRepository{db: db}
}

func (r *receiptRepository) CreateReceipt(ctx context.Context, receipt *entities.Receipt) error {
	return r.db.WithContext(ctx).Create(receipt).Error
}

func (r *receiptRepository) GetReceiptByID(ctx context.Context, id string) (*entities.Receipt, error) {
	var receipt entities.Receipt
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc")
		}).
		Where("id = ?", id).
		First(&receipt).Error; err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (r *receiptRepository) GetReceiptsByUser(ctx context.Context, userID string, page, limit int) ([]*entities.Receipt, int64, error) {
	var receipts []*entities.Receipt
	var count int64

	offset := (page - 1) * limit

	query := r.db.WithContext(ctx).Where("user_id = ?", userID)

	if err := query.Model(&entities.Receipt{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Offset(offset).Limit(limit).Order("uploaded_at desc").Find(&receipts).Error; err != nil {
		return nil, 0, err
	}

	return receipts, count, nil
}

func (r *receiptRepository) UpdateDisplayName(ctx context.Context, id string, displayName string) error {
	return r.db.WithContext(ctx).Model(&entities.Receipt{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"file_display_name": displayName}).Error
}

func (r *receiptRepository) DeleteReceipt(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("receipt_id = ?", id).Delete(&entities.ReceiptItem{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entities.Receipt{}).Error
	})
}

func (r *receiptRepository) CompleteReceipt(ctx context.Context, receipt *entities.Receipt, items []*entities.ReceiptItem) (bool, error) {
	applied := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entities.Receipt{}).
			Where("id = ? AND status = ?", receipt.ID, entities.ReceiptStatusPending).
			Updates(map[string]interface{}{
				"status":             entities.ReceiptStatusProcessed,
				"merchant_name":      receipt.MerchantName,
				"merchant_address":   receipt.MerchantAddress,
				"merchant_contact":   receipt.MerchantContact,
				"transaction_date":   receipt.TransactionDate,
				"receipt_number":     receipt.ReceiptNumber,
				"payment_method":     receipt.PaymentMethod,
				"transaction_amount": receipt.TransactionAmount,
				"subtotal":           receipt.Subtotal,
				"tax":                receipt.Tax,
				"currency":           receipt.Currency,
				"receipt_summary":    receipt.ReceiptSummary,
				"processing_error":   "",
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Already finalized by an earlier delivery.
			return nil
		}

		if err := tx.Where("receipt_id = ?", receipt.ID).Delete(&entities.ReceiptItem{}).Error; err != nil {
			return err
		}
		if len(items) > 0 {
			if err := tx.Create(items).Error; err != nil {
				return err
			}
		}

		applied = true
		return nil
	})

	return applied, err
}

func (r *receiptRepository) FailReceipt(ctx context.Context, id string, cause string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&entities.Receipt{}).
		Where("id = ? AND status = ?", id, entities.ReceiptStatusPending).
		Updates(map[string]interface{}{
			"status":           entities.ReceiptStatusError,
			"processing_error": cause,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
