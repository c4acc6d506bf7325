package repository

import (
	"context"
	"errors"

	"github.com/jchou1989/XuanteaPOS-sub001/entity"

	"gorm.io/gorm"
)

// ErrStatusUnchanged means the guarded update matched no completed row.
var ErrStatusUnchanged = errors.New("transaction is not in completed state")

type TransactionRepository struct {
	DB *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{DB: db}
}

// CreateTransaction inserts the transaction row only; items go through CreateItems.
func (r *TransactionRepository) CreateTransaction(ctx context.Context, t *entity.Transaction) error {
	return r.DB.WithContext(ctx).Create(t).Error
}

func (r *TransactionRepository) CreateItems(ctx context.Context, transactionID string, items []entity.TransactionItem) error {
	if len(items) == 0 {
		return nil
	}
	rows := make([]entity.TransactionItem, len(items))
	for i, it := range items {
		it.ID = 0
		it.TransactionID = transactionID
		rows[i] = it
	}
	return r.DB.WithContext(ctx).Create(&rows).Error
}

// ListRecent returns up to limit transactions, newest first, without items.
func (r *TransactionRepository) ListRecent(ctx context.Context, limit int) ([]entity.Transaction, error) {
	var out []entity.Transaction
	err := r.DB.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *TransactionRepository) ListItems(ctx context.Context, transactionID string) ([]entity.TransactionItem, error) {
	var items []entity.TransactionItem
	err := r.DB.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		Order("id ASC").
		Find(&items).Error
	return items, err
}

func (r *TransactionRepository) FindByID(ctx context.Context, id string) (*entity.Transaction, error) {
	var t entity.Transaction
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateStatus moves a completed transaction to voided or refunded (guarded, one shot).
func (r *TransactionRepository) UpdateStatus(ctx context.Context, id string, change entity.StatusChange) error {
	updates := map[string]any{"status": change.Status}
	switch change.Status {
	case entity.TransactionVoided:
		updates["void_reason"] = change.Reason
		updates["voided_at"] = change.At
	case entity.TransactionRefunded:
		updates["refund_reason"] = change.Reason
		updates["refunded_at"] = change.At
		updates["refund_amount"] = gorm.Expr("amount")
	}

	res := r.DB.WithContext(ctx).Model(&entity.Transaction{}).
		Where("id = ? AND status = ?", id, entity.TransactionCompleted).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStatusUnchanged
	}
	return nil
}
