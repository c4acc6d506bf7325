package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransactionStatus string

const (
	TransactionCompleted TransactionStatus = "completed"
	TransactionVoided    TransactionStatus = "voided"
	TransactionRefunded  TransactionStatus = "refunded"
)

func (s TransactionStatus) Valid() bool {
	return s == TransactionCompleted || s == TransactionVoided || s == TransactionRefunded
}

// Transaction is the billable record written once an order reaches a terminal state.
// Voided and refunded rows always carry a reason and a timestamp.
type Transaction struct {
	ID            string            `gorm:"primaryKey;size:64" json:"id"`
	OrderNumber   string            `gorm:"size:32;index;not null" json:"orderNumber"`
	Amount        decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"amount"`
	Source        Source            `gorm:"size:32;not null" json:"source"`
	Status        TransactionStatus `gorm:"size:16;not null;default:completed" json:"status"`
	PaymentMethod string            `gorm:"size:32" json:"paymentMethod"`
	TableNumber   *int              `json:"tableNumber,omitempty"`
	OrderType     OrderType         `gorm:"size:16;not null" json:"orderType"`
	UserID        *uint             `json:"userId,omitempty"`
	CreatedBy     string            `gorm:"size:64" json:"createdBy"`
	CreatedAt     time.Time         `gorm:"index" json:"createdAt"`

	VoidReason   *string             `json:"voidReason,omitempty"`
	VoidedAt     *time.Time          `json:"voidedAt,omitempty"`
	RefundReason *string             `json:"refundReason,omitempty"`
	RefundedAt   *time.Time          `json:"refundedAt,omitempty"`
	RefundAmount decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"refundAmount"`

	// written separately as transaction_items rows
	Items []TransactionItem `gorm:"-" json:"items"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	return nil
}

// Total sums price × quantity over the items.
func (t *Transaction) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range t.Items {
		sum = sum.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return sum
}

// StatusChange moves a completed transaction to voided or refunded.
type StatusChange struct {
	Status TransactionStatus
	Reason string
	At     time.Time
}
