package entity

import "github.com/shopspring/decimal"

type TransactionItem struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	TransactionID  string          `gorm:"size:64;index;not null" json:"transactionId"`
	Name           string          `gorm:"size:128;not null" json:"name"`
	Quantity       int             `gorm:"not null" json:"quantity"`
	Price          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Type           ItemType        `gorm:"size:16" json:"type,omitempty"`
	Customizations *Customization  `gorm:"serializer:json" json:"customizations,omitempty"`
}
