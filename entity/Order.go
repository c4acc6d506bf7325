package entity

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrOrderID      = errors.New("order id is required")
	ErrOrderNumber  = errors.New("order number is required")
	ErrOrderType    = errors.New("invalid order type")
	ErrOrderSource  = errors.New("invalid order source")
	ErrTableNumber  = errors.New("dine-in orders need a table number")
	ErrOrderItems   = errors.New("order needs at least one item")
	ErrItemQuantity = errors.New("item quantity must be positive")
	ErrItemType     = errors.New("invalid item type")
)

// Order lives only in memory; the order queue owns the active set.
type Order struct {
	ID          string      `json:"id"`
	OrderNumber string      `json:"orderNumber"`
	Source      Source      `json:"source"`
	Status      OrderStatus `json:"status"`
	Items       []OrderItem `json:"items"`
	CreatedAt   time.Time   `json:"createdAt"`
	OrderType   OrderType   `json:"orderType"`

	// dine-in only
	TableNumber *int `json:"tableNumber,omitempty"`

	// delivery only
	CustomerName    *string `json:"customerName,omitempty"`
	CustomerPhone   *string `json:"customerPhone,omitempty"`
	CustomerAddress *string `json:"customerAddress,omitempty"`

	// tablet only
	DeviceName *string `json:"deviceName,omitempty"`
}

func (o *Order) Validate() error {
	if o.ID == "" {
		return ErrOrderID
	}
	if o.OrderNumber == "" {
		return ErrOrderNumber
	}
	if !o.Source.Valid() {
		return fmt.Errorf("%w: %q", ErrOrderSource, o.Source)
	}
	if !o.OrderType.Valid() {
		return fmt.Errorf("%w: %q", ErrOrderType, o.OrderType)
	}
	if o.OrderType == OrderTypeDineIn && o.TableNumber == nil {
		return ErrTableNumber
	}
	if len(o.Items) == 0 {
		return ErrOrderItems
	}
	for _, it := range o.Items {
		if it.Quantity <= 0 {
			return fmt.Errorf("%w: %s", ErrItemQuantity, it.Name)
		}
		if !it.Type.Valid() {
			return fmt.Errorf("%w: %q", ErrItemType, it.Type)
		}
	}
	return nil
}

// Clone returns a copy that shares no slices with o.
func (o Order) Clone() Order {
	items := make([]OrderItem, len(o.Items))
	for i, it := range o.Items {
		items[i] = it
		if it.Customization != nil {
			c := *it.Customization
			items[i].Customization = &c
		}
	}
	o.Items = items
	return o
}
