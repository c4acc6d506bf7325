package entity

import "time"

type KitchenItemStatus string

const (
	KitchenItemPending   KitchenItemStatus = "pending"
	KitchenItemPreparing KitchenItemStatus = "preparing"
	KitchenItemDone      KitchenItemStatus = "done"
)

func (s KitchenItemStatus) Valid() bool {
	return s == KitchenItemPending || s == KitchenItemPreparing || s == KitchenItemDone
}

// KitchenOrder is the kitchen display's view of an order.
type KitchenOrder struct {
	ID          string        `json:"id"`
	OrderNumber string        `json:"orderNumber"`
	Source      Source        `json:"source"`
	OrderType   OrderType     `json:"orderType"`
	TableNumber *int          `json:"tableNumber,omitempty"`
	Items       []KitchenItem `json:"items"`
	CreatedAt   time.Time     `json:"createdAt"`
}

type KitchenItem struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Type          ItemType          `json:"type"`
	Quantity      int               `json:"quantity"`
	PrepTime      int               `json:"prepTime"` // minutes
	Status        KitchenItemStatus `json:"status"`
	Customization *Customization    `json:"customization,omitempty"`
}
