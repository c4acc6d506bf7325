package entity

type OrderType string

const (
	OrderTypeDineIn   OrderType = "dine-in"
	OrderTypeDelivery OrderType = "delivery"
	OrderTypeWalkIn   OrderType = "walk-in"
)

func (t OrderType) Valid() bool {
	return t == OrderTypeDineIn || t == OrderTypeDelivery || t == OrderTypeWalkIn
}
