package entity

type OrderStatus string

const (
	OrderNew        OrderStatus = "new"
	OrderProcessing OrderStatus = "processing"
	OrderReady      OrderStatus = "ready"
	OrderCompleted  OrderStatus = "completed"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderNew, OrderProcessing, OrderReady, OrderCompleted:
		return true
	}
	return false
}

// Badge is the label shown on an order card.
func (s OrderStatus) Badge() string {
	switch s {
	case OrderNew:
		return "New"
	case OrderProcessing:
		return "Processing"
	case OrderReady:
		return "Ready"
	case OrderCompleted:
		return "Completed"
	}
	return "Unknown"
}
