package entity

const (
	PaymentCash   = "Cash"
	PaymentCard   = "Card"
	PaymentOnline = "Online"
)
