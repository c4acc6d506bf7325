package services

import (
	"github.com/jchou1989/XuanteaPOS-sub001/entity"

	"github.com/shopspring/decimal"
)

type MenuItem struct {
	Name string
	Type entity.ItemType
}

// Menu is the catalogue used for sample orders.
var Menu = []MenuItem{
	{Name: "Club Sandwich", Type: entity.ItemFood},
	{Name: "Chicken Wrap", Type: entity.ItemFood},
	{Name: "Cheese Croissant", Type: entity.ItemFood},
	{Name: "Caesar Salad", Type: entity.ItemFood},
	{Name: "Jasmine Tea", Type: entity.ItemBeverage},
	{Name: "Taro Milk Tea", Type: entity.ItemBeverage},
	{Name: "Brown Sugar Boba", Type: entity.ItemBeverage},
	{Name: "Matcha Latte", Type: entity.ItemBeverage},
}

// beverage options
var (
	Sizes       = []string{"Regular", "Large"}
	SugarLevels = []string{"0%", "25%", "50%", "75%", "100%"}
	IceLevels   = []string{"No Ice", "Less Ice", "Regular Ice"}
)

var (
	foodPrice     = decimal.NewFromInt(45)
	beveragePrice = decimal.NewFromInt(20)
)

// UnitPrice is the flat price per item type.
func UnitPrice(t entity.ItemType) decimal.Decimal {
	if t == entity.ItemFood {
		return foodPrice
	}
	return beveragePrice
}

// PrepTime is the kitchen estimate in minutes.
func PrepTime(t entity.ItemType) int {
	if t == entity.ItemFood {
		return 8
	}
	return 3
}

// PaymentMethodFor: aggregators settle online, in-store orders by card.
func PaymentMethodFor(s entity.Source) string {
	if s.IsAggregator() {
		return entity.PaymentOnline
	}
	return entity.PaymentCard
}

// BuildTransaction prices an order into a completed transaction without an id.
func BuildTransaction(o entity.Order, createdBy string) entity.Transaction {
	t := entity.Transaction{
		OrderNumber:   o.OrderNumber,
		Source:        o.Source,
		Status:        entity.TransactionCompleted,
		PaymentMethod: PaymentMethodFor(o.Source),
		OrderType:     o.OrderType,
		CreatedBy:     createdBy,
		Items:         make([]entity.TransactionItem, 0, len(o.Items)),
	}
	if o.OrderType == entity.OrderTypeDineIn && o.TableNumber != nil {
		n := *o.TableNumber
		t.TableNumber = &n
	}
	for _, it := range o.Items {
		ti := entity.TransactionItem{
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    UnitPrice(it.Type),
			Type:     it.Type,
		}
		if it.Customization != nil {
			c := *it.Customization
			ti.Customizations = &c
		}
		t.Items = append(t.Items, ti)
	}
	t.Amount = t.Total()
	return t
}
