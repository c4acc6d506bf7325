// Package events is the in-process publish/subscribe bus that carries order,
// kitchen and transaction events between dashboard components.
package events

import (
	"errors"
	"fmt"
	"time"

	"github.com/jchou1989/XuanteaPOS-sub001/entity"
)

type Name string

const (
	NewOrder                Name = "new-order"
	ClearOrders             Name = "clear-orders"
	NewKitchenOrder         Name = "new-kitchen-order"
	ClearKitchenOrders      Name = "clear-kitchen-orders"
	NewTransaction          Name = "new-transaction"
	NewAnalyticsTransaction Name = "new-analytics-transaction"
)

// Names lists the whole vocabulary in a stable order.
var Names = []Name{
	NewOrder, ClearOrders, NewKitchenOrder, ClearKitchenOrders, NewTransaction, NewAnalyticsTransaction,
}

var (
	ErrUnknownEvent   = errors.New("unknown event name")
	ErrInvalidPayload = errors.New("invalid event payload")
)

func (n Name) Valid() bool {
	for _, v := range Names {
		if v == n {
			return true
		}
	}
	return false
}

// Event is a tagged payload: exactly the field that matches Name is set.
type Event struct {
	Name         Name                 `json:"name"`
	Order        *entity.Order        `json:"order,omitempty"`
	KitchenOrder *entity.KitchenOrder `json:"kitchenOrder,omitempty"`
	Transaction  *entity.Transaction  `json:"transaction,omitempty"`
	At           time.Time            `json:"at"`
}

func OrderPlaced(o entity.Order) Event {
	return Event{Name: NewOrder, Order: &o}
}

func OrdersCleared() Event { return Event{Name: ClearOrders} }

func KitchenOrderPlaced(k entity.KitchenOrder) Event {
	return Event{Name: NewKitchenOrder, KitchenOrder: &k}
}

func KitchenOrdersCleared() Event { return Event{Name: ClearKitchenOrders} }

func TransactionCreated(t entity.Transaction) Event {
	return Event{Name: NewTransaction, Transaction: &t}
}

func AnalyticsTransaction(t entity.Transaction) Event {
	return Event{Name: NewAnalyticsTransaction, Transaction: &t}
}

// Validate checks that the payload shape matches the event name.
func (e Event) Validate() error {
	if !e.Name.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownEvent, e.Name)
	}
	set := 0
	if e.Order != nil {
		set++
	}
	if e.KitchenOrder != nil {
		set++
	}
	if e.Transaction != nil {
		set++
	}

	switch e.Name {
	case ClearOrders, ClearKitchenOrders:
		if set != 0 {
			return fmt.Errorf("%w: %s carries no payload", ErrInvalidPayload, e.Name)
		}
	case NewOrder:
		if e.Order == nil || set != 1 {
			return fmt.Errorf("%w: %s needs an order", ErrInvalidPayload, e.Name)
		}
		if err := e.Order.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
	case NewKitchenOrder:
		if e.KitchenOrder == nil || set != 1 {
			return fmt.Errorf("%w: %s needs a kitchen order", ErrInvalidPayload, e.Name)
		}
		if e.KitchenOrder.ID == "" || len(e.KitchenOrder.Items) == 0 {
			return fmt.Errorf("%w: kitchen order needs an id and items", ErrInvalidPayload)
		}
	case NewTransaction, NewAnalyticsTransaction:
		if e.Transaction == nil || set != 1 {
			return fmt.Errorf("%w: %s needs a transaction", ErrInvalidPayload, e.Name)
		}
		if e.Transaction.OrderNumber == "" {
			return fmt.Errorf("%w: transaction needs an order number", ErrInvalidPayload)
		}
	}
	return nil
}
