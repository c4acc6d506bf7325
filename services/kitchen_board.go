package services

import (
	"errors"
	"fmt"
	"sync"

	"github.com/jchou1989/XuanteaPOS-sub001/entity"
	"github.com/jchou1989/XuanteaPOS-sub001/events"
)

var (
	ErrKitchenOrderNotFound = errors.New("kitchen order not found")
	ErrKitchenItemNotFound  = errors.New("kitchen item not found")
)

// NewKitchenOrder annotates each item of o with its prep time, all pending.
func NewKitchenOrder(o entity.Order) entity.KitchenOrder {
	k := entity.KitchenOrder{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		Source:      o.Source,
		OrderType:   o.OrderType,
		CreatedAt:   o.CreatedAt,
		Items:       make([]entity.KitchenItem, 0, len(o.Items)),
	}
	if o.OrderType == entity.OrderTypeDineIn && o.TableNumber != nil {
		n := *o.TableNumber
		k.TableNumber = &n
	}
	for _, it := range o.Items {
		ki := entity.KitchenItem{
			ID:       it.ID,
			Name:     it.Name,
			Type:     it.Type,
			Quantity: it.Quantity,
			PrepTime: PrepTime(it.Type),
			Status:   entity.KitchenItemPending,
		}
		if it.Customization != nil {
			c := *it.Customization
			ki.Customization = &c
		}
		k.Items = append(k.Items, ki)
	}
	return k
}

// KitchenBoard is what the kitchen display shows. Newest first.
type KitchenBoard struct {
	mu     sync.RWMutex
	orders []entity.KitchenOrder
}

func NewKitchenBoard() *KitchenBoard {
	return &KitchenBoard{}
}

func (b *KitchenBoard) Attach(bus *events.Bus) func() {
	offNew := bus.Subscribe(events.NewKitchenOrder, func(e events.Event) { b.Add(*e.KitchenOrder) })
	offClear := bus.Subscribe(events.ClearKitchenOrders, func(events.Event) { b.Clear() })
	return func() {
		offNew()
		offClear()
	}
}

func (b *KitchenBoard) Add(k entity.KitchenOrder) {
	k.Items = append([]entity.KitchenItem(nil), k.Items...)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.orders = append([]entity.KitchenOrder{k}, b.orders...)
}

func (b *KitchenBoard) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.orders = nil
}

func (b *KitchenBoard) List() []entity.KitchenOrder {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]entity.KitchenOrder, len(b.orders))
	for i, k := range b.orders {
		k.Items = append([]entity.KitchenItem(nil), k.Items...)
		out[i] = k
	}
	return out
}

// SetItemStatus updates one item of the newest kitchen order with orderID.
func (b *KitchenBoard) SetItemStatus(orderID, itemID string, status entity.KitchenItemStatus) (entity.KitchenOrder, error) {
	if !status.Valid() {
		return entity.KitchenOrder{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.orders {
		if b.orders[i].ID != orderID {
			continue
		}
		for j := range b.orders[i].Items {
			if b.orders[i].Items[j].ID == itemID {
				b.orders[i].Items[j].Status = status
				k := b.orders[i]
				k.Items = append([]entity.KitchenItem(nil), k.Items...)
				return k, nil
			}
		}
		return entity.KitchenOrder{}, ErrKitchenItemNotFound
	}
	return entity.KitchenOrder{}, ErrKitchenOrderNotFound
}
