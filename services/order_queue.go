package services

import (
	"strconv"
	"strings"
	"sync"

	"github.com/jchou1989/XuanteaPOS-sub001/entity"
	"github.com/jchou1989/XuanteaPOS-sub001/events"
)

// FilterAll disables a filter dimension.
const FilterAll = "all"

type OrderFilter struct {
	Source    string `form:"source"`
	Status    string `form:"status"`
	OrderType string `form:"type"`
	Query     string `form:"q"`
}

// OrderView is an order as shown on a card. DisplayNumber and StatusBadge are
// derived on every view and never stored.
type OrderView struct {
	entity.Order
	DisplayNumber string `json:"displayNumber"`
	StatusBadge   string `json:"statusBadge"`
}

// OrderQueue owns the active orders. Newest first.
// Repeated ids are kept as separate entries.
type OrderQueue struct {
	mu     sync.RWMutex
	orders []entity.Order
}

func NewOrderQueue() *OrderQueue {
	return &OrderQueue{}
}

// Attach feeds the queue from new-order and clear-orders events.
func (q *OrderQueue) Attach(bus *events.Bus) func() {
	offNew := bus.Subscribe(events.NewOrder, func(e events.Event) { q.Ingest(*e.Order) })
	offClear := bus.Subscribe(events.ClearOrders, func(events.Event) { q.Clear() })
	return func() {
		offNew()
		offClear()
	}
}

func (q *OrderQueue) Ingest(o entity.Order) {
	o = o.Clone()
	if o.Status == "" {
		o.Status = entity.OrderNew
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.orders = append([]entity.Order{o}, q.orders...)
}

func (q *OrderQueue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.orders = nil
}

// SetStatus updates every entry carrying id. It reports whether any matched.
func (q *OrderQueue) SetStatus(id string, status entity.OrderStatus) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	found := false
	for i := range q.orders {
		if q.orders[i].ID == id {
			q.orders[i].Status = status
			found = true
		}
	}
	return found
}

// Get returns the newest entry with id.
func (q *OrderQueue) Get(id string) (entity.Order, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	for _, o := range q.orders {
		if o.ID == id {
			return o.Clone(), true
		}
	}
	return entity.Order{}, false
}

func (q *OrderQueue) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.orders)
}

// View returns the orders matching every active filter, in queue order.
func (q *OrderQueue) View(f OrderFilter) []OrderView {
	q.mu.RLock()
	defer q.mu.RUnlock()

	query := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]OrderView, 0, len(q.orders))
	for _, o := range q.orders {
		if !matchesDimension(f.Source, string(o.Source)) ||
			!matchesDimension(f.Status, string(o.Status)) ||
			!matchesDimension(f.OrderType, string(o.OrderType)) {
			continue
		}
		v := NewOrderView(o)
		if query != "" && !matchesQuery(v.Order, query) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// NewOrderView drops the fields that do not apply to the order type and
// attaches the derived display fields.
func NewOrderView(o entity.Order) OrderView {
	o = o.Clone()
	if o.OrderType != entity.OrderTypeDineIn {
		o.TableNumber = nil
	}
	if o.OrderType != entity.OrderTypeDelivery {
		o.CustomerName = nil
		o.CustomerPhone = nil
		o.CustomerAddress = nil
	}
	return OrderView{
		Order:         o,
		DisplayNumber: DisplayNumber(o),
		StatusBadge:   o.Status.Badge(),
	}
}

// DisplayNumber suffixes the order number with its origin: WLK for walk-ins,
// the aggregator code for delivery platforms, or the first three letters of the
// tablet's device name.
func DisplayNumber(o entity.Order) string {
	suffix := ""
	switch {
	case o.OrderType == entity.OrderTypeWalkIn:
		suffix = "WLK"
	case o.Source.IsAggregator():
		suffix = o.Source.Code()
	case o.DeviceName != nil && strings.TrimSpace(*o.DeviceName) != "":
		name := []rune(strings.ToUpper(strings.TrimSpace(*o.DeviceName)))
		if len(name) > 3 {
			name = name[:3]
		}
		suffix = string(name)
	}
	if suffix == "" {
		return o.OrderNumber
	}
	return o.OrderNumber + "-" + suffix
}

func matchesDimension(want, got string) bool {
	want = strings.TrimSpace(want)
	if want == "" || strings.EqualFold(want, FilterAll) {
		return true
	}
	return strings.EqualFold(want, got)
}

// matchesQuery looks only at fields the card shows, so o must already be stripped
// by NewOrderView.
func matchesQuery(o entity.Order, query string) bool {
	if strings.Contains(strings.ToLower(o.OrderNumber), query) ||
		strings.Contains(strings.ToLower(DisplayNumber(o)), query) {
		return true
	}
	for _, it := range o.Items {
		if strings.Contains(strings.ToLower(it.Name), query) {
			return true
		}
	}
	if o.TableNumber != nil && strings.Contains(strconv.Itoa(*o.TableNumber), query) {
		return true
	}
	if o.CustomerName != nil && strings.Contains(strings.ToLower(*o.CustomerName), query) {
		return true
	}
	return false
}
