package services

import (
	"sync"

	"github.com/jchou1989/XuanteaPOS-sub001/entity"
	"github.com/jchou1989/XuanteaPOS-sub001/events"
	"github.com/jchou1989/XuanteaPOS-sub001/metrics"

	"github.com/shopspring/decimal"
)

type SalesSummary struct {
	Count           int                        `json:"count"`
	Total           decimal.Decimal            `json:"total"`
	BySource        map[string]decimal.Decimal `json:"bySource"`
	ByPaymentMethod map[string]decimal.Decimal `json:"byPaymentMethod"`
	ByOrderType     map[string]int             `json:"byOrderType"`
}

// SalesAnalytics keeps running totals of completed sales since process start.
type SalesAnalytics struct {
	mu      sync.RWMutex
	count   int
	total   decimal.Decimal
	source  map[string]decimal.Decimal
	payment map[string]decimal.Decimal
	types   map[string]int
}

func NewSalesAnalytics() *SalesAnalytics {
	return &SalesAnalytics{
		source:  map[string]decimal.Decimal{},
		payment: map[string]decimal.Decimal{},
		types:   map[string]int{},
	}
}

func (a *SalesAnalytics) Attach(bus *events.Bus) func() {
	return bus.Subscribe(events.NewAnalyticsTransaction, func(e events.Event) { a.Add(*e.Transaction) })
}

// Add counts completed transactions only.
func (a *SalesAnalytics) Add(t entity.Transaction) {
	if t.Status != "" && t.Status != entity.TransactionCompleted {
		return
	}
	a.mu.Lock()
	a.count++
	a.total = a.total.Add(t.Amount)
	a.source[string(t.Source)] = a.source[string(t.Source)].Add(t.Amount)
	a.payment[t.PaymentMethod] = a.payment[t.PaymentMethod].Add(t.Amount)
	a.types[string(t.OrderType)]++
	a.mu.Unlock()

	metrics.AddSales(string(t.Source), t.PaymentMethod, t.Amount.InexactFloat64())
}

func (a *SalesAnalytics) Summary() SalesSummary {
	a.mu.RLock()
	defer a.mu.RUnlock()
	s := SalesSummary{
		Count:           a.count,
		Total:           a.total,
		BySource:        make(map[string]decimal.Decimal, len(a.source)),
		ByPaymentMethod: make(map[string]decimal.Decimal, len(a.payment)),
		ByOrderType:     make(map[string]int, len(a.types)),
	}
	for k, v := range a.source {
		s.BySource[k] = v
	}
	for k, v := range a.payment {
		s.ByPaymentMethod[k] = v
	}
	for k, v := range a.types {
		s.ByOrderType[k] = v
	}
	return s
}
