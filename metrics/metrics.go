package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pos_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	eventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_events_published_total",
			Help: "Events published on the dashboard bus",
		},
		[]string{"event"},
	)

	transactionWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_transaction_writes_total",
			Help: "Transaction persistence operations by outcome",
		},
		[]string{"operation", "status"},
	)

	pendingTransactions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pos_pending_transactions",
			Help: "Transactions waiting in the local pending queue",
		},
	)

	salesAmount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_sales_amount_total",
			Help: "Sum of transaction amounts by source and payment method",
		},
		[]string{"source", "payment_method"},
	)
)

func RecordEvent(name string) {
	eventsPublished.WithLabelValues(name).Inc()
}

// RecordTransactionOperation counts a gateway write; status is success, error or fallback.
func RecordTransactionOperation(operation, status string) {
	transactionWrites.WithLabelValues(operation, status).Inc()
}

func SetPendingTransactions(n int) {
	pendingTransactions.Set(float64(n))
}

func AddSales(source, paymentMethod string, amount float64) {
	if amount <= 0 {
		return
	}
	salesAmount.WithLabelValues(source, paymentMethod).Add(amount)
}
