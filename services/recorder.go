package services

import (
	"context"
	"time"

	"github.com/jchou1989/XuanteaPOS-sub001/entity"
	"github.com/jchou1989/XuanteaPOS-sub001/events"
	"github.com/jchou1989/XuanteaPOS-sub001/pkg/logger"

	"github.com/rs/zerolog"
)

const recordTimeout = 15 * time.Second

// TransactionRecorder listens for new-transaction. Transactions that arrive without an
// id are written through the gateway first. Every one is forwarded as
// new-analytics-transaction.
type TransactionRecorder struct {
	gateway TransactionCreator
	bus     *events.Bus
	log     zerolog.Logger
}

func NewTransactionRecorder(gateway TransactionCreator, bus *events.Bus, log zerolog.Logger) *TransactionRecorder {
	return &TransactionRecorder{gateway: gateway, bus: bus, log: log}
}

func (r *TransactionRecorder) Attach() func() {
	return r.bus.Subscribe(events.NewTransaction, func(e events.Event) { r.Record(*e.Transaction) })
}

func (r *TransactionRecorder) Record(t entity.Transaction) entity.Transaction {
	if t.ID == "" {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		var saved SaveResult
		t, saved = r.gateway.CreateTransaction(ctx, t)
		r.log.Debug().
			Str(logger.ACTION, "transaction_recorded").
			Str("order_number", t.OrderNumber).
			Str("result", saved.String()).
			Msg("incoming transaction stored")
	}
	if err := r.bus.Publish(events.AnalyticsTransaction(t)); err != nil {
		r.log.Error().Err(err).Str(logger.ACTION, "publish_failed").Msg("analytics event rejected")
	}
	return t
}
