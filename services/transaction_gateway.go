package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jchou1989/XuanteaPOS-sub001/entity"
	"github.com/jchou1989/XuanteaPOS-sub001/metrics"
	"github.com/jchou1989/XuanteaPOS-sub001/pkg/logger"
	"github.com/jchou1989/XuanteaPOS-sub001/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// LocalIDPrefix marks ids handed out when the transaction row could not be written.
const LocalIDPrefix = "local-"

const defaultListLimit = 50

var (
	ErrInvalidTransactionStatus = errors.New("status must be voided or refunded")
	ErrReasonRequired           = errors.New("a reason is required")
)

func IsLocalID(id string) bool { return strings.HasPrefix(id, LocalIDPrefix) }

// TransactionStore is the remote relational store.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, t *entity.Transaction) error
	CreateItems(ctx context.Context, transactionID string, items []entity.TransactionItem) error
	ListRecent(ctx context.Context, limit int) ([]entity.Transaction, error)
	ListItems(ctx context.Context, transactionID string) ([]entity.TransactionItem, error)
	UpdateStatus(ctx context.Context, id string, change entity.StatusChange) error
}

// PendingQueue holds transactions that failed to persist until the next sync.
type PendingQueue interface {
	Put(key string, t entity.Transaction) error
	List() ([]repository.PendingEntry, error)
	Delete(key string) error
	Len() (int, error)
}

type saveKind int

const (
	savePersisted saveKind = iota + 1
	savePendingLocal
)

// SaveResult is either Persisted(id) or PendingLocal(tempID). Callers must check
// which before treating the id as durable.
type SaveResult struct {
	kind saveKind
	id   string
}

func Persisted(id string) SaveResult    { return SaveResult{kind: savePersisted, id: id} }
func PendingLocal(id string) SaveResult { return SaveResult{kind: savePendingLocal, id: id} }

func (r SaveResult) IsPersisted() bool { return r.kind == savePersisted }

// PersistedID returns the store-assigned id, or false for a local fallback.
func (r SaveResult) PersistedID() (string, bool) {
	if r.kind != savePersisted {
		return "", false
	}
	return r.id, true
}

// LocalID returns the temporary id, or false when the row was persisted.
func (r SaveResult) LocalID() (string, bool) {
	if r.kind != savePendingLocal {
		return "", false
	}
	return r.id, true
}

// ID is the id to display whatever the variant.
func (r SaveResult) ID() string { return r.id }

func (r SaveResult) String() string {
	switch r.kind {
	case savePersisted:
		return "persisted(" + r.id + ")"
	case savePendingLocal:
		return "pending-local(" + r.id + ")"
	}
	return "unset"
}

// SyncReport summarises one SyncPending pass. Resolved maps local ids to the ids
// the store assigned.
type SyncReport struct {
	Synced    int               `json:"synced"`
	Failed    int               `json:"failed"`
	Discarded int               `json:"discarded"`
	Resolved  map[string]string `json:"resolved"`
}

type TransactionGateway struct {
	store   TransactionStore
	pending PendingQueue
	policy  RetryPolicy
	log     zerolog.Logger
	now     func() time.Time

	// one SyncPending pass at a time
	syncMu sync.Mutex
}

func NewTransactionGateway(store TransactionStore, pending PendingQueue, policy RetryPolicy, log zerolog.Logger) *TransactionGateway {
	return &TransactionGateway{
		store:   store,
		pending: pending,
		policy:  policy,
		log:     log,
		now:     time.Now,
	}
}

// CreateTransaction never fails: when the row cannot be written the transaction is
// queued locally and comes back with a local- id. The writes outlive ctx's
// cancellation so a caller going away cannot leave a row without its items.
func (g *TransactionGateway) CreateTransaction(ctx context.Context, t entity.Transaction) (entity.Transaction, SaveResult) {
	ctx = context.WithoutCancel(ctx)
	t = g.normalize(t)

	if err := g.insertRow(ctx, &t); err != nil {
		t.ID = LocalIDPrefix + uuid.NewString()
		metrics.RecordTransactionOperation("create", "fallback")
		g.log.Error().Err(err).
			Str(logger.ACTION, "transaction_write_failed").
			Str("order_number", t.OrderNumber).
			Str("local_id", t.ID).
			Msg("transaction not persisted, queued locally")
		if perr := g.pending.Put(t.ID, t); perr != nil {
			g.log.Error().Err(perr).
				Str(logger.ACTION, "pending_enqueue_failed").
				Str("local_id", t.ID).
				Msg("could not queue transaction")
		}
		g.refreshPendingGauge()
		return t, PendingLocal(t.ID)
	}

	metrics.RecordTransactionOperation("create", "success")
	g.insertItems(ctx, t)
	return t, Persisted(t.ID)
}

func (g *TransactionGateway) normalize(t entity.Transaction) entity.Transaction {
	t.ID = ""
	if t.Status == "" {
		t.Status = entity.TransactionCompleted
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = g.now().UTC()
	}
	if t.Amount.IsZero() && len(t.Items) > 0 {
		t.Amount = t.Total()
	}
	items := make([]entity.TransactionItem, len(t.Items))
	copy(items, t.Items)
	t.Items = items
	return t
}

func (g *TransactionGateway) insertRow(ctx context.Context, t *entity.Transaction) error {
	return Retry(ctx, g.policy, func(attempt int) error {
		row := *t
		row.ID = ""
		if err := g.store.CreateTransaction(ctx, &row); err != nil {
			g.log.Warn().Err(err).
				Str(logger.ACTION, "transaction_write_retry").
				Int("attempt", attempt).
				Msg("transaction row write failed")
			return err
		}
		t.ID = row.ID
		return nil
	})
}

func (g *TransactionGateway) insertItems(ctx context.Context, t entity.Transaction) {
	if len(t.Items) == 0 {
		return
	}
	err := Retry(ctx, g.policy, func(int) error {
		return g.store.CreateItems(ctx, t.ID, t.Items)
	})
	if err != nil {
		metrics.RecordTransactionOperation("create_items", "error")
		g.log.Error().Err(err).
			Str(logger.ACTION, "transaction_items_write_failed").
			Str("transaction_id", t.ID).
			Msg("transaction saved without items")
		return
	}
	metrics.RecordTransactionOperation("create_items", "success")
}

// ListTransactions returns up to limit transactions, newest first, each with its items.
func (g *TransactionGateway) ListTransactions(ctx context.Context, limit int) ([]entity.Transaction, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	list, err := g.store.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	for i := range list {
		items, err := g.store.ListItems(ctx, list[i].ID)
		if err != nil {
			return nil, fmt.Errorf("list items of %s: %w", list[i].ID, err)
		}
		list[i].Items = items
	}
	return list, nil
}

// UpdateStatus voids or refunds a transaction. Only bad input is reported; store
// failures are logged and swallowed so the caller can carry on.
func (g *TransactionGateway) UpdateStatus(ctx context.Context, id string, status entity.TransactionStatus, reason string) error {
	if status != entity.TransactionVoided && status != entity.TransactionRefunded {
		return fmt.Errorf("%w: %q", ErrInvalidTransactionStatus, status)
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrReasonRequired
	}
	if IsLocalID(id) {
		return nil
	}
	ctx = context.WithoutCancel(ctx)

	change := entity.StatusChange{Status: status, Reason: reason, At: g.now().UTC()}
	err := Retry(ctx, g.policy, func(int) error {
		err := g.store.UpdateStatus(ctx, id, change)
		if errors.Is(err, repository.ErrStatusUnchanged) {
			return Permanent(err)
		}
		return err
	})
	switch {
	case err == nil:
		metrics.RecordTransactionOperation("update_status", "success")
	case errors.Is(err, repository.ErrStatusUnchanged):
		g.log.Info().
			Str(logger.ACTION, "transaction_status_unchanged").
			Str("transaction_id", id).
			Str("status", string(status)).
			Msg("transaction already left completed state")
	default:
		metrics.RecordTransactionOperation("update_status", "error")
		g.log.Error().Err(err).
			Str(logger.ACTION, "transaction_status_failed").
			Str("transaction_id", id).
			Str("status", string(status)).
			Msg("status update gave up")
	}
	return nil
}

// SyncPending retries every queued transaction once through the retry policy.
// Persisted entries leave the queue, failures stay, undecodable ones are dropped.
// Passes are serialized; ctx is only checked between entries.
func (g *TransactionGateway) SyncPending(ctx context.Context) (SyncReport, error) {
	g.syncMu.Lock()
	defer g.syncMu.Unlock()

	write := context.WithoutCancel(ctx)
	report := SyncReport{Resolved: map[string]string{}}
	entries, err := g.pending.List()
	if err != nil {
		return report, fmt.Errorf("read pending queue: %w", err)
	}

	for _, e := range entries {
		if ctx.Err() != nil {
			break
		}
		if e.Err != nil {
			g.log.Error().Err(e.Err).
				Str(logger.ACTION, "pending_discarded").
				Str("local_id", e.Key).
				Msg("corrupt pending transaction dropped")
			if derr := g.pending.Delete(e.Key); derr != nil {
				return report, derr
			}
			report.Discarded++
			continue
		}

		t := e.Transaction
		if err := g.insertRow(write, &t); err != nil {
			report.Failed++
			g.log.Warn().Err(err).
				Str(logger.ACTION, "pending_sync").
				Str("local_id", e.Key).
				Msg("pending transaction still not persisted")
			continue
		}
		g.insertItems(write, t)
		if derr := g.pending.Delete(e.Key); derr != nil {
			return report, derr
		}
		metrics.RecordTransactionOperation("sync", "success")
		report.Synced++
		report.Resolved[e.Key] = t.ID
	}

	g.refreshPendingGauge()
	if report.Synced+report.Failed+report.Discarded > 0 {
		g.log.Info().
			Str(logger.ACTION, "pending_sync").
			Int("synced", report.Synced).
			Int("failed", report.Failed).
			Int("discarded", report.Discarded).
			Msg("pending queue drained")
	}
	return report, nil
}

// PendingCount is the number of transactions waiting for sync.
func (g *TransactionGateway) PendingCount() int {
	n, err := g.pending.Len()
	if err != nil {
		return 0
	}
	return n
}

func (g *TransactionGateway) refreshPendingGauge() {
	metrics.SetPendingTransactions(g.PendingCount())
}
