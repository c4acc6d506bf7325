package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jchou1989/XuanteaPOS-sub001/entity"
	"github.com/jchou1989/XuanteaPOS-sub001/repository"

	"github.com/rs/zerolog"
)

var errBackend = errors.New("backend unavailable")

func noSleepPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts:  3,
		BaseDelay: time.Second,
		Sleep:     func(context.Context, time.Duration) error { return nil },
	}
}

// fakeStore is an in-memory TransactionStore whose calls can be made to fail.
type fakeStore struct {
	mu sync.Mutex

	failCreate int // remaining CreateTransaction failures, -1 = always
	failItems  int
	failUpdate int

	// createDelay stalls every CreateTransaction call
	createDelay time.Duration

	createCalls int
	itemCalls   int
	updateCalls int
	seq         int

	rows  map[string]entity.Transaction
	items map[string][]entity.TransactionItem
	order []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: map[string]entity.Transaction{}, items: map[string][]entity.TransactionItem{}}
}

func consume(n *int) bool {
	if *n == 0 {
		return false
	}
	if *n > 0 {
		*n--
	}
	return true
}

func (s *fakeStore) CreateTransaction(_ context.Context, t *entity.Transaction) error {
	if s.createDelay > 0 {
		time.Sleep(s.createDelay)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createCalls++
	if consume(&s.failCreate) {
		return errBackend
	}
	s.seq++
	t.ID = fmt.Sprintf("tx-%d", s.seq)
	row := *t
	row.Items = nil
	s.rows[t.ID] = row
	s.order = append(s.order, t.ID)
	return nil
}

func (s *fakeStore) CreateItems(_ context.Context, id string, items []entity.TransactionItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.itemCalls++
	if consume(&s.failItems) {
		return errBackend
	}
	s.items[id] = append(s.items[id], items...)
	return nil
}

func (s *fakeStore) ListRecent(_ context.Context, limit int) ([]entity.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.Transaction, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.rows[id])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *fakeStore) ListItems(_ context.Context, id string) ([]entity.TransactionItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.TransactionItem(nil), s.items[id]...), nil
}

func (s *fakeStore) UpdateStatus(_ context.Context, id string, change entity.StatusChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateCalls++
	if consume(&s.failUpdate) {
		return errBackend
	}
	row, ok := s.rows[id]
	if !ok || row.Status != entity.TransactionCompleted {
		return repository.ErrStatusUnchanged
	}
	row.Status = change.Status
	reason, at := change.Reason, change.At
	if change.Status == entity.TransactionVoided {
		row.VoidReason, row.VoidedAt = &reason, &at
	} else {
		row.RefundReason, row.RefundedAt = &reason, &at
	}
	s.rows[id] = row
	return nil
}

// memQueue is an in-memory PendingQueue.
type memQueue struct {
	mu      sync.Mutex
	entries map[string]repository.PendingEntry
}

func newMemQueue() *memQueue {
	return &memQueue{entries: map[string]repository.PendingEntry{}}
}

func (q *memQueue) Put(key string, t entity.Transaction) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries[key] = repository.PendingEntry{Key: key, Transaction: t}
	return nil
}

func (q *memQueue) putCorrupt(key string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries[key] = repository.PendingEntry{Key: key, Err: errors.New("unexpected end of JSON input")}
}

func (q *memQueue) List() ([]repository.PendingEntry, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]repository.PendingEntry, 0, len(q.entries))
	for _, e := range q.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (q *memQueue) Delete(key string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.entries, key)
	return nil
}

func (q *memQueue) Len() (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries), nil
}

// cancelAwarePolicy gives up as soon as the retry context is done.
func cancelAwarePolicy() RetryPolicy {
	return RetryPolicy{
		Attempts:  3,
		BaseDelay: time.Second,
		Sleep:     func(ctx context.Context, _ time.Duration) error { return ctx.Err() },
	}
}

func newTestGateway(store *fakeStore, queue *memQueue) *TransactionGateway {
	return NewTransactionGateway(store, queue, noSleepPolicy(), zerolog.Nop())
}
