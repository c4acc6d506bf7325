package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jchou1989/XuanteaPOS-sub001/entity"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func sampleTransaction() entity.Transaction {
	return entity.Transaction{
		OrderNumber:   "#1234",
		Source:        entity.SourceTalabat,
		PaymentMethod: entity.PaymentOnline,
		OrderType:     entity.OrderTypeDelivery,
		CreatedBy:     "front-desk",
		Items: []entity.TransactionItem{
			{Name: "Club Sandwich", Quantity: 1, Price: decimal.NewFromInt(45), Type: entity.ItemFood},
			{Name: "Jasmine Tea", Quantity: 2, Price: decimal.NewFromInt(20), Type: entity.ItemBeverage},
		},
	}
}

func TestCreateTransactionPersists(t *testing.T) {
	store, queue := newFakeStore(), newMemQueue()
	g := newTestGateway(store, queue)

	got, res := g.CreateTransaction(context.Background(), sampleTransaction())
	id, ok := res.PersistedID()
	if !ok || id == "" || got.ID != id {
		t.Fatalf("expected persisted result, got %v (tx id %q)", res, got.ID)
	}
	if _, local := res.LocalID(); local {
		t.Fatal("persisted result must not expose a local id")
	}
	if !got.Amount.Equal(decimal.NewFromInt(85)) {
		t.Fatalf("amount should default to item total, got %s", got.Amount)
	}
	if got.Status != entity.TransactionCompleted {
		t.Fatalf("status = %q", got.Status)
	}
	if len(store.items[id]) != 2 {
		t.Fatalf("expected 2 item rows, got %d", len(store.items[id]))
	}
}

func TestCreateTransactionFallsBackAfterThreeFailures(t *testing.T) {
	store, queue := newFakeStore(), newMemQueue()
	store.failCreate = 3
	g := newTestGateway(store, queue)

	got, res := g.CreateTransaction(context.Background(), sampleTransaction())
	if res.IsPersisted() {
		t.Fatal("expected a pending-local result")
	}
	local, ok := res.LocalID()
	if !ok || !strings.HasPrefix(local, LocalIDPrefix) || got.ID != local {
		t.Fatalf("unexpected local id %q / %q", local, got.ID)
	}
	if store.createCalls != 3 {
		t.Fatalf("expected 3 attempts, got %d", store.createCalls)
	}
	if n, _ := queue.Len(); n != 1 {
		t.Fatalf("expected the transaction to be queued, queue has %d", n)
	}
}

func TestCreateTransactionRecoversWithinRetries(t *testing.T) {
	store, queue := newFakeStore(), newMemQueue()
	store.failCreate = 2
	g := newTestGateway(store, queue)

	_, res := g.CreateTransaction(context.Background(), sampleTransaction())
	if !res.IsPersisted() {
		t.Fatalf("third attempt should succeed, got %v", res)
	}
	if n, _ := queue.Len(); n != 0 {
		t.Fatalf("nothing should be queued, got %d", n)
	}
}

func TestCreateTransactionItemFailureKeepsRealID(t *testing.T) {
	store, queue := newFakeStore(), newMemQueue()
	store.failItems = -1
	g := newTestGateway(store, queue)

	got, res := g.CreateTransaction(context.Background(), sampleTransaction())
	if !res.IsPersisted() || IsLocalID(got.ID) {
		t.Fatalf("item failure must not demote the result, got %v", res)
	}
	if store.itemCalls != 3 {
		t.Fatalf("expected 3 item attempts, got %d", store.itemCalls)
	}
}

func TestListTransactionsNewestFirstWithItems(t *testing.T) {
	store, queue := newFakeStore(), newMemQueue()
	g := newTestGateway(store, queue)
	base := time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC)
	for i, num := range []string{"#1", "#2", "#3"} {
		tx := sampleTransaction()
		tx.OrderNumber = num
		tx.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		g.CreateTransaction(context.Background(), tx)
	}

	list, err := g.ListTransactions(context.Background(), 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].OrderNumber != "#3" || list[1].OrderNumber != "#2" {
		t.Fatalf("unexpected order %+v", list)
	}
	if len(list[0].Items) != 2 {
		t.Fatalf("items not attached: %+v", list[0])
	}
}

func TestUpdateStatus(t *testing.T) {
	store, queue := newFakeStore(), newMemQueue()
	g := newTestGateway(store, queue)
	ctx := context.Background()
	tx, _ := g.CreateTransaction(ctx, sampleTransaction())

	if err := g.UpdateStatus(ctx, tx.ID, entity.TransactionCompleted, "x"); !errors.Is(err, ErrInvalidTransactionStatus) {
		t.Fatalf("expected invalid status, got %v", err)
	}
	if err := g.UpdateStatus(ctx, tx.ID, entity.TransactionVoided, "  "); !errors.Is(err, ErrReasonRequired) {
		t.Fatalf("expected reason required, got %v", err)
	}

	if err := g.UpdateStatus(ctx, tx.ID, entity.TransactionVoided, "customer left"); err != nil {
		t.Fatal(err)
	}
	row := store.rows[tx.ID]
	if row.Status != entity.TransactionVoided || row.VoidReason == nil || row.VoidedAt == nil {
		t.Fatalf("void not applied: %+v", row)
	}

	calls := store.updateCalls
	if err := g.UpdateStatus(ctx, tx.ID, entity.TransactionRefunded, "again"); err != nil {
		t.Fatalf("second transition should be a silent no-op, got %v", err)
	}
	if store.updateCalls != calls+1 {
		t.Fatalf("unchanged status must not be retried, calls %d -> %d", calls, store.updateCalls)
	}
	if store.rows[tx.ID].Status != entity.TransactionVoided {
		t.Fatal("status changed twice")
	}
}

func TestUpdateStatusLocalIDAndExhaustedRetries(t *testing.T) {
	store, queue := newFakeStore(), newMemQueue()
	g := newTestGateway(store, queue)
	ctx := context.Background()

	if err := g.UpdateStatus(ctx, LocalIDPrefix+"abc", entity.TransactionRefunded, "spilled"); err != nil {
		t.Fatal(err)
	}
	if store.updateCalls != 0 {
		t.Fatal("local ids must not reach the store")
	}

	tx, _ := g.CreateTransaction(ctx, sampleTransaction())
	store.failUpdate = -1
	if err := g.UpdateStatus(ctx, tx.ID, entity.TransactionRefunded, "spilled"); err != nil {
		t.Fatalf("exhausted retries must still report success, got %v", err)
	}
	if store.updateCalls != 3 {
		t.Fatalf("expected 3 attempts, got %d", store.updateCalls)
	}
}

func TestSyncPending(t *testing.T) {
	store, queue := newFakeStore(), newMemQueue()
	store.failCreate = 3
	g := newTestGateway(store, queue)
	ctx := context.Background()

	_, res := g.CreateTransaction(ctx, sampleTransaction())
	local, _ := res.LocalID()
	queue.putCorrupt(LocalIDPrefix + "zzz")

	store.failCreate = -1
	report, err := g.SyncPending(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if report.Failed != 1 || report.Discarded != 1 || report.Synced != 0 {
		t.Fatalf("unexpected report %+v", report)
	}
	if g.PendingCount() != 1 {
		t.Fatalf("failed entry should stay queued, have %d", g.PendingCount())
	}

	store.failCreate = 0
	report, err = g.SyncPending(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if report.Synced != 1 || report.Resolved[local] == "" || IsLocalID(report.Resolved[local]) {
		t.Fatalf("unexpected report %+v", report)
	}
	if g.PendingCount() != 0 {
		t.Fatal("queue should be empty")
	}
	if len(store.items[report.Resolved[local]]) != 2 {
		t.Fatal("items should be written on sync")
	}
}

func TestConcurrentSyncPassesWriteOnce(t *testing.T) {
	store, queue := newFakeStore(), newMemQueue()
	g := newTestGateway(store, queue)
	if err := queue.Put(LocalIDPrefix+"a", sampleTransaction()); err != nil {
		t.Fatal(err)
	}
	store.createDelay = 50 * time.Millisecond

	var wg sync.WaitGroup
	reports := make([]SyncReport, 2)
	for i := range reports {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			reports[i], _ = g.SyncPending(context.Background())
		}(i)
	}
	wg.Wait()

	if store.createCalls != 1 || len(store.rows) != 1 {
		t.Fatalf("one pending entry written %d times, %d rows", store.createCalls, len(store.rows))
	}
	if reports[0].Synced+reports[1].Synced != 1 {
		t.Fatalf("reports %+v", reports)
	}
}

func TestGatewayWritesSurviveCallerCancel(t *testing.T) {
	store, queue := newFakeStore(), newMemQueue()
	store.failItems = 1
	g := NewTransactionGateway(store, queue, cancelAwarePolicy(), zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tx, res := g.CreateTransaction(ctx, sampleTransaction())
	if !res.IsPersisted() {
		t.Fatalf("expected persisted, got %s", res)
	}
	if len(store.items[tx.ID]) != 2 {
		t.Fatalf("items lost after caller cancel: calls=%d stored=%d", store.itemCalls, len(store.items[tx.ID]))
	}

	store.failUpdate = 1
	if err := g.UpdateStatus(ctx, tx.ID, entity.TransactionVoided, "wrong order"); err != nil {
		t.Fatal(err)
	}
	if store.rows[tx.ID].Status != entity.TransactionVoided {
		t.Fatal("void dropped after caller cancel")
	}
}
