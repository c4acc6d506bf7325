package repository

import (
	"path/filepath"
	"testing"

	"github.com/jchou1989/XuanteaPOS-sub001/entity"

	"github.com/shopspring/decimal"
	bolt "go.etcd.io/bbolt"
)

func openTestStore(t *testing.T) *PendingStore {
	t.Helper()
	s, err := OpenPendingStore(filepath.Join(t.TempDir(), "pending.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPendingStorePutListDelete(t *testing.T) {
	s := openTestStore(t)
	tx := entity.Transaction{
		ID:          "local-1",
		OrderNumber: "#1001",
		Amount:      decimal.NewFromInt(65),
		Source:      entity.SourceTablet,
		Status:      entity.TransactionCompleted,
		OrderType:   entity.OrderTypeWalkIn,
		Items: []entity.TransactionItem{
			{Name: "Jasmine Tea", Quantity: 1, Price: decimal.NewFromInt(20), Type: entity.ItemBeverage},
		},
	}
	if err := s.Put("local-1", tx); err != nil {
		t.Fatal(err)
	}
	entries, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Err != nil {
		t.Fatalf("unexpected entries %+v", entries)
	}
	got := entries[0].Transaction
	if got.OrderNumber != "#1001" || !got.Amount.Equal(decimal.NewFromInt(65)) || len(got.Items) != 1 {
		t.Fatalf("round trip lost data: %+v", got)
	}

	if err := s.Delete("local-1"); err != nil {
		t.Fatal(err)
	}
	if n, _ := s.Len(); n != 0 {
		t.Fatalf("expected empty store, got %d", n)
	}
}

func TestPendingStoreReportsCorruptEntries(t *testing.T) {
	s := openTestStore(t)
	if err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(pendingBucket).Put([]byte("local-bad"), []byte("{not json"))
	}); err != nil {
		t.Fatal(err)
	}
	entries, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Err == nil {
		t.Fatalf("expected one corrupt entry, got %+v", entries)
	}
}
