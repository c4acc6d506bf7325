package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jchou1989/XuanteaPOS-sub001/entity"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&entity.Transaction{}, &entity.TransactionItem{}, &entity.Device{}, &entity.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestTransactionRepositoryCreateAndList(t *testing.T) {
	repo := NewTransactionRepository(openTestDB(t))
	ctx := context.Background()
	base := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		tx := &entity.Transaction{
			OrderNumber: fmt.Sprintf("#10%02d", i),
			Amount:      decimal.NewFromInt(45),
			Source:      entity.SourceTalabat,
			Status:      entity.TransactionCompleted,
			OrderType:   entity.OrderTypeDelivery,
			CreatedBy:   "tester",
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.CreateTransaction(ctx, tx); err != nil {
			t.Fatalf("create: %v", err)
		}
		if tx.ID == "" {
			t.Fatal("expected an id to be assigned")
		}
		items := []entity.TransactionItem{{Name: "Club Sandwich", Quantity: 1, Price: decimal.NewFromInt(45), Type: entity.ItemFood}}
		if err := repo.CreateItems(ctx, tx.ID, items); err != nil {
			t.Fatalf("items: %v", err)
		}
	}

	got, err := repo.ListRecent(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].OrderNumber != "#1002" || got[1].OrderNumber != "#1001" {
		t.Fatalf("expected newest first, got %+v", got)
	}
	items, err := repo.ListItems(ctx, got[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].Name != "Club Sandwich" || !items[0].Price.Equal(decimal.NewFromInt(45)) {
		t.Fatalf("unexpected items %+v", items)
	}
}

func TestTransactionRepositoryCustomizationsColumn(t *testing.T) {
	repo := NewTransactionRepository(openTestDB(t))
	ctx := context.Background()
	tx := &entity.Transaction{OrderNumber: "#2000", Amount: decimal.NewFromInt(20), Source: entity.SourceTablet, OrderType: entity.OrderTypeWalkIn}
	if err := repo.CreateTransaction(ctx, tx); err != nil {
		t.Fatal(err)
	}
	c := &entity.Customization{Size: "Large", SugarLevel: "50%", IceLevel: "Less Ice"}
	if err := repo.CreateItems(ctx, tx.ID, []entity.TransactionItem{{Name: "Taro Milk Tea", Quantity: 2, Price: decimal.NewFromInt(20), Type: entity.ItemBeverage, Customizations: c}}); err != nil {
		t.Fatal(err)
	}
	items, err := repo.ListItems(ctx, tx.ID)
	if err != nil {
		t.Fatal(err)
	}
	if items[0].Customizations == nil || items[0].Customizations.Size != "Large" {
		t.Fatalf("customizations not stored: %+v", items[0])
	}
}

func TestTransactionRepositoryUpdateStatusOnce(t *testing.T) {
	repo := NewTransactionRepository(openTestDB(t))
	ctx := context.Background()
	tx := &entity.Transaction{OrderNumber: "#3000", Amount: decimal.NewFromInt(65), Source: entity.SourceTablet, Status: entity.TransactionCompleted, OrderType: entity.OrderTypeWalkIn}
	if err := repo.CreateTransaction(ctx, tx); err != nil {
		t.Fatal(err)
	}

	at := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	if err := repo.UpdateStatus(ctx, tx.ID, entity.StatusChange{Status: entity.TransactionRefunded, Reason: "cold drink", At: at}); err != nil {
		t.Fatalf("refund: %v", err)
	}
	got, err := repo.FindByID(ctx, tx.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != entity.TransactionRefunded || got.RefundReason == nil || *got.RefundReason != "cold drink" || got.RefundedAt == nil {
		t.Fatalf("refund not recorded: %+v", got)
	}
	if !got.RefundAmount.Valid || !got.RefundAmount.Decimal.Equal(decimal.NewFromInt(65)) {
		t.Fatalf("refund amount = %+v", got.RefundAmount)
	}

	err = repo.UpdateStatus(ctx, tx.ID, entity.StatusChange{Status: entity.TransactionVoided, Reason: "again", At: at})
	if !errors.Is(err, ErrStatusUnchanged) {
		t.Fatalf("second transition should be rejected, got %v", err)
	}
}

func TestDeviceRepositoryUpsertAndHeartbeat(t *testing.T) {
	repo := NewDeviceRepository(openTestDB(t))
	ctx := context.Background()
	loc := "Counter"
	d := &entity.Device{Name: "Front Counter", Type: entity.DeviceTablet, Status: "offline", Location: &loc}
	if err := repo.Upsert(ctx, d); err != nil {
		t.Fatal(err)
	}
	stored, err := repo.FindByName(ctx, "Front Counter")
	if err != nil {
		t.Fatal(err)
	}
	now := time.Now().UTC()
	if err := repo.Heartbeat(ctx, stored.ID, now); err != nil {
		t.Fatal(err)
	}
	if err := repo.Heartbeat(ctx, stored.ID+100, now); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	n, err := repo.MarkStale(ctx, now.Add(time.Minute))
	if err != nil || n != 1 {
		t.Fatalf("expected one stale device, got %d (%v)", n, err)
	}
}
