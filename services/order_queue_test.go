package services

import (
	"testing"
	"time"

	"github.com/jchou1989/XuanteaPOS-sub001/entity"
	"github.com/jchou1989/XuanteaPOS-sub001/events"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func deliveryOrder(id, number string, src entity.Source) entity.Order {
	return entity.Order{
		ID:           id,
		OrderNumber:  number,
		Source:       src,
		Status:       entity.OrderNew,
		OrderType:    entity.OrderTypeDelivery,
		CreatedAt:    time.Now(),
		CustomerName: strPtr("Layla Haddad"),
		Items:        []entity.OrderItem{{ID: id + "-1", Name: "Club Sandwich", Type: entity.ItemFood, Quantity: 1}},
	}
}

func tabletOrder(id, number, device string, typ entity.OrderType) entity.Order {
	o := entity.Order{
		ID:          id,
		OrderNumber: number,
		Source:      entity.SourceTablet,
		OrderType:   typ,
		DeviceName:  strPtr(device),
		Items:       []entity.OrderItem{{ID: id + "-1", Name: "Jasmine Tea", Type: entity.ItemBeverage, Quantity: 2}},
	}
	if typ == entity.OrderTypeDineIn {
		o.TableNumber = intPtr(12)
	}
	return o
}

func TestDisplayNumber(t *testing.T) {
	cases := []struct {
		name  string
		order entity.Order
		want  string
	}{
		{"talabat", deliveryOrder("a", "#1234", entity.SourceTalabat), "#1234-TLB"},
		{"deliveroo", deliveryOrder("b", "#1235", entity.SourceDeliveroo), "#1235-DLV"},
		{"careem", deliveryOrder("c", "#1236", entity.SourceCareem), "#1236-CRM"},
		{"walk-in", tabletOrder("d", "#1237", "Front Counter", entity.OrderTypeWalkIn), "#1237-WLK"},
		{"tablet device", tabletOrder("e", "#1238", "Front Counter", entity.OrderTypeDineIn), "#1238-FRO"},
		{"short device", tabletOrder("f", "#1239", "b2", entity.OrderTypeDineIn), "#1239-B2"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DisplayNumber(tc.order); got != tc.want {
				t.Fatalf("DisplayNumber = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestIngestPrependsAndKeepsDuplicates(t *testing.T) {
	q := NewOrderQueue()
	q.Ingest(deliveryOrder("1", "#1", entity.SourceTalabat))
	q.Ingest(deliveryOrder("2", "#2", entity.SourceTalabat))
	q.Ingest(deliveryOrder("1", "#1", entity.SourceTalabat))

	views := q.View(OrderFilter{})
	if len(views) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(views))
	}
	if views[0].ID != "1" || views[1].ID != "2" {
		t.Fatalf("newest should be first: %v %v", views[0].ID, views[1].ID)
	}

	if !q.SetStatus("1", entity.OrderReady) {
		t.Fatal("SetStatus should find the order")
	}
	for _, v := range q.View(OrderFilter{Status: "ready"}) {
		if v.ID != "1" {
			t.Fatalf("unexpected ready order %s", v.ID)
		}
	}
	if n := len(q.View(OrderFilter{Status: "ready"})); n != 2 {
		t.Fatalf("both entries with the id should change, got %d", n)
	}
	if q.SetStatus("missing", entity.OrderReady) {
		t.Fatal("unknown id must be a no-op")
	}
}

func TestIngestDefaultsStatusAndCopies(t *testing.T) {
	q := NewOrderQueue()
	o := tabletOrder("1", "#1", "Bar", entity.OrderTypeWalkIn)
	q.Ingest(o)
	o.Items[0].Name = "changed"

	got, ok := q.Get("1")
	if !ok || got.Status != entity.OrderNew || got.Items[0].Name != "Jasmine Tea" {
		t.Fatalf("unexpected stored order %+v", got)
	}
}

func TestViewFilters(t *testing.T) {
	q := NewOrderQueue()
	q.Ingest(deliveryOrder("1", "#1001", entity.SourceTalabat))
	q.Ingest(deliveryOrder("2", "#1002", entity.SourceCareem))
	q.Ingest(tabletOrder("3", "#1003", "Front Counter", entity.OrderTypeDineIn))
	q.Ingest(tabletOrder("4", "#1004", "Front Counter", entity.OrderTypeWalkIn))
	q.SetStatus("2", entity.OrderProcessing)

	cases := []struct {
		name string
		f    OrderFilter
		want []string
	}{
		{"all", OrderFilter{Source: "all", Status: "all", OrderType: "all"}, []string{"4", "3", "2", "1"}},
		{"source", OrderFilter{Source: "Talabat"}, []string{"1"}},
		{"source case", OrderFilter{Source: "ipad"}, []string{"4", "3"}},
		{"status", OrderFilter{Status: "processing"}, []string{"2"}},
		{"type", OrderFilter{OrderType: "dine-in"}, []string{"3"}},
		{"item partial", OrderFilter{Query: "jasmine"}, []string{"4", "3"}},
		{"display number", OrderFilter{Query: "tlb"}, []string{"1"}},
		{"order number", OrderFilter{Query: "1002"}, []string{"2"}},
		{"table", OrderFilter{Query: "12"}, []string{"3"}},
		{"customer", OrderFilter{Query: "layla", Source: "Careem"}, []string{"2"}},
		{"no match", OrderFilter{Query: "espresso"}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			views := q.View(tc.f)
			if len(views) != len(tc.want) {
				t.Fatalf("got %d views, want %v", len(views), tc.want)
			}
			for i, v := range views {
				if v.ID != tc.want[i] {
					t.Fatalf("view %d = %s, want %s", i, v.ID, tc.want[i])
				}
			}
		})
	}
}

func TestViewIsIdempotent(t *testing.T) {
	q := NewOrderQueue()
	q.Ingest(deliveryOrder("1", "#1", entity.SourceDeliveroo))
	a := q.View(OrderFilter{Query: "club"})
	b := q.View(OrderFilter{Query: "club"})
	if len(a) != 1 || len(b) != 1 || a[0].DisplayNumber != b[0].DisplayNumber || a[0].StatusBadge != "New" {
		t.Fatalf("views differ: %+v vs %+v", a, b)
	}
	if q.Len() != 1 {
		t.Fatal("view must not change the queue")
	}
}

func TestViewDropsFieldsForOtherOrderTypes(t *testing.T) {
	q := NewOrderQueue()
	o := tabletOrder("1", "#1", "Front", entity.OrderTypeWalkIn)
	o.TableNumber = intPtr(4)
	o.CustomerName = strPtr("stray")
	q.Ingest(o)
	d := deliveryOrder("2", "#2", entity.SourceTalabat)
	d.TableNumber = intPtr(9)
	q.Ingest(d)

	for _, v := range q.View(OrderFilter{}) {
		if v.OrderType != entity.OrderTypeDineIn && v.TableNumber != nil {
			t.Fatalf("%s shows a table number", v.ID)
		}
		if v.OrderType != entity.OrderTypeDelivery && v.CustomerName != nil {
			t.Fatalf("%s shows customer fields", v.ID)
		}
	}
}

func TestOrderQueueFollowsBus(t *testing.T) {
	bus := events.NewBus()
	q := NewOrderQueue()
	detach := q.Attach(bus)

	if err := bus.Publish(events.OrderPlaced(deliveryOrder("1", "#1", entity.SourceCareem))); err != nil {
		t.Fatal(err)
	}
	if q.Len() != 1 {
		t.Fatal("order not ingested")
	}
	if err := bus.Publish(events.OrdersCleared()); err != nil {
		t.Fatal(err)
	}
	if q.Len() != 0 {
		t.Fatal("queue not cleared")
	}

	detach()
	_ = bus.Publish(events.OrderPlaced(deliveryOrder("2", "#2", entity.SourceCareem)))
	if q.Len() != 0 {
		t.Fatal("detached queue still receives orders")
	}
}

func TestSearchIgnoresHiddenFields(t *testing.T) {
	q := NewOrderQueue()
	walkIn := tabletOrder("w1", "#20", "Counter", entity.OrderTypeWalkIn)
	walkIn.TableNumber = intPtr(77)
	walkIn.CustomerName = strPtr("Rania")
	q.Ingest(walkIn)

	for _, query := range []string{"77", "rania"} {
		if got := q.View(OrderFilter{Query: query}); len(got) != 0 {
			t.Fatalf("query %q matched a field the card does not show: %+v", query, got[0])
		}
	}
	if got := q.View(OrderFilter{Query: "jasmine"}); len(got) != 1 {
		t.Fatalf("item search broken, got %d", len(got))
	}
}
