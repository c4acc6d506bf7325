package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jchou1989/XuanteaPOS-sub001/entity"

	"github.com/rs/zerolog"
)

func TestCustomizationPayload(t *testing.T) {
	o := tabletOrder("1", "#1", "Front", entity.OrderTypeDineIn)
	o.Items[0].Customization = &entity.Customization{Size: "Large", SugarLevel: "50%", IceLevel: "Less Ice"}
	o.Items = append(o.Items, entity.OrderItem{ID: "1-2", Name: "Club Sandwich", Type: entity.ItemFood, Quantity: 1})

	p, err := CustomizationPayload(o, "1-1")
	if err != nil {
		t.Fatal(err)
	}
	if p.DisplayNumber != "#1-FRO" || p.Size != "Large" || p.Quantity != 2 {
		t.Fatalf("payload %+v", p)
	}
	enc, err := p.Encode()
	if err != nil {
		t.Fatal(err)
	}
	var back LabelPayload
	if err := json.Unmarshal([]byte(enc), &back); err != nil || back != p {
		t.Fatalf("encoded payload unreadable: %s", enc)
	}

	if _, err := CustomizationPayload(o, "1-2"); !errors.Is(err, ErrNotBeverage) {
		t.Fatalf("got %v", err)
	}
	if _, err := CustomizationPayload(o, "x"); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("got %v", err)
	}
}

type failingPrinter struct{ err error }

func (p failingPrinter) PrintLabel(context.Context, LabelJob) error { return p.err }

func TestPrintTrackerResetsToIdle(t *testing.T) {
	job, err := NewLabelJob(LabelPayload{OrderNumber: "#1", Item: "Jasmine Tea"})
	if err != nil {
		t.Fatal(err)
	}
	if job.WidthMM != 58 || job.HeightMM != 40 || job.QR == "" {
		t.Fatalf("job %+v", job)
	}

	tr := NewPrintTracker(failingPrinter{}, zerolog.Nop())
	tr.resetAfter = 20 * time.Millisecond
	if tr.State() != PrintIdle {
		t.Fatal("tracker starts idle")
	}
	if got := tr.Print(context.Background(), job); got != PrintSuccess || tr.State() != PrintSuccess {
		t.Fatalf("got %s", got)
	}

	tr.printer = failingPrinter{err: errors.New("paper jam")}
	if got := tr.Print(context.Background(), job); got != PrintError {
		t.Fatalf("got %s", got)
	}

	deadline := time.Now().Add(2 * time.Second)
	for tr.State() != PrintIdle {
		if time.Now().After(deadline) {
			t.Fatal("state never reset to idle")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
