package services

import (
	"context"
	"sync"
	"time"

	"github.com/jchou1989/XuanteaPOS-sub001/pkg/logger"

	"github.com/rs/zerolog"
)

// label stock in millimetres
const (
	LabelWidthMM  = 58
	LabelHeightMM = 40
)

const printResetAfter = 2 * time.Second

type PrintState string

const (
	PrintIdle    PrintState = "idle"
	PrintSuccess PrintState = "success"
	PrintError   PrintState = "error"
)

type LabelJob struct {
	WidthMM  int          `json:"widthMm"`
	HeightMM int          `json:"heightMm"`
	Payload  LabelPayload `json:"payload"`
	QR       string       `json:"qr"`
}

func NewLabelJob(p LabelPayload) (LabelJob, error) {
	qr, err := p.Encode()
	if err != nil {
		return LabelJob{}, err
	}
	return LabelJob{WidthMM: LabelWidthMM, HeightMM: LabelHeightMM, Payload: p, QR: qr}, nil
}

// Printer is the label printer driver.
type Printer interface {
	PrintLabel(ctx context.Context, job LabelJob) error
}

// LogPrinter stands in for a physical printer and only logs the job.
type LogPrinter struct {
	Log zerolog.Logger
}

func (p LogPrinter) PrintLabel(_ context.Context, job LabelJob) error {
	p.Log.Info().
		Str(logger.ACTION, "label_printed").
		Str("order_number", job.Payload.OrderNumber).
		Str("item", job.Payload.Item).
		Int("width_mm", job.WidthMM).
		Int("height_mm", job.HeightMM).
		Msg("label sent to printer")
	return nil
}

// PrintTracker reports the outcome of the last print and falls back to idle after a
// short delay.
type PrintTracker struct {
	printer    Printer
	resetAfter time.Duration
	log        zerolog.Logger

	mu    sync.Mutex
	state PrintState
	timer *time.Timer
	gen   uint64
}

func NewPrintTracker(p Printer, log zerolog.Logger) *PrintTracker {
	return &PrintTracker{printer: p, resetAfter: printResetAfter, log: log, state: PrintIdle}
}

func (t *PrintTracker) Print(ctx context.Context, job LabelJob) PrintState {
	state := PrintSuccess
	if err := t.printer.PrintLabel(ctx, job); err != nil {
		state = PrintError
		t.log.Error().Err(err).
			Str(logger.ACTION, "label_print_failed").
			Str("order_number", job.Payload.OrderNumber).
			Msg("print failed")
	}
	t.set(state)
	return state
}

func (t *PrintTracker) set(state PrintState) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = state
	t.gen++
	gen := t.gen
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(t.resetAfter, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.gen == gen {
			t.state = PrintIdle
		}
	})
}

func (t *PrintTracker) State() PrintState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}
