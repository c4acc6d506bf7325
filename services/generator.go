package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/jchou1989/XuanteaPOS-sub001/entity"
	"github.com/jchou1989/XuanteaPOS-sub001/events"
	"github.com/jchou1989/XuanteaPOS-sub001/pkg/logger"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// generator sources besides the aggregator names
const (
	SourceMixed  = "mixed"
	SourceTablet = "tablet"
)

const (
	DefaultSampleInterval = 800 * time.Millisecond
	MaxSampleCount        = 50
	sampleCreatedBy       = "sample-generator"
)

var (
	ErrSampleCount      = fmt.Errorf("count must be between 1 and %d", MaxSampleCount)
	ErrSampleSource     = errors.New("unknown sample source")
	ErrSampleCategories = errors.New("include food, beverages or both")
)

var (
	sampleDevices   = []string{"Front Counter", "Bar Tablet", "Patio iPad"}
	sampleCustomers = []string{"Aisha Rahman", "Omar Khalid", "Layla Haddad", "Yusuf Ali", "Mariam Saeed"}
	sampleStreets   = []string{"Al Wasl Road", "Jumeirah Beach Road", "Sheikh Zayed Road", "Al Khail Road"}
	generatorPicks  = []entity.Source{entity.SourceTablet, entity.SourceTalabat, entity.SourceDeliveroo, entity.SourceCareem}
)

type GenerateRequest struct {
	Count            int    `json:"count"`
	Source           string `json:"source"`
	IncludeFood      bool   `json:"includeFood"`
	IncludeBeverages bool   `json:"includeBeverages"`
}

// Validate normalises Source and checks the request.
func (r *GenerateRequest) Validate() error {
	if r.Count < 1 || r.Count > MaxSampleCount {
		return ErrSampleCount
	}
	if !r.IncludeFood && !r.IncludeBeverages {
		return ErrSampleCategories
	}
	src := strings.TrimSpace(r.Source)
	switch {
	case src == "" || strings.EqualFold(src, SourceMixed):
		r.Source = SourceMixed
		return nil
	case strings.EqualFold(src, SourceTablet) || strings.EqualFold(src, string(entity.SourceTablet)):
		r.Source = SourceTablet
		return nil
	}
	for _, a := range entity.Aggregators {
		if strings.EqualFold(src, string(a)) {
			r.Source = string(a)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrSampleSource, r.Source)
}

// GenerateReport counts skipped slots as done.
type GenerateReport struct {
	Requested int `json:"requested"`
	Emitted   int `json:"emitted"`
	Skipped   int `json:"skipped"`
}

// SampleGenerator publishes synthetic orders with their kitchen and transaction events.
type SampleGenerator struct {
	bus      *events.Bus
	interval time.Duration
	log      zerolog.Logger

	mu     sync.Mutex
	rng    *rand.Rand
	number int
	now    func() time.Time
}

func NewSampleGenerator(bus *events.Bus, interval time.Duration, log zerolog.Logger) *SampleGenerator {
	if interval < 0 {
		interval = DefaultSampleInterval
	}
	return &SampleGenerator{
		bus:      bus,
		interval: interval,
		log:      log,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		number:   1000,
		now:      time.Now,
	}
}

// Seed makes the draws reproducible.
func (g *SampleGenerator) Seed(seed int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rng = rand.New(rand.NewSource(seed))
}

// Generate emits req.Count slots, waiting the interval between them. It stops
// early when ctx is done or a publish is rejected; the partial report is returned
// and logged either way.
func (g *SampleGenerator) Generate(ctx context.Context, req GenerateRequest) (GenerateReport, error) {
	if err := req.Validate(); err != nil {
		return GenerateReport{}, err
	}
	report, err := g.run(ctx, req)
	if err != nil {
		g.log.Error().Err(err).
			Str(logger.ACTION, "samples_failed").
			Str("source", req.Source).
			Int("requested", report.Requested).
			Int("emitted", report.Emitted).
			Int("skipped", report.Skipped).
			Msg("sample generation stopped early")
		return report, err
	}
	g.log.Info().
		Str(logger.ACTION, "samples_generated").
		Str("source", req.Source).
		Int("emitted", report.Emitted).
		Int("skipped", report.Skipped).
		Msg("sample orders generated")
	return report, nil
}

func (g *SampleGenerator) run(ctx context.Context, req GenerateRequest) (GenerateReport, error) {
	report := GenerateReport{Requested: req.Count}
	for i := 0; i < req.Count; i++ {
		if i > 0 {
			if err := sleepCtx(ctx, g.interval); err != nil {
				return report, err
			}
		}
		o, ok := g.draw(req)
		if !ok {
			report.Skipped++
			continue
		}
		if err := g.emit(o); err != nil {
			return report, err
		}
		report.Emitted++
	}
	return report, nil
}

func (g *SampleGenerator) emit(o entity.Order) error {
	if err := g.bus.Publish(events.OrderPlaced(o)); err != nil {
		return err
	}
	if err := g.bus.Publish(events.KitchenOrderPlaced(NewKitchenOrder(o))); err != nil {
		return err
	}
	return g.bus.Publish(events.TransactionCreated(BuildTransaction(o, sampleCreatedBy)))
}

// draw builds one order. ok is false when the item draw came up empty.
func (g *SampleGenerator) draw(req GenerateRequest) (entity.Order, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	r := g.rng

	var items []entity.OrderItem
	for _, m := range Menu {
		if (m.Type == entity.ItemFood && !req.IncludeFood) || (m.Type == entity.ItemBeverage && !req.IncludeBeverages) {
			continue
		}
		if r.Intn(2) == 0 {
			continue
		}
		it := entity.OrderItem{
			ID:       uuid.NewString(),
			Name:     m.Name,
			Type:     m.Type,
			Quantity: 1 + r.Intn(3),
		}
		if m.Type == entity.ItemBeverage {
			it.Customization = &entity.Customization{
				Size:       Sizes[r.Intn(len(Sizes))],
				SugarLevel: SugarLevels[r.Intn(len(SugarLevels))],
				IceLevel:   IceLevels[r.Intn(len(IceLevels))],
			}
		}
		items = append(items, it)
	}
	if len(items) == 0 {
		return entity.Order{}, false
	}

	g.number++
	o := entity.Order{
		ID:          uuid.NewString(),
		OrderNumber: fmt.Sprintf("#%d", g.number),
		Source:      g.pickSource(req.Source),
		Status:      entity.OrderNew,
		Items:       items,
		CreatedAt:   g.now().UTC(),
	}
	if o.Source == entity.SourceTablet {
		device := sampleDevices[r.Intn(len(sampleDevices))]
		o.DeviceName = &device
		if r.Intn(2) == 0 {
			o.OrderType = entity.OrderTypeDineIn
			table := 1 + r.Intn(20)
			o.TableNumber = &table
		} else {
			o.OrderType = entity.OrderTypeWalkIn
		}
	} else {
		o.OrderType = entity.OrderTypeDelivery
		name := sampleCustomers[r.Intn(len(sampleCustomers))]
		phone := fmt.Sprintf("+971 50 %03d %04d", r.Intn(1000), r.Intn(10000))
		addr := fmt.Sprintf("%d %s, Dubai", 1+r.Intn(200), sampleStreets[r.Intn(len(sampleStreets))])
		o.CustomerName, o.CustomerPhone, o.CustomerAddress = &name, &phone, &addr
	}
	return o, true
}

func (g *SampleGenerator) pickSource(src string) entity.Source {
	switch src {
	case SourceMixed:
		return generatorPicks[g.rng.Intn(len(generatorPicks))]
	case SourceTablet:
		return entity.SourceTablet
	}
	return entity.Source(src)
}
