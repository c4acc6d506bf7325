package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jchou1989/XuanteaPOS-sub001/entity"
	"github.com/jchou1989/XuanteaPOS-sub001/events"
	"github.com/jchou1989/XuanteaPOS-sub001/pkg/logger"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrSessionNotFound = errors.New("no open session for order")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidSender   = errors.New("sender must be kitchen or front-desk")
)

type SessionStatus string

const (
	SessionPending   SessionStatus = "pending"
	SessionPreparing SessionStatus = "preparing"
	SessionReady     SessionStatus = "ready"
	SessionCompleted SessionStatus = "completed"
)

func (s SessionStatus) Valid() bool {
	switch s {
	case SessionPending, SessionPreparing, SessionReady, SessionCompleted:
		return true
	}
	return false
}

// OrderStatus is the queue status mirrored for s.
func (s SessionStatus) OrderStatus() entity.OrderStatus {
	switch s {
	case SessionPreparing:
		return entity.OrderProcessing
	case SessionReady:
		return entity.OrderReady
	case SessionCompleted:
		return entity.OrderCompleted
	}
	return entity.OrderNew
}

func sessionStatusOf(o entity.OrderStatus) SessionStatus {
	switch o {
	case entity.OrderProcessing:
		return SessionPreparing
	case entity.OrderReady:
		return SessionReady
	case entity.OrderCompleted:
		return SessionCompleted
	}
	return SessionPending
}

func statusMessage(s SessionStatus) string {
	switch s {
	case SessionPreparing:
		return "Order is now being prepared"
	case SessionReady:
		return "Order is ready for pickup"
	case SessionCompleted:
		return "Order has been completed"
	}
	return "Order is pending"
}

// StatusSession is one order's status plus its append-only message log.
type StatusSession struct {
	mu       sync.Mutex
	orderID  string
	status   SessionStatus
	messages []entity.Message
	now      func() time.Time
}

func NewStatusSession(orderID string, status SessionStatus) *StatusSession {
	if !status.Valid() {
		status = SessionPending
	}
	return &StatusSession{orderID: orderID, status: status, now: time.Now}
}

// SetStatus accepts any state from any state and logs a front-desk message for it.
func (s *StatusSession) SetStatus(status SessionStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
	s.appendLocked(entity.SenderFrontDesk, statusMessage(status))
	return nil
}

// PostMessage appends content from sender as given. Blank content is ignored and
// reports false.
func (s *StatusSession) PostMessage(sender entity.Sender, content string) (entity.Message, bool) {
	if strings.TrimSpace(content) == "" || !sender.Valid() {
		return entity.Message{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLocked(sender, content), true
}

func (s *StatusSession) appendLocked(sender entity.Sender, content string) entity.Message {
	m := entity.Message{
		ID:        uuid.NewString(),
		Sender:    sender,
		Content:   content,
		Timestamp: s.now().UTC(),
	}
	s.messages = append(s.messages, m)
	return m
}

func (s *StatusSession) Status() SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *StatusSession) Messages() []entity.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.Message(nil), s.messages...)
}

type SessionSnapshot struct {
	OrderID  string           `json:"orderId"`
	Status   SessionStatus    `json:"status"`
	Messages []entity.Message `json:"messages"`
}

func (s *StatusSession) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionSnapshot{
		OrderID:  s.orderID,
		Status:   s.status,
		Messages: append([]entity.Message{}, s.messages...),
	}
}

// TransactionCreator is the part of the gateway the coordinator bills through.
type TransactionCreator interface {
	CreateTransaction(ctx context.Context, t entity.Transaction) (entity.Transaction, SaveResult)
}

// TransitionResult carries the billed transaction when the transition completed the order.
type TransitionResult struct {
	Session     SessionSnapshot     `json:"session"`
	Transaction *entity.Transaction `json:"transaction,omitempty"`
	Pending     bool                `json:"pending,omitempty"`
}

// StatusCoordinator owns the open sessions, one per order id.
type StatusCoordinator struct {
	mu       sync.Mutex
	sessions map[string]*StatusSession
	billed   map[string]bool

	queue   *OrderQueue
	gateway TransactionCreator
	bus     *events.Bus
	log     zerolog.Logger
}

func NewStatusCoordinator(queue *OrderQueue, gateway TransactionCreator, bus *events.Bus, log zerolog.Logger) *StatusCoordinator {
	return &StatusCoordinator{
		sessions: map[string]*StatusSession{},
		billed:   map[string]bool{},
		queue:    queue,
		gateway:  gateway,
		bus:      bus,
		log:      log,
	}
}

// Attach drops every session and billing mark when the order queue is cleared.
func (c *StatusCoordinator) Attach(bus *events.Bus) func() {
	return bus.Subscribe(events.ClearOrders, func(events.Event) { c.Reset() })
}

// Reset forgets all sessions and which orders were billed.
func (c *StatusCoordinator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions = map[string]*StatusSession{}
	c.billed = map[string]bool{}
}

// Open starts a session for an order in the queue, or returns the one already open.
func (c *StatusCoordinator) Open(orderID string) (SessionSnapshot, error) {
	o, ok := c.queue.Get(orderID)
	if !ok {
		return SessionSnapshot{}, ErrOrderNotFound
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sessions[orderID]
	if !ok {
		s = NewStatusSession(orderID, sessionStatusOf(o.Status))
		c.sessions[orderID] = s
	}
	return s.Snapshot(), nil
}

func (c *StatusCoordinator) session(orderID string) (*StatusSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sessions[orderID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (c *StatusCoordinator) Session(orderID string) (SessionSnapshot, error) {
	s, err := c.session(orderID)
	if err != nil {
		return SessionSnapshot{}, err
	}
	return s.Snapshot(), nil
}

// Close discards the session and its messages. Reports whether one was open.
func (c *StatusCoordinator) Close(orderID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.sessions[orderID]
	delete(c.sessions, orderID)
	return ok
}

// Transition moves the session to status and mirrors it into the queue. The first
// transition to completed bills the order and publishes new-transaction.
func (c *StatusCoordinator) Transition(ctx context.Context, orderID string, status SessionStatus, staff string) (TransitionResult, error) {
	s, err := c.session(orderID)
	if err != nil {
		return TransitionResult{}, err
	}
	if err := s.SetStatus(status); err != nil {
		return TransitionResult{}, err
	}
	c.queue.SetStatus(orderID, status.OrderStatus())

	res := TransitionResult{}
	if status == SessionCompleted {
		tx, saved, ok := c.bill(ctx, orderID, staff)
		if ok {
			res.Transaction = &tx
			res.Pending = !saved.IsPersisted()
		}
	}
	res.Session = s.Snapshot()
	return res, nil
}

func (c *StatusCoordinator) bill(ctx context.Context, orderID, staff string) (entity.Transaction, SaveResult, bool) {
	o, ok := c.queue.Get(orderID)
	if !ok {
		return entity.Transaction{}, SaveResult{}, false
	}
	c.mu.Lock()
	if c.billed[orderID] {
		c.mu.Unlock()
		return entity.Transaction{}, SaveResult{}, false
	}
	c.billed[orderID] = true
	c.mu.Unlock()

	tx, saved := c.gateway.CreateTransaction(ctx, BuildTransaction(o, staff))
	c.log.Info().
		Str(logger.ACTION, "order_billed").
		Str("order_id", orderID).
		Str("result", saved.String()).
		Msg("order completed")
	if err := c.bus.Publish(events.TransactionCreated(tx)); err != nil {
		c.log.Error().Err(err).Str(logger.ACTION, "publish_failed").Msg("new-transaction rejected")
	}
	return tx, saved, true
}

// PostMessage appends to the open session. Blank content leaves it unchanged.
func (c *StatusCoordinator) PostMessage(orderID string, sender entity.Sender, content string) (SessionSnapshot, error) {
	if !sender.Valid() {
		return SessionSnapshot{}, fmt.Errorf("%w: %q", ErrInvalidSender, sender)
	}
	s, err := c.session(orderID)
	if err != nil {
		return SessionSnapshot{}, err
	}
	s.PostMessage(sender, content)
	return s.Snapshot(), nil
}
