package entity

import "time"

type Sender string

const (
	SenderKitchen   Sender = "kitchen"
	SenderFrontDesk Sender = "front-desk"
)

func (s Sender) Valid() bool { return s == SenderKitchen || s == SenderFrontDesk }

// Message belongs to one order's status session. Never edited or deleted.
type Message struct {
	ID        string    `json:"id"`
	Sender    Sender    `json:"sender"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}
