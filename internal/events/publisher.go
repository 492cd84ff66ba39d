// Package events announces committed ledger writes to other systems.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Type names a ledger event. It doubles as the AMQP routing key.
type Type string

const (
	ExpenseRecorded    Type = "expense.recorded"
	SettlementRecorded Type = "settlement.recorded"
	MemberJoined       Type = "member.joined"
)

// Event describes one committed ledger write.
type Event struct {
	Type       Type             `json:"type"`
	GroupID    string           `json:"group_id"`
	ID         string           `json:"id"`
	ActorID    string           `json:"actor_id"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// ToJSON encodes the event body.
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers events. Publishing happens after the write has committed, so
// callers log failures instead of returning them.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }
