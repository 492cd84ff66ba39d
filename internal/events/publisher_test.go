package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestEventToJSON(t *testing.T) {
	amount := decimal.RequireFromString("12.50")
	event := Event{
		Type:       SettlementRecorded,
		GroupID:    "g1",
		ID:         "s1",
		ActorID:    "u1",
		Amount:     &amount,
		OccurredAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}

	body, err := event.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	want := map[string]any{
		"type":        "settlement.recorded",
		"group_id":    "g1",
		"id":          "s1",
		"actor_id":    "u1",
		"amount":      "12.5",
		"occurred_at": "2026-03-01T10:00:00Z",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %v, want %v", k, got[k], v)
		}
	}
}

func TestEventToJSON_OmitsAmount(t *testing.T) {
	body, err := Event{Type: MemberJoined, GroupID: "g1", ID: "u2", ActorID: "u2"}.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if _, ok := got["amount"]; ok {
		t.Errorf("Expected amount to be omitted, got %v", got["amount"])
	}
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	if err := p.Publish(context.Background(), Event{Type: ExpenseRecorded}); err != nil {
		t.Errorf("Publish = %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("Close = %v", err)
	}
}
