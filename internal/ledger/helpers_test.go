package ledger

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/chopbill/internal/events"
	"github.com/mmynk/chopbill/internal/lock"
	"github.com/mmynk/chopbill/internal/models"
	"github.com/mmynk/chopbill/internal/storage/sqlite"
)

// stepClock returns strictly increasing times so that ordering by creation time is
// deterministic.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func newStepClock() *stepClock {
	return &stepClock{now: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Minute)
	return c.now
}

func (c *stepClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	var types []events.Type
	for _, e := range p.events {
		types = append(types, e.Type)
	}
	return types
}

// hookLocker wraps a GroupLocker, records which groups were locked, and runs onLock
// once right after the first lock is granted.
type hookLocker struct {
	lock.GroupLocker
	onLock func()
	once   sync.Once

	mu     sync.Mutex
	locked []string
}

func (h *hookLocker) Lock(ctx context.Context, groupID string) (func(), error) {
	unlock, err := h.GroupLocker.Lock(ctx, groupID)
	if err != nil {
		return nil, err
	}
	h.mu.Lock()
	h.locked = append(h.locked, groupID)
	h.mu.Unlock()
	if h.onLock != nil {
		h.once.Do(h.onLock)
	}
	return unlock, nil
}

func (h *hookLocker) lockedGroups() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.locked...)
}

type fixture struct {
	ledger    *Ledger
	store     *sqlite.SQLiteStore
	clock     *stepClock
	publisher *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	f := &fixture{store: store, clock: newStepClock(), publisher: &recordingPublisher{}}
	f.ledger = New(store, WithClock(f.clock.Now), WithPublisher(f.publisher))
	return f
}

func (f *fixture) user(t *testing.T, name string) *models.User {
	t.Helper()
	u, err := f.ledger.CreateUser(context.Background(), name, name+"@example.com", "")
	if err != nil {
		t.Fatalf("CreateUser(%s) failed: %v", name, err)
	}
	return u
}

func (f *fixture) group(t *testing.T, owner *models.User, members ...*models.User) *models.Group {
	t.Helper()
	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	g, err := f.ledger.CreateGroup(context.Background(), owner.ID, "Group of "+owner.Name, "", ids)
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	return g
}

func (f *fixture) expense(t *testing.T, groupID string, payer *models.User, amount string, participants ...*models.User) *models.Expense {
	t.Helper()
	ids := make([]string, len(participants))
	for i, p := range participants {
		ids[i] = p.ID
	}
	e, err := f.ledger.CreateExpense(context.Background(), ExpenseInput{
		GroupID:      groupID,
		ActorID:      payer.ID,
		Amount:       dec(amount),
		Description:  "expense",
		Participants: ids,
	})
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	return e
}

func (f *fixture) settle(t *testing.T, groupID string, payer, payee *models.User, amount string) {
	t.Helper()
	_, err := f.ledger.CreateSettlement(context.Background(), SettlementInput{
		GroupID: groupID,
		ActorID: payer.ID,
		PayerID: payer.ID,
		PayeeID: payee.ID,
		Amount:  dec(amount),
	})
	if err != nil {
		t.Fatalf("CreateSettlement failed: %v", err)
	}
}

// scenario builds the reference group: A pays 90 split among A, B, C; B pays 30
// split between B and C; C pays A 20.
func (f *fixture) scenario(t *testing.T) (g *models.Group, a, b, c *models.User) {
	t.Helper()
	a, b, c = f.user(t, "alice"), f.user(t, "bob"), f.user(t, "carol")
	g = f.group(t, a, b, c)
	f.expense(t, g.ID, a, "90", a, b, c)
	f.expense(t, g.ID, b, "30", b, c)
	f.settle(t, g.ID, c, a, "20")
	return g, a, b, c
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertAmount(t *testing.T, label string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("%s = %s, want %s", label, got, want)
	}
}
