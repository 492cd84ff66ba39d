// Package ledger is the entry point to the shared-expense ledger. It loads ledger
// rows from storage, runs them through the calculator, and guards every write with
// membership checks and a per-group lock.
//
// Read operations are pure functions of stored state and take the caller explicitly;
// there is no ambient current user.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmynk/chopbill/internal/calculator"
	"github.com/mmynk/chopbill/internal/events"
	"github.com/mmynk/chopbill/internal/lock"
	"github.com/mmynk/chopbill/internal/metrics"
	"github.com/mmynk/chopbill/internal/models"
	"github.com/mmynk/chopbill/internal/storage"
)

const (
	defaultDashboardConcurrency = 4
	defaultRecentExpenseLimit   = 10
	defaultLockTimeout          = 5 * time.Second
)

// Ledger coordinates storage, locking and event publishing for ledger operations.
// It is safe for concurrent use.
type Ledger struct {
	store     storage.Store
	locker    lock.GroupLocker
	publisher events.Publisher
	now       func() time.Time

	dashboardConcurrency int
	recentLimit          int
	lockTimeout          time.Duration
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithLocker sets the per-group write lock. Defaults to an in-process lock.
func WithLocker(locker lock.GroupLocker) Option {
	return func(l *Ledger) { l.locker = locker }
}

// WithPublisher sets where committed writes are announced. Defaults to events.Nop.
func WithPublisher(p events.Publisher) Option {
	return func(l *Ledger) { l.publisher = p }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithDashboardConcurrency bounds how many groups a dashboard loads at once.
func WithDashboardConcurrency(n int) Option {
	return func(l *Ledger) {
		if n > 0 {
			l.dashboardConcurrency = n
		}
	}
}

// WithRecentExpenseLimit sets the length of recent-expense feeds.
func WithRecentExpenseLimit(n int) Option {
	return func(l *Ledger) {
		if n > 0 {
			l.recentLimit = n
		}
	}
}

// WithLockTimeout bounds how long a write waits for its group lock.
func WithLockTimeout(d time.Duration) Option {
	return func(l *Ledger) {
		if d > 0 {
			l.lockTimeout = d
		}
	}
}

// New creates a Ledger over store.
func New(store storage.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:                store,
		locker:               lock.NewLocalLocker(),
		publisher:            events.Nop{},
		now:                  time.Now,
		dashboardConcurrency: defaultDashboardConcurrency,
		recentLimit:          defaultRecentExpenseLimit,
		lockTimeout:          defaultLockTimeout,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// requireMember loads the group and checks that userID belongs to it.
func (l *Ledger) requireMember(ctx context.Context, groupID, userID string) (*models.Group, error) {
	group, err := l.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(userID) {
		return nil, fmt.Errorf("%w: user %s, group %s", ErrNotMember, userID, groupID)
	}
	return group, nil
}

// RequireMember fails with ErrNotMember unless userID belongs to the group.
func (l *Ledger) RequireMember(ctx context.Context, groupID, userID string) error {
	_, err := l.requireMember(ctx, groupID, userID)
	return err
}

// snapshot loads the group's ledger rows. With involving set, only rows touching
// those users are loaded, which is all any balance between them needs.
func (l *Ledger) snapshot(ctx context.Context, group *models.Group, involving ...string) (*calculator.GroupLedger, error) {
	expenses, err := l.store.ListExpenses(ctx, group.ID, involving...)
	if err != nil {
		return nil, err
	}
	settlements, err := l.store.ListSettlements(ctx, group.ID, involving...)
	if err != nil {
		return nil, err
	}
	return &calculator.GroupLedger{
		GroupID:     group.ID,
		Members:     group.Members,
		Expenses:    expenses,
		Settlements: settlements,
	}, nil
}

// withGroupLock runs fn while holding the group's write lock.
func (l *Ledger) withGroupLock(ctx context.Context, groupID string, fn func() error) error {
	lockCtx, cancel := context.WithTimeout(ctx, l.lockTimeout)
	defer cancel()

	start := time.Now()
	unlock, err := l.locker.Lock(lockCtx, groupID)
	metrics.LockWait.Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("failed to lock group %s: %w", groupID, err)
	}
	defer unlock()

	return fn()
}

// publish announces a committed write. Failures are logged, never returned.
func (l *Ledger) publish(ctx context.Context, event events.Event) {
	event.OccurredAt = l.now()
	if err := l.publisher.Publish(ctx, event); err != nil {
		metrics.EventPublishFailures.WithLabelValues(string(event.Type)).Inc()
		slog.WarnContext(ctx, "Failed to publish ledger event",
			"type", event.Type,
			"group_id", event.GroupID,
			"id", event.ID,
			"error", err,
		)
	}
}

func writeOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case IsValidation(err):
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeError
	}
}
