package ledger

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/chopbill/internal/calculator"
	"github.com/mmynk/chopbill/internal/metrics"
	"github.com/mmynk/chopbill/internal/models"
)

// GroupRef identifies a group in cross-group views.
type GroupRef struct {
	ID   string
	Name string
}

// OutstandingBalance is what one counterparty and the viewer owe each other, summed
// over every group they share.
type OutstandingBalance struct {
	Counterparty models.User
	Amount       decimal.Decimal // Magnitude, rounded
	Direction    calculator.Direction
	Groups       []GroupRef // Groups with a non-negligible balance between the two

	// LastActivity is the newest expense involving the counterparty in Groups. Zero
	// when there is none.
	LastActivity time.Time
}

// Dashboard summarizes a user's position across all of their groups.
type Dashboard struct {
	TotalOwedToMe       decimal.Decimal
	TotalIOwe           decimal.Decimal
	OutstandingBalances []OutstandingBalance
	RecentExpenses      []models.RecentExpense
}

// groupSnapshot is one group's rows as loaded for a dashboard.
type groupSnapshot struct {
	group    *models.Group
	ledger   *calculator.GroupLedger
	activity map[string]time.Time
}

// Dashboard loads every group userID belongs to and aggregates them. Group loads run
// concurrently up to the configured limit; the aggregation itself is sequential.
func (l *Ledger) Dashboard(ctx context.Context, userID string) (*Dashboard, error) {
	start := time.Now()
	defer func() { metrics.DashboardDuration.Observe(time.Since(start).Seconds()) }()

	groups, err := l.store.ListGroupsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var memberOf []*models.Group
	for _, g := range groups {
		if g.HasMember(userID) {
			memberOf = append(memberOf, g)
		}
	}
	metrics.DashboardGroups.Observe(float64(len(memberOf)))

	snapshots := make([]groupSnapshot, len(memberOf))
	var recent []models.RecentExpense

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(l.dashboardConcurrency)
	for i, g := range memberOf {
		eg.Go(func() error {
			snap, err := l.snapshot(egCtx, g, userID)
			if err != nil {
				return err
			}
			activity, err := l.store.LatestActivity(egCtx, g.ID)
			if err != nil {
				return err
			}
			snapshots[i] = groupSnapshot{group: g, ledger: snap, activity: activity}
			return nil
		})
	}
	eg.Go(func() error {
		var err error
		recent, err = l.store.ListRecentExpenses(egCtx, userID, l.recentLimit)
		return err
	})
	if err := eg.Wait(); err != nil {
		slog.ErrorContext(ctx, "Dashboard load failed", "user_id", userID, "error", err)
		return nil, err
	}

	dashboard := aggregateDashboard(userID, snapshots)
	dashboard.RecentExpenses = recent

	ids := make([]string, len(dashboard.OutstandingBalances))
	for i, b := range dashboard.OutstandingBalances {
		ids[i] = b.Counterparty.ID
	}
	users, err := l.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range dashboard.OutstandingBalances {
		if u, ok := users[dashboard.OutstandingBalances[i].Counterparty.ID]; ok {
			dashboard.OutstandingBalances[i].Counterparty = *u
		}
	}

	slog.InfoContext(ctx, "Dashboard computed",
		"user_id", userID,
		"groups", len(memberOf),
		"outstanding", len(dashboard.OutstandingBalances),
	)
	return dashboard, nil
}

// aggregateDashboard folds per-group balances into totals and a per-counterparty list.
// Counterparty users carry only their ID.
func aggregateDashboard(userID string, snapshots []groupSnapshot) *Dashboard {
	owedToMe := decimal.Zero
	iOwe := decimal.Zero

	type entry struct {
		amount   decimal.Decimal
		groups   []GroupRef
		activity time.Time
	}
	entries := make(map[string]*entry)

	for _, s := range snapshots {
		net := s.ledger.NetBalance(userID)
		if net.IsPositive() {
			owedToMe = owedToMe.Add(net)
		} else {
			iOwe = iOwe.Add(net.Abs())
		}

		for _, other := range s.group.Members {
			if other == userID {
				continue
			}
			amount := s.ledger.PairwiseBalance(userID, other)
			if calculator.Negligible(amount) {
				continue
			}

			e, ok := entries[other]
			if !ok {
				e = &entry{amount: decimal.Zero}
				entries[other] = e
			}
			e.amount = e.amount.Add(amount)
			e.groups = append(e.groups, GroupRef{ID: s.group.ID, Name: s.group.Name})
			if at := s.activity[other]; at.After(e.activity) {
				e.activity = at
			}
		}
	}

	dashboard := &Dashboard{
		TotalOwedToMe: calculator.Round(owedToMe),
		TotalIOwe:     calculator.Round(iOwe),
	}
	for id, e := range entries {
		if calculator.Negligible(e.amount) {
			continue
		}
		dashboard.OutstandingBalances = append(dashboard.OutstandingBalances, OutstandingBalance{
			Counterparty: models.User{ID: id},
			Amount:       calculator.Round(e.amount.Abs()),
			Direction:    calculator.DirectionOf(e.amount),
			Groups:       e.groups,
			LastActivity: e.activity,
		})
	}

	// Most recent first; counterparties with no expenses sort last
	sort.Slice(dashboard.OutstandingBalances, func(i, j int) bool {
		a, b := dashboard.OutstandingBalances[i], dashboard.OutstandingBalances[j]
		if !a.LastActivity.Equal(b.LastActivity) {
			return a.LastActivity.After(b.LastActivity)
		}
		return a.Counterparty.ID < b.Counterparty.ID
	})

	return dashboard
}
