package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/mmynk/chopbill/internal/calculator"
	"github.com/mmynk/chopbill/internal/models"
)

func TestDashboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, b, c := f.user(t, "alice"), f.user(t, "bob"), f.user(t, "carol")

	trip := f.group(t, a, b, c)
	flat := f.group(t, b, a)

	f.expense(t, trip.ID, a, "90", a, b, c) // b and c each owe a 30
	f.expense(t, flat.ID, b, "50", a, b)    // a owes b 25
	f.settle(t, trip.ID, c, a, "30")        // c is square

	d, err := f.ledger.Dashboard(ctx, a.ID)
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}

	assertAmount(t, "TotalOwedToMe", d.TotalOwedToMe, "30")
	assertAmount(t, "TotalIOwe", d.TotalIOwe, "25")

	if len(d.OutstandingBalances) != 1 {
		t.Fatalf("Expected 1 outstanding balance, got %+v", d.OutstandingBalances)
	}
	ob := d.OutstandingBalances[0]
	if ob.Counterparty.ID != b.ID || ob.Counterparty.Name != "bob" {
		t.Errorf("Counterparty = %+v, want bob", ob.Counterparty)
	}
	assertAmount(t, "bob net", ob.Amount, "5")
	if ob.Direction != calculator.DirectionOwedToMe {
		t.Errorf("Direction = %q, want %q", ob.Direction, calculator.DirectionOwedToMe)
	}
	if len(ob.Groups) != 2 {
		t.Errorf("Expected both groups to contribute, got %+v", ob.Groups)
	}
	if ob.LastActivity.IsZero() {
		t.Error("Expected bob's last activity to be set")
	}

	if len(d.RecentExpenses) != 2 {
		t.Fatalf("Expected 2 recent expenses, got %d", len(d.RecentExpenses))
	}
	if d.RecentExpenses[0].GroupName != flat.Name || d.RecentExpenses[0].Payer.ID != b.ID {
		t.Errorf("Unexpected newest expense: %+v", d.RecentExpenses[0])
	}

	t.Run("user without groups", func(t *testing.T) {
		loner := f.user(t, "dave")
		d, err := f.ledger.Dashboard(ctx, loner.ID)
		if err != nil {
			t.Fatalf("Dashboard failed: %v", err)
		}
		assertAmount(t, "TotalOwedToMe", d.TotalOwedToMe, "0")
		assertAmount(t, "TotalIOwe", d.TotalIOwe, "0")
		if len(d.OutstandingBalances) != 0 || len(d.RecentExpenses) != 0 {
			t.Errorf("Expected empty dashboard, got %+v", d)
		}
	})
}

func TestDashboard_RecentExpensesAcrossGroups(t *testing.T) {
	f := newFixture(t)
	a, b := f.user(t, "alice"), f.user(t, "bob")

	trip := f.group(t, a, b)
	flat := f.group(t, b, a)

	// 14 expenses alternating between groups and payers, oldest first
	var created []*models.Expense
	for i := 0; i < 14; i++ {
		groupID, payer := trip.ID, a
		if i%2 == 1 {
			groupID, payer = flat.ID, b
		}
		created = append(created, f.expense(t, groupID, payer, "10", a, b))
	}

	d, err := f.ledger.Dashboard(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}

	if len(d.RecentExpenses) != 10 {
		t.Fatalf("Expected 10 recent expenses, got %d", len(d.RecentExpenses))
	}

	groupNames := map[string]string{trip.ID: trip.Name, flat.ID: flat.Name}
	for i, r := range d.RecentExpenses {
		want := created[len(created)-1-i]
		if r.Expense.ID != want.ID {
			t.Errorf("RecentExpenses[%d] = %s, want %s", i, r.Expense.ID, want.ID)
		}
		if r.Payer.ID != want.PayerID || r.Payer.Name == "" {
			t.Errorf("RecentExpenses[%d] payer = %+v, want %s", i, r.Payer, want.PayerID)
		}
		if r.GroupName != groupNames[want.GroupID] {
			t.Errorf("RecentExpenses[%d] group = %q, want %q", i, r.GroupName, groupNames[want.GroupID])
		}
		if i > 0 && r.Expense.CreatedAt.After(d.RecentExpenses[i-1].Expense.CreatedAt) {
			t.Errorf("RecentExpenses[%d] is newer than the entry before it", i)
		}
	}
}

func TestAggregateDashboard(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	expense := func(id, payer, amount string, participants ...string) models.Expense {
		e := models.Expense{ID: id, PayerID: payer, PaidAmount: dec(amount)}
		shares, err := calculator.EvenShares(e.PaidAmount, participants, payer)
		if err != nil {
			t.Fatalf("EvenShares failed: %v", err)
		}
		e.Splits = calculator.BuildSplits(&e, shares)
		return e
	}

	snapshots := []groupSnapshot{
		{
			group: &models.Group{ID: "g1", Name: "One", Members: []string{"me", "x", "y", "z"}},
			ledger: &calculator.GroupLedger{
				GroupID: "g1",
				Members: []string{"me", "x", "y", "z"},
				Expenses: []models.Expense{
					expense("e1", "me", "20", "me", "x"),
					expense("e2", "y", "10", "me", "y"),
					expense("e3", "z", "0.01", "me", "z"),
				},
			},
			activity: map[string]time.Time{"x": t0, "y": t0.Add(time.Hour), "z": t0.Add(2 * time.Hour)},
		},
		{
			group: &models.Group{ID: "g2", Name: "Two", Members: []string{"me", "x"}},
			ledger: &calculator.GroupLedger{
				GroupID:  "g2",
				Members:  []string{"me", "x"},
				Expenses: []models.Expense{expense("e4", "x", "20", "me", "x")},
			},
		},
		{
			group: &models.Group{ID: "g3", Name: "Three", Members: []string{"me", "w"}},
			ledger: &calculator.GroupLedger{
				GroupID:  "g3",
				Members:  []string{"me", "w"},
				Expenses: []models.Expense{expense("e5", "me", "4", "me", "w")},
			},
		},
	}

	d := aggregateDashboard("me", snapshots)

	// x nets to zero across g1 and g2; z is owed nothing after truncation
	if len(d.OutstandingBalances) != 2 {
		t.Fatalf("Expected y and w to remain, got %+v", d.OutstandingBalances)
	}

	first, second := d.OutstandingBalances[0], d.OutstandingBalances[1]
	if first.Counterparty.ID != "y" {
		t.Errorf("Expected most recent counterparty y first, got %s", first.Counterparty.ID)
	}
	assertAmount(t, "y", first.Amount, "5")
	if first.Direction != calculator.DirectionIOwe {
		t.Errorf("Direction(y) = %q, want %q", first.Direction, calculator.DirectionIOwe)
	}

	if second.Counterparty.ID != "w" || !second.LastActivity.IsZero() {
		t.Errorf("Expected w without activity last, got %+v", second)
	}
	assertAmount(t, "w", second.Amount, "2")
}
