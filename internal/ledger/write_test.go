package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/chopbill/internal/calculator"
	"github.com/mmynk/chopbill/internal/events"
	"github.com/mmynk/chopbill/internal/lock"
	"github.com/mmynk/chopbill/internal/models"
)

func TestCreateExpense(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, b, c := f.user(t, "alice"), f.user(t, "bob"), f.user(t, "carol")
	g := f.group(t, a, b, c)

	t.Run("defaults to all members and payer absorbs leftover", func(t *testing.T) {
		e, err := f.ledger.CreateExpense(ctx, ExpenseInput{
			GroupID:     g.ID,
			ActorID:     b.ID,
			Amount:      dec("100"),
			Description: "Groceries",
		})
		if err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		if e.PayerID != b.ID || e.CreatorID != b.ID {
			t.Errorf("payer/creator = %s/%s, want %s", e.PayerID, e.CreatorID, b.ID)
		}
		if len(e.Splits) != 3 {
			t.Fatalf("Expected 3 splits, got %d", len(e.Splits))
		}
		total := decimal.Zero
		for _, s := range e.Splits {
			total = total.Add(s.DueAmount)
			if s.UserID == b.ID {
				assertAmount(t, "payer due", s.DueAmount, "33.34")
				assertAmount(t, "payer paid", s.PaidAmount, "100")
			} else {
				assertAmount(t, "due", s.DueAmount, "33.33")
				assertAmount(t, "paid", s.PaidAmount, "0")
			}
		}
		assertAmount(t, "sum of dues", total, "100")
	})

	t.Run("explicit participants collapse duplicates", func(t *testing.T) {
		e, err := f.ledger.CreateExpense(ctx, ExpenseInput{
			GroupID:      g.ID,
			ActorID:      a.ID,
			PayerID:      c.ID,
			Amount:       dec("20"),
			Description:  "Taxi",
			Participants: []string{a.ID, c.ID, a.ID},
		})
		if err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		if len(e.Splits) != 2 {
			t.Errorf("Expected 2 splits, got %d", len(e.Splits))
		}
		if e.CreatorID != a.ID || e.PayerID != c.ID {
			t.Errorf("creator/payer = %s/%s", e.CreatorID, e.PayerID)
		}
	})

	outsider := f.user(t, "dave")
	tests := []struct {
		name    string
		in      ExpenseInput
		wantErr error
		field   string
	}{
		{"zero amount", ExpenseInput{GroupID: g.ID, ActorID: a.ID, Amount: dec("0"), Description: "x"}, models.ErrInvalidAmount, "amount"},
		{"blank description", ExpenseInput{GroupID: g.ID, ActorID: a.ID, Amount: dec("5"), Description: "  "}, ErrDescriptionRequired, "description"},
		{"payer not member", ExpenseInput{GroupID: g.ID, ActorID: a.ID, PayerID: outsider.ID, Amount: dec("5"), Description: "x"}, ErrNotMember, "payer_id"},
		{"participant not member", ExpenseInput{GroupID: g.ID, ActorID: a.ID, Amount: dec("5"), Description: "x", Participants: []string{a.ID, outsider.ID}}, ErrNotMember, "participants"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.ledger.CreateExpense(ctx, tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Expected %v, got %v", tt.wantErr, err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Field != tt.field {
				t.Errorf("Expected validation error on %s, got %v", tt.field, err)
			}
		})
	}

	t.Run("creator must be a member", func(t *testing.T) {
		_, err := f.ledger.CreateExpense(ctx, ExpenseInput{GroupID: g.ID, ActorID: outsider.ID, Amount: dec("5"), Description: "x"})
		if !errors.Is(err, ErrNotMember) || IsValidation(err) {
			t.Errorf("Expected non-validation ErrNotMember, got %v", err)
		}
	})

	t.Run("rejected writes leave no rows", func(t *testing.T) {
		expenses, err := f.ledger.ListExpenses(ctx, a.ID, g.ID)
		if err != nil {
			t.Fatalf("ListExpenses failed: %v", err)
		}
		if len(expenses) != 2 {
			t.Errorf("Expected 2 expenses, got %d", len(expenses))
		}
	})
}

func TestCreateSettlement_Bounds(t *testing.T) {
	f := newFixture(t)
	g, a, b, c := f.scenario(t)
	ctx := context.Background()

	settle := func(actor, payer, payee *models.User, amount string) error {
		_, err := f.ledger.CreateSettlement(ctx, SettlementInput{
			GroupID: g.ID, ActorID: actor.ID, PayerID: payer.ID, PayeeID: payee.ID, Amount: dec(amount),
		})
		return err
	}

	t.Run("exceeding outstanding debt is rejected", func(t *testing.T) {
		if err := settle(c, c, a, "10.01"); !errors.Is(err, ErrSettlementExceedsDebt) {
			t.Errorf("Expected ErrSettlementExceedsDebt, got %v", err)
		}
	})

	t.Run("payee can record what they are owed", func(t *testing.T) {
		if err := settle(a, b, a, "30.01"); !errors.Is(err, ErrSettlementExceedsDebt) {
			t.Errorf("Expected ErrSettlementExceedsDebt, got %v", err)
		}
		if err := settle(a, b, a, "5"); err != nil {
			t.Errorf("CreateSettlement failed: %v", err)
		}
	})

	t.Run("exact debt zeroes the pair", func(t *testing.T) {
		if err := settle(c, c, a, "10"); err != nil {
			t.Fatalf("CreateSettlement failed: %v", err)
		}
		pw, err := f.ledger.PairwiseBalance(ctx, g.ID, a.ID, c.ID)
		if err != nil {
			t.Fatalf("PairwiseBalance failed: %v", err)
		}
		assertAmount(t, "pairwise(A,C)", pw.Signed, "0")
		if pw.Direction != calculator.DirectionSettled {
			t.Errorf("Direction = %q, want settled", pw.Direction)
		}
	})

	t.Run("no debt left", func(t *testing.T) {
		if err := settle(c, c, a, "1"); !errors.Is(err, ErrNoDebt) {
			t.Errorf("Expected ErrNoDebt, got %v", err)
		}
	})

	t.Run("creditor cannot pay debtor", func(t *testing.T) {
		if err := settle(a, a, b, "1"); !errors.Is(err, ErrNoDebt) {
			t.Errorf("Expected ErrNoDebt, got %v", err)
		}
	})

	t.Run("shape and authorization", func(t *testing.T) {
		outsider := f.user(t, "dave")
		cases := []struct {
			name                string
			actor, payer, payee *models.User
			amount              string
			wantErr             error
		}{
			{"self settlement", c, c, c, "1", ErrSelfSettlement},
			{"non-positive amount", c, c, a, "-1", models.ErrInvalidAmount},
			{"actor not a party", b, c, a, "1", ErrForbidden},
			{"actor not a member", outsider, outsider, a, "1", ErrNotMember},
		}
		for _, tc := range cases {
			if err := settle(tc.actor, tc.payer, tc.payee, tc.amount); !errors.Is(err, tc.wantErr) {
				t.Errorf("%s: expected %v, got %v", tc.name, tc.wantErr, err)
			}
		}
	})

	t.Run("payee not a member", func(t *testing.T) {
		outsider := f.user(t, "erin")
		err := settle(c, c, outsider, "1")
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.Field != "payee_id" || !errors.Is(err, ErrNotMember) {
			t.Errorf("Expected payee_id validation error, got %v", err)
		}
	})
}

func TestWritesRecheckMembershipUnderLock(t *testing.T) {
	ctx := context.Background()

	// withRemoval returns a ledger over f's store that drops userID from the group
	// just after the group lock is granted, as a concurrent RemoveMember would.
	withRemoval := func(t *testing.T, f *fixture, groupID, userID string) *Ledger {
		h := &hookLocker{GroupLocker: lock.NewLocalLocker()}
		h.onLock = func() {
			if err := f.store.RemoveMember(ctx, groupID, userID); err != nil {
				t.Errorf("RemoveMember failed: %v", err)
			}
		}
		return New(f.store, WithClock(f.clock.Now), WithLocker(h))
	}

	t.Run("settlement with a removed payer", func(t *testing.T) {
		f := newFixture(t)
		g, a, _, c := f.scenario(t) // c owes a 10
		l := withRemoval(t, f, g.ID, c.ID)

		_, err := l.CreateSettlement(ctx, SettlementInput{
			GroupID: g.ID, ActorID: c.ID, PayerID: c.ID, PayeeID: a.ID, Amount: dec("5"),
		})
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.Field != "payer_id" || !errors.Is(err, ErrNotMember) {
			t.Fatalf("Expected payer_id membership error, got %v", err)
		}

		settlements, err := f.store.ListSettlements(ctx, g.ID)
		if err != nil {
			t.Fatalf("ListSettlements failed: %v", err)
		}
		if len(settlements) != 1 {
			t.Errorf("Expected only the scenario settlement, got %d", len(settlements))
		}
	})

	t.Run("expense with a removed participant", func(t *testing.T) {
		f := newFixture(t)
		a, b := f.user(t, "alice"), f.user(t, "bob")
		g := f.group(t, a, b)
		l := withRemoval(t, f, g.ID, b.ID)

		_, err := l.CreateExpense(ctx, ExpenseInput{
			GroupID: g.ID, ActorID: a.ID, Amount: dec("40"), Description: "Dinner",
			Participants: []string{a.ID, b.ID},
		})
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.Field != "participants" || !errors.Is(err, ErrNotMember) {
			t.Fatalf("Expected participants membership error, got %v", err)
		}

		expenses, err := f.store.ListExpenses(ctx, g.ID)
		if err != nil {
			t.Fatalf("ListExpenses failed: %v", err)
		}
		if len(expenses) != 0 {
			t.Errorf("Expected no expense to be stored, got %d", len(expenses))
		}
	})

	t.Run("remove member takes the group lock", func(t *testing.T) {
		f := newFixture(t)
		a, b := f.user(t, "alice"), f.user(t, "bob")
		g := f.group(t, a, b)
		h := &hookLocker{GroupLocker: lock.NewLocalLocker()}
		l := New(f.store, WithClock(f.clock.Now), WithLocker(h))

		if err := l.RemoveMember(ctx, a.ID, g.ID, b.ID); err != nil {
			t.Fatalf("RemoveMember failed: %v", err)
		}
		if got := h.lockedGroups(); len(got) != 1 || got[0] != g.ID {
			t.Errorf("Expected RemoveMember to lock %s, got %v", g.ID, got)
		}
	})
}

func TestCreateSettlement_ConcurrentWritersCannotOverpay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, b := f.user(t, "alice"), f.user(t, "bob")
	g := f.group(t, a, b)
	f.expense(t, g.ID, a, "60", a, b) // B owes A 30

	const writers = 8
	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.ledger.CreateSettlement(ctx, SettlementInput{
				GroupID: g.ID, ActorID: b.ID, PayerID: b.ID, PayeeID: a.ID, Amount: dec("10"),
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case IsValidation(err):
		default:
			t.Errorf("Unexpected error: %v", err)
		}
	}
	if succeeded != 3 {
		t.Errorf("Expected exactly 3 settlements to succeed, got %d", succeeded)
	}

	net, err := f.ledger.NetBalance(ctx, g.ID, b.ID)
	if err != nil {
		t.Fatalf("NetBalance failed: %v", err)
	}
	assertAmount(t, "net(B)", net, "0")
}

func TestWritesPublishEvents(t *testing.T) {
	f := newFixture(t)
	f.scenario(t)

	got := f.publisher.types()
	want := []events.Type{events.ExpenseRecorded, events.ExpenseRecorded, events.SettlementRecorded}
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %s, want %s", i, got[i], want[i])
		}
	}
}

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, events.Event) error { return errors.New("broker down") }
func (failingPublisher) Close() error                                { return nil }

func TestPublishFailureDoesNotFailWrite(t *testing.T) {
	f := newFixture(t)
	f.ledger = New(f.store, WithClock(f.clock.Now), WithPublisher(failingPublisher{}))

	a, b := f.user(t, "alice"), f.user(t, "bob")
	g := f.group(t, a, b)
	e := f.expense(t, g.ID, a, "10", a, b)
	if e.ID == "" {
		t.Error("Expected expense to be stored")
	}
}
