package ledger

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/mmynk/chopbill/internal/calculator"
	"github.com/mmynk/chopbill/internal/models"
)

// Pairwise is the position between a viewer and one counterparty.
type Pairwise struct {
	// Signed is from the viewer's perspective: positive means the counterparty owes
	// the viewer. Rounded for presentation.
	Signed decimal.Decimal

	// Amount is the magnitude of Signed.
	Amount decimal.Decimal

	Direction calculator.Direction
}

func newPairwise(signed decimal.Decimal) Pairwise {
	return Pairwise{
		Signed:    calculator.Round(signed),
		Amount:    calculator.Round(signed.Abs()),
		Direction: calculator.DirectionOf(signed),
	}
}

// NetBalance returns the user's rounded net balance in the group. Users who are not
// members get zero rather than an error; only an unknown group fails.
func (l *Ledger) NetBalance(ctx context.Context, groupID, userID string) (decimal.Decimal, error) {
	group, err := l.store.GetGroup(ctx, groupID)
	if err != nil {
		return decimal.Zero, err
	}
	if !group.HasMember(userID) {
		return decimal.Zero, nil
	}

	snap, err := l.snapshot(ctx, group, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return calculator.Round(snap.NetBalance(userID)), nil
}

// PairwiseBalance returns what other owes userID in the group (negative when userID
// owes other).
func (l *Ledger) PairwiseBalance(ctx context.Context, groupID, userID, otherID string) (Pairwise, error) {
	group, err := l.store.GetGroup(ctx, groupID)
	if err != nil {
		return Pairwise{}, err
	}
	if userID == otherID {
		return newPairwise(decimal.Zero), nil
	}

	snap, err := l.snapshot(ctx, group, userID, otherID)
	if err != nil {
		return Pairwise{}, err
	}
	return newPairwise(snap.PairwiseBalance(userID, otherID)), nil
}

// MemberBalance is one member's line in a group view.
type MemberBalance struct {
	User models.User

	// Balance is the member's own net balance in the group.
	Balance decimal.Decimal

	// OwesYou and YouOwe are the member's pairwise position with the viewer; at most
	// one is non-zero.
	OwesYou decimal.Decimal
	YouOwe  decimal.Decimal
}

// GroupView is a group as seen by one of its members.
type GroupView struct {
	Group          *models.Group
	TotalExpense   decimal.Decimal
	MyBalance      decimal.Decimal
	MemberBalances []MemberBalance
	Debts          []calculator.DebtEdge
	RecentExpenses []models.RecentExpense
}

// GroupView computes the group summary for viewerID, who must be a member.
func (l *Ledger) GroupView(ctx context.Context, groupID, viewerID string) (*GroupView, error) {
	group, err := l.requireMember(ctx, groupID, viewerID)
	if err != nil {
		return nil, err
	}

	snap, err := l.snapshot(ctx, group)
	if err != nil {
		return nil, err
	}

	userIDs := append([]string(nil), group.Members...)
	for _, e := range snap.Expenses {
		userIDs = append(userIDs, e.PayerID)
	}
	users, err := l.store.GetUsersByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	view := &GroupView{
		Group:        group,
		TotalExpense: calculator.Round(snap.TotalExpense()),
		MyBalance:    calculator.Round(snap.NetBalance(viewerID)),
		Debts:        calculator.SimplifyDebts(snap.MemberBalances()),
	}

	for _, pos := range snap.MemberBalances() {
		mb := MemberBalance{
			Balance: calculator.Round(pos.Net()),
			OwesYou: decimal.Zero,
			YouOwe:  decimal.Zero,
		}
		if u, ok := users[pos.UserID]; ok {
			mb.User = *u
		} else {
			mb.User = models.User{ID: pos.UserID}
		}
		if pos.UserID != viewerID {
			pw := newPairwise(snap.PairwiseBalance(viewerID, pos.UserID))
			switch pw.Direction {
			case calculator.DirectionOwedToMe:
				mb.OwesYou = pw.Amount
			case calculator.DirectionIOwe:
				mb.YouOwe = pw.Amount
			}
		}
		view.MemberBalances = append(view.MemberBalances, mb)
	}

	// Expenses are loaded newest first
	for i := 0; i < len(snap.Expenses) && i < l.recentLimit; i++ {
		e := snap.Expenses[i]
		recent := models.RecentExpense{
			Expense:    e,
			GroupName:  group.Name,
			SplitCount: len(e.Splits),
		}
		if u, ok := users[e.PayerID]; ok {
			recent.Payer = *u
		}
		view.RecentExpenses = append(view.RecentExpenses, recent)
	}

	slog.DebugContext(ctx, "Group view computed",
		"group_id", groupID,
		"viewer_id", viewerID,
		"expenses", len(snap.Expenses),
		"settlements", len(snap.Settlements),
	)

	return view, nil
}
