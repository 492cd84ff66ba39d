package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/chopbill/internal/models"
)

// GroupLedger is a read snapshot of one group's ledger rows.
//
// A snapshot may hold every row of the group or only the rows relevant to the users
// being queried; the balance functions select exactly the rows they need either way.
type GroupLedger struct {
	GroupID     string
	Members     []string
	Expenses    []models.Expense
	Settlements []models.Settlement
}

// IsMember reports whether userID belongs to the snapshot's group.
func (l *GroupLedger) IsMember(userID string) bool {
	for _, m := range l.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// Position is the breakdown behind a user's net balance in one group.
type Position struct {
	UserID              string
	Paid                decimal.Decimal // Disbursed for expenses
	Owed                decimal.Decimal // Own due shares across expenses
	SettlementsPaid     decimal.Decimal // Settlements sent to other members
	SettlementsReceived decimal.Decimal // Settlements received from other members
}

// Net is Paid - Owed + SettlementsPaid - SettlementsReceived.
// Positive means the user is owed money; negative means the user owes.
func (p Position) Net() decimal.Decimal {
	return p.Paid.Sub(p.Owed).Add(p.SettlementsPaid).Sub(p.SettlementsReceived)
}

// PositionOf computes a member's position in the group. Non-members get a zero
// position.
//
// Paid counts the normalized paid share of the user's own split rows on expenses
// they paid for. An expense whose payer holds no split row at all (the payer split
// it among others only) counts its full amount as paid.
func (l *GroupLedger) PositionOf(userID string) Position {
	pos := Position{
		UserID:              userID,
		Paid:                decimal.Zero,
		Owed:                decimal.Zero,
		SettlementsPaid:     decimal.Zero,
		SettlementsReceived: decimal.Zero,
	}
	if !l.IsMember(userID) {
		return pos
	}

	for i := range l.Expenses {
		expense := &l.Expenses[i]
		hasRow := false
		for _, split := range expense.Splits {
			if split.UserID != userID {
				continue
			}
			hasRow = true
			shares := NormalizeSplit(split, expense)
			if expense.PayerID == userID {
				pos.Paid = pos.Paid.Add(shares.Paid)
			}
			pos.Owed = pos.Owed.Add(shares.Due)
		}
		if !hasRow && expense.PayerID == userID {
			// The other rows' due shares sum to PaidAmount; crediting it keeps the group at zero
			pos.Paid = pos.Paid.Add(expense.PaidAmount)
		}
	}

	for _, s := range l.Settlements {
		if s.PayerID == userID {
			pos.SettlementsPaid = pos.SettlementsPaid.Add(s.Amount)
		}
		if s.PayeeID == userID {
			pos.SettlementsReceived = pos.SettlementsReceived.Add(s.Amount)
		}
	}

	return pos
}

// NetBalance returns the user's settlement-adjusted net balance in the group,
// unrounded. It is exactly zero for non-members and for empty groups.
func (l *GroupLedger) NetBalance(userID string) decimal.Decimal {
	return l.PositionOf(userID).Net()
}

// PairwiseBalance returns the net position between a and b from a's perspective:
// positive means b owes a.
//
//	(theyOweMe - iOweThem) + settlementsAPaidB - settlementsBPaidA
//
// where theyOweMe sums b's normalized due shares on expenses a paid, and iOweThem
// sums a's normalized due shares on expenses b paid.
func (l *GroupLedger) PairwiseBalance(a, b string) decimal.Decimal {
	if a == b {
		return decimal.Zero
	}

	theyOweMe := decimal.Zero
	iOweThem := decimal.Zero
	for i := range l.Expenses {
		expense := &l.Expenses[i]
		var debtor string
		switch expense.PayerID {
		case a:
			debtor = b
		case b:
			debtor = a
		default:
			continue
		}
		for _, split := range expense.Splits {
			if split.UserID != debtor {
				continue
			}
			due := NormalizeSplit(split, expense).Due
			if debtor == b {
				theyOweMe = theyOweMe.Add(due)
			} else {
				iOweThem = iOweThem.Add(due)
			}
		}
	}

	aPaidB := decimal.Zero
	bPaidA := decimal.Zero
	for _, s := range l.Settlements {
		switch {
		case s.PayerID == a && s.PayeeID == b:
			aPaidB = aPaidB.Add(s.Amount)
		case s.PayerID == b && s.PayeeID == a:
			bPaidA = bPaidA.Add(s.Amount)
		}
	}

	return theyOweMe.Sub(iOweThem).Add(aPaidB).Sub(bPaidA)
}

// TotalExpense is the sum of all expense amounts in the snapshot.
func (l *GroupLedger) TotalExpense() decimal.Decimal {
	total := decimal.Zero
	for _, e := range l.Expenses {
		total = total.Add(e.PaidAmount)
	}
	return total
}

// MemberBalances returns every member's position, ordered by member ID.
func (l *GroupLedger) MemberBalances() []Position {
	members := append([]string(nil), l.Members...)
	sort.Strings(members)

	positions := make([]Position, 0, len(members))
	for _, m := range members {
		positions = append(positions, l.PositionOf(m))
	}
	return positions
}

// DebtEdge represents a suggested payment from one member to another.
type DebtEdge struct {
	From   string // Member who owes
	To     string // Member who is owed
	Amount decimal.Decimal
}

// SimplifyDebts turns net positions into a short list of payments that would settle
// the group, matching the largest debtors with the largest creditors greedily.
// Amounts within NoiseThreshold are ignored.
func SimplifyDebts(positions []Position) []DebtEdge {
	type party struct {
		id     string
		amount decimal.Decimal
	}

	var creditors, debtors []party
	for _, p := range positions {
		net := p.Net()
		if Negligible(net) {
			continue
		}
		if net.IsPositive() {
			creditors = append(creditors, party{p.UserID, net})
		} else {
			debtors = append(debtors, party{p.UserID, net.Neg()})
		}
	}

	byAmount := func(ps []party) func(i, j int) bool {
		return func(i, j int) bool {
			if !ps[i].amount.Equal(ps[j].amount) {
				return ps[i].amount.GreaterThan(ps[j].amount)
			}
			return ps[i].id < ps[j].id
		}
	}
	sort.Slice(creditors, byAmount(creditors))
	sort.Slice(debtors, byAmount(debtors))

	var edges []DebtEdge
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := decimal.Min(debtors[i].amount, creditors[j].amount)

		if !Negligible(amount) {
			edges = append(edges, DebtEdge{
				From:   debtors[i].id,
				To:     creditors[j].id,
				Amount: Round(amount),
			})
		}

		debtors[i].amount = debtors[i].amount.Sub(amount)
		creditors[j].amount = creditors[j].amount.Sub(amount)

		// Move on once either side is settled
		if Negligible(debtors[i].amount) {
			i++
		}
		if Negligible(creditors[j].amount) {
			j++
		}
	}

	return edges
}
