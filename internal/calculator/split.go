package calculator

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/chopbill/internal/models"
)

var (
	ErrNoParticipants       = errors.New("must have at least one participant")
	ErrDuplicateParticipant = errors.New("participant listed more than once")
	ErrNegativeSplit        = errors.New("split amounts cannot be negative")
	ErrSplitSumExceeded     = errors.New("split amounts exceed the expense amount")
)

// Share is one participant's portion of an evenly divided amount.
type Share struct {
	UserID string
	Amount decimal.Decimal
}

// EvenShares divides amount evenly among participants, cutting each share down to
// cents. The leftover (less than one cent per participant) goes to the payer's share
// when the payer participates, otherwise to the first participant, so shares always
// sum to exactly amount and none is negative.
func EvenShares(amount decimal.Decimal, participants []string, payerID string) ([]Share, error) {
	if len(participants) == 0 {
		return nil, ErrNoParticipants
	}

	seen := make(map[string]bool, len(participants))
	for _, p := range participants {
		if seen[p] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateParticipant, p)
		}
		seen[p] = true
	}

	n := decimal.NewFromInt(int64(len(participants)))
	each := amount.Div(n).Truncate(presentationPlaces)
	residual := amount.Sub(each.Mul(n))

	absorber := 0
	for i, p := range participants {
		if p == payerID {
			absorber = i
			break
		}
	}

	shares := make([]Share, len(participants))
	for i, p := range participants {
		shares[i] = Share{UserID: p, Amount: each}
	}
	shares[absorber].Amount = shares[absorber].Amount.Add(residual)

	return shares, nil
}

// BuildSplits produces split rows for an expense using the current encoding: every
// row carries its share in DueAmount, the payer's row carries the full amount in
// PaidAmount, non-payer rows have PaidAmount zero.
func BuildSplits(expense *models.Expense, shares []Share) []models.ExpenseSplit {
	splits := make([]models.ExpenseSplit, 0, len(shares))
	for _, share := range shares {
		paid := decimal.Zero
		if share.UserID == expense.PayerID {
			paid = expense.PaidAmount
		}
		splits = append(splits, models.ExpenseSplit{
			ExpenseID:  expense.ID,
			UserID:     share.UserID,
			PaidAmount: paid,
			DueAmount:  share.Amount,
		})
	}
	return splits
}

// ValidateSplits checks an expense's split rows before they are written: no negative
// amounts, one row per participant, and neither the due amounts nor the paid amounts
// may sum to more than the expense amount. Violations reject the write; nothing is
// clamped.
func ValidateSplits(expense *models.Expense) error {
	if len(expense.Splits) == 0 {
		return ErrNoParticipants
	}

	seen := make(map[string]bool, len(expense.Splits))
	dues := make([]decimal.Decimal, 0, len(expense.Splits))
	paids := make([]decimal.Decimal, 0, len(expense.Splits))
	for _, s := range expense.Splits {
		if s.PaidAmount.IsNegative() || s.DueAmount.IsNegative() {
			return fmt.Errorf("%w: participant %s", ErrNegativeSplit, s.UserID)
		}
		if seen[s.UserID] {
			return fmt.Errorf("%w: %s", ErrDuplicateParticipant, s.UserID)
		}
		seen[s.UserID] = true
		dues = append(dues, s.DueAmount)
		paids = append(paids, s.PaidAmount)
	}

	if due := sum(dues...); due.GreaterThan(expense.PaidAmount) {
		return fmt.Errorf("%w: due amounts total %s, expense is %s", ErrSplitSumExceeded, due, expense.PaidAmount)
	}
	if paid := sum(paids...); paid.GreaterThan(expense.PaidAmount) {
		return fmt.Errorf("%w: paid amounts total %s, expense is %s", ErrSplitSumExceeded, paid, expense.PaidAmount)
	}
	return nil
}
