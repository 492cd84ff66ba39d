package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/chopbill/internal/calculator"
	"github.com/mmynk/chopbill/internal/events"
	"github.com/mmynk/chopbill/internal/metrics"
	"github.com/mmynk/chopbill/internal/models"
)

// ExpenseInput describes an expense to record.
type ExpenseInput struct {
	GroupID     string
	ActorID     string // Member recording the expense
	PayerID     string // Defaults to ActorID
	Amount      decimal.Decimal
	Description string
	Notes       string

	// Participants to split among. Empty means every member of the group.
	Participants []string
}

// CreateExpense records an expense split evenly among its participants. The expense
// and all of its split rows are written together or not at all.
func (l *Ledger) CreateExpense(ctx context.Context, in ExpenseInput) (expense *models.Expense, err error) {
	defer func() {
		metrics.LedgerWrites.WithLabelValues("expense", writeOutcome(err)).Inc()
	}()

	if in.PayerID == "" {
		in.PayerID = in.ActorID
	}
	in.Description = strings.TrimSpace(in.Description)
	if in.Description == "" {
		return nil, invalid("description", ErrDescriptionRequired)
	}
	if !in.Amount.IsPositive() {
		return nil, invalid("amount", models.ErrInvalidAmount)
	}

	group, err := l.requireMember(ctx, in.GroupID, in.ActorID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(in.PayerID) {
		return nil, invalid("payer_id", fmt.Errorf("%w: %s", ErrNotMember, in.PayerID))
	}

	participants, err := resolveParticipants(group, in.Participants)
	if err != nil {
		return nil, err
	}

	expense = &models.Expense{
		GroupID:     group.ID,
		PaidAmount:  in.Amount,
		PayerID:     in.PayerID,
		CreatorID:   in.ActorID,
		Description: in.Description,
		Notes:       in.Notes,
		CreatedAt:   l.now(),
	}

	shares, err := calculator.EvenShares(in.Amount, participants, in.PayerID)
	if err != nil {
		return nil, invalid("participants", err)
	}
	expense.Splits = calculator.BuildSplits(expense, shares)
	if err := calculator.ValidateSplits(expense); err != nil {
		return nil, invalid("splits", err)
	}

	err = l.withGroupLock(ctx, group.ID, func() error {
		current, err := l.store.GetGroup(ctx, group.ID)
		if err != nil {
			return err
		}
		if err := checkExpenseMembers(current, in, participants); err != nil {
			return err
		}
		return l.store.CreateExpense(ctx, expense)
	})
	if err != nil {
		if IsValidation(err) || errors.Is(err, ErrNotMember) {
			slog.WarnContext(ctx, "Expense rejected", "group_id", group.ID, "reason", err)
		} else {
			slog.ErrorContext(ctx, "CreateExpense failed", "group_id", group.ID, "error", err)
		}
		return nil, err
	}

	slog.InfoContext(ctx, "Expense recorded",
		"group_id", group.ID,
		"expense_id", expense.ID,
		"payer_id", expense.PayerID,
		"amount", expense.PaidAmount.String(),
		"participants", len(participants),
	)

	l.publish(ctx, events.Event{
		Type:    events.ExpenseRecorded,
		GroupID: group.ID,
		ID:      expense.ID,
		ActorID: in.ActorID,
		Amount:  &expense.PaidAmount,
	})

	return expense, nil
}

// checkExpenseMembers verifies creator, payer and participants against the group's
// membership as of the write.
func checkExpenseMembers(group *models.Group, in ExpenseInput, participants []string) error {
	if !group.HasMember(in.ActorID) {
		return fmt.Errorf("%w: user %s, group %s", ErrNotMember, in.ActorID, group.ID)
	}
	if !group.HasMember(in.PayerID) {
		return invalid("payer_id", fmt.Errorf("%w: %s", ErrNotMember, in.PayerID))
	}
	for _, id := range participants {
		if !group.HasMember(id) {
			return invalid("participants", fmt.Errorf("%w: %s", ErrNotMember, id))
		}
	}
	return nil
}

// resolveParticipants defaults to the whole membership, collapses duplicates and
// rejects non-members.
func resolveParticipants(group *models.Group, requested []string) ([]string, error) {
	if len(requested) == 0 {
		return append([]string(nil), group.Members...), nil
	}

	seen := make(map[string]bool, len(requested))
	participants := make([]string, 0, len(requested))
	for _, id := range requested {
		if seen[id] {
			continue
		}
		if !group.HasMember(id) {
			return nil, invalid("participants", fmt.Errorf("%w: %s", ErrNotMember, id))
		}
		seen[id] = true
		participants = append(participants, id)
	}
	return participants, nil
}

// SettlementInput describes a payment between two members.
type SettlementInput struct {
	GroupID string
	ActorID string // Must be PayerID or PayeeID
	PayerID string
	PayeeID string
	Amount  decimal.Decimal
	Notes   string
}

// CreateSettlement records a settlement. It is rejected when the payer does not
// currently owe the payee, or owes less than Amount. The debt check and the insert
// happen under the group's write lock, so concurrent settlements cannot jointly
// overpay.
func (l *Ledger) CreateSettlement(ctx context.Context, in SettlementInput) (settlement *models.Settlement, err error) {
	defer func() {
		metrics.LedgerWrites.WithLabelValues("settlement", writeOutcome(err)).Inc()
	}()

	if !in.Amount.IsPositive() {
		return nil, invalid("amount", models.ErrInvalidAmount)
	}
	if in.PayerID == in.PayeeID {
		return nil, invalid("payee_id", ErrSelfSettlement)
	}

	group, err := l.requireMember(ctx, in.GroupID, in.ActorID)
	if err != nil {
		return nil, err
	}
	if in.ActorID != in.PayerID && in.ActorID != in.PayeeID {
		return nil, fmt.Errorf("%w: settlements can only be recorded by the payer or the payee", ErrForbidden)
	}
	if err := checkParties(group, in); err != nil {
		return nil, err
	}

	settlement = &models.Settlement{
		GroupID:     group.ID,
		PayerID:     in.PayerID,
		PayeeID:     in.PayeeID,
		Amount:      in.Amount,
		SettledByID: in.ActorID,
		Notes:       in.Notes,
		CreatedAt:   l.now(),
	}
	if err := settlement.Validate(); err != nil {
		return nil, invalid("settlement", err)
	}

	err = l.withGroupLock(ctx, group.ID, func() error {
		// Membership may have changed while waiting for the lock
		current, err := l.store.GetGroup(ctx, group.ID)
		if err != nil {
			return err
		}
		if err := checkParties(current, in); err != nil {
			return err
		}

		snap, err := l.snapshot(ctx, current, in.PayerID, in.PayeeID)
		if err != nil {
			return err
		}

		if err := checkSettlementBound(snap, in); err != nil {
			return err
		}

		return l.store.CreateSettlement(ctx, settlement)
	})
	if err != nil {
		if IsValidation(err) {
			slog.WarnContext(ctx, "Settlement rejected",
				"group_id", group.ID,
				"payer_id", in.PayerID,
				"payee_id", in.PayeeID,
				"amount", in.Amount.String(),
				"reason", err,
			)
		} else {
			slog.ErrorContext(ctx, "CreateSettlement failed", "group_id", group.ID, "error", err)
		}
		return nil, err
	}

	slog.InfoContext(ctx, "Settlement recorded",
		"group_id", group.ID,
		"settlement_id", settlement.ID,
		"payer_id", settlement.PayerID,
		"payee_id", settlement.PayeeID,
		"amount", settlement.Amount.String(),
	)

	l.publish(ctx, events.Event{
		Type:    events.SettlementRecorded,
		GroupID: group.ID,
		ID:      settlement.ID,
		ActorID: in.ActorID,
		Amount:  &settlement.Amount,
	})

	return settlement, nil
}

// checkParties requires both ends of a settlement to be members of the group.
func checkParties(group *models.Group, in SettlementInput) error {
	if !group.HasMember(in.PayerID) {
		return invalid("payer_id", fmt.Errorf("%w: %s", ErrNotMember, in.PayerID))
	}
	if !group.HasMember(in.PayeeID) {
		return invalid("payee_id", fmt.Errorf("%w: %s", ErrNotMember, in.PayeeID))
	}
	return nil
}

// checkSettlementBound compares the amount with what the payer owes the payee, seen
// from the acting user's side of the pair.
func checkSettlementBound(snap *calculator.GroupLedger, in SettlementInput) error {
	var owed decimal.Decimal
	if in.ActorID == in.PayerID {
		// Negative from the payer's side means the payer owes
		owed = snap.PairwiseBalance(in.PayerID, in.PayeeID).Neg()
	} else {
		owed = snap.PairwiseBalance(in.PayeeID, in.PayerID)
	}

	if !owed.IsPositive() || calculator.Negligible(owed) {
		return invalid("amount", fmt.Errorf("%w: %s does not owe %s", ErrNoDebt, in.PayerID, in.PayeeID))
	}
	if limit := calculator.Round(owed); in.Amount.GreaterThan(limit) {
		return invalid("amount", fmt.Errorf("%w: %s exceeds %s", ErrSettlementExceedsDebt, in.Amount, limit))
	}
	return nil
}
