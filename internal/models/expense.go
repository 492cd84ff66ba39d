package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a single disbursement recorded in a group's ledger.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group that owns this expense.
	GroupID string

	// PaidAmount is the full amount actually disbursed by the payer. Always positive.
	PaidAmount decimal.Decimal

	// PayerID is the member who disbursed PaidAmount.
	PayerID string

	// CreatorID is the member who recorded the expense. Audit only, never
	// balance-relevant.
	CreatorID string

	// Description is a short free-text label.
	Description string

	// Notes is optional longer free text.
	Notes string

	// Splits are the participants' allocated shares. Order carries no meaning.
	Splits []ExpenseSplit

	// CreatedAt is when the expense was recorded.
	CreatedAt time.Time
}

// Validate checks the expense header. Split sums are checked by
// calculator.ValidateSplits because they depend on the encoding of each row.
func (e *Expense) Validate() error {
	if e.GroupID == "" {
		return ErrGroupRequired
	}
	if e.PayerID == "" {
		return ErrPayerRequired
	}
	if !e.PaidAmount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

// Involves reports whether userID paid for the expense or holds a split row in it.
func (e *Expense) Involves(userID string) bool {
	if e.PayerID == userID {
		return true
	}
	for _, s := range e.Splits {
		if s.UserID == userID {
			return true
		}
	}
	return false
}

// ExpenseSplit is one participant's row of an Expense.
//
// The meaning of PaidAmount and DueAmount depends on which encoding the row was
// written with; see the package documentation and calculator.NormalizeSplit.
type ExpenseSplit struct {
	// ID is the unique identifier for the split row (UUID format).
	ID string

	// ExpenseID is the owning expense.
	ExpenseID string

	// UserID is the participant. May or may not be the payer.
	UserID string

	// PaidAmount is what this row says the participant paid.
	PaidAmount decimal.Decimal

	// DueAmount is what this row says the participant is responsible for.
	DueAmount decimal.Decimal
}

// RecentExpense is an expense header joined with its payer and group, used for
// activity feeds.
type RecentExpense struct {
	Expense    Expense
	Payer      User
	GroupName  string
	SplitCount int
}
