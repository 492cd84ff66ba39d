package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settlement represents a payment between group members to clear debts.
// A settlement of Amount from Payer to Payee reduces what Payer owes Payee
// (or increases what Payee owes Payer) by Amount.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// GroupID is the group this settlement belongs to.
	GroupID string

	// PayerID is the user who paid (debtor settling up).
	PayerID string

	// PayeeID is the user who received payment (creditor being paid).
	PayeeID string

	// Amount is the payment amount. Always positive.
	Amount decimal.Decimal

	// SettledByID is the user who recorded this settlement.
	SettledByID string

	// Notes is an optional description for the settlement.
	Notes string

	// CreatedAt is when the settlement was recorded.
	CreatedAt time.Time
}

// Validate checks the settlement's own shape. Membership and debt bounds are
// checked by the ledger.
func (s *Settlement) Validate() error {
	if s.GroupID == "" {
		return ErrGroupRequired
	}
	if s.PayerID == "" || s.PayeeID == "" {
		return ErrPayerRequired
	}
	if s.PayerID == s.PayeeID {
		return ErrSamePayerPayee
	}
	if !s.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}
