package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/chopbill/internal/models"
)

// Shares is the canonical reading of one split row.
type Shares struct {
	// Paid is what the participant actually disbursed for the expense.
	Paid decimal.Decimal
	// Due is what the participant is responsible for.
	Due decimal.Decimal
}

// IsLegacyPayerRow reports whether a split row was written with the legacy encoding:
// the payer's own row with a zero due amount, whose PaidAmount holds the payer's share.
// Detection is per row because legacy and current rows coexist within one expense.
func IsLegacyPayerRow(split models.ExpenseSplit, expense *models.Expense) bool {
	return split.UserID == expense.PayerID && split.DueAmount.IsZero()
}

// NormalizeSplit resolves a split row into its canonical (paid, due) pair.
//
// Every read of a split for balance purposes goes through here; the encoding rule
// must not be re-derived anywhere else.
func NormalizeSplit(split models.ExpenseSplit, expense *models.Expense) Shares {
	if IsLegacyPayerRow(split, expense) {
		return Shares{Paid: expense.PaidAmount, Due: split.PaidAmount}
	}
	return Shares{Paid: split.PaidAmount, Due: split.DueAmount}
}
