package calculator

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/chopbill/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// currentExpense builds an expense in the current encoding from share amounts.
func currentExpense(id, payer, amount string, shares map[string]string) models.Expense {
	e := models.Expense{ID: id, GroupID: "g", PayerID: payer, CreatorID: payer, PaidAmount: dec(amount)}
	for user, share := range shares {
		paid := decimal.Zero
		if user == payer {
			paid = dec(amount)
		}
		e.Splits = append(e.Splits, models.ExpenseSplit{ExpenseID: id, UserID: user, PaidAmount: paid, DueAmount: dec(share)})
	}
	return e
}

// legacyExpense builds an expense whose payer row uses the legacy encoding.
func legacyExpense(id, payer, amount string, shares map[string]string) models.Expense {
	e := models.Expense{ID: id, GroupID: "g", PayerID: payer, CreatorID: payer, PaidAmount: dec(amount)}
	for user, share := range shares {
		if user == payer {
			e.Splits = append(e.Splits, models.ExpenseSplit{ExpenseID: id, UserID: user, PaidAmount: dec(share), DueAmount: decimal.Zero})
			continue
		}
		e.Splits = append(e.Splits, models.ExpenseSplit{ExpenseID: id, UserID: user, PaidAmount: decimal.Zero, DueAmount: dec(share)})
	}
	return e
}

func settlement(payer, payee, amount string) models.Settlement {
	return models.Settlement{GroupID: "g", PayerID: payer, PayeeID: payee, Amount: dec(amount), SettledByID: payer}
}

func assertAmount(t *testing.T, label string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("%s = %s, want %s", label, got, want)
	}
}
