package service

import (
	"github.com/mmynk/chopbill/internal/calculator"
	"github.com/mmynk/chopbill/internal/ledger"
	"github.com/mmynk/chopbill/internal/models"
	"github.com/mmynk/chopbill/pkg/api/ledgerv1"
)

func toUser(u *models.User) ledgerv1.User {
	return ledgerv1.User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		CreatedAt: u.CreatedAt,
	}
}

func toGroup(g *models.Group) ledgerv1.Group {
	return ledgerv1.Group{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		OwnerID:     g.OwnerID,
		MemberIDs:   append([]string{}, g.Members...),
		CreatedAt:   g.CreatedAt,
	}
}

func toGroups(groups []*models.Group) []ledgerv1.Group {
	out := make([]ledgerv1.Group, len(groups))
	for i, g := range groups {
		out[i] = toGroup(g)
	}
	return out
}

// toExpense reports splits in their canonical reading, whichever encoding they were
// stored with.
func toExpense(e *models.Expense) ledgerv1.Expense {
	splits := make([]ledgerv1.ExpenseSplit, len(e.Splits))
	for i, s := range e.Splits {
		shares := calculator.NormalizeSplit(s, e)
		splits[i] = ledgerv1.ExpenseSplit{
			UserID:     s.UserID,
			PaidAmount: shares.Paid,
			DueAmount:  shares.Due,
		}
	}
	return ledgerv1.Expense{
		ID:          e.ID,
		GroupID:     e.GroupID,
		PaidAmount:  e.PaidAmount,
		PayerID:     e.PayerID,
		CreatorID:   e.CreatorID,
		Description: e.Description,
		Notes:       e.Notes,
		Splits:      splits,
		CreatedAt:   e.CreatedAt,
	}
}

func toExpenses(expenses []models.Expense) []ledgerv1.Expense {
	out := make([]ledgerv1.Expense, len(expenses))
	for i := range expenses {
		out[i] = toExpense(&expenses[i])
	}
	return out
}

func toRecentExpenses(recent []models.RecentExpense) []ledgerv1.RecentExpense {
	out := make([]ledgerv1.RecentExpense, len(recent))
	for i := range recent {
		out[i] = ledgerv1.RecentExpense{
			Expense:    toExpense(&recent[i].Expense),
			Payer:      toUser(&recent[i].Payer),
			GroupName:  recent[i].GroupName,
			SplitCount: recent[i].SplitCount,
		}
	}
	return out
}

func toSettlement(s *models.Settlement) ledgerv1.Settlement {
	return ledgerv1.Settlement{
		ID:          s.ID,
		GroupID:     s.GroupID,
		PayerID:     s.PayerID,
		PayeeID:     s.PayeeID,
		Amount:      s.Amount,
		SettledByID: s.SettledByID,
		Notes:       s.Notes,
		CreatedAt:   s.CreatedAt,
	}
}

func toSettlements(settlements []models.Settlement) []ledgerv1.Settlement {
	out := make([]ledgerv1.Settlement, len(settlements))
	for i := range settlements {
		out[i] = toSettlement(&settlements[i])
	}
	return out
}

func toInvite(i *models.GroupInvite) ledgerv1.Invite {
	return ledgerv1.Invite{
		ID:        i.ID,
		GroupID:   i.GroupID,
		InviterID: i.InviterID,
		Token:     i.Token,
		URL:       i.URL(),
		ExpiresAt: i.ExpiresAt,
	}
}

func toGroupView(v *ledger.GroupView) ledgerv1.GroupView {
	members := make([]ledgerv1.MemberBalance, len(v.MemberBalances))
	for i, mb := range v.MemberBalances {
		members[i] = ledgerv1.MemberBalance{
			User:    toUser(&mb.User),
			Balance: mb.Balance,
			OwesYou: mb.OwesYou,
			YouOwe:  mb.YouOwe,
		}
	}
	debts := make([]ledgerv1.Debt, len(v.Debts))
	for i, d := range v.Debts {
		debts[i] = toDebt(d)
	}
	return ledgerv1.GroupView{
		Group:          toGroup(v.Group),
		TotalExpense:   v.TotalExpense,
		MyBalance:      v.MyBalance,
		MemberBalances: members,
		Debts:          debts,
		RecentExpenses: toRecentExpenses(v.RecentExpenses),
	}
}

func toDebt(d calculator.DebtEdge) ledgerv1.Debt {
	return ledgerv1.Debt{
		FromUserID: d.From,
		ToUserID:   d.To,
		Amount:     d.Amount,
	}
}

// ToDashboard converts a dashboard to its API message.
func ToDashboard(d *ledger.Dashboard) ledgerv1.Dashboard {
	balances := make([]ledgerv1.OutstandingBalance, len(d.OutstandingBalances))
	for i, ob := range d.OutstandingBalances {
		groups := make([]ledgerv1.GroupRef, len(ob.Groups))
		for j, g := range ob.Groups {
			groups[j] = ledgerv1.GroupRef{ID: g.ID, Name: g.Name}
		}
		balances[i] = ledgerv1.OutstandingBalance{
			User:      toUser(&ob.Counterparty),
			Amount:    ob.Amount,
			Direction: string(ob.Direction),
			Groups:    groups,
		}
		if !ob.LastActivity.IsZero() {
			at := ob.LastActivity
			balances[i].LastActivity = &at
		}
	}
	return ledgerv1.Dashboard{
		TotalOwedToMe:       d.TotalOwedToMe,
		TotalIOwe:           d.TotalIOwe,
		OutstandingBalances: balances,
		RecentExpenses:      toRecentExpenses(d.RecentExpenses),
	}
}
