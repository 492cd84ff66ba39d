// Package ledgerv1 holds the request and response messages of the chopbill ledger API.
// Amounts are decimal strings on the wire.
package ledgerv1

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Group struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	OwnerID     string    `json:"owner_id"`
	MemberIDs   []string  `json:"member_ids"`
	CreatedAt   time.Time `json:"created_at"`
}

type ExpenseSplit struct {
	UserID     string          `json:"user_id"`
	PaidAmount decimal.Decimal `json:"paid_amount"`
	DueAmount  decimal.Decimal `json:"due_amount"`
}

type Expense struct {
	ID          string          `json:"id"`
	GroupID     string          `json:"group_id"`
	PaidAmount  decimal.Decimal `json:"paid_amount"`
	PayerID     string          `json:"payer_id"`
	CreatorID   string          `json:"creator_id"`
	Description string          `json:"description"`
	Notes       string          `json:"notes,omitempty"`
	Splits      []ExpenseSplit  `json:"splits"`
	CreatedAt   time.Time       `json:"created_at"`
}

type RecentExpense struct {
	Expense    Expense `json:"expense"`
	Payer      User    `json:"payer"`
	GroupName  string  `json:"group_name"`
	SplitCount int     `json:"split_count"`
}

type Settlement struct {
	ID          string          `json:"id"`
	GroupID     string          `json:"group_id"`
	PayerID     string          `json:"payer_id"`
	PayeeID     string          `json:"payee_id"`
	Amount      decimal.Decimal `json:"amount"`
	SettledByID string          `json:"settled_by_id"`
	Notes       string          `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

type Invite struct {
	ID        string    `json:"id"`
	GroupID   string    `json:"group_id"`
	InviterID string    `json:"inviter_id"`
	Token     string    `json:"token"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// MemberBalance is one member's line in a group view. OwesYou and YouOwe are
// relative to the caller.
type MemberBalance struct {
	User    User            `json:"user"`
	Balance decimal.Decimal `json:"balance"`
	OwesYou decimal.Decimal `json:"owes_you"`
	YouOwe  decimal.Decimal `json:"you_owe"`
}

type Debt struct {
	FromUserID string          `json:"from_user_id"`
	ToUserID   string          `json:"to_user_id"`
	Amount     decimal.Decimal `json:"amount"`
}

type GroupView struct {
	Group          Group           `json:"group"`
	TotalExpense   decimal.Decimal `json:"total_expense"`
	MyBalance      decimal.Decimal `json:"my_balance"`
	MemberBalances []MemberBalance `json:"member_balances"`
	Debts          []Debt          `json:"debts"`
	RecentExpenses []RecentExpense `json:"recent_expenses"`
}

type GroupRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// OutstandingBalance is a counterparty's position with the caller across groups.
// Direction is "+" when the counterparty owes the caller and "-" when the caller
// owes them.
type OutstandingBalance struct {
	User         User            `json:"user"`
	Amount       decimal.Decimal `json:"amount"`
	Direction    string          `json:"direction"`
	Groups       []GroupRef      `json:"groups"`
	LastActivity *time.Time      `json:"last_activity,omitempty"`
}

type Dashboard struct {
	TotalOwedToMe       decimal.Decimal      `json:"total_owed_to_me"`
	TotalIOwe           decimal.Decimal      `json:"total_i_owe"`
	OutstandingBalances []OutstandingBalance `json:"outstanding_balances"`
	RecentExpenses      []RecentExpense      `json:"recent_expenses"`
}

// LedgerService messages

type CreateExpenseRequest struct {
	GroupID     string          `json:"group_id"`
	PayerID     string          `json:"payer_id,omitempty"` // Defaults to the caller
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Notes       string          `json:"notes,omitempty"`

	// ParticipantIDs to split among; empty means every member.
	ParticipantIDs []string `json:"participant_ids,omitempty"`
}

type CreateExpenseResponse struct {
	Expense Expense `json:"expense"`
}

type CreateSettlementRequest struct {
	GroupID string          `json:"group_id"`
	PayerID string          `json:"payer_id"`
	PayeeID string          `json:"payee_id"`
	Amount  decimal.Decimal `json:"amount"`
	Notes   string          `json:"notes,omitempty"`
}

type CreateSettlementResponse struct {
	Settlement Settlement `json:"settlement"`
}

type ListExpensesRequest struct {
	GroupID string `json:"group_id"`
}

type ListExpensesResponse struct {
	Expenses []Expense `json:"expenses"`
}

type ListSettlementsRequest struct {
	GroupID string `json:"group_id"`
}

type ListSettlementsResponse struct {
	Settlements []Settlement `json:"settlements"`
}

type GetNetBalanceRequest struct {
	GroupID string `json:"group_id"`
	UserID  string `json:"user_id,omitempty"` // Defaults to the caller
}

type GetNetBalanceResponse struct {
	Balance decimal.Decimal `json:"balance"`
}

type GetPairwiseBalanceRequest struct {
	GroupID     string `json:"group_id"`
	OtherUserID string `json:"other_user_id"`
}

// GetPairwiseBalanceResponse is seen from the caller: Signed is positive when the
// other user owes the caller.
type GetPairwiseBalanceResponse struct {
	Signed    decimal.Decimal `json:"signed"`
	Amount    decimal.Decimal `json:"amount"`
	Direction string          `json:"direction"`
}

type GetGroupViewRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupViewResponse struct {
	View GroupView `json:"view"`
}

type GetDashboardRequest struct{}

type GetDashboardResponse struct {
	Dashboard Dashboard `json:"dashboard"`
}

// GroupService messages

type CreateGroupRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	MemberIDs   []string `json:"member_ids,omitempty"`
}

type CreateGroupResponse struct {
	Group Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []Group `json:"groups"`
}

type AddMemberRequest struct {
	GroupID string `json:"group_id"`
	UserID  string `json:"user_id"`
}

type AddMemberResponse struct {
	Group Group `json:"group"`
}

type RemoveMemberRequest struct {
	GroupID string `json:"group_id"`
	UserID  string `json:"user_id"`
}

type RemoveMemberResponse struct{}

type DeleteGroupRequest struct {
	GroupID string `json:"group_id"`
}

type DeleteGroupResponse struct{}

type CreateInviteRequest struct {
	GroupID string `json:"group_id"`
}

type CreateInviteResponse struct {
	Invite Invite `json:"invite"`
}

type GetInviteRequest struct {
	Token string `json:"token"`
}

type GetInviteResponse struct {
	Invite Invite `json:"invite"`
	Group  Group  `json:"group"`
}

type AcceptInviteRequest struct {
	Token string `json:"token"`
}

type AcceptInviteResponse struct {
	Group Group `json:"group"`
}

// UserService messages

type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type CreateUserResponse struct {
	User User `json:"user"`
}

type GetUserRequest struct {
	UserID string `json:"user_id,omitempty"` // Defaults to the caller
}

type GetUserResponse struct {
	User User `json:"user"`
}

type DeleteUserRequest struct {
	UserID string `json:"user_id,omitempty"` // Defaults to the caller
}

type DeleteUserResponse struct{}
