package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/chopbill/internal/ledger"
	"github.com/mmynk/chopbill/pkg/api/ledgerv1"
	"github.com/mmynk/chopbill/pkg/api/ledgerv1/ledgerv1connect"
)

var _ ledgerv1connect.LedgerServiceHandler = (*LedgerService)(nil)

// LedgerService implements the Connect LedgerService: expenses, settlements and
// balance reads.
type LedgerService struct {
	ledger *ledger.Ledger
}

// NewLedgerService creates a LedgerService over l.
func NewLedgerService(l *ledger.Ledger) *LedgerService {
	return &LedgerService{ledger: l}
}

// CreateExpense records an expense paid by the caller unless a payer is given.
func (s *LedgerService) CreateExpense(ctx context.Context, req *connect.Request[ledgerv1.CreateExpenseRequest]) (*connect.Response[ledgerv1.CreateExpenseResponse], error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "CreateExpense request received",
		"group_id", req.Msg.GroupID,
		"user_id", userID,
		"amount", req.Msg.Amount.String(),
		"participants", len(req.Msg.ParticipantIDs),
	)

	expense, err := s.ledger.CreateExpense(ctx, ledger.ExpenseInput{
		GroupID:      req.Msg.GroupID,
		ActorID:      userID,
		PayerID:      req.Msg.PayerID,
		Amount:       req.Msg.Amount,
		Description:  req.Msg.Description,
		Notes:        req.Msg.Notes,
		Participants: req.Msg.ParticipantIDs,
	})
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&ledgerv1.CreateExpenseResponse{Expense: toExpense(expense)}), nil
}

// CreateSettlement records a payment between two members. The caller must be one of
// them.
func (s *LedgerService) CreateSettlement(ctx context.Context, req *connect.Request[ledgerv1.CreateSettlementRequest]) (*connect.Response[ledgerv1.CreateSettlementResponse], error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "CreateSettlement request received",
		"group_id", req.Msg.GroupID,
		"user_id", userID,
		"payer_id", req.Msg.PayerID,
		"payee_id", req.Msg.PayeeID,
		"amount", req.Msg.Amount.String(),
	)

	settlement, err := s.ledger.CreateSettlement(ctx, ledger.SettlementInput{
		GroupID: req.Msg.GroupID,
		ActorID: userID,
		PayerID: req.Msg.PayerID,
		PayeeID: req.Msg.PayeeID,
		Amount:  req.Msg.Amount,
		Notes:   req.Msg.Notes,
	})
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&ledgerv1.CreateSettlementResponse{Settlement: toSettlement(settlement)}), nil
}

// ListExpenses lists a group's expenses newest first.
func (s *LedgerService) ListExpenses(ctx context.Context, req *connect.Request[ledgerv1.ListExpensesRequest]) (*connect.Response[ledgerv1.ListExpensesResponse], error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	expenses, err := s.ledger.ListExpenses(ctx, userID, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&ledgerv1.ListExpensesResponse{Expenses: toExpenses(expenses)}), nil
}

// ListSettlements lists a group's settlements newest first.
func (s *LedgerService) ListSettlements(ctx context.Context, req *connect.Request[ledgerv1.ListSettlementsRequest]) (*connect.Response[ledgerv1.ListSettlementsResponse], error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	settlements, err := s.ledger.ListSettlements(ctx, userID, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&ledgerv1.ListSettlementsResponse{Settlements: toSettlements(settlements)}), nil
}

// GetNetBalance returns a member's net balance. Only members may look.
func (s *LedgerService) GetNetBalance(ctx context.Context, req *connect.Request[ledgerv1.GetNetBalanceRequest]) (*connect.Response[ledgerv1.GetNetBalanceResponse], error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	target := req.Msg.UserID
	if target == "" {
		target = userID
	}
	if err := s.ledger.RequireMember(ctx, req.Msg.GroupID, userID); err != nil {
		return nil, toConnectError(err)
	}

	balance, err := s.ledger.NetBalance(ctx, req.Msg.GroupID, target)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&ledgerv1.GetNetBalanceResponse{Balance: balance}), nil
}

// GetPairwiseBalance returns the caller's position with one other user.
func (s *LedgerService) GetPairwiseBalance(ctx context.Context, req *connect.Request[ledgerv1.GetPairwiseBalanceRequest]) (*connect.Response[ledgerv1.GetPairwiseBalanceResponse], error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.ledger.RequireMember(ctx, req.Msg.GroupID, userID); err != nil {
		return nil, toConnectError(err)
	}

	pw, err := s.ledger.PairwiseBalance(ctx, req.Msg.GroupID, userID, req.Msg.OtherUserID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&ledgerv1.GetPairwiseBalanceResponse{
		Signed:    pw.Signed,
		Amount:    pw.Amount,
		Direction: string(pw.Direction),
	}), nil
}

// GetGroupView returns the caller's summary of a group.
func (s *LedgerService) GetGroupView(ctx context.Context, req *connect.Request[ledgerv1.GetGroupViewRequest]) (*connect.Response[ledgerv1.GetGroupViewResponse], error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	view, err := s.ledger.GroupView(ctx, req.Msg.GroupID, userID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&ledgerv1.GetGroupViewResponse{View: toGroupView(view)}), nil
}

// GetDashboard returns the caller's cross-group summary.
func (s *LedgerService) GetDashboard(ctx context.Context, req *connect.Request[ledgerv1.GetDashboardRequest]) (*connect.Response[ledgerv1.GetDashboardResponse], error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	dashboard, err := s.ledger.Dashboard(ctx, userID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&ledgerv1.GetDashboardResponse{Dashboard: ToDashboard(dashboard)}), nil
}
