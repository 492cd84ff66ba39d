package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/chopbill/internal/ledger"
	"github.com/mmynk/chopbill/pkg/api/ledgerv1"
	"github.com/mmynk/chopbill/pkg/api/ledgerv1/ledgerv1connect"
)

var _ ledgerv1connect.UserServiceHandler = (*UserService)(nil)

// UserService implements the Connect UserService.
type UserService struct {
	ledger *ledger.Ledger
}

// NewUserService creates a UserService over l.
func NewUserService(l *ledger.Ledger) *UserService {
	return &UserService{ledger: l}
}

// PublicProcedures lists the RPCs that run without a caller identity.
func PublicProcedures() []string {
	return []string{
		ledgerv1connect.UserServiceCreateUserProcedure,
		ledgerv1connect.GroupServiceGetInviteProcedure,
	}
}

// CreateUser registers a user. It needs no caller.
func (s *UserService) CreateUser(ctx context.Context, req *connect.Request[ledgerv1.CreateUserRequest]) (*connect.Response[ledgerv1.CreateUserResponse], error) {
	slog.InfoContext(ctx, "CreateUser request received", "name", req.Msg.Name)

	user, err := s.ledger.CreateUser(ctx, req.Msg.Name, req.Msg.Email, req.Msg.Phone)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&ledgerv1.CreateUserResponse{User: toUser(user)}), nil
}

// GetUser returns a user, the caller by default.
func (s *UserService) GetUser(ctx context.Context, req *connect.Request[ledgerv1.GetUserRequest]) (*connect.Response[ledgerv1.GetUserResponse], error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.UserID != "" {
		userID = req.Msg.UserID
	}

	user, err := s.ledger.GetUser(ctx, userID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&ledgerv1.GetUserResponse{User: toUser(user)}), nil
}

// DeleteUser deletes the caller's account when no ledger history references it.
func (s *UserService) DeleteUser(ctx context.Context, req *connect.Request[ledgerv1.DeleteUserRequest]) (*connect.Response[ledgerv1.DeleteUserResponse], error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	target := req.Msg.UserID
	if target == "" {
		target = userID
	}

	slog.InfoContext(ctx, "DeleteUser request received", "user_id", target)

	if err := s.ledger.DeleteUser(ctx, userID, target); err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&ledgerv1.DeleteUserResponse{}), nil
}
