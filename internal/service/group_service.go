package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/chopbill/internal/ledger"
	"github.com/mmynk/chopbill/pkg/api/ledgerv1"
	"github.com/mmynk/chopbill/pkg/api/ledgerv1/ledgerv1connect"
)

var _ ledgerv1connect.GroupServiceHandler = (*GroupService)(nil)

// GroupService implements the Connect GroupService: groups, membership and invites.
type GroupService struct {
	ledger *ledger.Ledger
}

// NewGroupService creates a GroupService over l.
func NewGroupService(l *ledger.Ledger) *GroupService {
	return &GroupService{ledger: l}
}

// CreateGroup creates a group owned by the caller.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[ledgerv1.CreateGroupRequest]) (*connect.Response[ledgerv1.CreateGroupResponse], error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "CreateGroup request received",
		"name", req.Msg.Name,
		"owner_id", userID,
		"members_count", len(req.Msg.MemberIDs),
	)

	group, err := s.ledger.CreateGroup(ctx, userID, req.Msg.Name, req.Msg.Description, req.Msg.MemberIDs)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&ledgerv1.CreateGroupResponse{Group: toGroup(group)}), nil
}

// ListGroups lists the caller's groups.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[ledgerv1.ListGroupsRequest]) (*connect.Response[ledgerv1.ListGroupsResponse], error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	groups, err := s.ledger.ListGroups(ctx, userID)
	if err != nil {
		return nil, toConnectError(err)
	}

	slog.DebugContext(ctx, "ListGroups successful", "user_id", userID, "count", len(groups))
	return connect.NewResponse(&ledgerv1.ListGroupsResponse{Groups: toGroups(groups)}), nil
}

// AddMember adds a user to a group the caller belongs to.
func (s *GroupService) AddMember(ctx context.Context, req *connect.Request[ledgerv1.AddMemberRequest]) (*connect.Response[ledgerv1.AddMemberResponse], error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "AddMember request received", "group_id", req.Msg.GroupID, "user_id", req.Msg.UserID)

	group, err := s.ledger.AddMember(ctx, userID, req.Msg.GroupID, req.Msg.UserID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&ledgerv1.AddMemberResponse{Group: toGroup(group)}), nil
}

// RemoveMember removes a member. Callers may remove themselves; owners anyone.
func (s *GroupService) RemoveMember(ctx context.Context, req *connect.Request[ledgerv1.RemoveMemberRequest]) (*connect.Response[ledgerv1.RemoveMemberResponse], error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "RemoveMember request received", "group_id", req.Msg.GroupID, "user_id", req.Msg.UserID)

	if err := s.ledger.RemoveMember(ctx, userID, req.Msg.GroupID, req.Msg.UserID); err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&ledgerv1.RemoveMemberResponse{}), nil
}

// DeleteGroup deletes a group the caller owns, with its whole ledger.
func (s *GroupService) DeleteGroup(ctx context.Context, req *connect.Request[ledgerv1.DeleteGroupRequest]) (*connect.Response[ledgerv1.DeleteGroupResponse], error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "DeleteGroup request received", "group_id", req.Msg.GroupID, "user_id", userID)

	if err := s.ledger.DeleteGroup(ctx, userID, req.Msg.GroupID); err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&ledgerv1.DeleteGroupResponse{}), nil
}

// CreateInvite returns the group's active invite link, creating one if needed.
func (s *GroupService) CreateInvite(ctx context.Context, req *connect.Request[ledgerv1.CreateInviteRequest]) (*connect.Response[ledgerv1.CreateInviteResponse], error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	invite, err := s.ledger.CreateInvite(ctx, userID, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&ledgerv1.CreateInviteResponse{Invite: toInvite(invite)}), nil
}

// GetInvite previews an invite and the group it grants.
func (s *GroupService) GetInvite(ctx context.Context, req *connect.Request[ledgerv1.GetInviteRequest]) (*connect.Response[ledgerv1.GetInviteResponse], error) {
	invite, group, err := s.ledger.GetInvite(ctx, req.Msg.Token)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&ledgerv1.GetInviteResponse{
		Invite: toInvite(invite),
		Group:  toGroup(group),
	}), nil
}

// AcceptInvite joins the caller to the invite's group.
func (s *GroupService) AcceptInvite(ctx context.Context, req *connect.Request[ledgerv1.AcceptInviteRequest]) (*connect.Response[ledgerv1.AcceptInviteResponse], error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "AcceptInvite request received", "user_id", userID)

	group, err := s.ledger.AcceptInvite(ctx, req.Msg.Token, userID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&ledgerv1.AcceptInviteResponse{Group: toGroup(group)}), nil
}
