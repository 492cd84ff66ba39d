package ledger

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mmynk/chopbill/internal/events"
	"github.com/mmynk/chopbill/internal/models"
	"github.com/mmynk/chopbill/internal/storage"
)

// CreateInvite returns the group's active invite, creating one if none is usable.
// The actor must be a member.
func (l *Ledger) CreateInvite(ctx context.Context, actorID, groupID string) (*models.GroupInvite, error) {
	if _, err := l.requireMember(ctx, groupID, actorID); err != nil {
		return nil, err
	}

	now := l.now()
	active, err := l.store.GetActiveInvite(ctx, groupID, now)
	if err == nil {
		return active, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	invite, err := models.NewGroupInvite(groupID, actorID, now)
	if err != nil {
		return nil, err
	}
	if err := l.store.CreateInvite(ctx, invite); err != nil {
		slog.ErrorContext(ctx, "CreateInvite failed", "group_id", groupID, "error", err)
		return nil, err
	}

	slog.InfoContext(ctx, "Invite created", "group_id", groupID, "invite_id", invite.ID, "inviter_id", actorID)
	return invite, nil
}

// GetInvite looks up a usable invite and its group. Used or expired invites fail
// with models.ErrInviteUsed or models.ErrInviteExpired.
func (l *Ledger) GetInvite(ctx context.Context, token string) (*models.GroupInvite, *models.Group, error) {
	invite, err := l.store.GetInviteByToken(ctx, token)
	if err != nil {
		return nil, nil, err
	}
	if err := invite.CheckUsable(l.now()); err != nil {
		return nil, nil, err
	}

	group, err := l.store.GetGroup(ctx, invite.GroupID)
	if err != nil {
		return nil, nil, err
	}
	return invite, group, nil
}

// AcceptInvite uses the invite for userID and adds them to its group. The invite is
// consumed even if the user is already a member.
func (l *Ledger) AcceptInvite(ctx context.Context, token, userID string) (*models.Group, error) {
	invite, err := l.store.GetInviteByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if _, err := l.store.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	if err := invite.Use(userID, l.now()); err != nil {
		return nil, err
	}
	if err := l.store.AcceptInvite(ctx, invite); err != nil {
		if !errors.Is(err, models.ErrInviteUsed) {
			slog.ErrorContext(ctx, "AcceptInvite failed", "invite_id", invite.ID, "error", err)
		}
		return nil, err
	}

	group, err := l.store.GetGroup(ctx, invite.GroupID)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Invite accepted", "group_id", group.ID, "invite_id", invite.ID, "user_id", userID)
	l.publish(ctx, events.Event{Type: events.MemberJoined, GroupID: group.ID, ID: userID, ActorID: userID})

	return group, nil
}
