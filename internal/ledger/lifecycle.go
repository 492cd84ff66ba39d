package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmynk/chopbill/internal/events"
	"github.com/mmynk/chopbill/internal/models"
	"github.com/mmynk/chopbill/internal/storage"
)

// CreateUser registers a user. A name and at least one of email or phone are
// required; email and phone must be unique.
func (l *Ledger) CreateUser(ctx context.Context, name, email, phone string) (*models.User, error) {
	user := models.NewUser(name, email, phone)
	user.CreatedAt = l.now()

	if err := user.Validate(); err != nil {
		return nil, invalid(userField(err), err)
	}

	if err := l.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			slog.WarnContext(ctx, "CreateUser rejected: contact already registered")
		} else {
			slog.ErrorContext(ctx, "CreateUser failed", "error", err)
		}
		return nil, err
	}

	slog.InfoContext(ctx, "User created", "user_id", user.ID)
	return user, nil
}

func userField(err error) string {
	switch {
	case errors.Is(err, models.ErrNameRequired):
		return "name"
	case errors.Is(err, models.ErrInvalidEmail):
		return "email"
	case errors.Is(err, models.ErrInvalidPhone):
		return "phone"
	default:
		return "contact"
	}
}

// GetUser returns a user by ID.
func (l *Ledger) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return l.store.GetUser(ctx, userID)
}

// DeleteUser deletes the acting user's own account. It is refused while the user
// owns a group or appears anywhere in ledger history; history is never cascaded away.
func (l *Ledger) DeleteUser(ctx context.Context, actorID, userID string) error {
	if actorID != userID {
		return fmt.Errorf("%w: users can only delete their own account", ErrForbidden)
	}
	if _, err := l.store.GetUser(ctx, userID); err != nil {
		return err
	}

	referenced, err := l.store.UserReferenced(ctx, userID)
	if err != nil {
		return err
	}
	if referenced {
		slog.WarnContext(ctx, "DeleteUser rejected: user is referenced", "user_id", userID)
		return fmt.Errorf("%w: %s", ErrReferenced, userID)
	}

	if err := l.store.DeleteUser(ctx, userID); err != nil {
		slog.ErrorContext(ctx, "DeleteUser failed", "user_id", userID, "error", err)
		return err
	}

	slog.InfoContext(ctx, "User deleted", "user_id", userID)
	return nil
}

// CreateGroup creates a group owned by ownerID. The owner is always added as a
// member; member IDs that match no user are skipped.
func (l *Ledger) CreateGroup(ctx context.Context, ownerID, name, description string, memberIDs []string) (*models.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("name", models.ErrNameRequired)
	}
	if _, err := l.store.GetUser(ctx, ownerID); err != nil {
		return nil, err
	}

	known, err := l.store.GetUsersByIDs(ctx, memberIDs)
	if err != nil {
		return nil, err
	}

	members := []string{ownerID}
	seen := map[string]bool{ownerID: true}
	for _, id := range memberIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if _, ok := known[id]; !ok {
			slog.DebugContext(ctx, "Skipping unknown group member", "user_id", id)
			continue
		}
		members = append(members, id)
	}

	group := &models.Group{
		Name:        name,
		Description: strings.TrimSpace(description),
		OwnerID:     ownerID,
		Members:     members,
		CreatedAt:   l.now(),
	}
	if err := l.store.CreateGroup(ctx, group); err != nil {
		slog.ErrorContext(ctx, "CreateGroup failed", "error", err)
		return nil, err
	}

	slog.InfoContext(ctx, "Group created",
		"group_id", group.ID,
		"owner_id", ownerID,
		"members_count", len(members),
	)
	return group, nil
}

// ListGroups returns the groups the user belongs to or owns.
func (l *Ledger) ListGroups(ctx context.Context, userID string) ([]*models.Group, error) {
	return l.store.ListGroupsForUser(ctx, userID)
}

// AddMember adds userID to the group. The actor must already be a member.
func (l *Ledger) AddMember(ctx context.Context, actorID, groupID, userID string) (*models.Group, error) {
	group, err := l.requireMember(ctx, groupID, actorID)
	if err != nil {
		return nil, err
	}
	if _, err := l.store.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	if group.HasMember(userID) {
		return group, nil
	}

	if err := l.store.AddMember(ctx, groupID, userID); err != nil {
		slog.ErrorContext(ctx, "AddMember failed", "group_id", groupID, "user_id", userID, "error", err)
		return nil, err
	}
	group.Members = append(group.Members, userID)

	slog.InfoContext(ctx, "Member added", "group_id", groupID, "user_id", userID, "actor_id", actorID)
	l.publish(ctx, events.Event{Type: events.MemberJoined, GroupID: groupID, ID: userID, ActorID: actorID})

	return group, nil
}

// RemoveMember removes userID from the group. Members may remove themselves; the
// owner may remove anyone. Ledger history is left intact.
func (l *Ledger) RemoveMember(ctx context.Context, actorID, groupID, userID string) error {
	group, err := l.store.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if actorID != userID && actorID != group.OwnerID {
		return fmt.Errorf("%w: only the owner can remove other members", ErrForbidden)
	}

	// Serialized with ledger writes on the same group
	err = l.withGroupLock(ctx, groupID, func() error {
		current, err := l.store.GetGroup(ctx, groupID)
		if err != nil {
			return err
		}
		if !current.HasMember(userID) {
			return fmt.Errorf("%w: user %s, group %s", ErrNotMember, userID, groupID)
		}
		return l.store.RemoveMember(ctx, groupID, userID)
	})
	if err != nil {
		if !errors.Is(err, ErrNotMember) {
			slog.ErrorContext(ctx, "RemoveMember failed", "group_id", groupID, "user_id", userID, "error", err)
		}
		return err
	}

	slog.InfoContext(ctx, "Member removed", "group_id", groupID, "user_id", userID, "actor_id", actorID)
	return nil
}

// DeleteGroup deletes a group and its whole ledger. Only the owner may do this.
func (l *Ledger) DeleteGroup(ctx context.Context, actorID, groupID string) error {
	group, err := l.store.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if group.OwnerID != actorID {
		return fmt.Errorf("%w: only the owner can delete a group", ErrForbidden)
	}

	err = l.withGroupLock(ctx, groupID, func() error {
		return l.store.DeleteGroup(ctx, groupID)
	})
	if err != nil {
		slog.ErrorContext(ctx, "DeleteGroup failed", "group_id", groupID, "error", err)
		return err
	}

	slog.InfoContext(ctx, "Group deleted", "group_id", groupID, "actor_id", actorID)
	return nil
}

// ListExpenses returns the group's expenses newest first. The actor must be a member.
func (l *Ledger) ListExpenses(ctx context.Context, actorID, groupID string) ([]models.Expense, error) {
	if _, err := l.requireMember(ctx, groupID, actorID); err != nil {
		return nil, err
	}
	return l.store.ListExpenses(ctx, groupID)
}

// ListSettlements returns the group's settlements newest first. The actor must be a
// member.
func (l *Ledger) ListSettlements(ctx context.Context, actorID, groupID string) ([]models.Settlement, error) {
	if _, err := l.requireMember(ctx, groupID, actorID); err != nil {
		return nil, err
	}
	return l.store.ListSettlements(ctx, groupID)
}
