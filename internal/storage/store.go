// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/mmynk/chopbill/internal/models"
)

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a write would violate a uniqueness constraint.
	ErrConflict = errors.New("already exists")
)

// Store defines the persistence operations the ledger depends on.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the ledger or service layers.
type Store interface {
	UserStore
	GroupStore
	LedgerStore
	InviteStore

	// Close releases any resources held by the store.
	Close() error
}

// UserStore persists users.
type UserStore interface {
	// CreateUser inserts a user. Returns ErrConflict if the email or phone is taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUser retrieves a user by ID. Returns ErrNotFound if absent.
	GetUser(ctx context.Context, userID string) (*models.User, error)

	// GetUsersByIDs retrieves multiple users keyed by ID.
	// Users that don't exist are omitted from the result.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)

	// UserReferenced reports whether the user owns a group, paid for, recorded or
	// shares in an expense, or appears in a settlement.
	UserReferenced(ctx context.Context, userID string) (bool, error)

	// DeleteUser removes the user along with their memberships and the invites they
	// issued. Callers check UserReferenced first.
	DeleteUser(ctx context.Context, userID string) error
}

// GroupStore persists groups and memberships.
type GroupStore interface {
	// CreateGroup inserts a group and its members in one transaction.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group with its member IDs. Returns ErrNotFound if absent.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroupsForUser returns every group the user belongs to or owns, newest first.
	ListGroupsForUser(ctx context.Context, userID string) ([]*models.Group, error)

	// AddMember adds a membership. Adding an existing member is a no-op.
	AddMember(ctx context.Context, groupID, userID string) error

	// RemoveMember deletes a membership. Ledger rows are left untouched.
	RemoveMember(ctx context.Context, groupID, userID string) error

	// DeleteGroup removes a group; expenses, splits, settlements, memberships and
	// invites go with it.
	DeleteGroup(ctx context.Context, groupID string) error
}

// LedgerStore persists expenses and settlements.
type LedgerStore interface {
	// CreateExpense inserts an expense and all of its split rows atomically.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// ListExpenses returns a group's expenses with their splits, newest first.
	// When involving is non-empty only expenses paid by, or split with, one of those
	// users are returned; each still carries all of its split rows.
	ListExpenses(ctx context.Context, groupID string, involving ...string) ([]models.Expense, error)

	// ListRecentExpenses returns the newest expenses across every group the user is a
	// member of, joined with payer and group.
	ListRecentExpenses(ctx context.Context, userID string, limit int) ([]models.RecentExpense, error)

	// LatestActivity returns, per user, the newest expense timestamp in the group where
	// the user paid or holds a split row.
	LatestActivity(ctx context.Context, groupID string) (map[string]time.Time, error)

	// CreateSettlement inserts a settlement.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error

	// ListSettlements returns a group's settlements newest first. When involving is
	// non-empty only settlements whose payer or payee is one of those users are
	// returned.
	ListSettlements(ctx context.Context, groupID string, involving ...string) ([]models.Settlement, error)
}

// InviteStore persists group invites.
type InviteStore interface {
	// CreateInvite inserts an invite.
	CreateInvite(ctx context.Context, invite *models.GroupInvite) error

	// GetInviteByToken retrieves an invite. Returns ErrNotFound if absent.
	GetInviteByToken(ctx context.Context, token string) (*models.GroupInvite, error)

	// GetActiveInvite returns the group's newest unused, unexpired invite, or
	// ErrNotFound.
	GetActiveInvite(ctx context.Context, groupID string, now time.Time) (*models.GroupInvite, error)

	// AcceptInvite marks an invite used and adds the user to its group in one
	// transaction. The invite must already carry UsedByID and UsedAt. Returns
	// models.ErrInviteUsed if another caller used it first.
	AcceptInvite(ctx context.Context, invite *models.GroupInvite) error
}
