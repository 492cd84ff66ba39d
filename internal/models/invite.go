package models

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	// InviteTTL is how long a group invite stays usable after creation.
	InviteTTL = 30 * 24 * time.Hour

	inviteTokenBytes = 32
	inviteURLPrefix  = "chopbill://invite/"
)

// GroupInvite is a single-use, time-boxed grant to join a group.
//
// Lifecycle: created active with a random token; used exactly once (UsedByID/UsedAt
// recorded); never usable again after use or after ExpiresAt.
type GroupInvite struct {
	// ID is the unique identifier for the invite (UUID format).
	ID string

	// GroupID is the group the invite grants access to.
	GroupID string

	// InviterID is the member who created the invite.
	InviterID string

	// Token is the secret shared with the invitee. Unique across all invites.
	Token string

	// ExpiresAt is when the invite stops being usable.
	ExpiresAt time.Time

	// Used is true once the invite has been accepted.
	Used bool

	// UsedByID is the user who accepted the invite.
	UsedByID string

	// UsedAt is when the invite was accepted.
	UsedAt time.Time

	// CreatedAt is when the invite was created.
	CreatedAt time.Time
}

// NewGroupInvite creates an active invite expiring InviteTTL after now.
func NewGroupInvite(groupID, inviterID string, now time.Time) (*GroupInvite, error) {
	token, err := newInviteToken()
	if err != nil {
		return nil, err
	}
	return &GroupInvite{
		ID:        uuid.New().String(),
		GroupID:   groupID,
		InviterID: inviterID,
		Token:     token,
		ExpiresAt: now.Add(InviteTTL),
		CreatedAt: now,
	}, nil
}

// Expired reports whether the invite is past its expiry at now.
func (i *GroupInvite) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && !now.Before(i.ExpiresAt)
}

// CheckUsable returns ErrInviteUsed or ErrInviteExpired when the invite can no
// longer be accepted.
func (i *GroupInvite) CheckUsable(now time.Time) error {
	if i.Used {
		return ErrInviteUsed
	}
	if i.Expired(now) {
		return ErrInviteExpired
	}
	return nil
}

// Use transitions the invite to used. It fails without changing anything if the
// invite is already used or expired.
func (i *GroupInvite) Use(userID string, now time.Time) error {
	if err := i.CheckUsable(now); err != nil {
		return err
	}
	i.Used = true
	i.UsedByID = userID
	i.UsedAt = now
	return nil
}

// URL is the deep link handed to invitees.
func (i *GroupInvite) URL() string {
	return inviteURLPrefix + i.Token
}

func newInviteToken() (string, error) {
	b := make([]byte, inviteTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate invite token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
