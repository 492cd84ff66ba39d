package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/chopbill/internal/models"
	"github.com/mmynk/chopbill/internal/storage"
)

const inviteColumns = "id, group_id, inviter_id, token, expires_at, used, used_by_id, used_at, created_at"

// CreateInvite persists a new group invite.
func (s *SQLiteStore) CreateInvite(ctx context.Context, invite *models.GroupInvite) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO group_invites ("+inviteColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		invite.ID, invite.GroupID, invite.InviterID, invite.Token, unixNano(invite.ExpiresAt),
		invite.Used, nullString(invite.UsedByID), nullTime(invite.UsedAt), unixNano(invite.CreatedAt),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("invite token: %w", storage.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to insert invite: %w", err)
	}
	return nil
}

// GetInviteByToken retrieves an invite by its token.
func (s *SQLiteStore) GetInviteByToken(ctx context.Context, token string) (*models.GroupInvite, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+inviteColumns+" FROM group_invites WHERE token = ?", token)
	invite, err := scanInvite(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("invite: %w", storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invite: %w", err)
	}
	return invite, nil
}

// GetActiveInvite retrieves the group's newest usable invite.
func (s *SQLiteStore) GetActiveInvite(ctx context.Context, groupID string, now time.Time) (*models.GroupInvite, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+inviteColumns+` FROM group_invites
		 WHERE group_id = ? AND used = 0 AND expires_at > ?
		 ORDER BY created_at DESC LIMIT 1`,
		groupID, unixNano(now),
	)
	invite, err := scanInvite(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("active invite for group %s: %w", groupID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active invite: %w", err)
	}
	return invite, nil
}

// AcceptInvite records the invite's use and the new membership atomically.
func (s *SQLiteStore) AcceptInvite(ctx context.Context, invite *models.GroupInvite) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE group_invites SET used = 1, used_by_id = ?, used_at = ? WHERE id = ? AND used = 0",
		invite.UsedByID, unixNano(invite.UsedAt), invite.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark invite used: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrInviteUsed
	}

	if err := addMember(ctx, tx, invite.GroupID, invite.UsedByID, invite.UsedAt); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func nullTime(t time.Time) sql.NullInt64 {
	return sql.NullInt64{Int64: t.UnixNano(), Valid: !t.IsZero()}
}

func scanInvite(row rowScanner) (*models.GroupInvite, error) {
	invite := &models.GroupInvite{}
	var usedBy sql.NullString
	var usedAt sql.NullInt64
	var expiresAt, createdAt int64
	err := row.Scan(&invite.ID, &invite.GroupID, &invite.InviterID, &invite.Token, &expiresAt,
		&invite.Used, &usedBy, &usedAt, &createdAt)
	if err != nil {
		return nil, err
	}
	invite.ExpiresAt = fromUnixNano(expiresAt)
	invite.CreatedAt = fromUnixNano(createdAt)
	invite.UsedByID = usedBy.String
	if usedAt.Valid {
		invite.UsedAt = fromUnixNano(usedAt.Int64)
	}
	return invite, nil
}
