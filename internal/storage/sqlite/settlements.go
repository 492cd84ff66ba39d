package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/chopbill/internal/models"
)

const settlementColumns = "id, group_id, payer_id, payee_id, amount, settled_by_id, notes, created_at"

// CreateSettlement persists a new settlement to the database.
func (s *SQLiteStore) CreateSettlement(ctx context.Context, settlement *models.Settlement) error {
	// Generate ID if not set
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	if settlement.CreatedAt.IsZero() {
		settlement.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO settlements ("+settlementColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		settlement.ID, settlement.GroupID, settlement.PayerID, settlement.PayeeID,
		settlement.Amount.String(), settlement.SettledByID, nullString(settlement.Notes),
		unixNano(settlement.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}

	return nil
}

// ListSettlements retrieves a group's settlements, newest first.
func (s *SQLiteStore) ListSettlements(ctx context.Context, groupID string, involving ...string) ([]models.Settlement, error) {
	query := "SELECT " + settlementColumns + " FROM settlements WHERE group_id = ?"
	args := []any{groupID}
	if len(involving) > 0 {
		in := placeholders(len(involving))
		query += " AND (payer_id IN (" + in + ") OR payee_id IN (" + in + "))"
		args = append(args, stringArgs(involving)...)
		args = append(args, stringArgs(involving)...)
	}
	query += " ORDER BY created_at DESC, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []models.Settlement
	for rows.Next() {
		var st models.Settlement
		var notes sql.NullString
		var createdAt int64
		if err := rows.Scan(&st.ID, &st.GroupID, &st.PayerID, &st.PayeeID, &st.Amount,
			&st.SettledByID, &notes, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		st.Notes = notes.String
		st.CreatedAt = fromUnixNano(createdAt)
		settlements = append(settlements, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}

	return settlements, nil
}
