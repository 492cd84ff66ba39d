package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/chopbill/internal/models"
)

const expenseColumns = "id, group_id, paid_amount, payer_id, creator_id, description, notes, created_at"

// CreateExpense persists an expense and its split rows in one transaction.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt.IsZero() {
		expense.CreatedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO expenses ("+expenseColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		expense.ID, expense.GroupID, expense.PaidAmount.String(), expense.PayerID, expense.CreatorID,
		expense.Description, nullString(expense.Notes), unixNano(expense.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for i := range expense.Splits {
		split := &expense.Splits[i]
		if split.ID == "" {
			split.ID = uuid.New().String()
		}
		split.ExpenseID = expense.ID

		_, err = tx.ExecContext(ctx,
			`INSERT INTO expense_splits (id, expense_id, group_id, user_id, paid_amount, due_amount)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			split.ID, expense.ID, expense.GroupID, split.UserID,
			split.PaidAmount.String(), split.DueAmount.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense split: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListExpenses retrieves a group's expenses, newest first, with all of their splits.
func (s *SQLiteStore) ListExpenses(ctx context.Context, groupID string, involving ...string) ([]models.Expense, error) {
	query := "SELECT " + expenseColumns + " FROM expenses WHERE group_id = ?"
	args := []any{groupID}
	if len(involving) > 0 {
		in := placeholders(len(involving))
		query += ` AND (payer_id IN (` + in + `)
			OR id IN (SELECT expense_id FROM expense_splits WHERE group_id = ? AND user_id IN (` + in + `)))`
		args = append(args, stringArgs(involving)...)
		args = append(args, groupID)
		args = append(args, stringArgs(involving)...)
	}
	query += " ORDER BY created_at DESC, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	var expenses []models.Expense
	index := make(map[string]int)
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		index[expense.ID] = len(expenses)
		expenses = append(expenses, expense)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	if len(expenses) == 0 {
		return expenses, nil
	}

	ids := make([]string, len(expenses))
	for i, e := range expenses {
		ids[i] = e.ID
	}
	splitRows, err := s.db.QueryContext(ctx,
		`SELECT id, expense_id, user_id, paid_amount, due_amount
		 FROM expense_splits WHERE expense_id IN (`+placeholders(len(ids))+`)
		 ORDER BY expense_id, user_id`,
		stringArgs(ids)...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get expense splits: %w", err)
	}
	defer splitRows.Close()

	for splitRows.Next() {
		var split models.ExpenseSplit
		if err := splitRows.Scan(&split.ID, &split.ExpenseID, &split.UserID, &split.PaidAmount, &split.DueAmount); err != nil {
			return nil, fmt.Errorf("failed to scan expense split: %w", err)
		}
		i := index[split.ExpenseID]
		expenses[i].Splits = append(expenses[i].Splits, split)
	}
	if err := splitRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense splits: %w", err)
	}

	return expenses, nil
}

// ListRecentExpenses retrieves the newest expenses across the user's groups.
func (s *SQLiteStore) ListRecentExpenses(ctx context.Context, userID string, limit int) ([]models.RecentExpense, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.id, e.group_id, e.paid_amount, e.payer_id, e.creator_id, e.description, e.notes, e.created_at,
		       u.id, u.name, u.email, u.phone, u.created_at,
		       g.name,
		       (SELECT COUNT(*) FROM expense_splits es WHERE es.expense_id = e.id)
		FROM expenses e
		JOIN group_members gm ON gm.group_id = e.group_id AND gm.user_id = ?
		JOIN groups g ON g.id = e.group_id
		JOIN users u ON u.id = e.payer_id
		ORDER BY e.created_at DESC, e.id
		LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent expenses: %w", err)
	}
	defer rows.Close()

	var recent []models.RecentExpense
	for rows.Next() {
		var r models.RecentExpense
		var notes, email, phone sql.NullString
		var createdAt, payerCreatedAt int64
		err := rows.Scan(
			&r.Expense.ID, &r.Expense.GroupID, &r.Expense.PaidAmount, &r.Expense.PayerID,
			&r.Expense.CreatorID, &r.Expense.Description, &notes, &createdAt,
			&r.Payer.ID, &r.Payer.Name, &email, &phone, &payerCreatedAt,
			&r.GroupName,
			&r.SplitCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recent expense: %w", err)
		}
		r.Expense.Notes = notes.String
		r.Expense.CreatedAt = fromUnixNano(createdAt)
		r.Payer.Email = email.String
		r.Payer.Phone = phone.String
		r.Payer.CreatedAt = fromUnixNano(payerCreatedAt)
		recent = append(recent, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recent expenses: %w", err)
	}

	return recent, nil
}

// LatestActivity returns each user's newest expense timestamp in the group.
func (s *SQLiteStore) LatestActivity(ctx context.Context, groupID string) (map[string]time.Time, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, MAX(created_at) FROM (
			SELECT payer_id AS user_id, created_at FROM expenses WHERE group_id = ?1
			UNION ALL
			SELECT es.user_id, e.created_at
			FROM expense_splits es JOIN expenses e ON e.id = es.expense_id
			WHERE es.group_id = ?1
		)
		GROUP BY user_id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest activity: %w", err)
	}
	defer rows.Close()

	activity := make(map[string]time.Time)
	for rows.Next() {
		var userID string
		var latest int64
		if err := rows.Scan(&userID, &latest); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		activity[userID] = fromUnixNano(latest)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activity: %w", err)
	}

	return activity, nil
}

func scanExpense(row rowScanner) (models.Expense, error) {
	var e models.Expense
	var notes sql.NullString
	var createdAt int64
	err := row.Scan(&e.ID, &e.GroupID, &e.PaidAmount, &e.PayerID, &e.CreatorID, &e.Description, &notes, &createdAt)
	if err != nil {
		return e, err
	}
	e.Notes = notes.String
	e.CreatedAt = fromUnixNano(createdAt)
	return e, nil
}
