package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/payasyougo/payasyougo/internal/models"
)

// CreateExpense вставляет новый расход и возвращает его ID.
func (s *Storage) CreateExpense(ctx context.Context, expense models.Expense) (int, error) {
	const op = "storage.CreateExpense"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO expenses (user_uid, description, amount, category,
			      expense_date, receipt_image_url, is_reimbursable)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		expense.UserUID, expense.Description, expense.Amount, expense.Category,
		expense.ExpenseDate, expense.ReceiptImageURL, expense.IsReimbursable).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListExpenses возвращает все расходы пользователя.
func (s *Storage) ListExpenses(ctx context.Context, userUID string) ([]*models.Expense, error) {
	const op = "storage.ListExpenses"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, description, amount, COALESCE(category, ''),
			      expense_date, COALESCE(receipt_image_url, ''), is_reimbursable,
			      created_at, updated_at
			  FROM expenses
			  WHERE user_uid = $1
			  ORDER BY expense_date DESC, id`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Expense
	for rows.Next() {
		var item models.Expense
		if err := rows.Scan(&item.ID, &item.UserUID, &item.Description, &item.Amount,
			&item.Category, &item.ExpenseDate, &item.ReceiptImageURL,
			&item.IsReimbursable, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ReadExpense возвращает расход пользователя по ID.
func (s *Storage) ReadExpense(ctx context.Context, userUID string, id int) (*models.Expense, error) {
	const op = "storage.ReadExpense"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, description, amount, COALESCE(category, ''),
			      expense_date, COALESCE(receipt_image_url, ''), is_reimbursable,
			      created_at, updated_at
			  FROM expenses
			  WHERE id = $1 AND user_uid = $2`
	row := s.DB.QueryRowContext(ctx, query, id, userUID)

	var result models.Expense
	if err := row.Scan(&result.ID, &result.UserUID, &result.Description, &result.Amount,
		&result.Category, &result.ExpenseDate, &result.ReceiptImageURL,
		&result.IsReimbursable, &result.CreatedAt, &result.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// UpdateExpense обновляет расход пользователя по ID.
func (s *Storage) UpdateExpense(ctx context.Context, expense models.Expense) error {
	const op = "storage.UpdateExpense"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE expenses
			  SET description = $1, amount = $2, category = $3, expense_date = $4,
			      receipt_image_url = $5, is_reimbursable = $6, updated_at = now()
			  WHERE id = $7 AND user_uid = $8`
	result, err := s.DB.ExecContext(ctx, query,
		expense.Description, expense.Amount, expense.Category, expense.ExpenseDate,
		expense.ReceiptImageURL, expense.IsReimbursable, expense.ID, expense.UserUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// RemoveExpense удаляет расход пользователя по ID.
func (s *Storage) RemoveExpense(ctx context.Context, userUID string, id int) error {
	const op = "storage.RemoveExpense"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM expenses WHERE id = $1 AND user_uid = $2`
	result, err := s.DB.ExecContext(ctx, query, id, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}
