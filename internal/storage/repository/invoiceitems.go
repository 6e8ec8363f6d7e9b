package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/payasyougo/payasyougo/internal/models"
)

// CreateInvoiceItem вставляет строку счёта и возвращает её ID.
// Вставка проходит только если счёт принадлежит пользователю, иначе
// возвращается ErrNotFound.
func (s *Storage) CreateInvoiceItem(ctx context.Context, userUID string, item models.InvoiceItem) (int, error) {
	const op = "storage.CreateInvoiceItem"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO invoice_items (invoice_id, description, quantity, unit_price, amount)
			  SELECT id, $2, $3, $4, $5
			  FROM invoices
			  WHERE id = $1 AND user_uid = $6
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		item.InvoiceID, item.Description, item.Quantity, item.UnitPrice,
		item.Amount, userUID).Scan(&newID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListInvoiceItems возвращает все строки счёта пользователя.
func (s *Storage) ListInvoiceItems(ctx context.Context, userUID string, invoiceID int) ([]*models.InvoiceItem, error) {
	const op = "storage.ListInvoiceItems"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ii.id, ii.invoice_id, ii.description, ii.quantity, ii.unit_price, ii.amount
			  FROM invoice_items ii
			  JOIN invoices i ON i.id = ii.invoice_id
			  WHERE ii.invoice_id = $1 AND i.user_uid = $2
			  ORDER BY ii.id`
	rows, err := s.DB.QueryContext(ctx, query, invoiceID, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.InvoiceItem
	for rows.Next() {
		item, err := scanInvoiceItem(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ReadInvoiceItem возвращает строку счёта пользователя по ID.
func (s *Storage) ReadInvoiceItem(ctx context.Context, userUID string, id int) (*models.InvoiceItem, error) {
	const op = "storage.ReadInvoiceItem"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ii.id, ii.invoice_id, ii.description, ii.quantity, ii.unit_price, ii.amount
			  FROM invoice_items ii
			  JOIN invoices i ON i.id = ii.invoice_id
			  WHERE ii.id = $1 AND i.user_uid = $2`
	row := s.DB.QueryRowContext(ctx, query, id, userUID)

	item, err := scanInvoiceItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return item, nil
}

// UpdateInvoiceItem обновляет строку счёта пользователя по ID.
func (s *Storage) UpdateInvoiceItem(ctx context.Context, userUID string, item models.InvoiceItem) error {
	const op = "storage.UpdateInvoiceItem"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE invoice_items ii
			  SET description = $1, quantity = $2, unit_price = $3, amount = $4
			  FROM invoices i
			  WHERE ii.id = $5 AND ii.invoice_id = i.id AND i.user_uid = $6`
	result, err := s.DB.ExecContext(ctx, query,
		item.Description, item.Quantity, item.UnitPrice, item.Amount,
		item.ID, userUID)
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

// RemoveInvoiceItem удаляет строку счёта пользователя по ID.
func (s *Storage) RemoveInvoiceItem(ctx context.Context, userUID string, id int) error {
	const op = "storage.RemoveInvoiceItem"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM invoice_items ii
			  USING invoices i
			  WHERE ii.id = $1 AND ii.invoice_id = i.id AND i.user_uid = $2`
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

func scanInvoiceItem(row rowScanner) (*models.InvoiceItem, error) {
	var item models.InvoiceItem
	if err := row.Scan(&item.ID, &item.InvoiceID, &item.Description,
		&item.Quantity, &item.UnitPrice, &item.Amount); err != nil {
		return nil, err
	}
	return &item, nil
}
