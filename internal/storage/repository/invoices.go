package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/payasyougo/payasyougo/internal/models"
)

// CreateInvoice вставляет новый счёт и возвращает его ID.
func (s *Storage) CreateInvoice(ctx context.Context, invoice models.Invoice) (int, error) {
	const op = "storage.CreateInvoice"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO invoices (user_uid, client_id, invoice_number, issue_date,
			      due_date, total_amount, status, notes, payment_gateway_fee)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		invoice.UserUID, invoice.ClientID, invoice.InvoiceNumber, invoice.IssueDate,
		invoice.DueDate, invoice.TotalAmount, invoice.Status, invoice.Notes,
		invoice.PaymentGatewayFee).Scan(&newID)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%s: %w", op, ErrAlreadyExists)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListInvoices возвращает все счета пользователя.
func (s *Storage) ListInvoices(ctx context.Context, userUID string) ([]*models.Invoice, error) {
	const op = "storage.ListInvoices"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, client_id, invoice_number, issue_date, due_date,
			      total_amount, status, COALESCE(notes, ''), payment_gateway_fee,
			      created_at, updated_at
			  FROM invoices
			  WHERE user_uid = $1
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Invoice
	for rows.Next() {
		item, err := scanInvoice(rows)
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

// ReadInvoice возвращает счёт пользователя по ID.
func (s *Storage) ReadInvoice(ctx context.Context, userUID string, id int) (*models.Invoice, error) {
	const op = "storage.ReadInvoice"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, client_id, invoice_number, issue_date, due_date,
			      total_amount, status, COALESCE(notes, ''), payment_gateway_fee,
			      created_at, updated_at
			  FROM invoices
			  WHERE id = $1 AND user_uid = $2`
	row := s.DB.QueryRowContext(ctx, query, id, userUID)

	item, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return item, nil
}

// UpdateInvoice обновляет счёт пользователя по ID.
func (s *Storage) UpdateInvoice(ctx context.Context, invoice models.Invoice) error {
	const op = "storage.UpdateInvoice"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE invoices
			  SET client_id = $1, invoice_number = $2, issue_date = $3, due_date = $4,
			      total_amount = $5, status = $6, notes = $7, payment_gateway_fee = $8,
			      updated_at = now()
			  WHERE id = $9 AND user_uid = $10`
	result, err := s.DB.ExecContext(ctx, query,
		invoice.ClientID, invoice.InvoiceNumber, invoice.IssueDate, invoice.DueDate,
		invoice.TotalAmount, invoice.Status, invoice.Notes, invoice.PaymentGatewayFee,
		invoice.ID, invoice.UserUID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: %w", op, ErrAlreadyExists)
		}
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

// RemoveInvoice удаляет счёт пользователя по ID.
func (s *Storage) RemoveInvoice(ctx context.Context, userUID string, id int) error {
	const op = "storage.RemoveInvoice"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM invoices WHERE id = $1 AND user_uid = $2`
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

// SumPaidInvoices возвращает суммарный доход пользователя: сумму
// total_amount его счетов в статусе paid.
func (s *Storage) SumPaidInvoices(ctx context.Context, userUID string) (decimal.Decimal, error) {
	const op = "storage.SumPaidInvoices"
	select {
	case <-ctx.Done():
		return decimal.Zero, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COALESCE(SUM(total_amount), 0)
			  FROM invoices
			  WHERE user_uid = $1 AND status = 'paid'`
	var total decimal.Decimal
	if err := s.DB.QueryRowContext(ctx, query, userUID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", op, err)
	}
	return total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvoice(row rowScanner) (*models.Invoice, error) {
	var item models.Invoice
	var fee decimal.NullDecimal
	if err := row.Scan(&item.ID, &item.UserUID, &item.ClientID, &item.InvoiceNumber,
		&item.IssueDate, &item.DueDate, &item.TotalAmount, &item.Status, &item.Notes,
		&fee, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, err
	}
	if fee.Valid {
		item.PaymentGatewayFee = &fee.Decimal
	}
	return &item, nil
}
