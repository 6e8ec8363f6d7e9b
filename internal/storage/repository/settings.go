package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/payasyougo/payasyougo/internal/models"
)

// GetSetting возвращает настройки пользователя.
func (s *Storage) GetSetting(ctx context.Context, userUID string) (*models.Setting, error) {
	const op = "storage.GetSetting"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT user_uid, COALESCE(currency, 'USD'), COALESCE(timezone, 'UTC'),
			      COALESCE(invoice_prefix, ''), COALESCE(payment_terms, ''), updated_at
			  FROM settings
			  WHERE user_uid = $1`
	row := s.DB.QueryRowContext(ctx, query, userUID)

	var result models.Setting
	if err := row.Scan(&result.UserUID, &result.Currency, &result.Timezone,
		&result.InvoicePrefix, &result.PaymentTerms, &result.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// UpsertSetting создаёт или обновляет настройки пользователя и возвращает
// сохранённое состояние.
func (s *Storage) UpsertSetting(ctx context.Context, setting models.Setting) (*models.Setting, error) {
	const op = "storage.UpsertSetting"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO settings (user_uid, currency, timezone, invoice_prefix, payment_terms)
			  VALUES ($1, $2, $3, $4, $5)
			  ON CONFLICT (user_uid) DO UPDATE
			  SET currency = $2, timezone = $3, invoice_prefix = $4,
			      payment_terms = $5, updated_at = now()
			  RETURNING user_uid, currency, timezone, COALESCE(invoice_prefix, ''),
			      COALESCE(payment_terms, ''), updated_at`
	row := s.DB.QueryRowContext(ctx, query,
		setting.UserUID, setting.Currency, setting.Timezone, setting.InvoicePrefix,
		setting.PaymentTerms)

	var result models.Setting
	if err := row.Scan(&result.UserUID, &result.Currency, &result.Timezone,
		&result.InvoicePrefix, &result.PaymentTerms, &result.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}
