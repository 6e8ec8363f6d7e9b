package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/payasyougo/payasyougo/internal/models"
)

// GetTaxEstimation возвращает налоговую оценку пользователя.
// Возвращает ErrNotFound, пока пользователь ни разу не задал процент.
func (s *Storage) GetTaxEstimation(ctx context.Context, userUID string) (*models.TaxEstimation, error) {
	const op = "storage.GetTaxEstimation"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT user_uid, tax_percentage, estimated_amount_set_aside, last_calculated_at
			  FROM tax_estimations
			  WHERE user_uid = $1`
	row := s.DB.QueryRowContext(ctx, query, userUID)

	var result models.TaxEstimation
	if err := row.Scan(&result.UserUID, &result.TaxPercentage,
		&result.EstimatedAmountSetAside, &result.LastCalculatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// CreateTaxEstimation вставляет новую налоговую оценку. Уникальность
// по user_uid обеспечивает база: повторная вставка — ErrAlreadyExists.
func (s *Storage) CreateTaxEstimation(ctx context.Context, record models.TaxEstimation) error {
	const op = "storage.CreateTaxEstimation"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO tax_estimations (user_uid, tax_percentage,
			      estimated_amount_set_aside, last_calculated_at)
			  VALUES ($1, $2, $3, $4)`
	_, err := s.DB.ExecContext(ctx, query,
		record.UserUID, record.TaxPercentage, record.EstimatedAmountSetAside,
		record.LastCalculatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: %w", op, ErrAlreadyExists)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdateTaxEstimation обновляет существующую налоговую оценку.
// Возвращает ErrNotFound, если записи ещё нет.
func (s *Storage) UpdateTaxEstimation(ctx context.Context, record models.TaxEstimation) error {
	const op = "storage.UpdateTaxEstimation"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE tax_estimations
			  SET tax_percentage = $1, estimated_amount_set_aside = $2,
			      last_calculated_at = $3, updated_at = now()
			  WHERE user_uid = $4`
	result, err := s.DB.ExecContext(ctx, query,
		record.TaxPercentage, record.EstimatedAmountSetAside,
		record.LastCalculatedAt, record.UserUID)
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
