package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/payasyougo/payasyougo/internal/models"
)

// CreateTimeEntry вставляет новую запись учёта времени и возвращает её ID.
func (s *Storage) CreateTimeEntry(ctx context.Context, entry models.TimeEntry) (int, error) {
	const op = "storage.CreateTimeEntry"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO time_entries (user_uid, client_id, project_name, description,
			      start_time, end_time, duration_minutes, hourly_rate, is_billed)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		entry.UserUID, entry.ClientID, entry.ProjectName, entry.Description,
		entry.StartTime, entry.EndTime, entry.DurationMinutes, entry.HourlyRate,
		entry.IsBilled).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListTimeEntries возвращает все записи учёта времени пользователя.
func (s *Storage) ListTimeEntries(ctx context.Context, userUID string) ([]*models.TimeEntry, error) {
	const op = "storage.ListTimeEntries"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, client_id, COALESCE(project_name, ''),
			      COALESCE(description, ''), start_time, end_time, duration_minutes,
			      hourly_rate, is_billed, created_at, updated_at
			  FROM time_entries
			  WHERE user_uid = $1
			  ORDER BY start_time DESC`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.TimeEntry
	for rows.Next() {
		item, err := scanTimeEntry(rows)
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

// ReadTimeEntry возвращает запись учёта времени пользователя по ID.
func (s *Storage) ReadTimeEntry(ctx context.Context, userUID string, id int) (*models.TimeEntry, error) {
	const op = "storage.ReadTimeEntry"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, client_id, COALESCE(project_name, ''),
			      COALESCE(description, ''), start_time, end_time, duration_minutes,
			      hourly_rate, is_billed, created_at, updated_at
			  FROM time_entries
			  WHERE id = $1 AND user_uid = $2`
	row := s.DB.QueryRowContext(ctx, query, id, userUID)

	item, err := scanTimeEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return item, nil
}

// UpdateTimeEntry обновляет запись учёта времени пользователя по ID.
func (s *Storage) UpdateTimeEntry(ctx context.Context, entry models.TimeEntry) error {
	const op = "storage.UpdateTimeEntry"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE time_entries
			  SET client_id = $1, project_name = $2, description = $3, start_time = $4,
			      end_time = $5, duration_minutes = $6, hourly_rate = $7, is_billed = $8,
			      updated_at = now()
			  WHERE id = $9 AND user_uid = $10`
	result, err := s.DB.ExecContext(ctx, query,
		entry.ClientID, entry.ProjectName, entry.Description, entry.StartTime,
		entry.EndTime, entry.DurationMinutes, entry.HourlyRate, entry.IsBilled,
		entry.ID, entry.UserUID)
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

// RemoveTimeEntry удаляет запись учёта времени пользователя по ID.
func (s *Storage) RemoveTimeEntry(ctx context.Context, userUID string, id int) error {
	const op = "storage.RemoveTimeEntry"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM time_entries WHERE id = $1 AND user_uid = $2`
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

func scanTimeEntry(row rowScanner) (*models.TimeEntry, error) {
	var item models.TimeEntry
	var clientID sql.NullInt64
	var endTime sql.NullTime
	var duration sql.NullInt64
	var rate decimal.NullDecimal
	if err := row.Scan(&item.ID, &item.UserUID, &clientID, &item.ProjectName,
		&item.Description, &item.StartTime, &endTime, &duration, &rate,
		&item.IsBilled, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, err
	}
	if clientID.Valid {
		id := int(clientID.Int64)
		item.ClientID = &id
	}
	if endTime.Valid {
		item.EndTime = &endTime.Time
	}
	if duration.Valid {
		d := int(duration.Int64)
		item.DurationMinutes = &d
	}
	if rate.Valid {
		item.HourlyRate = &rate.Decimal
	}
	return &item, nil
}
