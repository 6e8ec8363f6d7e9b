package repository

import (
	"context"
	"fmt"

	"github.com/payasyougo/payasyougo/internal/models"
)

// InsertAuditLog сохраняет событие аудита, полученное из очереди.
func (s *Storage) InsertAuditLog(ctx context.Context, event models.AuditEvent) error {
	const op = "storage.InsertAuditLog"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO audit_logs (user_uid, action, entity_type, entity_id, ts)
			  VALUES ($1, $2, $3, NULLIF($4, 0), $5)`
	_, err := s.DB.ExecContext(ctx, query,
		event.UserUID, event.Action, event.EntityType, event.EntityID, event.OccurredAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
