// Package services содержит бизнес-логику учёта рабочего времени.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/payasyougo/payasyougo/internal/models"
	"github.com/payasyougo/payasyougo/internal/services/audit"
)

// TimeEntryRepository определяет методы для работы с записями времени в хранилище.
type TimeEntryRepository interface {
	// CreateTimeEntry добавляет новую запись и возвращает её ID.
	CreateTimeEntry(ctx context.Context, entry models.TimeEntry) (int, error)
	// ListTimeEntries возвращает все записи пользователя.
	ListTimeEntries(ctx context.Context, userUID string) ([]*models.TimeEntry, error)
	// ReadTimeEntry возвращает запись пользователя по ID.
	ReadTimeEntry(ctx context.Context, userUID string, id int) (*models.TimeEntry, error)
	// UpdateTimeEntry обновляет данные записи.
	UpdateTimeEntry(ctx context.Context, entry models.TimeEntry) error
	// RemoveTimeEntry удаляет запись пользователя по ID.
	RemoveTimeEntry(ctx context.Context, userUID string, id int) error
}

// TimeEntryService реализует бизнес-логику работы с записями времени.
type TimeEntryService struct {
	repo  TimeEntryRepository
	audit audit.Recorder
	log   *slog.Logger
}

// NewTimeEntryService создает новый экземпляр TimeEntryService.
func NewTimeEntryService(repo TimeEntryRepository, recorder audit.Recorder, log *slog.Logger) *TimeEntryService {
	return &TimeEntryService{
		repo:  repo,
		audit: recorder,
		log:   log,
	}
}

// Create создает новую запись времени и возвращает её ID.
func (s *TimeEntryService) Create(ctx context.Context, userUID string, req models.DummyTimeEntry) (int, error) {
	entry, err := buildTimeEntry(userUID, req)
	if err != nil {
		return 0, err
	}

	id, err := s.repo.CreateTimeEntry(ctx, *entry)
	if err != nil {
		return 0, err
	}

	s.log.Info("created new time entry", slog.Int("id", id))
	s.audit.Record(models.AuditEvent{
		UserUID:    userUID,
		Action:     "create",
		EntityType: "time_entry",
		EntityID:   id,
	})

	return id, nil
}

// List возвращает все записи времени пользователя.
func (s *TimeEntryService) List(ctx context.Context, userUID string) ([]*models.TimeEntry, error) {
	return s.repo.ListTimeEntries(ctx, userUID)
}

// Read возвращает запись времени по ID.
func (s *TimeEntryService) Read(ctx context.Context, userUID string, id int) (*models.TimeEntry, error) {
	return s.repo.ReadTimeEntry(ctx, userUID, id)
}

// Update обновляет запись времени.
func (s *TimeEntryService) Update(ctx context.Context, userUID string, id int, req models.DummyTimeEntry) error {
	entry, err := buildTimeEntry(userUID, req)
	if err != nil {
		return err
	}
	entry.ID = id

	if err := s.repo.UpdateTimeEntry(ctx, *entry); err != nil {
		return err
	}

	s.audit.Record(models.AuditEvent{
		UserUID:    userUID,
		Action:     "update",
		EntityType: "time_entry",
		EntityID:   id,
	})
	return nil
}

// Remove удаляет запись времени по ID.
func (s *TimeEntryService) Remove(ctx context.Context, userUID string, id int) error {
	if err := s.repo.RemoveTimeEntry(ctx, userUID, id); err != nil {
		return err
	}

	s.audit.Record(models.AuditEvent{
		UserUID:    userUID,
		Action:     "delete",
		EntityType: "time_entry",
		EntityID:   id,
	})
	return nil
}

// buildTimeEntry собирает модель записи из запроса. Время приходит
// в формате RFC3339. Если конец задан, а длительность нет, длительность
// вычисляется из интервала.
func buildTimeEntry(userUID string, req models.DummyTimeEntry) (*models.TimeEntry, error) {
	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("invalid start time: %w", err)
	}

	var endTime *time.Time
	if req.EndTime != "" {
		parsed, err := time.Parse(time.RFC3339, req.EndTime)
		if err != nil {
			return nil, fmt.Errorf("invalid end time: %w", err)
		}
		if parsed.Before(startTime) {
			return nil, fmt.Errorf("end time must not be earlier than start time")
		}
		endTime = &parsed
	}

	duration := req.DurationMinutes
	if duration == nil && endTime != nil {
		minutes := int(endTime.Sub(startTime).Minutes())
		duration = &minutes
	}

	return &models.TimeEntry{
		UserUID:         userUID,
		ClientID:        req.ClientID,
		ProjectName:     req.ProjectName,
		Description:     req.Description,
		StartTime:       startTime,
		EndTime:         endTime,
		DurationMinutes: duration,
		HourlyRate:      req.HourlyRate,
		IsBilled:        req.IsBilled,
	}, nil
}
