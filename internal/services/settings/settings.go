// Package services содержит бизнес-логику пользовательских настроек.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/payasyougo/payasyougo/internal/lib/sl"
	"github.com/payasyougo/payasyougo/internal/models"
	"github.com/payasyougo/payasyougo/internal/services/audit"
)

const cacheTTL = time.Hour

// SettingRepository определяет методы для работы с настройками в хранилище.
type SettingRepository interface {
	// GetSetting возвращает настройки пользователя.
	GetSetting(ctx context.Context, userUID string) (*models.Setting, error)
	// UpsertSetting сохраняет настройки пользователя и возвращает результат.
	UpsertSetting(ctx context.Context, setting models.Setting) (*models.Setting, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// SettingService реализует бизнес-логику работы с настройками.
type SettingService struct {
	repo  SettingRepository
	cache Cache
	audit audit.Recorder
	log   *slog.Logger
}

// NewSettingService создает новый экземпляр SettingService.
func NewSettingService(repo SettingRepository, cache Cache, recorder audit.Recorder, log *slog.Logger) *SettingService {
	return &SettingService{
		repo:  repo,
		cache: cache,
		audit: recorder,
		log:   log,
	}
}

// Get возвращает настройки пользователя, используя кеш или репозиторий.
func (s *SettingService) Get(ctx context.Context, userUID string) (*models.Setting, error) {
	var result *models.Setting
	cacheKey := cacheKey(userUID)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		s.log.Warn("failed to read settings from cache",
			slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return result, nil
	}

	result, err = s.repo.GetSetting(ctx, userUID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(cacheKey, result, cacheTTL); err != nil {
		s.log.Warn("failed to cache settings",
			slog.String("key", cacheKey), sl.Err(err))
	}
	return result, nil
}

// Update сохраняет настройки пользователя. Запись создаётся при
// регистрации, поэтому операция всегда перезаписывает существующую.
func (s *SettingService) Update(ctx context.Context, userUID string, req models.DummySetting) (*models.Setting, error) {
	setting := models.Setting{
		UserUID:       userUID,
		Currency:      req.Currency,
		Timezone:      req.Timezone,
		InvoicePrefix: req.InvoicePrefix,
		PaymentTerms:  req.PaymentTerms,
	}

	result, err := s.repo.UpsertSetting(ctx, setting)
	if err != nil {
		return nil, err
	}

	key := cacheKey(userUID)
	if err := s.cache.Set(key, result, cacheTTL); err != nil {
		s.log.Warn("failed to cache settings",
			slog.String("key", key), sl.Err(err))
	}

	s.log.Info("updated settings", slog.String("user_uid", userUID))
	s.audit.Record(models.AuditEvent{
		UserUID:    userUID,
		Action:     "update",
		EntityType: "setting",
	})
	return result, nil
}

func cacheKey(userUID string) string {
	return fmt.Sprintf("settings:%s", userUID)
}
