// Package services содержит бизнес-логику налоговой оценки: хранение
// процента и пересчёт резервируемой суммы из текущего дохода.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/payasyougo/payasyougo/internal/lib/sl"
	"github.com/payasyougo/payasyougo/internal/models"
	"github.com/payasyougo/payasyougo/internal/services/audit"
)

// ErrInvalidPercentage возвращается для процента вне диапазона [0, 100].
var ErrInvalidPercentage = errors.New("tax percentage must be between 0 and 100")

const cacheTTL = time.Hour

// TaxEstimationRepository определяет методы для работы с налоговой оценкой
// и доходом в хранилище.
type TaxEstimationRepository interface {
	// GetTaxEstimation возвращает запись пользователя или ErrNotFound.
	GetTaxEstimation(ctx context.Context, userUID string) (*models.TaxEstimation, error)
	// CreateTaxEstimation вставляет запись, ErrAlreadyExists при повторе.
	CreateTaxEstimation(ctx context.Context, record models.TaxEstimation) error
	// UpdateTaxEstimation обновляет запись, ErrNotFound если её нет.
	UpdateTaxEstimation(ctx context.Context, record models.TaxEstimation) error
	// SumPaidInvoices возвращает суммарный доход пользователя.
	SumPaidInvoices(ctx context.Context, userUID string) (decimal.Decimal, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Service реализует операции над налоговой оценкой пользователя.
//
// Резервируемая сумма всегда производная: round2(доход × процент / 100)
// на момент расчёта. Клиентское значение суммы никогда не принимается.
type Service struct {
	repo  TaxEstimationRepository
	cache Cache
	audit audit.Recorder
	log   *slog.Logger
}

// New создает новый Service.
func New(repo TaxEstimationRepository, cache Cache, recorder audit.Recorder, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		audit: recorder,
		log:   log,
	}
}

// Get возвращает запись пользователя, используя кеш или репозиторий.
// Отсутствие записи (repository.ErrNotFound) — штатный ответ для
// пользователя, ещё не задавшего процент.
func (s *Service) Get(ctx context.Context, userUID string) (*models.TaxEstimation, error) {
	var result *models.TaxEstimation
	cacheKey := cacheKey(userUID)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		s.log.Warn("failed to read tax estimation from cache",
			slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return result, nil
	}

	result, err = s.repo.GetTaxEstimation(ctx, userUID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(cacheKey, result, cacheTTL); err != nil {
		s.log.Warn("failed to cache tax estimation",
			slog.String("key", cacheKey), sl.Err(err))
	}
	return result, nil
}

// Create создает запись для пользователя, впервые задающего процент.
// Если запись уже есть, возвращается repository.ErrAlreadyExists —
// конфликт не превращается молча в обновление.
func (s *Service) Create(ctx context.Context, userUID string, percentage float64) (*models.TaxEstimation, error) {
	record, err := s.compute(ctx, userUID, percentage)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateTaxEstimation(ctx, *record); err != nil {
		return nil, err
	}
	s.log.Info("created tax estimation", slog.String("user_uid", userUID))

	s.storeCache(record)
	s.audit.Record(models.AuditEvent{
		UserUID:    userUID,
		Action:     "create",
		EntityType: "tax_estimation",
	})
	return record, nil
}

// Update пересчитывает существующую запись из нового процента и текущего
// дохода. Если записи нет — repository.ErrNotFound. Повторный вызов с тем
// же процентом при неизменном доходе даёт тот же результат: расчёт
// детерминирован, а не накопителен.
func (s *Service) Update(ctx context.Context, userUID string, percentage float64) (*models.TaxEstimation, error) {
	record, err := s.compute(ctx, userUID, percentage)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateTaxEstimation(ctx, *record); err != nil {
		return nil, err
	}
	s.log.Info("updated tax estimation", slog.String("user_uid", userUID))

	s.storeCache(record)
	s.audit.Record(models.AuditEvent{
		UserUID:    userUID,
		Action:     "update",
		EntityType: "tax_estimation",
	})
	return record, nil
}

// compute собирает запись: проверяет диапазон процента, запрашивает доход
// и считает сумму с округлением до двух знаков в момент расчёта.
func (s *Service) compute(ctx context.Context, userUID string, percentage float64) (*models.TaxEstimation, error) {
	const op = "services.taxestim.compute"

	if percentage < 0 || percentage > 100 {
		return nil, ErrInvalidPercentage
	}
	pct := decimal.NewFromFloat(percentage)

	totalIncome, err := s.repo.SumPaidInvoices(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	amount := totalIncome.Mul(pct).Div(decimal.NewFromInt(100)).Round(2)

	return &models.TaxEstimation{
		UserUID:                 userUID,
		TaxPercentage:           pct,
		EstimatedAmountSetAside: amount,
		LastCalculatedAt:        time.Now().UTC(),
	}, nil
}

func (s *Service) storeCache(record *models.TaxEstimation) {
	key := cacheKey(record.UserUID)
	if err := s.cache.Set(key, record, cacheTTL); err != nil {
		s.log.Warn("failed to cache tax estimation",
			slog.String("key", key), sl.Err(err))
	}
}

func cacheKey(userUID string) string {
	return fmt.Sprintf("tax_estimation:%s", userUID)
}
