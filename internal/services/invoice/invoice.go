// Package services содержит бизнес-логику для управления счетами.
//
// Счета со статусом paid формируют доход пользователя, поэтому любое
// изменение счёта инвалидирует кешированную налоговую оценку.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/payasyougo/payasyougo/internal/models"
	"github.com/payasyougo/payasyougo/internal/services/audit"
)

// InvoiceRepository определяет методы для работы со счетами в хранилище.
type InvoiceRepository interface {
	// CreateInvoice добавляет новый счёт и возвращает его ID.
	CreateInvoice(ctx context.Context, invoice models.Invoice) (int, error)
	// ListInvoices возвращает все счета пользователя.
	ListInvoices(ctx context.Context, userUID string) ([]*models.Invoice, error)
	// ReadInvoice возвращает счёт пользователя по ID.
	ReadInvoice(ctx context.Context, userUID string, id int) (*models.Invoice, error)
	// UpdateInvoice обновляет данные счёта.
	UpdateInvoice(ctx context.Context, invoice models.Invoice) error
	// RemoveInvoice удаляет счёт пользователя по ID.
	RemoveInvoice(ctx context.Context, userUID string, id int) error
	// CreateInvoiceItem добавляет строку к счёту пользователя.
	CreateInvoiceItem(ctx context.Context, userUID string, item models.InvoiceItem) (int, error)
	// ListInvoiceItems возвращает строки счёта пользователя.
	ListInvoiceItems(ctx context.Context, userUID string, invoiceID int) ([]*models.InvoiceItem, error)
	// ReadInvoiceItem возвращает строку счёта пользователя по ID.
	ReadInvoiceItem(ctx context.Context, userUID string, id int) (*models.InvoiceItem, error)
	// UpdateInvoiceItem обновляет строку счёта.
	UpdateInvoiceItem(ctx context.Context, userUID string, item models.InvoiceItem) error
	// RemoveInvoiceItem удаляет строку счёта пользователя по ID.
	RemoveInvoiceItem(ctx context.Context, userUID string, id int) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// InvoiceService реализует бизнес-логику работы со счетами.
type InvoiceService struct {
	repo  InvoiceRepository
	cache Cache
	audit audit.Recorder
	log   *slog.Logger
}

// NewInvoiceService создает новый экземпляр InvoiceService.
func NewInvoiceService(repo InvoiceRepository, cache Cache, recorder audit.Recorder, log *slog.Logger) *InvoiceService {
	return &InvoiceService{
		repo:  repo,
		cache: cache,
		audit: recorder,
		log:   log,
	}
}

// Create создает новый счёт для пользователя и возвращает его ID.
func (s *InvoiceService) Create(ctx context.Context, userUID string, req models.DummyInvoice) (int, error) {
	invoice, err := buildInvoice(userUID, req)
	if err != nil {
		return 0, err
	}

	id, err := s.repo.CreateInvoice(ctx, *invoice)
	if err != nil {
		return 0, err
	}

	s.log.Info("created new invoice", slog.Int("id", id))
	s.invalidateTaxEstimation(userUID)
	s.audit.Record(models.AuditEvent{
		UserUID:    userUID,
		Action:     "create",
		EntityType: "invoice",
		EntityID:   id,
	})

	return id, nil
}

// List возвращает все счета пользователя.
func (s *InvoiceService) List(ctx context.Context, userUID string) ([]*models.Invoice, error) {
	return s.repo.ListInvoices(ctx, userUID)
}

// Read возвращает счёт по ID.
func (s *InvoiceService) Read(ctx context.Context, userUID string, id int) (*models.Invoice, error) {
	return s.repo.ReadInvoice(ctx, userUID, id)
}

// Update обновляет счёт и инвалидирует кешированную налоговую оценку.
func (s *InvoiceService) Update(ctx context.Context, userUID string, id int, req models.DummyInvoice) error {
	invoice, err := buildInvoice(userUID, req)
	if err != nil {
		return err
	}
	invoice.ID = id

	if err := s.repo.UpdateInvoice(ctx, *invoice); err != nil {
		return err
	}

	s.invalidateTaxEstimation(userUID)
	s.audit.Record(models.AuditEvent{
		UserUID:    userUID,
		Action:     "update",
		EntityType: "invoice",
		EntityID:   id,
	})
	return nil
}

// Remove удаляет счёт по ID.
func (s *InvoiceService) Remove(ctx context.Context, userUID string, id int) error {
	if err := s.repo.RemoveInvoice(ctx, userUID, id); err != nil {
		return err
	}

	s.invalidateTaxEstimation(userUID)
	s.audit.Record(models.AuditEvent{
		UserUID:    userUID,
		Action:     "delete",
		EntityType: "invoice",
		EntityID:   id,
	})
	return nil
}

// buildInvoice собирает модель счёта из запроса, проверяя формат дат.
func buildInvoice(userUID string, req models.DummyInvoice) (*models.Invoice, error) {
	issueDate, err := time.Parse("2006-01-02", req.IssueDate)
	if err != nil {
		return nil, fmt.Errorf("invalid issue date: %w", err)
	}
	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		return nil, fmt.Errorf("invalid due date: %w", err)
	}
	if dueDate.Before(issueDate) {
		return nil, fmt.Errorf("invoice due date must not be earlier than issue date")
	}

	status := req.Status
	if status == "" {
		status = models.InvoiceStatusDraft
	}

	return &models.Invoice{
		UserUID:           userUID,
		ClientID:          req.ClientID,
		InvoiceNumber:     req.InvoiceNumber,
		IssueDate:         issueDate,
		DueDate:           dueDate,
		TotalAmount:       req.TotalAmount,
		Status:            status,
		Notes:             req.Notes,
		PaymentGatewayFee: req.PaymentGatewayFee,
	}, nil
}

// invalidateTaxEstimation сбрасывает кеш налоговой оценки: доход мог измениться.
func (s *InvoiceService) invalidateTaxEstimation(userUID string) {
	cacheKey := fmt.Sprintf("tax_estimation:%s", userUID)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
}
