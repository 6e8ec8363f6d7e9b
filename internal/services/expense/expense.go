// Package services содержит бизнес-логику учёта расходов.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/payasyougo/payasyougo/internal/models"
	"github.com/payasyougo/payasyougo/internal/services/audit"
)

// ExpenseRepository определяет методы для работы с расходами в хранилище.
type ExpenseRepository interface {
	// CreateExpense добавляет новый расход и возвращает его ID.
	CreateExpense(ctx context.Context, expense models.Expense) (int, error)
	// ListExpenses возвращает все расходы пользователя.
	ListExpenses(ctx context.Context, userUID string) ([]*models.Expense, error)
	// ReadExpense возвращает расход пользователя по ID.
	ReadExpense(ctx context.Context, userUID string, id int) (*models.Expense, error)
	// UpdateExpense обновляет данные расхода.
	UpdateExpense(ctx context.Context, expense models.Expense) error
	// RemoveExpense удаляет расход пользователя по ID.
	RemoveExpense(ctx context.Context, userUID string, id int) error
}

// ExpenseService реализует бизнес-логику работы с расходами.
type ExpenseService struct {
	repo  ExpenseRepository
	audit audit.Recorder
	log   *slog.Logger
}

// NewExpenseService создает новый экземпляр ExpenseService.
func NewExpenseService(repo ExpenseRepository, recorder audit.Recorder, log *slog.Logger) *ExpenseService {
	return &ExpenseService{
		repo:  repo,
		audit: recorder,
		log:   log,
	}
}

// Create создает новый расход и возвращает его ID.
func (s *ExpenseService) Create(ctx context.Context, userUID string, req models.DummyExpense) (int, error) {
	expense, err := buildExpense(userUID, req)
	if err != nil {
		return 0, err
	}

	id, err := s.repo.CreateExpense(ctx, *expense)
	if err != nil {
		return 0, err
	}

	s.log.Info("created new expense", slog.Int("id", id))
	s.audit.Record(models.AuditEvent{
		UserUID:    userUID,
		Action:     "create",
		EntityType: "expense",
		EntityID:   id,
	})

	return id, nil
}

// List возвращает все расходы пользователя.
func (s *ExpenseService) List(ctx context.Context, userUID string) ([]*models.Expense, error) {
	return s.repo.ListExpenses(ctx, userUID)
}

// Read возвращает расход по ID.
func (s *ExpenseService) Read(ctx context.Context, userUID string, id int) (*models.Expense, error) {
	return s.repo.ReadExpense(ctx, userUID, id)
}

// Update обновляет расход.
func (s *ExpenseService) Update(ctx context.Context, userUID string, id int, req models.DummyExpense) error {
	expense, err := buildExpense(userUID, req)
	if err != nil {
		return err
	}
	expense.ID = id

	if err := s.repo.UpdateExpense(ctx, *expense); err != nil {
		return err
	}

	s.audit.Record(models.AuditEvent{
		UserUID:    userUID,
		Action:     "update",
		EntityType: "expense",
		EntityID:   id,
	})
	return nil
}

// Remove удаляет расход по ID.
func (s *ExpenseService) Remove(ctx context.Context, userUID string, id int) error {
	if err := s.repo.RemoveExpense(ctx, userUID, id); err != nil {
		return err
	}

	s.audit.Record(models.AuditEvent{
		UserUID:    userUID,
		Action:     "delete",
		EntityType: "expense",
		EntityID:   id,
	})
	return nil
}

func buildExpense(userUID string, req models.DummyExpense) (*models.Expense, error) {
	expenseDate, err := time.Parse("2006-01-02", req.ExpenseDate)
	if err != nil {
		return nil, fmt.Errorf("invalid expense date: %w", err)
	}

	return &models.Expense{
		UserUID:         userUID,
		Description:     req.Description,
		Amount:          req.Amount,
		Category:        req.Category,
		ExpenseDate:     expenseDate,
		ReceiptImageURL: req.ReceiptImageURL,
		IsReimbursable:  req.IsReimbursable,
	}, nil
}
