// Package services содержит бизнес-логику для управления клиентами и кешированием.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/payasyougo/payasyougo/internal/models"
	"github.com/payasyougo/payasyougo/internal/services/audit"
)

// ClientRepository определяет методы для работы с клиентами в хранилище.
type ClientRepository interface {
	// CreateClient добавляет нового клиента и возвращает его ID.
	CreateClient(ctx context.Context, client models.Client) (int, error)
	// ListClients возвращает всех клиентов пользователя.
	ListClients(ctx context.Context, userUID string) ([]*models.Client, error)
	// ReadClient возвращает клиента пользователя по ID.
	ReadClient(ctx context.Context, userUID string, id int) (*models.Client, error)
	// UpdateClient обновляет данные клиента.
	UpdateClient(ctx context.Context, client models.Client) error
	// RemoveClient удаляет клиента пользователя по ID.
	RemoveClient(ctx context.Context, userUID string, id int) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// ClientService реализует бизнес-логику работы с клиентами, включая кеширование.
type ClientService struct {
	repo  ClientRepository
	cache Cache
	audit audit.Recorder
	log   *slog.Logger
}

// NewClientService создает новый экземпляр ClientService.
func NewClientService(repo ClientRepository, cache Cache, recorder audit.Recorder, log *slog.Logger) *ClientService {
	return &ClientService{
		repo:  repo,
		cache: cache,
		audit: recorder,
		log:   log,
	}
}

// Create создает нового клиента для пользователя и возвращает его ID.
func (s *ClientService) Create(ctx context.Context, userUID string, req models.DummyClient) (int, error) {
	client := models.Client{
		UserUID:     userUID,
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
	}

	id, err := s.repo.CreateClient(ctx, client)
	if err != nil {
		return 0, err
	}

	s.log.Info("created new client", slog.Int("id", id))
	s.audit.Record(models.AuditEvent{
		UserUID:    userUID,
		Action:     "create",
		EntityType: "client",
		EntityID:   id,
	})

	return id, nil
}

// List возвращает всех клиентов пользователя.
func (s *ClientService) List(ctx context.Context, userUID string) ([]*models.Client, error) {
	return s.repo.ListClients(ctx, userUID)
}

// Read возвращает клиента по ID, используя кеш или репозиторий.
func (s *ClientService) Read(ctx context.Context, userUID string, id int) (*models.Client, error) {
	var result *models.Client
	cacheKey := clientCacheKey(userUID, id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		return nil, err
	}
	if found {
		return result, nil
	}

	result, err = s.repo.ReadClient(ctx, userUID, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to cache client", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return result, nil
}

// Update обновляет данные клиента и инвалидирует кеш.
func (s *ClientService) Update(ctx context.Context, userUID string, id int, req models.DummyClient) error {
	client := models.Client{
		ID:          id,
		UserUID:     userUID,
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
	}

	if err := s.repo.UpdateClient(ctx, client); err != nil {
		return err
	}

	cacheKey := clientCacheKey(userUID, id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	s.audit.Record(models.AuditEvent{
		UserUID:    userUID,
		Action:     "update",
		EntityType: "client",
		EntityID:   id,
	})

	return nil
}

// Remove удаляет клиента по ID и инвалидирует кеш.
func (s *ClientService) Remove(ctx context.Context, userUID string, id int) error {
	cacheKey := clientCacheKey(userUID, id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}

	if err := s.repo.RemoveClient(ctx, userUID, id); err != nil {
		return err
	}

	s.audit.Record(models.AuditEvent{
		UserUID:    userUID,
		Action:     "delete",
		EntityType: "client",
		EntityID:   id,
	})
	return nil
}

func clientCacheKey(userUID string, id int) string {
	return fmt.Sprintf("client:%s:%d", userUID, id)
}
