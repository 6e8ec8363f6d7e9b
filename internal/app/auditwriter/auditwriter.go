// Package auditwriter собирает сервис записи аудита: потребляет события
// из очереди RabbitMQ и складывает их в таблицу audit_logs.
package auditwriter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/payasyougo/payasyougo/internal/config"
	"github.com/payasyougo/payasyougo/internal/lib/sl"
	"github.com/payasyougo/payasyougo/internal/models"
	"github.com/payasyougo/payasyougo/internal/rabbitmq"
	"github.com/payasyougo/payasyougo/internal/storage/repository"
)

type App struct {
	conn   *amqp.Connection
	ch     *amqp.Channel
	db     *repository.Storage
	logger *slog.Logger
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}

	return &App{
		conn:   conn,
		ch:     ch,
		db:     db,
		logger: logger,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, rabbitmq.AuditQueue, a.handleEvent(ctx))
	if err != nil {
		a.logger.Error("failed to start audit queue consumer", sl.Err(err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("audit writer shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
	_ = a.db.DB.Close()

	return nil
}

// handleEvent десериализует событие и пишет его в БД. Ошибка БД уходит
// потребителю как есть и возвращает сообщение в очередь; нечитаемое
// сообщение помечается неповторяемым и отбрасывается, иначе оно
// крутилось бы в очереди вечно.
func (a *App) handleEvent(ctx context.Context) func([]byte) error {
	return func(body []byte) error {
		var event models.AuditEvent
		if err := json.Unmarshal(body, &event); err != nil {
			a.logger.Error("failed to unmarshal audit event", sl.Err(err))
			return fmt.Errorf("%w: %v", rabbitmq.ErrNonRetryable, err)
		}

		if err := a.db.InsertAuditLog(ctx, event); err != nil {
			a.logger.Error("failed to insert audit log", sl.Err(err))
			return err
		}

		a.logger.Info("audit event stored",
			slog.String("action", event.Action),
			slog.String("entity_type", event.EntityType))
		return nil
	}
}
