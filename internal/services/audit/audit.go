// Package audit публикует события аудита в очередь RabbitMQ.
//
// Публикация идёт по принципу fire-and-forget: недоступность брокера
// логируется, но никогда не ломает бизнес-операцию, породившую событие.
package audit

import (
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/payasyougo/payasyougo/internal/lib/sl"
	"github.com/payasyougo/payasyougo/internal/models"
	"github.com/payasyougo/payasyougo/internal/rabbitmq"
)

// Recorder описывает интерфейс записи события аудита.
type Recorder interface {
	Record(event models.AuditEvent)
}

// Service публикует события в exchange аудита.
type Service struct {
	ch  *amqp.Channel
	log *slog.Logger
}

// New создает новый Service поверх открытого канала.
func New(ch *amqp.Channel, log *slog.Logger) *Service {
	return &Service{ch: ch, log: log}
}

// Record публикует событие, проставляя время, если оно не задано.
func (s *Service) Record(event models.AuditEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	if err := rabbitmq.PublishMessage(s.ch, rabbitmq.AuditExchange, rabbitmq.AuditRoutingKey, event); err != nil {
		s.log.Warn("failed to publish audit event",
			slog.String("action", event.Action), sl.Err(err))
	}
}

// Nop — заглушка Recorder для окружений без брокера.
type Nop struct{}

// Record ничего не делает.
func (Nop) Record(models.AuditEvent) {}
