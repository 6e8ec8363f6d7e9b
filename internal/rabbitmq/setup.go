package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"
)

const (
	// AuditExchange — exchange для событий аудита.
	AuditExchange = "audit"
	// AuditQueue — очередь, которую читает audit-writer.
	AuditQueue = "audit.events"
	// AuditRoutingKey — ключ маршрутизации событий аудита.
	AuditRoutingKey = "events"
)

// SetupChannel открывает канал и объявляет exchange, очередь и привязку
// для событий аудита.
func SetupChannel(conn *amqp.Connection) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := ch.Qos(10, 0, false); err != nil {
		return nil, fmt.Errorf("%s: failed to set QoS: %w", op, err)
	}

	err = ch.ExchangeDeclare(
		AuditExchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	_, err = ch.QueueDeclare(
		AuditQueue,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to declare queue %s: %w", op, AuditQueue, err)
	}

	err = ch.QueueBind(AuditQueue, AuditRoutingKey, AuditExchange, false, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to bind queue %s: %w", op, AuditQueue, err)
	}

	return ch, nil
}
