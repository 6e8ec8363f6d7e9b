package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/streadway/amqp"
)

// ErrNonRetryable помечает ошибку обработчика, при которой повторная
// доставка бессмысленна: сообщение отбрасывается вместо возврата
// в очередь.
var ErrNonRetryable = errors.New("non-retryable message")

// ConsumerMessage запускает потребителя сообщений из очереди. Обработка
// идёт в отдельных горутинах, не более 10 одновременно. При ошибке
// обработчика сообщение возвращается в очередь; ошибка, обёрнутая в
// ErrNonRetryable, отбрасывает сообщение без повторной доставки.
func ConsumerMessage(ctx context.Context, ch *amqp.Channel, queueName string, handler func([]byte) error) error {
	const op = "rabbitmq.ConsumerMessage"
	delivery, err := ch.Consume(
		queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	sem := make(chan struct{}, 10)
	go func() {
		for {
			select {
			case d, ok := <-delivery:
				if !ok {
					return
				}
				sem <- struct{}{}
				go func(delivery amqp.Delivery) {
					defer func() { <-sem }()
					if err := handler(delivery.Body); err != nil {
						requeue := !errors.Is(err, ErrNonRetryable)
						if nackErr := delivery.Nack(false, requeue); nackErr != nil {
							log.Printf("failed to nack message: %v", nackErr)
						}
						return
					}
					if ackErr := delivery.Ack(false); ackErr != nil {
						log.Printf("failed to ack message: %v", ackErr)
					}
				}(d)
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}
