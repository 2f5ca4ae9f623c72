package notification

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/stc-ops/fieldops/internal/shared/config"
)

// Notifier accepts messages for best-effort delivery. Service implements it
// directly; Queue implements it by publishing to a broker whose consumer
// drains into a Service.
type Notifier interface {
	Enqueue(msg *Message)
}

// Queue publishes notification messages to RabbitMQ so delivery survives
// process restarts. Used when AMQP_URL is configured; otherwise handlers talk
// to the in-process Service directly.
type Queue struct {
	conn  *amqp.Connection
	chn   *amqp.Channel
	queue string
	log   *zap.Logger
}

// NewQueue connects to the broker and declares the durable queue.
func NewQueue(cfg config.AMQPConfig, log *zap.Logger) (*Queue, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, err
	}

	chn, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	_, err = chn.QueueDeclare(
		cfg.Queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		chn.Close()
		conn.Close()
		return nil, err
	}

	return &Queue{conn: conn, chn: chn, queue: cfg.Queue, log: log}, nil
}

// Close closes the channel and connection.
func (q *Queue) Close() error {
	if err := q.chn.Close(); err != nil {
		return err
	}
	return q.conn.Close()
}

// Enqueue publishes the message. Best-effort: publish failures are logged,
// never returned to the caller.
func (q *Queue) Enqueue(msg *Message) {
	if msg.ID == "" {
		msg.ID = generateMessageID()
	}

	body, err := json.Marshal(msg)
	if err != nil {
		q.log.Warn("failed to encode notification", zap.String("id", msg.ID), zap.Error(err))
		return
	}

	err = q.chn.PublishWithContext(
		context.Background(),
		"",      // default exchange
		q.queue, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		q.log.Warn("failed to publish notification", zap.String("id", msg.ID), zap.Error(err))
	}
}

// Consume drains the queue into the given service until ctx is cancelled.
// Malformed payloads are acked and dropped so they cannot wedge the queue.
func (q *Queue) Consume(ctx context.Context, svc *Service) error {
	deliveries, err := q.chn.Consume(
		q.queue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				var msg Message
				if err := json.Unmarshal(d.Body, &msg); err != nil {
					q.log.Warn("dropping malformed notification payload", zap.Error(err))
					d.Ack(false)
					continue
				}
				svc.Enqueue(&msg)
				d.Ack(false)
			}
		}
	}()

	return nil
}
