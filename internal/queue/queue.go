package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
	"go.uber.org/zap"

	"github.com/babylonlabs-io/token-economics/internal/config"
	"github.com/babylonlabs-io/token-economics/internal/types"
)

//go:generate mockery --name=EventPublisher --output=../../testutil/mocks --outpkg=mocks --filename=event_publisher.go
type EventPublisher interface {
	Publish(ctx context.Context, event *types.Event) error
}

// QueueManager publishes events to a durable topic exchange. The event type
// is used as the routing key.
type QueueManager struct {
	cfg    *config.QueueConfig
	logger *zap.Logger

	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewQueueManager(cfg *config.QueueConfig, logger *zap.Logger) (*QueueManager, error) {
	qm := &QueueManager{
		cfg:    cfg,
		logger: logger,
	}

	if err := qm.connect(); err != nil {
		return nil, err
	}
	return qm, nil
}

// connect must be called with qm.mu held or before qm is shared. A
// previous connection is closed first, closing it also closes its channel.
func (qm *QueueManager) connect() error {
	if qm.conn != nil {
		if err := qm.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			qm.logger.Warn("failed to close previous rabbitmq connection", zap.Error(err))
		}
		qm.conn = nil
		qm.channel = nil
	}

	conn, err := amqp.Dial(qm.cfg.ConnectionURL())
	if err != nil {
		return fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		qm.cfg.Exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to declare exchange %s: %w", qm.cfg.Exchange, err)
	}

	qm.conn = conn
	qm.channel = ch
	qm.logger.Info("connected to rabbitmq", zap.String("exchange", qm.cfg.Exchange))
	return nil
}

func (qm *QueueManager) Publish(ctx context.Context, event *types.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	qm.mu.Lock()
	defer qm.mu.Unlock()

	if qm.channel == nil || qm.channel.IsClosed() {
		qm.logger.Warn("rabbitmq channel closed, reconnecting")
		if err := qm.connect(); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, qm.cfg.PublishTimeout)
	defer cancel()

	return qm.channel.PublishWithContext(
		ctx,
		qm.cfg.Exchange,
		event.Type.String(),
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    event.ID,
			Type:         event.Type.String(),
			Body:         body,
		},
	)
}

// Shutdown gracefully stops the interaction with the queue, ensuring all resources are properly released.
func (qm *QueueManager) Shutdown() {
	log.Info().Msg("Shutting down queue manager")

	qm.mu.Lock()
	defer qm.mu.Unlock()

	if qm.conn == nil {
		return
	}
	if err := qm.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		log.Error().Err(err).Msg("failed to close rabbitmq connection")
	}
	qm.conn = nil
	qm.channel = nil
}

// NoopPublisher drops every event. It is used when no queue is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(_ context.Context, _ *types.Event) error {
	return nil
}
