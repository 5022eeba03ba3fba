package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/babylonlabs-io/token-economics/internal/observability/metrics"
	"github.com/babylonlabs-io/token-economics/internal/types"
)

func newEvent(typ types.EventType, now int64) *types.Event {
	return &types.Event{
		ID:        uuid.New().String(),
		Type:      typ,
		Timestamp: now,
	}
}

func newPoolEvent(typ types.EventType, now int64, poolID uint8) *types.Event {
	ev := newEvent(typ, now)
	ev.PoolID = &poolID
	return ev
}

// publish sends ev after its operation committed. The operation has already
// taken effect, so a failure is only logged.
func (s *Service) publish(ctx context.Context, ev *types.Event) {
	if ev == nil {
		return
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		metrics.RecordQueueSendError()
		log.Ctx(ctx).Error().Err(err).
			Str("event_id", ev.ID).
			Str("event_type", ev.Type.String()).
			Msg("failed to publish event")
	}
}
