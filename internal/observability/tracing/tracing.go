package tracing

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type traceID struct{}

// InjectTraceID attaches a new trace id to ctx and to the logger carried by it.
func InjectTraceID(ctx context.Context) context.Context {
	return InjectGivenTraceID(ctx, uuid.New().String())
}

// InjectGivenTraceID is InjectTraceID with a caller provided id, e.g. one
// received in a request header.
func InjectGivenTraceID(ctx context.Context, id string) context.Context {
	// fall back to the global logger when ctx carries none
	base := log.Logger
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		base = *l
	}

	logger := base.With().Str("traceId", id).Logger()
	ctx = context.WithValue(ctx, traceID{}, id)
	return logger.WithContext(ctx)
}

// TraceID returns the trace id of ctx or an empty string.
func TraceID(ctx context.Context) string {
	id, _ := ctx.Value(traceID{}).(string)
	return id
}
