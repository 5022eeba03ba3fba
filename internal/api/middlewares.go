package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/babylonlabs-io/token-economics/internal/auth"
	"github.com/babylonlabs-io/token-economics/internal/observability/metrics"
	"github.com/babylonlabs-io/token-economics/internal/observability/tracing"
	"github.com/babylonlabs-io/token-economics/internal/types"
)

const traceIDHeader = "X-Trace-Id"

func traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if id := r.Header.Get(traceIDHeader); id != "" {
			ctx = tracing.InjectGivenTraceID(ctx, id)
		} else {
			ctx = tracing.InjectTraceID(ctx)
		}
		w.Header().Set(traceIDHeader, tracing.TraceID(ctx))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		timer := metrics.StartHttpRequestDurationTimer(r.Method)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		// the pattern keeps label cardinality bounded
		route := "unknown"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		timer(route, ww.Status())
	})
}

// authMiddleware resolves the bearer api key of the request to the principal
// the request acts as.
func authMiddleware(keyring *auth.Keyring) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			key, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || key == "" {
				writeError(w, r, types.NewError(
					http.StatusUnauthorized, types.Unauthorized, errors.New("missing bearer api key"),
				))
				return
			}

			principal, found := keyring.Principal(key)
			if !found {
				writeError(w, r, types.NewError(
					http.StatusUnauthorized, types.Unauthorized, errors.New("unknown api key"),
				))
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), principal)))
		})
	}
}
