package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/babylonlabs-io/token-economics/internal/auth"
)

func NewRouter(svc StakingService, keyring *auth.Keyring) http.Handler {
	h := &handlers{svc: svc}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(traceMiddleware)
	r.Use(metricsMiddleware)

	r.Get("/healthcheck", wrap(h.healthCheck))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/economics", wrap(h.getEconomics))
		r.Get("/pools", wrap(h.listPools))
		r.Get("/pools/{poolID}", wrap(h.getPool))
		r.Get("/pools/{poolID}/stakes/{user}", wrap(h.getStake))
		r.Get("/pools/{poolID}/stakes/{user}/preview", wrap(h.previewRewards))
		r.Get("/users/{user}/stakes", wrap(h.listUserStakes))

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware(keyring))

			r.Post("/economics", wrap(h.initializeEconomics))
			r.Post("/pools", wrap(h.createPool))
			r.Post("/pools/{poolID}/stake", wrap(h.stake))
			r.Post("/pools/{poolID}/claim", wrap(h.claimRewards))
			r.Post("/pools/{poolID}/unstake", wrap(h.unstake))
			r.Post("/pools/{poolID}/emergency-unstake", wrap(h.emergencyUnstake))

			r.Put("/admin/pause", wrap(h.setPauseState))
			r.Put("/admin/emergency", wrap(h.setEmergencyMode))
			r.Put("/admin/reward-rate", wrap(h.updateRewardRate))
			r.Post("/admin/fund", wrap(h.fundRewards))
		})
	})

	return r
}
