package services

import (
	"sync"

	"github.com/babylonlabs-io/token-economics/internal/auth"
	"github.com/babylonlabs-io/token-economics/internal/clock"
	"github.com/babylonlabs-io/token-economics/internal/config"
	"github.com/babylonlabs-io/token-economics/internal/db"
	"github.com/babylonlabs-io/token-economics/internal/ledger"
	"github.com/babylonlabs-io/token-economics/internal/queue"
)

// Service runs the staking operations. Every mutating operation of one
// process holds mu exclusively and queries hold it shared, records written
// by other processes are detected by the optimistic version check of the
// store.
type Service struct {
	cfg       *config.Config
	db        db.DbInterface
	ledger    ledger.Ledger
	auth      auth.Authenticator
	clock     clock.Clock
	publisher queue.EventPublisher

	mu sync.RWMutex
}

func NewService(
	cfg *config.Config,
	db db.DbInterface,
	l ledger.Ledger,
	authenticator auth.Authenticator,
	clk clock.Clock,
	publisher queue.EventPublisher,
) *Service {
	if publisher == nil {
		publisher = queue.NoopPublisher{}
	}
	return &Service{
		cfg:       cfg,
		db:        db,
		ledger:    l,
		auth:      authenticator,
		clock:     clk,
		publisher: publisher,
	}
}
