package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/babylonlabs-io/token-economics/internal/db"
	"github.com/babylonlabs-io/token-economics/internal/db/model"
	"github.com/babylonlabs-io/token-economics/internal/observability/metrics"
	"github.com/babylonlabs-io/token-economics/internal/utils/poller"
)

const (
	invariantGlobalVsPools   = "global_total_vs_pools"
	invariantPoolsVsStakes   = "pool_total_vs_stakes"
	invariantActiveStakers   = "active_stakers"
	invariantPoolCapacity    = "pool_capacity"
	invariantPoolStakerCount = "pool_active_stakers"
)

// StartStatsPoller starts the stats polling service
func (s *Service) StartStatsPoller(ctx context.Context) *poller.Poller {
	statsPoller := poller.NewPoller(
		"stats",
		s.cfg.Poller.StatsPollingInterval,
		metrics.RecordPollerDuration("stats", s.calculateAndUpdateStats),
	)
	go statsPoller.Start(ctx)
	return statsPoller
}

// calculateAndUpdateStats recomputes the aggregates from the user stakes,
// compares them with the running totals and stores a snapshot
func (s *Service) calculateAndUpdateStats(ctx context.Context) error {
	log := log.Ctx(ctx)

	// operations of this process wait until the snapshot is read
	startTime := time.Now()
	s.mu.RLock()
	snapshot, err := s.db.LedgerSnapshot(ctx)
	s.mu.RUnlock()
	if err != nil {
		if db.IsNotFoundError(err) {
			log.Debug().Msg("Economics not initialized - skipping stats update")
			return nil
		}
		return fmt.Errorf("failed to read ledger snapshot: %w", err)
	}
	log.Debug().
		Dur("aggregation_duration_ms", time.Since(startTime)).
		Msg("Stats aggregation completed")
	econ, pools := snapshot.Economics, snapshot.Pools

	violations := checkInvariants(ctx, econ, pools, snapshot.Totals)
	now := s.clock.Now()

	if err := s.db.UpsertOverallStats(ctx, &model.OverallStatsDocument{
		ID:                      model.OverallStatsID,
		TotalStaked:             econ.TotalStaked,
		ActiveStakers:           econ.ActiveStakers,
		TotalRewardsDistributed: econ.TotalRewardsDistributed,
		PoolCount:               uint64(len(pools)),
		InvariantViolations:     violations,
		LastUpdated:             now,
	}); err != nil {
		return fmt.Errorf("failed to upsert overall stats: %w", err)
	}
	metrics.RecordLedgerTotals(econ.TotalStaked, econ.ActiveStakers, econ.TotalRewardsDistributed)

	for _, pool := range pools {
		if err := s.db.UpsertPoolStats(ctx, &model.PoolStatsDocument{
			PoolID:                    pool.PoolID,
			TotalStaked:               pool.TotalStaked,
			ActiveStakers:             uint64(pool.ActiveStakers),
			AccumulatedRewardPerShare: pool.AccumulatedRewardPerShare,
			LastUpdated:               now,
		}); err != nil {
			log.Error().
				Err(err).
				Uint8("pool_id", pool.PoolID).
				Msg("Failed to upsert pool stats")
			return fmt.Errorf("failed to upsert pool stats for %d: %w", pool.PoolID, err)
		}
		metrics.RecordPoolTotals(pool.PoolID, pool.TotalStaked, pool.ActiveStakers)
	}

	log.Info().
		Uint64("total_staked", econ.TotalStaked).
		Uint64("active_stakers", econ.ActiveStakers).
		Int("pool_count", len(pools)).
		Uint64("invariant_violations", violations).
		Msg("Updated stats")

	return nil
}

// checkInvariants reports every aggregate that disagrees with the records
// it summarizes and returns how many did.
func checkInvariants(
	ctx context.Context,
	econ *model.Economics,
	pools []*model.StakingPool,
	totals *model.LedgerTotals,
) uint64 {
	var violations uint64
	violated := func(invariant string, expected, actual uint64, poolID *uint8) {
		violations++
		metrics.IncInvariantViolations(invariant)
		ev := log.Ctx(ctx).Error().
			Str("invariant", invariant).
			Uint64("expected", expected).
			Uint64("actual", actual)
		if poolID != nil {
			ev = ev.Uint8("pool_id", *poolID)
		}
		ev.Msg("Ledger invariant violated")
	}

	var poolsTotal uint64
	for _, pool := range pools {
		poolsTotal += pool.TotalStaked
		pt := totals.PerPool[pool.PoolID]

		if pool.TotalStaked != pt.StakesTotalStaked {
			violated(invariantPoolsVsStakes, pool.TotalStaked, pt.StakesTotalStaked, &pool.PoolID)
		}
		if uint64(pool.ActiveStakers) != pt.ActiveStakers {
			violated(invariantPoolStakerCount, uint64(pool.ActiveStakers), pt.ActiveStakers, &pool.PoolID)
		}
		if pool.TotalStaked > pool.MaxCapacity {
			violated(invariantPoolCapacity, pool.MaxCapacity, pool.TotalStaked, &pool.PoolID)
		}
	}

	if econ.TotalStaked != poolsTotal {
		violated(invariantGlobalVsPools, econ.TotalStaked, poolsTotal, nil)
	}
	if econ.ActiveStakers != totals.ActiveStakers {
		violated(invariantActiveStakers, econ.ActiveStakers, totals.ActiveStakers, nil)
	}

	return violations
}
