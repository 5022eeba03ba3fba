package db

import (
	"context"
	"time"

	"github.com/babylonlabs-io/token-economics/internal/db/model"
	"github.com/babylonlabs-io/token-economics/internal/observability/metrics"
)

type DbWithMetrics struct {
	db DbInterface
}

func NewDbWithMetrics(db DbInterface) *DbWithMetrics {
	return &DbWithMetrics{db: db}
}

func (d *DbWithMetrics) Ping(ctx context.Context) error {
	return d.db.Ping(ctx)
}

func (d *DbWithMetrics) GetEconomics(ctx context.Context) (result *model.Economics, err error) {
	//nolint:errcheck
	d.run("GetEconomics", func() error {
		result, err = d.db.GetEconomics(ctx)
		return err
	})
	return
}

func (d *DbWithMetrics) SaveEconomics(ctx context.Context, econ *model.Economics) error {
	return d.run("SaveEconomics", func() error {
		return d.db.SaveEconomics(ctx, econ)
	})
}

func (d *DbWithMetrics) GetStakingPool(ctx context.Context, poolID uint8) (result *model.StakingPool, err error) {
	//nolint:errcheck
	d.run("GetStakingPool", func() error {
		result, err = d.db.GetStakingPool(ctx, poolID)
		return err
	})
	return
}

func (d *DbWithMetrics) ListStakingPools(ctx context.Context) (result []*model.StakingPool, err error) {
	//nolint:errcheck
	d.run("ListStakingPools", func() error {
		result, err = d.db.ListStakingPools(ctx)
		return err
	})
	return
}

func (d *DbWithMetrics) SaveNewStakingPool(ctx context.Context, pool *model.StakingPool) error {
	return d.run("SaveNewStakingPool", func() error {
		return d.db.SaveNewStakingPool(ctx, pool)
	})
}

func (d *DbWithMetrics) GetUserStake(ctx context.Context, user string, poolID uint8) (result *model.UserStake, err error) {
	//nolint:errcheck
	d.run("GetUserStake", func() error {
		result, err = d.db.GetUserStake(ctx, user, poolID)
		return err
	})
	return
}

func (d *DbWithMetrics) ListUserStakes(ctx context.Context, user string) (result []*model.UserStake, err error) {
	//nolint:errcheck
	d.run("ListUserStakes", func() error {
		result, err = d.db.ListUserStakes(ctx, user)
		return err
	})
	return
}

func (d *DbWithMetrics) Commit(ctx context.Context, cs *Changeset) error {
	return d.run("Commit", func() error {
		return d.db.Commit(ctx, cs)
	})
}

func (d *DbWithMetrics) CalculateLedgerTotals(ctx context.Context) (result *model.LedgerTotals, err error) {
	//nolint:errcheck
	d.run("CalculateLedgerTotals", func() error {
		result, err = d.db.CalculateLedgerTotals(ctx)
		return err
	})
	return
}

func (d *DbWithMetrics) LedgerSnapshot(ctx context.Context) (result *model.LedgerSnapshot, err error) {
	//nolint:errcheck
	d.run("LedgerSnapshot", func() error {
		result, err = d.db.LedgerSnapshot(ctx)
		return err
	})
	return
}

func (d *DbWithMetrics) UpsertOverallStats(ctx context.Context, stats *model.OverallStatsDocument) error {
	return d.run("UpsertOverallStats", func() error {
		return d.db.UpsertOverallStats(ctx, stats)
	})
}

func (d *DbWithMetrics) UpsertPoolStats(ctx context.Context, stats *model.PoolStatsDocument) error {
	return d.run("UpsertPoolStats", func() error {
		return d.db.UpsertPoolStats(ctx, stats)
	})
}

// run is private method that executes passed lambda function and send metrics data with spent time, method name
// and an error if any. It returns the error from the lambda function for convenience
func (d *DbWithMetrics) run(method string, f func() error) error {
	startTime := time.Now()
	err := f()
	duration := time.Since(startTime)

	// version conflicts and missing records are not counted as failures
	failed := err != nil && !IsConcurrentUpdateError(err) && !IsNotFoundError(err)
	metrics.RecordDbLatency(duration, method, failed)
	return err
}
