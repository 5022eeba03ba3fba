package db

import (
	"context"

	"github.com/babylonlabs-io/token-economics/internal/db/model"
)

type DbInterface interface {
	Ping(ctx context.Context) error

	// GetEconomics returns NotFoundError until the economics record is initialized
	GetEconomics(ctx context.Context) (*model.Economics, error)
	// SaveEconomics inserts the economics record with version 1. It fails
	// with DuplicateKeyError if the record already exists.
	SaveEconomics(ctx context.Context, econ *model.Economics) error

	GetStakingPool(ctx context.Context, poolID uint8) (*model.StakingPool, error)
	// ListStakingPools returns all pools ordered by id
	ListStakingPools(ctx context.Context) ([]*model.StakingPool, error)
	// SaveNewStakingPool inserts the pool with version 1. It fails with
	// DuplicateKeyError if a pool with the same id exists.
	SaveNewStakingPool(ctx context.Context, pool *model.StakingPool) error

	GetUserStake(ctx context.Context, user string, poolID uint8) (*model.UserStake, error)
	// ListUserStakes returns the stakes of user ordered by pool id
	ListUserStakes(ctx context.Context, user string) ([]*model.UserStake, error)

	// Commit writes every record of the changeset atomically. A record is
	// only written when its stored version equals the version it carries,
	// otherwise nothing is written and ConcurrentUpdateError is returned.
	// On success the versions in the changeset are bumped in place.
	Commit(ctx context.Context, cs *Changeset) error

	// CalculateLedgerTotals recomputes principal totals from user stakes
	CalculateLedgerTotals(ctx context.Context) (*model.LedgerTotals, error)
	// LedgerSnapshot reads economics, pools and recomputed totals from one
	// consistent view. It returns NotFoundError until economics is
	// initialized.
	LedgerSnapshot(ctx context.Context) (*model.LedgerSnapshot, error)
	UpsertOverallStats(ctx context.Context, stats *model.OverallStatsDocument) error
	UpsertPoolStats(ctx context.Context, stats *model.PoolStatsDocument) error
}
