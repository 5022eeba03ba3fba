// Package memory is an in-process implementation of db.DbInterface. It is
// used for local runs and as the store behind service tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/babylonlabs-io/token-economics/internal/db"
	"github.com/babylonlabs-io/token-economics/internal/db/model"
)

// Store keeps every record by value. Records are cloned on the way in and
// on the way out so callers never share memory with the store.
type Store struct {
	mu           sync.RWMutex
	economics    *model.Economics
	pools        map[uint8]*model.StakingPool
	stakes       map[string]*model.UserStake
	overallStats *model.OverallStatsDocument
	poolStats    map[uint8]*model.PoolStatsDocument
}

var _ db.DbInterface = (*Store)(nil)

func New() *Store {
	return &Store{
		pools:     make(map[uint8]*model.StakingPool),
		stakes:    make(map[string]*model.UserStake),
		poolStats: make(map[uint8]*model.PoolStatsDocument),
	}
}

func (s *Store) Ping(_ context.Context) error {
	return nil
}

func (s *Store) GetEconomics(_ context.Context) (*model.Economics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.economicsLocked()
}

func (s *Store) economicsLocked() (*model.Economics, error) {
	if s.economics == nil {
		return nil, &db.NotFoundError{
			Key:     model.EconomicsID,
			Message: "economics not initialized",
		}
	}
	return s.economics.Clone(), nil
}

func (s *Store) SaveEconomics(_ context.Context, econ *model.Economics) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.economics != nil {
		return &db.DuplicateKeyError{
			Key:     model.EconomicsID,
			Message: "economics already initialized",
		}
	}

	econ.ID = model.EconomicsID
	econ.Version = 1
	s.economics = econ.Clone()
	return nil
}

func (s *Store) GetStakingPool(_ context.Context, poolID uint8) (*model.StakingPool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pool, ok := s.pools[poolID]
	if !ok {
		return nil, &db.NotFoundError{
			Key:     fmt.Sprint(poolID),
			Message: "staking pool not found",
		}
	}
	return pool.Clone(), nil
}

func (s *Store) ListStakingPools(_ context.Context) ([]*model.StakingPool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.poolsLocked(), nil
}

func (s *Store) poolsLocked() []*model.StakingPool {
	pools := make([]*model.StakingPool, 0, len(s.pools))
	for _, pool := range s.pools {
		pools = append(pools, pool.Clone())
	}
	sort.Slice(pools, func(i, j int) bool {
		return pools[i].PoolID < pools[j].PoolID
	})
	return pools
}

func (s *Store) SaveNewStakingPool(_ context.Context, pool *model.StakingPool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pools[pool.PoolID]; ok {
		return &db.DuplicateKeyError{
			Key:     fmt.Sprint(pool.PoolID),
			Message: "staking pool already exists",
		}
	}

	pool.Version = 1
	s.pools[pool.PoolID] = pool.Clone()
	return nil
}

func (s *Store) GetUserStake(_ context.Context, user string, poolID uint8) (*model.UserStake, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id := model.UserStakeID(user, poolID)
	stake, ok := s.stakes[id]
	if !ok {
		return nil, &db.NotFoundError{
			Key:     id,
			Message: "user stake not found",
		}
	}
	return stake.Clone(), nil
}

func (s *Store) ListUserStakes(_ context.Context, user string) ([]*model.UserStake, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stakes []*model.UserStake
	for _, stake := range s.stakes {
		if stake.User == user {
			stakes = append(stakes, stake.Clone())
		}
	}
	sort.Slice(stakes, func(i, j int) bool {
		return stakes[i].PoolID < stakes[j].PoolID
	})
	return stakes, nil
}

func (s *Store) Commit(ctx context.Context, cs *db.Changeset) error {
	if err := cs.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// check every record before writing any of them
	if cs.Economics != nil {
		if s.economics == nil || s.economics.Version != cs.Economics.Version {
			return concurrentUpdate(model.EconomicsCollection, model.EconomicsID)
		}
	}
	if cs.Pool != nil {
		stored, ok := s.pools[cs.Pool.PoolID]
		if !ok || stored.Version != cs.Pool.Version {
			return concurrentUpdate(model.StakingPoolCollection, fmt.Sprint(cs.Pool.PoolID))
		}
	}
	if cs.Stake != nil {
		stored, ok := s.stakes[cs.Stake.ID]
		switch {
		case cs.Stake.Version == 0 && ok:
			return concurrentUpdate(model.UserStakeCollection, cs.Stake.ID)
		case cs.Stake.Version != 0 && (!ok || stored.Version != cs.Stake.Version):
			return concurrentUpdate(model.UserStakeCollection, cs.Stake.ID)
		}
	}

	// readers wait on mu, so nothing done by the hook is observable with
	// the records of this changeset
	if cs.BeforeCommit != nil {
		if err := cs.BeforeCommit(ctx); err != nil {
			return err
		}
	}

	cs.BumpVersions()

	if cs.Economics != nil {
		s.economics = cs.Economics.Clone()
	}
	if cs.Pool != nil {
		s.pools[cs.Pool.PoolID] = cs.Pool.Clone()
	}
	if cs.Stake != nil {
		s.stakes[cs.Stake.ID] = cs.Stake.Clone()
	}

	return nil
}

func (s *Store) CalculateLedgerTotals(_ context.Context) (*model.LedgerTotals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.totalsLocked(), nil
}

func (s *Store) LedgerSnapshot(_ context.Context) (*model.LedgerSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	econ, err := s.economicsLocked()
	if err != nil {
		return nil, err
	}
	return &model.LedgerSnapshot{
		Economics: econ,
		Pools:     s.poolsLocked(),
		Totals:    s.totalsLocked(),
	}, nil
}

func (s *Store) totalsLocked() *model.LedgerTotals {
	totals := &model.LedgerTotals{
		PerPool: make(map[uint8]model.PoolTotals),
	}
	for _, stake := range s.stakes {
		pt := totals.PerPool[stake.PoolID]
		pt.StakesTotalStaked += stake.TotalStaked
		totals.StakesTotalStaked += stake.TotalStaked
		if stake.TotalStaked > 0 {
			pt.ActiveStakers++
			totals.ActiveStakers++
		}
		totals.PerPool[stake.PoolID] = pt
	}
	return totals
}

func (s *Store) UpsertOverallStats(_ context.Context, stats *model.OverallStatsDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := *stats
	doc.ID = model.OverallStatsID
	s.overallStats = &doc
	return nil
}

func (s *Store) UpsertPoolStats(_ context.Context, stats *model.PoolStatsDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := *stats
	s.poolStats[stats.PoolID] = &doc
	return nil
}

// OverallStats returns the last snapshot written by UpsertOverallStats.
func (s *Store) OverallStats() *model.OverallStatsDocument {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.overallStats == nil {
		return nil
	}
	doc := *s.overallStats
	return &doc
}

// PoolStats returns the last snapshot written for poolID.
func (s *Store) PoolStats(poolID uint8) *model.PoolStatsDocument {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats, ok := s.poolStats[poolID]
	if !ok {
		return nil
	}
	doc := *stats
	return &doc
}

func concurrentUpdate(collection, key string) *db.ConcurrentUpdateError {
	return &db.ConcurrentUpdateError{
		Collection: collection,
		Key:        key,
		Message:    fmt.Sprintf("%s %s was modified concurrently", collection, key),
	}
}
