package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/babylonlabs-io/token-economics/internal/auth"
	"github.com/babylonlabs-io/token-economics/internal/clock"
	"github.com/babylonlabs-io/token-economics/internal/config"
	"github.com/babylonlabs-io/token-economics/internal/db"
	"github.com/babylonlabs-io/token-economics/internal/db/memory"
	"github.com/babylonlabs-io/token-economics/internal/db/model"
	"github.com/babylonlabs-io/token-economics/internal/ledger"
	"github.com/babylonlabs-io/token-economics/internal/types"
)

const (
	stakeAsset    = "STAKE"
	rewardAsset   = "REWARD"
	stakeVault    = "stake-vault"
	rewardVault   = "reward-vault"
	treasuryVault = "treasury-vault"
	admin         = "admin"

	// start is the clock reading at initialization
	start int64 = 1_700_000_000
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []*types.Event
}

func (p *recordingPublisher) Publish(_ context.Context, ev *types.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) last() *types.Event {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.events) == 0 {
		return nil
	}
	return p.events[len(p.events)-1]
}

type testEnv struct {
	svc       *Service
	store     *memory.Store
	book      *ledger.Book
	clock     *clock.Manual
	publisher *recordingPublisher
}

func testConfig() *config.Config {
	return &config.Config{
		Economics: config.EconomicsConfig{
			StakeAssetID:        stakeAsset,
			RewardAssetID:       rewardAsset,
			StakeVault:          stakeVault,
			RewardVault:         rewardVault,
			TreasuryVault:       treasuryVault,
			CommitMaxRetryTimes: 3,
			CommitRetryInterval: time.Millisecond,
		},
		Poller: config.PollerConfig{
			StatsPollingInterval: 10 * time.Millisecond,
		},
	}
}

// newTestEnv builds a service over the in-memory store and book. l replaces
// the book as the ledger of the service when set.
func newTestEnv(t *testing.T, l ledger.Ledger) *testEnv {
	t.Helper()

	env := &testEnv{
		store:     memory.New(),
		book:      ledger.NewBook(stakeVault, rewardVault, treasuryVault),
		clock:     clock.NewManual(start),
		publisher: &recordingPublisher{},
	}
	if l == nil {
		l = env.book
	}
	env.svc = NewService(testConfig(), env.store, l, auth.Identity{}, env.clock, env.publisher)
	return env
}

// initialized returns an env with economics (rate 100/s, fee 5%, stake
// bounds [10, 1_000_000]) and pool 1 (1x, no hold period, capacity 10_000_000).
func initialized(t *testing.T, l ledger.Ledger) *testEnv {
	t.Helper()

	env := newTestEnv(t, l)
	ctx := t.Context()
	require.NoError(t, env.svc.InitializeEconomics(ctx, admin, 100, 500, 10, 1_000_000))
	require.NoError(t, env.svc.CreateStakingPool(ctx, admin, 1, 100, 0, 10_000_000))
	require.NoError(t, env.book.Mint(rewardAsset, rewardVault, 1_000_000_000))
	return env
}

func (env *testEnv) fund(t *testing.T, user string, amount uint64) {
	t.Helper()
	require.NoError(t, env.book.Mint(stakeAsset, user, amount))
}

func (env *testEnv) econ(t *testing.T) *model.Economics {
	t.Helper()
	econ, err := env.store.GetEconomics(t.Context())
	require.NoError(t, err)
	return econ
}

func (env *testEnv) pool(t *testing.T, poolID uint8) *model.StakingPool {
	t.Helper()
	pool, err := env.store.GetStakingPool(t.Context(), poolID)
	require.NoError(t, err)
	return pool
}

func (env *testEnv) stake(t *testing.T, user string, poolID uint8) *model.UserStake {
	t.Helper()
	stake, err := env.store.GetUserStake(t.Context(), user, poolID)
	require.NoError(t, err)
	return stake
}

// conflictingStore commits a foreign change to the economics record right
// before the next conflicts commits of the service, as a second process
// would.
type conflictingStore struct {
	db.DbInterface
	mu        sync.Mutex
	conflicts int
	commits   int
}

func (s *conflictingStore) Commit(ctx context.Context, cs *db.Changeset) error {
	s.mu.Lock()
	s.commits++
	interfere := s.conflicts > 0
	if interfere {
		s.conflicts--
	}
	s.mu.Unlock()

	if interfere {
		econ, err := s.DbInterface.GetEconomics(ctx)
		if err != nil {
			return err
		}
		if err := s.DbInterface.Commit(ctx, &db.Changeset{Economics: econ}); err != nil {
			return err
		}
	}
	return s.DbInterface.Commit(ctx, cs)
}

// failingCommitStore runs the commit hook and then fails the commit, as a
// store losing its connection after the transfers went out would.
type failingCommitStore struct {
	db.DbInterface
	commits int
}

func (s *failingCommitStore) Commit(ctx context.Context, cs *db.Changeset) error {
	s.commits++
	if cs.BeforeCommit != nil {
		if err := cs.BeforeCommit(ctx); err != nil {
			return err
		}
	}
	return &db.ConcurrentUpdateError{Message: "connection lost during commit"}
}
