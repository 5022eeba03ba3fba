package services

import (
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/babylonlabs-io/token-economics/internal/rewards"
)

// TestRandomSequences drives random operations through the service and
// checks the ledger invariants after every step.
func TestRandomSequences(t *testing.T) {
	for seed := uint64(1); seed <= 5; seed++ {
		t.Run(fmt.Sprintf("seed %d", seed), func(t *testing.T) {
			faker := gofakeit.New(seed)
			env := initialized(t, nil)
			ctx := t.Context()
			require.NoError(t, env.svc.CreateStakingPool(ctx, admin, 2, 250, 30, 10_000_000))
			require.NoError(t, env.svc.CreateStakingPool(ctx, admin, 3, 1000, 0, 50_000))

			users := []string{"alice", "bob", "carol", "dave"}
			pools := []uint8{1, 2, 3}
			for _, u := range users {
				env.fund(t, u, 1_000_000)
			}

			accs := map[uint8]uint64{}
			for step := 0; step < 200; step++ {
				env.clock.Advance(int64(faker.IntRange(0, 40)))
				user := users[faker.IntRange(0, len(users)-1)]
				poolID := pools[faker.IntRange(0, len(pools)-1)]

				// operations may legitimately fail on a precondition,
				// the invariants must hold either way
				switch faker.IntRange(0, 9) {
				case 0, 1, 2, 3:
					_ = env.svc.Stake(ctx, user, poolID, uint64(faker.IntRange(1, 20_000)))
				case 4, 5:
					_ = env.svc.ClaimRewards(ctx, user, poolID)
				case 6, 7:
					_ = env.svc.Unstake(ctx, user, poolID, uint64(faker.IntRange(0, 5_000)))
				case 8:
					_ = env.svc.UpdateRewardRate(ctx, admin, uint64(faker.IntRange(0, 500)))
				case 9:
					_ = env.svc.SetEmergencyMode(ctx, admin, faker.Bool())
				}

				checkConservation(t, env, users, pools)
				for _, id := range pools {
					acc := env.pool(t, id).AccumulatedRewardPerShare
					require.GreaterOrEqual(t, acc, accs[id], "accumulator of pool %d decreased", id)
					accs[id] = acc
				}
			}

			require.NoError(t, env.svc.calculateAndUpdateStats(ctx))
			stats := env.store.OverallStats()
			require.NotNil(t, stats)
			assert.Zero(t, stats.InvariantViolations)
		})
	}
}

func checkConservation(t *testing.T, env *testEnv, users []string, pools []uint8) {
	t.Helper()
	ctx := t.Context()

	econ := env.econ(t)
	var poolsTotal, stakesTotal, active uint64
	for _, id := range pools {
		pool := env.pool(t, id)
		poolsTotal += pool.TotalStaked
		require.LessOrEqual(t, pool.TotalStaked, pool.MaxCapacity)

		var poolStakes uint64
		var poolActive uint32
		for _, u := range users {
			stake, err := env.store.GetUserStake(ctx, u, id)
			if err != nil {
				continue
			}
			poolStakes += stake.TotalStaked
			if stake.TotalStaked > 0 {
				poolActive++
			}
			debt, err := rewards.RewardDebt(stake.TotalStaked, pool)
			require.NoError(t, err)
			// an untouched stake keeps its older baseline, which is never above the current one
			require.LessOrEqual(t, stake.RewardDebt, debt)
		}
		require.Equal(t, pool.TotalStaked, poolStakes, "pool %d", id)
		require.Equal(t, pool.ActiveStakers, poolActive, "pool %d", id)
		stakesTotal += poolStakes
		active += uint64(poolActive)
	}

	require.Equal(t, econ.TotalStaked, poolsTotal)
	require.Equal(t, econ.TotalStaked, stakesTotal)
	require.Equal(t, econ.ActiveStakers, active)
	require.Equal(t, econ.TotalStaked, env.book.Balance(stakeAsset, stakeVault))
}

func TestDebtRebaseline(t *testing.T) {
	env := initialized(t, nil)
	ctx := t.Context()
	env.fund(t, "alice", 10_000)
	env.fund(t, "bob", 10_000)

	rebaselined := func(user string) {
		t.Helper()
		stake := env.stake(t, user, 1)
		debt, err := rewards.RewardDebt(stake.TotalStaked, env.pool(t, 1))
		require.NoError(t, err)
		assert.Equal(t, debt, stake.RewardDebt)
	}

	require.NoError(t, env.svc.Stake(ctx, "alice", 1, 777))
	rebaselined("alice")
	env.clock.Advance(13)
	require.NoError(t, env.svc.Stake(ctx, "bob", 1, 3_001))
	rebaselined("bob")
	env.clock.Advance(7)
	require.NoError(t, env.svc.ClaimRewards(ctx, "alice", 1))
	rebaselined("alice")
	env.clock.Advance(29)
	require.NoError(t, env.svc.Unstake(ctx, "bob", 1, 1_234))
	rebaselined("bob")
	env.clock.Advance(3)
	require.NoError(t, env.svc.Stake(ctx, "alice", 1, 55))
	rebaselined("alice")
}
