package model

const (
	OverallStatsCollection = "overall_stats"
	PoolStatsCollection    = "pool_stats"

	OverallStatsID = "overall_stats"
)

// OverallStatsDocument is the snapshot written by the stats poller
type OverallStatsDocument struct {
	ID                      string `bson:"_id"`                       // Always OverallStatsID
	TotalStaked             uint64 `bson:"total_staked"`              // Economics.TotalStaked at snapshot time
	ActiveStakers           uint64 `bson:"active_stakers"`            // Economics.ActiveStakers at snapshot time
	TotalRewardsDistributed uint64 `bson:"total_rewards_distributed"` // gross, fees included
	PoolCount               uint64 `bson:"pool_count"`
	InvariantViolations     uint64 `bson:"invariant_violations"` // found during the snapshot
	LastUpdated             int64  `bson:"last_updated"`         // Unix timestamp of last update
}

// PoolStatsDocument is stored separately from StakingPool so that the stats
// poller never races with operation commits on the pool document
type PoolStatsDocument struct {
	PoolID                    uint8  `bson:"_id"`
	TotalStaked               uint64 `bson:"total_staked"`
	ActiveStakers             uint64 `bson:"active_stakers"`
	AccumulatedRewardPerShare uint64 `bson:"accumulated_reward_per_share"`
	LastUpdated               int64  `bson:"last_updated"`
}

// LedgerTotals is the result of recomputing aggregates from the user stake
// records.
type LedgerTotals struct {
	StakesTotalStaked uint64
	ActiveStakers     uint64
	PerPool           map[uint8]PoolTotals
}

// LedgerSnapshot holds the running totals and their recomputation as of
// one point in time.
type LedgerSnapshot struct {
	Economics *Economics
	Pools     []*StakingPool
	Totals    *LedgerTotals
}

type PoolTotals struct {
	StakesTotalStaked uint64 `bson:"stakes_total_staked"`
	ActiveStakers     uint64 `bson:"active_stakers"`
}
