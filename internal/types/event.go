package types

type EventType string

func (e EventType) String() string {
	return string(e)
}

const (
	EventPoolCreated          EventType = "token_economics.v1.PoolCreated"
	EventStake                EventType = "token_economics.v1.Stake"
	EventUnstake              EventType = "token_economics.v1.Unstake"
	EventRewardClaim          EventType = "token_economics.v1.RewardClaim"
	EventEmergencyUnstake     EventType = "token_economics.v1.EmergencyUnstake"
	EventPauseStateChanged    EventType = "token_economics.v1.PauseStateChanged"
	EventEmergencyModeChanged EventType = "token_economics.v1.EmergencyModeChanged"
	EventRewardRateUpdated    EventType = "token_economics.v1.RewardRateUpdated"
	EventRewardsFunded        EventType = "token_economics.v1.RewardsFunded"
)

// Event is the envelope published after an operation commits. Only the
// fields relevant to Type are set.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp int64     `json:"timestamp"`

	User    string `json:"user,omitempty"`
	PoolID  *uint8 `json:"pool_id,omitempty"`
	Amount  uint64 `json:"amount,omitempty"`
	Details any    `json:"details,omitempty"`
}

type PoolCreatedDetails struct {
	RewardMultiplier uint16 `json:"reward_multiplier"`
	MinStakePeriod   int64  `json:"min_stake_period"`
	MaxCapacity      uint64 `json:"max_capacity"`
}

type StakeDetails struct {
	TotalUserStake uint64 `json:"total_user_stake"`
	TotalPoolStake uint64 `json:"total_pool_stake"`
}

type UnstakeDetails struct {
	RemainingStake uint64 `json:"remaining_stake"`
}

type RewardClaimDetails struct {
	GrossReward   uint64 `json:"gross_reward"`
	GovernanceFee uint64 `json:"governance_fee"`
	NetReward     uint64 `json:"net_reward"`
}

type FlagDetails struct {
	Enabled bool `json:"enabled"`
}

type RewardRateDetails struct {
	NewRate uint64 `json:"new_rate"`
}
