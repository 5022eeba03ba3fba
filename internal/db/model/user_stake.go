package model

import "fmt"

const UserStakeCollection = "user_stake"

type UserStake struct {
	ID     string `bson:"_id"` // see UserStakeID
	User   string `bson:"user"`
	PoolID uint8  `bson:"pool_id"`

	TotalStaked         uint64 `bson:"total_staked"`
	PendingRewards      uint64 `bson:"pending_rewards"`
	RewardDebt          uint64 `bson:"reward_debt"`
	TotalRewardsClaimed uint64 `bson:"total_rewards_claimed"`

	FirstStakeTime int64 `bson:"first_stake_time"`
	LastStakeTime  int64 `bson:"last_stake_time"`
	LastClaimTime  int64 `bson:"last_claim_time"`

	// Version 0 means the record has never been committed.
	Version uint64 `bson:"version"`
}

// UserStakeID derives the primary key of a (user, pool) stake record.
func UserStakeID(user string, poolID uint8) string {
	return fmt.Sprintf("%s/%d", user, poolID)
}

func NewUserStake(user string, poolID uint8) *UserStake {
	return &UserStake{
		ID:     UserStakeID(user, poolID),
		User:   user,
		PoolID: poolID,
	}
}

func (s *UserStake) Clone() *UserStake {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
