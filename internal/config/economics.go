package config

import (
	"errors"
	"time"
)

const (
	defaultCommitMaxRetryTimes = 5
	defaultCommitRetryInterval = 50 * time.Millisecond
)

// EconomicsConfig names the assets and vault holdings recorded on the
// economics record at initialization, and tunes how operations retry
// when a concurrent writer wins the commit.
type EconomicsConfig struct {
	StakeAssetID        string        `mapstructure:"stake-asset-id"`
	RewardAssetID       string        `mapstructure:"reward-asset-id"`
	StakeVault          string        `mapstructure:"stake-vault"`
	RewardVault         string        `mapstructure:"reward-vault"`
	TreasuryVault       string        `mapstructure:"treasury-vault"`
	CommitMaxRetryTimes uint          `mapstructure:"commit-max-retry-times"`
	CommitRetryInterval time.Duration `mapstructure:"commit-retry-interval"`
}

func (cfg *EconomicsConfig) Validate() error {
	if cfg.StakeAssetID == "" {
		return errors.New("missing stake asset id")
	}
	if cfg.RewardAssetID == "" {
		return errors.New("missing reward asset id")
	}
	if cfg.StakeVault == "" || cfg.RewardVault == "" || cfg.TreasuryVault == "" {
		return errors.New("stake, reward and treasury vaults must be set")
	}
	if cfg.StakeVault == cfg.RewardVault || cfg.RewardVault == cfg.TreasuryVault || cfg.StakeVault == cfg.TreasuryVault {
		return errors.New("vault names must be distinct")
	}

	if cfg.CommitMaxRetryTimes == 0 {
		cfg.CommitMaxRetryTimes = defaultCommitMaxRetryTimes
	}
	if cfg.CommitRetryInterval <= 0 {
		cfg.CommitRetryInterval = defaultCommitRetryInterval
	}

	return nil
}

// IsVault reports whether holder is one of the system vaults.
func (cfg *EconomicsConfig) IsVault(holder string) bool {
	return holder == cfg.StakeVault || holder == cfg.RewardVault || holder == cfg.TreasuryVault
}
