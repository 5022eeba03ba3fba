package types

import "errors"

// Reasons wrapped by *Error. Compare with errors.Is.
var (
	ErrInvalidFeeRate           = errors.New("invalid fee rate - must be <= 10000 basis points")
	ErrInvalidStakeAmount       = errors.New("invalid stake amount configuration")
	ErrInvalidMultiplier        = errors.New("invalid reward multiplier")
	ErrInvalidStakePeriod       = errors.New("invalid stake period")
	ErrInvalidAmount            = errors.New("amount must be positive")
	ErrBelowMinimumStake        = errors.New("amount below minimum stake requirement")
	ErrExceedsMaximumStake      = errors.New("amount exceeds maximum stake limit")
	ErrPoolCapacityExceeded     = errors.New("pool capacity exceeded")
	ErrInsufficientStake        = errors.New("insufficient staked amount")
	ErrSystemPaused             = errors.New("system is currently paused")
	ErrEmergencyMode            = errors.New("system is in emergency mode")
	ErrNotInEmergencyMode       = errors.New("not in emergency mode")
	ErrPoolNotActive            = errors.New("pool is not active")
	ErrNoStakeToUnstake         = errors.New("no stake to unstake")
	ErrMinimumStakePeriodNotMet = errors.New("minimum stake period not met")
	ErrNoRewardsToClaim         = errors.New("no rewards to claim")
	ErrNotInitialized           = errors.New("economics not initialized")
	ErrAlreadyInitialized       = errors.New("economics already initialized")
	ErrPoolExists               = errors.New("staking pool already exists")
	ErrPoolNotFound             = errors.New("staking pool not found")
	ErrStakeNotFound            = errors.New("user stake not found")
	ErrMathOverflow             = errors.New("mathematical overflow occurred")
	ErrUnauthorized             = errors.New("unauthorized access")
	ErrTransferFailed           = errors.New("ledger transfer failed")
)
