package config

import (
	"errors"
	"fmt"
	"time"
)

const (
	LedgerTypeMemory = "memory"
	LedgerTypeHTTP   = "http"

	defaultLedgerTimeout       = 10 * time.Second
	defaultLedgerMaxRetryTimes = 3
	defaultLedgerRetryInterval = 500 * time.Millisecond
)

// Balance seeds the in-memory ledger.
type Balance struct {
	Asset  string `mapstructure:"asset"`
	Holder string `mapstructure:"holder"`
	Amount uint64 `mapstructure:"amount"`
}

type LedgerConfig struct {
	Type          string        `mapstructure:"type"`
	URL           string        `mapstructure:"url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxRetryTimes uint          `mapstructure:"max-retry-times"`
	RetryInterval time.Duration `mapstructure:"retry-interval"`
	Balances      []Balance     `mapstructure:"balances"`
}

func (cfg *LedgerConfig) Validate() error {
	switch cfg.Type {
	case "":
		cfg.Type = LedgerTypeMemory
	case LedgerTypeMemory:
	case LedgerTypeHTTP:
		if cfg.URL == "" {
			return errors.New("ledger url must be set for the http ledger")
		}
	default:
		return fmt.Errorf("unsupported ledger type %q", cfg.Type)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultLedgerTimeout
	}
	if cfg.MaxRetryTimes == 0 {
		cfg.MaxRetryTimes = defaultLedgerMaxRetryTimes
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = defaultLedgerRetryInterval
	}

	return nil
}
