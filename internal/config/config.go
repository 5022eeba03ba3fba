package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "TOKEN_ECONOMICS"

type Config struct {
	Db        DbConfig        `mapstructure:"db"`
	Server    ServerConfig    `mapstructure:"server"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Poller    PollerConfig    `mapstructure:"poller"`
	Economics EconomicsConfig `mapstructure:"economics"`
	Ledger    LedgerConfig    `mapstructure:"ledger"`
	Auth      AuthConfig      `mapstructure:"auth"`
	// Queue is optional, events are not published when it is absent
	Queue *QueueConfig `mapstructure:"queue"`
}

func (cfg *Config) Validate() error {
	if err := cfg.Db.Validate(); err != nil {
		return fmt.Errorf("invalid db config: %w", err)
	}

	if err := cfg.Server.Validate(); err != nil {
		return fmt.Errorf("invalid server config: %w", err)
	}

	if err := cfg.Metrics.Validate(); err != nil {
		return fmt.Errorf("invalid metrics config: %w", err)
	}

	if err := cfg.Poller.Validate(); err != nil {
		return fmt.Errorf("invalid poller config: %w", err)
	}

	if err := cfg.Economics.Validate(); err != nil {
		return fmt.Errorf("invalid economics config: %w", err)
	}

	if err := cfg.Ledger.Validate(); err != nil {
		return fmt.Errorf("invalid ledger config: %w", err)
	}

	if err := cfg.Auth.Validate(); err != nil {
		return fmt.Errorf("invalid auth config: %w", err)
	}

	// a caller acting as a vault could move funds the system holds
	for i, k := range cfg.Auth.Keys {
		if cfg.Economics.IsVault(k.Principal) {
			return fmt.Errorf("invalid auth config: api key #%d uses vault %q as principal", i, k.Principal)
		}
	}

	if cfg.Queue != nil {
		if err := cfg.Queue.Validate(); err != nil {
			return fmt.Errorf("invalid queue config: %w", err)
		}
	}

	return nil
}

// New returns a fully parsed Config object from a given file path.
// Every key can be overridden with an environment variable, e.g.
// db.address becomes TOKEN_ECONOMICS_DB_ADDRESS.
func New(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(cfgFile)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
