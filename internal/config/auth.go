package config

import (
	"errors"
	"fmt"
)

type APIKey struct {
	Key       string `mapstructure:"key"`
	Principal string `mapstructure:"principal"`
}

type AuthConfig struct {
	Keys []APIKey `mapstructure:"keys"`
}

func (cfg *AuthConfig) Validate() error {
	if len(cfg.Keys) == 0 {
		return errors.New("at least one api key must be configured")
	}

	seen := make(map[string]struct{}, len(cfg.Keys))
	for i, k := range cfg.Keys {
		if k.Key == "" {
			return fmt.Errorf("api key #%d is empty", i)
		}
		if k.Principal == "" {
			return fmt.Errorf("api key #%d has no principal", i)
		}
		if _, ok := seen[k.Key]; ok {
			return fmt.Errorf("api key #%d is duplicated", i)
		}
		seen[k.Key] = struct{}{}
	}

	return nil
}
