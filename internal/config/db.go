package config

import (
	"errors"
	"fmt"
)

const (
	DbTypeMongo  = "mongo"
	DbTypeMemory = "memory"
)

type DbConfig struct {
	// Type selects the store backend, mongo unless set otherwise
	Type     string `mapstructure:"type"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Address  string `mapstructure:"address"`
	DbName   string `mapstructure:"db-name"`
}

func (cfg *DbConfig) Validate() error {
	switch cfg.Type {
	case "":
		cfg.Type = DbTypeMongo
	case DbTypeMongo, DbTypeMemory:
	default:
		return fmt.Errorf("unsupported db type %q", cfg.Type)
	}

	if cfg.Type == DbTypeMemory {
		return nil
	}

	if cfg.Address == "" {
		return errors.New("missing db address")
	}

	if cfg.DbName == "" {
		return errors.New("missing db name")
	}

	return nil
}
