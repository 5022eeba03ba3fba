package config

import (
	"errors"
	"net/url"
	"time"
)

const defaultPublishTimeout = 5 * time.Second

type QueueConfig struct {
	User           string        `mapstructure:"user"`
	Password       string        `mapstructure:"password"`
	URL            string        `mapstructure:"url"`
	Exchange       string        `mapstructure:"exchange"`
	PublishTimeout time.Duration `mapstructure:"publish-timeout"`
}

func (cfg *QueueConfig) Validate() error {
	if cfg.URL == "" {
		return errors.New("missing queue url")
	}

	if cfg.Exchange == "" {
		return errors.New("missing queue exchange")
	}

	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = defaultPublishTimeout
	}

	return nil
}

// ConnectionURL returns the amqp url with credentials applied.
func (cfg *QueueConfig) ConnectionURL() string {
	u := url.URL{Scheme: "amqp", Host: cfg.URL}
	if cfg.User != "" {
		u.User = url.UserPassword(cfg.User, cfg.Password)
	}
	return u.String()
}
