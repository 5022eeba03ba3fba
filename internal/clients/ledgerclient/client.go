// Package ledgerclient is a Ledger backed by a remote ledger service.
package ledgerclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/babylonlabs-io/token-economics/internal/clients/client"
	"github.com/babylonlabs-io/token-economics/internal/config"
	"github.com/babylonlabs-io/token-economics/internal/ledger"
	"github.com/babylonlabs-io/token-economics/internal/types"
)

const endpoint = "/v1/transfers"

const (
	authorityUser   = "user"
	authoritySystem = "system"
)

type Client struct {
	httpClient *http.Client
	cfg        *config.LedgerConfig
	baseURL    string
}

var _ ledger.Ledger = (*Client)(nil)

func NewClient(cfg *config.LedgerConfig) *Client {
	return &Client{
		httpClient: &http.Client{},
		cfg:        cfg,
		baseURL:    strings.TrimRight(cfg.URL, "/"),
	}
}

func (c *Client) GetBaseURL() string {
	return c.baseURL
}

func (c *Client) GetDefaultRequestTimeout() time.Duration {
	return c.cfg.Timeout
}

func (c *Client) GetHttpClient() *http.Client {
	return c.httpClient
}

type transferRequest struct {
	Signer    string          `json:"signer,omitempty"`
	Authority string          `json:"authority"`
	Transfer  ledger.Transfer `json:"transfer"`
}

type transferResponse struct {
	TransferID string `json:"transfer_id"`
}

func (c *Client) TransferAsUser(ctx context.Context, owner string, t ledger.Transfer) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if t.From != owner {
		return fmt.Errorf("%w: %s cannot move funds of %s", ledger.ErrNotOwner, owner, t.From)
	}

	return c.transfer(ctx, &transferRequest{
		Signer:    owner,
		Authority: authorityUser,
		Transfer:  t,
	})
}

func (c *Client) TransferAsSystem(ctx context.Context, t ledger.Transfer) error {
	if err := t.Validate(); err != nil {
		return err
	}

	return c.transfer(ctx, &transferRequest{
		Authority: authoritySystem,
		Transfer:  t,
	})
}

func (c *Client) transfer(ctx context.Context, req *transferRequest) error {
	// the same key is sent on every attempt so the ledger applies the transfer once
	opts := &client.HttpClientOptions{
		Path:         endpoint,
		TemplatePath: endpoint,
		Headers: map[string]string{
			"Idempotency-Key": uuid.New().String(),
		},
	}

	call := func() (*transferResponse, error) {
		return client.SendRequest[transferRequest, transferResponse](ctx, c, http.MethodPost, opts, req)
	}

	resp, err := clientCallWithRetry(ctx, call, c.cfg)
	if err != nil {
		return fmt.Errorf("failed to transfer %d %s from %s to %s: %w",
			req.Transfer.Amount, req.Transfer.Asset, req.Transfer.From, req.Transfer.To, err)
	}

	log.Ctx(ctx).Debug().
		Str("transfer_id", resp.TransferID).
		Str("asset", req.Transfer.Asset).
		Uint64("amount", req.Transfer.Amount).
		Msg("ledger transfer accepted")
	return nil
}

// isRetryable reports whether the request may succeed if repeated: server
// errors, rate limiting and requests that got no response at all.
func isRetryable(err error) bool {
	var e *types.Error
	if !errors.As(err, &e) {
		return false
	}
	return e.StatusCode >= http.StatusInternalServerError || e.StatusCode == http.StatusTooManyRequests
}

func clientCallWithRetry[T any](
	ctx context.Context,
	call retry.RetryableFuncWithData[T],
	cfg *config.LedgerConfig,
) (T, error) {
	result, err := retry.DoWithData(call,
		retry.Context(ctx),
		retry.Attempts(cfg.MaxRetryTimes),
		retry.Delay(cfg.RetryInterval),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isRetryable),
		retry.OnRetry(func(n uint, err error) {
			log.Ctx(ctx).Debug().
				Uint("attempt", n+1).
				Uint("max_attempts", cfg.MaxRetryTimes).
				Err(err).
				Msg("ledger request failed, retrying with exponential backoff")
		}))
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
