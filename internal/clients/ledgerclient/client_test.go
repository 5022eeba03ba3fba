package ledgerclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/babylonlabs-io/token-economics/internal/config"
	"github.com/babylonlabs-io/token-economics/internal/ledger"
	"github.com/babylonlabs-io/token-economics/internal/types"
)

func testConfig(url string) *config.LedgerConfig {
	return &config.LedgerConfig{
		Type:          config.LedgerTypeHTTP,
		URL:           url,
		Timeout:       time.Second,
		MaxRetryTimes: 3,
		RetryInterval: time.Millisecond,
	}
}

func TestClient(t *testing.T) {
	transfer := ledger.Transfer{Asset: "STAKE", From: "alice", To: "stake-vault", Amount: 100}

	t.Run("user transfer", func(t *testing.T) {
		var got transferRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, endpoint, r.URL.Path)
			assert.NotEmpty(t, r.Header.Get("Idempotency-Key"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			_, _ = w.Write([]byte(`{"transfer_id":"tx-1"}`))
		}))
		defer srv.Close()

		c := NewClient(testConfig(srv.URL + "/"))
		require.NoError(t, c.TransferAsUser(context.Background(), "alice", transfer))
		assert.Equal(t, authorityUser, got.Authority)
		assert.Equal(t, "alice", got.Signer)
		assert.Equal(t, transfer, got.Transfer)
	})
	t.Run("system transfer", func(t *testing.T) {
		var got transferRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		c := NewClient(testConfig(srv.URL))
		require.NoError(t, c.TransferAsSystem(context.Background(), transfer.Reverse()))
		assert.Equal(t, authoritySystem, got.Authority)
		assert.Empty(t, got.Signer)
		assert.Equal(t, transfer.Reverse(), got.Transfer)
	})
	t.Run("owner mismatch is rejected locally", func(t *testing.T) {
		c := NewClient(testConfig("http://127.0.0.1:1"))
		err := c.TransferAsUser(context.Background(), "bob", transfer)
		require.ErrorIs(t, err, ledger.ErrNotOwner)
	})
	t.Run("invalid transfer is rejected locally", func(t *testing.T) {
		c := NewClient(testConfig("http://127.0.0.1:1"))
		err := c.TransferAsSystem(context.Background(), ledger.Transfer{Asset: "STAKE", From: "a", To: "a", Amount: 1})
		require.ErrorIs(t, err, ledger.ErrInvalidTransfer)
	})
	t.Run("retries on too many requests with the same idempotency key", func(t *testing.T) {
		var calls atomic.Int32
		keys := make(chan string, 2)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			keys <- r.Header.Get("Idempotency-Key")
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			_, _ = w.Write([]byte(`{"transfer_id":"tx-2"}`))
		}))
		defer srv.Close()

		c := NewClient(testConfig(srv.URL))
		require.NoError(t, c.TransferAsUser(context.Background(), "alice", transfer))
		assert.EqualValues(t, 2, calls.Load())
		assert.Equal(t, <-keys, <-keys)
	})
	t.Run("gives up after max attempts on server errors", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		c := NewClient(testConfig(srv.URL))
		err := c.TransferAsSystem(context.Background(), transfer.Reverse())
		require.Error(t, err)
		assert.EqualValues(t, 3, calls.Load())

		var apiErr *types.Error
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	})
	t.Run("does not retry client errors", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte("insufficient balance"))
		}))
		defer srv.Close()

		c := NewClient(testConfig(srv.URL))
		err := c.TransferAsUser(context.Background(), "alice", transfer)
		require.Error(t, err)
		assert.EqualValues(t, 1, calls.Load())
		assert.Contains(t, err.Error(), "insufficient balance")
	})
}
