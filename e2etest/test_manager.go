//go:build e2e

package e2etest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/babylonlabs-io/token-economics/e2etest/container"
	"github.com/babylonlabs-io/token-economics/internal/api"
	"github.com/babylonlabs-io/token-economics/internal/auth"
	"github.com/babylonlabs-io/token-economics/internal/clock"
	"github.com/babylonlabs-io/token-economics/internal/config"
	"github.com/babylonlabs-io/token-economics/internal/db"
	"github.com/babylonlabs-io/token-economics/internal/db/model"
	"github.com/babylonlabs-io/token-economics/internal/ledger"
	"github.com/babylonlabs-io/token-economics/internal/queue"
	"github.com/babylonlabs-io/token-economics/internal/services"
	"github.com/babylonlabs-io/token-economics/internal/types"
)

const (
	stakeAsset    = "STAKE"
	rewardAsset   = "REWARD"
	stakeVault    = "stake-vault"
	rewardVault   = "reward-vault"
	treasuryVault = "treasury-vault"

	adminKey = "admin-key"

	genesisTime int64 = 1_700_000_000
)

var (
	eventuallyWaitTimeOut = 10 * time.Second
	eventuallyPollTime    = 100 * time.Millisecond

	stakers = map[string]string{
		"alice": "alice-key",
		"bob":   "bob-key",
	}
)

type TestManager struct {
	Config     *config.Config
	manager    *container.Manager
	DbClient   *db.Database
	Book       *ledger.Book
	Clock      *clock.Manual
	Server     *httptest.Server
	Service    *services.Service
	queue      *queue.QueueManager
	Deliveries <-chan amqp.Delivery
}

// StartManager runs mongo and rabbitmq in docker and serves the api over
// them with an in-memory ledger and a manual clock.
func StartManager(t *testing.T) *TestManager {
	manager, err := container.NewManager(t)
	require.NoError(t, err)

	mongoAddr, err := manager.RunMongoResource()
	require.NoError(t, err)
	rabbitAddr, err := manager.RunRabbitMQResource()
	require.NoError(t, err)

	cfg := DefaultTokenEconomicsConfig()
	cfg.Db.Address = mongoAddr
	cfg.Queue.URL = rabbitAddr
	require.NoError(t, cfg.Validate())

	ctx := context.Background()
	require.NoError(t, model.Setup(ctx, &cfg.Db))
	dbClient, err := db.New(ctx, cfg.Db)
	require.NoError(t, err)

	qm, err := queue.NewQueueManager(cfg.Queue, zap.NewNop())
	require.NoError(t, err)

	book := ledger.NewBook(stakeVault, rewardVault, treasuryVault)
	for user := range stakers {
		require.NoError(t, book.Mint(stakeAsset, user, 1_000_000))
	}
	require.NoError(t, book.Mint(rewardAsset, "admin", 10_000_000))

	clk := clock.NewManual(genesisTime)
	svc := services.NewService(cfg, db.NewDbWithMetrics(dbClient), ledger.NewLedgerWithMetrics(book), auth.Identity{}, clk, qm)
	server := httptest.NewServer(api.NewRouter(svc, auth.NewKeyring(&cfg.Auth)))

	return &TestManager{
		Config:     cfg,
		manager:    manager,
		DbClient:   dbClient,
		Book:       book,
		Clock:      clk,
		Server:     server,
		Service:    svc,
		queue:      qm,
		Deliveries: bindEventQueue(t, cfg.Queue),
	}
}

func (tm *TestManager) Stop(t *testing.T) {
	tm.Server.Close()
	tm.queue.Shutdown()
	require.NoError(t, tm.DbClient.Close(context.Background()))
}

func DefaultTokenEconomicsConfig() *config.Config {
	keys := []config.APIKey{{Key: adminKey, Principal: "admin"}}
	for principal, key := range stakers {
		keys = append(keys, config.APIKey{Key: key, Principal: principal})
	}

	return &config.Config{
		Db: config.DbConfig{
			Type:   config.DbTypeMongo,
			DbName: "token-economics-e2e",
		},
		Server: config.ServerConfig{Host: "127.0.0.1"},
		Economics: config.EconomicsConfig{
			StakeAssetID:  stakeAsset,
			RewardAssetID: rewardAsset,
			StakeVault:    stakeVault,
			RewardVault:   rewardVault,
			TreasuryVault: treasuryVault,
		},
		Ledger: config.LedgerConfig{Type: config.LedgerTypeMemory},
		Auth:   config.AuthConfig{Keys: keys},
		Queue: &config.QueueConfig{
			User:     container.RabbitUser,
			Password: container.RabbitPassword,
			Exchange: "token-economics-e2e",
		},
	}
}

// bindEventQueue binds an exclusive queue to every event type.
func bindEventQueue(t *testing.T, cfg *config.QueueConfig) <-chan amqp.Delivery {
	conn, err := amqp.Dial(cfg.ConnectionURL())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	ch, err := conn.Channel()
	require.NoError(t, err)

	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	require.NoError(t, err)
	require.NoError(t, ch.QueueBind(q.Name, "token_economics.#", cfg.Exchange, false, nil))
	deliveries, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	require.NoError(t, err)

	return deliveries
}

// Call sends a request with the api key of principal and decodes a
// successful response into out when out is not nil.
func (tm *TestManager) Call(t *testing.T, principal, method, path string, body, out any) int {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, tm.Server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if key := apiKey(principal); key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}

	resp, err := tm.Server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func apiKey(principal string) string {
	if principal == "admin" {
		return adminKey
	}
	return stakers[principal]
}

// Bootstrap initializes the economics record, funds the reward vault and
// creates pool 1 with the given multiplier.
func (tm *TestManager) Bootstrap(t *testing.T, multiplier uint16, minStakePeriod int64) {
	status := tm.Call(t, "admin", http.MethodPost, "/v1/economics", api.InitializeEconomicsRequest{
		RewardRatePerSecond: 100,
		GovernanceFeeBps:    500,
		MinStakeAmount:      10,
		MaxStakeAmount:      1_000_000,
	}, nil)
	require.Equal(t, http.StatusCreated, status)

	status = tm.Call(t, "admin", http.MethodPost, "/v1/admin/fund", api.AmountRequest{Amount: 10_000_000}, nil)
	require.Equal(t, http.StatusNoContent, status)

	status = tm.Call(t, "admin", http.MethodPost, "/v1/pools", api.CreatePoolRequest{
		PoolID:           1,
		RewardMultiplier: multiplier,
		MinStakePeriod:   minStakePeriod,
		MaxCapacity:      10_000_000,
	}, nil)
	require.Equal(t, http.StatusCreated, status)

	tm.CheckNextEvent(t, types.EventRewardsFunded)
	tm.CheckNextEvent(t, types.EventPoolCreated)
}

// CheckNextEvent waits for the next published event and checks its type.
func (tm *TestManager) CheckNextEvent(t *testing.T, typ types.EventType) *types.Event {
	select {
	case d := <-tm.Deliveries:
		require.Equal(t, typ.String(), d.RoutingKey)
		var ev types.Event
		require.NoError(t, json.Unmarshal(d.Body, &ev))
		require.Equal(t, typ, ev.Type)
		return &ev
	case <-time.After(eventuallyWaitTimeOut):
		t.Fatalf("no %s event delivered", typ)
		return nil
	}
}

func poolPath(poolID uint8, suffix string) string {
	return fmt.Sprintf("/v1/pools/%d%s", poolID, suffix)
}
