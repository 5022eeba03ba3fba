package cli

import (
	"context"
	"fmt"

	"github.com/babylonlabs-io/token-economics/internal/clients/ledgerclient"
	"github.com/babylonlabs-io/token-economics/internal/config"
	"github.com/babylonlabs-io/token-economics/internal/db"
	"github.com/babylonlabs-io/token-economics/internal/db/memory"
	dbmodel "github.com/babylonlabs-io/token-economics/internal/db/model"
	"github.com/babylonlabs-io/token-economics/internal/ledger"
)

func newDbClient(ctx context.Context, cfg *config.DbConfig) (db.DbInterface, error) {
	if cfg.Type == config.DbTypeMemory {
		return db.NewDbWithMetrics(memory.New()), nil
	}

	if err := dbmodel.Setup(ctx, cfg); err != nil {
		return nil, fmt.Errorf("error while setting up db model: %w", err)
	}

	dbClient, err := db.New(ctx, *cfg)
	if err != nil {
		return nil, fmt.Errorf("error while creating db client: %w", err)
	}
	return db.NewDbWithMetrics(dbClient), nil
}

func newLedger(cfg *config.Config) (ledger.Ledger, error) {
	if cfg.Ledger.Type == config.LedgerTypeHTTP {
		return ledger.NewLedgerWithMetrics(ledgerclient.NewClient(&cfg.Ledger)), nil
	}

	book := ledger.NewBook(
		cfg.Economics.StakeVault,
		cfg.Economics.RewardVault,
		cfg.Economics.TreasuryVault,
	)
	for _, b := range cfg.Ledger.Balances {
		if err := book.Mint(b.Asset, b.Holder, b.Amount); err != nil {
			return nil, fmt.Errorf("failed to seed balance of %s: %w", b.Holder, err)
		}
	}
	return ledger.NewLedgerWithMetrics(book), nil
}
