package model

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/babylonlabs-io/token-economics/internal/config"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	setupTimeout = 30 * time.Second
	// mongo error code for "NamespaceExists"
	namespaceExistsCode = 48
)

type index struct {
	Keys   bson.D
	Unique bool
}

var collections = map[string][]index{
	EconomicsCollection:   nil,
	StakingPoolCollection: nil,
	UserStakeCollection: {
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "pool_id", Value: 1}}, Unique: true},
		{Keys: bson.D{{Key: "pool_id", Value: 1}}},
	},
	OverallStatsCollection: nil,
	PoolStatsCollection:    nil,
}

// Setup creates the collections and indexes used by the service. It is
// idempotent and safe to run on every start.
func Setup(ctx context.Context, cfg *config.DbConfig) error {
	ctx, cancel := context.WithTimeout(ctx, setupTimeout)
	defer cancel()

	clientOps := options.Client().ApplyURI(cfg.Address)
	if cfg.Username != "" {
		clientOps.SetAuth(options.Credential{
			Username: cfg.Username,
			Password: cfg.Password,
		})
	}
	client, err := mongo.Connect(ctx, clientOps)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(ctx); err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("failed to disconnect from mongo after setup")
		}
	}()

	database := client.Database(cfg.DbName)
	for name, idxs := range collections {
		if err := createCollection(ctx, database, name); err != nil {
			return fmt.Errorf("failed to create collection %s: %w", name, err)
		}
		for _, idx := range idxs {
			if err := createIndex(ctx, database, name, idx); err != nil {
				return fmt.Errorf("failed to create index on %s: %w", name, err)
			}
		}
	}

	log.Ctx(ctx).Info().Msg("collections and indexes created")
	return nil
}

func createCollection(ctx context.Context, database *mongo.Database, name string) error {
	err := database.CreateCollection(ctx, name)
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.HasErrorCode(namespaceExistsCode) {
		return nil
	}
	return err
}

func createIndex(ctx context.Context, database *mongo.Database, collection string, idx index) error {
	model := mongo.IndexModel{
		Keys:    idx.Keys,
		Options: options.Index().SetUnique(idx.Unique),
	}
	_, err := database.Collection(collection).Indexes().CreateOne(ctx, model)
	return err
}
