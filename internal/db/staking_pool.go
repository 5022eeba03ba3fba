package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/babylonlabs-io/token-economics/internal/db/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (db *Database) GetStakingPool(ctx context.Context, poolID uint8) (*model.StakingPool, error) {
	filter := bson.M{"_id": poolID}
	res := db.collection(model.StakingPoolCollection).FindOne(ctx, filter)

	var pool model.StakingPool
	err := res.Decode(&pool)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     fmt.Sprint(poolID),
				Message: "staking pool not found",
			}
		}
		return nil, err
	}

	return &pool, nil
}

func (db *Database) ListStakingPools(ctx context.Context) ([]*model.StakingPool, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := db.collection(model.StakingPoolCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var pools []*model.StakingPool
	if err := cursor.All(ctx, &pools); err != nil {
		return nil, err
	}

	return pools, nil
}

func (db *Database) SaveNewStakingPool(ctx context.Context, pool *model.StakingPool) error {
	doc := pool.Clone()
	doc.Version = 1

	_, err := db.collection(model.StakingPoolCollection).InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return &DuplicateKeyError{
				Key:     fmt.Sprint(pool.PoolID),
				Message: "staking pool already exists",
			}
		}
		return err
	}

	pool.Version = doc.Version
	return nil
}
