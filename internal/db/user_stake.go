package db

import (
	"context"
	"errors"

	"github.com/babylonlabs-io/token-economics/internal/db/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (db *Database) GetUserStake(ctx context.Context, user string, poolID uint8) (*model.UserStake, error) {
	id := model.UserStakeID(user, poolID)
	filter := bson.M{"_id": id}
	res := db.collection(model.UserStakeCollection).FindOne(ctx, filter)

	var stake model.UserStake
	err := res.Decode(&stake)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     id,
				Message: "user stake not found",
			}
		}
		return nil, err
	}

	return &stake, nil
}

func (db *Database) ListUserStakes(ctx context.Context, user string) ([]*model.UserStake, error) {
	filter := bson.M{"user": user}
	opts := options.Find().SetSort(bson.D{{Key: "pool_id", Value: 1}})

	cursor, err := db.collection(model.UserStakeCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var stakes []*model.UserStake
	if err := cursor.All(ctx, &stakes); err != nil {
		return nil, err
	}

	return stakes, nil
}
