package db

import (
	"context"
	"errors"

	"github.com/babylonlabs-io/token-economics/internal/db/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func (db *Database) GetEconomics(ctx context.Context) (*model.Economics, error) {
	filter := bson.M{"_id": model.EconomicsID}
	res := db.collection(model.EconomicsCollection).FindOne(ctx, filter)

	var econ model.Economics
	err := res.Decode(&econ)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     model.EconomicsID,
				Message: "economics not initialized",
			}
		}
		return nil, err
	}

	return &econ, nil
}

func (db *Database) SaveEconomics(ctx context.Context, econ *model.Economics) error {
	doc := econ.Clone()
	doc.ID = model.EconomicsID
	doc.Version = 1

	_, err := db.collection(model.EconomicsCollection).InsertOne(ctx, doc)
	if err != nil {
		// nil check is inside IsDuplicateKeyError
		if mongo.IsDuplicateKeyError(err) {
			return &DuplicateKeyError{
				Key:     model.EconomicsID,
				Message: "economics already initialized",
			}
		}
		return err
	}

	econ.ID = doc.ID
	econ.Version = doc.Version
	return nil
}
