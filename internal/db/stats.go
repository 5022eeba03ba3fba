package db

import (
	"context"

	"github.com/babylonlabs-io/token-economics/internal/db/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UpsertOverallStats updates or inserts overall stats
func (db *Database) UpsertOverallStats(ctx context.Context, stats *model.OverallStatsDocument) error {
	doc := *stats
	doc.ID = model.OverallStatsID

	filter := bson.M{"_id": model.OverallStatsID}
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)

	_, err := db.collection(model.OverallStatsCollection).UpdateOne(ctx, filter, update, opts)
	return err
}

// UpsertPoolStats updates or inserts pool stats in separate collection
func (db *Database) UpsertPoolStats(ctx context.Context, stats *model.PoolStatsDocument) error {
	filter := bson.M{"_id": stats.PoolID}
	update := bson.M{"$set": stats}
	opts := options.Update().SetUpsert(true)

	_, err := db.collection(model.PoolStatsCollection).UpdateOne(ctx, filter, update, opts)
	return err
}
