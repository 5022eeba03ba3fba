package db

import (
	"context"

	"github.com/babylonlabs-io/token-economics/internal/db/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LedgerSnapshot runs its reads in a snapshot session so that a commit
// landing between them cannot show up as a mismatch.
func (db *Database) LedgerSnapshot(ctx context.Context) (*model.LedgerSnapshot, error) {
	session, err := db.client.StartSession(options.Session().SetSnapshot(true))
	if err != nil {
		return nil, err
	}
	defer session.EndSession(ctx)

	snapshot := &model.LedgerSnapshot{}
	err = mongo.WithSession(ctx, session, func(sessCtx mongo.SessionContext) error {
		var err error
		if snapshot.Economics, err = db.GetEconomics(sessCtx); err != nil {
			return err
		}
		if snapshot.Pools, err = db.ListStakingPools(sessCtx); err != nil {
			return err
		}
		snapshot.Totals, err = db.CalculateLedgerTotals(sessCtx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// CalculateLedgerTotals calculates principal totals using MongoDB aggregation pipeline
// This is much more efficient than loading all user stakes into memory
func (db *Database) CalculateLedgerTotals(ctx context.Context) (*model.LedgerTotals, error) {
	collection := db.collection(model.UserStakeCollection)

	pipeline := bson.A{
		// Group by pool to calculate principal and the number of stakers with principal
		bson.M{
			"$group": bson.M{
				"_id":                 "$pool_id",
				"stakes_total_staked": bson.M{"$sum": "$total_staked"},
				"active_stakers": bson.M{"$sum": bson.M{
					"$cond": bson.A{bson.M{"$gt": bson.A{"$total_staked", 0}}, 1, 0},
				}},
			},
		},
	}

	cursor, err := collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var perPool []struct {
		PoolID           uint8 `bson:"_id"`
		model.PoolTotals `bson:",inline"`
	}
	if err := cursor.All(ctx, &perPool); err != nil {
		return nil, err
	}

	totals := &model.LedgerTotals{
		PerPool: make(map[uint8]model.PoolTotals, len(perPool)),
	}
	for _, p := range perPool {
		totals.StakesTotalStaked += p.StakesTotalStaked
		totals.ActiveStakers += p.ActiveStakers
		totals.PerPool[p.PoolID] = p.PoolTotals
	}

	return totals, nil
}
