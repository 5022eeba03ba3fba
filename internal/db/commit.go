package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/babylonlabs-io/token-economics/internal/db/model"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

const (
	transientTransactionError      = "TransientTransactionError"
	unknownTransactionCommitResult = "UnknownTransactionCommitResult"
	maxCommitTransactionRetries    = 3
)

// Commit requires mongo to run as a replica set, transactions are not
// available on a standalone server. The transaction is driven by hand
// instead of session.WithTransaction because BeforeCommit must not be
// replayed on transient errors.
func (db *Database) Commit(ctx context.Context, cs *Changeset) error {
	if err := cs.Validate(); err != nil {
		return err
	}

	session, err := db.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	txnOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())
	if err := session.StartTransaction(txnOpts); err != nil {
		return err
	}
	sessCtx := mongo.NewSessionContext(ctx, session)

	if err := db.writeChangeset(sessCtx, cs); err != nil {
		abortTransaction(ctx, session)
		return asConcurrentUpdate(err)
	}

	if cs.BeforeCommit != nil {
		if err := cs.BeforeCommit(ctx); err != nil {
			abortTransaction(ctx, session)
			return err
		}
	}

	if err := commitTransaction(sessCtx, session); err != nil {
		return asConcurrentUpdate(err)
	}

	cs.BumpVersions()
	return nil
}

func commitTransaction(ctx context.Context, session mongo.Session) error {
	for i := 0; ; i++ {
		err := session.CommitTransaction(ctx)
		if err != nil && i < maxCommitTransactionRetries && hasErrorLabel(err, unknownTransactionCommitResult) {
			continue
		}
		return err
	}
}

func abortTransaction(ctx context.Context, session mongo.Session) {
	if err := session.AbortTransaction(ctx); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("failed to abort transaction")
	}
}

// asConcurrentUpdate maps write conflicts between transactions to
// ConcurrentUpdateError so that callers retry them like a stale version.
func asConcurrentUpdate(err error) error {
	if hasErrorLabel(err, transientTransactionError) {
		return &ConcurrentUpdateError{
			Message: fmt.Sprintf("transaction conflict: %v", err),
		}
	}
	return err
}

func hasErrorLabel(err error, label string) bool {
	var labeled mongo.LabeledError
	return errors.As(err, &labeled) && labeled.HasErrorLabel(label)
}

func (db *Database) writeChangeset(ctx context.Context, cs *Changeset) error {
	if cs.Economics != nil {
		doc := cs.Economics.Clone()
		doc.Version++
		err := db.replaceVersioned(ctx, model.EconomicsCollection, doc.ID, cs.Economics.Version, doc)
		if err != nil {
			return err
		}
	}

	if cs.Pool != nil {
		doc := cs.Pool.Clone()
		doc.Version++
		err := db.replaceVersioned(ctx, model.StakingPoolCollection, doc.PoolID, cs.Pool.Version, doc)
		if err != nil {
			return err
		}
	}

	if cs.Stake == nil {
		return nil
	}

	if cs.Stake.Version == 0 {
		doc := cs.Stake.Clone()
		doc.Version = 1
		_, err := db.collection(model.UserStakeCollection).InsertOne(ctx, doc)
		if mongo.IsDuplicateKeyError(err) {
			return concurrentUpdate(model.UserStakeCollection, cs.Stake.ID)
		}
		return err
	}

	doc := cs.Stake.Clone()
	doc.Version++
	return db.replaceVersioned(ctx, model.UserStakeCollection, doc.ID, cs.Stake.Version, doc)
}

func (db *Database) replaceVersioned(
	ctx context.Context, collection string, id any, version uint64, doc any,
) error {
	filter := bson.M{"_id": id, "version": version}
	res, err := db.collection(collection).ReplaceOne(ctx, filter, doc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return concurrentUpdate(collection, fmt.Sprint(id))
	}
	return nil
}

func concurrentUpdate(collection, key string) *ConcurrentUpdateError {
	return &ConcurrentUpdateError{
		Collection: collection,
		Key:        key,
		Message:    fmt.Sprintf("%s %s was modified concurrently", collection, key),
	}
}
