package db

import (
	"context"
	"errors"

	"github.com/babylonlabs-io/token-economics/internal/db/model"
)

// Changeset is the set of records written by one operation. A stake with
// version 0 is inserted, every other record replaces the stored one.
type Changeset struct {
	Economics *model.Economics
	Pool      *model.StakingPool
	Stake     *model.UserStake

	// BeforeCommit runs once every record passed the version check and
	// before any change becomes visible. An error aborts the commit and is
	// returned unchanged. It is called at most once per Commit.
	BeforeCommit func(ctx context.Context) error
}

func (cs *Changeset) Validate() error {
	if cs.Economics == nil && cs.Pool == nil && cs.Stake == nil {
		return errors.New("empty changeset")
	}
	if cs.Economics != nil && cs.Economics.Version == 0 {
		return errors.New("economics must be saved before it is committed")
	}
	if cs.Pool != nil && cs.Pool.Version == 0 {
		return errors.New("pool must be saved before it is committed")
	}
	return nil
}

// BumpVersions advances the version of every record written by the commit.
func (cs *Changeset) BumpVersions() {
	if cs.Economics != nil {
		cs.Economics.Version++
	}
	if cs.Pool != nil {
		cs.Pool.Version++
	}
	if cs.Stake != nil {
		cs.Stake.Version++
	}
}
