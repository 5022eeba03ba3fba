//go:build integration

package db_test

import (
	"testing"

	"github.com/babylonlabs-io/token-economics/internal/db"
	"github.com/babylonlabs-io/token-economics/internal/db/model"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEconomics(t *testing.T) {
	ctx := t.Context()
	t.Cleanup(func() {
		resetDatabase(t)
	})

	t.Run("not found", func(t *testing.T) {
		doc, err := testDB.GetEconomics(ctx)
		assert.True(t, db.IsNotFoundError(err))
		assert.Nil(t, doc)
	})
	t.Run("ok", func(t *testing.T) {
		econ := createEconomics(t)

		err := testDB.SaveEconomics(ctx, econ)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), econ.Version)

		foundDoc, err := testDB.GetEconomics(ctx)
		require.NoError(t, err)
		assert.Equal(t, econ, foundDoc)
	})
	t.Run("already initialized", func(t *testing.T) {
		err := testDB.SaveEconomics(ctx, createEconomics(t))
		require.Error(t, err)
		assert.True(t, db.IsDuplicateKeyError(err))
	})
}

func createEconomics(t *testing.T) *model.Economics {
	var econ model.Economics
	err := gofakeit.Struct(&econ)
	require.NoError(t, err)

	// mongo stores integers as int64, keep generated values in range
	econ.RewardRatePerSecond = uint64(gofakeit.Uint32())
	econ.MinStakeAmount = uint64(gofakeit.Uint32())
	econ.MaxStakeAmount = econ.MinStakeAmount + uint64(gofakeit.Uint32())
	econ.TotalStaked = uint64(gofakeit.Uint32())
	econ.TotalRewardsDistributed = uint64(gofakeit.Uint32())
	econ.ActiveStakers = uint64(gofakeit.Uint16())
	econ.Version = 0

	return &econ
}
