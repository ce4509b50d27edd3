package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/kalah-client/internal/entity"
	"github.com/rocketscienceinc/kalah-client/testing/suite"
)

func newRecord() *entity.SessionRecord {
	started := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

	return &entity.SessionRecord{
		ID:           "7d3f0c1e",
		PlayerID:     "A",
		OpponentID:   "B",
		Phase:        entity.PhaseActive,
		NextPlayerID: "B",
		Board: entity.Board{
			"A": {0, 7, 7, 7, 7, 7, 1},
			"B": {6, 6, 6, 6, 6, 6, 0},
		},
		Moves:     1,
		StartedAt: started,
		UpdatedAt: started.Add(time.Minute),
	}
}

func TestSessionRepository_CreateOrUpdate(t *testing.T) {
	ctx, st := suite.New(t)

	repo := NewSessionRepository(st.Storage, 0)

	// Given: a session record
	record := newRecord()

	// When: CreateOrUpdate is called
	err := repo.CreateOrUpdate(ctx, record)

	// Then: no error should be returned, and the record is stored
	require.NoError(t, err)
}

func TestSessionRepository_GetByID(t *testing.T) {
	t.Run("GetByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		repo := NewSessionRepository(st.Storage, 0)

		// Given: a stored record that later finishes
		record := newRecord()
		require.NoError(t, repo.CreateOrUpdate(ctx, record))

		record.Phase = entity.PhaseFinished
		record.Outcome = entity.OutcomeWin
		record.WinnerID = "A"
		require.NoError(t, repo.CreateOrUpdate(ctx, record))

		// When: GetByID is called with the record id
		stored, err := repo.GetByID(ctx, record.ID)

		// Then: the latest version comes back intact
		require.NoError(t, err)
		assert.Equal(t, record, stored)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		repo := NewSessionRepository(st.Storage, 0)

		// When: GetByID is called with an unknown id
		stored, err := repo.GetByID(ctx, "missing")

		// Then: ErrSessionNotFound is returned with an empty record
		require.Error(t, err)
		assert.Equal(t, ErrSessionNotFound, err)
		assert.Empty(t, stored.ID)
	})
}

func TestSessionRepository_TTL(t *testing.T) {
	ctx, st := suite.New(t)

	repo := NewSessionRepository(st.Storage, time.Hour)
	record := newRecord()

	require.NoError(t, repo.CreateOrUpdate(ctx, record))

	ttl, err := st.Storage.TTL(ctx, sessionKeyPrefix+record.ID).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 59*time.Minute)
}

func TestSessionRepository_DeleteByID(t *testing.T) {
	ctx, st := suite.New(t)

	repo := NewSessionRepository(st.Storage, 0)
	record := newRecord()
	require.NoError(t, repo.CreateOrUpdate(ctx, record))

	// When: DeleteByID is called
	err := repo.DeleteByID(ctx, record.ID)

	// Then: the record is gone
	require.NoError(t, err)

	_, err = repo.GetByID(ctx, record.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
