package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStatusEdits(t *testing.T) {
	db := setupTestDB(t)

	t.Run("Assert snapshot captures the status' attributes", func(t *testing.T) {
		require := require.New(t)

		status := &Status{
			ID:          1234,
			Note:        "Hello world",
			SpoilerText: "cw",
			Sensitive:   true,
		}
		snap := SnapshotOf(status)
		require.Equal(status.ID, snap.StatusID)
		require.Equal("Hello world", snap.Note)
		require.Equal("cw", snap.SpoilerText)
		require.True(snap.Sensitive)
	})

	t.Run("Assert count of history entries", func(t *testing.T) {
		require := require.New(t)
		tx := db.Begin()
		defer tx.Rollback()

		alice := MockActor(t, tx, "alice", "example.com")
		status := MockStatus(t, tx, alice, "Hello world")

		edits := NewStatusEdits(tx)
		n, err := edits.Count(status)
		require.NoError(err)
		require.Zero(n)

		snap := SnapshotOf(status)
		snap.CreatedAt = status.CreatedAt()
		require.NoError(tx.Create(&snap).Error)

		n, err = edits.Count(status)
		require.NoError(err)
		require.EqualValues(1, n)
	})

	t.Run("Assert history is returned oldest first", func(t *testing.T) {
		require := require.New(t)
		tx := db.Begin()
		defer tx.Rollback()

		alice := MockActor(t, tx, "alice", "example.com")
		status := MockStatus(t, tx, alice, "one")

		baseline := SnapshotOf(status)
		baseline.CreatedAt = status.CreatedAt()
		require.NoError(tx.Create(&baseline).Error)

		status.Note = "two"
		edit := SnapshotOf(status)
		edit.CreatedAt = time.Now()
		edit.ActorID = &alice.ID
		require.NoError(tx.Create(&edit).Error)

		history, err := NewStatuses(tx).Edits(status)
		require.NoError(err)
		require.Len(history, 2)
		require.Equal("one", history[0].Note)
		require.Nil(history[0].ActorID)
		require.Equal("two", history[1].Note)
		require.Equal(alice.ID, *history[1].ActorID)
	})
}
