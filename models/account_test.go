package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAccounts(t *testing.T) {
	db := setupTestDB(t)

	t.Run("Assert create makes an actor and an account", func(t *testing.T) {
		require := require.New(t)
		tx := db.Begin()
		defer tx.Rollback()

		account, err := NewAccounts(tx).Create("alice", "example.com", "alice@example.com", "password")
		require.NoError(err)

		var actor Actor
		require.NoError(tx.First(&actor, account.ActorID).Error)
		require.True(actor.IsLocal())
		require.Equal("alice", actor.Name)
		require.Equal("alice", actor.Acct())

		found, err := NewAccounts(tx).AccountForActor(&actor)
		require.NoError(err)
		require.Equal(account.ID, found.ID)
		require.NotNil(found.Actor)
	})
}
