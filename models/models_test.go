package models

import (
	"fmt"
	"testing"
	"time"

	"github.com/boxmein-forks/mastodon/internal/crypto"
	"github.com/boxmein-forks/mastodon/internal/snowflake"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// WithType sets the type of an actor.
func WithType(t ActorType) func(*Actor) {
	return func(a *Actor) {
		a.Type = t
	}
}

// MockActor creates a new actor in the database.
func MockActor(t *testing.T, tx *gorm.DB, name, domain string, opts ...func(*Actor)) *Actor {
	t.Helper()
	require := require.New(t)

	kp, err := crypto.GenerateRSAKeypair()
	require.NoError(err)

	actor := &Actor{
		ID:          snowflake.Now(),
		URI:         fmt.Sprintf("https://%s/%s", domain, name),
		Type:        "LocalPerson",
		Name:        name,
		Domain:      domain,
		DisplayName: name,
		Avatar:      "https://avatars.githubusercontent.com/u/1024?v=4",
		Header:      "https://avatars.githubusercontent.com/u/1024?v=4",
		PublicKey:   kp.PublicKey,
	}
	for _, opt := range opts {
		opt(actor)
	}
	require.NoError(tx.Create(actor).Error)
	return actor
}

// MockAccount creates an account backed by the given actor.
func MockAccount(t *testing.T, tx *gorm.DB, actor *Actor) *Account {
	t.Helper()
	require := require.New(t)

	kp, err := crypto.GenerateRSAKeypair()
	require.NoError(err)

	account := &Account{
		ID:                actor.ID,
		ActorID:           actor.ID,
		Actor:             actor,
		Email:             fmt.Sprintf("%s@%s", actor.Name, actor.Domain),
		EncryptedPassword: []byte("x"),
		PrivateKey:        kp.PrivateKey,
	}
	require.NoError(tx.Create(account).Error)
	return account
}

func MockStatus(t *testing.T, tx *gorm.DB, actor *Actor, note string) *Status {
	t.Helper()
	require := require.New(t)

	id := snowflake.Now()
	status := &Status{
		ID:         id,
		URI:        fmt.Sprintf("https://%s/status/%d", actor.Domain, id),
		ActorID:    actor.ID,
		Visibility: "public",
		Note:       note,
	}
	require.NoError(tx.Create(status).Error)
	return status
}

// WithUnprocessed marks the attachment as still waiting for processing.
func WithUnprocessed() func(*MediaAttachment) {
	return func(ma *MediaAttachment) {
		ma.Processed = false
	}
}

// WithMediaType sets the media type of an attachment.
func WithMediaType(mt string) func(*MediaAttachment) {
	return func(ma *MediaAttachment) {
		ma.MediaType = mt
	}
}

// MockAttachment creates a processed, unattached image attachment owned by
// the given account.
func MockAttachment(t *testing.T, tx *gorm.DB, account *Account, opts ...func(*MediaAttachment)) *MediaAttachment {
	t.Helper()
	require := require.New(t)

	id := snowflake.Now()
	att := &MediaAttachment{
		ID:        id,
		AccountID: account.ID,
		MediaType: "image/jpeg",
		URL:       fmt.Sprintf("https://%s/media/%d.jpg", account.Domain(), id),
		Name:      "",
		Processed: true,
	}
	for _, opt := range opts {
		opt(att)
	}
	require.NoError(tx.Create(att).Error)
	return att
}

// MockPoll creates a poll attached to the given status.
func MockPoll(t *testing.T, tx *gorm.DB, status *Status, titles []string, expiresAt *time.Time) *StatusPoll {
	t.Helper()
	require := require.New(t)

	poll := &StatusPoll{
		ID:        snowflake.Now(),
		StatusID:  status.ID,
		ActorID:   status.ActorID,
		ExpiresAt: expiresAt,
	}
	for i, title := range titles {
		poll.Options = append(poll.Options, StatusPollOption{Idx: i, Title: title})
	}
	require.NoError(tx.Create(poll).Error)
	status.Poll = poll
	return poll
}

// MockVote casts a vote by the given actor for the given option index.
func MockVote(t *testing.T, tx *gorm.DB, poll *StatusPoll, actor *Actor, choice int) *PollVote {
	t.Helper()
	require := require.New(t)

	vote := &PollVote{
		StatusPollID: poll.ID,
		ActorID:      actor.ID,
		Choice:       choice,
	}
	require.NoError(tx.Create(vote).Error)
	return vote
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	require := require.New(t)
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		TranslateError: true,
		Logger: logger.Default.LogMode(func() logger.LogLevel {
			return logger.Warn
		}()),
	})
	require.NoError(err)

	err = db.AutoMigrate(AllTables()...)
	require.NoError(err)

	// enable foreign key constraints
	err = db.Exec("PRAGMA foreign_keys = ON").Error
	require.NoError(err)

	return db
}
