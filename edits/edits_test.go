package edits

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/boxmein-forks/mastodon/internal/crypto"
	"github.com/boxmein-forks/mastodon/internal/snowflake"
	"github.com/boxmein-forks/mastodon/internal/streaming"
	"github.com/boxmein-forks/mastodon/models"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakeScheduler records the poll expiration calls the editor makes.
type fakeScheduler struct {
	scheduled map[snowflake.ID]time.Time
	cancelled []snowflake.ID
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{scheduled: make(map[snowflake.ID]time.Time)}
}

func (f *fakeScheduler) ScheduleAt(ctx context.Context, pollID snowflake.ID, at time.Time) error {
	f.scheduled[pollID] = at
	return nil
}

func (f *fakeScheduler) Cancel(ctx context.Context, pollID snowflake.ID) error {
	f.cancelled = append(f.cancelled, pollID)
	return nil
}

func testEditor(tx *gorm.DB, scheduler PollExpirationScheduler) *Editor {
	log := slog.New(slog.NewTextHandler(io.Discard))
	return NewEditor(tx, log, scheduler, &streaming.Mux{}, nil)
}

func mockActor(t *testing.T, tx *gorm.DB, name, domain string) *models.Actor {
	t.Helper()
	require := require.New(t)

	kp, err := crypto.GenerateRSAKeypair()
	require.NoError(err)

	actor := &models.Actor{
		ID:          snowflake.Now(),
		URI:         fmt.Sprintf("https://%s/%s", domain, name),
		Type:        "LocalPerson",
		Name:        name,
		Domain:      domain,
		DisplayName: name,
		PublicKey:   kp.PublicKey,
	}
	require.NoError(tx.Create(actor).Error)
	return actor
}

func mockAccount(t *testing.T, tx *gorm.DB, actor *models.Actor) *models.Account {
	t.Helper()
	require := require.New(t)

	kp, err := crypto.GenerateRSAKeypair()
	require.NoError(err)

	account := &models.Account{
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

func mockStatus(t *testing.T, tx *gorm.DB, actor *models.Actor, note string) *models.Status {
	t.Helper()
	require := require.New(t)

	id := snowflake.Now()
	status := &models.Status{
		ID:         id,
		URI:        fmt.Sprintf("https://%s/status/%d", actor.Domain, id),
		ActorID:    actor.ID,
		Visibility: "public",
		Note:       note,
	}
	require.NoError(tx.Create(status).Error)
	return status
}

func mockAttachment(t *testing.T, tx *gorm.DB, account *models.Account, opts ...func(*models.MediaAttachment)) *models.MediaAttachment {
	t.Helper()
	require := require.New(t)

	id := snowflake.Now()
	att := &models.MediaAttachment{
		ID:        id,
		AccountID: account.ID,
		MediaType: "image/jpeg",
		URL:       fmt.Sprintf("https://%s/media/%d.jpg", account.Domain(), id),
		Processed: true,
	}
	for _, opt := range opts {
		opt(att)
	}
	require.NoError(tx.Create(att).Error)
	return att
}

func mockPoll(t *testing.T, tx *gorm.DB, status *models.Status, titles []string, expiresAt *time.Time) *models.StatusPoll {
	t.Helper()
	require := require.New(t)

	poll := &models.StatusPoll{
		ID:        snowflake.Now(),
		StatusID:  status.ID,
		ActorID:   status.ActorID,
		ExpiresAt: expiresAt,
	}
	for i, title := range titles {
		poll.Options = append(poll.Options, models.StatusPollOption{Idx: i, Title: title})
	}
	require.NoError(tx.Create(poll).Error)
	status.Poll = poll
	return poll
}

func mockVote(t *testing.T, tx *gorm.DB, poll *models.StatusPoll, actor *models.Actor, choice int) *models.PollVote {
	t.Helper()
	require := require.New(t)

	vote := &models.PollVote{
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

	err = db.AutoMigrate(models.AllTables()...)
	require.NoError(err)

	// enable foreign key constraints
	err = db.Exec("PRAGMA foreign_keys = ON").Error
	require.NoError(err)

	return db
}

// findStatus reloads the status with its relations.
func findStatus(t *testing.T, tx *gorm.DB, id snowflake.ID) *models.Status {
	t.Helper()
	require := require.New(t)
	status, err := models.NewStatuses(tx).FindByID(id)
	require.NoError(err)
	return status
}
