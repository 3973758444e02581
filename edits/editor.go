package edits

import (
	"context"
	"time"

	"github.com/boxmein-forks/mastodon/internal/snowflake"
	"github.com/boxmein-forks/mastodon/internal/streaming"
	"github.com/boxmein-forks/mastodon/models"
	"github.com/redis/go-redis/v9"
	"golang.org/x/exp/slog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// An Editor applies edits to statuses. The mutation phase runs in a single
// transaction; the side effects run after commit and never affect the edit's
// outcome.
type Editor struct {
	db        *gorm.DB
	logger    *slog.Logger
	scheduler PollExpirationScheduler
	streams   *streaming.Mux
	cache     redis.UniversalClient
}

func NewEditor(db *gorm.DB, logger *slog.Logger, scheduler PollExpirationScheduler, streams *streaming.Mux, cache redis.UniversalClient) *Editor {
	return &Editor{
		db:        db,
		logger:    logger,
		scheduler: scheduler,
		streams:   streams,
		cache:     cache,
	}
}

// Update applies the requested edit to the status on behalf of the account.
// The status must have been loaded with its attachments and poll. Either
// every staged change becomes visible together, or none do. Racing edits to
// the same status are serialised by the store; the last to commit wins.
func (e *Editor) Update(ctx context.Context, status *models.Status, account *models.Account, req *UpdateRequest) (*models.Status, error) {
	var (
		mediaChanged   bool
		pollChanged    bool
		previousExpiry *time.Time
	)
	previousText := status.Note
	var previousPollID snowflake.ID
	if status.Poll != nil {
		previousPollID = status.Poll.ID
	}
	now := time.Now()

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := seedBaseline(tx, status); err != nil {
			return err
		}
		var err error
		if mediaChanged, err = reconcileMedia(tx, status, account, req); err != nil {
			return err
		}
		if pollChanged, previousExpiry, err = applyPoll(tx, status, req, now); err != nil {
			return err
		}
		applyAttributes(status, req, now)
		if err := tx.Omit(clause.Associations).Save(status).Error; err != nil {
			return err
		}
		return appendEdit(tx, status, account.ActorID, mediaChanged || pollChanged, now)
	})
	if err != nil {
		return nil, err
	}

	// side effects; failures are logged and retried by their own
	// infrastructure, never surfaced through the edit
	e.reschedulePollExpiration(ctx, status, previousPollID, previousExpiry)
	if status.Note != previousText {
		e.resetPreviewCard(ctx, status)
	}
	e.requestReprocess(ctx, status)
	e.broadcast(ctx, status)
	return status, nil
}

// reschedulePollExpiration moves the poll's expiration notification. The
// scheduled task carries the old expiry, so whenever the expiry changed the
// stale task is cancelled before the new one is scheduled. A notification is
// only worth scheduling when somebody voted; removing the poll or its expiry
// drops any pending task.
func (e *Editor) reschedulePollExpiration(ctx context.Context, status *models.Status, previousPollID snowflake.ID, previousExpiry *time.Time) {
	poll := status.Poll
	if poll == nil || poll.ExpiresAt == nil {
		if previousExpiry != nil {
			e.cancelPollExpiration(ctx, previousPollID)
		}
		return
	}
	if previousExpiry != nil && !previousExpiry.Equal(*poll.ExpiresAt) {
		e.cancelPollExpiration(ctx, poll.ID)
	}
	if poll.VotesCount == 0 {
		return
	}
	if err := e.scheduler.ScheduleAt(ctx, poll.ID, poll.ExpiresAt.Add(pollNotificationGrace)); err != nil {
		e.logger.Error("schedule poll expiration", "poll", poll.ID, "err", err)
	}
}

func (e *Editor) cancelPollExpiration(ctx context.Context, pollID snowflake.ID) {
	if err := e.scheduler.Cancel(ctx, pollID); err != nil {
		e.logger.Error("cancel poll expiration", "poll", pollID, "err", err)
	}
}

// resetPreviewCard throws away the status' link preview and requests a
// recrawl against the new text.
func (e *Editor) resetPreviewCard(ctx context.Context, status *models.Status) {
	if e.cache != nil {
		if err := e.cache.Del(ctx, PreviewCardCacheKey(status.ID)).Err(); err != nil {
			e.logger.Error("invalidate preview card cache", "status", status.ID, "err", err)
		}
	}
	db := e.db.WithContext(ctx)
	if err := db.Where("status_id = ?", status.ID).Delete(&models.PreviewCard{}).Error; err != nil {
		e.logger.Error("delete preview card", "status", status.ID, "err", err)
	}
	e.createRequest(ctx, &models.PreviewCardRequest{StatusID: status.ID})
}

// requestReprocess asks for the status' hashtags and mentions to be
// re-extracted from the updated text.
func (e *Editor) requestReprocess(ctx context.Context, status *models.Status) {
	e.createRequest(ctx, &models.StatusReprocessRequest{StatusID: status.ID})
}

// broadcast announces the update to streaming subscribers and queues
// delivery to federation peers.
func (e *Editor) broadcast(ctx context.Context, status *models.Status) {
	if e.streams != nil {
		if err := e.streams.Publish("status.update", status); err != nil {
			e.logger.Error("publish status update", "status", status.ID, "err", err)
		}
	}
	e.createRequest(ctx, &models.StatusUpdateDeliveryRequest{StatusID: status.ID})
}

// createRequest inserts a background work request, tolerating a request
// that is already pending for the same status.
func (e *Editor) createRequest(ctx context.Context, request any) {
	db := e.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true})
	if err := db.Create(request).Error; err != nil {
		e.logger.Error("create request", "type", requestType(request), "err", err)
	}
}

func requestType(request any) string {
	switch request.(type) {
	case *models.PreviewCardRequest:
		return "preview_card"
	case *models.StatusReprocessRequest:
		return "reprocess"
	case *models.StatusUpdateDeliveryRequest:
		return "delivery"
	default:
		return "unknown"
	}
}

// PreviewCardCacheKey is the redis key under which a status' serialised
// preview card is cached.
func PreviewCardCacheKey(id snowflake.ID) string {
	return "preview_card:" + id.String()
}
