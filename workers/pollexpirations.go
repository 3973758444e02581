package workers

import (
	"context"
	"errors"
	"time"

	"github.com/boxmein-forks/mastodon/internal/snowflake"
	"github.com/boxmein-forks/mastodon/models"
	"github.com/go-json-experiment/json"
	"github.com/hibiken/asynq"
	"golang.org/x/exp/slog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TypePollExpiration is the asynq task type for poll expiration
// notifications.
const TypePollExpiration = "poll:expiration"

type pollExpirationPayload struct {
	PollID snowflake.ID `json:"poll_id,string"`
}

func pollExpirationTaskID(pollID snowflake.ID) string {
	return "poll:expiration:" + pollID.String()
}

// PollExpirationScheduler schedules and cancels poll expiration tasks on the
// asynq queue. The task ID is derived from the poll ID, so rescheduling the
// same poll is idempotent and a scheduled task can be cancelled by ID.
type PollExpirationScheduler struct {
	client    *asynq.Client
	inspector *asynq.Inspector
}

func NewPollExpirationScheduler(client *asynq.Client, inspector *asynq.Inspector) *PollExpirationScheduler {
	return &PollExpirationScheduler{
		client:    client,
		inspector: inspector,
	}
}

func (s *PollExpirationScheduler) ScheduleAt(ctx context.Context, pollID snowflake.ID, at time.Time) error {
	payload, err := json.Marshal(pollExpirationPayload{PollID: pollID})
	if err != nil {
		return err
	}
	task := asynq.NewTask(TypePollExpiration, payload)
	_, err = s.client.EnqueueContext(ctx, task, asynq.ProcessAt(at), asynq.TaskID(pollExpirationTaskID(pollID)))
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		// already scheduled
		return nil
	}
	return err
}

func (s *PollExpirationScheduler) Cancel(ctx context.Context, pollID snowflake.ID) error {
	err := s.inspector.DeleteTask("default", pollExpirationTaskID(pollID))
	if errors.Is(err, asynq.ErrTaskNotFound) {
		return nil
	}
	return err
}

// NewPollExpirationHandler returns the asynq handler that fires when a poll's
// expiration task comes due. It notifies the poll's owner and everyone who
// voted. The handler is idempotent: a duplicate delivery finds the
// notifications already written and writes nothing new.
func NewPollExpirationHandler(db *gorm.DB, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload pollExpirationPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return err
		}

		tx := db.WithContext(ctx)
		var polls []models.StatusPoll
		if err := tx.Preload("Votes").Find(&polls, payload.PollID).Error; err != nil {
			return err
		}
		if len(polls) == 0 {
			// the poll was removed after the task was scheduled
			return nil
		}
		poll := &polls[0]
		if !poll.Expired(time.Now()) {
			// rescheduled to a later time; that task will handle it
			logger.Info("poll not yet expired, skipping", "poll", poll.ID)
			return nil
		}

		recipients := map[snowflake.ID]bool{poll.ActorID: true}
		for _, vote := range poll.Votes {
			recipients[vote.ActorID] = true
		}
		for actorID := range recipients {
			notification := models.Notification{
				ActorID:  actorID,
				StatusID: poll.StatusID,
				Kind:     "poll",
			}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&notification).Error; err != nil {
				return err
			}
		}
		return nil
	}
}
