package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/boxmein-forks/mastodon/activitypub"
	"github.com/boxmein-forks/mastodon/models"
	"golang.org/x/exp/slog"
	"gorm.io/gorm"
)

// NewStatusUpdateDeliveryProcessor returns a worker loop that delivers
// Update activities for edited statuses to the shared inboxes of known
// remote peers. Delivery is at-least-once; peers are expected to treat a
// repeated Update as idempotent.
func NewStatusUpdateDeliveryProcessor(db *gorm.DB, logger *slog.Logger) func(context.Context) error {
	return func(ctx context.Context) error {
		logger.Info("StatusUpdateDeliveryProcessor started")
		defer logger.Info("StatusUpdateDeliveryProcessor stopped")

		db := db.WithContext(ctx)
		for {
			if err := process(db, statusUpdateDeliveryRequestScope, processStatusUpdateDeliveryRequest); err != nil {
				return err
			}
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(30 * time.Second):
				// continue
			}
		}
	}
}

func statusUpdateDeliveryRequestScope(db *gorm.DB) *gorm.DB {
	return db.Preload("Status").Preload("Status.Actor").Where("attempts < 3")
}

func processStatusUpdateDeliveryRequest(tx *gorm.DB, request *models.StatusUpdateDeliveryRequest) error {
	status := request.Status
	if !status.Actor.IsLocal() {
		// not ours to deliver
		return nil
	}

	account, err := models.NewAccounts(tx).AccountForActor(status.Actor)
	if err != nil {
		return err
	}
	client, err := activitypub.NewClient(account)
	if err != nil {
		return err
	}

	inboxes, err := peerInboxes(tx)
	if err != nil {
		return err
	}
	activity := updateActivity(status)
	for _, inbox := range inboxes {
		if err := client.Post(tx.Statement.Context, inbox, activity); err != nil {
			return fmt.Errorf("deliver to %s: %w", inbox, err)
		}
	}
	return nil
}

// peerInboxes returns the distinct shared inboxes of every known remote
// actor.
func peerInboxes(tx *gorm.DB) ([]string, error) {
	var inboxes []string
	err := tx.Model(&models.Actor{}).
		Distinct("shared_inbox_url").
		Where("type NOT IN ('LocalPerson', 'LocalService')").
		Where("shared_inbox_url <> ''").
		Pluck("shared_inbox_url", &inboxes).Error
	return inboxes, err
}

// updateActivity builds the Update activity announcing the new state of the
// status.
func updateActivity(status *models.Status) map[string]any {
	updated := status.UpdatedAt
	if status.EditedAt != nil {
		updated = *status.EditedAt
	}
	return map[string]any{
		"@context": "https://www.w3.org/ns/activitystreams",
		"id":       fmt.Sprintf("%s#updates/%d", status.URI, updated.Unix()),
		"type":     "Update",
		"actor":    status.Actor.URI,
		"to":       []string{"https://www.w3.org/ns/activitystreams#Public"},
		"object": map[string]any{
			"id":        status.URI,
			"type":      "Note",
			"content":   status.Note,
			"summary":   status.SpoilerText,
			"sensitive": status.Sensitive,
			"published": status.CreatedAt().UTC().Format(time.RFC3339),
			"updated":   updated.UTC().Format(time.RFC3339),
		},
	}
}
