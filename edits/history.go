package edits

import (
	"time"

	"github.com/boxmein-forks/mastodon/internal/snowflake"
	"github.com/boxmein-forks/mastodon/models"
	"gorm.io/gorm"
)

// seedBaseline records the status' never-before-edited state, exactly once.
// It must run before any other mutation so the snapshot captures the
// pre-edit attributes. A status that already has history is left alone. The
// check-then-insert runs inside the edit's transaction, so racing edits are
// serialised by the store rather than by this code.
func seedBaseline(tx *gorm.DB, status *models.Status) error {
	var n int64
	if err := tx.Model(&models.StatusEdit{}).Where("status_id = ?", status.ID).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	baseline := models.SnapshotOf(status)
	baseline.CreatedAt = status.CreatedAt() // the original state dates from creation
	baseline.MediaChanged = false
	return tx.Create(&baseline).Error
}

// appendEdit records the status' post-edit state. It runs after all
// mutations are staged, inside the same transaction.
func appendEdit(tx *gorm.DB, status *models.Status, editor snowflake.ID, mediaChanged bool, now time.Time) error {
	edit := models.SnapshotOf(status)
	edit.CreatedAt = now
	edit.ActorID = &editor
	edit.MediaChanged = mediaChanged
	return tx.Create(&edit).Error
}
