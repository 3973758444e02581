package workers

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/boxmein-forks/mastodon/models"
	"golang.org/x/exp/slog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	hashtagPattern = regexp.MustCompile(`(?:^|\s)#(\w+)`)
	mentionPattern = regexp.MustCompile(`(?:^|\s)@(\w+)(?:@([\w.-]+))?`)
)

// NewStatusReprocessProcessor returns a worker loop that re-extracts the
// hashtags and mentions of edited statuses from their updated text.
func NewStatusReprocessProcessor(db *gorm.DB, logger *slog.Logger) func(context.Context) error {
	return func(ctx context.Context) error {
		logger.Info("StatusReprocessProcessor started")
		defer logger.Info("StatusReprocessProcessor stopped")

		db := db.WithContext(ctx)
		for {
			if err := process(db, statusReprocessRequestScope, processStatusReprocessRequest); err != nil {
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

func statusReprocessRequestScope(db *gorm.DB) *gorm.DB {
	return db.Preload("Status").Where("attempts < 3")
}

func processStatusReprocessRequest(tx *gorm.DB, request *models.StatusReprocessRequest) error {
	status := request.Status
	if err := reprocessTags(tx, status); err != nil {
		return err
	}
	return reprocessMentions(tx, status)
}

// reprocessTags rewrites the status' tag rows to match the hashtags in its
// text.
func reprocessTags(tx *gorm.DB, status *models.Status) error {
	if err := tx.Where("status_id = ?", status.ID).Delete(&models.StatusTag{}).Error; err != nil {
		return err
	}
	for _, match := range hashtagPattern.FindAllStringSubmatch(status.Note, -1) {
		name := strings.ToLower(match[1])
		var tag models.Tag
		if err := tx.Where(models.Tag{Name: name}).FirstOrCreate(&tag).Error; err != nil {
			return err
		}
		st := models.StatusTag{StatusID: status.ID, TagID: tag.ID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&st).Error; err != nil {
			return err
		}
	}
	return nil
}

// reprocessMentions rewrites the status' mention rows to match the @mentions
// in its text. Mentions of unknown actors are dropped.
func reprocessMentions(tx *gorm.DB, status *models.Status) error {
	if err := tx.Where("status_id = ?", status.ID).Delete(&models.StatusMention{}).Error; err != nil {
		return err
	}
	for _, match := range mentionPattern.FindAllStringSubmatch(status.Note, -1) {
		name, domain := match[1], match[2]
		query := tx.Where("name = ?", name)
		if domain != "" {
			query = query.Where("domain = ?", domain)
		}
		var actors []models.Actor
		if err := query.Limit(1).Find(&actors).Error; err != nil {
			return err
		}
		if len(actors) == 0 {
			continue
		}
		mention := models.StatusMention{StatusID: status.ID, ActorID: actors[0].ID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&mention).Error; err != nil {
			return err
		}
	}
	return nil
}
