package edits

import (
	"github.com/boxmein-forks/mastodon/internal/algorithms"
	"github.com/boxmein-forks/mastodon/internal/snowflake"
	"github.com/boxmein-forks/mastodon/models"
	"gorm.io/gorm"
)

// reconcileMedia moves the status' attachment set to the requested one and
// reports whether any attachment changed membership. An empty request leaves
// the attachments alone. Requested attachments must be owned by the editing
// account, already processed, free of a scheduling hold, and either
// unattached or already attached to this status; identifiers that don't
// resolve are silently dropped.
func reconcileMedia(tx *gorm.DB, status *models.Status, account *models.Account, req *UpdateRequest) (bool, error) {
	if req.Poll != nil && len(req.MediaIDs) > 0 {
		return false, validationError(CodeTooMany)
	}
	if len(req.MediaIDs) == 0 {
		if req.Poll != nil && len(status.Attachments) > 0 {
			// a poll can't join attachments the edit isn't removing
			return false, validationError(CodeTooMany)
		}
		return false, nil
	}
	if len(req.MediaIDs) > maxAttachments {
		return false, validationError(CodeTooMany)
	}

	next, err := resolveAttachments(tx, status, account, req.MediaIDs)
	if err != nil {
		return false, err
	}
	if len(next) > 1 {
		for i := range next {
			if next[i].AudioOrVideo() {
				return false, validationError(CodeImagesAndVideo)
			}
		}
	}
	for i := range next {
		if !next[i].Processed {
			return false, validationError(CodeNotReady)
		}
	}

	added, removed := diffAttachments(status.Attachments, next)
	if len(removed) > 0 {
		if err := tx.Model(&models.MediaAttachment{}).Where("id IN ?", removed).Update("status_id", nil).Error; err != nil {
			return false, err
		}
	}
	if len(added) > 0 {
		if err := tx.Model(&models.MediaAttachment{}).Where("id IN ?", added).Update("status_id", status.ID).Error; err != nil {
			return false, err
		}
	}
	for i := range next {
		id := status.ID
		next[i].StatusID = &id
	}
	status.Attachments = next
	return len(added) > 0 || len(removed) > 0, nil
}

// resolveAttachments loads the eligible attachments for the requested
// identifiers, preserving request order. The caller has already bounded the
// request to maxAttachments.
func resolveAttachments(tx *gorm.DB, status *models.Status, account *models.Account, ids []snowflake.ID) ([]models.MediaAttachment, error) {
	var candidates []models.MediaAttachment
	err := tx.
		Where("id IN ?", ids).
		Where("account_id = ?", account.ID).
		Where("status_id IS NULL OR status_id = ?", status.ID).
		Where("scheduled_status_id IS NULL").
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}
	byID := make(map[snowflake.ID]models.MediaAttachment, len(candidates))
	for _, att := range candidates {
		byID[att.ID] = att
	}
	var next []models.MediaAttachment
	for _, id := range ids {
		if att, ok := byID[id]; ok {
			next = append(next, att)
		}
	}
	return next, nil
}

// diffAttachments computes the membership delta between the old and new
// attachment sets. It is a pure function of its inputs.
func diffAttachments(old, next []models.MediaAttachment) (added, removed []snowflake.ID) {
	oldIDs := make(map[snowflake.ID]bool, len(old))
	for _, att := range old {
		oldIDs[att.ID] = true
	}
	nextIDs := make(map[snowflake.ID]bool, len(next))
	for _, att := range next {
		nextIDs[att.ID] = true
	}
	added = algorithms.Map(algorithms.Filter(next, func(att models.MediaAttachment) bool {
		return !oldIDs[att.ID]
	}), attachmentID)
	removed = algorithms.Map(algorithms.Filter(old, func(att models.MediaAttachment) bool {
		return !nextIDs[att.ID]
	}), attachmentID)
	return added, removed
}

func attachmentID(att models.MediaAttachment) snowflake.ID {
	return att.ID
}
