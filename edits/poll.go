package edits

import (
	"time"

	"github.com/boxmein-forks/mastodon/internal/snowflake"
	"github.com/boxmein-forks/mastodon/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// applyPoll moves the status between the poll-present and poll-absent states.
// It returns whether the poll changed in a way worth recording in the edit
// history (options rewritten, poll created, poll removed) and the previous
// expiry, which drives notification rescheduling after commit.
//
// Rewriting the option list of a stored poll discards all of its votes
// before the new options are written; a vote is meaningless against options
// it wasn't cast for. Creating a fresh poll has no votes to discard, and an
// unchanged option list keeps every vote.
func applyPoll(tx *gorm.DB, status *models.Status, req *UpdateRequest, now time.Time) (changed bool, previousExpiry *time.Time, err error) {
	prev := status.Poll
	if prev != nil {
		previousExpiry = prev.ExpiresAt
	}

	if req.Poll == nil {
		if prev == nil {
			return false, nil, nil
		}
		if err := tx.Delete(prev).Error; err != nil {
			return false, previousExpiry, err
		}
		status.Poll = nil
		return true, previousExpiry, nil
	}

	poll := prev
	rewriteOptions := false
	if prev == nil {
		poll = &models.StatusPoll{
			ID:       snowflake.Now(),
			StatusID: status.ID,
			ActorID:  status.ActorID,
		}
		changed = true
		rewriteOptions = true
	} else if !sameOptions(prev.OptionTitles(), req.Poll.Options) {
		changed = true
		rewriteOptions = true
		// the stored poll's votes were cast against the old options
		if err := tx.Where("status_poll_id = ?", poll.ID).Delete(&models.PollVote{}).Error; err != nil {
			return false, previousExpiry, err
		}
		if err := tx.Where("status_poll_id = ?", poll.ID).Delete(&models.StatusPollOption{}).Error; err != nil {
			return false, previousExpiry, err
		}
		poll.VotesCount = 0
		poll.Options = nil
	}

	poll.Multiple = req.Poll.Multiple
	poll.HideTotals = req.Poll.HideTotals
	if req.Poll.ExpiresIn > 0 {
		expiresAt := now.Add(req.Poll.ExpiresIn)
		poll.ExpiresAt = &expiresAt
	} else {
		poll.ExpiresAt = nil
	}

	if err := tx.Omit(clause.Associations).Save(poll).Error; err != nil {
		return false, previousExpiry, err
	}
	if rewriteOptions {
		for i, title := range req.Poll.Options {
			opt := models.StatusPollOption{
				StatusPollID: poll.ID,
				Idx:          i,
				Title:        title,
			}
			if err := tx.Create(&opt).Error; err != nil {
				return false, previousExpiry, err
			}
			poll.Options = append(poll.Options, opt)
		}
	}
	status.Poll = poll
	return changed, previousExpiry, nil
}

func sameOptions(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
