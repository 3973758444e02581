package models

import (
	"time"

	"github.com/boxmein-forks/mastodon/internal/snowflake"
	"gorm.io/gorm"
)

// A StatusPoll is a poll attached to a status. A status has at most one poll,
// and a status with a poll has no media attachments.
type StatusPoll struct {
	snowflake.ID `gorm:"primarykey;autoIncrement:false"`
	UpdatedAt    time.Time
	StatusID     snowflake.ID `gorm:"uniqueIndex;not null"`
	ActorID      snowflake.ID `gorm:"not null"`
	ExpiresAt    *time.Time
	Multiple     bool `gorm:"not null;default:false"`
	HideTotals   bool `gorm:"not null;default:false"`
	VotesCount   int  `gorm:"not null;default:0"`
	Options      []StatusPollOption `gorm:"constraint:OnDelete:CASCADE;"`
	Votes        []PollVote         `gorm:"constraint:OnDelete:CASCADE;"`
}

// OptionTitles returns the poll's option labels in order.
func (p *StatusPoll) OptionTitles() []string {
	titles := make([]string, 0, len(p.Options))
	for _, opt := range p.Options {
		titles = append(titles, opt.Title)
	}
	return titles
}

// Expired reports whether the poll has an expiry in the past.
func (p *StatusPoll) Expired(now time.Time) bool {
	return p.ExpiresAt != nil && p.ExpiresAt.Before(now)
}

type StatusPollOption struct {
	ID           uint32       `gorm:"primarykey;autoIncrement:true"`
	StatusPollID snowflake.ID `gorm:"index;not null"`
	// Idx is the position of the option within the poll.
	Idx   int    `gorm:"not null;default:0"`
	Title string `gorm:"size:255;not null"`
	Count int    `gorm:"not null;default:0"`
}

// A PollVote is a single vote cast by an actor for one option of a poll.
// Votes are discarded in bulk when the poll's options are rewritten; a vote
// is meaningless against options it wasn't cast for.
type PollVote struct {
	ID           uint32 `gorm:"primarykey"`
	CreatedAt    time.Time
	StatusPollID snowflake.ID `gorm:"index;not null"`
	ActorID      snowflake.ID `gorm:"not null"`
	Choice       int          `gorm:"not null"`
}

func (v *PollVote) AfterCreate(tx *gorm.DB) error {
	return forEach(tx, v.updateVotesCount, v.updateOptionCount)
}

// updateVotesCount updates the votes_count field on the poll.
func (v *PollVote) updateVotesCount(tx *gorm.DB) error {
	votesCount := tx.Select("COUNT(id)").Where("status_poll_id = ?", v.StatusPollID).Table("poll_votes")
	poll := &StatusPoll{ID: v.StatusPollID}
	return tx.Model(poll).UpdateColumns(map[string]interface{}{
		"votes_count": votesCount,
	}).Error
}

// updateOptionCount updates the count field on the chosen option.
func (v *PollVote) updateOptionCount(tx *gorm.DB) error {
	return tx.Model(&StatusPollOption{}).
		Where("status_poll_id = ? AND idx = ?", v.StatusPollID, v.Choice).
		UpdateColumn("count", gorm.Expr("count + 1")).Error
}
