package models

import (
	"time"

	"github.com/boxmein-forks/mastodon/internal/snowflake"
	"gorm.io/gorm"
)

// A StatusEdit is an immutable snapshot of a status' edit-relevant attributes
// at a point in time. The first entry for a status is a lazily seeded
// baseline recording the original, never-before-edited state: it is stamped
// with the status' creation time and has no editing actor. Every subsequent
// entry records the state after one edit, stamped with the wall clock and the
// actor that made it.
type StatusEdit struct {
	ID uint32 `gorm:"primarykey"`
	// CreatedAt is set explicitly: the baseline entry is backdated to the
	// status' creation time.
	CreatedAt time.Time    `gorm:"autoCreateTime:false;not null"`
	StatusID  snowflake.ID `gorm:"index;not null"`
	// ActorID is the actor that made the edit, nil for the seeded baseline.
	ActorID *snowflake.ID
	Actor   *Actor `gorm:"constraint:OnDelete:CASCADE;<-:false;"`
	// MediaChanged records whether the edit changed the attachment set or the
	// poll's shape.
	MediaChanged bool   `gorm:"not null;default:false"`
	Note         string `gorm:"type:text"`
	SpoilerText  string `gorm:"size:128"`
	Sensitive    bool   `gorm:"not null;default:false"`
}

// SnapshotOf captures the edit-relevant attributes of the status.
func SnapshotOf(status *Status) StatusEdit {
	return StatusEdit{
		StatusID:    status.ID,
		Note:        status.Note,
		SpoilerText: status.SpoilerText,
		Sensitive:   status.Sensitive,
	}
}

type StatusEdits struct {
	db *gorm.DB
}

func NewStatusEdits(db *gorm.DB) *StatusEdits {
	return &StatusEdits{db: db}
}

// Count returns the number of history entries recorded for the status.
func (s *StatusEdits) Count(status *Status) (int64, error) {
	var n int64
	err := s.db.Model(&StatusEdit{}).Where("status_id = ?", status.ID).Count(&n).Error
	return n, err
}
