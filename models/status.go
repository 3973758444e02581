package models

import (
	"time"

	"github.com/boxmein-forks/mastodon/internal/snowflake"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// A Status is a single message posted by a user. A Status belongs to a single
// Actor. A Status may carry up to four media attachments, or a poll, but
// never both.
type Status struct {
	snowflake.ID    `gorm:"primarykey;autoIncrement:false"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime:false"`
	EditedAt        *time.Time
	ActorID         snowflake.ID
	Actor           *Actor `gorm:"constraint:OnDelete:CASCADE;<-:false;"` // don't update actor on status update
	Sensitive       bool
	SpoilerText     string     `gorm:"size:128"`
	Visibility      Visibility `gorm:"not null"`
	Language        string     `gorm:"size:2"`
	Note            string     `gorm:"type:text"`
	URI             string     `gorm:"uniqueIndex;size:128"`
	RepliesCount    int        `gorm:"not null;default:0"`
	ReblogsCount    int        `gorm:"not null;default:0"`
	FavouritesCount int        `gorm:"not null;default:0"`
	Attachments     []MediaAttachment `gorm:"<-:false;"` // reassigned by bulk ownership updates, never written through the association
	Poll            *StatusPoll       `gorm:"constraint:OnDelete:CASCADE;"`
	Edits           []StatusEdit      `gorm:"constraint:OnDelete:CASCADE;"`
	Mentions        []StatusMention   `gorm:"constraint:OnDelete:CASCADE;"`
	Tags            []StatusTag       `gorm:"constraint:OnDelete:CASCADE;"`
}

// CreatedAt returns the time the status was created, which is encoded in its ID.
func (st *Status) CreatedAt() time.Time {
	return st.ID.ToTime()
}

func (st *Status) AfterCreate(tx *gorm.DB) error {
	return forEach(tx, st.updateStatusCount)
}

// updateStatusCount updates the statuses_count and last_status_at fields on the actor.
func (st *Status) updateStatusCount(tx *gorm.DB) error {
	statusesCount := tx.Select("COUNT(id)").Where("actor_id = ?", st.ActorID).Table("statuses")
	createdAt := st.ID.ToTime()
	actor := &Actor{ID: st.ActorID}
	return tx.Model(actor).UpdateColumns(map[string]interface{}{
		"statuses_count": statusesCount,
		"last_status_at": createdAt,
	}).Error
}

type Visibility string

func (Visibility) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "mysql", "postgres":
		return "enum('public', 'unlisted', 'private', 'direct', 'limited')"
	case "sqlite":
		return "TEXT"
	default:
		return ""
	}
}

type StatusMention struct {
	StatusID snowflake.ID `gorm:"primarykey;autoIncrement:false"`
	ActorID  snowflake.ID `gorm:"primarykey;autoIncrement:false"`
	Actor    *Actor       `gorm:"constraint:OnDelete:CASCADE;<-:false;"` // don't update actor on mention update
}

type StatusTag struct {
	StatusID snowflake.ID `gorm:"primarykey;autoIncrement:false"`
	TagID    uint32       `gorm:"primarykey;autoIncrement:false"`
	Tag      *Tag
}

type Tag struct {
	ID   uint32 `gorm:"primaryKey"`
	Name string `gorm:"size:64;uniqueIndex"`
}

// A StatusReprocessRequest records a request to re-extract the hashtags and
// mentions of a status after its text changed. StatusReprocessRequests are
// created when a status is edited, and are processed by the
// StatusReprocessProcessor in the background.
type StatusReprocessRequest struct {
	ID        uint32 `gorm:"primarykey;"`
	CreatedAt time.Time
	UpdatedAt time.Time
	// StatusID is the ID of the Status that the request is for.
	StatusID snowflake.ID `gorm:"uniqueIndex;not null;"`
	Status   *Status      `gorm:"constraint:OnDelete:CASCADE;<-:false;"`
	// Attempts is the number of times the request has been attempted.
	Attempts uint32 `gorm:"not null;default:0"`
	// LastAttempt is the time the request was last attempted.
	LastAttempt time.Time
	// LastResult is the result of the last attempt if it failed.
	LastResult string `gorm:"size:255;not null;default:''"`
}

// A StatusUpdateDeliveryRequest records a request to deliver an Update
// activity for an edited status to the follower inboxes of its author.
// Processed by the StatusUpdateDeliveryProcessor in the background.
type StatusUpdateDeliveryRequest struct {
	ID        uint32 `gorm:"primarykey;"`
	CreatedAt time.Time
	UpdatedAt time.Time
	// StatusID is the ID of the Status that the request is for.
	StatusID snowflake.ID `gorm:"uniqueIndex;not null;"`
	Status   *Status      `gorm:"constraint:OnDelete:CASCADE;<-:false;"`
	// Attempts is the number of times the request has been attempted.
	Attempts uint32 `gorm:"not null;default:0"`
	// LastAttempt is the time the request was last attempted.
	LastAttempt time.Time
	// LastResult is the result of the last attempt if it failed.
	LastResult string `gorm:"size:255;not null;default:''"`
}

type Statuses struct {
	db *gorm.DB
}

func NewStatuses(db *gorm.DB) *Statuses {
	return &Statuses{db: db}
}

func (s *Statuses) FindByID(id snowflake.ID) (*Status, error) {
	var status Status
	query := s.db.Joins("Actor").Scopes(PreloadStatus)
	if err := query.First(&status, id).Error; err != nil {
		return nil, err
	}
	return &status, nil
}

// Edits returns the edit history of the status, oldest first.
func (s *Statuses) Edits(status *Status) ([]StatusEdit, error) {
	var edits []StatusEdit
	if err := s.db.Preload("Actor").Where("status_id = ?", status.ID).Order("created_at, id").Find(&edits).Error; err != nil {
		return nil, err
	}
	return edits, nil
}

// PreloadStatus preloads all of a Status' relations and associations.
func PreloadStatus(query *gorm.DB) *gorm.DB {
	return query.Preload("Attachments").
		Preload("Poll").
		Preload("Poll.Options", func(db *gorm.DB) *gorm.DB { return db.Order("idx") }).
		Preload("Mentions").Preload("Mentions.Actor").
		Preload("Tags").Preload("Tags.Tag")
}
