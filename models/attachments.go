package models

import (
	"time"

	"github.com/boxmein-forks/mastodon/internal/snowflake"
	"gorm.io/gorm"
)

// A MediaAttachment is an uploaded asset. It is owned by the account that
// uploaded it, and may be attached to at most one status at a time; an
// attachment whose StatusID is nil has been uploaded but not yet used.
// Attaching and detaching is a foreign key move, the asset itself is never
// copied.
type MediaAttachment struct {
	snowflake.ID `gorm:"primarykey;autoIncrement:false"`
	UpdatedAt    time.Time
	AccountID    snowflake.ID `gorm:"not null;index"`
	// StatusID is the status the attachment is attached to, if any.
	StatusID *snowflake.ID `gorm:"index"`
	// ScheduledStatusID is set when the attachment is held by a scheduled
	// status; such attachments cannot be attached to a live status.
	ScheduledStatusID *snowflake.ID
	MediaType         string     `gorm:"size:64;not null"`
	URL               string     `gorm:"size:255;not null"`
	Name              string     `gorm:"not null"` // description, for accessibility
	Blurhash          string     `gorm:"size:36;not null;default:''"`
	Width             int        `gorm:"not null;default:0"`
	Height            int        `gorm:"not null;default:0"`
	PreviewWidth      int        `gorm:"not null;default:0"`
	PreviewHeight     int        `gorm:"not null;default:0"`
	FocalPoint        FocalPoint `gorm:"embedded;embeddedPrefix:focal_point_"`
	// Processed is set once the background processor has finished with the
	// attachment. Unprocessed attachments cannot be attached to a status.
	Processed bool `gorm:"not null;default:false"`
}

type FocalPoint struct {
	X float64 `gorm:"not null;default:0"`
	Y float64 `gorm:"not null;default:0"`
}

// Type returns the Mastodon type of the attachment, image, video, audio or unknown.
func (ma *MediaAttachment) Type() string {
	switch ma.MediaType {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
		return "image"
	case "video/mp4", "video/webm":
		return "video"
	case "audio/mpeg", "audio/ogg":
		return "audio"
	default:
		return "unknown"
	}
}

// AudioOrVideo reports whether the attachment is an audio or video asset.
// A status may carry several images, but at most one audio or video asset,
// and never a mix of the two kinds.
func (ma *MediaAttachment) AudioOrVideo() bool {
	switch ma.Type() {
	case "audio", "video":
		return true
	default:
		return false
	}
}

func (ma *MediaAttachment) AfterCreate(tx *gorm.DB) error {
	if ma.URL == "" || ma.Processed {
		return nil
	}
	return tx.Create(&MediaProcessingRequest{
		MediaAttachmentID: ma.ID,
	}).Error
}

// A MediaProcessingRequest records a request to fetch and examine an
// attachment's bytes: decode the image, record its dimensions and mark it
// processed. MediaProcessingRequests are created by a hook on the
// MediaAttachment model, and are processed by the MediaProcessingProcessor in
// the background.
type MediaProcessingRequest struct {
	ID        uint32 `gorm:"primarykey;"`
	CreatedAt time.Time
	UpdatedAt time.Time
	// MediaAttachmentID is the ID of the MediaAttachment that the request is for.
	MediaAttachmentID snowflake.ID     `gorm:"uniqueIndex;not null;"`
	MediaAttachment   *MediaAttachment `gorm:"constraint:OnDelete:CASCADE;<-:false;"`
	// Attempts is the number of times the request has been attempted.
	Attempts uint32 `gorm:"not null;default:0"`
	// LastAttempt is the time the request was last attempted.
	LastAttempt time.Time
	// LastResult is the result of the last attempt if it failed.
	LastResult string `gorm:"size:255;not null;default:''"`
}
