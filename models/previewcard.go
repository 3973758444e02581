package models

import (
	"time"

	"github.com/boxmein-forks/mastodon/internal/snowflake"
)

// A PreviewCard is the link preview rendered under a status. It is built by
// the PreviewCardProcessor from the first URL in the status' text, and thrown
// away when an edit changes the text.
type PreviewCard struct {
	StatusID    snowflake.ID `gorm:"primarykey;autoIncrement:false"`
	UpdatedAt   time.Time
	URL         string `gorm:"size:255;not null"`
	Title       string `gorm:"size:255;not null;default:''"`
	Description string `gorm:"type:text"`
	Image       string `gorm:"size:255;not null;default:''"`
}

// A PreviewCardRequest records a request to (re)crawl the first URL in a
// status' text and rebuild its preview card. PreviewCardRequests are created
// when a status' text changes, and are processed by the PreviewCardProcessor
// in the background.
type PreviewCardRequest struct {
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
