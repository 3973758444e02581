package models

import (
	"time"

	"github.com/boxmein-forks/mastodon/internal/snowflake"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// A Notification tells an actor that something happened to a status they care
// about. Currently the only kind is 'poll', written when a poll the actor
// owns or voted in has expired.
type Notification struct {
	ID        uint32 `gorm:"primarykey"`
	CreatedAt time.Time
	// ActorID is the recipient. A recipient is notified at most once per
	// status and kind, which keeps duplicate task deliveries harmless.
	ActorID  snowflake.ID     `gorm:"not null;index;uniqueIndex:idx_notification_target"`
	StatusID snowflake.ID     `gorm:"not null;uniqueIndex:idx_notification_target"`
	Status   *Status          `gorm:"constraint:OnDelete:CASCADE;<-:false;"`
	Kind     NotificationKind `gorm:"not null;uniqueIndex:idx_notification_target"`
}

type NotificationKind string

func (NotificationKind) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "mysql", "postgres":
		return "enum('poll')"
	case "sqlite":
		return "TEXT"
	default:
		return ""
	}
}
