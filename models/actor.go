package models

import (
	"time"

	"github.com/boxmein-forks/mastodon/internal/snowflake"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// An Actor is the author of statuses. Local actors are backed by an Account;
// remote actors are discovered over federation.
type Actor struct {
	snowflake.ID   `gorm:"primarykey;autoIncrement:false"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime:false"`
	Type           ActorType `gorm:"default:'Person';not null"`
	URI            string    `gorm:"uniqueIndex;size:128;not null"`
	Name           string    `gorm:"size:64;uniqueIndex:idx_actor_name_domain;not null"`
	Domain         string    `gorm:"size:64;uniqueIndex:idx_actor_name_domain;not null"`
	DisplayName    string    `gorm:"size:128;not null"`
	Note           string    `gorm:"type:text"`
	Avatar         string    `gorm:"size:255"`
	Header         string    `gorm:"size:255"`
	Locked         bool      `gorm:"default:false;not null"`
	PublicKey      []byte    `gorm:"not null"`
	InboxURL       string    `gorm:"size:255;not null;default:''"`
	SharedInboxURL string    `gorm:"size:255;not null;default:''"`
	FollowersCount int32     `gorm:"default:0;not null"`
	FollowingCount int32     `gorm:"default:0;not null"`
	StatusesCount  int32     `gorm:"default:0;not null"`
	LastStatusAt   time.Time
}

type ActorType string

func (ActorType) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "mysql", "postgres":
		return "enum('Person', 'Application', 'Service', 'Group', 'Organization', 'LocalPerson', 'LocalService')"
	case "sqlite":
		return "TEXT"
	default:
		return ""
	}
}

func (a *Actor) IsLocal() bool {
	switch a.Type {
	case "LocalPerson", "LocalService":
		return true
	default:
		return false
	}
}

// Acct returns the webfinger style account name of the actor, eg. name for
// local actors, name@domain for remote ones.
func (a *Actor) Acct() string {
	if a.IsLocal() {
		return a.Name
	}
	return a.Name + "@" + a.Domain
}

func (a *Actor) PublicKeyID() string {
	return a.URI + "#main-key"
}

// Inbox returns the actor's inbox URL, or shared inbox URL if it has one.
func (a *Actor) Inbox() string {
	if a.SharedInboxURL != "" {
		return a.SharedInboxURL
	}
	return a.InboxURL
}
