package models

import (
	"time"

	"github.com/boxmein-forks/mastodon/internal/snowflake"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// A Token is an access token for an Account.
type Token struct {
	AccessToken string `gorm:"size:64;primaryKey;autoIncrement:false"`
	CreatedAt   time.Time
	AccountID   snowflake.ID
	Account     *Account `gorm:"constraint:OnDelete:CASCADE;<-:false;"`
	TokenType   `gorm:"not null"`
	Scope       string `gorm:"size:64;not null"`
}

type TokenType string

func (TokenType) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "mysql", "postgres":
		return "enum('Bearer')"
	case "sqlite":
		return "TEXT"
	default:
		return ""
	}
}
