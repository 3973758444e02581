// Package mastodon implements a Mastodon API service.
package mastodon

import (
	"net/http"
	"strings"

	"github.com/boxmein-forks/mastodon/edits"
	"github.com/boxmein-forks/mastodon/internal/httpx"
	"github.com/boxmein-forks/mastodon/internal/streaming"
	"github.com/boxmein-forks/mastodon/models"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Env struct {
	*models.Env

	// Editor applies status edits.
	Editor *edits.Editor

	// Streams carries status updates to streaming clients.
	Streams *streaming.Mux

	// Cache holds serialised preview cards keyed by status.
	Cache redis.UniversalClient
}

// authenticate authenticates the bearer token attached to the request and, if
// successful, returns the account associated with the token.
func (e *Env) authenticate(r *http.Request) (*models.Account, error) {
	bearer := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	var token models.Token
	if err := e.DB.Joins("Account").Preload("Account.Actor").First(&token, "access_token = ?", bearer).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, httpx.Error(http.StatusUnauthorized, err)
		}
		return nil, err
	}
	return token.Account, nil
}

func stringOrDefault(s string, def string) string {
	if s == "" {
		return def
	}
	return s
}
