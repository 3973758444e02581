package workers

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/boxmein-forks/mastodon/edits"
	"github.com/boxmein-forks/mastodon/internal/snowflake"
	"github.com/boxmein-forks/mastodon/models"
	"github.com/carlmjohnson/requests"
	"github.com/go-json-experiment/json"
	"github.com/redis/go-redis/v9"
	"golang.org/x/exp/slog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var urlPattern = regexp.MustCompile(`https?://[^\s<>"']+`)

// previewCardCacheTTL bounds how long a serialised card may live in redis.
const previewCardCacheTTL = 24 * time.Hour

// NewPreviewCardProcessor returns a worker loop that crawls the first URL in
// an edited status' text and rebuilds its preview card. The card is stored in
// the database and cached serialised in redis; an edit that changes the text
// invalidates the cache before the recrawl request is queued.
func NewPreviewCardProcessor(db *gorm.DB, cache redis.UniversalClient, logger *slog.Logger) func(context.Context) error {
	return func(ctx context.Context) error {
		logger.Info("PreviewCardProcessor started")
		defer logger.Info("PreviewCardProcessor stopped")

		db := db.WithContext(ctx)
		for {
			err := process(db, previewCardRequestScope, func(tx *gorm.DB, request *models.PreviewCardRequest) error {
				return processPreviewCardRequest(tx, cache, request)
			})
			if err != nil {
				return err
			}
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(30 * time.Second):
				// continue
			}
		}
	}
}

func previewCardRequestScope(db *gorm.DB) *gorm.DB {
	return db.Preload("Status").Where("attempts < 3")
}

func processPreviewCardRequest(tx *gorm.DB, cache redis.UniversalClient, request *models.PreviewCardRequest) error {
	url := firstURL(request.Status.Note)
	if url == "" {
		// nothing to preview; the stale card was already deleted by the edit
		return nil
	}

	ctx, cancel := context.WithTimeout(tx.Statement.Context, 10*time.Second)
	defer cancel()

	var body strings.Builder
	err := requests.URL(url).
		Accept("text/html").
		ToWriter(&body).
		Fetch(ctx)
	if err != nil {
		return err
	}

	card, err := parsePreviewCard(request.StatusID, url, body.String())
	if err != nil {
		return err
	}
	if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(card).Error; err != nil {
		return err
	}

	if cache != nil {
		buf, err := json.Marshal(card)
		if err != nil {
			return err
		}
		if err := cache.Set(ctx, edits.PreviewCardCacheKey(request.StatusID), buf, previewCardCacheTTL).Err(); err != nil {
			return err
		}
	}
	return nil
}

// firstURL returns the first http(s) URL in the text, or "".
func firstURL(text string) string {
	return urlPattern.FindString(text)
}

// parsePreviewCard extracts OpenGraph metadata from the page, falling back
// to the document title.
func parsePreviewCard(statusID snowflake.ID, url, body string) (*models.PreviewCard, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, err
	}
	card := &models.PreviewCard{
		StatusID: statusID,
		URL:      url,
	}
	doc.Find("meta").Each(func(i int, s *goquery.Selection) {
		property, _ := s.Attr("property")
		content, _ := s.Attr("content")
		switch property {
		case "og:title":
			card.Title = content
		case "og:description":
			card.Description = content
		case "og:image":
			card.Image = content
		}
	})
	if card.Title == "" {
		card.Title = doc.Find("title").First().Text()
	}
	return card, nil
}
