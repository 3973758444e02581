package workers

import (
	"bufio"
	"context"
	"fmt"
	"image"
	"net/http"
	"time"

	// image.Decode expects decoders to be registered in the global image
	// package; register the ones we accept.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/boxmein-forks/mastodon/internal/algorithms"
	"github.com/boxmein-forks/mastodon/models"
	"github.com/nfnt/resize"
	"golang.org/x/exp/slog"
	"gorm.io/gorm"
)

// previewBounds is the box that attachment previews are scaled into.
const previewBounds = 560

// NewMediaProcessingProcessor returns a worker loop that fetches the bytes of
// freshly uploaded attachments, records their dimensions and marks them
// processed. An attachment cannot be attached to a status until this has
// happened.
func NewMediaProcessingProcessor(db *gorm.DB, logger *slog.Logger) func(context.Context) error {
	return func(ctx context.Context) error {
		logger.Info("MediaProcessingProcessor started")
		defer logger.Info("MediaProcessingProcessor stopped")

		db := db.WithContext(ctx)
		for {
			err := process(db, mediaProcessingRequestScope, func(tx *gorm.DB, request *models.MediaProcessingRequest) error {
				return processMediaProcessingRequest(tx, logger, request)
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

func mediaProcessingRequestScope(db *gorm.DB) *gorm.DB {
	return db.Preload("MediaAttachment").Where("attempts < 3")
}

func processMediaProcessingRequest(tx *gorm.DB, logger *slog.Logger, request *models.MediaProcessingRequest) error {
	att := request.MediaAttachment
	if att.Type() != "image" {
		// nothing to measure, just release the attachment
		return tx.Model(att).Update("processed", true).Error
	}

	ctx, cancel := context.WithTimeout(tx.Statement.Context, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, att.URL, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	// read the first 512 bytes to check the content type
	br := bufio.NewReader(resp.Body)
	head, err := br.Peek(512)
	if err != nil {
		return err
	}
	contentType := http.DetectContentType(head)
	if mismatchedContentType(resp.Header.Get("Content-Type"), contentType, att.MediaType) {
		logger.Warn("content type mismatch", "url", att.URL, "header", resp.Header.Get("Content-Type"), "detected", contentType, "stored", att.MediaType)
	}

	img, _, err := image.Decode(br)
	if err != nil {
		return err
	}
	b := img.Bounds()
	preview := resize.Thumbnail(previewBounds, previewBounds, img, resize.Lanczos3).Bounds()

	return tx.Model(att).Updates(map[string]interface{}{
		"media_type":     contentType,
		"width":          b.Dx(),
		"height":         b.Dy(),
		"preview_width":  preview.Dx(),
		"preview_height": preview.Dy(),
		"processed":      true,
	}).Error
}

// mismatchedContentType reports whether the response header, the sniffed
// content type and the stored media type disagree.
func mismatchedContentType(header, detected, stored string) bool {
	return !algorithms.Equal(header, detected, stored)
}
