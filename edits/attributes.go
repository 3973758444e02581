package edits

import (
	"time"

	"github.com/boxmein-forks/mastodon/models"
	"golang.org/x/text/language"
)

// applyAttributes stages the scalar field changes on the status and stamps
// the edit time. The caller persists the status as part of the enclosing
// transaction.
func applyAttributes(status *models.Status, req *UpdateRequest, now time.Time) {
	text := req.Text
	if text == "" {
		text = req.SpoilerText
	}
	status.Note = text
	status.SpoilerText = req.SpoilerText
	status.Sensitive = req.Sensitive || req.SpoilerText != ""
	if lang, ok := resolveLanguage(req.Language); ok {
		status.Language = lang
	}
	status.EditedAt = &now
	status.UpdatedAt = now
}

// resolveLanguage reduces a locale tag like "en-AU" to the base language
// code. Unrecognised tags are reported as not ok, leaving the status'
// language unchanged.
func resolveLanguage(tag string) (string, bool) {
	if tag == "" {
		return "", false
	}
	parsed, err := language.Parse(tag)
	if err != nil {
		return "", false
	}
	base, conf := parsed.Base()
	if conf == language.No {
		return "", false
	}
	return base.String(), true
}
