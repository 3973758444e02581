package mastodon

import (
	"errors"
	"net/http"
	"time"

	"github.com/boxmein-forks/mastodon/edits"
	"github.com/boxmein-forks/mastodon/internal/httpx"
	"github.com/boxmein-forks/mastodon/internal/snowflake"
	"github.com/boxmein-forks/mastodon/internal/to"
	"github.com/boxmein-forks/mastodon/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-json-experiment/json"
	"gorm.io/gorm"
)

func StatusesShow(env *Env, w http.ResponseWriter, r *http.Request) error {
	if _, err := env.authenticate(r); err != nil {
		return err
	}
	status, err := findStatus(env, r)
	if err != nil {
		return err
	}
	serialise := Serialiser{req: r}
	resp := serialise.Status(status)
	resp.Card = serialise.Card(previewCard(env, r, status))
	return to.JSON(w, resp)
}

// StatusesUpdate edits a status in place. Only the author may edit, and
// either every requested change lands or none do.
func StatusesUpdate(env *Env, w http.ResponseWriter, r *http.Request) error {
	account, err := env.authenticate(r)
	if err != nil {
		return err
	}
	status, err := findStatus(env, r)
	if err != nil {
		return err
	}
	if status.ActorID != account.ActorID {
		return httpx.Error(http.StatusForbidden, errors.New("forbidden"))
	}

	var params struct {
		Status      string   `json:"status" schema:"status"`
		SpoilerText string   `json:"spoiler_text" schema:"spoiler_text"`
		Sensitive   bool     `json:"sensitive" schema:"sensitive"`
		Language    string   `json:"language" schema:"language"`
		MediaIDs    []string `json:"media_ids" schema:"media_ids[]"`
		Poll        *struct {
			Options    []string `json:"options" schema:"options[]"`
			ExpiresIn  int      `json:"expires_in" schema:"expires_in"`
			Multiple   bool     `json:"multiple" schema:"multiple"`
			HideTotals bool     `json:"hide_totals" schema:"hide_totals"`
		} `json:"poll" schema:"-"`
	}
	if err := httpx.Params(r, &params); err != nil {
		return err
	}

	req := &edits.UpdateRequest{
		Text:        params.Status,
		SpoilerText: params.SpoilerText,
		Sensitive:   params.Sensitive,
		Language:    params.Language,
	}
	for _, raw := range params.MediaIDs {
		id, err := snowflake.Parse(raw)
		if err != nil {
			return httpx.Error(http.StatusBadRequest, err)
		}
		req.MediaIDs = append(req.MediaIDs, id)
	}
	if params.Poll != nil {
		req.Poll = &edits.PollRequest{
			Options:    params.Poll.Options,
			ExpiresIn:  time.Duration(params.Poll.ExpiresIn) * time.Second,
			Multiple:   params.Poll.Multiple,
			HideTotals: params.Poll.HideTotals,
		}
	}

	status, err = env.Editor.Update(r.Context(), status, account, req)
	if err != nil {
		var verr *edits.ValidationError
		if errors.As(err, &verr) {
			return httpx.Error(http.StatusUnprocessableEntity, verr)
		}
		return err
	}
	serialise := Serialiser{req: r}
	resp := serialise.Status(status)
	resp.Card = serialise.Card(previewCard(env, r, status))
	return to.JSON(w, resp)
}

// StatusesHistoryShow returns the status' edit history, oldest first. A
// status that has never been edited has no history.
func StatusesHistoryShow(env *Env, w http.ResponseWriter, r *http.Request) error {
	if _, err := env.authenticate(r); err != nil {
		return err
	}
	status, err := findStatus(env, r)
	if err != nil {
		return err
	}
	history, err := models.NewStatuses(env.DB).Edits(status)
	if err != nil {
		return err
	}
	serialise := Serialiser{req: r}
	resp := []*StatusEdit{}
	for i := range history {
		resp = append(resp, serialise.StatusEdit(&history[i], status.Actor))
	}
	return to.JSON(w, resp)
}

// StatusesSourceShow returns the raw text of a status, for pre-filling the
// client's edit form. Only the author may view the source.
func StatusesSourceShow(env *Env, w http.ResponseWriter, r *http.Request) error {
	account, err := env.authenticate(r)
	if err != nil {
		return err
	}
	status, err := findStatus(env, r)
	if err != nil {
		return err
	}
	if status.ActorID != account.ActorID {
		return httpx.Error(http.StatusForbidden, errors.New("forbidden"))
	}
	return to.JSON(w, map[string]any{
		"id":           status.ID.String(),
		"text":         status.Note,
		"spoiler_text": status.SpoilerText,
	})
}

func findStatus(env *Env, r *http.Request) (*models.Status, error) {
	id, err := snowflake.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return nil, httpx.Error(http.StatusBadRequest, err)
	}
	status, err := models.NewStatuses(env.DB).FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httpx.Error(http.StatusNotFound, err)
		}
		return nil, err
	}
	return status, nil
}

// previewCard fetches the status' preview card, trying the cache before the
// database. No card is not an error.
func previewCard(env *Env, r *http.Request, status *models.Status) *models.PreviewCard {
	var card models.PreviewCard
	if env.Cache != nil {
		if raw, err := env.Cache.Get(r.Context(), edits.PreviewCardCacheKey(status.ID)).Bytes(); err == nil {
			if err := json.Unmarshal(raw, &card); err == nil {
				return &card
			}
		}
	}
	if err := env.DB.First(&card, "status_id = ?", status.ID).Error; err != nil {
		return nil
	}
	return &card
}
