package mastodon

import (
	"fmt"
	"net/http"
	"time"

	"github.com/boxmein-forks/mastodon/internal/snowflake"
	"github.com/boxmein-forks/mastodon/models"
)

// serialisers for various mastodon API responses.

// Serialiser serialises models to their API representation. The request is
// needed to build URLs relative to the host the client is talking to.
type Serialiser struct {
	req *http.Request
}

type Account struct {
	ID             snowflake.ID     `json:"id,string"`
	Username       string           `json:"username"`
	Acct           string           `json:"acct"`
	DisplayName    string           `json:"display_name"`
	Locked         bool             `json:"locked"`
	Bot            bool             `json:"bot"`
	CreatedAt      string           `json:"created_at"`
	Note           string           `json:"note"`
	URL            string           `json:"url"`
	Avatar         string           `json:"avatar"`        // these four fields _cannot_ be blank
	AvatarStatic   string           `json:"avatar_static"` // if they are, various clients will consider the
	Header         string           `json:"header"`        // account to be invalid and ignore it or just go weird :grr:
	HeaderStatic   string           `json:"header_static"` // so they must be set to a default image.
	FollowersCount int32            `json:"followers_count"`
	FollowingCount int32            `json:"following_count"`
	StatusesCount  int32            `json:"statuses_count"`
	LastStatusAt   *string          `json:"last_status_at"`
	Emojis         []map[string]any `json:"emojis"`
	Fields         []map[string]any `json:"fields"`
}

func (s Serialiser) Account(a *models.Actor) *Account {
	return &Account{
		ID:             a.ID,
		Username:       a.Name,
		Acct:           a.Acct(),
		DisplayName:    a.DisplayName,
		Locked:         a.Locked,
		Bot:            a.Type == "Service" || a.Type == "LocalService",
		CreatedAt:      a.ID.ToTime().Round(time.Hour).Format("2006-01-02T00:00:00.000Z"),
		Note:           a.Note,
		URL:            fmt.Sprintf("https://%s/@%s", a.Domain, a.Name),
		Avatar:         stringOrDefault(a.Avatar, fmt.Sprintf("https://%s/avatar.png", a.Domain)),
		AvatarStatic:   stringOrDefault(a.Avatar, fmt.Sprintf("https://%s/avatar.png", a.Domain)),
		Header:         stringOrDefault(a.Header, fmt.Sprintf("https://%s/header.png", a.Domain)),
		HeaderStatic:   stringOrDefault(a.Header, fmt.Sprintf("https://%s/header.png", a.Domain)),
		FollowersCount: a.FollowersCount,
		FollowingCount: a.FollowingCount,
		StatusesCount:  a.StatusesCount,
		LastStatusAt: func() *string {
			if a.LastStatusAt.IsZero() {
				return nil
			}
			st := a.LastStatusAt.Format("2006-01-02")
			return &st
		}(),
		Emojis: make([]map[string]any, 0), // must be an empty array -- not null
		Fields: make([]map[string]any, 0), // ditto
	}
}

type Status struct {
	ID               snowflake.ID      `json:"id,string"`
	CreatedAt        string            `json:"created_at"`
	EditedAt         *string           `json:"edited_at"`
	Sensitive        bool              `json:"sensitive"`
	SpoilerText      string            `json:"spoiler_text"`
	Visibility       models.Visibility `json:"visibility"`
	Language         string            `json:"language"`
	URI              string            `json:"uri"`
	URL              string            `json:"url"`
	RepliesCount     int               `json:"replies_count"`
	ReblogsCount     int               `json:"reblogs_count"`
	FavouritesCount  int               `json:"favourites_count"`
	Content          string            `json:"content"`
	Account          *Account          `json:"account"`
	MediaAttachments []MediaAttachment `json:"media_attachments"`
	Mentions         []Mention         `json:"mentions"`
	Tags             []Tag             `json:"tags"`
	Emojis           []map[string]any  `json:"emojis"`
	Poll             *Poll             `json:"poll"`
	Card             *Card             `json:"card"`
}

func (s Serialiser) Status(st *models.Status) *Status {
	return &Status{
		ID:        st.ID,
		CreatedAt: st.CreatedAt().Round(time.Second).Format("2006-01-02T15:04:05.000Z"),
		EditedAt: func() *string {
			if st.EditedAt == nil {
				return nil
			}
			at := st.EditedAt.Round(time.Second).Format("2006-01-02T15:04:05.000Z")
			return &at
		}(),
		Sensitive:        st.Sensitive,
		SpoilerText:      st.SpoilerText,
		Visibility:       st.Visibility,
		Language:         st.Language,
		URI:              st.URI,
		URL:              fmt.Sprintf("https://%s/@%s/%d", st.Actor.Domain, st.Actor.Name, st.ID),
		RepliesCount:     st.RepliesCount,
		ReblogsCount:     st.ReblogsCount,
		FavouritesCount:  st.FavouritesCount,
		Content:          st.Note,
		Account:          s.Account(st.Actor),
		MediaAttachments: s.MediaAttachments(st.Attachments),
		Mentions:         s.Mentions(st.Mentions),
		Tags:             s.Tags(st.Tags),
		Emojis:           make([]map[string]any, 0),
		Poll:             s.Poll(st.Poll),
	}
}

type Mention struct {
	ID       snowflake.ID `json:"id,string"`
	Username string       `json:"username"`
	URL      string       `json:"url"`
	Acct     string       `json:"acct"`
}

func (s Serialiser) Mentions(mentions []models.StatusMention) []Mention {
	res := []Mention{} // ensure we return a slice, not null
	for _, mention := range mentions {
		if mention.Actor == nil {
			continue
		}
		res = append(res, Mention{
			ID:       mention.Actor.ID,
			Username: mention.Actor.Name,
			URL:      fmt.Sprintf("https://%s/@%s", mention.Actor.Domain, mention.Actor.Name),
			Acct:     mention.Actor.Acct(),
		})
	}
	return res
}

type Tag struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

func (s Serialiser) Tags(tags []models.StatusTag) []Tag {
	res := []Tag{}
	for _, tag := range tags {
		if tag.Tag == nil {
			continue
		}
		res = append(res, Tag{
			Name: tag.Tag.Name,
			URL:  fmt.Sprintf("https://%s/tags/%s", s.req.Host, tag.Tag.Name),
		})
	}
	return res
}

type Poll struct {
	ID         snowflake.ID `json:"id,string"`
	ExpiresAt  *string      `json:"expires_at"`
	Expired    bool         `json:"expired"`
	Multiple   bool         `json:"multiple"`
	VotesCount int          `json:"votes_count"`
	Options    []PollOption `json:"options"`
}

type PollOption struct {
	Title      string `json:"title"`
	VotesCount int    `json:"votes_count"`
}

func (s Serialiser) Poll(p *models.StatusPoll) *Poll {
	if p == nil {
		return nil
	}
	poll := &Poll{
		ID: p.ID,
		ExpiresAt: func() *string {
			if p.ExpiresAt == nil {
				return nil
			}
			at := p.ExpiresAt.Round(time.Second).Format("2006-01-02T15:04:05.000Z")
			return &at
		}(),
		Expired:    p.Expired(time.Now()),
		Multiple:   p.Multiple,
		VotesCount: p.VotesCount,
		Options:    []PollOption{},
	}
	for _, opt := range p.Options {
		poll.Options = append(poll.Options, PollOption{
			Title:      opt.Title,
			VotesCount: opt.Count,
		})
	}
	return poll
}

type MediaAttachment struct {
	ID          snowflake.ID `json:"id,string"`
	Type        string       `json:"type"`
	URL         string       `json:"url"`
	PreviewURL  string       `json:"preview_url"`
	RemoteURL   any          `json:"remote_url"`
	Meta        *Meta        `json:"meta"`
	Description string       `json:"description"`
	Blurhash    string       `json:"blurhash"`
}

type Meta struct {
	Original *MetaFormat `json:"original,omitempty"`
	Small    *MetaFormat `json:"small,omitempty"`
	Focus    *MetaFocus  `json:"focus,omitempty"`
}

type MetaFormat struct {
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Size   string  `json:"size"`
	Aspect float64 `json:"aspect"`
}

type MetaFocus struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (s Serialiser) MediaAttachments(atts []models.MediaAttachment) []MediaAttachment {
	res := []MediaAttachment{} // ensure we return a slice, not null
	for i := range atts {
		att := &atts[i]
		res = append(res, MediaAttachment{
			ID:         att.ID,
			Type:       att.Type(),
			URL:        att.URL,
			PreviewURL: att.URL,
			RemoteURL:  nil,
			Meta: &Meta{
				Original: originalMetaFormat(att),
				Small:    smallMetaFormat(att),
				Focus:    focus(att),
			},
			Description: att.Name,
			Blurhash:    att.Blurhash,
		})
	}
	return res
}

func originalMetaFormat(att *models.MediaAttachment) *MetaFormat {
	if att.Width == 0 || att.Height == 0 {
		return nil
	}
	return &MetaFormat{
		Width:  att.Width,
		Height: att.Height,
		Size:   fmt.Sprintf("%dx%d", att.Width, att.Height),
		Aspect: float64(att.Width) / float64(att.Height),
	}
}

// smallMetaFormat describes the preview the media processor rendered. Falls
// back to the original dimensions for attachments that didn't need scaling.
func smallMetaFormat(att *models.MediaAttachment) *MetaFormat {
	if att.PreviewWidth == 0 || att.PreviewHeight == 0 {
		return originalMetaFormat(att)
	}
	return &MetaFormat{
		Width:  att.PreviewWidth,
		Height: att.PreviewHeight,
		Size:   fmt.Sprintf("%dx%d", att.PreviewWidth, att.PreviewHeight),
		Aspect: float64(att.PreviewWidth) / float64(att.PreviewHeight),
	}
}

func focus(att *models.MediaAttachment) *MetaFocus {
	if att.FocalPoint.X == 0 && att.FocalPoint.Y == 0 {
		return nil
	}
	return &MetaFocus{
		X: att.FocalPoint.X,
		Y: att.FocalPoint.Y,
	}
}

type Card struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Image       string `json:"image"`
}

func (s Serialiser) Card(card *models.PreviewCard) *Card {
	if card == nil {
		return nil
	}
	return &Card{
		URL:         card.URL,
		Title:       card.Title,
		Description: card.Description,
		Type:        "link",
		Image:       card.Image,
	}
}

type StatusEdit struct {
	Content          string            `json:"content"`
	SpoilerText      string            `json:"spoiler_text"`
	Sensitive        bool              `json:"sensitive"`
	CreatedAt        string            `json:"created_at"`
	Account          *Account          `json:"account"`
	MediaAttachments []MediaAttachment `json:"media_attachments"`
	Emojis           []map[string]any  `json:"emojis"`
}

// StatusEdit serialises one entry of a status' edit history. The first entry
// is the seeded baseline which has no editing actor; it is attributed to the
// status' author.
func (s Serialiser) StatusEdit(edit *models.StatusEdit, author *models.Actor) *StatusEdit {
	actor := edit.Actor
	if actor == nil {
		actor = author
	}
	return &StatusEdit{
		Content:          edit.Note,
		SpoilerText:      edit.SpoilerText,
		Sensitive:        edit.Sensitive,
		CreatedAt:        edit.CreatedAt.Round(time.Second).Format("2006-01-02T15:04:05.000Z"),
		Account:          s.Account(actor),
		MediaAttachments: []MediaAttachment{},
		Emojis:           make([]map[string]any, 0),
	}
}
