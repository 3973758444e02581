package mastodon

import (
	"testing"
	"time"

	"github.com/boxmein-forks/mastodon/internal/snowflake"
	"github.com/boxmein-forks/mastodon/models"
	"github.com/stretchr/testify/require"
)

func TestSerialiserMetaFormats(t *testing.T) {

	t.Run("Attachment with zero dimensions has no original format", func(t *testing.T) {
		require := require.New(t)

		att := &models.MediaAttachment{
			Width:  0,
			Height: 100,
		}
		require.Nil(originalMetaFormat(att))
	})

	t.Run("Attachment dimensions produce size and aspect", func(t *testing.T) {
		require := require.New(t)

		att := &models.MediaAttachment{
			Width:  1280,
			Height: 720,
		}
		format := originalMetaFormat(att)
		require.NotNil(format)
		require.Equal(1280, format.Width)
		require.Equal(720, format.Height)
		require.Equal("1280x720", format.Size)
		require.InDelta(1.777, format.Aspect, 0.001)
	})

	t.Run("Small format uses the rendered preview dimensions", func(t *testing.T) {
		require := require.New(t)

		att := &models.MediaAttachment{
			Width:         1280,
			Height:        720,
			PreviewWidth:  640,
			PreviewHeight: 360,
		}
		format := smallMetaFormat(att)
		require.NotNil(format)
		require.Equal("640x360", format.Size)
	})

	t.Run("Small format falls back to the original when no preview was rendered", func(t *testing.T) {
		require := require.New(t)

		att := &models.MediaAttachment{
			Width:  100,
			Height: 100,
		}
		format := smallMetaFormat(att)
		require.NotNil(format)
		require.Equal("100x100", format.Size)
	})

	t.Run("Focus is omitted when unset", func(t *testing.T) {
		require := require.New(t)

		require.Nil(focus(&models.MediaAttachment{}))

		att := &models.MediaAttachment{
			FocalPoint: models.FocalPoint{X: 0.5, Y: -0.25},
		}
		f := focus(att)
		require.NotNil(f)
		require.Equal(0.5, f.X)
		require.Equal(-0.25, f.Y)
	})

}

func TestSerialiserPoll(t *testing.T) {

	t.Run("Nil poll serialises to nil", func(t *testing.T) {
		require := require.New(t)

		var s Serialiser
		require.Nil(s.Poll(nil))
	})

	t.Run("Poll options carry their vote counts", func(t *testing.T) {
		require := require.New(t)

		expires := time.Now().Add(-time.Hour)
		poll := &models.StatusPoll{
			ID:         snowflake.Now(),
			ExpiresAt:  &expires,
			Multiple:   true,
			VotesCount: 3,
			Options: []models.StatusPollOption{
				{Title: "yes", Count: 2},
				{Title: "no", Count: 1},
			},
		}

		var s Serialiser
		res := s.Poll(poll)
		require.True(res.Expired)
		require.True(res.Multiple)
		require.Equal(3, res.VotesCount)
		require.Len(res.Options, 2)
		require.Equal(PollOption{Title: "yes", VotesCount: 2}, res.Options[0])
	})

}

func TestSerialiserStatusEdit(t *testing.T) {

	t.Run("Edit is attributed to the editing actor", func(t *testing.T) {
		require := require.New(t)

		editor := &models.Actor{ID: snowflake.Now(), Name: "bob", Domain: "example.com", Type: "LocalPerson"}
		author := &models.Actor{ID: snowflake.Now(), Name: "alice", Domain: "example.com", Type: "LocalPerson"}
		edit := &models.StatusEdit{
			Note:      "updated",
			CreatedAt: time.Now(),
			Actor:     editor,
		}

		var s Serialiser
		res := s.StatusEdit(edit, author)
		require.Equal("updated", res.Content)
		require.Equal("bob", res.Account.Username)
	})

	t.Run("Baseline edit is attributed to the status author", func(t *testing.T) {
		require := require.New(t)

		author := &models.Actor{ID: snowflake.Now(), Name: "alice", Domain: "example.com", Type: "LocalPerson"}
		edit := &models.StatusEdit{
			Note:      "original",
			CreatedAt: time.Now(),
		}

		var s Serialiser
		res := s.StatusEdit(edit, author)
		require.Equal("original", res.Content)
		require.Equal("alice", res.Account.Username)
	})

}
