package workers

import (
	"testing"
	"time"

	"github.com/boxmein-forks/mastodon/internal/snowflake"
	"github.com/boxmein-forks/mastodon/models"
	"github.com/stretchr/testify/require"
)

func TestFirstURL(t *testing.T) {
	t.Run("Assert the first url is returned", func(t *testing.T) {
		require := require.New(t)
		url := firstURL("read this https://example.com/a and also https://example.com/b")
		require.Equal("https://example.com/a", url)
	})
	t.Run("Assert text without a url returns empty", func(t *testing.T) {
		require := require.New(t)
		require.Empty(firstURL("no links here"))
	})
	t.Run("Assert plain http is accepted", func(t *testing.T) {
		require := require.New(t)
		require.Equal("http://example.com/", firstURL("see http://example.com/"))
	})
}

func TestParsePreviewCard(t *testing.T) {
	t.Run("Assert opengraph metadata is extracted", func(t *testing.T) {
		require := require.New(t)
		body := `<html><head>
			<meta property="og:title" content="A title">
			<meta property="og:description" content="A description">
			<meta property="og:image" content="https://example.com/image.png">
			<title>fallback</title>
		</head></html>`
		id := snowflake.Now()
		card, err := parsePreviewCard(id, "https://example.com/", body)
		require.NoError(err)
		require.Equal(id, card.StatusID)
		require.Equal("https://example.com/", card.URL)
		require.Equal("A title", card.Title)
		require.Equal("A description", card.Description)
		require.Equal("https://example.com/image.png", card.Image)
	})
	t.Run("Assert the document title is the fallback", func(t *testing.T) {
		require := require.New(t)
		card, err := parsePreviewCard(snowflake.Now(), "https://example.com/", "<html><head><title>just a title</title></head></html>")
		require.NoError(err)
		require.Equal("just a title", card.Title)
		require.Empty(card.Description)
	})
}

func TestHashtagPattern(t *testing.T) {
	t.Run("Assert hashtags are found", func(t *testing.T) {
		require := require.New(t)
		matches := hashtagPattern.FindAllStringSubmatch("#golang is fun, see #TestInProd", -1)
		require.Len(matches, 2)
		require.Equal("golang", matches[0][1])
		require.Equal("TestInProd", matches[1][1])
	})
	t.Run("Assert a fragment mid word is not a hashtag", func(t *testing.T) {
		require := require.New(t)
		require.Empty(hashtagPattern.FindAllStringSubmatch("c#2 and foo#bar", -1))
	})
}

func TestMentionPattern(t *testing.T) {
	t.Run("Assert local and remote mentions are found", func(t *testing.T) {
		require := require.New(t)
		matches := mentionPattern.FindAllStringSubmatch("hi @alice and @bob@example.com", -1)
		require.Len(matches, 2)
		require.Equal("alice", matches[0][1])
		require.Empty(matches[0][2])
		require.Equal("bob", matches[1][1])
		require.Equal("example.com", matches[1][2])
	})
	t.Run("Assert an email address is not a mention", func(t *testing.T) {
		require := require.New(t)
		require.Empty(mentionPattern.FindAllStringSubmatch("mail me at alice@example.com", -1))
	})
}

func TestMismatchedContentType(t *testing.T) {
	require := require.New(t)
	require.False(mismatchedContentType("image/jpeg", "image/jpeg", "image/jpeg"))
	require.True(mismatchedContentType("image/jpeg", "image/png", "image/jpeg"))
	require.True(mismatchedContentType("image/jpeg", "image/jpeg", "image/png"))
}

func TestPollExpirationTaskID(t *testing.T) {
	require := require.New(t)
	id := snowflake.Now()
	require.Equal("poll:expiration:"+id.String(), pollExpirationTaskID(id))
	require.NotEqual(pollExpirationTaskID(id), pollExpirationTaskID(id+1))
}

func TestUpdateActivity(t *testing.T) {
	t.Run("Assert the activity announces the edited state", func(t *testing.T) {
		require := require.New(t)
		edited := time.Date(2023, 4, 1, 12, 0, 0, 0, time.UTC)
		status := &models.Status{
			ID:          snowflake.Now(),
			UpdatedAt:   edited.Add(-time.Hour),
			EditedAt:    &edited,
			URI:         "https://example.com/users/alice/statuses/1",
			Actor:       &models.Actor{URI: "https://example.com/users/alice"},
			Note:        "hello",
			SpoilerText: "cw",
			Sensitive:   true,
		}
		activity := updateActivity(status)
		require.Equal("Update", activity["type"])
		require.Equal("https://example.com/users/alice", activity["actor"])
		require.Equal("https://example.com/users/alice/statuses/1#updates/1680350400", activity["id"])
		object := activity["object"].(map[string]any)
		require.Equal(status.URI, object["id"])
		require.Equal("hello", object["content"])
		require.Equal("cw", object["summary"])
		require.Equal(true, object["sensitive"])
		require.Equal("2023-04-01T12:00:00Z", object["updated"])
	})
	t.Run("Assert an unedited status uses its update time", func(t *testing.T) {
		require := require.New(t)
		updated := time.Date(2023, 4, 1, 12, 0, 0, 0, time.UTC)
		status := &models.Status{
			ID:        snowflake.Now(),
			UpdatedAt: updated,
			URI:       "https://example.com/users/alice/statuses/2",
			Actor:     &models.Actor{URI: "https://example.com/users/alice"},
		}
		activity := updateActivity(status)
		object := activity["object"].(map[string]any)
		require.Equal("2023-04-01T12:00:00Z", object["updated"])
	})
}
