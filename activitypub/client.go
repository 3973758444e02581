// Package activitypub implements the outbound side of federation: a client
// that signs requests with an account's key and delivers activities to
// remote inboxes.
package activitypub

import (
	"bytes"
	"context"
	"crypto"
	"fmt"
	"io"
	"net/http"

	mcrypto "github.com/boxmein-forks/mastodon/internal/crypto"
	"github.com/boxmein-forks/mastodon/internal/httpsig"
	"github.com/boxmein-forks/mastodon/models"
	"github.com/carlmjohnson/requests"
)

// Client is an ActivityPub client which can be used to deliver activities to
// remote servers on behalf of a local account.
type Client struct {
	keyID      string
	privateKey crypto.PrivateKey
}

// NewClient returns a new ActivityPub client signing as the given account.
func NewClient(signAs *models.Account) (*Client, error) {
	_, privateKey, err := mcrypto.ParseRSAPrivateKey(signAs.PrivateKey)
	if err != nil {
		return nil, err
	}
	return &Client{
		keyID:      signAs.Actor.PublicKeyID(),
		privateKey: privateKey,
	}, nil
}

func (c *Client) RoundTrip(req *http.Request) (*http.Response, error) {
	// the signed digest must cover the bytes the peer receives
	var body []byte
	if req.Body != nil {
		var err error
		body, err = io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		req.Body.Close()
		req.Body = io.NopCloser(bytes.NewReader(body))
	}
	if err := httpsig.Sign(req, c.keyID, c.privateKey, body); err != nil {
		return nil, fmt.Errorf("failed to sign request: %w", err)
	}
	return http.DefaultTransport.RoundTrip(req)
}

// Post posts the given ActivityPub object to the given inbox URL.
func (c *Client) Post(ctx context.Context, url string, obj map[string]any) error {
	return requests.URL(url).
		Header("Content-Type", `application/ld+json; profile="https://www.w3.org/ns/activitystreams"`).
		BodyJSON(obj).
		Transport(c).
		CheckStatus(http.StatusOK, http.StatusCreated, http.StatusAccepted).
		Fetch(ctx)
}
