package gcal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pfrederiksen/gradescope-sync/internal/logger"
	"github.com/pfrederiksen/gradescope-sync/internal/tokencache"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// tokenFile mirrors the authorized-user JSON that Google's auth tooling
// writes to token.json.
type tokenFile struct {
	Token        string   `json:"token"`
	RefreshToken string   `json:"refresh_token"`
	TokenURI     string   `json:"token_uri"`
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	Scopes       []string `json:"scopes"`
	Expiry       string   `json:"expiry"`
}

// TokenSource loads the cached authorized-user token and returns a
// source that refreshes it when expired and rewrites the refreshed
// token back to the cache.
func TokenSource(ctx context.Context, cache *tokencache.Cache) (oauth2.TokenSource, error) {
	raw, err := cache.Load()
	if err != nil {
		return nil, err
	}

	var tf tokenFile
	if err := json.Unmarshal(raw, &tf); err != nil {
		return nil, fmt.Errorf("parsing cached token: %w", err)
	}
	if tf.RefreshToken == "" {
		return nil, errors.New("cached token has no refresh token")
	}

	conf := &oauth2.Config{
		ClientID:     tf.ClientID,
		ClientSecret: tf.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       tf.Scopes,
	}
	if tf.TokenURI != "" {
		conf.Endpoint.TokenURL = tf.TokenURI
	}

	tok := &oauth2.Token{
		AccessToken:  tf.Token,
		RefreshToken: tf.RefreshToken,
		Expiry:       parseExpiry(tf.Expiry),
	}

	saving := &savingTokenSource{
		src:   conf.TokenSource(ctx, tok),
		cache: cache,
		file:  tf,
		last:  tok.AccessToken,
	}
	return oauth2.ReuseTokenSource(tok, saving), nil
}

// parseExpiry accepts both RFC 3339 expiries and the offset-less form
// some tooling writes. An unparseable expiry reads as already expired,
// which just forces a refresh.
func parseExpiry(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02T15:04:05.999999", s); err == nil {
		return t.UTC()
	}
	return time.Time{}
}

// savingTokenSource rewrites the cache whenever the underlying source
// hands back a refreshed access token.
type savingTokenSource struct {
	src   oauth2.TokenSource
	cache *tokencache.Cache
	file  tokenFile
	last  string
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.src.Token()
	if err != nil {
		return nil, err
	}
	if tok.AccessToken != s.last {
		s.last = tok.AccessToken
		s.file.Token = tok.AccessToken
		s.file.Expiry = tok.Expiry.UTC().Format(time.RFC3339)
		data, err := json.Marshal(s.file)
		if err == nil {
			err = s.cache.Save(data)
		}
		if err != nil {
			// The refresh itself succeeded; the next run refreshes again.
			logger.Warn("failed to persist refreshed token", logger.Fields{"error": err.Error()})
		}
	}
	return tok, nil
}
