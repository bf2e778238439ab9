// Package auth implements the handshake against the identity provider:
// cookie establishment, credential submission, multifactor challenges,
// entitlement retrieval, routing-location resolution and cookie-replay
// refresh.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/jrsteele09/go-valorant-client/riot"
	"github.com/jrsteele09/go-valorant-client/session"
)

// handshakeState tracks progress through the handshake so operations cannot
// run out of order. stateErrored absorbs any failed attempt; a Client never
// leaves it.
type handshakeState int

const (
	stateAwaitingCookies handshakeState = iota
	stateReadyForCredentials
	stateMultifactorRequired
	stateTokenIssued
	stateErrored
)

// Client performs the multi-step handshake against the identity provider.
// A Client is good for one handshake; build a fresh one per sign-in or
// refresh attempt.
type Client struct {
	http            *http.Client
	jar             *recordingJar
	baseURL         string
	entitlementsURL string
	geoURL          string
	logger          zerolog.Logger

	state       handshakeState
	accessToken session.AccessToken
}

// ClientOption defines a function type to modify the Client instance.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client. Its cookie jar and
// redirect policy are still replaced: the handshake has to record cookies
// and must see redirects rather than follow them.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		clone := *httpClient
		c.http = &clone
	}
}

// WithBaseURL overrides the identity provider base URL (primarily for
// testing).
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithEntitlementsURL overrides the entitlements base URL (primarily for
// testing).
func WithEntitlementsURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.entitlementsURL = baseURL
	}
}

// WithGeoURL overrides the geo-routing base URL (primarily for testing).
func WithGeoURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.geoURL = baseURL
	}
}

// WithCookies seeds the handshake with cookies carried over from an earlier
// session, letting the provider recognize the device and usually skip the
// multifactor prompt.
func WithCookies(cookies []session.Cookie) ClientOption {
	return func(c *Client) {
		c.jar.seed(cookies)
	}
}

// WithLogger sets the logger; the default discards everything.
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a handshake client in the awaiting-cookies state.
func NewClient(options ...ClientOption) *Client {
	c := &Client{
		http:            &http.Client{},
		jar:             newRecordingJar(),
		baseURL:         riot.AuthBaseURL,
		entitlementsURL: riot.EntitlementsBaseURL,
		geoURL:          riot.GeoBaseURL,
		logger:          zerolog.Nop(),
	}
	for _, option := range options {
		option(c)
	}
	// The access token rides on a redirect URL's fragment, so redirects must
	// surface instead of being followed.
	c.http.Jar = c.jar
	c.http.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return c
}

// Cookies returns every cookie the provider has set so far, for folding into
// a session.
func (c *Client) Cookies() []session.Cookie {
	return c.jar.all()
}

// doJSON runs one JSON exchange. Non-200 replies classify through the same
// taxonomy the dispatcher uses.
func (c *Client) doJSON(ctx context.Context, method, url string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encoding request body")
		}
		reqBody = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.accessToken.Token != "" {
		req.Header.Set(riot.HeaderAuthorization, c.accessToken.Encoded())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "reading response body")
	}
	c.logger.Debug().Str("method", method).Str("url", url).Int("status", resp.StatusCode).Msg("auth exchange")

	if resp.StatusCode != http.StatusOK {
		return riot.ClassifyResponse(resp.StatusCode, resp.Header, data)
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return errors.Wrap(err, "decoding response body")
		}
	}
	return nil
}

// doText runs one exchange and returns the raw body regardless of status.
func (c *Client) doText(ctx context.Context, method, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return "", errors.Wrap(err, "building request")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "reading response body")
	}
	c.logger.Debug().Str("method", method).Str("url", url).Int("status", resp.StatusCode).Msg("auth exchange")
	return string(data), nil
}
