// Package client dispatches authenticated requests against the game-service
// APIs: it obtains a currently-valid access token from the session handler,
// attaches the authorization and entitlement headers, executes the exchange
// and classifies non-success responses into the shared error taxonomy.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/jrsteele09/go-valorant-client/auth"
	"github.com/jrsteele09/go-valorant-client/riot"
	"github.com/jrsteele09/go-valorant-client/session"
)

// Client talks to the game APIs on behalf of one signed-in player.
type Client struct {
	location     riot.Location
	userID       uuid.UUID
	entitlements string
	sessions     *session.Handler
	http         *http.Client
	baseURL      string
	liveBaseURL  string
	platform     string
	limiter      *rate.Limiter
	exchanges    *ExchangeLog
	logger       zerolog.Logger

	mu            sync.Mutex
	clientVersion string
}

type config struct {
	httpClient    *http.Client
	refresher     session.Refresher
	onMultifactor riot.MultifactorHandler
	authOptions   []auth.ClientOption
	clientVersion string
	platform      PlatformInfo
	limiter       *rate.Limiter
	logCapacity   int
	logger        zerolog.Logger
	baseURL       string
	liveBaseURL   string
	waitTimeout   time.Duration
}

// Option defines a function type to modify the client configuration.
type Option func(*config)

// WithHTTPClient overrides the HTTP client used for game-API requests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(cfg *config) {
		cfg.httpClient = httpClient
	}
}

// WithRefresher overrides how expired sessions are refreshed (primarily for
// testing). The default replays cookies against the identity provider.
func WithRefresher(refresher session.Refresher) Option {
	return func(cfg *config) {
		cfg.refresher = refresher
	}
}

// WithMultifactorHandler routes refresh-time multifactor challenges to the
// given handler instead of failing the refresh outright.
func WithMultifactorHandler(onMultifactor riot.MultifactorHandler) Option {
	return func(cfg *config) {
		cfg.onMultifactor = onMultifactor
	}
}

// WithAuthOptions applies options to every handshake client the default
// refresher builds.
func WithAuthOptions(options ...auth.ClientOption) Option {
	return func(cfg *config) {
		cfg.authOptions = append(cfg.authOptions, options...)
	}
}

// WithClientVersion sets the client-version header value.
func WithClientVersion(version string) Option {
	return func(cfg *config) {
		cfg.clientVersion = version
	}
}

// WithPlatform overrides the platform descriptor header payload.
func WithPlatform(platform PlatformInfo) Option {
	return func(cfg *config) {
		cfg.platform = platform
	}
}

// WithRateLimit throttles outgoing requests client-side.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(cfg *config) {
		cfg.limiter = rate.NewLimiter(limit, burst)
	}
}

// WithExchangeLogCapacity bounds the in-memory exchange log. Zero or less
// disables recording.
func WithExchangeLogCapacity(capacity int) Option {
	return func(cfg *config) {
		cfg.logCapacity = capacity
	}
}

// WithLogger sets the logger; the default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithBaseURLs overrides the player-data and live-game hosts (primarily for
// testing).
func WithBaseURLs(baseURL, liveBaseURL string) Option {
	return func(cfg *config) {
		cfg.baseURL = baseURL
		cfg.liveBaseURL = liveBaseURL
	}
}

// WithWaitTimeout bounds how long a request waits behind an in-flight
// session refresh.
func WithWaitTimeout(timeout time.Duration) Option {
	return func(cfg *config) {
		cfg.waitTimeout = timeout
	}
}

// New creates a client for a freshly signed-in session, deriving the player
// ID from the access token's subject claim.
func New(s session.Session, options ...Option) (*Client, error) {
	userID, err := s.AccessToken.UserID()
	if err != nil {
		return nil, errors.Wrap(err, "deriving user id")
	}
	return build(s, userID, "", options)
}

// SavedData is everything needed to rebuild a client across launches.
type SavedData struct {
	Session session.Session `json:"session"`
	Version string          `json:"version,omitempty"`
	UserID  uuid.UUID       `json:"userID"`
}

// NewFromSaved rebuilds a client from previously stored data.
func NewFromSaved(saved SavedData, options ...Option) (*Client, error) {
	return build(saved.Session, saved.UserID, saved.Version, options)
}

func build(s session.Session, userID uuid.UUID, version string, options []Option) (*Client, error) {
	cfg := config{
		platform:    DefaultPlatform,
		logCapacity: defaultLogCapacity,
		logger:      zerolog.Nop(),
	}
	for _, option := range options {
		option(&cfg)
	}
	if cfg.httpClient == nil {
		cfg.httpClient = &http.Client{}
	}
	if cfg.refresher == nil {
		cfg.refresher = auth.NewSessionRefresher(cfg.authOptions...)
	}
	if cfg.clientVersion != "" {
		version = cfg.clientVersion
	}
	if cfg.baseURL == "" {
		cfg.baseURL = riot.GameAPIBaseURL(s.Location)
	}
	if cfg.liveBaseURL == "" {
		cfg.liveBaseURL = riot.LiveGameAPIBaseURL(s.Location)
	}

	platform, err := cfg.platform.Encoded()
	if err != nil {
		return nil, err
	}

	handlerOptions := []session.HandlerOption{session.WithLogger(cfg.logger)}
	if cfg.onMultifactor != nil {
		handlerOptions = append(handlerOptions, session.WithMultifactorHandler(cfg.onMultifactor))
	}
	if cfg.waitTimeout > 0 {
		handlerOptions = append(handlerOptions, session.WithWaitTimeout(cfg.waitTimeout))
	}

	return &Client{
		location:      s.Location,
		userID:        userID,
		entitlements:  s.EntitlementsToken,
		sessions:      session.NewHandler(s, cfg.refresher, handlerOptions...),
		http:          cfg.httpClient,
		baseURL:       cfg.baseURL,
		liveBaseURL:   cfg.liveBaseURL,
		platform:      platform,
		limiter:       cfg.limiter,
		exchanges:     NewExchangeLog(cfg.logCapacity),
		logger:        cfg.logger,
		clientVersion: version,
	}, nil
}

// UserID is the signed-in player's ID.
func (c *Client) UserID() uuid.UUID { return c.userID }

// Location is the session's routing location.
func (c *Client) Location() riot.Location { return c.location }

// Session returns a snapshot of the current session state.
func (c *Client) Session() session.Session { return c.sessions.Session() }

// ExchangeLog exposes the recent-exchange log.
func (c *Client) ExchangeLog() *ExchangeLog { return c.exchanges }

// SetClientVersion updates the client-version header value at runtime; the
// API rejects requests from versions it considers outdated.
func (c *Client) SetClientVersion(version string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clientVersion = version
}

func (c *Client) version() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clientVersion
}

// Store captures everything needed to rebuild this client later.
func (c *Client) Store() SavedData {
	return SavedData{
		Session: c.sessions.Session(),
		Version: c.version(),
		UserID:  c.userID,
	}
}

// Do executes one authenticated exchange against the player-data host and
// decodes the response into out (skipped when out is nil).
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	return c.do(ctx, method, c.baseURL+path, body, out)
}

// DoLiveGame is Do against the live-game host.
func (c *Client) DoLiveGame(ctx context.Context, method, path string, body, out any) error {
	return c.do(ctx, method, c.liveBaseURL+path, body, out)
}

func (c *Client) do(ctx context.Context, method, url string, body, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	token, err := c.sessions.GetAccessToken(ctx)
	if err != nil {
		return err
	}

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
	req.Header.Set(riot.HeaderAuthorization, token.Encoded())
	req.Header.Set(riot.HeaderEntitlements, c.entitlements)
	req.Header.Set(riot.HeaderClientPlatform, c.platform)
	if version := c.version(); version != "" {
		req.Header.Set(riot.HeaderClientVersion, version)
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

	c.exchanges.Record(Exchange{
		ID:         uuid.New(),
		Time:       time.Now(),
		Method:     method,
		URL:        url,
		StatusCode: resp.StatusCode,
		Body:       data,
	})
	c.logger.Debug().Str("method", method).Str("url", url).Int("status", resp.StatusCode).Msg("api exchange")

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
