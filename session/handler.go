package session

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/jrsteele09/go-valorant-client/riot"
)

// Refresher replaces a session's access token, typically by replaying its
// cookies against the identity provider and falling back to a credentialed
// re-auth. onMultifactor is consulted if the provider demands a code along
// the way.
type Refresher interface {
	RefreshSession(ctx context.Context, s Session, onMultifactor riot.MultifactorHandler) (Session, error)
}

// refreshAttempt is the shared outcome slot for one refresh. done is closed
// exactly once, after token and err are set, so every caller parked on the
// attempt observes the same outcome.
type refreshAttempt struct {
	done  chan struct{}
	token AccessToken
	err   error
}

// Handler owns one Session and hands out currently-valid access tokens,
// refreshing on demand. Refreshes are single-flight: however many callers
// arrive while the token is expired, exactly one refresh runs and all of
// them share its result.
type Handler struct {
	refresher     Refresher
	onMultifactor riot.MultifactorHandler
	nowTime       func() time.Time
	waitTimeout   time.Duration
	logger        zerolog.Logger

	mu       sync.Mutex
	session  Session
	inflight *refreshAttempt
}

// HandlerOption defines a function type to modify the Handler instance.
type HandlerOption func(*Handler)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.nowTime = nowFunc
	}
}

// WithMultifactorHandler routes multifactor challenges hit during a refresh
// to the given handler. Without one, a refresh that needs a code fails
// immediately with a session-expired error instead of hanging.
func WithMultifactorHandler(onMultifactor riot.MultifactorHandler) HandlerOption {
	return func(h *Handler) {
		h.onMultifactor = onMultifactor
	}
}

// WithWaitTimeout bounds how long a caller parks behind an in-flight refresh
// before giving up with ErrRefreshWaitTimeout. Zero, the default, means
// callers wait until the refresh resolves or their context is done.
func WithWaitTimeout(timeout time.Duration) HandlerOption {
	return func(h *Handler) {
		h.waitTimeout = timeout
	}
}

// WithLogger sets the logger; the default discards everything.
func WithLogger(logger zerolog.Logger) HandlerOption {
	return func(h *Handler) {
		h.logger = logger
	}
}

// NewHandler creates a Handler owning the given session. refresher is used
// whenever the session's access token has expired.
func NewHandler(s Session, refresher Refresher, options ...HandlerOption) *Handler {
	h := &Handler{
		refresher: refresher,
		nowTime:   time.Now,
		logger:    zerolog.Nop(),
		session:   s,
	}
	for _, option := range options {
		option(h)
	}
	return h
}

// Session returns a snapshot of the current session state, safe to serialize
// or inspect while the handler keeps working.
func (h *Handler) Session() Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	s := h.session
	s.Cookies = slices.Clone(s.Cookies)
	return s
}

// GetAccessToken returns a currently-valid access token, refreshing the
// session first if the held one has expired. Callers arriving during a
// refresh park until that refresh resolves and then share its outcome.
func (h *Handler) GetAccessToken(ctx context.Context) (AccessToken, error) {
	h.mu.Lock()
	if h.session.HasExpired {
		h.mu.Unlock()
		return AccessToken{}, riot.SessionExpiredError()
	}
	if !h.session.AccessToken.HasExpiredAt(h.nowTime()) {
		token := h.session.AccessToken
		h.mu.Unlock()
		return token, nil
	}
	if attempt := h.inflight; attempt != nil {
		h.mu.Unlock()
		return h.awaitRefresh(ctx, attempt)
	}

	attempt := &refreshAttempt{done: make(chan struct{})}
	h.inflight = attempt
	snapshot := h.session
	h.mu.Unlock()

	h.refresh(ctx, attempt, snapshot)
	return attempt.token, attempt.err
}

// awaitRefresh parks the caller behind an in-flight refresh. The caller
// observes exactly that attempt's outcome, never a later one's.
func (h *Handler) awaitRefresh(ctx context.Context, attempt *refreshAttempt) (AccessToken, error) {
	var timeout <-chan time.Time
	if h.waitTimeout > 0 {
		timer := time.NewTimer(h.waitTimeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case <-attempt.done:
		return attempt.token, attempt.err
	case <-timeout:
		return AccessToken{}, ErrRefreshWaitTimeout
	case <-ctx.Done():
		return AccessToken{}, ctx.Err()
	}
}

func (h *Handler) refresh(ctx context.Context, attempt *refreshAttempt, snapshot Session) {
	id := uuid.New()
	h.logger.Debug().Stringer("attempt", id).Msg("refreshing session")

	onMultifactor := h.onMultifactor
	if onMultifactor == nil {
		onMultifactor = func(context.Context, riot.MultifactorInfo) (string, error) {
			return "", riot.SessionExpiredError()
		}
	}

	refreshed, err := h.refresher.RefreshSession(ctx, snapshot, onMultifactor)

	h.mu.Lock()
	switch {
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		// The initiating caller gave up; the session itself is still fine
		// and a later caller may retry the refresh.
		attempt.err = err
		h.logger.Debug().Stringer("attempt", id).Err(err).Msg("session refresh abandoned")
	case err != nil:
		h.session.HasExpired = true
		if !riot.IsKind(err, riot.KindSessionExpired) {
			err = riot.SessionResumptionError(err)
		}
		attempt.err = err
		h.logger.Debug().Stringer("attempt", id).Err(err).Msg("session refresh failed")
	default:
		h.session = refreshed
		attempt.token = refreshed.AccessToken
		h.logger.Debug().Stringer("attempt", id).Msg("session refreshed")
	}
	h.inflight = nil
	h.mu.Unlock()
	close(attempt.done)
}
