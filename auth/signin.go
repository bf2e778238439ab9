package auth

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jrsteele09/go-valorant-client/riot"
	"github.com/jrsteele09/go-valorant-client/session"
)

// SignIn runs the full handshake and assembles a ready-to-use session:
// cookies, credentials, access token, then entitlements, user ID and routing
// location. The latter three depend only on the access token, not on each
// other, so they resolve concurrently.
func SignIn(ctx context.Context, credentials riot.Credentials, onMultifactor riot.MultifactorHandler, options ...ClientOption) (session.Session, error) {
	c := NewClient(options...)

	token, err := c.GetAccessToken(ctx, credentials, onMultifactor)
	if err != nil {
		return session.Session{}, err
	}

	var (
		entitlements string
		userID       uuid.UUID
		location     riot.Location
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entitlements, err = c.GetEntitlementsToken(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		userID, err = c.GetUserID(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		location, err = c.GetLocation(gctx, token)
		return err
	})
	if err := g.Wait(); err != nil {
		return session.Session{}, err
	}

	return session.Session{
		Credentials:       credentials,
		AccessToken:       token,
		EntitlementsToken: entitlements,
		Cookies:           c.Cookies(),
		Location:          location,
		UserID:            userID,
	}, nil
}

// SessionRefresher refreshes sessions the way the initial handshake built
// them: cookie replay first, then a credentialed re-auth if the provider no
// longer recognizes the device.
type SessionRefresher struct {
	options []ClientOption
}

var _ session.Refresher = (*SessionRefresher)(nil)

// NewSessionRefresher creates a refresher; options apply to every handshake
// client it builds.
func NewSessionRefresher(options ...ClientOption) *SessionRefresher {
	return &SessionRefresher{options: options}
}

// RefreshSession replaces the session's access token, updating its cookies,
// and leaves user ID and location untouched. A multifactor demand during the
// credentialed fallback goes to onMultifactor.
func (r *SessionRefresher) RefreshSession(ctx context.Context, s session.Session, onMultifactor riot.MultifactorHandler) (session.Session, error) {
	options := append([]ClientOption{WithCookies(s.Cookies)}, r.options...)
	c := NewClient(options...)

	token, err := c.RefreshAccessToken(ctx)
	if riot.IsKind(err, riot.KindSessionExpired) {
		// Cookie replay bounced to login. The stored cookies usually still
		// let a credentialed re-auth through without another multifactor
		// round.
		token, err = c.GetAccessToken(ctx, s.Credentials, onMultifactor)
	}
	if err != nil {
		return session.Session{}, err
	}

	s.AccessToken = token
	s.Cookies = c.Cookies()
	return s, nil
}
