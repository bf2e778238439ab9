// Package session holds the long-lived authorization state for one
// signed-in player and the Handler that coordinates refreshing it.
package session

import (
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// expiryTolerance is shaved off the server-declared token lifetime so we
// treat a token as expired slightly before the server would reject it.
const expiryTolerance = 30 * time.Second

// AccessToken is the bearer token triple issued by the identity provider.
type AccessToken struct {
	Type       string    `json:"type"`
	Token      string    `json:"token"`
	IDToken    string    `json:"idToken"`
	Expiration time.Time `json:"expiration"`
}

// NewAccessToken builds a token expiring validFor from now, less the expiry
// tolerance.
func NewAccessToken(tokenType, token, idToken string, validFor time.Duration, now time.Time) AccessToken {
	return AccessToken{
		Type:       tokenType,
		Token:      token,
		IDToken:    idToken,
		Expiration: now.Add(validFor - expiryTolerance),
	}
}

// Encoded renders the token for an Authorization header.
func (t AccessToken) Encoded() string {
	return t.Type + " " + t.Token
}

// HasExpiredAt reports whether the token is past its expiration at the given
// instant.
func (t AccessToken) HasExpiredAt(now time.Time) bool {
	return t.Expiration.Before(now)
}

// HasExpired reports whether the token is past its expiration now.
func (t AccessToken) HasExpired() bool {
	return t.HasExpiredAt(time.Now())
}

// UserID derives the player's ID from the access token's subject claim. The
// token is not signature-checked here; we only ever decode tokens the
// provider just handed us.
func (t AccessToken) UserID() (uuid.UUID, error) {
	parsed, _, err := jwtlib.NewParser().ParseUnverified(t.Token, jwtlib.MapClaims{})
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "parsing access token")
	}
	sub, err := parsed.Claims.GetSubject()
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "reading subject claim")
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, errors.Wrapf(err, "subject claim %q is not a user ID", sub)
	}
	return id, nil
}
