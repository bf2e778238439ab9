package auth

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-valorant-client/riot"
	"github.com/jrsteele09/go-valorant-client/session"
)

// loginPathPrefix in the reauthorization reply means the provider bounced us
// back to login: the stored cookies no longer identify the device.
const loginPathPrefix = "/login"

// RefreshAccessToken replays the stored cookies against the reauthorization
// endpoint to obtain a fresh access token without credentials. A reply that
// redirects to the login page classifies as a session-expired APIError; the
// caller must re-authenticate with credentials (and possibly MFA) instead.
func (c *Client) RefreshAccessToken(ctx context.Context) (session.AccessToken, error) {
	query := url.Values{
		"client_id":     {authClientID},
		"response_type": {authResponseType},
		"redirect_uri":  {authRedirectURI},
		"nonce":         {authNonce},
		"scope":         {authScope},
	}
	body, err := c.doText(ctx, http.MethodGet, c.baseURL+reauthPath+"?"+query.Encode())
	if err != nil {
		return session.AccessToken{}, errors.Wrap(err, "reauthorizing")
	}

	// The reply is plain text whose last space-delimited token is the
	// redirect URL.
	fields := strings.Fields(body)
	if len(fields) == 0 {
		return session.AccessToken{}, ErrMissingRedirectURL
	}
	redirect, err := url.Parse(fields[len(fields)-1])
	if err != nil {
		return session.AccessToken{}, errors.Wrap(ErrMissingRedirectURL, err.Error())
	}
	if strings.HasPrefix(redirect.Path, loginPathPrefix) {
		return session.AccessToken{}, riot.SessionExpiredError()
	}

	token, err := ExtractAccessToken(redirect)
	if err != nil {
		return session.AccessToken{}, errors.Wrap(err, "invalid token url")
	}
	c.accessToken = token
	c.state = stateTokenIssued
	return token, nil
}
