package auth

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-valorant-client/session"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// ExtractAccessToken parses the token triple out of a redirect URL's
// fragment: &-joined key=value pairs carrying token_type, access_token,
// id_token and expires_in (seconds). Missing or malformed material yields
// an error wrapping ErrNoToken rather than a panic; callers treat that as a
// protocol-format failure, not a credentials failure.
func ExtractAccessToken(u *url.URL) (session.AccessToken, error) {
	values, err := fragmentValues(u.Fragment)
	if err != nil {
		return session.AccessToken{}, err
	}
	tokenType := values["token_type"]
	token := values["access_token"]
	idToken := values["id_token"]
	if tokenType == "" || token == "" || idToken == "" {
		return session.AccessToken{}, ErrNoToken
	}
	validFor, err := strconv.Atoi(values["expires_in"])
	if err != nil {
		return session.AccessToken{}, errors.Wrap(ErrNoToken, "expires_in is not an integer")
	}
	return session.NewAccessToken(tokenType, token, idToken, time.Duration(validFor)*time.Second, NowTimeFunc()), nil
}

// fragmentValues splits a fragment into its key/value pairs. A pair without
// exactly one "=" is malformed input worth surfacing, not silently dropping.
func fragmentValues(fragment string) (map[string]string, error) {
	values := make(map[string]string)
	for _, pair := range strings.Split(fragment, "&") {
		parts := strings.Split(pair, "=")
		if len(parts) != 2 {
			return nil, errors.Wrapf(ErrNoToken, "malformed fragment pair %q", pair)
		}
		values[parts[0]] = parts[1]
	}
	return values, nil
}
