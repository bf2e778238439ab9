package auth

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/jrsteele09/go-valorant-client/riot"
	"github.com/jrsteele09/go-valorant-client/session"
)

// GetEntitlementsToken trades the freshly issued access token for the
// secondary entitlement credential the game-service APIs also demand.
func (c *Client) GetEntitlementsToken(ctx context.Context) (string, error) {
	if c.accessToken.Token == "" {
		return "", ErrNoAccessToken
	}
	var reply struct {
		EntitlementsToken string `json:"entitlements_token"`
	}
	if err := c.doJSON(ctx, http.MethodPost, c.entitlementsURL+entitlementsPath, struct{}{}, &reply); err != nil {
		return "", errors.Wrap(err, "fetching entitlements token")
	}
	if reply.EntitlementsToken == "" {
		return "", ErrMissingResponseBody
	}
	return reply.EntitlementsToken, nil
}

// GetUserID resolves the signed-in player's ID from the userinfo endpoint.
func (c *Client) GetUserID(ctx context.Context) (uuid.UUID, error) {
	if c.accessToken.Token == "" {
		return uuid.Nil, ErrNoAccessToken
	}
	var reply struct {
		Sub uuid.UUID `json:"sub"`
	}
	if err := c.doJSON(ctx, http.MethodGet, c.baseURL+userinfoPath, nil, &reply); err != nil {
		return uuid.Nil, errors.Wrap(err, "fetching user info")
	}
	return reply.Sub, nil
}

// GetLocation submits the identity token to the geo-routing endpoint and
// maps the reported region to a known cluster.
func (c *Client) GetLocation(ctx context.Context, token session.AccessToken) (riot.Location, error) {
	var reply struct {
		Token      string `json:"token"`
		Affinities struct {
			Live string `json:"live"`
		} `json:"affinities"`
	}
	body := struct {
		IDToken string `json:"id_token"`
	}{IDToken: token.IDToken}
	if err := c.doJSON(ctx, http.MethodPut, c.geoURL+geoPath, body, &reply); err != nil {
		return riot.Location{}, errors.Wrap(err, "resolving routing location")
	}
	return riot.LocationForRegion(reply.Affinities.Live)
}
