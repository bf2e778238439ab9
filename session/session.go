package session

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/jrsteele09/go-valorant-client/riot"
)

// Cookie is the persistable subset of an identity-provider cookie. The
// provider uses these to recognize the device across requests, which is what
// lets a refresh skip the multifactor prompt.
type Cookie struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Domain string `json:"domain"`
	Path   string `json:"path"`
}

// HTTPCookie converts to the net/http representation.
func (c Cookie) HTTPCookie() *http.Cookie {
	return &http.Cookie{
		Name:   c.Name,
		Value:  c.Value,
		Domain: c.Domain,
		Path:   c.Path,
	}
}

// Session is the long-lived authorization unit produced by a full handshake.
// Its JSON form is the persistence shape callers may serialize.
//
// Exactly one access token is current at a time; the cookie set only ever
// moves forward (each successful handshake or refresh overwrites entries,
// never rolls them back); HasExpired transitions false to true only — a
// session never un-expires, recovering means building a new one.
type Session struct {
	Credentials       riot.Credentials `json:"credentials"`
	AccessToken       AccessToken      `json:"accessToken"`
	EntitlementsToken string           `json:"entitlementsToken"`
	Cookies           []Cookie         `json:"cookies"`
	Location          riot.Location    `json:"location"`
	UserID            uuid.UUID        `json:"userID"`
	// HasExpired is set once the session is found to be unrecoverable,
	// requiring fresh credentials or multifactor input.
	HasExpired bool `json:"hasExpired"`
}
