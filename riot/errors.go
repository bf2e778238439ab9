package riot

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/pkg/errors"
)

// Kind discriminates the failure classes surfaced by the API client.
type Kind int

const (
	// KindBadResponseCode is any non-200 exchange that fits no more specific
	// kind. The raw body (and parsed RiotError, if present) ride along.
	KindBadResponseCode Kind = iota
	// KindUnauthorized is a 401 without a structured error body, which the
	// API sometimes responds with instead of actual error information.
	KindUnauthorized
	// KindTokenFailure means the access token was rejected ("BAD_CLAIMS"),
	// most likely because it expired.
	KindTokenFailure
	// KindSessionExpired means the session has definitively been
	// invalidated; only fresh credentials (and possibly MFA) recover it.
	KindSessionExpired
	// KindSessionResumption means a refresh failed for an unclear reason,
	// possibly a provider contract change. Reauthenticating may still help.
	KindSessionResumption
	// KindScheduledDowntime means the service is down for maintenance.
	KindScheduledDowntime
	// KindResourceNotFound is the provider's structured not-found code.
	KindResourceNotFound
	// KindRateLimited is a 429; RetryAfter carries the server's hint when
	// one was given.
	KindRateLimited
)

// ErrorCodeKinds maps the provider's structured error codes to kinds. The
// mapping reflects observed behavior rather than a published contract;
// callers may extend it as new codes show up.
var ErrorCodeKinds = map[string]Kind{
	"BAD_CLAIMS":         KindTokenFailure,
	"SCHEDULED_DOWNTIME": KindScheduledDowntime,
	"RESOURCE_NOT_FOUND": KindResourceNotFound,
}

// RiotError is how the API represents an error it encountered: a
// SCREAMING_SNAKE_CASE code plus a human-readable message.
type RiotError struct {
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
}

// APIError is an error received from, or classified against, the API.
type APIError struct {
	Kind Kind
	// StatusCode is set when the error came out of response classification.
	StatusCode int
	// Message is the provider-supplied message, when one was present.
	Message string
	// RetryAfter is the rate-limit hint in seconds; 0 when the server gave
	// none.
	RetryAfter int
	// Body is the raw response body, when the error came from an exchange.
	Body []byte
	// RiotError is the parsed structured error, when the body carried one.
	RiotError *RiotError
	// Err is the underlying cause for session resumption failures.
	Err error
}

func (e *APIError) Error() string {
	switch e.Kind {
	case KindUnauthorized:
		return "unauthorized"
	case KindTokenFailure:
		return fmt.Sprintf("token failure: %s", e.Message)
	case KindSessionExpired:
		return "session expired; reauthentication required"
	case KindSessionResumption:
		return fmt.Sprintf("could not resume session: %v", e.Err)
	case KindScheduledDowntime:
		return fmt.Sprintf("scheduled downtime: %s", e.Message)
	case KindResourceNotFound:
		return "resource not found"
	case KindRateLimited:
		if e.RetryAfter > 0 {
			return fmt.Sprintf("rate limited; retry after %ds", e.RetryAfter)
		}
		return "rate limited"
	}
	return fmt.Sprintf("bad response code %d", e.StatusCode)
}

func (e *APIError) Unwrap() error { return e.Err }

// RecommendsReauthentication reports whether the caller should prompt for
// fresh credentials. The remaining kinds are transient or semantic and
// reauthenticating would not help them.
func (e *APIError) RecommendsReauthentication() bool {
	switch e.Kind {
	case KindUnauthorized, KindTokenFailure, KindSessionExpired, KindSessionResumption:
		return true
	}
	return false
}

// SessionExpiredError reports a definitively invalidated session.
func SessionExpiredError() *APIError {
	return &APIError{Kind: KindSessionExpired}
}

// SessionResumptionError wraps a refresh failure whose cause is unclear.
func SessionResumptionError(err error) *APIError {
	return &APIError{Kind: KindSessionResumption, Err: err}
}

// IsKind reports whether any error in err's chain is an *APIError of the
// given kind.
func IsKind(err error, kind Kind) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// ClassifyResponse turns a completed non-200 exchange into an *APIError. The
// structured error body wins over the raw status code when both are present.
// The dispatcher and the handshake client's support calls share this so a
// given response classifies identically everywhere.
func ClassifyResponse(statusCode int, header http.Header, body []byte) *APIError {
	var riotErr RiotError
	if err := json.Unmarshal(body, &riotErr); err == nil && riotErr.ErrorCode != "" {
		kind, ok := ErrorCodeKinds[riotErr.ErrorCode]
		if !ok {
			kind = KindBadResponseCode
		}
		return &APIError{
			Kind:       kind,
			StatusCode: statusCode,
			Message:    riotErr.Message,
			Body:       body,
			RiotError:  &riotErr,
		}
	}

	switch statusCode {
	case http.StatusUnauthorized:
		return &APIError{Kind: KindUnauthorized, StatusCode: statusCode, Body: body}
	case http.StatusTooManyRequests:
		retryAfter, _ := strconv.Atoi(header.Get(HeaderRetryAfter))
		return &APIError{
			Kind:       KindRateLimited,
			StatusCode: statusCode,
			RetryAfter: retryAfter,
			Body:       body,
		}
	}
	return &APIError{Kind: KindBadResponseCode, StatusCode: statusCode, Body: body}
}
