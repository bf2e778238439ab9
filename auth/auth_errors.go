package auth

import "github.com/pkg/errors"

var (
	ErrMissingResponseBody        = errors.New("missing response body")
	ErrMissingRedirectURL         = errors.New("missing redirect url")
	ErrNoToken                    = errors.New("no access token in url fragment")
	ErrNoAccessToken              = errors.New("no access token issued yet")
	ErrHandshakeFailed            = errors.New("handshake already failed; start a new client")
	ErrUnexpectedReply            = errors.New("unexpected reply from identity provider")
	ErrTooManyMultifactorAttempts = errors.New("too many multifactor attempts")
)

// messageOverrides humanizes provider error codes we have seen in the wild.
// Unknown codes pass through verbatim.
var messageOverrides = map[string]string{
	"auth_failure": "Invalid username or password.",
}

// AuthenticationError is the provider rejecting the submitted credentials.
type AuthenticationError struct {
	// Message is the provider's raw error code or message.
	Message string
}

func (e *AuthenticationError) Error() string {
	if override, ok := messageOverrides[e.Message]; ok {
		return override
	}
	return e.Message
}
