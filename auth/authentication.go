package auth

import (
	"context"
	"net/http"
	"net/url"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-valorant-client/riot"
	"github.com/jrsteele09/go-valorant-client/session"
)

const (
	authorizationPath = "/api/v1/authorization"
	userinfoPath      = "/userinfo"
	reauthPath        = "/authorize"
	entitlementsPath  = "/token/v1"
	geoPath           = "/pas/v1/product/valorant"
)

// Values the provider's own web client sends when opening an authorization
// flow; the reauthorization request must mirror them.
const (
	authClientID     = "play-valorant-web-prod"
	authResponseType = "token id_token"
	authRedirectURI  = "https://playvalorant.com/"
	authNonce        = "1"
	authScope        = "account openid"
)

// maxMultifactorAttempts bounds the resubmission loop so a provider that
// keeps answering with multifactor envelopes (or a user who keeps mistyping
// the code) cannot spin us forever.
const maxMultifactorAttempts = 5

type envelopeType string

const (
	envelopeAuth        envelopeType = "auth"
	envelopeResponse    envelopeType = "response"
	envelopeError       envelopeType = "error"
	envelopeMultifactor envelopeType = "multifactor"
)

// authEnvelope is the reply shape used throughout the handshake. Which of
// the optional fields is populated depends on Type.
type authEnvelope struct {
	Type        envelopeType          `json:"type"`
	Error       string                `json:"error"`
	Response    *tokenResponse        `json:"response"`
	Multifactor *riot.MultifactorInfo `json:"multifactor"`
}

// tokenResponse carries the redirect URL whose fragment holds the token.
type tokenResponse struct {
	Mode       string `json:"mode"`
	Parameters struct {
		URI string `json:"uri"`
	} `json:"parameters"`
}

type cookiesRequest struct {
	ClientID     string `json:"client_id"`
	Nonce        string `json:"nonce"`
	RedirectURI  string `json:"redirect_uri"`
	ResponseType string `json:"response_type"`
	Scope        string `json:"scope"`
}

type credentialsRequest struct {
	Type     envelopeType `json:"type"`
	Username string       `json:"username"`
	Password string       `json:"password"`
	Remember bool         `json:"remember"`
}

// multifactorRequest is camel-cased on the wire, unlike the rest of the
// protocol.
type multifactorRequest struct {
	Type           envelopeType `json:"type"`
	Code           string       `json:"code"`
	RememberDevice bool         `json:"rememberDevice"`
}

// EstablishSession bootstraps the provider's cookies for this handshake. The
// provider must answer with an auth envelope carrying no error; anything
// else is a protocol violation fatal to this attempt.
func (c *Client) EstablishSession(ctx context.Context) error {
	if c.state == stateErrored {
		return ErrHandshakeFailed
	}
	var env authEnvelope
	err := c.doJSON(ctx, http.MethodPost, c.baseURL+authorizationPath, cookiesRequest{
		ClientID:     authClientID,
		Nonce:        authNonce,
		RedirectURI:  authRedirectURI,
		ResponseType: authResponseType,
		Scope:        authScope,
	}, &env)
	if err != nil {
		c.state = stateErrored
		return errors.Wrap(err, "establishing session")
	}
	if env.Type != envelopeAuth || env.Error != "" {
		c.state = stateErrored
		return errors.Wrapf(ErrUnexpectedReply, "cookie bootstrap answered type %q, error %q", env.Type, env.Error)
	}
	c.state = stateReadyForCredentials
	return nil
}

// GetAccessToken submits credentials and walks the envelope protocol until a
// token is issued. onMultifactor supplies the code whenever the provider
// demands one. Establishes the session first if that has not happened yet.
func (c *Client) GetAccessToken(ctx context.Context, credentials riot.Credentials, onMultifactor riot.MultifactorHandler) (session.AccessToken, error) {
	if c.state == stateErrored {
		return session.AccessToken{}, ErrHandshakeFailed
	}
	if c.state == stateAwaitingCookies {
		if err := c.EstablishSession(ctx); err != nil {
			return session.AccessToken{}, err
		}
	}
	var env authEnvelope
	err := c.doJSON(ctx, http.MethodPut, c.baseURL+authorizationPath, credentialsRequest{
		Type:     envelopeAuth,
		Username: credentials.Username,
		Password: credentials.Password,
		Remember: true,
	}, &env)
	if err != nil {
		c.state = stateErrored
		return session.AccessToken{}, errors.Wrap(err, "submitting credentials")
	}
	return c.resolveEnvelope(ctx, env, onMultifactor)
}

// resolveEnvelope interprets handshake replies, resubmitting multifactor
// codes until a token is issued or the attempt fails. The provider answers
// an incorrect code with another multifactor envelope, so the loop may run
// several rounds; maxMultifactorAttempts caps it.
func (c *Client) resolveEnvelope(ctx context.Context, env authEnvelope, onMultifactor riot.MultifactorHandler) (session.AccessToken, error) {
	for attempt := 0; attempt < maxMultifactorAttempts; attempt++ {
		switch env.Type {
		case envelopeAuth:
			c.state = stateErrored
			message := env.Error
			if message == "" {
				message = "<no message given>"
			}
			return session.AccessToken{}, &AuthenticationError{Message: message}

		case envelopeError:
			c.state = stateErrored
			return session.AccessToken{}, errors.Wrap(ErrUnexpectedReply, env.Error)

		case envelopeMultifactor:
			c.state = stateMultifactorRequired
			if env.Multifactor == nil {
				c.state = stateErrored
				return session.AccessToken{}, ErrMissingResponseBody
			}
			code, err := onMultifactor(ctx, *env.Multifactor)
			if err != nil {
				c.state = stateErrored
				return session.AccessToken{}, err
			}
			var next authEnvelope
			err = c.doJSON(ctx, http.MethodPut, c.baseURL+authorizationPath, multifactorRequest{
				Type:           envelopeMultifactor,
				Code:           code,
				RememberDevice: true,
			}, &next)
			if err != nil {
				c.state = stateErrored
				return session.AccessToken{}, errors.Wrap(err, "submitting multifactor code")
			}
			env = next

		case envelopeResponse:
			if env.Response == nil {
				c.state = stateErrored
				return session.AccessToken{}, ErrMissingResponseBody
			}
			redirect, err := url.Parse(env.Response.Parameters.URI)
			if err != nil {
				c.state = stateErrored
				return session.AccessToken{}, errors.Wrap(err, "parsing redirect url")
			}
			token, err := ExtractAccessToken(redirect)
			if err != nil {
				c.state = stateErrored
				return session.AccessToken{}, errors.Wrap(err, "extracting access token")
			}
			c.state = stateTokenIssued
			c.accessToken = token
			return token, nil

		default:
			c.state = stateErrored
			return session.AccessToken{}, errors.Wrapf(ErrUnexpectedReply, "unknown envelope type %q", env.Type)
		}
	}
	c.state = stateErrored
	return session.AccessToken{}, ErrTooManyMultifactorAttempts
}
