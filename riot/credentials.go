package riot

import "context"

// Credentials is the username/password pair submitted during the handshake
// and replayed on refresh. The rest of the client treats it as opaque.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// MultifactorInfo describes a multifactor challenge issued by the identity
// provider when password authentication alone is not sufficient.
type MultifactorInfo struct {
	Version    string `json:"mfaVersion"`
	CodeLength int    `json:"multiFactorCodeLength"`
	// Method is the delivery method the provider picked (observed to always
	// be email so far).
	Method  string   `json:"method"`
	Methods []string `json:"methods"`
	// Email is the destination the code was sent to, mostly blanked out.
	Email string `json:"email"`
}

// MultifactorHandler supplies the code for a multifactor challenge, usually
// by prompting the user. Returning an error aborts the handshake.
type MultifactorHandler func(ctx context.Context, info MultifactorInfo) (string, error)
