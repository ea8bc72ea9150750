package auth

import (
	"errors"
	"fmt"
)

// Common authentication service errors
var (
	// ErrInvalidToken is the parent of every token validation failure.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrMalformedToken indicates the token could not be parsed.
	ErrMalformedToken = fmt.Errorf("%w: malformed", ErrInvalidToken)

	// ErrInvalidSignature indicates the signature does not verify against the signing key.
	ErrInvalidSignature = fmt.Errorf("%w: signature mismatch", ErrInvalidToken)

	// ErrExpiredToken indicates the token's expiry has been reached.
	ErrExpiredToken = fmt.Errorf("%w: expired", ErrInvalidToken)

	// ErrMissingToken indicates a token was expected but not provided
	ErrMissingToken = errors.New("authentication token is missing")
)
