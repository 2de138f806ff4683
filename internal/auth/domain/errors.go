package domain

import "errors"

var (
	// ErrMalformedClient reports a client that violates its registration
	// invariants (e.g. no redirect URIs).
	ErrMalformedClient = errors.New("domain: malformed client")

	// ErrInvalidReference reports a token built without its owning user or client.
	ErrInvalidReference = errors.New("domain: invalid reference")

	// ErrDanglingReference reports a token whose client no longer exists.
	ErrDanglingReference = errors.New("domain: dangling reference")

	// ErrInvalidToken reports a token missing its id or access token, or with a
	// non-positive lifetime.
	ErrInvalidToken = errors.New("domain: invalid token")
)
