package token

import "errors"

var (
	// ErrMalformedToken covers bad encoding, a bad signature or an unexpected algorithm.
	ErrMalformedToken = errors.New("malformed token")

	// ErrExpiredToken is returned for a correctly signed token past its expiry.
	ErrExpiredToken = errors.New("token expired")

	// ErrTokenClaim covers any other structural claim problem, such as a missing subject.
	ErrTokenClaim = errors.New("invalid token claims")
)

// Kind tags a decode failure so callers can branch or label without unwrapping.
type Kind string

const (
	KindNone      Kind = ""
	KindMalformed Kind = "malformed"
	KindExpired   Kind = "expired"
	KindClaim     Kind = "claim"
	KindUnknown   Kind = "unknown"
)

// KindOf classifies err returned by Codec.ExtractSubject.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrExpiredToken):
		return KindExpired
	case errors.Is(err, ErrMalformedToken):
		return KindMalformed
	case errors.Is(err, ErrTokenClaim):
		return KindClaim
	default:
		return KindUnknown
	}
}
