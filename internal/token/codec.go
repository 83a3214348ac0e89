package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/congo-pay/customer_auth/internal/customer"
)

const expiryLeeway = time.Nanosecond

// Claims is the signed payload. Subject carries the customer's phone number.
type Claims struct {
	jwt.RegisteredClaims
}

// Issued is a freshly signed token together with its validity window.
type Issued struct {
	Token     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Codec signs and verifies HS256 tokens. It is immutable after construction
// and safe for concurrent use.
type Codec struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// Option customises a Codec.
type Option func(*Codec)

// WithIssuer sets the iss claim written on issue and required on verify.
func WithIssuer(issuer string) Option {
	return func(c *Codec) { c.issuer = issuer }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

// NewCodec builds a codec for the given secret and validity window.
func NewCodec(secret []byte, ttl time.Duration, opts ...Option) (*Codec, error) {
	if len(secret) == 0 {
		return nil, errors.New("token secret is required")
	}
	if ttl <= 0 {
		return nil, errors.New("token ttl must be positive")
	}
	c := &Codec{
		secret: append([]byte(nil), secret...),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// TTL returns the configured validity window.
func (c *Codec) TTL() time.Duration { return c.ttl }

// Issue signs a token for subject expiring TTL after now.
func (c *Codec) Issue(subject string) (Issued, error) {
	if subject == "" {
		return Issued{}, fmt.Errorf("%w: empty subject", ErrTokenClaim)
	}
	now := c.now().Truncate(time.Second)
	exp := now.Add(c.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return Issued{}, fmt.Errorf("sign token: %w", err)
	}
	return Issued{Token: signed, IssuedAt: now, ExpiresAt: exp}, nil
}

// ExtractSubject verifies raw and returns its subject. The signature is
// checked before any claim is read.
func (c *Codec) ExtractSubject(raw string) (string, error) {
	claims, err := c.parse(raw)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// IsValid reports whether raw verifies and names cust as its subject.
func (c *Codec) IsValid(raw string, cust customer.Customer) bool {
	subject, err := c.ExtractSubject(raw)
	if err != nil {
		return false
	}
	return subject != "" && subject == cust.PhoneNumber
}

func (c *Codec) parse(raw string) (*Claims, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: empty token", ErrMalformedToken)
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
		// the exp instant itself is still valid
		jwt.WithLeeway(expiryLeeway),
	}
	if c.issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.issuer))
	}

	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	}, opts...)
	if err != nil {
		return nil, classify(err)
	}
	if !tok.Valid {
		return nil, fmt.Errorf("%w: token not valid", ErrMalformedToken)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrTokenClaim)
	}
	if claims.IssuedAt != nil && !claims.ExpiresAt.After(claims.IssuedAt.Time) {
		return nil, fmt.Errorf("%w: expiry not after issue time", ErrTokenClaim)
	}
	return claims, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %w", ErrExpiredToken, err)
	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %w", ErrMalformedToken, err)
	default:
		return fmt.Errorf("%w: %w", ErrTokenClaim, err)
	}
}
