package token

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/congo-pay/customer_auth/internal/customer"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newCodec(t *testing.T, opts ...Option) *Codec {
	t.Helper()
	c, err := NewCodec(testSecret, time.Hour, opts...)
	require.NoError(t, err)
	return c
}

func TestIssueExtractRoundTrip(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	c := newCodec(t, WithClock(fixedClock(now)), WithIssuer("customer-auth"))

	issued, err := c.Issue("9876543210")
	require.NoError(t, err)
	assert.Equal(t, now, issued.IssuedAt)
	assert.Equal(t, now.Add(time.Hour), issued.ExpiresAt)

	subject, err := c.ExtractSubject(issued.Token)
	require.NoError(t, err)
	assert.Equal(t, "9876543210", subject)
}

func TestIssueRejectsEmptySubject(t *testing.T) {
	c := newCodec(t)
	_, err := c.Issue("")
	assert.ErrorIs(t, err, ErrTokenClaim)
}

func TestExtractExpired(t *testing.T) {
	issuedAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	issuer := newCodec(t, WithClock(fixedClock(issuedAt)))
	issued, err := issuer.Issue("9876543210")
	require.NoError(t, err)

	later := newCodec(t, WithClock(fixedClock(issuedAt.Add(2*time.Hour))))
	_, err = later.ExtractSubject(issued.Token)
	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.Equal(t, KindExpired, KindOf(err))

	justAfter := newCodec(t, WithClock(fixedClock(issued.ExpiresAt.Add(time.Second))))
	_, err = justAfter.ExtractSubject(issued.Token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestExtractAtExpiryInstantIsStillValid(t *testing.T) {
	issuedAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	issued, err := newCodec(t, WithClock(fixedClock(issuedAt))).Issue("9876543210")
	require.NoError(t, err)

	atExpiry := newCodec(t, WithClock(fixedClock(issued.ExpiresAt)))
	subject, err := atExpiry.ExtractSubject(issued.Token)
	require.NoError(t, err)
	assert.Equal(t, "9876543210", subject)
	assert.True(t, atExpiry.IsValid(issued.Token, customer.Customer{PhoneNumber: "9876543210"}))
}

func TestExtractTamperedPayload(t *testing.T) {
	c := newCodec(t)
	issued, err := c.Issue("9876543210")
	require.NoError(t, err)

	parts := strings.Split(issued.Token, ".")
	require.Len(t, parts, 3)

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	var claims map[string]any
	require.NoError(t, json.Unmarshal(payload, &claims))
	claims["sub"] = "1111111111"
	forged, err := json.Marshal(claims)
	require.NoError(t, err)
	parts[1] = base64.RawURLEncoding.EncodeToString(forged)

	_, err = c.ExtractSubject(strings.Join(parts, "."))
	assert.ErrorIs(t, err, ErrMalformedToken)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestExtractWrongSecret(t *testing.T) {
	other, err := NewCodec([]byte("another-secret-another-secret-xx"), time.Hour)
	require.NoError(t, err)
	issued, err := other.Issue("9876543210")
	require.NoError(t, err)

	_, err = newCodec(t).ExtractSubject(issued.Token)
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestExtractGarbageAndEmpty(t *testing.T) {
	c := newCodec(t)
	for _, raw := range []string{"", "garbage", "a.b.c", "xyz.."} {
		_, err := c.ExtractSubject(raw)
		assert.ErrorIs(t, err, ErrMalformedToken, raw)
		assert.Equal(t, KindMalformed, KindOf(err), raw)
	}
}

func TestExtractRejectsNoneAlgorithm(t *testing.T) {
	claims := jwt.MapClaims{"sub": "9876543210", "exp": time.Now().Add(time.Hour).Unix()}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newCodec(t).ExtractSubject(raw)
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestExtractClaimProblems(t *testing.T) {
	now := time.Now()
	sign := func(claims jwt.MapClaims) string {
		raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
		require.NoError(t, err)
		return raw
	}

	cases := map[string]string{
		"missing subject": sign(jwt.MapClaims{"iat": now.Unix(), "exp": now.Add(time.Hour).Unix()}),
		"missing expiry":  sign(jwt.MapClaims{"sub": "9876543210", "iat": now.Unix()}),
		"expiry before issue": sign(jwt.MapClaims{
			"sub": "9876543210",
			"iat": now.Add(2 * time.Hour).Unix(),
			"exp": now.Add(time.Hour).Unix(),
		}),
	}
	c := newCodec(t)
	for name, raw := range cases {
		_, err := c.ExtractSubject(raw)
		assert.ErrorIs(t, err, ErrTokenClaim, name)
		assert.Equal(t, KindClaim, KindOf(err), name)
	}
}

func TestExtractWrongIssuer(t *testing.T) {
	issued, err := newCodec(t, WithIssuer("someone-else")).Issue("9876543210")
	require.NoError(t, err)

	_, err = newCodec(t, WithIssuer("customer-auth")).ExtractSubject(issued.Token)
	assert.ErrorIs(t, err, ErrTokenClaim)
}

func TestIsValid(t *testing.T) {
	c := newCodec(t)
	issued, err := c.Issue("9876543210")
	require.NoError(t, err)

	assert.True(t, c.IsValid(issued.Token, customer.Customer{PhoneNumber: "9876543210"}))
	assert.False(t, c.IsValid(issued.Token, customer.Customer{PhoneNumber: "1111111111"}))
	assert.False(t, c.IsValid("garbage", customer.Customer{PhoneNumber: "9876543210"}))
	assert.False(t, c.IsValid("", customer.Customer{}))
}

func TestNewCodecValidation(t *testing.T) {
	_, err := NewCodec(nil, time.Hour)
	assert.Error(t, err)
	_, err = NewCodec(testSecret, 0)
	assert.Error(t, err)
}

func TestKindOfUnknown(t *testing.T) {
	assert.Equal(t, KindNone, KindOf(nil))
	assert.Equal(t, KindUnknown, KindOf(assert.AnError))
}
