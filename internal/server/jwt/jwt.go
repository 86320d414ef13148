// Package jwt issues and verifies HS256-signed access tokens.
//
// The codec is pure: it performs no I/O and holds only the signing secret,
// an optional clock skew leeway and a clock. Rotating the secret invalidates
// every outstanding token.
package jwt

import (
	"crypto/hmac"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// MaxLeeway bounds the accepted clock skew.
const MaxLeeway = 5 * time.Second

var (
	// ErrMalformedToken is returned when the token cannot be split or decoded,
	// or its claims are incomplete.
	ErrMalformedToken = errors.New("malformed token")

	// ErrInvalidSignature is returned when the signature does not match the
	// header and payload.
	ErrInvalidSignature = errors.New("invalid token signature")

	// ErrExpiredToken is returned when the token's exp is in the past.
	ErrExpiredToken = errors.New("token expired")

	// ErrEmptySecret is returned by NewCodec for an empty signing secret.
	ErrEmptySecret = errors.New("signing secret must not be empty")
)

// Claims is the verified content of an access token.
type Claims struct {
	IssuedAt  time.Time
	ExpiresAt time.Time
	Subject   string
	ID        string
}

// Option configures a Codec.
type Option func(*Codec)

// WithLeeway tolerates clock skew when checking exp and iat. Values above
// MaxLeeway are capped.
func WithLeeway(d time.Duration) Option {
	return func(c *Codec) {
		c.leeway = min(max(d, 0), MaxLeeway)
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		if now != nil {
			c.now = now
		}
	}
}

// Codec signs and verifies access tokens.
type Codec struct {
	now    func() time.Time
	parser *gojwt.Parser
	secret []byte
	leeway time.Duration
}

// NewCodec creates a codec bound to secret. The secret is copied.
func NewCodec(secret []byte, opts ...Option) (*Codec, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}

	c := &Codec{
		secret: append([]byte(nil), secret...),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.parser = gojwt.NewParser(
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithExpirationRequired(),
		gojwt.WithIssuedAt(),
		gojwt.WithLeeway(c.leeway),
		gojwt.WithTimeFunc(func() time.Time { return c.now() }),
	)
	return c, nil
}

// Issue creates a signed token for subject that expires after ttl.
func (c *Codec) Issue(subject string, ttl time.Duration) (string, *Claims, error) {
	if subject == "" {
		return "", nil, fmt.Errorf("%w: empty subject", ErrMalformedToken)
	}
	if ttl <= 0 {
		return "", nil, fmt.Errorf("token ttl must be positive, got %s", ttl)
	}

	now := c.now()
	registered := gojwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  gojwt.NewNumericDate(now),
		ExpiresAt: gojwt.NewNumericDate(expiry(now, ttl)),
		ID:        uuid.NewString(),
	}

	signed, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, registered).SignedString(c.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, claimsFrom(&registered), nil
}

// Verify checks the signature first and only then decodes and validates the
// claims. Every failure matches exactly one of ErrMalformedToken,
// ErrInvalidSignature or ErrExpiredToken via errors.Is.
func (c *Codec) Verify(token string) (*Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return nil, ErrMalformedToken
	}

	expected, err := c.sign(parts[0] + "." + parts[1])
	if err != nil {
		return nil, err
	}
	if !hmac.Equal([]byte(expected), []byte(parts[2])) {
		return nil, ErrInvalidSignature
	}

	var registered gojwt.RegisteredClaims
	_, err = c.parser.ParseWithClaims(token, &registered, func(*gojwt.Token) (any, error) {
		return c.secret, nil
	})
	switch {
	case errors.Is(err, gojwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	if registered.Subject == "" || registered.IssuedAt == nil {
		return nil, fmt.Errorf("%w: missing sub or iat", ErrMalformedToken)
	}

	return claimsFrom(&registered), nil
}

// String keeps the secret out of formatted output.
func (c *Codec) String() string {
	return "jwt.Codec{alg: HS256}"
}

// GoString keeps the secret out of %#v output.
func (c *Codec) GoString() string {
	return c.String()
}

func (c *Codec) sign(signingString string) (string, error) {
	sig, err := gojwt.SigningMethodHS256.Sign(signingString, c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to compute signature: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(sig), nil
}

// expiry rounds now+ttl up to a whole second; exp is encoded in seconds and
// must never fall before now+ttl.
func expiry(now time.Time, ttl time.Duration) time.Time {
	exp := now.Add(ttl)
	if whole := exp.Truncate(time.Second); !whole.Equal(exp) {
		return whole.Add(time.Second)
	}
	return exp
}

func claimsFrom(rc *gojwt.RegisteredClaims) *Claims {
	claims := &Claims{
		Subject: rc.Subject,
		ID:      rc.ID,
	}
	if rc.IssuedAt != nil {
		claims.IssuedAt = rc.IssuedAt.Time
	}
	if rc.ExpiresAt != nil {
		claims.ExpiresAt = rc.ExpiresAt.Time
	}
	return claims
}
