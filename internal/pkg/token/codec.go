// Package token issues and verifies the signed, expiring session token that
// proves a prior successful login.
//
// Tokens are HS256 JWTs. Verification has no leeway and tells an expired
// token apart from every other failure so callers can report which one
// happened.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/epicevents/crm/internal/core/domain"
)

// MinSecretBytes is the shortest accepted signing secret.
const MinSecretBytes = 32

// Claim identifies the holder of a token.
type Claim struct {
	Subject   string
	SessionID string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type sessionClaims struct {
	jwt.RegisteredClaims
}

// Codec signs and verifies tokens with one process-wide secret.
type Codec struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// Option configures a Codec.
type Option func(*Codec)

// WithIssuer stamps tokens with iss and requires it on verification.
func WithIssuer(issuer string) Option {
	return func(c *Codec) { c.issuer = issuer }
}

// WithClock replaces the wall clock used for issuing and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

// NewCodec returns a codec signing with secret.
func NewCodec(secret []byte, opts ...Option) (*Codec, error) {
	if len(secret) < MinSecretBytes {
		return nil, fmt.Errorf("token secret must be at least %d bytes", MinSecretBytes)
	}
	c := &Codec{
		secret: append([]byte(nil), secret...),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Issue signs a token for subject that expires ttl from now.
func (c *Codec) Issue(subject string, ttl time.Duration) (string, Claim, error) {
	if subject == "" {
		return "", Claim{}, errors.New("token subject is empty")
	}
	if ttl <= 0 {
		return "", Claim{}, errors.New("token ttl must be positive")
	}

	now := c.now().UTC()
	claim := Claim{
		Subject:   subject,
		SessionID: uuid.NewString(),
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claim.Subject,
			ID:        claim.SessionID,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(claim.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(claim.ExpiresAt),
		},
	})

	signed, err := t.SignedString(c.secret)
	if err != nil {
		return "", Claim{}, fmt.Errorf("sign token: %w", err)
	}
	// NumericDate truncates to seconds; report what the token actually says.
	claim.IssuedAt = claim.IssuedAt.Truncate(time.Second)
	claim.ExpiresAt = claim.ExpiresAt.Truncate(time.Second)
	return signed, claim, nil
}

// Verify checks signature and expiry. It returns domain.ErrTokenExpired when
// the token is authentic but past its expiry, and domain.ErrTokenInvalid for
// anything else: bad signature, wrong algorithm, malformed input or missing
// claims.
func (c *Codec) Verify(tokenStr string) (Claim, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	}
	if c.issuer != "" {
		options = append(options, jwt.WithIssuer(c.issuer))
	}

	var claims sessionClaims
	parsed, err := jwt.NewParser(options...).ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil {
		// jwt/v5 checks the signature before claims, so an expired error
		// implies the token is authentic. Claim failures are joined, and
		// expiry only wins when it is the sole one.
		if onlyExpired(err) {
			return Claim{}, domain.ErrTokenExpired
		}
		return Claim{}, fmt.Errorf("%w: %v", domain.ErrTokenInvalid, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return Claim{}, domain.ErrTokenInvalid
	}

	claim := Claim{
		Subject:   claims.Subject,
		SessionID: claims.ID,
		ExpiresAt: claims.ExpiresAt.Time.UTC(),
	}
	if claims.IssuedAt != nil {
		claim.IssuedAt = claims.IssuedAt.Time.UTC()
	}
	return claim, nil
}

var claimFailures = []error{
	jwt.ErrTokenInvalidIssuer,
	jwt.ErrTokenNotValidYet,
	jwt.ErrTokenUsedBeforeIssued,
	jwt.ErrTokenRequiredClaimMissing,
	jwt.ErrTokenInvalidAudience,
	jwt.ErrTokenInvalidSubject,
}

func onlyExpired(err error) bool {
	if !errors.Is(err, jwt.ErrTokenExpired) {
		return false
	}
	for _, other := range claimFailures {
		if errors.Is(err, other) {
			return false
		}
	}
	return true
}
