package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// DefaultAccessTokenExpiry is the lifetime of tokens issued without an explicit TTL.
const DefaultAccessTokenExpiry = 30 * time.Minute

var (
	// ErrTokenMalformed is returned when a token cannot be parsed.
	ErrTokenMalformed = errors.New("token is malformed")
	// ErrTokenSignatureInvalid is returned when the signature does not match the server key.
	ErrTokenSignatureInvalid = errors.New("token signature is invalid")
	// ErrTokenExpired is returned for well-signed tokens past their expiry.
	ErrTokenExpired = errors.New("token is expired")
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using wall-clock UTC time.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// Claims represents JWT claims. The subject is the user's login.
type Claims struct {
	jwt.RegisteredClaims
}

// JWTService handles JWT token generation and validation.
type JWTService struct {
	secret []byte
	ttl    time.Duration
	clock  Clock
	parser *jwt.Parser
}

// JWTOption customizes a JWTService.
type JWTOption func(*JWTService)

// WithClock overrides the clock used for issuance and expiry checks.
func WithClock(clock Clock) JWTOption {
	return func(s *JWTService) {
		s.clock = clock
	}
}

// WithTTL overrides the default token lifetime. Non-positive values are ignored.
func WithTTL(ttl time.Duration) JWTOption {
	return func(s *JWTService) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// NewJWTService creates a new JWT service with the given secret.
func NewJWTService(secret string, opts ...JWTOption) *JWTService {
	s := &JWTService{
		secret: []byte(secret),
		ttl:    DefaultAccessTokenExpiry,
		clock:  SystemClock{},
		// Expiry is checked against s.clock rather than jwt.TimeFunc.
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TTL returns the lifetime of tokens produced by Issue.
func (s *JWTService) TTL() time.Duration {
	return s.ttl
}

// Issue generates an access token for subject using the default lifetime.
func (s *JWTService) Issue(subject string) (string, error) {
	return s.IssueWithTTL(subject, s.ttl)
}

// IssueWithTTL generates an access token for subject that expires ttl from now.
// The exp claim has whole-second precision and is truncated, so a sub-second
// ttl can yield a token that is already expired.
func (s *JWTService) IssueWithTTL(subject string, ttl time.Duration) (string, error) {
	now := s.clock.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify validates a token and returns its subject.
func (s *JWTService) Verify(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := s.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return "", classifyParseError(err)
	}
	if !token.Valid {
		return "", ErrTokenSignatureInvalid
	}

	// A missing exp is treated as expired; tokens are never open-ended.
	if !claims.VerifyExpiresAt(s.clock.Now(), true) {
		return "", ErrTokenExpired
	}
	if claims.Subject == "" {
		return "", ErrTokenMalformed
	}
	return claims.Subject, nil
}

func classifyParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrTokenMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrTokenSignatureInvalid
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	default:
		return ErrTokenMalformed
	}
}
