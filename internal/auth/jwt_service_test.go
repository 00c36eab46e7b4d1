package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestClock() *fixedClock {
	return &fixedClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func TestJWTService_IssueVerify(t *testing.T) {
	svc := NewJWTService("test-secret", WithClock(newTestClock()))

	for _, subject := range []string{"alice", "bob", "admin", "user.with.dots"} {
		token, err := svc.Issue(subject)
		require.NoError(t, err)

		got, err := svc.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, subject, got)
	}
}

func TestJWTService_DefaultTTL(t *testing.T) {
	clock := newTestClock()
	svc := NewJWTService("test-secret", WithClock(clock))
	assert.Equal(t, 30*time.Minute, svc.TTL())

	token, err := svc.Issue("alice")
	require.NoError(t, err)

	clock.Advance(29 * time.Minute)
	_, err = svc.Verify(token)
	assert.NoError(t, err)

	clock.Advance(time.Minute)
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestJWTService_ZeroTTLNeverVerifies(t *testing.T) {
	svc := NewJWTService("test-secret", WithClock(newTestClock()))

	token, err := svc.IssueWithTTL("alice", 0)
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestJWTService_ExpiryTruncatedToSeconds(t *testing.T) {
	clock := &fixedClock{now: time.Date(2026, 3, 1, 12, 0, 0, 200*int(time.Millisecond), time.UTC)}
	svc := NewJWTService("test-secret", WithClock(clock))

	// 12:00:00.2 + 500ms truncates to an exp of 12:00:00.
	short, err := svc.IssueWithTTL("alice", 500*time.Millisecond)
	require.NoError(t, err)
	_, err = svc.Verify(short)
	assert.ErrorIs(t, err, ErrTokenExpired)

	// 12:00:00.2 + 1500ms truncates to 12:00:01, still ahead of the clock.
	longer, err := svc.IssueWithTTL("alice", 1500*time.Millisecond)
	require.NoError(t, err)
	subject, err := svc.Verify(longer)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
}

func TestJWTService_PastExpiry(t *testing.T) {
	svc := NewJWTService("test-secret", WithClock(newTestClock()))

	token, err := svc.IssueWithTTL("alice", -time.Hour)
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestJWTService_WithTTL(t *testing.T) {
	clock := newTestClock()
	svc := NewJWTService("test-secret", WithClock(clock), WithTTL(5*time.Minute))

	token, err := svc.Issue("alice")
	require.NoError(t, err)

	clock.Advance(6 * time.Minute)
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestJWTService_VerifyFailures(t *testing.T) {
	clock := newTestClock()
	svc := NewJWTService("test-secret", WithClock(clock))
	other := NewJWTService("other-secret", WithClock(clock))

	foreign, err := other.Issue("alice")
	require.NoError(t, err)

	valid, err := svc.Issue("alice")
	require.NoError(t, err)
	parts := strings.Split(valid, ".")
	tampered := parts[0] + "." + parts[1] + ".AAAA" + parts[2][4:]

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice",
			ExpiresAt: jwt.NewNumericDate(clock.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "alice"},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	noSubject, err := svc.IssueWithTTL("", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "empty", token: "", wantErr: ErrTokenMalformed},
		{name: "garbage", token: "not-a-token", wantErr: ErrTokenMalformed},
		{name: "three garbage segments", token: "a.b.c", wantErr: ErrTokenMalformed},
		{name: "foreign secret", token: foreign, wantErr: ErrTokenSignatureInvalid},
		{name: "tampered signature", token: tampered, wantErr: ErrTokenSignatureInvalid},
		{name: "alg none", token: noneToken, wantErr: ErrTokenSignatureInvalid},
		{name: "missing expiry", token: noExpiry, wantErr: ErrTokenExpired},
		{name: "missing subject", token: noSubject, wantErr: ErrTokenMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, err := svc.Verify(tt.token)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, subject)
		})
	}
}
