package jwt

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/celar/internal/apperr"
)

const testSecret = "test-secret-key-for-signing"

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func newTestService(t *testing.T, clock *fakeClock) *Service {
	t.Helper()

	opts := []Option{}
	if clock != nil {
		opts = append(opts, WithClock(clock.Now))
	}

	svc, err := NewService(testSecret, time.Hour, opts...)
	require.NoError(t, err)
	return svc
}

func TestNewService_EmptySecret(t *testing.T) {
	svc, err := NewService("", time.Hour)
	assert.ErrorIs(t, err, ErrEmptySecret)
	assert.Nil(t, svc)
}

func TestService_IssueAndValidate(t *testing.T) {
	svc := newTestService(t, nil)

	token, expiresAt, err := svc.IssueDefault("alice")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 2*time.Second)
	assert.Equal(t, time.Hour, svc.TTL())

	subject, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
}

func TestService_Validate_Errors(t *testing.T) {
	svc := newTestService(t, nil)

	other, err := NewService("another-secret", time.Hour)
	require.NoError(t, err)
	foreign, _, err := other.IssueDefault("alice")
	require.NoError(t, err)

	expired, _, err := svc.Issue("alice", 0)
	require.NoError(t, err)

	negative, _, err := svc.Issue("alice", -time.Minute)
	require.NoError(t, err)

	foreignExpired, _, err := other.Issue("alice", -time.Hour)
	require.NoError(t, err)

	// Токен без subject, подписанный верным ключом
	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    Issuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	// Алгоритм none не принимается
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "alice",
		Issuer:    Issuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		wantError error
		name      string
		token     string
	}{
		{name: "garbage", token: "not-a-token", wantError: apperr.ErrMalformedToken},
		{name: "empty", token: "", wantError: apperr.ErrMalformedToken},
		{name: "three garbage segments", token: "a.b.c", wantError: apperr.ErrMalformedToken},
		{name: "foreign secret", token: foreign, wantError: apperr.ErrUnverifiedToken},
		{name: "foreign secret and expired", token: foreignExpired, wantError: apperr.ErrUnverifiedToken},
		{name: "none algorithm", token: unsigned, wantError: apperr.ErrUnverifiedToken},
		{name: "zero ttl", token: expired, wantError: apperr.ErrExpiredToken},
		{name: "negative ttl", token: negative, wantError: apperr.ErrExpiredToken},
		{name: "missing subject", token: noSubject, wantError: apperr.ErrMalformedToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, err := svc.Validate(tt.token)
			assert.ErrorIs(t, err, tt.wantError)
			assert.ErrorIs(t, err, apperr.ErrAuthentication)
			assert.Empty(t, subject)
		})
	}
}

func TestService_Validate_Tampered(t *testing.T) {
	svc := newTestService(t, nil)

	token, _, err := svc.IssueDefault("alice")
	require.NoError(t, err)

	// Меняем первый символ подписи
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	replacement := "A"
	if parts[2][0] == 'A' {
		replacement = "B"
	}
	parts[2] = replacement + parts[2][1:]
	tampered := strings.Join(parts, ".")

	_, err = svc.Validate(tampered)
	assert.ErrorIs(t, err, apperr.ErrUnverifiedToken)
}

func TestService_Validate_ExpiresWithClock(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	svc := newTestService(t, clock)

	token, expiresAt, err := svc.Issue("bob", 10*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, clock.now.Add(10*time.Minute), expiresAt)

	clock.now = clock.now.Add(9 * time.Minute)
	subject, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "bob", subject)

	clock.now = expiresAt
	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, apperr.ErrExpiredToken)

	clock.now = expiresAt.Add(time.Hour)
	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, apperr.ErrExpiredToken)
}
