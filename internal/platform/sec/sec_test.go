// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/internal/platform/sec"
)

var (
	accessSecret  = []byte(strings.Repeat("a", 32))
	refreshSecret = []byte(strings.Repeat("r", 32))
)

type clock struct{ current time.Time }

func (c *clock) Now() time.Time             { return c.current }
func (c *clock) Advance(step time.Duration) { c.current = c.current.Add(step) }

func newTokenService(t *testing.T, c *clock) *sec.TokenService {
	t.Helper()
	service, err := sec.NewTokenService(sec.TokenConfig{
		AccessSecret:  accessSecret,
		RefreshSecret: refreshSecret,
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    24 * time.Hour,
		Issuer:        "vidora.test",
		Now:           c.Now,
	})
	require.NoError(t, err)
	return service
}

var alice = sec.Subject{UserID: "user-alice", Username: "alice", Email: "alice@x.com", DisplayName: "Alice"}

/*
TestHasher_RoundTrip verifies that a hashed secret matches only itself.
*/
func TestHasher_RoundTrip(t *testing.T) {
	hasher, err := sec.NewHasher(10)
	require.NoError(t, err)

	hash, err := hasher.HashPassword("s3cret!")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", hash)

	assert.True(t, hasher.CheckPasswordHash("s3cret!", hash))
	for _, wrong := range []string{"", "s3cret", "s3cret!!", "S3CRET!", " s3cret!"} {
		assert.False(t, hasher.CheckPasswordHash(wrong, hash), wrong)
	}
	assert.False(t, hasher.CheckDummy("s3cret!"))
}

/*
TestNewHasher_RejectsBadCost verifies cost bounds.
*/
func TestNewHasher_RejectsBadCost(t *testing.T) {
	_, err := sec.NewHasher(1)
	assert.Error(t, err)
}

/*
TestNewTokenService_RejectsSharedSecret verifies that both purposes cannot share a key.
*/
func TestNewTokenService_RejectsSharedSecret(t *testing.T) {
	_, err := sec.NewTokenService(sec.TokenConfig{
		AccessSecret:  accessSecret,
		RefreshSecret: accessSecret,
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	})
	assert.Error(t, err)
}

/*
TestVerifyAccess_UntilExpiry verifies that an access token is valid until its TTL elapses.
*/
func TestVerifyAccess_UntilExpiry(t *testing.T) {
	c := &clock{current: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	service := newTokenService(t, c)

	token, err := service.IssueAccess(alice)
	require.NoError(t, err)

	claims, err := service.VerifyAccess(token)
	require.NoError(t, err)
	assert.Equal(t, "user-alice", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice@x.com", claims.Email)
	assert.Equal(t, "Alice", claims.DisplayName)
	assert.Equal(t, sec.TokenTypeAccess, claims.Type)

	c.Advance(14 * time.Minute)
	_, err = service.VerifyAccess(token)
	assert.NoError(t, err)

	c.Advance(2 * time.Minute)
	_, err = service.VerifyAccess(token)
	assert.True(t, apperr.HasCode(err, apperr.CodeTokenExpired))
}

/*
TestVerifyAccess_Tampered verifies that editing a claim breaks the signature.
*/
func TestVerifyAccess_Tampered(t *testing.T) {
	c := &clock{current: time.Now()}
	service := newTokenService(t, c)

	token, err := service.IssueAccess(alice)
	require.NoError(t, err)

	// Re-sign a forged payload with a different key and splice in the original signature.
	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, sec.AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "vidora.test",
			ExpiresAt: jwt.NewNumericDate(c.Now().Add(time.Hour)),
		},
		UserID: "user-bob",
		Type:   sec.TokenTypeAccess,
	})
	forgedString, err := forged.SignedString([]byte("some-other-secret-value-32-bytes!"))
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	forgedParts := strings.Split(forgedString, ".")
	tampered := forgedParts[0] + "." + forgedParts[1] + "." + parts[2]

	_, err = service.VerifyAccess(tampered)
	assert.True(t, apperr.HasCode(err, apperr.CodeInvalidSignature))

	_, err = service.VerifyAccess("not-a-jwt")
	assert.True(t, apperr.HasCode(err, apperr.CodeInvalidSignature))
}

/*
TestVerify_PurposeSeparation verifies that tokens never cross purposes.
*/
func TestVerify_PurposeSeparation(t *testing.T) {
	c := &clock{current: time.Now()}
	service := newTokenService(t, c)

	access, err := service.IssueAccess(alice)
	require.NoError(t, err)
	refresh, err := service.IssueRefresh(alice.UserID)
	require.NoError(t, err)

	_, err = service.VerifyAccess(refresh)
	assert.True(t, apperr.HasCode(err, apperr.CodeInvalidSignature))

	_, err = service.VerifyRefresh(access)
	assert.True(t, apperr.HasCode(err, apperr.CodeInvalidSignature))

	claims, err := service.VerifyRefresh(refresh)
	require.NoError(t, err)
	assert.Equal(t, alice.UserID, claims.UserID)
	assert.NotEmpty(t, claims.ID)
}

/*
TestVerifyAccess_RejectsOtherAlgorithms verifies that unsigned tokens are refused.
*/
func TestVerifyAccess_RejectsOtherAlgorithms(t *testing.T) {
	c := &clock{current: time.Now()}
	service := newTokenService(t, c)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, sec.AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "vidora.test",
			ExpiresAt: jwt.NewNumericDate(c.Now().Add(time.Hour)),
		},
		UserID: "user-alice",
		Type:   sec.TokenTypeAccess,
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = service.VerifyAccess(token)
	assert.True(t, apperr.HasCode(err, apperr.CodeInvalidSignature))
}

/*
TestIssueRefresh_Unique verifies that two refresh tokens minted in the same instant differ.
*/
func TestIssueRefresh_Unique(t *testing.T) {
	c := &clock{current: time.Now()}
	service := newTokenService(t, c)

	first, err := service.IssueRefresh(alice.UserID)
	require.NoError(t, err)
	second, err := service.IssueRefresh(alice.UserID)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.NotEqual(t, sec.HashToken(first), sec.HashToken(second))
	assert.Len(t, sec.HashToken(first), 64)
}
