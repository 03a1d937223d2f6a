// Copyright (c) 2026 Rydio. All rights reserved.
// Author: minh.trantq.vn@gmail.com

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhtrantq/rydio/internal/platform/sec"
)

func newTokenService(t *testing.T, accessTTL, refreshTTL time.Duration) *sec.TokenService {
	t.Helper()
	service, err := sec.NewTokenService("access-secret", "refresh-secret", accessTTL, refreshTTL, "rydio.app")
	require.NoError(t, err)
	return service
}

/*
TestTokenService_AccessRoundTrip verifies that generated access tokens carry
the full profile snapshot back through verification.
*/
func TestTokenService_AccessRoundTrip(t *testing.T) {
	service := newTokenService(t, time.Hour, 24*time.Hour)

	token, err := service.GenerateAccessToken("user-1", "minh@rydio.app", "minh", "DRIVER")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.VerifyAccessToken(token)
	require.NoError(t, err)

	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "minh@rydio.app", claims.Email)
	assert.Equal(t, "minh", claims.Username)
	assert.Equal(t, "DRIVER", claims.Role)
	assert.Equal(t, "rydio.app", claims.Issuer)
}

/*
TestTokenService_RefreshRoundTrip verifies the minimal refresh token payload.
*/
func TestTokenService_RefreshRoundTrip(t *testing.T) {
	service := newTokenService(t, time.Hour, 24*time.Hour)

	token, err := service.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	claims, err := service.VerifyRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}

/*
TestTokenService_UniqueIssuance verifies that every issued token is a distinct
string, even when two are minted within the same wall-clock second.

The refresh rotation scheme compares tokens byte-for-byte against the stored
copy, so a repeated token string would make a superseded token pass as current.
*/
func TestTokenService_UniqueIssuance(t *testing.T) {
	service := newTokenService(t, time.Hour, 24*time.Hour)

	seenRefresh := make(map[string]bool)
	seenAccess := make(map[string]bool)
	for i := 0; i < 10; i++ {
		refreshToken, err := service.GenerateRefreshToken("user-1")
		require.NoError(t, err)
		assert.False(t, seenRefresh[refreshToken], "refresh token repeated")
		seenRefresh[refreshToken] = true

		accessToken, err := service.GenerateAccessToken("user-1", "minh@rydio.app", "minh", "USER")
		require.NoError(t, err)
		assert.False(t, seenAccess[accessToken], "access token repeated")
		seenAccess[accessToken] = true
	}
}

/*
TestTokenService_SecretIsolation verifies that access and refresh secrets
are not interchangeable.
*/
func TestTokenService_SecretIsolation(t *testing.T) {
	service := newTokenService(t, time.Hour, 24*time.Hour)

	accessToken, err := service.GenerateAccessToken("user-1", "minh@rydio.app", "minh", "USER")
	require.NoError(t, err)

	// An access token must not verify as a refresh token
	_, err = service.VerifyRefreshToken(accessToken)
	require.Error(t, err)
	assert.ErrorIs(t, err, sec.ErrTokenInvalid)
}

/*
TestTokenService_WrongSecret verifies that tokens signed with another secret
are rejected as invalid, not expired.
*/
func TestTokenService_WrongSecret(t *testing.T) {
	service := newTokenService(t, time.Hour, 24*time.Hour)
	other, err := sec.NewTokenService("other-access", "other-refresh", time.Hour, 24*time.Hour, "rydio.app")
	require.NoError(t, err)

	token, err := other.GenerateAccessToken("user-1", "minh@rydio.app", "minh", "USER")
	require.NoError(t, err)

	_, err = service.VerifyAccessToken(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, sec.ErrTokenInvalid)
}

/*
TestTokenService_Expired verifies that a well-signed but stale token maps to
ErrTokenExpired specifically.
*/
func TestTokenService_Expired(t *testing.T) {
	issuing, err := sec.NewTokenService("access-secret", "refresh-secret", time.Nanosecond, time.Nanosecond, "rydio.app")
	require.NoError(t, err)
	verifying := newTokenService(t, time.Hour, 24*time.Hour)

	token, err := issuing.GenerateAccessToken("user-1", "minh@rydio.app", "minh", "USER")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	_, err = verifying.VerifyAccessToken(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, sec.ErrTokenExpired)
}

/*
TestTokenService_Garbage verifies that malformed strings fail as invalid.
*/
func TestTokenService_Garbage(t *testing.T) {
	service := newTokenService(t, time.Hour, 24*time.Hour)

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := service.VerifyAccessToken(token)
		require.Error(t, err)
		assert.ErrorIs(t, err, sec.ErrTokenInvalid)
	}
}

/*
TestNewTokenService_Misconfiguration verifies startup guards on secrets and TTLs.
*/
func TestNewTokenService_Misconfiguration(t *testing.T) {
	_, err := sec.NewTokenService("", "refresh", time.Hour, time.Hour, "rydio.app")
	assert.Error(t, err)

	_, err = sec.NewTokenService("access", "", time.Hour, time.Hour, "rydio.app")
	assert.Error(t, err)

	_, err = sec.NewTokenService("access", "refresh", 0, time.Hour, "rydio.app")
	assert.Error(t, err)
}
