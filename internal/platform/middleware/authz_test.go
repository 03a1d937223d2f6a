// Copyright (c) 2026 Rydio. All rights reserved.
// Author: minh.trantq.vn@gmail.com

package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhtrantq/rydio/internal/platform/apperr"
	"github.com/minhtrantq/rydio/internal/platform/ctxutil"
	"github.com/minhtrantq/rydio/internal/platform/middleware"
	"github.com/minhtrantq/rydio/internal/platform/sec"
)

// fakeIdentityStore resolves user IDs from an in-memory map.
type fakeIdentityStore struct {
	identities map[string]*sec.Identity
}

func (store *fakeIdentityStore) FindIdentity(_ context.Context, userID string) (*sec.Identity, error) {
	identity, ok := store.identities[userID]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return identity, nil
}

func newGuardFixture(t *testing.T) (*sec.TokenService, *fakeIdentityStore) {
	t.Helper()
	tokens, err := sec.NewTokenService("access-secret", "refresh-secret", time.Hour, 24*time.Hour, "rydio.app")
	require.NoError(t, err)

	store := &fakeIdentityStore{identities: map[string]*sec.Identity{
		"user-1": {ID: "user-1", Username: "minh", Email: "minh@rydio.app", Role: sec.RoleUser},
		"admin-1": {ID: "admin-1", Username: "root", Email: "root@rydio.app", Role: sec.RoleAdmin},
	}}
	return tokens, store
}

// echoIdentity writes the identity resolved by the middleware chain.
func echoIdentity(writer http.ResponseWriter, request *http.Request) {
	identity := ctxutil.GetIdentity(request.Context())
	if identity == nil {
		writer.WriteHeader(http.StatusOK)
		_, _ = writer.Write([]byte("anonymous"))
		return
	}
	_ = json.NewEncoder(writer).Encode(identity)
}

/*
TestAuthenticate_NoToken verifies anonymous pass-through without a token.
*/
func TestAuthenticate_NoToken(t *testing.T) {
	tokens, store := newGuardFixture(t)

	handler := middleware.Authenticate(tokens, store)(http.HandlerFunc(echoIdentity))
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "anonymous", recorder.Body.String())
}

/*
TestAuthenticate_BearerHeader verifies a valid Authorization header resolves
the identity into the request context.
*/
func TestAuthenticate_BearerHeader(t *testing.T) {
	tokens, store := newGuardFixture(t)

	accessToken, err := tokens.GenerateAccessToken("user-1", "minh@rydio.app", "minh", "USER")
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Authorization", "Bearer "+accessToken)

	handler := middleware.Authenticate(tokens, store)(http.HandlerFunc(echoIdentity))
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"user-1"`)
}

/*
TestAuthenticate_Cookie verifies the accessToken cookie is honored.
*/
func TestAuthenticate_Cookie(t *testing.T) {
	tokens, store := newGuardFixture(t)

	accessToken, err := tokens.GenerateAccessToken("user-1", "minh@rydio.app", "minh", "USER")
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.AddCookie(&http.Cookie{Name: "accessToken", Value: accessToken})

	handler := middleware.Authenticate(tokens, store)(http.HandlerFunc(echoIdentity))
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"user-1"`)
}

/*
TestAuthenticate_BadToken verifies wrong-secret tokens are rejected with 401.
*/
func TestAuthenticate_BadToken(t *testing.T) {
	tokens, store := newGuardFixture(t)

	forged, err := sec.NewTokenService("forged-secret", "forged-refresh", time.Hour, time.Hour, "rydio.app")
	require.NoError(t, err)
	forgedToken, err := forged.GenerateAccessToken("user-1", "minh@rydio.app", "minh", "USER")
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Authorization", "Bearer "+forgedToken)

	handler := middleware.Authenticate(tokens, store)(http.HandlerFunc(echoIdentity))
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Invalid access token")
}

/*
TestAuthenticate_ExpiredToken verifies the expiry-specific 401 message.
*/
func TestAuthenticate_ExpiredToken(t *testing.T) {
	tokens, store := newGuardFixture(t)

	issuing, err := sec.NewTokenService("access-secret", "refresh-secret", time.Nanosecond, time.Hour, "rydio.app")
	require.NoError(t, err)
	staleToken, err := issuing.GenerateAccessToken("user-1", "minh@rydio.app", "minh", "USER")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Authorization", "Bearer "+staleToken)

	handler := middleware.Authenticate(tokens, store)(http.HandlerFunc(echoIdentity))
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Access token has expired")
}

/*
TestAuthenticate_DeletedUser verifies a signature-valid token for a missing
account is rejected.
*/
func TestAuthenticate_DeletedUser(t *testing.T) {
	tokens, store := newGuardFixture(t)

	accessToken, err := tokens.GenerateAccessToken("ghost", "ghost@rydio.app", "ghost", "USER")
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Authorization", "Bearer "+accessToken)

	handler := middleware.Authenticate(tokens, store)(http.HandlerFunc(echoIdentity))
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Invalid access token")
}

/*
TestRequireAuth verifies anonymous requests are blocked at protected routes.
*/
func TestRequireAuth(t *testing.T) {
	handler := middleware.RequireAuth(http.HandlerFunc(echoIdentity))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Unauthorized request")

	// Authenticated requests pass
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := ctxutil.WithIdentity(request.Context(), &sec.Identity{ID: "user-1", Role: sec.RoleUser})
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, request.WithContext(ctx))
	assert.Equal(t, http.StatusOK, recorder.Code)
}

/*
TestRequireRole verifies set-membership authorization.
*/
func TestRequireRole(t *testing.T) {
	handler := middleware.RequireRole(sec.RoleAdmin)(http.HandlerFunc(echoIdentity))

	// Anonymous gets 401
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	// USER gets 403 on an admin-only route
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := ctxutil.WithIdentity(request.Context(), &sec.Identity{ID: "user-1", Role: sec.RoleUser})
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, request.WithContext(ctx))
	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "You don't have permission to access this resource")

	// ADMIN passes
	request = httptest.NewRequest(http.MethodGet, "/", nil)
	ctx = ctxutil.WithIdentity(request.Context(), &sec.Identity{ID: "admin-1", Role: sec.RoleAdmin})
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, request.WithContext(ctx))
	assert.Equal(t, http.StatusOK, recorder.Code)
}
