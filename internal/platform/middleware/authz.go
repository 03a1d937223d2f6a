// Copyright (c) 2026 Rydio. All rights reserved.
// Author: minh.trantq.vn@gmail.com

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/minhtrantq/rydio/internal/platform/apperr"
	"github.com/minhtrantq/rydio/internal/platform/constants"
	"github.com/minhtrantq/rydio/internal/platform/ctxutil"
	"github.com/minhtrantq/rydio/internal/platform/respond"
	"github.com/minhtrantq/rydio/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify access tokens in middleware.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from the concrete
// [sec.TokenService], allowing us to easily inject mocks during unit testing.
type TokenVerifier interface {
	VerifyAccessToken(tokenString string) (*sec.AccessClaims, error)
}

// IdentityStore resolves verified claims into a live account identity.
//
// The implementation must exclude the password hash and the stored refresh
// token from its read — the guard never needs them.
type IdentityStore interface {
	FindIdentity(ctx context.Context, userID string) (*sec.Identity, error)
}

// Authenticate extracts and verifies the JWT from the accessToken cookie or
// the Authorization header.
//
// # Scope
//
// Mount on protected route groups only, never globally. A present-but-expired
// token is rejected here, and the access cookie rides on every request, so a
// global mount would 401 public endpoints like /auth/refresh-token for any
// browser whose access token has lapsed.
//
// # Flow
//  1. Check the 'accessToken' cookie, then 'Authorization: Bearer <token>'.
//  2. If absent, the request proceeds as anonymous ([RequireAuth] rejects it later).
//  3. If present, parse and verify the JWT via [TokenVerifier].
//  4. Resolve the claims' user through [IdentityStore]; a token for a
//     deleted account is rejected even though its signature is valid.
//  5. Inject [*sec.Identity] into the request context for downstream use.
func Authenticate(verifier TokenVerifier, identities IdentityStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			tokenString := extractAccessToken(request)

			// Anonymous access: enforcement happens at RequireAuth/RequireRole.
			if tokenString == "" {
				next.ServeHTTP(writer, request)
				return
			}

			claims, err := verifier.VerifyAccessToken(tokenString)
			if err != nil {
				if errors.Is(err, sec.ErrTokenExpired) {
					respond.Error(writer, request, apperr.Unauthorized("Access token has expired"))
					return
				}
				respond.Error(writer, request, apperr.Unauthorized("Invalid access token"))
				return
			}

			identity, err := identities.FindIdentity(request.Context(), claims.UserID)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid access token"))
				return
			}

			ctx := ctxutil.WithIdentity(request.Context(), identity)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetIdentity(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Unauthorized request"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole blocks requests whose identity is not in the allowed role set.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate]. It automatically
// implies [RequireAuth] so you don't need to mount both.
func RequireRole(allowed ...sec.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity := ctxutil.GetIdentity(request.Context())
			if identity == nil {
				respond.Error(writer, request, apperr.Unauthorized("Unauthorized request"))
				return
			}

			if !identity.Role.In(allowed...) {
				respond.Error(writer, request, apperr.Forbidden("You don't have permission to access this resource"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// extractAccessToken reads the access token from the cookie or the
// Authorization header, preferring the cookie.
func extractAccessToken(request *http.Request) string {
	if cookie, err := request.Cookie(constants.AccessTokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := request.Header.Get(constants.HeaderAuthorization)
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
