// Copyright (c) 2026 Rydio. All rights reserved.
// Author: minh.trantq.vn@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing,
// Reset-Token generation) from the domain logic. It acts as an
// Infrastructure service injected into the Application layer via the
// auth service's TokenProvider interface.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/minhtrantq/rydio/pkg/uuidv7"
)

// Verification failure categories.
//
// Callers must distinguish "expired" from "invalid" when choosing the
// user-facing message, even though both map to HTTP 401.
var (
	// ErrTokenExpired is returned when a token's signature is valid but its
	// expiry has passed.
	ErrTokenExpired = errors.New("sec: token has expired")

	// ErrTokenInvalid is returned for malformed tokens, signature mismatches,
	// and unexpected signing methods.
	ErrTokenInvalid = errors.New("sec: token is invalid")
)

// AccessClaims is the payload embedded inside a JWT access token.
//
// # Why custom claims?
//
// By embedding the UserID, Email, Username, and Role directly inside the
// JWT, handlers can reconstruct the caller's profile snapshot WITHOUT a
// database query. The access guard still re-reads the account to reject
// deleted users, but only the lean identity column set.
type AccessClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the JWT payload small.
	UserID   string `json:"uid"`
	Email    string `json:"eml"`
	Username string `json:"unm"`
	Role     string `json:"rol"`
}

// RefreshClaims is the minimal payload of a JWT refresh token.
//
// Refresh tokens deliberately carry only the user ID: the persisted copy on
// the user record, not the claims, is the source of truth for revocation.
type RefreshClaims struct {
	jwt.RegisteredClaims

	UserID string `json:"uid"`
}

// TokenService signs and verifies HS256 JWTs with two independent secrets.
//
// Access and refresh tokens never share a secret, so a leaked access secret
// cannot mint long-lived refresh tokens.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	issuer        string
}

// NewTokenService constructs a TokenService.
//
// An empty secret is a configuration error, reported here so the process
// fails fast at startup instead of at the first login.
func NewTokenService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration, issuer string) (*TokenService, error) {
	if accessSecret == "" {
		return nil, errors.New("sec: access token secret is not configured")
	}
	if refreshSecret == "" {
		return nil, errors.New("sec: refresh token secret is not configured")
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, errors.New("sec: token TTLs must be positive")
	}

	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		issuer:        issuer,
	}, nil
}

// GenerateAccessToken creates a short-lived access token carrying a
// denormalized snapshot of the user's profile.
func (service *TokenService) GenerateAccessToken(userID, email, username, role string) (string, error) {
	currentTime := time.Now()
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			// The jti makes every issuance unique. iat has second resolution,
			// so without it two tokens minted in the same second would be
			// byte-identical.
			ID:        uuidv7.Must(),
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(service.accessTTL)),
		},
		UserID:   userID,
		Email:    email,
		Username: username,
		Role:     role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.accessSecret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign access token: %w", err)
	}

	return signedToken, nil
}

// GenerateRefreshToken creates a long-lived refresh token carrying only
// the user ID.
func (service *TokenService) GenerateRefreshToken(userID string) (string, error) {
	currentTime := time.Now()
	claims := RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			// The jti guarantees rotation always produces a new token string.
			// The stored copy is compared byte-for-byte, so a repeat would
			// defeat reuse detection.
			ID:        uuidv7.Must(),
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(service.refreshTTL)),
		},
		UserID: userID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.refreshSecret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign refresh token: %w", err)
	}

	return signedToken, nil
}

// VerifyAccessToken checks the signature and validity of an access token.
//
// It returns [ErrTokenExpired] for a well-signed but stale token and
// [ErrTokenInvalid] for everything else.
func (service *TokenService) VerifyAccessToken(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := service.verify(tokenString, claims, service.accessSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

// VerifyRefreshToken checks the signature and validity of a refresh token.
func (service *TokenService) VerifyRefreshToken(tokenString string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := service.verify(tokenString, claims, service.refreshSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

// verify parses tokenString into claims using the given HMAC secret.
func (service *TokenService) verify(tokenString string, claims jwt.Claims, secret []byte) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return fmt.Errorf("%w: %w", ErrTokenExpired, err)
		}
		return fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	if !token.Valid {
		return ErrTokenInvalid
	}

	return nil
}
