// Copyright (c) 2026 Rydio. All rights reserved.
// Author: minh.trantq.vn@gmail.com

/*
Package auth implements the user identity and session management layer.

It defines the core domain entity (User) and the logic for registration,
authentication, token rotation, and password recovery.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to user identity.
*/
package auth

import (
	"time"

	"github.com/minhtrantq/rydio/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the Rydio platform.
type User struct {
	ID              string       `json:"id"`
	Username        string       `json:"username"`
	Email           string       `json:"email"`
	PhoneNumber     string       `json:"phone_number"`
	PasswordHash    string       `json:"-"` // Explicitly omitted from JSON for security.
	Role            sec.UserRole `json:"role"`
	RefreshToken    string       `json:"-"` // Active refresh token. Omitted for security.
	AvatarURL       string       `json:"avatar_url,omitempty"`
	Address         string       `json:"address,omitempty"`
	IsEmailVerified bool         `json:"is_email_verified"`
	IsPhoneVerified bool         `json:"is_phone_verified"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldUsername     = "username"
	FieldEmail        = "email"
	FieldPhoneNumber  = "phone_number"
	FieldPassword     = "password"
	FieldRole         = "role"
	FieldRefreshToken = "refresh_token"
	FieldToken        = "token"
	FieldAccessToken  = "access_token"
	FieldAvatarURL    = "avatar_url"
	FieldAddress      = "address"
	FieldUser         = "user"
	FieldResetURL     = "reset_url"
	FieldResetToken   = "reset_token"
)
