// Copyright (c) 2026 Rydio. All rights reserved.
// Author: minh.trantq.vn@gmail.com

package auth

import (
	"context"
	"time"

	"github.com/minhtrantq/rydio/internal/platform/sec"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		Exists reports whether any account already uses the given username,
		email, or phone number.

		Parameters:
		  - context: context.Context
		  - username: string
		  - email: string
		  - phoneNumber: string

		Returns:
		  - bool: true if at least one identifier is taken
		  - error: Database retrieval failures
	*/
	Exists(context context.Context, username, email, phoneNumber string) (bool, error)

	/*
		Create persists a brand-new user account to the storage.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		FindIdentity returns the lean identity projection used by the access guard.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - *sec.Identity: ID, username, email, and role only
		  - error: Database retrieval failures
	*/
	FindIdentity(context context.Context, userID string) (*sec.Identity, error)

	/*
		UpdateRefreshToken replaces the stored refresh token for the user.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - refreshToken: string

		Returns:
		  - error: Persistence failures
	*/
	UpdateRefreshToken(context context.Context, userID, refreshToken string) error

	/*
		ClearRefreshToken removes the stored refresh token, ending the session.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Persistence failures
	*/
	ClearRefreshToken(context context.Context, userID string) error

	/*
		SetResetToken stores the hashed password reset token and its expiry.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - tokenHash: string (hex-encoded SHA-256)
		  - expiresAt: time.Time

		Returns:
		  - error: Persistence failures
	*/
	SetResetToken(context context.Context, userID, tokenHash string, expiresAt time.Time) error

	/*
		ClearResetToken removes any pending reset token from the account.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Persistence failures
	*/
	ClearResetToken(context context.Context, userID string) error

	/*
		FindByResetTokenHash returns the account holding an unexpired reset
		token matching the given hash.

		Parameters:
		  - context: context.Context
		  - tokenHash: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByResetTokenHash(context context.Context, tokenHash string) (*User, error)

	/*
		ResetPassword replaces the password hash and clears the reset token
		in a single statement.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - newHash: string

		Returns:
		  - error: Persistence failures
	*/
	ResetPassword(context context.Context, userID, newHash string) error

	/*
		UpdateProfile persists changes to mutable profile fields.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	UpdateProfile(context context.Context, user *User) error
}

// # Volatile Data Access

// LoginAttemptRepository defines the contract for tracking failed login attempts.
type LoginAttemptRepository interface {

	/*
		Failures returns the current failed-attempt count for the key.

		Parameters:
		  - context: context.Context
		  - key: string (normalized email)

		Returns:
		  - int64: Attempt count, zero when no counter exists
		  - error: Retrieval failures
	*/
	Failures(context context.Context, key string) (int64, error)

	/*
		RecordFailure increments the failed-attempt counter, starting the
		expiry window on the first failure.

		Parameters:
		  - context: context.Context
		  - key: string
		  - window: time.Duration

		Returns:
		  - int64: Counter value after the increment
		  - error: Persistence failures
	*/
	RecordFailure(context context.Context, key string, window time.Duration) (int64, error)

	/*
		Clear resets the failed-attempt counter after a successful login.

		Parameters:
		  - context: context.Context
		  - key: string

		Returns:
		  - error: Persistence failures
	*/
	Clear(context context.Context, key string) error
}
