// Copyright (c) 2026 Rydio. All rights reserved.
// Author: minh.trantq.vn@gmail.com

// PostgreSQL implementation of the auth storage contracts.
//
// # Architecture
//
// Repositories in this file are strictly separated from domain logic. They
// implement domain-defined interfaces (e.g., [UserRepository]) using the
// [pgxpool.Pool] connection manager.
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] types to avoid leaking storage implementation details.
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minhtrantq/rydio/internal/platform/apperr"
	"github.com/minhtrantq/rydio/internal/platform/dberr"
	"github.com/minhtrantq/rydio/internal/platform/sec"
)

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// userColumns is the canonical projection for full account hydration.
// Nullable text columns are coalesced so they scan into plain strings.
const userColumns = `
	id, username, email, phonenumber, passwordhash, role,
	COALESCE(refreshtoken, ''), COALESCE(avatarurl, ''), COALESCE(address, ''),
	isemailverified, isphoneverified, createdat, updatedat`

// scanUser hydrates a User from a row using the userColumns projection.
func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PhoneNumber,
		&user.PasswordHash,
		&user.Role,
		&user.RefreshToken,
		&user.AvatarURL,
		&user.Address,
		&user.IsEmailVerified,
		&user.IsPhoneVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

/*
Exists reports whether an account already uses the username, email, or phone number.

Description: Single round-trip uniqueness probe over the three identity columns.

Parameters:
  - context: context.Context
  - username: string
  - email: string
  - phoneNumber: string

Returns:
  - bool: true when any identifier is taken
  - error: Execution errors
*/
func (repository *PostgresUserRepository) Exists(context context.Context, username, email, phoneNumber string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM users.account
			WHERE username = $1 OR email = $2 OR phonenumber = $3
		)`

	var exists bool
	if err := repository.pool.QueryRow(context, query, username, email, phoneNumber).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres_user_repo_exists_failed: %w", err)
	}

	return exists, nil
}

/*
Create persists a new user record into the users.account table.

Description: Deep-persists account metadata, ensuring timestamps are initialized
if not provided. Unique constraint violations surface as client-safe Conflicts.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: Conflict on duplicate identity, or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users.account (
			id, username, email, phonenumber, passwordhash, role,
			avatarurl, address, isemailverified, isphoneverified, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), NULLIF($8, ''), $9, $10, $11, $12)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.PhoneNumber,
		user.PasswordHash,
		user.Role,
		user.AvatarURL,
		user.Address,
		user.IsEmailVerified,
		user.IsPhoneVerified,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("User with email or username already exists")
		}
		return fmt.Errorf("postgres_user_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByID retrieves a user record by their unique ID.

Description: Primary key resolution for user accounts.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	query := "SELECT " + userColumns + " FROM users.account WHERE id = $1"

	user, err := scanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_id_failed: %w", err)
	}

	return user, nil
}

/*
FindByEmail retrieves a user record by their unique email address.

Description: Standard lookup for authentication and password recovery.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	query := "SELECT " + userColumns + " FROM users.account WHERE email = $1"

	user, err := scanUser(repository.pool.QueryRow(context, query, email))
	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, apperr.NotFoundMessage("User not found with this email")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_email_failed: %w", err)
	}

	return user, nil
}

/*
FindIdentity retrieves the lean identity projection for the access guard.

Description: Selects only the columns the request middleware needs, keeping
the per-request lookup cheap.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *sec.Identity: ID, username, email, and role
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresUserRepository) FindIdentity(context context.Context, userID string) (*sec.Identity, error) {
	const query = "SELECT id, username, email, role FROM users.account WHERE id = $1"

	identity := &sec.Identity{}
	err := repository.pool.QueryRow(context, query, userID).Scan(
		&identity.ID,
		&identity.Username,
		&identity.Email,
		&identity.Role,
	)

	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_identity_failed: %w", err)
	}

	return identity, nil
}

/*
UpdateRefreshToken replaces the stored refresh token for a specific user.

Description: The stored token is the single source of truth for the active
session. Writing a new value implicitly revokes the previous one.

Parameters:
  - context: context.Context
  - userID: string
  - refreshToken: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) UpdateRefreshToken(context context.Context, userID, refreshToken string) error {
	const query = "UPDATE users.account SET refreshtoken = $2, updatedat = $3 WHERE id = $1"

	_, err := repository.pool.Exec(context, query, userID, refreshToken, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_refresh_token_failed: %w", err)
	}

	return nil
}

/*
ClearRefreshToken removes the stored refresh token, ending the active session.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) ClearRefreshToken(context context.Context, userID string) error {
	const query = "UPDATE users.account SET refreshtoken = NULL, updatedat = $2 WHERE id = $1"

	_, err := repository.pool.Exec(context, query, userID, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_clear_refresh_token_failed: %w", err)
	}

	return nil
}

/*
SetResetToken stores the hashed password reset token and its expiry.

Description: Only the SHA-256 hash is persisted. The plaintext token travels
exclusively over email.

Parameters:
  - context: context.Context
  - userID: string
  - tokenHash: string
  - expiresAt: time.Time

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) SetResetToken(context context.Context, userID, tokenHash string, expiresAt time.Time) error {
	const query = `
		UPDATE users.account
		SET passwordresettoken = $2, passwordresetexpires = $3, updatedat = $4
		WHERE id = $1`

	_, err := repository.pool.Exec(context, query, userID, tokenHash, expiresAt, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_set_reset_token_failed: %w", err)
	}

	return nil
}

/*
ClearResetToken removes any pending reset token from the account.

Description: Rollback path when the reset email cannot be delivered.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) ClearResetToken(context context.Context, userID string) error {
	const query = `
		UPDATE users.account
		SET passwordresettoken = NULL, passwordresetexpires = NULL, updatedat = $2
		WHERE id = $1`

	_, err := repository.pool.Exec(context, query, userID, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_clear_reset_token_failed: %w", err)
	}

	return nil
}

/*
FindByResetTokenHash retrieves the account holding an unexpired reset token.

Description: Expiry is enforced in the query itself. An expired token behaves
exactly like an unknown one.

Parameters:
  - context: context.Context
  - tokenHash: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresUserRepository) FindByResetTokenHash(context context.Context, tokenHash string) (*User, error) {
	query := "SELECT " + userColumns + `
		FROM users.account
		WHERE passwordresettoken = $1 AND passwordresetexpires > NOW()`

	user, err := scanUser(repository.pool.QueryRow(context, query, tokenHash))
	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, apperr.NotFound("Reset token")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_reset_token_failed: %w", err)
	}

	return user, nil
}

/*
ResetPassword replaces the password hash and clears the reset token atomically.

Description: Single statement so the token can never outlive the password change.

Parameters:
  - context: context.Context
  - userID: string
  - newHash: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) ResetPassword(context context.Context, userID, newHash string) error {
	const query = `
		UPDATE users.account
		SET passwordhash = $2, passwordresettoken = NULL, passwordresetexpires = NULL, updatedat = $3
		WHERE id = $1`

	_, err := repository.pool.Exec(context, query, userID, newHash, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_reset_password_failed: %w", err)
	}

	return nil
}

/*
UpdateProfile persists changes to a user's mutable profile fields.

Description: Synchronizes the in-memory user state with the database,
refreshing the updatedat timestamp.

Parameters:
  - context: context.Context
  - user: *User

Returns:
  - error: Update failures
*/
func (repository *PostgresUserRepository) UpdateProfile(context context.Context, user *User) error {
	const query = `
		UPDATE users.account
		SET avatarurl = NULLIF($2, ''), address = NULLIF($3, ''), updatedat = $4
		WHERE id = $1`

	user.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.AvatarURL,
		user.Address,
		user.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_profile_failed: %w", err)
	}

	return nil
}
