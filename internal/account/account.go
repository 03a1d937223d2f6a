// Copyright (c) 2026 Rydio. All rights reserved.
// Author: minh.trantq.vn@gmail.com

/*
Package account handles authenticated user profile management.

It provides functionalities for users to view and update their private
identity data.

# Architecture

  - Domain: This package depends on the auth package for the User entity.
  - Persistence: The contract below is satisfied by the auth package's
    PostgreSQL repository, so both domains share one source of truth.
*/
package account

import (
	"context"

	"github.com/minhtrantq/rydio/internal/auth"
)

// # Repository Contracts

// AccountRepository defines the persistence contract for user profiles.
type AccountRepository interface {
	/*
		FindByID retrieves a user record by their unique ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *auth.User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*auth.User, error)

	/*
		UpdateProfile modifies the mutable profile fields of an existing user.

		Parameters:
		  - context: context.Context
		  - user: *auth.User (Hydrated entity with changes)

		Returns:
		  - error: Storage or constraint failures
	*/
	UpdateProfile(context context.Context, user *auth.User) error
}
