// Copyright (c) 2026 Rydio. All rights reserved.
// Author: minh.trantq.vn@gmail.com

/*
HTTP delivery layer for profile management.

It implements the RESTful interface for users to interact with their
account data.

# Security

All endpoints in this package require an active authentication session
provided by the RequireAuth middleware.
*/
package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/minhtrantq/rydio/internal/auth"
	"github.com/minhtrantq/rydio/internal/platform/middleware"
	requestutil "github.com/minhtrantq/rydio/internal/platform/request"
	"github.com/minhtrantq/rydio/internal/platform/respond"
	"github.com/minhtrantq/rydio/internal/platform/validate"
)

// Handler implements the HTTP layer for user account management.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with the account domain's endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/me", handler.getMe)
		r.Patch("/me", handler.updateMe)
	})

	return router
}

// # User Profile Endpoints

/*
GET /api/v1/users/me.

Description: Retrieves the full private profile of the authenticated user.

Response:
  - 200: User: Fully hydrated user profile
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user, "Profile fetched successfully")
}

// updateMeRequest defines the expected JSON payload for profile updates.
type updateMeRequest struct {
	AvatarURL *string `json:"avatar_url"`
	Address   *string `json:"address"`
}

/*
PATCH /api/v1/users/me.

Description: Applies partial updates to the authenticated user's profile.

Request:
  - body: updateMeRequest (Partial JSON)

Response:
  - 200: User: The updated profile
  - 400: ErrInvalidJSON/Validation: Invalid input data
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateMeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	if input.AvatarURL != nil && *input.AvatarURL != "" {
		v.MaxLen(auth.FieldAvatarURL, *input.AvatarURL, 500)
	}
	if input.Address != nil {
		v.MaxLen(auth.FieldAddress, *input.Address, 500)
	}

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateProfile(request.Context(), userID, UpdateProfileInput{
		AvatarURL: input.AvatarURL,
		Address:   input.Address,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user, "Profile updated successfully")
}
