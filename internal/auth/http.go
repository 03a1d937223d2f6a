// Copyright (c) 2026 Rydio. All rights reserved.
// Author: minh.trantq.vn@gmail.com

/*
HTTP delivery layer for user identity management.

It implements the gateway for the authentication lifecycle, from account
creation to session rotation and recovery.

# Architecture

The handler acts as a thin mediation layer between the web and domain services:
  - Protocol: Standard RESTful JSON interface.
  - Security: Handles JWT orchestration and token cookie injection.
  - Verification: Enforces strict input validation before passing to [Service].

This layer is strictly responsible for transport concerns (status codes, headers, JSON).
*/
package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/minhtrantq/rydio/internal/platform/apperr"
	appconfig "github.com/minhtrantq/rydio/internal/platform/config"
	"github.com/minhtrantq/rydio/internal/platform/constants"
	"github.com/minhtrantq/rydio/internal/platform/middleware"
	requestutil "github.com/minhtrantq/rydio/internal/platform/request"
	"github.com/minhtrantq/rydio/internal/platform/respond"
	"github.com/minhtrantq/rydio/internal/platform/sec"
	"github.com/minhtrantq/rydio/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages everything related to the user lifecycle entry points
// (Registration, Login, Token Rotation, Password Reset callbacks).
type Handler struct {
	authService *Service
	appConfig   *appconfig.Config
}

// NewHandler constructs a new [Handler] with its dependencies.
func NewHandler(service *Service, cfg *appconfig.Config) *Handler {
	return &Handler{authService: service, appConfig: cfg}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// The authenticate middleware is applied only to the protected group. Public
// endpoints must stay reachable with an expired access cookie, otherwise the
// refresh flow could never recover a stale session.
//
// # Endpoints
//   - POST /register              : Creates a new account.
//   - POST /login                 : Authenticates and returns a JWT pair.
//   - POST /refresh-token         : Rotates the refresh token.
//   - POST /forgot-password       : Starts password recovery.
//   - POST /reset-password/{token}: Completes password recovery.
//   - POST /logout                : Ends the session (authenticated).
func (handler *Handler) Routes(authenticate func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/refresh-token", handler.refresh)
	router.Post("/forgot-password", handler.forgotPassword)
	router.Post("/reset-password/{token}", handler.resetPassword)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(authenticate)
		r.Use(middleware.RequireAuth)
		r.Post("/logout", handler.logout)
	})

	return router
}

// # Request Payloads

type registerRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	AvatarURL   string `json:"avatar_url"`
	Address     string `json:"address"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// # Cookie Helpers

// setAuthCookies attaches the token pair as HttpOnly cookies.
func (handler *Handler) setAuthCookies(writer http.ResponseWriter, tokens TokenPair) {
	secure := handler.appConfig.IsProduction()

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.AccessTokenCookieName,
		Value:    tokens.AccessToken,
		Path:     constants.AuthCookiePath,
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    tokens.RefreshToken,
		Path:     constants.AuthCookiePath,
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// clearAuthCookies expires both token cookies on the client.
func (handler *Handler) clearAuthCookies(writer http.ResponseWriter) {
	secure := handler.appConfig.IsProduction()

	for _, name := range []string{constants.AccessTokenCookieName, constants.RefreshTokenCookieName} {
		http.SetCookie(writer, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     constants.AuthCookiePath,
			MaxAge:   -1,
			Secure:   secure,
			HttpOnly: true,
			SameSite: http.SameSiteStrictMode,
		})
	}
}

/*
Register handles the creation of a new user account.

POST /api/v1/auth/register

Description: Validates input, checks for identity conflicts, persists a new
user profile, and establishes an initial session.

Request:
  - Body: registerRequest (Username, Email, PhoneNumber, Password, Role?)

Response:
  - 200: AuthSession: Sanitized user profile plus token pair
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: ErrConflict: Username, email, or phone number already exists
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		MinLen(FieldUsername, input.Username, 3).
		MaxLen(FieldUsername, input.Username, 30).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPhoneNumber, input.PhoneNumber).
		Phone(FieldPhoneNumber, input.PhoneNumber).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, 8).
		Password(FieldPassword, input.Password)

	if input.Role != "" {
		validator.OneOf(FieldRole, input.Role,
			string(sec.RoleUser), string(sec.RoleDriver), string(sec.RoleAdmin))
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Register(request.Context(), RegisterInput{
		Username:    input.Username,
		Email:       input.Email,
		PhoneNumber: input.PhoneNumber,
		Password:    input.Password,
		Role:        sec.UserRole(input.Role),
		AvatarURL:   input.AvatarURL,
		Address:     input.Address,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setAuthCookies(writer, session.Tokens)

	respond.OK(writer, map[string]any{
		FieldUser:         session.User,
		FieldAccessToken:  session.Tokens.AccessToken,
		FieldRefreshToken: session.Tokens.RefreshToken,
	}, "User registered successfully")
}

/*
Login authenticates a user and establishes a session.

POST /api/v1/auth/login

Description: Verifies credentials, generates a JWT pair, and injects
HttpOnly token cookies into the response.

Request:
  - Body: loginRequest (Email, Password)

Response:
  - 200: AuthSession: Token pair and sanitized user profile
  - 401: ErrUnauthorized: Invalid credentials
  - 404: ErrNotFound: No account with this email
  - 429: ErrRateLimited: Too many failed attempts
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setAuthCookies(writer, session.Tokens)

	respond.OK(writer, map[string]any{
		FieldUser:         session.User,
		FieldAccessToken:  session.Tokens.AccessToken,
		FieldRefreshToken: session.Tokens.RefreshToken,
	}, "User logged in successfully")
}

/*
Logout terminates the current user session.

POST /api/v1/auth/logout

Description: Clears the stored refresh token and expires the security
cookies on the client.

Response:
  - 200: Success: Session terminated
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.Logout(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.clearAuthCookies(writer)

	respond.OK(writer, nil, "User logged out successfully")
}

/*
Refresh issues a new token pair using a valid refresh token.

POST /api/v1/auth/refresh-token

Description: Reads the refresh token from the cookie or the request body,
verifies it against the persisted copy, and rotates it. Presenting a
superseded token fails even when its signature is still valid.

Response:
  - 200: TokenPair: New access and refresh tokens
  - 401: ErrUnauthorized: Missing, invalid, expired, or reused refresh token
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	incomingToken := ""

	// Cookie first, body fallback for non-browser clients
	if cookie, err := request.Cookie(constants.RefreshTokenCookieName); err == nil && cookie.Value != "" {
		incomingToken = cookie.Value
	} else {
		var input refreshRequest
		if err := requestutil.DecodeJSON(request, &input); err == nil {
			incomingToken = input.RefreshToken
		}
	}

	if incomingToken == "" {
		respond.Error(writer, request, apperr.Unauthorized("Unauthorized request"))
		return
	}

	tokens, err := handler.authService.Refresh(request.Context(), incomingToken)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setAuthCookies(writer, *tokens)

	respond.OK(writer, map[string]any{
		FieldAccessToken:  tokens.AccessToken,
		FieldRefreshToken: tokens.RefreshToken,
	}, "Access token refreshed successfully")
}

/*
ForgotPassword initiates the password recovery flow.

POST /api/v1/auth/forgot-password

Description: Generates a single-use reset token and emails a reset link to
the account holder. Outside production the plaintext token and URL are
echoed in the response for testing.

Request:
  - Body: forgotPasswordRequest (Email)

Response:
  - 200: Success: Reset instructions sent
  - 404: ErrNotFound: No account with this email
  - 500: ErrInternal: Email delivery failure (token rolled back)
*/
func (handler *Handler) forgotPassword(writer http.ResponseWriter, request *http.Request) {
	var input forgotPasswordRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).Email(FieldEmail, input.Email)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	reset, err := handler.authService.ForgotPassword(request.Context(), input.Email)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Plaintext token never leaves the server in production
	var data map[string]string
	if !handler.appConfig.IsProduction() {
		data = map[string]string{
			FieldResetURL:   reset.ResetURL,
			FieldResetToken: reset.ResetToken,
		}
	}

	respond.OK(writer, data, "Password reset instructions sent to email")
}

/*
ResetPassword completes the password recovery flow.

POST /api/v1/auth/reset-password/{token}

Description: Validates the reset token from the URL, updates the user's
password, burns the token, and issues a fresh session.

Request:
  - Path: token (plaintext from the emailed link)
  - Body: resetPasswordRequest (Password)

Response:
  - 200: TokenPair: Fresh session tokens
  - 400: ErrBadRequest: Token is invalid or has expired
*/
func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	token := requestutil.Param(request, FieldToken)
	if token == "" {
		respond.Error(writer, request, validate.RequiredError(FieldToken, "is required"))
		return
	}

	var input resetPasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, 8).
		Password(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	tokens, err := handler.authService.ResetPassword(request.Context(), token, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setAuthCookies(writer, *tokens)

	respond.OK(writer, map[string]any{
		FieldAccessToken:  tokens.AccessToken,
		FieldRefreshToken: tokens.RefreshToken,
	}, "Password reset successful")
}
