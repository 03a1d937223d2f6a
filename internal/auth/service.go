// Copyright (c) 2026 Rydio. All rights reserved.
// Author: minh.trantq.vn@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/minhtrantq/rydio/internal/mail"
	"github.com/minhtrantq/rydio/internal/platform/apperr"
	"github.com/minhtrantq/rydio/internal/platform/sec"
	"github.com/minhtrantq/rydio/pkg/uuidv7"
)

// # Contracts & Types

// TokenProvider defines the contract for generating and verifying security tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT carrying the user's profile snapshot.
	//
	// # Parameters
	//   - userID: The ID of the account.
	//   - email: The email of the account.
	//   - username: The username of the account.
	//   - role: The role of the account.
	//
	// # Returns
	//   - A signed JWT string, or an error if signing fails.
	GenerateAccessToken(userID, email, username, role string) (string, error)

	// GenerateRefreshToken creates a signed long-lived JWT carrying only the user ID.
	GenerateRefreshToken(userID string) (string, error)

	// VerifyRefreshToken checks the signature and validity of a refresh token.
	VerifyRefreshToken(tokenString string) (*sec.RefreshClaims, error)
}

// Config carries the service-level settings the auth flows need.
type Config struct {
	AppName     string
	EmailFrom   string
	FrontendURL string
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or token rotation logic must be reviewed by the security team.
type Service struct {
	userRepository    UserRepository
	attemptRepository LoginAttemptRepository
	tokenProvider     TokenProvider
	notifier          mail.Notifier
	config            Config
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	attemptRepo LoginAttemptRepository,
	tokenProv TokenProvider,
	notifier mail.Notifier,
	config Config,
) *Service {
	return &Service{
		userRepository:    userRepo,
		attemptRepository: attemptRepo,
		tokenProvider:     tokenProv,
		notifier:          notifier,
		config:            config,
	}
}

// TokenPair holds a freshly issued access and refresh token.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthSession represents a successfully established user session.
type AuthSession struct {
	User   *User
	Tokens TokenPair
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Username    string
	Email       string
	PhoneNumber string
	Password    string
	Role        sec.UserRole
	AvatarURL   string
	Address     string
}

/*
Register validates, hashes, and persists a brand new user account.

Description: Deep-enrollment of a new member. Uniqueness across username,
email, and phone number is probed in a single combined query, then enforced
again by database constraints at insert time.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *AuthSession: Created entity plus a fresh token pair
  - error: Conflict (if identity exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*AuthSession, error) {

	// Canonical identity form: lowercase username and email, trimmed phone.
	username := strings.ToLower(strings.TrimSpace(input.Username))
	email := strings.ToLower(strings.TrimSpace(input.Email))
	phoneNumber := strings.TrimSpace(input.PhoneNumber)

	// Single combined existence probe across the three identity columns.
	// Return a client-safe Conflict error.
	exists, err := service.userRepository.Exists(context, username, email, phoneNumber)
	if err != nil {
		return nil, fmt.Errorf("auth_service_exists_check_failed: %w", err)
	}
	if exists {
		return nil, apperr.Conflict("User already exists")
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	role := input.Role
	if role == "" {
		role = sec.RoleUser
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:           uuidv7.Must(),
		Username:     username,
		Email:        email,
		PhoneNumber:  phoneNumber,
		PasswordHash: hashedPassword,
		Role:         role,
		AvatarURL:    strings.TrimSpace(input.AvatarURL),
		Address:      strings.TrimSpace(input.Address),
	}

	// Persist the user to the database
	if err := service.userRepository.Create(context, user); err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	// Issue the initial token pair so the caller is logged in immediately
	tokens, err := service.issueTokens(context, user.ID)
	if err != nil {
		return nil, err
	}

	return &AuthSession{User: user, Tokens: *tokens}, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

/*
Login validates user credentials and issues security tokens.

Description: Verifies identity, performs constant-time password comparison,
and rotates the stored refresh token. Failed attempts feed a Redis counter
that locks the account after too many failures within the window.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *AuthSession: Transport-ready session identifiers
  - error: NotFound, Unauthorized, RateLimited, or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*AuthSession, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	// Refuse outright when the account is already locked out
	failures, err := service.attemptRepository.Failures(context, email)
	if err != nil {
		return nil, fmt.Errorf("auth_service_attempt_lookup_failed: %w", err)
	}
	if failures >= LoginMaxAttempts {
		return nil, apperr.RateLimited(int(LoginAttemptWindow.Seconds()))
	}

	user, err := service.userRepository.FindByEmail(context, email)
	if err != nil {
		if apperr.IsAppError(err) {
			return nil, apperr.NotFoundMessage("User does not exist")
		}
		return nil, fmt.Errorf("auth_service_login_lookup_failed: %w", err)
	}

	// Verify password hash using constant-time comparison in bcrypt to prevent timing attacks
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		if _, recordErr := service.attemptRepository.RecordFailure(context, email, LoginAttemptWindow); recordErr != nil {
			return nil, fmt.Errorf("auth_service_attempt_record_failed: %w", recordErr)
		}
		return nil, apperr.Unauthorized("Invalid credentials")
	}

	// Successful login wipes the failure counter
	if err := service.attemptRepository.Clear(context, email); err != nil {
		return nil, fmt.Errorf("auth_service_attempt_clear_failed: %w", err)
	}

	tokens, err := service.issueTokens(context, user.ID)
	if err != nil {
		return nil, err
	}

	return &AuthSession{User: user, Tokens: *tokens}, nil
}

/*
Logout permanently revokes the user's active session.

Description: Clears the stored refresh token so it can never be redeemed again.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Revocation failures
*/
func (service *Service) Logout(context context.Context, userID string) error {
	if err := service.userRepository.ClearRefreshToken(context, userID); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}
	return nil
}

// # Session Management

/*
Refresh implements the refresh token rotation mechanism.

Description: Verifies the presented refresh token against both its signature
and the persisted copy on the user record. A signature-valid token that no
longer matches the stored one has been superseded, which is treated as reuse.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - *TokenPair: New rotated tokens
  - error: Unauthorized or storage failures
*/
func (service *Service) Refresh(context context.Context, refreshToken string) (*TokenPair, error) {

	// Cryptographic check first: signature and expiry
	claims, err := service.tokenProvider.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid refresh token")
	}

	user, err := service.userRepository.FindByID(context, claims.UserID)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid refresh token")
	}

	// The persisted copy is the source of truth for revocation. A mismatch
	// means this token was rotated away or the user logged out.
	if user.RefreshToken == "" || refreshToken != user.RefreshToken {
		return nil, apperr.Unauthorized("Refresh token is expired or used")
	}

	return service.issueTokens(context, user.ID)
}

/*
issueTokens generates a fresh access and refresh pair and persists the
refresh token onto the user record.

Description: Any failure along the way, including the user lookup, collapses
into a single opaque internal error so token-library details never leak.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *TokenPair: Signed tokens
  - error: apperr.Internal wrapping the underlying cause
*/
func (service *Service) issueTokens(context context.Context, userID string) (*TokenPair, error) {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return nil, apperr.InternalMessage("Error while generating tokens", err)
	}

	accessToken, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Email, user.Username, string(user.Role))
	if err != nil {
		return nil, apperr.InternalMessage("Error while generating tokens", err)
	}

	refreshToken, err := service.tokenProvider.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, apperr.InternalMessage("Error while generating tokens", err)
	}

	if err := service.userRepository.UpdateRefreshToken(context, user.ID, refreshToken); err != nil {
		return nil, apperr.InternalMessage("Error while generating tokens", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// # Password Recovery

// ResetRequest carries the artifacts of a successful forgot-password call.
type ResetRequest struct {
	ResetToken string
	ResetURL   string
}

/*
ForgotPassword initiates the forgot-password flow.

Description: Generates a single-use reset token, stores only its SHA-256
hash, and emails the plaintext to the account holder. If the email cannot
be delivered the stored token is rolled back so no orphaned token lingers.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *ResetRequest: Plaintext token and reset URL (for development echo)
  - error: NotFound or delivery failures
*/
func (service *Service) ForgotPassword(context context.Context, email string) (*ResetRequest, error) {
	normalizedEmail := strings.ToLower(strings.TrimSpace(email))

	user, err := service.userRepository.FindByEmail(context, normalizedEmail)
	if err != nil {
		if apperr.IsAppError(err) {
			return nil, apperr.NotFoundMessage("User not found")
		}
		return nil, fmt.Errorf("auth_service_forgot_lookup_failed: %w", err)
	}

	// Generate the single-use token. Plaintext goes to email, hash to storage.
	plaintext, tokenHash, err := sec.GenerateResetToken()
	if err != nil {
		return nil, fmt.Errorf("auth_service_generate_reset_token_failed: %w", err)
	}

	expiresAt := time.Now().Add(ResetTokenTTL)
	if err := service.userRepository.SetResetToken(context, user.ID, tokenHash, expiresAt); err != nil {
		return nil, fmt.Errorf("auth_service_save_reset_token_failed: %w", err)
	}

	resetURL := fmt.Sprintf("%s/auth/reset-password/%s", strings.TrimRight(service.config.FrontendURL, "/"), plaintext)

	message := mail.Message{
		From:     fmt.Sprintf("%s <%s>", service.config.AppName, service.config.EmailFrom),
		To:       user.Email,
		Subject:  "Password Reset Request",
		HTMLBody: mail.PasswordResetBody(user.Username, resetURL),
	}

	if err := service.notifier.Send(context, message); err != nil {
		// Roll back the stored token so a failed delivery leaves no live token
		_ = service.userRepository.ClearResetToken(context, user.ID)
		return nil, apperr.InternalMessage("Error sending password reset email. Please try again later.", err)
	}

	return &ResetRequest{ResetToken: plaintext, ResetURL: resetURL}, nil
}

/*
ResetPassword completes the forgot-password flow.

Description: Hashes the presented plaintext token, resolves it against the
stored hash with expiry enforced in the query, replaces the password, and
issues a fresh token pair so the caller is logged in immediately.

Parameters:
  - context: context.Context
  - token: string (plaintext from the emailed link)
  - newPassword: string

Returns:
  - *TokenPair: Fresh session tokens
  - error: BadRequest on unknown or expired token, or update failures
*/
func (service *Service) ResetPassword(context context.Context, token, newPassword string) (*TokenPair, error) {
	tokenHash := sec.HashResetToken(token)

	// Expired and unknown tokens are indistinguishable on purpose
	user, err := service.userRepository.FindByResetTokenHash(context, tokenHash)
	if err != nil {
		if apperr.IsAppError(err) {
			return nil, apperr.BadRequest("Token is invalid or has expired")
		}
		return nil, fmt.Errorf("auth_service_reset_lookup_failed: %w", err)
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return nil, fmt.Errorf("auth_service_reset_password_hash_failed: %w", err)
	}

	// Password swap and token burn happen in one statement
	if err := service.userRepository.ResetPassword(context, user.ID, hashedPassword); err != nil {
		return nil, fmt.Errorf("auth_service_reset_password_update_failed: %w", err)
	}

	return service.issueTokens(context, user.ID)
}
