// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/internal/platform/metrics"
	"github.com/taibuivan/vidora/internal/platform/sec"
	"github.com/taibuivan/vidora/internal/platform/validate"
	"github.com/taibuivan/vidora/pkg/canon"
	"github.com/taibuivan/vidora/pkg/uuid"
)

// invalidLogin is shared by every login failure so the response never says which part was wrong.
const invalidLogin = "Invalid username, email, or password"

// Service implements the credential store and the login/refresh/logout use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed by the security team.
type Service struct {
	users    UserRepository
	hasher   *sec.Hasher
	sessions *Sessions
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	users UserRepository,
	hasher *sec.Hasher,
	sessions *Sessions,
	collectors *metrics.Metrics,
	logger *slog.Logger,
) *Service {
	return &Service{
		users:    users,
		hasher:   hasher,
		sessions: sessions,
		metrics:  collectors,
		logger:   logger,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	DisplayName string
}

/*
Register validates, hashes, and persists a brand new user account.

Description: Username and email are canonicalized (NFKC + lowercase) before
the uniqueness checks, so "Alice" and "alice" collide. The raw password is
hashed before the entity is built and never leaves this function.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - error: VALIDATION_ERROR, CONFLICT, or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {
	username := canon.Identifier(input.Username)
	email := canon.Identifier(input.Email)
	displayName := canon.Text(input.DisplayName)

	validator := &validate.Validator{}
	validator.Required(FieldUsername, username).
		Required(FieldEmail, email).
		Required(FieldPassword, strings.TrimSpace(input.Password)).
		Required(FieldDisplayName, displayName)

	if !validator.HasErrors() {
		validator.MinLen(FieldUsername, username, MinUsernameLength).
			MaxLen(FieldUsername, username, MaxUsernameLength).
			Username(FieldUsername, username).
			MaxLen(FieldEmail, email, MaxEmailLength).
			Email(FieldEmail, email).
			MinLen(FieldPassword, input.Password, MinPasswordLength).
			Custom(FieldPassword, len(input.Password) > MaxPasswordBytes, fmt.Sprintf("Maximum %d bytes", MaxPasswordBytes)).
			MaxLen(FieldDisplayName, displayName, MaxDisplayNameLength)
	}

	if err := validator.Err(); err != nil {
		service.metrics.AuthEvent(metrics.EventRegister, metrics.ResultFailure)
		return nil, err
	}

	// Verify username uniqueness. Return a client-safe Conflict err.
	_, err := service.users.FindByUsername(context, username)
	switch {
	case err == nil:
		return nil, service.registerConflict("Username is already taken")
	case !apperr.HasCode(err, apperr.CodeNotFound):
		return nil, fmt.Errorf("auth_service_register_lookup_failed: %w", err)
	}

	// Verify email uniqueness.
	_, err = service.users.FindByEmail(context, email)
	switch {
	case err == nil:
		return nil, service.registerConflict("Email is already registered")
	case !apperr.HasCode(err, apperr.CodeNotFound):
		return nil, fmt.Errorf("auth_service_register_lookup_failed: %w", err)
	}

	hashedPassword, err := service.hasher.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		DisplayName:  displayName,
	}

	// A concurrent registration may still win the unique index; that surfaces as CONFLICT.
	if err := service.users.Create(context, user); err != nil {
		service.metrics.AuthEvent(metrics.EventRegister, metrics.ResultFailure)
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	service.metrics.AuthEvent(metrics.EventRegister, metrics.ResultSuccess)
	service.logger.InfoContext(context, "user_registered",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

func (service *Service) registerConflict(message string) error {
	service.metrics.AuthEvent(metrics.EventRegister, metrics.ResultFailure)
	return apperr.Conflict(message)
}

/*
VerifySecret compares a raw secret with the user's stored hash.

Description: Delegates to bcrypt's own compare primitive, which is
constant-time with respect to the secret contents.
*/
func (service *Service) VerifySecret(user *User, rawSecret string) bool {
	return service.hasher.CheckPasswordHash(rawSecret, user.PasswordHash)
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Login    string // Can be Username or Email
	Password string
}

// LoginResult represents a successfully established user session.
type LoginResult struct {
	User   *User
	Tokens *TokenPair
}

/*
Login validates user credentials and issues security tokens.

Description: Looks the account up by email (when the login contains '@') or
username, then ALWAYS performs one bcrypt comparison. Unknown users are
compared against a dummy hash so both failures cost the same and return the
same INVALID_CREDENTIAL error.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginResult: User and token pair
  - error: VALIDATION_ERROR, INVALID_CREDENTIAL, or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginResult, error) {
	login := canon.Identifier(input.Login)

	validator := &validate.Validator{}
	validator.Required(FieldLogin, login).Required(FieldPassword, input.Password)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	var user *User
	var err error
	if strings.Contains(login, "@") {
		user, err = service.users.FindByEmail(context, login)
	} else {
		user, err = service.users.FindByUsername(context, login)
	}

	switch {
	case err == nil:
		if !service.VerifySecret(user, input.Password) {
			return nil, service.loginFailed(context, "wrong_password")
		}
	case apperr.HasCode(err, apperr.CodeNotFound):
		service.hasher.CheckDummy(input.Password)
		return nil, service.loginFailed(context, "unknown_user")
	default:
		return nil, fmt.Errorf("auth_service_login_lookup_failed: %w", err)
	}

	tokens, err := service.sessions.IssuePair(context, user)
	if err != nil {
		return nil, err
	}

	service.metrics.AuthEvent(metrics.EventLogin, metrics.ResultSuccess)
	service.logger.InfoContext(context, "user_logged_in", slog.String("user_id", user.ID))

	return &LoginResult{User: user, Tokens: tokens}, nil
}

func (service *Service) loginFailed(context context.Context, reason string) error {
	service.metrics.AuthEvent(metrics.EventLogin, metrics.ResultFailure)
	service.logger.InfoContext(context, "login_rejected", slog.String("reason", reason))
	return apperr.InvalidCredential(invalidLogin)
}

// # Session Management

/*
Refresh rotates a refresh token into a new pair.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - *LoginResult: The rotated credentials
  - error: MISSING_CREDENTIAL, TOKEN_EXPIRED, INVALID_SIGNATURE, SESSION_REVOKED, or storage failures
*/
func (service *Service) Refresh(context context.Context, refreshToken string) (*LoginResult, error) {
	tokens, user, err := service.sessions.Rotate(context, refreshToken)
	if err != nil {
		result := metrics.ResultFailure
		if apperr.HasCode(err, apperr.CodeSessionRevoked) {
			result = metrics.ResultReplay
		}
		service.metrics.AuthEvent(metrics.EventRefresh, result)
		return nil, err
	}

	service.metrics.AuthEvent(metrics.EventRefresh, metrics.ResultSuccess)
	return &LoginResult{User: user, Tokens: tokens}, nil
}

/*
Logout revokes the user's outstanding refresh token.

Description: Idempotent; logging out a signed-out account succeeds.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Revocation failures
*/
func (service *Service) Logout(context context.Context, userID string) error {
	if err := service.sessions.Revoke(context, userID); err != nil {
		return err
	}

	service.metrics.AuthEvent(metrics.EventLogout, metrics.ResultSuccess)
	service.logger.InfoContext(context, "user_logged_out", slog.String("user_id", userID))
	return nil
}

// # Password Management

// ChangePasswordInput carries the current and the desired secret.
type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
}

/*
ChangePassword verifies the current secret, stores a new hash, and signs the
user out of every refresh session.

Parameters:
  - context: context.Context
  - userID: string
  - input: ChangePasswordInput

Returns:
  - error: VALIDATION_ERROR, INVALID_CREDENTIAL, NOT_FOUND, or storage failures
*/
func (service *Service) ChangePassword(context context.Context, userID string, input ChangePasswordInput) error {
	validator := &validate.Validator{}
	validator.Required(FieldCurrentPassword, input.CurrentPassword).
		Required(FieldNewPassword, strings.TrimSpace(input.NewPassword)).
		MinLen(FieldNewPassword, input.NewPassword, MinPasswordLength).
		Custom(FieldNewPassword, len(input.NewPassword) > MaxPasswordBytes, fmt.Sprintf("Maximum %d bytes", MaxPasswordBytes))
	if err := validator.Err(); err != nil {
		return err
	}

	user, err := service.users.FindByID(context, userID)
	if err != nil {
		return err
	}

	if !service.VerifySecret(user, input.CurrentPassword) {
		service.metrics.AuthEvent(metrics.EventPasswordChange, metrics.ResultFailure)
		return apperr.InvalidCredential("Current password is incorrect")
	}

	hashedPassword, err := service.hasher.HashPassword(input.NewPassword)
	if err != nil {
		return fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	if err := service.users.UpdatePassword(context, userID, hashedPassword); err != nil {
		return err
	}

	service.metrics.AuthEvent(metrics.EventPasswordChange, metrics.ResultSuccess)
	service.logger.InfoContext(context, "password_changed", slog.String("user_id", userID))
	return nil
}
