// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/internal/platform/sec"
)

// # Contracts & Types

// TokenProvider defines the contract for minting and verifying security tokens.
type TokenProvider interface {
	IssueAccess(subject sec.Subject) (string, error)
	IssueRefresh(userID string) (string, error)
	VerifyRefresh(tokenString string) (*sec.RefreshClaims, error)
	AccessTTL() time.Duration
	RefreshTTL() time.Duration
}

// TokenPair is the credential bundle handed to the transport layer after login or refresh.
type TokenPair struct {
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token"`
	TokenType        string    `json:"token_type"`
	ExpiresIn        int64     `json:"expires_in"`
	AccessExpiresAt  time.Time `json:"-"`
	RefreshExpiresAt time.Time `json:"-"`
}

// # Session Protocol

// Sessions owns the refresh token state machine of every account:
//
//	NoSession -> Active(h1) -> Active(h2) -> ... -> NoSession
//
// IssuePair is the only entry into Active, Rotate moves between Active states
// with a compare-and-set, and Revoke returns to NoSession.
type Sessions struct {
	users  UserRepository
	tokens TokenProvider
	logger *slog.Logger
	now    func() time.Time
}

// NewSessions constructs the session protocol over a repository and token provider.
func NewSessions(users UserRepository, tokens TokenProvider, logger *slog.Logger) *Sessions {
	return &Sessions{
		users:  users,
		tokens: tokens,
		logger: logger,
		now:    time.Now,
	}
}

// mint signs a fresh pair without touching storage.
func (sessions *Sessions) mint(user *User) (*TokenPair, error) {
	issuedAt := sessions.now()

	accessToken, err := sessions.tokens.IssueAccess(user.Subject())
	if err != nil {
		return nil, fmt.Errorf("auth_session_access_token_failed: %w", err)
	}

	refreshToken, err := sessions.tokens.IssueRefresh(user.ID)
	if err != nil {
		return nil, fmt.Errorf("auth_session_refresh_token_failed: %w", err)
	}

	return &TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		TokenType:        TokenTypeBearer,
		ExpiresIn:        int64(sessions.tokens.AccessTTL() / time.Second),
		AccessExpiresAt:  issuedAt.Add(sessions.tokens.AccessTTL()),
		RefreshExpiresAt: issuedAt.Add(sessions.tokens.RefreshTTL()),
	}, nil
}

/*
IssuePair mints a new access/refresh pair and stores the refresh fingerprint.

Description: The store is overwritten unconditionally, so any refresh token
issued earlier for this user stops working.

Parameters:
  - context: context.Context
  - user: *User

Returns:
  - *TokenPair: Transport-ready credentials
  - error: Signing or persistence failures
*/
func (sessions *Sessions) IssuePair(context context.Context, user *User) (*TokenPair, error) {
	pair, err := sessions.mint(user)
	if err != nil {
		return nil, err
	}

	if err := sessions.users.SetRefreshToken(context, user.ID, sec.HashToken(pair.RefreshToken)); err != nil {
		return nil, fmt.Errorf("auth_session_store_failed: %w", err)
	}

	user.RefreshToken = sec.HashToken(pair.RefreshToken)
	return pair, nil
}

/*
Rotate exchanges a valid refresh token for a new pair. Each refresh token works once.

Description:
 1. Verifies signature and expiry (TOKEN_EXPIRED / INVALID_SIGNATURE).
 2. Loads the account; a vanished account is SESSION_REVOKED.
 3. Rejects a token whose fingerprint is not the stored one (SESSION_REVOKED).
 4. Swaps the stored fingerprint with a compare-and-set; losing the race is SESSION_REVOKED.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - *TokenPair: The new credentials
  - *User: The account the session belongs to
  - error: Typed authentication errors or storage failures
*/
func (sessions *Sessions) Rotate(context context.Context, refreshToken string) (*TokenPair, *User, error) {
	if refreshToken == "" {
		return nil, nil, apperr.MissingCredential()
	}

	claims, err := sessions.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, nil, err
	}

	user, err := sessions.users.FindByID(context, claims.UserID)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, nil, apperr.SessionRevoked()
		}
		return nil, nil, fmt.Errorf("auth_session_load_user_failed: %w", err)
	}

	presentedHash := sec.HashToken(refreshToken)
	if user.RefreshToken != presentedHash {
		sessions.logger.WarnContext(context, "refresh_replay_rejected",
			slog.String("user_id", user.ID),
			slog.Bool("had_session", user.HasSession()),
		)
		return nil, nil, apperr.SessionRevoked()
	}

	pair, err := sessions.mint(user)
	if err != nil {
		return nil, nil, err
	}

	nextHash := sec.HashToken(pair.RefreshToken)
	swapped, err := sessions.users.SwapRefreshToken(context, user.ID, presentedHash, nextHash)
	if err != nil {
		return nil, nil, fmt.Errorf("auth_session_swap_failed: %w", err)
	}

	// Another rotation with the same token committed first.
	if !swapped {
		sessions.logger.WarnContext(context, "refresh_race_lost", slog.String("user_id", user.ID))
		return nil, nil, apperr.SessionRevoked()
	}

	user.RefreshToken = nextHash
	sessions.logger.InfoContext(context, "session_rotated", slog.String("user_id", user.ID))
	return pair, user, nil
}

/*
Revoke clears the user's outstanding refresh token. Revoking twice is fine.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Persistence failures
*/
func (sessions *Sessions) Revoke(context context.Context, userID string) error {
	if err := sessions.users.ClearRefreshToken(context, userID); err != nil {
		return fmt.Errorf("auth_session_revoke_failed: %w", err)
	}
	return nil
}
