// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "context"

// # User Data Access

// UserRepository stores accounts and the single refresh-token fingerprint
// kept on each account row.
//
// Lookups return apperr.NotFound for unknown rows. Usernames and emails are
// matched in canonical (lowercase) form.
type UserRepository interface {
	FindByID(context context.Context, id string) (*User, error)
	FindByEmail(context context.Context, email string) (*User, error)
	FindByUsername(context context.Context, username string) (*User, error)

	// Create returns apperr.Conflict when the username or email is taken.
	Create(context context.Context, user *User) error

	// UpdatePassword replaces the hash and clears the session in one statement.
	UpdatePassword(context context.Context, userID, newHash string) error

	// SetRefreshToken unconditionally stores a fingerprint (login).
	SetRefreshToken(context context.Context, userID, tokenHash string) error

	/*
		SwapRefreshToken is the compare-and-set used by rotation.

		Returns:
		  - bool: false when currentHash is no longer stored (replay or a concurrent rotation won)
		  - error: Persistence failures
	*/
	SwapRefreshToken(context context.Context, userID, currentHash, nextHash string) (bool, error)

	// ClearRefreshToken removes the fingerprint. Clearing an empty record is not an error.
	ClearRefreshToken(context context.Context, userID string) error
}
