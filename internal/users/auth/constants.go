// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

// # Credential Constraints

const (
	// MinUsernameLength and MaxUsernameLength bound the canonical username.
	MinUsernameLength = 3
	MaxUsernameLength = 30

	// MinPasswordLength is the shortest accepted secret.
	MinPasswordLength = 6

	// MaxPasswordBytes is bcrypt's input limit; longer secrets are rejected, not truncated.
	MaxPasswordBytes = 72

	// MaxEmailLength matches the width of the email column.
	MaxEmailLength = 320

	// MaxDisplayNameLength bounds the free-text display name.
	MaxDisplayNameLength = 80

	// TokenTypeBearer is returned to clients alongside the access token.
	TokenTypeBearer = "Bearer"
)
