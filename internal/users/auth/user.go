// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the credential store and the session lifecycle.

It defines the account identity entity, password verification, and the
access/refresh token protocol built on top of [sec.TokenService].

# Architecture

One refresh token fingerprint lives on each account row. Login overwrites it,
rotation swaps it with a compare-and-set, and logout clears it. There is no
other session state anywhere in the system.
*/
package auth

import (
	"time"

	"github.com/taibuivan/vidora/internal/platform/sec"
)

// # Domain Entities

// User represents a registered account on the Vidora platform.
type User struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"` // Explicitly omitted from JSON for security.
	DisplayName   string    `json:"display_name"`
	AvatarURL     string    `json:"avatar_url,omitempty"`
	CoverImageURL string    `json:"cover_image_url,omitempty"`
	RefreshToken  string    `json:"-"` // SHA-256 of the outstanding refresh token, "" when signed out.
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Subject returns the identity claims minted into this user's access tokens.
func (user *User) Subject() sec.Subject {
	return sec.Subject{
		UserID:      user.ID,
		Username:    user.Username,
		Email:       user.Email,
		DisplayName: user.DisplayName,
	}
}

// HasSession reports whether the user has an outstanding refresh token.
func (user *User) HasSession() bool {
	return user.RefreshToken != ""
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldUsername        = "username"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldDisplayName     = "display_name"
	FieldLogin           = "login"
	FieldCurrentPassword = "current_password"
	FieldNewPassword     = "new_password"
	FieldAccessToken     = "access_token"
	FieldRefreshToken    = "refresh_token"
	FieldTokenType       = "token_type"
	FieldExpiresIn       = "expires_in"
	FieldUser            = "user"
)
