// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles user profile management and public channel pages.

It provides functionalities for users to view and update their own identity
data (display name, email, avatar, cover image) and for anyone to view a
channel profile with its subscription counters.

# Architecture

  - Entities: ChannelProfile (DTO).
  - Domain: This package depends on the auth package for the User entity and on
    the subscription package for channel counters.
  - Security: Every /me endpoint acts on the identity from the access token; there
    is no path parameter naming the user being edited.
*/
package account

import (
	"context"
	"time"

	"github.com/taibuivan/vidora/internal/platform/storage"
	"github.com/taibuivan/vidora/internal/social/subscription"
	"github.com/taibuivan/vidora/internal/users/auth"
)

// # Domain Entities

// ChannelProfile is the public view of a user, as shown on their channel page.
// It omits the email address.
type ChannelProfile struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	DisplayName   string    `json:"display_name"`
	AvatarURL     string    `json:"avatar_url"`
	CoverImageURL string    `json:"cover_image_url"`
	CreatedAt     time.Time `json:"created_at"`

	subscription.ChannelStats
}

// # Repository Contracts

// AccountRepository defines the persistence contract for user accounts.
type AccountRepository interface {
	/*
		FindByID retrieves a user record by their unique ID.

		Returns:
		  - *User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*auth.User, error)

	FindByUsername(context context.Context, username string) (*auth.User, error)
	FindByEmail(context context.Context, email string) (*auth.User, error)

	/*
		UpdateProfile writes the display name and email of an existing user.

		Returns:
		  - error: apperr.Conflict when the email is taken, apperr.NotFound
	*/
	UpdateProfile(context context.Context, user *auth.User) error

	// UpdateImages writes the avatar and cover object keys.
	UpdateImages(context context.Context, user *auth.User) error
}

// # Collaborators

// StatsProvider computes channel counters. [subscription.Service] satisfies it.
type StatsProvider interface {
	Stats(context context.Context, channelID, viewerID string) (*subscription.ChannelStats, error)
}

// Presigner issues upload slots. [storage.Uploader] satisfies it.
type Presigner interface {
	PresignUpload(context context.Context, kind storage.Kind, ownerID string) (*storage.Upload, error)
}

// Global field names for validation
const (
	FieldImageKey = "key"
	FieldKind     = "kind"
)
