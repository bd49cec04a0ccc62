// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/internal/platform/storage"
	"github.com/taibuivan/vidora/internal/platform/validate"
	"github.com/taibuivan/vidora/internal/users/auth"
	"github.com/taibuivan/vidora/pkg/canon"
)

// # Service Layer

// Service orchestrates business logic for user accounts and channel pages.
type Service struct {
	accountRepository AccountRepository
	stats             StatsProvider
	uploads           Presigner
	logger            *slog.Logger
}

// NewService constructs a new [Service]. uploads may be nil when object
// storage is not configured.
func NewService(
	accountRepo AccountRepository,
	stats StatsProvider,
	uploads Presigner,
	logger *slog.Logger,
) *Service {
	return &Service{
		accountRepository: accountRepo,
		stats:             stats,
		uploads:           uploads,
		logger:            logger,
	}
}

// # Profile Management

/*
GetProfile retrieves the full private identity of a user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *auth.User: The hydrated user profile
  - error: Not found or execution failures
*/
func (service *Service) GetProfile(context context.Context, userID string) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_get_profile_failed: %w", err)
	}
	return user, nil
}

// UpdateProfileInput defines the mutable subset of user profile fields.
type UpdateProfileInput struct {
	DisplayName *string
	Email       *string
}

/*
UpdateProfile applies a partial set of changes to a user's account metadata.

Description: Fetches the existing user state, overrides provided fields, checks
that a new email is not held by another account, and persists the change.

Returns:
  - *auth.User: The updated user profile
  - error: VALIDATION_ERROR, CONFLICT, or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, userID string, input UpdateProfileInput) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_lookup_failed: %w", err)
	}

	emailChanged := false

	// Apply delta updates
	if input.DisplayName != nil {
		user.DisplayName = canon.Text(*input.DisplayName)
	}
	if input.Email != nil {
		email := canon.Identifier(*input.Email)
		emailChanged = email != user.Email
		user.Email = email
	}

	validator := &validate.Validator{}
	validator.Required(auth.FieldDisplayName, user.DisplayName).
		MaxLen(auth.FieldDisplayName, user.DisplayName, auth.MaxDisplayNameLength)
	validator.Required(auth.FieldEmail, user.Email)
	if input.Email != nil && user.Email != "" {
		validator.MaxLen(auth.FieldEmail, user.Email, auth.MaxEmailLength).
			Email(auth.FieldEmail, user.Email)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if emailChanged {
		holder, err := service.accountRepository.FindByEmail(context, user.Email)
		switch {
		case err == nil && holder.ID != user.ID:
			return nil, apperr.Conflict("Email is already registered")
		case err != nil && !apperr.HasCode(err, apperr.CodeNotFound):
			return nil, fmt.Errorf("account_service_email_lookup_failed: %w", err)
		}
	}

	// Persist changes; the unique index still guards a concurrent claim
	if err := service.accountRepository.UpdateProfile(context, user); err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	service.logger.Info("user_profile_updated",
		slog.String("user_id", userID),
		slog.Bool("email_changed", emailChanged),
	)

	return user, nil
}

/*
UpdateImage points the avatar or cover image at an uploaded object.

Parameters:
  - context: context.Context
  - userID: string
  - kind: storage.KindAvatar | storage.KindCover
  - key: string (object key issued to the same user)

Returns:
  - *auth.User: The updated profile
  - error: VALIDATION_ERROR for a foreign or malformed key
*/
func (service *Service) UpdateImage(context context.Context, userID string, kind storage.Kind, key string) (*auth.User, error) {
	key = strings.TrimSpace(key)

	if kind != storage.KindAvatar && kind != storage.KindCover {
		return nil, validate.RequiredError(FieldKind, "Must be one of: avatar, cover")
	}

	if err := (&validate.Validator{}).
		Required(FieldImageKey, key).
		Custom(FieldImageKey, key != "" && !storage.OwnsKey(kind, userID, key), "Must be an image key issued to you").
		Err(); err != nil {
		return nil, err
	}

	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_image_lookup_failed: %w", err)
	}

	if kind == storage.KindAvatar {
		user.AvatarURL = key
	} else {
		user.CoverImageURL = key
	}

	if err := service.accountRepository.UpdateImages(context, user); err != nil {
		return nil, fmt.Errorf("account_service_image_update_failed: %w", err)
	}

	service.logger.Info("user_image_updated", slog.String("user_id", userID), slog.String("kind", string(kind)))
	return user, nil
}

/*
PresignImage reserves an object key for a new avatar or cover image.

Returns:
  - *storage.Upload
  - error: VALIDATION_ERROR for other kinds, SERVICE_UNAVAILABLE without storage
*/
func (service *Service) PresignImage(context context.Context, userID string, kind storage.Kind) (*storage.Upload, error) {
	if kind != storage.KindAvatar && kind != storage.KindCover {
		return nil, validate.RequiredError(FieldKind, "Must be one of: avatar, cover")
	}

	if service.uploads == nil {
		return nil, apperr.ServiceUnavailable("Uploads are not configured")
	}

	return service.uploads.PresignUpload(context, kind, userID)
}

// # Channel Pages

/*
GetChannel builds the public channel profile for a username.

Parameters:
  - context: context.Context
  - username: string (case-insensitive)
  - viewerID: string (empty for anonymous viewers)

Returns:
  - *ChannelProfile
  - error: apperr.NotFound for an unknown channel
*/
func (service *Service) GetChannel(context context.Context, username, viewerID string) (*ChannelProfile, error) {
	username = canon.Identifier(username)
	if username == "" {
		return nil, apperr.NotFound("Channel")
	}

	user, err := service.accountRepository.FindByUsername(context, username)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, apperr.NotFound("Channel")
		}
		return nil, fmt.Errorf("account_service_channel_lookup_failed: %w", err)
	}

	stats, err := service.stats.Stats(context, user.ID, viewerID)
	if err != nil {
		return nil, fmt.Errorf("account_service_channel_stats_failed: %w", err)
	}

	return &ChannelProfile{
		ID:            user.ID,
		Username:      user.Username,
		DisplayName:   user.DisplayName,
		AvatarURL:     user.AvatarURL,
		CoverImageURL: user.CoverImageURL,
		CreatedAt:     user.CreatedAt,
		ChannelStats:  *stats,
	}, nil
}
