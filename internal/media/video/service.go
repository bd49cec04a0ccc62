// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package video

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/internal/platform/authz"
	"github.com/taibuivan/vidora/internal/platform/sec"
	"github.com/taibuivan/vidora/internal/platform/storage"
	"github.com/taibuivan/vidora/internal/platform/validate"
	"github.com/taibuivan/vidora/pkg/canon"
	"github.com/taibuivan/vidora/pkg/pointer"
	"github.com/taibuivan/vidora/pkg/uuid"
)

// Presigner issues upload slots. [storage.Uploader] is the production implementation.
type Presigner interface {
	PresignUpload(context context.Context, kind storage.Kind, ownerID string) (*storage.Upload, error)
}

// # Service Layer

// Service orchestrates video publishing, discovery, and owner edits.
type Service struct {
	repo    Repository
	uploads Presigner
	logger  *slog.Logger
}

// NewService constructs a new [Service]. uploads may be nil when object
// storage is not configured; upload requests then fail with 503.
func NewService(repo Repository, uploads Presigner, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		uploads: uploads,
		logger:  logger,
	}
}

// # Reads

/*
List returns a page of videos.

Drafts are only listed when the caller filters by their own channel.

Parameters:
  - context: context.Context
  - viewerID: string (empty for anonymous callers)
  - filter: Filter
  - limit, offset: int

Returns:
  - []*Video, int: Page and total match count
  - error: Storage failures
*/
func (service *Service) List(context context.Context, viewerID string, filter Filter, limit, offset int) ([]*Video, int, error) {
	filter.Query = canon.Text(filter.Query)
	filter.IncludeDrafts = viewerID != "" && filter.OwnerID == viewerID

	if filter.OwnerID != "" && !uuid.Valid(filter.OwnerID) {
		return []*Video{}, 0, nil
	}

	return service.repo.List(context, filter, limit, offset)
}

/*
Get loads a single video and counts the view.

An unpublished video is invisible to everyone except its owner.

Returns:
  - *Video: Video with the updated view count
  - error: apperr.NotFound
*/
func (service *Service) Get(context context.Context, viewerID, id string) (*Video, error) {
	if !uuid.Valid(id) {
		return nil, apperr.NotFound("Video")
	}

	video, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if !video.IsPublished && video.OwnerID != viewerID {
		return nil, apperr.NotFound("Video")
	}

	views, err := service.repo.IncrementViews(context, id)
	if err != nil {
		return nil, err
	}
	video.Views = views

	return video, nil
}

// # Writes

// PublishInput carries the metadata for a new video.
type PublishInput struct {
	Title        string
	Description  string
	VideoKey     string
	ThumbnailKey string
	DurationSec  int
	Published    *bool
}

/*
Publish creates a video owned by the caller.

Both object keys must have been issued to the caller by [Service.PresignUpload].
Videos are published immediately unless Published is explicitly false.

Returns:
  - *Video: Created record
  - error: VALIDATION_ERROR or storage failures
*/
func (service *Service) Publish(context context.Context, identity *sec.AccessClaims, input PublishInput) (*Video, error) {
	if identity == nil {
		return nil, apperr.MissingCredential()
	}

	input.Title = canon.Text(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	input.VideoKey = strings.TrimSpace(input.VideoKey)
	input.ThumbnailKey = strings.TrimSpace(input.ThumbnailKey)

	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).MaxLen(FieldTitle, input.Title, MaxTitleLength)
	validator.MaxLen(FieldDescription, input.Description, MaxDescriptionLength)
	validator.Required(FieldVideoKey, input.VideoKey)
	validator.Custom(FieldVideoKey,
		input.VideoKey != "" && !storage.OwnsKey(storage.KindVideo, identity.UserID, input.VideoKey),
		"Must be a video key issued to you")
	validator.Custom(FieldThumbnailKey,
		input.ThumbnailKey != "" && !storage.OwnsKey(storage.KindThumbnail, identity.UserID, input.ThumbnailKey),
		"Must be a thumbnail key issued to you")
	validator.Range(FieldDurationSec, input.DurationSec, 0, MaxDurationSec)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	video := &Video{
		OwnerID:      identity.UserID,
		VideoKey:     input.VideoKey,
		ThumbnailKey: input.ThumbnailKey,
		Title:        input.Title,
		Description:  input.Description,
		DurationSec:  input.DurationSec,
		IsPublished:  pointer.Fallback(input.Published, true),
	}

	if err := service.repo.Create(context, video); err != nil {
		return nil, err
	}

	service.logger.Info("video_published",
		slog.String("video_id", video.ID),
		slog.String("owner_id", video.OwnerID),
		slog.Bool("is_published", video.IsPublished),
	)
	return video, nil
}

// UpdateInput is a partial update; nil fields are left unchanged.
type UpdateInput struct {
	Title        *string
	Description  *string
	ThumbnailKey *string
}

/*
Update edits the metadata of a video the caller owns.

Returns:
  - *Video: Updated record
  - error: NOT_FOUND, FORBIDDEN, or VALIDATION_ERROR
*/
func (service *Service) Update(context context.Context, identity *sec.AccessClaims, id string, input UpdateInput) (*Video, error) {
	if err := service.authorize(context, identity, id); err != nil {
		return nil, err
	}

	video, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		video.Title = canon.Text(*input.Title)
	}
	if input.Description != nil {
		video.Description = strings.TrimSpace(*input.Description)
	}
	if input.ThumbnailKey != nil {
		video.ThumbnailKey = strings.TrimSpace(*input.ThumbnailKey)
	}

	validator := &validate.Validator{}
	validator.Required(FieldTitle, video.Title).MaxLen(FieldTitle, video.Title, MaxTitleLength)
	validator.MaxLen(FieldDescription, video.Description, MaxDescriptionLength)
	validator.Custom(FieldThumbnailKey,
		input.ThumbnailKey != nil && video.ThumbnailKey != "" &&
			!storage.OwnsKey(storage.KindThumbnail, identity.UserID, video.ThumbnailKey),
		"Must be a thumbnail key issued to you")

	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repo.Update(context, video); err != nil {
		return nil, err
	}

	service.logger.Info("video_updated", slog.String("video_id", id))
	return video, nil
}

/*
Delete removes a video the caller owns.

Returns:
  - error: NOT_FOUND or FORBIDDEN
*/
func (service *Service) Delete(context context.Context, identity *sec.AccessClaims, id string) error {
	if err := service.authorize(context, identity, id); err != nil {
		return err
	}

	if err := service.repo.Delete(context, id, identity.UserID); err != nil {
		return err
	}

	service.logger.Warn("video_deleted", slog.String("video_id", id), slog.String("owner_id", identity.UserID))
	return nil
}

/*
TogglePublish flips the published flag of a video the caller owns.

Returns:
  - *Video: Record with the new flag
  - error: NOT_FOUND or FORBIDDEN
*/
func (service *Service) TogglePublish(context context.Context, identity *sec.AccessClaims, id string) (*Video, error) {
	if err := service.authorize(context, identity, id); err != nil {
		return nil, err
	}

	current, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	video, err := service.repo.SetPublished(context, id, identity.UserID, !current.IsPublished)
	if err != nil {
		return nil, err
	}

	service.logger.Info("video_publish_toggled",
		slog.String("video_id", id),
		slog.Bool("is_published", video.IsPublished),
	)
	return video, nil
}

/*
PresignUpload reserves an object key for a video file or thumbnail.

Returns:
  - *storage.Upload: Key and signed PUT URL
  - error: VALIDATION_ERROR for other kinds, SERVICE_UNAVAILABLE without storage
*/
func (service *Service) PresignUpload(context context.Context, identity *sec.AccessClaims, kind storage.Kind) (*storage.Upload, error) {
	if identity == nil {
		return nil, apperr.MissingCredential()
	}

	if kind != storage.KindVideo && kind != storage.KindThumbnail {
		return nil, validate.RequiredError(FieldKind, "Must be one of: video, thumbnail")
	}

	if service.uploads == nil {
		return nil, apperr.ServiceUnavailable("Uploads are not configured")
	}

	return service.uploads.PresignUpload(context, kind, identity.UserID)
}

// authorize loads the current owner and applies the ownership rule.
func (service *Service) authorize(context context.Context, identity *sec.AccessClaims, id string) error {
	if !uuid.Valid(id) {
		return apperr.NotFound("Video")
	}

	ownerID, err := service.repo.FindOwner(context, id)
	if err != nil {
		return err
	}

	return authz.AuthorizeOwnerMutation(identity, ownerID)
}
