// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/internal/platform/authz"
	"github.com/taibuivan/vidora/internal/platform/sec"
	"github.com/taibuivan/vidora/internal/platform/validate"
	"github.com/taibuivan/vidora/pkg/uuid"
)

// Service orchestrates comment threads.
type Service struct {
	repo   Repository
	videos VideoLookup
	logger *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repo Repository, videos VideoLookup, logger *slog.Logger) *Service {
	return &Service{repo: repo, videos: videos, logger: logger}
}

// List returns a page of comments for a video, newest first.
func (service *Service) List(context context.Context, videoID string, limit, offset int) ([]*Comment, int, error) {
	if err := service.requireVideo(context, videoID); err != nil {
		return nil, 0, err
	}
	return service.repo.ListByVideo(context, videoID, limit, offset)
}

/*
Add posts a comment on an existing video as the caller.

Returns:
  - *Comment: Created comment
  - error: NOT_FOUND for an unknown video, VALIDATION_ERROR for an empty body
*/
func (service *Service) Add(context context.Context, identity *sec.AccessClaims, videoID, body string) (*Comment, error) {
	if identity == nil {
		return nil, apperr.MissingCredential()
	}

	body = strings.TrimSpace(body)
	if err := validateBody(body); err != nil {
		return nil, err
	}

	if err := service.requireVideo(context, videoID); err != nil {
		return nil, err
	}

	comment := &Comment{VideoID: videoID, OwnerID: identity.UserID, Body: body}
	if err := service.repo.Create(context, comment); err != nil {
		return nil, err
	}

	service.logger.Info("comment_added",
		slog.String("comment_id", comment.ID),
		slog.String("video_id", videoID),
	)
	return comment, nil
}

/*
Update replaces the body of a comment the caller owns.

Returns:
  - error: NOT_FOUND, FORBIDDEN, or VALIDATION_ERROR
*/
func (service *Service) Update(context context.Context, identity *sec.AccessClaims, id, body string) (*Comment, error) {
	body = strings.TrimSpace(body)
	if err := validateBody(body); err != nil {
		return nil, err
	}

	if err := service.authorize(context, identity, id); err != nil {
		return nil, err
	}

	comment := &Comment{ID: id, OwnerID: identity.UserID, Body: body}
	if err := service.repo.Update(context, comment); err != nil {
		return nil, err
	}

	service.logger.Info("comment_updated", slog.String("comment_id", id))
	return comment, nil
}

/*
Delete removes a comment the caller owns.

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

	service.logger.Info("comment_deleted", slog.String("comment_id", id))
	return nil
}

func (service *Service) authorize(context context.Context, identity *sec.AccessClaims, id string) error {
	if !uuid.Valid(id) {
		return apperr.NotFound("Comment")
	}

	ownerID, err := service.repo.FindOwner(context, id)
	if err != nil {
		return err
	}

	return authz.AuthorizeOwnerMutation(identity, ownerID)
}

func (service *Service) requireVideo(context context.Context, videoID string) error {
	if !uuid.Valid(videoID) {
		return apperr.NotFound("Video")
	}

	if _, err := service.videos.FindOwner(context, videoID); err != nil {
		return err
	}
	return nil
}

func validateBody(body string) error {
	return (&validate.Validator{}).
		Required(FieldBody, body).
		MaxLen(FieldBody, body, MaxBodyLength).
		Err()
}
