// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package video

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/vidora/internal/platform/ctxutil"
	"github.com/taibuivan/vidora/internal/platform/middleware"
	requestutil "github.com/taibuivan/vidora/internal/platform/request"
	"github.com/taibuivan/vidora/internal/platform/respond"
	"github.com/taibuivan/vidora/internal/platform/storage"
	"github.com/taibuivan/vidora/pkg/pagination"
	"github.com/taibuivan/vidora/pkg/query"
)

// Handler implements the /videos endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the video endpoints.
//
// # Endpoints
//   - GET    /                      : Paginated list (q, owner, sort_by, sort_type)
//   - GET    /{videoID}             : Single video (counts a view)
//   - POST   /                      : Publish (auth)
//   - POST   /uploads               : Presigned upload slot (auth)
//   - PATCH  /{videoID}             : Edit metadata (auth, owner)
//   - DELETE /{videoID}             : Delete (auth, owner)
//   - PATCH  /{videoID}/publish     : Toggle published flag (auth, owner)
func (handler *Handler) RegisterRoutes(router chi.Router) {

	// Public
	router.Get("/", handler.listVideos)
	router.Get("/{videoID}", handler.getVideo)

	// Owner only
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Post("/", handler.publishVideo)
		r.Post("/uploads", handler.presignUpload)
		r.Patch("/{videoID}", handler.updateVideo)
		r.Delete("/{videoID}", handler.deleteVideo)
		r.Patch("/{videoID}/publish", handler.togglePublish)
	})
}

type publishRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	VideoKey     string `json:"video_key"`
	ThumbnailKey string `json:"thumbnail_key"`
	DurationSec  int    `json:"duration_sec"`
	Published    *bool  `json:"is_published"`
}

type updateRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	ThumbnailKey *string `json:"thumbnail_key"`
}

type uploadRequest struct {
	Kind storage.Kind `json:"kind"`
}

/*
GET /api/v1/videos

Response:
  - 200: []Video + pagination meta
*/
func (handler *Handler) listVideos(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	filter := Filter{
		Query:   query.Text(request, "q"),
		OwnerID: query.Text(request, "owner"),
		Sort:    query.SortFromRequest(request, DefaultSort, SortCreatedAt, SortTitle, SortViews),
	}

	videos, total, err := handler.service.List(request.Context(), ctxutil.AuthUserID(request.Context()), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, videos, paginationParams.Meta(total))
}

/*
GET /api/v1/videos/{videoID}

Response:
  - 200: Video
  - 404: NOT_FOUND (missing, or a draft owned by someone else)
*/
func (handler *Handler) getVideo(writer http.ResponseWriter, request *http.Request) {
	video, err := handler.service.Get(request.Context(), ctxutil.AuthUserID(request.Context()), requestutil.ID(request, "videoID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, video)
}

/*
POST /api/v1/videos

Response:
  - 201: Video
  - 400: VALIDATION_ERROR
*/
func (handler *Handler) publishVideo(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input publishRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	video, err := handler.service.Publish(request.Context(), identity, PublishInput{
		Title:        input.Title,
		Description:  input.Description,
		VideoKey:     input.VideoKey,
		ThumbnailKey: input.ThumbnailKey,
		DurationSec:  input.DurationSec,
		Published:    input.Published,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, video)
}

/*
POST /api/v1/videos/uploads

Response:
  - 201: storage.Upload
  - 503: SERVICE_UNAVAILABLE when object storage is not configured
*/
func (handler *Handler) presignUpload(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input uploadRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	upload, err := handler.service.PresignUpload(request.Context(), identity, input.Kind)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, upload)
}

/*
PATCH /api/v1/videos/{videoID}

Response:
  - 200: Video
  - 403: FORBIDDEN (not the owner)
  - 404: NOT_FOUND
*/
func (handler *Handler) updateVideo(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	video, err := handler.service.Update(request.Context(), identity, requestutil.ID(request, "videoID"), UpdateInput{
		Title:        input.Title,
		Description:  input.Description,
		ThumbnailKey: input.ThumbnailKey,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, video)
}

/*
DELETE /api/v1/videos/{videoID}

Response:
  - 204: Deleted
  - 403: FORBIDDEN
  - 404: NOT_FOUND
*/
func (handler *Handler) deleteVideo(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), identity, requestutil.ID(request, "videoID")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

/*
PATCH /api/v1/videos/{videoID}/publish

Response:
  - 200: Video with the flipped flag
*/
func (handler *Handler) togglePublish(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	video, err := handler.service.TogglePublish(request.Context(), identity, requestutil.ID(request, "videoID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, video)
}
