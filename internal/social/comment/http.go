// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/vidora/internal/platform/middleware"
	requestutil "github.com/taibuivan/vidora/internal/platform/request"
	"github.com/taibuivan/vidora/internal/platform/respond"
	"github.com/taibuivan/vidora/pkg/pagination"
)

// Handler implements the /comments endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the comment endpoints.
//
// # Endpoints
//   - GET    /{videoID}        : Paginated comments on a video
//   - POST   /{videoID}        : Add a comment (auth)
//   - PATCH  /c/{commentID}    : Edit (auth, owner)
//   - DELETE /c/{commentID}    : Delete (auth, owner)
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/{videoID}", handler.listComments)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Post("/{videoID}", handler.addComment)
		r.Patch("/c/{commentID}", handler.updateComment)
		r.Delete("/c/{commentID}", handler.deleteComment)
	})
}

type commentRequest struct {
	Body string `json:"body"`
}

func (handler *Handler) listComments(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	comments, total, err := handler.service.List(request.Context(), requestutil.ID(request, "videoID"), paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, comments, paginationParams.Meta(total))
}

func (handler *Handler) addComment(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input commentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.Add(request.Context(), identity, requestutil.ID(request, "videoID"), input.Body)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, comment)
}

func (handler *Handler) updateComment(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input commentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.Update(request.Context(), identity, requestutil.ID(request, "commentID"), input.Body)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, comment)
}

func (handler *Handler) deleteComment(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), identity, requestutil.ID(request, "commentID")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
