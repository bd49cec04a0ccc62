// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package subscription

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/vidora/internal/platform/middleware"
	requestutil "github.com/taibuivan/vidora/internal/platform/request"
	"github.com/taibuivan/vidora/internal/platform/respond"
	"github.com/taibuivan/vidora/pkg/pagination"
)

// Handler implements the /subscriptions endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the subscription endpoints.
//
// # Endpoints
//   - POST /c/{channelID}              : Toggle subscription (auth)
//   - GET  /c/{channelID}/subscribers  : Channel subscribers
//   - GET  /u/{subscriberID}/channels  : Channels a user follows
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/c/{channelID}/subscribers", handler.listSubscribers)
	router.Get("/u/{subscriberID}/channels", handler.listChannels)

	router.With(middleware.RequireAuth).Post("/c/{channelID}", handler.toggle)
}

/*
POST /api/v1/subscriptions/c/{channelID}

Response:
  - 200: ToggleResult
  - 400: VALIDATION_ERROR (own channel)
  - 404: NOT_FOUND (unknown channel)
*/
func (handler *Handler) toggle(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.Toggle(request.Context(), identity, requestutil.ID(request, "channelID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}

func (handler *Handler) listSubscribers(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	members, total, err := handler.service.Subscribers(request.Context(), requestutil.ID(request, "channelID"), paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, members, paginationParams.Meta(total))
}

func (handler *Handler) listChannels(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	members, total, err := handler.service.Channels(request.Context(), requestutil.ID(request, "subscriberID"), paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, members, paginationParams.Meta(total))
}
