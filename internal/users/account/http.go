// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/vidora/internal/platform/ctxutil"
	"github.com/taibuivan/vidora/internal/platform/middleware"
	requestutil "github.com/taibuivan/vidora/internal/platform/request"
	"github.com/taibuivan/vidora/internal/platform/respond"
	"github.com/taibuivan/vidora/internal/platform/storage"
)

// Handler implements the HTTP layer for user account management.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Attach registers the account routes on the /users router shared with the auth handler.
//
// # Endpoints
//   - GET   /me           : Private profile (auth)
//   - PATCH /me           : Display name / email (auth)
//   - PATCH /me/avatar    : Set avatar key (auth)
//   - PATCH /me/cover     : Set cover image key (auth)
//   - POST  /me/uploads   : Presigned avatar/cover upload (auth)
//   - GET   /c/{username} : Public channel profile
func (handler *Handler) Attach(router chi.Router) {

	// Public Profile discovery
	router.Get("/c/{username}", handler.getChannel)

	// Account Management
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Get("/me", handler.getMe)
		r.Patch("/me", handler.updateMe)
		r.Patch("/me/avatar", handler.updateImage(storage.KindAvatar))
		r.Patch("/me/cover", handler.updateImage(storage.KindCover))
		r.Post("/me/uploads", handler.presignImage)
	})
}

// # User Profile Endpoints

/*
GET /api/v1/users/me.

Description: Retrieves the full private profile of the authenticated user.

Response:
  - 200: User: Fully hydrated user profile
  - 401: MISSING_CREDENTIAL: Authentication required
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// updateMeRequest defines the expected JSON payload for profile updates.
type updateMeRequest struct {
	DisplayName *string `json:"display_name"`
	Email       *string `json:"email"`
}

/*
PATCH /api/v1/users/me.

Description: Applies partial updates to the authenticated user's profile.

Request:
  - body: updateMeRequest (Partial JSON)

Response:
  - 200: User: The updated profile
  - 400: VALIDATION_ERROR: Invalid input data
  - 409: CONFLICT: Email held by another account
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateMeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateProfile(request.Context(), userID, UpdateProfileInput{
		DisplayName: input.DisplayName,
		Email:       input.Email,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

type imageRequest struct {
	Key string `json:"key"`
}

/*
PATCH /api/v1/users/me/avatar and /me/cover.

Request:
  - body: imageRequest (Key from POST /me/uploads)

Response:
  - 200: User: The updated profile
  - 400: VALIDATION_ERROR: Key not issued to the caller
*/
func (handler *Handler) updateImage(kind storage.Kind) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		userID, err := requestutil.RequiredUserID(request)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		var input imageRequest
		if err := requestutil.DecodeJSON(request, &input); err != nil {
			respond.Error(writer, request, err)
			return
		}

		user, err := handler.accountService.UpdateImage(request.Context(), userID, kind, input.Key)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		respond.OK(writer, user)
	}
}

type uploadRequest struct {
	Kind storage.Kind `json:"kind"`
}

/*
POST /api/v1/users/me/uploads.

Response:
  - 201: storage.Upload
  - 503: SERVICE_UNAVAILABLE: Object storage not configured
*/
func (handler *Handler) presignImage(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input uploadRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	upload, err := handler.accountService.PresignImage(request.Context(), userID, input.Kind)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, upload)
}

/*
GET /api/v1/users/c/{username}.

Description: Retrieves the public channel page of a user.

Response:
  - 200: ChannelProfile
  - 404: NOT_FOUND: Unknown channel
*/
func (handler *Handler) getChannel(writer http.ResponseWriter, request *http.Request) {
	profile, err := handler.accountService.GetChannel(
		request.Context(),
		requestutil.Param(request, "username"),
		ctxutil.AuthUserID(request.Context()),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}
