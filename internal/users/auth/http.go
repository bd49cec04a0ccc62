// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/internal/platform/constants"
	"github.com/taibuivan/vidora/internal/platform/middleware"
	requestutil "github.com/taibuivan/vidora/internal/platform/request"
	"github.com/taibuivan/vidora/internal/platform/respond"
)

// # Definitions & Constructors

// CookieOptions controls how auth cookies are written.
type CookieOptions struct {
	// Secure marks cookies HTTPS-only. Disabled only for local development.
	Secure bool
}

// Handler implements authentication-related HTTP endpoints.
//
// Tokens are delivered twice: in the JSON body for API clients and as
// httpOnly cookies for browsers.
type Handler struct {
	authService *Service
	cookies     CookieOptions
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service, cookies CookieOptions) *Handler {
	return &Handler{authService: service, cookies: cookies}
}

// Attach registers the authentication routes on a router shared with the account handler.
//
// # Endpoints
//   - POST /register     : Creates a new account.
//   - POST /login        : Authenticates and returns a token pair.
//   - POST /refresh      : Rotates a refresh token.
//   - POST /logout       : Revokes the refresh token (auth).
//   - POST /me/password  : Changes the password and signs out (auth).
func (handler *Handler) Attach(router chi.Router) {

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/refresh", handler.refresh)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/logout", handler.logout)
		r.Post("/me/password", handler.changePassword)
	})
}

// # Request Payloads

type registerRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type loginRequest struct {
	Login    string `json:"login"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type sessionResponse struct {
	User *User `json:"user"`
	*TokenPair
}

/*
Register handles the creation of a new user account.

POST /api/v1/users/register

Request:
  - Body: registerRequest (Username, Email, Password, DisplayName)

Response:
  - 201: User: Created user profile
  - 400: VALIDATION_ERROR: Bad input
  - 409: CONFLICT: Username or Email already exists
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Register(request.Context(), RegisterInput{
		Username:    input.Username,
		Email:       input.Email,
		Password:    input.Password,
		DisplayName: input.DisplayName,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
Login authenticates a user and establishes a session.

POST /api/v1/users/login

Request:
  - Body: loginRequest (Login | Username | Email, Password)

Response:
  - 200: sessionResponse: Token pair and User profile (+ cookies)
  - 401: INVALID_CREDENTIAL: Unknown account or wrong password
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	login := input.Login
	if login == "" {
		login = input.Username
	}
	if login == "" {
		login = input.Email
	}

	result, err := handler.authService.Login(request.Context(), LoginInput{
		Login:    login,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setSessionCookies(writer, result.Tokens)
	writer.Header().Set(constants.HeaderCacheControl, constants.CacheControlNoStore)
	respond.OK(writer, sessionResponse{User: result.User, TokenPair: result.Tokens})
}

/*
Refresh rotates a refresh token into a new pair.

POST /api/v1/users/refresh

Description: The refresh token is read from the refresh cookie, falling back
to the JSON body. Each refresh token can be used once.

Response:
  - 200: sessionResponse: New credentials (+ cookies)
  - 401: MISSING_CREDENTIAL | TOKEN_EXPIRED | INVALID_SIGNATURE | SESSION_REVOKED
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	refreshToken := ""
	if cookie, err := request.Cookie(constants.RefreshTokenCookieName); err == nil {
		refreshToken = cookie.Value
	}

	if refreshToken == "" {
		var input refreshRequest
		if err := requestutil.DecodeOptionalJSON(request, &input); err != nil {
			respond.Error(writer, request, err)
			return
		}
		refreshToken = input.RefreshToken
	}

	if refreshToken == "" {
		respond.Error(writer, request, apperr.MissingCredential())
		return
	}

	result, err := handler.authService.Refresh(request.Context(), refreshToken)
	if err != nil {
		// A rejected refresh token is useless to the browser; drop it.
		if apperr.HasCode(err, apperr.CodeSessionRevoked) {
			handler.clearSessionCookies(writer)
		}
		respond.Error(writer, request, err)
		return
	}

	handler.setSessionCookies(writer, result.Tokens)
	writer.Header().Set(constants.HeaderCacheControl, constants.CacheControlNoStore)
	respond.OK(writer, sessionResponse{User: result.User, TokenPair: result.Tokens})
}

/*
Logout terminates the current user session.

POST /api/v1/users/logout

Response:
  - 204: No Content: Session revoked and cookies cleared
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.Logout(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.clearSessionCookies(writer)
	respond.NoContent(writer)
}

/*
ChangePassword replaces the caller's password.

POST /api/v1/users/me/password

Description: The outstanding refresh token is revoked, so other devices must
log in again once their access token expires.

Response:
  - 204: No Content
  - 401: INVALID_CREDENTIAL: Current password is wrong
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ChangePassword(request.Context(), userID, ChangePasswordInput{
		CurrentPassword: input.CurrentPassword,
		NewPassword:     input.NewPassword,
	}); err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.clearSessionCookies(writer)
	respond.NoContent(writer)
}

// # Cookie Helpers

func (handler *Handler) setSessionCookies(writer http.ResponseWriter, tokens *TokenPair) {
	http.SetCookie(writer, handler.cookie(constants.AccessTokenCookieName, tokens.AccessToken, tokens.AccessExpiresAt))
	http.SetCookie(writer, handler.cookie(constants.RefreshTokenCookieName, tokens.RefreshToken, tokens.RefreshExpiresAt))
}

func (handler *Handler) clearSessionCookies(writer http.ResponseWriter) {
	for _, name := range []string{constants.AccessTokenCookieName, constants.RefreshTokenCookieName} {
		cookie := handler.cookie(name, "", time.Time{})
		cookie.MaxAge = -1
		http.SetCookie(writer, cookie)
	}
}

func (handler *Handler) cookie(name, value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     constants.AuthCookiePath,
		Expires:  expires,
		Secure:   handler.cookies.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
}
