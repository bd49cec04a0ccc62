// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/internal/platform/constants"
	"github.com/taibuivan/vidora/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/vidora/internal/platform/request"
	"github.com/taibuivan/vidora/internal/platform/respond"
	"github.com/taibuivan/vidora/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify access tokens in middleware.
type TokenVerifier interface {
	VerifyAccess(tokenString string) (*sec.AccessClaims, error)
}

// # Auth Guard

// Guard turns a raw credential string into a verified identity or a rejection.
//
// It never touches storage: the access token's claims are the identity.
type Guard struct {
	verifier TokenVerifier
}

// NewGuard creates a [Guard] backed by the given verifier.
func NewGuard(verifier TokenVerifier) *Guard {
	return &Guard{verifier: verifier}
}

// Authenticate verifies a raw credential.
//
// # Errors
//
//   - MISSING_CREDENTIAL when raw is empty.
//   - INVALID_CREDENTIAL when the token is expired, tampered, or not an access token.
func (guard *Guard) Authenticate(raw string) (*sec.AccessClaims, error) {
	if raw == "" {
		return nil, apperr.MissingCredential()
	}

	claims, err := guard.verifier.VerifyAccess(raw)
	if err != nil {
		invalid := apperr.InvalidCredential("Invalid or expired access token")
		invalid.Cause = err
		return nil, invalid
	}
	return claims, nil
}

// CredentialFromRequest returns the raw access token carried by the request.
//
// # Carriers
//
//  1. 'Authorization: Bearer <token>' header.
//  2. The access token cookie, for browser clients.
//
// A malformed Authorization header yields its raw value so verification fails
// loudly instead of silently falling back to anonymous.
func CredentialFromRequest(request *http.Request) string {
	if header := strings.TrimSpace(request.Header.Get(constants.HeaderAuthorization)); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if found && strings.EqualFold(scheme, constants.BearerScheme) {
			return strings.TrimSpace(token)
		}
		return header
	}

	if cookie, err := request.Cookie(constants.AccessTokenCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// Authenticate resolves the caller's identity on every request.
//
// # Flow
//  1. No credential: request proceeds as anonymous.
//  2. Credential present but invalid: request proceeds as anonymous with the
//     INVALID_CREDENTIAL error recorded, so public routes such as refresh still
//     work while [RequireAuth] rejects with that error.
//  3. Otherwise the verified [*sec.AccessClaims] are stored in the request context.
func Authenticate(guard *Guard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			raw := CredentialFromRequest(request)

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if raw == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Token Verification ─────────────────────────────────────────
			claims, err := guard.Authenticate(raw)
			if err != nil {
				ctxutil.GetLogger(request.Context()).DebugContext(request.Context(), "access_token_rejected",
					slog.String("reason", apperr.As(err).Cause.Error()),
				)
				next.ServeHTTP(writer, request.WithContext(ctxutil.WithAuthError(request.Context(), err)))
				return
			}

			// ── 3. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			ctx = ctxutil.WithLogger(ctx, ctxutil.GetLogger(ctx).With(slog.String("user_id", claims.UserID)))
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// A credential rejected by [Authenticate] answers INVALID_CREDENTIAL; no
// credential at all answers MISSING_CREDENTIAL. Must be registered in the
// router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if _, err := requestutil.RequiredClaims(request); err != nil {
			respond.Error(writer, request, err)
			return
		}
		next.ServeHTTP(writer, request)
	})
}
