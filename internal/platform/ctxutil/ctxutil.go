// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil carries per-request values (request id, logger, caller
// identity) through [context.Context].
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/vidora/internal/platform/sec"
)

// key is unexported so no other package can read or overwrite these slots.
type key uint8

const (
	requestIDKey key = iota
	loggerKey
	identityKey
	identityErrorKey
)

// # Request Tracing

// WithRequestID attaches the X-Request-ID correlation value.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// GetRequestID returns the correlation id, or "" outside a request.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// # Structured Logging

// WithLogger attaches the request-scoped logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// GetLogger returns the request-scoped logger, falling back to [slog.Default].
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// # Identity

// WithAuthUser attaches the verified access claims of the caller.
func WithAuthUser(ctx context.Context, user *sec.AccessClaims) context.Context {
	return context.WithValue(ctx, identityKey, user)
}

// GetAuthUser returns the caller's claims, or nil for anonymous requests.
func GetAuthUser(ctx context.Context) *sec.AccessClaims {
	claims, _ := ctx.Value(identityKey).(*sec.AccessClaims)
	return claims
}

// AuthUserID returns the authenticated user's id, or "" for anonymous requests.
func AuthUserID(ctx context.Context) string {
	if claims := GetAuthUser(ctx); claims != nil {
		return claims.UserID
	}
	return ""
}

// WithAuthError records why a presented credential was rejected.
//
// The request continues as anonymous; routes that need an identity report this error.
func WithAuthError(ctx context.Context, err error) context.Context {
	return context.WithValue(ctx, identityErrorKey, err)
}

// GetAuthError returns the recorded credential rejection, or nil.
func GetAuthError(ctx context.Context) error {
	err, _ := ctx.Value(identityErrorKey).(error)
	return err
}
