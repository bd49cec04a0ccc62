// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ctxutil_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/vidora/internal/platform/ctxutil"
	"github.com/taibuivan/vidora/internal/platform/sec"
)

/*
TestRequestID verifies injection and the empty default.
*/
func TestRequestID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, ctxutil.GetRequestID(ctx))

	ctx = ctxutil.WithRequestID(ctx, "req-42")
	assert.Equal(t, "req-42", ctxutil.GetRequestID(ctx))
}

/*
TestLogger verifies the default fallback, including an explicitly stored nil.
*/
func TestLogger(t *testing.T) {
	ctx := context.Background()
	assert.Same(t, slog.Default(), ctxutil.GetLogger(ctx))
	assert.Same(t, slog.Default(), ctxutil.GetLogger(ctxutil.WithLogger(ctx, nil)))

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	assert.Same(t, logger, ctxutil.GetLogger(ctxutil.WithLogger(ctx, logger)))
}

/*
TestAuthUser verifies anonymous and authenticated lookups.
*/
func TestAuthUser(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, ctxutil.GetAuthUser(ctx))
	assert.Empty(t, ctxutil.AuthUserID(ctx))

	ctx = ctxutil.WithAuthUser(ctx, &sec.AccessClaims{UserID: "0190b6d2-8c1e-7a4b-9f00-00000000a11c", Username: "alice"})
	assert.Equal(t, "alice", ctxutil.GetAuthUser(ctx).Username)
	assert.Equal(t, "0190b6d2-8c1e-7a4b-9f00-00000000a11c", ctxutil.AuthUserID(ctx))
}

/*
TestAuthError verifies that a recorded rejection survives without an identity.
*/
func TestAuthError(t *testing.T) {
	ctx := context.Background()
	assert.NoError(t, ctxutil.GetAuthError(ctx))

	rejected := errors.New("token expired")
	ctx = ctxutil.WithAuthError(ctx, rejected)
	assert.Same(t, rejected, ctxutil.GetAuthError(ctx))
	assert.Nil(t, ctxutil.GetAuthUser(ctx))
}
