// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants holds values shared across layers: server timing, auth cookie
and header names, and the Redis key taxonomy.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "vidora"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	DefaultReadTimeout       = 5 * time.Second
	DefaultWriteTimeout      = 10 * time.Second
	DefaultIdleTimeout       = 120 * time.Second
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// StatementTimeout caps a single SQL statement. It stays below
	// GlobalRequestTimeout so the database gives up before the client does.
	StatementTimeout = 15 * time.Second

	// ShutdownTimeout is how long in-flight requests get to finish on SIGTERM.
	ShutdownTimeout = 30 * time.Second
)

// # Authentication

const (
	AccessTokenCookieName  = "accessToken"
	RefreshTokenCookieName = "refreshToken"

	// AuthCookiePath scopes both auth cookies to the API prefix.
	AuthCookiePath = "/api/v1"

	// BearerScheme is compared case-insensitively.
	BearerScheme = "bearer"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderAuthorization = "Authorization"
	HeaderCacheControl  = "Cache-Control"
	CacheControlNoStore = "no-store"
)

// # Redis Keys

const (
	// RedisPrefixSubscriberCount + channel id holds the cached subscriber count.
	RedisPrefixSubscriberCount = "social:subscribers:"

	// SubscriberCountTTL bounds how stale a cached count may get when an
	// invalidation is lost.
	SubscriberCountTTL = 5 * time.Minute
)
