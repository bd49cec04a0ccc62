// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package video manages uploaded videos: publishing, discovery, and owner edits.

The bytes live in object storage; this package stores the object keys and
metadata. Every mutation is restricted to the owning channel.

# Architecture

  - Entities: Video, Channel (owner summary), Filter.
  - Storage: media.video, joined with users.account for the owner summary.
  - Security: authz.AuthorizeOwnerMutation before every write, plus an
    ownerid predicate on the mutating SQL.
*/
package video

import (
	"time"

	"github.com/taibuivan/vidora/pkg/query"
)

// # Domain Entities

// Video is a single uploaded video and its metadata.
type Video struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"owner_id"`
	VideoKey     string    `json:"video_key"`
	ThumbnailKey string    `json:"thumbnail_key"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	DurationSec  int       `json:"duration_sec"`
	Views        int64     `json:"views"`
	IsPublished  bool      `json:"is_published"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Owner is populated on reads only.
	Owner *Channel `json:"owner,omitempty"`
}

// Channel is the public summary of the user who owns a video.
type Channel struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

// Filter holds the parameters for a paginated video search.
type Filter struct {
	Query   string // Case-insensitive substring of the title
	OwnerID string // Restrict to a single channel

	// IncludeDrafts lists unpublished videos too. Only ever set when the
	// caller is the OwnerID.
	IncludeDrafts bool

	Sort query.Sort
}

// # Sorting

// Sort keys accepted on the list endpoint.
const (
	SortCreatedAt = "created_at"
	SortTitle     = "title"
	SortViews     = "views"
)

// DefaultSort lists the newest videos first.
var DefaultSort = query.Sort{Field: SortCreatedAt, Desc: true}

// # Limits

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 5000
	MaxDurationSec       = 12 * 60 * 60
)

// Global field names for validation
const (
	FieldTitle        = "title"
	FieldDescription  = "description"
	FieldVideoKey     = "video_key"
	FieldThumbnailKey = "thumbnail_key"
	FieldDurationSec  = "duration_sec"
	FieldKind         = "kind"
)
