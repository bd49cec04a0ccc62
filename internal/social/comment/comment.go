// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package comment manages the comment threads attached to videos.
package comment

import (
	"context"
	"time"
)

// Comment is a single remark left on a video.
type Comment struct {
	ID        string    `json:"id"`
	VideoID   string    `json:"video_id"`
	OwnerID   string    `json:"owner_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Author is populated on list reads only.
	Author *Author `json:"author,omitempty"`
}

// Author is the public summary of the commenter.
type Author struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

// VideoLookup resolves a video's existence. The video repository satisfies it.
type VideoLookup interface {
	FindOwner(context context.Context, id string) (string, error)
}

// Repository defines the persistence contract for comments.
type Repository interface {
	ListByVideo(context context.Context, videoID string, limit, offset int) ([]*Comment, int, error)
	FindByID(context context.Context, id string) (*Comment, error)
	FindOwner(context context.Context, id string) (string, error)
	Create(context context.Context, comment *Comment) error

	// Update and Delete only touch rows owned by comment.OwnerID / ownerID.
	Update(context context.Context, comment *Comment) error
	Delete(context context.Context, id, ownerID string) error
}

const (
	// MaxBodyLength caps a comment in characters.
	MaxBodyLength = 2000

	FieldBody = "body"
)
