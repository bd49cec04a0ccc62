// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package video

import "context"

// Repository defines the persistence contract for videos.
//
// Mutating methods take the caller's ownerID and only touch rows it owns;
// a mismatch is reported as NOT_FOUND.
type Repository interface {
	List(context context.Context, filter Filter, limit, offset int) ([]*Video, int, error)
	FindByID(context context.Context, id string) (*Video, error)

	/*
		FindOwner returns the owner of a video.

		Returns:
		  - string: Owner user ID
		  - error: apperr.NotFound when the video does not exist
	*/
	FindOwner(context context.Context, id string) (string, error)

	Create(context context.Context, video *Video) error
	Update(context context.Context, video *Video) error
	SetPublished(context context.Context, id, ownerID string, published bool) (*Video, error)
	Delete(context context.Context, id, ownerID string) error

	// IncrementViews bumps the view counter and returns the new value.
	IncrementViews(context context.Context, id string) (int64, error)
}
