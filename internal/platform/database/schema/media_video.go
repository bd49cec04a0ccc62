// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// MediaVideoTable represents the 'media.video' table
type MediaVideoTable struct {
	Table       string
	ID          string
	OwnerID     string
	VideoKey    string
	ThumbKey    string
	Title       string
	Description string
	DurationSec string
	Views       string
	IsPublished string
	CreatedAt   string
	UpdatedAt   string
}

// MediaVideo is the schema definition for media.video
var MediaVideo = MediaVideoTable{
	Table:       "media.video",
	ID:          "id",
	OwnerID:     "ownerid",
	VideoKey:    "videokey",
	ThumbKey:    "thumbnailkey",
	Title:       "title",
	Description: "description",
	DurationSec: "durationsec",
	Views:       "views",
	IsPublished: "ispublished",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

func (t MediaVideoTable) Columns() []string {
	return []string{
		t.ID, t.OwnerID, t.VideoKey, t.ThumbKey, t.Title, t.Description,
		t.DurationSec, t.Views, t.IsPublished, t.CreatedAt, t.UpdatedAt,
	}
}
