// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package video_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidora/internal/media/video"
	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/internal/platform/sec"
	"github.com/taibuivan/vidora/internal/platform/storage"
	"github.com/taibuivan/vidora/pkg/uuid"
)

// # In-memory Repository

type memoryVideos struct {
	mu     sync.Mutex
	videos map[string]video.Video
	order  []string
}

func newMemoryVideos() *memoryVideos {
	return &memoryVideos{videos: map[string]video.Video{}}
}

func (m *memoryVideos) List(_ context.Context, f video.Filter, limit, offset int) ([]*video.Video, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []*video.Video
	for _, id := range m.order {
		v, ok := m.videos[id]
		if !ok {
			continue
		}
		if !f.IncludeDrafts && !v.IsPublished {
			continue
		}
		if f.OwnerID != "" && v.OwnerID != f.OwnerID {
			continue
		}
		if f.Query != "" && !strings.Contains(strings.ToLower(v.Title), strings.ToLower(f.Query)) {
			continue
		}
		found := v
		matched = append(matched, &found)
	}

	total := len(matched)
	if offset >= total {
		return []*video.Video{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (m *memoryVideos) FindByID(_ context.Context, id string) (*video.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.videos[id]
	if !ok {
		return nil, apperr.NotFound("Video")
	}
	return &v, nil
}

func (m *memoryVideos) FindOwner(ctx context.Context, id string) (string, error) {
	v, err := m.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	return v.OwnerID, nil
}

func (m *memoryVideos) Create(_ context.Context, v *video.Video) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v.ID == "" {
		v.ID = uuid.New()
	}
	v.CreatedAt, v.UpdatedAt = time.Now(), time.Now()
	m.videos[v.ID] = *v
	m.order = append(m.order, v.ID)
	return nil
}

func (m *memoryVideos) Update(_ context.Context, v *video.Video) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.videos[v.ID]
	if !ok || stored.OwnerID != v.OwnerID {
		return apperr.NotFound("Video")
	}
	stored.Title, stored.Description, stored.ThumbnailKey = v.Title, v.Description, v.ThumbnailKey
	m.videos[v.ID] = stored
	return nil
}

func (m *memoryVideos) SetPublished(_ context.Context, id, ownerID string, published bool) (*video.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.videos[id]
	if !ok || stored.OwnerID != ownerID {
		return nil, apperr.NotFound("Video")
	}
	stored.IsPublished = published
	m.videos[id] = stored
	return &stored, nil
}

func (m *memoryVideos) Delete(_ context.Context, id, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.videos[id]
	if !ok || stored.OwnerID != ownerID {
		return apperr.NotFound("Video")
	}
	delete(m.videos, id)
	return nil
}

func (m *memoryVideos) IncrementViews(_ context.Context, id string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.videos[id]
	if !ok {
		return 0, apperr.NotFound("Video")
	}
	stored.Views++
	m.videos[id] = stored
	return stored.Views, nil
}

// fakePresigner hands out keys in the real layout without signing anything.
type fakePresigner struct{}

func (fakePresigner) PresignUpload(_ context.Context, kind storage.Kind, ownerID string) (*storage.Upload, error) {
	return &storage.Upload{
		Kind:   kind,
		Key:    storage.NewKey(kind, ownerID, time.Now()),
		URL:    "http://storage.test/upload",
		Method: "PUT",
	}, nil
}

// # Fixtures

type fixture struct {
	repo    *memoryVideos
	service *video.Service
	alice   *sec.AccessClaims
	bob     *sec.AccessClaims
}

func newFixture(t *testing.T, uploads video.Presigner) *fixture {
	t.Helper()
	repo := newMemoryVideos()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	return &fixture{
		repo:    repo,
		service: video.NewService(repo, uploads, logger),
		alice:   &sec.AccessClaims{UserID: uuid.New(), Username: "alice"},
		bob:     &sec.AccessClaims{UserID: uuid.New(), Username: "bob"},
	}
}

func (f *fixture) publish(t *testing.T, owner *sec.AccessClaims, title string, published bool) *video.Video {
	t.Helper()
	v, err := f.service.Publish(context.Background(), owner, video.PublishInput{
		Title:       title,
		VideoKey:    storage.NewKey(storage.KindVideo, owner.UserID, time.Now()),
		DurationSec: 90,
		Published:   &published,
	})
	require.NoError(t, err)
	return v
}

// # Publishing

/*
TestPublish_Validation covers the metadata and key ownership rules.
*/
func TestPublish_Validation(t *testing.T) {
	f := newFixture(t, fakePresigner{})

	aliceKey := storage.NewKey(storage.KindVideo, f.alice.UserID, time.Now())
	bobKey := storage.NewKey(storage.KindVideo, f.bob.UserID, time.Now())

	tests := []struct {
		name  string
		input video.PublishInput
	}{
		{"missing_title", video.PublishInput{Title: "  ", VideoKey: aliceKey}},
		{"missing_key", video.PublishInput{Title: "Cats"}},
		{"foreign_key", video.PublishInput{Title: "Cats", VideoKey: bobKey}},
		{"thumbnail_as_video", video.PublishInput{Title: "Cats", VideoKey: strings.Replace(aliceKey, "video/", "thumbnail/", 1)}},
		{"negative_duration", video.PublishInput{Title: "Cats", VideoKey: aliceKey, DurationSec: -1}},
		{"long_title", video.PublishInput{Title: strings.Repeat("x", video.MaxTitleLength+1), VideoKey: aliceKey}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.Publish(context.Background(), f.alice, tt.input)
			assert.True(t, apperr.HasCode(err, apperr.CodeValidation), "got %v", err)
		})
	}
}

/*
TestPublish_DefaultsToPublished verifies ownership is taken from the identity.
*/
func TestPublish_DefaultsToPublished(t *testing.T) {
	f := newFixture(t, fakePresigner{})

	v, err := f.service.Publish(context.Background(), f.alice, video.PublishInput{
		Title:    "  First upload ",
		VideoKey: storage.NewKey(storage.KindVideo, f.alice.UserID, time.Now()),
	})
	require.NoError(t, err)

	assert.Equal(t, f.alice.UserID, v.OwnerID)
	assert.Equal(t, "First upload", v.Title)
	assert.True(t, v.IsPublished)
	assert.True(t, uuid.Valid(v.ID))
}

// # Ownership

/*
TestMutations_OwnerOnly verifies that only the owner may edit, toggle, or delete.
*/
func TestMutations_OwnerOnly(t *testing.T) {
	f := newFixture(t, fakePresigner{})
	ctx := context.Background()
	v := f.publish(t, f.alice, "Alice's video", true)

	title := "Hijacked"
	_, err := f.service.Update(ctx, f.bob, v.ID, video.UpdateInput{Title: &title})
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	_, err = f.service.TogglePublish(ctx, f.bob, v.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	err = f.service.Delete(ctx, f.bob, v.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	stored, err := f.repo.FindByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice's video", stored.Title)
	assert.True(t, stored.IsPublished)

	title = "Renamed"
	updated, err := f.service.Update(ctx, f.alice, v.ID, video.UpdateInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)

	require.NoError(t, f.service.Delete(ctx, f.alice, v.ID))
	_, err = f.repo.FindByID(ctx, v.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

/*
TestMutations_UnknownVideo verifies that missing and malformed ids are NOT_FOUND.
*/
func TestMutations_UnknownVideo(t *testing.T) {
	f := newFixture(t, fakePresigner{})
	ctx := context.Background()

	for _, id := range []string{uuid.New(), "not-a-uuid"} {
		err := f.service.Delete(ctx, f.alice, id)
		assert.True(t, apperr.HasCode(err, apperr.CodeNotFound), id)

		_, err = f.service.TogglePublish(ctx, f.alice, id)
		assert.True(t, apperr.HasCode(err, apperr.CodeNotFound), id)
	}
}

/*
TestUpdate_ForeignThumbnail rejects a thumbnail key issued to another user.
*/
func TestUpdate_ForeignThumbnail(t *testing.T) {
	f := newFixture(t, fakePresigner{})
	v := f.publish(t, f.alice, "Cats", true)

	foreign := storage.NewKey(storage.KindThumbnail, f.bob.UserID, time.Now())
	_, err := f.service.Update(context.Background(), f.alice, v.ID, video.UpdateInput{ThumbnailKey: &foreign})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

// # Visibility

/*
TestDrafts_VisibleOnlyToOwner verifies draft visibility in Get and List.
*/
func TestDrafts_VisibleOnlyToOwner(t *testing.T) {
	f := newFixture(t, fakePresigner{})
	ctx := context.Background()

	public := f.publish(t, f.alice, "Public", true)
	draft := f.publish(t, f.alice, "Draft", false)

	_, err := f.service.Get(ctx, f.bob.UserID, draft.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	_, err = f.service.Get(ctx, "", draft.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	got, err := f.service.Get(ctx, f.alice.UserID, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, "Draft", got.Title)

	videos, total, err := f.service.List(ctx, f.bob.UserID, video.Filter{OwnerID: f.alice.UserID}, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, public.ID, videos[0].ID)

	_, total, err = f.service.List(ctx, f.alice.UserID, video.Filter{OwnerID: f.alice.UserID}, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	toggled, err := f.service.TogglePublish(ctx, f.alice, draft.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsPublished)

	_, total, err = f.service.List(ctx, "", video.Filter{}, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

/*
TestGet_CountsViews verifies each read increments the counter.
*/
func TestGet_CountsViews(t *testing.T) {
	f := newFixture(t, fakePresigner{})
	v := f.publish(t, f.alice, "Cats", true)

	first, err := f.service.Get(context.Background(), "", v.ID)
	require.NoError(t, err)
	second, err := f.service.Get(context.Background(), f.bob.UserID, v.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.Views)
	assert.Equal(t, int64(2), second.Views)
}

/*
TestList_MalformedOwner returns an empty page instead of querying.
*/
func TestList_MalformedOwner(t *testing.T) {
	f := newFixture(t, fakePresigner{})
	f.publish(t, f.alice, "Cats", true)

	videos, total, err := f.service.List(context.Background(), "", video.Filter{OwnerID: "alice"}, 20, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, videos)
}

// # Uploads

/*
TestPresignUpload covers kind restrictions and disabled storage.
*/
func TestPresignUpload(t *testing.T) {
	ctx := context.Background()

	f := newFixture(t, fakePresigner{})
	upload, err := f.service.PresignUpload(ctx, f.alice, storage.KindThumbnail)
	require.NoError(t, err)
	assert.True(t, storage.OwnsKey(storage.KindThumbnail, f.alice.UserID, upload.Key))

	_, err = f.service.PresignUpload(ctx, f.alice, storage.KindAvatar)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	disabled := newFixture(t, nil)
	_, err = disabled.service.PresignUpload(ctx, disabled.alice, storage.KindVideo)
	assert.True(t, apperr.HasCode(err, apperr.CodeUnavailable))
}
