// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package video_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidora/internal/media/video"
	"github.com/taibuivan/vidora/internal/platform/middleware"
	"github.com/taibuivan/vidora/internal/platform/sec"
)

type httpFixture struct {
	*fixture
	router http.Handler
	tokens *sec.TokenService
}

func newHTTPFixture(t *testing.T) *httpFixture {
	t.Helper()

	tokens, err := sec.NewTokenService(sec.TokenConfig{
		AccessSecret:  []byte(strings.Repeat("a", 32)),
		RefreshSecret: []byte(strings.Repeat("r", 32)),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    24 * time.Hour,
		Issuer:        "vidora.test",
		Now:           time.Now,
	})
	require.NoError(t, err)

	f := newFixture(t, fakePresigner{})
	router := chi.NewRouter()
	router.Use(middleware.Authenticate(middleware.NewGuard(tokens)))
	router.Route("/videos", video.NewHandler(f.service).RegisterRoutes)

	return &httpFixture{fixture: f, router: router, tokens: tokens}
}

func (f *httpFixture) bearer(t *testing.T, identity *sec.AccessClaims) string {
	t.Helper()
	token, err := f.tokens.IssueAccess(sec.Subject{UserID: identity.UserID, Username: identity.Username})
	require.NoError(t, err)
	return "Bearer " + token
}

func (f *httpFixture) do(method, path, body, authorization string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	if authorization != "" {
		request.Header.Set("Authorization", authorization)
	}
	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, request)
	return recorder
}

func responseCode(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body.Code
}

/*
TestHandler_DeleteOwnership verifies the HTTP mapping of the ownership rule.
*/
func TestHandler_DeleteOwnership(t *testing.T) {
	f := newHTTPFixture(t)
	v := f.publish(t, f.alice, "Alice's video", true)

	recorder := f.do(http.MethodDelete, "/videos/"+v.ID, "", "")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, "MISSING_CREDENTIAL", responseCode(t, recorder))

	recorder = f.do(http.MethodDelete, "/videos/"+v.ID, "", f.bearer(t, f.bob))
	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Equal(t, "FORBIDDEN", responseCode(t, recorder))

	recorder = f.do(http.MethodDelete, "/videos/"+v.ID, "", f.bearer(t, f.alice))
	assert.Equal(t, http.StatusNoContent, recorder.Code)

	recorder = f.do(http.MethodGet, "/videos/"+v.ID, "", "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

/*
TestHandler_ListAndGet verifies the public read endpoints.
*/
func TestHandler_ListAndGet(t *testing.T) {
	f := newHTTPFixture(t)
	v := f.publish(t, f.alice, "Cats", true)
	f.publish(t, f.alice, "Dogs", false)

	recorder := f.do(http.MethodGet, "/videos?limit=10&sort_by=views", "", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var page struct {
		Data []video.Video `json:"data"`
		Meta struct {
			Total int `json:"total"`
			Limit int `json:"limit"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &page))
	assert.Equal(t, 1, page.Meta.Total)
	assert.Equal(t, 10, page.Meta.Limit)
	assert.Equal(t, v.ID, page.Data[0].ID)

	recorder = f.do(http.MethodGet, "/videos/not-a-uuid", "", "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

/*
TestHandler_PublishAndToggle exercises the authenticated write path.
*/
func TestHandler_PublishAndToggle(t *testing.T) {
	f := newHTTPFixture(t)
	auth := f.bearer(t, f.alice)

	recorder := f.do(http.MethodPost, "/videos/uploads", `{"kind":"video"}`, auth)
	require.Equal(t, http.StatusCreated, recorder.Code)

	var upload struct {
		Data struct {
			Key string `json:"key"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &upload))

	body := `{"title":"Cats","video_key":"` + upload.Data.Key + `","duration_sec":42}`
	recorder = f.do(http.MethodPost, "/videos", body, auth)
	require.Equal(t, http.StatusCreated, recorder.Code)

	var created struct {
		Data video.Video `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &created))
	assert.Equal(t, f.alice.UserID, created.Data.OwnerID)
	assert.True(t, created.Data.IsPublished)

	recorder = f.do(http.MethodPatch, "/videos/"+created.Data.ID+"/publish", "", f.bearer(t, f.bob))
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	recorder = f.do(http.MethodPatch, "/videos/"+created.Data.ID+"/publish", "", auth)
	require.Equal(t, http.StatusOK, recorder.Code)

	var toggled struct {
		Data video.Video `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &toggled))
	assert.False(t, toggled.Data.IsPublished)
}
