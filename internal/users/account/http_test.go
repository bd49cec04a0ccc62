// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

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

	"github.com/taibuivan/vidora/internal/platform/middleware"
	"github.com/taibuivan/vidora/internal/platform/sec"
	"github.com/taibuivan/vidora/internal/users/account"
)

/*
TestHandler_MeAndChannel exercises the account routes through the auth guard.
*/
func TestHandler_MeAndChannel(t *testing.T) {
	f := newFixture(t, nil)

	tokens, err := sec.NewTokenService(sec.TokenConfig{
		AccessSecret:  []byte(strings.Repeat("a", 32)),
		RefreshSecret: []byte(strings.Repeat("r", 32)),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    24 * time.Hour,
		Issuer:        "vidora.test",
		Now:           time.Now,
	})
	require.NoError(t, err)

	router := chi.NewRouter()
	router.Use(middleware.Authenticate(middleware.NewGuard(tokens)))
	router.Route("/users", account.NewHandler(f.service).Attach)

	token, err := tokens.IssueAccess(f.alice.Subject())
	require.NoError(t, err)

	do := func(method, path, body string, authenticated bool) *httptest.ResponseRecorder {
		request := httptest.NewRequest(method, path, strings.NewReader(body))
		if authenticated {
			request.Header.Set("Authorization", "Bearer "+token)
		}
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)
		return recorder
	}

	recorder := do(http.MethodGet, "/users/me", "", false)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = do(http.MethodGet, "/users/me", "", true)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"username":"alice"`)
	assert.NotContains(t, recorder.Body.String(), "password")

	recorder = do(http.MethodPatch, "/users/me", `{"email":"bob@x.com"}`, true)
	assert.Equal(t, http.StatusConflict, recorder.Code)

	recorder = do(http.MethodGet, "/users/c/alice", "", false)
	require.Equal(t, http.StatusOK, recorder.Code)

	var profile struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &profile))
	assert.Equal(t, "alice", profile.Data["username"])
	assert.EqualValues(t, 1, profile.Data["subscribers_count"])
	assert.NotContains(t, profile.Data, "email")
}
