// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package respond_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/internal/platform/respond"
	"github.com/taibuivan/vidora/pkg/pagination"
)

func decode(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

/*
TestError_Mapping verifies status and code for typed and untyped errors.
*/
func TestError_Mapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not_found", apperr.NotFound("Video"), http.StatusNotFound, apperr.CodeNotFound},
		{"forbidden", apperr.Forbidden("Only the owner can do that"), http.StatusForbidden, apperr.CodeForbidden},
		{"missing_credential", apperr.MissingCredential(), http.StatusUnauthorized, apperr.CodeMissingCredential},
		{"wrapped", errors.Join(errors.New("ctx"), apperr.Conflict("taken")), http.StatusConflict, apperr.CodeConflict},
		{"untyped", errors.New("pq: relation does not exist"), http.StatusInternalServerError, apperr.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			respond.Error(recorder, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			assert.Equal(t, tt.status, recorder.Code)
			body := decode(t, recorder)
			assert.Equal(t, tt.code, body["code"])
			assert.NotContains(t, body["error"], "relation")
		})
	}
}

/*
TestError_ValidationDetails verifies that field errors are carried to the client.
*/
func TestError_ValidationDetails(t *testing.T) {
	recorder := httptest.NewRecorder()
	err := apperr.ValidationError("Invalid input", apperr.FieldError{Field: "title", Message: "is required"})
	respond.Error(recorder, httptest.NewRequest(http.MethodPost, "/", nil), err)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	details, ok := decode(t, recorder)["details"].([]any)
	require.True(t, ok)
	require.Len(t, details, 1)
	assert.Equal(t, "title", details[0].(map[string]any)["field"])
}

/*
TestPaginated verifies the list envelope.
*/
func TestPaginated(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.Paginated(recorder, []string{"a", "b"}, pagination.NewMeta(1, 2, 3))

	body := decode(t, recorder)
	assert.Len(t, body["data"], 2)
	meta := body["meta"].(map[string]any)
	assert.EqualValues(t, 2, meta["total_pages"])
	assert.Equal(t, true, meta["has_next"])
}
