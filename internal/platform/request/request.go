// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package requestutil reads path parameters, JSON bodies and the caller
// identity off an incoming request.
package requestutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/internal/platform/ctxutil"
	"github.com/taibuivan/vidora/internal/platform/sec"
	"github.com/taibuivan/vidora/internal/platform/validate"
)

// MaxBodyBytes bounds every JSON body. Media bytes never pass through the API.
const MaxBodyBytes = 1 << 20

// # Bodies

/*
DecodeJSON decodes a required JSON body into target.

Returns:
  - error: validate.ErrInvalidJSON for an empty, malformed or oversized body
*/
func DecodeJSON(request *http.Request, target any) error {
	if request.Body == nil || request.Body == http.NoBody {
		return validate.ErrInvalidJSON
	}
	return decode(request.Body, target, false)
}

// DecodeOptionalJSON is [DecodeJSON] that treats an empty body as "no fields".
func DecodeOptionalJSON(request *http.Request, target any) error {
	if request.Body == nil || request.Body == http.NoBody {
		return nil
	}
	return decode(request.Body, target, true)
}

func decode(body io.Reader, target any, allowEmpty bool) error {
	err := json.NewDecoder(io.LimitReader(body, MaxBodyBytes)).Decode(target)
	switch {
	case err == nil:
		return nil
	case allowEmpty && errors.Is(err, io.EOF):
		return nil
	default:
		return validate.ErrInvalidJSON
	}
}

// # Path Parameters

// ID returns a named path parameter holding a resource id.
func ID(request *http.Request, name string) string {
	return strings.TrimSpace(chi.URLParam(request, name))
}

// Param returns a named path parameter verbatim.
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

// # Identity

// RequiredClaims returns the caller's claims, the recorded credential rejection,
// or MISSING_CREDENTIAL when nothing was presented.
func RequiredClaims(request *http.Request) (*sec.AccessClaims, error) {
	claims := ctxutil.GetAuthUser(request.Context())
	if claims != nil {
		return claims, nil
	}
	if err := ctxutil.GetAuthError(request.Context()); err != nil {
		return nil, err
	}
	return nil, apperr.MissingCredential()
}

// RequiredUserID is [RequiredClaims] narrowed to the user id.
func RequiredUserID(request *http.Request) (string, error) {
	claims, err := RequiredClaims(request)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}
