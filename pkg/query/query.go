// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package query parses list-endpoint query parameters that are not pagination.
package query

import (
	"net/http"
	"strings"
)

// Query string keys understood by [SortFromRequest].
const (
	ParamSortBy   = "sort_by"
	ParamSortType = "sort_type"
)

// Sort is a whitelisted ordering request.
type Sort struct {
	Field string
	Desc  bool
}

// Direction renders the SQL keyword for the sort order.
func (s Sort) Direction() string {
	if s.Desc {
		return "DESC"
	}
	return "ASC"
}

// SortFromRequest reads "sort_by" and "sort_type" from the query string.
//
// A field outside allowed falls back to def entirely; "asc" and "desc" are
// the only recognised directions (case-insensitive).
func SortFromRequest(r *http.Request, def Sort, allowed ...string) Sort {
	values := r.URL.Query()

	field := strings.ToLower(strings.TrimSpace(values.Get(ParamSortBy)))
	if field == "" || !contains(allowed, field) {
		field = def.Field
	}

	sort := Sort{Field: field, Desc: def.Desc}
	switch strings.ToLower(values.Get(ParamSortType)) {
	case "asc":
		sort.Desc = false
	case "desc":
		sort.Desc = true
	}
	return sort
}

// Text returns a trimmed query parameter.
func Text(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

// EscapeLike escapes the LIKE/ILIKE metacharacters so user input matches literally.
func EscapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
