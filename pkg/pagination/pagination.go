// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination turns "page" and "limit" query parameters into a SQL
// window and describes that window back to the client.
package pagination

import (
	"net/http"
	"strconv"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
	DefaultPage  = 1

	ParamPage  = "page"
	ParamLimit = "limit"
)

// Params is a 1-indexed page window.
type Params struct {
	Page  int
	Limit int
}

// Offset returns the SQL OFFSET for the window.
func (p Params) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Meta describes the window against the total row count.
func (p Params) Meta(total int) Meta {
	return NewMeta(p.Page, p.Limit, total)
}

// Meta is the "meta" block of a list response.
type Meta struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// NewMeta builds list metadata. A non-positive limit yields zero pages.
func NewMeta(page, limit, total int) Meta {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return Meta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

/*
FromRequest parses the window from the query string.

A malformed or non-positive value falls back to its default. A limit above
[MaxLimit] is capped rather than rejected.
*/
func FromRequest(r *http.Request) Params {
	page := positiveParam(r, ParamPage, DefaultPage)
	limit := min(positiveParam(r, ParamLimit, DefaultLimit), MaxLimit)

	return Params{Page: page, Limit: limit}
}

func positiveParam(r *http.Request, key string, fallback int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
