// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package canon canonicalizes user-supplied identifiers before they are stored or compared.
//
// # Usage
//
// Usernames and emails are unique case-insensitively. Rather than relying on
// collation at query time, every identifier is reduced to one canonical form
// on the way in, so plain equality in SQL is enough.
package canon

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Identifier returns the canonical form of a username or email.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFKC (compatibility forms: "ｆｕｌｌ" → "full", "ﬁ" → "fi").
// 2. Lowercases using Unicode rules.
// 3. Trims surrounding whitespace.
//
// A [cases.Caser] is stateful, so a fresh one is built per call.
func Identifier(s string) string {
	t := transform.Chain(norm.NFKC, cases.Lower(language.Und))
	result, _, err := transform.String(t, s)
	if err != nil {
		result = strings.ToLower(s)
	}
	return strings.TrimSpace(result)
}

// Text trims and NFC-normalizes free text such as titles and display names.
func Text(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}
