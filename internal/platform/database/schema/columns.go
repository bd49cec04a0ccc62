// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

import "strings"

// Qualify renders cols as a SELECT list prefixed with a table alias.
//
//	Qualify("v", []string{"id", "title"}) == "v.id, v.title"
func Qualify(alias string, cols []string) string {
	qualified := make([]string, len(cols))
	for i, col := range cols {
		qualified[i] = alias + "." + col
	}
	return strings.Join(qualified, ", ")
}
