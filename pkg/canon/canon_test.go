// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package canon_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/vidora/pkg/canon"
)

/*
TestIdentifier verifies that visually equivalent identifiers collapse to one form.
*/
func TestIdentifier(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"alice", "alice"},
		{"  Alice ", "alice"},
		{"ALICE@X.COM", "alice@x.com"},
		{"ａｌｉｃｅ", "alice"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, canon.Identifier(tt.input))
		})
	}
}

/*
TestText verifies trimming and composition of free text.
*/
func TestText(t *testing.T) {
	assert.Equal(t, "My Video", canon.Text("  My Video\n"))
	assert.Equal(t, "caf\u00e9", canon.Text("cafe\u0301"))
}
