// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
TestRootCommand_RejectsBadInvocations verifies argument checks run before any database work.
*/
func TestRootCommand_RejectsBadInvocations(t *testing.T) {
	tests := [][]string{
		{"sideways"},
		{"up", "extra"},
		{"down", "--steps", "two"},
	}

	for _, args := range tests {
		t.Run(args[0], func(t *testing.T) {
			root := newRootCommand(slog.New(slog.NewTextHandler(io.Discard, nil)))
			root.SetOut(io.Discard)
			root.SetErr(io.Discard)
			root.SetArgs(args)

			assert.Error(t, root.Execute())
		})
	}
}

/*
TestRootCommand_Subcommands verifies the exposed commands and the down flag default.
*/
func TestRootCommand_Subcommands(t *testing.T) {
	root := newRootCommand(slog.New(slog.NewTextHandler(io.Discard, nil)))

	names := make([]string, 0, 3)
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	assert.ElementsMatch(t, []string{"up", "down", "version"}, names)

	down, _, err := root.Find([]string{"down"})
	require.NoError(t, err)
	assert.Equal(t, "1", down.Flags().Lookup("steps").DefValue)
}
