// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArg(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		args []any
		want string
	}{
		{"no args", "%1 stays", nil, "%1 stays"},
		{"single", "Hello %1", []any{"you"}, "Hello you"},
		{"localised marker", "%L1 %2", []any{12, "px"}, "12 px"},
		{"lowest first", "%2 before %1", []any{"a", "b"}, "b before a"},
		{"repeated marker", "%1-%1", []any{"x"}, "x-x"},
		{"gaps in numbering", "%3 %7", []any{"a", "b"}, "a b"},
		{"two digit marker", "%10 %9", []any{"nine", "ten"}, "ten nine"},
		{"surplus args", "%1", []any{"a", "b"}, "a"},
		{"missing args", "%1 %2", []any{"a"}, "a %2"},
		{"not markers", "100% %0 %L %", []any{"a"}, "100% %0 %L %"},
		{"replacement not rescanned", "%1 %2", []any{"%2", "x"}, "%2 x"},
		{"error argument", "failed: %1", []any{errors.New("boom")}, "failed: boom"},
		{"multi-line", "%1\nthrown from:\n%2", []any{"e", "f.go:3"}, "e\nthrown from:\nf.go:3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, Arg(tt.in, tt.args...))
		})
	}
}

func TestMarkers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []int{1, 2, 3}, Markers("%1 (%2:%L3)\n%1"))
	assert.Empty(t, Markers("no markers, 100%"))
}
