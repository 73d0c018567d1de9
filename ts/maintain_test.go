// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package ts

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loc(line int) []Location {
	return []Location{{Filename: "../../src/common/common.cpp", Line: line}}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	c := NewCatalog("de_DE", "en_US")
	c.Append("", &Message{ID: "units.pixels", Locations: loc(1), Source: "px", Translation: "px"})
	c.Append("", &Message{ID: "units.pixels", Locations: loc(2), Source: "px", Translation: "px"})
	c.Append("", &Message{Locations: loc(3), Source: "no id"})
	c.Append("", &Message{ID: "tools.fill-tool.name", Locations: loc(4), Type: TypeUnfinished})
	c.Append("", &Message{ID: "global-color-names.black", Translation: "Schwarz"})
	c.Append("", &Message{
		ID:          "debug-messages.logic-error-occurred",
		Locations:   loc(5),
		Source:      "A logic error occurred:\n%1 (%L2)",
		Translation: "Ein Logikfehler ist aufgetreten (%L2)",
	})
	c.Append("", &Message{ID: "old.gone", Type: TypeVanished})

	issues := Validate(c)

	assert.Equal(t, []Issue{
		{Severity: SeverityError, Kind: KindEmptyID, Detail: "../../src/common/common.cpp:3"},
		{Severity: SeverityWarning, Kind: KindPlaceholderMismatch, ID: "debug-messages.logic-error-occurred", Detail: "translation drops [%1]"},
		{Severity: SeverityInfo, Kind: KindMissingLocation, ID: "global-color-names.black"},
		{Severity: SeverityInfo, Kind: KindUnfinished, ID: "tools.fill-tool.name"},
		{Severity: SeverityError, Kind: KindDuplicateID, ID: "units.pixels"},
	}, issues)
	assert.True(t, HasErrors(issues))
}

func TestValidateShippedCatalogs(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"en_US.ts", "fallback.ts"} {
		c, err := ParseFile(os.DirFS("../l10n"), name)
		require.NoError(t, err)

		assert.False(t, HasErrors(Validate(c)), name)
	}
}

func TestDedupe(t *testing.T) {
	t.Parallel()

	c := NewCatalog("en_US", "")
	c.Append("", &Message{ID: "a", Locations: loc(1), Source: "first"})
	c.Append("", &Message{ID: "b", Locations: loc(2)})
	c.Append("", &Message{ID: "a", Locations: loc(3), Source: "second"})
	c.Append("", &Message{ID: "a", Locations: loc(1), Source: "third"})

	assert.Equal(t, 2, Dedupe(c))
	assert.Equal(t, 2, c.Len())
	assert.Empty(t, c.Duplicates())

	a, ok := c.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, "first", a.Source)
	assert.Equal(t, []Location{loc(1)[0], loc(3)[0]}, a.Locations)
}

func TestProcess(t *testing.T) {
	t.Parallel()

	build := func() *Catalog {
		c := NewCatalog("en_US", "en_US")
		c.Append("", &Message{ID: "units.pixels", Source: "px", Type: TypeUnfinished})
		c.Append("", &Message{ID: "tools.fill-tool.name", Type: TypeUnfinished})

		return c
	}

	t.Run("fallback", func(t *testing.T) {
		t.Parallel()

		c := build()
		c.Language = "xx"

		removed, err := Process(c, ModeFallback)
		require.NoError(t, err)
		assert.Equal(t, 1, removed)
		assert.Equal(t, "en_US", c.Language)

		px, ok := c.Lookup("units.pixels")
		require.True(t, ok)
		assert.Equal(t, "px", px.Translation)
		assert.Equal(t, TypeFinished, px.Type)

		_, ok = c.Lookup("tools.fill-tool.name")
		assert.False(t, ok)
	})

	t.Run("source", func(t *testing.T) {
		t.Parallel()

		c := build()

		removed, err := Process(c, ModeSource)
		require.NoError(t, err)
		assert.Equal(t, 1, removed)

		_, ok := c.Lookup("units.pixels")
		assert.False(t, ok)

		_, ok = c.Lookup("tools.fill-tool.name")
		assert.True(t, ok)
	})

	t.Run("source language label", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name     string
			language string
			source   string
			want     string
		}{
			{"fallback label", "fallback", "en_US", "en_US"},
			{"empty", "", "", DefaultSourceLanguage},
			{"not a locale", "fallback", "also not a locale", DefaultSourceLanguage},
			{"valid locale is kept", "en_GB", "en_US", "en_GB"},
		}

		for _, tt := range tests {
			c := build()
			c.Language = tt.language
			c.SourceLanguage = tt.source

			_, err := Process(c, ModeSource)
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Language, tt.name)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		t.Parallel()

		_, err := Process(build(), Mode("bogus"))
		require.Error(t, err)

		_, err = ParseMode("bogus")
		require.Error(t, err)
	})
}

func TestMerge(t *testing.T) {
	t.Parallel()

	existing := NewCatalog("de_DE", "en_US")
	existing.Append("", &Message{ID: "keep", Locations: loc(10), Source: "Keep", Translation: "Behalten", TranslatorComment: "ok"})
	existing.Append("", &Message{ID: "moved", Locations: loc(20), Source: "Moved", Translation: "Verschoben"})
	existing.Append("", &Message{ID: "reworded", Locations: loc(30), Source: "Old words", Translation: "Alte Worte"})
	existing.Append("", &Message{ID: "gone", Locations: loc(40), Source: "Gone", Translation: "Weg"})

	extracted := NewCatalog("", "en_US")
	extracted.Append("", &Message{ID: "fresh", Locations: loc(5), Source: "Fresh"})
	extracted.Append("", &Message{ID: "keep", Locations: loc(10), Source: "Keep"})
	extracted.Append("", &Message{ID: "moved", Locations: loc(21), Source: "Moved"})
	extracted.Append("", &Message{ID: "reworded", Locations: loc(30), Source: "New words"})

	merged, stats := Merge(existing, extracted, MergeOptions{})

	assert.Equal(t, MergeStats{Added: 1, Updated: 2, Unchanged: 1, Demoted: 1, Vanished: 1}, stats)
	assert.Equal(t, "de_DE", merged.Language)

	ids := make([]string, 0, merged.Len())
	for _, m := range merged.Messages() {
		ids = append(ids, m.ID)
	}

	assert.Equal(t, []string{"fresh", "keep", "moved", "reworded", "gone"}, ids)

	fresh, _ := merged.Lookup("fresh")
	assert.Equal(t, TypeUnfinished, fresh.Type)

	keep, _ := merged.Lookup("keep")
	assert.Equal(t, "Behalten", keep.Translation)
	assert.Equal(t, "ok", keep.TranslatorComment)

	moved, _ := merged.Lookup("moved")
	assert.Equal(t, loc(21), moved.Locations)
	assert.Equal(t, TypeNone, moved.Type)

	reworded, _ := merged.Lookup("reworded")
	assert.Equal(t, "New words", reworded.Source)
	assert.Equal(t, "Old words", reworded.OldSource)
	assert.Equal(t, TypeUnfinished, reworded.Type)
	assert.Equal(t, "Alte Worte", reworded.Translation)

	gone, _ := merged.Lookup("gone")
	assert.Equal(t, TypeVanished, gone.Type)
	assert.Empty(t, gone.Locations)

	// Inputs are untouched.
	orig, _ := existing.Lookup("reworded")
	assert.Equal(t, "Old words", orig.Source)

	dropped, stats := Merge(existing, extracted, MergeOptions{DropVanished: true})
	assert.Equal(t, 1, stats.Dropped)

	_, ok := dropped.Lookup("gone")
	assert.False(t, ok)
}

func TestMergeRevivesVanished(t *testing.T) {
	t.Parallel()

	existing := NewCatalog("de_DE", "en_US")
	existing.Append("", &Message{ID: "back", Source: "Back", Translation: "Zurück", Type: TypeVanished})

	extracted := NewCatalog("", "en_US")
	extracted.Append("", &Message{ID: "back", Locations: loc(1), Source: "Back"})

	merged, stats := Merge(existing, extracted, MergeOptions{})
	assert.Equal(t, 1, stats.Updated)

	back, _ := merged.Lookup("back")
	text, ok := back.Resolved()
	assert.True(t, ok)
	assert.Equal(t, "Zurück", text)
}

func TestCompare(t *testing.T) {
	t.Parallel()

	from := NewCatalog("en_US", "en_US")
	from.Append("", &Message{ID: "same", Locations: loc(1), Source: "Same"})
	from.Append("", &Message{ID: "moved", Locations: loc(2), Source: "Moved"})
	from.Append("", &Message{ID: "changed", Locations: loc(3), Source: "Before"})
	from.Append("", &Message{ID: "removed", Locations: loc(4)})

	to := NewCatalog("en_US", "en_US")
	to.Append("", &Message{ID: "same", Locations: loc(1), Source: "Same"})
	to.Append("", &Message{ID: "moved", Locations: loc(9), Source: "Moved"})
	to.Append("", &Message{ID: "changed", Locations: loc(3), Source: "After"})
	to.Append("", &Message{ID: "added", Locations: loc(5)})

	d := Compare(from, to)

	assert.Equal(t, Diff{
		Added:   []string{"added"},
		Removed: []string{"removed"},
		Changed: []string{"changed"},
		Moved:   []string{"moved"},
	}, d)
	assert.False(t, d.Empty())
	assert.True(t, Compare(from, from).Empty())
}

// TestSnapshotLocationDrift mirrors how the shipped catalogues drift:
// the same id shows up at different lines in different passes.
func TestSnapshotLocationDrift(t *testing.T) {
	t.Parallel()

	fsys := os.DirFS("../l10n")

	locale, err := ParseFile(fsys, "en_US.ts")
	require.NoError(t, err)

	fallback, err := ParseFile(fsys, "fallback.ts")
	require.NoError(t, err)

	d := Compare(locale, fallback)
	assert.Contains(t, append(d.Moved, d.Changed...), "units.pixels")
}
