// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package ts

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadSample(t *testing.T) *Catalog {
	t.Helper()

	c, err := ParseFile(os.DirFS("testdata"), "sample.ts")
	require.NoError(t, err)

	return c
}

func TestParse(t *testing.T) {
	t.Parallel()

	c := loadSample(t)

	assert.Equal(t, "2.1", c.Version)
	assert.Equal(t, "de_DE", c.Language)
	assert.Equal(t, "en_US", c.SourceLanguage)
	assert.Equal(t, 4, c.Len())
	require.Len(t, c.Contexts, 1)
	assert.Empty(t, c.Contexts[0].Name)

	px, ok := c.Lookup("units.pixels")
	require.True(t, ok)
	assert.Equal(t, "px", px.Source)
	assert.Equal(t, TypeNone, px.Type)
	assert.Equal(t, []Location{
		{Filename: "../../src/common/common.cpp", Line: 195},
		{Filename: "../../src/widgetsgui/main/sizeselector.cpp", Line: 49},
	}, px.Locations)

	text, ok := px.Resolved()
	assert.True(t, ok)
	assert.Equal(t, "px", text)

	fill, ok := c.Lookup("tools.fill-tool.name")
	require.True(t, ok)
	assert.Equal(t, TypeUnfinished, fill.Type)

	_, ok = fill.Resolved()
	assert.False(t, ok, "unfinished translations are never authoritative")

	logic, ok := c.Lookup("debug-messages.logic-error-occurred")
	require.True(t, ok)
	assert.Equal(t, "A logic error occurred:\n%1", logic.Source)
	assert.Equal(t, "A logic error occurred: %1", logic.OldSource)
	assert.Equal(t, "Shown in the debug log & crash dialog", logic.ExtraComment)
	assert.Equal(t, TypeFinished, logic.Type)

	black, ok := c.Lookup("global-color-names.black")
	require.True(t, ok)
	assert.Empty(t, black.Locations)
	assert.Equal(t, "Keep it short", black.TranslatorComment)
}

func TestParseMalformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{name: "truncated", input: `<TS version="2.1"><context><message id="a">`},
		{name: "wrong root", input: `<xliff version="1.2"></xliff>`},
		{name: "bad line", input: `<TS><context><message id="a"><location filename="x" line="ten"/></message></context></TS>`},
		{name: "partial message after root", input: `<TS version="2.1"></TS><message id="b"><source>`},
		{name: "second root", input: `<TS version="2.1"></TS><TS version="2.1"></TS>`},
		{name: "text after root", input: "<TS version=\"2.1\"></TS>\ntrailing"},
		{name: "stray end tag", input: `<TS version="2.1"></TS></TS>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformed))

			var perr *ParseError
			assert.True(t, errors.As(err, &perr))
		})
	}
}

func TestParseAllowsMiscAfterRoot(t *testing.T) {
	t.Parallel()

	input := "<?xml version='1.0' encoding='UTF-8'?>\n<TS version=\"2.1\" language=\"en_US\"></TS>\n<!-- generated -->\n<?lupdate done?>\n\n"

	c, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, "en_US", c.Language)
}

func TestParseFileNamesError(t *testing.T) {
	t.Parallel()

	fsys := os.DirFS(t.TempDir())

	_, err := ParseFile(fsys, "missing.ts")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.ts")
}

// TestRoundTrip checks that encoding then parsing preserves every message tuple.
func TestRoundTrip(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"testdata/sample.ts", "../l10n/en_US.ts", "../l10n/fallback.ts"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			data, err := os.ReadFile(name)
			require.NoError(t, err)

			orig, err := Parse(bytes.NewReader(data))
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, orig.Encode(&buf))

			again, err := Parse(&buf)
			require.NoError(t, err)

			assert.Equal(t, orig.Version, again.Version)
			assert.Equal(t, orig.Language, again.Language)
			assert.Equal(t, orig.SourceLanguage, again.SourceLanguage)
			require.Equal(t, orig.Len(), again.Len())

			want, got := orig.Messages(), again.Messages()
			for i := range want {
				assert.Equal(t, *want[i], *got[i], "message %q", want[i].ID)
			}
		})
	}
}

func TestRoundTripCarriageReturns(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
	}{
		{"crlf", "line1\r\nline2"},
		{"lone cr", "x\ry"},
		{"trailing cr", "done\r"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := NewCatalog("de_DE", "en_US")
			c.Append("Dialog", &Message{
				ID:                "dialog.body",
				Locations:         []Location{{Filename: "a\rb.cpp", Line: 3}},
				Source:            tt.text,
				OldSource:         tt.text,
				ExtraComment:      tt.text,
				TranslatorComment: tt.text,
				Translation:       tt.text,
				Type:              TypeFinished,
			})

			var buf bytes.Buffer
			require.NoError(t, c.Encode(&buf))
			assert.NotContains(t, buf.String(), "\r")

			again, err := Parse(&buf)
			require.NoError(t, err)

			m, ok := again.Lookup("dialog.body")
			require.True(t, ok)
			assert.Equal(t, *c.Messages()[0], *m)
		})
	}
}

func TestEncodeLayout(t *testing.T) {
	t.Parallel()

	c := NewCatalog("en_US", "en_US")
	c.Append("", &Message{
		ID:          "units.pixels",
		Locations:   []Location{{Filename: "../../src/common/common.cpp", Line: 195}},
		Source:      "px",
		Translation: "px",
	})
	c.Append("", &Message{ID: "tools.fill-tool.name", Type: TypeUnfinished})

	var buf bytes.Buffer
	require.NoError(t, c.Encode(&buf))

	want := `<?xml version='1.0' encoding='UTF-8'?>
<TS version="2.1" language="en_US" sourcelanguage="en_US">
<context>
    <name />
    <message id="units.pixels">
        <location filename="../../src/common/common.cpp" line="195" />
        <source>px</source>
        <translation>px</translation>
    </message>
    <message id="tools.fill-tool.name">
        <source />
        <translation type="unfinished" />
    </message>
</context>
</TS>
`
	assert.Equal(t, want, buf.String())
}

func TestAppendTracksDuplicates(t *testing.T) {
	t.Parallel()

	c := NewCatalog("en_US", "")
	first := &Message{ID: "a", Source: "first"}

	c.Append("", first)
	c.Append("", &Message{ID: "a", Source: "second"})
	c.Append("other", &Message{ID: "b"})

	got, ok := c.Lookup("a")
	require.True(t, ok)
	assert.Same(t, first, got)
	assert.Equal(t, []string{"a"}, c.Duplicates())
	assert.Len(t, c.Contexts, 2)
	assert.Equal(t, 3, c.Len())
}
