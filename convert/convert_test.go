// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package convert

import (
	"os"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"codeberg.org/addle/l10n/i18n"
	"codeberg.org/addle/l10n/ts"
)

func loadSample(t *testing.T) *ts.Catalog {
	t.Helper()

	c, err := ts.ParseFile(os.DirFS("../ts/testdata"), "sample.ts")
	require.NoError(t, err)

	return c
}

func TestToPo(t *testing.T) {
	t.Parallel()

	data, err := ToPo(loadSample(t))
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, `msgid "units.pixels"`)
	assert.Contains(t, out, `msgstr "px"`)
	assert.Contains(t, out, `msgid "tools.fill-tool.name"`)
	assert.Contains(t, out, "common.cpp:195")
}

func TestPoRoundTrip(t *testing.T) {
	t.Parallel()

	src := loadSample(t)

	data, err := ToPo(src)
	require.NoError(t, err)

	dst := src.Clone()
	for _, m := range dst.Messages() {
		m.Translation = ""
		m.Type = ts.TypeUnfinished
	}

	// Three messages carry finished translations; the fill tool has none.
	assert.Equal(t, 3, ApplyPo(dst, data))

	for _, m := range src.Messages() {
		got, _ := dst.Lookup(m.ID)

		want, ok := m.Resolved()
		if !ok {
			assert.Equal(t, ts.TypeUnfinished, got.Type, m.ID)

			continue
		}

		assert.Equal(t, want, got.Translation, m.ID)
		assert.Equal(t, ts.TypeFinished, got.Type, m.ID)
	}

	// Applying the same file again changes nothing.
	assert.Zero(t, ApplyPo(dst, data))
}

func TestApplyPo(t *testing.T) {
	t.Parallel()

	c := ts.NewCatalog("pt_BR", "en_US")
	c.Append("", &ts.Message{ID: "units.pixels", Source: "px", Type: ts.TypeUnfinished})
	c.Append("", &ts.Message{ID: "tools.fill-tool.name", Type: ts.TypeUnfinished})
	c.Append("", &ts.Message{ID: "global-color-names.white", Translation: "Branco"})

	po := []byte(`msgid ""
msgstr ""
"Content-Type: text/plain; charset=UTF-8\n"
"Language: pt_BR\n"

msgid "units.pixels"
msgstr "px"

msgid "tools.fill-tool.name"
msgstr ""

msgid "global-color-names.white"
msgstr "Branco"

msgid "not.in.catalogue"
msgstr "ignorado"
`)

	assert.Equal(t, 1, ApplyPo(c, po))

	m, _ := c.Lookup("units.pixels")
	assert.Equal(t, "px", m.Translation)
	assert.Equal(t, ts.TypeFinished, m.Type)

	m, _ = c.Lookup("tools.fill-tool.name")
	assert.Equal(t, ts.TypeUnfinished, m.Type)

	_, ok := c.Lookup("not.in.catalogue")
	assert.False(t, ok)
}

func TestApplyPoKeepsFormatSequences(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		po   string
		want string
	}{
		{
			name: "positional marker",
			po:   "msgid \"units.affix\"\nmsgstr \"%1 px\"\n",
			want: "%1 px",
		},
		{
			name: "percent sign",
			po:   "msgid \"units.affix\"\nmsgstr \"%1 %% erledigt\"\n",
			want: "%1 %% erledigt",
		},
		{
			name: "printf verb",
			po:   "msgid \"units.affix\"\nmsgstr \"%s %d\"\n",
			want: "%s %d",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := ts.NewCatalog("de_DE", "en_US")
			c.Append("", &ts.Message{ID: "units.affix", Type: ts.TypeUnfinished})

			require.Equal(t, 1, ApplyPo(c, []byte(tt.po)))

			m, _ := c.Lookup("units.affix")
			assert.Equal(t, tt.want, m.Translation)
			assert.Equal(t, ts.TypeFinished, m.Type)
		})
	}
}

func TestPoNamedContext(t *testing.T) {
	t.Parallel()

	src := ts.NewCatalog("de_DE", "en_US")
	src.Append("", &ts.Message{ID: "units.pixels", Source: "px", Translation: "px"})
	src.Append("ColorDialog", &ts.Message{
		ID:          "dialog.progress",
		Source:      "%1% done",
		Translation: "%1 %% erledigt",
		Type:        ts.TypeFinished,
	})

	data, err := ToPo(src)
	require.NoError(t, err)
	assert.Contains(t, string(data), `msgctxt "ColorDialog"`)

	dst := src.Clone()
	for _, m := range dst.Messages() {
		m.Translation = ""
		m.Type = ts.TypeUnfinished
	}

	assert.Equal(t, 2, ApplyPo(dst, data))

	m, _ := dst.Lookup("dialog.progress")
	assert.Equal(t, "%1 %% erledigt", m.Translation)
	assert.Equal(t, ts.TypeFinished, m.Type)

	// The same id outside the named context is not matched.
	other := ts.NewCatalog("de_DE", "en_US")
	other.Append("", &ts.Message{ID: "dialog.progress", Type: ts.TypeUnfinished})
	assert.Zero(t, ApplyPo(other, data))
}

func TestToYAML(t *testing.T) {
	t.Parallel()

	b, err := i18n.NewBundle(i18n.Options{})
	require.NoError(t, err)
	require.NoError(t, b.Load(os.DirFS(".."), "l10n"))

	data, err := ToYAML(b, language.MustParse("en-US"))
	require.NoError(t, err)

	var texts map[string]string
	require.NoError(t, yaml.Unmarshal(data, &texts))

	assert.Equal(t, "px", texts["units.pixels"])
	assert.Equal(t, "tools.fill-tool.name", texts["tools.fill-tool.name"])
	assert.Equal(t, "A logic error occurred:\n%1", texts["debug-messages.logic-error-occurred"])

	for id, text := range texts {
		assert.NotEmpty(t, text, id)
	}
}
