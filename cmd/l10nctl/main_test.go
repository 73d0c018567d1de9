// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"codeberg.org/addle/l10n/ts"
)

const fallbackTS = `<?xml version='1.0' encoding='UTF-8'?>
<TS version="2.1" language="en_US">
<context>
    <name />
    <message id="units.pixels">
        <location filename="../src/units.cpp" line="12" />
        <source>px</source>
        <translation type="finished">px</translation>
    </message>
    <message id="unit-affix-formatter">
        <location filename="../src/units.cpp" line="20" />
        <source>%L1 %2</source>
        <translation type="finished">%L1 %2</translation>
    </message>
</context>
</TS>
`

const ptBRTS = `<?xml version='1.0' encoding='UTF-8'?>
<TS version="2.1" language="pt_BR" sourcelanguage="en_US">
<context>
    <name />
    <message id="unit-affix-formatter">
        <location filename="../src/units.cpp" line="20" />
        <source>%L1 %2</source>
        <translation>%2: %1</translation>
    </message>
    <message id="tools.fill-tool.name">
        <location filename="../src/tools.cpp" line="7" />
        <translation type="unfinished" />
    </message>
</context>
</TS>
`

const duplicateTS = `<?xml version='1.0' encoding='UTF-8'?>
<TS version="2.1" language="pt_BR" sourcelanguage="en_US">
<context>
    <name />
    <message id="units.pixels">
        <location filename="../src/units.cpp" line="12" />
        <source>px</source>
        <translation>px</translation>
    </message>
    <message id="units.pixels">
        <location filename="../src/canvas.cpp" line="40" />
        <source>px</source>
        <translation>px</translation>
    </message>
</context>
</TS>
`

// writeFiles writes name → content pairs into a fresh directory.
func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()

	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	return dir
}

func runCmd(t *testing.T, args ...string) (int, string, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)

	return code, stdout.String(), stderr.String()
}

func readCatalogT(t *testing.T, name string) *ts.Catalog {
	t.Helper()

	c, err := readCatalog(name)
	require.NoError(t, err)

	return c
}

func TestUsage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantErr  string
	}{
		{"no arguments", nil, exitBadUsage, "usage: l10nctl"},
		{"help", []string{"help"}, exitOK, "commands:"},
		{"unknown command", []string{"frobnicate"}, exitBadUsage, `unknown command "frobnicate"`},
		{"missing arguments", []string{"diff", "a.ts"}, exitBadUsage, "usage: l10nctl diff"},
		{"unknown flag", []string{"lint", "-nope", "a.ts"}, exitBadUsage, "flag provided but not defined"},
		{"bad process mode", []string{"process", "-mode", "other", "a.ts"}, exitBadUsage, "unknown process mode"},
		{"merge without output", []string{"merge", "a.ts", "b.ts"}, exitBadUsage, "usage: l10nctl merge"},
		{"lookup without dir", []string{"lookup", "units.pixels"}, exitBadUsage, "usage: l10nctl lookup"},
		{"unknown snapshot command", []string{"snapshot", "prune"}, exitBadUsage, "usage: l10nctl snapshot"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			code, _, stderr := runCmd(t, tt.args...)

			assert.Equal(t, tt.wantCode, code)
			assert.Contains(t, stderr, tt.wantErr)
		})
	}
}

func TestLint(t *testing.T) {
	t.Parallel()

	dir := writeFiles(t, map[string]string{
		"fallback.ts": fallbackTS,
		"pt_BR.ts":    ptBRTS,
		"dup.ts":      duplicateTS,
		"broken.ts":   "<TS><context>",
	})

	code, stdout, _ := runCmd(t, "lint", filepath.Join(dir, "fallback.ts"), filepath.Join(dir, "pt_BR.ts"))
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "info: unfinished: tools.fill-tool.name")

	code, stdout, _ = runCmd(t, "lint", "-quiet", filepath.Join(dir, "pt_BR.ts"))
	assert.Equal(t, exitOK, code)
	assert.Empty(t, stdout)

	code, stdout, _ = runCmd(t, "lint", filepath.Join(dir, "dup.ts"))
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stdout, "error: duplicate-id: units.pixels")

	code, stdout, _ = runCmd(t, "lint", filepath.Join(dir, "broken.ts"))
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stdout, "broken.ts")
}

func TestProcess(t *testing.T) {
	t.Parallel()

	dir := writeFiles(t, map[string]string{"pt_BR.ts": ptBRTS})
	in := filepath.Join(dir, "pt_BR.ts")
	out := filepath.Join(dir, "fallback.ts")

	code, stdout, _ := runCmd(t, "process", "-mode", "fallback", "-o", out, in)
	require.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "removed 1 messages")

	c := readCatalogT(t, out)
	assert.Equal(t, "en_US", c.Language)
	assert.Equal(t, 1, c.Len())

	m, ok := c.Lookup("unit-affix-formatter")
	require.True(t, ok)
	assert.Equal(t, "%L1 %2", m.Translation)
	assert.Equal(t, ts.TypeFinished, m.Type)

	// The input is untouched when -o is given.
	assert.Equal(t, 2, readCatalogT(t, in).Len())

	code, _, _ = runCmd(t, "process", "-mode", "source", in)
	require.Equal(t, exitOK, code)
	assert.Equal(t, 1, readCatalogT(t, in).Len(), "rewritten in place")
}

func TestDedupe(t *testing.T) {
	t.Parallel()

	dir := writeFiles(t, map[string]string{"dup.ts": duplicateTS})
	name := filepath.Join(dir, "dup.ts")

	code, stdout, _ := runCmd(t, "dedupe", name)
	require.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "removed 1 duplicate messages")

	c := readCatalogT(t, name)
	require.Equal(t, 1, c.Len())

	m, _ := c.Lookup("units.pixels")
	assert.Len(t, m.Locations, 2)
}

func TestMergeAndDiff(t *testing.T) {
	t.Parallel()

	extracted := strings.Replace(ptBRTS, `<message id="unit-affix-formatter">`, `<message id="units.inches">
        <location filename="../src/units.cpp" line="14" />
        <source>in</source>
        <translation type="unfinished" />
    </message>
    <message id="unit-affix-formatter">`, 1)

	dir := writeFiles(t, map[string]string{
		"pt_BR.ts":     ptBRTS,
		"extracted.ts": extracted,
	})
	out := filepath.Join(dir, "merged.ts")

	code, stdout, _ := runCmd(t, "merge", "-o", out, filepath.Join(dir, "pt_BR.ts"), filepath.Join(dir, "extracted.ts"))
	require.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "1 added")

	merged := readCatalogT(t, out)
	m, ok := merged.Lookup("unit-affix-formatter")
	require.True(t, ok)
	assert.Equal(t, "%2: %1", m.Translation, "translations survive a merge")

	code, stdout, _ = runCmd(t, "diff", filepath.Join(dir, "pt_BR.ts"), out)
	require.Equal(t, exitOK, code)
	assert.Equal(t, "+ units.inches\n", stdout)

	code, stdout, _ = runCmd(t, "diff", "-json", filepath.Join(dir, "pt_BR.ts"), out)
	require.Equal(t, exitOK, code)
	assert.Equal(t, "units.inches", gjson.Get(stdout, "added.0").String())

	code, stdout, _ = runCmd(t, "diff", out, out)
	require.Equal(t, exitOK, code)
	assert.Equal(t, "no differences\n", stdout)
}

func TestLookup(t *testing.T) {
	t.Parallel()

	dir := writeFiles(t, map[string]string{
		"fallback.ts": fallbackTS,
		"pt_BR.ts":    ptBRTS,
	})

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"base locale", []string{"-lang", "en-US", "units.pixels"}, "px\n"},
		{"locale translation with arguments", []string{"-lang", "pt-BR", "unit-affix-formatter", "12", "px"}, "px: 12\n"},
		{"unfinished falls back to the id", []string{"-lang", "pt-BR", "tools.fill-tool.name"}, "tools.fill-tool.name\n"},
		{"strict mode marks missing texts", []string{"-lang", "pt-BR", "-strict", "tools.fill-tool.name"}, "⟦tools.fill-tool.name⟧\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			code, stdout, _ := runCmd(t, append([]string{"lookup", "-dir", dir}, tt.args...)...)
			require.Equal(t, exitOK, code)
			assert.Equal(t, tt.want, stdout)
		})
	}

	code, stdout, _ := runCmd(t, "lookup", "-dir", dir, "-lang", "pt-BR", "-json", "units.pixels")
	require.Equal(t, exitOK, code)
	assert.Equal(t, "px", gjson.Get(stdout, "text").String())
	assert.Equal(t, "fallback", gjson.Get(stdout, "origin").String())
	assert.Equal(t, "pt-BR", gjson.Get(stdout, "locale").String())
}

func TestYAMLExport(t *testing.T) {
	t.Parallel()

	dir := writeFiles(t, map[string]string{
		"fallback.ts": fallbackTS,
		"pt_BR.ts":    ptBRTS,
	})

	code, stdout, _ := runCmd(t, "yaml-export", "-dir", dir, "-lang", "pt-BR")
	require.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "units.pixels: px")
	assert.Contains(t, stdout, "unit-affix-formatter:")
}

func TestPoExportImport(t *testing.T) {
	t.Parallel()

	dir := writeFiles(t, map[string]string{"fallback.ts": fallbackTS})
	name := filepath.Join(dir, "fallback.ts")
	po := filepath.Join(dir, "fallback.po")

	code, _, _ := runCmd(t, "po-export", "-o", po, name)
	require.Equal(t, exitOK, code)

	data, err := os.ReadFile(po)
	require.NoError(t, err)
	assert.Contains(t, string(data), `msgid "units.pixels"`)

	// Strip the translations, then restore them from the .po file.
	c := readCatalogT(t, name)
	for _, m := range c.Messages() {
		m.Translation = ""
		m.Type = ts.TypeUnfinished
	}

	require.NoError(t, writeCatalog(name, c))

	code, stdout, _ := runCmd(t, "po-import", name, po)
	require.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "updated 2 translations")

	restored := readCatalogT(t, name)

	m, _ := restored.Lookup("units.pixels")
	assert.Equal(t, "px", m.Translation)
	assert.Equal(t, ts.TypeFinished, m.Type)

	m, _ = restored.Lookup("unit-affix-formatter")
	assert.Equal(t, "%L1 %2", m.Translation)
}

func TestSnapshot(t *testing.T) {
	t.Parallel()

	dir := writeFiles(t, map[string]string{
		"before.ts": ptBRTS,
		"after.ts":  strings.Replace(ptBRTS, `line="7"`, `line="9"`, 1),
	})
	db := filepath.Join(dir, "snapshots.db")

	code, stdout, _ := runCmd(t, "snapshot", "record", "-db", db, "-label", "v1", filepath.Join(dir, "before.ts"))
	require.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "recorded snapshot 1 (pt_BR, 2 messages)")

	code, _, _ = runCmd(t, "snapshot", "record", "-db", db, "-label", "v2", filepath.Join(dir, "after.ts"))
	require.Equal(t, exitOK, code)

	code, stdout, _ = runCmd(t, "snapshot", "list", "-db", db, "-language", "pt_BR")
	require.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "LABEL")
	assert.Contains(t, stdout, "v1")
	assert.Contains(t, stdout, "v2")

	code, stdout, _ = runCmd(t, "snapshot", "drift", "-db", db, "1", "2")
	require.Equal(t, exitOK, code)
	assert.Equal(t, "> tools.fill-tool.name\n", stdout)

	code, _, _ = runCmd(t, "snapshot", "record", "-db", db, filepath.Join(dir, "before.ts"))
	assert.Equal(t, exitBadUsage, code, "label is required")

	code, _, _ = runCmd(t, "snapshot", "drift", "-db", db, "1", "99")
	assert.Equal(t, exitFailure, code)
}
