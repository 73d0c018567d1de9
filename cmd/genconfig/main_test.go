// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateEnvFile(t *testing.T) {
	t.Parallel()

	content := generateEnvFile()

	assert.True(t, strings.HasPrefix(content, envFileHeader))
	assert.Contains(t, content, "## Basic\n")
	assert.Contains(t, content, "ADDLE_L10N_PORT=\"8383\"\n")
	assert.Contains(t, content, "ADDLE_L10N_CATALOG_DIR=\"\"\n")
	assert.Contains(t, content, "# ADDLE_L10N_FALLBACK_FILE=fallback.ts\n")
	assert.Contains(t, content, "# ADDLE_L10N_RELOAD_TOKEN=\n")
	assert.NotContains(t, content, "## Build")
	assert.NotContains(t, content, "## Instance", "sections without env vars are skipped")
}

func TestGenerateYAMLFile(t *testing.T) {
	t.Parallel()

	content, err := generateYAMLFile()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(content, yamlFileHeader))
	assert.Contains(t, content, "\ncatalog:\n")
	assert.Contains(t, content, "  # fallbackFile: fallback.ts\n")
	assert.Contains(t, content, catalogDirYAMLComment)

	// Every value is commented out, so the file parses to bare sections.
	var parsed map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(content), &parsed))
	assert.Contains(t, parsed, "basic")
	assert.Nil(t, parsed["basic"])
}
