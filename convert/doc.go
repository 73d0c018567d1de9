// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package convert moves catalogue content between .ts and other formats:
// gettext .po files for translators who prefer gettext tooling, and flat
// YAML maps of resolved texts for consumers that cannot read .ts.
package convert
