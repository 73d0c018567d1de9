// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package ts models Qt Linguist translation source (.ts) catalogues.

A [Catalog] is an ordered set of [Message] records for one
(language, source language) pair. Messages are keyed by their id, use a
dotted namespace convention such as "tools.brush-tool.name", and carry
advisory source locations that drift between extraction passes.

# Reading and writing

	c, err := ts.ParseFile(os.DirFS("l10n"), "en_US.ts")
	...
	err = c.Encode(w)

Encode emits the same layout as lupdate, so a parse/encode cycle
preserves every id, source, translation, status and location.

# Maintenance

[Validate] reports data-quality issues, [Dedupe] folds duplicate ids,
[Process] prepares fallback and source-language catalogues, [Merge]
applies a fresh extraction to an existing catalogue and [Compare]
reports what changed between two snapshots.
*/
package ts
