// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package i18n resolves message ids against Qt Linguist (.ts) catalogues.

# Quick start

Messages are looked up by id, never by English text:

	i18n.Tr(ctx, "units.pixels")
	i18n.Tr(ctx, "debug-messages.logic-error-occurred", err)
	i18n.TrDynamic(ctx, "tools", toolName, "name")
	i18n.AffixUnits(ctx, "pixels", 12)

The locale comes from the context (see [WithTag] and [WithRequest]).

# Resolution order

A lookup never yields an empty string. For the best matching locale:

 1. the locale catalogue's finished, non-empty translation;
 2. the fallback catalogue's finished, non-empty translation;
 3. the source text of the message, from the locale then the fallback catalogue;
 4. the id itself.

Unfinished translations are never used. When StrictMissingKeys is enabled,
steps 3 and 4 are logged once per locale+id and the returned text is
visibly wrapped as "⟦...⟧".

# Arguments

Translations use QString::arg markers: %1 through %99, optionally written
%L1 for locale-aware numbers. Arguments replace markers in ascending
marker order; every occurrence of a marker receives the same argument.
Replacement text is not rescanned. Numbers are not localised.

# Dynamic ids

Ids built from segments at runtime are checked against the registry in
subpackage i18n/dynids; unknown ids are logged once.
*/
package i18n
