// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

// logMissingOnce logs a missing translation warning once per (locale, id)
// pair when strict mode is enabled.
func (b *Bundle) logMissingOnce(locale, id string, origin Origin) {
	if !b.opts.StrictMissingKeys {
		return
	}

	if _, loaded := b.missingOnce.LoadOrStore(locale+"\x00"+id, struct{}{}); !loaded {
		b.logger.Warn().
			Str("locale", locale).
			Str("key", id).
			Str("origin", string(origin)).
			Msg("Missing i18n translation")
	}
}

// logUnknownDynamicOnce warns about a composed id missing from the
// dynamic id registry.
func (b *Bundle) logUnknownDynamicOnce(id string) {
	if _, loaded := b.unknownDynamicOnce.LoadOrStore(id, struct{}{}); loaded {
		return
	}

	b.logger.Warn().
		Str("key", id).
		Msg(b.translate(b.Base(), "debug-messages.unknown-dynamic-trid", id))
}
