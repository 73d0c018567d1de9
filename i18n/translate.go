// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"codeberg.org/addle/l10n/i18n/dynids"
	"codeberg.org/addle/l10n/ts"
)

// Origin names the step of the resolution order that produced a text.
type Origin string

const (
	OriginLocale   Origin = "locale"
	OriginFallback Origin = "fallback"
	OriginSource   Origin = "source"
	OriginID       Origin = "id"
)

// emptyIDText is returned for lookups of the empty id.
const emptyIDText = "⟦⟧"

// Resolution is the outcome of a lookup before argument substitution.
type Resolution struct {
	Text   string       `json:"text"`
	Origin Origin       `json:"origin"`
	Locale language.Tag `json:"locale"`
}

// Missing reports whether no catalogue carried a usable translation.
func (r Resolution) Missing() bool {
	return r.Origin == OriginSource || r.Origin == OriginID
}

// Resolve looks id up for the supported locale closest to tag. Text is
// never empty.
func (b *Bundle) Resolve(tag language.Tag, id string) Resolution {
	st := b.state.Load()
	matched := st.closest(tag)

	var key string

	if b.cache != nil {
		key = strconv.FormatUint(st.gen, 10) + "\x00" + matched.String() + "\x00" + id

		if v, ok := b.cache.Get(key); ok {
			origin, text, _ := strings.Cut(v, "\x00")

			return Resolution{Text: text, Origin: Origin(origin), Locale: matched}
		}
	}

	res := st.resolve(matched, id)

	if b.cache != nil {
		b.cache.Add(key, string(res.Origin)+"\x00"+res.Text)
	}

	return res
}

func (s *state) resolve(matched language.Tag, id string) Resolution {
	res := Resolution{Locale: matched}

	var local, fallback *ts.Message

	if c, ok := s.catalogs[strippedTagString(matched)]; ok {
		local, _ = c.Lookup(id)
	}

	if s.fallback != nil {
		fallback, _ = s.fallback.Lookup(id)
	}

	switch {
	case resolvable(local):
		res.Text, res.Origin = local.Translation, OriginLocale
	case resolvable(fallback):
		res.Text, res.Origin = fallback.Translation, OriginFallback
	case local != nil && local.Source != "":
		res.Text, res.Origin = local.Source, OriginSource
	case fallback != nil && fallback.Source != "":
		res.Text, res.Origin = fallback.Source, OriginSource
	case id == "":
		res.Text, res.Origin = emptyIDText, OriginID
	default:
		res.Text, res.Origin = id, OriginID
	}

	return res
}

func resolvable(m *ts.Message) bool {
	if m == nil {
		return false
	}

	_, ok := m.Resolved()

	return ok
}

// Tr returns the text for id in the locale carried by ctx, with args
// substituted for its %N markers. See the package documentation for the
// resolution order.
func (b *Bundle) Tr(ctx context.Context, id string, args ...any) string {
	return b.translate(b.tagFrom(ctx), id, args...)
}

// TrDynamic composes an id from segments and translates it. Ids missing from
// the [dynids] registry are logged once and still translated.
func (b *Bundle) TrDynamic(ctx context.Context, segments ...string) string {
	id := dynids.Join(segments...)
	if !dynids.Known(id) {
		b.logUnknownDynamicOnce(id)
	}

	return b.Tr(ctx, id)
}

// AffixUnits formats value followed by the translated name of unit, for
// example "12 px".
func (b *Bundle) AffixUnits(ctx context.Context, unit string, value any) string {
	return b.Tr(ctx, "unit-affix-formatter", value, b.TrDynamic(ctx, "units", unit))
}

func (b *Bundle) translate(tag language.Tag, id string, args ...any) string {
	return b.Format(b.Resolve(tag, id), id, args...)
}

// Format renders res, the resolution of id, the way [Bundle.Tr] does: args
// fill the %N markers and, in strict mode, a missing text is logged and
// wrapped in ⟦…⟧.
func (b *Bundle) Format(res Resolution, id string, args ...any) string {
	text := Arg(res.Text, args...)

	if res.Missing() && b.opts.StrictMissingKeys {
		b.logMissingOnce(res.Locale.String(), id, res.Origin)

		return "⟦" + text + "⟧"
	}

	return text
}

func (b *Bundle) tagFrom(ctx context.Context) language.Tag {
	if t, ok := tagIn(ctx); ok {
		return t
	}

	return b.Base()
}
