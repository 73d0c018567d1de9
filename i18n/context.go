// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/text/language"

	"codeberg.org/addle/l10n/core/cookie"
)

type tagContextKey struct{}

// LangParam is the query parameter carrying an explicit language choice.
// "auto" selects Accept-Language negotiation and ignores [cookie.LangCookie].
const LangParam = "lang"

const autoLang = "auto"

// WithTag returns a copy of ctx carrying t for [Tr] and friends.
func WithTag(ctx context.Context, t language.Tag) context.Context {
	return context.WithValue(ctx, tagContextKey{}, t)
}

// TagFrom reports the tag carried by ctx. Without one (or with the zero tag)
// it falls back to the default bundle's base locale.
func TagFrom(ctx context.Context) language.Tag {
	return Default().tagFrom(ctx)
}

func tagIn(ctx context.Context) (language.Tag, bool) {
	if ctx == nil {
		return language.Tag{}, false
	}

	t, ok := ctx.Value(tagContextKey{}).(language.Tag)

	return t, ok && t != language.Tag{}
}

// FromRequest negotiates the catalog language for r.
func (b *Bundle) FromRequest(r *http.Request) language.Tag {
	if r == nil {
		return b.Base()
	}

	return b.Match(requestPreferences(r)...)
}

// requestPreferences lists the raw language preferences of r, strongest first:
// query parameter, cookie, then the Accept-Language header.
func requestPreferences(r *http.Request) []string {
	var prefs []string

	explicit := r.URL.Query().Get(LangParam)

	switch {
	case strings.EqualFold(explicit, autoLang):
	case explicit != "":
		prefs = append(prefs, explicit)

		fallthrough
	default:
		if saved := cookie.Get(r, cookie.LangCookie); saved != "" {
			prefs = append(prefs, saved)
		}
	}

	if header := r.Header.Get("Accept-Language"); header != "" {
		prefs = append(prefs, header)
	}

	return prefs
}

// FromRequest negotiates r's language against the default bundle.
func FromRequest(r *http.Request) language.Tag {
	return Default().FromRequest(r)
}

// WithRequest installs the language negotiated for r in ctx.
func WithRequest(ctx context.Context, r *http.Request) context.Context {
	return WithTag(ctx, FromRequest(r))
}
