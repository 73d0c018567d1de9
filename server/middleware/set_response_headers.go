// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"maps"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"

	"codeberg.org/addle/l10n/config"
)

// baseHeaders are set on every response.
//
// The report pages load nothing but themselves, so the CSP denies
// everything else.
var baseHeaders = http.Header{
	"Referrer-Policy":         {"no-referrer"},
	"X-Frame-Options":         {"DENY"},
	"X-Content-Type-Options":  {"nosniff"},
	"Content-Security-Policy": {"default-src 'none'; style-src 'self' 'unsafe-inline'; base-uri 'none'; form-action 'self'; frame-ancestors 'none';"},
	"Vary":                    {"Accept-Language, Cookie"},
}

// SetResponseHeaders adds default headers to HTTP responses.
func SetResponseHeaders(w http.ResponseWriter, r *http.Request, next http.Handler) {
	headers := w.Header()

	maps.Insert(headers, maps.All(baseHeaders))

	if config.Global.Development.InDevelopment {
		invalidateCacheInDevelopment(headers)
	}

	setCacheControl(headers, r)

	headers.Set("L10n-Version", config.BuildVersion)
	headers.Set("L10n-Revision", config.Global.Build.Revision())

	next.ServeHTTP(w, r)
}

var firstDevResponse atomic.Bool

// invalidateCacheInDevelopment clears the browser cache on the first
// response after start.
func invalidateCacheInDevelopment(headers http.Header) {
	if firstDevResponse.CompareAndSwap(false, true) {
		headers.Set("Clear-Site-Data", `"cache"`)
	}
}

// setCacheControl lets clients cache lookups for HTTPCache.MaxAge. Anything
// that is not a read of catalogue data is never stored.
func setCacheControl(headers http.Header, r *http.Request) {
	cacheControl := "no-store"

	maxAge := int(config.Global.HTTPCache.MaxAge.Seconds())

	if r.Method == http.MethodGet && maxAge > 0 &&
		(strings.HasPrefix(r.URL.Path, "/api/messages/") ||
			strings.HasPrefix(r.URL.Path, "/api/catalogs/") ||
			strings.HasPrefix(r.URL.Path, "/catalogs/") ||
			r.URL.Path == "/api/languages") {
		cacheControl = "private, max-age=" + strconv.Itoa(maxAge)
	}

	headers.Set("Cache-Control", cacheControl)
}
