// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"net/http"
	"strings"
)

// NormalizeURL redirects paths with a trailing slash (except root) to the
// same path without it. GET and HEAD requests get a permanent redirect;
// other methods are passed through unchanged so that request bodies are
// not dropped by clients that refuse to replay them.
func NormalizeURL(w http.ResponseWriter, r *http.Request, next http.Handler) {
	if hasTrailingSlash(r) && (r.Method == http.MethodGet || r.Method == http.MethodHead) {
		removeTrailingSlash(w, r)

		return
	}

	next.ServeHTTP(w, r)
}

func hasTrailingSlash(r *http.Request) bool {
	return r.URL.Path != "/" && strings.HasSuffix(r.URL.Path, "/")
}

func removeTrailingSlash(w http.ResponseWriter, r *http.Request) {
	target := *r.URL
	target.Path = strings.TrimRight(target.Path, "/")
	target.RawPath = ""

	if target.Path == "" {
		target.Path = "/"
	}

	http.Redirect(w, r, target.String(), http.StatusPermanentRedirect)
}
