// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"codeberg.org/addle/l10n/config"
)

// Not parallel: it writes config.Global.
func TestSetCacheControl(t *testing.T) {
	config.Global.HTTPCache.MaxAge = 30 * time.Second

	tests := []struct {
		method string
		path   string
		want   string
	}{
		{http.MethodGet, "/api/messages/units.pixels", "private, max-age=30"},
		{http.MethodGet, "/api/languages", "private, max-age=30"},
		{http.MethodGet, "/catalogs/pt-BR", "private, max-age=30"},
		{http.MethodGet, "/healthz", "no-store"},
		{http.MethodPost, "/api/reload", "no-store"},
		{http.MethodPost, "/api/language", "no-store"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			t.Parallel()

			headers := http.Header{}
			setCacheControl(headers, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.want, headers.Get("Cache-Control"))
		})
	}
}

func TestSetResponseHeaders(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	SetResponseHeaders(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil), http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, config.BuildVersion, rr.Header().Get("L10n-Version"))
	assert.Contains(t, rr.Header().Get("Content-Security-Policy"), "default-src 'none'")
}
