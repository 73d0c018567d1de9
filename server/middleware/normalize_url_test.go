// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		method           string
		requestURL       string
		expectedStatus   int
		expectedLocation string
	}{
		{
			name:           "root path is not redirected",
			method:         http.MethodGet,
			requestURL:     "/",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "path without trailing slash is not redirected",
			method:         http.MethodGet,
			requestURL:     "/api/languages",
			expectedStatus: http.StatusOK,
		},
		{
			name:             "trailing slash is removed",
			method:           http.MethodGet,
			requestURL:       "/catalogs/pt-BR/",
			expectedStatus:   http.StatusPermanentRedirect,
			expectedLocation: "/catalogs/pt-BR",
		},
		{
			name:             "query is preserved",
			method:           http.MethodGet,
			requestURL:       "/api/messages/units.pixels/?lang=pt-BR",
			expectedStatus:   http.StatusPermanentRedirect,
			expectedLocation: "/api/messages/units.pixels?lang=pt-BR",
		},
		{
			name:           "POST is passed through",
			method:         http.MethodPost,
			requestURL:     "/api/reload/",
			expectedStatus: http.StatusOK,
		},
	}

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(tt.method, tt.requestURL, nil)
			rr := httptest.NewRecorder()

			NormalizeURL(rr, req, next)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, tt.expectedLocation, rr.Header().Get("Location"))
		})
	}
}
