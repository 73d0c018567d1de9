// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"encoding/json"
	"net/http"

	"codeberg.org/addle/l10n/server/request_context"
)

// ErrorData is the body of every error response.
type ErrorData struct {
	Error      string `json:"error"`
	StatusCode int    `json:"status"`
	RequestID  string `json:"requestId,omitempty"`
}

// ErrorPage writes the request's error as a JSON body. The status line
// must already have been written.
func ErrorPage(w http.ResponseWriter, r *http.Request) {
	ctx := request_context.FromRequest(r)

	data := ErrorData{
		Error:      http.StatusText(ctx.StatusCode),
		StatusCode: ctx.StatusCode,
		RequestID:  ctx.RequestID,
	}
	if ctx.RequestError != nil {
		data.Error = ctx.RequestError.Error()
	}

	_ = json.NewEncoder(w).Encode(data)
}

// writeJSON encodes v as the response body.
func writeJSON(w http.ResponseWriter, statusCode int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	return json.NewEncoder(w).Encode(v)
}
