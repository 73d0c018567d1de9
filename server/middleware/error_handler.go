// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"maps"
	"net/http"
	"net/http/httptest"

	"github.com/rs/zerolog/log"

	"codeberg.org/addle/l10n/config"
	"codeberg.org/addle/l10n/core/audit"
	"codeberg.org/addle/l10n/server/request_context"
	"codeberg.org/addle/l10n/server/routes"
)

// CatchError wraps HTTP handlers that return an error, providing centralized
// error handling, response buffering and request logging.
//
// The handler writes into a buffer. After it returns:
//   - If it returned an error, the buffer is discarded and a JSON error
//     body is written instead, with the status from routes.StatusCodeFor.
//     Headers the handler set (such as WWW-Authenticate) are kept.
//   - If it wrote 404 without returning an error, the body is replaced by
//     the same JSON error body.
//   - Otherwise the buffered response is written to the client.
//
// Finally, the request is logged via the audit package.
func CatchError(handler func(w http.ResponseWriter, r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := request_context.FromRequest(r)

		span := audit.Span{
			Destination: audit.ToUser,
			RequestID:   ctx.RequestID,
			Method:      r.Method,
			URL:         r.URL.String(),
		}

		_ = span.Begin(r.Context())
		defer span.End()

		recorder := httptest.NewRecorder()

		err := handler(recorder, r)

		ctx.RequestError = err

		switch {
		case err != nil || recorder.Code == http.StatusNotFound:
			if err != nil {
				ctx.StatusCode = routes.StatusCodeFor(err)
			} else {
				ctx.StatusCode = http.StatusNotFound
			}

			maps.Copy(w.Header(), recorder.Header())
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.Header().Set("Cache-Control", "no-store")
			w.WriteHeader(ctx.StatusCode)
			routes.ErrorPage(w, r)

		default:
			if recorder.Code == 0 {
				recorder.Code = http.StatusOK
			}

			ctx.StatusCode = recorder.Code
			span.Size = recorder.Body.Len()

			maps.Copy(w.Header(), recorder.Header())
			w.WriteHeader(recorder.Code)

			if _, err := recorder.Body.WriteTo(w); err != nil {
				log.Err(err).Msg("Failed to write response body")
			}
		}

		span.StatusCode = ctx.StatusCode
		span.Error = ctx.RequestError

		if !config.Global.ShouldSkipServerLogging(r.URL.Path) {
			span.Log()
		}
	}
}
