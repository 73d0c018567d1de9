// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"errors"
	"net/http"

	"codeberg.org/addle/l10n/store"
)

var (
	ErrUnknownLanguage   = errors.New("no catalogue is loaded for this language")
	ErrInvalidLanguage   = errors.New("invalid language tag")
	ErrReloadDisabled    = errors.New("reloading is disabled on this instance")
	ErrInvalidToken      = errors.New("invalid reload token")
	ErrStoreDisabled     = errors.New("snapshot store is disabled on this instance")
	ErrInvalidSnapshotID = errors.New("invalid snapshot id")
	ErrMissingID         = errors.New("message id is required")
)

// HTTPError is an error carrying the status code it should be reported with.
type HTTPError struct {
	StatusCode int
	Err        error
}

// NewHTTPError wraps err with a status code.
func NewHTTPError(statusCode int, err error) *HTTPError {
	return &HTTPError{StatusCode: statusCode, Err: err}
}

func (e *HTTPError) Error() string {
	return e.Err.Error()
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// StatusCodeFor maps err to the status code of its JSON error body.
func StatusCodeFor(err error) int {
	var httpErr *HTTPError

	switch {
	case errors.As(err, &httpErr):
		return httpErr.StatusCode
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
