// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package middleware provides the HTTP middleware chain of the lookup service.

Middleware registered with router.Use runs in registration order. Route
handlers return an error and are wrapped with CatchError, which turns
errors into JSON error bodies and logs every request.
*/
package middleware
