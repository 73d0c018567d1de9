// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"codeberg.org/addle/l10n/config"
	"codeberg.org/addle/l10n/server/middleware"
	"codeberg.org/addle/l10n/server/middleware/limiter"
)

// RegisterMiddleware installs the middleware chain. The first middleware is
// the outermost one.
func (router *Router) RegisterMiddleware() {
	router.Use(middleware.WithServerTiming)
	router.Use(middleware.NormalizeURL)
	router.Use(middleware.WithRequestContext) // needed for everything else
	router.Use(middleware.SetResponseHeaders)

	if config.Global.Limiter.Enabled {
		limiter.Init()

		router.Use(limiter.Evaluate)
	}
}
