// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"net/http"
	"net/http/pprof"
	"runtime/trace"
	"time"

	"codeberg.org/addle/l10n/config"
	"codeberg.org/addle/l10n/server/middleware"
	"codeberg.org/addle/l10n/server/routes"
)

// DefineRoutes sets up all the routes of the lookup service.
func (router *Router) DefineRoutes() {
	router.HandleFunc("GET /healthz", middleware.CatchError(routes.Healthz))
	router.HandleFunc("GET /{$}", middleware.CatchError(routes.Index))

	// Lookup routes
	router.HandleFunc("GET /api/languages", middleware.CatchError(routes.Languages))
	router.HandleFunc("GET /api/messages/{id}", middleware.CatchError(routes.Message))
	router.HandleFunc("POST /api/language", middleware.CatchError(routes.SetLanguage))

	// Catalogue routes
	router.HandleFunc("GET /api/catalogs/{lang}/issues", middleware.CatchError(routes.CatalogIssues))
	router.HandleFunc("GET /catalogs/{lang}", middleware.CatchError(routes.CatalogReport))
	router.HandleFunc("POST /api/reload", middleware.CatchError(routes.Reload))

	// Snapshot routes answer 404 unless a store is configured.
	router.HandleFunc("GET /api/snapshots", middleware.CatchError(routes.SnapshotList))
	router.HandleFunc("GET /api/snapshots/{from}/drift/{to}", middleware.CatchError(routes.SnapshotDrift))

	if config.Global.Development.InDevelopment {
		registerDebugRoutes(router)
	}
}

var flightRecorder = trace.NewFlightRecorder(trace.FlightRecorderConfig{MinAge: time.Minute})

func registerDebugRoutes(router *Router) {
	if !flightRecorder.Enabled() {
		if err := flightRecorder.Start(); err != nil {
			panic(err)
		}
	}

	router.HandleFunc("GET /debug/pprof/", pprof.Index)
	router.HandleFunc("GET /debug/pprof/cmdline", pprof.Cmdline)
	router.HandleFunc("GET /debug/pprof/profile", pprof.Profile)
	router.HandleFunc("GET /debug/pprof/symbol", pprof.Symbol)
	router.HandleFunc("GET /debug/pprof/trace", pprof.Trace)
	router.HandleFunc("GET /debug/flight", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = flightRecorder.WriteTo(w)
	})
}
