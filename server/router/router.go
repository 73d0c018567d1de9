// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package router assembles the lookup service's routes and middleware.
package router

import (
	"net/http"

	"codeberg.org/addle/l10n/server/middleware"
)

// Router is an http.ServeMux with a middleware chain in front of it.
type Router struct {
	*http.ServeMux

	middlewares []middleware.Middleware
}

// NewRouter returns an empty Router.
func NewRouter() *Router {
	return &Router{
		ServeMux: http.NewServeMux(),
	}
}

// New returns a Router with every route and middleware registered.
func New() *Router {
	router := NewRouter()
	router.DefineRoutes()
	router.RegisterMiddleware()

	return router
}

// Use adds a middleware to the router's chain.
func (router *Router) Use(middleware middleware.Middleware) {
	router.middlewares = append(router.middlewares, middleware)
}

// ServeHTTP runs the middleware chain, then the matched route.
func (router *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	router.from(0).ServeHTTP(w, r)
}

// from returns the chain starting at middleware i; past the end it is the mux.
func (router *Router) from(i int) http.Handler {
	if i >= len(router.middlewares) {
		return router.ServeMux
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		router.middlewares[i](w, r, router.from(i+1))
	})
}
