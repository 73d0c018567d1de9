// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// Rate limiting header names.
//
// ref: https://www.ietf.org/archive/id/draft-polli-ratelimit-headers-02.html
const (
	HeaderRateLimitLimit     = "RateLimit-Limit"
	HeaderRateLimitRemaining = "RateLimit-Remaining"
)

// excludedPaths are never limited.
var excludedPaths = []string{
	"/healthz",
}

// BlockData is the body of a rejected request.
type BlockData struct {
	Reason string `json:"reason"`
}

// Evaluate is the limiter middleware. It does nothing until [Init] runs.
func Evaluate(w http.ResponseWriter, r *http.Request, next http.Handler) {
	l := global.Load()
	if l == nil {
		next.ServeHTTP(w, r)

		return
	}

	l.Evaluate(w, r, next)
}

// Evaluate limits r by the network of its client.
func (l *Limiter) Evaluate(w http.ResponseWriter, r *http.Request, next http.Handler) {
	for _, p := range excludedPaths {
		if strings.HasPrefix(r.URL.Path, p) {
			next.ServeHTTP(w, r)

			return
		}
	}

	network := networkOf(getClientIP(r))
	allowed, remaining := l.Allow(network)

	w.Header().Set(HeaderRateLimitLimit, strconv.Itoa(l.burst))
	w.Header().Set(HeaderRateLimitRemaining, strconv.Itoa(remaining))

	if allowed {
		next.ServeHTTP(w, r)

		return
	}

	log.Warn().
		Str("network", network).
		Str("path", r.URL.Path).
		Msg("Rate limit exceeded")

	retryAfter := int(math.Ceil(l.RetryAfter().Seconds()))

	w.Header().Set("Retry-After", strconv.Itoa(max(retryAfter, 1)))
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusTooManyRequests)

	_ = json.NewEncoder(w).Encode(BlockData{Reason: "Rate limit exceeded"})
}
