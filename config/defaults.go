// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import "time"

const (
	// Default HTTP cache max age in seconds.
	defaultHTTPCacheMaxAgeSeconds = 30

	defaultCacheSize    = 4096
	defaultLimiterRate  = 20
	defaultLimiterBurst = 40
)

// SetDefaults populates the configuration with default values.
func (cfg *Config) SetDefaults() {
	cfg.Basic.Host = "localhost"
	cfg.Basic.Port = "8383"

	cfg.Catalog.Dir = ""
	cfg.Catalog.FallbackFile = "fallback.ts"
	cfg.Catalog.BaseLocale = "en-US"
	cfg.Catalog.DynamicIDsFile = "dynamic_ids.yaml"
	cfg.Catalog.StrictMissingKeys = false

	cfg.Cache.Enabled = true
	cfg.Cache.Size = defaultCacheSize
	cfg.Cache.Compress = false

	cfg.HTTPCache.MaxAge = defaultHTTPCacheMaxAgeSeconds * time.Second

	cfg.Store.Path = ""

	cfg.Log.Level = "info"
	cfg.Log.Outputs = []string{"/dev/stderr"}
	cfg.Log.Format = "console"

	cfg.Limiter.Enabled = false
	cfg.Limiter.Rate = defaultLimiterRate
	cfg.Limiter.Burst = defaultLimiterBurst
}
