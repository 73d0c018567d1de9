// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
)

// validation errors.
var (
	errUnixSocketWithHostPort       = errors.New("unix socket configured - cannot specify Host and Port simultaneously")
	errUnixSocketInvalidPermissions = errors.New("invalid Basic.UnixSocketPermissions value")
	errUnixSocketUserDoesNotExist   = errors.New("user does not exist")
	errUnixSocketGroupDoesNotExist  = errors.New("group does not exist")
	errInvalidBaseLocale            = errors.New("invalid Catalog.BaseLocale")
	errInvalidCatalogFile           = errors.New("catalog file names must be plain .ts or .yaml file names")
	errInvalidCatalogDir            = errors.New("Catalog.Dir is not a directory")
	errInvalidCacheSize             = errors.New("Cache.Size must be positive when the cache is enabled")
	errInvalidLogLevel              = errors.New("invalid Log.Level")
	errInvalidLogFormat             = errors.New("invalid Log.Format")
	errInvalidLimiterRate           = errors.New("Limiter.Rate must be positive")
	errInvalidLimiterBurst          = errors.New("Limiter.Burst must be at least 1")
)

var (
	fileModeOctalRegexp  = regexp.MustCompile(`^0?[0-7]{3}$`)
	fileModeStringRegexp = regexp.MustCompile(`^(?:[r-][w-][x-]){3}$`)
	digitsRegexp         = regexp.MustCompile(`^[0-9]+$`)
)

// validateAndSet validates the configuration and populates derived fields.
func (cfg *Config) validateAndSet() error {
	if err := cfg.validateListener(); err != nil {
		return err
	}

	tag, err := language.Parse(strings.ReplaceAll(cfg.Catalog.BaseLocale, "_", "-"))
	if err != nil {
		return fmt.Errorf("%w %q: %w", errInvalidBaseLocale, cfg.Catalog.BaseLocale, err)
	}

	cfg.Catalog.BaseLocale = tag.String()

	if !isPlainFileName(cfg.Catalog.FallbackFile, ".ts") {
		return fmt.Errorf("%w: %q", errInvalidCatalogFile, cfg.Catalog.FallbackFile)
	}

	if cfg.Catalog.DynamicIDsFile != "" && !isPlainFileName(cfg.Catalog.DynamicIDsFile, ".yaml", ".yml") {
		return fmt.Errorf("%w: %q", errInvalidCatalogFile, cfg.Catalog.DynamicIDsFile)
	}

	if cfg.Catalog.Dir != "" {
		info, err := os.Stat(cfg.Catalog.Dir)
		if err != nil || !info.IsDir() {
			return fmt.Errorf("%w: %q", errInvalidCatalogDir, cfg.Catalog.Dir)
		}
	}

	if cfg.Cache.Enabled && cfg.Cache.Size <= 0 {
		return errInvalidCacheSize
	}

	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q", errInvalidLogLevel, cfg.Log.Level)
	}

	switch cfg.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: %q", errInvalidLogFormat, cfg.Log.Format)
	}

	if !cfg.Limiter.Enabled {
		return nil
	}

	if cfg.Limiter.Rate <= 0 {
		return errInvalidLimiterRate
	}

	if cfg.Limiter.Burst < 1 {
		return errInvalidLimiterBurst
	}

	return nil
}

func (cfg *Config) validateListener() error {
	if cfg.Basic.UnixSocket == "" {
		if cfg.Basic.Host == "" {
			cfg.Basic.Host = "localhost"
			log.Info().
				Str("host", cfg.Basic.Host).
				Msg("Binding to default host")
		}

		if cfg.Basic.Port == "" {
			cfg.Basic.Port = "8383"
			log.Info().
				Str("port", cfg.Basic.Port).
				Msg("Using default port")
		}

		return nil
	}

	if cfg.Basic.Host != "" || cfg.Basic.Port != "" {
		return errUnixSocketWithHostPort
	}

	switch raw := cfg.Basic.RawUnixSocketPermissions; {
	case raw == "":
		cfg.Basic.UnixSocketPermissions = 0o666
	case fileModeOctalRegexp.MatchString(raw):
		mode, _ := strconv.ParseUint(raw, 8, 32)

		cfg.Basic.UnixSocketPermissions = os.FileMode(mode)
	case fileModeStringRegexp.MatchString(raw):
		mode := os.FileMode(0)

		for i, c := range raw {
			if c != '-' {
				// Set i-th bit from the end
				const bitsInByte = 8

				mode |= 1 << (bitsInByte - i)
			}
		}

		cfg.Basic.UnixSocketPermissions = mode
	default:
		return errUnixSocketInvalidPermissions
	}

	if u := cfg.Basic.UnixSocketUser; u != "" {
		lookup := user.Lookup
		if digitsRegexp.MatchString(u) {
			lookup = user.LookupId
		}

		if _, err := lookup(u); err != nil {
			return errUnixSocketUserDoesNotExist
		}
	}

	if g := cfg.Basic.UnixSocketGroup; g != "" {
		lookup := user.LookupGroup
		if digitsRegexp.MatchString(g) {
			lookup = user.LookupGroupId
		}

		if _, err := lookup(g); err != nil {
			return errUnixSocketGroupDoesNotExist
		}
	}

	return nil
}

func isPlainFileName(name string, exts ...string) bool {
	if name == "" || path.Base(name) != name || strings.ContainsRune(name, '\\') {
		return false
	}

	for _, ext := range exts {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}

	return false
}
