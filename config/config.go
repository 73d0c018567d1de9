// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"

	"codeberg.org/addle/l10n/core/idgen"
)

// Global exposes the service configuration.
var Global Config

// Config holds the application configuration.
type Config struct {
	Build buildInfo `yaml:"-"`

	Basic struct {
		Host                     string      `env:"ADDLE_L10N_HOST,overwrite" yaml:"host"`
		Port                     string      `env:"ADDLE_L10N_PORT,overwrite" yaml:"port"`
		UnixSocket               string      `env:"ADDLE_L10N_UNIXSOCKET" yaml:"unixSocket"`
		RawUnixSocketPermissions string      `env:"ADDLE_L10N_UNIXSOCKET_PERMISSIONS" yaml:"unixSocketPermissions"`
		UnixSocketPermissions    os.FileMode `yaml:"-"`
		UnixSocketUser           string      `env:"ADDLE_L10N_UNIXSOCKET_USER" yaml:"unixSocketUser"`
		UnixSocketGroup          string      `env:"ADDLE_L10N_UNIXSOCKET_GROUP" yaml:"unixSocketGroup"`
		// Required as a bearer token by POST /api/reload. Empty disables reloading over HTTP.
		ReloadToken string `env:"ADDLE_L10N_RELOAD_TOKEN" yaml:"reloadToken"`
	} `yaml:"basic"`

	Catalog struct {
		// Directory holding the .ts catalogues. Empty uses the catalogues built into the binary.
		Dir            string `env:"ADDLE_L10N_CATALOG_DIR,overwrite" yaml:"dir"`
		FallbackFile   string `env:"ADDLE_L10N_FALLBACK_FILE,overwrite" yaml:"fallbackFile"`
		BaseLocale     string `env:"ADDLE_L10N_BASE_LOCALE,overwrite" yaml:"baseLocale"`
		DynamicIDsFile string `env:"ADDLE_L10N_DYNAMIC_IDS_FILE,overwrite" yaml:"dynamicIdsFile"`
		// Strict mode for missing keys.
		//
		// When enabled, untranslated lookups are logged (deduplicated per locale+key) and
		// visibly wrapped using markers.
		StrictMissingKeys bool `env:"ADDLE_L10N_STRICT_MISSING_KEYS" yaml:"strictMissingKeys"`
	} `yaml:"catalog"`

	Cache struct {
		Enabled  bool `env:"ADDLE_L10N_CACHE,overwrite" yaml:"enabled"`
		Size     int  `env:"ADDLE_L10N_CACHE_SIZE,overwrite" yaml:"cacheSize"`
		Compress bool `env:"ADDLE_L10N_CACHE_COMPRESS,overwrite" yaml:"compress"`
	} `yaml:"cache"`

	HTTPCache struct {
		MaxAge time.Duration `env:"ADDLE_L10N_CACHE_CONTROL_MAX_AGE,overwrite" yaml:"cacheControlMaxAge"`
	} `yaml:"httpCache"`

	Store struct {
		// SQLite database for catalogue snapshots. Empty disables the snapshot endpoints.
		Path string `env:"ADDLE_L10N_STORE_PATH,overwrite" yaml:"path"`
	} `yaml:"store"`

	Instance struct {
		StartingTime string `yaml:"-"`
		InstanceID   string `yaml:"-"`
	} `yaml:"instance"`

	Development struct {
		InDevelopment bool `env:"ADDLE_L10N_DEV" yaml:"inDevelopment"`
	} `yaml:"development"`

	Log struct {
		Level   string   `env:"ADDLE_L10N_LOG_LEVEL,overwrite" yaml:"logLevel"`
		Outputs []string `env:"ADDLE_L10N_LOG_OUTPUTS,overwrite" yaml:"logOutputs"`
		Format  string   `env:"ADDLE_L10N_LOG_FORMAT,overwrite" yaml:"logFormat"`
	} `yaml:"log"`

	Limiter struct {
		Enabled bool `env:"ADDLE_L10N_LIMITER,overwrite" yaml:"enabled"`
		// Sustained requests per second allowed per client address.
		Rate  float64 `env:"ADDLE_L10N_LIMITER_RATE,overwrite" yaml:"rate"`
		Burst int     `env:"ADDLE_L10N_LIMITER_BURST,overwrite" yaml:"burst"`
	} `yaml:"limiter"`
}

// LoadConfig loads the configuration from various sources.
func (cfg *Config) LoadConfig() error {
	flags := parseCommandLineArgs()

	var configFilePath string

	// Determine the config file path with the correct precedence:
	// 1. Command-line flag (-config)
	// 2. Environment variable (ADDLE_L10N_CONFIGFILE)
	// 3. Default path with fallback check
	if flags.ConfigFileSet {
		configFilePath = flags.ConfigFile
	} else if envVar := os.Getenv("ADDLE_L10N_CONFIGFILE"); envVar != "" {
		configFilePath = envVar
	} else {
		configFilePath = flags.ConfigFile
		if _, err := os.Stat(configFilePath); os.IsNotExist(err) {
			ymlPath := "./config.yml"
			if _, statErr := os.Stat(ymlPath); statErr == nil {
				configFilePath = ymlPath
			}
		}
	}

	cfg.SetDefaults()

	cfg.Build.load()

	cfg.Instance.InstanceID = idgen.New()
	cfg.Instance.StartingTime = time.Now().UTC().Format("2006-01-02 15:04")

	if err := cfg.readYAML(configFilePath); err != nil {
		return fmt.Errorf("error loading YAML config: %w", err)
	}

	if err := useDotEnv(); err != nil {
		return fmt.Errorf("error using .env file: %w", err)
	}

	if err := readEnv(cfg); err != nil {
		return fmt.Errorf("error loading environment variables: %w", err)
	}

	if flags.CatalogDirSet {
		cfg.Catalog.Dir = flags.CatalogDir
	}

	if err := cfg.validateAndSet(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	cfg.setupAudit()

	cfg.print()

	// Heuristically check for containerized environment and warn if host is not a wildcard address.
	if isContainerized() && cfg.Basic.UnixSocket == "" && cfg.Basic.Host != "0.0.0.0" && cfg.Basic.Host != "::" {
		log.Warn().
			Str("host", cfg.Basic.Host).
			Msg("Running in a containerized environment but host is not a wildcard address (e.g., '0.0.0.0' or '::'). This may prevent the service from being accessible outside the container.")
	}

	return nil
}

var skippedPathPrefixes = []string{"/healthz"}

// ShouldSkipServerLogging determines if a request should bypass request logging.
func (cfg *Config) ShouldSkipServerLogging(path string) bool {
	if cfg.Development.InDevelopment {
		return false
	}

	for _, prefix := range skippedPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	return false
}

// isContainerized checks for common indicators of a containerized environment.
//
// This is a heuristic and may not be 100% accurate.
func isContainerized() bool {
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true
	}

	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}

	if _, err := os.Stat("/.containerenv"); err == nil {
		return true
	}

	// #nosec G304 -- We are checking for the existence and content of a well-known system file for heuristics.
	cgroup, err := os.ReadFile("/proc/self/cgroup")
	if err == nil {
		content := string(cgroup)

		return strings.Contains(content, "docker") ||
			strings.Contains(content, "kubepods") ||
			strings.Contains(content, "containerd") ||
			strings.Contains(content, "lxc") ||
			strings.Contains(content, "crio") ||
			// systemd-nspawn containers
			strings.Contains(content, ".machine")
	}

	return false
}

// GetDurationEncoderOption returns a YAML encoder option that marshals
// time.Duration into a human-readable string format (e.g., "30m", "1h").
func GetDurationEncoderOption() yaml.EncodeOption {
	return yaml.CustomMarshaler[time.Duration](
		func(d time.Duration) ([]byte, error) {
			return yaml.Marshal(d.String())
		},
	)
}
