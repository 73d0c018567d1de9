// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import "flag"

const (
	configFlag     = "config"
	catalogDirFlag = "catalogs"
)

// commandFlags holds the command-line overrides and whether each was set explicitly.
type commandFlags struct {
	ConfigFile    string
	ConfigFileSet bool
	CatalogDir    string
	CatalogDirSet bool
}

// parseCommandLineArgs defines the flags once, parses them and reports which were given.
func parseCommandLineArgs() commandFlags {
	if flag.Lookup(configFlag) == nil {
		flag.String(configFlag, "./config.yaml", "Path to a configuration file in YAML format.")
	}

	if flag.Lookup(catalogDirFlag) == nil {
		flag.String(catalogDirFlag, "", "Directory of .ts catalogues; overrides catalog.dir.")
	}

	if !flag.Parsed() {
		flag.Parse()
	}

	flags := commandFlags{
		ConfigFile: flag.Lookup(configFlag).Value.String(),
		CatalogDir: flag.Lookup(catalogDirFlag).Value.String(),
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case configFlag:
			flags.ConfigFileSet = true
		case catalogDirFlag:
			flags.CatalogDirSet = true
		}
	})

	return flags
}
