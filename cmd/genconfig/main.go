// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Command genconfig writes example configuration files for addle-l10n.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"

	"codeberg.org/addle/l10n/config"
	"codeberg.org/addle/l10n/core/audit"
)

const (
	envOutputFile  = "deploy/.env.example"
	yamlOutputFile = "deploy/config.yaml.example"
	filePerm       = 0o644
	dirPerm        = 0o755

	envFileHeader = `# addle-l10n configuration (via environment variables)
#
# Copy this file to .env and customize the values below.
#
# This file was auto-generated using go run ./cmd/genconfig.

`
	yamlFileHeader = `# addle-l10n configuration (via configuration file)
#
# Copy this file to config.yaml and customize the values below.
#
# This file was auto-generated using go run ./cmd/genconfig.
`
	catalogDirYAMLComment = `  # -- Directory holding fallback.ts and the locale catalogues.
  # Leave empty to serve the catalogues embedded in the binary.`
)

// uncommentedEnvVars are written active in the .env example.
var uncommentedEnvVars = map[string]bool{
	"ADDLE_L10N_HOST":        true,
	"ADDLE_L10N_PORT":        true,
	"ADDLE_L10N_CATALOG_DIR": true,
}

func main() {
	audit.SetDefaultLogger()

	if err := os.MkdirAll(filepath.Dir(envOutputFile), dirPerm); err != nil {
		log.Fatal().Err(err).Msg("Failed to create output directory")
	}

	writeFile(envOutputFile, generateEnvFile())

	yamlContent, err := generateYAMLFile()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to marshal config to YAML")
	}

	writeFile(yamlOutputFile, yamlContent)
}

func writeFile(path, content string) {
	if err := os.WriteFile(path, []byte(content), filePerm); err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("Failed to write example file")
	}

	log.Info().Str("path", path).Msg("Successfully generated example file")
}

// generateEnvFile lists every environment variable with its default value.
func generateEnvFile() string {
	cfg := &config.Config{}
	cfg.SetDefaults()

	var sb strings.Builder
	sb.WriteString(envFileHeader)

	val := reflect.ValueOf(*cfg)
	typ := val.Type()

	for i := range typ.NumField() {
		structField := typ.Field(i)
		structValue := val.Field(i)

		if structValue.Kind() != reflect.Struct || structField.Name == "Build" {
			continue
		}

		var section strings.Builder

		innerTyp := structValue.Type()
		for j := range innerTyp.NumField() {
			field := innerTyp.Field(j)
			value := structValue.Field(j)

			tag, ok := field.Tag.Lookup("env")
			if !ok {
				continue
			}

			envVarName := strings.Split(tag, ",")[0]

			switch {
			case uncommentedEnvVars[envVarName]:
				fmt.Fprintf(&section, "%s=\"%v\"\n", envVarName, value.Interface())
			case value.Kind() == reflect.Slice:
				fmt.Fprintf(&section, "# %s=%s\n", envVarName, strings.Join(value.Interface().([]string), ","))
			case value.Kind() == reflect.String && value.Len() == 0:
				fmt.Fprintf(&section, "# %s=\n", envVarName)
			default:
				fmt.Fprintf(&section, "# %s=%v\n", envVarName, value.Interface())
			}
		}

		if section.Len() == 0 {
			continue
		}

		fmt.Fprintf(&sb, "## %s\n%s\n", structField.Name, section.String())
	}

	return sb.String()
}

// generateYAMLFile renders the defaults as a commented-out config.yaml.
func generateYAMLFile() (string, error) {
	cfg := &config.Config{}
	cfg.SetDefaults()

	var yamlContent strings.Builder

	encoderOpts := []yaml.EncodeOption{
		config.GetDurationEncoderOption(),
		yaml.Indent(2),
	}
	if err := yaml.NewEncoder(&yamlContent, encoderOpts...).Encode(cfg); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(yamlFileHeader)

	for line := range strings.SplitSeq(yamlContent.String(), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		// Top-level keys (e.g., "basic:") are treated as section headers.
		if !strings.HasPrefix(line, " ") {
			fmt.Fprintf(&sb, "\n%s\n", line)

			continue
		}

		if strings.HasPrefix(trimmed, "dir:") {
			sb.WriteString(catalogDirYAMLComment + "\n")
		}

		indentSize := len(line) - len(strings.TrimLeft(line, " "))
		fmt.Fprintf(&sb, "%s# %s\n", strings.Repeat(" ", indentSize), trimmed)
	}

	return sb.String(), nil
}
