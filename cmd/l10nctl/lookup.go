// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"golang.org/x/text/language"

	"codeberg.org/addle/l10n/convert"
	"codeberg.org/addle/l10n/i18n"
)

// bundleFlags are shared by the commands that load a catalogue directory.
type bundleFlags struct {
	dir          *string
	lang         *string
	fallbackFile *string
	strict       *bool
}

func addBundleFlags(fs *flag.FlagSet) bundleFlags {
	return bundleFlags{
		dir:          fs.String("dir", "", "catalogue directory"),
		lang:         fs.String("lang", i18n.BaseLocale, "locale to resolve in"),
		fallbackFile: fs.String("fallback", i18n.DefaultFallbackFile, "fallback catalogue file name"),
		strict:       fs.Bool("strict", false, "mark untranslated texts with ⟦…⟧"),
	}
}

// load returns the bundle of the directory and the tag matched for -lang.
func (f bundleFlags) load() (*i18n.Bundle, language.Tag, error) {
	if *f.dir == "" {
		return nil, language.Und, errUsage
	}

	b, err := i18n.NewBundle(i18n.Options{
		FallbackFile:      *f.fallbackFile,
		StrictMissingKeys: *f.strict,
	})
	if err != nil {
		return nil, language.Und, err
	}

	if err := b.Load(os.DirFS(*f.dir), "."); err != nil {
		return nil, language.Und, err
	}

	return b, b.Match(*f.lang), nil
}

type lookupResult struct {
	i18n.Resolution

	ID   string `json:"id"`
	Text string `json:"text"`
	Raw  string `json:"raw"`
}

func runLookup(e *env, fs *flag.FlagSet, args []string) error {
	bf := addBundleFlags(fs)
	asJSON := fs.Bool("json", false, "print the resolution as JSON")

	if err := parse(fs, args, 1, -1); err != nil {
		return err
	}

	b, tag, err := bf.load()
	if err != nil {
		return err
	}

	id := fs.Arg(0)

	rest := fs.Args()[1:]
	lookupArgs := make([]any, len(rest))

	for i, a := range rest {
		lookupArgs[i] = a
	}

	res := b.Resolve(tag, id)
	text := b.Tr(i18n.WithTag(context.Background(), tag), id, lookupArgs...)

	if !*asJSON {
		fmt.Fprintln(e.stdout, text)

		return nil
	}

	enc := json.NewEncoder(e.stdout)
	enc.SetIndent("", "  ")

	return enc.Encode(lookupResult{Resolution: res, ID: id, Text: text, Raw: res.Text})
}

func runYAMLExport(e *env, fs *flag.FlagSet, args []string) error {
	bf := addBundleFlags(fs)
	out := fs.String("o", "", "output file (default: stdout)")

	if err := parse(fs, args, 0, 0); err != nil {
		return err
	}

	b, tag, err := bf.load()
	if err != nil {
		return err
	}

	data, err := convert.ToYAML(b, tag)
	if err != nil {
		return err
	}

	return writeOutput(e, *out, data)
}

func writeOutput(e *env, out string, data []byte) error {
	if out == "" {
		_, err := e.stdout.Write(data)

		return err
	}

	return os.WriteFile(out, data, 0o644)
}
