// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"flag"
	"fmt"
	"os"

	"codeberg.org/addle/l10n/convert"
)

func runPoExport(e *env, fs *flag.FlagSet, args []string) error {
	out := fs.String("o", "", "output file (default: stdout)")

	if err := parse(fs, args, 1, 1); err != nil {
		return err
	}

	c, err := readCatalog(fs.Arg(0))
	if err != nil {
		return err
	}

	data, err := convert.ToPo(c)
	if err != nil {
		return err
	}

	return writeOutput(e, *out, data)
}

func runPoImport(e *env, fs *flag.FlagSet, args []string) error {
	out := fs.String("o", "", "output file (default: rewrite FILE)")

	if err := parse(fs, args, 2, 2); err != nil {
		return err
	}

	name := fs.Arg(0)

	c, err := readCatalog(name)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(fs.Arg(1))
	if err != nil {
		return err
	}

	changed := convert.ApplyPo(c, data)

	if err := writeCatalog(outputPath(*out, name), c); err != nil {
		return err
	}

	fmt.Fprintf(e.stdout, "%s: updated %d translations\n", name, changed)

	return nil
}
