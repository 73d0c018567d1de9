// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"codeberg.org/addle/l10n/ts"
)

func runLint(e *env, fs *flag.FlagSet, args []string) error {
	quiet := fs.Bool("quiet", false, "only print warnings and errors")

	if err := parse(fs, args, 1, -1); err != nil {
		return err
	}

	failed := false

	for _, name := range fs.Args() {
		c, err := readCatalog(name)
		if err != nil {
			fmt.Fprintf(e.stdout, "%s: %v\n", name, err)

			failed = true

			continue
		}

		issues := ts.Validate(c)
		for _, issue := range issues {
			if *quiet && issue.Severity < ts.SeverityWarning {
				continue
			}

			fmt.Fprintf(e.stdout, "%s: %s\n", name, issue)
		}

		if ts.HasErrors(issues) {
			failed = true
		}
	}

	if failed {
		return errFindings
	}

	return nil
}

func runProcess(e *env, fs *flag.FlagSet, args []string) error {
	rawMode := fs.String("mode", "", "fallback or source")
	out := fs.String("o", "", "output file (default: rewrite FILE)")

	if err := parse(fs, args, 1, 1); err != nil {
		return err
	}

	mode, err := ts.ParseMode(*rawMode)
	if err != nil {
		fmt.Fprintf(e.stderr, "l10nctl process: %v\n", err)

		return errUsage
	}

	name := fs.Arg(0)

	c, err := readCatalog(name)
	if err != nil {
		return err
	}

	removed, err := ts.Process(c, mode)
	if err != nil {
		return err
	}

	if err := writeCatalog(outputPath(*out, name), c); err != nil {
		return err
	}

	fmt.Fprintf(e.stdout, "%s: processed as %s, removed %d messages\n", name, mode, removed)

	return nil
}

func runDedupe(e *env, fs *flag.FlagSet, args []string) error {
	out := fs.String("o", "", "output file (default: rewrite FILE)")

	if err := parse(fs, args, 1, 1); err != nil {
		return err
	}

	name := fs.Arg(0)

	c, err := readCatalog(name)
	if err != nil {
		return err
	}

	removed := ts.Dedupe(c)

	if err := writeCatalog(outputPath(*out, name), c); err != nil {
		return err
	}

	fmt.Fprintf(e.stdout, "%s: removed %d duplicate messages\n", name, removed)

	return nil
}

func runMerge(e *env, fs *flag.FlagSet, args []string) error {
	out := fs.String("o", "", "output file")
	dropVanished := fs.Bool("drop-vanished", false, "remove ids missing from the extraction instead of marking them vanished")

	if err := parse(fs, args, 2, 2); err != nil {
		return err
	}

	if *out == "" {
		return errUsage
	}

	existing, err := readCatalog(fs.Arg(0))
	if err != nil {
		return err
	}

	extracted, err := readCatalog(fs.Arg(1))
	if err != nil {
		return err
	}

	merged, stats := ts.Merge(existing, extracted, ts.MergeOptions{DropVanished: *dropVanished})

	if err := writeCatalog(*out, merged); err != nil {
		return err
	}

	fmt.Fprintf(e.stdout, "%s: %d added, %d updated, %d unchanged, %d demoted, %d vanished, %d dropped\n",
		*out, stats.Added, stats.Updated, stats.Unchanged, stats.Demoted, stats.Vanished, stats.Dropped)

	return nil
}

func runDiff(e *env, fs *flag.FlagSet, args []string) error {
	asJSON := fs.Bool("json", false, "print the diff as JSON")

	if err := parse(fs, args, 2, 2); err != nil {
		return err
	}

	from, err := readCatalog(fs.Arg(0))
	if err != nil {
		return err
	}

	to, err := readCatalog(fs.Arg(1))
	if err != nil {
		return err
	}

	return printDiff(e.stdout, ts.Compare(from, to), *asJSON)
}

func printDiff(w io.Writer, d ts.Diff, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(d)
	}

	if d.Empty() {
		fmt.Fprintln(w, "no differences")

		return nil
	}

	for _, group := range []struct {
		mark string
		ids  []string
	}{
		{"+", d.Added},
		{"-", d.Removed},
		{"~", d.Changed},
		{">", d.Moved},
	} {
		for _, id := range group.ids {
			fmt.Fprintf(w, "%s %s\n", group.mark, id)
		}
	}

	return nil
}

func readCatalog(name string) (*ts.Catalog, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := ts.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	return c, nil
}

// writeCatalog replaces name atomically with the encoding of c.
func writeCatalog(name string, c *ts.Catalog) error {
	tmp, err := os.CreateTemp(filepath.Dir(name), "."+filepath.Base(name)+".*")
	if err != nil {
		return err
	}

	defer func() {
		if tmp != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err := c.Encode(tmp); err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmp.Name(), name); err != nil {
		return err
	}

	tmp = nil

	log.Debug().Str("path", name).Int("messages", c.Len()).Msg("Wrote catalogue")

	return nil
}

func outputPath(out, in string) string {
	if out != "" {
		return out
	}

	return in
}
