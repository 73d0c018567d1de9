// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"codeberg.org/addle/l10n/store"
)

func runSnapshot(e *env, fs *flag.FlagSet, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	sub, args := args[0], args[1:]

	db := fs.String("db", "", "snapshot database path")

	var (
		label    *string
		lang     *string
		asJSON   *bool
		minArgs, maxArgs int
	)

	switch sub {
	case "record":
		label = fs.String("label", "", "snapshot label, e.g. a commit or release")
		minArgs, maxArgs = 1, -1
	case "list":
		lang = fs.String("language", "", "only list snapshots of this language")
		minArgs, maxArgs = 0, 0
	case "drift":
		asJSON = fs.Bool("json", false, "print the diff as JSON")
		minArgs, maxArgs = 2, 2
	default:
		return errUsage
	}

	if err := parse(fs, args, minArgs, maxArgs); err != nil {
		return err
	}

	if *db == "" {
		return errUsage
	}

	ctx := context.Background()

	s, err := store.Open(ctx, *db)
	if err != nil {
		return err
	}
	defer s.Close()

	switch sub {
	case "record":
		return snapshotRecord(ctx, e, s, *label, fs.Args())
	case "list":
		return snapshotList(ctx, e, s, *lang)
	default:
		return snapshotDrift(ctx, e, s, fs.Arg(0), fs.Arg(1), *asJSON)
	}
}

func snapshotRecord(ctx context.Context, e *env, s *store.Store, label string, names []string) error {
	if label == "" {
		return errUsage
	}

	for _, name := range names {
		c, err := readCatalog(name)
		if err != nil {
			return err
		}

		snap, err := s.Record(ctx, label, c)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}

		fmt.Fprintf(e.stdout, "%s: recorded snapshot %d (%s, %d messages)\n", name, snap.ID, snap.Language, snap.Messages)
	}

	return nil
}

func snapshotList(ctx context.Context, e *env, s *store.Store, lang string) error {
	snaps, err := s.List(ctx, lang)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tLABEL\tLANGUAGE\tMESSAGES\tCREATED")

	for _, snap := range snaps {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n",
			snap.ID, snap.Label, snap.Language, snap.Messages, snap.CreatedAt.Format(time.RFC3339))
	}

	return tw.Flush()
}

func snapshotDrift(ctx context.Context, e *env, s *store.Store, rawFrom, rawTo string, asJSON bool) error {
	from, err := strconv.ParseInt(rawFrom, 10, 64)
	if err != nil {
		return errUsage
	}

	to, err := strconv.ParseInt(rawTo, 10, 64)
	if err != nil {
		return errUsage
	}

	d, err := s.Drift(ctx, from, to)
	if err != nil {
		return err
	}

	return printDiff(e.stdout, d, asJSON)
}
