// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Command l10nctl maintains Addle's .ts translation catalogues.

Usage:

	l10nctl <command> [flags] [arguments]

Run "l10nctl help" for the list of commands.
*/
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Exit codes.
const (
	exitOK       = 0
	exitFailure  = 1
	exitBadUsage = 2
)

var (
	// errFindings makes a command exit with status 1 without logging an
	// error. The command has already printed what it found.
	errFindings = errors.New("findings reported")

	errUsage = errors.New("bad usage")

	// errBadFlags is errUsage after the flag package printed the usage.
	errBadFlags = errors.New("bad flags")
)

// env is what a command writes to.
type env struct {
	stdout io.Writer
	stderr io.Writer
}

type command struct {
	name    string
	args    string
	summary string
	run     func(e *env, fs *flag.FlagSet, args []string) error
}

var commands []command

func init() {
	commands = []command{
		{"lint", "[-quiet] FILE...", "validate catalogues; exit 1 when one has errors", runLint},
		{"process", "-mode fallback|source [-o OUT] FILE", "prepare a catalogue for shipping", runProcess},
		{"dedupe", "[-o OUT] FILE", "fold repeated ids into their first occurrence", runDedupe},
		{"merge", "-o OUT [-drop-vanished] EXISTING EXTRACTED", "apply a fresh extraction to a catalogue", runMerge},
		{"diff", "[-json] FROM TO", "compare two catalogues", runDiff},
		{"lookup", "-dir DIR [-lang TAG] [-strict] [-json] ID [ARG...]", "resolve an id like the runtime does", runLookup},
		{"yaml-export", "-dir DIR [-lang TAG] [-o OUT]", "write the resolved texts of a locale as YAML", runYAMLExport},
		{"po-export", "[-o OUT] FILE", "write a catalogue as a gettext .po file", runPoExport},
		{"po-import", "[-o OUT] FILE PO", "copy translations from a .po file into a catalogue", runPoImport},
		{"snapshot", "record|list|drift -db PATH ...", "record catalogues and report drift between them", runSnapshot},
	}
}

func main() {
	setupLogger(os.Stderr)

	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// setupLogger writes human-readable logs, colored when w is a terminal.
func setupLogger(w *os.File) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:     w,
		NoColor: !isatty.IsTerminal(w.Fd()) && !isatty.IsCygwinTerminal(w.Fd()),
	})
}

// run executes the command named by args[0] and returns the exit code.
func run(args []string, stdout, stderr io.Writer) int {
	e := &env{stdout: stdout, stderr: stderr}

	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		usage(stderr)

		if len(args) == 0 {
			return exitBadUsage
		}

		return exitOK
	}

	i := slices.IndexFunc(commands, func(c command) bool { return c.name == args[0] })
	if i < 0 {
		fmt.Fprintf(stderr, "l10nctl: unknown command %q\n\n", args[0])
		usage(stderr)

		return exitBadUsage
	}

	cmd := commands[i]

	fs := flag.NewFlagSet(cmd.name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: l10nctl %s %s\n", cmd.name, cmd.args)
		fs.PrintDefaults()
	}

	err := cmd.run(e, fs, args[1:])

	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, flag.ErrHelp):
		return exitOK
	case errors.Is(err, errBadFlags):
		return exitBadUsage
	case errors.Is(err, errUsage):
		fs.Usage()

		return exitBadUsage
	case errors.Is(err, errFindings):
		return exitFailure
	default:
		log.Error().Err(err).Str("command", cmd.name).Msg("Command failed")

		return exitFailure
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: l10nctl <command> [flags] [arguments]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")

	for _, c := range commands {
		fmt.Fprintf(w, "  %-12s %s\n", c.name, c.summary)
	}
}

// parse parses flags and checks the number of positional arguments.
// max < 0 means unbounded.
func parse(fs *flag.FlagSet, args []string, minArgs, maxArgs int) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}

		return errBadFlags
	}

	if n := fs.NArg(); n < minArgs || (maxArgs >= 0 && n > maxArgs) {
		return errUsage
	}

	return nil
}
