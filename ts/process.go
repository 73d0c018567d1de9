// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package ts

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// DefaultSourceLanguage is assumed when a catalogue omits sourcelanguage.
const DefaultSourceLanguage = "en_US"

// Mode selects how [Process] prepares a freshly extracted catalogue.
type Mode string

const (
	// ModeFallback produces the fallback catalogue: only messages with
	// authored source text, each translated to itself.
	ModeFallback Mode = "fallback"
	// ModeSource produces the source-language catalogue: messages with
	// authored source text are dropped because the fallback catalogue
	// already supplies them.
	ModeSource Mode = "source"
)

var errUnknownMode = errors.New("unknown process mode")

// ParseMode converts a command-line value into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeFallback, ModeSource:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("%w %q, want %q or %q", errUnknownMode, s, ModeFallback, ModeSource)
	}
}

// Process rewrites c in place for the given mode and returns the number
// of messages removed.
func Process(c *Catalog, mode Mode) (int, error) {
	before := c.Len()

	switch mode {
	case ModeFallback:
		c.Language = c.sourceLanguage()

		c.filter(func(m *Message) bool { return m.Source != "" })

		for _, m := range c.Messages() {
			m.Translation = m.Source
			m.Type = TypeFinished
		}
	case ModeSource:
		if !isLocale(c.Language) {
			c.Language = c.sourceLanguage()
		}

		c.filter(func(m *Message) bool { return m.Source == "" })
	default:
		return 0, fmt.Errorf("%w %q", errUnknownMode, mode)
	}

	return before - c.Len(), nil
}

// sourceLanguage returns c.SourceLanguage when it names a locale, otherwise
// [DefaultSourceLanguage].
func (c *Catalog) sourceLanguage() string {
	if isLocale(c.SourceLanguage) {
		return c.SourceLanguage
	}

	return DefaultSourceLanguage
}

// isLocale reports whether s parses as a locale in either the Qt (en_US) or
// the BCP 47 (en-US) spelling.
func isLocale(s string) bool {
	if s == "" {
		return false
	}

	_, err := language.Parse(strings.ReplaceAll(s, "_", "-"))

	return err == nil
}
