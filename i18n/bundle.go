// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"runtime"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"codeberg.org/addle/l10n/core/lrucache"
	"codeberg.org/addle/l10n/ts"
)

// DefaultFallbackFile is the file name of the fallback catalogue inside a
// catalogue directory.
const DefaultFallbackFile = "fallback.ts"

var ErrFallback = errors.New("fallback catalogue is unusable")

// Options configures a [Bundle]. The zero value is usable.
type Options struct {
	// BaseLocale is matched when no user preference fits. Defaults to [BaseLocale].
	BaseLocale string
	// FallbackFile names the fallback catalogue within the loaded directory.
	FallbackFile string
	// StrictMissingKeys logs untranslated lookups once and wraps them in "⟦...⟧".
	StrictMissingKeys bool
	// CacheSize bounds the resolution cache. Zero disables caching.
	CacheSize int
	// CompressCache stores cached texts zstd-compressed.
	CompressCache bool
}

// Bundle is a set of loaded catalogues and the locale matcher over them.
// It is safe for concurrent use; [Bundle.Load] and [Bundle.Install] swap
// the catalogues atomically.
type Bundle struct {
	opts   Options
	logger zerolog.Logger
	cache  *lrucache.Cache

	state atomic.Pointer[state]

	missingOnce        sync.Map
	unknownDynamicOnce sync.Map
}

type state struct {
	gen      uint64
	tags     []language.Tag // base first
	matcher  language.Matcher
	catalogs map[string]*ts.Catalog // keyed by strippedTagString
	fallback *ts.Catalog
}

// NewBundle returns a bundle with no catalogues installed. Lookups on it
// resolve to the id itself.
func NewBundle(opts Options) (*Bundle, error) {
	if opts.BaseLocale == "" {
		opts.BaseLocale = BaseLocale
	}

	if opts.FallbackFile == "" {
		opts.FallbackFile = DefaultFallbackFile
	}

	if _, err := ParseLocale(opts.BaseLocale); err != nil {
		return nil, fmt.Errorf("base locale: %w", err)
	}

	b := &Bundle{
		opts:   opts,
		logger: log.With().Str("sys", "i18n").Logger(),
	}

	if opts.CacheSize > 0 {
		cache, err := lrucache.New(opts.CacheSize, opts.CompressCache)
		if err != nil {
			return nil, fmt.Errorf("resolution cache: %w", err)
		}

		b.cache = cache
	}

	b.Install(nil)

	return b, nil
}

// Load parses every *.ts file in dir concurrently and installs the result.
//
// The file named by Options.FallbackFile becomes the fallback catalogue and
// failing to parse it is an error. Other files are keyed by their language
// attribute, or by their file name when it is empty; a locale file that
// fails to parse is logged and skipped.
func (b *Bundle) Load(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("failed to read catalogue directory %q: %w", dir, err)
	}

	var names []string

	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".ts") {
			names = append(names, e.Name())
		}
	}

	parsed := make([]*ts.Catalog, len(names))
	parseErrs := make([]error, len(names))

	var g errgroup.Group

	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, name := range names {
		g.Go(func() error {
			parsed[i], parseErrs[i] = ts.ParseFile(fsys, path.Join(dir, name))
			if parseErrs[i] != nil && name == b.opts.FallbackFile {
				return fmt.Errorf("%w: %w", ErrFallback, parseErrs[i])
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	var (
		fallback *ts.Catalog
		locales  = make([]*ts.Catalog, 0, len(names))
	)

	for i, name := range names {
		if parseErrs[i] != nil {
			b.logger.Warn().Err(parseErrs[i]).Str("file", name).Msg("Skipping malformed catalogue")

			continue
		}

		if name == b.opts.FallbackFile {
			fallback = parsed[i]

			continue
		}

		if parsed[i].Language == "" {
			parsed[i].Language = strings.TrimSuffix(name, ".ts")
		}

		locales = append(locales, parsed[i])
	}

	if fallback == nil {
		b.logger.Warn().Str("dir", dir).Str("file", b.opts.FallbackFile).Msg("No fallback catalogue found")
	}

	b.Install(fallback, locales...)

	return nil
}

// Install replaces the loaded catalogues. fallback may be nil. Locales with
// an invalid language are skipped; when two catalogues share a language the
// first one wins.
func (b *Bundle) Install(fallback *ts.Catalog, locales ...*ts.Catalog) {
	base, _ := ParseLocale(b.opts.BaseLocale)

	next := &state{
		tags:     []language.Tag{base},
		catalogs: make(map[string]*ts.Catalog, len(locales)),
		fallback: fallback,
	}

	if prev := b.state.Load(); prev != nil {
		next.gen = prev.gen + 1
	}

	var others []language.Tag

	for _, c := range locales {
		tag, err := ParseLocale(c.Language)
		if err != nil {
			b.logger.Warn().Err(err).Msg("Skipping catalogue with invalid language")

			continue
		}

		key := strippedTagString(tag)
		if _, dup := next.catalogs[key]; dup {
			b.logger.Warn().Str("locale", key).Msg("Duplicate catalogue language, keeping the first")

			continue
		}

		next.catalogs[key] = c

		if key != strippedTagString(base) {
			others = append(others, tag)
		}
	}

	slices.SortFunc(others, func(a, b language.Tag) int {
		return strings.Compare(a.String(), b.String())
	})

	next.tags = append(next.tags, others...)
	next.matcher = language.NewMatcher(next.tags)

	b.state.Store(next)

	if b.cache != nil {
		b.cache.Purge()
	}

	b.missingOnce.Clear()

	b.logger.Info().
		Int("locales", len(next.catalogs)).
		Bool("fallback", fallback != nil).
		Msg("Catalogues installed")
}

// Base returns the base locale tag.
func (b *Bundle) Base() language.Tag {
	return b.state.Load().tags[0]
}

// Languages returns the supported tags, base first.
func (b *Bundle) Languages() []language.Tag {
	return slices.Clone(b.state.Load().tags)
}

// Match returns the supported tag that best fits the given preferences,
// each a BCP 47 tag or an Accept-Language value. Without a usable
// preference it returns the base tag.
func (b *Bundle) Match(preferred ...string) language.Tag {
	st := b.state.Load()
	t, _ := language.MatchStrings(st.matcher, preferred...)

	return st.closest(t)
}

// Catalog returns the catalogue loaded for the tag that best matches t.
func (b *Bundle) Catalog(t language.Tag) (*ts.Catalog, bool) {
	st := b.state.Load()
	c, ok := st.catalogs[strippedTagString(st.closest(t))]

	return c, ok
}

// Fallback returns the fallback catalogue, or nil when none is loaded.
func (b *Bundle) Fallback() *ts.Catalog {
	return b.state.Load().fallback
}

// CacheStats reports resolution cache usage. ok is false when caching is
// disabled.
func (b *Bundle) CacheStats() (stats lrucache.Stats, ok bool) {
	if b.cache == nil {
		return lrucache.Stats{}, false
	}

	return b.cache.Stats(), true
}

func (s *state) closest(t language.Tag) language.Tag {
	_, idx, conf := s.matcher.Match(t)
	if conf == language.No {
		return s.tags[0]
	}

	return s.tags[idx]
}
