// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sync"
	"sync/atomic"

	"golang.org/x/text/language"

	"codeberg.org/addle/l10n/config"
	"codeberg.org/addle/l10n/i18n/dynids"
)

var (
	defaultBundle atomic.Pointer[Bundle]

	// source of the default bundle, for Reload.
	sourceMu  sync.Mutex
	sourceFS  fs.FS
	sourceDir string
)

// Default returns the bundle used by the package-level functions. Before
// [Setup] or [SetDefault] it is an empty bundle resolving every id to itself.
func Default() *Bundle {
	if b := defaultBundle.Load(); b != nil {
		return b
	}

	b, _ := NewBundle(Options{})
	defaultBundle.CompareAndSwap(nil, b)

	return defaultBundle.Load()
}

// SetDefault replaces the bundle used by the package-level functions.
func SetDefault(b *Bundle) {
	defaultBundle.Store(b)
}

// Setup builds the default bundle from [config.Global] and loads the
// catalogues in dir of fsys, along with the dynamic id registry next to
// them.
//
// Calling Setup again replaces the previously loaded bundle.
func Setup(fsys fs.FS, dir string) error {
	cfg := config.Global

	opts := Options{
		BaseLocale:        cfg.Catalog.BaseLocale,
		FallbackFile:      cfg.Catalog.FallbackFile,
		StrictMissingKeys: cfg.Catalog.StrictMissingKeys,
	}

	if cfg.Cache.Enabled {
		opts.CacheSize = cfg.Cache.Size
		opts.CompressCache = cfg.Cache.Compress
	}

	b, err := NewBundle(opts)
	if err != nil {
		return err
	}

	if err := b.Load(fsys, dir); err != nil {
		return err
	}

	if err := loadDynamicIDs(fsys, dir, cfg.Catalog.DynamicIDsFile); err != nil {
		return err
	}

	SetDefault(b)

	sourceMu.Lock()
	sourceFS, sourceDir = fsys, dir
	sourceMu.Unlock()

	b.logger.Info().
		Int("languages", len(b.Languages())).
		Int("dynamic_ids", dynids.Len()).
		Msg("i18n ready")

	return nil
}

// Reload loads the catalogues again from the location given to [Setup].
// The previous catalogues stay in place when loading fails.
func Reload() error {
	sourceMu.Lock()
	fsys, dir := sourceFS, sourceDir
	sourceMu.Unlock()

	if fsys == nil {
		return errors.New("i18n: Reload called before Setup")
	}

	if err := Default().Load(fsys, dir); err != nil {
		return err
	}

	return loadDynamicIDs(fsys, dir, config.Global.Catalog.DynamicIDsFile)
}

func loadDynamicIDs(fsys fs.FS, dir, name string) error {
	if name == "" {
		return nil
	}

	f, err := fsys.Open(path.Join(dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		dynids.Set(nil)

		return nil
	} else if err != nil {
		return fmt.Errorf("failed to open dynamic id registry: %w", err)
	}
	defer f.Close()

	ids, err := dynids.Decode(f)
	if err != nil {
		return err
	}

	dynids.Set(ids)

	return nil
}

// Tr is [Bundle.Tr] on the default bundle.
func Tr(ctx context.Context, id string, args ...any) string {
	return Default().Tr(ctx, id, args...)
}

// TrDynamic is [Bundle.TrDynamic] on the default bundle.
func TrDynamic(ctx context.Context, segments ...string) string {
	return Default().TrDynamic(ctx, segments...)
}

// AffixUnits is [Bundle.AffixUnits] on the default bundle.
func AffixUnits(ctx context.Context, unit string, value any) string {
	return Default().AffixUnits(ctx, unit, value)
}

// Languages returns the tags supported by the default bundle, base first.
func Languages() []language.Tag {
	return Default().Languages()
}
