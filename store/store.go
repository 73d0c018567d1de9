// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package store keeps a SQLite history of catalogue snapshots.

Each extraction pass can be recorded as a snapshot; comparing two
snapshots shows which ids appeared, disappeared, changed text or only
moved in the application source. Empty contexts are not preserved.
*/
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"codeberg.org/addle/l10n/core/audit"
	"codeberg.org/addle/l10n/ts"
)

var (
	ErrNotFound      = errors.New("snapshot not found")
	ErrPathRequired  = errors.New("storage path is required")
	ErrLabelRequired = errors.New("snapshot label is required")
)

// Snapshot describes one recorded catalogue.
type Snapshot struct {
	ID             int64     `json:"id"`
	Label          string    `json:"label"`
	Language       string    `json:"language"`
	SourceLanguage string    `json:"sourceLanguage"`
	Version        string    `json:"version"`
	Messages       int       `json:"messages"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Store is a snapshot database. It is safe for concurrent use.
type Store struct {
	db     *sql.DB
	logger zerolog.Logger
}

// Open opens the SQLite database at path, creating it if needed, and
// applies pending migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrPathRequired
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if err := migrate(ctx, db); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{
		db:     db,
		logger: log.With().Str("sys", "store").Logger(),
	}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}

// span times a store operation and logs it when done.
func (s *Store) span(ctx context.Context, op, subject string) (context.Context, func(error)) {
	span := &audit.Span{Destination: audit.ToStore, Method: op, URL: subject}
	ctx = span.Begin(ctx)

	return ctx, func(err error) {
		span.End()
		span.Error = err
		span.Log()
	}
}

// Record stores c under label and returns the new snapshot.
func (s *Store) Record(ctx context.Context, label string, c *ts.Catalog) (snap Snapshot, err error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}

	label = strings.TrimSpace(label)
	if label == "" {
		return Snapshot{}, ErrLabelRequired
	}

	ctx, done := s.span(ctx, "RECORD", label)
	defer func() { done(err) }()

	snap = Snapshot{
		Label:          label,
		Language:       c.Language,
		SourceLanguage: c.SourceLanguage,
		Version:        c.Version,
		Messages:       c.Len(),
		CreatedAt:      time.Now().UTC().Truncate(time.Millisecond),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Snapshot{}, fmt.Errorf("begin record: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
INSERT INTO snapshots (label, language, source_language, version, message_count, created_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		snap.Label, snap.Language, snap.SourceLanguage, snap.Version, snap.Messages, snap.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return Snapshot{}, fmt.Errorf("insert snapshot: %w", err)
	}

	if snap.ID, err = res.LastInsertId(); err != nil {
		return Snapshot{}, fmt.Errorf("snapshot id: %w", err)
	}

	insertMessage, err := tx.PrepareContext(ctx, `
INSERT INTO snapshot_messages (
	snapshot_id, ord, context, message_id, source, old_source,
	extra_comment, translator_comment, translation, translation_type
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return Snapshot{}, fmt.Errorf("prepare message insert: %w", err)
	}
	defer insertMessage.Close()

	insertLocation, err := tx.PrepareContext(ctx, `
INSERT INTO snapshot_locations (snapshot_id, message_ord, ord, filename, line)
VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return Snapshot{}, fmt.Errorf("prepare location insert: %w", err)
	}
	defer insertLocation.Close()

	ord := 0

	for _, cctx := range c.Contexts {
		for _, m := range cctx.Messages {
			if _, err := insertMessage.ExecContext(ctx,
				snap.ID, ord, cctx.Name, m.ID, m.Source, m.OldSource,
				m.ExtraComment, m.TranslatorComment, m.Translation, string(m.Type),
			); err != nil {
				return Snapshot{}, fmt.Errorf("insert message %q: %w", m.ID, err)
			}

			for i, l := range m.Locations {
				if _, err := insertLocation.ExecContext(ctx, snap.ID, ord, i, l.Filename, l.Line); err != nil {
					return Snapshot{}, fmt.Errorf("insert location of %q: %w", m.ID, err)
				}
			}

			ord++
		}
	}

	if err := tx.Commit(); err != nil {
		return Snapshot{}, fmt.Errorf("commit record: %w", err)
	}

	s.logger.Info().
		Int64("snapshot", snap.ID).
		Str("label", snap.Label).
		Str("language", snap.Language).
		Int("messages", snap.Messages).
		Msg("Recorded snapshot")

	return snap, nil
}

const snapshotColumns = `id, label, language, source_language, version, message_count, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row scanner) (Snapshot, error) {
	var (
		snap      Snapshot
		createdAt int64
	)

	if err := row.Scan(
		&snap.ID, &snap.Label, &snap.Language, &snap.SourceLanguage,
		&snap.Version, &snap.Messages, &createdAt,
	); err != nil {
		return Snapshot{}, err
	}

	snap.CreatedAt = time.UnixMilli(createdAt).UTC()

	return snap, nil
}

// List returns snapshots newest first. An empty language lists every
// language.
func (s *Store) List(ctx context.Context, language string) (snaps []Snapshot, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, done := s.span(ctx, "LIST", language)
	defer func() { done(err) }()

	rows, err := s.db.QueryContext(ctx, `
SELECT `+snapshotColumns+`
FROM snapshots
WHERE ? = '' OR language = ?
ORDER BY created_at DESC, id DESC`, language, language)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}

		snaps = append(snaps, snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}

	return snaps, nil
}

// Get returns the snapshot with the given id.
func (s *Store) Get(ctx context.Context, id int64) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}

	snap, err := scanSnapshot(s.db.QueryRowContext(ctx,
		`SELECT `+snapshotColumns+` FROM snapshots WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	} else if err != nil {
		return Snapshot{}, fmt.Errorf("get snapshot %d: %w", id, err)
	}

	return snap, nil
}

// Load rebuilds the catalogue recorded in snapshot id.
func (s *Store) Load(ctx context.Context, id int64) (c *ts.Catalog, err error) {
	snap, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	ctx, done := s.span(ctx, "LOAD", strconv.FormatInt(id, 10))
	defer func() { done(err) }()

	locations, err := s.locations(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT ord, context, message_id, source, old_source,
	extra_comment, translator_comment, translation, translation_type
FROM snapshot_messages
WHERE snapshot_id = ?
ORDER BY ord`, id)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	defer rows.Close()

	c = &ts.Catalog{
		Version:        snap.Version,
		Language:       snap.Language,
		SourceLanguage: snap.SourceLanguage,
	}

	for rows.Next() {
		var (
			ord      int
			ctxName  string
			m        ts.Message
			typeName string
		)

		if err := rows.Scan(&ord, &ctxName, &m.ID, &m.Source, &m.OldSource,
			&m.ExtraComment, &m.TranslatorComment, &m.Translation, &typeName,
		); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}

		m.Type = ts.TranslationType(typeName)
		m.Locations = locations[ord]
		c.Append(ctxName, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	return c, nil
}

func (s *Store) locations(ctx context.Context, id int64) (map[int][]ts.Location, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT message_ord, filename, line
FROM snapshot_locations
WHERE snapshot_id = ?
ORDER BY message_ord, ord`, id)
	if err != nil {
		return nil, fmt.Errorf("load locations: %w", err)
	}
	defer rows.Close()

	out := make(map[int][]ts.Location)

	for rows.Next() {
		var (
			ord int
			l   ts.Location
		)

		if err := rows.Scan(&ord, &l.Filename, &l.Line); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}

		out[ord] = append(out[ord], l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate locations: %w", err)
	}

	return out, nil
}

// Drift compares two snapshots.
func (s *Store) Drift(ctx context.Context, fromID, toID int64) (ts.Diff, error) {
	from, err := s.Load(ctx, fromID)
	if err != nil {
		return ts.Diff{}, err
	}

	to, err := s.Load(ctx, toID)
	if err != nil {
		return ts.Diff{}, err
	}

	return ts.Compare(from, to), nil
}

// Delete removes a snapshot and its messages.
func (s *Store) Delete(ctx context.Context, id int64) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	ctx, done := s.span(ctx, "DELETE", strconv.FormatInt(id, 10))
	defer func() { done(err) }()

	res, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete snapshot %d: %w", id, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}

	return nil
}
