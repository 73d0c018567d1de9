// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"
	"strconv"
	"sync/atomic"

	"codeberg.org/addle/l10n/store"
	"codeberg.org/addle/l10n/ts"
)

var snapshots atomic.Pointer[store.Store]

// SetStore makes s available to the snapshot routes. Passing nil disables
// them.
func SetStore(s *store.Store) {
	snapshots.Store(s)
}

// SnapshotsData is the body of GET /api/snapshots.
type SnapshotsData struct {
	Snapshots []store.Snapshot `json:"snapshots"`
}

// DriftData is the body of GET /api/snapshots/{from}/drift/{to}.
type DriftData struct {
	From  store.Snapshot `json:"from"`
	To    store.Snapshot `json:"to"`
	Diff  ts.Diff        `json:"diff"`
	Empty bool           `json:"empty"`
}

// SnapshotList lists recorded snapshots, optionally for one language.
func SnapshotList(w http.ResponseWriter, r *http.Request) error {
	s := snapshots.Load()
	if s == nil {
		return NewHTTPError(http.StatusNotFound, ErrStoreDisabled)
	}

	list, err := s.List(r.Context(), r.URL.Query().Get("language"))
	if err != nil {
		return err
	}

	if list == nil {
		list = []store.Snapshot{}
	}

	return writeJSON(w, http.StatusOK, SnapshotsData{Snapshots: list})
}

// SnapshotDrift reports how ids moved between two snapshots.
func SnapshotDrift(w http.ResponseWriter, r *http.Request) error {
	s := snapshots.Load()
	if s == nil {
		return NewHTTPError(http.StatusNotFound, ErrStoreDisabled)
	}

	fromID, err := snapshotID(r, "from")
	if err != nil {
		return err
	}

	toID, err := snapshotID(r, "to")
	if err != nil {
		return err
	}

	from, err := s.Get(r.Context(), fromID)
	if err != nil {
		return err
	}

	to, err := s.Get(r.Context(), toID)
	if err != nil {
		return err
	}

	diff, err := s.Drift(r.Context(), fromID, toID)
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusOK, DriftData{From: from, To: to, Diff: diff, Empty: diff.Empty()})
}

func snapshotID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, NewHTTPError(http.StatusBadRequest, ErrInvalidSnapshotID)
	}

	return id, nil
}
