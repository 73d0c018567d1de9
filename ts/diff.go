// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package ts

import (
	"slices"
	"sort"
)

// Diff lists the ids that differ between two snapshots of a catalogue.
// Every slice is sorted.
type Diff struct {
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
	// Changed ids differ in source, translation or translation type.
	Changed []string `json:"changed"`
	// Moved ids differ only in their advisory locations.
	Moved []string `json:"moved"`
}

// Empty reports whether the snapshots are equivalent.
func (d Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0 && len(d.Moved) == 0
}

// Compare reports how to differs from from.
func Compare(from, to *Catalog) Diff {
	var d Diff

	for _, m := range to.Messages() {
		if m.ID == "" {
			continue
		}

		if canonical, _ := to.Lookup(m.ID); canonical != m {
			continue
		}

		old, ok := from.Lookup(m.ID)

		switch {
		case !ok:
			d.Added = append(d.Added, m.ID)
		case old.Source != m.Source || old.Translation != m.Translation || old.Type != m.Type:
			d.Changed = append(d.Changed, m.ID)
		case !slices.Equal(old.Locations, m.Locations):
			d.Moved = append(d.Moved, m.ID)
		}
	}

	for _, m := range from.Messages() {
		if m.ID == "" {
			continue
		}

		if _, ok := to.Lookup(m.ID); !ok && !slices.Contains(d.Removed, m.ID) {
			d.Removed = append(d.Removed, m.ID)
		}
	}

	sort.Strings(d.Added)
	sort.Strings(d.Removed)
	sort.Strings(d.Changed)
	sort.Strings(d.Moved)

	return d
}
