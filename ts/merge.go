// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package ts

import "slices"

// MergeOptions tunes [Merge].
type MergeOptions struct {
	// DropVanished removes messages that no longer appear in the
	// extraction instead of marking them vanished.
	DropVanished bool
}

// MergeStats counts what [Merge] did to each message.
type MergeStats struct {
	Added     int `json:"added"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
	Demoted   int `json:"demoted"`
	Vanished  int `json:"vanished"`
	Dropped   int `json:"dropped"`
}

// Merge applies a fresh extraction to an existing catalogue and returns
// the result. Neither input is modified.
//
// Messages follow the extraction's order and contexts. For ids already
// present in existing, translations and translator comments are kept while
// locations and extraction comments are refreshed. When the source text
// changed, the previous source is kept as oldsource and a finished
// translation is demoted to unfinished. Ids missing from the extraction
// are appended as vanished, or dropped with DropVanished.
func Merge(existing, extracted *Catalog, opts MergeOptions) (*Catalog, MergeStats) {
	var stats MergeStats

	out := &Catalog{
		Version:        extracted.Version,
		Language:       existing.Language,
		SourceLanguage: existing.SourceLanguage,
	}

	if out.Version == "" {
		out.Version = existing.Version
	}

	if out.Language == "" {
		out.Language = extracted.Language
	}

	if out.SourceLanguage == "" {
		out.SourceLanguage = extracted.SourceLanguage
	}

	present := make(map[string]bool, extracted.Len())

	for _, xctx := range extracted.Contexts {
		ctx := &Context{Name: xctx.Name, Messages: make([]*Message, 0, len(xctx.Messages))}

		for _, xm := range xctx.Messages {
			if xm.ID != "" && present[xm.ID] {
				continue
			}

			present[xm.ID] = true

			old, ok := existing.Lookup(xm.ID)
			if !ok {
				m := xm.Clone()
				if _, finished := m.Resolved(); !finished {
					m.Type = TypeUnfinished
				}

				ctx.Messages = append(ctx.Messages, m)
				stats.Added++

				continue
			}

			m, changed, demoted := refresh(old, xm)
			ctx.Messages = append(ctx.Messages, m)

			switch {
			case demoted:
				stats.Demoted++
				stats.Updated++
			case changed:
				stats.Updated++
			default:
				stats.Unchanged++
			}
		}

		out.Contexts = append(out.Contexts, ctx)
	}

	for _, ectx := range existing.Contexts {
		for _, em := range ectx.Messages {
			if em.ID == "" || present[em.ID] {
				continue
			}

			present[em.ID] = true

			if opts.DropVanished {
				stats.Dropped++

				continue
			}

			m := em.Clone()
			m.Type = TypeVanished
			m.Locations = nil

			out.Append(ectx.Name, m)
			stats.Vanished++
		}
	}

	out.reindex()

	return out, stats
}

// refresh combines an existing message with its re-extracted counterpart.
func refresh(old, extracted *Message) (m *Message, changed, demoted bool) {
	m = old.Clone()

	if !slices.Equal(m.Locations, extracted.Locations) || m.ExtraComment != extracted.ExtraComment {
		changed = true
	}

	m.Locations = slices.Clone(extracted.Locations)
	m.ExtraComment = extracted.ExtraComment

	if m.Type == TypeVanished || m.Type == TypeObsolete {
		m.Type = TypeUnfinished
		if m.Translation != "" && m.Source == extracted.Source {
			m.Type = TypeNone
		}

		changed = true
	}

	if m.Source != extracted.Source {
		m.OldSource = m.Source
		m.Source = extracted.Source
		changed = true

		if m.Type.Finished() {
			m.Type = TypeUnfinished
			demoted = true
		}
	}

	return m, changed, demoted
}
