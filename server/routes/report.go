// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"

	"codeberg.org/addle/l10n/i18n"
	"codeberg.org/addle/l10n/server/template"
	"codeberg.org/addle/l10n/ts"
)

// CatalogReport renders the HTML status report of a catalogue. Each row
// shows what a lookup of the id returns for that language.
func CatalogReport(w http.ResponseWriter, r *http.Request) error {
	b := i18n.Default()

	name, c, err := catalogFor(b, r.PathValue("lang"))
	if err != nil {
		return err
	}

	tag := b.Base()
	if name != fallbackSegment {
		tag = b.Match(name)
	}

	data := template.ReportData{
		Title:    "Catalogue status: " + name,
		Language: name,
		Base:     b.Base().String(),
		Issues:   ts.Validate(c),
	}

	for _, m := range c.Messages() {
		if m.ID == "" {
			continue
		}

		if _, ok := m.Resolved(); ok {
			data.Finished++
		} else {
			data.Unfinished++
		}

		res := b.Resolve(tag, m.ID)

		data.Rows = append(data.Rows, template.ReportRow{
			ID:     m.ID,
			Source: m.Source,
			Text:   res.Text,
			Origin: res.Origin,
			Type:   m.Type,
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	return template.CatalogReport(data).Render(r.Context(), w)
}
