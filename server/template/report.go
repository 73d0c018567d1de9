// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package template

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"codeberg.org/addle/l10n/i18n"
	"codeberg.org/addle/l10n/ts"
)

// ReportRow is one message of a catalogue status report.
type ReportRow struct {
	ID     string
	Source string
	Text   string
	Origin i18n.Origin
	Type   ts.TranslationType
}

// ReportData feeds [CatalogReport].
type ReportData struct {
	Title      string
	Language   string
	Base       string
	Finished   int
	Unfinished int
	Issues     []ts.Issue
	Rows       []ReportRow
}

// Total is the number of reported messages.
func (d ReportData) Total() int {
	return d.Finished + d.Unfinished
}

// CatalogReport renders a standalone HTML page describing a catalogue's
// translation status.
func CatalogReport(data ReportData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}

		p.raw(`<!DOCTYPE html><html lang="`)
		p.text(data.Language)
		p.raw(`"><head><meta charset="utf-8"><title>`)
		p.text(data.Title)
		p.raw(`</title></head><body><main>`)

		p.raw(`<h1>`)
		p.text(data.Title)
		p.raw(`</h1>`)

		p.raw(`<dl class="summary">`)
		p.term("Language", "language", data.Language)
		p.term("Base locale", "base", data.Base)
		p.term("Messages", "total", Count(data.Total()))
		p.term("Finished", "finished", Count(data.Finished))
		p.term("Unfinished", "unfinished", Count(data.Unfinished))
		p.term("Completion", "completion", Percent(data.Finished, data.Total()))
		p.raw(`</dl>`)

		p.raw(`<section id="issues"><h2>Issues</h2>`)

		if len(data.Issues) == 0 {
			p.raw(`<p class="empty">No issues.</p>`)
		} else {
			p.raw(`<ul>`)

			for _, issue := range data.Issues {
				p.raw(`<li class="issue `)
				p.text(issue.Severity.String())
				p.raw(`" data-kind="`)
				p.text(string(issue.Kind))
				p.raw(`" data-id="`)
				p.text(issue.ID)
				p.raw(`">`)
				p.text(issue.String())
				p.raw(`</li>`)
			}

			p.raw(`</ul>`)
		}

		p.raw(`</section>`)

		p.raw(`<section id="messages"><h2>Messages</h2><table><thead><tr>`)
		p.raw(`<th>Id</th><th>Source</th><th>Text</th><th>Origin</th><th>Status</th>`)
		p.raw(`</tr></thead><tbody>`)

		for _, row := range data.Rows {
			p.raw(`<tr data-id="`)
			p.text(row.ID)
			p.raw(`" data-origin="`)
			p.text(string(row.Origin))
			p.raw(`"><td class="id"><code>`)
			p.text(row.ID)
			p.raw(`</code></td><td class="source">`)
			p.text(row.Source)
			p.raw(`</td><td class="text">`)
			p.text(row.Text)
			p.raw(`</td><td class="origin">`)
			p.text(string(row.Origin))
			p.raw(`</td><td class="status">`)
			p.text(status(row.Type))
			p.raw(`</td></tr>`)
		}

		p.raw(`</tbody></table></section></main></body></html>`)

		return p.err
	})
}

func status(t ts.TranslationType) string {
	if t == ts.TypeNone {
		return string(ts.TypeFinished)
	}

	return string(t)
}

// printer writes to w until the first error.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) raw(s string) {
	if p.err != nil {
		return
	}

	_, p.err = io.WriteString(p.w, s)
}

func (p *printer) text(s string) {
	p.raw(templ.EscapeString(s))
}

func (p *printer) term(label, class, value string) {
	p.raw(`<dt>` + label + `</dt><dd class="` + class + `">`)
	p.text(strings.TrimSpace(value))
	p.raw(`</dd>`)
}
