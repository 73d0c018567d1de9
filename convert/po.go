// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package convert

import (
	"fmt"
	"strconv"

	"github.com/leonelquinteros/gotext"

	"codeberg.org/addle/l10n/ts"
)

// ToPo renders c as a gettext .po file. Each message becomes an entry with
// the message id as msgid and its finished translation, or "" when there is
// none, as msgstr. Named contexts become msgctxt.
func ToPo(c *ts.Catalog) ([]byte, error) {
	po := gotext.NewPo()
	dom := po.GetDomain()

	for _, ctx := range c.Contexts {
		for _, m := range ctx.Messages {
			if m.ID == "" {
				continue
			}

			text, _ := m.Resolved()

			if ctx.Name != "" {
				dom.SetC(m.ID, ctx.Name, text)

				continue
			}

			dom.Set(m.ID, text)

			if refs := references(m); len(refs) > 0 {
				dom.SetRefs(m.ID, refs)
			}
		}
	}

	data, err := dom.MarshalText()
	if err != nil {
		return nil, fmt.Errorf("failed to render .po for %q: %w", c.Language, err)
	}

	return data, nil
}

// ApplyPo copies the translated entries of a .po file into the matching
// messages of c and marks them finished. Entries with an empty msgstr and
// ids that c does not contain are ignored. It returns the number of
// messages whose translation or type changed.
func ApplyPo(c *ts.Catalog, data []byte) int {
	po := gotext.NewPo()
	po.Parse(data)

	dom := po.GetDomain()
	plain := dom.GetTranslations()
	named := dom.GetCtxTranslations()

	applied := 0

	for _, ctx := range c.Contexts {
		entries := plain
		if ctx.Name != "" {
			entries = named[ctx.Name]
		}

		for _, m := range ctx.Messages {
			if m.ID == "" {
				continue
			}

			text, ok := translated(entries, m.ID)
			if !ok {
				continue
			}

			if text == m.Translation && m.Type.Finished() {
				continue
			}

			m.Translation = text
			m.Type = ts.TypeFinished
			applied++
		}
	}

	return applied
}

// translated returns the singular msgstr for id, read verbatim so that
// printf-like sequences such as %1 or %% are kept as written.
func translated(entries map[string]*gotext.Translation, id string) (string, bool) {
	tr, ok := entries[id]
	if !ok || !tr.IsTranslated() {
		return "", false
	}

	return tr.Trs[0], true
}

func references(m *ts.Message) []string {
	refs := make([]string, 0, len(m.Locations))
	for _, l := range m.Locations {
		refs = append(refs, l.Filename+":"+strconv.Itoa(l.Line))
	}

	return refs
}
