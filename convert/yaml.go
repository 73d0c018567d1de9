// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package convert

import (
	"fmt"
	"slices"

	"github.com/goccy/go-yaml"
	"golang.org/x/text/language"

	"codeberg.org/addle/l10n/i18n"
)

// ToYAML renders every id known to b, from the fallback catalogue and the
// catalogue matching tag, as a flat YAML map of id to resolved text in that
// locale. Keys are sorted.
func ToYAML(b *i18n.Bundle, tag language.Tag) ([]byte, error) {
	ids := make(map[string]struct{})

	if fb := b.Fallback(); fb != nil {
		for _, m := range fb.Messages() {
			ids[m.ID] = struct{}{}
		}
	}

	if c, ok := b.Catalog(tag); ok {
		for _, m := range c.Messages() {
			ids[m.ID] = struct{}{}
		}
	}

	delete(ids, "")

	keys := make([]string, 0, len(ids))
	for id := range ids {
		keys = append(keys, id)
	}

	slices.Sort(keys)

	out := make(yaml.MapSlice, 0, len(keys))
	for _, id := range keys {
		out = append(out, yaml.MapItem{Key: id, Value: b.Resolve(tag, id).Text})
	}

	data, err := yaml.MarshalWithOptions(out, yaml.UseLiteralStyleIfMultiline(true))
	if err != nil {
		return nil, fmt.Errorf("failed to render YAML for %s: %w", tag, err)
	}

	return data, nil
}
