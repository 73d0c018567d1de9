// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// BaseLocale is the default locale used when no specific locale is set.
const BaseLocale = "en-US"

// ParseLocale converts a Qt locale name such as "pt_BR" or a BCP 47 tag
// such as "pt-BR" into a language tag.
func ParseLocale(name string) (language.Tag, error) {
	t, err := language.Parse(strings.ReplaceAll(strings.TrimSpace(name), "_", "-"))
	if err != nil {
		return language.Und, fmt.Errorf("invalid locale %q: %w", name, err)
	}

	return t, nil
}

// strippedTagString removes variants to form a stable key using base, script and region only.
func strippedTagString(tag language.Tag) string {
	b, s, r := tag.Raw()
	stripped, _ := language.Compose(b, s, r)

	return stripped.String()
}
