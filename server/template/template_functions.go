// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package template

import (
	"strconv"

	"github.com/dustin/go-humanize"
)

// Percent formats part/total as a whole percentage. An empty total counts
// as complete.
func Percent(part, total int) string {
	if total <= 0 {
		return "100%"
	}

	return strconv.Itoa(part*100/total) + "%"
}

// Count formats n with thousands separators.
func Count(n int) string {
	return humanize.Comma(int64(n))
}
