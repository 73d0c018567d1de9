// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"fmt"
	"slices"
	"strings"
)

type marker struct {
	start, end int
	num        int
}

// Arg substitutes args into the %N markers of s following QString::arg:
// the first argument replaces every occurrence of the lowest-numbered marker,
// the second the next lowest, and so on. %LN markers count as %N. Markers
// without a matching argument are left as they are; surplus arguments are
// ignored.
func Arg(s string, args ...any) string {
	if len(args) == 0 {
		return s
	}

	markers := scanMarkers(s)
	if len(markers) == 0 {
		return s
	}

	var nums []int

	for _, m := range markers {
		if !slices.Contains(nums, m.num) {
			nums = append(nums, m.num)
		}
	}

	slices.Sort(nums)

	values := make(map[int]string, len(args))
	for i, n := range nums {
		if i >= len(args) {
			break
		}

		values[n] = fmt.Sprint(args[i])
	}

	var sb strings.Builder

	sb.Grow(len(s))

	last := 0

	for _, m := range markers {
		v, ok := values[m.num]
		if !ok {
			continue
		}

		sb.WriteString(s[last:m.start])
		sb.WriteString(v)
		last = m.end
	}

	sb.WriteString(s[last:])

	return sb.String()
}

// Markers returns the distinct marker numbers used in s, ascending.
func Markers(s string) []int {
	var nums []int

	for _, m := range scanMarkers(s) {
		if !slices.Contains(nums, m.num) {
			nums = append(nums, m.num)
		}
	}

	slices.Sort(nums)

	return nums
}

func scanMarkers(s string) []marker {
	var out []marker

	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			continue
		}

		j := i + 1
		if j < len(s) && s[j] == 'L' {
			j++
		}

		if j >= len(s) || s[j] < '1' || s[j] > '9' {
			continue
		}

		num := int(s[j] - '0')
		k := j + 1

		if k < len(s) && s[k] >= '0' && s[k] <= '9' {
			num = num*10 + int(s[k]-'0')
			k++
		}

		out = append(out, marker{start: i, end: k, num: num})
		i = k - 1
	}

	return out
}
