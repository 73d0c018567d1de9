// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package ts

import (
	"cmp"
	"fmt"
	"regexp"
	"slices"
)

// Severity ranks an [Issue].
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// MarshalText lets issues serialise with readable severities.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// IssueKind names a data-quality condition.
type IssueKind string

const (
	KindDuplicateID         IssueKind = "duplicate-id"
	KindEmptyID             IssueKind = "empty-id"
	KindUnfinished          IssueKind = "unfinished"
	KindMissingLocation     IssueKind = "missing-location"
	KindPlaceholderMismatch IssueKind = "placeholder-mismatch"
)

// Issue is one finding reported by [Validate].
type Issue struct {
	Severity Severity  `json:"severity"`
	Kind     IssueKind `json:"kind"`
	ID       string    `json:"id"`
	Detail   string    `json:"detail,omitempty"`
}

func (i Issue) String() string {
	if i.Detail == "" {
		return fmt.Sprintf("%s: %s: %s", i.Severity, i.Kind, i.ID)
	}

	return fmt.Sprintf("%s: %s: %s: %s", i.Severity, i.Kind, i.ID, i.Detail)
}

// placeholderRegexp matches QString::arg markers such as %1 or %L2.
var placeholderRegexp = regexp.MustCompile(`%L?([1-9][0-9]?)`)

// Validate reports data-quality issues in c.
//
// Duplicate and empty ids are errors. Unfinished translations and missing
// locations are informational: both are normal for a catalogue that is
// still being translated. A finished translation that drops a %N marker
// present in its source is a warning.
//
// Issues are sorted by id, then kind.
func Validate(c *Catalog) []Issue {
	var issues []Issue

	seen := make(map[string]int)

	for _, m := range c.Messages() {
		if m.ID == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Kind:     KindEmptyID,
				Detail:   firstLocation(m),
			})

			continue
		}

		seen[m.ID]++
		if seen[m.ID] == 2 {
			issues = append(issues, Issue{Severity: SeverityError, Kind: KindDuplicateID, ID: m.ID})
		}

		if _, ok := m.Resolved(); !ok && m.Type != TypeVanished && m.Type != TypeObsolete {
			issues = append(issues, Issue{Severity: SeverityInfo, Kind: KindUnfinished, ID: m.ID})
		}

		if len(m.Locations) == 0 && m.Type != TypeVanished && m.Type != TypeObsolete {
			issues = append(issues, Issue{Severity: SeverityInfo, Kind: KindMissingLocation, ID: m.ID})
		}

		if missing := missingPlaceholders(m); len(missing) > 0 {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Kind:     KindPlaceholderMismatch,
				ID:       m.ID,
				Detail:   fmt.Sprintf("translation drops %v", missing),
			})
		}
	}

	slices.SortStableFunc(issues, func(a, b Issue) int {
		return cmp.Or(cmp.Compare(a.ID, b.ID), cmp.Compare(a.Kind, b.Kind))
	})

	return issues
}

// HasErrors reports whether any issue has error severity.
func HasErrors(issues []Issue) bool {
	return slices.ContainsFunc(issues, func(i Issue) bool { return i.Severity >= SeverityError })
}

// Dedupe folds repeated ids into their first occurrence. Locations of
// later duplicates are appended to the survivor. It returns the number
// of messages removed.
func Dedupe(c *Catalog) int {
	first := make(map[string]*Message)
	removed := 0

	c.filter(func(m *Message) bool {
		if m.ID == "" {
			return true
		}

		keep, ok := first[m.ID]
		if !ok {
			first[m.ID] = m

			return true
		}

		for _, loc := range m.Locations {
			if !slices.Contains(keep.Locations, loc) {
				keep.Locations = append(keep.Locations, loc)
			}
		}

		removed++

		return false
	})

	return removed
}

func missingPlaceholders(m *Message) []string {
	text, ok := m.Resolved()
	if !ok || m.Source == "" {
		return nil
	}

	have := make(map[string]bool)
	for _, match := range placeholderRegexp.FindAllStringSubmatch(text, -1) {
		have[match[1]] = true
	}

	var missing []string

	for _, match := range placeholderRegexp.FindAllStringSubmatch(m.Source, -1) {
		n := match[1]
		if !have[n] && !slices.Contains(missing, "%"+n) {
			missing = append(missing, "%"+n)
		}
	}

	return missing
}

func firstLocation(m *Message) string {
	if len(m.Locations) == 0 {
		return ""
	}

	return fmt.Sprintf("%s:%d", m.Locations[0].Filename, m.Locations[0].Line)
}
