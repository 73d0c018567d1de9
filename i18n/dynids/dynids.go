// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package dynids holds the registry of message ids that are composed at
runtime from segments, for example "units" + "pixels". Such ids cannot be
checked against call sites by extraction tooling, so the registry is the
list of ids the application is allowed to compose.
*/
package dynids

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/goccy/go-yaml"
)

var (
	mu    sync.RWMutex
	known = map[string]struct{}{}
)

// Join composes a dynamic id from its segments.
func Join(segments ...string) string {
	return strings.Join(segments, ".")
}

// Decode reads a YAML document mapping prefixes to lists of suffixes and
// returns the composed ids, sorted.
func Decode(r io.Reader) ([]string, error) {
	var groups map[string][]string
	if err := yaml.NewDecoder(r).Decode(&groups); err != nil {
		return nil, fmt.Errorf("failed to decode dynamic id registry: %w", err)
	}

	var ids []string

	for prefix, suffixes := range groups {
		for _, suffix := range suffixes {
			ids = append(ids, Join(prefix, suffix))
		}
	}

	sort.Strings(ids)

	return ids, nil
}

// Set replaces the registry contents.
func Set(ids []string) {
	next := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		next[id] = struct{}{}
	}

	mu.Lock()
	known = next
	mu.Unlock()
}

// Known reports whether id is registered. An empty registry knows every
// id, so applications that never load one are not flooded with warnings.
func Known(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	if len(known) == 0 {
		return true
	}

	_, ok := known[id]

	return ok
}

// Len returns the number of registered ids.
func Len() int {
	mu.RLock()
	defer mu.RUnlock()

	return len(known)
}
