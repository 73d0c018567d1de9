// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package idgen makes short identifiers for requests and instances.
package idgen

import (
	"crypto/rand"
	"encoding/base64"
	"time"
)

// New makes a short ID from the wall-clock time (HHMMSS) and 3 bytes of
// entropy, 10 characters in total.
func New() string {
	return at(time.Now())
}

func at(t time.Time) string {
	entropy := [3]byte{'a', 'a', 'a'}

	_, _ = rand.Read(entropy[:])

	return t.Format("150405") + base64.RawURLEncoding.EncodeToString(entropy[:])
}
