// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package lrucache

import (
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	for _, compress := range []bool{false, true} {
		c, err := New(3, compress)
		require.NoError(t, err)
		assert.Equal(t, 0, c.Len())
	}

	c, err := New(0, false)
	require.ErrorIs(t, err, ErrInvalidSize)
	assert.Nil(t, c)
}

// TestAddGetEvict verifies retrieval and that the least recently used key is evicted.
func TestAddGetEvict(t *testing.T) {
	t.Parallel()

	c, err := New(2, false)
	require.NoError(t, err)

	assert.False(t, c.Add("en-US\x00units.pixels", "px"))
	assert.False(t, c.Add("de-DE\x00units.pixels", "px"))

	// Touch the first key so the second becomes the eviction candidate.
	v, ok := c.Get("en-US\x00units.pixels")
	require.True(t, ok)
	assert.Equal(t, "px", v)

	assert.True(t, c.Add("fr-FR\x00units.pixels", "px"))

	_, ok = c.Get("de-DE\x00units.pixels")
	assert.False(t, ok)
	assert.Equal(t, []string{"en-US\x00units.pixels", "fr-FR\x00units.pixels"}, c.Keys())
}

func TestUpdateExisting(t *testing.T) {
	t.Parallel()

	c, err := New(2, false)
	require.NoError(t, err)

	c.Add("a", "1")
	assert.False(t, c.Add("a", "2"))

	v, _ := c.Get("a")
	assert.Equal(t, "2", v)
	assert.Equal(t, 1, c.Len())
}

func TestCompressionRoundTrip(t *testing.T) {
	t.Parallel()

	c, err := New(4, true)
	require.NoError(t, err)

	long := strings.Repeat("A lock timeout occurred in a query on a RenderRoutine. ", 40)

	c.Add("long", long)
	c.Add("short", "px")
	c.Add("empty", "")

	for key, want := range map[string]string{"long": long, "short": "px", "empty": ""} {
		got, ok := c.Get(key)
		require.True(t, ok, key)
		assert.Equal(t, want, got, key)
	}

	// The long value is stored compressed.
	el := c.items["long"]
	assert.True(t, el.Value.(*entry).compressed)
	assert.Less(t, len(el.Value.(*entry).value), len(long))
}

func TestRemovePurgeStats(t *testing.T) {
	t.Parallel()

	c, err := New(4, false)
	require.NoError(t, err)

	c.Add("a", "1")
	c.Add("b", "2")

	_, _ = c.Get("a")
	_, _ = c.Get("missing")

	assert.Equal(t, Stats{Len: 2, Size: 4, Hits: 1, Misses: 1}, c.Stats())

	assert.True(t, c.Remove("a"))
	assert.False(t, c.Remove("a"))

	c.Purge()
	assert.Equal(t, Stats{Size: 4}, c.Stats())
	assert.Empty(t, c.Keys())
}

func TestConcurrentAccess(t *testing.T) {
	t.Parallel()

	c, err := New(16, true)
	require.NoError(t, err)

	var wg sync.WaitGroup

	for g := range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for i := range 200 {
				key := strconv.Itoa((g*31 + i) % 40)
				c.Add(key, strings.Repeat(key, 50))

				if v, ok := c.Get(key); ok {
					assert.Equal(t, strings.Repeat(key, 50), v)
				}
			}
		}()
	}

	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 16)
}
