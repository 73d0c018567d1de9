// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package lrucache provides a thread-safe, fixed-capacity least-recently-used (LRU)
cache of strings. When created with compression enabled via [New], values are
stored zstd-compressed whenever that saves space and are transparently
decompressed by [Cache.Get].
*/
package lrucache

import (
	"container/list"
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

var ErrInvalidSize = errors.New("must provide a positive size")

// Cache is a fixed-capacity, least-recently-used cache that is safe for concurrent use.
// Instances must be constructed with [New]; the zero value is not ready for use.
type Cache struct {
	size      int
	evictList *list.List
	items     map[string]*list.Element
	lock      sync.Mutex

	hits, misses uint64

	zstdEnc *zstd.Encoder // nil unless compression is enabled
	zstdDec *zstd.Decoder
}

type entry struct {
	key        string
	value      string // raw text, or zstd frame when compressed
	compressed bool
}

// Stats is a point-in-time view of cache usage.
type Stats struct {
	Len    int    `json:"len"`
	Size   int    `json:"size"`
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
}

// New creates a cache holding at most size entries.
//
// It returns [ErrInvalidSize] if size is not a positive integer.
func New(size int, compress bool) (*Cache, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	c := &Cache{
		size:      size,
		evictList: list.New(),
		items:     make(map[string]*list.Element),
	}

	if compress {
		// A nil writer/reader lets us use EncodeAll/DecodeAll without streams.
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, fmt.Errorf("lrucache: zstd encoder: %w", err)
		}

		dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
		if err != nil {
			return nil, fmt.Errorf("lrucache: zstd decoder: %w", err)
		}

		c.zstdEnc = enc
		c.zstdDec = dec
	}

	return c, nil
}

// Add adds or updates the value for key, making it the most recently used.
// Add reports whether an eviction occurred.
func (c *Cache) Add(key, value string) bool {
	// Compress before taking the lock; EncodeAll is safe for concurrent use.
	stored, compressed := c.pack(value)

	c.lock.Lock()
	defer c.lock.Unlock()

	if el, ok := c.items[key]; ok {
		c.evictList.MoveToFront(el)

		ent := el.Value.(*entry)
		ent.value = stored
		ent.compressed = compressed

		return false
	}

	c.items[key] = c.evictList.PushFront(&entry{key: key, value: stored, compressed: compressed})

	if c.evictList.Len() <= c.size {
		return false
	}

	if oldest := c.evictList.Back(); oldest != nil {
		c.evictList.Remove(oldest)
		delete(c.items, oldest.Value.(*entry).key)
	}

	return true
}

// Get returns the value for key and marks it as most recently used.
func (c *Cache) Get(key string) (string, bool) {
	c.lock.Lock()

	el, ok := c.items[key]
	if !ok {
		c.misses++
		c.lock.Unlock()

		return "", false
	}

	c.hits++
	c.evictList.MoveToFront(el)

	ent := *el.Value.(*entry)

	c.lock.Unlock()

	return c.unpack(ent)
}

// Remove deletes key and reports whether it was present.
func (c *Cache) Remove(key string) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	el, ok := c.items[key]
	if !ok {
		return false
	}

	c.evictList.Remove(el)
	delete(c.items, key)

	return true
}

// Purge drops every entry and resets the hit counters.
func (c *Cache) Purge() {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.evictList.Init()
	c.items = make(map[string]*list.Element)
	c.hits, c.misses = 0, 0
}

// Keys returns all keys from the oldest to the newest.
func (c *Cache) Keys() []string {
	c.lock.Lock()
	defer c.lock.Unlock()

	keys := make([]string, 0, len(c.items))
	for el := c.evictList.Back(); el != nil; el = el.Prev() {
		keys = append(keys, el.Value.(*entry).key)
	}

	return keys
}

// Len returns the current number of entries.
func (c *Cache) Len() int {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.evictList.Len()
}

// Stats returns usage counters.
func (c *Cache) Stats() Stats {
	c.lock.Lock()
	defer c.lock.Unlock()

	return Stats{Len: c.evictList.Len(), Size: c.size, Hits: c.hits, Misses: c.misses}
}

// pack compresses value when compression is enabled and it saves space.
func (c *Cache) pack(value string) (string, bool) {
	if c.zstdEnc == nil || value == "" {
		return value, false
	}

	packed := c.zstdEnc.EncodeAll([]byte(value), nil)
	if len(packed) >= len(value) {
		return value, false
	}

	return string(packed), true
}

// unpack reverses pack. A frame that fails to decode is reported as a miss.
func (c *Cache) unpack(ent entry) (string, bool) {
	if !ent.compressed {
		return ent.value, true
	}

	decoded, err := c.zstdDec.DecodeAll([]byte(ent.value), nil)
	if err != nil {
		return "", false
	}

	return string(decoded), true
}
