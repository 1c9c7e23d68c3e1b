// Copyright (c) 2025 Niema Moshiri and The Zaparoo Project.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of ottdsave.
//
// ottdsave is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// ottdsave is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with ottdsave.  If not, see <https://www.gnu.org/licenses/>.

// Package cache provides a bounded, content-addressed cache of decoded
// savegames, so repeatedly loading the same on-disk autosave (a common
// pattern when polling a running server's save directory) doesn't pay
// the decode cost more than once per distinct content digest.
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// Digest is a content digest (e.g. a SHA-256 sum) used as a cache key.
type Digest [32]byte

// Cache is a fixed-capacity, least-recently-used cache from a content
// digest to an already-decoded value V.
type Cache[V any] struct {
	inner *lru.Cache[Digest, V]
}

// New returns a Cache holding at most size entries. A size of zero or
// less is rejected by the underlying LRU implementation, so callers must
// pick a positive capacity.
func New[V any](size int) (*Cache[V], error) {
	inner, err := lru.New[Digest, V](size)
	if err != nil {
		return nil, err
	}
	return &Cache[V]{inner: inner}, nil
}

// Get returns the cached value for digest, if present.
func (c *Cache[V]) Get(digest Digest) (V, bool) {
	return c.inner.Get(digest)
}

// Add inserts or updates the cached value for digest, evicting the
// least-recently-used entry if the cache is at capacity.
func (c *Cache[V]) Add(digest Digest, value V) {
	c.inner.Add(digest, value)
}

// Len returns the number of entries currently cached.
func (c *Cache[V]) Len() int {
	return c.inner.Len()
}
