// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package trie

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/bitmark-inc/nametrie/claim"
	"github.com/bitmark-inc/nametrie/store"
)

// DefaultReadCacheSize bounds the number of distinct node names
// tracked by a ReadCache when the caller does not size it explicitly.
const DefaultReadCacheSize = 4096

type cachedBest struct {
	height    int32
	candidate *claim.Candidate
}

// ReadCache bounds repeated getInfoForName/getClaimsForName lookups
// (spec.md §4.7) within a block, grounded on
// jam-duna-jamduna/storage/checkpoint_tree.go's use of
// hashicorp/golang-lru for a bounded node cache. A nil *ReadCache is
// valid and disables caching.
type ReadCache struct {
	entries *lru.Cache[string, cachedBest]
}

// NewReadCache builds a ReadCache holding up to size distinct node
// names.
func NewReadCache(size int) *ReadCache {
	if size <= 0 {
		size = DefaultReadCacheSize
	}
	c, _ := lru.New[string, cachedBest](size)
	return &ReadCache{entries: c}
}

// Invalidate drops any cached lookup for name. Callers must call this
// whenever a claim or support on name is mutated, since the cached
// candidate would otherwise keep answering with the pre-mutation
// winner for the remainder of the block.
func (rc *ReadCache) Invalidate(name []byte) {
	if rc == nil {
		return
	}
	rc.entries.Remove(string(name))
}

// Purge drops every cached entry.
func (rc *ReadCache) Purge() {
	if rc == nil {
		return
	}
	rc.entries.Purge()
}

// BestClaimForName returns the best claim on name at atHeight. If rc
// is non-nil it is consulted first and populated on a miss; an entry
// computed for a different atHeight than requested is treated as a
// miss rather than served stale, since the same node name is looked
// up at both nNextHeight and nNextHeight+1 within a single block.
func BestClaimForName(rc *ReadCache, s *store.Store, name []byte, atHeight int32) (*claim.Candidate, error) {
	key := string(name)
	if rc != nil {
		if cached, ok := rc.entries.Get(key); ok && cached.height == atHeight {
			return cached.candidate, nil
		}
	}
	candidate, err := bestClaimAt(s, name, atHeight)
	if err != nil {
		return nil, err
	}
	if rc != nil {
		rc.entries.Add(key, cachedBest{height: atHeight, candidate: candidate})
	}
	return candidate, nil
}
