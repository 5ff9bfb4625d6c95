// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package claimtrie

import (
	"math/rand"

	"github.com/bitmark-inc/nametrie/fault"
	"github.com/bitmark-inc/nametrie/trie"
	"github.com/bitmark-inc/nametrie/util"
)

// CheckConsistency implements spec.md §9's checkConsistency sampling
// heuristic: recompute up to sampleSize randomly chosen node hashes,
// plus every node that some existing node's parent pointer names, and
// compare each against its stored hash. A sampleSize of 0 or one
// exceeding the number of existing nodes checks every node.
func (c *Cache) CheckConsistency(sampleSize int) error {
	names, err := c.store.AllNodeNames()
	if err != nil {
		return err
	}

	toCheck := make(map[string][]byte, len(names))
	for _, n := range names {
		if parent, _, found := c.store.GetNode(n); found && (len(parent) > 0 || len(n) > 0) {
			toCheck[string(parent)] = parent
		}
	}

	if sampleSize <= 0 || sampleSize >= len(names) {
		for _, n := range names {
			toCheck[string(n)] = n
		}
	} else {
		for _, idx := range rand.Perm(len(names))[:sampleSize] {
			toCheck[string(names[idx])] = names[idx]
		}
	}

	for _, name := range toCheck {
		_, stored, found := c.store.GetNode(name)
		if !found || stored == nil {
			continue
		}
		recomputed, err := trie.RecomputeNodeHash(c.store, name, c.nextHeight)
		if err != nil {
			return err
		}
		if *stored != recomputed {
			c.log.Errorf("consistency check failed for name %q:\n%s\n%s", name,
				util.FormatBytes("stored", stored[:]),
				util.FormatBytes("recomputed", recomputed[:]))
			return fault.ErrNodeHashMismatch
		}
	}
	return nil
}
