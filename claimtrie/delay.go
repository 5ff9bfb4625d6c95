// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package claimtrie

import (
	"github.com/bitmark-inc/nametrie/claim"
	"github.com/bitmark-inc/nametrie/trie"
)

// maxDelay caps the proportional delay at 4032 blocks (one week at the
// 150-second LBRY block target), per spec.md §4.7 step 5.
const maxDelay = 4032

// getDelayForName implements spec.md §4.7's delay rule, run against
// the yet-to-be-applied nextHeight.
func (c *Cache) getDelayForName(name []byte, claimID claim.ID) (int32, error) {
	current, hasCurrent := c.store.LatestTakeover(name)

	if hasCurrent && current.ClaimID != nil && *current.ClaimID == claimID {
		return 0, nil
	}

	if c.nextHeight >= c.cfg.MaxRemovalWorkaroundHeight {
		if !hasCurrent || current.ClaimID == nil {
			return 0, nil
		}
		empty, err := c.emptyNodeShouldExistAt(name, 2)
		if err != nil {
			return 0, err
		}
		if empty {
			return 0, nil
		}
	} else if _, ok := c.removalWorkaround[string(name)]; ok {
		delete(c.removalWorkaround, string(name))
		return 0, nil
	}

	if !hasCurrent || current.ClaimID == nil {
		return 0, nil
	}

	delay := (c.nextHeight - current.Height) / c.cfg.ProportionalDelayFactor
	if delay < 0 {
		delay = 0
	}
	if delay > maxDelay {
		delay = maxDelay
	}
	return delay, nil
}

// emptyNodeShouldExistAt implements spec.md §4.7's
// emptyNodeShouldExistAt(name, k): true iff, among the claims
// currently active on descendants of name, there are at least k
// distinct next bytes and none is active on name itself.
func (c *Cache) emptyNodeShouldExistAt(name []byte, k int) (bool, error) {
	claims, err := c.store.ClaimsForNodePrefix(name)
	if err != nil {
		return false, err
	}

	distinct := make(map[byte]struct{})
	for _, cl := range claims {
		if !trie.ActiveAt(cl.ActivationHeight, cl.ExpirationHeight, c.nextHeight) {
			continue
		}
		if len(cl.NodeName) == len(name) {
			return false, nil
		}
		distinct[cl.NodeName[len(name)]] = struct{}{}
	}
	return len(distinct) >= k, nil
}
