// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package trie

import (
	"github.com/bitmark-inc/nametrie/claim"
	"github.com/bitmark-inc/nametrie/store"
	"github.com/bitmark-inc/nametrie/takeover"
)

// ProcessTakeovers implements spec.md §4.4: for every currently dirty
// node, decide whether a takeover happened this block and, if so,
// early-activate every pending contender and record a takeover row.
//
// Grounded on original_source/src/claimtrie/trie.cpp's
// insertTakeovers/activateAllFor.
func ProcessTakeovers(s *store.Store, nextHeight int32) error {
	names, err := s.DirtyNodeNames()
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := processTakeoverForNode(s, name, nextHeight); err != nil {
			return err
		}
	}
	return nil
}

func processTakeoverForNode(s *store.Store, name []byte, nextHeight int32) error {
	// one block of lookahead: a claim activating exactly this block
	// must be considered when deciding whether the winner is changing.
	candidate, err := bestClaimAt(s, name, nextHeight+1)
	if err != nil {
		return err
	}

	current, hasRow := s.LatestTakeover(name)
	hasCurrent := hasRow && current.ClaimID != nil

	takeoverHappening := candidate == nil || !hasCurrent
	if !takeoverHappening {
		takeoverHappening = *current.ClaimID != candidate.Claim.ClaimID
	}

	if takeoverHappening {
		activated, err := activateAllFor(s, name, nextHeight)
		if err != nil {
			return err
		}
		if activated {
			candidate, err = bestClaimAt(s, name, nextHeight+1)
			if err != nil {
				return err
			}
		}
	}

	// historical workaround, applied unconditionally per
	// spec.md §4.4: it can only ever turn a non-takeover into one.
	takeoverHappening = takeoverHappening || takeover.IsWorkaround(nextHeight, name)

	if !takeoverHappening {
		return nil
	}

	var id *claim.ID
	if candidate != nil {
		id = &candidate.Claim.ClaimID
	}
	s.PutTakeover(&takeover.Takeover{
		Name:    append([]byte(nil), name...),
		Height:  nextHeight,
		ClaimID: id,
	})
	return nil
}

// activateAllFor advances every claim and support on name whose
// activation is still pending down to nextHeight — spec.md §4.4 step
// 4's early activation: once the winner changes, every contender
// immediately becomes active to contest the position. It reports
// whether anything was actually advanced.
func activateAllFor(s *store.Store, name []byte, nextHeight int32) (bool, error) {
	changed := false

	claims, err := s.ClaimsForNode(name)
	if err != nil {
		return false, err
	}
	for _, c := range claims {
		if c.ActivationHeight > nextHeight && c.ExpirationHeight > nextHeight {
			c.ActivationHeight = nextHeight
			s.PutClaim(c)
			changed = true
		}
	}

	supports, err := s.SupportsForNode(name)
	if err != nil {
		return false, err
	}
	for _, sup := range supports {
		if sup.ActivationHeight > nextHeight && sup.ExpirationHeight > nextHeight {
			sup.ActivationHeight = nextHeight
			s.PutSupport(sup)
			changed = true
		}
	}

	return changed, nil
}
