// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package claimtrie

import (
	"github.com/btcsuite/btcd/wire"

	"github.com/bitmark-inc/nametrie/claim"
	"github.com/bitmark-inc/nametrie/support"
	"github.com/bitmark-inc/nametrie/trie"
)

// GetClaimsForName returns every claim currently filed on name,
// regardless of active window.
func (c *Cache) GetClaimsForName(name []byte) ([]*claim.Claim, error) {
	return c.store.ClaimsForNode(name)
}

// GetInfoForName returns the claim currently controlling name, or nil
// if none does.
func (c *Cache) GetInfoForName(name []byte) (*claim.Candidate, error) {
	return trie.BestClaimForName(c.read, c.store, name, c.nextHeight)
}

// GetSupportsForName returns every support currently filed on name.
func (c *Cache) GetSupportsForName(name []byte) ([]*support.Support, error) {
	return c.store.SupportsForNode(name)
}

// FindNameForClaim returns the node name a claim is filed against.
func (c *Cache) FindNameForClaim(claimID claim.ID) ([]byte, bool) {
	cl := c.store.GetClaim(claimID)
	if cl == nil {
		return nil, false
	}
	return append([]byte(nil), cl.NodeName...), true
}

// GetNamesInTrie returns every existing node name in the trie
// (excluding the root's empty name).
func (c *Cache) GetNamesInTrie() ([][]byte, error) {
	all, err := c.store.AllNodeNames()
	if err != nil {
		return nil, err
	}
	names := make([][]byte, 0, len(all))
	for _, n := range all {
		if len(n) > 0 {
			names = append(names, n)
		}
	}
	return names, nil
}

// GetActivatedClaims returns every claim newly active at height h.
func (c *Cache) GetActivatedClaims(h int32) ([]*claim.Claim, error) {
	return c.store.ClaimsActivatingAt(h)
}

// GetClaimsWithActivatedSupports returns every claim targeted by a
// support that newly activates at height h.
func (c *Cache) GetClaimsWithActivatedSupports(h int32) ([]*claim.Claim, error) {
	return c.claimsTargetedBySupports(func() ([]*support.Support, error) {
		return c.store.SupportsActivatingAt(h)
	})
}

// GetExpiredClaims returns every claim expiring at height h.
func (c *Cache) GetExpiredClaims(h int32) ([]*claim.Claim, error) {
	return c.store.ClaimsExpiringAt(h)
}

// GetClaimsWithExpiredSupports returns every claim targeted by a
// support expiring at height h.
func (c *Cache) GetClaimsWithExpiredSupports(h int32) ([]*claim.Claim, error) {
	return c.claimsTargetedBySupports(func() ([]*support.Support, error) {
		return c.store.SupportsExpiringAt(h)
	})
}

func (c *Cache) claimsTargetedBySupports(list func() ([]*support.Support, error)) ([]*claim.Claim, error) {
	supports, err := list()
	if err != nil {
		return nil, err
	}
	seen := make(map[claim.ID]bool, len(supports))
	var out []*claim.Claim
	for _, sup := range supports {
		if seen[sup.SupportedClaimID] {
			continue
		}
		seen[sup.SupportedClaimID] = true
		if cl := c.store.GetClaim(sup.SupportedClaimID); cl != nil {
			out = append(out, cl)
		}
	}
	return out, nil
}

// HaveClaim reports whether claimID currently has a row, active or not.
func (c *Cache) HaveClaim(claimID claim.ID) bool {
	return c.store.GetClaim(claimID) != nil
}

// HaveSupport reports whether outPoint currently has a support row.
func (c *Cache) HaveSupport(outPoint wire.OutPoint) bool {
	return c.store.GetSupport(outPoint) != nil
}

// HaveClaimInQueue reports whether claimID exists and is still
// pending its own activation as of nNextHeight.
func (c *Cache) HaveClaimInQueue(claimID claim.ID) bool {
	cl := c.store.GetClaim(claimID)
	return cl != nil && cl.ActivationHeight >= c.nextHeight
}

// HaveSupportInQueue reports whether the support at outPoint exists
// and is still pending its own activation as of nNextHeight.
func (c *Cache) HaveSupportInQueue(outPoint wire.OutPoint) bool {
	sup := c.store.GetSupport(outPoint)
	return sup != nil && sup.ActivationHeight >= c.nextHeight
}

// GetTotalNamesInTrie implements spec.md §4.7's getTotalNamesInTrie.
func (c *Cache) GetTotalNamesInTrie() uint64 {
	return c.store.TotalNames()
}

// GetTotalClaimsInTrie implements spec.md §4.7's getTotalClaimsInTrie.
func (c *Cache) GetTotalClaimsInTrie() uint64 {
	return c.store.TotalClaims()
}

// GetTotalValueOfClaimsInTrie implements spec.md §4.7's
// getTotalValueOfClaimsInTrie(fControllingOnly): the sum of each
// node's controlling claim's own amount, or the sum of every currently
// active claim's amount across the whole trie.
func (c *Cache) GetTotalValueOfClaimsInTrie(controllingOnly bool) (int64, error) {
	if controllingOnly {
		names, err := c.store.AllNodeNames()
		if err != nil {
			return 0, err
		}
		var total int64
		for _, name := range names {
			if len(name) == 0 {
				continue
			}
			candidate, err := trie.BestClaimForName(c.read, c.store, name, c.nextHeight)
			if err != nil {
				return 0, err
			}
			if candidate != nil {
				total += candidate.Claim.Amount
			}
		}
		return total, nil
	}

	all, err := c.store.AllClaims()
	if err != nil {
		return 0, err
	}
	var total int64
	for _, cl := range all {
		if trie.ActiveAt(cl.ActivationHeight, cl.ExpirationHeight, c.nextHeight) {
			total += cl.Amount
		}
	}
	return total, nil
}
