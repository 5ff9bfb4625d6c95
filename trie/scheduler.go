// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package trie

import "github.com/bitmark-inc/nametrie/store"

// MarkActivationsAndExpirations implements the dirty-marking half of
// spec.md §4.5's incrementBlock, run against the height about to be
// applied (before it is bumped): every node that gains a newly active
// claim this block is inserted (if missing) and dirtied; every node
// touched by a claim or support expiring, or a support activating,
// this block is dirtied without being created.
func MarkActivationsAndExpirations(s *store.Store, nextHeight int32) error {
	activating, err := s.ClaimsActivatingAt(nextHeight)
	if err != nil {
		return err
	}
	for _, c := range activating {
		if c.ExpirationHeight > nextHeight {
			insertOrDirty(s, c.NodeName)
		}
	}

	touched := make(map[string]bool)
	expiringClaims, err := s.ClaimsExpiringAt(nextHeight)
	if err != nil {
		return err
	}
	for _, c := range expiringClaims {
		touched[string(c.NodeName)] = true
	}
	expiringSupports, err := s.SupportsExpiringAt(nextHeight)
	if err != nil {
		return err
	}
	for _, sup := range expiringSupports {
		touched[string(sup.NodeName)] = true
	}
	activatingSupports, err := s.SupportsActivatingAt(nextHeight)
	if err != nil {
		return err
	}
	for _, sup := range activatingSupports {
		touched[string(sup.NodeName)] = true
	}
	for name := range touched {
		dirtyNode(s, []byte(name))
	}
	return nil
}

// MarkForDecrement implements spec.md §4.5's decrementBlock steps 2-4,
// run against nextHeight after the caller has already decremented it:
// unexpiring claims are (re)dirtied and inserted if missing, nodes
// touched by this block's activations/expirations are dirtied, and
// every early activation performed at nextHeight is rolled back to
// its natural validHeight.
func MarkForDecrement(s *store.Store, nextHeight int32) error {
	unexpiring, err := s.ClaimsExpiringAt(nextHeight)
	if err != nil {
		return err
	}
	for _, c := range unexpiring {
		insertOrDirty(s, c.NodeName)
	}

	claimsActivating, err := s.ClaimsActivatingAt(nextHeight)
	if err != nil {
		return err
	}
	supportsExpiring, err := s.SupportsExpiringAt(nextHeight)
	if err != nil {
		return err
	}
	supportsActivating, err := s.SupportsActivatingAt(nextHeight)
	if err != nil {
		return err
	}

	touched := make(map[string]bool)
	for _, c := range claimsActivating {
		touched[string(c.NodeName)] = true
	}
	for _, sup := range supportsExpiring {
		touched[string(sup.NodeName)] = true
	}
	for _, sup := range supportsActivating {
		touched[string(sup.NodeName)] = true
	}
	for name := range touched {
		dirtyNode(s, []byte(name))
	}

	for _, c := range claimsActivating {
		c.ActivationHeight = c.ValidHeight
		s.PutClaim(c)
	}
	for _, sup := range supportsActivating {
		sup.ActivationHeight = sup.ValidHeight
		s.PutSupport(sup)
	}
	return nil
}

// FinalizeDecrement implements spec.md §4.5's finalizeDecrement,
// called once at the end of a rewind sequence: it dirties every node
// touched by a claim/support activation still pending at nextHeight
// or by a takeover recorded at nextHeight, then deletes every
// takeover row at or past nextHeight across the whole trie.
func FinalizeDecrement(s *store.Store, nextHeight int32) error {
	claimsActivating, err := s.ClaimsActivatingAt(nextHeight)
	if err != nil {
		return err
	}
	supportsActivating, err := s.SupportsActivatingAt(nextHeight)
	if err != nil {
		return err
	}
	allTakeovers, err := s.AllTakeovers()
	if err != nil {
		return err
	}

	touched := make(map[string]bool)
	for _, c := range claimsActivating {
		if c.ExpirationHeight > nextHeight {
			touched[string(c.NodeName)] = true
		}
	}
	for _, sup := range supportsActivating {
		if sup.ExpirationHeight > nextHeight {
			touched[string(sup.NodeName)] = true
		}
	}
	for _, t := range allTakeovers {
		if t.Height == nextHeight {
			touched[string(t.Name)] = true
		}
	}
	for name := range touched {
		dirtyNode(s, []byte(name))
	}

	return s.DeleteTakeoversAtOrAbove(nextHeight)
}

// InsertOrDirtyNode is insertOrDirty exported for callers outside this
// package (claimtrie.Cache's addClaim/addSupport) that need the same
// "insert if missing, else just dirty" upsert when a claim or support
// enters its active window immediately on arrival.
func InsertOrDirtyNode(s *store.Store, name []byte) {
	insertOrDirty(s, name)
}

// insertOrDirty upserts a node row for name if none exists (parent is
// left unset; EnsureTreeStructureIsUpToDate recomputes it from the
// node's claims on its next pass), or simply dirties the existing row.
func insertOrDirty(s *store.Store, name []byte) {
	parent, _, found := s.GetNode(name)
	if !found {
		s.PutNode(name, []byte{}, nil)
		return
	}
	s.PutNode(name, parent, nil)
}
