// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package trie

import (
	"bytes"
	"sort"

	"github.com/btcsuite/btcd/wire"

	"github.com/bitmark-inc/nametrie/claim"
	"github.com/bitmark-inc/nametrie/fault"
	"github.com/bitmark-inc/nametrie/merkle"
	"github.com/bitmark-inc/nametrie/node"
	"github.com/bitmark-inc/nametrie/store"
)

// MerkleHash implements spec.md §4.6's getMerkleHash: run the
// structure maintainer, then, if the root's hash is still unset,
// recompute every dirty node bottom-up (deepest name first) until the
// root is populated.
func MerkleHash(s *store.Store, nextHeight int32) (merkle.Hash256, error) {
	if err := EnsureTreeStructureIsUpToDate(s, nextHeight); err != nil {
		return merkle.Hash256{}, err
	}

	if _, hash, found := s.GetNode([]byte{}); found && hash != nil {
		return *hash, nil
	}

	dirty, err := s.DirtyNodeNames()
	if err != nil {
		return merkle.Hash256{}, err
	}
	sort.Slice(dirty, func(i, j int) bool { return len(dirty[i]) > len(dirty[j]) })

	for _, name := range dirty {
		h, err := computeNodeHash(s, name, nextHeight)
		if err != nil {
			return merkle.Hash256{}, err
		}
		parent, _, _ := s.GetNode(name)
		s.PutNode(name, parent, &h)
	}

	_, hash, found := s.GetNode([]byte{})
	if !found || hash == nil {
		return merkle.Hash256{}, fault.ErrRootNodeMissing
	}
	return *hash, nil
}

// RecomputeNodeHash is computeNodeHash exported for
// claimtrie.Cache.CheckConsistency, which recomputes individual node
// hashes against their stored value without running a full structure
// maintainer + dirty-sweep pass.
func RecomputeNodeHash(s *store.Store, name []byte, nextHeight int32) (merkle.Hash256, error) {
	return computeNodeHash(s, name, nextHeight)
}

// computeNodeHash implements spec.md §4.1's node hash construction:
// fold in every direct child's hash lifted through its path-compressed
// edge label, then, if the node currently controls a best claim and
// has a recorded takeover height, its value hash.
func computeNodeHash(s *store.Store, name []byte, nextHeight int32) (merkle.Hash256, error) {
	children, err := s.ChildrenOf(name)
	if err != nil {
		return merkle.Hash256{}, err
	}

	edges := make([]node.ChildEdge, 0, len(children))
	pos := len(name)
	for _, child := range children {
		_, hash, found := s.GetNode(child)
		if !found || hash == nil {
			// deepest-first processing should guarantee every child
			// is already resolved by the time its parent is visited.
			return merkle.Hash256{}, fault.ErrNodeHashMismatch
		}
		edges = append(edges, node.BuildChildEdge(child, *hash, pos))
	}

	takeoverHeight := latestTakeoverHeight(s, name)

	var valueHash *merkle.Hash256
	if takeoverHeight > 0 {
		candidate, err := bestClaimAt(s, name, nextHeight)
		if err != nil {
			return merkle.Hash256{}, err
		}
		if candidate != nil {
			vh := merkle.ValueHash(candidate.Claim.OutPoint, takeoverHeight)
			valueHash = &vh
		}
	}

	return node.ComputeHash(edges, valueHash), nil
}

// latestTakeoverHeight returns the height of name's latest takeover
// row if its claimID is non-null, else 0 — spec.md §4.6's "no
// value-hash contribution" case.
func latestTakeoverHeight(s *store.Store, name []byte) int32 {
	t, has := s.LatestTakeover(name)
	if !has || t.ClaimID == nil {
		return 0
	}
	return t.Height
}

// ProofChild is one entry in a ProofNode's child list: the byte
// following the node's own name, and the child's hash — blanked (the
// zero Hash256) when this child continues along the proven path,
// since the verifier reconstructs it from the next ProofNode.
type ProofChild struct {
	KeyByte byte
	Hash    merkle.Hash256
}

// ProofNode is one entry along the root-to-name path of a Merkle
// inclusion proof (spec.md §4.6).
type ProofNode struct {
	Children  []ProofChild
	HasValue  bool
	ValueHash merkle.Hash256
}

// Proof is the full inclusion proof returned by GetProofForName.
type Proof struct {
	Nodes          []ProofNode
	HasValue       bool
	OutPoint       wire.OutPoint
	TakeoverHeight int32
}

// GetProofForName implements spec.md §4.6's getProofForName: an
// ordered list of proof nodes covering the root-to-name path, with
// the terminal entry's HasValue set only if name's best claim equals
// finalClaimID.
func GetProofForName(s *store.Store, name []byte, finalClaimID claim.ID, nextHeight int32) (*Proof, error) {
	if _, err := MerkleHash(s, nextHeight); err != nil {
		return nil, err
	}

	proof := &Proof{}
	for i := 0; i <= len(name); i++ {
		prefix := name[:i]
		if !s.HasNode(prefix) {
			continue
		}
		terminal := bytes.Equal(prefix, name)
		pn, candidate, err := buildProofNode(s, prefix, name, nextHeight)
		if err != nil {
			return nil, err
		}
		if terminal {
			// spec.md §4.6: the terminal entry's hasValue is true only
			// if this node's best claim equals finalClaimID, not merely
			// that it has one — buildProofNode's own HasValue reflects
			// only "this node has a best claim" and must be overridden
			// here for the terminal node.
			pn.HasValue = candidate != nil && candidate.Claim.ClaimID == finalClaimID
			if pn.HasValue {
				pn.ValueHash = merkle.ValueHash(candidate.Claim.OutPoint, latestTakeoverHeight(s, name))
				proof.HasValue = true
				proof.OutPoint = candidate.Claim.OutPoint
				proof.TakeoverHeight = latestTakeoverHeight(s, name)
			} else {
				pn.ValueHash = merkle.Hash256{}
			}
		}
		proof.Nodes = append(proof.Nodes, pn)
	}
	return proof, nil
}

// buildProofNode assembles one ProofNode for the existing node key,
// blanking the hash of whichever child continues toward target, and
// returns the node's own best claim (if any) alongside it so callers
// needing finalClaimID-scoped behavior for the terminal node don't
// have to look it up a second time.
func buildProofNode(s *store.Store, key, target []byte, nextHeight int32) (ProofNode, *claim.Candidate, error) {
	children, err := s.ChildrenOf(key)
	if err != nil {
		return ProofNode{}, nil, err
	}

	pos := len(key)
	pn := ProofNode{}
	for _, child := range children {
		if bytes.HasPrefix(target, child) {
			pn.Children = append(pn.Children, ProofChild{KeyByte: child[pos]})
			continue
		}
		_, hash, found := s.GetNode(child)
		if !found || hash == nil {
			return ProofNode{}, nil, fault.ErrNodeHashMismatch
		}
		pn.Children = append(pn.Children, ProofChild{
			KeyByte: child[pos],
			Hash:    merkle.CompleteHash(*hash, child, pos),
		})
	}

	candidate, err := bestClaimAt(s, key, nextHeight)
	if err != nil {
		return ProofNode{}, nil, err
	}
	if candidate != nil {
		if th := latestTakeoverHeight(s, key); th > 0 {
			pn.HasValue = true
			pn.ValueHash = merkle.ValueHash(candidate.Claim.OutPoint, th)
		}
	}
	return pn, candidate, nil
}
