// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package trie

import (
	"bytes"
	"sort"

	"github.com/bitmark-inc/nametrie/store"
)

// EnsureTreeStructureIsUpToDate implements spec.md §4.3. It must run
// before any root-hash computation: it prunes nodes that have gone
// claimless and childless, reparents the rest onto the longest
// existing prefix, splits a node's sibling when two names now diverge
// partway along a previously shared edge, and finally dirties every
// ancestor of anything left dirty by the pass.
//
// Grounded on original_source/src/claimtrie/trie.cpp's
// ensureTreeStructureIsUpToDate/deleteNodeIfPossible, re-expressed as
// plain Go walks over store.Store since a LevelDB handle has no query
// planner to hand the original's WITH RECURSIVE / POPS() queries to.
func EnsureTreeStructureIsUpToDate(s *store.Store, nextHeight int32) error {
	names, err := s.DirtyNodeNames()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return nil
	}
	sort.Slice(names, func(i, j int) bool { return bytes.Compare(names[i], names[j]) < 0 })

	for _, name := range names {
		node := name
		var claims int
		for {
			parent, remaining, deleted, err := deleteNodeIfPossible(s, node, nextHeight)
			if err != nil {
				return err
			}
			claims = remaining
			if !deleted {
				break
			}
			node = parent
		}
		if !bytes.Equal(node, name) || len(name) == 0 || claims <= 0 {
			// either name itself was pruned away, name is the root,
			// or name survived pruning with no claims of its own —
			// meaning it must have ≥2 legitimate descendant nodes and
			// is already correctly placed.
			continue
		}

		parent := longestExistingPrefix(s, name)
		parent = resolveSplit(s, parent, name)
		s.PutNode(name, parent, nil)
	}

	return percolateDirtyAncestors(s)
}

// deleteNodeIfPossible removes name if it currently holds zero active
// claims and at most one child node, path-compressing its sole child
// (if any) onto name's parent and dirtying that parent. It returns
// the parent name (valid only when deleted is true) and the number of
// active claims found on name (valid only when deleted is false, for
// the caller's "did this node survive with claims of its own" check).
func deleteNodeIfPossible(s *store.Store, name []byte, nextHeight int32) (parent []byte, activeClaims int, deleted bool, err error) {
	if len(name) == 0 {
		return nil, 0, false, nil
	}

	claims, err := s.ClaimsForNode(name)
	if err != nil {
		return nil, 0, false, err
	}
	active := 0
	for _, c := range claims {
		if activeAt(c.ActivationHeight, c.ExpirationHeight, nextHeight) {
			active++
		}
	}
	if active > 0 {
		return nil, active, false, nil
	}

	children, err := s.ChildrenOf(name)
	if err != nil {
		return nil, 0, false, err
	}
	if len(children) > 1 {
		return nil, 0, false, nil
	}

	p, _, found := s.GetNode(name)
	if !found {
		return nil, 0, false, nil
	}
	s.DeleteNode(name)
	if len(children) == 1 {
		child := children[0]
		_, childHash, _ := s.GetNode(child)
		s.PutNode(child, p, childHash)
	}
	dirtyNode(s, p)
	return p, 0, true, nil
}

// longestExistingPrefix returns the longest existing node name that
// is a strict prefix of name, replacing the original's recursive
// "WITH RECURSIVE prefix(p) AS (... POPS(p) ...)" walk.
func longestExistingPrefix(s *store.Store, name []byte) []byte {
	for candidate := store.PopByte(name); ; candidate = store.PopByte(candidate) {
		if s.HasNode(candidate) {
			return candidate
		}
		if len(candidate) == 0 {
			return candidate
		}
	}
}

// resolveSplit examines parent's existing children for one sharing
// name's next byte and, if that sibling's shared prefix with name
// extends further than parent alone, introduces a split node at their
// longest common prefix: the sibling is rewired onto the split node,
// and (unless the split node is exactly name itself) the split node
// is inserted as a fresh dirty row parented on the original parent.
// It returns the name should now be inserted under as parent.
func resolveSplit(s *store.Store, parent, name []byte) []byte {
	siblings, err := s.ChildrenOf(parent)
	if err != nil {
		return parent
	}
	psize := len(parent) + 1
	if psize > len(name) {
		return parent
	}

	for _, sibling := range siblings {
		if bytes.Equal(sibling, name) {
			continue
		}
		if len(sibling) < psize || !bytes.Equal(sibling[:psize], name[:psize]) {
			continue
		}

		splitPos := psize
		for splitPos < len(sibling) && splitPos < len(name) && sibling[splitPos] == name[splitPos] {
			splitPos++
		}
		newNodeName := append([]byte(nil), name[:splitPos]...)

		_, siblingHash, _ := s.GetNode(sibling)
		s.PutNode(sibling, newNodeName, siblingHash)

		if splitPos == len(name) {
			// name is itself the split point: the sibling is rewired
			// onto name (inserted by the caller), so name's own parent
			// stays the original parent, unchanged. Grounded on
			// trie.cpp:296-334, which breaks out of the loop here
			// without reassigning parent.
			return parent
		}
		s.PutNode(newNodeName, parent, nil)
		return newNodeName
	}
	return parent
}

// DirtyNode is dirtyNode exported for claimtrie.Cache's
// removeClaim/removeSupport, which must dirty a node without inserting
// one, unlike InsertOrDirtyNode.
func DirtyNode(s *store.Store, name []byte) {
	dirtyNode(s, name)
}

// dirtyNode marks name's stored hash NULL while preserving its
// existing parent link. A no-op if name has no row.
func dirtyNode(s *store.Store, name []byte) {
	parent, _, found := s.GetNode(name)
	if !found {
		return
	}
	s.PutNode(name, parent, nil)
}

// percolateDirtyAncestors transitively dirties every ancestor of any
// currently dirty node, replacing the original's single recursive
// "UPDATE node SET hash = NULL WHERE name IN (WITH RECURSIVE ...)".
func percolateDirtyAncestors(s *store.Store) error {
	dirty, err := s.DirtyNodeNames()
	if err != nil {
		return err
	}
	seen := make(map[string]bool, len(dirty))
	queue := make([][]byte, 0, len(dirty))
	for _, n := range dirty {
		seen[string(n)] = true
		queue = append(queue, n)
	}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if len(n) == 0 {
			continue
		}
		parent, _, found := s.GetNode(n)
		if !found {
			continue
		}
		if seen[string(parent)] {
			continue
		}
		seen[string(parent)] = true
		dirtyNode(s, parent)
		queue = append(queue, parent)
	}
	return nil
}
