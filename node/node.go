// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package node

import "github.com/bitmark-inc/nametrie/merkle"

// Node is one point in the radix trie that either holds at least one
// active claim or is a necessary branching point for at least two
// descendant nodes. The root node has Name == "" and Parent == nil.
type Node struct {
	Name   []byte
	Parent []byte // nil for the root
	Hash   *merkle.Hash256
}

// IsRoot reports whether this is the always-present root node.
func (n *Node) IsRoot() bool {
	return len(n.Name) == 0
}

// IsDirty reports whether the node's hash must be recomputed before
// the root hash can be emitted.
func (n *Node) IsDirty() bool {
	return n.Hash == nil
}

// ChildEdge is one entry in a node's hash-construction buffer: the
// next byte after the parent's name, and the child's hash already
// lifted through the path-compressed edge label via CompleteHash.
type ChildEdge struct {
	KeyByte byte
	Hash    merkle.Hash256
}

// BuildChildEdge lifts a stored child hash up through the edge label
// between a node of length parentLen and its child, per spec.md §4.1:
// "compute h = completeHash(c.hash, c.name, pos)... append byte
// c.name[pos] followed by the 32 bytes of h."
func BuildChildEdge(childName []byte, childHash merkle.Hash256, parentLen int) ChildEdge {
	return ChildEdge{
		KeyByte: childName[parentLen],
		Hash:    merkle.CompleteHash(childHash, childName, parentLen),
	}
}

// ComputeHash assembles a node's own hash from its (already lexically
// ordered by KeyByte) child edges and, if the node currently controls
// a best claim past the takeover height, that claim's value hash.
// An entirely empty buffer only occurs at the root and yields the
// fixed empty-trie sentinel.
func ComputeHash(children []ChildEdge, valueHash *merkle.Hash256) merkle.Hash256 {
	buf := make([]byte, 0, len(children)*(1+32)+32)
	for _, c := range children {
		buf = append(buf, c.KeyByte)
		buf = append(buf, c.Hash[:]...)
	}
	if valueHash != nil {
		buf = append(buf, valueHash[:]...)
	}
	if len(buf) == 0 {
		return merkle.EmptyTrieHash
	}
	return merkle.DoubleSha(buf)
}
