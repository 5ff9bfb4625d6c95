// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package store

import "github.com/bitmark-inc/nametrie/merkle"

// encodeNode packs a node record: a one byte parent length, the
// parent bytes, then either nothing (dirty) or the 32 byte hash.
func encodeNode(parent []byte, hash *merkle.Hash256) []byte {
	buf := make([]byte, 0, 1+len(parent)+32)
	buf = append(buf, byte(len(parent)))
	buf = append(buf, parent...)
	if hash != nil {
		buf = append(buf, hash[:]...)
	}
	return buf
}

func decodeNode(buf []byte) (parent []byte, hash *merkle.Hash256) {
	n := int(buf[0])
	parent = append([]byte{}, buf[1:1+n]...)
	rest := buf[1+n:]
	if len(rest) == 32 {
		var h merkle.Hash256
		copy(h[:], rest)
		hash = &h
	}
	return parent, hash
}

// PutNode upserts a node record and keeps the dirty-marker key space
// and the child-index key space in lock-step, per SPEC_FULL.md's
// "Persistent store, re-expressed": a nil hash both stores a
// zero-length hash and adds the presence marker under "d"; a non-nil
// hash clears that marker. If name already exists under a different
// parent, its former child marker under that parent is removed.
func (s *Store) PutNode(name, parent []byte, hash *merkle.Hash256) {
	oldParent, _, found := s.GetNode(name)
	if found && string(oldParent) != string(parent) {
		s.children.Delete(childKey(oldParent, name))
	}
	if !found && len(name) > 0 {
		s.nameCount.Increment()
	}
	s.nodes.Put(name, encodeNode(parent, hash))
	if len(name) > 0 {
		s.children.Put(childKey(parent, name), []byte{})
	}
	if hash == nil {
		s.dirty.Put(name, []byte{})
	} else {
		s.dirty.Delete(name)
	}
}

// GetNode returns a node's parent and hash (nil hash means dirty).
func (s *Store) GetNode(name []byte) (parent []byte, hash *merkle.Hash256, found bool) {
	buf := s.nodes.Get(name)
	if buf == nil {
		return nil, nil, false
	}
	parent, hash = decodeNode(buf)
	return parent, hash, true
}

// DeleteNode removes a node record, its dirty marker, and its child
// marker under its parent.
func (s *Store) DeleteNode(name []byte) {
	if parent, _, found := s.GetNode(name); found {
		s.children.Delete(childKey(parent, name))
		if len(name) > 0 {
			s.nameCount.Decrement()
		}
	}
	s.nodes.Delete(name)
	s.dirty.Delete(name)
}

// AllNodeNames returns every existing node name (including the root's
// empty name), in ascending lexicographic order — spec.md §4.7's
// getNamesInTrie.
func (s *Store) AllNodeNames() ([][]byte, error) {
	cur := s.nodes.NewCursor()
	var names [][]byte
	err := cur.Map(func(key, _ []byte) error {
		name := make([]byte, len(key))
		copy(name, key)
		names = append(names, name)
		return nil
	})
	return names, err
}

// TotalNames returns the running count of non-root node rows,
// maintained incrementally rather than scanned per-call (spec.md
// §4.7's getTotalNamesInTrie).
func (s *Store) TotalNames() uint64 { return s.nameCount.Uint64() }

// HasNode reports whether a node row currently exists for name.
func (s *Store) HasNode(name []byte) bool {
	return s.nodes.Has(name)
}

// ChildrenOf returns the full names of every direct child of parent,
// in lexicographic order, by scanning the "p" child-index key space
// bounded to keys sharing the prefix parent+0x00.
func (s *Store) ChildrenOf(parent []byte) ([][]byte, error) {
	sub := childKey(parent, nil)
	cur := s.children.NewRangeCursor(sub)
	var names [][]byte
	err := cur.Map(func(key, _ []byte) error {
		name := make([]byte, len(key)-len(sub))
		copy(name, key[len(sub):])
		names = append(names, name)
		return nil
	})
	return names, err
}

// DirtyNodeNames returns every node name currently marked dirty, in
// ascending lexicographic order — spec.md §4.3 step 1's "collect all
// node names with hash IS NULL, sorted ascending."
func (s *Store) DirtyNodeNames() ([][]byte, error) {
	cur := s.dirty.NewCursor()
	var names [][]byte
	err := cur.Map(func(key, _ []byte) error {
		name := make([]byte, len(key))
		copy(name, key)
		names = append(names, name)
		return nil
	})
	return names, err
}
