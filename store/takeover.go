// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package store

import (
	"github.com/bitmark-inc/nametrie/claim"
	"github.com/bitmark-inc/nametrie/takeover"
)

// PutTakeover inserts a takeover row; per spec.md invariant 6,
// takeover entries for a name are unique per height, so this is an
// upsert keyed on (name, height).
func (s *Store) PutTakeover(t *takeover.Takeover) {
	value := []byte{0}
	if t.ClaimID != nil {
		value = append([]byte{1}, t.ClaimID[:]...)
	}
	s.takeovers.Put(takeoverKey(t.Name, t.Height), value)
}

// LatestTakeover returns the most recent takeover row for name, or
// (nil, false) if none exists — the store's equivalent of "ORDER BY
// height DESC LIMIT 1" over the takeover table.
func (s *Store) LatestTakeover(name []byte) (*takeover.Takeover, bool) {
	sub := append(append([]byte{}, name...), 0x00)
	cur := s.takeovers.NewRangeCursor(sub)

	var last *takeover.Takeover
	_ = cur.Map(func(key, value []byte) error {
		t := decodeTakeoverKV(key[len(sub):], value)
		t.Name = append([]byte(nil), name...)
		last = t
		return nil
	})
	if last == nil {
		return nil, false
	}
	return last, true
}

// AllTakeovers returns every takeover row in the store, in key order
// (grouped by name, ascending height within each name). Used by
// finalizeDecrement (spec.md §4.5), which must find every name with a
// takeover at or past a height, not just one name's history.
func (s *Store) AllTakeovers() ([]*takeover.Takeover, error) {
	cur := s.takeovers.NewCursor()
	var out []*takeover.Takeover
	err := cur.Map(func(key, value []byte) error {
		out = append(out, decodeTakeoverKVFull(key, value))
		return nil
	})
	return out, err
}

// DeleteTakeoversAtOrAbove removes every takeover row, for every name,
// with Height >= minHeight — finalizeDecrement's "DELETE FROM takeover
// WHERE height >= ?".
func (s *Store) DeleteTakeoversAtOrAbove(minHeight int32) error {
	all, err := s.AllTakeovers()
	if err != nil {
		return err
	}
	for _, t := range all {
		if t.Height >= minHeight {
			s.takeovers.Delete(takeoverKey(t.Name, t.Height))
		}
	}
	return nil
}

// decodeTakeoverKV decodes a takeover row whose key the caller has
// already trimmed of its name and 0x00 separator: key here is just
// the 4 byte height suffix.
func decodeTakeoverKV(key, value []byte) *takeover.Takeover {
	height := int32(beUint32(key))
	t := &takeover.Takeover{Height: height}
	if value[0] == 1 {
		var id claim.ID
		copy(id[:], value[1:])
		t.ClaimID = &id
	}
	return t
}

// decodeTakeoverKVFull decodes a takeover row from a full-pool scan,
// where key is "name, 0x00, height(4B)" in full: the height suffix is
// fixed-width, so the name is recovered by trimming the last five
// bytes regardless of what byte values name itself contains.
func decodeTakeoverKVFull(key, value []byte) *takeover.Takeover {
	name := append([]byte(nil), key[:len(key)-5]...)
	t := decodeTakeoverKV(key[len(key)-4:], value)
	t.Name = name
	return t
}

func beUint32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
