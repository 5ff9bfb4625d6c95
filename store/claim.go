// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package store

import (
	"encoding/binary"

	"github.com/btcsuite/btcd/wire"

	"github.com/bitmark-inc/nametrie/claim"
	"github.com/bitmark-inc/nametrie/util"
)

// encodeClaim/decodeClaim pack a Claim into the fixed-layout record
// stored under the "c" key space: name and nodeName are
// length-prefixed (one byte each, since spec.md §3 caps Name at 255
// bytes), the heights are fixed-width big-endian integers, and the
// trailing amount is a varint (see appendInt64).
func encodeClaim(c *claim.Claim) []byte {
	buf := make([]byte, 0, 2+len(c.Name)+len(c.NodeName)+36+4*4+8)
	buf = append(buf, byte(len(c.Name)))
	buf = append(buf, c.Name...)
	buf = append(buf, byte(len(c.NodeName)))
	buf = append(buf, c.NodeName...)
	buf = append(buf, outPointKey(c.OutPoint)...)
	buf = appendInt32(buf, c.OriginalHeight)
	buf = appendInt32(buf, c.UpdateHeight)
	buf = appendInt32(buf, c.ValidHeight)
	buf = appendInt32(buf, c.ActivationHeight)
	buf = appendInt32(buf, c.ExpirationHeight)
	buf = appendInt64(buf, c.Amount)
	return buf
}

func decodeClaim(id claim.ID, buf []byte) *claim.Claim {
	i := 0
	nameLen := int(buf[i])
	i++
	name := append([]byte(nil), buf[i:i+nameLen]...)
	i += nameLen

	nodeLen := int(buf[i])
	i++
	nodeName := append([]byte(nil), buf[i:i+nodeLen]...)
	i += nodeLen

	var hash [32]byte
	copy(hash[:], buf[i:i+32])
	i += 32
	index := binary.BigEndian.Uint32(buf[i : i+4])
	i += 4

	c := &claim.Claim{
		ClaimID:  id,
		Name:     name,
		NodeName: nodeName,
		OutPoint: wire.OutPoint{Hash: hash, Index: index},
	}
	c.OriginalHeight, i = readInt32(buf, i)
	c.UpdateHeight, i = readInt32(buf, i)
	c.ValidHeight, i = readInt32(buf, i)
	c.ActivationHeight, i = readInt32(buf, i)
	c.ExpirationHeight, i = readInt32(buf, i)
	c.Amount, _ = readInt64(buf, i)
	return c
}

// PutClaim upserts a claim record and its secondary indexes
// (by-node, by-activation-height, by-expiration-height), removing the
// stale index rows first if the claim already existed with different
// values.
func (s *Store) PutClaim(c *claim.Claim) {
	old := s.GetClaim(c.ClaimID)
	if old != nil {
		s.deleteClaimIndexes(old)
	} else {
		s.claimCount.Increment()
	}
	s.claims.Put(c.ClaimID[:], encodeClaim(c))
	s.claimsByNode.Put(byNodeKey(c.NodeName, c.ClaimID[:]), []byte{})
	s.claimsByActivate.Put(append(heightKey(c.ActivationHeight), c.ClaimID[:]...), []byte{})
	s.claimsByExpire.Put(append(heightKey(c.ExpirationHeight), c.ClaimID[:]...), []byte{})
}

func (s *Store) deleteClaimIndexes(c *claim.Claim) {
	s.claimsByNode.Delete(byNodeKey(c.NodeName, c.ClaimID[:]))
	s.claimsByActivate.Delete(append(heightKey(c.ActivationHeight), c.ClaimID[:]...))
	s.claimsByExpire.Delete(append(heightKey(c.ExpirationHeight), c.ClaimID[:]...))
}

// GetClaim returns the claim, or nil if no row exists.
func (s *Store) GetClaim(id claim.ID) *claim.Claim {
	buf := s.claims.Get(id[:])
	if buf == nil {
		return nil
	}
	return decodeClaim(id, buf)
}

// DeleteClaim removes a claim record and its secondary indexes.
func (s *Store) DeleteClaim(id claim.ID) {
	if c := s.GetClaim(id); c != nil {
		s.deleteClaimIndexes(c)
		s.claimCount.Decrement()
	}
	s.claims.Delete(id[:])
}

// AllClaims returns every claim row in the store, used by spec.md
// §4.7's getTotalValueOfClaimsInTrie(fControllingOnly=false).
func (s *Store) AllClaims() ([]*claim.Claim, error) {
	cur := s.claims.NewCursor()
	var out []*claim.Claim
	err := cur.Map(func(key, value []byte) error {
		var id claim.ID
		copy(id[:], key)
		out = append(out, decodeClaim(id, value))
		return nil
	})
	return out, err
}

// TotalClaims returns the running count of claim rows, maintained
// incrementally (spec.md §4.7's getTotalClaimsInTrie).
func (s *Store) TotalClaims() uint64 { return s.claimCount.Uint64() }

// ClaimsForNode returns every claim currently filed against nodeName,
// via the "C" by-node index.
func (s *Store) ClaimsForNode(nodeName []byte) ([]*claim.Claim, error) {
	sub := byNodeKey(nodeName, nil)
	cur := s.claimsByNode.NewRangeCursor(sub)
	var claims []*claim.Claim
	err := cur.Map(func(key, _ []byte) error {
		var id claim.ID
		copy(id[:], key[len(sub):])
		if c := s.GetClaim(id); c != nil {
			claims = append(claims, c)
		}
		return nil
	})
	return claims, err
}

// ClaimsForNodePrefix returns every claim whose nodeName starts with
// prefix (including an exact match), via a raw scan of the "C" by-node
// index bounded to keys starting with prefix rather than prefix+0x00.
// Used by the delay rule's emptyNodeShouldExistAt (spec.md §4.7), which
// must see claims filed on descendant names, not only claims filed
// exactly on prefix the way ClaimsForNode answers.
func (s *Store) ClaimsForNodePrefix(prefix []byte) ([]*claim.Claim, error) {
	cur := s.claimsByNode.NewRangeCursor(prefix)
	var claims []*claim.Claim
	err := cur.Map(func(key, _ []byte) error {
		var id claim.ID
		copy(id[:], key[len(key)-len(id):])
		if c := s.GetClaim(id); c != nil {
			claims = append(claims, c)
		}
		return nil
	})
	return claims, err
}

// ClaimsActivatingAt returns claims whose ActivationHeight == h.
func (s *Store) ClaimsActivatingAt(h int32) ([]*claim.Claim, error) {
	return s.claimsByHeightIndex(s.claimsByActivate, h)
}

// ClaimsExpiringAt returns claims whose ExpirationHeight == h.
func (s *Store) ClaimsExpiringAt(h int32) ([]*claim.Claim, error) {
	return s.claimsByHeightIndex(s.claimsByExpire, h)
}

func (s *Store) claimsByHeightIndex(p *pool, h int32) ([]*claim.Claim, error) {
	sub := heightKey(h)
	cur := p.NewRangeCursor(sub)
	var claims []*claim.Claim
	err := cur.Map(func(key, _ []byte) error {
		var id claim.ID
		copy(id[:], key[len(sub):])
		if c := s.GetClaim(id); c != nil {
			claims = append(claims, c)
		}
		return nil
	})
	return claims, err
}

func appendInt32(buf []byte, v int32) []byte {
	return append(buf, heightKey(v)...)
}

// appendInt64/readInt64 pack the trailing Amount field with a varint
// rather than a fixed 8 bytes, the same space-saving encoding
// bitmark-inc/bitmarkd's transactionrecord package uses for its own
// on-wire amounts; safe here only because Amount is always the last
// field in a claim/support record, so no fixed width is needed to
// locate whatever follows it.
func appendInt64(buf []byte, v int64) []byte {
	return append(buf, util.ToVarint64(uint64(v))...)
}

func readInt32(buf []byte, i int) (int32, int) {
	return int32(binary.BigEndian.Uint32(buf[i : i+4])), i + 4
}

func readInt64(buf []byte, i int) (int64, int) {
	v, n := util.FromVarint64(buf[i:])
	return int64(v), i + n
}
