// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package store

import (
	"encoding/binary"

	"github.com/btcsuite/btcd/wire"

	"github.com/bitmark-inc/nametrie/claim"
	"github.com/bitmark-inc/nametrie/support"
)

func encodeSupport(sup *support.Support) []byte {
	buf := make([]byte, 0, 20+2+len(sup.Name)+len(sup.NodeName)+4*4+8)
	buf = append(buf, sup.SupportedClaimID[:]...)
	buf = append(buf, byte(len(sup.Name)))
	buf = append(buf, sup.Name...)
	buf = append(buf, byte(len(sup.NodeName)))
	buf = append(buf, sup.NodeName...)
	buf = appendInt32(buf, sup.BlockHeight)
	buf = appendInt32(buf, sup.ValidHeight)
	buf = appendInt32(buf, sup.ActivationHeight)
	buf = appendInt32(buf, sup.ExpirationHeight)
	buf = appendInt64(buf, sup.Amount)
	return buf
}

func decodeSupport(op wire.OutPoint, buf []byte) *support.Support {
	i := 0
	var claimID claim.ID
	copy(claimID[:], buf[i:i+20])
	i += 20

	nameLen := int(buf[i])
	i++
	name := append([]byte(nil), buf[i:i+nameLen]...)
	i += nameLen

	nodeLen := int(buf[i])
	i++
	nodeName := append([]byte(nil), buf[i:i+nodeLen]...)
	i += nodeLen

	sup := &support.Support{
		OutPoint:         op,
		SupportedClaimID: claimID,
		Name:             name,
		NodeName:         nodeName,
	}
	sup.BlockHeight, i = readInt32(buf, i)
	sup.ValidHeight, i = readInt32(buf, i)
	sup.ActivationHeight, i = readInt32(buf, i)
	sup.ExpirationHeight, i = readInt32(buf, i)
	sup.Amount, _ = readInt64(buf, i)
	return sup
}

// PutSupport upserts a support record and its secondary indexes
// (by-node, by-claim, by-activation-height, by-expiration-height).
func (s *Store) PutSupport(sup *support.Support) {
	key := outPointKey(sup.OutPoint)
	if old := s.GetSupport(sup.OutPoint); old != nil {
		s.deleteSupportIndexes(old)
	}
	s.supports.Put(key, encodeSupport(sup))
	s.supportsByNode.Put(byNodeKey(sup.NodeName, key), []byte{})
	s.supportsByClaim.Put(byNodeKey(sup.SupportedClaimID[:], key), []byte{})
	s.supportsByActive.Put(append(heightKey(sup.ActivationHeight), key...), []byte{})
	s.supportsByExpire2.Put(append(heightKey(sup.ExpirationHeight), key...), []byte{})
}

func (s *Store) deleteSupportIndexes(sup *support.Support) {
	key := outPointKey(sup.OutPoint)
	s.supportsByNode.Delete(byNodeKey(sup.NodeName, key))
	s.supportsByClaim.Delete(byNodeKey(sup.SupportedClaimID[:], key))
	s.supportsByActive.Delete(append(heightKey(sup.ActivationHeight), key...))
	s.supportsByExpire2.Delete(append(heightKey(sup.ExpirationHeight), key...))
}

// GetSupport returns the support keyed by outpoint, or nil.
func (s *Store) GetSupport(op wire.OutPoint) *support.Support {
	key := outPointKey(op)
	buf := s.supports.Get(key)
	if buf == nil {
		return nil
	}
	return decodeSupport(op, buf)
}

// DeleteSupport removes a support record and its secondary indexes.
func (s *Store) DeleteSupport(op wire.OutPoint) {
	if sup := s.GetSupport(op); sup != nil {
		s.deleteSupportIndexes(sup)
	}
	s.supports.Delete(outPointKey(op))
}

// SupportsForNode returns every support currently filed against
// nodeName, via the "S" by-node index.
func (s *Store) SupportsForNode(nodeName []byte) ([]*support.Support, error) {
	sub := byNodeKey(nodeName, nil)
	cur := s.supportsByNode.NewRangeCursor(sub)
	var out []*support.Support
	err := cur.Map(func(key, _ []byte) error {
		op := decodeOutPointKey(key[len(sub):])
		if sup := s.GetSupport(op); sup != nil {
			out = append(out, sup)
		}
		return nil
	})
	return out, err
}

// SupportsForClaim returns every support currently targeting id, via
// the "u" by-claim index.
func (s *Store) SupportsForClaim(id claim.ID) ([]*support.Support, error) {
	sub := byNodeKey(id[:], nil)
	cur := s.supportsByClaim.NewRangeCursor(sub)
	var out []*support.Support
	err := cur.Map(func(key, _ []byte) error {
		op := decodeOutPointKey(key[len(sub):])
		if sup := s.GetSupport(op); sup != nil {
			out = append(out, sup)
		}
		return nil
	})
	return out, err
}

// SupportsActivatingAt returns supports whose ActivationHeight == h.
func (s *Store) SupportsActivatingAt(h int32) ([]*support.Support, error) {
	return s.supportsByHeightIndex(s.supportsByActive, h)
}

// SupportsExpiringAt returns supports whose ExpirationHeight == h.
func (s *Store) SupportsExpiringAt(h int32) ([]*support.Support, error) {
	return s.supportsByHeightIndex(s.supportsByExpire2, h)
}

func (s *Store) supportsByHeightIndex(p *pool, h int32) ([]*support.Support, error) {
	sub := heightKey(h)
	cur := p.NewRangeCursor(sub)
	var out []*support.Support
	err := cur.Map(func(key, _ []byte) error {
		op := decodeOutPointKey(key[len(sub):])
		if sup := s.GetSupport(op); sup != nil {
			out = append(out, sup)
		}
		return nil
	})
	return out, err
}

func decodeOutPointKey(buf []byte) wire.OutPoint {
	var hash [32]byte
	copy(hash[:], buf[:32])
	return wire.OutPoint{Hash: hash, Index: binary.BigEndian.Uint32(buf[32:36])}
}
