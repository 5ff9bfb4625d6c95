// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package store

import (
	"encoding/binary"

	"github.com/btcsuite/btcd/wire"
)

// Prefix bytes for the thirteen key spaces re-expressing spec.md §4.2's
// four SQL tables and their secondary indexes (see SPEC_FULL.md,
// "Persistent store, re-expressed").
const (
	prefixNode              = 'n'
	prefixDirty             = 'd'
	prefixChild             = 'p'
	prefixClaim             = 'c'
	prefixClaimByNode       = 'C'
	prefixClaimByActivation = 'A'
	prefixClaimByExpiration = 'E'
	prefixSupport           = 's'
	prefixSupportByNode     = 'S'
	prefixSupportByClaim    = 'u'
	prefixSupportByActivate = 'a'
	prefixSupportByExpire   = 'e'
	prefixTakeover          = 't'
)

// heightKey encodes a height as the four byte big-endian form used
// throughout the secondary key spaces, so lexicographic byte order on
// the key matches numeric order on the height.
func heightKey(h int32) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, uint32(h))
	return buf
}

// outPointKey encodes a wire.OutPoint as its 32 byte hash followed by
// its 4 byte big-endian index — the primary key of the support table,
// also embedded in each claim record.
func outPointKey(op wire.OutPoint) []byte {
	buf := make([]byte, 36)
	copy(buf[:32], op.Hash[:])
	binary.BigEndian.PutUint32(buf[32:], op.Index)
	return buf
}

// childKey builds the key for the "p" (child) presence marker:
// parent, a 0x00 separator, then the child's full name.
func childKey(parent, name []byte) []byte {
	buf := make([]byte, 0, len(parent)+1+len(name))
	buf = append(buf, parent...)
	buf = append(buf, 0x00)
	buf = append(buf, name...)
	return buf
}

// byNodeKey builds a "nodeName, 0x00, id" secondary key, shared by
// the claim-by-node and support-by-node key spaces.
func byNodeKey(nodeName, id []byte) []byte {
	buf := make([]byte, 0, len(nodeName)+1+len(id))
	buf = append(buf, nodeName...)
	buf = append(buf, 0x00)
	buf = append(buf, id...)
	return buf
}

// takeoverKey builds the "name, 0x00, height" primary key; because
// LevelDB orders keys lexicographically and heightKey is big-endian,
// scanning this pool's range for a name and reading the last entry
// gives the latest takeover, standing in for SQL's
// "ORDER BY height DESC LIMIT 1".
func takeoverKey(name []byte, height int32) []byte {
	buf := make([]byte, 0, len(name)+1+4)
	buf = append(buf, name...)
	buf = append(buf, 0x00)
	buf = append(buf, heightKey(height)...)
	return buf
}

// PopByte drops the final byte of s into a freshly allocated slice, or
// returns an empty slice if s is already empty. It replaces the SQLite
// UDF POPS(s) used by the original schema's recursive parent-lookup
// query; trie.longestExistingPrefix walks it toward the root the same
// way that query walked POPS(name) toward the empty string.
func PopByte(s []byte) []byte {
	if len(s) == 0 {
		return []byte{}
	}
	return append([]byte(nil), s[:len(s)-1]...)
}
