// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package merkle

import (
	"encoding/binary"
	"strconv"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// Hash256 is the 32 byte digest used everywhere in the trie: node
// hashes, claim value hashes, and the committed root hash.
type Hash256 = chainhash.Hash

// EmptyTrieHash is returned for a node with no children and no active
// claim. It is a fixed sentinel, not a computed hash.
var EmptyTrieHash = Hash256{
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01,
}

// DoubleSha returns SHA256(SHA256(buf)).
func DoubleSha(buf []byte) Hash256 {
	return chainhash.DoubleHashH(buf)
}

// HeightBytes encodes a height as eight bytes: four zero bytes
// followed by the big-endian uint32 encoding of the height.
func HeightBytes(height int32) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint32(buf[4:], uint32(height))
	return buf
}

// ValueHash implements spec §4.1:
//
//	doubleSha( doubleSha(txHash) || doubleSha(asciiDecimal(index)) || doubleSha(heightBytes(takeoverHeight)) )
//
// outPoint is wire.OutPoint, used directly as the spec's OutPoint type
// rather than a bespoke struct.
func ValueHash(outPoint wire.OutPoint, takeoverHeight int32) Hash256 {
	h1 := DoubleSha(outPoint.Hash[:])
	h2 := DoubleSha([]byte(strconv.FormatUint(uint64(outPoint.Index), 10)))
	h3 := DoubleSha(HeightBytes(takeoverHeight))

	buf := make([]byte, 0, 96)
	buf = append(buf, h1[:]...)
	buf = append(buf, h2[:]...)
	buf = append(buf, h3[:]...)
	return DoubleSha(buf)
}

// CompleteHash lifts a child's stored hash up through the
// path-compressed edge label between a node and its stored child:
// walking key from right to left while more than stopIndex+1 bytes
// remain, fold in one more byte of key on each step.
func CompleteHash(partial Hash256, key []byte, stopIndex int) Hash256 {
	h := partial
	for i := len(key); i > stopIndex+1; i-- {
		buf := make([]byte, 0, 1+len(h))
		buf = append(buf, key[i-1])
		buf = append(buf, h[:]...)
		h = DoubleSha(buf)
	}
	return h
}
