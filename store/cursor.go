// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package store

import (
	"math/big"
	"sort"

	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/bitmark-inc/nametrie/fault"
)

// Element is one raw key/value pair returned by a cursor, with the
// pool's prefix byte already stripped from Key.
type Element struct {
	Key   []byte
	Value []byte
}

// Cursor range-scans one pool's key space in lexicographic order,
// grounded on bitmarkd/storage/cursor.go's FetchCursor.
type Cursor struct {
	pool     *pool
	maxRange ldb_util.Range
}

func (p *pool) NewCursor() *Cursor {
	return &Cursor{
		pool: p,
		maxRange: ldb_util.Range{
			Start: []byte{p.prefix},
			Limit: p.limit,
		},
	}
}

// NewRangeCursor bounds the cursor to keys sharing the prefix sub
// within this pool — e.g. "parent, 0x00" for one parent's children,
// or "nodeName, 0x00" for one node's claims.
func (p *pool) NewRangeCursor(sub []byte) *Cursor {
	limit := p.limit
	if next := incrementLastByte(sub); next != nil {
		limit = p.prefixKey(next)
	}
	return &Cursor{
		pool: p,
		maxRange: ldb_util.Range{
			Start: p.prefixKey(sub),
			Limit: limit,
		},
	}
}

// incrementLastByte returns the lexicographically next byte string
// after b, carrying through trailing 0xff bytes, so it can serve as
// an exclusive upper range bound for "starts with b" prefix scans.
// Returns nil (no upper bound) if b is all 0xff or empty.
func incrementLastByte(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	for i := len(out) - 1; i >= 0; i-- {
		if out[i] < 0xff {
			out[i]++
			return out[:i+1]
		}
	}
	return nil
}

// Seek moves the cursor to start at key (inclusive).
func (c *Cursor) Seek(key []byte) *Cursor {
	c.maxRange.Start = c.pool.prefixKey(key)
	return c
}

var oneInt = big.NewInt(1)

// snapshot merges the committed range scan with this transaction's
// own uncommitted overlay writes that fall in range, so a cursor
// opened mid-transaction sees its own prior Put/Delete calls within
// the same pass — the structure maintainer and merkle engine both
// depend on this. Overlay entries win over committed values for the
// same key; a pending delete removes a committed key from the result
// even though the LevelDB iterator still reports it. Results are
// returned sorted ascending by key, matching lexicographic LevelDB
// iteration order.
func (c *Cursor) snapshot() ([]Element, error) {
	iter := c.pool.access.Iterator(&c.maxRange)
	defer iter.Release()

	merged := make(map[string][]byte)
	for iter.Next() {
		key := make([]byte, len(iter.Key())-1)
		copy(key, iter.Key()[1:])
		value := make([]byte, len(iter.Value()))
		copy(value, iter.Value())
		merged[string(key)] = value
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}

	for rawKey, entry := range c.pool.access.overlayInRange(&c.maxRange) {
		key := rawKey[1:] // strip the pool's own prefix byte
		if entry.op == opDelete {
			delete(merged, key)
			continue
		}
		merged[key] = entry.value
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Element, len(keys))
	for i, k := range keys {
		out[i] = Element{Key: []byte(k), Value: merged[k]}
	}
	return out, nil
}

// Fetch returns up to count elements starting from the cursor's
// current position and advances the cursor past the last one
// returned.
func (c *Cursor) Fetch(count int) ([]Element, error) {
	if c == nil {
		return nil, fault.ErrInvalidCursor
	}
	if count <= 0 {
		return nil, fault.ErrInvalidCount
	}

	all, err := c.snapshot()
	if err != nil {
		return nil, err
	}
	if len(all) > count {
		all = all[:count]
	}

	if n := len(all); n > 0 {
		keyLen := len(all[n-1].Key)
		if len(c.maxRange.Start) != keyLen+1 {
			c.maxRange.Start = make([]byte, keyLen+1)
		}
		c.maxRange.Start[0] = c.pool.prefix
		var b big.Int
		copy(c.maxRange.Start[1:], b.SetBytes(all[n-1].Key).Add(&b, oneInt).Bytes())
	}
	return all, nil
}

// Map calls f on every remaining element in the cursor's range, in
// order, stopping at the first error f returns.
func (c *Cursor) Map(f func(key, value []byte) error) error {
	if c == nil {
		return fault.ErrInvalidCursor
	}

	all, err := c.snapshot()
	if err != nil {
		return err
	}
	for _, e := range all {
		if err := f(e.Key, e.Value); err != nil {
			return err
		}
	}
	return nil
}
