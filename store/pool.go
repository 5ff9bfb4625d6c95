// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package store

import (
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/nametrie/fault"
)

// pool is one prefixed key space within the single database, grounded
// on bitmarkd/storage/handle.go's PoolHandle: prefix, limit (the next
// byte value, bounding a range scan), and the shared access handle.
type pool struct {
	prefix byte
	limit  []byte
	access *access
	log    *logger.L
}

func newPool(prefix byte, a *access, log *logger.L) *pool {
	limit := []byte(nil)
	if prefix < 0xff {
		limit = []byte{prefix + 1}
	}
	return &pool{prefix: prefix, limit: limit, access: a, log: log}
}

func (p *pool) prefixKey(key []byte) []byte {
	prefixed := make([]byte, 1, len(key)+1)
	prefixed[0] = p.prefix
	return append(prefixed, key...)
}

func (p *pool) Put(key, value []byte) {
	p.access.Put(p.prefixKey(key), value)
}

func (p *pool) Delete(key []byte) {
	p.access.Delete(p.prefixKey(key))
}

// Get returns the stored value, or nil if absent. Mirrors handle.go's
// PoolHandle.Get: any error other than "not found" is a storage fault
// this engine cannot recover from mid-transaction, so it panics rather
// than let a caller silently proceed against a corrupted database.
func (p *pool) Get(key []byte) []byte {
	value, err := p.access.Get(p.prefixKey(key))
	if err == leveldb.ErrNotFound {
		return nil
	}
	fault.PanicIfError(fmt.Sprintf("pool.Get prefix %q", p.prefix), err)
	return value
}

func (p *pool) Has(key []byte) bool {
	found, err := p.access.Has(p.prefixKey(key))
	fault.PanicIfError(fmt.Sprintf("pool.Has prefix %q", p.prefix), err)
	return found
}
