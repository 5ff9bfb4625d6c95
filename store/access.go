// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package store

import (
	"bytes"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/bitmark-inc/nametrie/fault"
)

// access is the single read/write handle onto the database's batch,
// grounded on bitmarkd/storage/access.go's AccessData. Unlike the
// teacher, which routes two physical databases through one
// interface, this engine has exactly one LevelDB handle, matching
// spec.md §5's single-writer model.
type access struct {
	mu      sync.Mutex
	db      *leveldb.DB
	batch   *leveldb.Batch
	overlay *overlay
	inUse   bool
}

func newAccess(db *leveldb.DB) *access {
	return &access{
		db:      db,
		batch:   new(leveldb.Batch),
		overlay: newOverlay(),
	}
}

func (a *access) Begin() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.inUse {
		return fault.ErrTransactionAlreadyOpen
	}
	a.inUse = true
	return nil
}

func (a *access) InUse() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inUse
}

func (a *access) Put(key, value []byte) {
	a.overlay.set(key, value)
	a.batch.Put(key, value)
}

func (a *access) Delete(key []byte) {
	a.overlay.unset(key)
	a.batch.Delete(key)
}

func (a *access) Get(key []byte) ([]byte, error) {
	if v, touched := a.overlay.get(key); touched {
		if v == nil {
			return nil, leveldb.ErrNotFound
		}
		return v, nil
	}
	return a.db.Get(key, nil)
}

func (a *access) Has(key []byte) (bool, error) {
	if v, touched := a.overlay.get(key); touched {
		return v != nil, nil
	}
	return a.db.Has(key, nil)
}

// Iterator reads straight from the committed database, matching how
// bitmarkd's FetchCursor works against DataAccess.Iterator. Callers
// that need a range scan to also see this transaction's own
// uncommitted writes go through overlayInRange and merge the two
// (see Cursor in cursor.go) — the structure maintainer and merkle
// engine both depend on that read-your-writes visibility mid-block.
func (a *access) Iterator(r *ldb_util.Range) iterator.Iterator {
	return a.db.NewIterator(r, nil)
}

// overlayInRange returns every key the current transaction has
// touched (put or deleted) that falls within r, keyed by its raw
// (prefix-included) byte string.
func (a *access) overlayInRange(r *ldb_util.Range) map[string]overlayEntry {
	out := make(map[string]overlayEntry)
	for k, v := range a.overlay.items() {
		key := []byte(k)
		if bytes.Compare(key, r.Start) < 0 {
			continue
		}
		if r.Limit != nil && bytes.Compare(key, r.Limit) >= 0 {
			continue
		}
		out[k] = v
	}
	return out
}

func (a *access) Commit() error {
	if err := a.db.Write(a.batch, nil); err != nil {
		return fault.ErrCommitFailed
	}
	a.batch.Reset()
	a.overlay.clear()
	a.mu.Lock()
	a.inUse = false
	a.mu.Unlock()
	return nil
}

func (a *access) Abort() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.batch.Reset()
	a.overlay.clear()
	a.inUse = false
}
