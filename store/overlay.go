// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package store

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// overlay gives an in-progress transaction read-your-writes
// visibility over Put/Delete that have not yet been committed to
// LevelDB. Grounded on bitmarkd/storage/cache.go's dbCache, backed by
// the same github.com/patrickmn/go-cache map.
type overlay struct {
	entries *gocache.Cache
}

const (
	opPut = iota
	opDelete
)

type overlayEntry struct {
	op    int
	value []byte
}

// overlayTimeout bounds how long an uncommitted write may sit in the
// overlay; a transaction longer than this is a programming error, not
// a case this engine needs to serve, since the cache is
// single-writer/single-threaded per spec.md §5.
const overlayTimeout = 5 * time.Minute

func newOverlay() *overlay {
	return &overlay{entries: gocache.New(overlayTimeout, 2*overlayTimeout)}
}

func (o *overlay) set(key []byte, value []byte) {
	o.entries.Set(string(key), overlayEntry{op: opPut, value: value}, gocache.DefaultExpiration)
}

func (o *overlay) unset(key []byte) {
	o.entries.Set(string(key), overlayEntry{op: opDelete}, gocache.DefaultExpiration)
}

// get returns (value, true) if the key was written or deleted within
// the current transaction; the boolean distinguishes "not touched"
// from "touched" so the caller falls through to LevelDB only for keys
// the overlay has no opinion about. A deleted key is reported as
// (nil, true) with a zero-length value.
func (o *overlay) get(key []byte) ([]byte, bool) {
	v, found := o.entries.Get(string(key))
	if !found {
		return nil, false
	}
	e := v.(overlayEntry)
	if e.op == opDelete {
		return nil, true
	}
	return e.value, true
}

func (o *overlay) clear() {
	o.entries.Flush()
}

// items snapshots every key currently touched by the in-progress
// transaction, put or deleted. Used by Cursor to give range scans the
// same read-your-writes visibility that single-key Get/Has already
// have, since the underlying LevelDB iterator only ever sees
// committed data.
func (o *overlay) items() map[string]overlayEntry {
	raw := o.entries.Items()
	out := make(map[string]overlayEntry, len(raw))
	for k, v := range raw {
		out[k] = v.Object.(overlayEntry)
	}
	return out
}
