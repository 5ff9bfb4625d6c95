// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package store

import (
	"os"
	"path/filepath"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/nametrie/counter"
	"github.com/bitmark-inc/nametrie/fault"
	"github.com/bitmark-inc/nametrie/merkle"
	"github.com/bitmark-inc/nametrie/param"
	"github.com/bitmark-inc/nametrie/util"
)

// Store is the durable handle onto one claims database: a single
// LevelDB file carved into the key spaces of keys.go, plus the
// in-transaction access layer and running row counters. Grounded on
// bitmarkd/storage's pools struct + Initialise, collapsed to a single
// physical database since this schema (unlike bitmarkd's split
// blocks/index files) has no analogous reason to shard.
type Store struct {
	db  *leveldb.DB
	acc *access
	log *logger.L

	nodes             *pool
	dirty             *pool
	children          *pool
	claims            *pool
	claimsByNode      *pool
	claimsByActivate  *pool
	claimsByExpire    *pool
	supports          *pool
	supportsByNode    *pool
	supportsByClaim   *pool
	supportsByActive  *pool
	supportsByExpire2 *pool
	takeovers         *pool

	nameCount  counter.Counter
	claimCount counter.Counter
}

// Open opens (or creates) the LevelDB database at cfg.DataDir,
// optionally wiping it first, and ensures the root sentinel node
// exists. Grounded on bitmarkd/storage/setup.go's Initialise, minus
// the block/index dual-database version negotiation this schema has
// no counterpart for.
func Open(cfg param.Config) (*Store, error) {
	if err := fault.Initialise(); err != nil && err != fault.ErrAlreadyInitialised {
		return nil, err
	}

	log := logger.New("store")

	// DataDir arrives as whatever the caller configured, same as
	// bitmarkd/command's *Directory fields before util.EnsureAbsolute
	// resolves them against the working directory.
	dataDir := cfg.DataDir
	if wd, err := os.Getwd(); err == nil {
		dataDir = util.EnsureAbsolute(wd, dataDir)
	}
	existed := util.EnsureFileExists(filepath.Join(dataDir, "CURRENT"))

	opt := &ldb_opt.Options{
		BlockCacheCapacity: cfg.CacheBytes,
	}
	db, err := leveldb.OpenFile(dataDir, opt)
	if err != nil {
		return nil, fault.ErrStorageError
	}
	if existed {
		log.Infof("opened existing store at %s", dataDir)
	} else {
		log.Infof("created new store at %s", dataDir)
	}

	acc := newAccess(db)
	s := &Store{
		db:  db,
		acc: acc,
		log: log,

		nodes:            newPool(prefixNode, acc, log),
		dirty:            newPool(prefixDirty, acc, log),
		children:         newPool(prefixChild, acc, log),
		claims:           newPool(prefixClaim, acc, log),
		claimsByNode:     newPool(prefixClaimByNode, acc, log),
		claimsByActivate: newPool(prefixClaimByActivation, acc, log),
		claimsByExpire:   newPool(prefixClaimByExpiration, acc, log),
		supports:         newPool(prefixSupport, acc, log),
		supportsByNode:   newPool(prefixSupportByNode, acc, log),
		supportsByClaim:  newPool(prefixSupportByClaim, acc, log),
		supportsByActive: newPool(prefixSupportByActivate, acc, log),
		takeovers:        newPool(prefixTakeover, acc, log),
	}
	s.supportsByExpire2 = newPool(prefixSupportByExpire, acc, log)

	if cfg.Wipe {
		if err := s.wipe(); err != nil {
			db.Close()
			return nil, err
		}
	}

	if err := s.ensureRoot(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close releases the LevelDB handle and flushes the last-resort panic
// logger fault.Initialise set up in Open.
func (s *Store) Close() {
	s.db.Close()
	fault.Finalise()
}

// SyncToDisk is the caller-invoked fsync of spec.md §4.2; ordinary
// Commit calls only write through the OS page cache.
func (s *Store) SyncToDisk() error {
	// goleveldb has no direct fsync hook beyond a Write with Sync;
	// issue an empty synced batch to force a WAL flush.
	if err := s.db.Write(new(leveldb.Batch), &ldb_opt.WriteOptions{Sync: true}); err != nil {
		return fault.ErrStorageError
	}
	return nil
}

// Begin, Commit, and Abort delegate to the shared access handle: the
// first mutating call on any pool implicitly requires a prior Begin,
// matching spec.md §5's "first mutating operation opens a
// transaction."
func (s *Store) Begin() error  { return s.acc.Begin() }
func (s *Store) Commit() error { return s.acc.Commit() }
func (s *Store) Abort()        { s.acc.Abort() }

func (s *Store) ensureRoot() error {
	if s.nodes.Has([]byte{}) {
		return nil
	}
	if err := s.Begin(); err != nil && err != fault.ErrTransactionAlreadyOpen {
		return err
	}
	s.PutNode([]byte{}, nil, &merkle.EmptyTrieHash)
	return s.Commit()
}

// wipe deletes every key in every key space, standing in for the
// SQLite fWipe truncation of spec.md §6 / SPEC_FULL.md's supplemented
// features: LevelDB has no DELETE FROM, so this is an iterate-and-
// delete-all-keys pass per pool.
func (s *Store) wipe() error {
	pools := []*pool{
		s.nodes, s.dirty, s.children,
		s.claims, s.claimsByNode, s.claimsByActivate, s.claimsByExpire,
		s.supports, s.supportsByNode, s.supportsByClaim, s.supportsByActive, s.supportsByExpire2,
		s.takeovers,
	}
	batch := new(leveldb.Batch)
	for _, p := range pools {
		iter := s.db.NewIterator(&ldb_util.Range{Start: []byte{p.prefix}, Limit: p.limit}, nil)
		for iter.Next() {
			key := make([]byte, len(iter.Key()))
			copy(key, iter.Key())
			batch.Delete(key)
		}
		iter.Release()
		if err := iter.Error(); err != nil {
			return fault.ErrStorageError
		}
	}
	if err := s.db.Write(batch, nil); err != nil {
		return fault.ErrStorageError
	}
	return nil
}
