// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package store is the durable, transactional layer under the trie
// engine: one LevelDB database holding node, claim, support, and
// takeover rows plus their secondary key spaces (see SPEC_FULL.md,
// "Persistent store, re-expressed"). It follows the teacher's
// prefix-partitioned pool pattern — a single physical database
// carved into disjoint key spaces by a one-byte prefix per logical
// table, an in-transaction overlay cache giving read-your-writes
// visibility before commit, and range-scan cursors standing in for
// SQL secondary indexes.
package store
