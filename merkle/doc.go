// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package merkle - hashing primitives for the name-claim trie
//
// The root hash committed by every block is a bottom-up recomputation
// over a radix trie: each node folds its children's hashes (lifted
// through their path-compressed edge label by completeHash) together
// with the value hash of its best claim, if any. All hashing is
// double-SHA256, matching the wider blockchain convention already used
// by chainhash.Hash for transaction and block identifiers.
package merkle
