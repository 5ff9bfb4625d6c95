// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package trie implements the structural maintenance, takeover, and
// Merkle logic of the name-claim trie (spec.md §4.3-§4.6) directly
// against a *store.Store. It knows nothing about script decoding or
// the two-phase apply protocol — that orchestration lives in
// claimtrie.Cache, which calls into this package once per block.
package trie
