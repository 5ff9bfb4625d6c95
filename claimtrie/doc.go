// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package claimtrie implements the cache façade of spec.md §4.7: the
// single entry point a block-processing caller drives per block,
// wrapping a *store.Store with the transaction discipline, delay rule,
// and script-operation dispatch that sit above the structural,
// takeover, and Merkle logic in package trie.
package claimtrie
