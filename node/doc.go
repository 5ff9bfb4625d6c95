// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package node holds the Node entity (spec.md §3) and the pure,
// store-independent node-hash assembly rule of spec.md §4.1. Building
// the list of child edges (which requires walking the store for a
// node's children) is the caller's job; this package only folds an
// already-assembled edge list and an optional value hash into the
// node's own hash.
package node
