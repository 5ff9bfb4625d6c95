// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package param holds the trie engine's construction parameters
// (spec.md §6): cache sizing, data directory, fork heights,
// expiration windows, and the proportional delay factor. Nothing in
// this package reads a file or a flag set — config loading is a
// non-goal of the engine itself, so a caller populates Config directly
// or starts from DefaultConfig and overrides individual fields.
package param
