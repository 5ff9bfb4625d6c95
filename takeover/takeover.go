// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package takeover

import "github.com/bitmark-inc/nametrie/claim"

// Takeover records that at Height, the controlling claim of a name
// became ClaimID (or nobody, if nil) — spec.md §3.
type Takeover struct {
	Name    []byte
	Height  int32
	ClaimID *claim.ID
}

// workaroundKey is the (height, name) pair the pre-fork lookup table
// is keyed on.
type workaroundKey struct {
	height int32
	name   string
}

// WorkaroundForkHeight is the height below which the historical
// takeover-workaround table is consulted (spec.md §4.4).
const WorkaroundForkHeight = 658300

// workarounds is the (height, name) table that forces
// takeoverHappening = true below WorkaroundForkHeight even when the
// ordinary best-claim comparison would not detect a change. It
// compensates for a bug in the reference implementation where
// un-supporting then updating a name spuriously reset its takeover
// height, and per spec.md §9 is consensus data, not a tunable — it
// must never be edited to "fix" the underlying bug it reproduces. It
// is empty as shipped; entries are added only by AddWorkaround.
var workarounds = map[workaroundKey]struct{}{}

// AddWorkaround registers one (height, name) pair in the table. No
// package in this module calls it, so the table holds only the pairs
// a caller registers.
func AddWorkaround(height int32, name string) {
	workarounds[workaroundKey{height: height, name: name}] = struct{}{}
}

// IsWorkaround reports whether (height, name) appears in the
// historical forced-takeover table.
func IsWorkaround(height int32, name []byte) bool {
	if height >= WorkaroundForkHeight {
		return false
	}
	_, ok := workarounds[workaroundKey{height: height, name: string(name)}]
	return ok
}
