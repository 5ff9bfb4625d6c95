// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package claim

import "bytes"

// EffectiveAmount sums a claim's own amount with the amounts of every
// support the caller has already filtered down to "active and sharing
// this claim's nodeName" (spec.md §3). Kept as a plain summation here
// so this package does not need to know about the support package's
// type.
func EffectiveAmount(own int64, supportAmounts []int64) int64 {
	total := own
	for _, a := range supportAmounts {
		total += a
	}
	return total
}

// Candidate pairs a claim with its already-computed effective amount,
// the unit the best-claim ordering compares over.
type Candidate struct {
	Claim           *Claim
	EffectiveAmount int64
}

// Best returns the winning candidate under spec.md §3's ordering:
// effective amount DESC, updateHeight ASC, txID ASC, txN ASC. Returns
// nil if candidates is empty.
func Best(candidates []Candidate) *Candidate {
	if len(candidates) == 0 {
		return nil
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if less(c, best) {
			best = c
		}
	}
	return &best
}

// less reports whether a ranks strictly ahead of b.
func less(a, b Candidate) bool {
	if a.EffectiveAmount != b.EffectiveAmount {
		return a.EffectiveAmount > b.EffectiveAmount
	}
	if a.Claim.UpdateHeight != b.Claim.UpdateHeight {
		return a.Claim.UpdateHeight < b.Claim.UpdateHeight
	}
	if cmp := bytes.Compare(a.Claim.OutPoint.Hash[:], b.Claim.OutPoint.Hash[:]); cmp != 0 {
		return cmp < 0
	}
	return a.Claim.OutPoint.Index < b.Claim.OutPoint.Index
}
