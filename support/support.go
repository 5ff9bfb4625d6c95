// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package support

import (
	"github.com/btcsuite/btcd/wire"

	"github.com/bitmark-inc/nametrie/claim"
)

// Support is keyed by (txID, txN) — its own OutPoint — and otherwise
// mirrors Claim's activation/expiration attributes, plus the claim it
// targets (spec.md §3).
type Support struct {
	OutPoint wire.OutPoint

	SupportedClaimID claim.ID
	Name             []byte
	NodeName         []byte

	BlockHeight      int32 // entry height
	ValidHeight      int32
	ActivationHeight int32
	ExpirationHeight int32

	Amount int64
}

// IsActive reports whether the support is in its active window at
// height h: activationHeight <= h < expirationHeight.
func (s *Support) IsActive(h int32) bool {
	return s.ActivationHeight <= h && h < s.ExpirationHeight
}

// AppliesTo reports whether s currently contributes to c's effective
// amount at height h: same claim ID, same nodeName, and active.
func (s *Support) AppliesTo(c *claim.Claim, h int32) bool {
	return s.SupportedClaimID == c.ClaimID &&
		string(s.NodeName) == string(c.NodeName) &&
		s.IsActive(h)
}
