// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package claim

import "github.com/btcsuite/btcd/wire"

// ID is the 20 byte claim identifier, derived by the caller from the
// originating outpoint before the claim ever reaches this engine.
type ID [20]byte

// Claim is one bid for control of a name (spec.md §3).
type Claim struct {
	ClaimID  ID
	Name     []byte // as submitted
	NodeName []byte // name after height-dependent normalization

	OutPoint wire.OutPoint

	OriginalHeight   int32
	UpdateHeight     int32
	ValidHeight      int32
	ActivationHeight int32
	ExpirationHeight int32

	Amount int64
}

// IsActive reports whether the claim is in its active window at
// height h: activationHeight <= h < expirationHeight.
func (c *Claim) IsActive(h int32) bool {
	return c.ActivationHeight <= h && h < c.ExpirationHeight
}
