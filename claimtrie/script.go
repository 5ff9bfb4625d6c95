// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package claimtrie

import (
	"github.com/btcsuite/btcd/wire"

	"github.com/bitmark-inc/nametrie/claim"
	"github.com/bitmark-inc/nametrie/fault"
)

// ScriptOpKind classifies one decoded transaction output, replacing
// original_source/src/claimscriptop.h's polymorphic
// AddClaim/UndoAddClaim/SpendClaim/UndoSpendClaim class hierarchy with
// a single tagged variant, per spec.md §9's REDESIGN FLAGS.
type ScriptOpKind int

const (
	OpClaimName ScriptOpKind = iota
	OpUpdateClaim
	OpSupportClaim
)

// ScriptOp is one decoded transaction output the caller has already
// classified; script decoding itself is out of scope (§1's
// Non-goals). ClaimID is the caller-derived identifier for OpClaimName
// (from the originating outpoint) and the identifier being targeted
// for OpUpdateClaim/OpSupportClaim.
type ScriptOp struct {
	Kind     ScriptOpKind
	Name     []byte
	ClaimID  claim.ID
	OutPoint wire.OutPoint
	Amount   int64
}

// SpendClaim is a decoded transaction input that spends a prior claim.
type SpendClaim struct {
	ClaimID  claim.ID
	OutPoint wire.OutPoint
}

// SpendSupport is a decoded transaction input that spends a prior
// support.
type SpendSupport struct {
	OutPoint wire.OutPoint
}

// spentRecord is what phase 1 hands phase 2 for a spent claim whose
// claimID reappears in an OpUpdateClaim output within the same
// transaction, so its validHeight/originalHeight are preserved rather
// than recomputed as if it were brand new (spec.md §6, scenario S4).
type spentRecord struct {
	validHeight    int32
	originalHeight int32
}

// ApplyTransaction implements spec.md §6's two-phase per-transaction
// update pipeline: every input spending a prior claim or support is
// retired first, then every output is applied, with an OpUpdateClaim
// matching a same-transaction spend by claimID to preserve that
// claim's validHeight and originalHeight instead of treating the
// update as a brand new bid.
func (c *Cache) ApplyTransaction(height int32, spentClaims []SpendClaim, spentSupports []SpendSupport, ops []ScriptOp) error {
	spent := make(map[claim.ID]spentRecord, len(spentClaims))
	for _, s := range spentClaims {
		_, validHeight, originalHeight, found, err := c.RemoveClaim(s.ClaimID, s.OutPoint)
		if err != nil {
			return err
		}
		if found {
			spent[s.ClaimID] = spentRecord{validHeight: validHeight, originalHeight: originalHeight}
		}
	}
	for _, s := range spentSupports {
		if _, _, _, err := c.RemoveSupport(s.OutPoint); err != nil {
			return err
		}
	}

	for _, op := range ops {
		switch op.Kind {
		case OpClaimName:
			if err := c.AddClaim(op.Name, op.OutPoint, op.ClaimID, op.Amount, height, 0, 0); err != nil {
				return err
			}
		case OpUpdateClaim:
			var validHeight, originalHeight int32
			if rec, ok := spent[op.ClaimID]; ok {
				validHeight = rec.validHeight
				originalHeight = rec.originalHeight
			}
			if err := c.AddClaim(op.Name, op.OutPoint, op.ClaimID, op.Amount, height, validHeight, originalHeight); err != nil {
				return err
			}
		case OpSupportClaim:
			if err := c.AddSupport(op.Name, op.OutPoint, op.ClaimID, op.Amount, height, 0); err != nil {
				return err
			}
		default:
			return fault.ErrInvalidScriptOp
		}
	}
	return nil
}
