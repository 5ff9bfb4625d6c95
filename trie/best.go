// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package trie

import (
	"github.com/bitmark-inc/nametrie/claim"
	"github.com/bitmark-inc/nametrie/store"
)

// ActiveAt reports whether an item with the given activation and
// expiration heights is active for the "currently active" queries of
// spec.md §3: activationHeight < atHeight AND expirationHeight >=
// atHeight. Exported for claimtrie.Cache's delay rule, which asks the
// same "currently active as of nNextHeight" question outside this
// package.
func ActiveAt(activationHeight, expirationHeight, atHeight int32) bool {
	return activationHeight < atHeight && expirationHeight >= atHeight
}

func activeAt(activationHeight, expirationHeight, atHeight int32) bool {
	return ActiveAt(activationHeight, expirationHeight, atHeight)
}

// bestClaimAt computes the winning claim on nodeName as of atHeight,
// folding in every active support that targets it (spec.md §3's
// effective-amount and best-claim rules). It always hits the store;
// callers that repeat this lookup within a block should go through a
// ReadCache instead (see cache.go).
func bestClaimAt(s *store.Store, nodeName []byte, atHeight int32) (*claim.Candidate, error) {
	claims, err := s.ClaimsForNode(nodeName)
	if err != nil {
		return nil, err
	}
	if len(claims) == 0 {
		return nil, nil
	}
	supports, err := s.SupportsForNode(nodeName)
	if err != nil {
		return nil, err
	}

	var candidates []claim.Candidate
	for _, c := range claims {
		if !activeAt(c.ActivationHeight, c.ExpirationHeight, atHeight) {
			continue
		}
		var supportAmounts []int64
		for _, sup := range supports {
			if sup.SupportedClaimID != c.ClaimID {
				continue
			}
			if !activeAt(sup.ActivationHeight, sup.ExpirationHeight, atHeight) {
				continue
			}
			supportAmounts = append(supportAmounts, sup.Amount)
		}
		candidates = append(candidates, claim.Candidate{
			Claim:           c,
			EffectiveAmount: claim.EffectiveAmount(c.Amount, supportAmounts),
		})
	}
	return claim.Best(candidates), nil
}
