// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package claimtrie_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/nametrie/claim"
)

func TestGetDelayIsZeroForFirstClaimOnName(t *testing.T) {
	c, _ := openTestCache(t)

	var id claim.ID
	id[0] = 0x01
	entryHeight := c.NextHeight()
	require.NoError(t, c.AddClaim([]byte("first"), outPointFor(0), id, 100, entryHeight, 0, 0))

	claims, err := c.GetClaimsForName([]byte("first"))
	require.NoError(t, err)
	require.Len(t, claims, 1)
	assert.Equal(t, entryHeight, claims[0].ValidHeight)
}

func TestGetDelayIsZeroWhenSameClaimantExtendsControl(t *testing.T) {
	c, s := openTestCache(t)

	var id claim.ID
	id[0] = 0x01
	require.NoError(t, c.AddClaim([]byte("dog"), outPointFor(0), id, 100, c.NextHeight(), 0, 0))
	require.NoError(t, c.IncrementBlock())
	require.True(t, c.Flush())

	for c.NextHeight() < 500 {
		require.NoError(t, c.IncrementBlock())
	}
	require.True(t, c.Flush())

	// same claimant re-files against the name it already controls; the
	// takeover claimID matches, so the delay is 0 regardless of how far
	// nNextHeight has drifted from the original takeover height.
	require.NoError(t, c.AddClaim([]byte("dog"), outPointFor(1), id, 150, c.NextHeight(), 0, 0))

	claims, err := c.GetClaimsForName([]byte("dog"))
	require.NoError(t, err)
	require.Len(t, claims, 1)
	for _, cl := range claims {
		if cl.OutPoint == outPointFor(1) {
			assert.Equal(t, c.NextHeight(), cl.ValidHeight)
		}
	}

	_, found := s.LatestTakeover([]byte("dog"))
	require.True(t, found)
}

func TestGetDelayCapsAtMaxDelay(t *testing.T) {
	c, _ := openTestCache(t)

	var winner, challenger claim.ID
	winner[0] = 0x01
	challenger[0] = 0x02

	require.NoError(t, c.AddClaim([]byte("longstanding"), outPointFor(0), winner, 100, c.NextHeight(), 0, 0))
	require.NoError(t, c.IncrementBlock())
	require.True(t, c.Flush())

	// ProportionalDelayFactor is 32 in the test config; a gap of
	// 200,000 blocks computes a raw delay of 200000/32 = 6250, above the
	// 4032-block cap, so the observed validHeight must be exactly
	// nextHeight+4032.
	for c.NextHeight() < 200_000 {
		require.NoError(t, c.IncrementBlock())
	}
	require.True(t, c.Flush())

	entryHeight := c.NextHeight()
	require.NoError(t, c.AddClaim([]byte("longstanding"), outPointFor(1), challenger, 200, entryHeight, 0, 0))

	claims, err := c.GetClaimsForName([]byte("longstanding"))
	require.NoError(t, err)
	var got *claim.Claim
	for _, cl := range claims {
		if cl.ClaimID == challenger {
			got = cl
		}
	}
	require.NotNil(t, got)
	assert.Equal(t, entryHeight+4032, got.ValidHeight)
}

func TestClaimRemovalThenRefileGetsFreshDelay(t *testing.T) {
	c, s := openTestCache(t)

	var first, second claim.ID
	first[0] = 0x01
	second[0] = 0x02

	require.NoError(t, c.AddClaim([]byte("wa"), outPointFor(0), first, 100, c.NextHeight(), 0, 0))
	require.NoError(t, c.IncrementBlock())
	require.True(t, c.Flush())

	for c.NextHeight() < 1000 {
		require.NoError(t, c.IncrementBlock())
	}
	require.True(t, c.Flush())

	// remove the sole claim on the node; since it is the only claim, the
	// node no longer "should exist" once it is gone, so no workaround is
	// recorded and RemoveClaim itself just reports success.
	_, _, _, found, err := c.RemoveClaim(first, outPointFor(0))
	require.NoError(t, err)
	require.True(t, found)
	require.NoError(t, c.IncrementBlock())
	require.True(t, c.Flush())

	require.Nil(t, s.GetClaim(first))

	// a fresh claim on the now-empty name gets whatever delay the normal
	// rule computes (no prior controlling claimID survives to compare
	// against), i.e. zero since there is no current takeover row with a
	// non-nil claimID.
	require.NoError(t, c.AddClaim([]byte("wa"), outPointFor(1), second, 50, c.NextHeight(), 0, 0))
	claims, err := c.GetClaimsForName([]byte("wa"))
	require.NoError(t, err)
	require.Len(t, claims, 1)
	assert.Equal(t, c.NextHeight(), claims[0].ValidHeight)
}
