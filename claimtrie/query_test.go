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

func TestGetActivatedClaimsReturnsClaimAtItsActivationHeight(t *testing.T) {
	c, _ := openTestCache(t)

	var id claim.ID
	id[0] = 0x01
	activation := c.NextHeight() + 5
	require.NoError(t, c.AddClaim([]byte("grape"), outPointFor(0), id, 10, c.NextHeight(), activation, 0))

	claims, err := c.GetActivatedClaims(activation)
	require.NoError(t, err)
	require.Len(t, claims, 1)
	assert.Equal(t, id, claims[0].ClaimID)

	empty, err := c.GetActivatedClaims(activation + 1)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGetClaimsWithActivatedSupportsDeduplicatesByClaim(t *testing.T) {
	c, _ := openTestCache(t)

	var id claim.ID
	id[0] = 0x01
	require.NoError(t, c.AddClaim([]byte("honeydew"), outPointFor(0), id, 10, c.NextHeight(), 0, 0))

	activation := c.NextHeight() + 3
	require.NoError(t, c.AddSupport([]byte("honeydew"), outPointFor(1), id, 5, c.NextHeight(), activation))
	require.NoError(t, c.AddSupport([]byte("honeydew"), outPointFor(2), id, 5, c.NextHeight(), activation))

	claims, err := c.GetClaimsWithActivatedSupports(activation)
	require.NoError(t, err)
	require.Len(t, claims, 1)
	assert.Equal(t, id, claims[0].ClaimID)
}

func TestGetExpiredClaimsReturnsClaimAtItsExpirationHeight(t *testing.T) {
	c, s := openTestCache(t)

	var id claim.ID
	id[0] = 0x01
	require.NoError(t, c.AddClaim([]byte("kiwi"), outPointFor(0), id, 10, c.NextHeight(), 0, 0))

	stored := s.GetClaim(id)
	require.NotNil(t, stored)

	claims, err := c.GetExpiredClaims(stored.ExpirationHeight)
	require.NoError(t, err)
	require.Len(t, claims, 1)
	assert.Equal(t, id, claims[0].ClaimID)
}

func TestGetClaimsWithExpiredSupportsDeduplicatesByClaim(t *testing.T) {
	c, s := openTestCache(t)

	var id claim.ID
	id[0] = 0x01
	require.NoError(t, c.AddClaim([]byte("lime"), outPointFor(0), id, 10, c.NextHeight(), 0, 0))
	require.NoError(t, c.AddSupport([]byte("lime"), outPointFor(1), id, 5, c.NextHeight(), 0))

	sup := s.GetSupport(outPointFor(1))
	require.NotNil(t, sup)

	claims, err := c.GetClaimsWithExpiredSupports(sup.ExpirationHeight)
	require.NoError(t, err)
	require.Len(t, claims, 1)
	assert.Equal(t, id, claims[0].ClaimID)
}

func TestHaveClaimInQueueBeforeAndAfterActivation(t *testing.T) {
	c, _ := openTestCache(t)

	var id claim.ID
	id[0] = 0x01
	activation := c.NextHeight() + 4
	require.NoError(t, c.AddClaim([]byte("mango"), outPointFor(0), id, 10, c.NextHeight(), activation, 0))

	assert.True(t, c.HaveClaimInQueue(id))

	for c.NextHeight() <= activation {
		require.NoError(t, c.IncrementBlock())
	}
	require.True(t, c.Flush())

	assert.False(t, c.HaveClaimInQueue(id))
}

func TestHaveSupportInQueueBeforeAndAfterActivation(t *testing.T) {
	c, _ := openTestCache(t)

	var id claim.ID
	id[0] = 0x01
	require.NoError(t, c.AddClaim([]byte("nectarine"), outPointFor(0), id, 10, c.NextHeight(), 0, 0))
	require.NoError(t, c.IncrementBlock())
	require.True(t, c.Flush())

	activation := c.NextHeight() + 4
	require.NoError(t, c.AddSupport([]byte("nectarine"), outPointFor(1), id, 5, c.NextHeight(), activation))
	assert.True(t, c.HaveSupportInQueue(outPointFor(1)))

	for c.NextHeight() <= activation {
		require.NoError(t, c.IncrementBlock())
	}
	require.True(t, c.Flush())

	assert.False(t, c.HaveSupportInQueue(outPointFor(1)))
}

func TestGetTotalValueOfClaimsInTrieControllingVsAll(t *testing.T) {
	c, _ := openTestCache(t)

	var winner, loser claim.ID
	winner[0] = 0x01
	loser[0] = 0x02

	require.NoError(t, c.AddClaim([]byte("olive"), outPointFor(0), winner, 100, c.NextHeight(), 0, 0))
	require.NoError(t, c.AddClaim([]byte("olive"), outPointFor(1), loser, 40, c.NextHeight(), 0, 0))
	require.NoError(t, c.IncrementBlock())
	require.True(t, c.Flush())

	controlling, err := c.GetTotalValueOfClaimsInTrie(true)
	require.NoError(t, err)
	assert.EqualValues(t, 100, controlling)

	all, err := c.GetTotalValueOfClaimsInTrie(false)
	require.NoError(t, err)
	assert.EqualValues(t, 140, all)
}

func TestGetNamesInTrieExcludesRoot(t *testing.T) {
	c, _ := openTestCache(t)

	var id claim.ID
	id[0] = 0x01
	require.NoError(t, c.AddClaim([]byte("papaya"), outPointFor(0), id, 10, c.NextHeight(), 0, 0))
	require.NoError(t, c.IncrementBlock())
	require.True(t, c.Flush())

	names, err := c.GetNamesInTrie()
	require.NoError(t, err)
	for _, n := range names {
		assert.NotEmpty(t, n)
	}
	assert.Contains(t, namesAsStrings(names), "papaya")
}

func namesAsStrings(names [][]byte) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = string(n)
	}
	return out
}
