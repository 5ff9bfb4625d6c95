// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package param

// Config carries every construction parameter of the trie engine
// (spec.md §6). All fields are plain and caller-populated.
type Config struct {
	// CacheBytes bounds the store's block-cache soft limit.
	CacheBytes int

	// Wipe truncates every key space on open, discarding prior state.
	Wipe bool

	// Height seeds the initial nNextHeight.
	Height int32

	// DataDir is the filesystem directory holding the LevelDB handle.
	DataDir string

	// NormalizedNameForkHeight records the height of the name
	// normalization fork. AdjustNameForValidHeight does not consult it:
	// nodeName is identical to name at every height.
	NormalizedNameForkHeight int32

	// MinRemovalWorkaroundHeight and MaxRemovalWorkaroundHeight bound
	// the window in which the pre-fork removal-then-add bug (spec.md
	// §4.7's delay rule, step 3) is reproduced on purpose.
	MinRemovalWorkaroundHeight int32
	MaxRemovalWorkaroundHeight int32

	// ExtendedClaimExpirationForkHeight is the height past which newly
	// entered claims/supports use ExtendedClaimExpirationTime instead
	// of OriginalClaimExpirationTime.
	ExtendedClaimExpirationForkHeight int32

	// AllClaimsInMerkleForkHeight is the height past which every
	// active claim (not only the best one) contributes to a node's
	// hash. Recorded for forward compatibility; the hashing rule
	// implemented here follows spec.md §4.1, which specifies only the
	// best-claim contribution.
	AllClaimsInMerkleForkHeight int32

	// OriginalClaimExpirationTime and ExtendedClaimExpirationTime are
	// the two expiration windows selected by
	// ExtendedClaimExpirationForkHeight.
	OriginalClaimExpirationTime int32
	ExtendedClaimExpirationTime int32

	// ProportionalDelayFactor is the integer divisor in the delay rule
	// (spec.md §4.7, step 5).
	ProportionalDelayFactor int32
}

// DefaultConfig returns the LBRY mainnet constants cited in
// original_source and public protocol documentation, as documented
// defaults a caller may override in full or in part.
func DefaultConfig(dataDir string) Config {
	return Config{
		CacheBytes:                        8 << 20,
		Wipe:                              false,
		Height:                            0,
		DataDir:                           dataDir,
		NormalizedNameForkHeight:          539940,
		MinRemovalWorkaroundHeight:        496850,
		MaxRemovalWorkaroundHeight:        653524,
		ExtendedClaimExpirationForkHeight: 809243,
		AllClaimsInMerkleForkHeight:       658300,
		OriginalClaimExpirationTime:       262974,
		ExtendedClaimExpirationTime:       2102400,
		ProportionalDelayFactor:           32,
	}
}

// ExpirationTime returns the expiration window in effect for an item
// entered at entryHeight.
func (c Config) ExpirationTime(entryHeight int32) int32 {
	if entryHeight >= c.ExtendedClaimExpirationForkHeight {
		return c.ExtendedClaimExpirationTime
	}
	return c.OriginalClaimExpirationTime
}
