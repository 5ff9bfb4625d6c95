// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package claim holds the Claim entity (spec.md §3), the best-claim
// ordering rule, and effective-amount computation. Everything here is
// pure and store-independent; store lookups that feed these functions
// (which supports target a claim, which claims are active) are the
// caller's job.
package claim
