// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package support holds the Support entity (spec.md §3): an auxiliary
// on-chain stake that adds to a claim's effective amount when both
// share the same nodeName and the support is in its active window.
package support
