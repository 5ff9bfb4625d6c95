// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package takeover holds the Takeover entity (spec.md §3) and the
// historical workaround lookup of spec.md §4.4/§9. The table ships
// with no entries; entries exist only once registered through
// AddWorkaround.
package takeover
