// Copyright 2026 The Matrix Go SDK Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret holds key material in memory that the rest of the
// process cannot accidentally leak.
//
// [Buffer] backs its storage with an anonymous mmap region outside the
// Go heap: the garbage collector never copies or relocates it, mlock
// keeps it out of swap, and madvise(MADV_DONTDUMP) keeps it out of
// core dumps. Close zeroes the region before unmapping it, and any
// access after Close panics.
//
// The cryptostore package keeps pickle keys and export identities in
// Buffers; the bundled commands use them for passwords read from the
// terminal. [Zero] is the companion for transient plaintext that never
// reaches a Buffer.
package secret
