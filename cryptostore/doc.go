// Copyright 2026 The Matrix Go SDK Authors
// SPDX-License-Identifier: Apache-2.0

// Package cryptostore persists a device's long-term identity keys.
//
// An [Account] holds the ed25519 signing key and curve25519
// key-agreement key that identify one device to its peers. Accounts
// are serialized with [Account.Pickle]: a deterministic CBOR payload
// sealed with XChaCha20-Poly1305 under a key derived (HKDF-SHA256,
// random salt) from a caller-supplied pickle key. A wrong key or a
// tampered blob fails authentication instead of yielding garbage keys.
//
// [Store] keeps one pickled account per device ID in a SQLite
// database, with a BLAKE3 checksum to tell on-disk corruption apart
// from a wrong pickle key. [Store.ExportAccount] and
// [Store.ImportAccount] move an account between machines as an
// age-encrypted payload, so the pickle key never has to travel.
//
// Pickle keys and export identities live in secret.Buffer values:
// locked memory outside the Go heap, zeroed on close. This package
// stores identity material only; it does not implement end-to-end
// message encryption.
package cryptostore
