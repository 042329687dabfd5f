// Copyright 2026 The Matrix Go SDK Authors
// SPDX-License-Identifier: Apache-2.0

package cryptostore

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/curve25519"

	"github.com/derivmug/matrix-go-sdk/lib/secret"
)

// Account is a device's long-term identity: an ed25519 key for signing
// and a curve25519 key for key agreement. The private halves never
// leave the process unencrypted; Pickle and the Store handle
// persistence.
type Account struct {
	signingKey   ed25519.PrivateKey
	agreementKey []byte // curve25519 scalar, 32 bytes
}

// IdentityKeys carries an account's public keys in the unpadded base64
// form the Matrix key-exchange payloads use. Safe to publish.
type IdentityKeys struct {
	Ed25519    string
	Curve25519 string
}

// GenerateAccount creates an account with fresh random keys.
func GenerateAccount() (*Account, error) {
	_, signingKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("cryptostore: generating ed25519 key: %w", err)
	}

	agreementKey := make([]byte, curve25519.ScalarSize)
	if _, err := io.ReadFull(rand.Reader, agreementKey); err != nil {
		return nil, fmt.Errorf("cryptostore: generating curve25519 key: %w", err)
	}

	return &Account{signingKey: signingKey, agreementKey: agreementKey}, nil
}

// IdentityKeys returns the account's public keys.
func (a *Account) IdentityKeys() IdentityKeys {
	return IdentityKeys{
		Ed25519:    base64.RawStdEncoding.EncodeToString(a.signingKey.Public().(ed25519.PublicKey)),
		Curve25519: base64.RawStdEncoding.EncodeToString(a.agreementPublic()),
	}
}

// Sign signs message with the account's ed25519 key and returns the
// signature in unpadded base64.
func (a *Account) Sign(message []byte) string {
	return base64.RawStdEncoding.EncodeToString(ed25519.Sign(a.signingKey, message))
}

// SharedSecret performs X25519 key agreement with a peer's curve25519
// public identity key (unpadded base64, as published in IdentityKeys).
// The 32-byte secret comes back in locked memory; the caller owns the
// Buffer and must Close it.
func (a *Account) SharedSecret(peerCurve25519 string) (*secret.Buffer, error) {
	peer, err := base64.RawStdEncoding.DecodeString(peerCurve25519)
	if err != nil {
		return nil, fmt.Errorf("cryptostore: decoding peer curve25519 key: %w", err)
	}

	shared, err := curve25519.X25519(a.agreementKey, peer)
	if err != nil {
		return nil, fmt.Errorf("cryptostore: X25519 key agreement: %w", err)
	}
	// NewFromBytes zeroes the heap copy of the secret.
	return secret.NewFromBytes(shared)
}

// Fingerprint returns a short hex digest over both public keys, for
// logs and human comparison. It identifies the account; it is not a
// substitute for verifying the full keys.
func (a *Account) Fingerprint() string {
	hasher := blake3.New()
	hasher.Write(a.signingKey.Public().(ed25519.PublicKey))
	hasher.Write(a.agreementPublic())
	return hex.EncodeToString(hasher.Sum(nil)[:8])
}

func (a *Account) agreementPublic() []byte {
	public, err := curve25519.X25519(a.agreementKey, curve25519.Basepoint)
	if err != nil {
		// Only reachable with a corrupted scalar, which GenerateAccount
		// and UnpickleAccount never produce.
		panic("cryptostore: deriving curve25519 public key: " + err.Error())
	}
	return public
}
