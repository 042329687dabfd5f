// Copyright 2026 The Matrix Go SDK Authors
// SPDX-License-Identifier: Apache-2.0

package cryptostore

import (
	"crypto/cipher"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/hkdf"

	"github.com/derivmug/matrix-go-sdk/lib/secret"
)

// pickleVersion is embedded in the payload so a future key format can
// be told apart from this one after decryption.
const pickleVersion = 1

// pickleSaltSize is the size of the random HKDF salt prepended to each
// pickle. A fresh salt per Pickle call means the same account pickled
// twice under the same key produces unrelated ciphertexts.
const pickleSaltSize = 16

// pickleKeySize is the derived AEAD key size.
const pickleKeySize = chacha20poly1305.KeySize

// pickleInfo is the HKDF domain-separation tag. It doubles as the AEAD
// additional data, binding ciphertexts to this derivation path.
var pickleInfo = []byte("matrix-go-sdk.cryptostore.pickle.v1")

// picklePayload is the CBOR form of an account's private keys.
type picklePayload struct {
	Version           int    `cbor:"version"`
	Ed25519Private    []byte `cbor:"ed25519_private"`
	Curve25519Private []byte `cbor:"curve25519_private"`
}

// encMode is the CBOR encoder configured with Core Deterministic
// Encoding (RFC 8949 §4.2): the same account always produces identical
// payload bytes, so the store's checksum is meaningful.
var encMode cbor.EncMode

// decMode accepts standard CBOR and ignores unknown fields, so a newer
// writer's extra fields do not break an older reader.
var decMode cbor.DecMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("cryptostore: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("cryptostore: CBOR decoder initialization failed: " + err.Error())
	}
}

// Pickle serializes the account and seals it under pickleKey. The
// output layout is salt || nonce || ciphertext: a random 16-byte HKDF
// salt, a random 24-byte XChaCha20-Poly1305 nonce, then the
// authenticated payload. The pickle key is borrowed, not closed.
func (a *Account) Pickle(pickleKey *secret.Buffer) ([]byte, error) {
	plaintext, err := marshalAccount(a)
	if err != nil {
		return nil, err
	}
	defer secret.Zero(plaintext)

	salt := make([]byte, pickleSaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("cryptostore: generating pickle salt: %w", err)
	}

	aead, err := pickleAEAD(pickleKey, salt)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("cryptostore: generating pickle nonce: %w", err)
	}

	output := make([]byte, pickleSaltSize+chacha20poly1305.NonceSizeX, pickleSaltSize+chacha20poly1305.NonceSizeX+len(plaintext)+aead.Overhead())
	copy(output, salt)
	copy(output[pickleSaltSize:], nonce)
	return aead.Seal(output, nonce, plaintext, pickleInfo), nil
}

// UnpickleAccount opens a blob produced by Pickle. A wrong key and a
// tampered blob are indistinguishable by construction: both fail AEAD
// authentication.
func UnpickleAccount(data []byte, pickleKey *secret.Buffer) (*Account, error) {
	minimum := pickleSaltSize + chacha20poly1305.NonceSizeX + chacha20poly1305.Overhead
	if len(data) < minimum {
		return nil, fmt.Errorf("cryptostore: pickle is %d bytes, minimum is %d", len(data), minimum)
	}

	salt := data[:pickleSaltSize]
	nonce := data[pickleSaltSize : pickleSaltSize+chacha20poly1305.NonceSizeX]
	ciphertext := data[pickleSaltSize+chacha20poly1305.NonceSizeX:]

	aead, err := pickleAEAD(pickleKey, salt)
	if err != nil {
		return nil, err
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, pickleInfo)
	if err != nil {
		return nil, fmt.Errorf("cryptostore: pickle authentication failed (wrong key or tampered data): %w", err)
	}
	defer secret.Zero(plaintext)

	return unmarshalAccount(plaintext)
}

// pickleAEAD derives the AEAD from the pickle key and salt. The pickle
// key is borrowed, not closed.
func pickleAEAD(pickleKey *secret.Buffer, salt []byte) (cipher.AEAD, error) {
	reader := hkdf.New(sha256.New, pickleKey.Bytes(), salt, pickleInfo)
	derived := make([]byte, pickleKeySize)
	if _, err := io.ReadFull(reader, derived); err != nil {
		secret.Zero(derived)
		return nil, fmt.Errorf("cryptostore: HKDF key derivation failed: %w", err)
	}
	defer secret.Zero(derived)

	aead, err := chacha20poly1305.NewX(derived)
	if err != nil {
		return nil, fmt.Errorf("cryptostore: creating XChaCha20-Poly1305 cipher: %w", err)
	}
	return aead, nil
}

// marshalAccount encodes the account's private keys as deterministic
// CBOR. The caller must zero the result after its last use.
func marshalAccount(account *Account) ([]byte, error) {
	payload, err := encMode.Marshal(picklePayload{
		Version:           pickleVersion,
		Ed25519Private:    account.signingKey,
		Curve25519Private: account.agreementKey,
	})
	if err != nil {
		return nil, fmt.Errorf("cryptostore: encoding account payload: %w", err)
	}
	return payload, nil
}

// unmarshalAccount decodes and validates an account payload.
func unmarshalAccount(data []byte) (*Account, error) {
	var payload picklePayload
	if err := decMode.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("cryptostore: decoding account payload: %w", err)
	}
	if payload.Version != pickleVersion {
		return nil, fmt.Errorf("cryptostore: account payload version %d is not supported (expected %d)", payload.Version, pickleVersion)
	}
	if len(payload.Ed25519Private) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("cryptostore: ed25519 key is %d bytes, want %d", len(payload.Ed25519Private), ed25519.PrivateKeySize)
	}
	if len(payload.Curve25519Private) != curve25519.ScalarSize {
		return nil, fmt.Errorf("cryptostore: curve25519 key is %d bytes, want %d", len(payload.Curve25519Private), curve25519.ScalarSize)
	}

	return &Account{
		signingKey:   ed25519.PrivateKey(append([]byte(nil), payload.Ed25519Private...)),
		agreementKey: append([]byte(nil), payload.Curve25519Private...),
	}, nil
}
