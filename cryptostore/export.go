// Copyright 2026 The Matrix Go SDK Authors
// SPDX-License-Identifier: Apache-2.0

package cryptostore

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"

	"filippo.io/age"

	"github.com/derivmug/matrix-go-sdk/lib/secret"
)

// ExportKeypair is an age x25519 keypair for account transport between
// machines. The identity (private half) lives in locked memory; the
// recipient string is safe to publish. Close releases the identity.
type ExportKeypair struct {
	// Identity is the age secret key (AGE-SECRET-KEY-1...) in locked
	// memory. Never log it or pass it on a command line.
	Identity *secret.Buffer

	// Recipient is the corresponding age public key (age1...).
	Recipient string
}

// GenerateExportKeypair creates a keypair for receiving account
// exports. Run it on the destination machine, share the recipient
// string, and keep the identity local.
func GenerateExportKeypair() (*ExportKeypair, error) {
	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return nil, fmt.Errorf("cryptostore: generating export keypair: %w", err)
	}

	// Move the secret key into locked memory immediately. The interim
	// string is heap-allocated and GC'd; the Buffer is the durable copy.
	identityBuffer, err := secret.NewFromBytes([]byte(identity.String()))
	if err != nil {
		return nil, fmt.Errorf("cryptostore: protecting export identity: %w", err)
	}

	return &ExportKeypair{
		Identity:  identityBuffer,
		Recipient: identity.Recipient().String(),
	}, nil
}

// Close releases the identity's locked memory. Idempotent.
func (k *ExportKeypair) Close() error {
	if k.Identity != nil {
		return k.Identity.Close()
	}
	return nil
}

// ExportAccount loads the stored account and encrypts it to the given
// age recipients, returning base64 ciphertext for transport. The
// account payload travels under the recipients' keys, so the local
// pickle key never leaves this machine.
func (s *Store) ExportAccount(ctx context.Context, pickleKey *secret.Buffer, recipients []string) (string, error) {
	if len(recipients) == 0 {
		return "", fmt.Errorf("cryptostore: at least one export recipient is required")
	}

	parsed := make([]age.Recipient, 0, len(recipients))
	for _, key := range recipients {
		recipient, err := age.ParseX25519Recipient(key)
		if err != nil {
			return "", fmt.Errorf("cryptostore: parsing export recipient %q: %w", key, err)
		}
		parsed = append(parsed, recipient)
	}

	account, err := s.LoadAccount(ctx, pickleKey)
	if err != nil {
		return "", err
	}
	if account == nil {
		return "", fmt.Errorf("cryptostore: no account stored for device %s", s.deviceID)
	}

	plaintext, err := marshalAccount(account)
	if err != nil {
		return "", err
	}
	defer secret.Zero(plaintext)

	var ciphertext bytes.Buffer
	writer, err := age.Encrypt(&ciphertext, parsed...)
	if err != nil {
		return "", fmt.Errorf("cryptostore: creating age encryptor: %w", err)
	}
	if _, err := writer.Write(plaintext); err != nil {
		return "", fmt.Errorf("cryptostore: encrypting account payload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("cryptostore: finalizing account export: %w", err)
	}

	s.logger.Info("account exported",
		"device_id", s.deviceID,
		"fingerprint", account.Fingerprint(),
		"recipients", len(recipients),
	)
	return base64.StdEncoding.EncodeToString(ciphertext.Bytes()), nil
}

// ImportAccount decrypts an exported account with the local identity,
// re-pickles it under the local pickle key, and saves it for the
// store's device ID, replacing any existing account. The identity and
// pickle key are borrowed, not closed.
func (s *Store) ImportAccount(ctx context.Context, ciphertext string, identity *secret.Buffer, pickleKey *secret.Buffer) error {
	parsed, err := age.ParseX25519Identity(identity.String())
	if err != nil {
		return fmt.Errorf("cryptostore: parsing export identity: %w", err)
	}

	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return fmt.Errorf("cryptostore: decoding export ciphertext: %w", err)
	}

	reader, err := age.Decrypt(bytes.NewReader(raw), parsed)
	if err != nil {
		return fmt.Errorf("cryptostore: decrypting account export: %w", err)
	}
	plaintext, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("cryptostore: reading decrypted account payload: %w", err)
	}
	defer secret.Zero(plaintext)

	account, err := unmarshalAccount(plaintext)
	if err != nil {
		return err
	}

	if err := s.SaveAccount(ctx, account, pickleKey); err != nil {
		return err
	}

	s.logger.Info("account imported",
		"device_id", s.deviceID,
		"fingerprint", account.Fingerprint(),
	)
	return nil
}
