// Copyright 2026 The Matrix Go SDK Authors
// SPDX-License-Identifier: Apache-2.0

package cryptostore

import (
	"bytes"
	"testing"
)

func TestPickleRoundTrip(t *testing.T) {
	account, err := GenerateAccount()
	if err != nil {
		t.Fatalf("GenerateAccount failed: %v", err)
	}
	key := newPickleKey(t, 0xA1)

	pickle, err := account.Pickle(key)
	if err != nil {
		t.Fatalf("Pickle failed: %v", err)
	}

	restored, err := UnpickleAccount(pickle, key)
	if err != nil {
		t.Fatalf("UnpickleAccount failed: %v", err)
	}

	if restored.IdentityKeys() != account.IdentityKeys() {
		t.Error("restored account has different identity keys")
	}
	if restored.Fingerprint() != account.Fingerprint() {
		t.Error("restored account has a different fingerprint")
	}

	// The restored signing key must actually work, not just compare
	// equal on the public half.
	message := []byte("probe")
	if restored.Sign(message) != account.Sign(message) {
		t.Error("restored account signs differently")
	}
}

func TestPickleFreshRandomness(t *testing.T) {
	account, err := GenerateAccount()
	if err != nil {
		t.Fatalf("GenerateAccount failed: %v", err)
	}
	key := newPickleKey(t, 0xA1)

	first, err := account.Pickle(key)
	if err != nil {
		t.Fatalf("Pickle failed: %v", err)
	}
	second, err := account.Pickle(key)
	if err != nil {
		t.Fatalf("Pickle failed: %v", err)
	}

	// Random salt and nonce per call: same account, unrelated blobs.
	if bytes.Equal(first, second) {
		t.Error("two pickles of the same account are byte-identical")
	}
	for _, pickle := range [][]byte{first, second} {
		if _, err := UnpickleAccount(pickle, key); err != nil {
			t.Errorf("UnpickleAccount failed: %v", err)
		}
	}
}

func TestUnpickleWrongKey(t *testing.T) {
	account, err := GenerateAccount()
	if err != nil {
		t.Fatalf("GenerateAccount failed: %v", err)
	}

	pickle, err := account.Pickle(newPickleKey(t, 0xA1))
	if err != nil {
		t.Fatalf("Pickle failed: %v", err)
	}

	if _, err := UnpickleAccount(pickle, newPickleKey(t, 0xB2)); err == nil {
		t.Error("UnpickleAccount succeeded with the wrong key")
	}
}

func TestUnpickleTamperedBlob(t *testing.T) {
	account, err := GenerateAccount()
	if err != nil {
		t.Fatalf("GenerateAccount failed: %v", err)
	}
	key := newPickleKey(t, 0xA1)

	pickle, err := account.Pickle(key)
	if err != nil {
		t.Fatalf("Pickle failed: %v", err)
	}

	t.Run("flipped ciphertext bit", func(t *testing.T) {
		tampered := append([]byte(nil), pickle...)
		tampered[len(tampered)-1] ^= 0x01
		if _, err := UnpickleAccount(tampered, key); err == nil {
			t.Error("UnpickleAccount accepted a tampered blob")
		}
	})

	t.Run("flipped salt bit", func(t *testing.T) {
		tampered := append([]byte(nil), pickle...)
		tampered[0] ^= 0x01
		if _, err := UnpickleAccount(tampered, key); err == nil {
			t.Error("UnpickleAccount accepted a blob with a tampered salt")
		}
	})

	t.Run("truncated", func(t *testing.T) {
		if _, err := UnpickleAccount(pickle[:10], key); err == nil {
			t.Error("UnpickleAccount accepted a truncated blob")
		}
	})
}
