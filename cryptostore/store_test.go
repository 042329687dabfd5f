// Copyright 2026 The Matrix Go SDK Authors
// SPDX-License-Identifier: Apache-2.0

package cryptostore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// openTestStore opens a store on a per-test database file, closed with
// the test.
func openTestStore(t *testing.T, deviceID string) *Store {
	t.Helper()
	store, err := Open(StoreConfig{
		DeviceID: deviceID,
		Path:     filepath.Join(t.TempDir(), "cryptostore.db"),
	})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpenRequiresDeviceID(t *testing.T) {
	if _, err := Open(StoreConfig{Path: ":memory:"}); err == nil {
		t.Error("Open succeeded without a device ID")
	}
}

func TestLoadAccountEmpty(t *testing.T) {
	store := openTestStore(t, "EMPTYDEVICE")

	account, err := store.LoadAccount(context.Background(), newPickleKey(t, 0xA1))
	if err != nil {
		t.Fatalf("LoadAccount failed: %v", err)
	}
	if account != nil {
		t.Error("LoadAccount returned an account from an empty store")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := openTestStore(t, "TESTDEVICE")
	key := newPickleKey(t, 0xA1)
	ctx := context.Background()

	account, err := GenerateAccount()
	if err != nil {
		t.Fatalf("GenerateAccount failed: %v", err)
	}
	if err := store.SaveAccount(ctx, account, key); err != nil {
		t.Fatalf("SaveAccount failed: %v", err)
	}

	loaded, err := store.LoadAccount(ctx, key)
	if err != nil {
		t.Fatalf("LoadAccount failed: %v", err)
	}
	if loaded == nil {
		t.Fatal("LoadAccount returned nil after SaveAccount")
	}
	if loaded.Fingerprint() != account.Fingerprint() {
		t.Error("loaded account has a different fingerprint")
	}
}

func TestSaveAccountOverwrites(t *testing.T) {
	store := openTestStore(t, "TESTDEVICE")
	key := newPickleKey(t, 0xA1)
	ctx := context.Background()

	first, err := GenerateAccount()
	if err != nil {
		t.Fatalf("GenerateAccount failed: %v", err)
	}
	if err := store.SaveAccount(ctx, first, key); err != nil {
		t.Fatalf("SaveAccount failed: %v", err)
	}

	second, err := GenerateAccount()
	if err != nil {
		t.Fatalf("GenerateAccount failed: %v", err)
	}
	if err := store.SaveAccount(ctx, second, key); err != nil {
		t.Fatalf("second SaveAccount failed: %v", err)
	}

	loaded, err := store.LoadAccount(ctx, key)
	if err != nil {
		t.Fatalf("LoadAccount failed: %v", err)
	}
	if loaded.Fingerprint() != second.Fingerprint() {
		t.Error("LoadAccount did not return the most recently saved account")
	}
}

func TestLoadAccountWrongKey(t *testing.T) {
	store := openTestStore(t, "TESTDEVICE")
	ctx := context.Background()

	account, err := GenerateAccount()
	if err != nil {
		t.Fatalf("GenerateAccount failed: %v", err)
	}
	if err := store.SaveAccount(ctx, account, newPickleKey(t, 0xA1)); err != nil {
		t.Fatalf("SaveAccount failed: %v", err)
	}

	_, err = store.LoadAccount(ctx, newPickleKey(t, 0xB2))
	if err == nil {
		t.Fatal("LoadAccount succeeded with the wrong pickle key")
	}
	if errors.Is(err, ErrCorrupted) {
		t.Error("wrong pickle key was misreported as on-disk corruption")
	}
}

func TestLoadAccountCorruption(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cryptostore.db")
	store, err := Open(StoreConfig{DeviceID: "TESTDEVICE", Path: path})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	key := newPickleKey(t, 0xA1)
	ctx := context.Background()

	account, err := GenerateAccount()
	if err != nil {
		t.Fatalf("GenerateAccount failed: %v", err)
	}
	if err := store.SaveAccount(ctx, account, key); err != nil {
		t.Fatalf("SaveAccount failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Damage the pickle behind the store's back.
	conn, err := sqlite.OpenConn(path, sqlite.OpenReadWrite)
	if err != nil {
		t.Fatalf("opening database directly: %v", err)
	}
	err = sqlitex.Execute(conn,
		"UPDATE accounts SET pickle = X'DEADBEEF' WHERE device_id = 'TESTDEVICE'", nil)
	conn.Close()
	if err != nil {
		t.Fatalf("corrupting pickle: %v", err)
	}

	store, err = Open(StoreConfig{DeviceID: "TESTDEVICE", Path: path})
	if err != nil {
		t.Fatalf("reopening store: %v", err)
	}
	defer store.Close()

	_, err = store.LoadAccount(ctx, key)
	if !errors.Is(err, ErrCorrupted) {
		t.Errorf("LoadAccount returned %v, want ErrCorrupted", err)
	}
}

func TestRemoveAccount(t *testing.T) {
	store := openTestStore(t, "TESTDEVICE")
	key := newPickleKey(t, 0xA1)
	ctx := context.Background()

	// Removing from an empty store is fine.
	if err := store.RemoveAccount(ctx); err != nil {
		t.Fatalf("RemoveAccount on empty store failed: %v", err)
	}

	account, err := GenerateAccount()
	if err != nil {
		t.Fatalf("GenerateAccount failed: %v", err)
	}
	if err := store.SaveAccount(ctx, account, key); err != nil {
		t.Fatalf("SaveAccount failed: %v", err)
	}
	if err := store.RemoveAccount(ctx); err != nil {
		t.Fatalf("RemoveAccount failed: %v", err)
	}

	loaded, err := store.LoadAccount(ctx, key)
	if err != nil {
		t.Fatalf("LoadAccount failed: %v", err)
	}
	if loaded != nil {
		t.Error("account still present after RemoveAccount")
	}
}

func TestStoresAreDeviceScoped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cryptostore.db")
	key := newPickleKey(t, 0xA1)
	ctx := context.Background()

	first, err := Open(StoreConfig{DeviceID: "DEVICEONE", Path: path})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer first.Close()
	second, err := Open(StoreConfig{DeviceID: "DEVICETWO", Path: path})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer second.Close()

	account, err := GenerateAccount()
	if err != nil {
		t.Fatalf("GenerateAccount failed: %v", err)
	}
	if err := first.SaveAccount(ctx, account, key); err != nil {
		t.Fatalf("SaveAccount failed: %v", err)
	}

	loaded, err := second.LoadAccount(ctx, key)
	if err != nil {
		t.Fatalf("LoadAccount failed: %v", err)
	}
	if loaded != nil {
		t.Error("device two sees device one's account")
	}
}
