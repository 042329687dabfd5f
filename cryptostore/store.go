// Copyright 2026 The Matrix Go SDK Authors
// SPDX-License-Identifier: Apache-2.0

package cryptostore

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/zeebo/blake3"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/derivmug/matrix-go-sdk/lib/secret"
)

// ErrCorrupted reports that an on-disk pickle no longer matches its
// stored checksum. This is filesystem damage, not a wrong pickle key;
// a wrong key fails later, at AEAD authentication.
var ErrCorrupted = errors.New("cryptostore: pickle does not match its checksum")

// StoreConfig holds the parameters for opening an account store.
type StoreConfig struct {
	// DeviceID keys the stored account. Required.
	DeviceID string

	// Path is the SQLite database file. Missing parent directories are
	// created. Empty means <user config dir>/matrix-go-sdk/cryptostore.db.
	// Use ":memory:" in tests (pool size is forced to 1 then, since
	// each in-memory connection is an independent database).
	Path string

	// PoolSize is the number of connections in the pool. Defaults to 4
	// if zero or negative.
	PoolSize int

	// Logger receives operational messages. If nil, a no-op logger is
	// used.
	Logger *slog.Logger
}

// Store persists one pickled account per device ID in SQLite. It is
// safe for concurrent use; connections come from an internal pool.
type Store struct {
	pool     *sqlitex.Pool
	deviceID string
	path     string
	logger   *slog.Logger
}

const storeSchema = `
CREATE TABLE IF NOT EXISTS accounts (
    device_id  TEXT PRIMARY KEY,
    pickle     BLOB NOT NULL,
    checksum   TEXT NOT NULL,
    updated_at INTEGER NOT NULL
);
`

// Open opens (creating if needed) the account store. The caller must
// call Close when done.
func Open(config StoreConfig) (*Store, error) {
	if config.DeviceID == "" {
		return nil, fmt.Errorf("cryptostore: DeviceID is required")
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	path := config.Path
	if path == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("cryptostore: resolving default store path: %w", err)
		}
		path = filepath.Join(configDir, "matrix-go-sdk", "cryptostore.db")
	}

	poolSize := config.PoolSize
	if poolSize <= 0 {
		poolSize = 4
	}
	if path == ":memory:" {
		poolSize = 1
	} else {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("cryptostore: creating store directory: %w", err)
		}
	}

	pool, err := sqlitex.NewPool(path, sqlitex.PoolOptions{
		PoolSize:    poolSize,
		PrepareConn: prepareConnection,
	})
	if err != nil {
		return nil, fmt.Errorf("cryptostore: opening %s: %w", path, err)
	}

	logger.Info("cryptostore opened", "path", path, "device_id", config.DeviceID)
	return &Store{
		pool:     pool,
		deviceID: config.DeviceID,
		path:     path,
		logger:   logger,
	}, nil
}

// prepareConnection applies the standard pragmas and the schema. Runs
// once per pooled connection, on first use.
func prepareConnection(conn *sqlite.Conn) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if err := sqlitex.ExecuteTransient(conn, pragma, nil); err != nil {
			return fmt.Errorf("cryptostore: %s: %w", pragma, err)
		}
	}
	if err := sqlitex.ExecuteScript(conn, storeSchema, nil); err != nil {
		return fmt.Errorf("cryptostore: creating schema: %w", err)
	}
	return nil
}

// SaveAccount pickles the account under pickleKey and upserts it for
// the store's device ID. The pickle key is borrowed, not closed.
func (s *Store) SaveAccount(ctx context.Context, account *Account, pickleKey *secret.Buffer) error {
	pickle, err := account.Pickle(pickleKey)
	if err != nil {
		return err
	}

	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("cryptostore: save account: %w", err)
	}
	defer s.pool.Put(conn)

	err = sqlitex.Execute(conn, `
		INSERT INTO accounts (device_id, pickle, checksum, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (device_id) DO UPDATE SET
			pickle = excluded.pickle,
			checksum = excluded.checksum,
			updated_at = excluded.updated_at`,
		&sqlitex.ExecOptions{
			Args: []any{s.deviceID, pickle, pickleChecksum(pickle), time.Now().Unix()},
		})
	if err != nil {
		return fmt.Errorf("cryptostore: save account: %w", err)
	}

	s.logger.Info("account saved",
		"device_id", s.deviceID,
		"fingerprint", account.Fingerprint(),
	)
	return nil
}

// LoadAccount loads and unpickles the stored account. It returns
// (nil, nil) when no account has been saved for the device ID, an
// error wrapping ErrCorrupted when the blob fails its checksum, and an
// authentication error when pickleKey is wrong.
func (s *Store) LoadAccount(ctx context.Context, pickleKey *secret.Buffer) (*Account, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("cryptostore: load account: %w", err)
	}
	defer s.pool.Put(conn)

	var pickle []byte
	var checksum string
	err = sqlitex.Execute(conn,
		"SELECT pickle, checksum FROM accounts WHERE device_id = ?",
		&sqlitex.ExecOptions{
			Args: []any{s.deviceID},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				pickle = make([]byte, stmt.ColumnLen(0))
				stmt.ColumnBytes(0, pickle)
				checksum = stmt.ColumnText(1)
				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("cryptostore: load account: %w", err)
	}
	if pickle == nil {
		return nil, nil
	}

	if pickleChecksum(pickle) != checksum {
		return nil, fmt.Errorf("%w (device %s)", ErrCorrupted, s.deviceID)
	}

	account, err := UnpickleAccount(pickle, pickleKey)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("account loaded",
		"device_id", s.deviceID,
		"fingerprint", account.Fingerprint(),
	)
	return account, nil
}

// RemoveAccount deletes the stored account. Removing an absent account
// is not an error.
func (s *Store) RemoveAccount(ctx context.Context) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("cryptostore: remove account: %w", err)
	}
	defer s.pool.Put(conn)

	err = sqlitex.Execute(conn,
		"DELETE FROM accounts WHERE device_id = ?",
		&sqlitex.ExecOptions{Args: []any{s.deviceID}})
	if err != nil {
		return fmt.Errorf("cryptostore: remove account: %w", err)
	}

	s.logger.Info("account removed", "device_id", s.deviceID)
	return nil
}

// Close closes the connection pool. Blocks until all borrowed
// connections are returned.
func (s *Store) Close() error {
	if err := s.pool.Close(); err != nil {
		return fmt.Errorf("cryptostore: closing %s: %w", s.path, err)
	}
	return nil
}

// pickleChecksum is the BLAKE3 hex digest of a pickle blob, stored
// beside it to detect on-disk corruption.
func pickleChecksum(pickle []byte) string {
	sum := blake3.Sum256(pickle)
	return hex.EncodeToString(sum[:])
}
