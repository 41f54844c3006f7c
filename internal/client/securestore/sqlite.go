package securestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gymdesk/internal/client/migrations"
	"github.com/dmitrijs2005/gymdesk/internal/common"
	"github.com/dmitrijs2005/gymdesk/internal/cryptox"
	"github.com/dmitrijs2005/gymdesk/internal/dbx"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

const (
	saltName = "kdf_salt"
	saltSize = 16
)

// SQLite is a Store backed by a sqlite database file.
type SQLite struct {
	mu  sync.RWMutex
	db  *sql.DB
	key []byte
}

var _ Store = (*SQLite)(nil)

// RunMigrations brings the secure store schema up to date.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// Open opens (creating if needed) the store at dsn, migrates it and unlocks
// it with secret. dsn may be ":memory:" for a throwaway store.
func Open(ctx context.Context, dsn string, secret []byte) (*SQLite, error) {
	if len(secret) == 0 {
		return nil, cryptox.ErrEmptySecret
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open secure store: %w", err)
	}
	// A single connection keeps ":memory:" databases alive and serialises writers.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate secure store: %w", err)
	}

	salt, err := loadOrCreateSalt(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	key, err := cryptox.DeriveStoreKey(secret, salt)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLite{db: db, key: key}, nil
}

func loadOrCreateSalt(ctx context.Context, db *sql.DB) ([]byte, error) {
	var salt []byte

	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		err := tx.QueryRowContext(ctx, `SELECT value FROM store_meta WHERE name = ?`, saltName).Scan(&salt)
		if err == nil {
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		salt = common.GenerateRandByteArray(saltSize)
		_, err = tx.ExecContext(ctx, `INSERT INTO store_meta (name, value) VALUES (?, ?)`, saltName, salt)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load store salt: %w", err)
	}
	return salt, nil
}

func (s *SQLite) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.key == nil {
		return "", false, common.ErrStoreLocked
	}

	var ciphertext, nonce []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT ciphertext, nonce FROM secure_items WHERE key = ?`, key,
	).Scan(&ciphertext, &nonce)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get secure item[%s]: %w", key, err)
	}

	plain, err := cryptox.Open(ciphertext, nonce, s.key, []byte(key))
	if err != nil {
		return "", false, fmt.Errorf("failed to get secure item[%s]: %w", key, common.ErrCorruptValue)
	}
	defer common.WipeByteArray(plain)

	return string(plain), true, nil
}

func (s *SQLite) Set(ctx context.Context, key, value string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.key == nil {
		return common.ErrStoreLocked
	}

	ciphertext, nonce, err := cryptox.Seal([]byte(value), s.key, []byte(key))
	if err != nil {
		return fmt.Errorf("failed to seal secure item[%s]: %w", key, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO secure_items (key, ciphertext, nonce, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			ciphertext = excluded.ciphertext,
			nonce      = excluded.nonce,
			updated_at = excluded.updated_at
	`, key, ciphertext, nonce)
	if err != nil {
		return fmt.Errorf("failed to set secure item[%s]: %w", key, err)
	}
	return nil
}

func (s *SQLite) Delete(ctx context.Context, key string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.key == nil {
		return common.ErrStoreLocked
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM secure_items WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete secure item[%s]: %w", key, err)
	}
	return nil
}

// Close wipes the derived key and closes the database. The store is locked
// afterwards; further calls return common.ErrStoreLocked.
func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.key == nil {
		return nil
	}
	common.WipeByteArray(s.key)
	s.key = nil
	return s.db.Close()
}
