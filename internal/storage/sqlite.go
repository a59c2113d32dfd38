package storage

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"

	"github.com/vedsharma/apicli/internal/logger"

	_ "modernc.org/sqlite"
)

const dbFile = "apicli.db"

// ensureSecureFile creates a file with secure permissions if it doesn't exist,
// or verifies/fixes permissions if it does exist. This prevents a TOCTOU race
// condition where the file could be created with insecure default permissions.
func ensureSecureFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, secureFileMode)
		if err != nil {
			return errors.Wrap(err, "failed to create secure file")
		}
		f.Close()
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "failed to stat file")
	}

	if info.Mode().Perm() != secureFileMode {
		if err := os.Chmod(path, secureFileMode); err != nil {
			return errors.Wrap(err, "failed to set secure permissions")
		}
	}
	return nil
}

// SQLiteKV keeps documents in a single SQLite table
type SQLiteKV struct {
	db      *sql.DB
	dataDir string
}

// NewSQLiteKV opens (creating if needed) the database in dataDir
func NewSQLiteKV(dataDir string) (*SQLiteKV, error) {
	if err := os.MkdirAll(dataDir, secureDirMode); err != nil {
		return nil, errors.Wrapf(err, "create data dir %q", dataDir)
	}

	dbPath := filepath.Join(dataDir, dbFile)
	if err := ensureSecureFile(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}

	s := &SQLiteKV{db: db, dataDir: dataDir}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	// Migration errors shouldn't prevent startup
	if err := s.migrateFromJSON(); err != nil {
		logger.Logger.Warn("migrate json storage", zap.Error(err))
	}
	return s, nil
}

func (s *SQLiteKV) initSchema() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	);`)
	if err != nil {
		return errors.Wrap(err, "init schema")
	}
	return nil
}

func (s *SQLiteKV) Get(key string) ([]byte, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "get %q", key)
	}
	return []byte(value), true, nil
}

func (s *SQLiteKV) Put(key string, value []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(value), time.Now())
	if err != nil {
		return errors.Wrapf(err, "put %q", key)
	}
	return nil
}

func (s *SQLiteKV) Delete(key string) error {
	if _, err := s.db.Exec("DELETE FROM kv WHERE key = ?", key); err != nil {
		return errors.Wrapf(err, "delete %q", key)
	}
	return nil
}

func (s *SQLiteKV) Keys() ([]string, error) {
	rows, err := s.db.Query("SELECT key FROM kv ORDER BY key")
	if err != nil {
		return nil, errors.Wrap(err, "list keys")
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// Close closes the database connection
func (s *SQLiteKV) Close() error {
	return s.db.Close()
}

// migrateFromJSON imports documents left by the JSON file backend when the
// database is still empty, renaming each imported file to *.migrated
func (s *SQLiteKV) migrateFromJSON() error {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM kv").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	files, err := NewJSONKV(s.dataDir)
	if err != nil {
		return err
	}
	keys, err := files.Keys()
	if err != nil {
		return err
	}

	for _, key := range keys {
		value, ok, err := files.Get(key)
		if err != nil || !ok {
			continue
		}
		if err := s.Put(key, value); err != nil {
			return err
		}
		path := files.path(key)
		if err := os.Rename(path, path+".migrated"); err != nil {
			return errors.Wrapf(err, "rename %q", path)
		}
		logger.Logger.Info("migrated json document into sqlite", zap.String("key", key))
	}
	return nil
}
