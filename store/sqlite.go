package store

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const schema = `CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY NOT NULL,
	value TEXT NOT NULL
)`

// SQLite is KV backed by a single table in SQLite database file.
type SQLite struct {
	mu   sync.Mutex
	conn *sqlite.Conn
	path string
	log  *zap.Logger
}

// OpenSQLite opens (creating if necessary) database at path.
func OpenSQLite(path string, log *zap.Logger) (*SQLite, error) {
	if log == nil {
		log = zap.NewNop()
	}
	conn, err := sqlite.OpenConn(path, sqlite.OpenReadWrite, sqlite.OpenCreate, sqlite.OpenWAL)
	if err != nil {
		return nil, fmt.Errorf("unable to open progress database '%s': %w", path, err)
	}
	if err := sqlitex.ExecuteTransient(conn, schema, nil); err != nil {
		return nil, multierr.Append(fmt.Errorf("unable to prepare progress database: %w", err), conn.Close())
	}
	log.Debug("Progress database opened", zap.String("path", path))
	return &SQLite{conn: conn, path: path, log: log}, nil
}

func (s *SQLite) Load(key string) (value string, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return "", false, errClosed
	}
	err = sqlitex.Execute(s.conn, `SELECT value FROM kv WHERE key = ?`,
		&sqlitex.ExecOptions{
			Args: []any{key},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				value, ok = stmt.ColumnText(0), true
				return nil
			}})
	if err != nil {
		return "", false, fmt.Errorf("unable to load '%s': %w", key, err)
	}
	return value, ok, nil
}

func (s *SQLite) Save(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return errClosed
	}
	err := sqlitex.Execute(s.conn,
		`INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		&sqlitex.ExecOptions{Args: []any{key, value}})
	if err != nil {
		return fmt.Errorf("unable to save '%s': %w", key, err)
	}
	return nil
}

func (s *SQLite) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return errClosed
	}
	if err := sqlitex.Execute(s.conn, `DELETE FROM kv WHERE key = ?`, &sqlitex.ExecOptions{Args: []any{key}}); err != nil {
		return fmt.Errorf("unable to delete '%s': %w", key, err)
	}
	return nil
}

func (s *SQLite) Keys() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil, errClosed
	}
	var keys []string
	err := sqlitex.Execute(s.conn, `SELECT key FROM kv`,
		&sqlitex.ExecOptions{ResultFunc: func(stmt *sqlite.Stmt) error {
			keys = append(keys, stmt.ColumnText(0))
			return nil
		}})
	if err != nil {
		return nil, fmt.Errorf("unable to list keys: %w", err)
	}
	sortKeys(keys)
	return keys, nil
}

// Close closes database, subsequent calls are no-op.
func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	s.log.Debug("Progress database closed", zap.String("path", s.path))
	return err
}

var errClosed = errors.New("store is closed")
