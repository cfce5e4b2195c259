// Package cache provides an on-disk, SQLite-backed store for generated
// texture sets, keyed by the inputs that determine their content (prompt,
// material class, resolution, seed, tessellation parameters). A cache hit
// skips the provider call and every derivation stage.
package cache

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"sync"

	_ "modernc.org/sqlite"
)

// Key identifies one cacheable generation request.
type Key struct {
	Prompt         string
	MaterialClass  string
	Width          int
	Height         int
	Seed           int64
	Algorithm      string
	BlendWidth     int
	CutoffFraction float64
}

// Hash returns a stable content-addressed identifier for the key.
func (k Key) Hash() string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%d|%d|%d|%s|%d|%g",
		k.Prompt, k.MaterialClass, k.Width, k.Height, k.Seed, k.Algorithm, k.BlendWidth, k.CutoffFraction)
	return hex.EncodeToString(h.Sum(nil))
}

// Entry is one cached map within a texture set, identified by kind name
// ("diffuse", "normal", ...) with its gzip-compressed PNG payload.
type Entry struct {
	Kind string
	PNG  []byte
}

// Store is a SQLite-backed cache of generated texture sets.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open creates or opens a cache database at path, initializing its schema
// and performance pragmas.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA cache_size = 20000",
		"PRAGMA temp_store = MEMORY",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("set pragma %q: %w", p, err)
		}
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create cache schema: %w", err)
	}

	return &Store{db: db}, nil
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS entries (
			request_hash TEXT NOT NULL,
			kind TEXT NOT NULL,
			data BLOB NOT NULL,
			PRIMARY KEY (request_hash, kind)
		);
	`
	_, err := db.Exec(schema)
	return err
}

// Put stores the given entries under key, compressing each PNG payload
// with gzip before writing. All entries for the key are replaced.
func (s *Store) Put(key Key, entries []Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	hash := key.Hash()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() // nolint:errcheck

	if _, err := tx.Exec("DELETE FROM entries WHERE request_hash = ?", hash); err != nil {
		return fmt.Errorf("clear stale entries: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO entries (request_hash, kind, data) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		compressed, err := gzipCompress(e.PNG)
		if err != nil {
			return fmt.Errorf("compress %s entry: %w", e.Kind, err)
		}
		if _, err := stmt.Exec(hash, e.Kind, compressed); err != nil {
			return fmt.Errorf("insert %s entry: %w", e.Kind, err)
		}
	}

	return tx.Commit()
}

// Get retrieves the cached entries for key, if present. The second return
// value is false on a cache miss.
func (s *Store) Get(key Key) ([]Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hash := key.Hash()
	rows, err := s.db.Query("SELECT kind, data FROM entries WHERE request_hash = ?", hash)
	if err != nil {
		return nil, false, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var kind string
		var compressed []byte
		if err := rows.Scan(&kind, &compressed); err != nil {
			return nil, false, fmt.Errorf("scan entry: %w", err)
		}
		data, err := gzipDecompress(compressed)
		if err != nil {
			return nil, false, fmt.Errorf("decompress %s entry: %w", kind, err)
		}
		entries = append(entries, Entry{Kind: kind, PNG: data})
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	if len(entries) == 0 {
		return nil, false, nil
	}
	return entries, true, nil
}

// Clear removes every cached entry.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec("DELETE FROM entries")
	return err
}

// Count returns the number of distinct cached requests.
func (s *Store) Count() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int
	err := s.db.QueryRow("SELECT COUNT(DISTINCT request_hash) FROM entries").Scan(&n)
	return n, err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func gzipCompress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write(data); err != nil {
		gw.Close()
		return nil, err
	}
	if err := gw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func gzipDecompress(data []byte) ([]byte, error) {
	gr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer gr.Close()
	return io.ReadAll(gr)
}
