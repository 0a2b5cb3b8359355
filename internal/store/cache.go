// Package store provides caches for parsed baseline files: a local SQLite
// database and a shared Redis instance.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/cfohelper/internal/model"
	"github.com/theirongolddev/cfohelper/internal/source"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Cache provides SQLite-backed baseline caching.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Lookup returns the cached record for id.Path when it was saved from the
// same file version.
func (c *Cache) Lookup(id source.Identity) (*source.Record, bool, error) {
	var stored source.Identity
	err := c.db.QueryRow(`SELECT source_path, mtime_ns, size_bytes FROM sources WHERE source_path = ?`, id.Path).
		Scan(&stored.Path, &stored.MtimeNs, &stored.SizeBytes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if !stored.Same(id) {
		return nil, false, nil
	}

	rows, err := c.db.Query(`SELECT key, kind, raw FROM source_fields
		WHERE source_path = ? ORDER BY position`, id.Path)
	if err != nil {
		return nil, false, err
	}
	defer func() { _ = rows.Close() }()

	rec := &source.Record{Identity: stored}
	for rows.Next() {
		var key, kindStr, raw string
		if err := rows.Scan(&key, &kindStr, &raw); err != nil {
			return nil, false, err
		}
		kind, err := model.ParseValueKind(kindStr)
		if err != nil {
			return nil, false, err
		}
		v, err := model.ValueOf(kind, raw)
		if err != nil {
			return nil, false, err
		}
		rec.Fields = append(rec.Fields, source.Field{Key: key, Value: v})
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	return rec, true, nil
}

// Save stores a parsed record, replacing any earlier version of the file.
func (c *Cache) Save(rec *source.Record) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)
	id := rec.Identity

	_, err = tx.Exec(`INSERT OR REPLACE INTO sources (source_path, mtime_ns, size_bytes, parsed_at)
		VALUES (?, ?, ?, ?)`, id.Path, id.MtimeNs, id.SizeBytes, now)
	if err != nil {
		return err
	}

	// Delete old field rows for this file
	_, err = tx.Exec("DELETE FROM source_fields WHERE source_path = ?", id.Path)
	if err != nil {
		return err
	}

	for i, f := range rec.Fields {
		_, err = tx.Exec(`INSERT INTO source_fields (source_path, position, key, kind, raw)
			VALUES (?, ?, ?, ?, ?)`, id.Path, i, f.Key, f.Value.Kind().String(), f.Value.Raw())
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Delete removes a cached file and its fields.
func (c *Cache) Delete(path string) error {
	_, err := c.db.Exec("DELETE FROM sources WHERE source_path = ?", path)
	return err
}

// Count returns the number of cached files.
func (c *Cache) Count() (int, error) {
	var count int
	err := c.db.QueryRow("SELECT COUNT(*) FROM sources").Scan(&count)
	return count, err
}
