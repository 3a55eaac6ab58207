// Package kvblob implements the embedded variant of the blob backend:
// named blobs stored as rows of a key-value table in a SQLite database
// file under the workspace root.
package kvblob

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/sidenote-labs/satchel/pkg/types"
)

// DatabaseFile is the SQLite file name inside the workspace root.
const DatabaseFile = "satchel.db"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS blobs (
	name TEXT PRIMARY KEY,
	data BLOB NOT NULL
);
`

// Compile-time interface check: Backend must implement types.Backend.
var _ types.Backend = (*Backend)(nil)

// Backend stores blobs in a blobs(name, data) table. Absent means the
// key was never written; unlike the directory variant there is no
// empty-file ambiguity.
type Backend struct {
	mu   sync.RWMutex
	root string
	db   *sql.DB
}

// New creates an embedded backend for the given workspace root. The
// backend is not connected; call Connect before use.
func New(root string) *Backend {
	return &Backend{root: root}
}

// Root returns the backend's root directory.
func (b *Backend) Root() string {
	return b.root
}

// Connect opens the database file under the root, creating the schema on
// first use. Returns ErrBackendUnavailable if the root vanished.
func (b *Backend) Connect() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	info, err := os.Stat(b.root)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", types.ErrBackendUnavailable, b.root)
		}
		return fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", types.ErrBackendUnavailable, b.root)
	}

	db, err := sql.Open("sqlite", filepath.Join(b.root, DatabaseFile))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return fmt.Errorf("initializing schema: %w", err)
	}

	b.db = db
	return nil
}

// ReadBlob returns the named blob's bytes, or ErrBlobAbsent if the key
// was never written.
func (b *Backend) ReadBlob(name string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.db == nil {
		return nil, types.ErrNotConnected
	}

	var data []byte
	err := b.db.QueryRow("SELECT data FROM blobs WHERE name = ?", name).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, types.ErrBlobAbsent
	}
	if err != nil {
		return nil, fmt.Errorf("reading blob %s: %w", name, err)
	}
	return data, nil
}

// WriteBlob replaces the named blob in a single upsert statement.
// SQLite's transactional write gives the caller the same all-or-nothing
// visibility as the directory variant's rename.
func (b *Backend) WriteBlob(name string, data []byte) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.db == nil {
		return types.ErrNotConnected
	}

	_, err := b.db.Exec(
		"INSERT INTO blobs (name, data) VALUES (?, ?) ON CONFLICT(name) DO UPDATE SET data = excluded.data",
		name, data,
	)
	if err != nil {
		return fmt.Errorf("writing blob %s: %w", name, err)
	}
	return nil
}

// Close releases the database connection. Idempotent.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.db == nil {
		return nil
	}
	err := b.db.Close()
	b.db = nil
	if err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	return nil
}
