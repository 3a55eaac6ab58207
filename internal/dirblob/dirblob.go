// Package dirblob implements the directory variant of the blob backend:
// named JSON blobs stored as files inside a user-chosen directory, with
// atomic temp-file, fsync, rename replacement.
package dirblob

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sidenote-labs/satchel/pkg/types"
)

// Compile-time interface check: Backend must implement types.Backend.
var _ types.Backend = (*Backend)(nil)

// Backend reads and writes named blobs as files under root. The backend
// does no JSON validation; callers own parsing and catch their own parse
// failures.
type Backend struct {
	mu        sync.RWMutex
	root      string
	connected bool
}

// New creates a directory backend for the given root. The backend is not
// connected; call Connect before use.
func New(root string) *Backend {
	return &Backend{root: root}
}

// Root returns the backend's root directory.
func (b *Backend) Root() string {
	return b.root
}

// Connect verifies the root directory still exists and binds to it.
// Returns ErrBackendUnavailable if the root vanished since the workspace
// was registered; creation of a new root is the Permission Gate's job.
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

	b.connected = true
	return nil
}

// ReadBlob returns the named blob's bytes. A missing or zero-length file
// counts as never written; callers distinguish corrupt data by parsing.
func (b *Backend) ReadBlob(name string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.connected {
		return nil, types.ErrNotConnected
	}

	data, err := os.ReadFile(filepath.Join(b.root, name))
	if err != nil {
		if os.IsNotExist(err) {
			// The whole root vanishing is a different condition than a
			// blob that was never written.
			if _, rootErr := os.Stat(b.root); os.IsNotExist(rootErr) {
				return nil, fmt.Errorf("%w: %s", types.ErrBackendUnavailable, b.root)
			}
			return nil, types.ErrBlobAbsent
		}
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	if len(data) == 0 {
		return nil, types.ErrBlobAbsent
	}
	return data, nil
}

// WriteBlob atomically replaces the named blob using the temp-file,
// fsync, rename pattern. A failed write leaves the prior content
// untouched.
func (b *Backend) WriteBlob(name string, data []byte) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.connected {
		return types.ErrNotConnected
	}
	if _, err := os.Stat(b.root); os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", types.ErrBackendUnavailable, b.root)
	}

	return WriteFileAtomic(filepath.Join(b.root, name), data)
}

// Close unbinds the backend. Idempotent.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.connected = false
	return nil
}

// WriteFileAtomic writes data to path via a temp file in the same
// directory, fsync, then rename. Also used by the workspace registry for
// its own durable blob.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".blob-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing blob: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
