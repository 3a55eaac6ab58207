package types

import "errors"

// Blob names used by the storage layer. Every workspace root holds exactly
// these two logical blobs, regardless of backend variant.
const (
	SnippetsBlob  = "snippets.json"
	DocumentsBlob = "documents.json"
)

// Backend is the narrow read/write capability over a single workspace root.
// Both variants (directory and embedded) implement the same contract; the
// Document Store never cares where the bytes live.
type Backend interface {
	// Connect binds the backend to its root. Returns ErrBackendUnavailable
	// if the root vanished since the workspace was registered.
	Connect() error

	// ReadBlob returns the current content of the named blob.
	// Returns ErrBlobAbsent if the blob was never written.
	ReadBlob(name string) ([]byte, error)

	// WriteBlob atomically replaces the named blob. Callers never observe
	// a partially written blob.
	WriteBlob(name string, data []byte) error

	// Close releases backend resources. Idempotent. After Close, blob
	// operations return ErrNotConnected.
	Close() error
}

// Backend lifecycle and blob errors.
var (
	ErrNotConnected       = errors.New("backend is not connected")
	ErrBlobAbsent         = errors.New("blob has never been written")
	ErrBackendUnavailable = errors.New("workspace root is unavailable")
)
