package types

import (
	"errors"
	"time"
)

// Workspace is a named durable storage root the user can switch between.
type Workspace struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Backend        string    `json:"backend"`
	Root           string    `json:"root"`
	LastAccessedAt time.Time `json:"lastAccessedAt"`
}

// RegistryState is the durable form of the workspace registry: the
// insertion-ordered workspace list and the currently active workspace id.
// Persisted independently of any workspace's own blobs.
type RegistryState struct {
	Workspaces []Workspace `json:"workspaces"`
	ActiveID   string      `json:"activeId,omitempty"`
}

// Registry errors.
var (
	ErrWorkspaceNotFound = errors.New("workspace not found")
	ErrPermissionDenied  = errors.New("permission denied for workspace root")
)
