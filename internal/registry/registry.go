// Package registry manages the durable list of known workspaces and the
// active binding. Workspaces are created with user consent, switched
// explicitly, and removed only by explicit user action; the registry
// never deletes one on its own.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/sidenote-labs/satchel/internal/dirblob"
	"github.com/sidenote-labs/satchel/internal/gate"
	"github.com/sidenote-labs/satchel/internal/kvblob"
	"github.com/sidenote-labs/satchel/internal/logger"
	"github.com/sidenote-labs/satchel/pkg/types"
)

// RegistryFile is the registry blob's name inside the config directory.
// It is persisted independently of any workspace's own blobs.
const RegistryFile = "registry.json"

// Registry owns the workspace list, the active-id marker, and the
// lifecycle of the backend currently bound to the store.
type Registry struct {
	path  string
	gate  *gate.Gate
	store types.Store
	log   logger.Logger

	state   types.RegistryState
	backend types.Backend
}

// Open loads the registry blob from the config directory, creating the
// directory on first run. A missing blob is a fresh registry, not an
// error.
func Open(configDir string, g *gate.Gate, st types.Store, log logger.Logger) (*Registry, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}

	r := &Registry{
		path:  filepath.Join(configDir, RegistryFile),
		gate:  g,
		store: st,
		log:   log,
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return r, nil
		}
		return nil, fmt.Errorf("reading registry: %w", err)
	}
	if err := json.Unmarshal(data, &r.state); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", types.ErrMalformedData, RegistryFile, err)
	}
	return r, nil
}

// persist writes the registry blob atomically.
func (r *Registry) persist() error {
	data, err := json.MarshalIndent(&r.state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling registry: %w", err)
	}
	if err := dirblob.WriteFileAtomic(r.path, data); err != nil {
		return fmt.Errorf("writing registry: %w", err)
	}
	return nil
}

// newBackend constructs the backend variant for a workspace record.
func newBackend(kind, root string) (types.Backend, error) {
	switch kind {
	case types.BackendDirectory:
		return dirblob.New(root), nil
	case types.BackendEmbedded:
		return kvblob.New(root), nil
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrBackendUnknown, kind)
	}
}

// List returns the workspaces in insertion order. Display ordering, if
// any, is the caller's concern.
func (r *Registry) List() []types.Workspace {
	return r.state.Workspaces
}

// Active returns the active workspace, if one is set.
func (r *Registry) Active() (types.Workspace, bool) {
	return r.lookup(r.state.ActiveID)
}

func (r *Registry) lookup(id string) (types.Workspace, bool) {
	for _, ws := range r.state.Workspaces {
		if ws.ID == id {
			return ws, true
		}
	}
	return types.Workspace{}, false
}

// bind connects a backend for the workspace and rebinds the store to it,
// closing the previous backend. Seeding runs after every successful bind.
func (r *Registry) bind(ws types.Workspace) error {
	b, err := newBackend(ws.Backend, ws.Root)
	if err != nil {
		return err
	}
	if err := b.Connect(); err != nil {
		return err
	}

	if r.backend != nil {
		if err := r.backend.Close(); err != nil {
			r.log.Warn("closing previous backend", logger.Error(err))
		}
	}
	r.backend = b
	r.store.Bind(b)

	if err := r.store.SeedIfEmpty(); err != nil {
		return fmt.Errorf("seeding workspace %s: %w", ws.ID, err)
	}
	return nil
}

// Create registers a new workspace over the chosen root, with the user's
// consent, and makes it active. The new workspace is seeded when its
// snippet blob has never been written.
func (r *Registry) Create(name, backendKind, root string) (*types.Workspace, error) {
	cfg := types.Config{Backend: backendKind, Root: root}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if !r.gate.Verify(root, true, true) {
		return nil, types.ErrPermissionDenied
	}

	ws := types.Workspace{
		ID:             newID(),
		Name:           name,
		Backend:        backendKind,
		Root:           root,
		LastAccessedAt: time.Now().UTC(),
	}

	if err := r.bind(ws); err != nil {
		return nil, err
	}

	r.state.Workspaces = append(r.state.Workspaces, ws)
	r.state.ActiveID = ws.ID
	if err := r.persist(); err != nil {
		return nil, err
	}

	r.log.Info("workspace created",
		logger.String("id", ws.ID), logger.String("name", name), logger.String("backend", backendKind))
	return &ws, nil
}

// SwitchTo activates the given workspace. Returns false without side
// effects when the id is unknown or permission is denied; the previously
// bound workspace stays bound and fully functional. The error return
// carries backend failures (a vanished root) so the caller can offer
// removal.
func (r *Registry) SwitchTo(id string) (bool, error) {
	ws, ok := r.lookup(id)
	if !ok {
		return false, nil
	}

	if !r.gate.Verify(ws.Root, true, true) {
		r.log.Info("workspace switch denied", logger.String("id", id))
		return false, nil
	}

	if err := r.bind(ws); err != nil {
		return false, err
	}

	r.touch(id)
	r.state.ActiveID = id
	if err := r.persist(); err != nil {
		return false, err
	}

	r.log.Info("switched workspace", logger.String("id", id), logger.String("name", ws.Name))
	return true, nil
}

// ReconnectSilently rebinds the last active workspace on process start
// without ever prompting. Returns false when no workspace was active or
// access is not currently granted; the caller then falls back to an
// explicit connect flow.
func (r *Registry) ReconnectSilently() (bool, error) {
	ws, ok := r.Active()
	if !ok {
		return false, nil
	}

	if !r.gate.Verify(ws.Root, true, false) {
		r.log.Debug("silent reconnect not granted", logger.String("id", ws.ID))
		return false, nil
	}

	if err := r.bind(ws); err != nil {
		return false, err
	}

	r.log.Debug("silently reconnected", logger.String("id", ws.ID))
	return true, nil
}

// Remove deletes a workspace entry. The workspace's data is left on disk;
// only the registry forgets it. Removing the active workspace clears the
// active marker and unbinds the store; no other workspace is selected
// implicitly.
func (r *Registry) Remove(id string) error {
	for i, ws := range r.state.Workspaces {
		if ws.ID != id {
			continue
		}
		r.state.Workspaces = append(r.state.Workspaces[:i], r.state.Workspaces[i+1:]...)
		if r.state.ActiveID == id {
			r.state.ActiveID = ""
			r.store.Unbind()
			if r.backend != nil {
				if err := r.backend.Close(); err != nil {
					r.log.Warn("closing removed backend", logger.Error(err))
				}
				r.backend = nil
			}
		}
		if err := r.persist(); err != nil {
			return err
		}
		r.log.Info("workspace removed", logger.String("id", id), logger.String("name", ws.Name))
		return nil
	}
	return types.ErrWorkspaceNotFound
}

// Close releases the bound backend, if any.
func (r *Registry) Close() error {
	r.store.Unbind()
	if r.backend == nil {
		return nil
	}
	err := r.backend.Close()
	r.backend = nil
	return err
}

// touch updates a workspace's last-accessed timestamp in place.
func (r *Registry) touch(id string) {
	for i := range r.state.Workspaces {
		if r.state.Workspaces[i].ID == id {
			r.state.Workspaces[i].LastAccessedAt = time.Now().UTC()
			return
		}
	}
}

// newID generates a UUID v7, falling back to v4 if v7 generation fails.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
