package types

import "errors"

// Supported backend names.
const (
	BackendDirectory = "directory"
	BackendEmbedded  = "embedded"
)

// Config holds backend selection and the workspace root for binding.
type Config struct {
	Backend string `json:"backend" yaml:"backend"`
	Root    string `json:"root" yaml:"root"`
}

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
	ErrRootEmpty      = errors.New("workspace root must not be empty")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendDirectory: true,
	BackendEmbedded:  true,
}

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.Root == "" {
		return ErrRootEmpty
	}
	return nil
}
