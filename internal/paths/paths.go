// Package paths resolves configuration and default workspace root
// locations.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "SATCHEL_CONFIG_DIR"
	EnvDataDir   = "SATCHEL_DATA_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration
// directory. The registry blob and config.yaml live here.
//
// Linux:   $XDG_CONFIG_HOME/satchel (fallback ~/.config/satchel)
// macOS:   ~/Library/Application Support/satchel
// Windows: %APPDATA%/satchel
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "satchel"), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", "satchel"), nil
	default:
		// macOS and Windows use os.UserConfigDir which returns
		// ~/Library/Application Support on macOS and %APPDATA% on Windows.
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "satchel"), nil
	}
}

// DefaultDataDir returns the platform-specific default data directory,
// used as the parent for workspace roots created without an explicit
// --root.
//
// Linux:   $XDG_DATA_HOME/satchel (fallback ~/.local/share/satchel)
// macOS:   ~/Library/Application Support/satchel
// Windows: %APPDATA%/satchel
func DefaultDataDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return filepath.Join(xdg, "satchel"), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "share", "satchel"), nil
	default:
		// macOS and Windows: same as config dir.
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "satchel"), nil
	}
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > SATCHEL_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveWorkspaceRoot returns the root for a new workspace following the
// precedence chain: flag > SATCHEL_DATA_DIR env + name > platform data
// dir + "workspaces" + name.
func ResolveWorkspaceRoot(flag, name string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		abs, err := filepath.Abs(env)
		if err != nil {
			return "", err
		}
		return filepath.Join(abs, "workspaces", name), nil
	}
	dataDir, err := DefaultDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "workspaces", name), nil
}
