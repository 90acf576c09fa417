package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
)

const appDir = "opendoor"

// Dir returns the runtime directory for the IPC socket. Priority:
// 1) $XDG_RUNTIME_DIR/opendoor
// 2) /run/user/<uid>/opendoor (if /run/user/<uid> exists)
// 3) /tmp/opendoor-runtime-<uid>
// The directory is created with mode 0700.
func Dir() (string, error) {
	var dir string
	uid := os.Getuid()
	runUserDir := fmt.Sprintf("/run/user/%d", uid)
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		dir = filepath.Join(runtimeDir, appDir)
	} else if info, err := os.Stat(runUserDir); err == nil && info.IsDir() {
		dir = filepath.Join(runUserDir, appDir)
	} else {
		dir = fmt.Sprintf("/tmp/opendoor-runtime-%d", uid)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return dir, nil
}

// SocketPath returns the control plane socket path.
func SocketPath() (string, error) {
	runtimeDir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(runtimeDir, "opendoor.sock"), nil
}

// StateDir returns $XDG_STATE_HOME/opendoor, defaulting to
// ~/.local/state/opendoor. It is not created.
func StateDir() (string, error) {
	if stateHome := os.Getenv("XDG_STATE_HOME"); stateHome != "" {
		return filepath.Join(stateHome, appDir), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home dir: %w", err)
	}
	return filepath.Join(home, ".local", "state", appDir), nil
}

// LogPath returns the default desktop log file.
func LogPath() (string, error) {
	dir, err := StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "opendoor.log"), nil
}

// UserFilePath returns the stored account file.
func UserFilePath() (string, error) {
	dir, err := StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "user.yaml"), nil
}
