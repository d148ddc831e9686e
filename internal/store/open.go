package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/theirongolddev/fintrack/internal/ledger"
)

// Backend names.
const (
	BackendSQLite = "sqlite"
	BackendJSON   = "json"
)

// Backend is a ledger store that owns resources.
type Backend interface {
	ledger.Store
	Path() string
	Close() error
}

// DataDir returns the XDG data directory for fintrack.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "fintrack")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "fintrack")
}

// DefaultPath returns the default data file for a backend.
func DefaultPath(backend string) string {
	if backend == BackendJSON {
		return filepath.Join(DataDir(), "data.json")
	}
	return filepath.Join(DataDir(), "fintrack.db")
}

// Open returns the backend named by backend at path. An empty path
// selects DefaultPath.
func Open(backend, path string) (Backend, error) {
	backend = strings.ToLower(strings.TrimSpace(backend))
	if backend == "" {
		backend = BackendSQLite
	}
	if path == "" {
		path = DefaultPath(backend)
	}
	switch backend {
	case BackendSQLite:
		return OpenSQLite(path)
	case BackendJSON:
		return OpenFile(path)
	}
	return nil, fmt.Errorf("unknown storage backend %q (want %s or %s)", backend, BackendSQLite, BackendJSON)
}
