package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	dirPermissions  = 0o755
	filePermissions = 0o644

	// ListExt is appended to bare list names.
	ListExt = ".tudu"

	// DefaultListName is used when no list is named on the command line or in config.
	DefaultListName = "todo"

	configFileName = "config.toml"
	logFileName    = "tudu.log"
)

// Manager centralizes where lists, config and logs live on disk.
type Manager struct {
	basePath string
}

// NewManager constructs a Manager rooted at the provided directory. If basePath
// is empty, it falls back to ~/.tudu (or another location determined by
// ResolveBasePath).
func NewManager(basePath string) (*Manager, error) {
	var err error
	if basePath == "" {
		basePath, err = ResolveBasePath()
		if err != nil {
			return nil, err
		}
	} else {
		basePath, err = ExpandHome(basePath)
		if err != nil {
			return nil, err
		}
	}
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, err
	}

	return &Manager{basePath: abs}, nil
}

// BasePath returns the root directory.
func (m *Manager) BasePath() string {
	return m.basePath
}

// ConfigPath is where the optional TOML config lives.
func (m *Manager) ConfigPath() string {
	return filepath.Join(m.basePath, configFileName)
}

// LogPath is the file TUI sessions log to.
func (m *Manager) LogPath() string {
	return filepath.Join(m.basePath, logFileName)
}

// ListPath resolves name to a list file. Bare names land in the base
// directory with ListExt appended; anything that looks like a path
// (separator, extension or leading ~) is used as given.
func (m *Manager) ListPath(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultListName
	}
	if strings.HasPrefix(name, "~") {
		if expanded, err := ExpandHome(name); err == nil {
			return expanded
		}
	}
	if strings.ContainsRune(name, os.PathSeparator) || filepath.Ext(name) != "" {
		if abs, err := filepath.Abs(name); err == nil {
			return abs
		}
		return name
	}
	return filepath.Join(m.basePath, name+ListExt)
}

// EnsureBase creates the base directory if it does not exist.
func (m *Manager) EnsureBase() error {
	if m == nil {
		return errors.New("files.Manager is nil")
	}
	if err := os.MkdirAll(m.basePath, dirPermissions); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	return nil
}

// EnsureListFile guarantees the list file and its directory exist and
// returns the absolute path. A new file is left empty, which reads back as a
// list with no items.
func (m *Manager) EnsureListFile(name string) (string, error) {
	if m == nil {
		return "", errors.New("files.Manager is nil")
	}

	path := m.ListPath(name)
	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return "", fmt.Errorf("create directories: %w", err)
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, filePermissions)
	if err != nil {
		return "", fmt.Errorf("open list file: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close list file: %w", err)
	}

	return path, nil
}
