// Package session gives the custodytree CLI a way to survive across
// invocations ("custodytree insert 5" then "custodytree insert 6" in two
// separate process runs). This is CLI-level convenience state, not the
// persistence pkg/custodytree's Non-goals forbid: a Tree is still built
// fresh from the decoded ranges on every invocation and never touches
// disk on its own.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bplib-go/custodytree/pkg/custodytree"
	"github.com/bplib-go/custodytree/pkg/rangecodec"
)

// filePerm is the permission used for session files; state, not secrets,
// but kept private to the invoking user regardless.
const filePerm = 0o600

// dirPerm is the permission used for the session directory.
const dirPerm = 0o750

// fileExt is the extension of a session file, a ".rt" range-table.
const fileExt = ".rt"

// metaExt is the extension of a session's small sidecar metadata file.
// It never holds range data, only the arena size the tree was created
// with, kept separate so the .rt file stays a pure pkg/rangecodec
// payload.
const metaExt = ".meta.json"

// Meta is a session's sidecar metadata.
type Meta struct {
	MaxSize uint64 `json:"max_size"`
}

// Manager stores and loads named range lists under BaseDir.
type Manager struct {
	BaseDir string
}

// NewManager creates a Manager rooted at baseDir.
func NewManager(baseDir string) *Manager {
	return &Manager{BaseDir: baseDir}
}

// DefaultDir returns $XDG_STATE_HOME/custodytree, falling back to
// ~/.local/state/custodytree when XDG_STATE_HOME is unset.
func DefaultDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "custodytree")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	return filepath.Join(home, ".local", "state", "custodytree")
}

// Path returns the on-disk path for the named session.
func (m *Manager) Path(name string) string {
	return filepath.Join(m.BaseDir, name+fileExt)
}

// Exists reports whether a session file exists for name.
func (m *Manager) Exists(name string) bool {
	_, err := os.Stat(m.Path(name))

	return err == nil
}

// Save encodes ranges with pkg/rangecodec and writes them to the named
// session file, creating the session directory if needed.
func (m *Manager) Save(name string, ranges []custodytree.Range) error {
	if err := os.MkdirAll(m.BaseDir, dirPerm); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	if err := os.WriteFile(m.Path(name), rangecodec.Encode(ranges), filePerm); err != nil {
		return fmt.Errorf("write session %q: %w", name, err)
	}

	return nil
}

// Load reads and decodes the named session's range list.
func (m *Manager) Load(name string) ([]custodytree.Range, error) {
	data, err := os.ReadFile(m.Path(name))
	if err != nil {
		return nil, fmt.Errorf("read session %q: %w", name, err)
	}

	ranges, decodeErr := rangecodec.Decode(data)
	if decodeErr != nil {
		return nil, fmt.Errorf("decode session %q: %w", name, decodeErr)
	}

	return ranges, nil
}

// Clear removes the named session file and its metadata sidecar.
// Removing a session that does not exist is not an error.
func (m *Manager) Clear(name string) error {
	err := os.Remove(m.Path(name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session %q: %w", name, err)
	}

	err = os.Remove(m.metaPath(name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session metadata %q: %w", name, err)
	}

	return nil
}

func (m *Manager) metaPath(name string) string {
	return filepath.Join(m.BaseDir, name+metaExt)
}

// SaveMeta writes the session's sidecar metadata.
func (m *Manager) SaveMeta(name string, meta Meta) error {
	if err := os.MkdirAll(m.BaseDir, dirPerm); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal session metadata %q: %w", name, err)
	}

	if err := os.WriteFile(m.metaPath(name), data, filePerm); err != nil {
		return fmt.Errorf("write session metadata %q: %w", name, err)
	}

	return nil
}

// LoadMeta reads the session's sidecar metadata.
func (m *Manager) LoadMeta(name string) (Meta, error) {
	data, err := os.ReadFile(m.metaPath(name))
	if err != nil {
		return Meta{}, fmt.Errorf("read session metadata %q: %w", name, err)
	}

	var meta Meta

	if err := json.Unmarshal(data, &meta); err != nil {
		return Meta{}, fmt.Errorf("unmarshal session metadata %q: %w", name, err)
	}

	return meta, nil
}
