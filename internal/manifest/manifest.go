package manifest

import (
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/GuitarSoul/putty-sessions/internal/generator"
)

// FileName is the manifest file kept in every output directory
const FileName = ".putty-sessions.manifest"

// Entry stores what a generated file was built from
type Entry struct {
	Name    string
	Address string
	ModTime time.Time
}

// Manifest tracks the session files generated into one directory
type Manifest struct {
	dir     string
	entries map[string]Entry
	mu      sync.RWMutex
}

// Open loads the manifest in dir. A missing or unreadable manifest starts
// empty
func Open(dir string) *Manifest {
	m := &Manifest{
		dir:     dir,
		entries: make(map[string]Entry),
	}
	m.load()
	return m
}

func (m *Manifest) path() string {
	return filepath.Join(m.dir, FileName)
}

func (m *Manifest) load() {
	f, err := os.Open(m.path())
	if err != nil {
		return
	}
	defer f.Close()

	var entries map[string]Entry
	if gob.NewDecoder(f).Decode(&entries) != nil {
		return
	}
	m.entries = entries
}

// Record adds a generated file. Files outside the manifest directory are
// ignored
func (m *Manifest) Record(file generator.GeneratedFile) {
	if filepath.Clean(filepath.Dir(file.Path)) != filepath.Clean(m.dir) {
		return
	}

	entry := Entry{Name: file.Entry.Name, Address: file.Entry.Address}
	if info, err := os.Stat(file.Path); err == nil {
		entry.ModTime = info.ModTime()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[filepath.Base(file.Path)] = entry
}

// Get returns the entry recorded for a file in the manifest directory
func (m *Manifest) Get(path string) (Entry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[filepath.Base(path)]
	return entry, ok
}

// Paths returns the recorded files, sorted
func (m *Manifest) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	paths := make([]string, 0, len(m.entries))
	for name := range m.entries {
		paths = append(paths, filepath.Join(m.dir, name))
	}
	sort.Strings(paths)
	return paths
}

// Prune drops entries whose files no longer exist
func (m *Manifest) Prune() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for name := range m.entries {
		if _, err := os.Stat(filepath.Join(m.dir, name)); errors.Is(err, os.ErrNotExist) {
			delete(m.entries, name)
		}
	}
}

// Save persists the manifest to disk
func (m *Manifest) Save() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	f, err := os.Create(m.path())
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewEncoder(f).Encode(m.entries)
}

// Clean removes every recorded file and then the manifest itself. It returns
// the files that were actually deleted
func (m *Manifest) Clean() ([]string, error) {
	var removed []string
	for _, path := range m.Paths() {
		err := os.Remove(path)
		switch {
		case err == nil:
			removed = append(removed, path)
		case errors.Is(err, os.ErrNotExist):
		default:
			return removed, fmt.Errorf("removing %s: %w", path, err)
		}
	}

	m.mu.Lock()
	m.entries = make(map[string]Entry)
	m.mu.Unlock()

	if err := os.Remove(m.path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return removed, fmt.Errorf("removing manifest: %w", err)
	}
	return removed, nil
}
