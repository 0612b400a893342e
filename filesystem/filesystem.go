// Package filesystem routes every file operation through a swappable afero
// backend: the OS filesystem in production, memory in tests.
package filesystem

import (
	"sync"

	"github.com/spf13/afero"
)

var (
	mu      sync.RWMutex
	backend = afero.Afero{Fs: afero.NewOsFs()}
)

// API returns the active backend.
func API() afero.Afero {
	mu.RLock()
	defer mu.RUnlock()
	return backend
}

// SetOsFs switches to the operating system filesystem.
func SetOsFs() {
	set(afero.NewOsFs())
}

// SetMemMapFs switches to a fresh in-memory filesystem.
func SetMemMapFs() {
	set(afero.NewMemMapFs())
}

func set(fs afero.Fs) {
	mu.Lock()
	defer mu.Unlock()
	backend = afero.Afero{Fs: fs}
}
