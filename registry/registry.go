// Package registry implements the per-view playback exclusion coordinator.
//
// A Registry maps media identifiers to live handles and guarantees that,
// once PauseAllExcept returns, no handle other than the active one is left
// playing. It never starts playback on its own.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/reelroom/reelroom/log"
)

// Handle is a non-owning reference to one controllable media element.
type Handle interface {
	Pause() error
	IsPaused() bool
}

// Registry is the mutual-exclusion coordinator for one view.
// The zero value is not usable; use New.
type Registry struct {
	mu      sync.Mutex
	handles map[string]Handle
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{handles: make(map[string]Handle)}
}

// Register associates id with h. A previous handle under the same id is
// superseded and never touched again.
func (r *Registry) Register(id string, h Handle) {
	if id == "" || h == nil {
		log.Warnf("registry: ignoring registration with empty id or nil handle (id=%q)", id)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.handles[id]; ok {
		log.Debugf("registry: replacing handle for %s", id)
	}
	r.handles[id] = h
}

// Unregister removes id. Unknown ids are ignored.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.handles, id)
}

// PauseAllExcept pauses every registered handle other than activeID that
// reports itself as playing. Failures are isolated per handle.
func (r *Registry) PauseAllExcept(activeID string) {
	// Snapshot under the lock, pause outside it: a handle's Pause may
	// synchronously re-enter the registry.
	r.mu.Lock()
	targets := make(map[string]Handle, len(r.handles))
	for id, h := range r.handles {
		if id != activeID {
			targets[id] = h
		}
	}
	r.mu.Unlock()

	for id, h := range targets {
		if err := pauseIsolated(h); err != nil {
			log.Warnf("registry: pausing %s: %v", id, err)
		}
	}
}

// Len returns the number of registered handles.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.handles)
}

// IDs returns the registered ids in lexical order.
func (r *Registry) IDs() []string {
	r.mu.Lock()
	ids := make([]string, 0, len(r.handles))
	for id := range r.handles {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	sort.Strings(ids)
	return ids
}

// pauseIsolated pauses h if it is playing, converting a panic from a torn
// down element into an error.
func pauseIsolated(h Handle) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("stale handle: %v", rec)
		}
	}()

	if h.IsPaused() {
		return nil
	}
	return h.Pause()
}
