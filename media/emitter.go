package media

import "sync"

// Emitter is a reusable subscriber table for Element implementations.
type Emitter struct {
	mu     sync.Mutex
	nextID int
	subs   map[EventKind]map[int]func(Event)
}

// Subscribe implements Element.Subscribe.
func (e *Emitter) Subscribe(kind EventKind, fn func(Event)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.subs == nil {
		e.subs = make(map[EventKind]map[int]func(Event))
	}
	if e.subs[kind] == nil {
		e.subs[kind] = make(map[int]func(Event))
	}

	id := e.nextID
	e.nextID++
	e.subs[kind][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			delete(e.subs[kind], id)
		})
	}
}

// Emit delivers ev to every subscriber of its kind. Subscribers run
// without the table lock held.
func (e *Emitter) Emit(ev Event) {
	e.mu.Lock()
	fns := make([]func(Event), 0, len(e.subs[ev.Kind]))
	for _, fn := range e.subs[ev.Kind] {
		fns = append(fns, fn)
	}
	e.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// Subscribers returns how many callbacks are attached across all kinds.
func (e *Emitter) Subscribers() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := 0
	for _, m := range e.subs {
		n += len(m)
	}
	return n
}
