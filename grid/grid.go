// Package grid coordinates hover-to-preview playback across a grid of
// asset cards. Only the card under the pointer plays; every preview is
// muted, looped and restarts from the beginning on each hover.
package grid

import (
	"context"
	"fmt"
	"sync"

	"github.com/reelroom/reelroom/log"
	"github.com/reelroom/reelroom/media"
	"github.com/reelroom/reelroom/registry"
	"github.com/samber/lo"
)

// Preview is the slice of media.Element a card needs.
type Preview interface {
	Play(ctx context.Context) error
	Pause() error
	Paused() bool
	SetCurrentTime(seconds float64) error
	SetMuted(muted bool) error
	SetLoop(loop bool) error
	Subscribe(kind media.EventKind, fn func(media.Event)) (unsubscribe func())
}

// Card is the observable state of one grid card.
type Card struct {
	ID          string
	Hovered     bool
	CurrentTime float64

	// Failed cards show their static poster and never preview again.
	Failed bool
}

// Options configures a Coordinator.
type Options struct {
	// ReducedMotion suppresses hover playback entirely.
	ReducedMotion bool
}

// HandleID is the registry id of the card id. Cards live in their own
// namespace so a player opened on the same asset never collides with its card.
func HandleID(id string) string {
	return "preview:" + id
}

type card struct {
	Card
	grid    *Coordinator
	preview Preview
	unsubs  []func()
}

// Pause makes card a registry.Handle. A card paused by another handle of
// the scope is no longer hovered.
func (c *card) Pause() error {
	c.grid.release(c)
	return c.preview.Pause()
}

func (c *card) IsPaused() bool {
	return c.preview.Paused()
}

// Coordinator owns the preview cards of one grid view.
type Coordinator struct {
	ctx           context.Context
	reg           *registry.Registry
	reducedMotion bool

	mu    sync.Mutex
	order []string
	cards map[string]*card
	subs  map[int]func([]Card)
	next  int
}

// New creates a coordinator in the registry scope carried by ctx.
func New(ctx context.Context, opts Options) (*Coordinator, error) {
	reg, err := registry.From(ctx)
	if err != nil {
		return nil, fmt.Errorf("mount grid: %w", err)
	}

	return &Coordinator{
		ctx:           ctx,
		reg:           reg,
		reducedMotion: opts.ReducedMotion,
		cards:         make(map[string]*card),
		subs:          make(map[int]func([]Card)),
	}, nil
}

// ReducedMotion reports whether hover playback is suppressed.
func (g *Coordinator) ReducedMotion() bool {
	return g.reducedMotion
}

// Add mounts a card. Re-adding an id replaces the previous card.
func (g *Coordinator) Add(id string, preview Preview) error {
	if id == "" {
		return fmt.Errorf("grid card id must not be empty")
	}
	if preview == nil {
		return fmt.Errorf("grid card %s: nil preview", id)
	}

	g.Remove(id)

	c := &card{Card: Card{ID: id}, grid: g, preview: preview}
	if err := preview.SetMuted(true); err != nil {
		c.Failed = true
	}
	if err := preview.SetLoop(true); err != nil {
		c.Failed = true
	}

	c.unsubs = []func(){
		preview.Subscribe(media.TimeUpdate, func(ev media.Event) { g.Tick(id, ev.Seconds) }),
		preview.Subscribe(media.Error, func(ev media.Event) { g.markFailed(id, ev.Err) }),
	}

	g.mu.Lock()
	g.cards[id] = c
	g.order = append(g.order, id)
	g.mu.Unlock()

	g.reg.Register(HandleID(id), c)
	g.changed()
	return nil
}

// Remove unmounts a card. Unknown ids are ignored.
func (g *Coordinator) Remove(id string) {
	g.mu.Lock()
	c, ok := g.cards[id]
	if !ok {
		g.mu.Unlock()
		return
	}
	delete(g.cards, id)
	g.order = lo.Without(g.order, id)
	g.mu.Unlock()

	for _, unsubscribe := range c.unsubs {
		unsubscribe()
	}
	g.reg.Unregister(HandleID(id))
	g.changed()
}

// PointerEnter pauses every other preview in the scope, then plays the
// hovered card from the start, muted.
func (g *Coordinator) PointerEnter(id string) {
	g.mu.Lock()
	c, ok := g.cards[id]
	if !ok {
		g.mu.Unlock()
		return
	}
	c.Hovered = true
	skip := g.reducedMotion || c.Failed
	g.mu.Unlock()
	g.changed()

	if skip {
		return
	}

	g.reg.PauseAllExcept(HandleID(id))

	err := c.preview.SetMuted(true)
	if err == nil {
		err = c.preview.SetCurrentTime(0)
	}
	if err == nil {
		err = c.preview.Play(g.ctx)
	}
	if err != nil {
		g.markFailed(id, err)
	}
}

// PointerLeave pauses the card's preview and rewinds it to the start.
func (g *Coordinator) PointerLeave(id string) {
	g.mu.Lock()
	c, ok := g.cards[id]
	if !ok {
		g.mu.Unlock()
		return
	}
	c.Hovered = false
	c.CurrentTime = 0
	skip := g.reducedMotion || c.Failed
	g.mu.Unlock()
	g.changed()

	if skip {
		return
	}

	err := c.preview.Pause()
	if err == nil {
		err = c.preview.SetCurrentTime(0)
	}
	if err != nil {
		g.markFailed(id, err)
	}
}

// Tick records the preview position shown on the card's scrub bar.
func (g *Coordinator) Tick(id string, seconds float64) {
	g.mu.Lock()
	c, ok := g.cards[id]
	if !ok || !c.Hovered {
		g.mu.Unlock()
		return
	}
	c.CurrentTime = lo.Max([]float64{seconds, 0})
	g.mu.Unlock()
	g.changed()
}

func (g *Coordinator) release(c *card) {
	g.mu.Lock()
	if g.cards[c.ID] != c || !c.Hovered {
		g.mu.Unlock()
		return
	}
	c.Hovered = false
	c.CurrentTime = 0
	g.mu.Unlock()
	g.changed()
}

// markFailed swaps the card to its static fallback. Preview failures are
// never surfaced beyond a debug log.
func (g *Coordinator) markFailed(id string, err error) {
	g.mu.Lock()
	c, ok := g.cards[id]
	if !ok || c.Failed {
		g.mu.Unlock()
		return
	}
	c.Failed = true
	c.CurrentTime = 0
	g.mu.Unlock()

	log.Debugf("grid: preview %s failed: %v", id, err)
	g.changed()
}

// Card returns the state of one card.
func (g *Coordinator) Card(id string) (Card, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	c, ok := g.cards[id]
	if !ok {
		return Card{}, false
	}
	return c.Card, true
}

// Cards returns every card in insertion order.
func (g *Coordinator) Cards() []Card {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cardsLocked()
}

func (g *Coordinator) cardsLocked() []Card {
	return lo.Map(g.order, func(id string, _ int) Card {
		return g.cards[id].Card
	})
}

// Subscribe registers fn to receive the cards after every change.
func (g *Coordinator) Subscribe(fn func([]Card)) (cancel func()) {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.next
	g.next++
	g.subs[id] = fn

	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		delete(g.subs, id)
	}
}

func (g *Coordinator) changed() {
	g.mu.Lock()
	cards := g.cardsLocked()
	subs := lo.Values(g.subs)
	g.mu.Unlock()

	for _, fn := range subs {
		fn(cards)
	}
}

// Close unmounts every card.
func (g *Coordinator) Close() {
	g.mu.Lock()
	ids := append([]string(nil), g.order...)
	g.mu.Unlock()

	for _, id := range ids {
		g.Remove(id)
	}
}
