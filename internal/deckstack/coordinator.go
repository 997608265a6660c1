// Package deckstack owns the cards on the table: the deck or its two split
// halves, the cards drawn from them, and the continuous shuffle that runs
// over the deck. All deck mutation goes through a Coordinator.
package deckstack

import (
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/tarotshuffle/internal/instanceid"
	"github.com/lox/tarotshuffle/internal/layout"
	"github.com/lox/tarotshuffle/internal/overhand"
	"github.com/lox/tarotshuffle/tarot"
)

// Invalid operations. The coordinator returns these without changing state.
var (
	ErrInsufficientCards = errors.New("insufficient cards")
	ErrNotSplit          = errors.New("deck is not split")
	ErrAlreadySplit      = errors.New("deck is split")
	ErrEmptyPile         = errors.New("pile is empty")
	ErrUnknownInstance   = errors.New("unknown card instance")
)

// SeedSource produces seeds and records the click that requested them
type SeedSource interface {
	GenerateSeed() uint32
	TrackClick()
}

// Topology is whether the deck is one pile or two
type Topology string

const (
	Joined Topology = "joined"
	Split  Topology = "split"
)

// Event names the change that produced a snapshot
type Event string

const (
	EventShuffle   Event = "shuffle"
	EventRandomize Event = "randomize"
	EventSpin      Event = "spin"
	EventSplit     Event = "split"
	EventRejoin    Event = "rejoin"
	EventDraw      Event = "draw"
	EventReturn    Event = "return"
	EventReturnAll Event = "return_all"
	EventReset     Event = "reset"
	EventMove      Event = "move"
	EventStart     Event = "start"
	EventStop      Event = "stop"
	EventTick      Event = "tick"
)

// DrawnCard is one card lying on the table
type DrawnCard struct {
	InstanceID string           `json:"id"`
	Card       tarot.Card       `json:"card"`
	Reversed   bool             `json:"isReversed"`
	FaceUp     bool             `json:"isFlipped"`
	Pile       layout.Pile      `json:"pile"`
	Placement  layout.Placement `json:"placement"`
	Z          int              `json:"zIndex"`
	DrawnAt    time.Time        `json:"drawnAt"`
}

// Entry is the deck entry this card returns as
func (d DrawnCard) Entry() tarot.Entry {
	return tarot.Entry{Card: d.Card, Reversed: d.Reversed}
}

// Snapshot is a copy of the table state
type Snapshot struct {
	Event      Event          `json:"event"`
	Topology   Topology       `json:"topology"`
	Deck       tarot.Sequence `json:"deck"`
	Top        tarot.Sequence `json:"top"`
	Bottom     tarot.Sequence `json:"bottom"`
	Drawn      []DrawnCard    `json:"drawn"`
	Layout     layout.Layout  `json:"layout"`
	Running    bool           `json:"running"`
	Modified   bool           `json:"modified"`
	DrawFaceUp bool           `json:"drawFaceUp"`
}

// Coordinator routes table operations to the shuffle algorithms. It is safe
// for concurrent use. Every discrete deck operation stops the continuous
// shuffle before it runs.
type Coordinator struct {
	catalog    *tarot.Catalog
	seeds      SeedSource
	clock      quartz.Clock
	ids        *instanceid.Generator
	logger     *log.Logger
	controller *overhand.Controller

	mu       sync.Mutex
	topology Topology
	deck     tarot.Sequence
	top      tarot.Sequence
	bottom   tarot.Sequence
	layout   layout.Layout
	drawn    []DrawnCard
	session  []DrawnCard
	nextZ    int
	faceUp   bool

	listenersMu sync.Mutex
	listeners   map[int]func(Snapshot)
	nextID      int
}

type config struct {
	logger   *log.Logger
	interval time.Duration
	ids      *instanceid.Generator
	origin   layout.Point
}

// Option configures a Coordinator
type Option func(*config)

// WithLogger sets the parent logger
func WithLogger(logger *log.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithTickInterval sets the continuous shuffle interval
func WithTickInterval(d time.Duration) Option {
	return func(c *config) { c.interval = d }
}

// WithInstanceIDs sets the generator used to name drawn cards
func WithInstanceIDs(g *instanceid.Generator) Option {
	return func(c *config) { c.ids = g }
}

// WithDeckPosition places the deck on the table
func WithDeckPosition(p layout.Point) Option {
	return func(c *config) { c.origin = p }
}

// New creates a coordinator holding the catalog's cards upright in catalog
// order.
func New(catalog *tarot.Catalog, seeds SeedSource, clock quartz.Clock, opts ...Option) *Coordinator {
	cfg := config{
		logger:   log.Default(),
		interval: overhand.DefaultInterval,
		origin:   layout.DefaultDeck,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.ids == nil {
		cfg.ids = instanceid.NewGenerator(nil)
	}

	c := &Coordinator{
		catalog:   catalog,
		seeds:     seeds,
		clock:     clock,
		ids:       cfg.ids,
		logger:    cfg.logger.WithPrefix("deckstack"),
		topology:  Joined,
		deck:      catalog.Deck(),
		layout:    layout.New(cfg.origin),
		nextZ:     1,
		faceUp:    true,
		listeners: make(map[int]func(Snapshot)),
	}
	c.controller = overhand.New(clock, seeds, c.handleTick,
		overhand.WithInterval(cfg.interval),
		overhand.WithLogger(cfg.logger),
	)
	return c
}

// Subscribe registers fn to receive a snapshot after every change. Listeners
// run after the coordinator's lock is released, on the goroutine that made
// the change. The returned function removes the listener.
func (c *Coordinator) Subscribe(fn func(Snapshot)) (cancel func()) {
	c.listenersMu.Lock()
	defer c.listenersMu.Unlock()

	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	return func() {
		c.listenersMu.Lock()
		defer c.listenersMu.Unlock()
		delete(c.listeners, id)
	}
}

func (c *Coordinator) notify(snap Snapshot) {
	c.listenersMu.Lock()
	fns := make([]func(Snapshot), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.listenersMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

// Snapshot returns a copy of the current table state
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked("")
}

func (c *Coordinator) snapshotLocked(ev Event) Snapshot {
	return Snapshot{
		Event:      ev,
		Topology:   c.topology,
		Deck:       c.deck.Clone(),
		Top:        c.top.Clone(),
		Bottom:     c.bottom.Clone(),
		Drawn:      append([]DrawnCard{}, c.drawn...),
		Layout:     c.layout,
		Running:    c.controller.Running(),
		Modified:   c.modifiedLocked(),
		DrawFaceUp: c.faceUp,
	}
}

// SessionLog lists every card drawn since the last reset, in draw order
func (c *Coordinator) SessionLog() []DrawnCard {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]DrawnCard{}, c.session...)
}

// Modified reports whether the table differs from a fresh, ordered, upright
// deck.
func (c *Coordinator) Modified() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.modifiedLocked()
}

func (c *Coordinator) modifiedLocked() bool {
	if c.topology == Split || len(c.deck) != c.catalog.Len() {
		return true
	}
	for i, card := range c.catalog.Cards() {
		if c.deck[i].Reversed || c.deck[i].Card.ID != card.ID {
			return true
		}
	}
	return false
}

// Inventory lists the ID of every card on the table: the deck or both
// halves followed by the drawn cards.
func (c *Coordinator) Inventory() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids := c.deck.IDs()
	ids = append(ids, c.top.IDs()...)
	ids = append(ids, c.bottom.IDs()...)
	for _, d := range c.drawn {
		ids = append(ids, d.Card.ID)
	}
	return ids
}

// Running reports whether the continuous shuffle is active
func (c *Coordinator) Running() bool {
	return c.controller.Running()
}

// change runs fn under the lock and publishes the resulting snapshot. When
// discrete is set the continuous shuffle is stopped first. An error from fn
// means nothing changed, but a stop that already happened is still
// published.
func (c *Coordinator) change(ev Event, discrete bool, fn func() error) error {
	c.mu.Lock()
	stopped := false
	if discrete {
		stopped = c.controller.Stop()
	}
	err := fn()
	var snap Snapshot
	publish := err == nil || stopped
	if publish {
		if err != nil {
			snap = c.snapshotLocked(EventStop)
		} else {
			snap = c.snapshotLocked(ev)
		}
	}
	c.mu.Unlock()

	if stopped {
		c.logger.Debug("Continuous shuffle interrupted", "by", ev)
	}
	if err != nil {
		c.logger.Debug("Operation rejected", "op", ev, "error", err)
	}
	if publish {
		c.notify(snap)
	}
	return err
}

func (c *Coordinator) handleTick(t overhand.Tick) {
	c.mu.Lock()
	if !c.controller.Current(t.Generation) || c.topology != Joined {
		c.mu.Unlock()
		return
	}
	c.deck = t.Deck
	snap := c.snapshotLocked(EventTick)
	c.mu.Unlock()

	c.notify(snap)
}
