// Package overhand drives the incremental overhand shuffle on a clock so the
// deck can be watched while it is being mixed.
package overhand

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/tarotshuffle/internal/shuffle"
	"github.com/lox/tarotshuffle/tarot"
)

// DefaultInterval is the time between chunks
const DefaultInterval = 150 * time.Millisecond

// SeedSource supplies a fresh seed for every chunk
type SeedSource interface {
	GenerateSeed() uint32
}

// Tick is the observable deck after one chunk has been moved
type Tick struct {
	Generation uint64
	Deck       tarot.Sequence
	ChunkIndex int
	Pass       int
}

// Controller runs the continuous overhand shuffle. It is Idle until Start and
// returns to Idle on Stop; there is no resume, every Start begins a fresh
// pass over the deck it is given.
//
// Each run carries a generation number. Ticks are published with the
// generation that produced them and Stop bumps the generation, so a
// subscriber can discard anything that arrives late.
type Controller struct {
	clock    quartz.Clock
	seeds    SeedSource
	onTick   func(Tick)
	interval time.Duration
	logger   *log.Logger

	mu         sync.Mutex
	running    bool
	generation uint64
	deck       tarot.Sequence
	state      *shuffle.OverhandState
	pass       int
	cancel     context.CancelFunc
}

// Option configures a Controller
type Option func(*Controller)

// WithInterval overrides DefaultInterval
func WithInterval(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithLogger sets the parent logger
func WithLogger(logger *log.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// New creates an idle controller. onTick may be nil.
func New(clock quartz.Clock, seeds SeedSource, onTick func(Tick), opts ...Option) *Controller {
	c := &Controller{
		clock:    clock,
		seeds:    seeds,
		onTick:   onTick,
		interval: DefaultInterval,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.WithPrefix("overhand")
	return c
}

// Start begins shuffling a copy of deck. It returns false, leaving the
// current run untouched, when the controller is already running.
func (c *Controller) Start(deck tarot.Sequence) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return false
	}

	c.running = true
	c.generation++
	c.deck = deck.Clone()
	c.state = nil
	c.pass = 0

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	gen := c.generation
	c.clock.TickerFunc(ctx, c.interval, func() error {
		c.advance(gen)
		return nil
	}, "overhand", "tick")

	c.logger.Debug("Continuous shuffle started", "generation", gen, "cards", len(deck), "interval", c.interval)
	return true
}

// Stop halts the run and discards its state. Any tick still in flight is
// dropped. It returns false when the controller was idle.
func (c *Controller) Stop() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return false
	}

	c.cancel()
	c.cancel = nil
	c.running = false
	c.generation++
	c.state = nil
	c.deck = nil

	c.logger.Debug("Continuous shuffle stopped", "generation", c.generation)
	return true
}

// Running reports whether a run is active
func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Current reports whether gen belongs to the active run
func (c *Controller) Current(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running && gen == c.generation
}

// Step moves one chunk immediately, outside the ticker schedule
func (c *Controller) Step() (Tick, bool) {
	c.mu.Lock()
	gen := c.generation
	c.mu.Unlock()
	return c.advance(gen)
}

func (c *Controller) advance(gen uint64) (Tick, bool) {
	tick, ok := c.process(gen)
	if ok && c.onTick != nil {
		c.onTick(tick)
	}
	return tick, ok
}

func (c *Controller) process(gen uint64) (Tick, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || gen != c.generation {
		return Tick{}, false
	}

	if c.state == nil {
		st := shuffle.NewOverhandState(c.deck)
		c.state = &st
	}
	if c.state.PassDone() && c.state.Len() > 0 {
		c.pass++
	}

	seed := int64(c.seeds.GenerateSeed())
	next := shuffle.ProcessChunk(*c.state, seed, c.state.ChunkIndex)
	c.state = &next

	return Tick{
		Generation: gen,
		Deck:       next.Deck(),
		ChunkIndex: next.ChunkIndex,
		Pass:       c.pass,
	}, true
}
