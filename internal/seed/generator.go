// Package seed derives shuffle seeds from accumulated user-interaction
// telemetry: pointer movement, hover time, click rhythm and time on the table.
package seed

import (
	"math"
	"strconv"
	"sync"

	"github.com/coder/quartz"
)

const (
	// DefaultMouseSamples bounds the pointer-movement history
	DefaultMouseSamples = 100
	// DefaultClickSamples bounds the click-timestamp history
	DefaultClickSamples = 50
)

// Weights of each behavior term in the combined value fed to the hash
const (
	weightHover       = 1000
	weightPageTime    = 500
	weightDistance    = 10
	weightSpeed       = 5
	weightMouseCount  = 7
	weightClickCount  = 3
	clickPatternRange = 1000
)

// PointerEvent is the single pointer shape used past the input boundary.
// Mouse and touch adapters both construct one of these.
type PointerEvent struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// MouseSample is one buffered pointer position. Timestamp is Unix
// milliseconds.
type MouseSample struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Timestamp int64   `json:"timestamp"`
}

// BehaviorData is a snapshot of the accumulated telemetry
type BehaviorData struct {
	HoverTime      int64         `json:"hoverTime"`
	PageTime       int64         `json:"pageTime"`
	MouseMovements []MouseSample `json:"mouseMovements"`
	ClickTimings   []int64       `json:"clickTimings"`
}

// Generator accumulates interaction telemetry and turns it into seeds on
// demand. Seeds are recomputed from the live state on every call; nothing is
// cached and successive calls with no new input can return the same value.
type Generator struct {
	mu        sync.Mutex
	clock     quartz.Clock
	startedAt int64
	hoverTime int64
	pageTime  int64
	mouse     *ring[MouseSample]
	clicks    *ring[int64]
}

// Option configures a Generator
type Option func(*options)

type options struct {
	mouseSamples int
	clickSamples int
}

// WithMouseSamples overrides how many pointer samples are retained
func WithMouseSamples(n int) Option {
	return func(o *options) { o.mouseSamples = n }
}

// WithClickSamples overrides how many click timestamps are retained
func WithClickSamples(n int) Option {
	return func(o *options) { o.clickSamples = n }
}

// New creates a generator whose session clock starts now
func New(clock quartz.Clock, opts ...Option) *Generator {
	o := options{mouseSamples: DefaultMouseSamples, clickSamples: DefaultClickSamples}
	for _, opt := range opts {
		opt(&o)
	}
	return &Generator{
		clock:     clock,
		startedAt: clock.Now().UnixMilli(),
		mouse:     newRing[MouseSample](o.mouseSamples),
		clicks:    newRing[int64](o.clickSamples),
	}
}

// TrackMouseMove records a pointer position. Any coordinates are accepted.
func (g *Generator) TrackMouseMove(x, y float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.mouse.push(MouseSample{X: x, Y: y, Timestamp: g.clock.Now().UnixMilli()})
}

// TrackPointer records a normalized pointer event
func (g *Generator) TrackPointer(ev PointerEvent) {
	g.TrackMouseMove(ev.X, ev.Y)
}

// AddHoverTime accumulates hover duration in milliseconds
func (g *Generator) AddHoverTime(ms int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.hoverTime += ms
}

// TrackClick records a click at the current time
func (g *Generator) TrackClick() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.clicks.push(g.clock.Now().UnixMilli())
}

// GenerateSeed derives a non-negative 32-bit seed from the current telemetry.
// Identical telemetry always produces the identical seed.
func (g *Generator) GenerateSeed() uint32 {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.pageTime = g.clock.Now().UnixMilli() - g.startedAt
	mouse := g.mouse.items()
	clicks := g.clicks.items()

	distance, speed := mouseTravel(mouse)
	pattern := clickPattern(clicks)

	combined := float64(g.hoverTime) * weightHover
	combined += float64(g.pageTime) * weightPageTime
	combined += float64(distance * weightDistance)
	combined += float64(speed * weightSpeed)
	combined += float64(pattern)
	combined += float64(len(mouse) * weightMouseCount)
	combined += float64(len(clicks) * weightClickCount)

	return Hash(combined)
}

// BehaviorData returns a copy of the accumulated telemetry
func (g *Generator) BehaviorData() BehaviorData {
	g.mu.Lock()
	defer g.mu.Unlock()
	return BehaviorData{
		HoverTime:      g.hoverTime,
		PageTime:       g.pageTime,
		MouseMovements: g.mouse.items(),
		ClickTimings:   g.clicks.items(),
	}
}

// Reset clears all telemetry and restarts the session clock
func (g *Generator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.startedAt = g.clock.Now().UnixMilli()
	g.hoverTime = 0
	g.pageTime = 0
	g.mouse.clear()
	g.clicks.clear()
}

// mouseTravel sums the Euclidean distance between consecutive samples and the
// per-pair speed. Pairs without a positive time delta add distance only.
func mouseTravel(samples []MouseSample) (distance, speed float64) {
	for i := 1; i < len(samples); i++ {
		prev, curr := samples[i-1], samples[i]
		dx, dy := curr.X-prev.X, curr.Y-prev.Y
		d := math.Sqrt(float64(dx*dx) + float64(dy*dy))
		distance += d
		if dt := curr.Timestamp - prev.Timestamp; dt > 0 {
			speed += d / float64(dt)
		}
	}
	return distance, speed
}

func clickPattern(timestamps []int64) int64 {
	var pattern int64
	for i := 1; i < len(timestamps); i++ {
		pattern += (timestamps[i] - timestamps[i-1]) % clickPatternRange
	}
	return pattern
}

// Hash renders v as its shortest decimal string and applies a 31-multiplier
// polynomial rolling hash with 32-bit wraparound. The result is the absolute
// value of the signed hash.
func Hash(v float64) uint32 {
	return HashString(strconv.FormatFloat(v, 'f', -1, 64))
}

// HashString is the string hash behind Hash
func HashString(s string) uint32 {
	var h int32
	for i := 0; i < len(s); i++ {
		h = (h << 5) - h + int32(s[i])
	}
	if h < 0 {
		return uint32(-int64(h))
	}
	return uint32(h)
}
