// Package tui is a terminal table for the shuffler. Keys drive the deck;
// mouse movement, clicks and resting time feed the seed generator.
package tui

import (
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/muesli/termenv"

	"github.com/lox/tarotshuffle/internal/deckstack"
	"github.com/lox/tarotshuffle/internal/layout"
	"github.com/lox/tarotshuffle/internal/seed"
)

const (
	// DefaultNoticeDelay is how long the pending notice shows before the
	// deck moves
	DefaultNoticeDelay = 300 * time.Millisecond

	noticeClearDelay = 800 * time.Millisecond

	// Pointer gaps longer than this are not counted as hover time
	hoverGap = 500 * time.Millisecond
)

// SnapshotMsg delivers a table change to the model
type SnapshotMsg deckstack.Snapshot

// applyMsg fires when a pending notice has shown long enough
type applyMsg struct {
	op string
}

// clearNoticeMsg removes the completion notice. Stale clears are ignored.
type clearNoticeMsg struct {
	seq int
}

type pendingOp struct {
	pending string
	done    string
	apply   func() error
}

// Model is the Bubble Tea model for the table
type Model struct {
	table  *deckstack.Coordinator
	seeds  *seed.Generator
	clock  quartz.Clock
	logger *log.Logger

	keys     keyMap
	help     help.Model
	sessions viewport.Model

	snapshot    deckstack.Snapshot
	notice      string
	noticeSeq   int
	noticeDelay time.Duration
	lastErr     error
	lastMotion  time.Time
	ops         map[string]pendingOp

	profile *termenv.Profile

	width    int
	height   int
	quitting bool
}

// Option configures a Model
type Option func(*Model)

// WithNoticeDelay sets how long the pending notice shows. Zero applies
// operations immediately.
func WithNoticeDelay(d time.Duration) Option {
	return func(m *Model) { m.noticeDelay = d }
}

// WithColorProfile forces a color profile instead of detecting one from the
// output.
func WithColorProfile(p termenv.Profile) Option {
	return func(m *Model) { m.profile = &p }
}

// WithLogger sets the parent logger
func WithLogger(logger *log.Logger) Option {
	return func(m *Model) { m.logger = logger.WithPrefix("tui") }
}

// NewModel creates a model showing table's current state
func NewModel(table *deckstack.Coordinator, seeds *seed.Generator, clock quartz.Clock, opts ...Option) *Model {
	m := &Model{
		table:       table,
		seeds:       seeds,
		clock:       clock,
		logger:      log.Default().WithPrefix("tui"),
		keys:        defaultKeyMap(),
		help:        help.New(),
		sessions:    viewport.New(30, 10),
		snapshot:    table.Snapshot(),
		noticeDelay: DefaultNoticeDelay,
	}
	m.ops = map[string]pendingOp{
		"shuffle":   {pending: "Shuffling...", done: "Shuffled!", apply: table.ShuffleOnce},
		"randomize": {pending: "Randomizing...", done: "Randomized!", apply: table.Randomize},
		"spin":      {pending: "Spinning...", done: "Spun!", apply: table.Spin},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)

	case SnapshotMsg:
		m.snapshot = deckstack.Snapshot(msg)

	case applyMsg:
		return m, m.apply(msg.op)

	case clearNoticeMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}

	case tea.MouseMsg:
		m.handleMouse(msg)

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.sessions, cmd = m.sessions.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	m.lastErr = nil
	if !key.Matches(msg, m.keys.Quit, m.keys.Help) {
		m.seeds.TrackClick()
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		_ = m.table.StopContinuous()
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Shuffle):
		return m.begin("shuffle")
	case key.Matches(msg, m.keys.Randomize):
		return m.begin("randomize")
	case key.Matches(msg, m.keys.Spin):
		return m.begin("spin")
	case key.Matches(msg, m.keys.Split):
		if m.snapshot.Topology == deckstack.Split {
			m.record(m.table.Rejoin())
		} else {
			m.record(m.table.Split())
		}
	case key.Matches(msg, m.keys.Draw):
		m.draw(layout.PileTop)
	case key.Matches(msg, m.keys.DrawBottom):
		m.draw(layout.PileBottom)
	case key.Matches(msg, m.keys.Return):
		if n := len(m.snapshot.Drawn); n > 0 {
			m.record(m.table.ReturnCard(m.snapshot.Drawn[n-1].InstanceID))
		}
	case key.Matches(msg, m.keys.ReturnAll):
		m.record(m.table.ReturnAll())
	case key.Matches(msg, m.keys.Reset):
		m.record(m.table.Reset())
	case key.Matches(msg, m.keys.Continuous):
		if m.table.Running() {
			m.record(m.table.StopContinuous())
		} else {
			m.record(m.table.StartContinuous())
		}
	case key.Matches(msg, m.keys.FaceUp):
		m.table.SetDrawFaceUp(!m.snapshot.DrawFaceUp)
	}
	m.refresh()
	return nil
}

// draw takes from the named half while split and from the deck otherwise
func (m *Model) draw(half layout.Pile) {
	pile := layout.PileMain
	if m.snapshot.Topology == deckstack.Split {
		pile = half
	}
	_, err := m.table.Draw(pile)
	m.record(err)
}

// begin shows the pending notice and schedules the operation
func (m *Model) begin(op string) tea.Cmd {
	if m.noticeDelay <= 0 {
		return m.apply(op)
	}
	m.notice = m.ops[op].pending
	m.noticeSeq++
	return tea.Tick(m.noticeDelay, func(time.Time) tea.Msg { return applyMsg{op: op} })
}

// apply runs a noticed operation and schedules its notice to clear
func (m *Model) apply(op string) tea.Cmd {
	p, ok := m.ops[op]
	if !ok {
		return nil
	}
	err := p.apply()
	m.record(err)
	m.refresh()
	m.noticeSeq++
	if err != nil {
		m.notice = ""
		return nil
	}
	m.notice = p.done
	seq := m.noticeSeq
	return tea.Tick(noticeClearDelay, func(time.Time) tea.Msg { return clearNoticeMsg{seq: seq} })
}

func (m *Model) record(err error) {
	if err != nil {
		m.lastErr = err
		m.logger.Debug("Operation rejected", "error", err)
	}
}

// refresh pulls the table state directly so the view does not wait for the
// subscription.
func (m *Model) refresh() {
	m.snapshot = m.table.Snapshot()
}

// handleMouse feeds pointer telemetry into the seed generator. Motion
// within hoverGap of the previous event counts as time spent over the table.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	m.seeds.TrackPointer(seed.PointerEvent{X: float64(msg.X), Y: float64(msg.Y)})

	now := m.clock.Now()
	if !m.lastMotion.IsZero() {
		if gap := now.Sub(m.lastMotion); gap > 0 && gap <= hoverGap {
			m.seeds.AddHoverTime(gap.Milliseconds())
		}
	}
	m.lastMotion = now

	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		m.seeds.TrackClick()
	}
}

// Err returns the last rejected operation, cleared on the next key press
func (m *Model) Err() error {
	return m.lastErr
}

// Notice returns the notice currently shown
func (m *Model) Notice() string {
	return m.notice
}

func errorText(err error) string {
	switch {
	case errors.Is(err, deckstack.ErrEmptyPile):
		return "That pile is empty"
	case errors.Is(err, deckstack.ErrInsufficientCards):
		return "Not enough cards to split"
	case errors.Is(err, deckstack.ErrNotSplit):
		return "The deck is not split"
	case errors.Is(err, deckstack.ErrAlreadySplit):
		return "The deck is already split"
	default:
		return err.Error()
	}
}
