package tui

import (
	"context"
	"errors"
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/lox/tarotshuffle/internal/deckstack"
)

// Run starts the terminal table and blocks until the user quits or ctx is
// cancelled. Table changes made elsewhere, such as continuous shuffle ticks,
// reach the model through the coordinator subscription.
func Run(ctx context.Context, m *Model, in io.Reader, out io.Writer) error {
	profile := termenv.NewOutput(out).EnvColorProfile()
	if m.profile != nil {
		profile = *m.profile
	}
	lipgloss.SetColorProfile(profile)

	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)

	fwd := newForwarder()
	unsubscribe := m.table.Subscribe(fwd.offer)
	defer unsubscribe()
	defer func() { _ = m.table.StopContinuous() }()

	fwdCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go fwd.run(fwdCtx, p.Send)

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// forwarder hands the newest snapshot to the program. Listeners run on
// whichever goroutine changed the table, including Update itself, so offer
// must never block; intermediate snapshots are dropped.
type forwarder struct {
	mu      sync.Mutex
	pending *deckstack.Snapshot
	ready   chan struct{}
}

func newForwarder() *forwarder {
	return &forwarder{ready: make(chan struct{}, 1)}
}

func (f *forwarder) offer(snap deckstack.Snapshot) {
	f.mu.Lock()
	f.pending = &snap
	f.mu.Unlock()

	select {
	case f.ready <- struct{}{}:
	default:
	}
}

func (f *forwarder) take() (deckstack.Snapshot, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pending == nil {
		return deckstack.Snapshot{}, false
	}
	snap := *f.pending
	f.pending = nil
	return snap, true
}

func (f *forwarder) run(ctx context.Context, send func(tea.Msg)) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-f.ready:
			if snap, ok := f.take(); ok {
				send(SnapshotMsg(snap))
			}
		}
	}
}
