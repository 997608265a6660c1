package overhand

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/tarotshuffle/internal/shuffle"
	"github.com/lox/tarotshuffle/tarot"
)

type fixedSeeds struct {
	mu    sync.Mutex
	seed  uint32
	calls int
}

func (f *fixedSeeds) GenerateSeed() uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.seed
}

type recorder struct {
	mu    sync.Mutex
	ticks []Tick
}

func (r *recorder) record(t Tick) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ticks = append(r.ticks, t)
}

func (r *recorder) all() []Tick {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Tick(nil), r.ticks...)
}

func deck(n int) tarot.Sequence {
	return tarot.Upright(tarot.NewCatalog().Cards())[:n].Clone()
}

func tickOnce(t *testing.T, clock *quartz.Mock, d time.Duration) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	clock.Advance(d).MustWait(ctx)
}

func sortedIDs(seq tarot.Sequence) []string {
	ids := seq.IDs()
	sort.Strings(ids)
	return ids
}

func TestControllerTicksFollowProcessChunk(t *testing.T) {
	t.Parallel()
	clock := quartz.NewMock(t)
	seeds := &fixedSeeds{seed: 4242}
	rec := &recorder{}
	c := New(clock, seeds, rec.record)

	d := deck(10)
	require.True(t, c.Start(d))
	require.True(t, c.Running())

	expected := shuffle.NewOverhandState(d)
	for i := 0; i < 5; i++ {
		tickOnce(t, clock, DefaultInterval)
		expected = expected.Next(4242)
	}

	ticks := rec.all()
	require.Len(t, ticks, 5)
	last := ticks[4]
	assert.Equal(t, expected.Deck(), last.Deck)
	assert.Equal(t, 5, last.ChunkIndex)
	assert.Equal(t, 5, seeds.calls)
	for i, tk := range ticks {
		assert.Equal(t, i+1, tk.ChunkIndex)
		assert.Len(t, tk.Deck, 10)
		assert.Equal(t, sortedIDs(d), sortedIDs(tk.Deck))
	}
}

func TestControllerStartWhileRunningIsNoop(t *testing.T) {
	t.Parallel()
	clock := quartz.NewMock(t)
	rec := &recorder{}
	c := New(clock, &fixedSeeds{seed: 1}, rec.record)

	require.True(t, c.Start(deck(10)))
	tickOnce(t, clock, DefaultInterval)
	gen := rec.all()[0].Generation

	assert.False(t, c.Start(deck(3)), "second start must not reset the run")
	tickOnce(t, clock, DefaultInterval)

	ticks := rec.all()
	require.Len(t, ticks, 2)
	assert.Equal(t, gen, ticks[1].Generation)
	assert.Equal(t, 2, ticks[1].ChunkIndex)
	assert.Len(t, ticks[1].Deck, 10)
}

func TestControllerStopDropsLateTicks(t *testing.T) {
	t.Parallel()
	clock := quartz.NewMock(t)
	rec := &recorder{}
	c := New(clock, &fixedSeeds{seed: 9}, rec.record)

	require.True(t, c.Start(deck(10)))
	tickOnce(t, clock, DefaultInterval)
	require.True(t, c.Stop())
	assert.False(t, c.Running())
	assert.False(t, c.Stop())

	// The cancelled ticker may still fire once before it is removed.
	tickOnce(t, clock, DefaultInterval)
	tickOnce(t, clock, DefaultInterval)

	assert.Len(t, rec.all(), 1)
	_, ok := c.Step()
	assert.False(t, ok)
}

func TestControllerRestartBeginsFreshPass(t *testing.T) {
	t.Parallel()
	clock := quartz.NewMock(t)
	rec := &recorder{}
	c := New(clock, &fixedSeeds{seed: 77}, rec.record)

	require.True(t, c.Start(deck(10)))
	tickOnce(t, clock, DefaultInterval)
	tickOnce(t, clock, DefaultInterval)
	first := rec.all()[1]
	require.True(t, c.Stop())

	require.True(t, c.Start(first.Deck))
	tickOnce(t, clock, DefaultInterval)

	ticks := rec.all()
	require.Len(t, ticks, 3)
	restarted := ticks[2]
	assert.Greater(t, restarted.Generation, first.Generation)
	assert.Equal(t, 1, restarted.ChunkIndex)
	assert.Equal(t, shuffle.NewOverhandState(first.Deck).Next(77).Deck(), restarted.Deck)
}

func TestControllerCurrentGeneration(t *testing.T) {
	t.Parallel()
	clock := quartz.NewMock(t)
	c := New(clock, &fixedSeeds{}, nil)

	require.True(t, c.Start(deck(5)))
	tk, ok := c.Step()
	require.True(t, ok)
	assert.True(t, c.Current(tk.Generation))

	c.Stop()
	assert.False(t, c.Current(tk.Generation))
}

func TestControllerCountsPasses(t *testing.T) {
	t.Parallel()
	clock := quartz.NewMock(t)
	c := New(clock, &fixedSeeds{seed: 3}, nil, WithInterval(time.Second))

	require.True(t, c.Start(deck(4)))

	// Four cards with a zero chunk cap move one card per step.
	var last Tick
	for i := 0; i < 9; i++ {
		var ok bool
		last, ok = c.Step()
		require.True(t, ok)
	}
	assert.Equal(t, 2, last.Pass)
	assert.Equal(t, 9, last.ChunkIndex)
}

func TestControllerCustomInterval(t *testing.T) {
	t.Parallel()
	clock := quartz.NewMock(t)
	rec := &recorder{}
	c := New(clock, &fixedSeeds{seed: 5}, rec.record, WithInterval(40*time.Millisecond))

	require.True(t, c.Start(deck(6)))
	tickOnce(t, clock, 40*time.Millisecond)
	tickOnce(t, clock, 40*time.Millisecond)
	assert.Len(t, rec.all(), 2)
	c.Stop()
}
