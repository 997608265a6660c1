package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/tarotshuffle/internal/deckstack"
	"github.com/lox/tarotshuffle/internal/overhand"
	"github.com/lox/tarotshuffle/internal/seed"
	"github.com/lox/tarotshuffle/tarot"
)

type harness struct {
	server *Server
	table  *deckstack.Coordinator
	seeds  *seed.Generator
	clock  *quartz.Mock
	url    string
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	clock := quartz.NewMock(t)
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	seeds := seed.New(clock)
	table := deckstack.New(tarot.NewCatalog(), seeds, clock, deckstack.WithLogger(logger))
	t.Cleanup(func() { _ = table.StopContinuous() })

	srv := NewServer("", table, seeds, clock, logger, opts...)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		_ = srv.Stop()
		ts.Close()
	})

	return &harness{
		server: srv,
		table:  table,
		seeds:  seeds,
		clock:  clock,
		url:    "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws",
	}
}

// dial connects and consumes the welcome and initial state messages
func (h *harness) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	ws, _, err := websocket.DefaultDialer.Dial(h.url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })

	welcome := readMessage(t, ws)
	require.Equal(t, MessageTypeWelcome, welcome.Type)
	state := readMessage(t, ws)
	require.Equal(t, MessageTypeState, state.Type)

	require.Eventually(t, func() bool {
		return h.server.ConnectionCount() > 0
	}, time.Second, 5*time.Millisecond)
	return ws
}

func readMessage(t *testing.T, ws *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg Message
	require.NoError(t, ws.ReadJSON(&msg))
	return msg
}

func readState(t *testing.T, ws *websocket.Conn) StateData {
	t.Helper()
	msg := readMessage(t, ws)
	require.Equal(t, MessageTypeState, msg.Type, "payload: %s", msg.Data)
	var data StateData
	require.NoError(t, json.Unmarshal(msg.Data, &data))
	return data
}

func readNotice(t *testing.T, ws *websocket.Conn) string {
	t.Helper()
	msg := readMessage(t, ws)
	require.Equal(t, MessageTypeNotice, msg.Type, "payload: %s", msg.Data)
	var data NoticeData
	require.NoError(t, json.Unmarshal(msg.Data, &data))
	return data.Message
}

func readError(t *testing.T, ws *websocket.Conn) ErrorData {
	t.Helper()
	msg := readMessage(t, ws)
	require.Equal(t, MessageTypeError, msg.Type, "payload: %s", msg.Data)
	var data ErrorData
	require.NoError(t, json.Unmarshal(msg.Data, &data))
	return data
}

func send(t *testing.T, ws *websocket.Conn, mt MessageType, data any) {
	t.Helper()
	msg, err := NewMessage(time.Now(), mt, data)
	require.NoError(t, err)
	require.NoError(t, ws.WriteJSON(msg))
}

func action(t *testing.T, ws *websocket.Conn, data ActionData) {
	t.Helper()
	send(t, ws, MessageTypeAction, data)
}

func TestHealth(t *testing.T) {
	h := newHarness(t)
	rec := httptest.NewRecorder()
	h.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestWelcomeCarriesSessionAndTable(t *testing.T) {
	h := newHarness(t)
	ws, _, err := websocket.DefaultDialer.Dial(h.url, nil)
	require.NoError(t, err)
	defer ws.Close()

	welcome := readMessage(t, ws)
	require.Equal(t, MessageTypeWelcome, welcome.Type)
	var data WelcomeData
	require.NoError(t, json.Unmarshal(welcome.Data, &data))
	_, err = uuid.Parse(data.SessionID)
	assert.NoError(t, err)

	state := readState(t, ws)
	assert.Equal(t, deckstack.Joined, state.Table.Topology)
	assert.Len(t, state.Table.Deck, 78)
	assert.False(t, state.Table.Modified)
	assert.Empty(t, state.SessionLog)
}

func TestImmediateShuffle(t *testing.T) {
	h := newHarness(t, WithNoticeDelay(0))
	ws := h.dial(t)

	send(t, ws, MessageTypeClick, nil)
	action(t, ws, ActionData{Action: ActionShuffle})

	state := readState(t, ws)
	assert.Equal(t, deckstack.EventShuffle, state.Table.Event)
	assert.True(t, state.Table.Modified)
	assert.Len(t, state.Table.Deck, 78)
	assert.Equal(t, "Shuffled!", readNotice(t, ws))
}

func TestNoticePrecedesDelayedShuffle(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	h := newHarness(t, WithNoticeDelay(300*time.Millisecond))
	ws := h.dial(t)

	action(t, ws, ActionData{Action: ActionRandomize})
	assert.Equal(t, "Randomizing...", readNotice(t, ws))
	assert.False(t, h.table.Modified(), "deck must not move before the notice delay")

	h.clock.Advance(300 * time.Millisecond).MustWait(ctx)
	state := readState(t, ws)
	assert.Equal(t, deckstack.EventRandomize, state.Table.Event)
	assert.Equal(t, "Randomized!", readNotice(t, ws))

	h.clock.Advance(NoticeClearDelay).MustWait(ctx)
	assert.Equal(t, "", readNotice(t, ws))
}

func (s *Server) pendingNotices() int {
	s.noticeMu.Lock()
	defer s.noticeMu.Unlock()
	return len(s.pending)
}

func TestStopCancelsQueuedShuffle(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	h := newHarness(t, WithNoticeDelay(300*time.Millisecond))
	ws := h.dial(t)

	action(t, ws, ActionData{Action: ActionRandomize})
	assert.Equal(t, "Randomizing...", readNotice(t, ws))
	require.Equal(t, 1, h.server.pendingNotices())

	require.NoError(t, h.server.Stop())
	assert.Zero(t, h.server.pendingNotices())

	h.clock.Advance(300 * time.Millisecond).MustWait(ctx)
	assert.False(t, h.table.Modified(), "a queued operation must not run after stop")
}

func TestAppliedNoticeIsForgotten(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	h := newHarness(t, WithNoticeDelay(300*time.Millisecond))
	ws := h.dial(t)

	action(t, ws, ActionData{Action: ActionShuffle})
	assert.Equal(t, "Shuffling...", readNotice(t, ws))
	h.clock.Advance(300 * time.Millisecond).MustWait(ctx)
	readState(t, ws)
	assert.Equal(t, "Shuffled!", readNotice(t, ws))
	assert.Zero(t, h.server.pendingNotices())
}

func TestRejectedActionsReportErrors(t *testing.T) {
	h := newHarness(t, WithNoticeDelay(0))
	ws := h.dial(t)

	action(t, ws, ActionData{Action: ActionRejoin})
	assert.Equal(t, "not_split", readError(t, ws).Code)

	action(t, ws, ActionData{Action: ActionDraw, Pile: "top"})
	assert.Equal(t, "not_split", readError(t, ws).Code)

	action(t, ws, ActionData{Action: ActionDraw, Pile: "sideways"})
	assert.Equal(t, "invalid_action", readError(t, ws).Code)

	action(t, ws, ActionData{Action: ActionReturn, InstanceID: "ci_missing"})
	assert.Equal(t, "unknown_instance", readError(t, ws).Code)

	action(t, ws, ActionData{Action: ActionMoveCard, InstanceID: "ci_missing"})
	assert.Equal(t, "invalid_action", readError(t, ws).Code)

	action(t, ws, ActionData{Action: "juggle"})
	assert.Equal(t, "unknown_action", readError(t, ws).Code)

	send(t, ws, "dance", nil)
	assert.Equal(t, "unknown_message_type", readError(t, ws).Code)
}

func TestDrawAndReturnRoundTrip(t *testing.T) {
	h := newHarness(t, WithNoticeDelay(0))
	ws := h.dial(t)

	action(t, ws, ActionData{Action: ActionDraw})
	state := readState(t, ws)
	require.Equal(t, deckstack.EventDraw, state.Table.Event)
	require.Len(t, state.Table.Drawn, 1)
	assert.Len(t, state.Table.Deck, 77)
	require.Len(t, state.SessionLog, 1)

	drawn := state.Table.Drawn[0]
	action(t, ws, ActionData{Action: ActionFlip, InstanceID: drawn.InstanceID})
	state = readState(t, ws)
	assert.Equal(t, !drawn.FaceUp, state.Table.Drawn[0].FaceUp)

	x, y := 10.0, 20.0
	action(t, ws, ActionData{Action: ActionMoveCard, InstanceID: drawn.InstanceID, X: &x, Y: &y, Rotation: 2})
	state = readState(t, ws)
	assert.Equal(t, 10.0, state.Table.Drawn[0].Placement.X)
	assert.Equal(t, 2.0, state.Table.Drawn[0].Placement.Rotation)

	action(t, ws, ActionData{Action: ActionReturn, InstanceID: drawn.InstanceID})
	state = readState(t, ws)
	assert.Equal(t, deckstack.EventReturn, state.Table.Event)
	assert.Empty(t, state.Table.Drawn)
	assert.Len(t, state.Table.Deck, 78)
	assert.Len(t, state.SessionLog, 1, "returning a card keeps it in the session log")
}

func TestSplitDrawFromHalves(t *testing.T) {
	h := newHarness(t, WithNoticeDelay(0))
	ws := h.dial(t)

	action(t, ws, ActionData{Action: ActionSplit})
	state := readState(t, ws)
	require.Equal(t, deckstack.Split, state.Table.Topology)
	assert.Len(t, state.Table.Top, 39)
	assert.Len(t, state.Table.Bottom, 39)

	action(t, ws, ActionData{Action: ActionDraw, Pile: "bottom"})
	state = readState(t, ws)
	assert.Len(t, state.Table.Bottom, 38)
	assert.Equal(t, "bottom", string(state.Table.Drawn[0].Pile))

	action(t, ws, ActionData{Action: ActionSpin})
	state = readState(t, ws)
	assert.Equal(t, deckstack.Split, state.Table.Topology, "spinning keeps the halves apart")
	assert.Equal(t, "Spun!", readNotice(t, ws))

	action(t, ws, ActionData{Action: ActionShuffle})
	state = readState(t, ws)
	assert.Equal(t, deckstack.Joined, state.Table.Topology, "shuffling joins the halves")
	assert.Len(t, state.Table.Deck, 77)
}

func TestTelemetryFeedsSeedGenerator(t *testing.T) {
	h := newHarness(t, WithNoticeDelay(0))
	ws := h.dial(t)

	send(t, ws, MessageTypePointer, PointerData{X: 1, Y: 2})
	send(t, ws, MessageTypePointer, PointerData{X: 30, Y: 40})
	send(t, ws, MessageTypeHover, HoverData{Ms: 250})
	send(t, ws, MessageTypeHover, HoverData{Ms: -10})
	send(t, ws, MessageTypeClick, nil)

	// Messages are handled in order, so a reply to this one means the
	// telemetry above has been recorded.
	action(t, ws, ActionData{Action: ActionSplit})
	readState(t, ws)

	data := h.seeds.BehaviorData()
	assert.Len(t, data.MouseMovements, 2)
	assert.Equal(t, int64(250), data.HoverTime)
	assert.Len(t, data.ClickTimings, 1)
}

func TestBroadcastReachesEveryClient(t *testing.T) {
	h := newHarness(t, WithNoticeDelay(0))
	first := h.dial(t)
	second := h.dial(t)
	require.Eventually(t, func() bool {
		return h.server.ConnectionCount() == 2
	}, time.Second, 5*time.Millisecond)

	action(t, first, ActionData{Action: ActionSplit})
	assert.Equal(t, deckstack.EventSplit, readState(t, first).Table.Event)
	assert.Equal(t, deckstack.EventSplit, readState(t, second).Table.Event)
}

func TestContinuousShuffleStreamsTicks(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	h := newHarness(t, WithNoticeDelay(0))
	ws := h.dial(t)

	action(t, ws, ActionData{Action: ActionStart})
	state := readState(t, ws)
	require.True(t, state.Table.Running)

	h.clock.Advance(overhand.DefaultInterval).MustWait(ctx)
	msg := readMessage(t, ws)
	require.Equal(t, MessageTypeTick, msg.Type)
	var tick TickData
	require.NoError(t, json.Unmarshal(msg.Data, &tick))
	assert.Len(t, tick.Deck, 78)
	assert.True(t, tick.Running)

	action(t, ws, ActionData{Action: ActionStop})
	state = readState(t, ws)
	assert.Equal(t, deckstack.EventStop, state.Table.Event)
	assert.False(t, state.Table.Running)
}

func TestCheckOrigin(t *testing.T) {
	h := newHarness(t, WithAllowedOrigins([]string{"tarot.example.com", "http://localhost:5173"}))

	req := func(origin string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/ws", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		return r
	}

	assert.True(t, h.server.checkOrigin(req("")))
	assert.True(t, h.server.checkOrigin(req("https://TAROT.example.com")))
	assert.True(t, h.server.checkOrigin(req("http://localhost:5173")))
	assert.False(t, h.server.checkOrigin(req("https://evil.example.com")))

	open := newHarness(t)
	assert.True(t, open.server.checkOrigin(req("https://anything.example")))
}
