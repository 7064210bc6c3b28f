package main

import (
	"os"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/sweeney/tally-tracker/internal/accel"
	"github.com/sweeney/tally-tracker/internal/backup"
	"github.com/sweeney/tally-tracker/internal/buttons"
	"github.com/sweeney/tally-tracker/internal/display"
	"github.com/sweeney/tally-tracker/internal/face"
	"github.com/sweeney/tally-tracker/internal/journal"
	"github.com/sweeney/tally-tracker/internal/mqtt"
	"github.com/sweeney/tally-tracker/internal/status"
)

// fakeClock advances one second per call, starting from a fixed date so
// deficit math in assertions is deterministic.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 6, 10, 8, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

type loopHarness struct {
	face      *face.Face
	store     *backup.FakeRegisters
	buttons   *buttons.FakeReader
	taps      *accel.FakeSource
	display   *display.Fake
	publisher *mqtt.FakePublisher
	tracker   *status.Tracker
	journal   *journal.Journal

	tick chan time.Time
	sig  chan os.Signal
	done chan error
}

func newLoopHarness(t *testing.T, btnSamples []buttons.Sample, tapSamples []byte) *loopHarness {
	t.Helper()

	regs := backup.NewFakeRegisters()
	store := backup.NewStore(regs)

	jrnl, err := journal.Open(":memory:")
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	t.Cleanup(func() { jrnl.Close() })

	if btnSamples == nil {
		btnSamples = []buttons.Sample{{}}
	}

	h := &loopHarness{
		face:      face.New(store),
		store:     regs,
		buttons:   buttons.NewFakeReader(btnSamples),
		taps:      accel.NewFakeSource(tapSamples),
		display:   display.NewFake(),
		publisher: mqtt.NewFakePublisher(),
		tracker:   status.NewTracker(time.Now(), status.Config{TickMs: 1000}),
		journal:   jrnl,
		tick:      make(chan time.Time),
		sig:       make(chan os.Signal),
		done:      make(chan error, 1),
	}
	h.face.Activate()
	return h
}

// start runs the loop in the background with the given heartbeat interval.
func (h *loopHarness) start(heartbeat time.Duration) {
	clock := newFakeClock()
	go func() {
		h.done <- runLoop(h.face, h.buttons, h.taps, h.display, h.publisher,
			h.publisher, h.journal, h.tracker, heartbeat, clock.now, h.tick, h.sig)
	}()
}

// ticks drives n loop iterations. Each send synchronizes with the loop's
// receive, so by the time the next send completes the previous tick is done.
func (h *loopHarness) ticks(n int) {
	for i := 0; i < n; i++ {
		h.tick <- time.Time{}
	}
}

func (h *loopHarness) wait(t *testing.T) error {
	t.Helper()
	select {
	case err := <-h.done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("run loop did not return")
		return nil
	}
}

func TestRunLoopShutdownOnSignal(t *testing.T) {
	h := newLoopHarness(t, nil, nil)
	h.start(0)

	h.ticks(1)
	h.sig <- syscall.SIGTERM
	if err := h.wait(t); err != nil {
		t.Fatalf("run loop: %v", err)
	}

	if len(h.publisher.SystemEvents) != 1 {
		t.Fatalf("system events: got %d, want 1", len(h.publisher.SystemEvents))
	}
	ev := h.publisher.SystemEvents[0]
	if ev.Event != "SHUTDOWN" || ev.Reason != "SIGTERM" {
		t.Errorf("shutdown event: got %s/%s", ev.Event, ev.Reason)
	}
	if !ev.Retained {
		t.Error("shutdown event should be retained")
	}
	if !strings.Contains(string(ev.RawPayload), `"reason":"SIGTERM"`) {
		t.Errorf("shutdown payload missing reason: %s", ev.RawPayload)
	}
}

func TestRunLoopHoldIncrementFlowsEverywhere(t *testing.T) {
	// Light held for 3 ticks then released: one increment, which must reach
	// the publisher, the journal, the tracker, and the backup registers.
	h := newLoopHarness(t, []buttons.Sample{
		{Light: true}, {Light: true}, {Light: true}, {},
	}, nil)
	h.start(0)

	h.ticks(4)
	h.sig <- syscall.SIGINT
	if err := h.wait(t); err != nil {
		t.Fatalf("run loop: %v", err)
	}

	if len(h.publisher.Events) != 1 {
		t.Fatalf("published events: got %d, want 1", len(h.publisher.Events))
	}
	if h.publisher.Events[0].Type != face.EventIncrementA {
		t.Errorf("event: got %s", h.publisher.Events[0].Type)
	}

	n, err := h.journal.Count()
	if err != nil {
		t.Fatalf("journal count: %v", err)
	}
	if n != 1 {
		t.Errorf("journal entries: got %d, want 1", n)
	}

	if counts := h.tracker.Snapshot().Counts; counts.IncA != 1 {
		t.Errorf("tracked increments: got %d, want 1", counts.IncA)
	}

	if got := h.store.U16(0); got != 1 {
		t.Errorf("persisted tally A: got %d, want 1", got)
	}
}

func TestRunLoopModeButtonResigns(t *testing.T) {
	h := newLoopHarness(t, []buttons.Sample{{Mode: true}, {}}, nil)
	h.start(0)

	h.ticks(2)
	if err := h.wait(t); err != nil {
		t.Fatalf("run loop: %v", err)
	}

	if len(h.publisher.SystemEvents) != 1 {
		t.Fatalf("system events: got %d, want 1", len(h.publisher.SystemEvents))
	}
	ev := h.publisher.SystemEvents[0]
	if ev.Event != "SHUTDOWN" || ev.Reason != "MODE_BUTTON" {
		t.Errorf("shutdown event: got %s/%s", ev.Event, ev.Reason)
	}
}

func TestRunLoopGestureEntersDeficitDisplay(t *testing.T) {
	// Day 10 of a 30-day month with tally 0 against goal 12: a single tap
	// must bring up the deficit frame.
	h := newLoopHarness(t, nil, []byte{face.TapSrcSingle})
	h.start(0)

	// Tap tick plus two idle ticks to pass the multi-tap window.
	h.ticks(3)
	h.sig <- syscall.SIGTERM
	if err := h.wait(t); err != nil {
		t.Fatalf("run loop: %v", err)
	}

	last := h.display.Last()
	if last.Top != "GET A" {
		t.Errorf("frame top: got %q, want GET A", last.Top)
	}
	if last.Main != " 4.00" {
		t.Errorf("frame main: got %q, want \" 4.00\"", last.Main)
	}

	snap := h.tracker.Snapshot()
	if snap.Face.Mode != face.ModeShowDeficit {
		t.Errorf("tracked mode: got %s", snap.Face.Mode)
	}
	if snap.DeficitA != 4 {
		t.Errorf("tracked deficit: got %v, want 4", snap.DeficitA)
	}
}

func TestRunLoopButtonErrorSkipsTick(t *testing.T) {
	h := newLoopHarness(t, nil, nil)
	h.buttons.ReadError = os.ErrClosed
	h.start(0)

	h.ticks(2)
	h.sig <- syscall.SIGTERM
	if err := h.wait(t); err != nil {
		t.Fatalf("run loop: %v", err)
	}

	if len(h.display.Frames) != 0 {
		t.Errorf("frames shown despite button errors: %d", len(h.display.Frames))
	}
}

func TestRunLoopTapErrorStillTicks(t *testing.T) {
	// Losing the accelerometer degrades to hold-only operation.
	h := newLoopHarness(t, []buttons.Sample{{Light: true}, {Light: true}, {}}, nil)
	h.taps.ReadError = os.ErrClosed
	h.start(0)

	h.ticks(3)
	h.sig <- syscall.SIGTERM
	if err := h.wait(t); err != nil {
		t.Fatalf("run loop: %v", err)
	}

	if len(h.publisher.Events) != 1 || h.publisher.Events[0].Type != face.EventIncrementA {
		t.Errorf("hold increment lost: %v", h.publisher.Events)
	}
}

func TestRunLoopHeartbeat(t *testing.T) {
	h := newLoopHarness(t, nil, nil)
	h.start(2 * time.Second)

	h.ticks(4)
	h.sig <- syscall.SIGTERM
	if err := h.wait(t); err != nil {
		t.Fatalf("run loop: %v", err)
	}

	var heartbeats int
	for _, ev := range h.publisher.SystemEvents {
		if ev.Event == "HEARTBEAT" {
			heartbeats++
			if !strings.Contains(string(ev.RawPayload), `"event":"HEARTBEAT"`) {
				t.Errorf("heartbeat payload: %s", ev.RawPayload)
			}
		}
	}
	if heartbeats == 0 {
		t.Error("no heartbeat published")
	}
}

func TestRunLoopHeartbeatDisabled(t *testing.T) {
	h := newLoopHarness(t, nil, nil)
	h.start(0)

	h.ticks(5)
	h.sig <- syscall.SIGTERM
	if err := h.wait(t); err != nil {
		t.Fatalf("run loop: %v", err)
	}

	for _, ev := range h.publisher.SystemEvents {
		if ev.Event == "HEARTBEAT" {
			t.Fatal("heartbeat published despite interval 0")
		}
	}
}

func TestReadNetworkInfo(t *testing.T) {
	t.Setenv(envNetworkStatus, "up")
	t.Setenv(envNetworkType, "wifi")
	t.Setenv(envNetworkIP, "192.168.1.50")
	t.Setenv(envNetworkWifiSSID, "home")

	info := readNetworkInfo()
	if info == nil {
		t.Fatal("expected network info")
	}
	if info.Status != "up" || info.Type != "wifi" || info.IP != "192.168.1.50" || info.SSID != "home" {
		t.Errorf("network info: got %+v", info)
	}
}

func TestReadNetworkInfoAbsent(t *testing.T) {
	t.Setenv(envNetworkStatus, "")
	if info := readNetworkInfo(); info != nil {
		t.Errorf("expected nil without pi-helper env, got %+v", info)
	}
}
