package wm

import (
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"testing"

	"github.com/1broseidon/areawm/internal/config"
	"github.com/1broseidon/areawm/internal/geom"
	"github.com/1broseidon/areawm/internal/platform"
)

const testRoot platform.WindowID = 1

const (
	modShift platform.ModMask = 1 << 0
	modCtrl  platform.ModMask = 1 << 2
	modAlt   platform.ModMask = 1 << 3
	modSuper platform.ModMask = 1 << 6
)

const (
	testWidth  = 1200
	testHeight = 800
)

// fakeBackend records what the manager asks of the display.
type fakeBackend struct {
	events chan platform.Event
	screen platform.Screen
	nextID platform.WindowID

	existing     []platform.WindowID
	unmanageable map[platform.WindowID]bool
	geometry     map[platform.WindowID]geom.Rect
	titles       map[platform.WindowID]string
	classes      map[platform.WindowID][2]string
	hints        map[platform.WindowID]geom.SizeHints

	frames     map[platform.WindowID]platform.WindowID // frame -> client
	mapped     map[platform.WindowID]bool
	configured map[platform.WindowID]geom.Rect
	icons      map[platform.WindowID]bool
	iconTitles map[platform.WindowID]string
	borders    map[platform.WindowID]bool
	focused    platform.WindowID
	raised     []platform.WindowID
	closed     []platform.WindowID
	notified   []platform.WindowID
	unmanaged  []platform.ConfigureRequest
	frameGrabs map[platform.WindowID][]platform.ButtonChord

	grabErr  error
	grabbed  bool
	cursor   platform.Cursor
	keyCodes map[string]uint8

	published []platform.DesktopState
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		events:       make(chan platform.Event, 16),
		screen:       platform.Screen{Width: testWidth, Height: testHeight, Work: geom.Rect{W: testWidth, H: testHeight}},
		nextID:       1000,
		unmanageable: make(map[platform.WindowID]bool),
		geometry:     make(map[platform.WindowID]geom.Rect),
		titles:       make(map[platform.WindowID]string),
		classes:      make(map[platform.WindowID][2]string),
		hints:        make(map[platform.WindowID]geom.SizeHints),
		frames:       make(map[platform.WindowID]platform.WindowID),
		mapped:       make(map[platform.WindowID]bool),
		configured:   make(map[platform.WindowID]geom.Rect),
		icons:        make(map[platform.WindowID]bool),
		iconTitles:   make(map[platform.WindowID]string),
		borders:      make(map[platform.WindowID]bool),
		frameGrabs:   make(map[platform.WindowID][]platform.ButtonChord),
		keyCodes:     make(map[string]uint8),
	}
}

func (f *fakeBackend) id() platform.WindowID {
	f.nextID++
	return f.nextID
}

func (f *fakeBackend) Root() platform.WindowID               { return testRoot }
func (f *fakeBackend) Events() <-chan platform.Event         { return f.events }
func (f *fakeBackend) Screen() platform.Screen               { return f.screen }
func (f *fakeBackend) IsManageable(w platform.WindowID) bool { return !f.unmanageable[w] }

func (f *fakeBackend) ExistingWindows() ([]platform.WindowID, error) { return f.existing, nil }

func (f *fakeBackend) Geometry(w platform.WindowID) (geom.Rect, error) {
	if r, ok := f.geometry[w]; ok {
		return r, nil
	}
	return geom.Rect{X: 100, Y: 100, W: 200, H: 200}, nil
}

func (f *fakeBackend) Title(w platform.WindowID) string {
	if t, ok := f.titles[w]; ok {
		return t
	}
	return "?"
}

func (f *fakeBackend) ClassHint(w platform.WindowID) (string, string) {
	if c, ok := f.classes[w]; ok {
		return c[0], c[1]
	}
	return "?", "?"
}

func (f *fakeBackend) SizeHints(w platform.WindowID) geom.SizeHints { return f.hints[w] }

func (f *fakeBackend) Manage(w platform.WindowID, r geom.Rect, _, _ int) (platform.WindowID, error) {
	frame := f.id()
	f.frames[frame] = w
	f.configured[w] = r
	return frame, nil
}

func (f *fakeBackend) Unframe(w, frame platform.WindowID) {
	delete(f.frames, frame)
	delete(f.mapped, frame)
}

func (f *fakeBackend) Configure(w, _ platform.WindowID, r geom.Rect, _, _ int) {
	f.configured[w] = r
}

func (f *fakeBackend) SetBorder(frame platform.WindowID, _ int, focused bool) {
	f.borders[frame] = focused
}

func (f *fakeBackend) Map(w platform.WindowID)             { f.mapped[w] = true }
func (f *fakeBackend) Unmap(w platform.WindowID)           { delete(f.mapped, w) }
func (f *fakeBackend) Raise(w platform.WindowID)           { f.raised = append(f.raised, w) }
func (f *fakeBackend) RestackBelow(_, _ platform.WindowID) {}
func (f *fakeBackend) Focus(w platform.WindowID)           { f.focused = w }
func (f *fakeBackend) Close(w platform.WindowID)           { f.closed = append(f.closed, w) }

func (f *fakeBackend) CreateIcon(geom.Rect, string) (platform.WindowID, error) {
	w := f.id()
	f.icons[w] = true
	return w, nil
}

func (f *fakeBackend) DestroyIcon(w platform.WindowID) {
	delete(f.icons, w)
	delete(f.mapped, w)
}

func (f *fakeBackend) SetIconTitle(w platform.WindowID, title string) {
	f.iconTitles[w] = title
}

func (f *fakeBackend) SendConfigureNotify(w platform.WindowID, _ geom.Rect, _ int) {
	f.notified = append(f.notified, w)
}

func (f *fakeBackend) ConfigureUnmanaged(ev platform.ConfigureRequest) {
	f.unmanaged = append(f.unmanaged, ev)
}

func (f *fakeBackend) GrabPointer(c platform.Cursor) error {
	if f.grabErr != nil {
		return f.grabErr
	}
	f.grabbed = true
	f.cursor = c
	return nil
}

func (f *fakeBackend) UngrabPointer() { f.grabbed = false }

func (f *fakeBackend) QueryPointer() (int, int, platform.WindowID, error) {
	return 0, 0, platform.None, errors.New("not supported")
}

// GrabKeys hands out one keycode per sequence so tests can press it.
func (f *fakeBackend) GrabKeys(seq string) ([]platform.KeyChord, error) {
	mods, last, err := parseTestChord(seq)
	if err != nil {
		return nil, err
	}
	code, ok := f.keyCodes[last]
	if !ok {
		code = uint8(len(f.keyCodes) + 10)
		f.keyCodes[last] = code
	}
	return []platform.KeyChord{{Mods: mods, Code: code}}, nil
}

func (f *fakeBackend) ParseButton(seq string) (platform.ButtonChord, error) {
	mods, last, err := parseTestChord(seq)
	if err != nil {
		return platform.ButtonChord{}, err
	}
	n, err := strconv.Atoi(last)
	if err != nil || n < 1 || n > 5 {
		return platform.ButtonChord{}, errors.New("bad button " + last)
	}
	return platform.ButtonChord{Mods: mods, Button: platform.Button(n)}, nil
}

func (f *fakeBackend) GrabButtons(w platform.WindowID, chords []platform.ButtonChord) {
	f.frameGrabs[w] = chords
}

func (f *fakeBackend) PublishState(s platform.DesktopState) {
	f.published = append(f.published, s)
}

func (f *fakeBackend) keyPress(t *testing.T, seq string) platform.KeyPress {
	t.Helper()
	mods, last, err := parseTestChord(seq)
	if err != nil {
		t.Fatalf("parseTestChord(%q): %v", seq, err)
	}
	code, ok := f.keyCodes[last]
	if !ok {
		t.Fatalf("key %q was never grabbed", seq)
	}
	return platform.KeyPress{Window: testRoot, Code: code, State: mods}
}

func parseTestChord(seq string) (platform.ModMask, string, error) {
	parts := strings.Split(seq, "-")
	var mods platform.ModMask
	for _, p := range parts[:len(parts)-1] {
		switch p {
		case "Shift":
			mods |= modShift
		case "Control":
			mods |= modCtrl
		case "Mod1":
			mods |= modAlt
		case "Mod4":
			mods |= modSuper
		default:
			return 0, "", errors.New("unknown modifier " + p)
		}
	}
	return mods, parts[len(parts)-1], nil
}

type countingRecorder struct {
	events   map[platform.Kind]int
	actions  map[string]int
	gestures map[string][]bool
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{
		events:   make(map[platform.Kind]int),
		actions:  make(map[string]int),
		gestures: make(map[string][]bool),
	}
}

func (r *countingRecorder) EventHandled(k platform.Kind) { r.events[k]++ }
func (r *countingRecorder) ActionRun(name string)        { r.actions[name]++ }
func (r *countingRecorder) GestureDone(name string, applied bool) {
	r.gestures[name] = append(r.gestures[name], applied)
}

type fakeSpawner struct{ started [][]string }

func (s *fakeSpawner) Spawn(argv []string) error {
	s.started = append(s.started, argv)
	return nil
}

// testConfig returns defaults without decorations or gaps so rectangles are
// easy to reason about.
func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Gap = 0
	cfg.BorderWidth = 0
	cfg.TitleBarHeight = 0
	return cfg
}

type harness struct {
	m   *Manager
	be  *fakeBackend
	rec *countingRecorder
	sp  *fakeSpawner
}

func newHarness(t *testing.T, cfg *config.Config) *harness {
	t.Helper()
	h := &harness{be: newFakeBackend(), rec: newCountingRecorder(), sp: &fakeSpawner{}}
	m, err := New(Options{
		Config:   cfg,
		Backend:  h.be,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Spawner:  h.sp,
		Recorder: h.rec,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := m.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	h.m = m
	return h
}

// open maps a new client window and returns its id.
func (h *harness) open(t *testing.T) platform.WindowID {
	t.Helper()
	w := h.be.id()
	h.m.Dispatch(platform.MapRequest{Window: w})
	if h.m.reg.ByWin(w) == nil {
		t.Fatalf("window %d was not managed", w)
	}
	return w
}

func (h *harness) frameOf(t *testing.T, w platform.WindowID) platform.WindowID {
	t.Helper()
	c := h.m.reg.ByWin(w)
	if c == nil {
		t.Fatalf("window %d is not managed", w)
	}
	return c.Frame
}

func (h *harness) run(t *testing.T, action, arg string) {
	t.Helper()
	if err := h.m.runNamed(action, arg, nil); err != nil {
		t.Fatalf("runNamed(%s, %q): %v", action, arg, err)
	}
	h.m.flush()
}

func (h *harness) focusedWin() platform.WindowID {
	c := h.m.focused()
	if c == nil {
		return platform.None
	}
	return c.Win
}

// checkRing walks the registry both ways and fails on any broken link.
func checkRing(t *testing.T, m *Manager) {
	t.Helper()
	root := m.reg.Root()
	n := 0
	for c := root.Next(); c != root; c = c.Next() {
		if c.Next().Prev() != c {
			t.Fatalf("broken link after window %d", c.Win)
		}
		n++
		if n > m.reg.Len() {
			t.Fatalf("ring longer than Len() = %d", m.reg.Len())
		}
	}
	if n != m.reg.Len() {
		t.Fatalf("ring has %d clients, Len() = %d", n, m.reg.Len())
	}
	if root.Prev().Next() != root {
		t.Fatalf("sentinel is not reachable backwards")
	}
}
