package wm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/1broseidon/areawm/internal/area"
	"github.com/1broseidon/areawm/internal/client"
	"github.com/1broseidon/areawm/internal/config"
	"github.com/1broseidon/areawm/internal/desktop"
	"github.com/1broseidon/areawm/internal/layout"
	"github.com/1broseidon/areawm/internal/platform"
)

// ErrClosed is returned to callers posting commands after Run returned.
var ErrClosed = errors.New("window manager is not running")

// Spawner starts external commands without waiting for them.
type Spawner interface {
	Spawn(argv []string) error
}

// Recorder receives counters from the run loop.
type Recorder interface {
	EventHandled(kind platform.Kind)
	ActionRun(name string)
	GestureDone(name string, applied bool)
}

// Observer receives a state snapshot after every handled event.
type Observer interface {
	Publish(s Snapshot)
}

// Options configures a Manager.
type Options struct {
	Config    *config.Config
	Backend   platform.Backend
	Logger    *slog.Logger
	Spawner   Spawner
	Recorder  Recorder
	Observers []Observer
}

type handler func(m *Manager, ev platform.Event)

// boundAction is an action resolved from a key or button binding.
type boundAction struct {
	name string
	fn   Action
	arg  Arg
}

// Manager owns the registry, the desktops and the focus state. Everything
// except Execute and State must be called from the goroutine running Run.
type Manager struct {
	cfg     *config.Config
	backend platform.Backend
	log     *slog.Logger
	spawner Spawner
	rec     Recorder
	obs     []Observer

	reg       *client.Registry
	desks     *desktop.Set
	screen    platform.Screen
	focusMode config.FocusMode
	defArea   area.Type

	handlers map[platform.Kind]handler
	actions  map[string]actionSpec
	keys     map[platform.KeyChord]boundAction
	buttons  map[config.ButtonTarget]map[platform.ButtonChord]boundAction
	chords   []platform.ButtonChord

	// modal is the gesture holding the pointer grab, if any.
	modal gesture

	commands chan command
	done     chan struct{}
	quit     bool
	dirty    bool
	version  uint64
}

// New builds a Manager. It does not touch the display until Run.
func New(opts Options) (*Manager, error) {
	if opts.Backend == nil {
		return nil, fmt.Errorf("backend is required")
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mode, err := layout.ParseMode(cfg.DefaultLayout)
	if err != nil {
		return nil, err
	}
	defArea, err := area.Parse(cfg.DefaultArea)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		cfg:       cfg,
		backend:   opts.Backend,
		log:       logger,
		spawner:   opts.Spawner,
		rec:       opts.Recorder,
		obs:       opts.Observers,
		reg:       client.NewRegistry(opts.Backend.Root()),
		focusMode: cfg.FocusMode,
		defArea:   defArea,
		handlers:  defaultHandlers(),
		actions:   builtinActions(),
		keys:      make(map[platform.KeyChord]boundAction),
		buttons:   make(map[config.ButtonTarget]map[platform.ButtonChord]boundAction),
		commands:  make(chan command),
		done:      make(chan struct{}),
	}
	if m.rec == nil {
		m.rec = nopRecorder{}
	}
	m.desks, err = desktop.NewSet(cfg.Desktops, m.reg.Root(), desktop.Defaults{
		Layout:       mode,
		Area:         defArea,
		MainCapacity: cfg.MainCapacity,
		MainRatio:    cfg.MainRatio,
		FixedRatio:   cfg.FixedRatio,
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Start grabs bindings, adopts already mapped windows and runs autostart
// commands. Run calls it; tests may call it directly.
func (m *Manager) Start() error {
	m.screen = m.backend.Screen()
	m.bindKeys()
	m.bindButtons()

	wins, err := m.backend.ExistingWindows()
	if err != nil {
		return fmt.Errorf("failed to scan existing windows: %w", err)
	}
	for _, win := range wins {
		m.manage(win)
	}
	m.arrange()
	m.focusClient(m.desks.Index(), nil)

	for _, argv := range m.cfg.Autostart {
		m.spawn(argv)
	}
	m.flush()
	m.log.Info("window manager started",
		"clients", m.reg.Len(),
		"desktops", m.desks.Len(),
		"layout", m.desks.Current().CurLayout)
	return nil
}

// Run processes backend events and posted commands until ctx is cancelled
// or the quit action runs.
func (m *Manager) Run(ctx context.Context) error {
	defer close(m.done)
	if err := m.Start(); err != nil {
		return err
	}
	events := m.backend.Events()
	for {
		select {
		case <-ctx.Done():
			m.shutdown()
			return nil
		case ev, ok := <-events:
			if !ok {
				m.shutdown()
				return fmt.Errorf("event stream closed")
			}
			m.Dispatch(ev)
		case cmd := <-m.commands:
			m.runCommand(cmd)
		}
		if m.quit {
			m.shutdown()
			return nil
		}
	}
}

// Dispatch routes one event. While a gesture holds the pointer, motion and
// the release of the initiating button go to the gesture; everything else
// takes the normal path.
func (m *Manager) Dispatch(ev platform.Event) {
	if g := m.modal; g != nil {
		switch e := ev.(type) {
		case platform.MotionNotify:
			g.motion(m, e)
			m.rec.EventHandled(ev.Kind())
			m.flush()
			return
		case platform.ButtonRelease:
			if e.Button == g.button() {
				g.release(m, e)
				m.backend.UngrabPointer()
				m.modal = nil
				m.rec.EventHandled(ev.Kind())
				m.flush()
				return
			}
		}
	}
	h, ok := m.handlers[ev.Kind()]
	if !ok {
		return
	}
	h(m, ev)
	m.rec.EventHandled(ev.Kind())
	m.flush()
}

// Observe adds an observer. It must be called before Run.
func (m *Manager) Observe(o Observer) { m.obs = append(m.obs, o) }

// Quit asks Run to return after the current event.
func (m *Manager) Quit() { m.quit = true }

func (m *Manager) shutdown() {
	if m.modal != nil {
		m.backend.UngrabPointer()
		m.modal = nil
	}
	m.reg.Each(func(c *client.Client) bool {
		if c.Icon != nil {
			m.backend.DestroyIcon(c.Icon.Win)
		}
		m.backend.Unframe(c.Win, c.Frame)
		return true
	})
	m.log.Info("window manager stopped")
}

// flush publishes root properties when state changed and hands a snapshot
// to every observer.
func (m *Manager) flush() {
	if m.dirty {
		m.version++
		m.dirty = false
		m.backend.PublishState(m.desktopState())
	}
	if len(m.obs) == 0 {
		return
	}
	s := m.snapshot()
	for _, o := range m.obs {
		o.Publish(s)
	}
}

func (m *Manager) touch() { m.dirty = true }

func (m *Manager) desktopState() platform.DesktopState {
	s := platform.DesktopState{
		Count:    m.desks.Len(),
		Current:  m.desks.Index(),
		Names:    make([]string, m.desks.Len()),
		Desktops: make(map[platform.WindowID]int, m.reg.Len()),
	}
	for i := range s.Names {
		s.Names[i] = fmt.Sprint(i + 1)
	}
	if cur := m.desks.Current().CurFocus; !m.reg.IsRoot(cur) {
		s.Active = cur.Win
	}
	m.reg.Each(func(c *client.Client) bool {
		s.Clients = append(s.Clients, c.Win)
		if c.Desktops == desktop.AllMask {
			s.Desktops[c.Win] = -1
		} else {
			s.Desktops[c.Win] = desktop.FirstOf(c.Desktops)
		}
		return true
	})
	return s
}

func (m *Manager) spawn(argv []string) {
	if len(argv) == 0 {
		return
	}
	if m.spawner == nil {
		m.log.Warn("no spawner configured", "command", argv[0])
		return
	}
	if err := m.spawner.Spawn(argv); err != nil {
		m.log.Warn("failed to start command", "command", argv[0], "error", err)
	}
}

type nopRecorder struct{}

func (nopRecorder) EventHandled(platform.Kind) {}
func (nopRecorder) ActionRun(string)           {}
func (nopRecorder) GestureDone(string, bool)   {}
