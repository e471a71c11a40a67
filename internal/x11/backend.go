package x11

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/areawm/internal/platform"
)

// eventBuffer is the capacity of the channel between the pump and the
// manager loop.
const eventBuffer = 256

// Options configure Open.
type Options struct {
	// Display overrides $DISPLAY when set.
	Display string
	Logger  *slog.Logger
	// Name is published as _NET_WM_NAME on the supporting check window.
	Name string

	BorderNormal uint32
	BorderFocus  uint32
}

// Backend implements platform.Backend on an X connection. Requests are made
// from the manager goroutine; a single pump goroutine reads events.
type Backend struct {
	conn *Conn
	log  *slog.Logger

	events    chan platform.Event
	done      chan struct{}
	closeOnce sync.Once

	borderNormal uint32
	borderFocus  uint32
	cleanMask    uint16

	check   xproto.Window
	font    xproto.Font
	gc      xproto.Gcontext
	cursors map[platform.Cursor]xproto.Cursor

	mu     sync.Mutex
	frames map[xproto.Window]xproto.Window // client -> frame
	owners map[xproto.Window]xproto.Window // frame -> client
	icons  map[xproto.Window]string        // icon -> title

	// published is only touched from the manager goroutine.
	published map[xproto.Window]int
}

var _ platform.Backend = (*Backend)(nil)

// Open connects to the X server, takes the window manager role and starts
// the event pump. It returns ErrOtherWM when another manager is running.
func Open(opts Options) (*Backend, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := Connect(opts.Display)
	if err != nil {
		return nil, err
	}
	if err := conn.TakeOwnership(); err != nil {
		conn.Close()
		return nil, err
	}

	b := &Backend{
		conn:         conn,
		log:          logger.With("component", "x11"),
		events:       make(chan platform.Event, eventBuffer),
		done:         make(chan struct{}),
		borderNormal: opts.BorderNormal,
		borderFocus:  opts.BorderFocus,
		cursors:      make(map[platform.Cursor]xproto.Cursor),
		frames:       make(map[xproto.Window]xproto.Window),
		owners:       make(map[xproto.Window]xproto.Window),
		icons:        make(map[xproto.Window]string),
		published:    make(map[xproto.Window]int),
	}
	b.cleanMask = configureIgnoreMods(conn.XUtil)

	name := opts.Name
	if name == "" {
		name = "areawm"
	}
	if err := b.setupEWMH(name); err != nil {
		conn.Close()
		return nil, fmt.Errorf("publish EWMH support: %w", err)
	}
	if err := b.setupDrawing(); err != nil {
		b.log.Warn("icon titles disabled", "error", err)
	}
	b.setRootCursor()

	go b.pump()
	return b, nil
}

// Close stops the pump and disconnects. Managed windows stay mapped through
// the save set.
func (b *Backend) Close() {
	b.closeOnce.Do(func() {
		close(b.done)
		b.conn.Close()
	})
}

func (b *Backend) Root() platform.WindowID       { return platform.WindowID(b.conn.Root) }
func (b *Backend) Events() <-chan platform.Event { return b.events }

func (b *Backend) frameOf(win xproto.Window) (xproto.Window, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	f, ok := b.frames[win]
	return f, ok
}

func (b *Backend) ownerOf(frame xproto.Window) (xproto.Window, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.owners[frame]
	return c, ok
}

func (b *Backend) iconTitle(win xproto.Window) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.icons[win]
	return t, ok
}

// own reports whether win is one of the manager's own windows.
func (b *Backend) own(win xproto.Window) bool {
	if win == b.check {
		return true
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	_, frame := b.owners[win]
	_, icon := b.icons[win]
	return frame || icon
}

// warn logs an error from a checked request unless it is an expected race.
func (b *Backend) warn(msg string, err error, args ...any) {
	if err == nil {
		return
	}
	args = append(args, "error", err)
	if Classify(err) == Ignore {
		b.log.Debug(msg, args...)
		return
	}
	b.log.Warn(msg, args...)
}
