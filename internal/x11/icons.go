package x11

import (
	"fmt"
	"unicode/utf8"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/areawm/internal/geom"
	"github.com/1broseidon/areawm/internal/platform"
)

const (
	iconFont       = "fixed"
	iconFontAscent = 11
	iconPadding    = 4
	iconForeground = 0xffffff
	// ImageText8 carries the length in one byte.
	maxIconTitle = 255
)

// setupDrawing opens the core font and graphics context used for icon
// titles.
func (b *Backend) setupDrawing() error {
	x := b.conn.X()
	font, err := xproto.NewFontId(x)
	if err != nil {
		return err
	}
	if err := xproto.OpenFontChecked(x, font, uint16(len(iconFont)), iconFont).Check(); err != nil {
		return fmt.Errorf("open font %q: %w", iconFont, err)
	}
	gc, err := xproto.NewGcontextId(x)
	if err != nil {
		return err
	}
	err = xproto.CreateGCChecked(x, gc, xproto.Drawable(b.conn.Root),
		xproto.GcForeground|xproto.GcBackground|xproto.GcFont,
		[]uint32{iconForeground, b.borderNormal, uint32(font)}).Check()
	if err != nil {
		return fmt.Errorf("create icon GC: %w", err)
	}
	b.font, b.gc = font, gc
	return nil
}

// CreateIcon creates an unmapped proxy window in the bar showing title.
func (b *Backend) CreateIcon(r geom.Rect, title string) (platform.WindowID, error) {
	x := b.conn.X()
	win, err := xproto.NewWindowId(x)
	if err != nil {
		return platform.None, fmt.Errorf("allocate icon id: %w", err)
	}
	scr := b.conn.XUtil.Screen()
	err = xproto.CreateWindowChecked(x, scr.RootDepth, win, b.conn.Root,
		int16(r.X), int16(r.Y), uint16(max(r.W, 1)), uint16(max(r.H, 1)), 0,
		xproto.WindowClassInputOutput, scr.RootVisual,
		xproto.CwBackPixel|xproto.CwOverrideRedirect|xproto.CwEventMask,
		[]uint32{b.borderNormal, 1, iconEventMask}).Check()
	if err != nil {
		return platform.None, fmt.Errorf("create icon: %w", err)
	}
	b.mu.Lock()
	b.icons[win] = title
	b.mu.Unlock()
	return platform.WindowID(win), nil
}

func (b *Backend) DestroyIcon(id platform.WindowID) {
	win := xproto.Window(id)
	b.mu.Lock()
	delete(b.icons, win)
	b.mu.Unlock()
	b.warn("destroy icon", xproto.DestroyWindowChecked(b.conn.X(), win).Check(), "icon", id)
}

// SetIconTitle replaces the title shown by an icon and repaints it.
func (b *Backend) SetIconTitle(id platform.WindowID, title string) {
	win := xproto.Window(id)
	b.mu.Lock()
	_, ok := b.icons[win]
	if ok {
		b.icons[win] = title
	}
	b.mu.Unlock()
	if !ok {
		return
	}
	b.warn("clear icon", xproto.ClearAreaChecked(b.conn.X(), false, win, 0, 0, 0, 0).Check(), "icon", id)
	b.redraw(win)
}

// redraw paints the title of an icon window. Other windows are ignored.
func (b *Backend) redraw(win xproto.Window) {
	title, ok := b.iconTitle(win)
	if !ok || b.gc == 0 {
		return
	}
	title = clipTitle(title, maxIconTitle)
	xproto.ImageText8(b.conn.X(), byte(len(title)), xproto.Drawable(win), b.gc,
		iconPadding, iconPadding+iconFontAscent, title)
}

// clipTitle shortens s to at most n bytes without splitting a rune.
func clipTitle(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
