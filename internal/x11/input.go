package x11

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/mousebind"
	"github.com/BurntSushi/xgbutil/xcursor"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/areawm/internal/platform"
)

// ErrGrabRefused is returned when the server will not hand over the pointer,
// usually because another client holds it.
var ErrGrabRefused = errors.New("pointer grab refused")

const allMods = xproto.ModMaskShift | xproto.ModMaskLock | xproto.ModMaskControl |
	xproto.ModMask1 | xproto.ModMask2 | xproto.ModMask3 | xproto.ModMask4 | xproto.ModMask5

// cursorGlyphs maps gesture cursors to cursor font glyphs.
var cursorGlyphs = map[platform.Cursor]uint16{
	platform.CursorNormal:      xcursor.LeftPtr,
	platform.CursorMove:        xcursor.Fleur,
	platform.CursorTop:         xcursor.TopSide,
	platform.CursorBottom:      xcursor.BottomSide,
	platform.CursorLeft:        xcursor.LeftSide,
	platform.CursorRight:       xcursor.RightSide,
	platform.CursorTopLeft:     xcursor.TopLeftCorner,
	platform.CursorTopRight:    xcursor.TopRightCorner,
	platform.CursorBottomLeft:  xcursor.BottomLeftCorner,
	platform.CursorBottomRight: xcursor.BottomRightCorner,
	platform.CursorSwap:        xcursor.Exchange,
	platform.CursorChange:      xcursor.Crosshair,
	platform.CursorRatio:       xcursor.SBHDoubleArrow,
}

// configureIgnoreMods makes every grab also fire with CapsLock, NumLock and
// ScrollLock in any combination, and returns the mask of modifiers that
// remain meaningful in event state.
func configureIgnoreMods(xu *xgbutil.XUtil) uint16 {
	caps := uint16(xproto.ModMaskLock)
	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	ignore := []uint16{0}
	var locks uint16
	for _, m := range base {
		locks |= m
	}
	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		ignore = append(ignore, mask)
	}
	xevent.IgnoreMods = ignore
	return allMods &^ locks
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}

func (b *Backend) clean(state uint16) platform.ModMask {
	return platform.ModMask(state & b.cleanMask)
}

// GrabKeys grabs seq ("Mod4-Shift-j") on the root for every keycode that
// produces its keysym.
func (b *Backend) GrabKeys(seq string) ([]platform.KeyChord, error) {
	mods, codes, err := keybind.ParseString(b.conn.XUtil, seq)
	if err != nil {
		return nil, fmt.Errorf("parse key sequence %q: %w", seq, err)
	}
	if len(codes) == 0 {
		return nil, fmt.Errorf("key sequence %q: no keycode for keysym", seq)
	}
	chords := make([]platform.KeyChord, 0, len(codes))
	for _, code := range codes {
		if err := keybind.GrabChecked(b.conn.XUtil, b.conn.Root, mods, code); err != nil {
			return chords, fmt.Errorf("grab %q: %w", seq, err)
		}
		chords = append(chords, platform.KeyChord{Mods: b.clean(mods), Code: uint8(code)})
	}
	return chords, nil
}

// ParseButton parses "Mod4-Shift-1" style button sequences.
func (b *Backend) ParseButton(seq string) (platform.ButtonChord, error) {
	mods, button, err := mousebind.ParseString(b.conn.XUtil, seq)
	if err != nil {
		return platform.ButtonChord{}, fmt.Errorf("parse button sequence %q: %w", seq, err)
	}
	return platform.ButtonChord{Mods: b.clean(mods), Button: platform.Button(button)}, nil
}

// GrabButtons installs passive grabs for chords on a frame.
func (b *Backend) GrabButtons(id platform.WindowID, chords []platform.ButtonChord) {
	for _, ch := range chords {
		err := mousebind.GrabChecked(b.conn.XUtil, xproto.Window(id), uint16(ch.Mods),
			xproto.Button(ch.Button), false)
		b.warn("grab button", err, "window", id, "button", ch.Button, "mods", ch.Mods)
	}
}

func (b *Backend) cursor(c platform.Cursor) xproto.Cursor {
	if cur, ok := b.cursors[c]; ok {
		return cur
	}
	glyph, ok := cursorGlyphs[c]
	if !ok {
		return xproto.CursorNone
	}
	cur, err := xcursor.CreateCursor(b.conn.XUtil, glyph)
	if err != nil {
		b.log.Debug("failed to create cursor", "cursor", c, "error", err)
		return xproto.CursorNone
	}
	b.cursors[c] = cur
	return cur
}

func (b *Backend) setRootCursor() {
	cur := b.cursor(platform.CursorNormal)
	if cur == xproto.CursorNone {
		return
	}
	xproto.ChangeWindowAttributes(b.conn.X(), b.conn.Root, xproto.CwCursor, []uint32{uint32(cur)})
}

// GrabPointer takes an active pointer grab on the root for a gesture.
func (b *Backend) GrabPointer(c platform.Cursor) error {
	ok, err := mousebind.GrabPointer(b.conn.XUtil, b.conn.Root, xproto.WindowNone, b.cursor(c))
	if err != nil {
		return fmt.Errorf("grab pointer: %w", err)
	}
	if !ok {
		return ErrGrabRefused
	}
	return nil
}

func (b *Backend) UngrabPointer() {
	mousebind.UngrabPointer(b.conn.XUtil)
}

func (b *Backend) QueryPointer() (x, y int, child platform.WindowID, err error) {
	reply, err := xproto.QueryPointer(b.conn.X(), b.conn.Root).Reply()
	if err != nil {
		return 0, 0, platform.None, fmt.Errorf("query pointer: %w", err)
	}
	return int(reply.RootX), int(reply.RootY), platform.WindowID(reply.Child), nil
}
