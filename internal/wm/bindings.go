package wm

import (
	"sort"

	"github.com/1broseidon/areawm/internal/config"
	"github.com/1broseidon/areawm/internal/layout"
	"github.com/1broseidon/areawm/internal/platform"
)

// bindKeys grabs every configured key sequence. Bad bindings are logged and
// skipped so one typo does not leave the session without keys.
func (m *Manager) bindKeys() {
	seqs := make([]string, 0, len(m.cfg.Keys))
	for seq := range m.cfg.Keys {
		seqs = append(seqs, seq)
	}
	sort.Strings(seqs)

	for _, seq := range seqs {
		b := m.cfg.Keys[seq]
		bound, err := m.resolve(b.Action, b)
		if err != nil {
			m.log.Warn("skipping key binding", "keys", seq, "error", err)
			continue
		}
		if spec := m.actions[b.Action]; spec.pointer {
			m.log.Warn("skipping key binding", "keys", seq, "error", ErrPointerAction)
			continue
		}
		chords, err := m.backend.GrabKeys(seq)
		if err != nil {
			m.log.Warn("failed to grab keys", "keys", seq, "error", err)
			continue
		}
		for _, ch := range chords {
			m.keys[ch] = bound
		}
	}
	m.log.Debug("bound keys", "count", len(m.keys))
}

// bindButtons resolves pointer bindings per target. Client chords are
// grabbed on every frame as it is created.
func (m *Manager) bindButtons() {
	seen := make(map[platform.ButtonChord]bool)
	m.chords = m.chords[:0]
	for i, b := range m.cfg.Buttons {
		bound, err := m.resolve(b.Action, b.Binding())
		if err != nil {
			m.log.Warn("skipping button binding", "index", i, "button", b.Button, "error", err)
			continue
		}
		ch, err := m.backend.ParseButton(b.Button)
		if err != nil {
			m.log.Warn("skipping button binding", "index", i, "button", b.Button, "error", err)
			continue
		}
		byChord := m.buttons[b.Target]
		if byChord == nil {
			byChord = make(map[platform.ButtonChord]boundAction)
			m.buttons[b.Target] = byChord
		}
		byChord[ch] = bound
		if b.Target == config.TargetClient && !seen[ch] {
			seen[ch] = true
			m.chords = append(m.chords, ch)
		}
	}
}

func handleKeyPress(m *Manager, ev platform.Event) {
	e := ev.(platform.KeyPress)
	b, ok := m.keys[platform.KeyChord{Mods: e.State, Code: e.Code}]
	if !ok {
		return
	}
	m.run(b, ev)
}

// handleButtonPress classifies the press by the window it was delivered to.
// A press on a client window comes from the click-to-focus grab; a press on
// a frame whose child is the client comes from a modifier grab.
func handleButtonPress(m *Manager, ev platform.Event) {
	e := ev.(platform.ButtonPress)
	chord := platform.ButtonChord{Mods: e.State, Button: e.Button}
	preview := m.desks.Current().CurLayout == layout.Preview

	var target config.ButtonTarget
	switch {
	case e.Window == m.backend.Root():
		target = config.TargetRoot
	case m.reg.ByIcon(e.Window) != nil:
		target = config.TargetIcon
	default:
		if c := m.reg.ByWin(e.Window); c != nil {
			if preview && e.Button == 1 && e.State == 0 {
				m.run(boundAction{name: "choose_client", fn: actChooseClient}, ev)
				return
			}
			m.focusClient(m.desks.Index(), c)
			return
		}
		c := m.reg.ByFrame(e.Window)
		if c == nil {
			return
		}
		if preview && e.Button == 1 && e.State == 0 {
			m.run(boundAction{name: "choose_client", fn: actChooseClient}, ev)
			return
		}
		target = config.TargetFrame
		if e.Child == c.Win {
			target = config.TargetClient
		}
		if !c.Iconified() {
			m.focusClient(m.desks.Index(), c)
		}
	}

	if b, ok := m.buttons[target][chord]; ok {
		m.run(b, ev)
	}
}
