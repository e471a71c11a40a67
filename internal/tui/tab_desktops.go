package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/areawm/internal/wm"
)

// layoutCycle is the order `l` walks through.
var layoutCycle = []string{"tile", "stack", "full", "preview"}

func nextLayout(cur string) string {
	for i, name := range layoutCycle {
		if name == cur {
			return layoutCycle[(i+1)%len(layoutCycle)]
		}
	}
	return layoutCycle[0]
}

// focusDesktopMsg asks the root model to switch desktops.
type focusDesktopMsg struct{ desktop int }

// setLayoutMsg asks the root model to change the current desktop's layout.
type setLayoutMsg struct{ layout string }

// DesktopsTab lists every desktop with its layout parameters.
type DesktopsTab struct {
	desktops []wm.DesktopInfo
	current  int
	cursor   int
	width    int
	height   int
}

// SetSnapshot refreshes the rows, keeping the cursor in range.
func (d *DesktopsTab) SetSnapshot(s *wm.Snapshot) {
	if s == nil {
		d.desktops = nil
		d.current = 0
		d.cursor = 0
		return
	}
	first := d.desktops == nil
	d.desktops = s.Desktops
	d.current = s.Desktop
	if first {
		d.cursor = s.Desktop - 1
	}
	if d.cursor >= len(d.desktops) {
		d.cursor = len(d.desktops) - 1
	}
	if d.cursor < 0 {
		d.cursor = 0
	}
}

func (d DesktopsTab) Update(msg tea.Msg) (DesktopsTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.width = msg.Width
		d.height = msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if d.cursor > 0 {
				d.cursor--
			}
		case "down", "j":
			if d.cursor < len(d.desktops)-1 {
				d.cursor++
			}
		case "enter":
			if len(d.desktops) > 0 {
				n := d.desktops[d.cursor].Number
				return d, func() tea.Msg { return focusDesktopMsg{desktop: n} }
			}
		case "l":
			if d.current >= 1 && d.current <= len(d.desktops) {
				next := nextLayout(d.desktops[d.current-1].Layout)
				return d, func() tea.Msg { return setLayoutMsg{layout: next} }
			}
		}
	}
	return d, nil
}

func (d DesktopsTab) View() string {
	style := lipgloss.NewStyle().Width(d.width).Height(d.height).Padding(0, 2)
	if len(d.desktops) == 0 {
		return style.Foreground(lipgloss.Color("241")).
			Align(lipgloss.Center, lipgloss.Center).
			Render("No desktops (is areawm running?)")
	}

	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("250"))
	selected := lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62"))
	currentMark := lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●")

	lines := []string{header.Render(fmt.Sprintf("   %-4s %-8s %-8s %-9s %4s %6s %6s %7s",
		"#", "layout", "previous", "area", "main", "ratio", "fixed", "clients"))}
	for i, info := range d.desktops {
		mark := " "
		if info.Number == d.current {
			mark = currentMark
		}
		row := fmt.Sprintf("%-4d %-8s %-8s %-9s %4d %6.2f %6.2f %7d",
			info.Number, info.Layout, info.PrevLayout, info.DefaultArea,
			info.MainCapacity, info.MainRatio, info.FixedRatio, info.Clients)
		if i == d.cursor {
			row = selected.Render(row)
		}
		lines = append(lines, " "+mark+" "+row)
	}
	return style.Render(strings.Join(lines, "\n"))
}
