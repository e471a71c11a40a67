package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/areawm/internal/wm"
)

// Tab identifies a TUI tab.
type Tab int

const (
	TabDesktops Tab = iota
	TabClients
	TabSettings
	tabCount
)

func (t Tab) String() string {
	switch t {
	case TabDesktops:
		return "Desktops"
	case TabClients:
		return "Clients"
	case TabSettings:
		return "Settings"
	default:
		return "?"
	}
}

var (
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("250")).
				Background(lipgloss.Color("236")).
				Padding(0, 2)

	tabBarStyle = lipgloss.NewStyle().
			MarginBottom(1)

	tabGap = lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		SetString(" ")

	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

func renderTabBar(active Tab, width int) string {
	var tabs []string
	for i := Tab(0); i < tabCount; i++ {
		label := fmt.Sprintf("%d:%s", int(i)+1, i)
		if i == active {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, intersperse(tabs, tabGap.Render())...)
	return tabBarStyle.Width(width).Render(row)
}

// intersperse inserts sep between each element of items.
func intersperse(items []string, sep string) []string {
	if len(items) <= 1 {
		return items
	}
	result := make([]string, 0, len(items)*2-1)
	for i, item := range items {
		if i > 0 {
			result = append(result, sep)
		}
		result = append(result, item)
	}
	return result
}

// renderStatusBar shows whether the manager answers and what it is doing.
func renderStatusBar(snap *wm.Snapshot, lastErr error, width int) string {
	var status string
	if snap != nil {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●")
		cur := snap.Current()
		parts := []string{
			dot + " areawm",
			fmt.Sprintf("desktop:%d/%d", snap.Desktop, len(snap.Desktops)),
			"layout:" + cur.Layout,
			"focus:" + snap.FocusMode,
		}
		if c, ok := snap.Client(snap.Focused); ok && snap.Focused != 0 {
			parts = append(parts, "window:"+truncate(c.Title, 32))
		}
		status = strings.Join(parts, "  ")
	} else {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("●")
		status = dot + " areawm not running"
	}
	if lastErr != nil {
		status += "  " + errorStyle.Render(truncate(lastErr.Error(), 60))
	}

	style := lipgloss.NewStyle().
		Width(width).
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("250")).
		Padding(0, 1)
	return style.Render(status)
}

func renderHelpBar(active Tab, width int) string {
	help := "tab: switch  1-3: jump  :: run action  ctrl-s: save  q: quit"
	switch active {
	case TabDesktops:
		help = "enter: focus  l: next layout  " + help
	case TabClients:
		help = "/: filter  " + help
	case TabSettings:
		help = "e: edit  " + help
	}
	style := lipgloss.NewStyle().
		Width(width).
		Foreground(lipgloss.Color("241")).
		Padding(0, 1)
	return style.Render(help)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
