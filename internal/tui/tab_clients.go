package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/areawm/internal/wm"
)

// clientItem implements list.Item for one managed window.
type clientItem struct {
	info wm.ClientInfo
}

func (i clientItem) Title() string {
	title := i.info.Title
	if title == "" {
		title = fmt.Sprintf("0x%x", i.info.Window)
	}
	if i.info.Focused {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●") + " " + title
	}
	return title
}

func (i clientItem) Description() string {
	parts := []string{i.info.Area, i.info.Class}
	if i.info.Sticky {
		parts = append(parts, "sticky")
	} else {
		parts = append(parts, "desktops "+joinInts(i.info.Desktops))
	}
	return strings.Join(parts, " | ")
}

func (i clientItem) FilterValue() string {
	return i.info.Title + " " + i.info.Class + " " + i.info.Instance + " " + i.info.Area
}

func joinInts(ns []int) string {
	s := make([]string, len(ns))
	for i, n := range ns {
		s[i] = fmt.Sprint(n)
	}
	return strings.Join(s, ",")
}

// ClientsTab shows the managed windows with a detail pane.
type ClientsTab struct {
	list   list.Model
	width  int
	height int
}

func NewClientsTab() ClientsTab {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("15")).
		BorderForeground(lipgloss.Color("62"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("250")).
		BorderForeground(lipgloss.Color("62"))

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Clients"
	l.Styles.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("62")).
		Padding(0, 1)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.KeyMap.Quit.SetEnabled(false)
	return ClientsTab{list: l}
}

// Filtering reports whether the list is capturing keys for its filter.
func (c ClientsTab) Filtering() bool {
	return c.list.FilterState() == list.Filtering
}

// SetSnapshot replaces the items.
func (c *ClientsTab) SetSnapshot(s *wm.Snapshot) tea.Cmd {
	if s == nil {
		return c.list.SetItems(nil)
	}
	items := make([]list.Item, 0, len(s.Clients))
	for _, info := range s.Clients {
		items = append(items, clientItem{info: info})
	}
	return c.list.SetItems(items)
}

func (c ClientsTab) listWidth() int {
	w := c.width / 2
	if w < 30 {
		w = c.width
	}
	return w
}

func (c ClientsTab) Update(msg tea.Msg) (ClientsTab, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		c.width = ws.Width
		c.height = ws.Height
		c.list.SetSize(c.listWidth(), c.height)
		return c, nil
	}
	var cmd tea.Cmd
	c.list, cmd = c.list.Update(msg)
	return c, cmd
}

func (c ClientsTab) View() string {
	left := lipgloss.NewStyle().Width(c.listWidth()).Height(c.height).Render(c.list.View())
	if c.listWidth() == c.width {
		return left
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, left, c.detail(c.width-c.listWidth()))
}

func (c ClientsTab) detail(width int) string {
	style := lipgloss.NewStyle().Width(width).Height(c.height).Padding(1, 2)
	item, ok := c.list.SelectedItem().(clientItem)
	if !ok {
		return style.Foreground(lipgloss.Color("241")).Render("No clients")
	}
	info := item.info
	label := lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Width(10)
	value := lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	row := func(k, v string) string { return label.Render(k) + value.Render(v) }

	lines := []string{
		row("window", fmt.Sprintf("0x%x", info.Window)),
		row("frame", fmt.Sprintf("0x%x", info.Frame)),
		row("class", info.Class+" / "+info.Instance),
		row("area", info.Area),
		row("geometry", fmt.Sprintf("%dx%d+%d+%d", info.Rect.W, info.Rect.H, info.Rect.X, info.Rect.Y)),
	}
	if info.Restore != "" {
		lines = append(lines, row("restore", info.Restore))
	}
	if info.Sticky {
		lines = append(lines, row("desktops", "all"))
	} else {
		lines = append(lines, row("desktops", joinInts(info.Desktops)))
	}
	return style.Render(strings.Join(lines, "\n"))
}
