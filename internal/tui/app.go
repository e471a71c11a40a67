package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/areawm/internal/config"
	"github.com/1broseidon/areawm/internal/wm"
)

const refreshInterval = time.Second

type tickMsg struct{}

// stateMsg carries the result of a state poll.
type stateMsg struct {
	snap *wm.Snapshot
	err  error
}

// doneMsg reports the outcome of a command sent to the manager.
type doneMsg struct{ err error }

// model is the root bubbletea model.
type model struct {
	wm         Manager
	configPath string
	cfg        *config.Config
	original   *config.Config
	loadErr    error

	activeTab Tab
	desktops  DesktopsTab
	clients   ClientsTab
	settings  SettingsTab
	save      SaveOverlay

	prompting bool
	prompt    textinput.Model

	snap    *wm.Snapshot
	lastErr error // from the last command sent

	width  int
	height int
}

func newModel(configPath string, m Manager) model {
	md := model{
		wm:         m,
		configPath: configPath,
		activeTab:  TabDesktops,
		clients:    NewClientsTab(),
	}
	if md.configPath == "" {
		if p, err := config.DefaultConfigPath(); err == nil {
			md.configPath = p
		}
	}
	res, err := config.LoadFromPath(md.configPath)
	if err != nil {
		md.loadErr = err
	} else {
		md.cfg = res.Config
		md.original = cloneConfig(res.Config)
	}
	md.settings = NewSettingsTab(md.cfg, md.configPath)

	ti := textinput.New()
	ti.Prompt = ":"
	ti.Placeholder = "action [arg]"
	ti.CharLimit = 256
	md.prompt = ti
	return md
}

func (m model) fetchState() tea.Cmd {
	return func() tea.Msg {
		snap, err := m.wm.State()
		return stateMsg{snap: snap, err: err}
	}
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg { return tickMsg{} })
}

// send runs fn off the UI goroutine and reports through doneMsg.
func send(fn func() error) tea.Cmd {
	return func() tea.Msg { return doneMsg{err: fn()} }
}

// parseCommand splits a prompt line into an action and its argument. exec
// takes the rest of the line as a command vector.
func parseCommand(line string) (action, arg string, argv []string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", "", nil
	}
	action, rest := fields[0], fields[1:]
	if action == "exec" {
		return action, "", rest
	}
	return action, strings.Join(rest, " "), nil
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.fetchState(), tick())
}

func (m model) contentHeight() int {
	// status bar, tab bar with margin, help bar
	h := m.height - 4
	if m.prompting {
		h--
	}
	if h < 1 {
		h = 1
	}
	return h
}

func (m model) resize() model {
	sub := tea.WindowSizeMsg{Width: m.width, Height: m.contentHeight()}
	m.desktops, _ = m.desktops.Update(sub)
	m.clients, _ = m.clients.Update(sub)
	m.settings, _ = m.settings.Update(sub)
	return m
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m.resize(), nil
	case tickMsg:
		return m, tea.Batch(m.fetchState(), tick())
	case stateMsg:
		m.snap = msg.snap
		if msg.err != nil {
			m.snap = nil
		}
		m.desktops.SetSnapshot(m.snap)
		return m, m.clients.SetSnapshot(m.snap)
	case doneMsg:
		m.lastErr = msg.err
		return m, m.fetchState()
	case focusDesktopMsg:
		n := msg.desktop
		return m, send(func() error { _, err := m.wm.FocusDesktop(n); return err })
	case setLayoutMsg:
		layout := msg.layout
		return m, send(func() error { _, err := m.wm.SetLayout(layout); return err })
	}

	km, isKey := msg.(tea.KeyMsg)
	if isKey && km.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.save.Active() {
		if isKey {
			m.save = m.save.Update(km, m.cfg, m.configPath)
			if m.save.Saved() {
				m.original = cloneConfig(m.cfg)
			}
		}
		return m, nil
	}

	if m.prompting {
		return m.updatePrompt(msg)
	}

	// The settings form and the client filter consume every key.
	capturing := (m.activeTab == TabSettings && m.settings.editing) ||
		(m.activeTab == TabClients && m.clients.Filtering())
	if !capturing && isKey {
		switch km.String() {
		case "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
			return m, nil
		case "1", "2", "3":
			m.activeTab = Tab(km.String()[0] - '1')
			return m, nil
		case ":":
			m.prompting = true
			m.prompt.Reset()
			m.prompt.Focus()
			return m.resize(), textinput.Blink
		case "ctrl+s":
			if m.cfg != nil {
				m.save.Show(m.original, m.cfg)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.activeTab {
	case TabDesktops:
		m.desktops, cmd = m.desktops.Update(msg)
	case TabClients:
		m.clients, cmd = m.clients.Update(msg)
	case TabSettings:
		m.settings, cmd = m.settings.Update(msg)
	}
	return m, cmd
}

func (m model) updatePrompt(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "esc":
			m.prompting = false
			m.prompt.Blur()
			return m.resize(), nil
		case "enter":
			m.prompting = false
			m.prompt.Blur()
			action, arg, argv := parseCommand(m.prompt.Value())
			m = m.resize()
			if action == "" {
				return m, nil
			}
			return m, send(func() error { _, err := m.wm.RunAction(action, arg, argv); return err })
		}
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	status := renderStatusBar(m.snap, m.lastErr, m.width)
	tabs := renderTabBar(m.activeTab, m.width)
	help := renderHelpBar(m.activeTab, m.width)

	h := m.contentHeight()
	var content string
	switch {
	case m.save.Active():
		content = m.save.View(m.width, h)
	case m.activeTab == TabDesktops:
		content = m.desktops.View()
	case m.activeTab == TabClients:
		content = m.clients.View()
	case m.activeTab == TabSettings:
		content = m.settings.View()
		if m.loadErr != nil && m.cfg == nil {
			content = errorStyle.Render("config: " + m.loadErr.Error())
		}
	}

	parts := []string{status, tabs, content}
	if m.prompting {
		parts = append(parts, m.prompt.View())
	}
	parts = append(parts, help)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
