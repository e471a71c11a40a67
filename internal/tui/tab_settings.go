package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/areawm/internal/config"
)

// SettingsTab shows the loaded config and edits it with a form.
type SettingsTab struct {
	cfg  *config.Config
	path string

	width  int
	height int

	editing bool
	form    *huh.Form

	// Form-bound values; numbers are strings for huh and converted on submit.
	fDesktops    string
	fLayout      string
	fArea        string
	fCapacity    string
	fMainRatio   string
	fFixedRatio  string
	fGap         string
	fBorderWidth string
	fTitleBar    string
	fFocusMode   string
	fColorNormal string
	fColorFocus  string
	fLogLevel    string
	fAPIListen   string
	fAPIMetrics  bool
}

func NewSettingsTab(cfg *config.Config, path string) SettingsTab {
	return SettingsTab{cfg: cfg, path: path}
}

func (s SettingsTab) Update(msg tea.Msg) (SettingsTab, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		s.width = ws.Width
		s.height = ws.Height
	}
	if !s.editing {
		if km, ok := msg.(tea.KeyMsg); ok && km.String() == "e" && s.cfg != nil {
			s.startEditing()
			return s, s.form.Init()
		}
		return s, nil
	}

	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "esc" {
		s.editing = false
		s.form = nil
		return s, nil
	}
	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}
	if s.form.State == huh.StateCompleted {
		s.applyForm()
		s.editing = false
		s.form = nil
		return s, nil
	}
	return s, cmd
}

func validInt(min int) func(string) error {
	return func(v string) error {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("not a number")
		}
		if n < min {
			return fmt.Errorf("must be >= %d", min)
		}
		return nil
	}
}

func validRatio(v string) error {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return fmt.Errorf("not a number")
	}
	if f < 0 || f >= 1 {
		return fmt.Errorf("must be in [0, 1)")
	}
	return nil
}

func validColor(v string) error {
	_, err := config.ParseColor(strings.TrimSpace(v))
	return err
}

func options(values ...string) []huh.Option[string] {
	opts := make([]huh.Option[string], len(values))
	for i, v := range values {
		opts[i] = huh.NewOption(v, v)
	}
	return opts
}

func (s *SettingsTab) startEditing() {
	cfg := s.cfg
	s.fDesktops = strconv.Itoa(cfg.Desktops)
	s.fLayout = cfg.DefaultLayout
	s.fArea = cfg.DefaultArea
	s.fCapacity = strconv.Itoa(cfg.MainCapacity)
	s.fMainRatio = strconv.FormatFloat(cfg.MainRatio, 'f', -1, 64)
	s.fFixedRatio = strconv.FormatFloat(cfg.FixedRatio, 'f', -1, 64)
	s.fGap = strconv.Itoa(cfg.Gap)
	s.fBorderWidth = strconv.Itoa(cfg.BorderWidth)
	s.fTitleBar = strconv.Itoa(cfg.TitleBarHeight)
	s.fFocusMode = string(cfg.FocusMode)
	s.fColorNormal = cfg.BorderColorNormal
	s.fColorFocus = cfg.BorderColorFocus
	s.fLogLevel = cfg.LogLevel
	s.fAPIListen = cfg.API.Listen
	s.fAPIMetrics = cfg.API.Metrics

	w := s.width - 4
	if w < 40 {
		w = 40
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Key("desktops").Title("Desktops").
				Description("Number of virtual desktops").
				Validate(validInt(1)).Value(&s.fDesktops),
			huh.NewSelect[string]().Key("default_layout").Title("Default Layout").
				Options(options("tile", "stack", "full", "preview")...).Value(&s.fLayout),
			huh.NewSelect[string]().Key("default_area").Title("Default Area").
				Description("Area new windows land in").
				Options(options("main", "second", "fixed", "floating", "iconified")...).Value(&s.fArea),
			huh.NewInput().Key("main_capacity").Title("Main Capacity").
				Validate(validInt(1)).Value(&s.fCapacity),
			huh.NewInput().Key("main_ratio").Title("Main Ratio").
				Validate(validRatio).Value(&s.fMainRatio),
			huh.NewInput().Key("fixed_ratio").Title("Fixed Ratio").
				Validate(validRatio).Value(&s.fFixedRatio),
		),
		huh.NewGroup(
			huh.NewInput().Key("gap").Title("Gap").
				Description("Pixels between tiled bands").
				Validate(validInt(0)).Value(&s.fGap),
			huh.NewInput().Key("border_width").Title("Border Width").
				Validate(validInt(0)).Value(&s.fBorderWidth),
			huh.NewInput().Key("title_bar_height").Title("Title Bar Height").
				Validate(validInt(0)).Value(&s.fTitleBar),
			huh.NewInput().Key("border_color_normal").Title("Border Color").
				Validate(validColor).Value(&s.fColorNormal),
			huh.NewInput().Key("border_color_focus").Title("Focused Border Color").
				Validate(validColor).Value(&s.fColorFocus),
		),
		huh.NewGroup(
			huh.NewSelect[string]().Key("focus_mode").Title("Focus Mode").
				Options(options("enter", "click")...).Value(&s.fFocusMode),
			huh.NewSelect[string]().Key("log_level").Title("Log Level").
				Options(options("debug", "info", "warn", "error")...).Value(&s.fLogLevel),
			huh.NewInput().Key("api_listen").Title("API Listen Address").
				Description("host:port, empty disables the HTTP API").
				Value(&s.fAPIListen),
			huh.NewConfirm().Key("api_metrics").Title("Serve /metrics").Value(&s.fAPIMetrics),
		),
	).WithWidth(w).WithShowHelp(true).WithShowErrors(true)

	s.editing = true
}

func (s *SettingsTab) applyForm() {
	atoi := func(dst *int, v string) {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			*dst = n
		}
	}
	atof := func(dst *float64, v string) {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			*dst = f
		}
	}
	cfg := s.cfg
	atoi(&cfg.Desktops, s.fDesktops)
	cfg.DefaultLayout = s.fLayout
	cfg.DefaultArea = s.fArea
	atoi(&cfg.MainCapacity, s.fCapacity)
	atof(&cfg.MainRatio, s.fMainRatio)
	atof(&cfg.FixedRatio, s.fFixedRatio)
	atoi(&cfg.Gap, s.fGap)
	atoi(&cfg.BorderWidth, s.fBorderWidth)
	atoi(&cfg.TitleBarHeight, s.fTitleBar)
	cfg.FocusMode = config.FocusMode(s.fFocusMode)
	cfg.BorderColorNormal = strings.TrimSpace(s.fColorNormal)
	cfg.BorderColorFocus = strings.TrimSpace(s.fColorFocus)
	cfg.LogLevel = s.fLogLevel
	cfg.API.Listen = strings.TrimSpace(s.fAPIListen)
	cfg.API.Metrics = s.fAPIMetrics
}

func (s SettingsTab) View() string {
	style := lipgloss.NewStyle().Width(s.width).Height(s.height).Padding(0, 2)
	if s.editing && s.form != nil {
		header := lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Bold(true).
			Render("Editing Settings") + dimStyle.Render("  (esc to cancel)")
		return style.Render(header + "\n\n" + s.form.View())
	}
	if s.cfg == nil {
		return style.Foreground(lipgloss.Color("241")).
			Align(lipgloss.Center, lipgloss.Center).
			Render("No config loaded")
	}

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("250")).
		Width(20).
		Align(lipgloss.Right).
		PaddingRight(2)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	row := func(label, value string) string { return labelStyle.Render(label) + valueStyle.Render(value) }

	cfg := s.cfg
	api := cfg.API.Listen
	if api == "" {
		api = "(disabled)"
	}
	lines := []string{
		row("Config File", s.path),
		"",
		row("Desktops", strconv.Itoa(cfg.Desktops)),
		row("Default Layout", cfg.DefaultLayout),
		row("Default Area", cfg.DefaultArea),
		row("Main Capacity", strconv.Itoa(cfg.MainCapacity)),
		row("Ratios", fmt.Sprintf("main %.2f  fixed %.2f", cfg.MainRatio, cfg.FixedRatio)),
		"",
		row("Gap", strconv.Itoa(cfg.Gap)),
		row("Border", fmt.Sprintf("%dpx %s / %s", cfg.BorderWidth, cfg.BorderColorNormal, cfg.BorderColorFocus)),
		row("Title Bar", fmt.Sprintf("%dpx", cfg.TitleBarHeight)),
		row("Focus Mode", string(cfg.FocusMode)),
		"",
		row("Log Level", cfg.LogLevel),
		row("API", api),
		row("Bindings", fmt.Sprintf("%d keys, %d buttons", len(cfg.Keys), len(cfg.Buttons))),
		"",
		dimStyle.Render("  Press 'e' to edit settings"),
	}
	return style.Render(strings.Join(lines, "\n"))
}
