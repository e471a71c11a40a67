package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/areawm/internal/config"
)

type savePhase int

const (
	saveHidden  savePhase = iota
	savePreview           // diff shown, awaiting confirm
	saveResult
)

type diffKind int

const (
	diffContext diffKind = iota
	diffRemoved
	diffAdded
)

type diffLine struct {
	kind diffKind
	text string
}

// SaveOverlay previews the YAML diff of pending settings and writes the file
// on confirmation.
type SaveOverlay struct {
	phase  savePhase
	lines  []diffLine
	err    error
	scroll int
}

func (s SaveOverlay) Active() bool { return s.phase != saveHidden }

// Show computes the diff and opens the preview.
func (s *SaveOverlay) Show(original, current *config.Config) {
	s.err = nil
	s.scroll = 0
	s.lines = configDiff(original, current)
	if len(s.lines) == 0 {
		s.phase = saveResult
		s.err = fmt.Errorf("no changes to save")
		return
	}
	s.phase = savePreview
}

// Saved reports whether the last confirmation wrote the file.
func (s SaveOverlay) Saved() bool { return s.phase == saveResult && s.err == nil }

func (s SaveOverlay) Update(msg tea.Msg, cfg *config.Config, path string) SaveOverlay {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return s
	}
	switch s.phase {
	case savePreview:
		switch km.String() {
		case "esc":
			s.phase = saveHidden
		case "enter", "y":
			s.err = cfg.Save(path)
			s.phase = saveResult
		case "up", "k":
			if s.scroll > 0 {
				s.scroll--
			}
		case "down", "j":
			if s.scroll < len(s.lines)-1 {
				s.scroll++
			}
		}
	case saveResult:
		s.phase = saveHidden
	}
	return s
}

func (s SaveOverlay) View(width, height int) string {
	var content string
	switch s.phase {
	case savePreview:
		content = s.previewContent(width, height)
	case saveResult:
		if s.err != nil {
			content = errorStyle.Render("Error: " + s.err.Error())
		} else {
			ok := lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
			content = ok.Render("Config saved") + "\n" + dimStyle.Render("restart areawm to apply")
		}
		content += "\n\n" + dimStyle.Render("press any key to dismiss")
	default:
		return ""
	}

	boxW := width - 8
	if boxW > 80 {
		boxW = 80
	}
	if boxW < 30 {
		boxW = 30
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1, 2).
		Width(boxW).
		Render(content)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

func (s SaveOverlay) previewContent(width, height int) string {
	add := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	rm := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	ctx := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	rows := height - 10
	if rows < 3 {
		rows = 3
	}
	off := s.scroll
	if last := len(s.lines) - rows; off > last {
		off = last
	}
	if off < 0 {
		off = 0
	}
	end := off + rows
	if end > len(s.lines) {
		end = len(s.lines)
	}
	innerW := width - 14
	if innerW < 10 {
		innerW = 10
	}

	var out []string
	for _, dl := range s.lines[off:end] {
		t := truncate(dl.text, innerW)
		switch dl.kind {
		case diffAdded:
			out = append(out, add.Render("+ "+t))
		case diffRemoved:
			out = append(out, rm.Render("- "+t))
		default:
			out = append(out, ctx.Render("  "+t))
		}
	}
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Render("Save config: pending changes")
	return title + "\n\n" + strings.Join(out, "\n") + "\n\n" + dimStyle.Render("enter: save  esc: cancel  j/k: scroll")
}

// configDiff diffs the YAML renderings of two configs, keeping two lines of
// context around each change.
func configDiff(original, current *config.Config) []diffLine {
	if original == nil || current == nil {
		return nil
	}
	a, err := yaml.Marshal(original)
	if err != nil {
		return nil
	}
	b, err := yaml.Marshal(current)
	if err != nil {
		return nil
	}
	if string(a) == string(b) {
		return nil
	}
	return withContext(lcsDiff(
		strings.Split(strings.TrimSpace(string(a)), "\n"),
		strings.Split(strings.TrimSpace(string(b)), "\n"),
	), 2)
}

func lcsDiff(a, b []string) []diffLine {
	m, n := len(a), len(b)
	tbl := make([][]int, m+1)
	for i := range tbl {
		tbl[i] = make([]int, n+1)
	}
	for i := m - 1; i >= 0; i-- {
		for j := n - 1; j >= 0; j-- {
			switch {
			case a[i] == b[j]:
				tbl[i][j] = tbl[i+1][j+1] + 1
			case tbl[i+1][j] >= tbl[i][j+1]:
				tbl[i][j] = tbl[i+1][j]
			default:
				tbl[i][j] = tbl[i][j+1]
			}
		}
	}

	var out []diffLine
	i, j := 0, 0
	for i < m && j < n {
		switch {
		case a[i] == b[j]:
			out = append(out, diffLine{diffContext, a[i]})
			i++
			j++
		case tbl[i+1][j] >= tbl[i][j+1]:
			out = append(out, diffLine{diffRemoved, a[i]})
			i++
		default:
			out = append(out, diffLine{diffAdded, b[j]})
			j++
		}
	}
	for ; i < m; i++ {
		out = append(out, diffLine{diffRemoved, a[i]})
	}
	for ; j < n; j++ {
		out = append(out, diffLine{diffAdded, b[j]})
	}
	return out
}

func withContext(lines []diffLine, n int) []diffLine {
	keep := make([]bool, len(lines))
	changed := false
	for i, l := range lines {
		if l.kind == diffContext {
			continue
		}
		changed = true
		for j := max(0, i-n); j <= min(len(lines)-1, i+n); j++ {
			keep[j] = true
		}
	}
	if !changed {
		return nil
	}
	var out []diffLine
	gap := false
	for i, l := range lines {
		if !keep[i] {
			gap = true
			continue
		}
		if gap && len(out) > 0 {
			out = append(out, diffLine{diffContext, "..."})
		}
		gap = false
		out = append(out, l)
	}
	return out
}

// cloneConfig deep-copies cfg through YAML.
func cloneConfig(cfg *config.Config) *config.Config {
	if cfg == nil {
		return nil
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil
	}
	var clone config.Config
	if err := yaml.Unmarshal(data, &clone); err != nil {
		return nil
	}
	return &clone
}
