// Package tui is the interactive inspector behind `areawm tui`.
package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/areawm/internal/ipc"
	"github.com/1broseidon/areawm/internal/wm"
)

// Manager is what the inspector reads and drives. *ipc.Client implements it.
type Manager interface {
	State() (*wm.Snapshot, error)
	FocusDesktop(n int) (*ipc.StatusData, error)
	SetLayout(layout string) (*ipc.StatusData, error)
	RunAction(action, arg string, command []string) (*ipc.StatusData, error)
}

// Run starts the inspector against the running manager. configPath selects
// the file the settings tab edits; empty means the standard location.
func Run(configPath string, m Manager) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}
	p := tea.NewProgram(newModel(configPath, m), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
