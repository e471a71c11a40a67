// Package spawn starts external commands detached from the manager.
package spawn

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"syscall"
)

// Spawner starts commands in their own session and reaps them in the
// background. The zero value is not usable; call New.
type Spawner struct {
	log     *slog.Logger
	stderr  io.Writer
	env     []string
	running atomic.Int64
	wg      sync.WaitGroup
}

// New returns a Spawner whose children inherit the manager's environment
// plus env, and write stderr to the manager's stderr.
func New(logger *slog.Logger, env ...string) *Spawner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Spawner{
		log:    logger.With("component", "spawn"),
		stderr: os.Stderr,
		env:    env,
	}
}

// Spawn starts argv and returns once the process exists.
func (s *Spawner) Spawn(argv []string) error {
	if len(argv) == 0 {
		return fmt.Errorf("empty command")
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stderr = s.stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if len(s.env) > 0 {
		cmd.Env = append(os.Environ(), s.env...)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %q: %w", argv[0], err)
	}
	s.log.Debug("started command", "command", argv[0], "pid", cmd.Process.Pid)

	s.running.Add(1)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.running.Add(-1)
		if err := cmd.Wait(); err != nil {
			s.log.Debug("command exited", "command", argv[0], "pid", cmd.Process.Pid, "error", err)
		}
	}()
	return nil
}

// Running returns how many spawned processes have not been reaped yet.
func (s *Spawner) Running() int { return int(s.running.Load()) }

// Wait blocks until every spawned process has exited.
func (s *Spawner) Wait() { s.wg.Wait() }
