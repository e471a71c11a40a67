package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SocketEnv overrides the control socket location when set.
const SocketEnv = "AREAWM_SOCKET"

// Dir returns the per-user runtime directory. Priority:
// 1) XDG_RUNTIME_DIR (if set)
// 2) /run/user/<uid> (if present)
// 3) /tmp/areawm-runtime-<uid> (created)
func Dir() (string, error) {
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return runtimeDir, nil
	}

	uid := os.Getuid()
	runUserDir := fmt.Sprintf("/run/user/%d", uid)
	if info, err := os.Stat(runUserDir); err == nil && info.IsDir() {
		return runUserDir, nil
	}

	tmpDir := fmt.Sprintf("/tmp/areawm-runtime-%d", uid)
	if err := os.MkdirAll(tmpDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return tmpDir, nil
}

// SocketPath returns the control socket path. The display number is part
// of the name so that managers on different displays do not collide.
func SocketPath() (string, error) {
	if p := os.Getenv(SocketEnv); p != "" {
		return p, nil
	}
	runtimeDir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(runtimeDir, "areawm"+displaySuffix(os.Getenv("DISPLAY"))+".sock"), nil
}

// displaySuffix turns ":1.0" into "-1" and returns "" for an unset display.
func displaySuffix(display string) string {
	num := display[strings.LastIndexByte(display, ':')+1:]
	num, _, _ = strings.Cut(num, ".")
	if num == "" {
		return ""
	}
	return "-" + num
}
