package main

import (
	"fmt"
	"os"

	"github.com/1broseidon/areawm/internal/ipc"
	"github.com/1broseidon/areawm/internal/tui"
)

func runTUI(args []string) int {
	fs := newFlags("tui",
		"Usage: areawm tui [-c PATH]",
		"",
		"Inspect desktops and clients, run actions and edit settings.")
	path := fs.String("config", "", "Config file the settings tab edits")
	fs.Alias("c", "config")
	if code, ok := parseExit(fs.Parse(args)); !ok {
		return code
	}
	if err := tui.Run(*path, ipc.NewClient()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
