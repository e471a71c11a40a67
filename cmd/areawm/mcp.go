package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/areawm/internal/config"
	"github.com/1broseidon/areawm/internal/ipc"
	"github.com/1broseidon/areawm/internal/mcp"
)

func runMCP(args []string) int {
	fs := newFlags("mcp",
		"Usage: areawm mcp",
		"",
		"Start the MCP server on stdio. MCP clients invoke it, for example:",
		"  claude mcp add areawm -- areawm mcp")
	if code, ok := parseExit(fs.Parse(args)); !ok {
		return code
	}

	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}
	// stdout carries the protocol; logs go to stderr.
	logger := newLogger(os.Stderr, cfg, false)
	server := mcp.NewServer(ipc.NewClient(), logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := server.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "MCP server error: %v\n", err)
		return 1
	}
	return 0
}
