package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"rsc.io/getopt"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		os.Exit(runWM(nil))
	}

	switch os.Args[1] {
	case "run":
		os.Exit(runWM(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "clients":
		os.Exit(runClients(os.Args[2:]))
	case "layout":
		os.Exit(runLayout(os.Args[2:]))
	case "desktop":
		os.Exit(runDesktop(os.Args[2:]))
	case "action":
		os.Exit(runAction(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "tui":
		os.Exit(runTUI(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "version", "--version":
		fmt.Println("areawm", version)
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
	default:
		if len(os.Args[1]) > 0 && os.Args[1][0] == '-' {
			os.Exit(runWM(os.Args[1:]))
		}
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: areawm [command] [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run                 Start the window manager (default)")
	fmt.Fprintln(w, "  status              Show the running manager's state")
	fmt.Fprintln(w, "  clients             List managed windows")
	fmt.Fprintln(w, "  layout <name>       Change the current desktop's layout")
	fmt.Fprintln(w, "  desktop <n>         Switch to desktop n")
	fmt.Fprintln(w, "  action <name>       Run a named action")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  tui                 Open the interactive inspector")
	fmt.Fprintln(w, "  mcp                 Start an MCP server on stdio")
	fmt.Fprintln(w, "  version             Print the version")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'areawm <command> --help' for command-specific options.")
}

// newFlags returns a flag set accepting both -x and --long spellings.
func newFlags(name string, usage ...string) *getopt.FlagSet {
	fs := getopt.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		for _, line := range usage {
			fmt.Fprintln(os.Stderr, line)
		}
		if hasFlags(fs) {
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Flags:")
			fs.PrintDefaults()
		}
	}
	return fs
}

func hasFlags(fs *getopt.FlagSet) bool {
	n := 0
	fs.VisitAll(func(*flag.Flag) { n++ })
	return n > 0
}

// parseExit maps a Parse error to an exit code; ok is false when the
// command should stop.
func parseExit(err error) (code int, ok bool) {
	if err == nil {
		return 0, true
	}
	if errors.Is(err, flag.ErrHelp) {
		return 0, false
	}
	return 2, false
}
