package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/term"

	"github.com/1broseidon/areawm/internal/ipc"
	"github.com/1broseidon/areawm/internal/wm"
)

// wantJSON reports whether output should be JSON: forced by the flag, or
// because stdout is not a terminal.
func wantJSON(forced bool) bool {
	return forced || !term.IsTerminal(int(os.Stdout.Fd()))
}

func printJSON(w io.Writer, v any) int {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runStatus(args []string) int {
	fs := newFlags("status",
		"Usage: areawm status [-j]",
		"",
		"Show the running manager's state. Prints JSON when stdout is not a terminal.")
	jsonOut := fs.Bool("json", false, "Print JSON")
	fs.Alias("j", "json")
	if code, ok := parseExit(fs.Parse(args)); !ok {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	status, err := ipc.NewClient().Status()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if wantJSON(*jsonOut) {
		return printJSON(os.Stdout, status)
	}
	writeStatus(os.Stdout, status)
	return 0
}

func writeStatus(w io.Writer, st *ipc.StatusData) {
	fmt.Fprintf(w, "desktop:        %d/%d\n", st.Desktop, st.Desktops)
	fmt.Fprintf(w, "layout:         %s\n", st.Layout)
	fmt.Fprintf(w, "focus_mode:     %s\n", st.FocusMode)
	fmt.Fprintf(w, "clients:        %d\n", st.Clients)
	if st.Focused != 0 {
		fmt.Fprintf(w, "focused:        0x%x %s\n", st.Focused, st.FocusedTitle)
	}
	fmt.Fprintf(w, "uptime_seconds: %d\n", st.UptimeSeconds)
}

func runClients(args []string) int {
	fs := newFlags("clients",
		"Usage: areawm clients [-j] [-D N]",
		"",
		"List managed windows in stacking-list order.")
	jsonOut := fs.Bool("json", false, "Print JSON")
	desktop := fs.Int("desktop", 0, "Only list clients on this desktop")
	fs.Alias("j", "json")
	fs.Alias("D", "desktop")
	if code, ok := parseExit(fs.Parse(args)); !ok {
		return code
	}

	clients, err := ipc.NewClient().Clients()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *desktop > 0 {
		clients = filterDesktop(clients, *desktop)
	}
	if wantJSON(*jsonOut) {
		return printJSON(os.Stdout, clients)
	}
	fmt.Fprintln(os.Stdout, clientTable(clients))
	return 0
}

func filterDesktop(clients []wm.ClientInfo, n int) []wm.ClientInfo {
	var out []wm.ClientInfo
	for _, c := range clients {
		if c.Sticky {
			out = append(out, c)
			continue
		}
		for _, d := range c.Desktops {
			if d == n {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

func clientTable(clients []wm.ClientInfo) string {
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	focused := cell.Foreground(lipgloss.Color("42"))

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("WINDOW", "AREA", "DESKTOPS", "GEOMETRY", "CLASS", "TITLE").
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return header
			case row >= 0 && row < len(clients) && clients[row].Focused:
				return focused
			default:
				return cell
			}
		})
	for _, c := range clients {
		desks := "all"
		if !c.Sticky {
			parts := make([]string, len(c.Desktops))
			for i, d := range c.Desktops {
				parts[i] = strconv.Itoa(d)
			}
			desks = strings.Join(parts, ",")
		}
		t.Row(
			fmt.Sprintf("0x%x", c.Window),
			c.Area,
			desks,
			fmt.Sprintf("%dx%d+%d+%d", c.Rect.W, c.Rect.H, c.Rect.X, c.Rect.Y),
			c.Class,
			c.Title,
		)
	}
	return t.String()
}

func runLayout(args []string) int {
	fs := newFlags("layout",
		"Usage: areawm layout <tile|stack|full|preview>",
		"",
		"Change the current desktop's layout.")
	if code, ok := parseExit(fs.Parse(args)); !ok {
		return code
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "layout requires exactly one <name>")
		fs.Usage()
		return 2
	}
	status, err := ipc.NewClient().SetLayout(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("desktop %d: %s\n", status.Desktop, status.Layout)
	return 0
}

func runDesktop(args []string) int {
	fs := newFlags("desktop",
		"Usage: areawm desktop <n>",
		"",
		"Switch to desktop n (1-based).")
	if code, ok := parseExit(fs.Parse(args)); !ok {
		return code
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "desktop requires exactly one <n>")
		fs.Usage()
		return 2
	}
	n, err := strconv.Atoi(fs.Arg(0))
	if err != nil || n < 1 {
		fmt.Fprintf(os.Stderr, "invalid desktop %q\n", fs.Arg(0))
		return 2
	}
	status, err := ipc.NewClient().FocusDesktop(n)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("desktop %d: %s\n", status.Desktop, status.Layout)
	return 0
}

func runAction(args []string) int {
	fs := newFlags("action",
		"Usage: areawm action [-a ARG] <name> [-- command...]",
		"       areawm action -l",
		"",
		"Run a named action as if a binding had fired. exec takes the command",
		"after --.")
	arg := fs.String("arg", "", "Action argument (layout, area, desktop, ratio delta, direction)")
	list := fs.Bool("list", false, "List action names")
	fs.Alias("a", "arg")
	fs.Alias("l", "list")
	if code, ok := parseExit(fs.Parse(args)); !ok {
		return code
	}

	client := ipc.NewClient()
	if *list {
		names, err := client.Actions()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return 0
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "action requires <name>")
		fs.Usage()
		return 2
	}
	name, command := fs.Arg(0), fs.Args()[1:]
	if _, err := client.RunAction(name, *arg, command); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
