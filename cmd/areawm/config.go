package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/areawm/internal/config"
)

func printConfigUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  areawm config validate [-c PATH]")
	fmt.Fprintln(os.Stderr, "  areawm config print [-c PATH] [--defaults]")
	fmt.Fprintln(os.Stderr, "  areawm config explain [-c PATH] <yaml.path>")
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printConfigUsage()
		return 2
	}

	fs := newFlags("config "+args[0], "Usage: areawm config "+args[0]+" [options]")
	path := fs.String("config", "", "Config file path (default: ~/.config/areawm/config.yaml)")
	fs.Alias("c", "config")

	switch args[0] {
	case "validate":
		if code, ok := parseExit(fs.Parse(args[1:])); !ok {
			return code
		}
		if _, err := loadConfig(*path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		defaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		if code, ok := parseExit(fs.Parse(args[1:])); !ok {
			return code
		}
		cfg := config.DefaultConfig()
		if !*defaults {
			res, err := loadConfig(*path)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			for _, f := range res.Files {
				fmt.Printf("# loaded: %s\n", f)
			}
			cfg = res.Config
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	case "explain":
		if code, ok := parseExit(fs.Parse(args[1:])); !ok {
			return code
		}
		if fs.NArg() < 1 {
			fmt.Fprintln(os.Stderr, "explain requires <yaml.path>")
			return 2
		}
		res, err := loadConfig(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		value, src, err := config.Explain(res, fs.Arg(0))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		out, err := yaml.Marshal(value)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("path: %s\n", fs.Arg(0))
		fmt.Printf("source: %s\n", formatSource(src))
		fmt.Printf("value:\n%s", string(out))
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config command: %s\n\n", args[0])
		printConfigUsage()
		return 2
	}
}

func formatSource(src config.Source) string {
	switch src.Kind {
	case config.SourceFile:
		if src.Line > 0 {
			return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
		}
		return "file:" + src.File
	default:
		return "default"
	}
}
