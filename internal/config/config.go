package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

// ErrInvalid matches every ValidationError via errors.Is.
var ErrInvalid = errors.New("invalid configuration")

// FocusMode selects how input focus follows the pointer.
type FocusMode string

const (
	FocusEnter FocusMode = "enter" // Focus follows the pointer into a window.
	FocusClick FocusMode = "click" // Focus changes only on click.
)

// LogFormat selects the slog handler.
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// ButtonTarget names which window class a pointer binding applies to.
type ButtonTarget string

const (
	TargetRoot   ButtonTarget = "root"   // Bare root window, including the band gaps.
	TargetFrame  ButtonTarget = "frame"  // Frame decoration (title bar and border).
	TargetClient ButtonTarget = "client" // Anywhere inside a managed frame; usually with a modifier.
	TargetIcon   ButtonTarget = "icon"   // Icon proxy in the bar strip.
)

// Binding names an action and its textual argument.
type Binding struct {
	Action  string   `yaml:"action"`
	Arg     string   `yaml:"arg,omitempty"`
	Command []string `yaml:"command,omitempty"`
}

// ButtonBinding binds a pointer chord such as "Mod4-1" on a target.
type ButtonBinding struct {
	Target  ButtonTarget `yaml:"target"`
	Button  string       `yaml:"button"`
	Action  string       `yaml:"action"`
	Arg     string       `yaml:"arg,omitempty"`
	Command []string     `yaml:"command,omitempty"`
}

// Binding returns the action part of b.
func (b ButtonBinding) Binding() Binding {
	return Binding{Action: b.Action, Arg: b.Arg, Command: b.Command}
}

// Rule assigns defaults to new clients whose class, instance or title
// contain the given substrings. "*" matches anything.
type Rule struct {
	Class          string `yaml:"class,omitempty"`
	Instance       string `yaml:"instance,omitempty"`
	Title          string `yaml:"title,omitempty"`
	Area           string `yaml:"area,omitempty"`
	Desktops       []int  `yaml:"desktops,omitempty"` // 1-based
	Sticky         bool   `yaml:"sticky,omitempty"`
	BorderWidth    *int   `yaml:"border_width,omitempty"`
	TitleBarHeight *int   `yaml:"title_bar_height,omitempty"`
}

// APIConfig configures the HTTP state API.
type APIConfig struct {
	Listen  string `yaml:"listen"`
	Metrics bool   `yaml:"metrics"`
}

// Config is the effective configuration after defaults and includes.
type Config struct {
	Desktops          int                `yaml:"desktops"`
	DefaultLayout     string             `yaml:"default_layout"`
	DefaultArea       string             `yaml:"default_area"`
	MainCapacity      int                `yaml:"main_capacity"`
	MainRatio         float64            `yaml:"main_ratio"`
	FixedRatio        float64            `yaml:"fixed_ratio"`
	Gap               int                `yaml:"gap"`
	BorderWidth       int                `yaml:"border_width"`
	TitleBarHeight    int                `yaml:"title_bar_height"`
	BarHeight         int                `yaml:"bar_height"`
	IconWidth         int                `yaml:"icon_width"`
	MoveResizeInc     int                `yaml:"move_resize_inc"`
	FocusMode         FocusMode          `yaml:"focus_mode"`
	BorderColorNormal string             `yaml:"border_color_normal"`
	BorderColorFocus  string             `yaml:"border_color_focus"`
	LogLevel          string             `yaml:"log_level"`
	LogFormat         LogFormat          `yaml:"log_format"`
	API               APIConfig          `yaml:"api"`
	Rules             []Rule             `yaml:"rules,omitempty"`
	Keys              map[string]Binding `yaml:"keys"`
	Buttons           []ButtonBinding    `yaml:"buttons"`
	Autostart         [][]string         `yaml:"autostart,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Desktops:          3,
		DefaultLayout:     "tile",
		DefaultArea:       "main",
		MainCapacity:      1,
		MainRatio:         0.6,
		FixedRatio:        0.15,
		Gap:               4,
		BorderWidth:       2,
		TitleBarHeight:    16,
		BarHeight:         24,
		IconWidth:         120,
		MoveResizeInc:     16,
		FocusMode:         FocusEnter,
		BorderColorNormal: "#404040",
		BorderColorFocus:  "#1e90ff",
		LogLevel:          "info",
		LogFormat:         LogFormatText,
		Keys:              DefaultKeys(),
		Buttons:           DefaultButtons(),
	}
}

// Save writes the configuration to path, or to the standard location when
// path is empty.
//
// Note: this marshals the effective config and will not preserve comments or
// include structure from the original YAML.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if path == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var result *multierror.Error
	fail := func(path, format string, args ...any) {
		result = multierror.Append(result, &ValidationError{Path: path, Err: fmt.Errorf(format, args...)})
	}

	if c.Desktops < 1 || c.Desktops > 32 {
		fail("desktops", "desktops must be between 1 and 32")
	}
	switch c.DefaultLayout {
	case "full", "preview", "stack", "tile":
	default:
		fail("default_layout", "default_layout must be one of: full, preview, stack, tile")
	}
	if !validArea(c.DefaultArea) {
		fail("default_area", "default_area must be one of: main, second, fixed, floating, iconified")
	}
	if c.MainCapacity < 1 {
		fail("main_capacity", "main_capacity must be >= 1")
	}
	if c.MainRatio <= 0 || c.MainRatio >= 1 {
		fail("main_ratio", "main_ratio must be between 0 and 1")
	}
	if c.FixedRatio < 0 || c.FixedRatio >= 1 {
		fail("fixed_ratio", "fixed_ratio must be >= 0 and < 1")
	}
	if c.MainRatio+c.FixedRatio >= 1 {
		fail("fixed_ratio", "main_ratio + fixed_ratio must be < 1")
	}
	for path, v := range map[string]int{
		"gap":              c.Gap,
		"border_width":     c.BorderWidth,
		"title_bar_height": c.TitleBarHeight,
		"bar_height":       c.BarHeight,
	} {
		if v < 0 {
			fail(path, "%s must be >= 0", path)
		}
	}
	if c.IconWidth < 1 {
		fail("icon_width", "icon_width must be >= 1")
	}
	if c.MoveResizeInc < 1 {
		fail("move_resize_inc", "move_resize_inc must be >= 1")
	}
	switch c.FocusMode {
	case FocusEnter, FocusClick:
	default:
		fail("focus_mode", "focus_mode must be one of: enter, click")
	}
	if _, err := ParseColor(c.BorderColorNormal); err != nil {
		fail("border_color_normal", "%v", err)
	}
	if _, err := ParseColor(c.BorderColorFocus); err != nil {
		fail("border_color_focus", "%v", err)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		fail("log_level", "log_level must be one of: debug, info, warn, error")
	}
	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		fail("log_format", "log_format must be one of: text, json")
	}
	if c.API.Listen != "" {
		if _, _, err := net.SplitHostPort(c.API.Listen); err != nil {
			fail("api.listen", "api.listen must be host:port: %v", err)
		}
	}

	for i, r := range c.Rules {
		path := fmt.Sprintf("rules.%d", i)
		if r.Class == "" && r.Instance == "" && r.Title == "" {
			fail(path, "rule needs class, instance or title")
		}
		if r.Area != "" && !validArea(r.Area) {
			fail(path+".area", "unknown area %q", r.Area)
		}
		for _, d := range r.Desktops {
			if d < 1 || d > c.Desktops {
				fail(path+".desktops", "desktop %d out of range 1..%d", d, c.Desktops)
			}
		}
		if r.BorderWidth != nil && *r.BorderWidth < 0 {
			fail(path+".border_width", "border_width must be >= 0")
		}
		if r.TitleBarHeight != nil && *r.TitleBarHeight < 0 {
			fail(path+".title_bar_height", "title_bar_height must be >= 0")
		}
	}
	for keys, b := range c.Keys {
		if strings.TrimSpace(keys) == "" {
			fail("keys", "keys contains an empty key sequence")
		}
		if strings.TrimSpace(b.Action) == "" {
			fail("keys."+keys, "action is required")
		}
	}
	for i, b := range c.Buttons {
		path := fmt.Sprintf("buttons.%d", i)
		switch b.Target {
		case TargetRoot, TargetFrame, TargetClient, TargetIcon:
		default:
			fail(path+".target", "target must be one of: root, frame, client, icon")
		}
		if strings.TrimSpace(b.Button) == "" {
			fail(path+".button", "button is required")
		}
		if strings.TrimSpace(b.Action) == "" {
			fail(path+".action", "action is required")
		}
	}
	for i, argv := range c.Autostart {
		if len(argv) == 0 || strings.TrimSpace(argv[0]) == "" {
			fail(fmt.Sprintf("autostart.%d", i), "command must not be empty")
		}
	}

	return result.ErrorOrNil()
}

func validArea(s string) bool {
	switch s {
	case "main", "second", "fixed", "floating", "iconified":
		return true
	}
	return false
}

// ParseColor converts "#rrggbb" into a 24-bit pixel value.
func ParseColor(s string) (uint32, error) {
	if len(s) != 7 || s[0] != '#' {
		return 0, fmt.Errorf("color %q must look like #rrggbb", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color %q: %w", s, err)
	}
	return uint32(v), nil
}
