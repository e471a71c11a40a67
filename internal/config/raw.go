package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawAPIConfig struct {
	Listen  *string `yaml:"listen"`
	Metrics *bool   `yaml:"metrics"`
}

// RawConfig mirrors Config with optional fields so that included files and
// the main file can be layered.
type RawConfig struct {
	Include           IncludeList        `yaml:"include"`
	Desktops          *int               `yaml:"desktops"`
	DefaultLayout     *string            `yaml:"default_layout"`
	DefaultArea       *string            `yaml:"default_area"`
	MainCapacity      *int               `yaml:"main_capacity"`
	MainRatio         *float64           `yaml:"main_ratio"`
	FixedRatio        *float64           `yaml:"fixed_ratio"`
	Gap               *int               `yaml:"gap"`
	BorderWidth       *int               `yaml:"border_width"`
	TitleBarHeight    *int               `yaml:"title_bar_height"`
	BarHeight         *int               `yaml:"bar_height"`
	IconWidth         *int               `yaml:"icon_width"`
	MoveResizeInc     *int               `yaml:"move_resize_inc"`
	FocusMode         *string            `yaml:"focus_mode"`
	BorderColorNormal *string            `yaml:"border_color_normal"`
	BorderColorFocus  *string            `yaml:"border_color_focus"`
	LogLevel          *string            `yaml:"log_level"`
	LogFormat         *string            `yaml:"log_format"`
	API               *RawAPIConfig      `yaml:"api"`
	Rules             []Rule             `yaml:"rules"`
	Keys              map[string]Binding `yaml:"keys"`
	Buttons           []ButtonBinding    `yaml:"buttons"`
	Autostart         [][]string         `yaml:"autostart"`
}

// merge layers overlay on top of c. Scalars and lists are replaced; keys
// merge per sequence.
func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	setPtr(&out.Desktops, overlay.Desktops)
	setPtr(&out.DefaultLayout, overlay.DefaultLayout)
	setPtr(&out.DefaultArea, overlay.DefaultArea)
	setPtr(&out.MainCapacity, overlay.MainCapacity)
	setPtr(&out.MainRatio, overlay.MainRatio)
	setPtr(&out.FixedRatio, overlay.FixedRatio)
	setPtr(&out.Gap, overlay.Gap)
	setPtr(&out.BorderWidth, overlay.BorderWidth)
	setPtr(&out.TitleBarHeight, overlay.TitleBarHeight)
	setPtr(&out.BarHeight, overlay.BarHeight)
	setPtr(&out.IconWidth, overlay.IconWidth)
	setPtr(&out.MoveResizeInc, overlay.MoveResizeInc)
	setPtr(&out.FocusMode, overlay.FocusMode)
	setPtr(&out.BorderColorNormal, overlay.BorderColorNormal)
	setPtr(&out.BorderColorFocus, overlay.BorderColorFocus)
	setPtr(&out.LogLevel, overlay.LogLevel)
	setPtr(&out.LogFormat, overlay.LogFormat)

	if overlay.API != nil {
		api := RawAPIConfig{}
		if out.API != nil {
			api = *out.API
		}
		setPtr(&api.Listen, overlay.API.Listen)
		setPtr(&api.Metrics, overlay.API.Metrics)
		out.API = &api
	}

	if overlay.Rules != nil {
		out.Rules = overlay.Rules
	}
	if overlay.Buttons != nil {
		out.Buttons = overlay.Buttons
	}
	if overlay.Autostart != nil {
		out.Autostart = overlay.Autostart
	}
	if overlay.Keys != nil {
		keys := make(map[string]Binding, len(out.Keys)+len(overlay.Keys))
		for k, v := range out.Keys {
			keys[k] = v
		}
		for k, v := range overlay.Keys {
			keys[k] = v
		}
		out.Keys = keys
	}
	return out
}

func setPtr[T any](dst **T, src *T) {
	if src != nil {
		*dst = src
	}
}
