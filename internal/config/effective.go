package config

import "fmt"

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

func (e *ValidationError) Is(target error) bool { return target == ErrInvalid }

// BuildEffectiveConfig applies raw on top of the defaults.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()

	assign(&cfg.Desktops, raw.Desktops)
	assign(&cfg.DefaultLayout, raw.DefaultLayout)
	assign(&cfg.DefaultArea, raw.DefaultArea)
	assign(&cfg.MainCapacity, raw.MainCapacity)
	assign(&cfg.MainRatio, raw.MainRatio)
	assign(&cfg.FixedRatio, raw.FixedRatio)
	assign(&cfg.Gap, raw.Gap)
	assign(&cfg.BorderWidth, raw.BorderWidth)
	assign(&cfg.TitleBarHeight, raw.TitleBarHeight)
	assign(&cfg.BarHeight, raw.BarHeight)
	assign(&cfg.IconWidth, raw.IconWidth)
	assign(&cfg.MoveResizeInc, raw.MoveResizeInc)
	assign(&cfg.BorderColorNormal, raw.BorderColorNormal)
	assign(&cfg.BorderColorFocus, raw.BorderColorFocus)
	assign(&cfg.LogLevel, raw.LogLevel)
	if raw.FocusMode != nil {
		cfg.FocusMode = FocusMode(*raw.FocusMode)
	}
	if raw.LogFormat != nil {
		cfg.LogFormat = LogFormat(*raw.LogFormat)
	}
	if raw.API != nil {
		assign(&cfg.API.Listen, raw.API.Listen)
		assign(&cfg.API.Metrics, raw.API.Metrics)
	}

	if raw.Rules != nil {
		cfg.Rules = raw.Rules
	}
	if raw.Buttons != nil {
		cfg.Buttons = raw.Buttons
	}
	if raw.Autostart != nil {
		cfg.Autostart = raw.Autostart
	}
	for seq, b := range raw.Keys {
		if b.Action == "none" {
			delete(cfg.Keys, seq)
			continue
		}
		cfg.Keys[seq] = b
	}
	return cfg
}

func assign[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
