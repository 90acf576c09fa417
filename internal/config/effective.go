package config

import (
	"fmt"
	"strings"
)

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

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildEffectiveConfig overlays raw onto DefaultConfig.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.LogLevel != nil {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(*raw.LogLevel))
	}
	if raw.LogFile != nil {
		cfg.LogFile = *raw.LogFile
	}

	if l := raw.Layout; l != nil {
		if l.Mode != nil {
			cfg.Layout.Mode = *l.Mode
		}
		if l.Margin != nil {
			cfg.Layout.Margin = *l.Margin
		}
		if l.Gap != nil {
			cfg.Layout.Gap = *l.Gap
		}
		if l.TopReserved != nil {
			cfg.Layout.TopReserved = *l.TopReserved
		}
		if l.TitleBarHeight != nil {
			cfg.Layout.TitleBarHeight = *l.TitleBarHeight
		}
	}

	if f := raw.Focus; f != nil {
		if f.ClearOnMinimize != nil {
			cfg.Focus.ClearOnMinimize = *f.ClearOnMinimize
		}
		if f.ZBase != nil {
			cfg.Focus.ZBase = *f.ZBase
		}
	}

	if v := raw.Viewport; v != nil {
		if v.Source != nil {
			cfg.Viewport.Source = *v.Source
		}
		if v.Width != nil {
			cfg.Viewport.Width = *v.Width
		}
		if v.Height != nil {
			cfg.Viewport.Height = *v.Height
		}
		if v.Display != nil {
			cfg.Viewport.Display = *v.Display
		}
		if v.CellWidth != nil {
			cfg.Viewport.CellWidth = *v.CellWidth
		}
		if v.CellHeight != nil {
			cfg.Viewport.CellHeight = *v.CellHeight
		}
	}

	if k := raw.Keys; k != nil {
		applyKeys(&cfg.Keys, *k)
	}

	for kind, o := range raw.Apps {
		name := strings.ToLower(strings.TrimSpace(kind))
		if name == "" {
			return nil, &ValidationError{Path: "apps", Err: fmt.Errorf("apps contains an empty kind")}
		}
		eff := cfg.Apps[name]
		if o.Title != nil {
			eff.Title = *o.Title
		}
		if o.Width != nil {
			eff.Width = *o.Width
		}
		if o.Height != nil {
			eff.Height = *o.Height
		}
		cfg.Apps[name] = eff
	}

	return cfg, nil
}

func applyKeys(dst *Keys, raw RawKeys) {
	set := func(cur *[]string, next []string) {
		if next != nil {
			*cur = append([]string(nil), next...)
		}
	}
	set(&dst.Launcher, raw.Launcher)
	set(&dst.Close, raw.Close)
	set(&dst.Maximize, raw.Maximize)
	set(&dst.Float, raw.Float)
	set(&dst.Minimize, raw.Minimize)
	set(&dst.Restore, raw.Restore)
	set(&dst.FocusLeft, raw.FocusLeft)
	set(&dst.FocusDown, raw.FocusDown)
	set(&dst.FocusUp, raw.FocusUp)
	set(&dst.FocusRight, raw.FocusRight)
	set(&dst.FocusNext, raw.FocusNext)
	set(&dst.FocusPrev, raw.FocusPrev)
	set(&dst.Quit, raw.Quit)
}
