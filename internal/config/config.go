package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/1broseidon/opendoor/internal/window"
)

// LayoutMode defines how tiled windows are arranged.
type LayoutMode string

const (
	LayoutModeMasterStack LayoutMode = "master-stack" // Master pane left, stack column right.
	LayoutModeGrid        LayoutMode = "grid"         // Near-square grid.
)

// ViewportSource selects where the daemon reads its drawable area from.
type ViewportSource string

const (
	ViewportFixed ViewportSource = "fixed"
	ViewportX11   ViewportSource = "x11"
)

// Layout holds the tiling metrics in viewport pixels.
type Layout struct {
	Mode           LayoutMode `yaml:"mode"`
	Margin         int        `yaml:"margin"`
	Gap            int        `yaml:"gap"`
	TopReserved    int        `yaml:"top_reserved"`     // status bar band above the work area
	TitleBarHeight int        `yaml:"title_bar_height"` // drag handle at the top of each window
}

// Focus configures the focus pointer and z-order counter.
type Focus struct {
	// ClearOnMinimize drops focus when the focused window is minimized.
	// When false the pointer keeps referencing the hidden window.
	ClearOnMinimize bool `yaml:"clear_on_minimize"`
	// ZBase is the z-order counter value before the first launch.
	ZBase int `yaml:"z_base"`
}

// Viewport configures the drawable area.
type Viewport struct {
	Source     ViewportSource `yaml:"source"`
	Width      int            `yaml:"width"`
	Height     int            `yaml:"height"`
	Display    string         `yaml:"display,omitempty"`
	CellWidth  int            `yaml:"cell_width"`
	CellHeight int            `yaml:"cell_height"`
}

// Keys maps desktop actions to key bindings in bubbletea notation.
type Keys struct {
	Launcher   []string `yaml:"launcher"`
	Close      []string `yaml:"close"`
	Maximize   []string `yaml:"maximize"`
	Float      []string `yaml:"float"`
	Minimize   []string `yaml:"minimize"`
	Restore    []string `yaml:"restore"`
	FocusLeft  []string `yaml:"focus_left"`
	FocusDown  []string `yaml:"focus_down"`
	FocusUp    []string `yaml:"focus_up"`
	FocusRight []string `yaml:"focus_right"`
	FocusNext  []string `yaml:"focus_next"`
	FocusPrev  []string `yaml:"focus_prev"`
	Quit       []string `yaml:"quit"`
}

// AppOverride replaces registry defaults for one application kind.
type AppOverride struct {
	Title  string `yaml:"title,omitempty"`
	Width  int    `yaml:"width,omitempty"`
	Height int    `yaml:"height,omitempty"`
}

// Config is the effective desktop configuration.
type Config struct {
	LogLevel string                 `yaml:"log_level"`
	LogFile  string                 `yaml:"log_file,omitempty"`
	Layout   Layout                 `yaml:"layout"`
	Focus    Focus                  `yaml:"focus"`
	Viewport Viewport               `yaml:"viewport"`
	Keys     Keys                   `yaml:"keys"`
	Apps     map[string]AppOverride `yaml:"apps,omitempty"`
}

const (
	DefaultMargin         = 10
	DefaultGap            = 10
	DefaultTopReserved    = 48
	DefaultTitleBarHeight = 32
	DefaultZBase          = 10
)

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Layout: Layout{
			Mode:           LayoutModeMasterStack,
			Margin:         DefaultMargin,
			Gap:            DefaultGap,
			TopReserved:    DefaultTopReserved,
			TitleBarHeight: DefaultTitleBarHeight,
		},
		Focus: Focus{
			ClearOnMinimize: true,
			ZBase:           DefaultZBase,
		},
		Viewport: Viewport{
			Source:     ViewportFixed,
			Width:      1920,
			Height:     1080,
			CellWidth:  8,
			CellHeight: 16,
		},
		Keys:  DefaultKeys(),
		Apps: map[string]AppOverride{},
	}
}

// DefaultKeys returns the built-in key bindings.
func DefaultKeys() Keys {
	return Keys{
		Launcher:   []string{"alt+p", "alt+ "},
		Close:      []string{"alt+q"},
		Maximize:   []string{"alt+m"},
		Float:      []string{"alt+f"},
		Minimize:   []string{"alt+n"},
		Restore:    []string{"alt+r"},
		FocusLeft:  []string{"alt+h", "alt+left"},
		FocusDown:  []string{"alt+j", "alt+down"},
		FocusUp:    []string{"alt+k", "alt+up"},
		FocusRight: []string{"alt+l", "alt+right"},
		FocusNext:  []string{"alt+tab", "alt+]"},
		FocusPrev:  []string{"alt+["},
		Quit:       []string{"ctrl+c"},
	}
}

// DefaultConfigPath returns ~/.config/opendoor/config.yaml, honouring
// XDG_CONFIG_HOME.
func DefaultConfigPath() (string, error) {
	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		return filepath.Join(xdg, "opendoor", "config.yaml"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "opendoor", "config.yaml"), nil
}

// AppOverrideFor returns the override for kind, if any.
func (c *Config) AppOverrideFor(kind window.Kind) (AppOverride, bool) {
	if c == nil || c.Apps == nil {
		return AppOverride{}, false
	}
	o, ok := c.Apps[string(kind)]
	return o, ok
}

// Validate checks the effective configuration.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, error")}
	}

	switch c.Layout.Mode {
	case LayoutModeMasterStack, LayoutModeGrid:
	default:
		return &ValidationError{Path: "layout.mode", Err: fmt.Errorf("layout.mode must be one of: master-stack, grid")}
	}
	if c.Layout.Margin < 0 {
		return &ValidationError{Path: "layout.margin", Err: fmt.Errorf("margin must be >= 0")}
	}
	if c.Layout.Gap < 0 {
		return &ValidationError{Path: "layout.gap", Err: fmt.Errorf("gap must be >= 0")}
	}
	if c.Layout.TopReserved < 0 {
		return &ValidationError{Path: "layout.top_reserved", Err: fmt.Errorf("top_reserved must be >= 0")}
	}
	if c.Layout.TitleBarHeight <= 0 {
		return &ValidationError{Path: "layout.title_bar_height", Err: fmt.Errorf("title_bar_height must be > 0")}
	}

	if c.Focus.ZBase < 0 {
		return &ValidationError{Path: "focus.z_base", Err: fmt.Errorf("z_base must be >= 0")}
	}

	switch c.Viewport.Source {
	case ViewportFixed, ViewportX11:
	default:
		return &ValidationError{Path: "viewport.source", Err: fmt.Errorf("viewport.source must be one of: fixed, x11")}
	}
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return &ValidationError{Path: "viewport", Err: fmt.Errorf("viewport width and height must be > 0")}
	}
	if c.Viewport.CellWidth <= 0 {
		return &ValidationError{Path: "viewport.cell_width", Err: fmt.Errorf("cell_width must be > 0")}
	}
	if c.Viewport.CellHeight <= 0 {
		return &ValidationError{Path: "viewport.cell_height", Err: fmt.Errorf("cell_height must be > 0")}
	}

	for _, b := range c.Keys.named() {
		if len(b.keys) == 0 {
			return &ValidationError{Path: "keys." + b.name, Err: fmt.Errorf("at least one key is required")}
		}
		for _, k := range b.keys {
			if strings.TrimSpace(k) == "" && k != " " {
				return &ValidationError{Path: "keys." + b.name, Err: fmt.Errorf("key must not be empty")}
			}
		}
	}

	kinds := make([]string, 0, len(c.Apps))
	for kind := range c.Apps {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		o := c.Apps[kind]
		if !window.Kind(kind).Valid() {
			return &ValidationError{Path: "apps." + kind, Err: fmt.Errorf("unknown application kind %q", kind)}
		}
		if o.Width < 0 || o.Height < 0 {
			return &ValidationError{Path: "apps." + kind, Err: fmt.Errorf("width and height must be >= 0")}
		}
	}
	return nil
}

type namedBinding struct {
	name string
	keys []string
}

func (k Keys) named() []namedBinding {
	return []namedBinding{
		{"launcher", k.Launcher},
		{"close", k.Close},
		{"maximize", k.Maximize},
		{"float", k.Float},
		{"minimize", k.Minimize},
		{"restore", k.Restore},
		{"focus_left", k.FocusLeft},
		{"focus_down", k.FocusDown},
		{"focus_up", k.FocusUp},
		{"focus_right", k.FocusRight},
		{"focus_next", k.FocusNext},
		{"focus_prev", k.FocusPrev},
		{"quit", k.Quit},
	}
}
