package config

type RawLayout struct {
	Mode           *LayoutMode `yaml:"mode"`
	Margin         *int        `yaml:"margin"`
	Gap            *int        `yaml:"gap"`
	TopReserved    *int        `yaml:"top_reserved"`
	TitleBarHeight *int        `yaml:"title_bar_height"`
}

type RawFocus struct {
	ClearOnMinimize *bool `yaml:"clear_on_minimize"`
	ZBase           *int  `yaml:"z_base"`
}

type RawViewport struct {
	Source     *ViewportSource `yaml:"source"`
	Width      *int            `yaml:"width"`
	Height     *int            `yaml:"height"`
	Display    *string         `yaml:"display"`
	CellWidth  *int            `yaml:"cell_width"`
	CellHeight *int            `yaml:"cell_height"`
}

// RawKeys uses nil slices for "not set".
type RawKeys struct {
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

type RawAppOverride struct {
	Title  *string `yaml:"title"`
	Width  *int    `yaml:"width"`
	Height *int    `yaml:"height"`
}

// RawConfig mirrors the YAML file. Pointer fields distinguish unset values
// from explicit zeroes.
type RawConfig struct {
	LogLevel *string                   `yaml:"log_level"`
	LogFile  *string                   `yaml:"log_file"`
	Layout   *RawLayout                `yaml:"layout"`
	Focus    *RawFocus                 `yaml:"focus"`
	Viewport *RawViewport              `yaml:"viewport"`
	Keys     *RawKeys                  `yaml:"keys"`
	Apps     map[string]RawAppOverride `yaml:"apps"`
}
