package input

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/1broseidon/opendoor/internal/config"
)

// KeyMap holds the desktop shortcuts.
type KeyMap struct {
	Launcher   key.Binding
	Escape     key.Binding
	Close      key.Binding
	Maximize   key.Binding
	Float      key.Binding
	Minimize   key.Binding
	Restore    key.Binding
	FocusLeft  key.Binding
	FocusDown  key.Binding
	FocusUp    key.Binding
	FocusRight key.Binding
	FocusNext  key.Binding
	FocusPrev  key.Binding
	Quit       key.Binding
}

// NewKeyMap builds bindings from the configured keys.
func NewKeyMap(k config.Keys) KeyMap {
	return KeyMap{
		Launcher:   binding(k.Launcher, "launcher"),
		Escape:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close launcher")),
		Close:      binding(k.Close, "close"),
		Maximize:   binding(k.Maximize, "maximize"),
		Float:      binding(k.Float, "float/tile"),
		Minimize:   binding(k.Minimize, "minimize"),
		Restore:    binding(k.Restore, "restore"),
		FocusLeft:  binding(k.FocusLeft, "focus left"),
		FocusDown:  binding(k.FocusDown, "focus down"),
		FocusUp:    binding(k.FocusUp, "focus up"),
		FocusRight: binding(k.FocusRight, "focus right"),
		FocusNext:  binding(k.FocusNext, "next window"),
		FocusPrev:  binding(k.FocusPrev, "previous window"),
		Quit:       binding(k.Quit, "quit"),
	}
}

// DefaultKeyMap uses the built-in bindings.
func DefaultKeyMap() KeyMap {
	return NewKeyMap(config.DefaultKeys())
}

// ShortHelp lists the bindings shown in the status line.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Launcher, k.Close, k.Maximize, k.Float, k.Minimize, k.Restore, k.Quit}
}

func binding(keys []string, desc string) key.Binding {
	help := ""
	if len(keys) > 0 {
		help = keys[0]
	}
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(help, desc))
}
