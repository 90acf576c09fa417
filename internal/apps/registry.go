// Package apps holds the application registry and the mock views hosted
// inside desktop windows.
package apps

import (
	"strings"

	"github.com/1broseidon/opendoor/internal/config"
	"github.com/1broseidon/opendoor/internal/window"
)

// Entry describes one launchable application.
type Entry struct {
	Kind   window.Kind `json:"kind"`
	Title  string      `json:"title"`
	Width  int         `json:"width"`
	Height int         `json:"height"`
	Icon   string      `json:"icon"`
}

var catalog = []Entry{
	{Kind: window.KindTerminal, Title: "Terminal", Width: 600, Height: 400, Icon: ">_"},
	{Kind: window.KindBrowser, Title: "Firefox", Width: 800, Height: 600, Icon: "@"},
	{Kind: window.KindNotepad, Title: "Text Editor", Width: 500, Height: 400, Icon: "#"},
	{Kind: window.KindSettings, Title: "Settings", Width: 700, Height: 500, Icon: "*"},
	{Kind: window.KindFiles, Title: "Files", Width: 600, Height: 400, Icon: "[]"},
	{Kind: window.KindChat, Title: "Open Door AI", Width: 400, Height: 600, Icon: "AI"},
	{Kind: window.KindSocial, Title: "SocialVerse", Width: 450, Height: 700, Icon: "<3"},
	{Kind: window.KindSteam, Title: "Steam", Width: 1000, Height: 700, Icon: "S"},
	{Kind: window.KindGame, Title: "Game", Width: 800, Height: 600, Icon: "G"},
}

// Registry maps application kinds to their launch defaults.
type Registry struct {
	entries map[window.Kind]Entry
	order   []window.Kind
}

// NewRegistry returns the built-in catalog with overrides applied.
// Overrides for unknown kinds are ignored; config validation rejects them.
func NewRegistry(overrides map[string]config.AppOverride) *Registry {
	r := &Registry{entries: make(map[window.Kind]Entry, len(catalog))}
	for _, entry := range catalog {
		if o, ok := overrides[string(entry.Kind)]; ok {
			if o.Title != "" {
				entry.Title = o.Title
			}
			if o.Width > 0 {
				entry.Width = o.Width
			}
			if o.Height > 0 {
				entry.Height = o.Height
			}
		}
		r.entries[entry.Kind] = entry
		r.order = append(r.order, entry.Kind)
	}
	return r
}

// DefaultRegistry returns the catalog without overrides.
func DefaultRegistry() *Registry {
	return NewRegistry(nil)
}

// Preferred returns the title and preferred size used at launch.
func (r *Registry) Preferred(kind window.Kind) (string, int, int, bool) {
	entry, ok := r.entries[kind]
	if !ok {
		return "", 0, 0, false
	}
	return entry.Title, entry.Width, entry.Height, true
}

// Lookup returns the entry for kind.
func (r *Registry) Lookup(kind window.Kind) (Entry, bool) {
	entry, ok := r.entries[kind]
	return entry, ok
}

// Entries returns every entry in launcher order.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, 0, len(r.order))
	for _, kind := range r.order {
		out = append(out, r.entries[kind])
	}
	return out
}

// Filter returns entries whose title contains query, ignoring case.
func (r *Registry) Filter(query string) []Entry {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []Entry
	for _, entry := range r.Entries() {
		if q == "" || strings.Contains(strings.ToLower(entry.Title), q) {
			out = append(out, entry)
		}
	}
	return out
}
