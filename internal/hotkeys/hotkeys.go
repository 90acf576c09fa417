// Package hotkeys grabs desktop shortcuts on an X display so a headless
// daemon can be driven from the keyboard.
package hotkeys

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/opendoor/internal/config"
	"github.com/1broseidon/opendoor/internal/window"
	"github.com/1broseidon/opendoor/internal/wm"
	"github.com/1broseidon/opendoor/internal/xloop"
)

// Runner executes fn on the goroutine that owns the controller.
type Runner interface {
	Do(ctx context.Context, fn func(c *wm.Controller)) error
}

// Action is one shortcut and what it does to the controller.
type Action struct {
	Name string
	Keys []string
	Run  func(c *wm.Controller)
}

// Actions maps the configured keys to controller operations. The launcher
// and quit bindings only make sense on the terminal desktop and are left
// out.
func Actions(k config.Keys) []Action {
	onFocused := func(op func(*wm.Controller, window.ID) bool) func(*wm.Controller) {
		return func(c *wm.Controller) {
			if id, ok := c.Focused(); ok {
				op(c, id)
			}
		}
	}
	return []Action{
		{Name: "close", Keys: k.Close, Run: onFocused((*wm.Controller).Close)},
		{Name: "maximize", Keys: k.Maximize, Run: onFocused((*wm.Controller).ToggleMaximize)},
		{Name: "float", Keys: k.Float, Run: onFocused((*wm.Controller).ToggleFloat)},
		{Name: "minimize", Keys: k.Minimize, Run: onFocused((*wm.Controller).Minimize)},
		{Name: "restore", Keys: k.Restore, Run: func(c *wm.Controller) { c.RestoreLast() }},
		{Name: "focus_left", Keys: k.FocusLeft, Run: func(c *wm.Controller) { c.FocusDirection(wm.DirLeft) }},
		{Name: "focus_down", Keys: k.FocusDown, Run: func(c *wm.Controller) { c.FocusDirection(wm.DirDown) }},
		{Name: "focus_up", Keys: k.FocusUp, Run: func(c *wm.Controller) { c.FocusDirection(wm.DirUp) }},
		{Name: "focus_right", Keys: k.FocusRight, Run: func(c *wm.Controller) { c.FocusDirection(wm.DirRight) }},
		{Name: "focus_next", Keys: k.FocusNext, Run: func(c *wm.Controller) { c.FocusNext(1) }},
		{Name: "focus_prev", Keys: k.FocusPrev, Run: func(c *wm.Controller) { c.FocusNext(-1) }},
	}
}

var keysyms = map[string]string{
	"tab":       "Tab",
	"left":      "Left",
	"right":     "Right",
	"up":        "Up",
	"down":      "Down",
	"enter":     "Return",
	"esc":       "Escape",
	"backspace": "BackSpace",
	"delete":    "Delete",
	"home":      "Home",
	"end":       "End",
	"pgup":      "Prior",
	"pgdown":    "Next",
	" ":         "space",
	"space":     "space",
	"[":         "bracketleft",
	"]":         "bracketright",
	"-":         "minus",
	"=":         "equal",
	",":         "comma",
	".":         "period",
	"/":         "slash",
	";":         "semicolon",
}

var modifiers = map[string]string{
	"alt":   "Mod1",
	"ctrl":  "Control",
	"shift": "Shift",
	"super": "Mod4",
}

// Translate converts a binding in bubbletea notation ("alt+shift+tab") to
// the xgbutil key sequence ("Mod1-Shift-Tab").
func Translate(binding string) (string, error) {
	if binding == "" {
		return "", fmt.Errorf("empty binding")
	}
	var parts []string
	rest := binding
	for {
		i := strings.Index(rest, "+")
		if i <= 0 || i == len(rest)-1 {
			break
		}
		mod, ok := modifiers[rest[:i]]
		if !ok {
			return "", fmt.Errorf("unknown modifier %q in %q", rest[:i], binding)
		}
		parts = append(parts, mod)
		rest = rest[i+1:]
	}

	key := rest
	switch {
	case keysyms[key] != "":
		key = keysyms[key]
	case len([]rune(key)) == 1:
	case functionKey(key):
		key = strings.ToUpper(key)
	default:
		return "", fmt.Errorf("unsupported key %q in %q", key, binding)
	}
	return strings.Join(append(parts, key), "-"), nil
}

func functionKey(key string) bool {
	if len(key) < 2 || len(key) > 3 || key[0] != 'f' {
		return false
	}
	for _, r := range key[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Service grabs every action's keys on the root window for as long as it
// is served.
type Service struct {
	Display string
	Keys    config.Keys
	Runner  Runner
	Logger  *slog.Logger
}

func (s *Service) String() string { return "hotkeys" }

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s.Logger
}

// Serve implements suture.Service.
func (s *Service) Serve(ctx context.Context) error {
	var (
		xu  *xgbutil.XUtil
		err error
	)
	if s.Display != "" {
		xu, err = xgbutil.NewConnDisplay(s.Display)
	} else {
		xu, err = xgbutil.NewConn()
	}
	if err != nil {
		return fmt.Errorf("failed to connect to X server: %w", err)
	}
	defer xu.Conn().Close()

	keybind.Initialize(xu)
	ignoreModsOnce.Do(func() { configureIgnoreMods(xu) })

	registered := 0
	for _, action := range Actions(s.Keys) {
		for _, binding := range action.Keys {
			seq, err := Translate(binding)
			if err != nil {
				s.logger().Warn("hotkey skipped", "action", action.Name, "key", binding, "error", err)
				continue
			}
			run := action.Run
			name := action.Name
			err = keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
				if err := s.Runner.Do(ctx, run); err != nil {
					s.logger().Warn("hotkey failed", "action", name, "error", err)
					return
				}
				s.logger().Debug("hotkey", "action", name)
			}).Connect(xu, xu.RootWin(), seq, true)
			if err != nil {
				s.logger().Warn("failed to grab hotkey", "action", action.Name, "key", seq, "error", err)
				continue
			}
			registered++
		}
	}
	s.logger().Info("hotkeys registered", "count", registered)

	return xloop.Run(ctx, xu)
}

var ignoreModsOnce sync.Once

// configureIgnoreMods makes grabs fire regardless of CapsLock, NumLock and
// ScrollLock.
func configureIgnoreMods(xu *xgbutil.XUtil) {
	caps := uint16(xproto.ModMaskLock)
	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	ignore := []uint16{0}
	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		ignore = append(ignore, mask)
	}
	xevent.IgnoreMods = ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
