// Package tui is the terminal desktop: boot screens, tiled and floating
// windows drawn with box characters, a launcher and a status bar.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/opendoor/internal/apps"
	"github.com/1broseidon/opendoor/internal/config"
	"github.com/1broseidon/opendoor/internal/ipc"
	"github.com/1broseidon/opendoor/internal/session"
)

// Options configures the desktop.
type Options struct {
	Config    *config.Config
	Logger    *slog.Logger
	Store     *session.Store
	Responder apps.Responder
	// SkipLogin enters the desktop as guest without setup or login.
	SkipLogin bool
	// Listen serves the IPC protocol so ctl and mcp can drive the desktop.
	Listen     bool
	SocketPath string
}

// Run shows the desktop until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("desktop requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	store := opts.Store
	if store == nil {
		s, err := session.DefaultStore()
		if err != nil {
			return err
		}
		store = s
	}

	registry := apps.NewRegistry(cfg.Apps)
	desk := newDesktop(desktopOptions{
		Config:   cfg,
		Registry: registry,
		Env:      apps.Env{Responder: opts.Responder},
		Logger:   logger,
	})
	boot := newBootScreen(session.NewBoot(store), opts.SkipLogin)

	p := tea.NewProgram(newModel(boot, desk),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	closed := make(chan struct{})
	defer close(closed)
	if opts.Listen {
		srv, err := ipc.NewServer(newProgramExecutor(p.Send, closed), registry, ipc.ServerOptions{
			SocketPath: opts.SocketPath,
			Host:       "desktop",
			Logger:     logger,
		})
		if err != nil {
			return err
		}
		if err := srv.Start(); err != nil {
			logger.Warn("IPC disabled", "error", err)
		} else {
			defer srv.Stop()
		}
	}

	logger.Info("desktop starting", "skip_login", opts.SkipLogin)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
