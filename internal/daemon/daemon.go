// Package daemon runs the window manager headless: one event loop owning
// the controller, the IPC server, the viewport source and optional X11
// hotkeys, supervised with suture.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/1broseidon/opendoor/internal/apps"
	"github.com/1broseidon/opendoor/internal/config"
	"github.com/1broseidon/opendoor/internal/hotkeys"
	"github.com/1broseidon/opendoor/internal/ipc"
	"github.com/1broseidon/opendoor/internal/viewport"
	"github.com/1broseidon/opendoor/internal/wm"
)

// Options configures Run.
type Options struct {
	Config *config.Config
	Logger *slog.Logger
	// SocketPath overrides the runtime socket location.
	SocketPath string
	// Source overrides the viewport source built from Config.
	Source viewport.Source
	// Hotkeys grabs the configured keys on the X display named by
	// viewport.display.
	Hotkeys bool
}

// Daemon holds the supervised services.
type Daemon struct {
	Loop       *Loop
	Controller *wm.Controller
	Server     *ipc.Server
	supervisor *suture.Supervisor
	logger     *slog.Logger
}

// New wires the controller, event loop, IPC server and viewport watcher.
func New(opts Options) (*Daemon, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	registry := apps.NewRegistry(cfg.Apps)
	ctrl := wm.New(registry, wm.OptionsFromConfig(cfg, logger.With("component", "wm")))
	loop := NewLoop(ctrl, logger.With("component", "loop"))

	server, err := ipc.NewServer(loop, registry, ipc.ServerOptions{
		SocketPath: opts.SocketPath,
		Host:       "daemon",
		Logger:     logger.With("component", "ipc"),
	})
	if err != nil {
		return nil, err
	}

	source := opts.Source
	if source == nil {
		source, err = viewport.New(cfg.Viewport, logger.With("component", "viewport"))
		if err != nil {
			return nil, err
		}
	}

	sup := suture.New("opendoor", suture.Spec{
		EventHook: func(e suture.Event) {
			logger.Warn("supervisor event", "event", e.String())
		},
		Timeout: 5 * time.Second,
	})
	sup.Add(loop)
	sup.Add(server)
	sup.Add(NewViewportWatcher(source, loop, logger.With("component", "viewport")))
	if opts.Hotkeys {
		sup.Add(&hotkeys.Service{
			Display: cfg.Viewport.Display,
			Keys:    cfg.Keys,
			Runner:  loop,
			Logger:  logger.With("component", "hotkeys"),
		})
	}

	return &Daemon{
		Loop:       loop,
		Controller: ctrl,
		Server:     server,
		supervisor: sup,
		logger:     logger,
	}, nil
}

// Run serves until ctx is cancelled.
func (d *Daemon) Run(ctx context.Context) error {
	d.logger.Info("daemon starting", "socket", d.Server.SocketPath())
	err := d.supervisor.Serve(ctx)
	d.Loop.Close()
	if err != nil && ctx.Err() == nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("daemon stopped: %w", err)
	}
	d.logger.Info("daemon stopped")
	return nil
}
