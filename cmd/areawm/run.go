package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/1broseidon/areawm/internal/api"
	"github.com/1broseidon/areawm/internal/config"
	"github.com/1broseidon/areawm/internal/ipc"
	"github.com/1broseidon/areawm/internal/metrics"
	"github.com/1broseidon/areawm/internal/runtimepath"
	"github.com/1broseidon/areawm/internal/spawn"
	"github.com/1broseidon/areawm/internal/wm"
	"github.com/1broseidon/areawm/internal/x11"
)

const shutdownTimeout = 3 * time.Second

func loadConfig(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}

func runWM(args []string) int {
	fs := newFlags("run",
		"Usage: areawm run [-c PATH] [-d DISPLAY] [-v]",
		"",
		"Start the window manager in the foreground.")
	cfgPath := fs.String("config", "", "Config file path (default: ~/.config/areawm/config.yaml)")
	display := fs.String("display", "", "X display to manage (default: $DISPLAY)")
	verbose := fs.Bool("verbose", false, "Log at debug level")
	fs.Alias("c", "config")
	fs.Alias("d", "display")
	fs.Alias("v", "verbose")
	if code, ok := parseExit(fs.Parse(args)); !ok {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "run takes no arguments")
		fs.Usage()
		return 2
	}

	res, err := loadConfig(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	cfg := res.Config
	logger := newLogger(os.Stderr, cfg, *verbose)
	slog.SetDefault(logger)

	if err := serve(cfg, *display, logger); err != nil {
		logger.Error("window manager exited", "error", err)
		return 1
	}
	return 0
}

// borderColors resolves the frame border pixels for the unfocused and
// focused state.
func borderColors(cfg *config.Config) (normal, focus uint32, err error) {
	if normal, err = config.ParseColor(cfg.BorderColorNormal); err != nil {
		return 0, 0, fmt.Errorf("border_color_normal: %w", err)
	}
	if focus, err = config.ParseColor(cfg.BorderColorFocus); err != nil {
		return 0, 0, fmt.Errorf("border_color_focus: %w", err)
	}
	return normal, focus, nil
}

func serve(cfg *config.Config, display string, logger *slog.Logger) error {
	normal, focus, err := borderColors(cfg)
	if err != nil {
		return err
	}
	if display != "" {
		// Socket naming and spawned children follow the managed display.
		os.Setenv("DISPLAY", display)
	}

	backend, err := x11.Open(x11.Options{
		Display:      display,
		Logger:       logger,
		Name:         "areawm",
		BorderNormal: normal,
		BorderFocus:  focus,
	})
	if err != nil {
		if errors.Is(err, x11.ErrOtherWM) {
			return fmt.Errorf("another window manager is already running")
		}
		return err
	}
	defer backend.Close()

	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return err
	}
	rec := metrics.New()
	manager, err := wm.New(wm.Options{
		Config:    cfg,
		Backend:   backend,
		Logger:    logger,
		Spawner:   spawn.New(logger, runtimepath.SocketEnv+"="+socketPath),
		Recorder:  rec,
		Observers: []wm.Observer{rec},
	})
	if err != nil {
		return err
	}

	ipcServer, err := ipc.NewServer(socketPath, manager, logger)
	if err != nil {
		return err
	}
	if err := ipcServer.Start(); err != nil {
		return err
	}

	var apiServer *api.Server
	if cfg.API.Listen != "" {
		var metricsHandler http.Handler
		if cfg.API.Metrics {
			metricsHandler = rec.Handler()
		}
		apiServer = api.NewServer(cfg.API.Listen, manager, metricsHandler, logger)
		manager.Observe(apiServer.Hub())
		if err := apiServer.Start(); err != nil {
			ipcServer.Stop()
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var result *multierror.Error
	if err := manager.Run(ctx); err != nil {
		result = multierror.Append(result, err)
	}

	ipcServer.Stop()
	if apiServer != nil {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := apiServer.Shutdown(sctx); err != nil {
			result = multierror.Append(result, fmt.Errorf("api shutdown: %w", err))
		}
	}
	return result.ErrorOrNil()
}
