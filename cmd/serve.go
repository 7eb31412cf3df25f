package cmd

import (
	"context"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/conneroisu/zgl/internal/bundle"
	"github.com/conneroisu/zgl/internal/engine"
	"github.com/conneroisu/zgl/internal/errors"
	"github.com/conneroisu/zgl/internal/logging"
	"github.com/conneroisu/zgl/internal/pipeline"
	"github.com/conneroisu/zgl/internal/watcher"
)

// reloadDelay collapses editor save bursts into one re-resolution.
const reloadDelay = 300 * time.Millisecond

var serveFlagKeys = map[string]string{
	"port": "server.port",
	"host": "server.host",
	"open": "server.open",
	"mode": "build.mode",
}

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"s"},
		Short:   "Start the development server",
		Long: `Start the development server for the application configuration.
Sources are rebuilt by esbuild on change. Changes to package.json, the .env
files or the zgl.config override re-resolve the configuration and restart
the server.

Examples:
  zgl serve                  # Serve on the synthesized port (3000)
  zgl serve --port 8080 --open
  zgl serve --host 0.0.0.0   # Listen on every interface`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().IntP("port", "p", 0, "port to serve on (default 3000)")
	cmd.Flags().String("host", "", "host to bind to")
	cmd.Flags().Bool("open", false, "open the browser once the server is up")
	cmd.Flags().StringP("mode", "m", "", "build mode (production, development, none)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	rt, err := loadRuntime(cmd, serveFlagKeys)
	if err != nil {
		return err
	}
	// The development server always runs the application configuration.
	rt.settings.Build.Library = false

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root, err := filepath.Abs(rt.settings.Project.Root)
	if err != nil {
		return errors.WrapIO(err, errors.ErrCodeInternalError, "failed to resolve project root")
	}
	mode := rt.settings.Build.Mode
	if mode == "" {
		mode = bundle.DefaultMode
	}

	reload := make(chan struct{}, 1)
	fw, err := watcher.NewFileWatcher(reloadDelay, rt.logger)
	if err != nil {
		return errors.NewIOError(errors.ErrCodeServeFailed, "failed to create file watcher", err)
	}
	defer func() { _ = fw.Stop() }()

	if err := fw.WatchFiles(pipeline.WatchedFiles(root, mode)...); err != nil {
		return errors.NewIOError(errors.ErrCodeServeFailed, "failed to watch project files", err).WithFile(root)
	}
	fw.AddHandler(func(ctx context.Context, events []watcher.ChangeEvent) error {
		for _, e := range events {
			rt.logger.Info(ctx, "Project input changed", "path", e.Path, "event", e.Type.String())
		}
		select {
		case reload <- struct{}{}:
		default:
		}
		return nil
	})
	if err := fw.Start(ctx); err != nil {
		return errors.NewIOError(errors.ErrCodeServeFailed, "failed to start file watcher", err)
	}

	resolver := pipeline.NewResolver(rt.logger)
	req := rt.request()
	resolve := func(ctx context.Context) (bundle.Config, error) {
		result, err := resolver.Resolve(ctx, req)
		if err != nil {
			return bundle.Config{}, err
		}
		return result.Configs[0], nil
	}

	return serveLoop(ctx, resolve, newEngine(rt.logger), reload, rt.logger)
}

// serveLoop serves the resolved configuration until ctx is cancelled. Each
// signal on reload re-resolves; a successful resolution restarts the server
// with the new configuration, a failed one is logged and the running server
// is kept. Only the first resolution and engine failures end the loop.
func serveLoop(
	ctx context.Context,
	resolve func(context.Context) (bundle.Config, error),
	eng engine.Engine,
	reload <-chan struct{},
	logger logging.Logger,
) error {
	cfg, err := resolve(ctx)
	if err != nil {
		return err
	}
	handler := errors.NewErrorHandler(logger)

	for {
		runCtx, cancel := context.WithCancel(ctx)
		done := make(chan error, 1)
		go func(cfg bundle.Config) {
			done <- eng.Serve(runCtx, cfg)
		}(cfg)

	wait:
		for {
			select {
			case <-ctx.Done():
				cancel()
				return <-done

			case err := <-done:
				cancel()
				return err

			case <-reload:
				next, err := resolve(ctx)
				if err != nil {
					handler.Handle(ctx, err)
					logger.Warn(ctx, nil, "Keeping the previous configuration until the error is fixed")
					continue
				}
				cancel()
				if err := <-done; err != nil {
					return err
				}
				cfg = next
				logger.Info(ctx, "Configuration reloaded, restarting server", "config", cfg.Name)
				break wait
			}
		}
	}
}
