// Package engine executes build configurations with esbuild.
//
// The bundling itself is esbuild's job. This package only translates a
// bundle.Config into esbuild options, runs builds, and runs a watch and
// serve context for development. Engine diagnostics are surfaced verbatim.
package engine

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/conneroisu/zgl/internal/bundle"
	"github.com/conneroisu/zgl/internal/errors"
	"github.com/conneroisu/zgl/internal/logging"
)

// Engine runs final configurations.
type Engine interface {
	// Build runs each configuration once, in order, stopping at the first
	// failure.
	Build(ctx context.Context, configs []bundle.Config) error
	// Serve watches and serves a configuration until ctx is cancelled.
	Serve(ctx context.Context, cfg bundle.Config) error
}

// Esbuild is the esbuild-backed Engine.
type Esbuild struct {
	logger logging.Logger
	open   func(url string) error
}

// NewEsbuild creates an engine logging through logger.
func NewEsbuild(logger logging.Logger) *Esbuild {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Esbuild{
		logger: logger.WithComponent("engine"),
		open:   openBrowser,
	}
}

var _ Engine = (*Esbuild)(nil)

func (e *Esbuild) options(ctx context.Context, cfg bundle.Config) api.BuildOptions {
	opts, warnings := Translate(cfg)
	for _, w := range warnings {
		e.logger.Warn(ctx, nil, w, "config", cfg.Name)
	}
	if _, ok := findPlugin(cfg.Plugins, bundle.PluginProgress); ok {
		opts.Plugins = append([]api.Plugin{progressPlugin(ctx, e.logger, cfg.Name)}, opts.Plugins...)
	}
	return opts
}

// Build implements Engine.
func (e *Esbuild) Build(ctx context.Context, configs []bundle.Config) error {
	for _, cfg := range configs {
		if err := ctx.Err(); err != nil {
			return err
		}

		if cfg.Output.Clean {
			if err := cleanOutput(cfg); err != nil {
				return errors.NewIOError(errors.ErrCodeBuildFailed, "failed to clean output directory", err).
					WithFile(cfg.Output.Path)
			}
		}

		perf := logging.StartOperation(e.logger, "build_"+cfg.Name)
		result := api.Build(e.options(ctx, cfg))
		e.report(ctx, cfg.Name, result.Warnings)

		if len(result.Errors) > 0 {
			err := engineError(errors.ErrCodeBuildFailed, cfg.Name, result.Errors)
			perf.EndWithError(ctx, err)
			return err
		}
		perf.End(ctx)
	}
	return nil
}

// Serve implements Engine. Output is rebuilt on every source change and
// served from the output directory.
func (e *Esbuild) Serve(ctx context.Context, cfg bundle.Config) error {
	server := bundle.DevServer{Port: bundle.DefaultPort}
	if cfg.DevServer != nil {
		server = *cfg.DevServer
	}

	bctx, cerr := api.Context(e.options(ctx, cfg))
	if cerr != nil {
		return engineError(errors.ErrCodeServeFailed, cfg.Name, cerr.Errors)
	}
	defer bctx.Dispose()

	if err := bctx.Watch(api.WatchOptions{}); err != nil {
		return errors.NewEngineError(errors.ErrCodeServeFailed, "failed to start watch mode", err)
	}

	serveOpts := api.ServeOptions{
		Servedir: cfg.Output.Path,
		Host:     server.Host,
	}
	if _, ok := findPlugin(cfg.Plugins, bundle.PluginHTML); ok {
		serveOpts.Fallback = filepath.Join(cfg.Output.Path, "index.html")
	}
	setPort(&serveOpts.Port, server.Port)

	result, err := bctx.Serve(serveOpts)
	if err != nil {
		return errors.NewEngineError(errors.ErrCodeServeFailed, "failed to start development server", err).
			WithContext("port", server.Port)
	}

	host := server.Host
	if host == "" || host == "0.0.0.0" {
		host = "localhost"
	}
	url := "http://" + net.JoinHostPort(host, strconv.Itoa(int(result.Port))) + "/"
	e.logger.Info(ctx, "Development server started", "url", url, "config", cfg.Name)

	if server.Open {
		if err := e.open(url); err != nil {
			e.logger.Warn(ctx, err, "Failed to open browser", "url", url)
		}
	}

	<-ctx.Done()
	e.logger.Info(ctx, "Development server stopped", "url", url)
	return nil
}

func (e *Esbuild) report(ctx context.Context, name string, warnings []api.Message) {
	if len(warnings) == 0 {
		return
	}
	for _, msg := range api.FormatMessages(warnings, api.FormatMessagesOptions{Kind: api.WarningMessage}) {
		e.logger.Warn(ctx, nil, strings.TrimSpace(msg), "config", name)
	}
}

// setPort assigns port whatever integer type the option uses.
func setPort[T ~int | ~uint16](dst *T, port int) {
	*dst = T(port)
}

// engineError wraps esbuild diagnostics, formatted as esbuild prints them.
func engineError(code, name string, msgs []api.Message) *errors.ZglError {
	formatted := api.FormatMessages(msgs, api.FormatMessagesOptions{Kind: api.ErrorMessage})
	detail := strings.TrimSpace(strings.Join(formatted, ""))
	return errors.NewEngineError(code, fmt.Sprintf("%d error(s) in %q", len(msgs), name), fmt.Errorf("%s", detail)).
		WithContext("config", name)
}

// cleanOutput empties the output directory. A relative path is taken from
// the project root, like esbuild does; without a root nothing is removed.
// The project root itself is never removed.
func cleanOutput(cfg bundle.Config) error {
	out := cfg.Output.Path
	if !filepath.IsAbs(out) {
		if cfg.Context == "" {
			return nil
		}
		out = filepath.Join(cfg.Context, out)
	}
	out = filepath.Clean(out)
	if out == "." || out == string(filepath.Separator) || (cfg.Context != "" && out == filepath.Clean(cfg.Context)) {
		return nil
	}
	return os.RemoveAll(out)
}
