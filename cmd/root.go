// Package cmd provides the command-line interface for zgl.
//
// Settings are read from several sources with clear precedence:
//  1. Command-line flags (--root, --mode, --port, etc.), highest priority
//  2. Individual environment variables (ZGL_SERVER_PORT, etc.)
//  3. The settings file: --config, ZGL_CONFIG_FILE or .zglrc.yml
//
// Flags a user did not pass never override the file or the environment, and
// settings a user did not supply never override the synthesized build
// configuration.
package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/conneroisu/zgl/internal/config"
	"github.com/conneroisu/zgl/internal/logging"
	"github.com/conneroisu/zgl/internal/pipeline"
)

// persistentFlagKeys maps root flags to setting keys.
var persistentFlagKeys = map[string]string{
	"log-level":  "log.level",
	"log-format": "log.format",
	"root":       "project.root",
	"src":        "project.source_dir",
	"out":        "project.output_dir",
}

// NewRootCommand builds the zgl command tree. Every call returns fresh
// commands so flag values never leak between invocations.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "zgl",
		Short: "Zero-config bundling for JavaScript and TypeScript projects",
		Long: `zgl inspects a project (package.json, source tree, .env files) and
synthesizes the build configuration for it, then hands that configuration to
esbuild. An optional zgl.config.{sh,cue,yaml,yml,toml,json} file at the
project root overrides any synthesized value.

Quick Start:
  zgl build              Build the application into dist/
  zgl build --lib        Build one library bundle per detected format
  zgl serve              Start the development server
  zgl inspect --lib      Print the final configurations`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "settings file (default is .zglrc.yml, can also use ZGL_CONFIG_FILE env var)")
	flags.StringP("log-level", "l", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (text, json)")
	flags.String("root", "", "project root (default is the working directory)")
	flags.String("src", "", "source directory relative to the root (default is src)")
	flags.String("out", "", "output directory relative to the root (default is dist)")

	root.AddCommand(
		newBuildCommand(),
		newServeCommand(),
		newInspectCommand(),
		newVersionCommand(),
	)
	return root
}

// Execute runs the zgl command line and reports a failure on stderr.
func Execute() error {
	root := NewRootCommand()
	if err := root.Execute(); err != nil {
		renderError(root.ErrOrStderr(), err)
		return err
	}
	return nil
}

// runtime is what every pipeline command needs: validated settings and a
// logger configured from them.
type runtime struct {
	settings     *config.Config
	settingsFile string
	logger       logging.Logger
}

// loadRuntime binds the flags of cmd, reads the settings and builds the
// logger. Bindings are made per invocation so a reset viper instance sees
// the current command's flags only.
func loadRuntime(cmd *cobra.Command, flagKeys map[string]string) (*runtime, error) {
	if err := bindFlags(cmd.Flags(), persistentFlagKeys); err != nil {
		return nil, err
	}
	if err := bindFlags(cmd.Flags(), flagKeys); err != nil {
		return nil, err
	}

	cfgFile, _ := cmd.Flags().GetString("config")
	used, err := config.Configure(cfgFile)
	if err != nil {
		return nil, err
	}
	settings, err := config.Load()
	if err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(settings.Log.Level)
	if err != nil {
		return nil, err
	}
	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:      level,
		Format:     settings.Log.Format,
		Output:     cmd.ErrOrStderr(),
		TimeFormat: time.Kitchen,
		Component:  cmd.Name(),
	})

	ctx := cmd.Context()
	if used != "" {
		logger.Debug(ctx, "Loaded settings file", "path", used)
	}
	for _, w := range settings.Warnings {
		logger.Warn(ctx, nil, w.Message, "field", w.Field, "value", w.Value)
	}

	return &runtime{settings: settings, settingsFile: used, logger: logger}, nil
}

func bindFlags(flags *pflag.FlagSet, flagKeys map[string]string) error {
	for name, key := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := viper.BindPFlag(key, flag); err != nil {
			return err
		}
	}
	return nil
}

func (rt *runtime) request() pipeline.Request {
	s := rt.settings
	return pipeline.Request{
		Root:      s.Project.Root,
		SourceDir: s.Project.SourceDir,
		OutputDir: s.Project.OutputDir,
		PublicDir: s.Project.PublicDir,
		Library:   s.Build.Library,
		CLI:       s.CLIOptions(),
		Minify:    s.MinifyPolicy(),
	}
}
