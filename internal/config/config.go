// Package config provides the zgl tool settings using Viper for loading from
// files, environment variables and command-line flags.
//
// These are settings of the CLI itself: where the project lives, which
// target to build, how the development server binds and how logs look. The
// build configuration handed to the engine is synthesized elsewhere; only
// the fields a user explicitly set here take part in its merge as CLI
// options.
package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/conneroisu/zgl/internal/bundle"
	"github.com/conneroisu/zgl/internal/errors"
)

const (
	// EnvPrefix prefixes every settings environment variable, as in
	// ZGL_SERVER_PORT.
	EnvPrefix = "ZGL"
	// FileEnv names a settings file to use instead of .zglrc.yml.
	FileEnv = "ZGL_CONFIG_FILE"
	// DefaultFileName is the settings file looked up in the working directory.
	DefaultFileName = ".zglrc"
)

// keys lists every setting so environment variables reach Unmarshal even
// when no settings file mentions the key.
var keys = []string{
	"project.root",
	"project.source_dir",
	"project.output_dir",
	"project.public_dir",
	"build.mode",
	"build.library",
	"build.minify.app_drop_console",
	"build.minify.library_drop_console",
	"server.port",
	"server.host",
	"server.open",
	"log.level",
	"log.format",
}

// Configure points the global viper instance at the settings sources.
//
// Settings file priority (highest to lowest):
//  1. cfgFile, from the --config flag
//  2. the ZGL_CONFIG_FILE environment variable
//  3. .zglrc.yml in the working directory
//
// Individual values can be overridden with ZGL_<SECTION>_<KEY> variables.
// A missing default file is not an error; a missing explicit file is. The
// path of the file read, if any, is returned.
func Configure(cfgFile string) (string, error) {
	explicit := cfgFile
	if explicit == "" {
		explicit = os.Getenv(FileEnv)
	}

	if explicit != "" {
		viper.SetConfigFile(explicit)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(DefaultFileName)
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	for _, key := range keys {
		if err := viper.BindEnv(key); err != nil {
			return "", errors.NewInternalError(errors.ErrCodeInternalError, "failed to bind environment", err)
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit == "" && errors.As(err, &notFound) {
			return "", nil
		}
		return "", errors.WrapConfig(err, errors.ErrCodeSettingsInvalid, "failed to read settings file", explicit)
	}
	return viper.ConfigFileUsed(), nil
}

type Config struct {
	Project ProjectConfig `mapstructure:"project" yaml:"project"`
	Build   BuildConfig   `mapstructure:"build" yaml:"build"`
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`

	// Warnings holds non-fatal validation findings.
	Warnings []ValidationError `mapstructure:"-" yaml:"-"`

	explicit explicitFields
}

type ProjectConfig struct {
	Root      string `mapstructure:"root" yaml:"root"`
	SourceDir string `mapstructure:"source_dir" yaml:"source_dir"`
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`
	PublicDir string `mapstructure:"public_dir" yaml:"public_dir"`
}

type BuildConfig struct {
	Mode    string       `mapstructure:"mode" yaml:"mode"`
	Library bool         `mapstructure:"library" yaml:"library"`
	Minify  MinifyConfig `mapstructure:"minify" yaml:"minify"`
}

// MinifyConfig selects whether console calls are stripped from minified
// output, per target.
type MinifyConfig struct {
	AppDropConsole     bool `mapstructure:"app_drop_console" yaml:"app_drop_console"`
	LibraryDropConsole bool `mapstructure:"library_drop_console" yaml:"library_drop_console"`
}

type ServerConfig struct {
	Port int    `mapstructure:"port" yaml:"port"`
	Host string `mapstructure:"host" yaml:"host"`
	Open bool   `mapstructure:"open" yaml:"open"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// explicitFields records which merge-relevant settings a user supplied. An
// unset field must leave the synthesized default alone.
type explicitFields struct {
	mode, port, open, host bool
}

// Load reads the settings from the global viper instance, applies defaults
// and validates them. Validation errors are returned as a configuration
// error; warnings are kept on the returned Config.
func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeSettingsInvalid, "failed to decode settings", err)
	}

	// Apply default values for ProjectConfig if not set
	if config.Project.Root == "" {
		config.Project.Root = "."
	}
	if config.Project.SourceDir == "" {
		config.Project.SourceDir = bundle.DefaultSourceDir
	}
	if config.Project.OutputDir == "" {
		config.Project.OutputDir = bundle.DefaultOutputDir
	}
	if config.Project.PublicDir == "" {
		config.Project.PublicDir = bundle.DefaultPublicDir
	}

	// Minify defaults differ per target, so unset bools cannot stay false
	if !viper.IsSet("build.minify.app_drop_console") {
		config.Build.Minify.AppDropConsole = bundle.DefaultApplicationMinify.DropConsole
	}
	if !viper.IsSet("build.minify.library_drop_console") {
		config.Build.Minify.LibraryDropConsole = bundle.DefaultLibraryMinify.DropConsole
	}

	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
	if config.Log.Format == "" {
		config.Log.Format = "text"
	}

	config.explicit = explicitFields{
		mode: config.Build.Mode != "",
		port: viper.IsSet("server.port"),
		open: viper.IsSet("server.open"),
		host: config.Server.Host != "",
	}

	result := ValidateConfigWithDetails(&config)
	if result.HasErrors() {
		return nil, errors.NewConfigError(errors.ErrCodeSettingsInvalid, "invalid settings", &result.Errors[0]).
			WithContext("report", result.String())
	}
	config.Warnings = result.Warnings

	return &config, nil
}

// CLIOptions returns the settings that take part in the configuration merge.
// Only explicitly supplied values are set.
func (c *Config) CLIOptions() bundle.CLIOptions {
	var opts bundle.CLIOptions
	if c.explicit.mode {
		mode := c.Build.Mode
		opts.Mode = &mode
	}
	if c.explicit.port {
		port := c.Server.Port
		opts.Port = &port
	}
	if c.explicit.open {
		open := c.Server.Open
		opts.Open = &open
	}
	if c.explicit.host {
		host := c.Server.Host
		opts.Host = &host
	}
	return opts
}

// MinifyPolicy returns the minify policy of the selected target.
func (c *Config) MinifyPolicy() *bundle.MinifyPolicy {
	if c.Build.Library {
		return &bundle.MinifyPolicy{DropConsole: c.Build.Minify.LibraryDropConsole}
	}
	return &bundle.MinifyPolicy{DropConsole: c.Build.Minify.AppDropConsole}
}
