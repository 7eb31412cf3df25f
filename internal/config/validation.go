package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/conneroisu/zgl/internal/validation"
)

// ValidationError represents a settings validation finding with suggestions
type ValidationError struct {
	Field       string
	Value       interface{}
	Message     string
	Suggestions []string
}

func (ve *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", ve.Field, ve.Message)
}

// ValidationResult holds the result of settings validation
type ValidationResult struct {
	Valid    bool
	Errors   []ValidationError
	Warnings []ValidationError
}

// HasErrors returns true if there are any validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings
func (vr *ValidationResult) HasWarnings() bool {
	return len(vr.Warnings) > 0
}

// String returns a formatted string of all validation issues
func (vr *ValidationResult) String() string {
	var builder strings.Builder

	writeSection := func(title string, findings []ValidationError) {
		if len(findings) == 0 {
			return
		}
		builder.WriteString(title + ":\n")
		for _, f := range findings {
			builder.WriteString(fmt.Sprintf("  • %s: %s\n", f.Field, f.Message))
			for _, suggestion := range f.Suggestions {
				builder.WriteString(fmt.Sprintf("    - %s\n", suggestion))
			}
		}
	}

	writeSection("Validation errors", vr.Errors)
	writeSection("Validation warnings", vr.Warnings)

	return builder.String()
}

var (
	knownModes      = []string{"production", "development", "none"}
	knownLogLevels  = []string{"debug", "info", "warn", "error"}
	knownLogFormats = []string{"text", "json"}
)

// ValidateConfigWithDetails performs validation with detailed feedback
func ValidateConfigWithDetails(config *Config) *ValidationResult {
	result := &ValidationResult{}

	validateProjectConfigDetails(&config.Project, result)
	validateBuildConfigDetails(&config.Build, result)
	validateServerConfigDetails(&config.Server, result)
	validateLogConfigDetails(&config.Log, result)

	result.Valid = !result.HasErrors()
	return result
}

func validateProjectConfigDetails(config *ProjectConfig, result *ValidationResult) {
	dirs := []struct {
		field string
		value string
	}{
		{"project.source_dir", config.SourceDir},
		{"project.output_dir", config.OutputDir},
		{"project.public_dir", config.PublicDir},
	}
	for _, dir := range dirs {
		if err := validation.ValidateProjectPath(dir.value); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   dir.field,
				Value:   dir.value,
				Message: err.Error(),
				Suggestions: []string{
					"Use a path relative to the project root",
					"Use --root to point at a different project",
				},
			})
		}
	}

	if config.SourceDir == config.OutputDir {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "project.output_dir",
			Value:   config.OutputDir,
			Message: "output directory must differ from the source directory",
			Suggestions: []string{
				"The output directory is emptied before every build",
			},
		})
	}
}

func validateBuildConfigDetails(config *BuildConfig, result *ValidationResult) {
	if config.Mode != "" && !slices.Contains(knownModes, config.Mode) {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "build.mode",
			Value:   config.Mode,
			Message: fmt.Sprintf("unknown mode %q", config.Mode),
			Suggestions: []string{
				"Known modes: " + strings.Join(knownModes, ", "),
				"Unknown modes minify like development builds",
			},
		})
	}
}

func validateServerConfigDetails(config *ServerConfig, result *ValidationResult) {
	// 0 lets the system pick a port
	if config.Port < 0 || config.Port > 65535 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "server.port",
			Value:   config.Port,
			Message: fmt.Sprintf("port %d is not in valid range 0-65535", config.Port),
			Suggestions: []string{
				"Use a port between 1024-65535 for non-privileged access",
				"Port 0 allows the system to assign an available port",
			},
		})
	} else if config.Port > 0 && config.Port < 1024 {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "server.port",
			Value:   config.Port,
			Message: "port below 1024 requires elevated privileges",
			Suggestions: []string{
				"Consider using a port above 1024 for development",
			},
		})
	}

	if config.Host != "" {
		if err := validation.ValidateHost(config.Host); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   "server.host",
				Value:   config.Host,
				Message: err.Error(),
				Suggestions: []string{
					"Use 'localhost' for local development",
					"Use '0.0.0.0' to bind to all interfaces",
				},
			})
		}
	}
}

func validateLogConfigDetails(config *LogConfig, result *ValidationResult) {
	if !slices.Contains(knownLogLevels, strings.ToLower(config.Level)) {
		result.Errors = append(result.Errors, ValidationError{
			Field:       "log.level",
			Value:       config.Level,
			Message:     fmt.Sprintf("unknown log level %q", config.Level),
			Suggestions: []string{"Available levels: " + strings.Join(knownLogLevels, ", ")},
		})
	}
	if !slices.Contains(knownLogFormats, strings.ToLower(config.Format)) {
		result.Errors = append(result.Errors, ValidationError{
			Field:       "log.format",
			Value:       config.Format,
			Message:     fmt.Sprintf("unknown log format %q", config.Format),
			Suggestions: []string{"Available formats: " + strings.Join(knownLogFormats, ", ")},
		})
	}
}
