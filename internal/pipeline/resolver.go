// Package pipeline resolves the final build configurations of a project.
//
// Resolution runs the stages in a fixed order: project profile, entry
// discovery, environment defines, synthesis, user override, merge. Every
// stage reads from an explicit project root. Detection problems are logged
// and replaced by defaults; a broken user override aborts resolution.
package pipeline

import (
	"context"
	"os"
	"path/filepath"

	"github.com/conneroisu/zgl/internal/bundle"
	"github.com/conneroisu/zgl/internal/errors"
	"github.com/conneroisu/zgl/internal/logging"
	"github.com/conneroisu/zgl/internal/project"
	"github.com/conneroisu/zgl/internal/scanner"
	"github.com/conneroisu/zgl/internal/userconfig"
)

// Request describes one resolution.
type Request struct {
	// Root is the project root. Relative roots are made absolute.
	Root string
	// SourceDir, OutputDir and PublicDir are relative to Root; empty
	// values select src, dist and public.
	SourceDir string
	OutputDir string
	PublicDir string

	// Library selects one library config per detected bundle type instead
	// of the application config.
	Library bool
	CLI     bundle.CLIOptions

	// Minify overrides the per-target default policy.
	Minify *bundle.MinifyPolicy

	// Override replaces the override file lookup when set.
	Override userconfig.Provider
}

// Result is the outcome of a resolution.
type Result struct {
	Root         string
	Profile      project.Profile
	Entries      bundle.Entries
	Configs      []bundle.Config
	OverridePath string
}

// Resolver resolves configurations. A Resolver may be reused; the manifest
// cache it holds makes repeated resolution of an unchanged project cheap.
type Resolver struct {
	logger       logging.Logger
	introspector *project.Introspector
}

// NewResolver creates a resolver logging through logger.
func NewResolver(logger logging.Logger) *Resolver {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Resolver{
		logger:       logger.WithComponent("resolver"),
		introspector: project.NewIntrospector(logger),
	}
}

// Resolve runs the pipeline for req.
func (r *Resolver) Resolve(ctx context.Context, req Request) (*Result, error) {
	root, err := filepath.Abs(orDefault(req.Root, "."))
	if err != nil {
		return nil, errors.WrapIO(err, errors.ErrCodeInternalError, "failed to resolve project root")
	}
	srcDir := filepath.Join(root, orDefault(req.SourceDir, bundle.DefaultSourceDir))

	if info, err := os.Stat(srcDir); err != nil || !info.IsDir() {
		r.logger.Warn(ctx, errors.NewValidationError(errors.ErrCodeSourceDirMissing, "source directory not found").WithFile(srcDir),
			"Source directory missing, continuing with defaults")
	}

	profile := r.introspector.Profile(ctx, root, srcDir)
	entries := r.entries(ctx, srcDir, req.Library)

	mode := bundle.DefaultMode
	if req.CLI.Mode != nil && *req.CLI.Mode != "" {
		mode = *req.CLI.Mode
	}
	env, err := project.LoadEnv(root, mode)
	if err != nil {
		r.logger.Warn(ctx, err, "Failed to read environment files, skipping them")
	}

	in := bundle.Input{
		ProjectType: profile.Type,
		PackageName: profile.PackageName(),
		Entries:     entries,
		Root:        root,
		SourceDir:   req.SourceDir,
		OutputDir:   req.OutputDir,
		PublicDir:   req.PublicDir,
		Mode:        mode,
		Define:      project.Defines(env, mode),
	}

	var configs []bundle.Config
	if req.Library {
		in.Minify = minifyPolicy(req.Minify, bundle.DefaultLibraryMinify)
		configs = bundle.SynthesizeAll(in, profile.Bundles)
	} else {
		in.Minify = minifyPolicy(req.Minify, bundle.DefaultApplicationMinify)
		configs = []bundle.Config{bundle.Application(in)}
	}

	override, overridePath, err := r.override(ctx, root, req.Override)
	if err != nil {
		return nil, err
	}
	if overridePath != "" {
		r.logger.Info(ctx, "Loaded override file", "path", overridePath)
	}

	merged, err := bundle.MergeAll(configs, override, req.CLI)
	if err != nil {
		if overridePath != "" {
			return nil, errors.WrapConfig(err, errors.ErrCodeOverrideInvalid, "failed to apply override", overridePath)
		}
		return nil, err
	}

	r.logger.Debug(ctx, "Resolved configuration",
		"root", root,
		"project_type", profile.Type.String(),
		"library", req.Library,
		"configs", len(merged),
	)

	return &Result{
		Root:         root,
		Profile:      profile,
		Entries:      entries,
		Configs:      merged,
		OverridePath: overridePath,
	}, nil
}

// WatchedFiles lists the inputs whose change invalidates a resolution of
// root for mode: the manifest, the dotenv files and every possible override
// file.
func WatchedFiles(root, mode string) []string {
	files := []string{project.ManifestPath(root)}
	files = append(files, project.EnvFiles(root, mode)...)
	for _, ext := range userconfig.Extensions {
		files = append(files, filepath.Join(root, userconfig.BaseName+ext))
	}
	return files
}

func (r *Resolver) entries(ctx context.Context, srcDir string, library bool) bundle.Entries {
	single := scanner.EntryPoints(srcDir)
	if path, ok := single[scanner.DefaultEntryName]; ok {
		if _, err := os.Stat(path); err != nil {
			r.logger.Warn(ctx, nil, "No conventional entry found, using fallback", "entry", path)
		}
	}

	entries := bundle.Entries{Single: single}
	if !library {
		return entries
	}

	onDemand, err := scanner.GenerateEntriesFromSourceFiles(srcDir)
	if err != nil {
		r.logger.Warn(ctx, err, "Failed to scan source files, using the single entry", "src", srcDir)
		return entries
	}
	entries.OnDemand = onDemand
	return entries
}

func (r *Resolver) override(ctx context.Context, root string, provider userconfig.Provider) (userconfig.Document, string, error) {
	if provider == nil {
		return userconfig.Load(ctx, root)
	}

	doc, err := provider.Provide(ctx)
	if err != nil {
		return nil, "", errors.NewConfigError(errors.ErrCodeOverrideLoad, "override provider failed", err)
	}
	return doc, "", nil
}

func minifyPolicy(explicit *bundle.MinifyPolicy, fallback bundle.MinifyPolicy) bundle.MinifyPolicy {
	if explicit != nil {
		return *explicit
	}
	return fallback
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
