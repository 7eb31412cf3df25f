package project

import (
	"context"
	"fmt"
	"os"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/conneroisu/zgl/internal/logging"
	"github.com/conneroisu/zgl/internal/types"
)

const manifestCacheSize = 16

// Profile is everything the synthesizer needs to know about a project. It is
// computed once per invocation and shared by every configuration built in
// that invocation.
type Profile struct {
	Root     string
	Type     types.ProjectType
	Bundles  []types.BundleType
	Manifest *Manifest
}

// PackageName returns the manifest name, or "" when there is no manifest.
func (p Profile) PackageName() string {
	if p.Manifest == nil {
		return ""
	}
	return p.Manifest.Name
}

// Introspector reads project manifests and classifies projects. Parsed
// manifests are cached by path, size and modification time, so repeated
// resolution during serve only re-parses a manifest that actually changed.
type Introspector struct {
	logger logging.Logger
	cache  *lru.Cache[string, *Manifest]
}

// NewIntrospector creates an introspector logging through logger.
func NewIntrospector(logger logging.Logger) *Introspector {
	cache, err := lru.New[string, *Manifest](manifestCacheSize)
	if err != nil {
		// only fails for a non-positive size
		panic(err)
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Introspector{
		logger: logger.WithComponent("introspector"),
		cache:  cache,
	}
}

// Manifest loads the manifest of root. Read and parse failures are logged as
// warnings and reported as a nil manifest.
func (i *Introspector) Manifest(ctx context.Context, root string) *Manifest {
	path := ManifestPath(root)

	info, err := os.Stat(path)
	if err != nil {
		i.logger.Warn(ctx, err, "No readable manifest, using defaults", "path", path)
		return nil
	}

	key := fmt.Sprintf("%s|%d|%d", path, info.Size(), info.ModTime().UnixNano())
	if m, ok := i.cache.Get(key); ok {
		return m
	}

	m, err := ReadManifest(path)
	if err != nil {
		i.logger.Warn(ctx, err, "Failed to parse manifest, using defaults", "path", path)
		return nil
	}
	i.cache.Add(key, m)
	return m
}

// Profile classifies the project at root whose sources live in srcDir.
func (i *Introspector) Profile(ctx context.Context, root, srcDir string) Profile {
	manifest := i.Manifest(ctx, root)

	profile := Profile{
		Root:     root,
		Type:     DetectProjectType(manifest, srcDir),
		Bundles:  DetectBundleTypes(manifest),
		Manifest: manifest,
	}

	i.logger.Debug(ctx, "Detected project profile",
		"project_type", profile.Type.String(),
		"bundle_types", profile.Bundles,
	)
	return profile
}
