package engine

import (
	"context"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/conneroisu/zgl/internal/bundle"
	"github.com/conneroisu/zgl/internal/logging"
)

// progressPlugin logs the start and end of every build, including watch
// mode rebuilds.
func progressPlugin(ctx context.Context, logger logging.Logger, name string) api.Plugin {
	var (
		mu      sync.Mutex
		started time.Time
	)

	return api.Plugin{
		Name: "zgl-progress",
		Setup: func(build api.PluginBuild) {
			build.OnStart(func() (api.OnStartResult, error) {
				mu.Lock()
				started = time.Now()
				mu.Unlock()
				logger.Debug(ctx, "Build started", "config", name)
				return api.OnStartResult{}, nil
			})

			build.OnEnd(func(result *api.BuildResult) (api.OnEndResult, error) {
				mu.Lock()
				elapsed := time.Since(started)
				mu.Unlock()

				fields := []interface{}{
					"config", name,
					"duration_ms", elapsed.Milliseconds(),
					"outputs", len(result.OutputFiles),
					"warnings", len(result.Warnings),
				}
				if len(result.Errors) > 0 {
					logger.Warn(ctx, nil, "Build finished with errors", append(fields, "errors", len(result.Errors))...)
				} else {
					logger.Info(ctx, "Build finished", fields...)
				}
				return api.OnEndResult{}, nil
			})
		},
	}
}

// aliasPlugin rewrites import prefixes such as "@/components/Button" to
// directories, then lets esbuild resolve the rewritten path as usual.
func aliasPlugin(alias map[string]string) api.Plugin {
	keys := make([]string, 0, len(alias))
	for k := range alias {
		keys = append(keys, k)
	}
	// longest prefix first
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	return api.Plugin{
		Name: "zgl-alias",
		Setup: func(build api.PluginBuild) {
			for _, key := range keys {
				prefix, target := key, alias[key]
				filter := "^" + regexp.QuoteMeta(prefix) + "(/|$)"

				build.OnResolve(api.OnResolveOptions{Filter: filter},
					func(args api.OnResolveArgs) (api.OnResolveResult, error) {
						rewritten := target + strings.TrimPrefix(args.Path, prefix)
						result := build.Resolve(rewritten, api.ResolveOptions{
							Importer:   args.Importer,
							ResolveDir: args.ResolveDir,
							Kind:       args.Kind,
						})
						if len(result.Errors) > 0 {
							return api.OnResolveResult{Errors: result.Errors}, nil
						}
						return api.OnResolveResult{
							Path:      result.Path,
							External:  result.External,
							Namespace: result.Namespace,
						}, nil
					})
			}
		},
	}
}

// htmlPlugin writes the application page after every successful build,
// linking the emitted entry scripts and stylesheets.
func htmlPlugin(cfg bundle.Config, plugin bundle.Plugin) api.Plugin {
	template := plugin.Options["template"]
	filename := plugin.Options["filename"]
	if filename == "" {
		filename = "index.html"
	}
	target := filepath.Join(cfg.Output.Path, filename)

	return api.Plugin{
		Name: "zgl-html",
		Setup: func(build api.PluginBuild) {
			build.OnEnd(func(result *api.BuildResult) (api.OnEndResult, error) {
				if len(result.Errors) > 0 || result.Metafile == "" {
					return api.OnEndResult{}, nil
				}

				meta, err := ParseMetafile(result.Metafile)
				if err != nil {
					return api.OnEndResult{}, err
				}
				scripts, styles := meta.EntryAssets(cfg.Context, cfg.Output.Path, cfg.Output.PublicPath)

				if err := writePage(template, target, scripts, styles); err != nil {
					return api.OnEndResult{}, err
				}
				return api.OnEndResult{}, nil
			})
		},
	}
}
