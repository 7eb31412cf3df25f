package engine

import (
	"fmt"
	"path"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/conneroisu/zgl/internal/bundle"
)

// candidateExtensions are the file extensions whose loader is derived from
// the module rules. Script extensions are left to esbuild's defaults.
var candidateExtensions = []string{
	".css", ".module.css",
	".less", ".module.less",
	".scss", ".sass", ".module.scss", ".module.sass",
	".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp", ".avif", ".ico",
	".woff", ".woff2", ".eot", ".ttf", ".otf",
	".mp4", ".webm", ".ogg", ".mp3", ".wav", ".flac", ".aac",
	".vue",
}

// unsupportedLoaders have no esbuild equivalent.
var unsupportedLoaders = map[string]bool{
	bundle.LoaderLess: true,
	bundle.LoaderSass: true,
	bundle.LoaderVue:  true,
}

// Translate maps a configuration onto esbuild build options. Features the
// engine cannot honour are reported as warnings rather than errors.
func Translate(cfg bundle.Config) (api.BuildOptions, []string) {
	var warnings []string
	warn := func(format string, args ...interface{}) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}

	opts := api.BuildOptions{
		AbsWorkingDir:     cfg.Context,
		Bundle:            true,
		Write:             true,
		Metafile:          true,
		LogLevel:          api.LogLevelSilent,
		Platform:          api.PlatformBrowser,
		Outdir:            cfg.Output.Path,
		PublicPath:        strings.TrimSuffix(cfg.Output.PublicPath, "/"),
		Define:            cfg.Define,
		External:          cfg.Externals.Requests(),
		ResolveExtensions: resolveExtensions(cfg.Resolve.Extensions),
		Sourcemap:         sourceMap(string(cfg.Devtool)),
	}

	hashed := strings.Contains(cfg.Output.Filename, "hash]")
	if hashed {
		opts.EntryPoints = entryPaths(cfg.Entry)
		opts.EntryNames = nameTemplate(cfg.Output.Filename)
	} else {
		opts.EntryPointsAdvanced = entryPoints(cfg.Entry, cfg.Output.Filename)
	}
	if cfg.Output.ChunkFilename != "" {
		opts.ChunkNames = nameTemplate(cfg.Output.ChunkFilename)
	}
	if cfg.Output.AssetModuleFilename != "" {
		opts.AssetNames = nameTemplate(cfg.Output.AssetModuleFilename)
	}

	switch {
	case cfg.Output.Library == nil:
		opts.Format = api.FormatESModule
		opts.Splitting = cfg.Optimization.SplitChunks != nil
	case cfg.Output.Library.Type == bundle.LibraryModule:
		opts.Format = api.FormatESModule
	case cfg.Output.Library.Type == bundle.LibraryUMD:
		opts.Format = api.FormatIIFE
		opts.GlobalName = cfg.Output.Library.Name
		warn("umd library %q is emitted as an iife assigning a global", cfg.Output.Library.Name)
	default:
		opts.Format = api.FormatCommonJS
	}
	if cfg.Output.Library != nil && cfg.Optimization.SplitChunks != nil {
		warn("chunk splitting is ignored for %s libraries", cfg.Output.Library.Type)
	}

	if usesAutomaticJSX(cfg.Module.Rules) {
		opts.JSX = api.JSXAutomatic
	}

	loaders, loaderWarnings := loaderMap(cfg.Module.Rules)
	opts.Loader = loaders
	warnings = append(warnings, loaderWarnings...)

	applyMinify(&opts, cfg)

	if len(cfg.Resolve.Alias) > 0 {
		opts.Plugins = append(opts.Plugins, aliasPlugin(cfg.Resolve.Alias))
	}
	if html, ok := findPlugin(cfg.Plugins, bundle.PluginHTML); ok {
		opts.Plugins = append(opts.Plugins, htmlPlugin(cfg, html))
	}

	return opts, warnings
}

func entryPaths(entries map[string]string) []string {
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, entries[name])
	}
	return out
}

// entryPoints keeps logical entry names, including their directories, as
// output paths.
func entryPoints(entries map[string]string, filename string) []api.EntryPoint {
	dir := path.Dir(filename)
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]api.EntryPoint, 0, len(names))
	for _, name := range names {
		outPath := name
		if dir != "." {
			outPath = path.Join(dir, name)
		}
		out = append(out, api.EntryPoint{InputPath: entries[name], OutputPath: outPath})
	}
	return out
}

var hashPlaceholder = regexp.MustCompile(`\[(contenthash|chunkhash|fullhash|hash)(:\d+)?\]`)

// nameTemplate converts a bundler file name pattern into an esbuild path
// template. The extension is dropped since esbuild appends it.
func nameTemplate(pattern string) string {
	t := hashPlaceholder.ReplaceAllString(pattern, "[hash]")
	t = strings.ReplaceAll(t, "[path]", "[dir]/")
	t = strings.TrimSuffix(t, "[ext]")
	for _, ext := range []string{".chunk.js", ".js", ".mjs", ".cjs", ".css"} {
		if strings.HasSuffix(t, ext) {
			t = strings.TrimSuffix(t, ext)
			if ext == ".chunk.js" {
				t += ".chunk"
			}
			break
		}
	}
	return strings.TrimPrefix(t, "/")
}

func resolveExtensions(exts []string) []string {
	if len(exts) == 0 {
		return nil
	}
	out := append([]string{}, exts...)
	for _, required := range []string{".mjs", ".json", ".css"} {
		if !slices.Contains(out, required) {
			out = append(out, required)
		}
	}
	return out
}

func sourceMap(devtool string) api.SourceMap {
	switch {
	case devtool == "" || devtool == "false":
		return api.SourceMapNone
	case strings.Contains(devtool, "inline") || strings.HasPrefix(devtool, "eval"):
		return api.SourceMapInline
	case strings.Contains(devtool, "hidden"):
		return api.SourceMapExternal
	default:
		return api.SourceMapLinked
	}
}

func usesAutomaticJSX(rules []bundle.Rule) bool {
	for _, r := range rules {
		for _, l := range r.Use {
			if l.Options != nil && l.Options.JSC.Transform != nil &&
				l.Options.JSC.Transform.React != nil &&
				l.Options.JSC.Transform.React.Runtime == "automatic" {
				return true
			}
		}
		if usesAutomaticJSX(r.OneOf) {
			return true
		}
	}
	return false
}

// loaderMap picks an esbuild loader per candidate extension from the first
// rule whose test matches a file with that extension.
func loaderMap(rules []bundle.Rule) (map[string]api.Loader, []string) {
	loaders := make(map[string]api.Loader)
	var warnings []string
	reported := make(map[string]bool)

	for _, ext := range candidateExtensions {
		rule, ok := matchRule(rules, "file"+ext)
		if !ok {
			continue
		}

		for _, l := range rule.Use {
			if unsupportedLoaders[l.Loader] && !reported[l.Loader] {
				reported[l.Loader] = true
				warnings = append(warnings, fmt.Sprintf("%s is not supported by the esbuild engine", l.Loader))
			}
		}

		if loader, ok := ruleLoader(rule, ext); ok {
			loaders[ext] = loader
		}
	}
	return loaders, warnings
}

func matchRule(rules []bundle.Rule, name string) (bundle.Rule, bool) {
	for _, r := range rules {
		if len(r.OneOf) > 0 {
			if m, ok := matchRule(r.OneOf, name); ok {
				return m, true
			}
			continue
		}
		if r.Test == "" {
			continue
		}
		re, err := regexp.Compile(r.Test)
		if err != nil || !re.MatchString(name) {
			continue
		}
		return r, true
	}
	return bundle.Rule{}, false
}

func ruleLoader(rule bundle.Rule, ext string) (api.Loader, bool) {
	for _, l := range rule.Use {
		if unsupportedLoaders[l.Loader] {
			return api.LoaderNone, false
		}
	}

	switch rule.Type {
	case bundle.ModuleAssetInline:
		return api.LoaderDataURL, true
	case bundle.ModuleAssetResource:
		return api.LoaderFile, true
	case bundle.ModuleCSSModule:
		return api.LoaderLocalCSS, true
	case bundle.ModuleCSS, bundle.ModuleCSSAuto:
		return cssLoader(ext), true
	}

	for _, l := range rule.Use {
		if l.Loader == bundle.LoaderCSSExtract || l.Loader == bundle.LoaderCSS {
			return cssLoader(ext), true
		}
	}
	return api.LoaderNone, false
}

// cssLoader scopes *.module.* stylesheets locally.
func cssLoader(ext string) api.Loader {
	if strings.HasPrefix(ext, ".module.") {
		return api.LoaderLocalCSS
	}
	return api.LoaderCSS
}

func minimizeEnabled(cfg bundle.Config) bool {
	if cfg.Optimization.Minimize != nil {
		return *cfg.Optimization.Minimize
	}
	return cfg.Mode == "production"
}

func applyMinify(opts *api.BuildOptions, cfg bundle.Config) {
	if !minimizeEnabled(cfg) {
		return
	}

	opts.MinifyWhitespace = true
	opts.MinifyIdentifiers = true
	opts.MinifySyntax = true
	opts.LegalComments = api.LegalCommentsNone

	for _, m := range cfg.Optimization.Minimizer {
		if m.Compress.DropConsole {
			opts.Drop |= api.DropConsole
		}
		if m.Compress.DropDebugger {
			opts.Drop |= api.DropDebugger
		}
		for _, fn := range m.Compress.PureFuncs {
			if !slices.Contains(opts.Pure, fn) {
				opts.Pure = append(opts.Pure, fn)
			}
		}
		if m.Comments {
			opts.LegalComments = api.LegalCommentsInline
		}
	}
}

func findPlugin(plugins []bundle.Plugin, name string) (bundle.Plugin, bool) {
	for _, p := range plugins {
		if p.Name == name {
			return p, true
		}
	}
	return bundle.Plugin{}, false
}
