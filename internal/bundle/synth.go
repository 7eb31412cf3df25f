package bundle

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/conneroisu/zgl/internal/types"
)

// Defaults used when an Input leaves a field empty.
const (
	DefaultMode      = "production"
	DefaultSourceDir = "src"
	DefaultOutputDir = "dist"
	DefaultPublicDir = "public"
	DefaultPort      = 3000
	DefaultUMDName   = "Library"

	maxEntrypointSize = 500000
	maxAssetSize      = 200000
)

// Entries holds both entry discovery results. Library CJS and ESM builds
// use OnDemand so every module stays individually importable; UMD and
// application builds use Single.
type Entries struct {
	Single   types.EntryMap
	OnDemand types.EntryMap
}

// Input is everything synthesis depends on. Synthesis is a pure function of
// its Input.
type Input struct {
	ProjectType types.ProjectType
	PackageName string
	Entries     Entries

	// Root is the absolute project root. SourceDir, OutputDir and PublicDir
	// are relative to it.
	Root      string
	SourceDir string
	OutputDir string
	PublicDir string

	Mode   string
	Minify MinifyPolicy
	Define map[string]string
}

func (in Input) dir(rel, fallback string) string {
	if rel == "" {
		rel = fallback
	}
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(in.Root, rel)
}

func (in Input) mode() string {
	if in.Mode == "" {
		return DefaultMode
	}
	return in.Mode
}

func (in Input) resolve() Resolve {
	extensions := []string{".tsx", ".ts", ".jsx", ".js", ".scss", ".less"}
	if in.ProjectType == types.ProjectTypeVue {
		extensions = append(extensions, ".vue")
	}
	return Resolve{
		Extensions: extensions,
		Alias:      map[string]string{"@": in.dir(in.SourceDir, DefaultSourceDir)},
	}
}

func (in Input) base(name string) Builder {
	b := NewBuilder(name, in.mode()).
		WithContext(in.Root).
		WithResolve(in.resolve()).
		WithRules(transformRules()...).
		WithPerformance(Performance{
			Hints:             "warning",
			MaxEntrypointSize: maxEntrypointSize,
			MaxAssetSize:      maxAssetSize,
		}).
		WithDefine(in.Define)
	return b
}

// Application synthesizes the default application build: hashed file
// names, extracted CSS, an HTML page, chunk splitting and a dev server.
// Dependencies are bundled, so the config carries no externals.
func Application(in Input) Config {
	vue := in.ProjectType == types.ProjectTypeVue

	b := in.base("app").
		WithEntry(in.Entries.Single).
		WithOutput(Output{
			Path:                in.dir(in.OutputDir, DefaultOutputDir),
			Filename:            "js/[name].[contenthash].js",
			ChunkFilename:       "js/[name].[contenthash].chunk.js",
			AssetModuleFilename: "[path][name].[contenthash][ext]",
			PublicPath:          "/",
			Clean:               true,
		}).
		WithExperiments(Experiments{CSS: true}).
		WithRules(applicationStyleRules()...).
		WithRules(applicationAssetRules()...).
		WithPlugins(
			Plugin{Name: PluginProgress},
			Plugin{Name: PluginHTML, Options: map[string]string{
				"template": filepath.Join(in.dir(in.PublicDir, DefaultPublicDir), "index.html"),
				"filename": "index.html",
			}},
			Plugin{Name: PluginCSSExtract, Options: map[string]string{
				"filename":      "css/[name].[contenthash].css",
				"chunkFilename": "css/[name].[contenthash].chunk.css",
			}},
		).
		WithOptimization(Optimization{
			Minimizer:   []Minimizer{applicationMinimizer(in.Minify)},
			SplitChunks: applicationSplitChunks(),
		}).
		WithDevServer(DevServer{Port: DefaultPort, Open: false})

	if vue {
		b = b.WithRules(vueRule()).WithPlugins(Plugin{Name: PluginVueLoader})
	}
	return b.Build()
}

// libraryTypes maps bundle formats to output wrappers.
var libraryTypes = map[types.BundleType]string{
	types.BundleTypeCJS: LibraryCommonJS,
	types.BundleTypeESM: LibraryModule,
	types.BundleTypeUMD: LibraryUMD,
}

// Synthesize builds the library config for one bundle format. Each entry
// emits exactly one file; chunk splitting is disabled.
func Synthesize(in Input, bundleType types.BundleType) Config {
	libraryType, ok := libraryTypes[bundleType]
	if !ok {
		bundleType, libraryType = types.BundleTypeCJS, LibraryCommonJS
	}

	entries := in.Entries.OnDemand
	if bundleType == types.BundleTypeUMD || len(entries) == 0 {
		entries = in.Entries.Single
	}

	library := Library{Type: libraryType}
	output := Output{
		Path:     filepath.Join(in.dir(in.OutputDir, DefaultOutputDir), string(bundleType)),
		Filename: "[name].js",
	}
	experiments := Experiments{CSS: true}

	switch bundleType {
	case types.BundleTypeESM:
		output.Environment = &Environment{Module: true, DynamicImport: true}
		experiments.OutputModule = true
	case types.BundleTypeUMD:
		library.Name = UMDName(in.PackageName)
	}
	output.Library = &library

	b := in.base(string(bundleType)).
		WithEntry(entries).
		WithOutput(output).
		WithExperiments(experiments).
		WithRules(libraryStyleRules()...).
		WithRules(libraryAssetRules()...).
		WithPlugins(Plugin{Name: PluginProgress}).
		WithOptimization(Optimization{
			Minimizer: []Minimizer{libraryMinimizer(in.Minify, bundleType == types.BundleTypeESM)},
		}).
		WithExternals(ExternalsFor(in.ProjectType, libraryType))

	if in.ProjectType == types.ProjectTypeVue {
		b = b.WithRules(vueRule()).WithPlugins(Plugin{Name: PluginVueLoader})
	}
	return b.Build()
}

// SynthesizeAll builds one library config per bundle type, in the fixed
// cjs, esm, umd order whatever the order of bundleTypes.
func SynthesizeAll(in Input, bundleTypes []types.BundleType) []Config {
	ordered := types.SortBundleTypes(bundleTypes)
	if len(ordered) == 0 {
		ordered = []types.BundleType{types.BundleTypeCJS}
	}

	configs := make([]Config, 0, len(ordered))
	for _, bt := range ordered {
		configs = append(configs, Synthesize(in, bt))
	}
	return configs
}

// UMDName derives the global variable name of a UMD bundle from a package
// name: the scope is dropped and the rest is PascalCased
// ("@acme/ui-kit" becomes "UiKit").
func UMDName(packageName string) string {
	name := packageName
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}

	words := strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	caser := cases.Title(language.Und, cases.NoLower)
	var sb strings.Builder
	for _, w := range words {
		sb.WriteString(caser.String(w))
	}

	out := sb.String()
	if out == "" {
		return DefaultUMDName
	}
	if unicode.IsDigit([]rune(out)[0]) {
		out = "_" + out
	}
	return out
}
