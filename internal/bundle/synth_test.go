package bundle

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/zgl/internal/types"
)

func testInput(pt types.ProjectType) Input {
	root := filepath.Join(string(filepath.Separator), "work", "app")
	src := filepath.Join(root, "src")
	return Input{
		ProjectType: pt,
		PackageName: "@acme/ui-kit",
		Entries: Entries{
			Single: types.EntryMap{"index": filepath.Join(src, "index.tsx")},
			OnDemand: types.EntryMap{
				"index":             filepath.Join(src, "index.tsx"),
				"components/Button": filepath.Join(src, "components", "Button.tsx"),
			},
		},
		Root:   root,
		Minify: DefaultLibraryMinify,
	}
}

func TestSynthesizeIdempotent(t *testing.T) {
	for _, pt := range []types.ProjectType{types.ProjectTypeReact, types.ProjectTypeVue, types.ProjectTypeUnknown} {
		for _, bt := range types.BundleTypeOrder {
			t.Run(string(pt)+"/"+string(bt), func(t *testing.T) {
				in := testInput(pt)
				assert.Equal(t, Synthesize(in, bt), Synthesize(in, bt))
			})
		}
		t.Run(string(pt)+"/app", func(t *testing.T) {
			in := testInput(pt)
			assert.Equal(t, Application(in), Application(in))
		})
	}
}

func TestSynthesizeOutputByBundleType(t *testing.T) {
	in := testInput(types.ProjectTypeUnknown)
	dist := filepath.Join(in.Root, "dist")

	cjs := Synthesize(in, types.BundleTypeCJS)
	require.NotNil(t, cjs.Output.Library)
	assert.Equal(t, LibraryCommonJS, cjs.Output.Library.Type)
	assert.Equal(t, filepath.Join(dist, "cjs"), cjs.Output.Path)
	assert.Equal(t, in.Entries.OnDemand, cjs.Entry)
	assert.False(t, cjs.Experiments.OutputModule)
	assert.Nil(t, cjs.Output.Environment)

	esm := Synthesize(in, types.BundleTypeESM)
	require.NotNil(t, esm.Output.Library)
	assert.Equal(t, LibraryModule, esm.Output.Library.Type)
	assert.Equal(t, "esm", filepath.Base(esm.Output.Path))
	assert.True(t, esm.Experiments.OutputModule)
	assert.Equal(t, &Environment{Module: true, DynamicImport: true}, esm.Output.Environment)
	assert.Equal(t, in.Entries.OnDemand, esm.Entry)
	assert.True(t, esm.Optimization.Minimizer[0].Module)

	umd := Synthesize(in, types.BundleTypeUMD)
	require.NotNil(t, umd.Output.Library)
	assert.Equal(t, LibraryUMD, umd.Output.Library.Type)
	assert.Equal(t, "UiKit", umd.Output.Library.Name)
	assert.Equal(t, filepath.Join(dist, "umd"), umd.Output.Path)
	assert.Equal(t, in.Entries.Single, umd.Entry)

	for _, cfg := range []Config{cjs, esm, umd} {
		assert.Nil(t, cfg.Optimization.SplitChunks, cfg.Name)
		assert.Nil(t, cfg.DevServer, cfg.Name)
		assert.Equal(t, "[name].js", cfg.Output.Filename, cfg.Name)
		assert.True(t, cfg.IsLibrary(), cfg.Name)
	}
}

func TestSynthesizeFallsBackToSingleEntry(t *testing.T) {
	in := testInput(types.ProjectTypeUnknown)
	in.Entries.OnDemand = nil

	cfg := Synthesize(in, types.BundleTypeESM)
	assert.Equal(t, in.Entries.Single, cfg.Entry)
}

func TestExternalsDependOnProjectTypeOnly(t *testing.T) {
	t.Run("react", func(t *testing.T) {
		in := testInput(types.ProjectTypeReact)
		expected := []string{"react", "react-dom", "react/jsx-dev-runtime", "react/jsx-runtime"}

		for _, bt := range types.BundleTypeOrder {
			cfg := Synthesize(in, bt)
			assert.Equal(t, expected, cfg.Externals.Requests(), bt)
		}

		cjs := Synthesize(in, types.BundleTypeCJS)
		assert.Equal(t, External{Alias: "react"}, cjs.Externals["react"])
		assert.Equal(t, External{Alias: "react-dom"}, cjs.Externals["react-dom"])

		umd := Synthesize(in, types.BundleTypeUMD)
		assert.Equal(t, External{
			CommonJS:  "react-dom",
			CommonJS2: "react-dom",
			AMD:       "react-dom",
			Root:      "ReactDOM",
		}, umd.Externals["react-dom"])
	})

	t.Run("vue", func(t *testing.T) {
		in := testInput(types.ProjectTypeVue)
		for _, bt := range types.BundleTypeOrder {
			cfg := Synthesize(in, bt)
			assert.Equal(t, []string{"vue"}, cfg.Externals.Requests(), bt)
		}
		assert.Equal(t, "Vue", Synthesize(in, types.BundleTypeUMD).Externals["vue"].Root)
	})

	t.Run("unknown", func(t *testing.T) {
		in := testInput(types.ProjectTypeUnknown)
		for _, bt := range types.BundleTypeOrder {
			assert.Empty(t, Synthesize(in, bt).Externals, bt)
		}
	})

	t.Run("application bundles dependencies", func(t *testing.T) {
		for _, pt := range []types.ProjectType{types.ProjectTypeReact, types.ProjectTypeVue, types.ProjectTypeUnknown} {
			assert.Empty(t, Application(testInput(pt)).Externals, pt)
		}

		// Externals on an application come only from the override.
		merged, err := Merge(Application(testInput(types.ProjectTypeReact)),
			map[string]interface{}{"externals": map[string]interface{}{"react": "React"}}, CLIOptions{})
		require.NoError(t, err)
		assert.Equal(t, []string{"react"}, merged.Externals.Requests())
	})
}

func TestApplication(t *testing.T) {
	in := testInput(types.ProjectTypeReact)
	in.Minify = DefaultApplicationMinify
	in.Define = map[string]string{"process.env.NODE_ENV": `"production"`}

	cfg := Application(in)

	assert.Equal(t, "production", cfg.Mode)
	assert.Equal(t, in.Entries.Single, cfg.Entry)
	assert.False(t, cfg.IsLibrary())
	assert.Equal(t, filepath.Join(in.Root, "dist"), cfg.Output.Path)
	assert.Equal(t, "js/[name].[contenthash].js", cfg.Output.Filename)
	assert.True(t, cfg.Output.Clean)
	assert.Equal(t, &DevServer{Port: 3000, Open: false}, cfg.DevServer)
	assert.Equal(t, in.Define, cfg.Define)
	assert.Equal(t, filepath.Join(in.Root, "src"), cfg.Resolve.Alias["@"])

	require.NotNil(t, cfg.Optimization.SplitChunks)
	groups := cfg.Optimization.SplitChunks.CacheGroups
	require.Len(t, groups, 3)
	assert.Greater(t, groups["vendorLarge"].Priority, groups["vendor"].Priority)
	assert.Greater(t, groups["vendor"].Priority, groups["common"].Priority)
	assert.Equal(t, 2, groups["common"].MinChunks)
	assert.EqualValues(t, 100000, groups["vendorLarge"].MinSize)
	assert.EqualValues(t, 300000, groups["vendorLarge"].MaxSize)

	require.Len(t, cfg.Optimization.Minimizer, 1)
	assert.True(t, cfg.Optimization.Minimizer[0].Compress.DropConsole)
	assert.True(t, cfg.Optimization.Minimizer[0].Compress.DropDebugger)

	var names []string
	for _, p := range cfg.Plugins {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{PluginProgress, PluginHTML, PluginCSSExtract}, names)
	assert.Equal(t, filepath.Join(in.Root, "public", "index.html"), cfg.Plugins[1].Options["template"])

	var resource int
	for _, r := range cfg.Module.Rules {
		if r.Type == ModuleAssetResource {
			resource++
			require.NotNil(t, r.Generator)
		}
	}
	assert.Equal(t, 3, resource)
}

func TestVueAdditions(t *testing.T) {
	for _, cfg := range []Config{
		Application(testInput(types.ProjectTypeVue)),
		Synthesize(testInput(types.ProjectTypeVue), types.BundleTypeESM),
	} {
		assert.Contains(t, cfg.Resolve.Extensions, ".vue", cfg.Name)
		last := cfg.Module.Rules[len(cfg.Module.Rules)-1]
		assert.Equal(t, testVue, last.Test, cfg.Name)
		assert.Equal(t, PluginVueLoader, cfg.Plugins[len(cfg.Plugins)-1].Name, cfg.Name)
	}

	react := Application(testInput(types.ProjectTypeReact))
	assert.NotContains(t, react.Resolve.Extensions, ".vue")
}

func TestLibraryMinifyPolicy(t *testing.T) {
	in := testInput(types.ProjectTypeUnknown)

	keep := Synthesize(in, types.BundleTypeCJS).Optimization.Minimizer[0]
	assert.False(t, keep.Compress.DropConsole)
	assert.Empty(t, keep.Compress.PureFuncs)
	assert.Equal(t, 2, keep.Compress.Passes)

	in.Minify = MinifyPolicy{DropConsole: true}
	drop := Synthesize(in, types.BundleTypeCJS).Optimization.Minimizer[0]
	assert.True(t, drop.Compress.DropConsole)
	assert.Equal(t, []string{"console.log", "console.info", "console.warn"}, drop.Compress.PureFuncs)
}

func TestSynthesizeAllOrder(t *testing.T) {
	in := testInput(types.ProjectTypeReact)

	configs := SynthesizeAll(in, []types.BundleType{types.BundleTypeUMD, types.BundleTypeCJS, types.BundleTypeESM, types.BundleTypeCJS})
	require.Len(t, configs, 3)
	assert.Equal(t, "cjs", configs[0].Name)
	assert.Equal(t, "esm", configs[1].Name)
	assert.Equal(t, "umd", configs[2].Name)

	configs = SynthesizeAll(in, nil)
	require.Len(t, configs, 1)
	assert.Equal(t, "cjs", configs[0].Name)
}

func TestUMDName(t *testing.T) {
	tests := map[string]string{
		"@acme/ui-kit": "UiKit",
		"react-widget": "ReactWidget",
		"lodash":       "Lodash",
		"my_lib.core":  "MyLibCore",
		"":             "Library",
		"@scope/":      "Library",
		"fooBar":       "FooBar",
	}
	for in, expected := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, expected, UMDName(in))
		})
	}
}

func TestConfigDocumentShape(t *testing.T) {
	in := testInput(types.ProjectTypeReact)

	data, err := json.Marshal(Synthesize(in, types.BundleTypeUMD))
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, false, doc["optimization"].(map[string]interface{})["splitChunks"])
	externals := doc["externals"].(map[string]interface{})
	assert.Equal(t, map[string]interface{}{
		"commonjs":  "react",
		"commonjs2": "react",
		"amd":       "react",
		"root":      "React",
	}, externals["react"])
	assert.NotContains(t, doc, "devServer")

	data, err = json.Marshal(Synthesize(in, types.BundleTypeCJS))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "react", doc["externals"].(map[string]interface{})["react"])
}

func TestBuilderIsImmutable(t *testing.T) {
	base := NewBuilder("app", "production").WithRules(Rule{Test: testCSS})

	a := base.WithRules(Rule{Test: testLess})
	b := base.WithRules(Rule{Test: testSass})

	assert.Len(t, base.Build().Module.Rules, 1)
	assert.Equal(t, testLess, a.Build().Module.Rules[1].Test)
	assert.Equal(t, testSass, b.Build().Module.Rules[1].Test)

	built := a.Build()
	built.Module.Rules[0].Test = "mutated"
	assert.Equal(t, testCSS, a.Build().Module.Rules[0].Test)
}

func TestCloneIsDeep(t *testing.T) {
	original := Application(testInput(types.ProjectTypeVue))
	clone := original.Clone()
	require.Equal(t, original, clone)

	clone.Entry["other"] = "x"
	clone.Resolve.Alias["@"] = "elsewhere"
	clone.Module.Rules[0].Use[0].Options.JSC.Parser.Syntax = "typescript"
	clone.Plugins[1].Options["filename"] = "other.html"
	clone.Optimization.SplitChunks.CacheGroups["vendor"] = CacheGroup{}
	clone.Optimization.Minimizer[0].Mangle.TopLevel = false
	clone.DevServer.Port = 1

	assert.NotContains(t, original.Entry, "other")
	assert.Equal(t, filepath.Join(testInput(types.ProjectTypeVue).Root, "src"), original.Resolve.Alias["@"])
	assert.Equal(t, "ecmascript", original.Module.Rules[0].Use[0].Options.JSC.Parser.Syntax)
	assert.Equal(t, "index.html", original.Plugins[1].Options["filename"])
	assert.Equal(t, 10, original.Optimization.SplitChunks.CacheGroups["vendor"].Priority)
	assert.True(t, original.Optimization.Minimizer[0].Mangle.TopLevel)
	assert.Equal(t, 3000, original.DevServer.Port)
}
