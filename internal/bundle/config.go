// Package bundle synthesizes and merges bundler configurations.
//
// A Config is a declarative, rspack-shaped description of one build: entries,
// output descriptor, module rules, plugins, optimization and externals. The
// synthesizer produces one Config per requested bundle format (or a single
// application Config); the merger folds CLI options and the user override
// into each of them. Configs are plain values: every transformation returns
// a new Config and leaves its input untouched.
package bundle

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/conneroisu/zgl/internal/types"
)

// Config is a complete build configuration.
type Config struct {
	Name         string            `json:"name,omitempty"`
	Mode         string            `json:"mode"`
	Target       string            `json:"target,omitempty"`
	Context      string            `json:"context,omitempty"`
	Entry        types.EntryMap    `json:"entry"`
	Output       Output            `json:"output"`
	Resolve      Resolve           `json:"resolve"`
	Experiments  Experiments       `json:"experiments"`
	Module       Module            `json:"module"`
	Plugins      []Plugin          `json:"plugins,omitempty"`
	Performance  *Performance      `json:"performance,omitempty"`
	Optimization Optimization      `json:"optimization"`
	Externals    Externals         `json:"externals,omitempty"`
	Define       map[string]string `json:"define,omitempty"`
	Devtool      Devtool           `json:"devtool"`
	DevServer    *DevServer        `json:"devServer,omitempty"`
}

// Devtool is the source map style. No source maps is "" here and false in
// the document, as rspack spells it.
type Devtool string

func (d Devtool) MarshalJSON() ([]byte, error) {
	if d == "" {
		return []byte("false"), nil
	}
	return json.Marshal(string(d))
}

func (d *Devtool) UnmarshalJSON(data []byte) error {
	var enabled bool
	if err := json.Unmarshal(data, &enabled); err == nil {
		if enabled {
			return fmt.Errorf("devtool must be false or a source map style, got true")
		}
		*d = ""
		return nil
	}

	var style string
	if err := json.Unmarshal(data, &style); err != nil {
		return fmt.Errorf("devtool must be false or a source map style: %w", err)
	}
	if style == "false" {
		style = ""
	}
	*d = Devtool(style)
	return nil
}

// IsLibrary reports whether the config builds a library bundle.
func (c Config) IsLibrary() bool {
	return c.Output.Library != nil
}

// Output describes where and how bundles are written.
type Output struct {
	Path                string       `json:"path"`
	Filename            string       `json:"filename"`
	ChunkFilename       string       `json:"chunkFilename,omitempty"`
	AssetModuleFilename string       `json:"assetModuleFilename,omitempty"`
	PublicPath          string       `json:"publicPath,omitempty"`
	Clean               bool         `json:"clean,omitempty"`
	Library             *Library     `json:"library,omitempty"`
	Environment         *Environment `json:"environment,omitempty"`
}

// Library wrapper types.
const (
	LibraryCommonJS  = "commonjs"
	LibraryCommonJS2 = "commonjs2"
	LibraryModule    = "module"
	LibraryUMD       = "umd"
)

// Library is the output calling convention of a library bundle.
type Library struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
}

// Environment declares what the emitted runtime code may rely on.
type Environment struct {
	Module        bool `json:"module"`
	DynamicImport bool `json:"dynamicImport"`
}

// Resolve controls module resolution.
type Resolve struct {
	Extensions []string          `json:"extensions,omitempty"`
	Alias      map[string]string `json:"alias,omitempty"`
}

// Experiments toggles opt-in bundler features.
type Experiments struct {
	CSS          bool `json:"css"`
	OutputModule bool `json:"outputModule,omitempty"`
}

// Module holds the module rule list.
type Module struct {
	Rules []Rule `json:"rules"`
}

// Module types assigned by rules.
const (
	ModuleJavaScriptAuto = "javascript/auto"
	ModuleCSS            = "css"
	ModuleCSSAuto        = "css/auto"
	ModuleCSSModule      = "css/module"
	ModuleAssetResource  = "asset/resource"
	ModuleAssetInline    = "asset/inline"
)

// Rule matches modules by file name and assigns loaders or a module type.
// Test and Exclude are regular expressions.
type Rule struct {
	Test      string     `json:"test,omitempty"`
	Exclude   string     `json:"exclude,omitempty"`
	Type      string     `json:"type,omitempty"`
	Use       []Loader   `json:"use,omitempty"`
	OneOf     []Rule     `json:"oneOf,omitempty"`
	Generator *Generator `json:"generator,omitempty"`
}

// Generator controls emitted asset names.
type Generator struct {
	Filename string `json:"filename"`
}

// Loader is one step of a rule's loader chain.
type Loader struct {
	Loader  string            `json:"loader"`
	Options *TransformOptions `json:"options,omitempty"`
}

// TransformOptions configure the builtin source transform.
type TransformOptions struct {
	JSC JSC `json:"jsc"`
}

// JSC holds parser and transform settings.
type JSC struct {
	Parser    Parser     `json:"parser"`
	Transform *Transform `json:"transform,omitempty"`
}

// Parser selects the source syntax.
type Parser struct {
	Syntax string `json:"syntax"`
	JSX    bool   `json:"jsx,omitempty"`
	TSX    bool   `json:"tsx,omitempty"`
}

// Transform holds syntax transforms.
type Transform struct {
	React *ReactTransform `json:"react,omitempty"`
}

// ReactTransform selects the JSX runtime.
type ReactTransform struct {
	Runtime string `json:"runtime"`
}

// Plugin is a named bundler plugin with string options.
type Plugin struct {
	Name    string            `json:"name"`
	Options map[string]string `json:"options,omitempty"`
}

// Performance configures bundle size hints, in bytes.
type Performance struct {
	Hints             string `json:"hints"`
	MaxEntrypointSize int64  `json:"maxEntrypointSize"`
	MaxAssetSize      int64  `json:"maxAssetSize"`
}

// DevServer configures the development server.
type DevServer struct {
	Port int    `json:"port"`
	Open bool   `json:"open"`
	Host string `json:"host,omitempty"`
}

// Clone returns a deep copy of c.
func (c Config) Clone() Config {
	out := c
	out.Entry = c.Entry.Clone()
	out.Output = c.Output.clone()
	out.Resolve = Resolve{
		Extensions: slices.Clone(c.Resolve.Extensions),
		Alias:      maps.Clone(c.Resolve.Alias),
	}
	out.Module = Module{Rules: cloneRules(c.Module.Rules)}
	out.Plugins = clonePlugins(c.Plugins)
	if c.Performance != nil {
		p := *c.Performance
		out.Performance = &p
	}
	out.Optimization = c.Optimization.clone()
	out.Externals = c.Externals.Clone()
	out.Define = maps.Clone(c.Define)
	if c.DevServer != nil {
		d := *c.DevServer
		out.DevServer = &d
	}
	return out
}

func (o Output) clone() Output {
	out := o
	if o.Library != nil {
		l := *o.Library
		out.Library = &l
	}
	if o.Environment != nil {
		e := *o.Environment
		out.Environment = &e
	}
	return out
}

func cloneRules(rules []Rule) []Rule {
	if rules == nil {
		return nil
	}
	out := make([]Rule, len(rules))
	for i, r := range rules {
		out[i] = r
		out[i].OneOf = cloneRules(r.OneOf)
		if r.Generator != nil {
			g := *r.Generator
			out[i].Generator = &g
		}
		if r.Use != nil {
			out[i].Use = make([]Loader, len(r.Use))
			for j, l := range r.Use {
				out[i].Use[j] = Loader{Loader: l.Loader, Options: l.Options.clone()}
			}
		}
	}
	return out
}

func (o *TransformOptions) clone() *TransformOptions {
	if o == nil {
		return nil
	}
	out := *o
	if o.JSC.Transform != nil {
		t := *o.JSC.Transform
		if t.React != nil {
			r := *t.React
			t.React = &r
		}
		out.JSC.Transform = &t
	}
	return &out
}

func clonePlugins(plugins []Plugin) []Plugin {
	if plugins == nil {
		return nil
	}
	out := make([]Plugin, len(plugins))
	for i, p := range plugins {
		out[i] = Plugin{Name: p.Name, Options: maps.Clone(p.Options)}
	}
	return out
}

// MarshalIndent renders configs as indented JSON.
func MarshalIndent(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ToMap converts a config into its generic document form.
func ToMap(c Config) (map[string]interface{}, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
