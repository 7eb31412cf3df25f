package bundle

import (
	"bytes"
	"encoding/json"
	"maps"
	"slices"
)

// Optimization holds chunk splitting and minification settings.
type Optimization struct {
	// Minimize forces minification on or off. When nil the bundler
	// minimizes production builds only.
	Minimize    *bool        `json:"minimize,omitempty"`
	Minimizer   []Minimizer  `json:"minimizer,omitempty"`
	SplitChunks *SplitChunks `json:"splitChunks"`
}

// optimizationJSON mirrors Optimization with splitChunks left raw, so that a
// disabled policy can be written as false.
type optimizationJSON struct {
	Minimize    *bool           `json:"minimize,omitempty"`
	Minimizer   []Minimizer     `json:"minimizer,omitempty"`
	SplitChunks json.RawMessage `json:"splitChunks"`
}

var jsonFalse = []byte("false")

// MarshalJSON writes a nil SplitChunks as false.
func (o Optimization) MarshalJSON() ([]byte, error) {
	raw := jsonFalse
	if o.SplitChunks != nil {
		var err error
		if raw, err = json.Marshal(o.SplitChunks); err != nil {
			return nil, err
		}
	}
	return json.Marshal(optimizationJSON{
		Minimize:    o.Minimize,
		Minimizer:   o.Minimizer,
		SplitChunks: raw,
	})
}

// UnmarshalJSON accepts splitChunks as false, null or an object.
func (o *Optimization) UnmarshalJSON(data []byte) error {
	var raw optimizationJSON
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	*o = Optimization{Minimize: raw.Minimize, Minimizer: raw.Minimizer}

	trimmed := bytes.TrimSpace(raw.SplitChunks)
	if len(trimmed) == 0 || bytes.Equal(trimmed, jsonFalse) || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	var sc SplitChunks
	dec = json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&sc); err != nil {
		return err
	}
	o.SplitChunks = &sc
	return nil
}

func (o Optimization) clone() Optimization {
	out := o
	if o.Minimize != nil {
		m := *o.Minimize
		out.Minimize = &m
	}
	if o.Minimizer != nil {
		out.Minimizer = make([]Minimizer, len(o.Minimizer))
		for i, m := range o.Minimizer {
			out.Minimizer[i] = m.clone()
		}
	}
	if o.SplitChunks != nil {
		sc := *o.SplitChunks
		sc.CacheGroups = maps.Clone(o.SplitChunks.CacheGroups)
		out.SplitChunks = &sc
	}
	return out
}

// SplitChunks configures how shared code is divided into chunks. Sizes are
// in bytes.
type SplitChunks struct {
	Chunks             string                `json:"chunks"`
	MinSize            int64                 `json:"minSize"`
	MaxSize            int64                 `json:"maxSize"`
	MinChunks          int                   `json:"minChunks"`
	MaxAsyncRequests   int                   `json:"maxAsyncRequests"`
	MaxInitialRequests int                   `json:"maxInitialRequests"`
	CacheGroups        map[string]CacheGroup `json:"cacheGroups,omitempty"`
}

// CacheGroup is one chunk grouping rule. Higher priority groups claim
// modules first.
type CacheGroup struct {
	Test               string `json:"test,omitempty"`
	Name               string `json:"name,omitempty"`
	Chunks             string `json:"chunks,omitempty"`
	Priority           int    `json:"priority"`
	MinChunks          int    `json:"minChunks,omitempty"`
	MinSize            int64  `json:"minSize,omitempty"`
	MaxSize            int64  `json:"maxSize,omitempty"`
	ReuseExistingChunk bool   `json:"reuseExistingChunk,omitempty"`
	Enforce            bool   `json:"enforce,omitempty"`
}

// Minimizer configures the code minifier.
type Minimizer struct {
	Name     string   `json:"name"`
	Include  string   `json:"include,omitempty"`
	Compress Compress `json:"compress"`
	Mangle   *Mangle  `json:"mangle,omitempty"`
	Comments bool     `json:"comments"`
	Module   bool     `json:"module,omitempty"`
}

// Compress configures dead-code elimination.
type Compress struct {
	DropConsole  bool     `json:"drop_console"`
	DropDebugger bool     `json:"drop_debugger"`
	PureFuncs    []string `json:"pure_funcs,omitempty"`
	Passes       int      `json:"passes,omitempty"`
}

// Mangle configures identifier mangling.
type Mangle struct {
	TopLevel bool `json:"toplevel"`
}

func (m Minimizer) clone() Minimizer {
	out := m
	out.Compress.PureFuncs = slices.Clone(m.Compress.PureFuncs)
	if m.Mangle != nil {
		mg := *m.Mangle
		out.Mangle = &mg
	}
	return out
}

// MinifyPolicy decides whether console calls survive minification.
type MinifyPolicy struct {
	// DropConsole removes console calls from minified output.
	DropConsole bool
}

// DefaultApplicationMinify strips console calls from application bundles.
var DefaultApplicationMinify = MinifyPolicy{DropConsole: true}

// DefaultLibraryMinify keeps console calls in library bundles; consumers
// decide what to strip when they build.
var DefaultLibraryMinify = MinifyPolicy{DropConsole: false}

// Chunk size bounds, in bytes.
const (
	chunkMinSize       = 20000
	chunkMaxSize       = 200000
	vendorMinSize      = 20000
	vendorMaxSize      = 150000
	commonMinSize      = 10000
	commonMaxSize      = 100000
	vendorLargeMinSize = 100000
	vendorLargeMaxSize = 300000
	maxParallelLoads   = 20
)

// applicationSplitChunks groups vendor, shared and large vendor code.
// Priorities rank vendorLarge over vendor over common.
func applicationSplitChunks() *SplitChunks {
	return &SplitChunks{
		Chunks:             "all",
		MinSize:            chunkMinSize,
		MaxSize:            chunkMaxSize,
		MinChunks:          1,
		MaxAsyncRequests:   maxParallelLoads,
		MaxInitialRequests: maxParallelLoads,
		CacheGroups: map[string]CacheGroup{
			"vendor": {
				Test:               `[\\/]node_modules[\\/]`,
				Name:               "vendors.[package]",
				Priority:           10,
				ReuseExistingChunk: true,
				MinSize:            vendorMinSize,
				MaxSize:            vendorMaxSize,
				Enforce:            true,
			},
			"common": {
				Name:               "common",
				MinChunks:          2,
				Priority:           5,
				ReuseExistingChunk: true,
				MinSize:            commonMinSize,
				MaxSize:            commonMaxSize,
				Enforce:            true,
			},
			"vendorLarge": {
				Test:     `[\\/]node_modules[\\/]`,
				Name:     "vendors.large.[package]",
				Chunks:   "all",
				Priority: 20,
				MinSize:  vendorLargeMinSize,
				MaxSize:  vendorLargeMaxSize,
			},
		},
	}
}

func applicationMinimizer(policy MinifyPolicy) Minimizer {
	return Minimizer{
		Name:    "swc",
		Include: `\.m?js$`,
		Compress: Compress{
			DropConsole:  policy.DropConsole,
			DropDebugger: true,
		},
		Mangle: &Mangle{TopLevel: true},
	}
}

func libraryMinimizer(policy MinifyPolicy, module bool) Minimizer {
	m := Minimizer{
		Name: "swc",
		Compress: Compress{
			DropConsole:  policy.DropConsole,
			DropDebugger: true,
			Passes:       2,
		},
		Module: module,
	}
	if policy.DropConsole {
		m.Compress.PureFuncs = []string{"console.log", "console.info", "console.warn"}
	}
	return m
}
