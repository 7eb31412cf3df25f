package bundle

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/conneroisu/zgl/internal/types"
)

// External describes how a consumer supplies a package that is left out of
// the bundle. For commonjs and module wrappers it is a bare alias; for umd
// it names the package for every consumer kind at once.
type External struct {
	Alias     string
	CommonJS  string
	CommonJS2 string
	AMD       string
	Root      string
}

// IsAlias reports whether the external is a bare package alias.
func (e External) IsAlias() bool {
	return e.CommonJS == "" && e.CommonJS2 == "" && e.AMD == "" && e.Root == ""
}

// Request returns the module request a bundle emits for the external.
func (e External) Request() string {
	switch {
	case e.Alias != "":
		return e.Alias
	case e.CommonJS != "":
		return e.CommonJS
	case e.CommonJS2 != "":
		return e.CommonJS2
	default:
		return e.AMD
	}
}

type externalObject struct {
	CommonJS  string `json:"commonjs,omitempty"`
	CommonJS2 string `json:"commonjs2,omitempty"`
	AMD       string `json:"amd,omitempty"`
	Root      string `json:"root,omitempty"`
}

// MarshalJSON encodes an alias as a string and anything else as an object.
func (e External) MarshalJSON() ([]byte, error) {
	if e.IsAlias() {
		return json.Marshal(e.Alias)
	}
	return json.Marshal(externalObject{
		CommonJS:  e.CommonJS,
		CommonJS2: e.CommonJS2,
		AMD:       e.AMD,
		Root:      e.Root,
	})
}

// UnmarshalJSON accepts either form produced by MarshalJSON.
func (e *External) UnmarshalJSON(data []byte) error {
	var alias string
	if err := json.Unmarshal(data, &alias); err == nil {
		*e = External{Alias: alias}
		return nil
	}

	var obj externalObject
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&obj); err != nil {
		return fmt.Errorf("external must be a string or {commonjs, commonjs2, amd, root}: %w", err)
	}
	*e = External{
		CommonJS:  obj.CommonJS,
		CommonJS2: obj.CommonJS2,
		AMD:       obj.AMD,
		Root:      obj.Root,
	}
	return nil
}

// Externals maps a package request to how consumers supply it.
type Externals map[string]External

// Clone returns an independent copy.
func (e Externals) Clone() Externals {
	return maps.Clone(e)
}

// Requests returns the externalized package requests in sorted order.
func (e Externals) Requests() []string {
	return slices.Sorted(maps.Keys(e))
}

// externalPackage is a runtime package left to the consumer, with the
// global it is exposed as in UMD builds.
type externalPackage struct {
	request string
	global  string
}

var (
	reactExternals = []externalPackage{
		{request: "react", global: "React"},
		{request: "react-dom", global: "ReactDOM"},
		{request: "react/jsx-runtime", global: "ReactJsxRuntime"},
		{request: "react/jsx-dev-runtime", global: "ReactJsxDevRuntime"},
	}
	vueExternals = []externalPackage{
		{request: "vue", global: "Vue"},
	}
)

// ExternalsFor returns the externals of a library built for projectType and
// wrapped as libraryType. The set of packages depends only on the project
// type; the library type only decides their shape.
func ExternalsFor(projectType types.ProjectType, libraryType string) Externals {
	var pkgs []externalPackage
	switch projectType {
	case types.ProjectTypeReact:
		pkgs = reactExternals
	case types.ProjectTypeVue:
		pkgs = vueExternals
	default:
		return nil
	}

	out := make(Externals, len(pkgs))
	for _, p := range pkgs {
		if libraryType == LibraryUMD {
			out[p.request] = External{
				CommonJS:  p.request,
				CommonJS2: p.request,
				AMD:       p.request,
				Root:      p.global,
			}
			continue
		}
		out[p.request] = External{Alias: p.request}
	}
	return out
}
