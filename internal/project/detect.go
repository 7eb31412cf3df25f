package project

import (
	"os"
	"path/filepath"

	"github.com/conneroisu/zgl/internal/types"
)

var (
	vueDependencies   = []string{"vue", "@vue/runtime-dom"}
	reactDependencies = []string{"react", "react-dom"}
)

// DetectProjectType classifies the project. Declared dependencies win over
// source files, Vue wins over React at each stage. manifest may be nil.
func DetectProjectType(manifest *Manifest, srcDir string) types.ProjectType {
	if manifest != nil {
		for _, dep := range vueDependencies {
			if manifest.HasDependency(dep) {
				return types.ProjectTypeVue
			}
		}
		for _, dep := range reactDependencies {
			if manifest.HasDependency(dep) {
				return types.ProjectTypeReact
			}
		}
	}

	return detectFromSources(srcDir)
}

// detectFromSources looks only at the immediate children of srcDir.
func detectFromSources(srcDir string) types.ProjectType {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return types.ProjectTypeUnknown
	}

	hasExt := func(exts ...string) bool {
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			ext := filepath.Ext(entry.Name())
			for _, want := range exts {
				if ext == want {
					return true
				}
			}
		}
		return false
	}

	if hasExt(".vue") {
		return types.ProjectTypeVue
	}
	if hasExt(".jsx", ".tsx") {
		return types.ProjectTypeReact
	}
	return types.ProjectTypeUnknown
}

// exportKeys maps the recognized export condition keys to bundle formats.
var exportKeys = map[string]types.BundleType{
	"require":  types.BundleTypeCJS,
	".require": types.BundleTypeCJS,
	"import":   types.BundleTypeESM,
	"module":   types.BundleTypeESM,
	".module":  types.BundleTypeESM,
	"browser":  types.BundleTypeUMD,
	".browser": types.BundleTypeUMD,
	"umd":      types.BundleTypeUMD,
}

// DetectBundleTypes decides which library formats to produce.
//
// An exports object with format condition keys yields exactly those formats;
// the "." sub-path entry is inspected as well. Without usable exports,
// "type": "module" yields ESM and anything else CommonJS. The result is
// ordered by types.BundleTypeOrder and never empty.
func DetectBundleTypes(manifest *Manifest) []types.BundleType {
	if manifest == nil {
		return []types.BundleType{types.BundleTypeCJS}
	}

	if found := bundleTypesFromExports(manifest.Exports); len(found) > 0 {
		return types.SortBundleTypes(found)
	}

	if manifest.Type == "module" {
		return []types.BundleType{types.BundleTypeESM}
	}
	return []types.BundleType{types.BundleTypeCJS}
}

func bundleTypesFromExports(exports interface{}) []types.BundleType {
	obj, ok := exports.(map[string]interface{})
	if !ok {
		return nil
	}

	var found []types.BundleType
	collect := func(m map[string]interface{}) {
		for key := range m {
			if bt, ok := exportKeys[key]; ok {
				found = append(found, bt)
			}
		}
	}

	collect(obj)
	if root, ok := obj["."].(map[string]interface{}); ok {
		collect(root)
	}
	return found
}
