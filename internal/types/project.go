// Package types provides the shared vocabulary of the zgl CLI: project
// classification, bundle formats and entry maps. It has no dependencies on
// other internal packages so that every layer can import it.
package types

import (
	"fmt"
	"sort"
	"strings"
)

// ProjectType classifies the front-end framework a project is built with.
type ProjectType string

const (
	ProjectTypeReact   ProjectType = "react"
	ProjectTypeVue     ProjectType = "vue"
	ProjectTypeUnknown ProjectType = "unknown"
)

// String returns the string representation of the ProjectType
func (p ProjectType) String() string {
	if p == "" {
		return string(ProjectTypeUnknown)
	}
	return string(p)
}

// BundleType is a distribution format a library build must produce.
type BundleType string

const (
	BundleTypeCJS BundleType = "cjs"
	BundleTypeESM BundleType = "esm"
	BundleTypeUMD BundleType = "umd"
)

// BundleTypeOrder is the fixed detection order. Every multi-target
// configuration sequence follows it.
var BundleTypeOrder = []BundleType{BundleTypeCJS, BundleTypeESM, BundleTypeUMD}

// String returns the string representation of the BundleType
func (b BundleType) String() string {
	return string(b)
}

// ParseBundleType parses a bundle type name such as "esm" or "commonjs".
func ParseBundleType(s string) (BundleType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cjs", "commonjs", "commonjs2":
		return BundleTypeCJS, nil
	case "esm", "module", "es":
		return BundleTypeESM, nil
	case "umd":
		return BundleTypeUMD, nil
	default:
		return "", fmt.Errorf("unknown bundle type: %q (valid: cjs, esm, umd)", s)
	}
}

// SortBundleTypes returns the distinct bundle types of in, ordered by
// BundleTypeOrder.
func SortBundleTypes(in []BundleType) []BundleType {
	seen := make(map[BundleType]bool, len(in))
	for _, b := range in {
		seen[b] = true
	}
	out := make([]BundleType, 0, len(seen))
	for _, b := range BundleTypeOrder {
		if seen[b] {
			out = append(out, b)
		}
	}
	return out
}

// EntryMap maps a logical entry name to the absolute path of its source file.
type EntryMap map[string]string

// Names returns the entry names in lexicographic order.
func (e EntryMap) Names() []string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns an independent copy of the map.
func (e EntryMap) Clone() EntryMap {
	if e == nil {
		return nil
	}
	out := make(EntryMap, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}
