package engine

import (
	"encoding/json"
	"path/filepath"
	"sort"
	"strings"
)

// Metafile is the subset of the esbuild metafile the engine reads.
type Metafile struct {
	Inputs  map[string]MetafileInput  `json:"inputs"`
	Outputs map[string]MetafileOutput `json:"outputs"`
}

// MetafileInput is an input file of a build.
type MetafileInput struct {
	Bytes int `json:"bytes"`
}

// MetafileOutput is a file written by a build.
type MetafileOutput struct {
	Bytes      int    `json:"bytes"`
	EntryPoint string `json:"entryPoint,omitempty"`
	CSSBundle  string `json:"cssBundle,omitempty"`
}

// ParseMetafile decodes the metafile JSON of a build result.
func ParseMetafile(data string) (*Metafile, error) {
	var meta Metafile
	if err := json.Unmarshal([]byte(data), &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// EntryAssets lists the public URLs of the scripts and stylesheets emitted
// for entry points, sorted. Metafile paths are relative to workDir; URLs
// are relative to outDir and prefixed with publicPath.
func (m *Metafile) EntryAssets(workDir, outDir, publicPath string) (scripts, styles []string) {
	keys := make([]string, 0, len(m.Outputs))
	for k := range m.Outputs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	seen := make(map[string]bool)
	for _, k := range keys {
		out := m.Outputs[k]
		if out.EntryPoint == "" {
			continue
		}
		switch {
		case strings.HasSuffix(k, ".js"), strings.HasSuffix(k, ".mjs"):
			scripts = append(scripts, assetURL(k, workDir, outDir, publicPath))
		case strings.HasSuffix(k, ".css"):
			styles = append(styles, assetURL(k, workDir, outDir, publicPath))
		}
		if out.CSSBundle != "" && !seen[out.CSSBundle] {
			seen[out.CSSBundle] = true
			styles = append(styles, assetURL(out.CSSBundle, workDir, outDir, publicPath))
		}
	}
	sort.Strings(styles)
	return scripts, styles
}

func assetURL(file, workDir, outDir, publicPath string) string {
	abs := file
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(workDir, file)
	}
	rel, err := filepath.Rel(outDir, abs)
	if err != nil {
		rel = filepath.Base(abs)
	}
	rel = filepath.ToSlash(rel)

	if publicPath == "" {
		return rel
	}
	return strings.TrimSuffix(publicPath, "/") + "/" + rel
}
