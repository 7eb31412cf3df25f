// Package scanner discovers bundle entry points in a project's source tree.
//
// Two modes are supported. EntryPoints picks a single conventional entry
// file (index.* before main.*). GenerateEntriesFromSourceFiles maps every
// qualifying source file to its own entry so each module of a library can be
// imported on its own. Traversal is lexicographic per directory, so the
// result is reproducible across runs.
package scanner

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/conneroisu/zgl/internal/types"
)

// DefaultEntryName is used for the fallback entry.
const DefaultEntryName = "index"

// conventionalEntries is the single-entry priority list.
var conventionalEntries = []string{
	"index.js",
	"index.jsx",
	"index.ts",
	"index.tsx",
	"main.js",
	"main.jsx",
	"main.ts",
	"main.tsx",
}

// sourceExtensions qualify a file for on-demand entries.
var sourceExtensions = map[string]bool{
	".ts":  true,
	".tsx": true,
	".js":  true,
	".jsx": true,
}

// EntryPoints returns the first conventional entry that exists in srcDir,
// named by its base name without extension. When none exists the map holds
// a single "index" entry pointing at srcDir/index.js; whether that file
// exists is left to the bundling engine.
func EntryPoints(srcDir string) types.EntryMap {
	for _, name := range conventionalEntries {
		path := filepath.Join(srcDir, name)
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		return types.EntryMap{strings.TrimSuffix(name, filepath.Ext(name)): path}
	}

	return types.EntryMap{DefaultEntryName: filepath.Join(srcDir, "index.js")}
}

// IsSourceFile reports whether a file qualifies as an on-demand entry:
// a .ts/.tsx/.js/.jsx file that is neither a declaration file nor private
// (base name starting with an underscore).
func IsSourceFile(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, "_") {
		return false
	}
	if strings.HasSuffix(base, ".d.ts") {
		return false
	}
	return sourceExtensions[filepath.Ext(base)]
}

// SourceFiles lists every qualifying source file below srcDir. A missing
// srcDir yields an empty list.
func SourceFiles(srcDir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !IsSourceFile(path) {
			return nil
		}
		if isRegularFile(path, d) {
			files = append(files, path)
		}
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return files, nil
}

// isRegularFile reports whether d is a regular file, following a symlink to
// its target. Dangling links are skipped.
func isRegularFile(path string, d fs.DirEntry) bool {
	if d.Type()&fs.ModeSymlink == 0 {
		return d.Type().IsRegular()
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// GenerateEntriesFromSourceFiles maps each qualifying source file to an
// entry named by its slash-separated path relative to srcDir, without the
// extension ("components/Button" for components/Button.tsx).
func GenerateEntriesFromSourceFiles(srcDir string) (types.EntryMap, error) {
	files, err := SourceFiles(srcDir)
	if err != nil {
		return nil, err
	}

	entries := make(types.EntryMap, len(files))
	for _, file := range files {
		rel, err := filepath.Rel(srcDir, file)
		if err != nil {
			return nil, err
		}
		name := filepath.ToSlash(strings.TrimSuffix(rel, filepath.Ext(rel)))
		entries[name] = file
	}
	return entries, nil
}
