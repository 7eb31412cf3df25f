package userconfig

import (
	"context"
	"os"
	"path/filepath"

	"github.com/conneroisu/zgl/internal/errors"
)

// BaseName is the override file name without extension.
const BaseName = "zgl.config"

// Extensions lists the recognized override extensions in probe order.
// Computed forms come before data forms.
var Extensions = []string{".sh", ".cue", ".yaml", ".yml", ".toml", ".json"}

// Find returns the path of the first override file present in root, or ""
// when there is none.
func Find(root string) string {
	for _, ext := range Extensions {
		path := filepath.Join(root, BaseName+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// ProviderFor returns the provider for an override file. Scripts run with
// root as their working directory.
func ProviderFor(path, root string) Provider {
	switch filepath.Ext(path) {
	case ".sh":
		return &scriptProvider{path: path, dir: root}
	case ".cue":
		return &cueProvider{path: path}
	case ".yaml", ".yml":
		return &fileProvider{path: path, decode: decodeYAML}
	case ".toml":
		return &fileProvider{path: path, decode: decodeTOML}
	default:
		return &fileProvider{path: path, decode: decodeJSON}
	}
}

// Load finds and materializes the override of the project at root. It
// returns the document together with the path it came from. An absent
// override yields an empty document and an empty path. Any failure while
// reading, evaluating or decoding an override that does exist is a
// configuration error.
func Load(ctx context.Context, root string) (Document, string, error) {
	path := Find(root)
	if path == "" {
		return Document{}, "", nil
	}

	doc, err := ProviderFor(path, root).Provide(ctx)
	if err != nil {
		return nil, path, errors.WrapConfig(err, errors.ErrCodeOverrideLoad,
			"failed to load override file", path)
	}
	return doc, path, nil
}
