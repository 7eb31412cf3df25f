package bundle

import (
	"bytes"
	"encoding/json"
	"path/filepath"

	"github.com/conneroisu/zgl/internal/errors"
)

// CLIOptions are the configuration fields settable from the command line.
// A nil field was not supplied and leaves the default alone.
type CLIOptions struct {
	Mode *string
	Port *int
	Open *bool
	Host *string
}

// deepMergeKeys are the top-level fields whose nested values are merged key
// by key instead of being replaced wholesale.
var deepMergeKeys = map[string]bool{
	"devServer": true,
	"externals": true,
}

// Merge folds CLI options and an override document into defaults.
// Precedence is override, then CLI, then defaults. Top-level fields are
// replaced wholesale except devServer and externals, which merge per key.
// defaults is never modified. An override naming an unknown field or
// carrying an ill-typed value yields a configuration error.
func Merge(defaults Config, override map[string]interface{}, cli CLIOptions) (Config, error) {
	doc, err := ToMap(defaults)
	if err != nil {
		return Config{}, errors.NewInternalError(errors.ErrCodeInternalError, "failed to encode configuration", err)
	}

	applyCLI(doc, cli)

	if len(override) > 0 {
		normalized, err := normalize(override)
		if err != nil {
			return Config{}, errors.NewConfigError(errors.ErrCodeOverrideInvalid, "override is not a valid document", err)
		}
		for key, value := range normalized {
			if deepMergeKeys[key] {
				doc[key] = deepMerge(doc[key], value)
				continue
			}
			doc[key] = value
		}
	}

	merged, err := decode(doc)
	if err != nil {
		return Config{}, errors.NewConfigError(errors.ErrCodeOverrideInvalid, "override does not match the configuration shape", err)
	}
	merged.Output.Path = anchor(merged.Context, merged.Output.Path)
	return merged, nil
}

// anchor resolves a relative output path against the project root, so the
// engine never interprets it against the working directory.
func anchor(root, path string) string {
	if path == "" || root == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

// MergeAll merges the same override and CLI options into each config,
// preserving order.
func MergeAll(configs []Config, override map[string]interface{}, cli CLIOptions) ([]Config, error) {
	out := make([]Config, 0, len(configs))
	for _, cfg := range configs {
		merged, err := Merge(cfg, override, cli)
		if err != nil {
			if ze, ok := err.(*errors.ZglError); ok {
				return nil, ze.WithContext("config", cfg.Name)
			}
			return nil, err
		}
		out = append(out, merged)
	}
	return out, nil
}

func applyCLI(doc map[string]interface{}, cli CLIOptions) {
	if cli.Mode != nil {
		doc["mode"] = *cli.Mode
	}
	if cli.Port == nil && cli.Open == nil && cli.Host == nil {
		return
	}

	server, _ := doc["devServer"].(map[string]interface{})
	if server == nil {
		server = map[string]interface{}{"port": DefaultPort, "open": false}
	}
	if cli.Port != nil {
		server["port"] = *cli.Port
	}
	if cli.Open != nil {
		server["open"] = *cli.Open
	}
	if cli.Host != nil {
		server["host"] = *cli.Host
	}
	doc["devServer"] = server
}

// deepMerge merges src into dst. Maps merge recursively; a null value in a
// src map deletes the key; any other value in src replaces dst.
func deepMerge(dst, src interface{}) interface{} {
	srcMap, ok := src.(map[string]interface{})
	if !ok {
		return src
	}
	dstMap, ok := dst.(map[string]interface{})
	if !ok {
		return srcMap
	}

	out := make(map[string]interface{}, len(dstMap)+len(srcMap))
	for k, v := range dstMap {
		out[k] = v
	}
	for k, v := range srcMap {
		if v == nil {
			delete(out, k)
			continue
		}
		out[k] = deepMerge(out[k], v)
	}
	return out
}

// normalize converts a document from any decoder into plain JSON values.
func normalize(doc map[string]interface{}) (map[string]interface{}, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func decode(doc map[string]interface{}) (Config, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return Config{}, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
