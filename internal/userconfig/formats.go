package userconfig

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// decodeFunc turns raw file content into a document.
type decodeFunc func(data []byte) (Document, error)

// fileProvider reads a data file on every Provide call.
type fileProvider struct {
	path   string
	decode decodeFunc
}

func (p *fileProvider) Provide(ctx context.Context) (Document, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, err
	}
	return p.decode(data)
}

func decodeJSON(data []byte) (Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Document{}, nil
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func decodeYAML(data []byte) (Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		doc = Document{}
	}
	return doc, nil
}

func decodeTOML(data []byte) (Document, error) {
	var doc Document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		doc = Document{}
	}
	return doc, nil
}

// cueProvider evaluates a CUE file. The result must be concrete.
type cueProvider struct {
	path string
}

func (p *cueProvider) Provide(ctx context.Context) (Document, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, err
	}

	value := cuecontext.New().CompileBytes(data, cue.Filename(filepath.Base(p.path)))
	if value.Err() != nil {
		return nil, value.Err()
	}
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, err
	}

	var doc Document
	if err := value.Decode(&doc); err != nil {
		return nil, err
	}
	if doc == nil {
		doc = Document{}
	}
	return doc, nil
}

// scriptProvider runs a shell script in the project root with an embedded
// POSIX shell interpreter. The script prints the override as JSON on stdout.
type scriptProvider struct {
	path string
	dir  string
}

func (p *scriptProvider) Provide(ctx context.Context) (Document, error) {
	script, err := os.ReadFile(p.path)
	if err != nil {
		return nil, err
	}

	prog, err := syntax.NewParser().Parse(bytes.NewReader(script), filepath.Base(p.path))
	if err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}

	var stdout, stderr bytes.Buffer
	runner, err := interp.New(
		interp.Dir(p.dir),
		interp.Env(expand.ListEnviron(os.Environ()...)),
		interp.StdIO(nil, &stdout, &stderr),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create interpreter: %w", err)
	}

	if err := runner.Run(ctx, prog); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}

	return decodeJSON(stdout.Bytes())
}
