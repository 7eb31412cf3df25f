package userconfig

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/zgl/internal/errors"
)

func writeOverride(t *testing.T, root, name, content string) string {
	t.Helper()
	path := filepath.Join(root, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadAbsent(t *testing.T) {
	doc, path, err := Load(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.True(t, doc.Empty())
}

func TestLoadFormats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		check   func(t *testing.T, doc Document)
	}{
		{
			name:    "json",
			file:    "zgl.config.json",
			content: `{"mode":"production","devServer":{"port":8080}}`,
			check: func(t *testing.T, doc Document) {
				assert.Equal(t, "production", doc["mode"])
				server, ok := doc["devServer"].(map[string]interface{})
				require.True(t, ok)
				assert.EqualValues(t, 8080, server["port"])
			},
		},
		{
			name:    "yaml",
			file:    "zgl.config.yaml",
			content: "mode: development\ndevtool: source-map\n",
			check: func(t *testing.T, doc Document) {
				assert.Equal(t, "development", doc["mode"])
				assert.Equal(t, "source-map", doc["devtool"])
			},
		},
		{
			name:    "yml",
			file:    "zgl.config.yml",
			content: "mode: none\n",
			check: func(t *testing.T, doc Document) {
				assert.Equal(t, "none", doc["mode"])
			},
		},
		{
			name:    "toml",
			file:    "zgl.config.toml",
			content: "mode = \"production\"\n\n[devServer]\nport = 4000\nopen = true\n",
			check: func(t *testing.T, doc Document) {
				assert.Equal(t, "production", doc["mode"])
				server, ok := doc["devServer"].(map[string]interface{})
				require.True(t, ok)
				assert.EqualValues(t, 4000, server["port"])
				assert.Equal(t, true, server["open"])
			},
		},
		{
			name:    "cue",
			file:    "zgl.config.cue",
			content: "_port: 5000\nmode: \"test\"\ndevServer: {port: _port, open: false}\n",
			check: func(t *testing.T, doc Document) {
				assert.Equal(t, "test", doc["mode"])
				server, ok := doc["devServer"].(map[string]interface{})
				require.True(t, ok)
				assert.EqualValues(t, 5000, server["port"])
				assert.NotContains(t, doc, "_port")
			},
		},
		{
			name:    "shell script",
			file:    "zgl.config.sh",
			content: "echo '{\"mode\":\"test\"}'\n",
			check: func(t *testing.T, doc Document) {
				assert.Equal(t, Document{"mode": "test"}, doc)
			},
		},
		{
			name:    "empty yaml",
			file:    "zgl.config.yaml",
			content: "",
			check: func(t *testing.T, doc Document) {
				assert.True(t, doc.Empty())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			expected := writeOverride(t, root, tt.file, tt.content)

			doc, path, err := Load(context.Background(), root)
			require.NoError(t, err)
			assert.Equal(t, expected, path)
			tt.check(t, doc)
		})
	}
}

func TestLoadProbeOrder(t *testing.T) {
	root := t.TempDir()
	writeOverride(t, root, "zgl.config.json", `{"mode":"json"}`)
	writeOverride(t, root, "zgl.config.yaml", "mode: yaml\n")
	writeOverride(t, root, "zgl.config.cue", `mode: "cue"`)

	doc, path, err := Load(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "zgl.config.cue"), path)
	assert.Equal(t, "cue", doc["mode"])
}

func TestScriptRunsInProjectRoot(t *testing.T) {
	root := t.TempDir()
	writeOverride(t, root, "name.txt", "widgets\n")
	writeOverride(t, root, "zgl.config.sh", "read -r name < name.txt\necho \"{\\\"output\\\":{\\\"library\\\":{\\\"name\\\":\\\"$name\\\"}}}\"\n")

	doc, _, err := Load(context.Background(), root)
	require.NoError(t, err)
	output, ok := doc["output"].(map[string]interface{})
	require.True(t, ok)
	library, ok := output["library"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "widgets", library["name"])
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{name: "malformed json", file: "zgl.config.json", content: `{"mode":`},
		{name: "json array", file: "zgl.config.json", content: `[1,2,3]`},
		{name: "malformed yaml", file: "zgl.config.yaml", content: "mode: [unclosed\n"},
		{name: "malformed toml", file: "zgl.config.toml", content: "mode = \n"},
		{name: "incomplete cue", file: "zgl.config.cue", content: "mode: string\n"},
		{name: "failing script", file: "zgl.config.sh", content: "echo oops >&2\nexit 3\n"},
		{name: "script printing garbage", file: "zgl.config.sh", content: "echo not-json\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			expected := writeOverride(t, root, tt.file, tt.content)

			doc, path, err := Load(context.Background(), root)
			require.Error(t, err)
			assert.Nil(t, doc)
			assert.Equal(t, expected, path)
			assert.True(t, errors.IsConfigError(err))
			assert.False(t, errors.IsRecoverable(err))
		})
	}
}

func TestProviderFunc(t *testing.T) {
	called := 0
	p := ProviderFunc(func(ctx context.Context) (Document, error) {
		called++
		return Document{"mode": "production"}, nil
	})

	doc, err := p.Provide(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "production", doc["mode"])
	assert.Equal(t, 1, called)

	doc, err = Static(Document{"devtool": false}).Provide(context.Background())
	require.NoError(t, err)
	assert.Equal(t, false, doc["devtool"])
}
