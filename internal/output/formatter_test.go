package output

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/zgl/internal/bundle"
	"github.com/conneroisu/zgl/internal/types"
)

func libraryConfigs() []bundle.Config {
	root := filepath.Join(string(filepath.Separator), "proj")
	in := bundle.Input{
		ProjectType: types.ProjectTypeReact,
		PackageName: "@acme/ui-kit",
		Entries: bundle.Entries{
			Single: types.EntryMap{"index": filepath.Join(root, "src", "index.tsx")},
		},
		Root: root,
	}
	return bundle.SynthesizeAll(in, []types.BundleType{types.BundleTypeUMD, types.BundleTypeCJS})
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"":      FormatTable,
		"table": FormatTable,
		"JSON":  FormatJSON,
		"yml":   FormatYAML,
		"yaml":  FormatYAML,
	}
	for in, expected := range tests {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, expected, got)
	}

	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestPrintConfigsTable(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{Format: FormatTable, Writer: &buf}

	require.NoError(t, f.PrintConfigs(libraryConfigs(), true))

	out := buf.String()
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "commonjs")
	assert.Contains(t, out, "umd")
	assert.Contains(t, out, filepath.Join(string(filepath.Separator), "proj", "dist", "umd"))
}

func TestPrintConfigsJSON(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{Format: FormatJSON, Writer: &buf}

	require.NoError(t, f.PrintConfigs(libraryConfigs(), true))

	var docs []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &docs))
	require.Len(t, docs, 2)
	assert.Equal(t, "cjs", docs[0]["name"])
	assert.Equal(t, "umd", docs[1]["name"])
	assert.NotContains(t, buf.String(), `<`)
}

func TestPrintConfigsSingleDocument(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{Format: FormatJSON, Writer: &buf}

	require.NoError(t, f.PrintConfigs(libraryConfigs()[:1], false))

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "cjs", doc["name"])
}

func TestPrintConfigsYAML(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{Format: FormatYAML, Writer: &buf}

	require.NoError(t, f.PrintConfigs(libraryConfigs(), true))

	var docs []map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &docs))
	require.Len(t, docs, 2)

	umd := docs[1]
	output := umd["output"].(map[string]interface{})
	library := output["library"].(map[string]interface{})
	assert.Equal(t, "UiKit", library["name"])

	performance := umd["performance"].(map[string]interface{})
	assert.Equal(t, 500000, performance["maxEntrypointSize"])

	externals := umd["externals"].(map[string]interface{})
	react := externals["react"].(map[string]interface{})
	assert.Equal(t, "React", react["root"])
}

func TestPrintTableNonTableFormat(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{Format: FormatJSON, Writer: &buf}

	require.NoError(t, f.PrintTable(TableData{
		Headers: []string{"name", "mode"},
		Rows:    [][]string{{"app", "production"}},
	}))

	var rows []map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	assert.Equal(t, []map[string]string{{"name": "app", "mode": "production"}}, rows)
}

func TestPrintKeyValue(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{Format: FormatTable, Writer: &buf}
	require.NoError(t, f.PrintKeyValue("override", "/p/zgl.config.json"))
	assert.Equal(t, "override: /p/zgl.config.json\n", buf.String())
}
