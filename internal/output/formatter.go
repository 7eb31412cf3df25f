// Package output renders command results as tables, JSON or YAML.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/zgl/internal/bundle"
)

// Format represents the output format
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat parses a format string
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "table", "":
		return FormatTable, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("invalid output format: %s (valid: table, json, yaml)", s)
	}
}

// Formatter formats output in various formats
type Formatter struct {
	Format    Format
	NoHeaders bool
	Writer    io.Writer
}

// NewFormatter creates a formatter writing to stdout
func NewFormatter(format Format) *Formatter {
	return &Formatter{
		Format: format,
		Writer: os.Stdout,
	}
}

// Print outputs data in the configured format. Table format has no generic
// layout and falls back to JSON.
func (f *Formatter) Print(data interface{}) error {
	switch f.Format {
	case FormatYAML:
		return f.printYAML(data)
	default:
		return f.printJSON(data)
	}
}

func (f *Formatter) printJSON(data interface{}) error {
	encoder := json.NewEncoder(f.Writer)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// printYAML goes through JSON first so field names and custom encodings
// match the JSON document exactly.
func (f *Formatter) printYAML(data interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	var plain interface{}
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	if err := decoder.Decode(&plain); err != nil {
		return err
	}

	encoder := yaml.NewEncoder(f.Writer)
	encoder.SetIndent(2)
	defer func() { _ = encoder.Close() }()
	return encoder.Encode(yamlNumbers(plain))
}

// yamlNumbers turns json.Number values into ints or floats so YAML does not
// quote them.
func yamlNumbers(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		for k, val := range t {
			t[k] = yamlNumbers(val)
		}
		return t
	case []interface{}:
		for i, val := range t {
			t[i] = yamlNumbers(val)
		}
		return t
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if fl, err := t.Float64(); err == nil {
			return fl
		}
		return t.String()
	default:
		return v
	}
}

// TableData represents tabular data for table output
type TableData struct {
	Headers []string
	Rows    [][]string
}

// PrintTable prints formatted table output
func (f *Formatter) PrintTable(data TableData) error {
	// For non-table formats, convert to list of maps
	if f.Format != FormatTable {
		rows := make([]map[string]string, len(data.Rows))
		for i, row := range data.Rows {
			rowMap := make(map[string]string)
			for j, cell := range row {
				if j < len(data.Headers) {
					rowMap[data.Headers[j]] = cell
				}
			}
			rows[i] = rowMap
		}
		return f.Print(rows)
	}

	table := tablewriter.NewWriter(f.Writer)

	if !f.NoHeaders && len(data.Headers) > 0 {
		table.SetHeader(data.Headers)
	}

	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)

	table.AppendBulk(data.Rows)
	table.Render()
	return nil
}

// ConfigTable summarizes build configurations, one row each.
func ConfigTable(configs []bundle.Config) TableData {
	data := TableData{
		Headers: []string{"name", "mode", "library", "entries", "output", "externals", "minimize"},
	}
	for _, c := range configs {
		library := "-"
		if c.Output.Library != nil {
			library = c.Output.Library.Type
		}
		minimize := "auto"
		if c.Optimization.Minimize != nil {
			minimize = strconv.FormatBool(*c.Optimization.Minimize)
		}
		data.Rows = append(data.Rows, []string{
			c.Name,
			c.Mode,
			library,
			strings.Join(c.Entry.Names(), ","),
			c.Output.Path,
			strconv.Itoa(len(c.Externals)),
			minimize,
		})
	}
	return data
}

// PrintConfigs prints configurations: a summary table in table format, the
// full documents otherwise. A single application config prints as one
// document, library configs as a sequence.
func (f *Formatter) PrintConfigs(configs []bundle.Config, sequence bool) error {
	if f.Format == FormatTable {
		return f.PrintTable(ConfigTable(configs))
	}
	if !sequence && len(configs) == 1 {
		return f.Print(configs[0])
	}
	return f.Print(configs)
}

// PrintKeyValue prints a key-value pair
func (f *Formatter) PrintKeyValue(key, value string) error {
	switch f.Format {
	case FormatJSON:
		return f.printJSON(map[string]string{key: value})
	case FormatYAML:
		return f.printYAML(map[string]string{key: value})
	default:
		_, err := fmt.Fprintf(f.Writer, "%s: %s\n", key, value)
		return err
	}
}
