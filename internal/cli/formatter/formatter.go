package formatter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatCSV   Format = "csv"
)

var Formats = []Format{FormatTable, FormatJSON, FormatYAML, FormatCSV}

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FormatTable, nil
	}
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q, expected one of table, json, yaml, csv", s)
}

// Result is what a command prints. Header and Rows feed the table and csv formats, Value is
// marshalled as is for json and yaml.
type Result struct {
	Header []string
	Rows   [][]string
	Value  any
	// Empty is printed instead of an empty table.
	Empty string
}

func Write(w io.Writer, format Format, result Result) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result.Value)
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(result.Value); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return encoder.Close()
	case FormatCSV:
		writer := csv.NewWriter(w)
		if err := writer.Write(result.Header); err != nil {
			return err
		}
		if err := writer.WriteAll(result.Rows); err != nil {
			return err
		}
		return writer.Error()
	default:
		if len(result.Rows) == 0 && result.Empty != "" {
			_, err := fmt.Fprintln(w, Dim(result.Empty))
			return err
		}
		_, err := io.WriteString(w, RenderTable(result.Header, result.Rows))
		return err
	}
}
