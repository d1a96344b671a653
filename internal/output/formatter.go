package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/parallel-finance/paractl/internal/calls"
	"github.com/parallel-finance/paractl/internal/genesis"
)

const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// PlanEntry is one row of a batch preview.
type PlanEntry struct {
	Chain  string `json:"chain" yaml:"chain"`
	Index  int    `json:"index" yaml:"index"`
	Origin string `json:"origin" yaml:"origin"`
	Call   string `json:"call" yaml:"call"`
	Note   string `json:"note,omitempty" yaml:"note,omitempty"`
}

// Plan lists the calls of batch in dispatch order.
func Plan(chainName string, batch []calls.Call) []PlanEntry {
	entries := make([]PlanEntry, 0, len(batch))
	for i, c := range batch {
		inner := calls.Unwrap(c)
		entries = append(entries, PlanEntry{
			Chain:  chainName,
			Index:  i,
			Origin: calls.Origin(c),
			Call:   inner.Name(),
			Note:   inner.Note,
		})
	}
	return entries
}

type Formatter struct {
	format string
	out    io.Writer
}

func NewFormatter(format string) *Formatter {
	return NewFormatterWithWriter(format, os.Stdout)
}

func NewFormatterWithWriter(format string, w io.Writer) *Formatter {
	if format == "" {
		format = FormatTable
	}
	return &Formatter{format: format, out: w}
}

// Validate reports whether the configured format is supported.
func (f *Formatter) Validate() error {
	switch f.format {
	case FormatTable, FormatJSON, FormatYAML:
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", f.format)
	}
}

func (f *Formatter) PrintPlan(entries []PlanEntry) error {
	switch f.format {
	case FormatJSON:
		return f.printJSON(entries)
	case FormatYAML:
		return f.printYAML(entries)
	case FormatTable:
		table := f.newTable([]string{"CHAIN", "#", "ORIGIN", "CALL", "NOTE"})
		for _, e := range entries {
			table.Append([]string{e.Chain, strconv.Itoa(e.Index), e.Origin, e.Call, e.Note})
		}
		table.Render()
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", f.format)
	}
}

func (f *Formatter) PrintReport(report *genesis.Report) error {
	switch f.format {
	case FormatJSON:
		return f.printJSON(report)
	case FormatYAML:
		return f.printYAML(report)
	case FormatTable:
		table := f.newTable([]string{"CHAIN", "CALL", "CALLS", "BLOCK", "INDEX / HEX"})
		for _, s := range report.Steps {
			block, where := "-", s.Hex
			if s.Receipt != nil {
				block = shorten(s.Receipt.BlockHash)
				where = strconv.Itoa(s.Receipt.ExtrinsicIndex)
			} else {
				where = shorten(where)
			}
			table.Append([]string{s.Chain, s.Call, strconv.Itoa(s.Calls), block, where})
		}
		table.Render()
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", f.format)
	}
}

// Print formats and prints generic data based on the configured format
func (f *Formatter) Print(data interface{}) error {
	switch f.format {
	case FormatJSON:
		return f.printJSON(data)
	case FormatYAML:
		return f.printYAML(data)
	case FormatTable:
		return f.printGenericTable(data)
	default:
		return fmt.Errorf("unsupported output format: %s", f.format)
	}
}

func (f *Formatter) printJSON(data interface{}) error {
	encoder := json.NewEncoder(f.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func (f *Formatter) printYAML(data interface{}) error {
	encoder := yaml.NewEncoder(f.out)
	defer func(encoder *yaml.Encoder) {
		err := encoder.Close()
		if err != nil {
			fmt.Fprintf(f.out, "error closing output: %v\n\n", err)
		}
	}(encoder)
	return encoder.Encode(data)
}

func (f *Formatter) newTable(header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(f.out)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetCenterSeparator("|")
	table.SetColumnSeparator("|")
	table.SetRowSeparator("-")
	table.SetHeaderLine(true)
	table.SetBorder(true)
	table.SetTablePadding(" ")
	table.SetNoWhiteSpace(false)
	return table
}

// printGenericTable prints a struct as field/value pairs, or a slice of
// structs as rows. Columns are sorted for stable output.
func (f *Formatter) printGenericTable(data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	var arr []map[string]interface{}
	if err := json.Unmarshal(jsonData, &arr); err == nil {
		if len(arr) == 0 {
			fmt.Fprintln(f.out, "No data found")
			return nil
		}

		headers := make([]string, 0, len(arr[0]))
		for key := range arr[0] {
			headers = append(headers, key)
		}
		sort.Strings(headers)

		table := f.newTable(headers)
		for _, item := range arr {
			row := make([]string, 0, len(headers))
			for _, header := range headers {
				row = append(row, fmt.Sprintf("%v", item[header]))
			}
			table.Append(row)
		}
		table.Render()
		return nil
	}

	var obj map[string]interface{}
	if err := json.Unmarshal(jsonData, &obj); err != nil {
		return fmt.Errorf("failed to parse data: %w", err)
	}

	keys := make([]string, 0, len(obj))
	for key := range obj {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	table := f.newTable([]string{"Field", "Value"})
	for _, key := range keys {
		table.Append([]string{key, fmt.Sprintf("%v", obj[key])})
	}
	table.Render()
	return nil
}

func shorten(s string) string {
	if len(s) > 18 {
		return s[:10] + "..." + s[len(s)-6:]
	}
	return s
}
