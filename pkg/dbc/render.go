package dbc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/cockroachdb/errors"
	"github.com/kr/text"
	"github.com/shapestone/shape-core/pkg/ast"
	"gopkg.in/yaml.v3"
)

// OutputFormat selects a Render encoding.
type OutputFormat string

const (
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
	FormatText OutputFormat = "text"
	FormatCSV  OutputFormat = "csv"
)

// ParseOutputFormat converts a name to an OutputFormat.
func ParseOutputFormat(name string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatJSON, FormatYAML, FormatText, FormatCSV:
		return f, nil
	}
	return "", errors.Newf("unsupported output format %q", name)
}

// Render encodes a result.
//
//   - json: the result as indented JSON, states keyed by their decimal value
//   - yaml: the same document as YAML
//   - text: a human-readable report with wrapped problem descriptions
//   - csv: SignalTable rendered as RFC 4180 CSV
//
// Example:
//
//	result, _ := dbc.Parse(input)
//	out, _ := dbc.Render(result, dbc.FormatYAML)
func Render(result *Result, format OutputFormat) ([]byte, error) {
	if result == nil {
		return nil, errors.New("render: nil result")
	}

	switch format {
	case FormatJSON:
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, "render JSON")
		}
		return append(out, '\n'), nil
	case FormatYAML:
		out, err := yaml.Marshal(result)
		if err != nil {
			return nil, errors.Wrap(err, "render YAML")
		}
		return out, nil
	case FormatText:
		return renderText(result), nil
	case FormatCSV:
		return RenderTable(SignalTable(result))
	default:
		return nil, errors.Newf("unsupported output format %q", format)
	}
}

// RenderTemplate executes a text/template against the result, with the
// sprig function library available.
//
//	{{ range .Messages }}{{ .Label | upper }} = {{ .CanID | printf "0x%X" }}
//	{{ end }}
func RenderTemplate(result *Result, tmpl string) ([]byte, error) {
	t, err := template.New("dbc").Funcs(sprig.TxtFuncMap()).Parse(tmpl)
	if err != nil {
		return nil, errors.Wrap(err, "parse template")
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, result); err != nil {
		return nil, errors.Wrap(err, "execute template")
	}
	return buf.Bytes(), nil
}

const wrapWidth = 96

func renderText(result *Result) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "%d message(s), %d signal(s), %d problem(s)\n",
		len(result.Messages), result.SignalCount(), len(result.Problems))

	for _, msg := range result.Messages {
		buf.WriteByte('\n')
		fmt.Fprintf(&buf, "%s (line %d)\n", msg.Name, msg.SourceLine)

		var details strings.Builder
		fmt.Fprintf(&details, "CAN ID %d, %d byte(s)", msg.CanID, msg.DataLength)
		if msg.IsExtendedFrame && msg.PGN != nil {
			fmt.Fprintf(&details, ", extended: priority %d, PGN %d, source %d",
				*msg.Priority, *msg.PGN, *msg.SourceAddress)
		}
		buf.WriteString(text.Indent(details.String()+"\n", "  "))

		for _, sig := range msg.Signals {
			buf.WriteString(text.Indent(signalLine(sig)+"\n", "  "))
			if len(sig.States) > 0 {
				buf.WriteString(text.Indent(text.Wrap(statesLine(sig.States), wrapWidth-6)+"\n", "      "))
			}
		}
	}

	if len(result.Problems) > 0 {
		buf.WriteString("\nProblems:\n")
		for _, p := range result.Problems {
			head := fmt.Sprintf("line %d: %s:", p.Line, p.Severity)
			buf.WriteString(text.Indent(head+"\n", "  "))
			buf.WriteString(text.Indent(text.Wrap(p.Description, wrapWidth-4)+"\n", "    "))
		}
	}

	return buf.Bytes()
}

func signalLine(sig Signal) string {
	sign := "unsigned"
	if sig.IsSigned {
		sign = "signed"
	}
	line := fmt.Sprintf("%s %d|%d %s %s (%g,%g) [%g|%g]",
		sig.Name, sig.StartBit, sig.BitLength, sig.ByteOrder, sign,
		sig.Factor, sig.Offset, sig.Minimum, sig.Maximum)
	if mux := sig.Multiplexer.String(); mux != "" {
		line += " " + mux
	}
	if sig.Unit != "" {
		line += " " + sig.Unit
	}
	return line
}

func statesLine(states map[int64]string) string {
	values := make([]int64, 0, len(states))
	for v := range states {
		values = append(values, v)
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })

	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%d=%q", v, states[v])
	}
	return "states: " + strings.Join(parts, " ")
}

// RenderTable converts a SignalTable AST node to CSV bytes.
//
// Rendering handles:
//   - Automatic quoting of fields containing commas, quotes, or newlines
//   - Proper escaping of quotes (doubled)
//   - Preservation of empty fields
//   - Consistent line endings (LF)
func RenderTable(node ast.SchemaNode) ([]byte, error) {
	if node == nil {
		return []byte{}, nil
	}

	var buf bytes.Buffer
	if err := renderNode(node, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// renderNode recursively renders an AST node to the buffer.
func renderNode(node ast.SchemaNode, buf *bytes.Buffer) error {
	switch n := node.(type) {
	case *ast.ArrayDataNode:
		return renderArrayData(n, buf)
	case *ast.LiteralNode:
		writeField(buf, literalString(n))
		return nil
	default:
		return errors.Newf("unsupported node type for table rendering: %T", node)
	}
}

// renderArrayData handles both the table level (array of records) and the
// record level (array of fields).
func renderArrayData(node *ast.ArrayDataNode, buf *bytes.Buffer) error {
	elements := node.Elements()
	if len(elements) == 0 {
		return nil
	}

	switch elements[0].(type) {
	case *ast.ArrayDataNode:
		for _, elem := range elements {
			if err := renderNode(elem, buf); err != nil {
				return err
			}
			buf.WriteByte('\n')
		}
		return nil

	case *ast.LiteralNode:
		for i, elem := range elements {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := renderNode(elem, buf); err != nil {
				return err
			}
		}
		return nil

	default:
		return errors.Newf("unexpected element type in array: %T", elements[0])
	}
}

func literalString(node *ast.LiteralNode) string {
	switch v := node.Value().(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

// writeField quotes fields containing commas, quotes, newlines, or carriage
// returns. Quotes within quoted fields are doubled.
func writeField(buf *bytes.Buffer, value string) {
	if !strings.ContainsAny(value, ",\"\n\r") {
		buf.WriteString(value)
		return
	}

	buf.WriteByte('"')
	for _, ch := range value {
		if ch == '"' {
			buf.WriteString(`""`)
		} else {
			buf.WriteRune(ch)
		}
	}
	buf.WriteByte('"')
}
