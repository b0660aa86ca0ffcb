package dbc

import (
	"sort"
	"strconv"
	"strings"

	"github.com/shapestone/shape-core/pkg/ast"
)

// TableHeader names the columns of SignalTable.
var TableHeader = []string{
	"message", "can_id", "pgn", "signal", "label", "multiplexer",
	"start_bit", "bit_length", "byte_order", "signed",
	"factor", "offset", "min", "max", "unit", "states", "line",
}

// SignalTable flattens a result into one row per signal, preceded by
// TableHeader, as a Shape AST: an *ast.ArrayDataNode of records, each an
// *ast.ArrayDataNode of *ast.LiteralNode string fields.
//
// Messages without signals produce no rows. States are written as
// "value=label" pairs in ascending value order, separated by ";".
func SignalTable(result *Result) *ast.ArrayDataNode {
	records := []ast.SchemaNode{row(TableHeader)}
	if result == nil {
		return ast.NewArrayDataNode(records, ast.ZeroPosition())
	}

	for _, msg := range result.Messages {
		pgn := ""
		if msg.PGN != nil {
			pgn = strconv.FormatUint(uint64(*msg.PGN), 10)
		}
		for _, sig := range msg.Signals {
			records = append(records, row([]string{
				msg.Name,
				strconv.FormatUint(uint64(msg.CanID), 10),
				pgn,
				sig.Name,
				sig.Label,
				sig.Multiplexer.String(),
				strconv.Itoa(sig.StartBit),
				strconv.Itoa(sig.BitLength),
				string(sig.ByteOrder),
				strconv.FormatBool(sig.IsSigned),
				formatFloat(sig.Factor),
				formatFloat(sig.Offset),
				formatFloat(sig.Minimum),
				formatFloat(sig.Maximum),
				sig.Unit,
				formatStates(sig.States),
				strconv.Itoa(sig.SourceLine),
			}))
		}
	}

	return ast.NewArrayDataNode(records, ast.ZeroPosition())
}

func row(fields []string) *ast.ArrayDataNode {
	nodes := make([]ast.SchemaNode, len(fields))
	for i, f := range fields {
		nodes[i] = ast.NewLiteralNode(f, ast.ZeroPosition())
	}
	return ast.NewArrayDataNode(nodes, ast.ZeroPosition())
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatStates(states map[int64]string) string {
	if len(states) == 0 {
		return ""
	}
	values := make([]int64, 0, len(states))
	for v := range states {
		values = append(values, v)
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })

	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatInt(v, 10) + "=" + states[v]
	}
	return strings.Join(parts, ";")
}
