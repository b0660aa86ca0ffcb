package parser

import (
	"fmt"
	"strconv"

	"github.com/shapestone/shape-dbc/internal/canid"
	"github.com/shapestone/shape-dbc/internal/model"
	"github.com/shapestone/shape-dbc/internal/tokenizer"
)

// ExtractValueTable reads the tokens of a VAL_ line.
//
// Grammar:
//
//	ValueTable = "VAL_" CanID SignalName { Value Label } ";" ;
//
// Pairs are consumed left to right after the signal name. A trailing token
// without a partner (normally the ";") is dropped, and a repeated value
// overwrites the earlier label. Values that are not integers are skipped and
// reported in the returned issue list.
func ExtractValueTable(tokens []string) (model.ValueTable, []string) {
	vt := model.ValueTable{
		SignalName: field(tokens, 2),
		States:     map[int64]string{},
	}

	if id, err := canid.Parse(field(tokens, 1)); err == nil {
		vt.MessageID = id
		vt.ValidID = true
	}

	var issues []string
	if len(tokens) <= 3 {
		return vt, issues
	}

	rest := tokens[3:]
	for i := 0; i+1 < len(rest); i += 2 {
		value, err := strconv.ParseInt(rest[i], 10, 64)
		if err != nil {
			issues = append(issues, fmt.Sprintf("value %q is not an integer", rest[i]))
			continue
		}
		vt.States[value] = tokenizer.Unquote(rest[i+1])
	}

	return vt, issues
}
