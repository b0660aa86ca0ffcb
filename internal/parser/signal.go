package parser

import (
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/shapestone/shape-dbc/internal/model"
	"github.com/shapestone/shape-dbc/internal/naming"
	"github.com/shapestone/shape-dbc/internal/tokenizer"
)

// ExtractSignal builds a Signal from the tokens of an SG_ line.
//
// Grammar:
//
//	Signal      = "SG_" Name [ Multiplexer ] ":" Layout Scale Range Unit { Receiver } ;
//	Multiplexer = "M" | "m" Digit { Digit } ;
//	Layout      = StartBit "|" Length "@" ( "0" | "1" ) ( "+" | "-" ) ;
//	Scale       = "(" Factor "," Offset ")" ;
//	Range       = "[" Minimum "|" Maximum "]" ;
//
// messageLabel is the normalized label of the owning message; it only feeds
// the compound Signal.Label.
//
// The only failure is a malformed multiplexer token (ErrMultiplexer). Fields
// that cannot be read are left at their zero value and named in the returned
// issue list.
func ExtractSignal(tokens []string, messageLabel string) (model.Signal, []string, error) {
	sig := model.Signal{
		Name:        field(tokens, 1),
		Multiplexer: model.Multiplexer{Role: model.MultiplexerNone},
		ByteOrder:   model.LittleEndian,
		States:      map[int64]string{},
	}
	sig.Label = naming.Compound(messageLabel, sig.Name)

	var issues []string
	pos := 2

	if tok := field(tokens, pos); tok != ":" && tok != "" {
		mux, err := parseMultiplexer(tok)
		if err != nil {
			return model.Signal{}, nil, err
		}
		sig.Multiplexer = mux
		pos++
	}

	if field(tokens, pos) == ":" {
		pos++
	} else {
		issues = append(issues, "separator ':'")
	}

	issues = append(issues, parseLayout(field(tokens, pos), &sig)...)
	issues = append(issues, parseScale(field(tokens, pos+1), &sig)...)
	issues = append(issues, parseRange(field(tokens, pos+2), &sig)...)

	if pos+3 < len(tokens) {
		sig.Unit = tokenizer.Unquote(tokens[pos+3])
	} else {
		issues = append(issues, "unit")
	}
	// Remaining tokens are receivers and are not kept.

	return sig, issues, nil
}

func parseMultiplexer(tok string) (model.Multiplexer, error) {
	if tok == "M" {
		return model.Multiplexer{Role: model.MultiplexerSwitch}, nil
	}

	if len(tok) > 1 && tok[0] == 'm' && isDigits(tok[1:]) {
		index, err := strconv.Atoi(tok[1:])
		if err == nil {
			return model.Multiplexer{Role: model.MultiplexerMultiplexed, Index: index}, nil
		}
	}

	return model.Multiplexer{}, errors.Wrapf(ErrMultiplexer, "token %q", tok)
}

// parseLayout reads "start|length@order sign".
func parseLayout(tok string, sig *model.Signal) []string {
	bitsPart, orderPart, ok := strings.Cut(tok, "@")
	if !ok {
		return []string{"start bit", "bit length", "byte order", "sign"}
	}

	var issues []string
	startTok, lengthTok, _ := strings.Cut(bitsPart, "|")
	if v, err := strconv.Atoi(startTok); err == nil {
		sig.StartBit = v
	} else {
		issues = append(issues, "start bit")
	}
	if v, err := strconv.Atoi(lengthTok); err == nil {
		sig.BitLength = v
	} else {
		issues = append(issues, "bit length")
	}

	if len(orderPart) != 2 {
		return append(issues, "byte order", "sign")
	}

	switch orderPart[0] {
	case '1':
		sig.ByteOrder = model.LittleEndian
	case '0':
		sig.ByteOrder = model.BigEndian
	default:
		issues = append(issues, "byte order")
	}

	switch orderPart[1] {
	case '+':
		sig.IsSigned = false
	case '-':
		sig.IsSigned = true
	default:
		issues = append(issues, "sign")
	}

	return issues
}

// parseScale reads "(factor,offset)".
func parseScale(tok string, sig *model.Signal) []string {
	inner, ok := enclosed(tok, '(', ')')
	if !ok {
		return []string{"factor", "offset"}
	}

	var issues []string
	factorTok, offsetTok, _ := strings.Cut(inner, ",")
	if v, err := parseFloat(factorTok); err == nil {
		sig.Factor = v
	} else {
		issues = append(issues, "factor")
	}
	if v, err := parseFloat(offsetTok); err == nil {
		sig.Offset = v
	} else {
		issues = append(issues, "offset")
	}
	return issues
}

// parseRange reads "[min|max]".
func parseRange(tok string, sig *model.Signal) []string {
	inner, ok := enclosed(tok, '[', ']')
	if !ok {
		return []string{"minimum", "maximum"}
	}

	var issues []string
	minTok, maxTok, _ := strings.Cut(inner, "|")
	if v, err := parseFloat(minTok); err == nil {
		sig.Minimum = v
	} else {
		issues = append(issues, "minimum")
	}
	if v, err := parseFloat(maxTok); err == nil {
		sig.Maximum = v
	} else {
		issues = append(issues, "maximum")
	}
	return issues
}

func enclosed(tok string, opening, closing byte) (string, bool) {
	if len(tok) < 2 || tok[0] != opening || tok[len(tok)-1] != closing {
		return "", false
	}
	return tok[1 : len(tok)-1], true
}

// parseFloat rejects NaN and infinities so decoded models stay JSON-encodable.
func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.Newf("%q is not a finite number", s)
	}
	return v, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// field returns tokens[i], or "" when the line is too short.
func field(tokens []string, i int) string {
	if i < 0 || i >= len(tokens) {
		return ""
	}
	return tokens[i]
}
