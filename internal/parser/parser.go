// Package parser implements the two-pass DBC decoder.
//
// Pass one walks the tokenized lines and classifies each record by its leading
// token (BO_, SG_, VAL_, SIG_VALTYPE_). It owns the message that is currently
// being built and queues value tables for later. Pass two links the queued
// value tables to their signals.
//
// Malformed input is recorded as a Problem and decoding continues. The only
// hard failure is a file without any message (ErrNoMessages).
package parser

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-logr/logr"
	shapetokenizer "github.com/shapestone/shape-core/pkg/tokenizer"

	"github.com/shapestone/shape-dbc/internal/canid"
	"github.com/shapestone/shape-dbc/internal/model"
	"github.com/shapestone/shape-dbc/internal/naming"
	"github.com/shapestone/shape-dbc/internal/tokenizer"
)

var (
	// ErrNoMessages is returned when the input contains no usable BO_ record.
	ErrNoMessages = errors.New("invalid DBC: could not find any BO_ or SG_ lines")

	// ErrMultiplexer indicates an SG_ multiplexer token other than "M" or "m<N>".
	ErrMultiplexer = errors.New("malformed multiplexer indicator")
)

// Options configures the parser behavior.
type Options struct {
	// Logger receives debug output at V(1). Default: discard.
	Logger logr.Logger
	// OnProblem, if set, is invoked for every problem as it is recorded.
	OnProblem func(model.Problem)
}

// DefaultOptions returns default parser options.
func DefaultOptions() Options {
	return Options{
		Logger: logr.Discard(),
	}
}

// Parser decodes one DBC document. A Parser is single-use.
type Parser struct {
	lines []tokenizer.Line
	opts  Options
	log   logr.Logger

	messages []model.Message
	index    map[uint32]int // CAN id -> first message with that id
	pending  []model.ValueTable
	problems *Problems
}

// NewParser creates a new DBC parser for the given input string.
func NewParser(input string) *Parser {
	return NewParserWithOptions(input, DefaultOptions())
}

// NewParserWithOptions creates a new DBC parser with custom options.
func NewParserWithOptions(input string, opts Options) *Parser {
	return newParser(tokenizer.Lines(input), opts)
}

// NewParserFromStream creates a new DBC parser using a pre-configured stream.
// The whole stream is tokenized before Parse returns anything.
func NewParserFromStream(stream shapetokenizer.Stream, opts Options) *Parser {
	return newParser(tokenizer.LinesFromStream(stream), opts)
}

func newParser(lines []tokenizer.Line, opts Options) *Parser {
	log := opts.Logger
	if log.GetSink() == nil {
		log = logr.Discard()
	}

	return &Parser{
		lines:    lines,
		opts:     opts,
		log:      log,
		messages: make([]model.Message, 0, 16),
		index:    make(map[uint32]int),
		problems: newProblems(opts.OnProblem),
	}
}

// recordKind is the closed set of record kinds the parser acts on.
type recordKind int

const (
	recordIgnored recordKind = iota
	recordMessage
	recordSignal
	recordValueTable
	recordSignalValueType
)

func classify(tag string) recordKind {
	switch tag {
	case "BO_":
		return recordMessage
	case "SG_":
		return recordSignal
	case "VAL_":
		return recordValueTable
	case "SIG_VALTYPE_":
		return recordSignalValueType
	default:
		return recordIgnored
	}
}

// state is the message accumulator threaded through pass one.
// open is nil while no message is being built.
type state struct {
	open *model.Message
	// linkable is false for messages whose CAN id could not be read;
	// they are kept but never indexed.
	linkable bool
}

// Parse decodes the input.
//
// Grammar:
//
//	File   = { Line } ;
//	Line   = Record | Ignored ;
//	Record = Message | Signal | ValueTable | SignalValueType ;
//
// Returns the messages in file order and the problems in detection order,
// or ErrNoMessages when no message was decoded.
func (p *Parser) Parse() (*model.Result, error) {
	st := state{}
	for _, line := range p.lines {
		st = p.step(st, line)
	}
	p.flush(st)

	if len(p.messages) == 0 {
		return nil, ErrNoMessages
	}

	p.link()

	p.log.V(1).Info("decoded DBC", "messages", len(p.messages), "problems", p.problems.Len())
	return &model.Result{
		Messages: p.messages,
		Problems: p.problems.List(),
	}, nil
}

// step processes one line and returns the new accumulator.
func (p *Parser) step(st state, line tokenizer.Line) state {
	// Blank lines and lone keywords carry nothing actionable
	if len(line.Tokens) < 2 {
		return st
	}

	switch classify(line.Tag()) {
	case recordMessage:
		return p.handleMessage(st, line)
	case recordSignal:
		return p.handleSignal(st, line)
	case recordValueTable:
		p.handleValueTable(line)
		return st
	case recordSignalValueType:
		// Float and double signal value types are not supported
		p.log.V(1).Info("ignoring signal value type", "line", line.Number)
		return st
	case recordIgnored:
		p.log.V(1).Info("skipping unsupported line", "line", line.Number, "tag", line.Tag())
		return st
	}
	return st
}

// handleMessage processes a BO_ line:
//
//	BO_ 2147486648 Edgy: 8 Vector__XXX
func (p *Parser) handleMessage(st state, line tokenizer.Line) state {
	tokens := line.Tokens
	if len(tokens) != 5 {
		p.problems.Error(line.Number,
			"BO_ line does not follow DBC standard (should have five pieces of text/numbers), all parameters in this message won't have a PGN or source.")
	}

	// An empty message is only reported when the next BO_ closes it
	if st.open != nil && len(st.open.Signals) == 0 {
		p.problems.Info(line.Number,
			"BO_ does not contain any SG_ lines; message does not have any parameters.")
	}
	p.flush(st)

	msg := &model.Message{
		Name:       strings.TrimSuffix(field(tokens, 2), ":"),
		Signals:    []model.Signal{},
		SourceLine: line.Number,
	}
	msg.Label = naming.Label(msg.Name)

	id, err := canid.Parse(field(tokens, 1))
	switch {
	case errors.Is(err, canid.ErrNotNumeric):
		p.problems.Error(line.Number,
			"BO_ CAN ID is not a number, all parameters in this message won't have a PGN or source.")
	case err != nil:
		p.problems.Error(line.Number,
			"BO_ CAN ID %s can't be split into priority, PGN and source; the message and its parameters are skipped.",
			field(tokens, 1))
		return state{}
	default:
		if _, dup := p.index[id]; dup {
			p.problems.Warning(line.Number,
				"BO_ CAN ID already exists in this file. Nothing will break, but the data will be wrong because the exact same CAN data will be used on two different parameters.")
		}
		applyIdentifier(msg, canid.Split(id))
	}

	if dlcToken := field(tokens, 3); dlcToken != "" {
		dlc, convErr := strconv.Atoi(dlcToken)
		if convErr != nil || dlc < 0 {
			p.problems.Error(line.Number, "BO_ data length %q is not a number.", dlcToken)
		} else {
			msg.DataLength = dlc
		}
	}

	return state{open: msg, linkable: err == nil}
}

func applyIdentifier(msg *model.Message, ident canid.Identifier) {
	msg.CanID = ident.Raw
	msg.IsExtendedFrame = ident.Extended
	if !ident.Extended {
		return
	}

	priority, pgn, source := ident.Priority, ident.PGN, ident.Source
	msg.Priority = &priority
	msg.PGN = &pgn
	msg.SourceAddress = &source
}

// handleSignal processes an SG_ line:
//
//	SG_ soc m0 : 8|8@1+ (0.5,0) [0|100] "%" Vector__XXX
func (p *Parser) handleSignal(st state, line tokenizer.Line) state {
	tokens := line.Tokens
	if n := len(tokens); n < 8 || n > 9 {
		p.problems.Error(line.Number,
			"SG_ line does not follow DBC standard; should have eight pieces of text/numbers (or nine for multiplexed parameters).")
	}

	if st.open == nil {
		p.problems.Warning(line.Number,
			"SG_ line is not preceded by a valid BO_ line; parameter %q is skipped.", field(tokens, 1))
		return st
	}

	sig, issues, err := ExtractSignal(tokens, st.open.Label)
	if err != nil {
		p.problems.Warning(line.Number,
			"Can't parse multiplexer data from SG_ line, there should either be \" M \" or \" m0 \" where 0 can be any number.")
		return st
	}
	if len(issues) > 0 {
		p.problems.Warning(line.Number,
			"SG_ line has fields that can't be read (%s); they are set to zero.", strings.Join(issues, ", "))
	}

	sig.SourceLine = line.Number
	st.open.Signals = append(st.open.Signals, sig)
	return st
}

// handleValueTable processes a VAL_ line:
//
//	VAL_ 100 Gear 0 "Park" 1 "Drive" ;
func (p *Parser) handleValueTable(line tokenizer.Line) {
	tokens := line.Tokens
	if len(tokens)%2 != 0 {
		p.problems.Warning(line.Number,
			"VAL_ line does not follow DBC standard; amount of text/numbers in the line should be an even number. States/values will be incorrect.")
	}
	if len(tokens) < 7 {
		p.problems.Info(line.Number,
			"VAL_ line only contains one state, nothing will break but it defeats the purpose of having states/values for this parameter.")
	}

	vt, issues := ExtractValueTable(tokens)
	for _, issue := range issues {
		p.problems.Info(line.Number, "VAL_ line state skipped: %s.", issue)
	}

	vt.SourceLine = line.Number
	p.pending = append(p.pending, vt)
}

// flush closes the open message, if any, and appends it to the message list.
func (p *Parser) flush(st state) {
	if st.open == nil {
		return
	}

	msg := st.open
	if st.linkable {
		if _, ok := p.index[msg.CanID]; !ok {
			p.index[msg.CanID] = len(p.messages)
		}
	}

	p.messages = append(p.messages, *msg)
	p.log.V(1).Info("message complete", "line", msg.SourceLine, "name", msg.Name, "signals", len(msg.Signals))
}
