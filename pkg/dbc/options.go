package dbc

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/go-logr/logr"
	shapetokenizer "github.com/shapestone/shape-core/pkg/tokenizer"

	"github.com/shapestone/shape-dbc/internal/conformance"
	"github.com/shapestone/shape-dbc/internal/parser"
)

// Options configures decoding.
type Options struct {
	// Logger receives debug output at V(1).
	// Default: discard
	Logger logr.Logger

	// OnProblem, if set, is called for every problem as it is recorded.
	// Strict cross-check problems are reported after decoding finishes.
	OnProblem func(Problem)

	// Strict re-parses the input with the einride reference parser and adds
	// its findings as problems. The decoded messages are never changed.
	// Default: false
	Strict bool

	// SourceName labels the input in strict cross-check messages.
	// Default: "input.dbc"
	SourceName string
}

// DefaultOptions returns the default decode configuration.
func DefaultOptions() Options {
	return Options{
		Logger:     logr.Discard(),
		OnProblem:  nil,
		Strict:     false,
		SourceName: "input.dbc",
	}
}

// ParseWithOptions decodes DBC text held in memory with custom options.
func ParseWithOptions(input string, opts Options) (*Result, error) {
	result, err := parser.NewParserWithOptions(input, parserOptions(opts)).Parse()
	if err != nil {
		return nil, err
	}
	if opts.Strict {
		strictCheck([]byte(input), result, opts)
	}
	return result, nil
}

// ParseReaderWithOptions decodes DBC text from an io.Reader with custom options.
//
// Without Strict the reader is consumed through a buffered stream. Strict
// needs the raw bytes for the reference parser, so the input is read in full.
func ParseReaderWithOptions(reader io.Reader, opts Options) (*Result, error) {
	if opts.Strict {
		data, err := io.ReadAll(reader)
		if err != nil {
			return nil, errors.Wrap(err, "read DBC input")
		}
		return ParseWithOptions(string(data), opts)
	}

	stream := shapetokenizer.NewStreamFromReader(reader)
	return parser.NewParserFromStream(stream, parserOptions(opts)).Parse()
}

func parserOptions(opts Options) parser.Options {
	return parser.Options{
		Logger:    opts.Logger,
		OnProblem: opts.OnProblem,
	}
}

func strictCheck(data []byte, result *Result, opts Options) {
	checker := conformance.NewChecker(opts.SourceName, opts.Logger)
	for _, p := range checker.Check(data, result) {
		result.Problems = append(result.Problems, p)
		if opts.OnProblem != nil {
			opts.OnProblem(p)
		}
	}
}
