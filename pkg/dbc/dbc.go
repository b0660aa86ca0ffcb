// Package dbc decodes CAN database (DBC) files.
//
// A DBC file describes the frames on a CAN bus: messages (BO_), the signals
// packed into them (SG_) and the named states of a signal's raw values
// (VAL_). This package decodes that text into a list of messages and a list
// of problems.
//
// Decoding is lenient. Malformed lines are reported as problems with a
// severity (info, warning, error) and the line they were found on, and
// decoding continues with the next line. The only hard failure is input that
// yields no message at all (ErrNoMessages). Whether problems are acceptable is
// the caller's decision.
//
// # Thread Safety
//
// All functions in this package are safe for concurrent use by multiple goroutines.
// Each function call creates its own parser instance with no shared mutable state.
// ValidateSchema shares one compiled schema and serializes its calls.
//
//	// Safe: Concurrent parsing
//	go func() { dbc.Parse(input1) }()
//	go func() { dbc.Parse(input2) }()
//
// # Parsing APIs
//
//   - Parse(string) - Decodes DBC text held in memory
//   - ParseReader(io.Reader) - Decodes DBC text from any io.Reader
//   - ParseFile(string, Options) - Decodes a file on disk
//   - ParseWithOptions / ParseReaderWithOptions - Same, with logging, a problem
//     hook and the strict cross-check
//
// # Example usage with Parse:
//
//	result, err := dbc.Parse(text)
//	if err != nil {
//	    // no BO_ line could be decoded
//	}
//	for _, msg := range result.Messages {
//	    fmt.Println(msg.Name, len(msg.Signals))
//	}
//	for _, p := range result.Problems {
//	    fmt.Println(p)
//	}
//
// # Example usage with ParseReader:
//
//	file, err := os.Open("vehicle.dbc")
//	if err != nil {
//	    // handle error
//	}
//	defer file.Close()
//
//	result, err := dbc.ParseReader(file)
package dbc

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/shapestone/shape-dbc/internal/model"
)

// Decoded model types.
type (
	Result          = model.Result
	Message         = model.Message
	Signal          = model.Signal
	Multiplexer     = model.Multiplexer
	MultiplexerRole = model.MultiplexerRole
	ByteOrder       = model.ByteOrder
	Problem         = model.Problem
	Severity        = model.Severity
)

const (
	SeverityInfo    = model.SeverityInfo
	SeverityWarning = model.SeverityWarning
	SeverityError   = model.SeverityError

	MultiplexerNone        = model.MultiplexerNone
	MultiplexerSwitch      = model.MultiplexerSwitch
	MultiplexerMultiplexed = model.MultiplexerMultiplexed

	LittleEndian = model.LittleEndian
	BigEndian    = model.BigEndian
)

// ParseSeverity converts "info", "warning" or "error" to a Severity.
func ParseSeverity(name string) (Severity, error) {
	return model.ParseSeverity(name)
}

// Parse decodes DBC text held in memory.
//
// Returns the messages in file order and every problem found, or
// ErrNoMessages when the text contains no decodable BO_ line.
//
// Example:
//
//	result, err := dbc.Parse("BO_ 100 Gearbox: 1 ECU\n SG_ Gear : 0|4@1+ (1,0) [0|15] \"\" DASH\n")
//	gear := result.Messages[0].Signals[0]
func Parse(input string) (*Result, error) {
	return ParseWithOptions(input, DefaultOptions())
}

// ParseReader decodes DBC text from an io.Reader.
//
// The reader can be any io.Reader implementation:
//   - os.File for reading from files
//   - strings.Reader for reading from strings
//   - bytes.Buffer for reading from byte slices
//   - Network streams, compressed streams, etc.
func ParseReader(reader io.Reader) (*Result, error) {
	return ParseReaderWithOptions(reader, DefaultOptions())
}

// ParseFile decodes the DBC file at path. The file name becomes the
// source name reported by the strict cross-check.
func ParseFile(path string, opts Options) (*Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer file.Close()

	if opts.SourceName == "" {
		opts.SourceName = path
	}
	return ParseReaderWithOptions(file, opts)
}

// Format returns the format identifier for this parser.
// Returns "DBC" to identify this as the CAN database format parser.
func Format() string {
	return "DBC"
}

// Validate checks if the input string decodes without error-severity problems.
//
// Returns nil for usable input, ErrNoMessages when nothing could be decoded,
// and a *ProblemsError listing the errors otherwise. Info and warning
// problems do not fail validation.
//
//	if err := dbc.Validate(input); err != nil {
//	    fmt.Println("Invalid DBC:", err)
//	}
func Validate(input string) error {
	result, err := Parse(input)
	if err != nil {
		return err
	}
	return Check(result, SeverityError)
}

// ValidateReader is Validate for an io.Reader.
func ValidateReader(reader io.Reader) error {
	result, err := ParseReader(reader)
	if err != nil {
		return err
	}
	return Check(result, SeverityError)
}

// Check returns a *ProblemsError holding every problem at or above threshold,
// or nil when there is none.
func Check(result *Result, threshold Severity) error {
	var failing []Problem
	for _, p := range result.Problems {
		if p.Severity.Rank() >= threshold.Rank() {
			failing = append(failing, p)
		}
	}
	if len(failing) == 0 {
		return nil
	}
	return &ProblemsError{Threshold: threshold, Problems: failing}
}
