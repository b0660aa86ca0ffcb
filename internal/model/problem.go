package model

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Severity ranks a Problem.
//
//	info    only affects the message or parameter on the current line, nothing breaks
//	warning causes major problems, but only for the current line
//	error   causes major problems for the current line and the lines below it
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Rank orders severities: info < warning < error. Unknown severities rank 0.
func (s Severity) Rank() int {
	switch s {
	case SeverityInfo:
		return 1
	case SeverityWarning:
		return 2
	case SeverityError:
		return 3
	default:
		return 0
	}
}

// ParseSeverity converts a name to a Severity.
func ParseSeverity(name string) (Severity, error) {
	switch s := Severity(name); s {
	case SeverityInfo, SeverityWarning, SeverityError:
		return s, nil
	}
	return "", errors.Newf("unknown severity %q", name)
}

// Problem is one diagnostic collected while decoding.
type Problem struct {
	Severity    Severity `json:"severity" yaml:"severity"`
	Line        int      `json:"line" yaml:"line"`
	Description string   `json:"description" yaml:"description"`
}

// String formats the problem as "line N: severity: description".
func (p Problem) String() string {
	return fmt.Sprintf("line %d: %s: %s", p.Line, p.Severity, p.Description)
}
