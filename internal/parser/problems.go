package parser

import (
	"fmt"

	"github.com/shapestone/shape-dbc/internal/model"
)

// Problems is the ordered, append-only diagnostics log of one decode.
type Problems struct {
	list []model.Problem
	hook func(model.Problem)
}

func newProblems(hook func(model.Problem)) *Problems {
	return &Problems{list: make([]model.Problem, 0, 8), hook: hook}
}

// Info records an info-severity problem.
func (c *Problems) Info(line int, format string, args ...any) {
	c.add(model.SeverityInfo, line, format, args...)
}

// Warning records a warning-severity problem.
func (c *Problems) Warning(line int, format string, args ...any) {
	c.add(model.SeverityWarning, line, format, args...)
}

// Error records an error-severity problem.
func (c *Problems) Error(line int, format string, args ...any) {
	c.add(model.SeverityError, line, format, args...)
}

// List returns the problems in detection order.
func (c *Problems) List() []model.Problem {
	return c.list
}

// Len returns the number of problems recorded so far.
func (c *Problems) Len() int {
	return len(c.list)
}

func (c *Problems) add(severity model.Severity, line int, format string, args ...any) {
	p := model.Problem{
		Severity:    severity,
		Line:        line,
		Description: fmt.Sprintf(format, args...),
	}
	c.list = append(c.list, p)
	if c.hook != nil {
		c.hook(p)
	}
}
