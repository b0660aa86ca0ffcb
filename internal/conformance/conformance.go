// Package conformance cross-checks a decode result against the einride
// reference DBC parser.
//
// The reference parser is strict: it stops at the first syntax error. The
// check therefore never changes a result, it only adds problems.
package conformance

import (
	"bytes"
	"regexp"
	"strconv"

	"github.com/go-logr/logr"
	"go.einride.tech/can/pkg/dbc"

	"github.com/shapestone/shape-dbc/internal/canid"
	"github.com/shapestone/shape-dbc/internal/model"
)

// positionPattern extracts the line from "file:line:col: reason".
var positionPattern = regexp.MustCompile(`:(\d+):(\d+): `)

// Checker compares decoded messages with the reference parser.
type Checker struct {
	SourceName string
	Logger     logr.Logger
}

// NewChecker returns a Checker that labels the input with sourceName.
func NewChecker(sourceName string, log logr.Logger) *Checker {
	if sourceName == "" {
		sourceName = "input.dbc"
	}
	if log.GetSink() == nil {
		log = logr.Discard()
	}
	return &Checker{SourceName: sourceName, Logger: log}
}

// Check re-parses data and returns the disagreements as problems.
//
// A reference syntax error is a warning on the line it names (line 1 when
// the position cannot be read). Messages the reference parser finds but the
// result lacks, and signal count mismatches, are info problems.
func (c *Checker) Check(data []byte, result *model.Result) []model.Problem {
	p := dbc.NewParser(c.SourceName, data)
	if err := p.Parse(); err != nil {
		c.Logger.V(1).Info("reference parser rejected input", "error", err.Error())
		return []model.Problem{{
			Severity:    model.SeverityWarning,
			Line:        errorLine(err),
			Description: "strict DBC syntax check failed: " + err.Error(),
		}}
	}

	decoded := make(map[uint32]*model.Message)
	if result != nil {
		for i := range result.Messages {
			msg := &result.Messages[i]
			if _, seen := decoded[msg.CanID]; !seen {
				decoded[msg.CanID] = msg
			}
		}
	}

	var problems []model.Problem
	for _, def := range p.Defs() {
		msgDef, ok := def.(*dbc.MessageDef)
		if !ok || msgDef.MessageID == dbc.IndependentSignalsMessageID {
			continue
		}

		id := dbcID(msgDef)
		msg, found := decoded[id]
		if !found {
			problems = append(problems, model.Problem{
				Severity: model.SeverityInfo,
				Line:     messageLine(data, id),
				Description: "strict DBC check found message " + string(msgDef.Name) +
					" (CAN ID " + strconv.FormatUint(uint64(id), 10) + ") that was not decoded.",
			})
			continue
		}

		if want, got := len(msgDef.Signals), len(msg.Signals); want != got {
			problems = append(problems, model.Problem{
				Severity: model.SeverityInfo,
				Line:     msg.SourceLine,
				Description: "strict DBC check counts " + strconv.Itoa(want) + " signals in message " +
					msg.Name + ", decoded " + strconv.Itoa(got) + ".",
			})
		}
	}

	c.Logger.V(1).Info("strict check complete", "problems", len(problems))
	return problems
}

// dbcID returns the identifier as written in the file, with the extended
// flag set again for extended frames.
func dbcID(def *dbc.MessageDef) uint32 {
	id := def.MessageID.ToCAN()
	if def.MessageID.IsExtended() {
		id |= canid.ExtendedFlag
	}
	return id
}

// messageLine finds the BO_ line declaring id, or 1.
func messageLine(data []byte, id uint32) int {
	pattern := regexp.MustCompile(`(?m)^[ \t]*BO_[ \t]+` + strconv.FormatUint(uint64(id), 10) + `[ \t]`)
	loc := pattern.FindIndex(data)
	if loc == nil {
		return 1
	}
	return bytes.Count(data[:loc[0]], []byte("\n")) + 1
}

func errorLine(err error) int {
	m := positionPattern.FindStringSubmatch(err.Error())
	if m == nil {
		return 1
	}
	line, convErr := strconv.Atoi(m[1])
	if convErr != nil || line < 1 {
		return 1
	}
	return line
}
