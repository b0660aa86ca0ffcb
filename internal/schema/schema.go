// Package schema validates decode results against an embedded CUE contract.
package schema

import (
	_ "embed"
	"encoding/json"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/cockroachdb/errors"

	"github.com/shapestone/shape-dbc/internal/model"
)

//go:embed schema.cue
var source []byte

// Validator checks results against the #Result definition.
// It is safe for concurrent use; calls share one CUE context and are
// serialized.
type Validator struct {
	mu     sync.Mutex
	ctx    *cue.Context
	result cue.Value
}

// NewValidator compiles the embedded schema.
func NewValidator() (*Validator, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(source, cue.Filename("schema.cue"))
	if err := v.Err(); err != nil {
		return nil, errors.Wrap(err, "compile schema")
	}

	def := v.LookupPath(cue.ParsePath("#Result"))
	if err := def.Err(); err != nil {
		return nil, errors.Wrap(err, "lookup #Result")
	}

	return &Validator{ctx: ctx, result: def}, nil
}

// Validate returns nil when result satisfies the contract. Otherwise the
// returned error lists every violation, one per line.
func (v *Validator) Validate(result *model.Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return errors.Wrap(err, "encode result")
	}
	return v.ValidateJSON(data)
}

// ValidateJSON validates an already rendered JSON result.
func (v *Validator) ValidateJSON(data []byte) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	value := v.ctx.CompileBytes(data, cue.Filename("result.json"))
	if err := value.Err(); err != nil {
		return errors.Wrap(err, "read result")
	}

	unified := v.result.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return errors.Newf("result does not match schema:\n%s", Violations(err))
	}
	return nil
}

// Violations flattens a CUE error into one message per violation.
func Violations(err error) string {
	var out []byte
	for i, e := range cueerrors.Errors(err) {
		if i > 0 {
			out = append(out, '\n')
		}
		out = append(out, e.Error()...)
	}
	return string(out)
}
