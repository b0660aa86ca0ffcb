package schema

import (
	"strings"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"

	"github.com/shapestone/shape-dbc/internal/model"
	"github.com/shapestone/shape-dbc/internal/parser"
)

const sampleDBC = `BO_ 2364540158 EEC1: 8 ECU
 SG_ EngineSpeed : 24|16@1+ (0.125,0) [0|8031.875] "rpm" DASH
BO_ 100 Gearbox: 2 ECU
 SG_ Gear M : 0|4@1+ (1,0) [0|15] "" DASH
 SG_ Ratio m0 : 8|8@0- (0.01,-1.5) [-1.5|1] "" DASH
BO_ 101 Empty: 0 ECU
VAL_ 100 Gear -1 "SNA" 0 "Park" 1 "Drive" ;
VAL_ 999 Nothing 0 "a" 1 "b" ;
`

func newValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := NewValidator()
	if err != nil {
		t.Fatalf("NewValidator() error = %v", err)
	}
	return v
}

func decode(t *testing.T) *model.Result {
	t.Helper()
	result, err := parser.NewParser(sampleDBC).Parse()
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return result
}

func TestValidate_DecodedResult(t *testing.T) {
	result := decode(t)
	if len(result.Problems) == 0 {
		t.Fatal("sample should produce problems")
	}
	if err := newValidator(t).Validate(result); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestValidate_Violations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *model.Result)
		want   string
	}{
		{
			name:   "unknown severity",
			mutate: func(r *model.Result) { r.Problems[0].Severity = "fatal" },
			want:   "severity",
		},
		{
			name:   "extended frame without pgn",
			mutate: func(r *model.Result) { r.Messages[0].PGN = nil },
			want:   "pgn",
		},
		{
			name:   "priority out of range",
			mutate: func(r *model.Result) { p := uint8(9); r.Messages[0].Priority = &p },
			want:   "priority",
		},
		{
			name:   "unknown byte order",
			mutate: func(r *model.Result) { r.Messages[1].Signals[0].ByteOrder = "middle_endian" },
			want:   "byteOrder",
		},
		{
			name:   "index on non-multiplexed signal",
			mutate: func(r *model.Result) { r.Messages[1].Signals[0].Multiplexer.Index = 2 },
			want:   "index",
		},
		{
			name:   "no messages",
			mutate: func(r *model.Result) { r.Messages = []model.Message{} },
			want:   "messages",
		},
	}

	v := newValidator(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := decode(t)
			tt.mutate(result)

			err := v.Validate(result)
			if err == nil {
				t.Fatal("Validate() expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestValidateJSON_Malformed(t *testing.T) {
	if err := newValidator(t).ValidateJSON([]byte(`{"messages": [`)); err == nil {
		t.Error("expected an error for malformed JSON")
	}
}

func TestValidator_Concurrent(t *testing.T) {
	v := newValidator(t)
	valid := decode(t)
	invalid := decode(t)
	invalid.Problems[0].Severity = "fatal"

	const workers = 8
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				errs[i] = v.Validate(valid)
			} else if v.Validate(invalid) == nil {
				errs[i] = errors.New("invalid result passed validation")
			}
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("worker %d: %v", i, err)
		}
	}
}
