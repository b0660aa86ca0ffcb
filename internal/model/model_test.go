package model

import "testing"

func TestMultiplexer_String(t *testing.T) {
	tests := []struct {
		mux  Multiplexer
		want string
	}{
		{Multiplexer{Role: MultiplexerNone}, ""},
		{Multiplexer{}, ""},
		{Multiplexer{Role: MultiplexerSwitch}, "M"},
		{Multiplexer{Role: MultiplexerMultiplexed, Index: 3}, "m3"},
	}

	for _, tt := range tests {
		if got := tt.mux.String(); got != tt.want {
			t.Errorf("%+v.String() = %q, want %q", tt.mux, got, tt.want)
		}
	}
}

func TestSeverity_Rank(t *testing.T) {
	if !(SeverityInfo.Rank() < SeverityWarning.Rank() && SeverityWarning.Rank() < SeverityError.Rank()) {
		t.Fatal("severities are not ordered info < warning < error")
	}
	if Severity("fatal").Rank() != 0 {
		t.Error("unknown severity should rank 0")
	}
}

func TestParseSeverity(t *testing.T) {
	for _, name := range []string{"info", "warning", "error"} {
		s, err := ParseSeverity(name)
		if err != nil || string(s) != name {
			t.Errorf("ParseSeverity(%q) = %q, %v", name, s, err)
		}
	}
	if _, err := ParseSeverity("fatal"); err == nil {
		t.Error("ParseSeverity(fatal) expected error")
	}
}

func TestProblem_String(t *testing.T) {
	p := Problem{Severity: SeverityWarning, Line: 12, Description: "duplicate"}
	if got, want := p.String(), "line 12: warning: duplicate"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestResult(t *testing.T) {
	r := Result{
		Messages: []Message{
			{CanID: 1, Signals: []Signal{{Name: "a"}, {Name: "b"}}},
			{CanID: 2, Signals: []Signal{{Name: "c"}}},
			{CanID: 1},
		},
		Problems: []Problem{
			{Severity: SeverityInfo},
			{Severity: SeverityWarning},
			{Severity: SeverityInfo},
		},
	}

	if got := r.SignalCount(); got != 3 {
		t.Errorf("SignalCount() = %d, want 3", got)
	}
	if got := r.Count(SeverityInfo); got != 2 {
		t.Errorf("Count(info) = %d, want 2", got)
	}
	if r.HasErrors() {
		t.Error("HasErrors() = true, want false")
	}
	if got := r.Worst(); got != SeverityWarning {
		t.Errorf("Worst() = %q, want warning", got)
	}

	m, ok := r.Message(1)
	if !ok || len(m.Signals) != 2 {
		t.Fatalf("Message(1) should return the first message with id 1")
	}
	if s, ok := m.Signal("b"); !ok || s.Name != "b" {
		t.Errorf("Signal(b) = %v, %v", s, ok)
	}
	if _, ok := m.Signal("z"); ok {
		t.Error("Signal(z) should not be found")
	}
	if _, ok := r.Message(99); ok {
		t.Error("Message(99) should not be found")
	}

	empty := Result{}
	if empty.Worst() != "" {
		t.Error("Worst() of empty result should be empty")
	}
}
