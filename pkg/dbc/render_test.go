package dbc_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shapestone/shape-core/pkg/ast"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/shapestone/shape-dbc/pkg/dbc"
)

func mustParse(t *testing.T, input string) *dbc.Result {
	t.Helper()
	result, err := dbc.Parse(input)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return result
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		name    string
		want    dbc.OutputFormat
		wantErr bool
	}{
		{"json", dbc.FormatJSON, false},
		{" YAML ", dbc.FormatYAML, false},
		{"text", dbc.FormatText, false},
		{"csv", dbc.FormatCSV, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := dbc.ParseOutputFormat(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseOutputFormat() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseOutputFormat() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRender_JSON(t *testing.T) {
	out, err := dbc.Render(mustParse(t, vehicleDBC), dbc.FormatJSON)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	checks := map[string]string{
		"messages.#":                              "2",
		"messages.0.pgn":                          "61444",
		"messages.0.source":                       "254",
		"messages.0.lineInDbc":                    "9",
		"messages.1.dlc":                          "2",
		"messages.1.signals.0.multiplexer.role":   "switch",
		"messages.1.signals.1.multiplexer.index":  "1",
		"messages.1.signals.0.states.3":           "Drive",
		"messages.1.signals.1.byteOrder":          "big_endian",
		"messages.1.signals.1.label":              "gearbox_ratio",
		"problems.#":                              "0",
	}
	for path, want := range checks {
		if got := gjson.GetBytes(out, path).String(); got != want {
			t.Errorf("%s = %q, want %q", path, got, want)
		}
	}
	if gjson.GetBytes(out, "messages.1.pgn").Exists() {
		t.Error("standard frame should not carry a PGN")
	}
}

func TestRender_JSONRoundTrip(t *testing.T) {
	result := mustParse(t, vehicleDBC)
	out, err := dbc.Render(result, dbc.FormatJSON)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	var back dbc.Result
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if diff := cmp.Diff(result, &back); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_YAML(t *testing.T) {
	out, err := dbc.Render(mustParse(t, vehicleDBC), dbc.FormatYAML)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	var doc struct {
		Messages []struct {
			Name    string `yaml:"name"`
			PGN     *int   `yaml:"pgn"`
			Signals []struct {
				Name   string           `yaml:"name"`
				States map[int64]string `yaml:"states"`
			} `yaml:"signals"`
		} `yaml:"messages"`
	}
	if err := yaml.Unmarshal(out, &doc); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v\n%s", err, out)
	}
	if len(doc.Messages) != 2 || doc.Messages[0].Name != "EEC1" || doc.Messages[0].PGN == nil {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if doc.Messages[1].Signals[0].States[1] != "Reverse" {
		t.Errorf("states not rendered: %+v", doc.Messages[1].Signals[0])
	}
}

func TestRender_Text(t *testing.T) {
	input := vehicleDBC + "VAL_ 555 Nope 0 \"a\" 1 \"b\" ;\n"
	out, err := dbc.Render(mustParse(t, input), dbc.FormatText)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	got := string(out)
	for _, want := range []string{
		"2 message(s), 3 signal(s), 1 problem(s)",
		"EEC1 (line 9)",
		"  CAN ID 2364540158, 8 byte(s), extended: priority 3, PGN 61444, source 254",
		"  Gear 0|4 little_endian unsigned (1,0) [0|15] M",
		"  Ratio 8|8 big_endian signed (0.01,-1.5) [-1.5|1] m1",
		`      states: 0="Park" 1="Reverse" 2="Neutral" 3="Drive"`,
		"Problems:\n  line 17: info:\n    VAL_ line could not be matched",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("text output missing %q:\n%s", want, got)
		}
	}
}

func TestRender_Errors(t *testing.T) {
	if _, err := dbc.Render(nil, dbc.FormatJSON); err == nil {
		t.Error("expected an error for a nil result")
	}
	if _, err := dbc.Render(&dbc.Result{}, "xml"); err == nil {
		t.Error("expected an error for an unknown format")
	}
}

func TestRenderTemplate(t *testing.T) {
	result := mustParse(t, vehicleDBC)

	out, err := dbc.RenderTemplate(result, `{{ range .Messages }}{{ .Label | upper }}={{ printf "0x%X" .CanID }}{{ range .Signals }} {{ .Name | snakecase }}{{ end }}
{{ end }}`)
	if err != nil {
		t.Fatalf("RenderTemplate() error = %v", err)
	}

	want := "EEC1=0x8CF004FE engine_speed\nGEARBOX=0x64 gear ratio\n"
	if string(out) != want {
		t.Errorf("RenderTemplate() = %q, want %q", out, want)
	}

	if _, err := dbc.RenderTemplate(result, "{{ .Missing "); err == nil {
		t.Error("expected a template parse error")
	}
	if _, err := dbc.RenderTemplate(result, "{{ .Missing }}"); err == nil {
		t.Error("expected a template execution error")
	}
}

func TestSignalTable(t *testing.T) {
	node := dbc.SignalTable(mustParse(t, vehicleDBC))

	records := node.Elements()
	if len(records) != 4 {
		t.Fatalf("got %d records, want header + 3 signals", len(records))
	}

	header := records[0].(*ast.ArrayDataNode).Elements()
	if len(header) != len(dbc.TableHeader) {
		t.Fatalf("header has %d fields", len(header))
	}

	gear := records[2].(*ast.ArrayDataNode).Elements()
	states := gear[15].(*ast.LiteralNode).Value()
	if states != "0=Park;1=Reverse;2=Neutral;3=Drive" {
		t.Errorf("states field = %v", states)
	}
}

func TestRender_CSV(t *testing.T) {
	input := "BO_ 1 A: 8 X\n SG_ S : 0|8@1+ (1,0) [0|255] \"km, total\" X\nVAL_ 1 S 0 \"say \\\"hi\\\"\" 1 \"b\" ;\n"
	out, err := dbc.Render(mustParse(t, input), dbc.FormatCSV)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(string(out), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines:\n%s", len(lines), out)
	}
	if lines[0] != strings.Join(dbc.TableHeader, ",") {
		t.Errorf("header = %q", lines[0])
	}
	want := `A,1,,S,a_s,,0,8,little_endian,false,1,0,0,255,"km, total","0=say ""hi"";1=b",2`
	if lines[1] != want {
		t.Errorf("row = %q, want %q", lines[1], want)
	}
}

func TestRenderTable_Nil(t *testing.T) {
	out, err := dbc.RenderTable(nil)
	if err != nil || len(out) != 0 {
		t.Errorf("RenderTable(nil) = %q, %v", out, err)
	}
}
