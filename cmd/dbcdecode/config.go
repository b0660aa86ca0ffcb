package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ilyakaznacheev/cleanenv"

	"github.com/shapestone/shape-dbc/pkg/dbc"
)

const (
	defaultFormat   = "json"
	defaultFailOn   = "error"
	defaultLogLevel = "info"

	formatTemplate = "template"
	failOnNever    = "never"
)

type configLoader func(interface{}) error

type config struct {
	Format      string `env:"DBC_FORMAT" env-default:"json"`
	Template    string `env:"DBC_TEMPLATE"`
	Query       string `env:"DBC_QUERY"`
	Strict      bool   `env:"DBC_STRICT"`
	Validate    bool   `env:"DBC_VALIDATE"`
	FailOn      string `env:"DBC_FAIL_ON" env-default:"error"`
	MetricsFile string `env:"DBC_METRICS_FILE"`
	LogLevel    string `env:"DBC_LOG_LEVEL" env-default:"info"`
	Watch       bool   `env:"DBC_WATCH"`
}

func readEnvConfig(target interface{}) error {
	return cleanenv.ReadEnv(target)
}

func loadConfig(loader configLoader) (config, error) {
	cfg := config{
		Format:   defaultFormat,
		FailOn:   defaultFailOn,
		LogLevel: defaultLogLevel,
	}
	if loader == nil {
		loader = func(interface{}) error { return nil }
	}
	if err := loader(&cfg); err != nil {
		return config{}, errors.Wrap(err, "read environment")
	}
	return normalize(cfg)
}

// parseFlags overrides cfg with command-line flags and returns the
// remaining positional arguments.
func parseFlags(cfg config, args []string, output io.Writer) (config, []string, error) {
	fs := flag.NewFlagSet("dbcdecode", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprintf(output, "Usage:\n  dbcdecode [flags] FILE.dbc\n  dbcdecode diff A.dbc B.dbc\n\nFlags:\n")
		fs.PrintDefaults()
	}

	fs.StringVar(&cfg.Format, "format", cfg.Format, "output format: json, yaml, text, csv or template")
	fs.StringVar(&cfg.Template, "template", cfg.Template, "text/template source used by -format=template")
	fs.StringVar(&cfg.Query, "query", cfg.Query, "gjson path applied to the JSON output")
	fs.BoolVar(&cfg.Strict, "strict", cfg.Strict, "cross-check with the reference DBC parser")
	fs.BoolVar(&cfg.Validate, "validate", cfg.Validate, "validate the result against the output schema")
	fs.StringVar(&cfg.FailOn, "fail-on", cfg.FailOn, "exit non-zero on problems at this severity: never, info, warning or error")
	fs.StringVar(&cfg.MetricsFile, "metrics-file", cfg.MetricsFile, "write Prometheus metrics to this textfile")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")
	fs.BoolVar(&cfg.Watch, "watch", cfg.Watch, "decode again whenever the file changes")

	if err := fs.Parse(args); err != nil {
		return config{}, nil, err
	}

	cfg, err := normalize(cfg)
	if err != nil {
		return config{}, nil, err
	}
	return cfg, fs.Args(), nil
}

func normalize(cfg config) (config, error) {
	cfg.Format = strings.ToLower(strings.TrimSpace(cfg.Format))
	cfg.FailOn = strings.ToLower(strings.TrimSpace(cfg.FailOn))

	if cfg.Format == "" {
		cfg.Format = defaultFormat
	}
	if cfg.FailOn == "" {
		cfg.FailOn = defaultFailOn
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}

	if cfg.Format == formatTemplate {
		if cfg.Template == "" {
			return config{}, errors.New("format template needs a template")
		}
	} else if _, err := dbc.ParseOutputFormat(cfg.Format); err != nil {
		return config{}, err
	}

	if cfg.Query != "" && cfg.Format != string(dbc.FormatJSON) {
		return config{}, errors.Newf("query needs JSON output, not %s", cfg.Format)
	}

	if cfg.FailOn != failOnNever {
		if _, err := dbc.ParseSeverity(cfg.FailOn); err != nil {
			return config{}, errors.Wrap(err, "fail-on")
		}
	}

	return cfg, nil
}
