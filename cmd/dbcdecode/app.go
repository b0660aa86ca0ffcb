package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-logr/logr"
	"github.com/tidwall/gjson"

	"github.com/shapestone/shape-dbc/internal/metrics"
	"github.com/shapestone/shape-dbc/pkg/dbc"
)

// Exit codes.
const (
	exitOK       = 0
	exitProblems = 1
	exitFailure  = 2
)

// errProblems marks a decode whose problems reached the fail-on severity.
var errProblems = errors.New("problems at or above the fail-on severity")

func runMain(ctx context.Context, args []string, stdout, stderr io.Writer, loader configLoader) int {
	cfg, err := loadConfig(loader)
	if err != nil {
		fmt.Fprintf(stderr, "invalid configuration: %v\n", err)
		return exitFailure
	}

	cfg, rest, err := parseFlags(cfg, args, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "invalid flags: %v\n", err)
		return exitFailure
	}

	log, err := newLogger(cfg.LogLevel, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "invalid log level: %v\n", err)
		return exitFailure
	}

	if len(rest) > 0 && rest[0] == "diff" {
		if len(rest) != 3 {
			fmt.Fprintln(stderr, "usage: dbcdecode diff A.dbc B.dbc")
			return exitFailure
		}
		return exitCode(log, runDiff(log, cfg, rest[1], rest[2], stdout))
	}

	if len(rest) != 1 {
		fmt.Fprintln(stderr, "usage: dbcdecode [flags] FILE.dbc")
		return exitFailure
	}

	rec := metrics.NewRecorder()
	if cfg.Watch {
		return exitCode(log, watch(ctx, log, rest[0], func() {
			if err := run(log, cfg, rest[0], stdout, rec); err != nil && !errors.Is(err, errProblems) {
				log.Error(err, "decode failed", "file", rest[0])
			}
		}))
	}
	return exitCode(log, run(log, cfg, rest[0], stdout, rec))
}

func exitCode(log logr.Logger, err error) int {
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		return exitOK
	case errors.Is(err, errProblems):
		log.V(1).Info("exiting with problems")
		return exitProblems
	default:
		log.Error(err, "dbcdecode failed")
		return exitFailure
	}
}

// run decodes path once, writes the rendered result to stdout and updates
// the metrics textfile.
func run(log logr.Logger, cfg config, path string, stdout io.Writer, rec *metrics.Recorder) error {
	start := time.Now()
	result, err := decode(log, cfg, path)
	rec.Observe(result, time.Since(start))
	if cfg.MetricsFile != "" {
		if werr := rec.WriteTextfile(cfg.MetricsFile); werr != nil {
			log.Error(werr, "write metrics")
		}
	}
	if err != nil {
		return err
	}

	log.Info("decoded", "file", path,
		"messages", len(result.Messages),
		"signals", result.SignalCount(),
		"problems", len(result.Problems))

	if cfg.Validate {
		if err := dbc.ValidateSchema(result); err != nil {
			return errors.Wrap(err, "schema validation")
		}
	}

	out, err := render(result, cfg)
	if err != nil {
		return err
	}
	if _, err := stdout.Write(out); err != nil {
		return errors.Wrap(err, "write output")
	}

	if cfg.FailOn == failOnNever {
		return nil
	}
	threshold, _ := dbc.ParseSeverity(cfg.FailOn)
	if err := dbc.Check(result, threshold); err != nil {
		return errors.Mark(err, errProblems)
	}
	return nil
}

func decode(log logr.Logger, cfg config, path string) (*dbc.Result, error) {
	opts := dbc.DefaultOptions()
	opts.Logger = log
	opts.Strict = cfg.Strict

	if path == "-" {
		opts.SourceName = "stdin"
		return dbc.ParseReaderWithOptions(os.Stdin, opts)
	}
	return dbc.ParseFile(path, opts)
}

func render(result *dbc.Result, cfg config) ([]byte, error) {
	if cfg.Format == formatTemplate {
		return dbc.RenderTemplate(result, cfg.Template)
	}

	format, err := dbc.ParseOutputFormat(cfg.Format)
	if err != nil {
		return nil, err
	}
	out, err := dbc.Render(result, format)
	if err != nil || cfg.Query == "" {
		return out, err
	}

	value := gjson.GetBytes(out, cfg.Query)
	if !value.Exists() {
		return nil, errors.Newf("query %q matched nothing", cfg.Query)
	}
	if value.Type == gjson.String {
		return []byte(value.String() + "\n"), nil
	}
	return []byte(value.Raw + "\n"), nil
}
