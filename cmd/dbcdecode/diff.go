package main

import (
	"encoding/json"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/go-logr/logr"
	jd "github.com/josephburnett/jd/lib"
)

// runDiff prints a structural diff between the messages of two DBC files.
// Problems are not compared. Any difference is reported as errProblems so
// the exit status follows diff(1).
func runDiff(log logr.Logger, cfg config, pathA, pathB string, stdout io.Writer) error {
	a, err := messagesJSON(log, cfg, pathA)
	if err != nil {
		return err
	}
	b, err := messagesJSON(log, cfg, pathB)
	if err != nil {
		return err
	}

	nodeA, err := jd.ReadJsonString(a)
	if err != nil {
		return errors.Wrapf(err, "read %s", pathA)
	}
	nodeB, err := jd.ReadJsonString(b)
	if err != nil {
		return errors.Wrapf(err, "read %s", pathB)
	}

	out := nodeA.Diff(nodeB).Render()
	if out == "" {
		log.V(1).Info("no differences", "a", pathA, "b", pathB)
		return nil
	}
	if _, err := io.WriteString(stdout, out); err != nil {
		return errors.Wrap(err, "write diff")
	}
	return errors.Mark(errors.Newf("%s and %s differ", pathA, pathB), errProblems)
}

func messagesJSON(log logr.Logger, cfg config, path string) (string, error) {
	result, err := decode(log, cfg, path)
	if err != nil {
		return "", errors.Wrapf(err, "decode %s", path)
	}
	data, err := json.Marshal(result.Messages)
	if err != nil {
		return "", errors.Wrapf(err, "encode %s", path)
	}
	return string(data), nil
}
