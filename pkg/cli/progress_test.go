package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestSimpleProgress(t *testing.T) {
	buf := &bytes.Buffer{}
	progress := NewProgressReporter(buf, "tests")

	progress.Start(4)
	progress.Update(2)
	progress.Error(errors.New("mismatch"))
	progress.Finish()

	out := buf.String()
	for _, want := range []string{"2/4 tests", "4/4 tests", "100.0%", "(1 failed)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("Finish did not end the line")
	}
	if progress.Failed() != 1 {
		t.Errorf("Failed() = %d, want 1", progress.Failed())
	}
}

func TestSimpleProgressZeroTotal(t *testing.T) {
	buf := &bytes.Buffer{}
	progress := NewProgressReporter(buf, "files")

	progress.Start(0)
	progress.Update(0)
	progress.Finish()

	if buf.String() != "\n" {
		t.Errorf("output = %q, want a bare newline", buf.String())
	}
}

func TestProgressReporterInterface(t *testing.T) {
	var _ ProgressReporter = NewProgressReporter(nil, "tests")
}
