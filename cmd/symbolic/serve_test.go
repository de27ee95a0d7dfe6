package main

import (
	"strings"
	"testing"
)

// runServer initializes the global configuration once per process, so a
// single test covers it.
func TestRunServerDryRun(t *testing.T) {
	defer func() {
		serveFlags.rules = ""
		serveFlags.dryRun = false
		serveFlags.logLevel = ""
	}()
	serveFlags.rules = "testdata/rules"
	serveFlags.logLevel = "error"
	serveFlags.dryRun = true
	cmd, out, _ := newTestCommand()

	if err := runServer(cmd, nil); err != nil {
		t.Fatalf("runServer() error = %v", err)
	}

	output := out.String()
	if !strings.Contains(output, "✓ Rules loaded (3 rules from testdata/rules)") {
		t.Errorf("rules not reported:\n%s", output)
	}
	if !strings.Contains(output, "✓ Configuration valid") {
		t.Errorf("dry run not reported:\n%s", output)
	}
}
