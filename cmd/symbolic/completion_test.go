package main

import (
	"strings"
	"testing"
)

func TestGenerateCompletion(t *testing.T) {
	tests := []struct {
		shell string
		want  string
	}{
		{shell: "bash", want: "symbolic"},
		{shell: "zsh", want: "#compdef symbolic"},
		{shell: "fish", want: "complete -c symbolic"},
		{shell: "powershell", want: "symbolic"},
	}

	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			cmd, out, _ := newTestCommand()

			if err := generateCompletion(cmd, []string{tt.shell}); err != nil {
				t.Fatalf("generateCompletion(%s) error = %v", tt.shell, err)
			}
			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("%s completion does not contain %q", tt.shell, tt.want)
			}
		})
	}
}

func TestGenerateCompletionUnsupported(t *testing.T) {
	if err := generateCompletion(nil, []string{"tcsh"}); err == nil {
		t.Error("generateCompletion() with unsupported shell should return error")
	}
}
