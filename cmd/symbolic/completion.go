package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion script for symbolic.

To load completions:

Bash:
  $ source <(symbolic completion bash)
  # To load permanently:
  $ symbolic completion bash > /etc/bash_completion.d/symbolic

Zsh:
  $ symbolic completion zsh > "${fpath[1]}/_symbolic"
  $ compinit

Fish:
  $ symbolic completion fish | source
  # To load permanently:
  $ symbolic completion fish > ~/.config/fish/completions/symbolic.fish

PowerShell:
  PS> symbolic completion powershell | Out-String | Invoke-Expression
`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.ExactArgs(1),
	RunE:      generateCompletion,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.AddCommand(completionCmd)
}

func generateCompletion(cmd *cobra.Command, args []string) error {
	out := stdout(cmd)
	switch args[0] {
	case "bash":
		return rootCmd.GenBashCompletion(out)
	case "zsh":
		return rootCmd.GenZshCompletion(out)
	case "fish":
		return rootCmd.GenFishCompletion(out, true)
	case "powershell":
		return rootCmd.GenPowerShellCompletion(out)
	default:
		return fmt.Errorf("unsupported shell: %s", args[0])
	}
}
