package main

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/jacksmith/wallsafe/internal/desktop"
	"github.com/jacksmith/wallsafe/internal/settings"
	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for wallsafe.

Bash:
  $ source <(wallsafe completion bash)
  # To load completions for each session, execute once:
  $ wallsafe completion bash > /etc/bash_completion.d/wallsafe

Zsh:
  $ wallsafe completion zsh > "${fpath[1]}/_wallsafe"
  # Start a new shell for this setup to take effect.

Fish:
  $ wallsafe completion fish > ~/.config/fish/completions/wallsafe.fish
`,
}

func init() {
	for _, shell := range []string{"bash", "zsh", "fish"} {
		completionCmd.AddCommand(&cobra.Command{
			Use:   shell,
			Short: fmt.Sprintf("Generate %s completion script", shell),
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return genCompletion(shell)
			},
		})
	}
	rootCmd.AddCommand(completionCmd)
}

func genCompletion(shell string) error {
	switch shell {
	case "bash":
		return rootCmd.GenBashCompletionV2(os.Stdout, true)
	case "zsh":
		return rootCmd.GenZshCompletion(os.Stdout)
	case "fish":
		return rootCmd.GenFishCompletion(os.Stdout, true)
	}
	return fmt.Errorf("unsupported shell %q", shell)
}

// completeKeywords offers configured keywords, skipping ones already on the
// command line. Commands taking at most one keyword stop after the first.
func completeKeywords(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if cmd.Args != nil && cmd.Args(cmd, append(slices.Clone(args), "")) != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	a, err := openApp()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	defer a.Close()

	var completions []string
	for _, kw := range a.index.Keywords() {
		if slices.Contains(args, kw) || !strings.HasPrefix(kw, toComplete) {
			continue
		}
		completions = append(completions, fmt.Sprintf("%s\tcursor %d", kw, a.index.Get(kw)))
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}

// completeFilters offers filter names with their kind.
func completeFilters(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var completions []string
	for _, f := range settings.Filters() {
		name := strings.ToLower(f.String())
		if slices.Contains(args, name) || !strings.HasPrefix(name, strings.ToLower(toComplete)) {
			continue
		}
		completions = append(completions, name+"\t"+filterKind(f))
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}

func completeModes(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var completions []string
	for _, m := range desktop.Modes() {
		completions = append(completions, string(m))
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}
