package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand generates shell completion scripts. Besides commands
// and flags, the scripts complete summary paths with .xml and .json files
// and the dependency list with .txt files.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for licensetower.

Bash:
  $ source <(licensetower completion bash)
  $ licensetower completion bash > /etc/bash_completion.d/licensetower

Zsh:
  $ licensetower completion zsh > "${fpath[1]}/_licensetower"

Fish:
  $ licensetower completion fish > ~/.config/fish/completions/licensetower.fish

PowerShell:
  PS> licensetower completion powershell | Out-String | Invoke-Expression

Start a new shell for the completions to take effect.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	return cmd
}

// registerDownloadCompletions restricts file completion of the download
// flags to the formats each one accepts.
func registerDownloadCompletions(cmd *cobra.Command) {
	summaries := fileExtCompletion("xml", "json")
	for _, name := range []string{flagSummaryFile, flagSummaryOutput} {
		_ = cmd.RegisterFlagCompletionFunc(name, summaries)
	}
	_ = cmd.RegisterFlagCompletionFunc(flagPOM, fileExtCompletion("xml"))
	_ = cmd.RegisterFlagCompletionFunc(flagDependencyList, fileExtCompletion("txt", "log"))
	_ = cmd.RegisterFlagCompletionFunc(flagConfig, fileExtCompletion("toml", "yaml", "yml"))
	_ = cmd.RegisterFlagCompletionFunc(flagOutputDir, dirCompletion)
}

func fileExtCompletion(exts ...string) cobra.CompletionFunc {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return exts, cobra.ShellCompDirectiveFilterFileExt
	}
}

func dirCompletion(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return nil, cobra.ShellCompDirectiveFilterDirs
}
