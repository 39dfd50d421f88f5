package cli

import (
	"io"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			out, err := execute(t, "completion", shell)
			if err != nil {
				t.Fatalf("completion %s: %v", shell, err)
			}
			if !strings.Contains(out, "licensetower") {
				t.Errorf("completion %s does not mention licensetower", shell)
			}
		})
	}
}

func TestCompletionCommandRejectsUnknownShell(t *testing.T) {
	if _, err := execute(t, "completion", "tcsh"); err == nil {
		t.Error("expected error for unknown shell")
	}
}

func TestDownloadFlagCompletion(t *testing.T) {
	tests := []struct {
		flag      string
		want      []string
		directive cobra.ShellCompDirective
	}{
		{flagSummaryOutput, []string{"xml", "json"}, cobra.ShellCompDirectiveFilterFileExt},
		{flagSummaryFile, []string{"xml", "json"}, cobra.ShellCompDirectiveFilterFileExt},
		{flagPOM, []string{"xml"}, cobra.ShellCompDirectiveFilterFileExt},
		{flagConfig, []string{"toml", "yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt},
		{flagOutputDir, nil, cobra.ShellCompDirectiveFilterDirs},
	}
	cmd := New(io.Discard, LogInfo).downloadCommand()
	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			fn, ok := cmd.GetFlagCompletionFunc(tt.flag)
			if !ok {
				t.Fatalf("no completion registered for --%s", tt.flag)
			}
			got, directive := fn(cmd, nil, "")
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("completions = %v, want %v", got, tt.want)
			}
			if directive != tt.directive {
				t.Errorf("directive = %d, want %d", directive, tt.directive)
			}
		})
	}
}
