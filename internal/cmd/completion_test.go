package cmd

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletionCmd(t *testing.T) {
	t.Parallel()

	tests := []struct {
		shell string
		want  string
	}{
		{"bash", "bash completion"},
		{"zsh", "#compdef sysupd"},
		{"fish", "complete -c sysupd"},
	}

	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			t.Parallel()
			root := &cobra.Command{Use: "sysupd"}
			root.AddCommand(NewCompletionCmd(testConfig(t), discardLogger()))

			var buf bytes.Buffer
			require.NoError(t, execute(t, root, &buf, "completion", tt.shell))
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestCompletionCmd_InvalidShell(t *testing.T) {
	t.Parallel()
	root := &cobra.Command{Use: "sysupd"}
	root.AddCommand(NewCompletionCmd(testConfig(t), discardLogger()))

	var buf bytes.Buffer
	assert.Error(t, execute(t, root, &buf, "completion", "powershell"))
}
