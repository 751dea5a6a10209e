package version

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// TestVersionStrings ensures Short and Full return consistent information.
func TestVersionStrings(t *testing.T) {
	t.Parallel()

	require.NotEmpty(t, Short())
	require.Contains(t, Full(), Short())
	require.Contains(t, Full(), Commit)
	require.Len(t, KV(), 6)
}

// TestAttachCobraVersionCommand runs the version subcommand with and without --short.
func TestAttachCobraVersionCommand(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name string
		args []string
		want string
	}{
		{name: "full", args: []string{"version"}, want: Full()},
		{name: "short", args: []string{"version", "--short"}, want: Short()},
	} {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			root := &cobra.Command{Use: "tool"}
			AttachCobraVersionCommand(root)

			var out bytes.Buffer
			root.SetOut(&out)
			root.SetArgs(tc.args)

			require.NoError(t, root.Execute())
			require.Equal(t, tc.want, strings.TrimSpace(out.String()))
		})
	}
}
