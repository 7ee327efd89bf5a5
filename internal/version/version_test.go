package version

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// TestVersionStrings ensures the banner and user agent carry the release version.
func TestVersionStrings(t *testing.T) {
	t.Parallel()

	require.NotEmpty(t, Version)
	require.Contains(t, Banner("control-node"), "control-node "+Version)
	require.Contains(t, Banner("control-node"), Commit)
	require.Equal(t, "lock-status/"+Version, UserAgent("lock-status"))
}

// TestAttachCobraVersionCommand runs the attached subcommand.
func TestAttachCobraVersionCommand(t *testing.T) {
	t.Parallel()

	root := &cobra.Command{Use: "hmi-node"}
	AttachCobraVersionCommand(root)

	var out bytes.Buffer

	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	require.Equal(t, Banner("hmi-node")+"\n", out.String())
}
