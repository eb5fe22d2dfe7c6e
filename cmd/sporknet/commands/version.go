package commands

import (
	"fmt"

	"github.com/fastnode/sporknet/src/version"
	"github.com/spf13/cobra"
)

// VersionCmd displays the version of sporknet being used
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version info",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.Version)
	},
}
