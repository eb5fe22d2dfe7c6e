package commands

import (
	"github.com/fastnode/sporknet/src/config"
	"github.com/spf13/cobra"
)

var (
	_config = config.NewDefaultConfig()
)

//RootCmd is the root command for sporknet
var RootCmd = &cobra.Command{
	Use:              "sporknet",
	Short:            "sporknet network parameter switches",
	TraverseChildren: true,
}
