package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewPublishCmd returns the command that publishes a new spork value through
// the HTTP service of the authority node.
func NewPublishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish NAME VALUE",
		Short: "Publish a new spork value",
		Long: `Publish a new spork value.

The node behind --service must have been started with the master key. VALUE is
an integer, or "on" / "off" for time-switched sporks.`,
		Args: cobra.ExactArgs(2),
		RunE: publish,
	}

	addServiceFlag(cmd)

	return cmd
}

func publish(cmd *cobra.Command, args []string) error {
	value, err := parseValue(args[1])
	if err != nil {
		return fmt.Errorf("Invalid value %s: %s", args[1], err)
	}

	info, err := postSpork(args[0], value)
	if err != nil {
		return err
	}

	printSporks(cmd.OutOrStdout(), info)

	return nil
}
