package commands

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/fastnode/sporknet/src/service"
	"github.com/spf13/cobra"
)

// NewListCmd returns the command that shows the sporks of a node.
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [NAME]",
		Short: "Show sporks",
		Args:  cobra.MaximumNArgs(1),
		RunE:  list,
	}

	addServiceFlag(cmd)

	return cmd
}

func list(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		info, err := getSpork(args[0])
		if err != nil {
			return err
		}
		printSporks(cmd.OutOrStdout(), info)
		return nil
	}

	infos, err := getSporks()
	if err != nil {
		return err
	}

	printSporks(cmd.OutOrStdout(), infos...)

	return nil
}

func printSporks(out io.Writer, infos ...service.SporkInfo) {
	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)

	fmt.Fprintln(w, "ID\tNAME\tVALUE\tACTIVE\tSIGNED")
	for _, i := range infos {
		signed := "-"
		if i.TimeSigned != 0 {
			signed = time.Unix(i.TimeSigned, 0).UTC().Format(time.RFC3339)
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%t\t%s\n", i.ID, i.Name, i.Value, i.Active, signed)
	}

	w.Flush()
}
