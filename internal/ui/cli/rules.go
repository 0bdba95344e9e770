package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tscheck/internal/engine/rules"
)

func newRulesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the available rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "RULE\tDEFAULT\tDESCRIPTION")
			for _, r := range rules.All() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Name, r.DefaultSeverity, r.Description)
			}
			return tw.Flush()
		},
	}
}
