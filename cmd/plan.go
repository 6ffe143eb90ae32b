// The 'gridkit plan' command. Prints the actions 'gridkit put' would take
// without contacting the store.
package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan <local path> [destination]",
	Short: "Show what an upload would do",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := gridManager.Plan(args[0], optionalArg(args, 1, ""))
		if err != nil {
			return errors.Wrap(err, "Planning failed")
		}

		out := cmd.OutOrStdout()
		for _, c := range plan.Collections {
			fmt.Fprintf(out, "mkcoll %s\n", c.Remote)
		}
		for _, t := range plan.Transfers {
			fmt.Fprintf(out, "put    %s -> %s\n", t.Local, t.Remote)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
}
