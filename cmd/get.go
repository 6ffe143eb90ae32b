// Handles the "gridkit get" command

package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <target> [local directory]",
	Short: "Download a data object",
	Long:  `Download a data object into a local directory (default "."). The directory is created if it does not exist.`,
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		written, err := gridManager.Download(args[0], optionalArg(args, 1, "."))
		if err != nil {
			return errors.Wrap(err, "Download failed")
		}
		fmt.Fprintln(cmd.OutOrStdout(), written)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}
