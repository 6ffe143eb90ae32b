// Handles the "gridkit put" command

package cmd

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var putCmd = &cobra.Command{
	Use:   "put <local path> [destination]",
	Short: "Upload a file or directory tree",
	Long: `Upload a local file or directory. A file sent to your home collection or
to an existing collection is stored inside it under its own name; any other
destination is taken as the data object path. A directory named N is mirrored under <destination>/N, creating any
collections it needs before the first file is sent. Relative destinations are
placed under your home collection, which is also the default.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := gridManager.Upload(args[0], optionalArg(args, 1, ""))
		if err != nil {
			return errors.Wrap(err, "Upload failed")
		}
		gridManager.Logger.Info("Successfully uploaded " + plan.Source)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(putCmd)
}
