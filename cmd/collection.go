// Small single-operation commands: exists, mkcoll, whoami.

package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var existsCmd = &cobra.Command{
	Use:   "exists <target>",
	Short: "Report whether a data object or collection exists",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := gridManager.Resolve(args[0])
		kind, ok := gridManager.Exists(args[0])
		if !ok {
			return errors.Errorf("%s does not exist", p)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "[%v] %s\n", kind, p)
		return nil
	},
}

var mkcollCmd = &cobra.Command{
	Use:   "mkcoll <target>",
	Short: "Create a collection and any missing parents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		coll, err := gridManager.MakeCollection(args[0])
		if err != nil {
			return errors.Wrap(err, "Failed to create collection")
		}
		gridManager.Logger.Info("Created collection " + coll.Path)
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Print the configured user and home collection",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", gridManager.Cfg.User, gridManager.Cfg.HomeCollection())
	},
}

func init() {
	rootCmd.AddCommand(existsCmd)
	rootCmd.AddCommand(mkcollCmd)
	rootCmd.AddCommand(whoamiCmd)
}
