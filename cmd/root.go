// Root of command-line argument parsing.
// This file was based off the standard cobra template, see
// https://github.com/spf13/cobra
package cmd

import (
	"fmt"
	"os"

	"github.com/serverlessresearch/gridkit/pkg/gridmgr"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var cfgFile string
var verbose bool

var gridManager *gridmgr.GridManager

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gridkit",
	Short: "Move files and directories to and from a data grid",
	Long: `gridkit mirrors local files and directory trees into remote collections
and data objects. Credentials are read from the ` + gridmgr.UserEnv + ` and
` + gridmgr.PasswordEnv + ` environment variables.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger := logrus.New()
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		}

		mgrArgs := map[string]interface{}{"logger": logger}
		if cfgFile != "" {
			mgrArgs["config-file"] = cfgFile
		}

		var err error
		gridManager, err = gridmgr.NewManager(mgrArgs)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize grid session: %v\n", err)
			os.Exit(1)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		gridManager.Destroy()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if gridManager == nil || gridManager.Logger == nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
		} else {
			gridManager.Logger.Error(err)
		}
		os.Exit(1)
	}
}

// optionalArg returns args[i] if present, otherwise def.
func optionalArg(args []string, i int, def string) string {
	if len(args) > i {
		return args[i]
	}
	return def
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is configs/gridkit.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every remote action")
}
