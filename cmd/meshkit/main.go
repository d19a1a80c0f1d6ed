// Command meshkit builds, inspects and repairs polymesh files.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chazu/polymesh/pkg/config"
	"github.com/chazu/polymesh/pkg/logging"
)

var (
	configPath string
	verbose    bool

	// cfg is loaded before any subcommand runs.
	cfg = config.Default()
)

var rootCmd = &cobra.Command{
	Use:           "meshkit",
	Short:         "Build, inspect and repair half-edge polygon meshes",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if verbose {
			loaded.Log.Level = "debug"
		}
		if err := loaded.Apply(); err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "meshkit.toml", "configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(runCmd, checkCmd, infoCmd, compactCmd, sdfCmd, configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logging.Error("meshkit failed", "err", err)
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
