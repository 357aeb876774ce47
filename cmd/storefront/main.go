package main

import (
	"fmt"
	"os"

	"github.com/rgimusa/storefront/config"
	"github.com/spf13/cobra"
)

var (
	Version   = "develop"
	BuildTime = "unknown"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:           "storefront",
	Short:         "RGIM storefront: catalog, cart, checkout and order review",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "storefront %s (built %s)\n", Version, BuildTime)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "yaml config file")
	rootCmd.AddCommand(versionCmd)
}

func loadConfig() *config.AppConfig {
	return config.LoadConfig(configFile)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
