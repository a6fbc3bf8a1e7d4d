package cmd

import (
	"fmt"
	"log"
	"os"
	"seomonitor-backend/cmd/seomonitor-cli/globals"
	"seomonitor-backend/internal/application"
	"seomonitor-backend/internal/components/telemetry"

	"github.com/spf13/cobra"
)

var configPath string
var verbose bool

var rootCmd = &cobra.Command{
	Use:   "seomonitor-cli",
	Short: "seomonitor-cli manages tracked websites and runs the SEO monitoring pipeline by hand.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(verbose)

		cfg, err := application.ReadConfig(configPath)
		if err != nil {
			log.Fatalf("read config %s: %v", configPath, err)
		}
		app, err := application.New(cfg)
		if err != nil {
			log.Fatal(err)
		}
		cmd.SetContext(globals.Set(cmd.Context(), &globals.Value{App: app}))
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		globals.Get(cmd.Context()).App.Close()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.json5", "Path to the configuration file.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging.")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
