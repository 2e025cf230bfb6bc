// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package cli

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	fabrica "github.com/platform-engineering-labs/fabrica"
	"github.com/platform-engineering-labs/fabrica/internal/cli/demo"
	"github.com/platform-engineering-labs/fabrica/internal/cli/display"
	"github.com/platform-engineering-labs/fabrica/internal/config"
	"github.com/platform-engineering-labs/fabrica/internal/logging"
)

func longDescription() string {
	return display.Tool + ": " + display.Green("The resource registration SDK for deployment engines")
}

var rootCmd = &cobra.Command{
	Use:     display.Tool,
	Short:   display.Tool + " CLI",
	Long:    longDescription(),
	Version: fabrica.Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Keep slog output off the screen; the log file gets it instead.
		verbose, _ := cmd.Flags().GetBool("verbose")
		consoleLevel := logging.NoLoggingLevel
		if verbose {
			consoleLevel = slog.LevelDebug
		}
		logging.SetupProgramLogging(logFilePath(), consoleLevel)
	},
}

func init() {
	rootCmd.SetHelpCommand(&cobra.Command{
		Hidden: true,
	})

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(demo.DemoCmd())

	rootCmd.PersistentFlags().BoolP("help", "h", false, "Show help for "+rootCmd.Use)
	for _, cmd := range rootCmd.Commands() {
		cmd.PersistentFlags().BoolP("help", "h", false, fmt.Sprintf("Show help for %s command", cmd.Name()))
	}
	rootCmd.PersistentFlags().Bool("verbose", false, "Mirror the debug log to the console")

	rootCmd.PersistentFlags().BoolP("version", "v", false, "Show "+rootCmd.Use+" version information")
	rootCmd.SetVersionTemplate(fmt.Sprintf("fabrica version: %s\nprotocol version: %s\ngo version: %s\n",
		fabrica.Version, fabrica.ProtocolVersion, runtime.Version()))
}

func logFilePath() string {
	cfg, err := config.Load(config.DefaultConfig)
	if err != nil {
		// An unreadable config must not take the log file down with it.
		return config.Default().LogFilePath
	}
	return cfg.LogFilePath
}

func Start() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(display.Red("Error: " + err.Error()))
		os.Exit(1)
	}
}
