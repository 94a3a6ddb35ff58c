package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"codeberg.org/snonux/hebrewtrainer/internal/cli"
	"codeberg.org/snonux/hebrewtrainer/internal/processor"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command; the processor is built once config is loaded
	rootCmd := cli.CreateRootCommand(flags, func(flags *cli.Flags) (cli.Runner, error) {
		return processor.NewProcessor(flags)
	})

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.SetupLogging(flags.Debug)
		cli.InitConfig(flags.CfgFile)
	})

	// Execute command
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
