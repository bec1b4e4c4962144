// Package cli provides the command-line interface for sleeplog.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/sleeplog/internal/cli/commands"
	"github.com/ccollicutt/sleeplog/internal/cli/plugins"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	rootCmd := NewRootCommand()

	// Check if the first argument might be a plugin command
	if len(os.Args) > 1 {
		potentialCommand := os.Args[1]
		// Skip flags (start with -)
		if len(potentialCommand) > 0 && potentialCommand[0] != '-' {
			// Check if it's a known built-in command
			if !isBuiltinCommand(rootCmd, potentialCommand) {
				// Try to find and execute a plugin
				if pluginPath, err := plugins.FindPlugin(potentialCommand); err == nil {
					// Plugin found - execute it with remaining args
					return plugins.Execute(pluginPath, os.Args[2:])
				}
				// Plugin not found - will fall through to Cobra which will show error
			}
		}
	}

	if err := rootCmd.Execute(); err != nil {
		// Check if this was an unknown command that could be a plugin
		if len(os.Args) > 1 {
			potentialCommand := os.Args[1]
			if len(potentialCommand) > 0 && potentialCommand[0] != '-' {
				if !isBuiltinCommand(rootCmd, potentialCommand) {
					// Show helpful plugin error message
					_, _ = fmt.Fprintln(os.Stderr, plugins.FormatNotFoundError(potentialCommand))
					return 2
				}
			}
		}
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2 // Configuration, parse or runtime error
	}
	return commands.ExitCode
}

// isBuiltinCommand checks if a command name is a built-in cobra command.
func isBuiltinCommand(rootCmd *cobra.Command, name string) bool {
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == name || cmd.HasAlias(name) {
			return true
		}
	}
	// Also check for special commands like help and completion
	return name == "help" || name == "completion"
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sleeplog",
		Short: "Analyze infant sleep from activity logs",
		Long: `sleeplog parses infant activity logs and summarizes sleep patterns.

Each log is a sequence of records terminated by a delimiter line:

  2020-01-23 11:00 PM ~ 2020-01-24 06:00 AM
  Type: Night sleep
  ====================

It reports:
  - Daily nap and night-sleep totals, counts and longest stretch
  - Duration histograms
  - Correlations between napping and the same day's night sleep

A .env file in the working directory is loaded at startup, so
SLEEPLOG_SOURCES and SLEEPLOG_TIMEZONE can be set there.

PLUGINS:
  sleeplog supports plugins for extended functionality. Plugins are standalone
  binaries named sleeplog-<command> that are automatically discovered and invoked.

  Plugin locations (searched in order):
    1. $SLEEPLOG_PLUGIN_DIR
    2. Same directory as the sleeplog binary
    3. ~/.sleeplog/plugins/
    4. Anywhere in PATH

  Used by built-in commands:
    plot     Renders figures from the JSON figure data on stdin`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add subcommands
	rootCmd.AddCommand(commands.NewAnalyzeCommand())
	rootCmd.AddCommand(commands.NewDetectCommand())
	rootCmd.AddCommand(commands.NewParseCommand())
	rootCmd.AddCommand(commands.NewPlotCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
