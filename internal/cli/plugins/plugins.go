// Package plugins provides exec-based plugin support for sleeplog.
// Plugins are separate binaries named sleeplog-<command> that are discovered
// and executed when an unknown command is invoked. Figure rendering is
// delegated to the sleeplog-plot plugin this way.
package plugins

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Prefix is prepended to a command name to form the plugin binary name.
const Prefix = "sleeplog-"

// EnvPluginDir names an extra directory searched before all others.
const EnvPluginDir = "SLEEPLOG_PLUGIN_DIR"

// PlotCommand is the plugin that renders figure data.
const PlotCommand = "plot"

// KnownPlugins lists plugins that have official implementations available.
// These get special error messages directing users where to obtain them.
var KnownPlugins = map[string]string{
	PlotCommand: "Renders sleep histograms, daily totals and nap/sleep scatter plots from JSON figure data on stdin.",
}

// ErrPluginNotFound is returned when no plugin binary can be located.
var ErrPluginNotFound = errors.New("plugin not found")

// FindPlugin searches for a plugin binary named sleeplog-<command>.
// It searches in the following locations in order:
//  1. $SLEEPLOG_PLUGIN_DIR
//  2. Same directory as the sleeplog binary
//  3. ~/.sleeplog/plugins/
//  4. Anywhere in PATH
//
// Returns the full path to the plugin binary if found.
func FindPlugin(command string) (string, error) {
	pluginName := Prefix + command

	for _, dir := range searchDirs() {
		candidate := filepath.Join(dir, pluginName)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}

	if path, err := exec.LookPath(pluginName); err == nil {
		return path, nil
	}

	return "", ErrPluginNotFound
}

func searchDirs() []string {
	var dirs []string
	if dir := os.Getenv(EnvPluginDir); dir != "" {
		dirs = append(dirs, dir)
	}
	if execPath, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(execPath))
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(homeDir, ".sleeplog", "plugins"))
	}
	return dirs
}

// Streams are the standard streams handed to a plugin process.
type Streams struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// StdStreams returns the process's own standard streams.
func StdStreams() Streams {
	return Streams{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Execute runs a plugin with the given arguments.
// It connects stdin, stdout, and stderr to the plugin process
// and returns the plugin's exit code.
func Execute(pluginPath string, args []string) int {
	code, err := Run(context.Background(), pluginPath, args, StdStreams())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error executing plugin: %v\n", err)
	}
	return code
}

// Run executes a plugin with explicit streams. A non-zero exit from the
// plugin is reported through the code with a nil error; err is set only
// when the process could not be run at all, and the code is then 1.
func Run(ctx context.Context, pluginPath string, args []string, streams Streams) (int, error) {
	cmd := exec.CommandContext(ctx, pluginPath, args...)
	cmd.Stdin = streams.Stdin
	cmd.Stdout = streams.Stdout
	cmd.Stderr = streams.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return 1, err
	}

	return 0, nil
}

// FormatNotFoundError returns a helpful error message when a plugin is not found.
// If the command is a known plugin, includes information about what it does.
func FormatNotFoundError(command string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("unknown command %q for \"sleeplog\"\n", command))

	if info, ok := KnownPlugins[command]; ok {
		sb.WriteString(fmt.Sprintf("\n%q is available as a plugin.\n", command))
		sb.WriteString(info)
		sb.WriteString("\n\nInstall the plugin binary as one of:\n")
	} else {
		sb.WriteString("\nIf this is a plugin, install the binary as one of:\n")
	}

	sb.WriteString(fmt.Sprintf("  - %s/%s%s\n", "$"+EnvPluginDir, Prefix, command))
	sb.WriteString(fmt.Sprintf("  - %s%s in the same directory as sleeplog\n", Prefix, command))
	sb.WriteString(fmt.Sprintf("  - ~/.sleeplog/plugins/%s%s\n", Prefix, command))
	sb.WriteString(fmt.Sprintf("  - %s%s anywhere in your PATH\n", Prefix, command))

	sb.WriteString("\nRun 'sleeplog --help' for usage.")

	return sb.String()
}

// isExecutable checks if a file exists and is executable.
func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return info.Mode().IsRegular() && info.Mode()&0111 != 0
}
