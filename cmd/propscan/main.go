// Command propscan inventories which props JSX components receive.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags
var Version = "0.1.0-dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// app carries the global flags shared by every subcommand.
type app struct {
	flags flagValues
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "propscan",
		Short: "Inventory JSX component props across a codebase",
		Long: "propscan parses .js/.jsx/.ts/.tsx files with tree-sitter, records every prop passed to every " +
			"component and answers usage questions as JSON, on the command line or as an MCP server.",
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.flags.configPath, "config", defaultConfigPath, "Project config file")
	pf.StringVar(&a.flags.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVar(&a.flags.logFormat, "log-format", "text", "Log format: text, json")
	pf.IntVar(&a.flags.workers, "workers", 0, "Files analyzed in parallel (0 = based on CPU count)")
	pf.StringSliceVar(&a.flags.include, "include", nil, "Glob patterns to include (relative to the analyzed root)")
	pf.StringSliceVar(&a.flags.exclude, "exclude", nil, "Glob patterns to exclude")
	pf.BoolVar(&a.flags.intrinsic, "intrinsic", false, "Also report lower-case host elements such as div")
	pf.StringVar(&a.flags.identity, "identity", "usage", "Component identity: usage (tag name) or declaration (enclosing component)")
	a.flags.changed = func(name string) bool { return pf.Changed(name) }

	rootCmd.AddCommand(
		a.analyzeCmd(),
		a.usageCmd(),
		a.componentCmd(),
		a.missingCmd(),
		a.serveCmd(),
		a.initCmd(),
		setupCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print the version number",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "propscan %s\n", Version)
			},
		},
	)
	return rootCmd
}
