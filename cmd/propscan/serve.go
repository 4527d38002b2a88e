package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gnana997/propscan/pkg/analyzer"
	mcpserver "github.com/gnana997/propscan/pkg/mcp"
	"github.com/gnana997/propscan/pkg/mcplog"
)

func (a *app) serveCmd() *cobra.Command {
	var watchRoots []string
	var logFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server on stdio",
		Long: "Start the MCP server on stdin/stdout. With --watch, cached per-file results under the " +
			"given directories are evicted as soon as files change.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := resolveSettings(a.flags)
			if err != nil {
				return err
			}
			logger := s.newLogger(cmd.ErrOrStderr())

			e, err := analyzer.NewEngine(s.engineConfig(logger))
			if err != nil {
				return fmt.Errorf("failed to create analyzer: %w", err)
			}
			defer e.Close()

			for _, root := range watchRoots {
				abs, err := absPath(root)
				if err != nil {
					return err
				}
				fw, err := analyzer.NewFileWatcher(e.Cache(), s.Exclude, logger)
				if err != nil {
					return err
				}
				if err := fw.Start(abs); err != nil {
					return fmt.Errorf("failed to watch %s: %w", abs, err)
				}
				defer fw.Stop()
			}

			callLog, err := mcplog.Open(logFile)
			if err != nil {
				return err
			}
			defer callLog.Close()

			srv := mcpserver.NewServer(e, callLog, logger)
			if err := srv.ServeStdio(); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&watchRoots, "watch", nil, "Directories to watch for changes (repeatable)")
	cmd.Flags().StringVar(&logFile, "log-file", "", "Append a JSONL record of every tool call to this file")
	return cmd
}
