package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gnana997/propscan/pkg/analyzer"
)

// withEngine resolves settings, builds an Engine and runs fn with it.
func (a *app) withEngine(cmd *cobra.Command, fn func(e *analyzer.Engine) (any, error)) error {
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

	result, err := fn(e)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), result)
}

func (a *app) analyzeCmd() *cobra.Command {
	var component, prop string
	var noTypes bool

	cmd := &cobra.Command{
		Use:   "analyze <path>",
		Short: "Report every prop passed to every component under path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := absPath(args[0])
			if err != nil {
				return err
			}
			return a.withEngine(cmd, func(e *analyzer.Engine) (any, error) {
				return e.AnalyzeProps(cmd.Context(), analyzer.AnalyzeRequest{
					Path:          path,
					ComponentName: component,
					PropName:      prop,
					IncludeTypes:  analyzer.Bool(!noTypes),
				})
			})
		},
	}
	cmd.Flags().StringVar(&component, "component", "", "Only report this component")
	cmd.Flags().StringVar(&prop, "prop", "", "Only report this prop")
	cmd.Flags().BoolVar(&noTypes, "no-types", false, "Skip props type resolution")
	return cmd
}

func (a *app) usageCmd() *cobra.Command {
	var component string

	cmd := &cobra.Command{
		Use:   "usage <prop> <path>",
		Short: "Find every place a prop is passed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := absPath(args[1])
			if err != nil {
				return err
			}
			return a.withEngine(cmd, func(e *analyzer.Engine) (any, error) {
				return e.FindPropUsage(cmd.Context(), analyzer.PropUsageRequest{
					PropName:      args[0],
					Path:          path,
					ComponentName: component,
				})
			})
		},
	}
	cmd.Flags().StringVar(&component, "component", "", "Only report usages on this component")
	return cmd
}

func (a *app) componentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "component <name> <path>",
		Short: "List every usage site of a component, grouped by file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := absPath(args[1])
			if err != nil {
				return err
			}
			return a.withEngine(cmd, func(e *analyzer.Engine) (any, error) {
				return e.GetComponentProps(cmd.Context(), analyzer.ComponentPropsRequest{
					ComponentName: args[0],
					Path:          path,
				})
			})
		},
	}
}

func (a *app) missingCmd() *cobra.Command {
	var noAssumeSpread bool

	cmd := &cobra.Command{
		Use:   "missing <component> <prop> <path>",
		Short: "Find instances of a component that do not pass a prop",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := absPath(args[2])
			if err != nil {
				return err
			}
			return a.withEngine(cmd, func(e *analyzer.Engine) (any, error) {
				return e.FindComponentsWithoutProp(cmd.Context(), analyzer.MissingPropRequest{
					ComponentName:               args[0],
					RequiredProp:                args[1],
					Path:                        path,
					AssumeSpreadHasRequiredProp: analyzer.Bool(!noAssumeSpread),
				})
			})
		},
	}
	cmd.Flags().BoolVar(&noAssumeSpread, "no-assume-spread", false, "Count instances with a spread attribute as missing the prop")
	return cmd
}

func (a *app) initCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default project config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.flags.configPath
			if path == "" {
				path = defaultConfigPath
			}
			if err := writeDefaultConfig(path, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}

// absPath makes a command line path absolute against the working directory.
func absPath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}
	return abs, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	return nil
}
