package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
)

const serverName = "propscan"

// AgentDef describes where one MCP client keeps its server list.
type AgentDef struct {
	ID          string
	DisplayName string
	DirMarkers  []string          // dirs that indicate the client is used in this project
	ConfigPath  func() string     // resolved config file path
	ServersKey  string            // "servers" (VS Code) or "mcpServers" (others)
	ExtraFields map[string]string // extra JSON fields, e.g. "type": "stdio"
}

// DetectedAgent is a client found for the current project.
type DetectedAgent struct {
	Def            AgentDef
	AlreadySetup   bool
	ResolvedConfig string
}

// Replaceable for testing.
var statFunc = os.Stat

var agentRegistry = []AgentDef{
	{
		ID: "mcp_json", DisplayName: "Project .mcp.json",
		ConfigPath: func() string { return ".mcp.json" },
		ServersKey: "mcpServers",
	},
	{
		ID: "vscode", DisplayName: "VS Code",
		DirMarkers:  []string{".vscode"},
		ConfigPath:  func() string { return filepath.Join(".vscode", "mcp.json") },
		ServersKey:  "servers",
		ExtraFields: map[string]string{"type": "stdio"},
	},
	{
		ID: "cursor", DisplayName: "Cursor",
		DirMarkers: []string{".cursor"},
		ConfigPath: func() string { return filepath.Join(".cursor", "mcp.json") },
		ServersKey: "mcpServers",
	},
	{
		ID: "claude_desktop", DisplayName: "Claude Desktop",
		ConfigPath: claudeDesktopConfigPath,
		ServersKey: "mcpServers",
	},
}

func claudeDesktopConfigPath() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "Claude", "claude_desktop_config.json")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Claude", "claude_desktop_config.json")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "Claude", "claude_desktop_config.json")
	}
}

// detectAgents returns the clients configurable from the current directory.
// A client with dir markers needs one of them; the project .mcp.json is
// always offered; other clients need their config directory to exist.
func detectAgents() []DetectedAgent {
	var detected []DetectedAgent
	for _, def := range agentRegistry {
		configPath := def.ConfigPath()
		found := false
		switch {
		case len(def.DirMarkers) > 0:
			for _, marker := range def.DirMarkers {
				if _, err := statFunc(marker); err == nil {
					found = true
					break
				}
			}
		case filepath.Dir(configPath) == ".":
			found = true
		default:
			_, err := statFunc(filepath.Dir(configPath))
			found = err == nil
		}
		if found {
			detected = append(detected, DetectedAgent{
				Def:            def,
				ResolvedConfig: configPath,
				AlreadySetup:   isAlreadyConfigured(configPath, def.ServersKey),
			})
		}
	}
	return detected
}

// isAlreadyConfigured checks for a propscan entry in a JSON config file.
func isAlreadyConfigured(configPath, serversKey string) bool {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return false
	}
	var config map[string]any
	if err := json.Unmarshal(data, &config); err != nil {
		return false
	}
	servers, ok := config[serversKey].(map[string]any)
	if !ok {
		return false
	}
	_, exists := servers[serverName]
	return exists
}

// serverEntry returns the MCP server config object. watchRoot, when set,
// makes the server evict cached results for files edited under it.
func serverEntry(watchRoot string, extra map[string]string) map[string]any {
	args := []any{"serve"}
	if watchRoot != "" {
		args = append(args, "--watch", watchRoot)
	}
	entry := map[string]any{
		"command": serverName,
		"args":    args,
	}
	for k, v := range extra {
		entry[k] = v
	}
	return entry
}

// mergeServerEntry adds a propscan entry under serversKey to existing JSON
// (or a new document) and returns the merged bytes.
// Returns nil, nil if propscan is already configured.
func mergeServerEntry(existing []byte, serversKey string, entry map[string]any) ([]byte, error) {
	config := make(map[string]any)
	if len(existing) > 0 {
		if err := json.Unmarshal(existing, &config); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	}

	servers, ok := config[serversKey].(map[string]any)
	if !ok {
		servers = make(map[string]any)
	}
	if _, exists := servers[serverName]; exists {
		return nil, nil
	}

	servers[serverName] = entry
	config[serversKey] = servers

	out, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

// configureAgent reads, merges and writes the client's config file.
func configureAgent(d DetectedAgent, watchRoot string) error {
	if err := os.MkdirAll(filepath.Dir(d.ResolvedConfig), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	var existing []byte
	if data, err := os.ReadFile(d.ResolvedConfig); err == nil {
		existing = data
	}

	merged, err := mergeServerEntry(existing, d.Def.ServersKey, serverEntry(watchRoot, d.Def.ExtraFields))
	if err != nil {
		return err
	}
	if merged == nil {
		return nil
	}
	return os.WriteFile(d.ResolvedConfig, merged, 0644)
}

// promptYesNo prints a question and reads Y/n. Returns true for yes (default).
func promptYesNo(scanner *bufio.Scanner, w io.Writer, question string) bool {
	fmt.Fprintf(w, "%s ", question)
	if !scanner.Scan() {
		return true
	}
	answer := strings.TrimSpace(strings.ToLower(scanner.Text()))
	return answer == "" || answer == "y" || answer == "yes"
}

type setupOptions struct {
	auto      bool
	watchRoot string
}

// executeSetup contains the testable core logic, parameterized on I/O.
func executeSetup(r io.Reader, w io.Writer, opts setupOptions) {
	detected := detectAgents()
	if len(detected) == 0 {
		fmt.Fprintln(w, "No supported MCP clients detected.")
		return
	}

	fmt.Fprintln(w, "Detected MCP clients:")
	for _, d := range detected {
		if d.AlreadySetup {
			fmt.Fprintf(w, "  * %s (already configured)\n", d.Def.DisplayName)
		} else {
			fmt.Fprintf(w, "  * %s\n", d.Def.DisplayName)
		}
	}

	scanner := bufio.NewScanner(r)
	for _, d := range detected {
		if d.AlreadySetup {
			continue
		}
		if !opts.auto && !promptYesNo(scanner, w, fmt.Sprintf("\n%s: add to %s? [Y/n]", d.Def.DisplayName, d.ResolvedConfig)) {
			fmt.Fprintln(w, "  skipped")
			continue
		}
		if err := configureAgent(d, opts.watchRoot); err != nil {
			fmt.Fprintf(w, "  ! %s: failed: %v\n", d.Def.DisplayName, err)
			continue
		}
		fmt.Fprintf(w, "  + %s configured (%s)\n", d.Def.DisplayName, d.ResolvedConfig)
	}
}

func setupCmd() *cobra.Command {
	var opts setupOptions
	var noWatch bool

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Register the propscan MCP server with detected clients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !noWatch {
				root, err := os.Getwd()
				if err != nil {
					return err
				}
				opts.watchRoot = root
			}
			executeSetup(cmd.InOrStdin(), cmd.OutOrStdout(), opts)
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.auto, "auto", false, "Configure every detected client without prompting")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "Do not pass --watch for the current directory")
	return cmd
}
