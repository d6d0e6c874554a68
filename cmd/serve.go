package cmd

import (
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an MCP server exposing findui tools",
	Long: `Start a Model Context Protocol (MCP) server with the find_elements and
list_windows tools. Each call opens a fresh accessibility provider; calls run
one at a time.

Supported transports:
  stdio             Standard I/O (default, for MCP clients)
  streamable-http   Streamable HTTP transport (for remote agents)

Examples:
  findui serve
  findui serve --transport streamable-http --port 8080
  findui serve --fixture testdata/calc.yaml`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", "stdio", "Transport: stdio, streamable-http")
	serveCmd.Flags().Int("port", 8080, "HTTP port for streamable-http transport")
	serveCmd.Flags().String("fixture", "", "Serve a YAML fixture tree instead of the desktop")
}

func runServe(cmd *cobra.Command, args []string) error {
	transport, _ := cmd.Flags().GetString("transport")
	port, _ := cmd.Flags().GetInt("port")
	fixture, _ := cmd.Flags().GetString("fixture")

	cfg := MCPConfig{
		Transport: transport,
		Port:      port,
		Backend:   appConfig.Backend,
		Fixture:   fixture,
	}
	logger.Info("starting MCP server", "transport", transport, "fixture", fixture)
	return newMCPServer(cfg, appConfig, logger).serve()
}
