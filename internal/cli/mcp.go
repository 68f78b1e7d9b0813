package cli

import (
	"context"
	"fmt"

	"github.com/andywolf/orcaspine/internal/config"
	"github.com/andywolf/orcaspine/internal/mcpsurface"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start an MCP server exposing orcaspine's intents as tools",
	Long: `mcp runs a Model Context Protocol server over stdio, so an AI
assistant can drive the same project an operator would with the other
subcommands - create-project, add-feature, answer-clarifications,
approve-plan, approve-execution, and a read-only project-status tool.

Example:
  orcaspine mcp`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	f, err := buildFacade(cfg)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if _, err := f.Initialize(ctx); err != nil {
		return fmt.Errorf("initialize: %w", err)
	}

	server := mcpsurface.NewServer(f)
	return server.Run(ctx, mcp.NewStdioTransport())
}
