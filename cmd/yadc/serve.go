package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/PieInTheSky-Inc/yadc/internal/mcp"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server over stdio",
		RunE:  runServe,
	}
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	data, log, closeCache, err := openService(ctx)
	if err != nil {
		return err
	}
	defer closeCache()

	server := mcp.NewServer(data, version, log)
	return server.Run(ctx, &sdk.StdioTransport{})
}
