package main

import (
	"context"

	"github.com/spf13/cobra"

	"worldsave/internal/mcp"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server over stdio",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	server := mcp.NewServer(mcp.Deps{
		Snapshots:  a.service,
		Registry:   a.registry,
		World:      a.world,
		Catalog:    a.catalog,
		EntityType: a.cfg.Capture.EntityType,
		Logger:     &a.log.Logger,
	}, version)
	return server.Run(ctx, &sdk.StdioTransport{})
}
