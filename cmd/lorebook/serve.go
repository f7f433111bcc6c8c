package main

import (
	"context"

	"github.com/spf13/cobra"

	"lorebook/internal/config"
	"lorebook/internal/mcp"
	"lorebook/internal/place"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func serveCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(verbose)
		},
	}
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Log tool calls at debug level")
	return cmd
}

func runServe(verbose bool) error {
	ctx := context.Background()
	log := newLogger(verbose)

	cfg, err := config.LoadProjectConfig("lorebook.yaml")
	if err != nil {
		return err
	}

	books, err := loadBooks(cfg)
	if err != nil {
		return err
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	placer := place.NewEngine(cfg.Placement.Threshold, cfg.Placement.MarkerFormat, log)
	server := mcp.NewServer(books, db, placer, log, version)
	return server.Run(ctx, &sdk.StdioTransport{})
}
