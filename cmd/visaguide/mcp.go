package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"visaguide/internal/bootstrap"
	"visaguide/internal/mcpserver"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "mcp",
		Short: "Serve visa lookup tools over MCP stdio",
		RunE:  runMCP,
	})
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.NewStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	logger.Info("mcp server started (stdio transport)")
	return mcpserver.ServeStdio(ctx, mcpserver.New(app.VisaService(), version), os.Stdin, os.Stdout)
}
