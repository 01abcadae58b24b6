package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/docu/pkg/adapters/mcp"
	"github.com/aretw0/docu/pkg/widget"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp [dir]",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts docu as an MCP Server, exposing the tools list_entries, get_entry,
validate_document and increment_counter.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Logs go to stderr; stdout carries JSON-RPC.
		log.SetOutput(os.Stderr)

		p, err := loadProject(cmd, args)
		if err != nil {
			log.Fatalf("Error initializing docu: %v", err)
		}

		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		store, closeStore, err := p.counterStore(cmd)
		if err != nil {
			log.Fatalf("Error initializing counter store: %v", err)
		}
		defer closeStore()

		counters := widget.NewManager(store,
			widget.WithLogger(p.logger),
			widget.WithIncrementHook(p.metrics.ObserveIncrement),
		)
		srv := mcp.NewServer(p.site, counters, mcp.WithLogger(p.logger))

		switch transport {
		case "stdio":
			p.logger.Info("Starting docu MCP Server (Stdio)")
			if err := srv.ServeStdio(); err != nil {
				p.logger.Error("MCP Server execution failed", "err", err)
				os.Exit(1)
			}
		case "sse":
			p.logger.Info("Starting docu MCP Server (SSE)", "port", port)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.ServeSSE(ctx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				p.logger.Error("MCP Server execution failed", "err", err)
				os.Exit(1)
			}
			p.logger.Info("MCP Server stopped gracefully")
		default:
			log.Fatalf("Unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
	mcpCmd.Flags().String("redis", "", "Redis URL of the shared counter store")
}
