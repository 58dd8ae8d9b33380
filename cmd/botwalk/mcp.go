package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/botwalk/botwalk"
	"github.com/botwalk/botwalk/internal/loader"
	"github.com/botwalk/botwalk/internal/logging"
	mcpAdapter "github.com/botwalk/botwalk/pkg/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp <flow-file>",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts botwalk as an MCP server for the given flow document.
This allows AI agents (like Claude Desktop) to drive simulations as tools.

Supported transports:
- stdio (default): Standard Input/Output. Ideal for local process integration.
- sse: Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")
		level, _ := cmd.Flags().GetString("log-level")

		doc, err := loader.Load(args[0])
		if err != nil {
			log.Fatalf("Error loading flow: %v", err)
		}
		if warnings, err := botwalk.Validate(doc.Graph); err != nil {
			log.Fatalf("Invalid flow: %v", err)
		} else {
			for _, w := range warnings {
				fmt.Fprintf(os.Stderr, "warning: %s\n", w)
			}
		}

		// Logs must stay off Stdout, it carries JSON-RPC on stdio.
		logger := logging.New(logging.ParseLevel(level))
		slog.SetDefault(logger)

		sim := botwalk.New(botwalk.WithLogger(logger))
		srv := mcpAdapter.NewServer(doc, sim.Registry(), botwalk.Version,
			mcpAdapter.WithLogger(logger))

		switch transport {
		case "stdio":
			log.SetOutput(os.Stderr)
			slog.Info("Starting botwalk MCP server (stdio)", "flow", doc.Name)
			if err := srv.ServeStdio(); err != nil {
				slog.Error("MCP server execution failed", "err", err)
				os.Exit(1)
			}
		case "sse":
			slog.Info("Starting botwalk MCP server (SSE)", "flow", doc.Name, "port", port)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.ServeSSE(ctx, port); err != nil {
				if err != http.ErrServerClosed {
					slog.Error("MCP server execution failed", "err", err)
					os.Exit(1)
				}
			}
			slog.Info("MCP server stopped gracefully")
		default:
			log.Fatalf("Unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
