// Package mcp exposes the simulator as a Model Context Protocol
// server, so agent hosts can drive flow simulations as tools. The
// server is bound to one flow document; simulation ids scope the
// concurrent walks through it.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/botwalk/botwalk/internal/loader"
	"github.com/botwalk/botwalk/internal/logging"
	"github.com/botwalk/botwalk/pkg/flow"
	"github.com/botwalk/botwalk/pkg/session"
)

// Server wraps a session registry and exposes it as an MCP server.
type Server struct {
	doc       *loader.Document
	registry  *session.Registry
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// NewServer creates an MCP server for the given flow document.
func NewServer(doc *loader.Document, registry *session.Registry, version string, opts ...Option) *Server {
	s := &Server{
		doc:      doc,
		registry: registry,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.mcpServer = server.NewMCPServer("botwalk-mcp", version)
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE, shutting
// down gracefully when ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{Addr: addr, Handler: mux}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	startTool := mcp.NewTool("start_simulation",
		mcp.WithDescription("Start (or restart) a simulation of the loaded flow. Returns the messages the bot sends before it first waits for input."),
		mcp.WithString("simulation_id", mcp.Required(), mcp.Description("Identifier scoping this conversation")),
		mcp.WithOutputSchema[flow.Response](),
	)
	s.mcpServer.AddTool(startTool, mcp.NewStructuredToolHandler(s.handleStart))

	inputTool := mcp.NewTool("send_input",
		mcp.WithDescription("Send one user turn to a waiting simulation. Provide text for free input, or button_id to press a button or pick a list option."),
		mcp.WithString("simulation_id", mcp.Required(), mcp.Description("Identifier of the running simulation")),
		mcp.WithString("text", mcp.Description("Free text input")),
		mcp.WithString("button_id", mcp.Description("Id of the chosen button or option")),
		mcp.WithOutputSchema[flow.Response](),
	)
	s.mcpServer.AddTool(inputTool, mcp.NewStructuredToolHandler(s.handleInput))

	endTool := mcp.NewTool("end_simulation",
		mcp.WithDescription("Discard a simulation and its state."),
		mcp.WithString("simulation_id", mcp.Required(), mcp.Description("Identifier of the simulation to end")),
	)
	s.mcpServer.AddTool(endTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("simulation_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := s.registry.End(ctx, id); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("end failed: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("simulation %q ended", id)), nil
	})

	s.mcpServer.AddTool(mcp.NewTool("list_simulations",
		mcp.WithDescription("List the ids of live simulations."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ids, err := s.registry.List(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(ids)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

func (s *Server) handleStart(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (flow.Response, error) {
	id, _ := args["simulation_id"].(string)
	if id == "" {
		return flow.Response{}, fmt.Errorf("simulation_id is required")
	}

	resp, err := s.registry.Start(ctx, id, s.doc.Graph)
	if err != nil {
		return flow.Response{}, fmt.Errorf("start failed: %w", err)
	}
	return *resp, nil
}

func (s *Server) handleInput(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (flow.Response, error) {
	id, _ := args["simulation_id"].(string)
	if id == "" {
		return flow.Response{}, fmt.Errorf("simulation_id is required")
	}
	text, _ := args["text"].(string)
	buttonID, _ := args["button_id"].(string)

	resp, err := s.registry.SendInput(ctx, id, flow.Input{Text: text, ButtonID: buttonID})
	if err != nil {
		return flow.Response{}, fmt.Errorf("send input failed: %w", err)
	}
	return *resp, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource("botwalk://flow", "Loaded Flow Definition",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		payload, err := json.Marshal(map[string]any{
			"name":  s.doc.Name,
			"nodes": s.doc.Graph.Nodes,
			"edges": s.doc.Graph.Edges,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to serialize flow: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "botwalk://flow",
				MIMEType: "application/json",
				Text:     string(payload),
			},
		}, nil
	})
}
