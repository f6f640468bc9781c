// Package mcp exposes the memory engine to MCP-speaking clients over
// stdio: ask, process, analyze, and ingest as tools.
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/echoes-os/echoes/internal/engine"
	"github.com/echoes-os/echoes/internal/ingest"
	"github.com/echoes-os/echoes/internal/retrieval"
)

// Server wires the engine services into an MCP stdio server.
type Server struct {
	retrieval    *retrieval.Service
	orchestrator *engine.Orchestrator
	ingester     *ingest.Service
	log          zerolog.Logger

	mcpServer *server.MCPServer
}

// NewServer creates a Server around the given services.
func NewServer(ret *retrieval.Service, orch *engine.Orchestrator, ing *ingest.Service, version string, log zerolog.Logger) *Server {
	s := &Server{
		retrieval:    ret,
		orchestrator: orch,
		ingester:     ing,
		log:          log,
	}

	s.mcpServer = server.NewMCPServer("echoes", version,
		server.WithToolCapabilities(false),
	)
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("echoes_ask",
		mcp.WithDescription("Search the user's past content by semantic similarity. Returns the most relevant stored memories."),
		mcp.WithString("query", mcp.Required(), mcp.Description("What to look for in past content")),
		mcp.WithNumber("limit", mcp.Description("Maximum results (default 5)")),
	), s.handleAsk)

	s.mcpServer.AddTool(mcp.NewTool("echoes_process",
		mcp.WithDescription("Classify input as a query or content and run memory search, workflow reconstruction, or both."),
		mcp.WithString("input", mcp.Required(), mcp.Description("A question about past content, or content to analyze")),
	), s.handleProcess)

	s.mcpServer.AddTool(mcp.NewTool("echoes_analyze",
		mcp.WithDescription("Reconstruct the likely creative workflow (tools, steps) behind a piece of content."),
		mcp.WithString("content", mcp.Required(), mcp.Description("The content to analyze")),
	), s.handleAnalyze)

	s.mcpServer.AddTool(mcp.NewTool("echoes_ingest",
		mcp.WithDescription("Store text in the user's memory so later queries can find it."),
		mcp.WithString("content", mcp.Required(), mcp.Description("The text to remember")),
		mcp.WithString("title", mcp.Description("A short title for the content")),
	), s.handleIngest)
}

// Serve runs the MCP server on stdio until the client disconnects.
func (s *Server) Serve() error {
	s.log.Info().Msg("mcp server listening on stdio")
	return server.ServeStdio(s.mcpServer)
}
