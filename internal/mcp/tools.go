package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/echoes-os/echoes/internal/blueprint"
	"github.com/echoes-os/echoes/internal/memory"
	"github.com/echoes-os/echoes/internal/retrieval"
)

func (s *Server) handleAsk(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}
	limit := req.GetInt("limit", retrieval.DefaultLimit)

	results, askErr := s.retrieval.Ask(ctx, query, limit, retrieval.DefaultThreshold)
	if askErr != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", askErr)), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("No matching memories found."), nil
	}

	var sb strings.Builder
	sb.WriteString("## Matching Memories\n\n")
	for _, r := range results {
		sb.WriteString(formatResult(r))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) handleProcess(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := req.RequireString("input")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: input"), nil
	}

	result, procErr := s.orchestrator.Process(ctx, input)
	if procErr != nil {
		return mcp.NewToolResultError(fmt.Sprintf("processing failed: %v", procErr)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Classified as %s (confidence %.2f)\n\n",
		result.Analysis.ContentType, result.Analysis.Confidence)

	if len(result.Memories) > 0 {
		sb.WriteString("## Matching Memories\n\n")
		for _, r := range result.Memories {
			sb.WriteString(formatResult(r))
		}
		sb.WriteString("\n")
	}
	if len(result.ReversePrompts) > 0 {
		sb.WriteString("## Reverse Prompts\n\n")
		for i, p := range result.ReversePrompts {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, p.Prompt)
		}
		sb.WriteString("\n")
	}
	if len(result.Blueprint) > 0 {
		sb.WriteString("## Creative Workflow\n\n")
		writeSteps(&sb, result.Blueprint)
		sb.WriteString("\n")
	}
	if len(result.Analysis.Insights) > 0 {
		sb.WriteString("## Insights\n\n")
		for _, insight := range result.Analysis.Insights {
			fmt.Fprintf(&sb, "- %s\n", insight)
		}
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) handleAnalyze(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: content"), nil
	}

	analysis := blueprint.AnalyzeWorkflow(ctx, s.orchestrator.Completer(), content)
	if analysis == nil || len(analysis.Steps) == 0 {
		return mcp.NewToolResultText("No discernible creative workflow in this content."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Content type: %s (confidence %.2f)\n\n", analysis.ContentType, analysis.Confidence)
	writeSteps(&sb, analysis.Steps)
	if len(analysis.Insights) > 0 {
		sb.WriteString("\nInsights:\n")
		for _, insight := range analysis.Insights {
			fmt.Fprintf(&sb, "- %s\n", insight)
		}
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) handleIngest(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: content"), nil
	}
	title := req.GetString("title", "")

	docID, n, ingestErr := s.ingester.IngestText(ctx, content, title)
	if ingestErr != nil {
		return mcp.NewToolResultError(fmt.Sprintf("ingest failed: %v", ingestErr)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Stored %d chunks (document: %s).", n, docID)), nil
}

func formatResult(r memory.SearchResult) string {
	title := r.Title
	if title == "" {
		title = r.ContentID
	}
	return fmt.Sprintf("### %s (score %.2f)\n%s\n\n", title, r.Score, r.Content)
}

func writeSteps(sb *strings.Builder, steps []blueprint.Step) {
	for _, step := range steps {
		fmt.Fprintf(sb, "%d. **%s** — %s", step.Order, step.Tool, step.Action)
		if step.Note != "" {
			fmt.Fprintf(sb, " (%s)", step.Note)
		}
		sb.WriteString("\n")
	}
}
