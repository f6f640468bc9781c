package blueprint

import (
	"context"
	"strings"

	"github.com/echoes-os/echoes/internal/adapter"
)

// Step is one element of a reconstructed creative workflow. Order
// starts at 1 and is gapless; it reflects inferred chronological order.
type Step struct {
	Order  int    `json:"order"`
	Tool   string `json:"tool"`
	Action string `json:"action"`
	Note   string `json:"note"`
}

// WorkflowAnalysis is the result of analyzing one piece of content.
type WorkflowAnalysis struct {
	Steps       []Step   `json:"steps"`
	ContentType string   `json:"content_type"`
	Confidence  float64  `json:"confidence"`
	Insights    []string `json:"insights"`
}

// AnalyzeWorkflow infers the likely tools and steps behind content.
// Empty content yields nil without touching the provider. Provider or
// parse failures fall back to a heuristic blueprint keyed on content
// length, so the caller always gets a usable analysis.
func AnalyzeWorkflow(ctx context.Context, llm Completer, content string) *WorkflowAnalysis {
	if strings.TrimSpace(content) == "" {
		return nil
	}

	text, err := llm.Complete(ctx, adapter.CompletionRequest{
		SystemPrompt: deconstructSystemPrompt,
		UserMessage:  renderWorkflowPrompt(content),
		MaxTokens:    1500,
		Temperature:  0.7,
	})
	if err != nil {
		return fallbackWorkflow(content)
	}

	resp, err := parseWorkflow(text)
	if err != nil {
		return fallbackWorkflow(content)
	}

	analysis := &WorkflowAnalysis{
		ContentType: resp.ContentType,
		Confidence:  clamp01(resp.Confidence),
		Insights:    resp.Insights,
	}
	for _, s := range resp.Steps {
		tool := strings.TrimSpace(s.Tool)
		action := strings.TrimSpace(s.Action)
		if tool == "" && action == "" {
			continue
		}
		// Renumber so order is 1..n with no gaps regardless of what the
		// model emitted.
		analysis.Steps = append(analysis.Steps, Step{
			Order:  len(analysis.Steps) + 1,
			Tool:   tool,
			Action: action,
			Note:   strings.TrimSpace(s.Note),
		})
	}
	if len(analysis.Steps) == 0 {
		return fallbackWorkflow(content)
	}
	return analysis
}

// fallbackWorkflow builds a plausible blueprint from content length
// alone, used when the provider is unavailable or returns garbage.
func fallbackWorkflow(content string) *WorkflowAnalysis {
	var steps []Step
	switch words := len(strings.Fields(content)); {
	case words > 500:
		steps = []Step{
			{Order: 1, Tool: "Research Tool", Action: "Gathered information and sources", Note: "Extensive content suggests research phase"},
			{Order: 2, Tool: "Notion", Action: "Organized and outlined structure", Note: "Complex content needs planning"},
			{Order: 3, Tool: "Writing Tool", Action: "Created first draft", Note: "Long-form content creation"},
			{Order: 4, Tool: "Grammarly", Action: "Edited and refined", Note: "Polish phase for quality"},
		}
	case words > 100:
		steps = []Step{
			{Order: 1, Tool: "Brainstorming", Action: "Generated ideas", Note: "Medium content needs ideation"},
			{Order: 2, Tool: "Writing App", Action: "Drafted content", Note: "Structured writing process"},
			{Order: 3, Tool: "Review", Action: "Refined and polished", Note: "Quality check"},
		}
	default:
		steps = []Step{
			{Order: 1, Tool: "Quick Notes", Action: "Captured idea", Note: "Short, spontaneous content"},
			{Order: 2, Tool: "Mobile App", Action: "Formatted and posted", Note: "Simple, direct approach"},
		}
	}

	return &WorkflowAnalysis{
		Steps:       steps,
		ContentType: "text_content",
		Confidence:  0.6,
		Insights: []string{
			"Analysis completed with fallback method",
			"Consider uploading more content for better insights",
		},
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
