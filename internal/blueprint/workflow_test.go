package blueprint

import (
	"context"
	"errors"
	"strings"
	"testing"
)

const workflowJSON = `{
	"steps": [
		{"step": 3, "tool": "Twitter", "action": "Posted the thread", "note": "direct publishing"},
		{"step": 7, "tool": "Notes App", "action": "Drafted the hook", "note": "punchy opener"}
	],
	"content_type": "thread",
	"confidence": 0.85,
	"insights": ["Hook-first structure", "Conversational tone"]
}`

func TestAnalyzeWorkflow_EmptyContentSkipsProvider(t *testing.T) {
	llm := &scriptedLLM{}

	if got := AnalyzeWorkflow(context.Background(), llm, "  \n "); got != nil {
		t.Errorf("got %+v, want nil", got)
	}
	if llm.calls != 0 {
		t.Errorf("provider called %d times for empty content", llm.calls)
	}
}

func TestAnalyzeWorkflow_RenumbersStepsGapless(t *testing.T) {
	llm := &scriptedLLM{responses: []string{workflowJSON}}

	got := AnalyzeWorkflow(context.Background(), llm, "1/ a thread about shipping")
	if got == nil {
		t.Fatal("nil analysis")
	}
	if len(got.Steps) != 2 {
		t.Fatalf("got %d steps, want 2", len(got.Steps))
	}
	for i, step := range got.Steps {
		if step.Order != i+1 {
			t.Errorf("step %d has order %d, want %d", i, step.Order, i+1)
		}
	}
	if got.ContentType != "thread" || got.Confidence != 0.85 {
		t.Errorf("metadata: %q / %v", got.ContentType, got.Confidence)
	}
	if len(got.Insights) != 2 {
		t.Errorf("got %d insights, want 2", len(got.Insights))
	}
}

func TestAnalyzeWorkflow_ProviderFailureFallsBack(t *testing.T) {
	llm := &scriptedLLM{errs: []error{errors.New("provider down")}}

	got := AnalyzeWorkflow(context.Background(), llm, "a quick note")
	if got == nil {
		t.Fatal("nil analysis on fallback")
	}
	if len(got.Steps) == 0 {
		t.Fatal("fallback produced no steps")
	}
	if got.Confidence != 0.6 {
		t.Errorf("fallback confidence %v, want 0.6", got.Confidence)
	}
	found := false
	for _, insight := range got.Insights {
		if strings.Contains(insight, "fallback") {
			found = true
		}
	}
	if !found {
		t.Error("fallback not noted in insights")
	}
}

func TestAnalyzeWorkflow_MalformedOutputFallsBack(t *testing.T) {
	llm := &scriptedLLM{responses: []string{"I cannot answer in JSON today."}}

	got := AnalyzeWorkflow(context.Background(), llm, "a quick note")
	if got == nil || len(got.Steps) == 0 {
		t.Fatal("expected a fallback analysis")
	}
}

func TestFallbackWorkflow_ScalesWithLength(t *testing.T) {
	short := fallbackWorkflow("short note")
	medium := fallbackWorkflow(strings.Repeat("word ", 150))
	long := fallbackWorkflow(strings.Repeat("word ", 600))

	if len(short.Steps) != 2 {
		t.Errorf("short content: %d steps, want 2", len(short.Steps))
	}
	if len(medium.Steps) != 3 {
		t.Errorf("medium content: %d steps, want 3", len(medium.Steps))
	}
	if len(long.Steps) != 4 {
		t.Errorf("long content: %d steps, want 4", len(long.Steps))
	}
	for _, analysis := range []*WorkflowAnalysis{short, medium, long} {
		for i, s := range analysis.Steps {
			if s.Order != i+1 {
				t.Errorf("fallback step order %d at position %d", s.Order, i)
			}
		}
	}
}

func TestAnalyzeWorkflow_ConfidenceClamped(t *testing.T) {
	llm := &scriptedLLM{responses: []string{
		`{"steps": [{"step": 1, "tool": "Pen", "action": "Wrote", "note": ""}], "content_type": "note", "confidence": 3.5, "insights": []}`,
	}}

	got := AnalyzeWorkflow(context.Background(), llm, "a note")
	if got == nil {
		t.Fatal("nil analysis")
	}
	if got.Confidence != 1 {
		t.Errorf("confidence %v, want clamped to 1", got.Confidence)
	}
}
