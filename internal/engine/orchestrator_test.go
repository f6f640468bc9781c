package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/echoes-os/echoes/internal/adapter"
	"github.com/echoes-os/echoes/internal/echoerr"
	"github.com/echoes-os/echoes/internal/memory"
)

type stubAsker struct {
	results []memory.SearchResult
	err     error
	calls   int
}

func (s *stubAsker) Ask(context.Context, string, int, float64) ([]memory.SearchResult, error) {
	s.calls++
	return s.results, s.err
}

// routingLLM answers the classifier with a fixed verdict, deconstruction
// with reverse prompts, and every other call with a workflow analysis.
type routingLLM struct {
	verdict         string
	workflowJSON    string
	workflowErr     error
	deconstructJSON string
	deconstructErr  error
}

func (r *routingLLM) Complete(_ context.Context, req adapter.CompletionRequest) (string, error) {
	switch {
	case strings.Contains(req.UserMessage, "QUERY"):
		return r.verdict, nil
	case strings.Contains(req.UserMessage, "reverse-engineer the prompts"):
		if r.deconstructErr != nil {
			return "", r.deconstructErr
		}
		return r.deconstructJSON, nil
	}
	if r.workflowErr != nil {
		return "", r.workflowErr
	}
	return r.workflowJSON, nil
}

const reverseJSON = `[{"prompt": "Write a personal thread about rest", "rationale": "reflective tone"}]`

const stepsJSON = `{
	"steps": [
		{"step": 1, "tool": "Notes App", "action": "Drafted the hook", "note": ""},
		{"step": 2, "tool": "Twitter", "action": "Posted the thread", "note": ""}
	],
	"content_type": "thread",
	"confidence": 0.8,
	"insights": []
}`

func memories(n int, score float64) []memory.SearchResult {
	out := make([]memory.SearchResult, n)
	for i := range out {
		out[i] = memory.SearchResult{
			Chunk: memory.Chunk{ID: "c", ContentID: "d", SourceRef: "src", CreatedAt: time.Now()},
			Score: score,
		}
	}
	return out
}

func TestProcess_BlankInput(t *testing.T) {
	o := NewOrchestrator(NewClassifier(nil, zerolog.Nop()), &stubAsker{}, &routingLLM{}, zerolog.Nop())

	_, err := o.Process(context.Background(), "  ")
	if !echoerr.IsKind(err, echoerr.KindValidation) {
		t.Fatalf("got %v, want a validation error", err)
	}
}

func TestProcess_QueryInvokesOnlyRetrieval(t *testing.T) {
	llm := &routingLLM{
		verdict:      `{"is_query": true, "confidence": 0.9, "reasoning": "question"}`,
		workflowJSON: stepsJSON,
	}
	asker := &stubAsker{results: memories(2, 0.85)}
	o := NewOrchestrator(NewClassifier(llm, zerolog.Nop()), asker, llm, zerolog.Nop())

	got, err := o.Process(context.Background(), "What did I say about remote work?")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if got.Analysis.ContentType != TypeQuery {
		t.Errorf("classified as %q", got.Analysis.ContentType)
	}
	if len(got.Memories) != 2 {
		t.Errorf("got %d memories, want 2", len(got.Memories))
	}
	if len(got.Blueprint) != 0 {
		t.Errorf("blueprint should stay empty for a query, got %d steps", len(got.Blueprint))
	}
	if asker.calls != 1 {
		t.Errorf("retrieval called %d times, want 1", asker.calls)
	}
}

func TestProcess_ContentInvokesOnlyBlueprint(t *testing.T) {
	llm := &routingLLM{
		verdict:         `{"is_query": false, "confidence": 0.9, "reasoning": "a post"}`,
		workflowJSON:    stepsJSON,
		deconstructJSON: reverseJSON,
	}
	asker := &stubAsker{results: memories(1, 0.9)}
	o := NewOrchestrator(NewClassifier(llm, zerolog.Nop()), asker, llm, zerolog.Nop())

	got, err := o.Process(context.Background(), "Today I published a long post about boundaries and rest.")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if got.Analysis.ContentType != TypeContent {
		t.Errorf("classified as %q", got.Analysis.ContentType)
	}
	if len(got.Blueprint) != 2 {
		t.Errorf("got %d steps, want 2", len(got.Blueprint))
	}
	if len(got.ReversePrompts) != 1 {
		t.Errorf("got %d reverse prompts, want 1", len(got.ReversePrompts))
	}
	if len(got.Memories) != 0 {
		t.Errorf("memories should stay empty for content, got %d", len(got.Memories))
	}
	if asker.calls != 0 {
		t.Errorf("retrieval called %d times, want 0", asker.calls)
	}
}

func TestProcess_MixedRunsBothPaths(t *testing.T) {
	llm := &routingLLM{
		verdict:         `{"is_query": true, "confidence": 0.5, "reasoning": "ambiguous"}`,
		workflowJSON:    stepsJSON,
		deconstructJSON: reverseJSON,
	}
	asker := &stubAsker{results: memories(1, 0.7)}
	o := NewOrchestrator(NewClassifier(llm, zerolog.Nop()), asker, llm, zerolog.Nop())

	got, err := o.Process(context.Background(), "thoughts on how I write threads")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if got.Analysis.ContentType != TypeMixed {
		t.Errorf("classified as %q, want mixed", got.Analysis.ContentType)
	}
	if len(got.Memories) != 1 || len(got.Blueprint) != 2 {
		t.Errorf("both paths should run: %d memories, %d steps", len(got.Memories), len(got.Blueprint))
	}
}

func TestProcess_RetrievalFailureDegradesWithNote(t *testing.T) {
	llm := &routingLLM{verdict: `{"is_query": true, "confidence": 0.9, "reasoning": "question"}`}
	asker := &stubAsker{err: echoerr.Storage("vector search", errors.New("db locked"))}
	o := NewOrchestrator(NewClassifier(llm, zerolog.Nop()), asker, llm, zerolog.Nop())

	got, err := o.Process(context.Background(), "What did I say about remote work?")
	if err != nil {
		t.Fatalf("Process should degrade, not fail: %v", err)
	}
	if len(got.Memories) != 0 {
		t.Errorf("degraded path returned %d memories", len(got.Memories))
	}
	found := false
	for _, insight := range got.Analysis.Insights {
		if strings.Contains(insight, "unavailable") {
			found = true
		}
	}
	if !found {
		t.Errorf("degradation not noted in insights: %v", got.Analysis.Insights)
	}
}

func TestProcess_WorkflowProviderFailureUsesFallback(t *testing.T) {
	llm := &routingLLM{
		verdict:         `{"is_query": false, "confidence": 0.9, "reasoning": "a post"}`,
		workflowErr:     errors.New("provider down"),
		deconstructJSON: reverseJSON,
	}
	o := NewOrchestrator(NewClassifier(llm, zerolog.Nop()), &stubAsker{}, llm, zerolog.Nop())

	got, err := o.Process(context.Background(), "Today I published a post about shipping projects quickly.")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(got.Blueprint) == 0 {
		t.Error("expected a fallback blueprint")
	}
}

func TestProcess_DeconstructionFailureDegradesWithNote(t *testing.T) {
	llm := &routingLLM{
		verdict:        `{"is_query": false, "confidence": 0.9, "reasoning": "a post"}`,
		workflowJSON:   stepsJSON,
		deconstructErr: errors.New("provider down"),
	}
	o := NewOrchestrator(NewClassifier(llm, zerolog.Nop()), &stubAsker{}, llm, zerolog.Nop())

	got, err := o.Process(context.Background(), "Today I published a post about morning routines.")
	if err != nil {
		t.Fatalf("Process should degrade, not fail: %v", err)
	}
	if len(got.ReversePrompts) != 0 {
		t.Errorf("degraded path returned %d reverse prompts", len(got.ReversePrompts))
	}
	if len(got.Blueprint) != 2 {
		t.Errorf("workflow path should survive: got %d steps", len(got.Blueprint))
	}
	found := false
	for _, insight := range got.Analysis.Insights {
		if strings.Contains(insight, "deconstruction was unavailable") {
			found = true
		}
	}
	if !found {
		t.Errorf("degradation not noted in insights: %v", got.Analysis.Insights)
	}
}

func TestProcess_InsightsCappedAtFive(t *testing.T) {
	llm := &routingLLM{
		verdict:      `{"is_query": true, "confidence": 0.5, "reasoning": "ambiguous"}`,
		workflowJSON: stepsJSON,
	}
	asker := &stubAsker{results: memories(5, 0.9)}
	o := NewOrchestrator(NewClassifier(llm, zerolog.Nop()), asker, llm, zerolog.Nop())

	long := strings.Repeat("a detailed sentence about the creative process of writing threads ", 30)
	got, err := o.Process(context.Background(), long)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(got.Analysis.Insights) > 5 {
		t.Errorf("got %d insights, want at most 5", len(got.Analysis.Insights))
	}
}

func TestProcess_CancelledContext(t *testing.T) {
	llm := &routingLLM{verdict: `{"is_query": true, "confidence": 0.9, "reasoning": "question"}`}
	o := NewOrchestrator(NewClassifier(nil, zerolog.Nop()), &stubAsker{}, llm, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := o.Process(ctx, "What did I say about remote work?")
	if !echoerr.IsKind(err, echoerr.KindTimeout) {
		t.Fatalf("got %v, want a timeout error", err)
	}
}
