package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/echoes-os/echoes/internal/adapter"
)

type scriptedLLM struct {
	response string
	err      error
	calls    int
}

func (s *scriptedLLM) Complete(_ context.Context, _ adapter.CompletionRequest) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func TestClassify_LLMQueryVerdict(t *testing.T) {
	llm := &scriptedLLM{response: `{"is_query": true, "confidence": 0.9, "reasoning": "asks about past content"}`}
	c := NewClassifier(llm, zerolog.Nop())

	got := c.Classify(context.Background(), "What did I say about remote work?")
	if got.ContentType != TypeQuery {
		t.Errorf("got %q, want query", got.ContentType)
	}
	if got.Confidence != 0.9 {
		t.Errorf("confidence %v, want 0.9", got.Confidence)
	}
}

func TestClassify_LLMContentVerdict(t *testing.T) {
	llm := &scriptedLLM{response: `{"is_query": false, "confidence": 0.8, "reasoning": "a blog post"}`}
	c := NewClassifier(llm, zerolog.Nop())

	got := c.Classify(context.Background(), "Today I published a post about boundaries.")
	if got.ContentType != TypeContent {
		t.Errorf("got %q, want content", got.ContentType)
	}
}

func TestClassify_LowLLMConfidenceIsMixed(t *testing.T) {
	llm := &scriptedLLM{response: `{"is_query": true, "confidence": 0.5, "reasoning": "unclear"}`}
	c := NewClassifier(llm, zerolog.Nop())

	got := c.Classify(context.Background(), "burnout thoughts?")
	if got.ContentType != TypeMixed {
		t.Errorf("got %q, want mixed", got.ContentType)
	}
}

func TestClassify_ProviderFailureFallsBackToHeuristics(t *testing.T) {
	llm := &scriptedLLM{err: errors.New("provider down")}
	c := NewClassifier(llm, zerolog.Nop())

	got := c.Classify(context.Background(), "What did I write about burnout?")
	if got.ContentType != TypeQuery {
		t.Errorf("got %q, want query from heuristics", got.ContentType)
	}
	if got.Reasoning == "" {
		t.Error("heuristic reasoning missing")
	}
}

func TestClassify_NilLLMUsesHeuristics(t *testing.T) {
	c := NewClassifier(nil, zerolog.Nop())

	got := c.Classify(context.Background(), "Show me what I said about shipping fast")
	if got.ContentType != TypeQuery {
		t.Errorf("got %q, want query", got.ContentType)
	}
}

func TestClassifyHeuristic_Table(t *testing.T) {
	longPost := "Here's my take on creative burnout.\n\n" + strings.Repeat("Every creator hits a wall sometime. ", 30)

	tests := []struct {
		name  string
		input string
		want  ContentType
	}{
		{"question words and mark", "What did I say about remote work?", TypeQuery},
		{"short find request", "find my notes on pricing", TypeQuery},
		{"thread markers", "🧵 1/ Just published a piece today.\n\nIt covers boundaries.", TypeContent},
		{"long declarative post", longPost, TypeContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyHeuristic(tt.input)
			if got.ContentType != tt.want {
				t.Errorf("classifyHeuristic(%q) = %q, want %q (%s)",
					tt.input, got.ContentType, tt.want, got.Reasoning)
			}
			if got.Confidence < 0.5 || got.Confidence > 0.9 {
				t.Errorf("confidence %v outside [0.5, 0.9]", got.Confidence)
			}
		})
	}
}

func TestClassifyHeuristic_BalancedSignalsAreMixed(t *testing.T) {
	// One query word and one content indicator, length in the neutral band.
	input := "how we keep morning routines steady matters, and we just protect deep work blocks, guard focus time, batch meetings, and leave the evenings completely open for rest"
	got := classifyHeuristic(input)
	if got.ContentType != TypeMixed {
		t.Errorf("got %q (%s), want mixed", got.ContentType, got.Reasoning)
	}
}

func TestClassify_MalformedLLMOutputFallsBack(t *testing.T) {
	llm := &scriptedLLM{response: "definitely a query, trust me"}
	c := NewClassifier(llm, zerolog.Nop())

	got := c.Classify(context.Background(), "What did I write about burnout?")
	if got.ContentType != TypeQuery {
		t.Errorf("got %q, want query from heuristics", got.ContentType)
	}
}
