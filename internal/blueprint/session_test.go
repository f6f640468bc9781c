package blueprint

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/echoes-os/echoes/internal/adapter"
	"github.com/echoes-os/echoes/internal/echoerr"
)

// scriptedLLM returns canned responses in order, one per Complete call.
type scriptedLLM struct {
	responses []string
	errs      []error
	calls     int
	requests  []adapter.CompletionRequest
}

func (s *scriptedLLM) Complete(_ context.Context, req adapter.CompletionRequest) (string, error) {
	s.requests = append(s.requests, req)
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.responses) {
		return s.responses[i], nil
	}
	return "", errors.New("no scripted response")
}

const reversePromptsJSON = `[
	{"prompt": "Write a personal thread about burnout", "rationale": "confessional tone"},
	{"prompt": "Use short punchy sentences", "rationale": "rhythm of the text"}
]`

func validComposition() CompositionRequest {
	return CompositionRequest{
		Title:   "On Rest",
		Topics:  []string{"burnout", "boundaries"},
		Context: "for my newsletter audience",
	}
}

func TestDeconstruct_BlankContent(t *testing.T) {
	s := NewSession(&scriptedLLM{}, zerolog.Nop())

	_, err := s.Deconstruct(context.Background(), "   ")
	if !echoerr.IsKind(err, echoerr.KindValidation) {
		t.Fatalf("got %v, want a validation error", err)
	}
	if s.State() != StateIdle {
		t.Errorf("state is %q after rejected input, want idle", s.State())
	}
}

func TestDeconstruct_ParsesReversePrompts(t *testing.T) {
	llm := &scriptedLLM{responses: []string{reversePromptsJSON}}
	s := NewSession(llm, zerolog.Nop())

	prompts, err := s.Deconstruct(context.Background(), "a thread about burnout")
	if err != nil {
		t.Fatalf("Deconstruct: %v", err)
	}
	if len(prompts) != 2 {
		t.Fatalf("got %d prompts, want 2", len(prompts))
	}
	if prompts[0].Prompt != "Write a personal thread about burnout" {
		t.Errorf("first prompt: %q", prompts[0].Prompt)
	}
	if s.State() != StateStage1Complete {
		t.Errorf("state is %q, want stage1_complete", s.State())
	}
}

func TestDeconstruct_EmptyArrayIsValidTerminal(t *testing.T) {
	llm := &scriptedLLM{responses: []string{"[]"}}
	s := NewSession(llm, zerolog.Nop())

	prompts, err := s.Deconstruct(context.Background(), "asdf jkl;")
	if err != nil {
		t.Fatalf("Deconstruct: %v", err)
	}
	if len(prompts) != 0 {
		t.Errorf("got %d prompts, want 0", len(prompts))
	}
	if s.State() != StateStage1Complete {
		t.Errorf("state is %q, want stage1_complete", s.State())
	}
}

func TestDeconstruct_ToleratesProseAroundJSON(t *testing.T) {
	llm := &scriptedLLM{responses: []string{
		"Here is my analysis:\n```json\n" + reversePromptsJSON + "\n```\nHope that helps!",
	}}
	s := NewSession(llm, zerolog.Nop())

	prompts, err := s.Deconstruct(context.Background(), "content")
	if err != nil {
		t.Fatalf("Deconstruct: %v", err)
	}
	if len(prompts) != 2 {
		t.Errorf("got %d prompts, want 2", len(prompts))
	}
}

func TestDeconstruct_MalformedOutputIsProviderError(t *testing.T) {
	llm := &scriptedLLM{responses: []string{"I could not produce JSON for this."}}
	s := NewSession(llm, zerolog.Nop())

	_, err := s.Deconstruct(context.Background(), "content")
	if !echoerr.IsKind(err, echoerr.KindProvider) {
		t.Fatalf("got %v, want a provider error", err)
	}
	if s.State() != StateIdle {
		t.Errorf("state is %q after failure, want idle", s.State())
	}
}

func TestDeconstruct_ProviderFailureLeavesStateRetryable(t *testing.T) {
	llm := &scriptedLLM{
		errs:      []error{echoerr.Provider("completion failed", errors.New("boom")), nil},
		responses: []string{"", reversePromptsJSON},
	}
	s := NewSession(llm, zerolog.Nop())

	if _, err := s.Deconstruct(context.Background(), "content"); err == nil {
		t.Fatal("expected first attempt to fail")
	}
	if s.State() != StateIdle {
		t.Fatalf("state is %q after failure, want idle", s.State())
	}

	// Same stage retries cleanly.
	prompts, err := s.Deconstruct(context.Background(), "content")
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if len(prompts) != 2 {
		t.Errorf("got %d prompts on retry, want 2", len(prompts))
	}
}

func TestReconstruct_RequiresCompletedStage1(t *testing.T) {
	s := NewSession(&scriptedLLM{}, zerolog.Nop())

	_, err := s.Reconstruct(context.Background(), validComposition())
	if !echoerr.IsKind(err, echoerr.KindIncompleteInput) {
		t.Fatalf("got %v, want an incomplete-input error", err)
	}
}

func TestReconstruct_RequiresNonEmptyReversePrompts(t *testing.T) {
	llm := &scriptedLLM{responses: []string{"[]"}}
	s := NewSession(llm, zerolog.Nop())

	if _, err := s.Deconstruct(context.Background(), "content"); err != nil {
		t.Fatalf("Deconstruct: %v", err)
	}

	_, err := s.Reconstruct(context.Background(), validComposition())
	if !echoerr.IsKind(err, echoerr.KindIncompleteInput) {
		t.Fatalf("got %v, want an incomplete-input error", err)
	}
}

func TestReconstruct_RequiresAllCompositionFields(t *testing.T) {
	incomplete := []CompositionRequest{
		{Topics: []string{"a"}, Context: "ctx"},
		{Title: "t", Context: "ctx"},
		{Title: "t", Topics: []string{"a"}},
		{},
	}

	for i, req := range incomplete {
		llm := &scriptedLLM{responses: []string{reversePromptsJSON}}
		s := NewSession(llm, zerolog.Nop())
		if _, err := s.Deconstruct(context.Background(), "content"); err != nil {
			t.Fatalf("Deconstruct: %v", err)
		}

		_, err := s.Reconstruct(context.Background(), req)
		if !echoerr.IsKind(err, echoerr.KindIncompleteInput) {
			t.Errorf("case %d: got %v, want an incomplete-input error", i, err)
		}
		if s.State() != StateStage1Complete {
			t.Errorf("case %d: state is %q, want stage1_complete", i, s.State())
		}
	}
}

func TestReconstruct_ProducesFinalPrompt(t *testing.T) {
	llm := &scriptedLLM{responses: []string{
		reversePromptsJSON,
		"Write a punchy, confessional thread titled On Rest about burnout and boundaries for a newsletter audience.",
	}}
	s := NewSession(llm, zerolog.Nop())

	if _, err := s.Deconstruct(context.Background(), "content"); err != nil {
		t.Fatalf("Deconstruct: %v", err)
	}

	final, err := s.Reconstruct(context.Background(), validComposition())
	if err != nil {
		t.Fatalf("Reconstruct: %v", err)
	}
	if final == "" {
		t.Fatal("empty final prompt")
	}
	if s.State() != StateStage2Complete {
		t.Errorf("state is %q, want stage2_complete", s.State())
	}
	if s.FinalPrompt() != final {
		t.Error("FinalPrompt() does not match the returned prompt")
	}

	// The Stage 2 request must carry both the reverse prompts and the
	// composition fields.
	stage2 := llm.requests[1].UserMessage
	for _, want := range []string{"Write a personal thread about burnout", "On Rest", "burnout, boundaries", "newsletter audience"} {
		if !strings.Contains(stage2, want) {
			t.Errorf("stage 2 prompt missing %q", want)
		}
	}
}

func TestReconstruct_FailureLeavesStage1Complete(t *testing.T) {
	llm := &scriptedLLM{
		responses: []string{reversePromptsJSON, "", "recovered final prompt"},
		errs:      []error{nil, echoerr.Provider("completion failed", errors.New("boom")), nil},
	}
	s := NewSession(llm, zerolog.Nop())

	if _, err := s.Deconstruct(context.Background(), "content"); err != nil {
		t.Fatalf("Deconstruct: %v", err)
	}
	if _, err := s.Reconstruct(context.Background(), validComposition()); err == nil {
		t.Fatal("expected reconstruct to fail")
	}
	if s.State() != StateStage1Complete {
		t.Fatalf("state is %q after failure, want stage1_complete", s.State())
	}

	// Retry Stage 2 without redoing Stage 1.
	final, err := s.Reconstruct(context.Background(), validComposition())
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if final != "recovered final prompt" {
		t.Errorf("got %q", final)
	}
}

func TestGenerate_RequiresCompletedStage2(t *testing.T) {
	llm := &scriptedLLM{responses: []string{reversePromptsJSON}}
	s := NewSession(llm, zerolog.Nop())

	if _, err := s.Deconstruct(context.Background(), "content"); err != nil {
		t.Fatalf("Deconstruct: %v", err)
	}

	_, err := s.Generate(context.Background())
	if !echoerr.IsKind(err, echoerr.KindIncompleteInput) {
		t.Fatalf("got %v, want an incomplete-input error", err)
	}
}

func TestGenerate_RunsFinalPrompt(t *testing.T) {
	llm := &scriptedLLM{responses: []string{
		reversePromptsJSON,
		"final prompt",
		"Here is the finished thread about rest.",
	}}
	s := NewSession(llm, zerolog.Nop())

	s.Deconstruct(context.Background(), "content")
	s.Reconstruct(context.Background(), validComposition())

	got, err := s.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "Here is the finished thread about rest." {
		t.Errorf("got %q", got)
	}
	if s.State() != StateStage2Complete {
		t.Errorf("generate changed session state to %q", s.State())
	}
}

func TestGenerateContent_BlankPrompt(t *testing.T) {
	_, err := GenerateContent(context.Background(), &scriptedLLM{}, " ")
	if !echoerr.IsKind(err, echoerr.KindValidation) {
		t.Fatalf("got %v, want a validation error", err)
	}
}
