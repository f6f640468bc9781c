// Package blueprint reconstructs the creative process behind a piece of
// content. Stage 1 deconstructs content into the prompts that likely
// produced it; Stage 2 blends those with a new composition request into
// a single generation prompt. An optional final step runs that prompt
// for finished content.
package blueprint

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/echoes-os/echoes/internal/adapter"
	"github.com/echoes-os/echoes/internal/echoerr"
)

// State tracks a session's progress through the two stages.
type State string

const (
	StateIdle           State = "idle"
	StateStage1Pending  State = "stage1_pending"
	StateStage1Complete State = "stage1_complete"
	StateStage2Pending  State = "stage2_pending"
	StateStage2Complete State = "stage2_complete"
)

// ReversePrompt describes a prompt that likely produced the analyzed
// content. It lives only for the duration of one session.
type ReversePrompt struct {
	Prompt    string `json:"prompt"`
	Rationale string `json:"rationale,omitempty"`
}

// CompositionRequest carries the user's parameters for Stage 2. All
// three fields are required before reconstruction may run.
type CompositionRequest struct {
	Title   string   `json:"title"`
	Topics  []string `json:"topics"`
	Context string   `json:"context"`
}

// Completer runs a completion request. Satisfied by the generation gateway.
type Completer interface {
	Complete(ctx context.Context, req adapter.CompletionRequest) (string, error)
}

// Session is one pass through the reconstruction state machine. It is
// not safe for concurrent use; each request gets its own session.
type Session struct {
	llm Completer
	log zerolog.Logger

	state          State
	reversePrompts []ReversePrompt
	finalPrompt    string
}

// NewSession creates an idle Session.
func NewSession(llm Completer, log zerolog.Logger) *Session {
	return &Session{llm: llm, log: log, state: StateIdle}
}

// State reports the last successfully completed state.
func (s *Session) State() State {
	return s.state
}

// ReversePrompts returns the Stage 1 output. Empty until Stage 1 completes.
func (s *Session) ReversePrompts() []ReversePrompt {
	return s.reversePrompts
}

// FinalPrompt returns the Stage 2 output. Empty until Stage 2 completes.
func (s *Session) FinalPrompt() string {
	return s.finalPrompt
}

// Deconstruct runs Stage 1: analyze content and infer the prompts that
// likely produced it. An empty result is a valid terminal outcome — the
// provider found no discernible pattern — and still completes the stage.
// On provider failure the session stays at its last completed state.
func (s *Session) Deconstruct(ctx context.Context, content string) ([]ReversePrompt, error) {
	if strings.TrimSpace(content) == "" {
		return nil, echoerr.Validation("content must not be blank")
	}
	if s.state != StateIdle && s.state != StateStage1Pending {
		return nil, echoerr.Validation("deconstruct already completed for this session")
	}

	prev := s.state
	s.state = StateStage1Pending

	text, err := s.llm.Complete(ctx, adapter.CompletionRequest{
		SystemPrompt: deconstructSystemPrompt,
		UserMessage:  renderDeconstructPrompt(content),
		MaxTokens:    1500,
		Temperature:  0.7,
	})
	if err != nil {
		s.state = prev
		return nil, err
	}

	prompts, err := parseReversePrompts(text)
	if err != nil {
		s.state = prev
		return nil, err
	}

	s.reversePrompts = prompts
	s.state = StateStage1Complete
	s.log.Debug().Int("reverse_prompts", len(prompts)).Msg("deconstruct completed")
	return prompts, nil
}

// Reconstruct runs Stage 2: synthesize one final prompt from the Stage 1
// output and the user's composition request. Stage 2 requires a
// completed Stage 1 with at least one reverse prompt, and all three
// composition fields.
func (s *Session) Reconstruct(ctx context.Context, req CompositionRequest) (string, error) {
	if s.state != StateStage1Complete {
		return "", echoerr.IncompleteInput("deconstruct must complete before reconstruct")
	}
	if len(s.reversePrompts) == 0 {
		return "", echoerr.IncompleteInput("deconstruct found no reverse prompts to build on")
	}
	if err := validateComposition(req); err != nil {
		return "", err
	}

	s.state = StateStage2Pending

	text, err := s.llm.Complete(ctx, adapter.CompletionRequest{
		SystemPrompt: reconstructSystemPrompt,
		UserMessage:  renderReconstructPrompt(s.reversePrompts, req),
		MaxTokens:    800,
		Temperature:  0.7,
	})
	if err != nil {
		s.state = StateStage1Complete
		return "", err
	}

	final := strings.TrimSpace(text)
	if final == "" {
		s.state = StateStage1Complete
		return "", echoerr.Provider("reconstruction returned an empty prompt", nil)
	}

	s.finalPrompt = final
	s.state = StateStage2Complete
	return final, nil
}

// Generate runs the final prompt for finished content. Purely additive:
// it needs a completed Stage 2 but never changes the session state.
func (s *Session) Generate(ctx context.Context) (string, error) {
	if s.state != StateStage2Complete {
		return "", echoerr.IncompleteInput("reconstruct must complete before generate")
	}
	return GenerateContent(ctx, s.llm, s.finalPrompt)
}

// GenerateContent runs an arbitrary prompt through the generation
// provider, outside any session.
func GenerateContent(ctx context.Context, llm Completer, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", echoerr.Validation("prompt must not be blank")
	}
	text, err := llm.Complete(ctx, adapter.CompletionRequest{
		SystemPrompt: "You are a helpful AI writing assistant.",
		UserMessage:  prompt,
		MaxTokens:    800,
		Temperature:  0.8,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func validateComposition(req CompositionRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return echoerr.IncompleteInput("composition title is required")
	}
	if len(req.Topics) == 0 {
		return echoerr.IncompleteInput("at least one composition topic is required")
	}
	if strings.TrimSpace(req.Context) == "" {
		return echoerr.IncompleteInput("composition context is required")
	}
	return nil
}
