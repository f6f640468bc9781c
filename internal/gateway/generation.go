package gateway

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/echoes-os/echoes/internal/adapter"
	"github.com/echoes-os/echoes/internal/echoerr"
	"github.com/echoes-os/echoes/internal/retry"
)

// GenerationGateway runs completion requests through retry and a
// circuit breaker so that a misbehaving provider degrades fast instead
// of stalling every caller.
type GenerationGateway struct {
	llm     adapter.LLMAdapter
	retrier *retry.Retrier
	breaker *gobreaker.CircuitBreaker
	log     zerolog.Logger
}

// NewGenerationGateway creates a GenerationGateway around llm.
func NewGenerationGateway(llm adapter.LLMAdapter, log zerolog.Logger) *GenerationGateway {
	return &GenerationGateway{
		llm:     llm,
		retrier: retry.NewDefaultRetrier(),
		breaker: newBreaker("generation", log),
		log:     log,
	}
}

// Info reports the underlying adapter's model metadata.
func (g *GenerationGateway) Info() adapter.ModelInfo {
	return g.llm.Info()
}

// Complete executes req and returns the full completion text.
func (g *GenerationGateway) Complete(ctx context.Context, req adapter.CompletionRequest) (string, error) {
	var text string

	err := g.retrier.DoIf(ctx, func() error {
		result, callErr := g.breaker.Execute(func() (any, error) {
			return adapter.CollectCompletion(ctx, g.llm, req)
		})
		if callErr != nil {
			g.log.Debug().Err(callErr).Str("model", req.Model).Msg("completion attempt failed")
			return callErr
		}
		text = result.(string)
		return nil
	}, func(err error) bool {
		// An open breaker fails fast on purpose; retrying defeats it.
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return false
		}
		return isTransient(err)
	})
	if err != nil {
		if mapped := echoerr.FromContext(err, "completion aborted"); echoerr.IsKind(mapped, echoerr.KindTimeout) {
			return "", mapped
		}
		return "", echoerr.Provider("completion failed", err)
	}
	return text, nil
}
