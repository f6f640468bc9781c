package adapter

import "context"

// Embedder is a narrower interface for components that only need embedding,
// not full chat completion. An LLMAdapter satisfies this interface.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Transcriber converts recorded audio/video into text. Only the OpenAI
// adapter implements it; callers should treat it as an external boundary.
type Transcriber interface {
	Transcribe(ctx context.Context, mediaPath string) (string, error)
}
