// Package engine classifies incoming text and routes it to retrieval,
// workflow reconstruction, or both, merging the outcomes into a single
// response.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/echoes-os/echoes/internal/adapter"
	"github.com/echoes-os/echoes/internal/blueprint"
)

// ContentType is the classifier's verdict on a piece of input.
type ContentType string

const (
	TypeQuery   ContentType = "query"
	TypeContent ContentType = "content"
	TypeMixed   ContentType = "mixed"
)

// Classification is the classifier's advisory output. It steers routing
// but never blocks a downstream call.
type Classification struct {
	ContentType ContentType
	Confidence  float64
	Reasoning   string
}

// mixedConfidenceFloor: an LLM verdict below this confidence is treated
// as mixed and routed down both paths.
const mixedConfidenceFloor = 0.55

// Classifier decides whether input asks about past content or is
// content to analyze. It prefers the generation provider and falls back
// to lexical heuristics when the provider fails.
type Classifier struct {
	llm blueprint.Completer
	log zerolog.Logger
}

// NewClassifier creates a Classifier. llm may be nil; classification
// then runs on heuristics alone.
func NewClassifier(llm blueprint.Completer, log zerolog.Logger) *Classifier {
	return &Classifier{llm: llm, log: log}
}

type classifyResponse struct {
	IsQuery    bool    `json:"is_query"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// Classify determines the content type of input. Never fails on
// provider trouble: the heuristic path always produces a verdict.
func (c *Classifier) Classify(ctx context.Context, input string) Classification {
	if c.llm != nil {
		if result, ok := c.classifyLLM(ctx, input); ok {
			return result
		}
	}
	return classifyHeuristic(input)
}

func (c *Classifier) classifyLLM(ctx context.Context, input string) (Classification, bool) {
	capped := input
	if len(capped) > 1000 {
		capped = capped[:1000]
	}

	text, err := c.llm.Complete(ctx, adapter.CompletionRequest{
		SystemPrompt: "You analyze input to determine if it's a query or content.",
		UserMessage: fmt.Sprintf(`Analyze this input to determine if it's a QUERY (asking about past content) or CONTENT (to be analyzed for workflow).

Input: %s

Return JSON:
{
  "is_query": true/false,
  "confidence": 0.0-1.0,
  "reasoning": "Brief explanation"
}

Queries typically ask questions, use question words, or reference "past" content.
Content is usually statements, posts, articles, or creative work to analyze.`, capped),
		MaxTokens:   200,
		Temperature: 0.1,
	})
	if err != nil {
		c.log.Debug().Err(err).Msg("classifier provider failed, using heuristics")
		return Classification{}, false
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return Classification{}, false
	}
	var resp classifyResponse
	if err := json.Unmarshal([]byte(text[start:end+1]), &resp); err != nil {
		return Classification{}, false
	}

	result := Classification{
		Confidence: clamp01(resp.Confidence),
		Reasoning:  resp.Reasoning,
	}
	switch {
	case result.Confidence < mixedConfidenceFloor:
		result.ContentType = TypeMixed
	case resp.IsQuery:
		result.ContentType = TypeQuery
	default:
		result.ContentType = TypeContent
	}
	return result, true
}

var queryWords = []string{"what", "when", "where", "how", "why", "did i", "have i", "show me", "find", "search"}

var contentIndicators = []string{"🧵", "\n\n", "1/", "2/", "here's", "today", "just", "published"}

// classifyHeuristic scores lexical signals on both sides. Equal scores
// mean the input leans both ways, so it routes down both paths.
func classifyHeuristic(input string) Classification {
	lower := strings.ToLower(input)

	queryScore := 0
	for _, w := range queryWords {
		if strings.Contains(lower, w) {
			queryScore++
		}
	}
	queryScore += strings.Count(input, "?") * 2

	contentScore := 0
	for _, ind := range contentIndicators {
		if strings.Contains(lower, ind) {
			contentScore++
		}
	}

	words := len(strings.Fields(input))
	if words > 100 {
		contentScore += 2
	} else if words < 20 {
		queryScore++
	}

	total := queryScore + contentScore
	if total == 0 {
		total = 1
	}
	diff := queryScore - contentScore
	if diff < 0 {
		diff = -diff
	}
	confidence := minF(0.9, maxF(0.5, float64(diff)/float64(total)))

	result := Classification{
		Confidence: confidence,
		Reasoning:  fmt.Sprintf("Query indicators: %d, Content indicators: %d", queryScore, contentScore),
	}
	switch {
	case queryScore > contentScore:
		result.ContentType = TypeQuery
	case contentScore > queryScore:
		result.ContentType = TypeContent
	default:
		result.ContentType = TypeMixed
	}
	return result
}

func clamp01(v float64) float64 {
	return maxF(0, minF(1, v))
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
