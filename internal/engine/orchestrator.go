package engine

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/echoes-os/echoes/internal/blueprint"
	"github.com/echoes-os/echoes/internal/echoerr"
	"github.com/echoes-os/echoes/internal/memory"
	"github.com/echoes-os/echoes/internal/retrieval"
)

// Analysis accompanies every orchestrator response: the classifier's
// verdict plus human-readable notes about what happened.
type Analysis struct {
	ContentType ContentType `json:"content_type"`
	Confidence  float64     `json:"confidence"`
	Insights    []string    `json:"insights"`
}

// Result is the merged outcome of one Process call.
type Result struct {
	Memories       []memory.SearchResult     `json:"memories"`
	Blueprint      []blueprint.Step          `json:"blueprint"`
	ReversePrompts []blueprint.ReversePrompt `json:"reverse_prompts"`
	Analysis       Analysis                  `json:"analysis"`
}

// Asker answers semantic queries. Satisfied by the retrieval service.
type Asker interface {
	Ask(ctx context.Context, query string, limit int, threshold float64) ([]memory.SearchResult, error)
}

// Orchestrator classifies input and fans out to retrieval and workflow
// analysis. It holds no state of its own; all composition happens per
// call.
type Orchestrator struct {
	classifier *Classifier
	retrieval  Asker
	llm        blueprint.Completer
	log        zerolog.Logger
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(classifier *Classifier, ret Asker, llm blueprint.Completer, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{classifier: classifier, retrieval: ret, llm: llm, log: log}
}

// Completer exposes the generation gateway for callers that run
// workflow analysis directly.
func (o *Orchestrator) Completer() blueprint.Completer {
	return o.llm
}

// Process runs the unified pipeline: classify, route, merge. Query
// input goes to retrieval; content input goes to workflow analysis;
// mixed input runs both concurrently. A failed path degrades to an
// empty result with an insight note rather than failing the request;
// only blank input is a hard error.
func (o *Orchestrator) Process(ctx context.Context, input string) (Result, error) {
	if strings.TrimSpace(input) == "" {
		return Result{}, echoerr.Validation("input must not be blank")
	}
	input = strings.TrimSpace(input)

	classification := o.classifier.Classify(ctx, input)
	o.log.Debug().
		Str("content_type", string(classification.ContentType)).
		Float64("confidence", classification.Confidence).
		Msg("input classified")

	runRetrieval := classification.ContentType == TypeQuery || classification.ContentType == TypeMixed
	runBlueprint := classification.ContentType == TypeContent || classification.ContentType == TypeMixed

	var (
		wg             sync.WaitGroup
		memories       []memory.SearchResult
		retrievalErr   error
		steps          []blueprint.Step
		workflow       *blueprint.WorkflowAnalysis
		reversePrompts []blueprint.ReversePrompt
		deconstructErr error
	)

	if runRetrieval {
		wg.Add(1)
		go func() {
			defer wg.Done()
			memories, retrievalErr = o.retrieval.Ask(ctx, input, retrieval.DefaultLimit, retrieval.DefaultThreshold)
		}()
	}
	if runBlueprint {
		wg.Add(1)
		go func() {
			defer wg.Done()
			workflow = blueprint.AnalyzeWorkflow(ctx, o.llm, input)
		}()
		// Stage 1 deconstruction runs alongside workflow analysis; a
		// throwaway session keeps the two-stage machine out of here.
		wg.Add(1)
		go func() {
			defer wg.Done()
			reversePrompts, deconstructErr = blueprint.NewSession(o.llm, o.log).Deconstruct(ctx, input)
		}()
	}
	wg.Wait()

	// Caller cancellation is not a degradable failure.
	if err := ctx.Err(); err != nil {
		return Result{}, echoerr.FromContext(err, "processing aborted")
	}

	var notes []string
	if retrievalErr != nil {
		o.log.Warn().Err(retrievalErr).Msg("memory search degraded")
		memories = nil
		notes = append(notes, "Memory search was unavailable for this request")
	}
	if deconstructErr != nil {
		o.log.Warn().Err(deconstructErr).Msg("style deconstruction degraded")
		reversePrompts = nil
		notes = append(notes, "Style deconstruction was unavailable for this request")
	}
	if workflow != nil {
		steps = workflow.Steps
	}

	insights := buildInsights(input, memories, steps, classification.ContentType)
	insights = append(notes, insights...)
	if len(insights) > maxInsights {
		insights = insights[:maxInsights]
	}

	return Result{
		Memories:       memories,
		Blueprint:      steps,
		ReversePrompts: reversePrompts,
		Analysis: Analysis{
			ContentType: classification.ContentType,
			Confidence:  classification.Confidence,
			Insights:    insights,
		},
	}, nil
}
