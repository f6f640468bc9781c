package engine

import (
	"fmt"
	"strings"

	"github.com/echoes-os/echoes/internal/blueprint"
	"github.com/echoes-os/echoes/internal/memory"
)

const maxInsights = 5

// buildInsights summarises what the pipeline found, in plain language.
func buildInsights(input string, memories []memory.SearchResult, steps []blueprint.Step, contentType ContentType) []string {
	var insights []string

	if contentType == TypeQuery || contentType == TypeMixed {
		if len(memories) > 0 {
			insights = append(insights,
				fmt.Sprintf("Found %d relevant memories from your past content", len(memories)))

			sources := make(map[string]bool)
			for _, m := range memories {
				if m.SourceRef != "" {
					sources[m.SourceRef] = true
				}
			}
			if len(sources) > 1 {
				insights = append(insights,
					fmt.Sprintf("Results span %d different content sources", len(sources)))
			}

			var sum float64
			for _, m := range memories {
				sum += m.Score
			}
			switch avg := sum / float64(len(memories)); {
			case avg > 0.8:
				insights = append(insights, "High confidence matches - very relevant to your query")
			case avg > 0.6:
				insights = append(insights, "Good matches found with moderate confidence")
			default:
				insights = append(insights, "Some related content found, but matches are loose")
			}
		} else if contentType == TypeQuery {
			insights = append(insights,
				"No matching memories found - try a different query or upload more content")
		}
	}

	if contentType == TypeContent || contentType == TypeMixed {
		if len(steps) > 0 {
			insights = append(insights,
				fmt.Sprintf("Identified %d steps in the creative workflow", len(steps)))

			tools := make(map[string]bool)
			for _, s := range steps {
				tools[s.Tool] = true
			}
			insights = append(insights,
				fmt.Sprintf("Process likely involved %d different tools", len(tools)))

			switch {
			case len(steps) > 5:
				insights = append(insights, "Complex multi-step workflow with significant planning")
			case len(steps) > 3:
				insights = append(insights, "Moderate workflow complexity with clear structure")
			default:
				insights = append(insights, "Simple, streamlined creative process")
			}
		}

		if contentType == TypeMixed && len(memories) > 0 {
			insights = append(insights, "This content connects to themes you've explored before")
		}
	}

	if words := len(strings.Fields(input)); words > 200 {
		insights = append(insights, "Substantial content with rich detail for analysis")
	} else if words > 50 {
		insights = append(insights, "Medium-length content with good analytical depth")
	}

	if len(insights) > maxInsights {
		insights = insights[:maxInsights]
	}
	return insights
}
