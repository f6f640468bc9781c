package blueprint

import (
	"encoding/json"
	"strings"

	"github.com/echoes-os/echoes/internal/echoerr"
)

// parseReversePrompts extracts ReversePrompt values from the model's
// JSON output. Lenient about the surroundings: searches for the first
// '[' and last ']' to handle models that wrap the array in prose or
// markdown fences. A well-formed empty array is a valid result;
// genuinely malformed output is a provider error, never passed inward.
func parseReversePrompts(raw string) ([]ReversePrompt, error) {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start == -1 || end <= start {
		return nil, echoerr.Provider("deconstruction output contained no JSON array", nil)
	}

	var candidates []ReversePrompt
	if err := json.Unmarshal([]byte(raw[start:end+1]), &candidates); err != nil {
		return nil, echoerr.Provider("deconstruction output was not valid JSON", err)
	}

	var out []ReversePrompt
	for _, c := range candidates {
		c.Prompt = strings.TrimSpace(c.Prompt)
		if c.Prompt == "" {
			continue
		}
		c.Rationale = strings.TrimSpace(c.Rationale)
		out = append(out, c)
	}
	return out, nil
}

// workflowResponse is the JSON shape returned by the workflow prompt.
type workflowResponse struct {
	Steps []struct {
		Step   int    `json:"step"`
		Tool   string `json:"tool"`
		Action string `json:"action"`
		Note   string `json:"note"`
	} `json:"steps"`
	ContentType string   `json:"content_type"`
	Confidence  float64  `json:"confidence"`
	Insights    []string `json:"insights"`
}

// parseWorkflow extracts a workflow analysis from the model's JSON
// output, tolerating prose around the object.
func parseWorkflow(raw string) (*workflowResponse, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return nil, echoerr.Provider("workflow output contained no JSON object", nil)
	}

	var resp workflowResponse
	if err := json.Unmarshal([]byte(raw[start:end+1]), &resp); err != nil {
		return nil, echoerr.Provider("workflow output was not valid JSON", err)
	}
	return &resp, nil
}
