package blueprint

import (
	"fmt"
	"strings"
)

const maxAnalyzedChars = 4000

const deconstructSystemPrompt = "You are an expert at analyzing creative workflows and inferring the process behind content creation."

const reconstructSystemPrompt = "You synthesize generation prompts that reproduce a creator's voice and approach."

func renderDeconstructPrompt(content string) string {
	return fmt.Sprintf(`You are a creativity historian AI. Given this content, reverse-engineer the prompts that most likely produced it.

Analyze the content for:
- Structure and organization patterns
- Tone and style indicators
- Voice and approach markers

Content to analyze:
%s

Return a JSON array. Each element: {"prompt": "the prompt that likely produced this", "rationale": "what in the content suggests it"}.
Order the array from the most to the least influential prompt. If no discernible pattern exists, return [].
No prose, no markdown — only the JSON array.`, capContent(content))
}

func renderReconstructPrompt(prompts []ReversePrompt, req CompositionRequest) string {
	var sb strings.Builder
	sb.WriteString("These prompts were reverse-engineered from the creator's past work:\n\n")
	for i, p := range prompts {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, p.Prompt)
		if p.Rationale != "" {
			fmt.Fprintf(&sb, "   (%s)\n", p.Rationale)
		}
	}

	fmt.Fprintf(&sb, `
The creator now wants a new piece:
Title: %s
Topics: %s
Context: %s

Synthesize ONE generation prompt that blends the style signals from the reverse-engineered prompts with the new title, topics, and context. Return only the prompt text, nothing else.`,
		req.Title, strings.Join(req.Topics, ", "), req.Context)
	return sb.String()
}

func renderWorkflowPrompt(content string) string {
	return fmt.Sprintf(`You are a creativity historian AI. Given this content, return the most likely timeline of steps taken to create it.

Analyze the content for:
- Structure and organization patterns
- Tone and style indicators
- Tool usage hints
- Creative process markers

Content to analyze:
%s

Return a JSON response with this exact structure:
{
  "steps": [
    {
      "step": 1,
      "tool": "Tool name",
      "action": "What was done",
      "note": "Style/approach insight"
    }
  ],
  "content_type": "Type of content",
  "confidence": 0.85,
  "insights": ["Key insight 1", "Key insight 2"]
}

Focus on realistic, practical steps. Infer tools based on content structure and style.`, capContent(content))
}

func capContent(content string) string {
	if len(content) > maxAnalyzedChars {
		return content[:maxAnalyzedChars]
	}
	return content
}
