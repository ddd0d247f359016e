// Package assess obtains an automated fact-assessment verdict for a whole
// passage from the text-generation collaborator. The verdict is opaque to
// the pipeline: it is decoded, preserved, and passed through unmodified.
package assess

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"claimlens/internal/llm"
	"claimlens/internal/model"
)

// Assessor submits the original input text for an independent automated
// verdict, separate from the per-claim fact-check search.
type Assessor struct {
	provider   llm.Provider
	minSources int
	topN       int
}

// NewAssessor creates an assessor backed by the given provider.
func NewAssessor(provider llm.Provider, minSources, topN int) *Assessor {
	if minSources <= 0 {
		minSources = 2
	}
	if topN <= 0 {
		topN = 3
	}
	return &Assessor{provider: provider, minSources: minSources, topN: topN}
}

// Assess runs the assessment collaborator over the passage and decodes the
// structured verdict. An undecodable reply is a ParseError; the assessor
// never substitutes a fabricated verdict.
func (a *Assessor) Assess(ctx context.Context, text string) (model.Assessment, error) {
	if a.provider == nil {
		return nil, &model.ConfigError{Key: "llm.provider"}
	}

	resp, err := a.provider.Generate(ctx, llm.GenerateRequest{
		System:      "You are a fact-checking system.",
		Prompt:      buildAssessmentPrompt(text, a.minSources, a.topN),
		Temperature: 0.2,
	})
	if err != nil {
		return nil, &model.UpstreamError{Stage: model.StageAssess, Err: err}
	}

	return parseVerdict(resp.Text)
}

// buildAssessmentPrompt asks for a structured per-claim verdict plus an
// overall reliability judgment, serialized as one JSON object.
func buildAssessmentPrompt(text string, minSources, topN int) string {
	return fmt.Sprintf(`GOAL
From the provided text, identify and fact-check the TOP %d claimworthy
sentences. If fewer exist, return only those found. Do NOT invent claims,
sources, or padding.

SELECTION RULES
- A claimworthy sentence is a statement that can be checked against evidence.
- Prioritize sentences that are specific, measurable, and consequential.
- Exclude opinions, vague generalities, and rhetorical questions.

FOR EACH SELECTED CLAIM PROVIDE
- rank (1 = highest priority)
- sentence
- verdict: "True" | "False" | "Misleading" | "Unverified"
- confidence: 0-100
- confidence_band: "Established fact" | "Very likely" | "Likely" |
  "Uncertain / Mixed" | "Doubtful" | "Unlikely" | "False / Unsupported"
- reasoning: 1-3 sentences explaining the verdict and key evidence
- sources: at least %d reliable sources; prefer established fact-checkers
  (PolitiFact, FactCheck.org, Snopes, Reuters Fact Check, Full Fact),
  official government sources, and peer-reviewed research. Do not
  fabricate sources; if evidence is insufficient, use "Unverified".

OUTPUT FORMAT
Return a single JSON object and nothing else (no code fences):
{
  "claims": [
    {"rank": 1, "sentence": "...", "verdict": "...", "confidence": 0,
     "confidence_band": "...", "reasoning": "...", "sources": ["..."]}
  ],
  "overall_reliability": {"score": 0, "band": "...", "summary": "..."}
}

TEXT TO ANALYZE
"""%s"""`, topN, minSources, strings.TrimSpace(text))
}

// parseVerdict decodes the reply into the opaque assessment structure.
func parseVerdict(raw string) (model.Assessment, error) {
	text := strings.TrimSpace(raw)
	if fenced, ok := strings.CutPrefix(text, "```"); ok {
		if idx := strings.Index(fenced, "\n"); idx >= 0 {
			fenced = fenced[idx+1:]
		}
		if idx := strings.LastIndex(fenced, "```"); idx >= 0 {
			text = strings.TrimSpace(fenced[:idx])
		}
	}

	var verdict model.Assessment
	if err := json.Unmarshal([]byte(text), &verdict); err != nil {
		return nil, &model.ParseError{
			Stage:  model.StageAssess,
			Detail: fmt.Sprintf("expected JSON object: %v", err),
		}
	}
	if verdict == nil {
		return nil, &model.ParseError{Stage: model.StageAssess, Detail: "null verdict"}
	}
	return verdict, nil
}
