// Package extract turns ranked check-worthy sentences into a discrete
// list of atomic claims via the text-generation collaborator.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"claimlens/internal/llm"
	"claimlens/internal/model"
)

// ClaimExtractor builds one extraction instruction from the ranked
// sentences and parses the collaborator's reply into claim strings.
type ClaimExtractor struct {
	provider llm.Provider
}

// NewClaimExtractor creates a new claim extractor backed by the given
// provider.
func NewClaimExtractor(provider llm.Provider) *ClaimExtractor {
	return &ClaimExtractor{provider: provider}
}

// Extract submits the ranked sentences in a single instruction and
// returns the parsed claim list. Empty input short-circuits without
// invoking the collaborator. Claims are returned exactly as parsed: no
// deduplication, no fabrication.
func (e *ClaimExtractor) Extract(ctx context.Context, ranked []model.Sentence) ([]string, error) {
	if len(ranked) == 0 {
		return []string{}, nil
	}
	if e.provider == nil {
		return nil, &model.ConfigError{Key: "llm.provider"}
	}

	texts := make([]string, len(ranked))
	for i, s := range ranked {
		texts[i] = s.Text
	}

	resp, err := e.provider.Generate(ctx, llm.GenerateRequest{
		System:      "You are helping with a news fact-checking pipeline.",
		Prompt:      buildExtractionPrompt(texts),
		Temperature: 0.2,
	})
	if err != nil {
		return nil, &model.UpstreamError{Stage: model.StageExtract, Err: err}
	}

	return ParseClaimList(resp.Text)
}

// buildExtractionPrompt asks for one verifiable claim per input line,
// serialized as a JSON array so the reply can be decoded strictly.
func buildExtractionPrompt(sentences []string) string {
	var b strings.Builder
	b.WriteString(`TASK
Extract one verifiable claim from each line of the text below.
Assume that every line contains a claim that must be extracted.

DEFINITION OF "CLAIM"
A concise, self-contained factual statement that can be independently
verified (who/what/where/when/how many). Avoid vague themes, opinions,
or advice.

RULES
- Prefer specific, time-bound, numeric, or clearly attributable statements.
- Each claim must stand alone without the surrounding text for context.
- Do not fabricate claims; return fewer if fewer qualify.

OUTPUT FORMAT (IMPORTANT)
- Return a single JSON array of strings and nothing else.
- No numbering, no commentary, no code fences, no trailing comma.

EXAMPLE
Text:
City X reports 12 new measles cases.
Mayor Jane Doe declares emergency.
Output: ["City X reports 12 new measles cases.", "Mayor Jane Doe declares an emergency in City X."]

NOW EXTRACT FROM THIS TEXT
`)
	for _, s := range sentences {
		b.WriteString(s)
		b.WriteString("\n")
	}
	return b.String()
}

// ParseClaimList decodes the collaborator's reply into a list of claim
// strings. The reply must be a JSON array of non-empty strings; a wrapping
// code fence is stripped first since models add one despite instructions.
// Anything else is a ParseError, never a best-effort guess.
func ParseClaimList(raw string) ([]string, error) {
	text := stripCodeFence(strings.TrimSpace(raw))
	if text == "" {
		return nil, &model.ParseError{Stage: model.StageExtract, Detail: "empty response"}
	}

	var claims []string
	if err := json.Unmarshal([]byte(text), &claims); err != nil {
		return nil, &model.ParseError{
			Stage:  model.StageExtract,
			Detail: fmt.Sprintf("expected JSON array of strings: %v", err),
		}
	}

	out := make([]string, 0, len(claims))
	for _, c := range claims {
		c = strings.TrimSpace(c)
		if c == "" {
			return nil, &model.ParseError{Stage: model.StageExtract, Detail: "claim list contains an empty string"}
		}
		out = append(out, c)
	}
	return out, nil
}

// stripCodeFence removes a single wrapping ``` fence (with optional
// language tag) when both the opening and closing fence are present.
func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}

	rest := text[3:]
	if idx := strings.Index(rest, "\n"); idx >= 0 {
		rest = rest[idx+1:]
	}
	if idx := strings.LastIndex(rest, "```"); idx >= 0 {
		return strings.TrimSpace(rest[:idx])
	}
	return text
}
