// Package score ranks sentences by check-worthiness using an external
// scoring service (ClaimBuster batch API).
package score

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"claimlens/internal/model"
	"claimlens/internal/segment"
)

const maxErrorBody = 500

// Scorer submits sentence batches to the scoring collaborator and turns
// the response into ranked sentences.
type Scorer struct {
	httpClient *http.Client
	apiKey     string
	endpoint   string
}

// NewScorer creates a scorer from configuration.
func NewScorer(cfg model.ClaimBusterConfig) *Scorer {
	return &Scorer{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		apiKey:     cfg.APIKey,
		endpoint:   cfg.Endpoint,
	}
}

// Score submits all sentences in one batch request and returns one scored
// sentence per recognized response entry. An empty batch short-circuits
// without a request.
func (s *Scorer) Score(ctx context.Context, sentences []string) ([]model.Sentence, error) {
	if len(sentences) == 0 {
		return []model.Sentence{}, nil
	}
	if s.apiKey == "" {
		return nil, &model.ConfigError{Key: "CLAIMBUSTER_API_KEY"}
	}

	payload, err := json.Marshal(map[string]string{
		"input_text": segment.Join(sentences),
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &model.UpstreamError{Stage: model.StageScore, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &model.UpstreamError{Stage: model.StageScore, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &model.UpstreamError{
			Stage:      model.StageScore,
			StatusCode: resp.StatusCode,
			Body:       truncate(string(body), maxErrorBody),
		}
	}

	return normalizeResponse(body, sentences)
}

// ScoreAndRank scores the batch, drops sentences below threshold, sorts
// the rest by score descending (stable, so ties keep batch order) and
// returns at most topK sentences. Zero qualifying sentences is a valid,
// empty result.
func (s *Scorer) ScoreAndRank(ctx context.Context, sentences []string, topK int, threshold float64) ([]model.Sentence, error) {
	scored, err := s.Score(ctx, sentences)
	if err != nil {
		return nil, err
	}
	return Rank(scored, topK, threshold), nil
}

// Rank applies the threshold cut, stable descending sort, and top-K cap to
// already-scored sentences.
func Rank(scored []model.Sentence, topK int, threshold float64) []model.Sentence {
	ranked := make([]model.Sentence, 0, len(scored))
	for _, s := range scored {
		if s.Score >= threshold {
			ranked = append(ranked, s)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if topK < 0 {
		topK = 0
	}
	if len(ranked) > topK {
		ranked = ranked[:topK]
	}
	return ranked
}

// The scoring service answers in one of several shapes: a bare array of
// scored objects, a {"results": [...]} wrapper, or a flat mapping from
// sentence text to score. normalizeResponse resolves all of them to the
// canonical internal form and rejects anything else.
func normalizeResponse(body []byte, submitted []string) ([]model.Sentence, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, &model.ParseError{Stage: model.StageScore, Detail: "empty response body"}
	}

	switch trimmed[0] {
	case '[':
		var entries []scoredEntry
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, &model.ParseError{Stage: model.StageScore, Detail: fmt.Sprintf("decode array: %v", err)}
		}
		return fromEntries(entries)

	case '{':
		var wrapper struct {
			Results []scoredEntry `json:"results"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err == nil && wrapper.Results != nil {
			return fromEntries(wrapper.Results)
		}

		var mapping map[string]float64
		if err := json.Unmarshal(trimmed, &mapping); err != nil {
			return nil, &model.ParseError{Stage: model.StageScore, Detail: fmt.Sprintf("decode mapping: %v", err)}
		}
		return fromMapping(mapping, submitted)
	}

	return nil, &model.ParseError{
		Stage:  model.StageScore,
		Detail: fmt.Sprintf("unrecognized response shape: %s", truncate(string(trimmed), 80)),
	}
}

// scoredEntry tolerates the field aliases the service uses across
// versions.
type scoredEntry struct {
	Sentence        string   `json:"sentence"`
	Text            string   `json:"text"`
	Score           *float64 `json:"score"`
	Checkworthiness *float64 `json:"checkworthiness"`
	Value           *float64 `json:"value"`
}

func (e scoredEntry) sentence() string {
	if e.Sentence != "" {
		return e.Sentence
	}
	return e.Text
}

func (e scoredEntry) score() (float64, bool) {
	for _, v := range []*float64{e.Score, e.Checkworthiness, e.Value} {
		if v != nil {
			return *v, true
		}
	}
	return 0, false
}

func fromEntries(entries []scoredEntry) ([]model.Sentence, error) {
	out := make([]model.Sentence, 0, len(entries))
	for _, e := range entries {
		text := e.sentence()
		value, ok := e.score()
		if text == "" || !ok {
			return nil, &model.ParseError{Stage: model.StageScore, Detail: "entry missing sentence or score"}
		}
		out = append(out, model.Sentence{Text: text, Score: value})
	}
	return out, nil
}

// fromMapping re-keys a sentence->score object against the submitted batch
// so the canonical form keeps source text order, which the stable sort
// later relies on for ties.
func fromMapping(mapping map[string]float64, submitted []string) ([]model.Sentence, error) {
	if len(mapping) == 0 {
		return nil, &model.ParseError{Stage: model.StageScore, Detail: "empty score mapping"}
	}

	out := make([]model.Sentence, 0, len(mapping))
	for _, text := range submitted {
		if value, ok := mapping[text]; ok {
			out = append(out, model.Sentence{Text: text, Score: value})
		}
	}
	if len(out) == 0 {
		return nil, &model.ParseError{Stage: model.StageScore, Detail: "score mapping matches no submitted sentence"}
	}
	return out, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.TrimSpace(s[:n]) + "..."
}
