package assess

import (
	"context"
	"errors"
	"strings"
	"testing"

	"claimlens/internal/llm"
	"claimlens/internal/model"
)

type fakeProvider struct {
	reply  string
	err    error
	prompt string
}

func (f *fakeProvider) Name() string                         { return "fake" }
func (f *fakeProvider) IsAvailable(ctx context.Context) bool { return true }

func (f *fakeProvider) Generate(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	f.prompt = req.Prompt
	if f.err != nil {
		return nil, f.err
	}
	return &llm.GenerateResponse{Text: f.reply, Model: "fake"}, nil
}

const verdictJSON = `{
	"claims": [
		{"rank": 1, "sentence": "The WHO was founded in 1948.", "verdict": "True",
		 "confidence": 97, "confidence_band": "Established fact",
		 "reasoning": "Founding year is documented.", "sources": ["https://www.who.int"]}
	],
	"overall_reliability": {"score": 80, "band": "Likely", "summary": "Mostly accurate."}
}`

func TestAssess_DecodesVerdict(t *testing.T) {
	provider := &fakeProvider{reply: verdictJSON}
	assessor := NewAssessor(provider, 2, 3)

	verdict, err := assessor.Assess(context.Background(), "The WHO was founded in 1948.")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, ok := verdict["claims"]; !ok {
		t.Error("Expected verdict to preserve 'claims' key")
	}
	overall, ok := verdict["overall_reliability"].(map[string]any)
	if !ok {
		t.Fatal("Expected 'overall_reliability' object")
	}
	if overall["band"] != "Likely" {
		t.Errorf("Expected band preserved, got %v", overall["band"])
	}
}

func TestAssess_PromptCarriesTextAndHints(t *testing.T) {
	provider := &fakeProvider{reply: `{}`}
	assessor := NewAssessor(provider, 4, 5)

	_, err := assessor.Assess(context.Background(), "Some passage to assess.")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !strings.Contains(provider.prompt, "Some passage to assess.") {
		t.Error("Expected original text in prompt")
	}
	if !strings.Contains(provider.prompt, "TOP 5") {
		t.Error("Expected top-N hint in prompt")
	}
	if !strings.Contains(provider.prompt, "at least 4") {
		t.Error("Expected minimum-sources hint in prompt")
	}
}

func TestAssess_FencedReplyStillDecodes(t *testing.T) {
	provider := &fakeProvider{reply: "```json\n" + verdictJSON + "\n```"}
	assessor := NewAssessor(provider, 2, 3)

	verdict, err := assessor.Assess(context.Background(), "text")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, ok := verdict["claims"]; !ok {
		t.Error("Expected fenced verdict to decode")
	}
}

func TestAssess_MalformedReplyIsParseError(t *testing.T) {
	for _, reply := range []string{"The text is mostly true.", "", "[1,2,3]", "null"} {
		provider := &fakeProvider{reply: reply}
		assessor := NewAssessor(provider, 2, 3)

		_, err := assessor.Assess(context.Background(), "text")

		var parseErr *model.ParseError
		if !errors.As(err, &parseErr) {
			t.Errorf("reply %q: expected ParseError, got %v", reply, err)
		}
	}
}

func TestAssess_ProviderFailureIsUpstreamError(t *testing.T) {
	provider := &fakeProvider{err: errors.New("timeout")}
	assessor := NewAssessor(provider, 2, 3)

	_, err := assessor.Assess(context.Background(), "text")

	var upErr *model.UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("Expected UpstreamError, got %v", err)
	}
	if upErr.Stage != model.StageAssess {
		t.Errorf("Expected stage %q, got %q", model.StageAssess, upErr.Stage)
	}
}
