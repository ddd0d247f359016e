package extract

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"claimlens/internal/llm"
	"claimlens/internal/model"
)

// fakeProvider returns a canned completion or error.
type fakeProvider struct {
	reply  string
	err    error
	called bool
	prompt string
}

func (f *fakeProvider) Name() string                         { return "fake" }
func (f *fakeProvider) IsAvailable(ctx context.Context) bool { return true }

func (f *fakeProvider) Generate(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	f.called = true
	f.prompt = req.Prompt
	if f.err != nil {
		return nil, f.err
	}
	return &llm.GenerateResponse{Text: f.reply, Model: "fake"}, nil
}

func ranked(texts ...string) []model.Sentence {
	out := make([]model.Sentence, len(texts))
	for i, t := range texts {
		out[i] = model.Sentence{Text: t, Score: 0.9}
	}
	return out
}

func TestExtract_ParsesJSONArray(t *testing.T) {
	provider := &fakeProvider{reply: `["The WHO was founded in 1948.", "Coffee dehydrates you."]`}
	extractor := NewClaimExtractor(provider)

	claims, err := extractor.Extract(context.Background(), ranked("The WHO was founded in 1948.", "Coffee dehydrates you."))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	want := []string{"The WHO was founded in 1948.", "Coffee dehydrates you."}
	if !reflect.DeepEqual(claims, want) {
		t.Errorf("Expected %v, got %v", want, claims)
	}
}

func TestExtract_PromptContainsSentencesInOrder(t *testing.T) {
	provider := &fakeProvider{reply: `["a"]`}
	extractor := NewClaimExtractor(provider)

	_, err := extractor.Extract(context.Background(), ranked("First sentence.", "Second sentence."))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	first := strings.Index(provider.prompt, "First sentence.")
	second := strings.Index(provider.prompt, "Second sentence.")
	if first < 0 || second < 0 {
		t.Fatal("Expected both sentences in the prompt")
	}
	if first > second {
		t.Error("Expected sentences in ranked order in the prompt")
	}
}

func TestExtract_EmptyInputSkipsProvider(t *testing.T) {
	provider := &fakeProvider{reply: `["should not be used"]`}
	extractor := NewClaimExtractor(provider)

	claims, err := extractor.Extract(context.Background(), nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(claims) != 0 {
		t.Errorf("Expected no claims, got %v", claims)
	}
	if provider.called {
		t.Error("Expected provider not to be invoked for empty input")
	}
}

func TestExtract_MalformedReplyIsParseError(t *testing.T) {
	replies := []string{
		`Here are the claims: 1. The WHO was founded in 1948.`,
		`{"claims": ["a"]}`,
		`['single quoted', 'python list']`,
		``,
		`["valid", ""]`,
	}

	for _, reply := range replies {
		provider := &fakeProvider{reply: reply}
		extractor := NewClaimExtractor(provider)

		_, err := extractor.Extract(context.Background(), ranked("A sentence."))

		var parseErr *model.ParseError
		if !errors.As(err, &parseErr) {
			t.Errorf("reply %q: expected ParseError, got %v", reply, err)
		}
	}
}

func TestExtract_StripsCodeFence(t *testing.T) {
	provider := &fakeProvider{reply: "```json\n[\"Fenced claim.\"]\n```"}
	extractor := NewClaimExtractor(provider)

	claims, err := extractor.Extract(context.Background(), ranked("A sentence."))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(claims) != 1 || claims[0] != "Fenced claim." {
		t.Errorf("Expected fenced array to parse, got %v", claims)
	}
}

func TestExtract_ProviderFailureIsUpstreamError(t *testing.T) {
	provider := &fakeProvider{err: fmt.Errorf("connection refused")}
	extractor := NewClaimExtractor(provider)

	_, err := extractor.Extract(context.Background(), ranked("A sentence."))

	var upErr *model.UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("Expected UpstreamError, got %v", err)
	}
	if upErr.Stage != model.StageExtract {
		t.Errorf("Expected stage %q, got %q", model.StageExtract, upErr.Stage)
	}
}

func TestExtract_NoDeduplication(t *testing.T) {
	provider := &fakeProvider{reply: `["Same claim.", "Same claim."]`}
	extractor := NewClaimExtractor(provider)

	claims, err := extractor.Extract(context.Background(), ranked("A sentence."))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(claims) != 2 {
		t.Errorf("Expected duplicates preserved, got %v", claims)
	}
}
