package worker

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"claimlens/internal/model"
)

// slowChecker sleeps a random short interval so completion order differs
// from input order.
type slowChecker struct{}

func (c *slowChecker) Check(ctx context.Context, input string) (*model.Report, error) {
	time.Sleep(time.Duration(rand.Intn(20)) * time.Millisecond)
	return model.NewReport(input), nil
}

func TestReadInputsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inputs.txt")
	content := "First input line.\n\n# a comment\nhttps://example.com/article\n   \nLast line.\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}

	inputs, err := ReadInputsFromFile(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := []string{"First input line.", "https://example.com/article", "Last line."}
	if len(inputs) != len(want) {
		t.Fatalf("expected %d inputs, got %d: %v", len(want), len(inputs), inputs)
	}
	for i := range want {
		if inputs[i] != want[i] {
			t.Errorf("input %d: expected %q, got %q", i, want[i], inputs[i])
		}
	}
}

func TestReadInputsFromFile_Missing(t *testing.T) {
	if _, err := ReadInputsFromFile("/nonexistent/inputs.txt"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestBatchProcessor_EmptyInputs(t *testing.T) {
	processor := NewBatchProcessor(&slowChecker{}, 2)
	results := processor.ProcessInputs(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}
