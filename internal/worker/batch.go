package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"claimlens/internal/model"
)

// Checker runs the verification pipeline over a single raw input (pasted
// text, article URL, or media reference).
type Checker interface {
	Check(ctx context.Context, input string) (*model.Report, error)
}

// CheckJob verifies one input from a batch.
type CheckJob struct {
	Index   int
	Input   string
	Checker Checker
}

// Execute executes the check job
func (j *CheckJob) Execute(ctx context.Context) Result {
	report, err := j.Checker.Check(ctx, j.Input)
	return &CheckResult{
		Index:  j.Index,
		Input:  j.Input,
		Report: report,
		Error:  err,
	}
}

// CheckResult represents the result of a check job
type CheckResult struct {
	Index  int
	Input  string
	Report *model.Report
	Error  error
}

// GetError returns the error from the check result
func (r *CheckResult) GetError() error {
	return r.Error
}

// BatchProcessor verifies multiple inputs concurrently.
type BatchProcessor struct {
	checker     Checker
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(checker Checker, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		checker:     checker,
		concurrency: concurrency,
	}
}

// ProcessInputs verifies inputs concurrently, returning results in input
// order regardless of completion order.
func (b *BatchProcessor) ProcessInputs(ctx context.Context, inputs []string) []*CheckResult {
	if len(inputs) == 0 {
		return []*CheckResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for i, input := range inputs {
		pool.Submit(&CheckJob{
			Index:   i,
			Input:   input,
			Checker: b.checker,
		})
	}

	ordered := make([]*CheckResult, len(inputs))
	for _, result := range pool.Wait() {
		cr := result.(*CheckResult)
		ordered[cr.Index] = cr
	}

	// A cancelled run may leave holes; fill them so callers can range safely.
	for i, cr := range ordered {
		if cr == nil {
			ordered[i] = &CheckResult{Index: i, Input: inputs[i], Error: ctx.Err()}
		}
	}
	return ordered
}

// ProcessFile reads inputs from a file and verifies them concurrently.
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*CheckResult, error) {
	inputs, err := ReadInputsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read inputs: %w", err)
	}
	return b.ProcessInputs(ctx, inputs), nil
}

// ReadInputsFromFile reads inputs from a file (one per line), skipping
// blank lines and '#' comments.
func ReadInputsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var inputs []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		inputs = append(inputs, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return inputs, nil
}
