package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"claimlens/internal/pipeline"
	"claimlens/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Verify multiple inputs from a file in parallel",
	Long: `Batch reads inputs from a file (one per line, '#' starts a comment)
and verifies them concurrently. Each line can be plain text, an article
URL, or a media URL. Results keep the input order of the file.

Example:
  claimlens batch inputs.txt
  claimlens batch inputs.txt --concurrency 8 --output-dir ./reports`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "", "write per-input JSON reports to this directory")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")

	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the article page cache")
	batchCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama, or empty to disable)")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (provider default when empty)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg := buildConfig()
	cfg.Cache.Enabled = !noCache
	if err := configureLLM(cfg, llmProvider, llmModel); err != nil {
		return err
	}

	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	p, err := pipeline.New(cfg)
	if err != nil {
		return err
	}

	processor := worker.NewBatchProcessor(p, concurrency)

	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Processed %d inputs with %d workers\n\n", len(results), concurrency)

	renderer := pipeline.NewRenderer()
	successCount := 0
	skipCount := 0
	failureCount := 0

	for i, result := range results {
		fmt.Printf("--- input %d: %s\n", i+1, truncateInput(result.Input))

		if result.Error != nil {
			failureCount++
			fmt.Printf("error: %v\n\n", result.Error)
			continue
		}
		if result.Report.Skipped {
			skipCount++
		} else {
			successCount++
		}

		if err := renderer.RenderText(os.Stdout, result.Report); err != nil {
			return fmt.Errorf("render report: %w", err)
		}
		fmt.Println()

		if outputDir != "" {
			path := filepath.Join(outputDir, fmt.Sprintf("report-%04d.json", i+1))
			if err := writeJSONReport(renderer, path, result); err != nil {
				fmt.Fprintf(os.Stderr, "✗ write %s: %v\n", path, err)
			}
		}
	}

	fmt.Fprintf(os.Stderr, "Done: %d verified, %d skipped, %d failed\n", successCount, skipCount, failureCount)
	if failureCount > 0 {
		return fmt.Errorf("%d of %d inputs failed", failureCount, len(results))
	}
	return nil
}

func writeJSONReport(renderer *pipeline.Renderer, path string, result *worker.CheckResult) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return renderer.RenderJSON(f, result.Report)
}

func truncateInput(s string) string {
	if len(s) <= 80 {
		return s
	}
	return s[:80] + "..."
}
