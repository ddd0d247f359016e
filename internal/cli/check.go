package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"claimlens/internal/pipeline"
)

var (
	checkTimeout   time.Duration
	topK           int
	scoreThreshold float64
	language       string
	maxResults     int
	searchWorkers  int
	jsonOutput     bool
	noCache        bool
	llmProvider    string
	llmModel       string
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <text|url>",
	Short: "Verify a single input and print a verification report",
	Long: `Check runs the verification pipeline over one input:
- Plain text is verified as-is
- Article URLs are fetched and reduced to readable text first
- Media URLs (YouTube) are reported as skipped

The report ranks check-worthy sentences, extracts atomic claims,
looks up published fact-checks per claim, and attaches an automated
assessment of the whole text.

Example:
  claimlens check "The WHO was founded in 1948. Vaccines cause autism."
  claimlens check https://example.com/news/article --json
  claimlens check "..." --top-k 5 --threshold 0.4 --llm-provider ollama`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 2*time.Minute, "overall check timeout")
	checkCmd.Flags().IntVar(&topK, "top-k", 0, "max check-worthy sentences to keep (0 = config default)")
	checkCmd.Flags().Float64Var(&scoreThreshold, "threshold", 0, "check-worthiness score threshold (0 = config default)")
	checkCmd.Flags().StringVar(&language, "language", "", "fact-check search language code")
	checkCmd.Flags().IntVar(&maxResults, "max-results", 0, "max fact-check results per claim (0 = config default)")
	checkCmd.Flags().IntVar(&searchWorkers, "workers", 0, "concurrent fact-check lookups (0 = config default)")
	checkCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the report as JSON")
	checkCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the article page cache")
	checkCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama, or empty to disable)")
	checkCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (provider default when empty)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	input := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	cfg := buildConfig()
	if topK > 0 {
		cfg.Pipeline.TopK = topK
	}
	if scoreThreshold > 0 {
		cfg.Pipeline.ScoreThreshold = scoreThreshold
	}
	if language != "" {
		cfg.FactCheck.Language = language
	}
	if maxResults > 0 {
		cfg.FactCheck.MaxResults = maxResults
	}
	if searchWorkers > 0 {
		cfg.Pipeline.SearchWorkers = searchWorkers
	}
	cfg.Cache.Enabled = !noCache

	if err := configureLLM(cfg, llmProvider, llmModel); err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Checking: %s\n", input)
		fmt.Fprintf(os.Stderr, "Top-K: %d, threshold: %.2f\n", cfg.Pipeline.TopK, cfg.Pipeline.ScoreThreshold)
		if cfg.LLM.Provider != "" {
			fmt.Fprintf(os.Stderr, "LLM: %s\n", cfg.LLM.Provider)
		}
		fmt.Fprintln(os.Stderr)
	}

	p, err := pipeline.New(cfg)
	if err != nil {
		return err
	}

	report, err := p.Check(ctx, input)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	if verbose && !report.Skipped {
		fmt.Fprintf(os.Stderr, "✓ %d check-worthy sentences\n", len(report.RankedSentences))
		fmt.Fprintf(os.Stderr, "✓ %d claims extracted\n", len(report.Claims))
		fmt.Fprintln(os.Stderr)
	}

	renderer := pipeline.NewRenderer()
	if jsonOutput {
		return renderer.RenderJSON(os.Stdout, report)
	}
	return renderer.RenderText(os.Stdout, report)
}
