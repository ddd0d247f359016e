package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"claimlens/internal/model"
)

// Renderer writes reports as JSON or as a human-readable summary.
type Renderer struct{}

// NewRenderer creates a renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderJSON writes the report as indented JSON.
func (r *Renderer) RenderJSON(w io.Writer, report *model.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// RenderText writes a readable summary of the report.
func (r *Renderer) RenderText(w io.Writer, report *model.Report) error {
	if report.Skipped {
		fmt.Fprintf(w, "Skipped %s input", report.Source)
		if report.SourceURL != "" {
			fmt.Fprintf(w, " (%s)", report.SourceURL)
		}
		fmt.Fprintf(w, ": %s\n", report.SkipReason)
		return nil
	}

	if report.SourceURL != "" {
		fmt.Fprintf(w, "Source: %s\n\n", report.SourceURL)
	}

	fmt.Fprintf(w, "Check-worthy sentences (%d):\n", len(report.RankedSentences))
	if len(report.RankedSentences) == 0 {
		fmt.Fprintln(w, "  none above threshold")
	}
	for i, s := range report.RankedSentences {
		fmt.Fprintf(w, "  %d. [%.3f] %s\n", i+1, s.Score, s.Text)
	}

	fmt.Fprintf(w, "\nClaims (%d):\n", len(report.Claims))
	if len(report.Claims) == 0 {
		fmt.Fprintln(w, "  none extracted")
	}
	for i, claim := range report.Claims {
		fmt.Fprintf(w, "  %d. %s\n", i+1, claim)

		records := report.FactChecks[claim]
		if len(records) == 0 {
			fmt.Fprintln(w, "     no published fact-checks found")
			continue
		}
		for _, rec := range records {
			fmt.Fprintf(w, "     %s: %s (%s)\n", rec.Publisher, rec.Rating, rec.Date)
			fmt.Fprintf(w, "       %s\n", rec.Title)
			fmt.Fprintf(w, "       %s\n", rec.URL)
		}
	}

	if len(report.Assessment) > 0 {
		fmt.Fprintln(w, "\nAssessment:")
		keys := make([]string, 0, len(report.Assessment))
		for k := range report.Assessment {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "  %s: %v\n", k, report.Assessment[k])
		}
	}

	if len(report.Warnings) > 0 {
		fmt.Fprintln(w, "\nWarnings:")
		for _, warn := range report.Warnings {
			if warn.Claim != "" {
				fmt.Fprintf(w, "  [%s] %s: %s\n", warn.Stage, warn.Claim, warn.Message)
			} else {
				fmt.Fprintf(w, "  [%s] %s\n", warn.Stage, warn.Message)
			}
		}
	}

	return nil
}
