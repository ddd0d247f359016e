package model

import "time"

// Sentence is a normalized, period-terminated sentence together with its
// check-worthiness score. The score is assigned once by the scorer and
// never mutated afterwards.
type Sentence struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// FactCheckRecord is one published review of a claim by a fact-checking
// publisher. Missing fields carry explicit sentinel values so consumers
// never have to branch on absence.
type FactCheckRecord struct {
	Claim     string `json:"claim"`
	Date      string `json:"date"`
	Publisher string `json:"publisher"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Rating    string `json:"rating"`
}

// Sentinel values for fields the search collaborator may omit.
const (
	UnknownDate      = "Unknown date"
	UnknownPublisher = "Unknown publisher"
	NoTitle          = "No title"
	NoURL            = "No URL"
	NoRating         = "No rating"
	NoClaimText      = "No claim text"
)

// Assessment is the automated fact-assessment verdict for the whole input
// text. It is produced by the assessment collaborator and passed through
// unmodified; the pipeline never interprets its keys.
type Assessment map[string]any

// Warning records a degraded stage of a pipeline run, e.g. a single claim
// whose fact-check lookup failed while the rest of the run succeeded.
type Warning struct {
	Stage   string `json:"stage"`
	Claim   string `json:"claim,omitempty"`
	Message string `json:"message"`
}

// Report is the complete result of one pipeline run. It is assembled once
// and owned by the caller after return; runs share no state.
type Report struct {
	Text            string                       `json:"original_text"`
	Source          string                       `json:"source,omitempty"`
	SourceURL       string                       `json:"source_url,omitempty"`
	Skipped         bool                         `json:"skipped,omitempty"`
	SkipReason      string                       `json:"skip_reason,omitempty"`
	RankedSentences []Sentence                   `json:"ranked_sentences"`
	Claims          []string                     `json:"claims"`
	FactChecks      map[string][]FactCheckRecord `json:"fact_checks"`
	Assessment      Assessment                   `json:"assessment,omitempty"`
	Warnings        []Warning                    `json:"warnings,omitempty"`
	CheckedAt       time.Time                    `json:"checked_at"`
}

// NewReport returns a report with all collections initialized, so an empty
// run still serializes with empty lists and an empty mapping rather than
// nulls.
func NewReport(text string) *Report {
	return &Report{
		Text:            text,
		RankedSentences: []Sentence{},
		Claims:          []string{},
		FactChecks:      make(map[string][]FactCheckRecord),
		CheckedAt:       time.Now().UTC(),
	}
}
