// Package pipeline orchestrates a verification run: acquire text, segment
// it, score sentences for check-worthiness, extract atomic claims, look up
// published fact-checks per claim, and attach an automated assessment.
package pipeline

import (
	"context"
	"fmt"

	"claimlens/internal/acquire"
	"claimlens/internal/assess"
	"claimlens/internal/extract"
	"claimlens/internal/factcheck"
	"claimlens/internal/llm"
	"claimlens/internal/model"
	"claimlens/internal/score"
	"claimlens/internal/segment"
	"claimlens/internal/worker"
)

// Collaborator interfaces, satisfied by the concrete components and by
// test fakes.
type (
	// Resolver turns a raw input into text or a skip outcome.
	Resolver interface {
		Resolve(ctx context.Context, input string) (*acquire.Outcome, error)
	}
	// Scorer scores sentences and returns the ranked check-worthy subset.
	Scorer interface {
		ScoreAndRank(ctx context.Context, sentences []string, topK int, threshold float64) ([]model.Sentence, error)
	}
	// Extractor rewrites ranked sentences into atomic claims.
	Extractor interface {
		Extract(ctx context.Context, ranked []model.Sentence) ([]string, error)
	}
	// Assessor produces the automated whole-text verdict.
	Assessor interface {
		Assess(ctx context.Context, text string) (model.Assessment, error)
	}
	// Searcher looks up published fact-checks for one claim.
	Searcher interface {
		Search(ctx context.Context, claim string) ([]model.FactCheckRecord, error)
	}
)

// Pipeline wires the verification stages together.
type Pipeline struct {
	resolver  Resolver
	scorer    Scorer
	extractor Extractor
	assessor  Assessor // nil when no LLM provider is configured
	searcher  Searcher
	config    *model.Config
}

// New creates a pipeline from configuration. When cfg.LLM.Provider is
// empty the assessment stage is disabled; claim extraction then reports a
// configuration error at run time since it cannot work without a
// provider.
func New(cfg *model.Config) (*Pipeline, error) {
	var provider llm.Provider
	if cfg.LLM.Provider != "" {
		p, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			return nil, fmt.Errorf("init llm provider: %w", err)
		}
		provider = p
	}

	var assessor Assessor
	if provider != nil {
		assessor = assess.NewAssessor(provider, cfg.Pipeline.MinSources, cfg.Pipeline.TopK)
	}

	return &Pipeline{
		resolver:  acquire.NewDefaultResolver(cfg),
		scorer:    score.NewScorer(cfg.ClaimBuster),
		extractor: extract.NewClaimExtractor(provider),
		assessor:  assessor,
		searcher:  factcheck.NewClient(cfg.FactCheck),
		config:    cfg,
	}, nil
}

// Check resolves a raw input (text, article URL, or media URL) and runs
// verification over it. Skipped inputs produce a report that says why no
// text could be acquired. Check satisfies worker.Checker.
func (p *Pipeline) Check(ctx context.Context, input string) (*model.Report, error) {
	outcome, err := p.resolver.Resolve(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("acquire input: %w", err)
	}

	if outcome.Skipped {
		report := model.NewReport("")
		report.Source = outcome.Source
		report.SourceURL = outcome.URL
		report.Skipped = true
		report.SkipReason = outcome.SkipReason
		return report, nil
	}

	report, err := p.Run(ctx, outcome.Text)
	if err != nil {
		return nil, err
	}
	report.Source = outcome.Source
	report.SourceURL = outcome.URL
	return report, nil
}

// Run verifies already-acquired text. The report is complete or the error
// is non-nil; there are no partial reports. Only failures of a single
// claim lookup degrade into report warnings; scoring, extraction, and
// assessment failures fail the run.
func (p *Pipeline) Run(ctx context.Context, text string) (*model.Report, error) {
	report := model.NewReport(text)

	sentences := segment.Split(text)
	if len(sentences) == 0 {
		return report, nil
	}

	// The assessment only needs the original text, so it runs alongside
	// the scoring and extraction stages.
	type assessOutcome struct {
		verdict model.Assessment
		err     error
	}
	var assessCh chan assessOutcome
	if p.assessor != nil {
		assessCh = make(chan assessOutcome, 1)
		go func() {
			verdict, err := p.assessor.Assess(ctx, text)
			assessCh <- assessOutcome{verdict, err}
		}()
	}

	ranked, err := p.scorer.ScoreAndRank(ctx, sentences, p.config.Pipeline.TopK, p.config.Pipeline.ScoreThreshold)
	if err != nil {
		return nil, fmt.Errorf("score sentences: %w", err)
	}
	report.RankedSentences = ranked

	if len(ranked) > 0 {
		claims, err := p.extractor.Extract(ctx, ranked)
		if err != nil {
			return nil, fmt.Errorf("extract claims: %w", err)
		}
		report.Claims = claims
	}

	p.searchClaims(ctx, report)

	if assessCh != nil {
		out := <-assessCh
		if out.err != nil {
			return nil, fmt.Errorf("assess text: %w", out.err)
		}
		report.Assessment = out.verdict
	}

	return report, nil
}

// searchClaims fans claim lookups out over a worker pool and maps every
// claim to its records. A failed lookup yields an empty record list and a
// warning; the other claims are unaffected.
func (p *Pipeline) searchClaims(ctx context.Context, report *model.Report) {
	claims := report.Claims
	if len(claims) == 0 {
		return
	}

	pool := worker.NewPool(ctx, p.config.Pipeline.SearchWorkers)
	pool.Start()
	for i, claim := range claims {
		pool.Submit(&searchJob{index: i, claim: claim, searcher: p.searcher})
	}

	byIndex := make([][]model.FactCheckRecord, len(claims))
	for _, result := range pool.Wait() {
		sr := result.(*searchResult)
		if sr.err != nil {
			report.Warnings = append(report.Warnings, model.Warning{
				Stage:   model.StageSearch,
				Claim:   sr.claim,
				Message: sr.err.Error(),
			})
			continue
		}
		byIndex[sr.index] = sr.records
	}

	for i, claim := range claims {
		records := byIndex[i]
		if records == nil {
			records = []model.FactCheckRecord{}
		}
		report.FactChecks[claim] = records
	}
}

type searchJob struct {
	index    int
	claim    string
	searcher Searcher
}

func (j *searchJob) Execute(ctx context.Context) worker.Result {
	records, err := j.searcher.Search(ctx, j.claim)
	return &searchResult{index: j.index, claim: j.claim, records: records, err: err}
}

type searchResult struct {
	index   int
	claim   string
	records []model.FactCheckRecord
	err     error
}

func (r *searchResult) GetError() error { return r.err }
