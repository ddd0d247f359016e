package model

import "fmt"

// Pipeline stage names carried by errors and warnings so callers can tell
// which collaborator failed.
const (
	StageAcquire = "acquire"
	StageScore   = "score"
	StageExtract = "extract"
	StageAssess  = "assess"
	StageSearch  = "search"
)

// ConfigError indicates a missing credential or setting. It is fatal for
// the stage that needs it and never retryable.
type ConfigError struct {
	Key string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing configuration: %s", e.Key)
}

// UpstreamError indicates a collaborator returned a non-success response or
// could not be reached. Idempotent lookups may be retried; other stages
// surface it as-is.
type UpstreamError struct {
	Stage      string
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: upstream request failed: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("%s: upstream returned status %d: %s", e.Stage, e.StatusCode, e.Body)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// ParseError indicates a collaborator response could not be interpreted
// into the expected shape. It is always reported, never coerced into a
// best-effort guess.
type ParseError struct {
	Stage  string
	Detail string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: unparseable response: %s", e.Stage, e.Detail)
}
