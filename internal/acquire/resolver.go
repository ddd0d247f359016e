// Package acquire turns a raw input (pasted text, article URL, or media
// URL) into plain text for verification, or into an explicit skip
// outcome when the input cannot be read.
package acquire

import (
	"context"
	"net/url"
	"strings"

	"claimlens/internal/model"
)

// Input source kinds.
const (
	SourceText    = "text"
	SourceArticle = "article"
	SourceMedia   = "media"
)

// Outcome is the result of resolving one input. A skipped outcome is a
// valid result, not an error: it names why no text could be acquired.
type Outcome struct {
	Text       string
	Source     string
	URL        string
	Skipped    bool
	SkipReason string
}

func skip(url, source, reason string) *Outcome {
	return &Outcome{Source: source, URL: url, Skipped: true, SkipReason: reason}
}

// ArticleFetcher fetches an article URL and reduces it to clean text.
type ArticleFetcher interface {
	FetchArticle(ctx context.Context, rawURL string) (*Outcome, error)
}

// Resolver routes inputs to the right acquisition path.
type Resolver struct {
	fetcher ArticleFetcher
}

// NewResolver creates a resolver backed by the given article fetcher.
func NewResolver(fetcher ArticleFetcher) *Resolver {
	return &Resolver{fetcher: fetcher}
}

// NewDefaultResolver creates a resolver with a fetcher built from
// configuration.
func NewDefaultResolver(cfg *model.Config) *Resolver {
	return NewResolver(NewFetcher(cfg.HTTP, cfg.Cache))
}

// Resolve classifies the input and acquires its text. Plain text passes
// through unchanged. Article URLs are fetched and cleaned. Media URLs
// produce a skip outcome since transcription is an external concern.
func (r *Resolver) Resolve(ctx context.Context, input string) (*Outcome, error) {
	trimmed := strings.TrimSpace(input)
	if !isURL(trimmed) {
		return &Outcome{Text: trimmed, Source: SourceText}, nil
	}
	if isMediaURL(trimmed) {
		return skip(trimmed, SourceMedia, "media transcription is not available"), nil
	}
	return r.fetcher.FetchArticle(ctx, trimmed)
}

func isURL(input string) bool {
	if !strings.HasPrefix(input, "http://") && !strings.HasPrefix(input, "https://") {
		return false
	}
	// Pasted text can begin with a URL; a single token is the tell.
	if strings.ContainsAny(input, " \t\n") {
		return false
	}
	parsed, err := url.Parse(input)
	return err == nil && parsed.Host != ""
}

func isMediaURL(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
	switch host {
	case "youtube.com", "m.youtube.com", "youtu.be":
		return true
	}
	return false
}
