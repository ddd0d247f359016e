// Package factcheck queries an external fact-check search service (Google
// Fact Check Tools API) and normalizes its nested responses into flat
// records.
package factcheck

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"claimlens/internal/model"
	"claimlens/internal/worker"
)

const maxErrorBody = 500

// Client issues one search request per claim.
type Client struct {
	httpClient *http.Client
	apiKey     string
	endpoint   string
	language   string
	maxResults int
	limiter    *worker.Limiter
}

// NewClient creates a search client from configuration.
func NewClient(cfg model.FactCheckConfig) *Client {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 4
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		apiKey:     cfg.APIKey,
		endpoint:   cfg.Endpoint,
		language:   cfg.Language,
		maxResults: cfg.MaxResults,
		limiter:    worker.NewLimiter(rps, cfg.Burst),
	}
}

// Search queries the service with the claim text and flattens the nested
// claim/review response into one record per review. No matching claims is
// a valid, empty result. The lookup is an idempotent GET and is retried
// once on transient network failure.
func (c *Client) Search(ctx context.Context, claim string) ([]model.FactCheckRecord, error) {
	if c.apiKey == "" {
		return nil, &model.ConfigError{Key: "FACT_CHECK_API_KEY"}
	}

	query := url.Values{}
	query.Set("query", claim)
	query.Set("languageCode", c.language)
	query.Set("pageSize", strconv.Itoa(c.maxResults))
	query.Set("key", c.apiKey)
	requestURL := c.endpoint + "?" + query.Encode()

	if err := c.limiter.Wait(ctx, requestURL); err != nil {
		return nil, err
	}

	body, err := c.get(ctx, requestURL)
	if err != nil && isTransient(err) && ctx.Err() == nil {
		body, err = c.get(ctx, requestURL)
	}
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &model.ParseError{
			Stage:  model.StageSearch,
			Detail: fmt.Sprintf("decode response: %v", err),
		}
	}

	return flatten(resp), nil
}

func (c *Client) get(ctx context.Context, requestURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &model.UpstreamError{Stage: model.StageSearch, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &model.UpstreamError{Stage: model.StageSearch, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &model.UpstreamError{
			Stage:      model.StageSearch,
			StatusCode: resp.StatusCode,
			Body:       truncate(string(body), maxErrorBody),
		}
	}
	return body, nil
}

// Wire shapes of the Fact Check Tools claims:search response.
type searchResponse struct {
	Claims []apiClaim `json:"claims"`
}

type apiClaim struct {
	Text        string      `json:"text"`
	Claimant    string      `json:"claimant"`
	ClaimDate   string      `json:"claimDate"`
	ClaimReview []apiReview `json:"claimReview"`
}

type apiReview struct {
	Publisher struct {
		Name string `json:"name"`
		Site string `json:"site"`
	} `json:"publisher"`
	URL           string `json:"url"`
	Title         string `json:"title"`
	ReviewDate    string `json:"reviewDate"`
	TextualRating string `json:"textualRating"`
}

// flatten produces one record per (claim, review) pair, substituting
// sentinel strings for missing fields so consumers never branch on
// absence.
func flatten(resp searchResponse) []model.FactCheckRecord {
	records := []model.FactCheckRecord{}
	for _, claim := range resp.Claims {
		text := claim.Text
		if text == "" {
			text = model.NoClaimText
		}
		date := claim.ClaimDate
		if date == "" {
			date = model.UnknownDate
		}

		for _, review := range claim.ClaimReview {
			record := model.FactCheckRecord{
				Claim:     text,
				Date:      date,
				Publisher: review.Publisher.Name,
				Title:     review.Title,
				URL:       review.URL,
				Rating:    review.TextualRating,
			}
			if record.Publisher == "" {
				record.Publisher = model.UnknownPublisher
			}
			if record.Title == "" {
				record.Title = model.NoTitle
			}
			if record.URL == "" {
				record.URL = model.NoURL
			}
			if record.Rating == "" {
				record.Rating = model.NoRating
			}
			records = append(records, record)
		}
	}
	return records
}

// isTransient reports whether an error looks like a retryable network
// failure rather than a definitive upstream answer.
func isTransient(err error) bool {
	var upErr *model.UpstreamError
	if !errors.As(err, &upErr) || upErr.Err == nil {
		return false
	}
	s := strings.ToLower(upErr.Err.Error())
	return strings.Contains(s, "timeout") ||
		strings.Contains(s, "connection refused") ||
		strings.Contains(s, "connection reset")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.TrimSpace(s[:n]) + "..."
}
