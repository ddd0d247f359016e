package factcheck

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"claimlens/internal/model"
)

func newTestClient(url string) *Client {
	return NewClient(model.FactCheckConfig{
		APIKey:            "test-key",
		Endpoint:          url,
		Language:          "en",
		MaxResults:        5,
		Timeout:           5 * time.Second,
		RequestsPerSecond: 100,
		Burst:             10,
	})
}

func TestSearch_FlattensReviews(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("query") != "The WHO was founded in 1948." {
			t.Errorf("Unexpected query: %q", q.Get("query"))
		}
		if q.Get("languageCode") != "en" || q.Get("pageSize") != "5" || q.Get("key") != "test-key" {
			t.Errorf("Missing expected query parameters: %v", q)
		}

		_, _ = w.Write([]byte(`{
			"claims": [{
				"text": "The WHO was founded in 1948.",
				"claimDate": "2020-01-15T00:00:00Z",
				"claimReview": [
					{"publisher": {"name": "FactCheck.org"}, "url": "https://factcheck.org/who",
					 "title": "WHO founding year", "textualRating": "True"},
					{"publisher": {"name": "Snopes"}, "url": "https://snopes.com/who",
					 "title": "Checking WHO claims", "textualRating": "Correct"}
				]
			}]
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	records, err := client.Search(context.Background(), "The WHO was founded in 1948.")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("Expected 2 records (one per review), got %d", len(records))
	}
	if records[0].Publisher != "FactCheck.org" || records[1].Publisher != "Snopes" {
		t.Errorf("Expected publishers in review order, got %q, %q", records[0].Publisher, records[1].Publisher)
	}
	if records[0].Rating != "True" {
		t.Errorf("Expected rating True, got %q", records[0].Rating)
	}
	if records[0].Date != "2020-01-15T00:00:00Z" {
		t.Errorf("Expected claim date preserved, got %q", records[0].Date)
	}
}

func TestSearch_MissingFieldsGetSentinels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"claims": [{"claimReview": [{}]}]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	records, err := client.Search(context.Background(), "some claim")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}

	r := records[0]
	if r.Claim != model.NoClaimText {
		t.Errorf("Expected %q, got %q", model.NoClaimText, r.Claim)
	}
	if r.Date != model.UnknownDate {
		t.Errorf("Expected %q, got %q", model.UnknownDate, r.Date)
	}
	if r.Publisher != model.UnknownPublisher {
		t.Errorf("Expected %q, got %q", model.UnknownPublisher, r.Publisher)
	}
	if r.Title != model.NoTitle {
		t.Errorf("Expected %q, got %q", model.NoTitle, r.Title)
	}
	if r.URL != model.NoURL {
		t.Errorf("Expected %q, got %q", model.NoURL, r.URL)
	}
	if r.Rating != model.NoRating {
		t.Errorf("Expected %q, got %q", model.NoRating, r.Rating)
	}
}

func TestSearch_NoMatchesIsEmptyNotError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	records, err := client.Search(context.Background(), "unknown claim")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if records == nil || len(records) != 0 {
		t.Errorf("Expected empty non-nil record list, got %v", records)
	}
}

func TestSearch_MissingAPIKeyIsConfigError(t *testing.T) {
	client := NewClient(model.FactCheckConfig{Endpoint: "http://unused.invalid", Language: "en", MaxResults: 5})

	_, err := client.Search(context.Background(), "claim")

	var cfgErr *model.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Expected ConfigError, got %v", err)
	}
}

func TestSearch_ServerErrorIsUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.Search(context.Background(), "claim")

	var upErr *model.UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("Expected UpstreamError, got %v", err)
	}
	if upErr.Stage != model.StageSearch {
		t.Errorf("Expected stage %q, got %q", model.StageSearch, upErr.Stage)
	}
	if upErr.StatusCode != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", upErr.StatusCode)
	}
}

func TestSearch_RetriesOnceOnTransientFailure(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			// Drop the first connection to simulate a transient failure.
			hj, ok := w.(http.Hijacker)
			if !ok {
				t.Fatal("server does not support hijacking")
			}
			conn, _, err := hj.Hijack()
			if err != nil {
				t.Fatalf("hijack failed: %v", err)
			}
			_ = conn.Close()
			return
		}
		_, _ = w.Write([]byte(`{"claims": []}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	records, err := client.Search(context.Background(), "claim")
	if err != nil {
		t.Fatalf("Expected retry to succeed, got %v", err)
	}
	if len(records) != 0 {
		t.Errorf("Expected empty records, got %v", records)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Errorf("Expected exactly 2 requests, got %d", calls)
	}
}

func TestSearch_MalformedBodyIsParseError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.Search(context.Background(), "claim")

	var parseErr *model.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("Expected ParseError, got %v", err)
	}
}
