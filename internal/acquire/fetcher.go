package acquire

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"

	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"

	"claimlens/internal/cache"
	"claimlens/internal/model"
	"claimlens/internal/util"
)

// minLineChars drops tiny crumbs like menus and toolbars.
const minLineChars = 30

var paywallMarkers = []string{
	"subscribe", "subscription", "subscriber-only", "for subscribers",
	"log in to continue", "sign in to continue", "metered", "paywall",
}

// blockedStatuses are treated as "skip this article", not as failures.
var blockedStatuses = map[int]bool{
	http.StatusUnauthorized:               true,
	http.StatusPaymentRequired:            true,
	http.StatusForbidden:                  true,
	http.StatusUnavailableForLegalReasons: true,
}

// Fetcher retrieves article pages and reduces them to clean body text.
type Fetcher struct {
	httpClient *http.Client
	robots     *util.RobotsChecker
	pages      cache.Cache
	userAgent  string
	maxBytes   int64
	cacheTTL   time.Duration
}

// NewFetcher creates a fetcher from HTTP and cache configuration. When
// caching is disabled the fetcher refetches on every call.
func NewFetcher(httpCfg model.HTTPConfig, cacheCfg model.CacheConfig) *Fetcher {
	var pages cache.Cache
	if cacheCfg.Enabled {
		pages = cache.NewMemoryCache(cacheCfg.TTL, cacheCfg.CleanupInterval)
	}
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: httpCfg.Timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(httpCfg.HTTPProxy, httpCfg.HTTPSProxy, httpCfg.NoProxy),
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		robots:    util.NewRobotsChecker(httpCfg.UserAgent, httpCfg.Timeout),
		pages:     pages,
		userAgent: httpCfg.UserAgent,
		maxBytes:  httpCfg.MaxBodyBytes,
		cacheTTL:  cacheCfg.TTL,
	}
}

// FetchArticle fetches a URL and returns an outcome holding the cleaned
// article text, or a skip outcome for pages that cannot or should not be
// read (robots exclusion, blocked status, paywall copy, no readable
// content). Only transport-level failures are errors.
func (f *Fetcher) FetchArticle(ctx context.Context, rawURL string) (*Outcome, error) {
	if !f.robots.Allowed(ctx, rawURL) {
		return skip(rawURL, SourceArticle, "disallowed by robots.txt"), nil
	}

	if f.pages != nil {
		if cached, found := f.pages.Get(cache.Key(rawURL)); found {
			return &Outcome{Text: string(cached), Source: SourceArticle, URL: rawURL}, nil
		}
	}

	body, status, err := f.get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	if blockedStatuses[status] {
		return skip(rawURL, SourceArticle, fmt.Sprintf("access not permitted (HTTP %d)", status)), nil
	}
	if status < 200 || status >= 300 {
		return nil, &model.UpstreamError{
			Stage:      model.StageAcquire,
			StatusCode: status,
			Body:       truncate(string(body), 500),
		}
	}

	text := extractText(body, rawURL)
	lower := strings.ToLower(text)
	for _, marker := range paywallMarkers {
		if strings.Contains(lower, marker) {
			return skip(rawURL, SourceArticle, "detected paywall copy in page"), nil
		}
	}

	cleaned := cleanLines(text)
	if cleaned == "" {
		return skip(rawURL, SourceArticle, "no readable article text"), nil
	}

	if f.pages != nil {
		_ = f.pages.Set(cache.Key(rawURL), []byte(cleaned), f.cacheTTL)
	}
	return &Outcome{Text: cleaned, Source: SourceArticle, URL: rawURL}, nil
}

func (f *Fetcher) get(ctx context.Context, rawURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, 0, &model.UpstreamError{Stage: model.StageAcquire, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, 0, &model.UpstreamError{Stage: model.StageAcquire, Err: err}
	}
	return body, resp.StatusCode, nil
}

// extractText runs readability extraction and falls back to a plain
// visible-text walk when the page defeats it.
func extractText(body []byte, rawURL string) string {
	pageURL, _ := url.Parse(rawURL)
	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err == nil && strings.TrimSpace(article.TextContent) != "" {
		return article.TextContent
	}

	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	return visibleText(doc)
}

// visibleText walks the parse tree collecting text nodes, skipping tags
// that never hold readable content. Block boundaries become newlines so
// line-level filtering still works.
func visibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "template", "iframe", "svg", "canvas",
				"header", "footer", "nav":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString("\n")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return buf.String()
}

// cleanLines normalizes whitespace per line, keeps only lines that look
// like real content, and drops consecutive duplicates.
func cleanLines(text string) string {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if len(line) < minLineChars || !hasLetter(line) {
			continue
		}
		if len(kept) > 0 && kept[len(kept)-1] == line {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.TrimSpace(s[:n]) + "..."
}
