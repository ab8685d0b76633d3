package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avolkov/abyssal-tome/internal/cache"
	"github.com/avolkov/abyssal-tome/internal/model"
	"github.com/avolkov/abyssal-tome/internal/util"
	"github.com/avolkov/abyssal-tome/internal/worker"
)

// Card is the subset of the catalog's card record the scraper needs.
type Card struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// faqItem is one element of the catalog's per-card FAQ response.
type faqItem struct {
	Code    string `json:"code"`
	HTML    string `json:"html"`
	Updated struct {
		Date string `json:"date"`
	} `json:"updated"`
}

// Fetcher retrieves card and FAQ payloads from the catalog API with
// per-host rate limiting, robots.txt compliance and a layered cache.
type Fetcher struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	maxBytes   int64

	limiter  *worker.Limiter
	robots   *util.RobotsChecker // nil disables the check
	cache    cache.Cache         // nil disables caching
	cacheTTL time.Duration
}

// NewFetcher creates a fetcher for the given catalog base URL.
func NewFetcher(cfg *model.Config, store cache.Cache) *Fetcher {
	var robots *util.RobotsChecker
	if cfg.API.RespectRobots {
		robots = util.NewRobotsChecker(cfg.HTTP.UserAgent, cfg.HTTP.Timeout)
	}

	return &Fetcher{
		httpClient: &http.Client{
			Timeout: cfg.HTTP.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		baseURL:   cfg.API.BaseURL,
		userAgent: cfg.HTTP.UserAgent,
		maxBytes:  cfg.HTTP.MaxBodyBytes,
		limiter:   worker.NewLimiter(cfg.API.RequestsPerSecond, cfg.API.Burst),
		robots:    robots,
		cache:     store,
		cacheTTL:  cfg.Cache.TTL,
	}
}

// FetchCards retrieves the full card list.
func (f *Fetcher) FetchCards(ctx context.Context) ([]Card, error) {
	body, err := f.get(ctx, f.baseURL+"/api/public/cards/?encounter=1")
	if err != nil {
		return nil, fmt.Errorf("fetch cards: %w", err)
	}

	var cards []Card
	if err := json.Unmarshal(body, &cards); err != nil {
		return nil, fmt.Errorf("decode cards: %w", err)
	}
	return cards, nil
}

// FetchFAQ retrieves and cleans one card's FAQ entry. Cards without an
// entry (or without an update date, which the catalog uses for stub
// entries) return nil.
func (f *Fetcher) FetchFAQ(ctx context.Context, code string) (*model.FAQEntry, error) {
	body, err := f.get(ctx, fmt.Sprintf("%s/api/public/faq/%s.json", f.baseURL, code))
	if err != nil {
		return nil, fmt.Errorf("fetch faq %s: %w", code, err)
	}

	var items []faqItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("decode faq %s: %w", code, err)
	}
	if len(items) == 0 || items[0].HTML == "" || items[0].Updated.Date == "" {
		return nil, nil
	}

	item := items[0]
	return &model.FAQEntry{
		Code:    item.Code,
		Text:    CleanHTML(item.HTML),
		Updated: item.Updated.Date,
	}, nil
}

// get performs a cached, rate-limited, robots-checked GET.
func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	key := cache.Key(url)
	if f.cache != nil {
		if body, ok := f.cache.Get(key); ok {
			return body, nil
		}
	}

	if f.robots != nil {
		allowed, delay, err := f.robots.Allowed(ctx, url)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, fmt.Errorf("robots.txt disallows %s", url)
		}
		if delay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	if err := f.limiter.Wait(ctx, url); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if f.cache != nil {
		_ = f.cache.Set(key, body, f.cacheTTL)
	}
	return body, nil
}
