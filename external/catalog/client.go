package catalog

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/sourcegraph/conc/pool"
	"golang.org/x/sync/singleflight"

	"github.com/riskibarqy/fantasy-roster/internal/platform/logging"
	"github.com/riskibarqy/fantasy-roster/internal/platform/resilience"
	"github.com/riskibarqy/fantasy-roster/internal/usecase"
)

const (
	defaultPageSize    = 200
	defaultConcurrency = 4
	maxPages           = 100
)

var errTransient = crerr.New("catalog provider transient failure")
var tokenParamRegex = regexp.MustCompile(`(?i)bearer\s+[^\s"']+`)

var _ usecase.CatalogProvider = (*Client)(nil)

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	PageSize       int
	Concurrency    int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads the paginated player catalog feed.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	token       string
	maxRetries  int
	pageSize    int
	concurrency int
	backoff     func(attempt int) time.Duration
	logger      *logging.Logger
	breaker     *resilience.CircuitBreaker
	flight      singleflight.Group
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	return &Client{
		httpClient:  httpClient,
		baseURL:     strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		token:       strings.TrimSpace(cfg.Token),
		maxRetries:  max(cfg.MaxRetries, 0),
		pageSize:    pageSize,
		concurrency: concurrency,
		backoff:     func(attempt int) time.Duration { return time.Duration(attempt+1) * time.Second },
		logger:      logger,
		breaker:     resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker),
	}
}

// FetchCatalog loads page 1 to learn the page count, then the remaining
// pages concurrently. Clubs are collected from the embedded club objects.
func (c *Client) FetchCatalog(ctx context.Context) (usecase.ExternalCatalog, error) {
	if c.baseURL == "" {
		return usecase.ExternalCatalog{}, fmt.Errorf("%w: catalog base url is not configured", usecase.ErrDependencyUnavailable)
	}

	first, err := c.fetchPage(ctx, 1)
	if err != nil {
		return usecase.ExternalCatalog{}, fmt.Errorf("fetch catalog page=1: %w", err)
	}

	totalPages := first.Pagination.TotalPages
	if totalPages <= 0 && first.Pagination.HasMore {
		return usecase.ExternalCatalog{}, fmt.Errorf("catalog feed reports more pages without total_pages")
	}
	if totalPages > maxPages {
		return usecase.ExternalCatalog{}, fmt.Errorf("catalog feed reports %d pages, limit is %d", totalPages, maxPages)
	}

	pages := []playersEnvelope{first}
	if totalPages > 1 {
		p := pool.NewWithResults[playersEnvelope]().
			WithContext(ctx).
			WithCancelOnError().
			WithMaxGoroutines(c.concurrency)
		for page := 2; page <= totalPages; page++ {
			p.Go(func(ctx context.Context) (playersEnvelope, error) {
				env, err := c.fetchPage(ctx, page)
				if err != nil {
					return playersEnvelope{}, fmt.Errorf("fetch catalog page=%d: %w", page, err)
				}
				env.Pagination.CurrentPage = page
				return env, nil
			})
		}
		rest, err := p.Wait()
		if err != nil {
			return usecase.ExternalCatalog{}, err
		}
		pages = append(pages, rest...)
	}

	sort.SliceStable(pages, func(i, j int) bool {
		return pages[i].Pagination.CurrentPage < pages[j].Pagination.CurrentPage
	})

	out := mapCatalog(pages)
	c.logger.InfoContext(ctx, "catalog feed fetched", "pages", len(pages), "players", len(out.Players), "clubs", len(out.Clubs))
	return out, nil
}

func (c *Client) fetchPage(ctx context.Context, page int) (playersEnvelope, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(c.pageSize))

	var env playersEnvelope
	if err := c.doJSON(ctx, "/players", query, &env); err != nil {
		return playersEnvelope{}, err
	}
	if env.Pagination.CurrentPage == 0 {
		env.Pagination.CurrentPage = page
	}
	return env, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query url.Values, target any) error {
	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		var raw []byte
		err := c.breaker.Execute(func() error {
			var reqErr error
			raw, reqErr = c.executeRequest(ctx, fullURL)
			return reqErr
		}, isCircuitFailure)
		return raw, err
	})
	if stderrors.Is(err, resilience.ErrCircuitOpen) {
		c.logger.WarnContext(ctx, "catalog circuit breaker rejected request", "state", c.breaker.State())
		return fmt.Errorf("%w: catalog provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode catalog payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errTransient, c.sanitize(err.Error()))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errTransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(c.backoff(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	c.logger.WarnContext(ctx, "catalog request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func (c *Client) sanitize(value string) string {
	if c.token != "" {
		value = strings.ReplaceAll(value, c.token, "REDACTED")
	}
	return tokenParamRegex.ReplaceAllString(value, "Bearer REDACTED")
}

func mapCatalog(pages []playersEnvelope) usecase.ExternalCatalog {
	clubsByID := make(map[int64]usecase.ExternalClub, 32)
	playersByID := make(map[int64]usecase.ExternalPlayer, len(pages)*defaultPageSize)
	playerOrder := make([]int64, 0, len(pages)*defaultPageSize)

	for _, page := range pages {
		for _, item := range page.Data {
			if item.ID <= 0 {
				continue
			}
			if item.Club.ID > 0 {
				if _, ok := clubsByID[item.Club.ID]; !ok {
					clubsByID[item.Club.ID] = usecase.ExternalClub{
						ExternalID: item.Club.ID,
						Name:       strings.TrimSpace(item.Club.Name),
						Short:      strings.TrimSpace(item.Club.ShortCode),
					}
				}
			}

			if _, seen := playersByID[item.ID]; !seen {
				playerOrder = append(playerOrder, item.ID)
			}
			playersByID[item.ID] = usecase.ExternalPlayer{
				ExternalID:     item.ID,
				ClubExternalID: item.Club.ID,
				Name:           firstNonEmpty(item.DisplayName, item.Name),
				Position:       item.Position,
				Price:          item.Price,
				PriceDelta:     item.PriceChange,
				IsInjured:      item.Injured,
				TotalPoints:    item.TotalPoints,
				RoundPoints:    item.RoundPoints,
			}
		}
	}

	out := usecase.ExternalCatalog{
		Clubs:   make([]usecase.ExternalClub, 0, len(clubsByID)),
		Players: make([]usecase.ExternalPlayer, 0, len(playerOrder)),
	}
	for _, c := range clubsByID {
		out.Clubs = append(out.Clubs, c)
	}
	sort.Slice(out.Clubs, func(i, j int) bool { return out.Clubs[i].ExternalID < out.Clubs[j].ExternalID })
	for _, id := range playerOrder {
		out.Players = append(out.Players, playersByID[id])
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func abbreviateBody(raw []byte) string {
	text := strings.TrimSpace(string(raw))
	if len(text) > 512 {
		return text[:512] + "..."
	}
	return text
}

func isCircuitFailure(err error) bool {
	return stderrors.Is(err, errTransient)
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || statusCode >= http.StatusInternalServerError
}
