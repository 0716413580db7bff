package jobqueue

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/fantasy-roster/internal/platform/logging"
	"github.com/riskibarqy/fantasy-roster/internal/platform/resilience"
	"github.com/riskibarqy/fantasy-roster/internal/usecase"
)

var errTransient = crerr.New("qstash transient failure")

var _ usecase.JobQueue = (*QStashPublisher)(nil)

type QStashPublisherConfig struct {
	BaseURL          string
	Token            string
	TargetBaseURL    string
	Retries          int
	InternalJobToken string
	Timeout          time.Duration
	CircuitBreaker   resilience.CircuitBreakerConfig
}

// QStashPublisher schedules delayed HTTP callbacks to this service through
// the Upstash QStash publish API.
type QStashPublisher struct {
	client           *http.Client
	baseURL          string
	token            string
	targetBaseURL    string
	retries          int
	internalJobToken string
	logger           *logging.Logger
	breaker          *resilience.CircuitBreaker
}

func NewQStashPublisher(cfg QStashPublisherConfig, logger *logging.Logger) *QStashPublisher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}

	breaker := resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker)
	if breaker != nil {
		breaker.OnStateChange(func(from, to resilience.CircuitState) {
			logger.Warn("qstash circuit state changed", "from", from, "to", to)
		})
	}

	return &QStashPublisher{
		client:           &http.Client{Timeout: timeout},
		baseURL:          strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		token:            strings.TrimSpace(cfg.Token),
		targetBaseURL:    strings.TrimRight(strings.TrimSpace(cfg.TargetBaseURL), "/"),
		retries:          cfg.Retries,
		internalJobToken: strings.TrimSpace(cfg.InternalJobToken),
		logger:           logger,
		breaker:          breaker,
	}
}

// Enqueue asks QStash to POST payload to path on this service after delay.
// Only transport errors and retryable statuses count against the breaker.
func (p *QStashPublisher) Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error {
	path = "/" + strings.TrimLeft(strings.TrimSpace(path), "/")
	if path == "/" {
		return crerr.New("job path is required")
	}

	baseURL, err := validateHTTPBaseURL(p.baseURL)
	if err != nil {
		return crerr.Wrap(err, "invalid QSTASH_BASE_URL")
	}
	targetBaseURL, err := validateHTTPBaseURL(p.targetBaseURL)
	if err != nil {
		return crerr.Wrap(err, "invalid QSTASH_TARGET_BASE_URL")
	}

	if payload == nil {
		payload = map[string]any{}
	}
	body, err := sonic.Marshal(payload)
	if err != nil {
		return crerr.Wrap(err, "marshal job payload")
	}

	job := publishJob{
		publishURL:      baseURL + "/v2/publish/" + targetBaseURL + path,
		path:            path,
		body:            body,
		delay:           normalizeDelay(delay),
		deduplicationID: strings.TrimSpace(deduplicationID),
	}

	preview := p.curlPreview(job)
	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.String("qstash.path", path),
			attribute.String("qstash.publish_url", job.publishURL),
			attribute.String("qstash.request_curl_preview", preview),
		)
	}
	p.logger.DebugContext(ctx, "qstash publish request", "path", path, "curl_preview", preview)

	err = p.breaker.Execute(func() error {
		return p.publish(ctx, job)
	}, func(err error) bool {
		return stderrors.Is(err, errTransient)
	})
	if stderrors.Is(err, resilience.ErrCircuitOpen) {
		p.logger.WarnContext(ctx, "qstash circuit breaker rejected request", "path", path)
		return fmt.Errorf("qstash is temporarily unavailable: %w", err)
	}
	if err != nil {
		return err
	}

	p.logger.InfoContext(ctx, "qstash job published", "path", path, "delay", job.delay, "deduplication_id", job.deduplicationID)
	return nil
}

type publishJob struct {
	publishURL      string
	path            string
	body            []byte
	delay           string
	deduplicationID string
}

func (p *QStashPublisher) publish(ctx context.Context, job publishJob) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, job.publishURL, strings.NewReader(string(job.body)))
	if err != nil {
		return crerr.Wrap(err, "create qstash request")
	}
	for key, value := range p.headers(job) {
		req.Header.Set(key, value)
	}
	req.Header.Set("Authorization", "Bearer "+p.token)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: publish path=%s: %v", errTransient, job.path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 == 2 {
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	callErr := fmt.Errorf("publish qstash job status=%d path=%s body=%s", resp.StatusCode, job.path, strings.TrimSpace(string(raw)))
	if isRetryableStatus(resp.StatusCode) {
		return fmt.Errorf("%w: %v", errTransient, callErr)
	}
	return callErr
}

// headers returns every request header except Authorization.
func (p *QStashPublisher) headers(job publishJob) map[string]string {
	out := map[string]string{
		"Content-Type":   "application/json",
		"Upstash-Method": http.MethodPost,
	}
	if p.retries > 0 {
		out["Upstash-Retries"] = strconv.Itoa(p.retries)
	}
	if job.delay != "0s" {
		out["Upstash-Delay"] = job.delay
	}
	if job.deduplicationID != "" {
		out["Upstash-Deduplication-Id"] = job.deduplicationID
	}
	if p.internalJobToken != "" {
		out["Upstash-Forward-X-Internal-Job-Token"] = p.internalJobToken
	}
	return out
}

func (p *QStashPublisher) curlPreview(job publishJob) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	appendPart := func(part string) {
		if buf.Len() > 0 {
			_ = buf.WriteByte(' ')
		}
		_, _ = buf.WriteString(part)
	}

	appendPart("curl -X POST")
	appendPart(shellQuote(job.publishURL))
	appendPart("-H")
	appendPart(shellQuote("Authorization: Bearer ***"))
	for _, key := range []string{"Content-Type", "Upstash-Method", "Upstash-Retries", "Upstash-Delay", "Upstash-Deduplication-Id", "Upstash-Forward-X-Internal-Job-Token"} {
		value, ok := p.headers(job)[key]
		if !ok {
			continue
		}
		if key == "Upstash-Forward-X-Internal-Job-Token" {
			value = "***"
		}
		appendPart("-H")
		appendPart(shellQuote(key + ": " + value))
	}
	appendPart("-d")
	appendPart(shellQuote(truncateForLog(string(job.body), 4096)))

	return buf.String()
}

func normalizeDelay(delay time.Duration) string {
	seconds := int(delay.Round(time.Second).Seconds())
	if seconds <= 0 {
		return "0s"
	}
	return fmt.Sprintf("%ds", seconds)
}

func validateHTTPBaseURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}

	return strings.TrimRight(candidate, "/"), nil
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "'\"'\"'") + "'"
}

func truncateForLog(value string, max int) string {
	if max <= 0 || len(value) <= max {
		return value
	}
	return value[:max] + "...(truncated)"
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}
