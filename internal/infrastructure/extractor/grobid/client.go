package grobid

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Config tunes the GROBID HTTP client. Zero values fall back to defaults.
type Config struct {
	BaseURL string
	// BaseTimeout is the per-call deadline for small documents. Larger
	// documents get SizeStep extra per MiB above one, capped at MaxTimeout.
	BaseTimeout time.Duration
	SizeStep    time.Duration
	MaxTimeout  time.Duration
	// RequestsPerSecond throttles fulltext calls against a shared instance.
	RequestsPerSecond float64
}

// Client talks to a GROBID instance. Calls are single attempts: the caller
// falls back to raw extraction on any failure, so no retry or breaker sits
// on this path.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter

	baseTimeout time.Duration
	sizeStep    time.Duration
	maxTimeout  time.Duration
}

func NewClient(cfg Config) *Client {
	cfg = normalizeConfig(cfg)
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		// Per-call deadlines come from context; the transport itself
		// stays unbounded.
		httpClient:  &http.Client{},
		limiter:     rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		baseTimeout: cfg.BaseTimeout,
		sizeStep:    cfg.SizeStep,
		maxTimeout:  cfg.MaxTimeout,
	}
}

func normalizeConfig(cfg Config) Config {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8070"
	}
	if cfg.BaseTimeout <= 0 {
		cfg.BaseTimeout = 45 * time.Second
	}
	if cfg.SizeStep <= 0 {
		cfg.SizeStep = 15 * time.Second
	}
	if cfg.MaxTimeout <= 0 {
		cfg.MaxTimeout = 120 * time.Second
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 2
	}
	return cfg
}

// TimeoutFor derives the single-attempt deadline from the document size.
func (c *Client) TimeoutFor(size int64) time.Duration {
	timeout := c.baseTimeout
	const mib = 1 << 20
	if size > mib {
		timeout += time.Duration((size-1)/mib) * c.sizeStep
	}
	if timeout > c.maxTimeout {
		timeout = c.maxTimeout
	}
	return timeout
}

// Healthy probes GET /api/isalive.
func (c *Client) Healthy(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/isalive", nil)
	if err != nil {
		return fmt.Errorf("create isalive request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("grobid isalive request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("grobid isalive status: %s", resp.Status)
	}
	return nil
}

// ProcessFulltext uploads one PDF and returns the TEI XML response.
func (c *Client) ProcessFulltext(ctx context.Context, filename string, pdf io.Reader) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("grobid rate limit: %w", err)
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("input", filename)
	if err != nil {
		return nil, fmt.Errorf("create fulltext form: %w", err)
	}
	if _, err := io.Copy(part, pdf); err != nil {
		return nil, fmt.Errorf("copy pdf into form: %w", err)
	}
	for field, value := range map[string]string{
		"consolidateHeader":    "1",
		"consolidateCitations": "1",
		"generateIDs":          "1",
	} {
		if err := form.WriteField(field, value); err != nil {
			return nil, fmt.Errorf("write form field %s: %w", field, err)
		}
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("finalize fulltext form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/processFulltextDocument", &body)
	if err != nil {
		return nil, fmt.Errorf("create fulltext request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Accept", "application/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("grobid fulltext request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, formatGrobidHTTPError(resp)
	}
	tei, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read fulltext response: %w", err)
	}
	return tei, nil
}

func formatGrobidHTTPError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return fmt.Errorf("grobid fulltext status: %s", resp.Status)
	}
	return fmt.Errorf("grobid fulltext status: %s: %s", resp.Status, msg)
}
