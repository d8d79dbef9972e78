package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dgallion1/docreview/internal/elements"
)

// Models lists the extraction backends the service exposes.
var Models = map[string]bool{
	"surya":      true,
	"docling":    true,
	"custom-ocr": true,
}

var ErrUnsupportedModel = errors.New("unsupported extraction model")

// Client calls the remote extraction service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	Stats      *Stats
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		Stats: NewStats(time.Hour),
	}
}

// WireElement is one element as the extraction service reports it.
type WireElement struct {
	Type string    `json:"type"`
	BBox []float64 `json:"bbox"`
	Page int       `json:"page"`
}

// Metrics are display-only figures reported alongside the elements.
type Metrics struct {
	TimeS         float64 `json:"time_s"`
	ElementsCount int     `json:"elements_count"`
	WordCount     int     `json:"word_count"`
}

type extractResponse struct {
	Markdown string        `json:"markdown_output"`
	Elements []WireElement `json:"elements"`
	Metrics  Metrics       `json:"metrics"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// Result is a validated extraction result.
type Result struct {
	Markdown string
	Elements []elements.Element
	Metrics  Metrics
	Dropped  int // wire elements rejected by validation
}

// Extract uploads data to the service and returns the validated result.
func (c *Client) Extract(ctx context.Context, model, filename string, data []byte) (*Result, error) {
	if !Models[model] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedModel, model)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("write form file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}

	endpoint := c.baseURL + "/extract/" + url.PathEscape(model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())

	start := time.Now()
	res, err := c.do(httpReq)
	elapsed := time.Since(start).Milliseconds()
	if err != nil {
		c.Stats.RecordFailure(elapsed)
		return nil, err
	}
	c.Stats.Record(elapsed)
	return res, nil
}

func (c *Client) do(httpReq *http.Request) (*Result, error) {
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("extraction service: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 64<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, &RetryableError{
			StatusCode: resp.StatusCode,
			Message:    detail(respBody),
		}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("extraction failed (status %d): %s", resp.StatusCode, detail(respBody))
	}

	var apiResp extractResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w (raw: %s)", err, truncate(string(respBody), 200))
	}

	res := &Result{
		Markdown: apiResp.Markdown,
		Elements: make([]elements.Element, 0, len(apiResp.Elements)),
		Metrics:  apiResp.Metrics,
	}
	for _, w := range apiResp.Elements {
		e, ok := ValidateElement(w)
		if !ok {
			res.Dropped++
			continue
		}
		res.Elements = append(res.Elements, e)
	}
	return res, nil
}

// detail extracts the service's error message, falling back to the raw
// body.
func detail(body []byte) string {
	var e errorResponse
	if err := json.Unmarshal(body, &e); err == nil && e.Detail != "" {
		return e.Detail
	}
	if s := strings.TrimSpace(string(body)); s != "" {
		return truncate(s, 200)
	}
	return "Extraction failed on the server."
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}

// RetryableError indicates a transient failure that can be retried.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

// Close releases resources.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
