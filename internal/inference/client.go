// Package inference adapts an external transformer classification
// service to the sentiment.ModelScorer interface.
package inference

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/wonny/tradex/internal/contracts"
	"github.com/wonny/tradex/internal/sentiment"
	"github.com/wonny/tradex/pkg/config"
	"github.com/wonny/tradex/pkg/httputil"
	"github.com/wonny/tradex/pkg/logger"
)

// Client calls the model server's classify endpoint. The first call
// triggers a one-time warmup so model load latency is paid once, not
// on every cold request.
type Client struct {
	http    *httputil.Client
	baseURL string
	log     *logger.Logger

	warmupMu   sync.Mutex
	warmupDone bool
}

// classifyRequest is the wire format of POST /v1/classify.
type classifyRequest struct {
	Text string `json:"text"`
}

type classifyResponse struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// New creates an inference client from config.
func New(cfg *config.Config, log *logger.Logger) *Client {
	httpClient := httputil.NewWithTimeout(log, cfg.Inference.Timeout).
		WithRetry(2, 500*time.Millisecond)

	return &Client{
		http:    httpClient,
		baseURL: cfg.Inference.BaseURL,
		log:     log,
	}
}

// Score classifies text. Implements sentiment.ModelScorer. All
// transport and server failures map to ErrInferenceUnavailable so
// callers degrade instead of aborting the post.
func (c *Client) Score(ctx context.Context, text string) (sentiment.Guess, error) {
	if err := c.warmup(ctx); err != nil {
		return sentiment.Guess{}, err
	}

	resp, err := c.http.PostJSON(ctx, c.baseURL+"/v1/classify", classifyRequest{Text: text})
	if err != nil {
		return sentiment.Guess{}, fmt.Errorf("%w: %v", contracts.ErrInferenceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return sentiment.Guess{}, fmt.Errorf("%w: classify returned %d: %s",
			contracts.ErrInferenceUnavailable, resp.StatusCode, string(body))
	}

	var out classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return sentiment.Guess{}, fmt.Errorf("%w: decode classify response: %v",
			contracts.ErrInferenceUnavailable, err)
	}

	guess := sentiment.Guess{
		Label:      normalizeLabel(out.Label),
		Confidence: out.Confidence,
	}
	if guess.Confidence < 0 || guess.Confidence > 1 {
		return sentiment.Guess{}, fmt.Errorf("%w: confidence %v out of range",
			contracts.ErrInferenceUnavailable, out.Confidence)
	}

	return guess, nil
}

// warmup pings the model server once per process. A failed warmup is
// returned but not cached, so a later call retries against a server
// that may have come up in the meantime.
func (c *Client) warmup(ctx context.Context) error {
	c.warmupMu.Lock()
	defer c.warmupMu.Unlock()

	if c.warmupDone {
		return nil
	}

	start := time.Now()
	resp, err := c.http.Get(ctx, c.baseURL+"/v1/health")
	if err != nil {
		return fmt.Errorf("%w: warmup: %v", contracts.ErrInferenceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: warmup returned %d",
			contracts.ErrInferenceUnavailable, resp.StatusCode)
	}

	c.warmupDone = true
	c.log.WithField("duration", time.Since(start)).Info("inference backend warmed up")
	return nil
}

// normalizeLabel maps the server's label vocabulary onto ours. Model
// servers disagree on casing and on neutral naming.
func normalizeLabel(label string) contracts.Label {
	switch label {
	case "positive", "POSITIVE", "LABEL_2":
		return contracts.LabelPositive
	case "negative", "NEGATIVE", "LABEL_0":
		return contracts.LabelNegative
	default:
		return contracts.LabelNeutral
	}
}
