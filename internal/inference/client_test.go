package inference

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wonny/tradex/internal/contracts"
	"github.com/wonny/tradex/pkg/config"
	"github.com/wonny/tradex/pkg/logger"
)

func newTestClient(baseURL string) *Client {
	cfg := &config.Config{
		Env:      "test",
		LogLevel: "error",
	}
	cfg.Inference.BaseURL = baseURL
	cfg.Inference.Timeout = 2 * time.Second

	c := New(cfg, logger.New(cfg))
	c.http.DisableRetry()
	return c
}

func TestClient_Score(t *testing.T) {
	var healthCalls int64

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/health":
			atomic.AddInt64(&healthCalls, 1)
			w.WriteHeader(http.StatusOK)
		case "/v1/classify":
			var req struct {
				Text string `json:"text"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			json.NewEncoder(w).Encode(map[string]interface{}{
				"label":      "POSITIVE",
				"confidence": 0.93,
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)

	guess, err := c.Score(context.Background(), "great quarter")
	require.NoError(t, err)
	assert.Equal(t, contracts.LabelPositive, guess.Label)
	assert.Equal(t, 0.93, guess.Confidence)

	// warmup runs once, not per call
	_, err = c.Score(context.Background(), "another post")
	require.NoError(t, err)
	assert.Equal(t, int64(1), atomic.LoadInt64(&healthCalls))
}

func TestClient_ServerErrorMapsToUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)

	_, err := c.Score(context.Background(), "anything")
	require.Error(t, err)
	assert.True(t, errors.Is(err, contracts.ErrInferenceUnavailable))
}

func TestClient_WarmupRetriesAfterFailure(t *testing.T) {
	var healthy atomic.Bool

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/health":
			if !healthy.Load() {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
		case "/v1/classify":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"label":      "neutral",
				"confidence": 0.5,
			})
		}
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)

	_, err := c.Score(context.Background(), "text")
	require.True(t, errors.Is(err, contracts.ErrInferenceUnavailable))

	// backend comes up; next call succeeds
	healthy.Store(true)
	guess, err := c.Score(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, contracts.LabelNeutral, guess.Label)
}

func TestNormalizeLabel(t *testing.T) {
	assert.Equal(t, contracts.LabelPositive, normalizeLabel("LABEL_2"))
	assert.Equal(t, contracts.LabelNegative, normalizeLabel("NEGATIVE"))
	assert.Equal(t, contracts.LabelNeutral, normalizeLabel("LABEL_1"))
	assert.Equal(t, contracts.LabelNeutral, normalizeLabel(""))
}
