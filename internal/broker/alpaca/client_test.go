package alpaca

import (
	"context"
	"encoding/json"
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
	"github.com/wonny/tradex/pkg/redis"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()

	cfg := &config.Config{Env: "test", LogLevel: "error", Redis: config.RedisConfig{Enabled: false}}
	cfg.Alpaca.APIKey = "key"
	cfg.Alpaca.APISecret = "secret"
	cfg.Alpaca.BaseURL = baseURL

	rc, err := redis.New(cfg)
	require.NoError(t, err)

	return New(cfg, rc, logger.New(cfg))
}

func TestClient_Account(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/account", r.URL.Path)
		require.Equal(t, "key", r.Header.Get("APCA-API-KEY-ID"))
		require.Equal(t, "secret", r.Header.Get("APCA-API-SECRET-KEY"))
		w.Write([]byte(`{"equity":"10000.50","cash":"4000.25","buying_power":"8000.50"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	acct, err := c.Account(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10000.50, acct.Equity)
	assert.Equal(t, 4000.25, acct.Cash)
	assert.Equal(t, 8000.50, acct.BuyingPower)
}

func TestClient_PositionFlatIsNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	pos, err := c.Position(context.Background(), "TSLA")
	require.NoError(t, err)
	assert.Nil(t, pos)
}

func TestClient_Position(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/positions/TSLA", r.URL.Path)
		w.Write([]byte(`{"symbol":"TSLA","qty":"5","avg_entry_price":"240.10","current_price":"250.00","unrealized_pl":"49.50"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	pos, err := c.Position(context.Background(), "TSLA")
	require.NoError(t, err)
	require.NotNil(t, pos)
	assert.Equal(t, 5, pos.Qty)
	assert.Equal(t, 240.10, pos.AvgPrice)
	assert.Equal(t, 49.50, pos.UnrealizedPnL)
}

func TestClient_Submit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/orders", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		var req orderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "TSLA", req.Symbol)
		assert.Equal(t, "2", req.Qty)
		assert.Equal(t, "buy", req.Side)
		assert.Equal(t, "market", req.Type)
		assert.Equal(t, "local-1", req.ClientOrderID)

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"broker-9","client_order_id":"local-1","status":"new","filled_qty":"0","filled_avg_price":""}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	order := &contracts.OrderSpec{
		ID:        "local-1",
		Symbol:    "TSLA",
		Side:      contracts.SideBuy,
		Qty:       2,
		RefPrice:  250,
		Status:    contracts.StatusPending,
		CreatedAt: time.Now(),
	}

	fill, err := c.Submit(context.Background(), order)
	require.NoError(t, err)
	assert.Equal(t, "broker-9", fill.BrokerID)
	assert.Equal(t, "local-1", fill.OrderID)
	assert.Equal(t, contracts.StatusSubmitted, fill.Status)
}

func TestClient_SubmitFailureIsNotRetried(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	order := &contracts.OrderSpec{
		ID:     "local-2",
		Symbol: "TSLA",
		Side:   contracts.SideBuy,
		Qty:    1,
		Status: contracts.StatusPending,
	}

	// a failed submission is surfaced, never re-sent: the broker may
	// have accepted the order before the response was lost
	_, err := c.Submit(context.Background(), order)
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
}

func TestClient_SubmitVetoedRefused(t *testing.T) {
	c := newTestClient(t, "http://unused.invalid")

	vetoed := &contracts.OrderSpec{ID: "v-1", Qty: 0, Status: contracts.StatusVetoed}
	_, err := c.Submit(context.Background(), vetoed)
	assert.Error(t, err)
}

func TestClient_OrderStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/orders/broker-9", r.URL.Path)
		w.Write([]byte(`{"id":"broker-9","client_order_id":"local-1","status":"filled","filled_qty":"2","filled_avg_price":"249.80","updated_at":"2026-08-31T14:00:00Z"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	fill, err := c.OrderStatus(context.Background(), "local-1", "broker-9")
	require.NoError(t, err)
	assert.Equal(t, contracts.StatusFilled, fill.Status)
	assert.Equal(t, 2, fill.FilledQty)
	assert.Equal(t, 249.80, fill.FilledPrice)
}

func TestMapStatus(t *testing.T) {
	assert.Equal(t, contracts.StatusFilled, mapStatus("filled"))
	assert.Equal(t, contracts.StatusCanceled, mapStatus("expired"))
	assert.Equal(t, contracts.StatusRejected, mapStatus("rejected"))
	assert.Equal(t, contracts.StatusSubmitted, mapStatus("partially_filled"))
	assert.Equal(t, contracts.StatusSubmitted, mapStatus("new"))
}
