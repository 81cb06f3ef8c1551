// Package alpaca implements broker.Broker against the Alpaca trading
// API. Paper and live accounts share the same surface; only the base
// URL differs.
package alpaca

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/wonny/tradex/internal/contracts"
	"github.com/wonny/tradex/pkg/config"
	"github.com/wonny/tradex/pkg/httputil"
	"github.com/wonny/tradex/pkg/logger"
	"github.com/wonny/tradex/pkg/redis"
)

// Client is the Alpaca REST client.
type Client struct {
	http    *httputil.Client
	baseURL string
	log     *logger.Logger
}

// New creates an Alpaca client from config. Retries are disabled: a
// failed submission is recorded and left alone, never re-sent, so a
// timeout on an order that actually reached the broker cannot turn
// into a second order.
func New(cfg *config.Config, rc *redis.Client, log *logger.Logger) *Client {
	httpClient := httputil.NewWithTimeout(log, 15*time.Second).
		DisableRetry().
		WithHeader("APCA-API-KEY-ID", cfg.Alpaca.APIKey).
		WithHeader("APCA-API-SECRET-KEY", cfg.Alpaca.APISecret).
		WithRateLimiter(redis.NewRateLimiter(rc, "tradex"), redis.AlpacaRateLimit)

	return &Client{
		http:    httpClient,
		baseURL: cfg.Alpaca.BaseURL,
		log:     log,
	}
}

// Alpaca returns numeric fields as strings on the wire.

type accountResponse struct {
	Equity      string `json:"equity"`
	Cash        string `json:"cash"`
	BuyingPower string `json:"buying_power"`
}

type positionResponse struct {
	Symbol        string `json:"symbol"`
	Qty           string `json:"qty"`
	AvgEntryPrice string `json:"avg_entry_price"`
	CurrentPrice  string `json:"current_price"`
	UnrealizedPL  string `json:"unrealized_pl"`
}

type orderRequest struct {
	Symbol        string `json:"symbol"`
	Qty           string `json:"qty"`
	Side          string `json:"side"`
	Type          string `json:"type"`
	TimeInForce   string `json:"time_in_force"`
	ClientOrderID string `json:"client_order_id"`
}

type orderResponse struct {
	ID            string `json:"id"`
	ClientOrderID string `json:"client_order_id"`
	Status        string `json:"status"`
	FilledQty     string `json:"filled_qty"`
	FilledAvgPx   string `json:"filled_avg_price"`
	UpdatedAt     string `json:"updated_at"`
}

// Account returns the account snapshot.
func (c *Client) Account(ctx context.Context) (contracts.Account, error) {
	resp, err := c.http.Get(ctx, c.baseURL+"/v2/account")
	if err != nil {
		return contracts.Account{}, fmt.Errorf("alpaca account request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return contracts.Account{}, apiError("account", resp)
	}

	var out accountResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return contracts.Account{}, fmt.Errorf("failed to decode account: %w", err)
	}

	return contracts.Account{
		Equity:      parseFloat(out.Equity),
		Cash:        parseFloat(out.Cash),
		BuyingPower: parseFloat(out.BuyingPower),
	}, nil
}

// Position returns the holding for symbol, nil when flat.
func (c *Client) Position(ctx context.Context, symbol string) (*contracts.Position, error) {
	resp, err := c.http.Get(ctx, c.baseURL+"/v2/positions/"+symbol)
	if err != nil {
		return nil, fmt.Errorf("alpaca position request failed: %w", err)
	}
	defer resp.Body.Close()

	// 404 means no open position, not an error
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apiError("position", resp)
	}

	var out positionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode position: %w", err)
	}

	p := toPosition(out)
	return &p, nil
}

// Positions returns all open holdings.
func (c *Client) Positions(ctx context.Context) ([]contracts.Position, error) {
	resp, err := c.http.Get(ctx, c.baseURL+"/v2/positions")
	if err != nil {
		return nil, fmt.Errorf("alpaca positions request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError("positions", resp)
	}

	var out []positionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode positions: %w", err)
	}

	positions := make([]contracts.Position, 0, len(out))
	for _, p := range out {
		positions = append(positions, toPosition(p))
	}
	return positions, nil
}

// Submit sends a day market order. The local order id doubles as the
// client order id, so a retried submit is idempotent at the broker.
func (c *Client) Submit(ctx context.Context, order *contracts.OrderSpec) (*contracts.Fill, error) {
	if order.IsVetoed() {
		return nil, fmt.Errorf("refusing to submit vetoed order %s", order.ID)
	}

	req := orderRequest{
		Symbol:        order.Symbol,
		Qty:           strconv.Itoa(order.Qty),
		Side:          string(order.Side),
		Type:          "market",
		TimeInForce:   "day",
		ClientOrderID: order.ID,
	}

	resp, err := c.http.PostJSON(ctx, c.baseURL+"/v2/orders", req)
	if err != nil {
		return nil, fmt.Errorf("alpaca order submit failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, apiError("submit", resp)
	}

	var out orderResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode order response: %w", err)
	}

	c.log.WithFields(map[string]interface{}{
		"order_id":  order.ID,
		"broker_id": out.ID,
		"symbol":    order.Symbol,
		"side":      order.Side,
		"qty":       order.Qty,
	}).Info("order submitted")

	return toFill(order.ID, out), nil
}

// OrderStatus fetches the current state of a submitted order.
func (c *Client) OrderStatus(ctx context.Context, localID, brokerID string) (*contracts.Fill, error) {
	resp, err := c.http.Get(ctx, c.baseURL+"/v2/orders/"+brokerID)
	if err != nil {
		return nil, fmt.Errorf("alpaca order status failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError("order status", resp)
	}

	var out orderResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode order status: %w", err)
	}

	return toFill(localID, out), nil
}

func toPosition(p positionResponse) contracts.Position {
	return contracts.Position{
		Symbol:        p.Symbol,
		Qty:           int(parseFloat(p.Qty)),
		AvgPrice:      parseFloat(p.AvgEntryPrice),
		CurrentPrice:  parseFloat(p.CurrentPrice),
		UnrealizedPnL: parseFloat(p.UnrealizedPL),
		UpdatedAt:     time.Now().UTC(),
	}
}

func toFill(localID string, o orderResponse) *contracts.Fill {
	updatedAt := time.Now().UTC()
	if t, err := time.Parse(time.RFC3339Nano, o.UpdatedAt); err == nil {
		updatedAt = t
	}

	return &contracts.Fill{
		OrderID:     localID,
		BrokerID:    o.ID,
		Status:      mapStatus(o.Status),
		FilledQty:   int(parseFloat(o.FilledQty)),
		FilledPrice: parseFloat(o.FilledAvgPx),
		UpdatedAt:   updatedAt,
	}
}

// mapStatus folds Alpaca's order states onto ours.
func mapStatus(s string) contracts.Status {
	switch s {
	case "filled":
		return contracts.StatusFilled
	case "canceled", "expired", "done_for_day":
		return contracts.StatusCanceled
	case "rejected", "stopped", "suspended":
		return contracts.StatusRejected
	default:
		// new, accepted, pending_new, partially_filled, ...
		return contracts.StatusSubmitted
	}
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func apiError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("alpaca %s returned %d: %s", op, resp.StatusCode, string(body))
}
