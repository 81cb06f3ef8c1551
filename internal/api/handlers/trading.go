package handlers

import (
	"net/http"

	"github.com/wonny/tradex/internal/broker"
	"github.com/wonny/tradex/internal/store"
	"github.com/wonny/tradex/pkg/logger"
)

// TradingHandler serves decisions, orders, positions and the account.
type TradingHandler struct {
	symbol    string
	decisions *store.DecisionRepository
	orders    *store.OrderRepository
	positions *store.PositionRepository
	broker    broker.Broker
	log       *logger.Logger
}

// NewTradingHandler creates a trading handler.
func NewTradingHandler(symbol string, decisions *store.DecisionRepository, orders *store.OrderRepository, positions *store.PositionRepository, brk broker.Broker, log *logger.Logger) *TradingHandler {
	return &TradingHandler{
		symbol:    symbol,
		decisions: decisions,
		orders:    orders,
		positions: positions,
		broker:    brk,
		log:       log,
	}
}

// ListDecisions returns recent trade decisions.
// GET /api/decisions?limit=
func (h *TradingHandler) ListDecisions(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r, 20, 200)

	decisions, err := h.decisions.ListRecent(r.Context(), h.symbol, limit)
	if err != nil {
		h.log.WithError(err).Error("failed to list decisions")
		writeError(w, http.StatusInternalServerError, "failed to list decisions")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"symbol":    h.symbol,
		"count":     len(decisions),
		"decisions": decisions,
	})
}

// ListOrders returns recent orders, vetoed ones included.
// GET /api/orders?limit=
func (h *TradingHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r, 20, 200)

	orders, err := h.orders.ListRecent(r.Context(), h.symbol, limit)
	if err != nil {
		h.log.WithError(err).Error("failed to list orders")
		writeError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"symbol": h.symbol,
		"count":  len(orders),
		"orders": orders,
	})
}

// ListPositions returns the locally mirrored positions.
// GET /api/positions
func (h *TradingHandler) ListPositions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.positions.List(r.Context())
	if err != nil {
		h.log.WithError(err).Error("failed to list positions")
		writeError(w, http.StatusInternalServerError, "failed to list positions")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":     len(positions),
		"positions": positions,
	})
}

// GetAccount returns the live broker account snapshot.
// GET /api/account
func (h *TradingHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.broker.Account(r.Context())
	if err != nil {
		h.log.WithError(err).Error("failed to fetch account")
		writeError(w, http.StatusBadGateway, "failed to fetch account")
		return
	}

	writeJSON(w, http.StatusOK, account)
}
