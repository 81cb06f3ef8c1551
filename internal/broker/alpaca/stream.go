package alpaca

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/wonny/tradex/internal/contracts"
	"github.com/wonny/tradex/pkg/config"
	"github.com/wonny/tradex/pkg/logger"
)

const (
	pingInterval          = 30 * time.Second
	reconnectInitialDelay = 1 * time.Second
	reconnectMaxDelay     = 30 * time.Second
	maxReconnectAttempts  = 10
)

// Stream consumes Alpaca's trade_updates websocket so fills land as
// they happen instead of waiting for the next status poll.
type Stream struct {
	cfg    config.AlpacaConfig
	logger *logger.Logger

	conn      *websocket.Conn
	connMu    sync.Mutex
	connected bool

	// Callbacks
	onFill       func(*contracts.Fill)
	onError      func(error)
	onDisconnect func()

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewStream creates a trade updates stream client.
func NewStream(cfg *config.Config, log *logger.Logger) *Stream {
	return &Stream{
		cfg:    cfg.Alpaca,
		logger: log,
		stopCh: make(chan struct{}),
	}
}

// Callback setters
func (s *Stream) OnFill(fn func(*contracts.Fill)) { s.onFill = fn }
func (s *Stream) OnError(fn func(error))          { s.onError = fn }
func (s *Stream) OnDisconnect(fn func())          { s.onDisconnect = fn }

// Connect dials the stream, authenticates, subscribes to trade
// updates and starts the read and ping loops.
func (s *Stream) Connect(ctx context.Context) error {
	if err := s.connect(ctx); err != nil {
		return fmt.Errorf("stream connect: %w", err)
	}

	s.wg.Add(1)
	go s.readLoop(ctx)

	s.wg.Add(1)
	go s.pingLoop()

	s.logger.Info("alpaca stream connected")
	return nil
}

// Disconnect closes the connection and waits for the loops to exit.
func (s *Stream) Disconnect() error {
	close(s.stopCh)

	s.connMu.Lock()
	if s.conn != nil {
		s.conn.Close()
		s.connected = false
	}
	s.connMu.Unlock()

	s.wg.Wait()

	if s.onDisconnect != nil {
		s.onDisconnect()
	}

	s.logger.Info("alpaca stream disconnected")
	return nil
}

// IsConnected returns connection status
func (s *Stream) IsConnected() bool {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	return s.connected
}

type streamMessage struct {
	Stream string          `json:"stream"`
	Data   json.RawMessage `json:"data"`
}

type tradeUpdate struct {
	Event string        `json:"event"`
	Order orderResponse `json:"order"`
}

func (s *Stream) connect(ctx context.Context) error {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}

	conn, _, err := dialer.DialContext(ctx, s.cfg.StreamURL, nil)
	if err != nil {
		return err
	}

	auth := map[string]interface{}{
		"action": "auth",
		"key":    s.cfg.APIKey,
		"secret": s.cfg.APISecret,
	}
	if err := conn.WriteJSON(auth); err != nil {
		conn.Close()
		return fmt.Errorf("auth write: %w", err)
	}

	listen := map[string]interface{}{
		"action": "listen",
		"data":   map[string][]string{"streams": {"trade_updates"}},
	}
	if err := conn.WriteJSON(listen); err != nil {
		conn.Close()
		return fmt.Errorf("listen write: %w", err)
	}

	s.conn = conn
	s.connected = true
	return nil
}

func (s *Stream) readLoop(ctx context.Context) {
	defer s.wg.Done()

	for {
		select {
		case <-s.stopCh:
			return
		default:
		}

		s.connMu.Lock()
		conn := s.conn
		s.connMu.Unlock()
		if conn == nil {
			return
		}

		_, data, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-s.stopCh:
				return
			default:
			}

			s.logger.WithError(err).Warn("stream read failed, reconnecting")
			if !s.reconnect(ctx) {
				if s.onError != nil {
					s.onError(fmt.Errorf("stream reconnect exhausted: %w", err))
				}
				return
			}
			continue
		}

		s.handleMessage(data)
	}
}

func (s *Stream) handleMessage(data []byte) {
	var msg streamMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.logger.WithError(err).Debug("unparseable stream message")
		return
	}

	if msg.Stream != "trade_updates" {
		return
	}

	var update tradeUpdate
	if err := json.Unmarshal(msg.Data, &update); err != nil {
		s.logger.WithError(err).Warn("unparseable trade update")
		return
	}

	switch update.Event {
	case "fill", "partial_fill", "canceled", "rejected", "expired":
		fill := toFill(update.Order.ClientOrderID, update.Order)
		s.logger.WithFields(map[string]interface{}{
			"event":     update.Event,
			"broker_id": fill.BrokerID,
			"status":    fill.Status,
		}).Debug("trade update received")

		if s.onFill != nil {
			s.onFill(fill)
		}
	}
}

// reconnect retries with exponential backoff. Returns false when the
// attempts are exhausted or the stream is stopping.
func (s *Stream) reconnect(ctx context.Context) bool {
	delay := reconnectInitialDelay

	for attempt := 1; attempt <= maxReconnectAttempts; attempt++ {
		select {
		case <-s.stopCh:
			return false
		case <-ctx.Done():
			return false
		case <-time.After(delay):
		}

		if err := s.connect(ctx); err != nil {
			s.logger.WithError(err).WithField("attempt", attempt).Warn("stream reconnect failed")
			delay *= 2
			if delay > reconnectMaxDelay {
				delay = reconnectMaxDelay
			}
			continue
		}

		s.logger.WithField("attempt", attempt).Info("stream reconnected")
		return true
	}

	return false
}

func (s *Stream) pingLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.connMu.Lock()
			conn := s.conn
			s.connMu.Unlock()
			if conn == nil {
				continue
			}

			deadline := time.Now().Add(5 * time.Second)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				s.logger.WithError(err).Debug("stream ping failed")
			}
		}
	}
}
