package broker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wonny/tradex/internal/contracts"
)

// PaperBroker is an in-memory broker that fills every order instantly
// at the reference price. Used in tests and when no Alpaca keys are
// configured.
type PaperBroker struct {
	mu        sync.Mutex
	cash      float64
	positions map[string]*contracts.Position
	fills     map[string]*contracts.Fill // local order id -> fill
}

// NewPaperBroker creates a paper broker with the given starting cash.
func NewPaperBroker(cash float64) *PaperBroker {
	return &PaperBroker{
		cash:      cash,
		positions: make(map[string]*contracts.Position),
		fills:     make(map[string]*contracts.Fill),
	}
}

func (b *PaperBroker) Account(_ context.Context) (contracts.Account, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	equity := b.cash
	for _, p := range b.positions {
		equity += float64(p.Qty) * p.CurrentPrice
	}

	return contracts.Account{
		Equity:      equity,
		Cash:        b.cash,
		BuyingPower: b.cash,
	}, nil
}

func (b *PaperBroker) Position(_ context.Context, symbol string) (*contracts.Position, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.positions[symbol]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (b *PaperBroker) Positions(_ context.Context) ([]contracts.Position, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]contracts.Position, 0, len(b.positions))
	for _, p := range b.positions {
		out = append(out, *p)
	}
	return out, nil
}

func (b *PaperBroker) Submit(_ context.Context, order *contracts.OrderSpec) (*contracts.Fill, error) {
	if order.IsVetoed() {
		return nil, fmt.Errorf("refusing to submit vetoed order %s", order.ID)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	notional := order.Notional()
	pos := b.positions[order.Symbol]

	switch order.Side {
	case contracts.SideBuy:
		if notional > b.cash {
			return nil, fmt.Errorf("insufficient cash: need %.2f, have %.2f", notional, b.cash)
		}
		b.cash -= notional
		if pos == nil {
			pos = &contracts.Position{Symbol: order.Symbol}
			b.positions[order.Symbol] = pos
		}
		total := float64(pos.Qty)*pos.AvgPrice + notional
		pos.Qty += order.Qty
		pos.AvgPrice = total / float64(pos.Qty)
		pos.CurrentPrice = order.RefPrice
		pos.UpdatedAt = time.Now().UTC()

	case contracts.SideSell:
		if pos == nil || pos.Qty < order.Qty {
			return nil, fmt.Errorf("insufficient position in %s", order.Symbol)
		}
		b.cash += notional
		pos.Qty -= order.Qty
		pos.CurrentPrice = order.RefPrice
		pos.UpdatedAt = time.Now().UTC()
		if pos.Qty == 0 {
			delete(b.positions, order.Symbol)
		}

	default:
		return nil, fmt.Errorf("unknown side %q", order.Side)
	}

	fill := &contracts.Fill{
		OrderID:     order.ID,
		BrokerID:    "paper-" + uuid.NewString(),
		Status:      contracts.StatusFilled,
		FilledQty:   order.Qty,
		FilledPrice: order.RefPrice,
		UpdatedAt:   time.Now().UTC(),
	}
	b.fills[order.ID] = fill
	return fill, nil
}

func (b *PaperBroker) OrderStatus(_ context.Context, localID, _ string) (*contracts.Fill, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	fill, ok := b.fills[localID]
	if !ok {
		return nil, fmt.Errorf("unknown order %s", localID)
	}
	cp := *fill
	return &cp, nil
}
