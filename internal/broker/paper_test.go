package broker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wonny/tradex/internal/contracts"
)

func marketOrder(side contracts.Side, qty int, price float64) *contracts.OrderSpec {
	return &contracts.OrderSpec{
		ID:        "o-" + string(side),
		Symbol:    "TSLA",
		Side:      side,
		Qty:       qty,
		RefPrice:  price,
		Status:    contracts.StatusPending,
		CreatedAt: time.Now(),
	}
}

func TestPaperBroker_BuyThenSell(t *testing.T) {
	ctx := context.Background()
	b := NewPaperBroker(10_000)

	fill, err := b.Submit(ctx, marketOrder(contracts.SideBuy, 10, 100))
	require.NoError(t, err)
	assert.Equal(t, contracts.StatusFilled, fill.Status)
	assert.Equal(t, 10, fill.FilledQty)
	assert.NotEmpty(t, fill.BrokerID)

	pos, err := b.Position(ctx, "TSLA")
	require.NoError(t, err)
	require.NotNil(t, pos)
	assert.Equal(t, 10, pos.Qty)
	assert.Equal(t, 100.0, pos.AvgPrice)

	acct, err := b.Account(ctx)
	require.NoError(t, err)
	assert.Equal(t, 9_000.0, acct.Cash)
	assert.Equal(t, 10_000.0, acct.Equity) // cash + 10*100

	_, err = b.Submit(ctx, marketOrder(contracts.SideSell, 10, 110))
	require.NoError(t, err)

	pos, err = b.Position(ctx, "TSLA")
	require.NoError(t, err)
	assert.Nil(t, pos, "position should close flat")

	acct, _ = b.Account(ctx)
	assert.Equal(t, 10_100.0, acct.Cash)
}

func TestPaperBroker_InsufficientCash(t *testing.T) {
	b := NewPaperBroker(50)

	_, err := b.Submit(context.Background(), marketOrder(contracts.SideBuy, 1, 100))
	assert.Error(t, err)
}

func TestPaperBroker_SellWithoutPosition(t *testing.T) {
	b := NewPaperBroker(10_000)

	_, err := b.Submit(context.Background(), marketOrder(contracts.SideSell, 1, 100))
	assert.Error(t, err)
}

func TestPaperBroker_RejectsVetoedOrder(t *testing.T) {
	b := NewPaperBroker(10_000)

	vetoed := marketOrder(contracts.SideBuy, 0, 100)
	vetoed.VetoReason = contracts.ErrTradingDisabled.Error()
	vetoed.Status = contracts.StatusVetoed

	_, err := b.Submit(context.Background(), vetoed)
	assert.Error(t, err)
}

func TestPaperBroker_OrderStatus(t *testing.T) {
	ctx := context.Background()
	b := NewPaperBroker(10_000)

	order := marketOrder(contracts.SideBuy, 2, 100)
	fill, err := b.Submit(ctx, order)
	require.NoError(t, err)

	got, err := b.OrderStatus(ctx, order.ID, fill.BrokerID)
	require.NoError(t, err)
	assert.Equal(t, fill.BrokerID, got.BrokerID)
	assert.Equal(t, contracts.StatusFilled, got.Status)

	_, err = b.OrderStatus(ctx, "missing", "")
	assert.Error(t, err)
}
