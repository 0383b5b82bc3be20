package application

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/riskengine/internal/portfolio/domain"
)

func newTestService() *Service {
	return NewService(slog.New(slog.DiscardHandler))
}

func stockOnlyPortfolio() []domain.Position {
	return []domain.Position{
		{
			Kind: domain.KindStock, Symbol: "AAPL", Quantity: 100,
			Stock: &domain.StockTerms{CurrentPrice: 190, PurchasePrice: 150},
		},
		{
			Kind: domain.KindStock, Symbol: "MSFT", Quantity: 50,
			Stock: &domain.StockTerms{CurrentPrice: 400, PurchasePrice: 380},
		},
	}
}

func TestPricesToReturns(t *testing.T) {
	returns, err := pricesToReturns([]float64{100, 110, 99})
	require.NoError(t, err)
	require.Len(t, returns, 2)
	assert.InDelta(t, 0.10, returns[0], 1e-12)
	assert.InDelta(t, -0.10, returns[1], 1e-12)

	returns, err = pricesToReturns(nil)
	require.NoError(t, err)
	assert.Nil(t, returns)

	_, err = pricesToReturns([]float64{100})
	assert.Error(t, err, "a single price yields no returns")

	_, err = pricesToReturns([]float64{100, 0, 110})
	assert.Error(t, err, "non-positive price breaks the ratio")
}

func TestComputeVaRParametric(t *testing.T) {
	svc := newTestService()
	dto, err := svc.ComputeVaR(context.Background(), VaRRequest{
		Positions:       stockOnlyPortfolio(),
		Method:          "parametric",
		AnnualVol:       0.2,
		ConfidenceLevel: 0.95,
		HorizonDays:     1,
	})
	require.NoError(t, err)

	// 100*190 + 50*400 = 39000
	assert.Equal(t, "39000", dto.PortfolioValue.String())
	assert.True(t, dto.VaR.IsPositive())
	assert.Equal(t, "parametric", dto.Method)
}

func TestComputeVaRHistoricalFromPrices(t *testing.T) {
	svc := newTestService()
	prices := []float64{100, 98, 101, 95, 103, 99, 104, 97, 105, 100, 96}

	dto, err := svc.ComputeVaR(context.Background(), VaRRequest{
		Positions:        stockOnlyPortfolio(),
		Method:           "historical",
		HistoricalPrices: prices,
		ConfidenceLevel:  0.90,
	})
	require.NoError(t, err)
	assert.True(t, dto.VaR.IsPositive())
	assert.Equal(t, 1, dto.HorizonDays, "horizon defaults to one day")
}

func TestComputeVaRRejectsUnknownMethod(t *testing.T) {
	svc := newTestService()
	_, err := svc.ComputeVaR(context.Background(), VaRRequest{
		Positions:       stockOnlyPortfolio(),
		Method:          "voodoo",
		ConfidenceLevel: 0.95,
	})
	assert.Error(t, err)
}

func TestComputeVaRRejectsEmptyPortfolio(t *testing.T) {
	svc := newTestService()
	_, err := svc.ComputeVaR(context.Background(), VaRRequest{
		Method:          "parametric",
		ConfidenceLevel: 0.95,
	})
	assert.Error(t, err)
}

func TestAggregateAndPnLDelegation(t *testing.T) {
	svc := newTestService()
	agg, err := svc.Aggregate(context.Background(), PortfolioRequest{Positions: stockOnlyPortfolio()})
	require.NoError(t, err)
	assert.Equal(t, 39000.0, agg.TotalValue)

	pnl, err := svc.PnL(context.Background(), PortfolioRequest{Positions: stockOnlyPortfolio()})
	require.NoError(t, err)
	// 100*(190-150) + 50*(400-380) = 5000
	assert.Equal(t, "5000", pnl.TotalPnL.String())
}
