package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }

func samplePortfolio() []Position {
	return []Position{
		{
			Kind: KindStock, Symbol: "AAPL", Sector: "tech", Quantity: 100,
			Stock: &StockTerms{CurrentPrice: 190, PurchasePrice: 150},
		},
		{
			Kind: KindStock, Symbol: "XOM", Sector: "energy", Quantity: -50,
			Stock: &StockTerms{CurrentPrice: 110, PurchasePrice: 120},
		},
		{
			Kind: KindOption, Symbol: "AAPL_C200", Sector: "tech", Quantity: 10,
			Option: &OptionTerms{
				UnderlyingPrice: 190, Strike: 200, TimeToMaturity: 0.5,
				RiskFreeRate: 0.05, Volatility: 0.25, OptionType: "call",
				PurchasePrice: f64(6.5),
			},
		},
		{
			Kind: KindBond, Symbol: "UST10Y", Sector: "rates", Quantity: 20,
			Bond: &BondTerms{
				FaceValue: 1000, CouponRate: 0.04, YearsToMaturity: 10,
				YieldToMaturity: 0.045, PeriodsPerYear: 2, PurchasePrice: f64(980),
			},
		},
	}
}

func TestAggregateTotals(t *testing.T) {
	result := Aggregate(samplePortfolio())
	require.Empty(t, result.Failures)
	require.Len(t, result.Positions, 4)

	// Stock legs: 100*190 - 50*110 = 13500. Option and bond legs add on top.
	assert.Greater(t, result.TotalValue, 13500.0)
	assert.Equal(t, result.TotalValue, result.NetExposure)
	assert.Greater(t, result.GrossExposure, result.NetExposure, "short leg widens gross over net")

	// Stock P&L: 100*(190-150) = 4000 long, -50*(110-120) = +500 short.
	assert.Greater(t, result.TotalPnL, 4500.0)
}

func TestAggregateSectors(t *testing.T) {
	result := Aggregate(samplePortfolio())
	require.Len(t, result.Sectors, 3)

	// Sorted by sector name for deterministic output.
	assert.Equal(t, "energy", result.Sectors[0].Sector)
	assert.Equal(t, "rates", result.Sectors[1].Sector)
	assert.Equal(t, "tech", result.Sectors[2].Sector)
	assert.Equal(t, -5500.0, result.Sectors[0].Value)
}

func TestAggregateGreeks(t *testing.T) {
	result := Aggregate(samplePortfolio())
	require.NotNil(t, result.Greeks)
	assert.Greater(t, result.Greeks.Delta, 0.0, "long calls carry positive delta")
	assert.Greater(t, result.Greeks.Vega, 0.0)

	// Delta exposure includes 1-delta stock legs on top of the option legs.
	assert.NotEqual(t, result.DeltaExposure, 0.0)

	equityOnly := samplePortfolio()[:2]
	assert.Nil(t, Aggregate(equityOnly).Greeks, "no options, no greeks aggregate")
}

func TestAggregateCollectsFailuresWithoutAborting(t *testing.T) {
	portfolio := samplePortfolio()
	portfolio = append(portfolio,
		Position{
			Kind: KindOption, Symbol: "BROKEN_TYPE", Quantity: 1,
			Option: &OptionTerms{
				UnderlyingPrice: 100, Strike: 100, TimeToMaturity: 1,
				Volatility: 0.2, OptionType: "butterfly", PurchasePrice: f64(1),
			},
		},
		Position{
			Kind: KindOption, Symbol: "NO_COST_BASIS", Quantity: 1,
			Option: &OptionTerms{
				UnderlyingPrice: 100, Strike: 100, TimeToMaturity: 1,
				Volatility: 0.2, OptionType: "call", // purchase price missing
			},
		},
	)

	result := Aggregate(portfolio)
	require.Len(t, result.Failures, 2)
	assert.Equal(t, 4, result.Failures[0].Index)
	assert.Equal(t, "BROKEN_TYPE", result.Failures[0].Symbol)
	assert.Equal(t, 5, result.Failures[1].Index)
	require.Len(t, result.Positions, 4, "healthy positions still valued")

	// Failed positions contribute nothing to the totals.
	baseline := Aggregate(samplePortfolio())
	assert.Equal(t, baseline.TotalValue, result.TotalValue)
	assert.Equal(t, baseline.TotalPnL, result.TotalPnL)
}

func TestAggregateBondWithoutCostBasis(t *testing.T) {
	withCost := Aggregate(samplePortfolio())

	portfolio := samplePortfolio()
	portfolio[3].Bond.PurchasePrice = nil
	withoutCost := Aggregate(portfolio)

	require.Empty(t, withoutCost.Failures)
	assert.Equal(t, withCost.TotalValue, withoutCost.TotalValue, "value unaffected")
	assert.Less(t, withoutCost.TotalPnL, withCost.TotalPnL, "bond P&L dropped from the sum")
}

func TestAggregateDeterminism(t *testing.T) {
	first := Aggregate(samplePortfolio())
	for i := 0; i < 9; i++ {
		assert.Equal(t, first, Aggregate(samplePortfolio()))
	}
}

func TestPositionValidate(t *testing.T) {
	valid := samplePortfolio()[0]
	require.NoError(t, valid.Validate())

	mixed := valid
	mixed.Bond = &BondTerms{FaceValue: 1000, PeriodsPerYear: 2}
	assert.Error(t, mixed.Validate(), "stock position carrying bond terms")

	unknown := Position{Kind: "swap", Symbol: "X", Quantity: 1}
	assert.Error(t, unknown.Validate())

	empty := Position{Kind: KindStock, Symbol: "", Quantity: 1, Stock: &StockTerms{}}
	assert.Error(t, empty.Validate())
}

func TestCloneIsDeep(t *testing.T) {
	original := samplePortfolio()
	cloned := ClonePortfolio(original)

	cloned[0].Stock.CurrentPrice = 1
	cloned[2].Option.Volatility = 9
	*cloned[2].Option.PurchasePrice = 0
	cloned[3].Bond.YieldToMaturity = 1

	assert.Equal(t, 190.0, original[0].Stock.CurrentPrice)
	assert.Equal(t, 0.25, original[2].Option.Volatility)
	assert.Equal(t, 6.5, *original[2].Option.PurchasePrice)
	assert.Equal(t, 0.045, original[3].Bond.YieldToMaturity)
}

func TestPnL(t *testing.T) {
	result := Aggregate(samplePortfolio())
	assert.Equal(t, result.TotalPnL, PnL(samplePortfolio()))
}
