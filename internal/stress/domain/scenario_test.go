package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	portfoliodomain "github.com/wyfcoding/riskengine/internal/portfolio/domain"
)

func f64(v float64) *float64 { return &v }

func mixedPortfolio() []portfoliodomain.Position {
	return []portfoliodomain.Position{
		{
			Kind: portfoliodomain.KindStock, Symbol: "AAPL", Quantity: 100,
			Stock: &portfoliodomain.StockTerms{CurrentPrice: 190, PurchasePrice: 150},
		},
		{
			Kind: portfoliodomain.KindStock, Symbol: "GOLD", Quantity: 10,
			Stock: &portfoliodomain.StockTerms{CurrentPrice: 2000, PurchasePrice: 1800},
		},
		{
			Kind: portfoliodomain.KindOption, Symbol: "AAPL_C200", Quantity: 10,
			Option: &portfoliodomain.OptionTerms{
				UnderlyingPrice: 190, Strike: 200, TimeToMaturity: 0.5,
				RiskFreeRate: 0.05, Volatility: 0.25, OptionType: "call",
				PurchasePrice: f64(6.5),
			},
		},
		{
			Kind: portfoliodomain.KindBond, Symbol: "UST10Y", Quantity: 20,
			Bond: &portfoliodomain.BondTerms{
				FaceValue: 1000, CouponRate: 0.04, YearsToMaturity: 10,
				YieldToMaturity: 0.045, PeriodsPerYear: 2,
			},
		},
	}
}

func TestApplyPresetEquityShock(t *testing.T) {
	engine := NewEngine()
	result, err := engine.ApplyPreset("equity_down_10pct", mixedPortfolio())
	require.NoError(t, err)

	assert.Equal(t, "equity_down_10pct", result.PresetID)
	assert.Contains(t, result.ShocksApplied, "equity_shift_pct")
	assert.InDelta(t, 171, result.Portfolio[0].Stock.CurrentPrice, 1e-9)
	assert.InDelta(t, 171, result.Portfolio[2].Option.UnderlyingPrice, 1e-9)
	// Bond terms untouched by an equity shock.
	assert.Equal(t, 0.045, result.Portfolio[3].Bond.YieldToMaturity)
}

func TestApplyPresetRateShock(t *testing.T) {
	engine := NewEngine()
	result, err := engine.ApplyPreset("rates_up_200bp", mixedPortfolio())
	require.NoError(t, err)

	assert.InDelta(t, 0.065, result.Portfolio[3].Bond.YieldToMaturity, 1e-9)
	assert.Equal(t, 190.0, result.Portfolio[0].Stock.CurrentPrice)
	assert.Equal(t, 0.25, result.Portfolio[2].Option.Volatility)
}

func TestApplyPresetVolShock(t *testing.T) {
	engine := NewEngine()
	result, err := engine.ApplyPreset("vol_up_25pct", mixedPortfolio())
	require.NoError(t, err)

	assert.InDelta(t, 0.3125, result.Portfolio[2].Option.Volatility, 1e-9)
	assert.Equal(t, 190.0, result.Portfolio[2].Option.UnderlyingPrice)
}

func TestCreditShockIsNoOpOnEquityOnlyPortfolio(t *testing.T) {
	engine := NewEngine()
	equityOnly := mixedPortfolio()[:2]

	result, err := engine.ApplyPreset("credit_widen_150bp", equityOnly)
	require.NoError(t, err)

	assert.Contains(t, result.ShocksApplied, "credit_spread_shift_bp")
	assert.Equal(t, 190.0, result.Portfolio[0].Stock.CurrentPrice)
	assert.Equal(t, 2000.0, result.Portfolio[1].Stock.CurrentPrice)
	assert.Equal(t, result.InputHash, result.StressedInputHash, "no field changed, hashes match")
}

func TestSymbolOverridesBeatTheBroadShift(t *testing.T) {
	engine := NewEngine()
	result, err := engine.ApplyPreset("gfc_2008", mixedPortfolio())
	require.NoError(t, err)

	assert.InDelta(t, 114, result.Portfolio[0].Stock.CurrentPrice, 1e-9, "AAPL -40%")
	assert.InDelta(t, 2200, result.Portfolio[1].Stock.CurrentPrice, 1e-9, "GOLD override +10%")
	assert.InDelta(t, 0.4, result.Portfolio[2].Option.Volatility, 1e-9, "vol +60%")
	assert.InDelta(t, 0.030, result.Portfolio[3].Bond.YieldToMaturity, 1e-9, "rates -150bp")
}

func TestApplyScenarioDoesNotMutateSource(t *testing.T) {
	source := mixedPortfolio()
	_, err := ApplyScenario(Scenario{Name: "adhoc", EquityShiftPct: -0.5, RateShiftBp: 300, VolatilityShiftPct: 1}, source)
	require.NoError(t, err)

	assert.Equal(t, 190.0, source[0].Stock.CurrentPrice)
	assert.Equal(t, 0.25, source[2].Option.Volatility)
	assert.Equal(t, 0.045, source[3].Bond.YieldToMaturity)
}

func TestApplyPresetDeterministicHashes(t *testing.T) {
	engine := NewEngine()
	first, err := engine.ApplyPreset("gfc_2008", mixedPortfolio())
	require.NoError(t, err)
	require.NotEmpty(t, first.InputHash)
	assert.NotEqual(t, first.InputHash, first.StressedInputHash)

	for i := 0; i < 9; i++ {
		again, err := engine.ApplyPreset("gfc_2008", mixedPortfolio())
		require.NoError(t, err)
		assert.Equal(t, first.InputHash, again.InputHash)
		assert.Equal(t, first.StressedInputHash, again.StressedInputHash)
	}
}

func TestApplyPresetUnknownID(t *testing.T) {
	engine := NewEngine()
	_, err := engine.ApplyPreset("asteroid_impact", mixedPortfolio())
	assert.Error(t, err)
}

func TestPresetsSortedByID(t *testing.T) {
	presets := NewEngine().Presets()
	require.NotEmpty(t, presets)
	for i := 1; i < len(presets); i++ {
		assert.Less(t, presets[i-1].ID, presets[i].ID)
	}
}
