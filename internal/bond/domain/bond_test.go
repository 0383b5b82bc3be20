package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceAtPar(t *testing.T) {
	terms := Terms{FaceValue: 1000, CouponRate: 0.05, Years: 5, PeriodsPerYear: 2}
	price, err := PriceFromYield(terms, 0.05)
	require.NoError(t, err)
	assert.InDelta(t, 1000, price, 0.1)
}

func TestPriceYieldInverse(t *testing.T) {
	terms := Terms{FaceValue: 1000, CouponRate: 0.06, Years: 10, PeriodsPerYear: 2}

	// Premium bond: yield below coupon means price above par.
	price, err := PriceFromYield(terms, 0.04)
	require.NoError(t, err)
	assert.Greater(t, price, 1000.0)

	// Discount bond.
	price, err = PriceFromYield(terms, 0.08)
	require.NoError(t, err)
	assert.Less(t, price, 1000.0)
}

func TestPriceMaturedBond(t *testing.T) {
	terms := Terms{FaceValue: 1000, CouponRate: 0.05, Years: 0, PeriodsPerYear: 2}
	price, err := PriceFromYield(terms, 0.05)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, price)
}

func TestPriceSubPeriodMaturity(t *testing.T) {
	// Maturity inside the first coupon period: the redemption discounts over
	// the fractional period count instead of collapsing to undiscounted face.
	terms := Terms{FaceValue: 1000, CouponRate: 0, Years: 0.3, PeriodsPerYear: 1}
	price, err := PriceFromYield(terms, 0.05)
	require.NoError(t, err)
	assert.InDelta(t, 1000/math.Pow(1.05, 0.3), price, 1e-6)
	assert.Less(t, price, 1000.0)
}

func TestYieldFromPriceRoundTrip(t *testing.T) {
	terms := Terms{FaceValue: 1000, CouponRate: 0.05, Years: 7, PeriodsPerYear: 2}
	target := 0.0625

	price, err := PriceFromYield(terms, target)
	require.NoError(t, err)

	ytm, converged, err := YieldFromPrice(terms, price)
	require.NoError(t, err)
	assert.True(t, converged)
	assert.InDelta(t, target, ytm, 1e-5)
}

func TestYieldFromPriceDeterminism(t *testing.T) {
	terms := Terms{FaceValue: 1000, CouponRate: 0.04, Years: 12, PeriodsPerYear: 2}
	first, _, err := YieldFromPrice(terms, 912.37)
	require.NoError(t, err)
	for i := 0; i < 9; i++ {
		again, _, err := YieldFromPrice(terms, 912.37)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestZeroCouponDuration(t *testing.T) {
	terms := Terms{FaceValue: 1000, CouponRate: 0, Years: 10, PeriodsPerYear: 1}
	dur, err := MacaulayDuration(terms, 0.05)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, dur, 1e-9)
}

func TestDurationBelowMaturityForCouponBond(t *testing.T) {
	terms := Terms{FaceValue: 1000, CouponRate: 0.05, Years: 10, PeriodsPerYear: 2}
	dur, err := MacaulayDuration(terms, 0.05)
	require.NoError(t, err)
	assert.Less(t, dur, 10.0)
	assert.Greater(t, dur, 0.0)

	mod, err := ModifiedDuration(terms, 0.05)
	require.NoError(t, err)
	assert.InDelta(t, dur/(1+0.05/2), mod, 1e-6)
}

func TestConvexityNonNegative(t *testing.T) {
	for _, terms := range []Terms{
		{FaceValue: 1000, CouponRate: 0.05, Years: 5, PeriodsPerYear: 2},
		{FaceValue: 1000, CouponRate: 0, Years: 10, PeriodsPerYear: 1},
		{FaceValue: 100, CouponRate: 0.12, Years: 30, PeriodsPerYear: 4},
	} {
		conv, err := Convexity(terms, 0.06)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, conv, 0.0)
	}
}

func TestComputeRiskMetrics(t *testing.T) {
	terms := Terms{FaceValue: 1000, CouponRate: 0.05, Years: 5, PeriodsPerYear: 2}
	metrics, err := ComputeRiskMetrics(terms, 0.05)
	require.NoError(t, err)
	assert.InDelta(t, 1000, metrics.Price, 0.1)
	assert.Greater(t, metrics.MacaulayDuration, metrics.ModifiedDuration)
	assert.Greater(t, metrics.Convexity, 0.0)
}

func TestInvalidTerms(t *testing.T) {
	_, err := PriceFromYield(Terms{FaceValue: 0, CouponRate: 0.05, Years: 5, PeriodsPerYear: 2}, 0.05)
	assert.Error(t, err)

	_, err = PriceFromYield(Terms{FaceValue: 1000, CouponRate: 0.05, Years: 5, PeriodsPerYear: 0}, 0.05)
	assert.Error(t, err)

	_, _, err = YieldFromPrice(Terms{FaceValue: 1000, CouponRate: 0.05, Years: 5, PeriodsPerYear: 2}, -10)
	assert.Error(t, err)
}
