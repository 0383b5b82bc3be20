package domain

import (
	"math"
	"sort"

	bonddomain "github.com/wyfcoding/riskengine/internal/bond/domain"
	optiondomain "github.com/wyfcoding/riskengine/internal/option/domain"
	"github.com/wyfcoding/riskengine/pkg/numeric"
)

// PositionValue 单笔持仓的估值明细
type PositionValue struct {
	Index         int          `json:"index"`
	Symbol        string       `json:"symbol"`
	Kind          PositionKind `json:"kind"`
	Quantity      float64      `json:"quantity"`
	CurrentValue  float64      `json:"current_value"`
	PurchaseValue *float64     `json:"purchase_value,omitempty"` // 缺省表示成本不可得，不参与损益
	DeltaExposure float64      `json:"delta_exposure"`
}

// Failure 聚合中单笔持仓的失败记录（按下标定位，不中断整体聚合）
type Failure struct {
	Index  int    `json:"index"`
	Symbol string `json:"symbol"`
	Reason string `json:"reason"`
}

// SectorAggregate 行业汇总。输出按行业名排序，保证确定性。
type SectorAggregate struct {
	Sector string  `json:"sector"`
	Value  float64 `json:"value"`
	Weight float64 `json:"weight"`
}

// GreeksAggregate 组合层面按数量加权的希腊字母合计
type GreeksAggregate struct {
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Vega  float64 `json:"vega"`
	Theta float64 `json:"theta"`
	Rho   float64 `json:"rho"`
}

// AggregateResult 组合聚合结果
type AggregateResult struct {
	TotalValue    float64           `json:"total_value"`
	TotalPnL      float64           `json:"total_pnl"`
	DeltaExposure float64           `json:"delta_exposure"`
	GrossExposure float64           `json:"gross_exposure"`
	NetExposure   float64           `json:"net_exposure"`
	Sectors       []SectorAggregate `json:"sector_aggregation"`
	Greeks        *GreeksAggregate  `json:"greeks_aggregate,omitempty"`
	Positions     []PositionValue   `json:"positions"`
	Failures      []Failure         `json:"failures,omitempty"`
}

const defaultSector = "unclassified"

// Aggregate 聚合组合：逐笔估值并汇总市值、损益、敞口与行业分布。
// 单笔失败只记录在 Failures 中并从所有汇总里剔除，不会中断整体计算。
func Aggregate(positions []Position) *AggregateResult {
	result := &AggregateResult{
		Positions: make([]PositionValue, 0, len(positions)),
	}

	var greeks GreeksAggregate
	hasOptions := false
	sectorValues := make(map[string]float64)

	for i := range positions {
		p := &positions[i]
		if err := p.Validate(); err != nil {
			result.Failures = append(result.Failures, Failure{Index: i, Symbol: p.Symbol, Reason: err.Error()})
			continue
		}

		pv, optGreeks, err := valuePosition(i, p)
		if err != nil {
			result.Failures = append(result.Failures, Failure{Index: i, Symbol: p.Symbol, Reason: err.Error()})
			continue
		}

		result.TotalValue += pv.CurrentValue
		result.NetExposure += pv.CurrentValue
		result.GrossExposure += math.Abs(pv.CurrentValue)
		result.DeltaExposure += pv.DeltaExposure
		if pv.PurchaseValue != nil {
			result.TotalPnL += pv.CurrentValue - *pv.PurchaseValue
		}

		sector := p.Sector
		if sector == "" {
			sector = defaultSector
		}
		sectorValues[sector] += pv.CurrentValue

		if optGreeks != nil {
			hasOptions = true
			greeks.Delta += p.Quantity * optGreeks.Delta
			greeks.Gamma += p.Quantity * optGreeks.Gamma
			greeks.Vega += p.Quantity * optGreeks.Vega
			greeks.Theta += p.Quantity * optGreeks.Theta
			greeks.Rho += p.Quantity * optGreeks.Rho
		}

		result.Positions = append(result.Positions, pv)
	}

	result.TotalValue = numeric.Round(result.TotalValue)
	result.TotalPnL = numeric.Round(result.TotalPnL)
	result.DeltaExposure = numeric.Round(result.DeltaExposure)
	result.GrossExposure = numeric.Round(result.GrossExposure)
	result.NetExposure = numeric.Round(result.NetExposure)

	if hasOptions {
		greeks.Delta = numeric.Round(greeks.Delta)
		greeks.Gamma = numeric.Round(greeks.Gamma)
		greeks.Vega = numeric.Round(greeks.Vega)
		greeks.Theta = numeric.Round(greeks.Theta)
		greeks.Rho = numeric.Round(greeks.Rho)
		result.Greeks = &greeks
	}

	result.Sectors = sectorSlice(sectorValues, result.TotalValue)
	return result
}

// PnL 组合总损益。
func PnL(positions []Position) float64 {
	return Aggregate(positions).TotalPnL
}

// valuePosition 按品种估值：股票直接取现价，期权走 Black-Scholes，
// 债券由收益率贴现。返回期权希腊字母供组合层合计。
func valuePosition(index int, p *Position) (PositionValue, *optiondomain.Greeks, error) {
	pv := PositionValue{
		Index:    index,
		Symbol:   p.Symbol,
		Kind:     p.Kind,
		Quantity: p.Quantity,
	}

	switch p.Kind {
	case KindStock:
		pv.CurrentValue = numeric.Round(p.Quantity * p.Stock.CurrentPrice)
		purchase := numeric.Round(p.Quantity * p.Stock.PurchasePrice)
		pv.PurchaseValue = &purchase
		pv.DeltaExposure = pv.CurrentValue
		return pv, nil, nil

	case KindOption:
		optType, err := optiondomain.ParseOptionType(p.Option.OptionType)
		if err != nil {
			return pv, nil, err
		}
		in := optiondomain.PricingInput{
			S:     p.Option.UnderlyingPrice,
			K:     p.Option.Strike,
			T:     p.Option.TimeToMaturity,
			R:     p.Option.RiskFreeRate,
			Sigma: p.Option.Volatility,
		}
		price, err := optiondomain.Price(optType, in)
		if err != nil {
			return pv, nil, err
		}
		g, err := optiondomain.ComputeGreeks(optType, in)
		if err != nil {
			return pv, nil, err
		}

		pv.CurrentValue = numeric.Round(p.Quantity * price)
		purchase := numeric.Round(p.Quantity * *p.Option.PurchasePrice)
		pv.PurchaseValue = &purchase
		pv.DeltaExposure = numeric.Round(p.Quantity * g.Delta * p.Option.UnderlyingPrice)
		return pv, &g, nil

	case KindBond:
		terms := bonddomain.Terms{
			FaceValue:      p.Bond.FaceValue,
			CouponRate:     p.Bond.CouponRate,
			Years:          p.Bond.YearsToMaturity,
			PeriodsPerYear: p.Bond.PeriodsPerYear,
		}
		price, err := bonddomain.PriceFromYield(terms, p.Bond.YieldToMaturity)
		if err != nil {
			return pv, nil, err
		}
		pv.CurrentValue = numeric.Round(p.Quantity * price)
		if p.Bond.PurchasePrice != nil {
			purchase := numeric.Round(p.Quantity * *p.Bond.PurchasePrice)
			pv.PurchaseValue = &purchase
		}
		// 债券对股票类 delta 敞口无贡献
		return pv, nil, nil
	}
	return pv, nil, nil
}

// sectorSlice 将行业汇总从 map 转为按名称排序的切片，避免遍历顺序泄漏到输出。
func sectorSlice(values map[string]float64, total float64) []SectorAggregate {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]SectorAggregate, 0, len(names))
	for _, name := range names {
		agg := SectorAggregate{Sector: name, Value: numeric.Round(values[name])}
		if total != 0 {
			agg.Weight = numeric.Round(values[name] / total)
		}
		out = append(out, agg)
	}
	return out
}
