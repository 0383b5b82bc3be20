// Package domain 利率曲线领域模型：由存款/互换报价自举零息曲线与贴现因子。
package domain

import (
	"math"
	"sort"

	"github.com/wyfcoding/pkg/xerrors"

	"github.com/wyfcoding/riskengine/pkg/numeric"
	"github.com/wyfcoding/riskengine/pkg/utils"
)

// InstrumentType 市场工具类型
type InstrumentType string

const (
	InstrumentDeposit InstrumentType = "deposit"
	InstrumentSwap    InstrumentType = "swap"
)

// Instrument 自举输入工具
type Instrument struct {
	Type           InstrumentType `json:"type"`
	Tenor          float64        `json:"tenor"` // 期限 (年)
	Rate           float64        `json:"rate"`
	PeriodsPerYear int            `json:"periods_per_year,omitempty"` // 互换固定腿付息频率，缺省为 1
}

// Curve 自举结果曲线。节点按期限严格递增，构建后不可变。
type Curve struct {
	Tenors          []float64 `json:"tenors"`
	ZeroRates       []float64 `json:"zero_rates"`
	DiscountFactors []float64 `json:"discount_factors"`
	Hash            string    `json:"curve_hash"`
}

// curveNode 参与哈希的规范化节点表示。
type curveNode struct {
	Tenor          float64 `json:"tenor"`
	DiscountFactor float64 `json:"discount_factor"`
}

// Bootstrap 依次自举贴现因子曲线。
// 输入先按期限升序排序，因此输出与报价顺序无关；
// 存款直接给出 DF(t) = 1/(1+r·t)，互换按平价方程迭代求解，
// 较早的票息日使用已建节点线性插值贴现。
func Bootstrap(instruments []Instrument) (*Curve, error) {
	if len(instruments) == 0 {
		return nil, xerrors.ErrEmptyData
	}

	sorted := make([]Instrument, len(instruments))
	copy(sorted, instruments)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Tenor < sorted[j].Tenor })

	tenors := make([]float64, 0, len(sorted))
	dfs := make([]float64, 0, len(sorted))

	for _, inst := range sorted {
		if inst.Tenor <= 0 {
			return nil, xerrors.ErrInvalidInput
		}
		if len(tenors) > 0 && inst.Tenor <= tenors[len(tenors)-1] {
			// 重复期限无法延展曲线
			return nil, xerrors.ErrInvalidInput
		}

		var df float64
		switch inst.Type {
		case InstrumentDeposit:
			df = 1 / (1 + inst.Rate*inst.Tenor)
		case InstrumentSwap:
			var err error
			df, err = bootstrapSwap(inst, tenors, dfs)
			if err != nil {
				return nil, err
			}
		default:
			return nil, xerrors.ErrInvalidInput
		}

		if df <= 0 || df > 1 {
			return nil, xerrors.ErrInvalidInput
		}
		tenors = append(tenors, inst.Tenor)
		dfs = append(dfs, df)
	}

	curve := &Curve{
		Tenors:          tenors,
		ZeroRates:       make([]float64, len(tenors)),
		DiscountFactors: make([]float64, len(dfs)),
	}
	nodes := make([]curveNode, len(tenors))
	for i, t := range tenors {
		curve.DiscountFactors[i] = numeric.Round(dfs[i])
		curve.ZeroRates[i] = numeric.Round(-math.Log(dfs[i]) / t)
		nodes[i] = curveNode{Tenor: t, DiscountFactor: curve.DiscountFactors[i]}
	}
	curve.Hash = utils.CanonicalHash(nodes)
	return curve, nil
}

// bootstrapSwap 解平价互换方程：rate·Δ·Σ DF(t_i) + DF(T) = 1。
// 最后一期 DF 为未知量，之前各期用已建曲线插值。
func bootstrapSwap(inst Instrument, tenors, dfs []float64) (float64, error) {
	m := inst.PeriodsPerYear
	if m == 0 {
		m = 1
	}
	if m < 1 {
		return 0, xerrors.ErrInvalidInput
	}

	delta := 1 / float64(m)
	n := int(math.Round(inst.Tenor * float64(m)))
	if n < 1 {
		return 0, xerrors.ErrInvalidInput
	}

	var annuity float64
	for i := 1; i < n; i++ {
		annuity += interpolateDF(tenors, dfs, float64(i)*delta)
	}

	denom := 1 + inst.Rate*delta
	return (1 - inst.Rate*delta*annuity) / denom, nil
}

// interpolateDF 在已建节点间对贴现因子线性插值。
// 隐含锚点 DF(0)=1；超出最后节点按末端值平推。
func interpolateDF(tenors, dfs []float64, t float64) float64 {
	if t <= 0 {
		return 1
	}
	if len(tenors) == 0 {
		return 1
	}
	if t >= tenors[len(tenors)-1] {
		return dfs[len(dfs)-1]
	}

	prevT, prevDF := 0.0, 1.0
	for i, nodeT := range tenors {
		if t <= nodeT {
			w := (t - prevT) / (nodeT - prevT)
			return prevDF + w*(dfs[i]-prevDF)
		}
		prevT, prevDF = nodeT, dfs[i]
	}
	return dfs[len(dfs)-1]
}

// DiscountFactorAt 返回任意期限的贴现因子（节点间线性插值）。
func (c *Curve) DiscountFactorAt(t float64) float64 {
	return interpolateDF(c.Tenors, c.DiscountFactors, t)
}

// ZeroRateAt 返回任意期限的零息利率。
func (c *Curve) ZeroRateAt(t float64) float64 {
	if t <= 0 {
		return 0
	}
	return -math.Log(c.DiscountFactorAt(t)) / t
}

// BondPriceFromCurve 用曲线逐笔贴现债券现金流定价，替代单一平坦收益率。
func BondPriceFromCurve(face, couponRate, years float64, periodsPerYear int, c *Curve) (float64, error) {
	if face <= 0 || periodsPerYear < 1 || couponRate < 0 {
		return 0, xerrors.ErrInvalidInput
	}
	if c == nil || len(c.Tenors) == 0 {
		return 0, xerrors.ErrEmptyData
	}
	if years <= 0 {
		return numeric.Round(face), nil
	}

	m := float64(periodsPerYear)
	n := int(years * m)
	coupon := face * couponRate / m

	// 本金始终在到期日贴现，即使到期落在首个付息期之内 (n == 0)。
	price := face * c.DiscountFactorAt(years)
	for i := 1; i <= n; i++ {
		price += coupon * c.DiscountFactorAt(float64(i)/m)
	}
	return numeric.Round(price), nil
}
