// Package domain 债券分析领域模型：定价、到期收益率、久期与凸性。
package domain

import (
	"math"

	"github.com/wyfcoding/pkg/xerrors"

	"github.com/wyfcoding/riskengine/pkg/numeric"
)

// Newton-Raphson 求解参数。
// 迭代次数固定上限是确定性要求：仅靠收敛判断的循环在不同浮点实现上
// 可能走不同步数，导致跨平台结果漂移。
const (
	maxIterations = 100
	tolerance     = 1e-8
	yieldStep     = 0.0001 // 前向差分步长
	minYield      = 0.0001
	maxYield      = 1.0
)

// Terms 债券基本条款
type Terms struct {
	FaceValue      float64 // 面值
	CouponRate     float64 // 年票息率
	Years          float64 // 剩余年限
	PeriodsPerYear int     // 每年付息次数
}

// Validate 校验条款。Years <= 0 属于退化情形而非错误，不在此处拦截。
func (t Terms) Validate() error {
	if t.FaceValue <= 0 || t.PeriodsPerYear < 1 || t.CouponRate < 0 {
		return xerrors.ErrInvalidInput
	}
	return nil
}

// periods 付息期数（整数截断）。
func (t Terms) periods() int {
	return int(t.Years * float64(t.PeriodsPerYear))
}

// coupon 每期票息金额。
func (t Terms) coupon() float64 {
	return t.FaceValue * t.CouponRate / float64(t.PeriodsPerYear)
}

// priceAt 给定到期收益率下的理论价格（未舍入，供内部迭代使用）。
// 票息只在完整付息期支付；本金按实际剩余年限的分数期数贴现，
// 到期落在首个付息期之内时不会退化成未贴现面值。
func (t Terms) priceAt(ytm float64) float64 {
	if t.Years <= 0 {
		return t.FaceValue
	}
	n := t.periods()
	r := ytm / float64(t.PeriodsPerYear)
	c := t.coupon()

	price := t.FaceValue / math.Pow(1+r, t.Years*float64(t.PeriodsPerYear))
	for i := 1; i <= n; i++ {
		price += c / math.Pow(1+r, float64(i))
	}
	return price
}

// PriceFromYield 由到期收益率计算债券价格。
// Years <= 0 时债券即刻到期，直接返回面值。
func PriceFromYield(t Terms, ytm float64) (float64, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}
	return numeric.Round(t.priceAt(ytm)), nil
}

// YieldFromPrice 由市场价格反解到期收益率。
// Newton-Raphson：初值取票息率，前向差分求数值导数，每步收益率
// 截断到 [minYield, maxYield] 防止发散。
// 迭代上限内未收敛时返回当前最优估计与 converged=false，而非报错。
func YieldFromPrice(t Terms, price float64) (ytm float64, converged bool, err error) {
	if err := t.Validate(); err != nil {
		return 0, false, err
	}
	if price <= 0 || t.Years <= 0 {
		return 0, false, xerrors.ErrInvalidInput
	}

	y := clampYield(t.CouponRate)
	for i := 0; i < maxIterations; i++ {
		diff := t.priceAt(y) - price
		if math.Abs(diff) < tolerance {
			return numeric.Round(y), true, nil
		}
		deriv := (t.priceAt(y+yieldStep) - t.priceAt(y)) / yieldStep
		if deriv == 0 {
			break
		}
		y = clampYield(y - diff/deriv)
	}

	converged = math.Abs(t.priceAt(y)-price) < tolerance
	return numeric.Round(y), converged, nil
}

func clampYield(y float64) float64 {
	return math.Min(math.Max(y, minYield), maxYield)
}

// MacaulayDuration 麦考利久期：现值加权的平均回收时间（年）。
// 零息债券的久期等于剩余年限。
func MacaulayDuration(t Terms, ytm float64) (float64, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}
	if t.Years <= 0 {
		return 0, nil
	}

	n := t.periods()
	m := float64(t.PeriodsPerYear)
	r := ytm / m
	c := t.coupon()
	price := t.priceAt(ytm)

	var weighted float64
	for i := 1; i <= n; i++ {
		cf := c
		if i == n {
			cf += t.FaceValue
		}
		pv := cf / math.Pow(1+r, float64(i))
		weighted += (float64(i) / m) * pv
	}
	return numeric.Round(weighted / price), nil
}

// ModifiedDuration 修正久期 = 麦考利久期 / (1 + ytm/m)。
func ModifiedDuration(t Terms, ytm float64) (float64, error) {
	mac, err := MacaulayDuration(t, ytm)
	if err != nil {
		return 0, err
	}
	return numeric.Round(mac / (1 + ytm/float64(t.PeriodsPerYear))), nil
}

// Convexity 凸性：贴现现金流按 i(i+1) 加权求和，以价格与付息频率平方归一。
// 固定票息债券的凸性恒为非负。
func Convexity(t Terms, ytm float64) (float64, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}
	if t.Years <= 0 {
		return 0, nil
	}

	n := t.periods()
	m := float64(t.PeriodsPerYear)
	r := ytm / m
	c := t.coupon()
	price := t.priceAt(ytm)

	var weighted float64
	for i := 1; i <= n; i++ {
		cf := c
		if i == n {
			cf += t.FaceValue
		}
		weighted += cf * float64(i) * float64(i+1) / math.Pow(1+r, float64(i)+2)
	}
	return numeric.Round(weighted / (price * m * m)), nil
}

// RiskMetrics 债券风险指标汇总
type RiskMetrics struct {
	Price            float64
	MacaulayDuration float64
	ModifiedDuration float64
	Convexity        float64
}

// ComputeRiskMetrics 一次性计算价格、久期与凸性。
func ComputeRiskMetrics(t Terms, ytm float64) (*RiskMetrics, error) {
	price, err := PriceFromYield(t, ytm)
	if err != nil {
		return nil, err
	}
	mac, err := MacaulayDuration(t, ytm)
	if err != nil {
		return nil, err
	}
	mod, err := ModifiedDuration(t, ytm)
	if err != nil {
		return nil, err
	}
	conv, err := Convexity(t, ytm)
	if err != nil {
		return nil, err
	}
	return &RiskMetrics{
		Price:            price,
		MacaulayDuration: mac,
		ModifiedDuration: mod,
		Convexity:        conv,
	}, nil
}
