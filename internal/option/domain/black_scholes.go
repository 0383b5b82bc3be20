// Package domain 期权定价领域模型：Black-Scholes-Merton 闭式解与希腊字母。
package domain

import (
	"math"

	"github.com/wyfcoding/pkg/xerrors"

	"github.com/wyfcoding/riskengine/pkg/numeric"
)

// OptionType 期权类型
type OptionType string

const (
	OptionTypeCall OptionType = "call"
	OptionTypePut  OptionType = "put"
)

// ParseOptionType 解析期权类型字符串。
func ParseOptionType(s string) (OptionType, error) {
	switch OptionType(s) {
	case OptionTypeCall:
		return OptionTypeCall, nil
	case OptionTypePut:
		return OptionTypePut, nil
	default:
		return "", xerrors.ErrInvalidOptionType
	}
}

// PricingInput Black-Scholes 模型输入
type PricingInput struct {
	S     float64 // 标的资产价格
	K     float64 // 执行价格
	T     float64 // 到期时间 (年)
	R     float64 // 无风险利率
	Sigma float64 // 年化波动率
}

// Greeks 期权价格对各参数的敏感度（闭式导数，未做 /100、/365 缩放）
type Greeks struct {
	Delta float64
	Gamma float64
	Vega  float64
	Theta float64
	Rho   float64
}

// validate 校验输入。S、K 必须为正；T、Sigma 允许为零（退化情形），不允许为负。
func (in PricingInput) validate() error {
	if in.S <= 0 || in.K <= 0 {
		return xerrors.ErrInvalidInput
	}
	if in.T < 0 || in.Sigma < 0 {
		return xerrors.ErrInvalidInput
	}
	return nil
}

// degenerate 判断是否为退化情形：到期或波动率为零时期权价值是确定性贴现收益。
func (in PricingInput) degenerate() bool {
	return in.T == 0 || in.Sigma == 0
}

// d1d2 计算 d1、d2。仅在非退化情形下调用。
func (in PricingInput) d1d2() (float64, float64) {
	sqrtT := math.Sqrt(in.T)
	d1 := (math.Log(in.S/in.K) + (in.R+0.5*in.Sigma*in.Sigma)*in.T) / (in.Sigma * sqrtT)
	return d1, d1 - in.Sigma*sqrtT
}

// Price 计算期权价格。
// T == 0 时返回行权收益；Sigma == 0 时标的按无风险利率确定性增长，
// 返回贴现后的确定性收益。
func Price(optionType OptionType, in PricingInput) (float64, error) {
	if err := in.validate(); err != nil {
		return 0, err
	}
	if optionType != OptionTypeCall && optionType != OptionTypePut {
		return 0, xerrors.ErrInvalidOptionType
	}

	if in.degenerate() {
		return numeric.Round(degeneratePrice(optionType, in)), nil
	}

	d1, d2 := in.d1d2()
	discK := in.K * math.Exp(-in.R*in.T)

	var price float64
	if optionType == OptionTypeCall {
		price = in.S*numeric.NormCDF(d1) - discK*numeric.NormCDF(d2)
	} else {
		price = discK*numeric.NormCDF(-d2) - in.S*numeric.NormCDF(-d1)
	}
	return numeric.Round(price), nil
}

// degeneratePrice 退化情形下的确定性价值。
func degeneratePrice(optionType OptionType, in PricingInput) float64 {
	discK := in.K * math.Exp(-in.R*in.T) // T==0 时即为 K
	if optionType == OptionTypeCall {
		return math.Max(in.S-discK, 0)
	}
	return math.Max(discK-in.S, 0)
}

// ComputeGreeks 计算期权希腊字母。
// 退化情形下 Gamma/Vega/Theta/Rho 为零，Delta 按内在价值取阶跃值。
func ComputeGreeks(optionType OptionType, in PricingInput) (Greeks, error) {
	if err := in.validate(); err != nil {
		return Greeks{}, err
	}
	if optionType != OptionTypeCall && optionType != OptionTypePut {
		return Greeks{}, xerrors.ErrInvalidOptionType
	}

	if in.degenerate() {
		return degenerateGreeks(optionType, in), nil
	}

	d1, d2 := in.d1d2()
	sqrtT := math.Sqrt(in.T)
	discK := in.K * math.Exp(-in.R*in.T)
	pdfD1 := numeric.NormPDF(d1)

	g := Greeks{
		Gamma: pdfD1 / (in.S * in.Sigma * sqrtT),
		Vega:  in.S * pdfD1 * sqrtT,
	}

	if optionType == OptionTypeCall {
		g.Delta = numeric.NormCDF(d1)
		g.Theta = -(in.S*pdfD1*in.Sigma)/(2*sqrtT) - in.R*discK*numeric.NormCDF(d2)
		g.Rho = in.K * in.T * math.Exp(-in.R*in.T) * numeric.NormCDF(d2)
	} else {
		g.Delta = numeric.NormCDF(d1) - 1
		g.Theta = -(in.S*pdfD1*in.Sigma)/(2*sqrtT) + in.R*discK*numeric.NormCDF(-d2)
		g.Rho = -in.K * in.T * math.Exp(-in.R*in.T) * numeric.NormCDF(-d2)
	}

	g.Delta = numeric.Round(g.Delta)
	g.Gamma = numeric.Round(g.Gamma)
	g.Vega = numeric.Round(g.Vega)
	g.Theta = numeric.Round(g.Theta)
	g.Rho = numeric.Round(g.Rho)
	return g, nil
}

func degenerateGreeks(optionType OptionType, in PricingInput) Greeks {
	discK := in.K * math.Exp(-in.R*in.T)
	var delta float64
	if optionType == OptionTypeCall && in.S > discK {
		delta = 1
	} else if optionType == OptionTypePut && in.S < discK {
		delta = -1
	}
	return Greeks{Delta: delta}
}
