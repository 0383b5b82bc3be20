// Package numeric 提供风险引擎共享的数值工具：统一输出精度、标准正态分布函数与分位数。
package numeric

import "math"

// Precision 引擎统一输出精度（小数位数）。
// 所有对外返回值以及参与哈希的数值均先经 Round 处理，保证下游哈希稳定。
const Precision = 8

// precisionScale = 10^Precision
const precisionScale = 1e8

// TradingDaysPerYear 年化换算使用的交易日数。
const TradingDaysPerYear = 252.0

// Round 按引擎统一精度四舍五入。
func Round(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	return math.Round(x*precisionScale) / precisionScale
}

// NormCDF 标准正态分布累积分布函数。
// 基于误差函数实现，跨平台位级可复现。
func NormCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}

// NormPDF 标准正态分布概率密度函数。
func NormPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / math.Sqrt(2*math.Pi)
}

// Acklam 有理逼近系数。
var (
	normInvA = [6]float64{
		-3.969683028665376e+01, 2.209460984245205e+02, -2.759285104469687e+02,
		1.383577518672690e+02, -3.066479806614716e+01, 2.506628277459239e+00,
	}
	normInvB = [5]float64{
		-5.447609879822406e+01, 1.615858368580409e+02, -1.556989798598866e+02,
		6.680131188771972e+01, -1.328068155288572e+01,
	}
	normInvC = [6]float64{
		-7.784894002430293e-03, -3.223964580411365e-01, -2.400758277161838e+00,
		-2.549732539343734e+00, 4.374664141464968e+00, 2.938163982698783e+00,
	}
	normInvD = [4]float64{
		7.784695709041462e-03, 3.224671290700398e-01,
		2.445134137142996e+00, 3.754408661907416e+00,
	}
)

// NormInv 标准正态分布分位数（逆 CDF），Acklam 有理逼近，相对误差约 1.15e-9。
// 任意置信度都能得到确定性的 z 值，不依赖查表或硬编码常量。
func NormInv(p float64) float64 {
	switch {
	case p <= 0:
		return math.Inf(-1)
	case p >= 1:
		return math.Inf(1)
	}

	const pLow = 0.02425
	const pHigh = 1 - pLow

	a, b, c, d := normInvA, normInvB, normInvC, normInvD

	switch {
	case p < pLow:
		// 左尾
		q := math.Sqrt(-2 * math.Log(p))
		return (((((c[0]*q+c[1])*q+c[2])*q+c[3])*q+c[4])*q + c[5]) /
			((((d[0]*q+d[1])*q+d[2])*q+d[3])*q + 1)
	case p <= pHigh:
		// 中段
		q := p - 0.5
		r := q * q
		return (((((a[0]*r+a[1])*r+a[2])*r+a[3])*r+a[4])*r + a[5]) * q /
			(((((b[0]*r+b[1])*r+b[2])*r+b[3])*r+b[4])*r + 1)
	default:
		// 右尾
		q := math.Sqrt(-2 * math.Log(1-p))
		return -(((((c[0]*q+c[1])*q+c[2])*q+c[3])*q+c[4])*q + c[5]) /
			((((d[0]*q+d[1])*q+d[2])*q+d[3])*q + 1)
	}
}
