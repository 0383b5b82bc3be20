// Package domain 风险计算领域模型：参数法、历史模拟法与蒙特卡洛 VaR。
package domain

import (
	"math"
	"math/rand/v2"
	"slices"

	"github.com/wyfcoding/pkg/xerrors"

	"github.com/wyfcoding/riskengine/pkg/numeric"
)

// Method VaR 计算方法
type Method string

const (
	MethodParametric Method = "parametric"
	MethodHistorical Method = "historical"
	MethodMonteCarlo Method = "monte_carlo"
)

// ParseMethod 解析 VaR 方法字符串。
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodParametric, MethodHistorical, MethodMonteCarlo:
		return Method(s), nil
	default:
		return "", xerrors.ErrInvalidInput
	}
}

// 蒙特卡洛固定参数。种子与路径数是常量而非配置项：
// 同样的输入必须产生同样的输出，不允许墙钟或系统熵参与。
const (
	MonteCarloPaths = 10000
	mcSeed1         = 0x5EEDCA11
	mcSeed2         = 0
)

// Input VaR 计算输入。按方法取用相应字段。
type Input struct {
	Value       float64   // 当前组合价值
	AnnualVol   float64   // 年化波动率 (parametric / monte_carlo)
	Returns     []float64 // 历史收益率序列 (historical)
	HorizonDays int       // 持有期 (交易日)
}

// Compute 按指定方法计算 VaR。
// 约定：返回值为非负的潜在损失额；最差分位仍为盈利时返回 0。
func Compute(method Method, in Input, confidence float64) (float64, error) {
	switch method {
	case MethodParametric:
		return ParametricVaR(in.Value, in.AnnualVol, confidence, in.HorizonDays)
	case MethodHistorical:
		return HistoricalVaR(in.Value, in.Returns, confidence)
	case MethodMonteCarlo:
		return MonteCarloVaR(in.Value, in.AnnualVol, confidence, in.HorizonDays)
	default:
		return 0, xerrors.ErrInvalidInput
	}
}

func validateConfidence(confidence float64) error {
	if confidence <= 0 || confidence >= 1 {
		return xerrors.ErrInvalidInput
	}
	return nil
}

// ParametricVaR 参数法（正态假设）：
// VaR = V · σ · z(confidence) · √(h/252)，z 来自标准正态分位数函数。
func ParametricVaR(value, annualVol, confidence float64, horizonDays int) (float64, error) {
	if err := validateConfidence(confidence); err != nil {
		return 0, err
	}
	if annualVol < 0 || horizonDays < 1 {
		return 0, xerrors.ErrInvalidInput
	}

	z := numeric.NormInv(confidence)
	v := value * annualVol * z * math.Sqrt(float64(horizonDays)/numeric.TradingDaysPerYear)
	return numeric.Round(math.Max(0, v)), nil
}

// HistoricalVaR 历史模拟法：按收益率排序取 (1-confidence) 分位，
// 乘以当前组合价值得到损失额。
func HistoricalVaR(value float64, returns []float64, confidence float64) (float64, error) {
	if err := validateConfidence(confidence); err != nil {
		return 0, err
	}
	if len(returns) == 0 {
		return 0, xerrors.ErrEmptyData
	}

	sorted := slices.Clone(returns)
	slices.Sort(sorted)

	idx := tailIndex(len(sorted), confidence)
	return numeric.Round(math.Max(0, -sorted[idx]*value)), nil
}

// MonteCarloVaR 蒙特卡洛法：固定条数的单步 GBM 路径，
// S_T = S_0 · exp((−σ²/2)·dt + σ·√dt·Z)，取模拟损益的经验分位。
func MonteCarloVaR(value, annualVol, confidence float64, horizonDays int) (float64, error) {
	if err := validateConfidence(confidence); err != nil {
		return 0, err
	}
	if annualVol < 0 || horizonDays < 1 {
		return 0, xerrors.ErrInvalidInput
	}

	r := rand.New(rand.NewPCG(mcSeed1, mcSeed2))
	dt := float64(horizonDays) / numeric.TradingDaysPerYear
	drift := -0.5 * annualVol * annualVol * dt
	diffusion := annualVol * math.Sqrt(dt)

	pnl := make([]float64, MonteCarloPaths)
	for i := range pnl {
		z := r.NormFloat64()
		pnl[i] = value * (math.Exp(drift+diffusion*z) - 1)
	}
	slices.Sort(pnl)

	idx := tailIndex(len(pnl), confidence)
	return numeric.Round(math.Max(0, -pnl[idx])), nil
}

// tailIndex 损失尾部分位下标，截断到有效范围。
func tailIndex(n int, confidence float64) int {
	idx := int(math.Floor(float64(n) * (1 - confidence)))
	if idx < 0 {
		idx = 0
	}
	if idx >= n {
		idx = n - 1
	}
	return idx
}
