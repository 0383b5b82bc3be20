// Package domain 压力测试领域模型：命名冲击预设与情景施加。
package domain

import (
	"sort"

	"github.com/wyfcoding/pkg/xerrors"

	portfoliodomain "github.com/wyfcoding/riskengine/internal/portfolio/domain"
	"github.com/wyfcoding/riskengine/pkg/numeric"
	"github.com/wyfcoding/riskengine/pkg/utils"
)

// Scenario 一组冲击定义。各字段独立施加；零值字段不产生冲击。
type Scenario struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	RateShiftBp         float64            `json:"interest_rate_shift_bp,omitempty"` // 加到债券到期收益率
	EquityShiftPct      float64            `json:"equity_shift_pct,omitempty"`       // 股票/期权标的价格乘 (1+pct)
	VolatilityShiftPct  float64            `json:"volatility_shift_pct,omitempty"`   // 期权波动率乘 (1+pct)
	CreditSpreadShiftBp float64            `json:"credit_spread_shift_bp,omitempty"` // 预留给利差敏感工具，对无利差字段的持仓为空操作
	SymbolOverrides     map[string]float64 `json:"symbol_overrides,omitempty"`       // Symbol -> 价格冲击，覆盖 EquityShiftPct
}

// Result 情景施加结果。输入/输出哈希对用于验证冲击施加的确定性。
type Result struct {
	PresetID          string                     `json:"preset_id,omitempty"`
	ScenarioName      string                     `json:"scenario_name"`
	ShocksApplied     []string                   `json:"shocks_applied"`
	Portfolio         []portfoliodomain.Position `json:"stressed_portfolio"`
	InputHash         string                     `json:"input_hash"`
	StressedInputHash string                     `json:"stressed_input_hash"`
}

// Engine 压力测试引擎：持有不可变的命名预设库。
type Engine struct {
	presets map[string]*Scenario
}

// NewEngine 创建引擎并装载默认预设。
func NewEngine() *Engine {
	e := &Engine{presets: make(map[string]*Scenario)}
	e.initDefaultPresets()
	return e
}

func (e *Engine) initDefaultPresets() {
	for _, sc := range []*Scenario{
		{ID: "rates_up_200bp", Name: "Rates +200bp", Description: "Parallel upward shift of the yield curve", RateShiftBp: 200},
		{ID: "rates_down_100bp", Name: "Rates -100bp", Description: "Parallel downward shift of the yield curve", RateShiftBp: -100},
		{ID: "equity_down_10pct", Name: "Equity -10%", Description: "Broad equity selloff", EquityShiftPct: -0.10},
		{ID: "equity_down_25pct", Name: "Equity -25%", Description: "Severe equity drawdown", EquityShiftPct: -0.25},
		{ID: "vol_up_25pct", Name: "Volatility +25%", Description: "Implied volatility spike", VolatilityShiftPct: 0.25},
		{ID: "credit_widen_150bp", Name: "Credit +150bp", Description: "Credit spread widening", CreditSpreadShiftBp: 150},
		{
			ID:                 "gfc_2008",
			Name:               "Global Financial Crisis",
			Description:        "Market wide crash, vol spike, flight to quality",
			EquityShiftPct:     -0.40,
			VolatilityShiftPct: 0.60,
			RateShiftBp:        -150,
			SymbolOverrides:    map[string]float64{"GOLD": 0.10}, // 避险资产上涨
		},
	} {
		e.presets[sc.ID] = sc
	}
}

// Presets 返回全部预设，按 ID 排序。
func (e *Engine) Presets() []Scenario {
	out := make([]Scenario, 0, len(e.presets))
	for _, sc := range e.presets {
		out = append(out, *sc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ApplyPreset 对组合施加命名预设。
func (e *Engine) ApplyPreset(presetID string, positions []portfoliodomain.Position) (*Result, error) {
	sc, ok := e.presets[presetID]
	if !ok {
		return nil, xerrors.ErrInvalidInput
	}
	result, err := ApplyScenario(*sc, positions)
	if err != nil {
		return nil, err
	}
	result.PresetID = presetID
	return result, nil
}

// ApplyScenario 在组合副本上施加临时情景，源组合永不被修改。
func ApplyScenario(sc Scenario, positions []portfoliodomain.Position) (*Result, error) {
	inputHash := utils.CanonicalHash(positions)
	stressed := portfoliodomain.ClonePortfolio(positions)

	var shocks []string
	if sc.EquityShiftPct != 0 || len(sc.SymbolOverrides) > 0 {
		shocks = append(shocks, "equity_shift_pct")
		applyEquityShift(sc, stressed)
	}
	if sc.RateShiftBp != 0 {
		shocks = append(shocks, "interest_rate_shift_bp")
		applyRateShift(sc.RateShiftBp, stressed)
	}
	if sc.VolatilityShiftPct != 0 {
		shocks = append(shocks, "volatility_shift_pct")
		applyVolShift(sc.VolatilityShiftPct, stressed)
	}
	if sc.CreditSpreadShiftBp != 0 {
		// 当前持仓模型没有利差字段，记入清单但不改动任何价格
		shocks = append(shocks, "credit_spread_shift_bp")
	}

	return &Result{
		ScenarioName:      sc.Name,
		ShocksApplied:     shocks,
		Portfolio:         stressed,
		InputHash:         inputHash,
		StressedInputHash: utils.CanonicalHash(stressed),
	}, nil
}

func applyEquityShift(sc Scenario, positions []portfoliodomain.Position) {
	for i := range positions {
		shift := sc.EquityShiftPct
		if override, ok := sc.SymbolOverrides[positions[i].Symbol]; ok {
			shift = override
		}
		switch positions[i].Kind {
		case portfoliodomain.KindStock:
			if positions[i].Stock != nil {
				positions[i].Stock.CurrentPrice = numeric.Round(positions[i].Stock.CurrentPrice * (1 + shift))
			}
		case portfoliodomain.KindOption:
			if positions[i].Option != nil {
				positions[i].Option.UnderlyingPrice = numeric.Round(positions[i].Option.UnderlyingPrice * (1 + shift))
			}
		}
	}
}

func applyRateShift(bp float64, positions []portfoliodomain.Position) {
	shift := bp / 10000
	for i := range positions {
		if positions[i].Kind == portfoliodomain.KindBond && positions[i].Bond != nil {
			positions[i].Bond.YieldToMaturity = numeric.Round(positions[i].Bond.YieldToMaturity + shift)
		}
	}
}

func applyVolShift(pct float64, positions []portfoliodomain.Position) {
	for i := range positions {
		if positions[i].Kind == portfoliodomain.KindOption && positions[i].Option != nil {
			positions[i].Option.Volatility = numeric.Round(positions[i].Option.Volatility * (1 + pct))
		}
	}
}
