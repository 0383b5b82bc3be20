// Package domain 组合领域模型：持仓、估值与聚合。
package domain

import (
	"github.com/wyfcoding/pkg/xerrors"

	optiondomain "github.com/wyfcoding/riskengine/internal/option/domain"
)

// PositionKind 持仓品种
type PositionKind string

const (
	KindStock  PositionKind = "stock"
	KindOption PositionKind = "option"
	KindBond   PositionKind = "bond"
)

// StockTerms 股票持仓条款
type StockTerms struct {
	CurrentPrice  float64 `json:"current_price"`
	PurchasePrice float64 `json:"purchase_price"`
}

// OptionTerms 期权持仓条款。
// PurchasePrice 为必填：缺失成本价的期权持仓会被判为无效而非静默跳过，
// 避免用理论价回填虚构损益。
type OptionTerms struct {
	UnderlyingPrice float64  `json:"underlying_price"`
	Strike          float64  `json:"strike"`
	TimeToMaturity  float64  `json:"time_to_maturity"` // 年
	RiskFreeRate    float64  `json:"risk_free_rate"`
	Volatility      float64  `json:"volatility"`
	OptionType      string   `json:"option_type"`
	PurchasePrice   *float64 `json:"purchase_price"`
}

// BondTerms 债券持仓条款。PurchasePrice 可缺省，缺省时该持仓不参与损益汇总。
type BondTerms struct {
	FaceValue       float64  `json:"face_value"`
	CouponRate      float64  `json:"coupon_rate"`
	YearsToMaturity float64  `json:"years_to_maturity"`
	YieldToMaturity float64  `json:"yield_to_maturity"`
	PeriodsPerYear  int      `json:"periods_per_year"`
	PurchasePrice   *float64 `json:"purchase_price,omitempty"`
}

// Position 单笔持仓。Kind 决定哪一组条款生效（带标签的联合类型），
// 同一 symbol 允许多笔（分批建仓）。Quantity 为负表示空头。
type Position struct {
	Kind     PositionKind `json:"kind"`
	Symbol   string       `json:"symbol"`
	Sector   string       `json:"sector,omitempty"`
	Quantity float64      `json:"quantity"`

	Stock  *StockTerms  `json:"stock,omitempty"`
	Option *OptionTerms `json:"option,omitempty"`
	Bond   *BondTerms   `json:"bond,omitempty"`
}

// Validate 校验持仓结构：Kind 与条款一一对应，且只允许出现对应的一组条款。
func (p *Position) Validate() error {
	if p.Symbol == "" {
		return xerrors.ErrInvalidInput
	}

	switch p.Kind {
	case KindStock:
		if p.Stock == nil || p.Option != nil || p.Bond != nil {
			return xerrors.ErrInvalidInput
		}
		if p.Stock.CurrentPrice < 0 || p.Stock.PurchasePrice < 0 {
			return xerrors.ErrInvalidInput
		}
	case KindOption:
		if p.Option == nil || p.Stock != nil || p.Bond != nil {
			return xerrors.ErrInvalidInput
		}
		if _, err := optiondomain.ParseOptionType(p.Option.OptionType); err != nil {
			return err
		}
		if p.Option.PurchasePrice == nil {
			return xerrors.ErrInvalidInput
		}
	case KindBond:
		if p.Bond == nil || p.Stock != nil || p.Option != nil {
			return xerrors.ErrInvalidInput
		}
		if p.Bond.FaceValue <= 0 || p.Bond.PeriodsPerYear < 1 {
			return xerrors.ErrInvalidInput
		}
	default:
		return xerrors.ErrInvalidInput
	}
	return nil
}

// Clone 深拷贝持仓，供压力情景在副本上施加冲击。
func (p *Position) Clone() Position {
	out := *p
	if p.Stock != nil {
		s := *p.Stock
		out.Stock = &s
	}
	if p.Option != nil {
		o := *p.Option
		if p.Option.PurchasePrice != nil {
			pp := *p.Option.PurchasePrice
			o.PurchasePrice = &pp
		}
		out.Option = &o
	}
	if p.Bond != nil {
		b := *p.Bond
		if p.Bond.PurchasePrice != nil {
			pp := *p.Bond.PurchasePrice
			b.PurchasePrice = &pp
		}
		out.Bond = &b
	}
	return out
}

// ClonePortfolio 深拷贝整个组合。
func ClonePortfolio(positions []Position) []Position {
	out := make([]Position, len(positions))
	for i := range positions {
		out[i] = positions[i].Clone()
	}
	return out
}
