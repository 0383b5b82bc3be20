// Package application 利率曲线服务的用例逻辑与 DTO。
package application

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/wyfcoding/riskengine/internal/curve/domain"
)

// BootstrapRequest 曲线自举请求 DTO
type BootstrapRequest struct {
	Instruments []InstrumentDTO `json:"instruments" binding:"required"`

	// 可选：自举完成后立即用曲线为一只债券定价。
	Bond *CurveBondDTO `json:"bond,omitempty"`
}

// InstrumentDTO 自举输入工具
type InstrumentDTO struct {
	Type           string  `json:"type" binding:"required"`
	Tenor          float64 `json:"tenor"`
	Rate           float64 `json:"rate"`
	PeriodsPerYear int     `json:"periods_per_year,omitempty"`
}

// CurveBondDTO 用曲线定价的债券条款
type CurveBondDTO struct {
	FaceValue       float64 `json:"face_value"`
	CouponRate      float64 `json:"coupon_rate"`
	YearsToMaturity float64 `json:"years_to_maturity"`
	PeriodsPerYear  int     `json:"periods_per_year"`
}

// BondPriceRequest 曲线定价债券请求 DTO
type BondPriceRequest struct {
	Instruments []InstrumentDTO `json:"instruments" binding:"required"`
	Bond        CurveBondDTO    `json:"bond" binding:"required"`
}

// BondPriceDTO 曲线定价债券结果
type BondPriceDTO struct {
	Price     decimal.Decimal `json:"price"`
	CurveHash string          `json:"curve_hash"`
}

// CurveDTO 自举结果曲线
type CurveDTO struct {
	Tenors          []float64        `json:"tenors"`
	ZeroRates       []float64        `json:"zero_rates"`
	DiscountFactors []float64        `json:"discount_factors"`
	CurveHash       string           `json:"curve_hash"`
	BondPrice       *decimal.Decimal `json:"bond_price,omitempty"`
}

// Service 利率曲线应用服务
type Service struct {
	logger *slog.Logger
}

// NewService 创建利率曲线应用服务。
func NewService(logger *slog.Logger) *Service {
	return &Service{logger: logger}
}

func toDomainInstruments(dtos []InstrumentDTO) []domain.Instrument {
	instruments := make([]domain.Instrument, len(dtos))
	for i, inst := range dtos {
		instruments[i] = domain.Instrument{
			Type:           domain.InstrumentType(inst.Type),
			Tenor:          inst.Tenor,
			Rate:           inst.Rate,
			PeriodsPerYear: inst.PeriodsPerYear,
		}
	}
	return instruments
}

// Bootstrap 由市场报价自举零息曲线，可选地为附带债券定价。
func (s *Service) Bootstrap(ctx context.Context, req BootstrapRequest) (*CurveDTO, error) {
	instruments := toDomainInstruments(req.Instruments)

	curve, err := domain.Bootstrap(instruments)
	if err != nil {
		return nil, err
	}

	dto := &CurveDTO{
		Tenors:          curve.Tenors,
		ZeroRates:       curve.ZeroRates,
		DiscountFactors: curve.DiscountFactors,
		CurveHash:       curve.Hash,
	}

	if req.Bond != nil {
		price, err := domain.BondPriceFromCurve(
			req.Bond.FaceValue, req.Bond.CouponRate, req.Bond.YearsToMaturity,
			req.Bond.PeriodsPerYear, curve,
		)
		if err != nil {
			return nil, err
		}
		d := decimal.NewFromFloat(price)
		dto.BondPrice = &d
	}

	s.logger.DebugContext(ctx, "curve bootstrapped",
		"instruments", len(instruments), "nodes", len(curve.Tenors), "hash", curve.Hash)
	return dto, nil
}

// BondPrice 自举曲线后用曲线逐笔贴现为债券定价。
func (s *Service) BondPrice(ctx context.Context, req BondPriceRequest) (*BondPriceDTO, error) {
	curve, err := domain.Bootstrap(toDomainInstruments(req.Instruments))
	if err != nil {
		return nil, err
	}

	price, err := domain.BondPriceFromCurve(
		req.Bond.FaceValue, req.Bond.CouponRate, req.Bond.YearsToMaturity,
		req.Bond.PeriodsPerYear, curve,
	)
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "bond priced off curve",
		"face_value", req.Bond.FaceValue, "price", price, "hash", curve.Hash)

	return &BondPriceDTO{
		Price:     decimal.NewFromFloat(price),
		CurveHash: curve.Hash,
	}, nil
}
